// services/catalog.go - Achievement catalog read model
package services

import (
	"sync"
	"time"

	"triviaclub/models"

	"gorm.io/gorm"
)

// CatalogService serves the achievement catalog from a process-wide
// read-through cache. Definitions only change through admin tooling, which
// calls Refresh after writing; the TTL picks up changes made by other
// processes eventually.
type CatalogService struct {
	db  *gorm.DB
	ttl time.Duration

	mu       sync.RWMutex
	defs     []models.AchievementDefinition
	loadedAt time.Time
}

func NewCatalogService(db *gorm.DB, ttl time.Duration) *CatalogService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogService{db: db, ttl: ttl}
}

// Definitions returns all catalog entries, loading from the database when
// the cache is cold or stale. The returned slice must not be mutated.
func (s *CatalogService) Definitions() ([]models.AchievementDefinition, error) {
	s.mu.RLock()
	if !s.loadedAt.IsZero() && time.Since(s.loadedAt) < s.ttl {
		defs := s.defs
		s.mu.RUnlock()
		return defs, nil
	}
	s.mu.RUnlock()

	return s.load()
}

// Refresh reloads the catalog immediately. Admin catalog writes call this
// so new definitions take effect without waiting out the TTL.
func (s *CatalogService) Refresh() error {
	_, err := s.load()
	return err
}

func (s *CatalogService) load() ([]models.AchievementDefinition, error) {
	var defs []models.AchievementDefinition
	if err := s.db.Order("slug").Find(&defs).Error; err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.defs = defs
	s.loadedAt = time.Now()
	s.mu.Unlock()

	return defs, nil
}
