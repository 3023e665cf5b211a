package services

import (
	"testing"

	"triviaclub/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test. A single pooled
// connection keeps sqlite happy under concurrent test goroutines.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.AchievementDefinition{},
		&models.UserAchievement{},
		&models.QuizCompletion{},
		&models.Season{},
		&models.SeasonStats{},
		&models.Referral{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}
