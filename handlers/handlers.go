// handlers/handlers.go - shared handler wiring
package handlers

import (
	"time"

	"triviaclub/database"
	"triviaclub/services"
)

var (
	catalogService     *services.CatalogService
	awardStore         *services.AwardStore
	seasonStatsService *services.SeasonStatsService
	referralService    *services.ReferralService
	completionService  *services.CompletionService
	unlockNotifier     *services.UnlockNotifier
)

// Init wires the progression services against the shared database handle.
// Call after database.InitDB.
func Init() {
	db := database.GetDB()

	catalogService = services.NewCatalogService(db, 5*time.Minute)
	awardStore = services.NewAwardStore(db)
	seasonStatsService = services.NewSeasonStatsService(db)
	referralService = services.NewReferralService(db)
	unlockNotifier = services.NewUnlockNotifier()
	completionService = services.NewCompletionService(db, catalogService, awardStore, seasonStatsService, unlockNotifier)
}

// Catalog exposes the shared catalog service to the admin handlers so
// catalog writes can refresh the cache.
func Catalog() *services.CatalogService {
	return catalogService
}
