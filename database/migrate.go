// database/migrate.go - Database Migration Runner
package database

import (
	"log"
	"triviaclub/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.AchievementDefinition{},
		&models.UserAchievement{},
		&models.QuizCompletion{},
		&models.Season{},
		&models.SeasonStats{},
		&models.Referral{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()

	log.Println("✅ All migrations completed successfully")
}

// createIndexes creates indexes the struct tags don't cover
func createIndexes() {
	db := GetDB()

	// User indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_subscription ON users(subscription_status)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_referral_code ON users(referral_code)")

	// Completion indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_quiz_completions_user ON quiz_completions(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_quiz_completions_completed ON quiz_completions(completed_at DESC)")

	// Achievement indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_achievement_definitions_type ON achievement_definitions(unlock_condition_type)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_user_achievements_user ON user_achievements(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_user_achievements_achievement ON user_achievements(achievement_id)")

	// Season indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_seasons_range ON seasons(start_date, end_date)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_season_stats_season ON season_stats(season_id)")

	// Referral indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_referrals_referrer ON referrals(referrer_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_referrals_status ON referrals(status)")
}
