package services

import (
	"errors"
	"testing"
	"time"

	"triviaclub/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newCompletionService(db *gorm.DB) *CompletionService {
	return NewCompletionService(
		db,
		NewCatalogService(db, time.Minute),
		NewAwardStore(db),
		NewSeasonStatsService(db),
		nil,
	)
}

func seedUser(t *testing.T, db *gorm.DB, id string) models.User {
	t.Helper()
	user := models.User{
		ID:           id,
		Username:     "player-" + id,
		ReferralCode: "CODE" + id,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedSeason(t *testing.T, db *gorm.DB, slug string, start, end time.Time) models.Season {
	t.Helper()
	season := models.Season{
		ID:        "season-" + slug,
		Slug:      slug,
		Name:      slug,
		StartDate: start,
		EndDate:   end,
	}
	if err := db.Create(&season).Error; err != nil {
		t.Fatalf("failed to seed season: %v", err)
	}
	return season
}

func TestCompleteMonotonicScore(t *testing.T) {
	for _, order := range [][]int{{10, 7, 15}, {15, 7, 10}} {
		db := newTestDB(t)
		svc := newCompletionService(db)
		seedUser(t, db, "u1")

		for _, score := range order {
			_, err := svc.Complete(CompletionEvent{
				UserID:         "u1",
				QuizSlug:       "42",
				Score:          score,
				TotalQuestions: 25,
				PlayedAt:       date(2025, time.March, 5),
			})
			if err != nil {
				t.Fatalf("complete with score %d failed: %v", score, err)
			}
		}

		var completion models.QuizCompletion
		if err := db.First(&completion, "user_id = ? AND quiz_slug = ?", "u1", "42").Error; err != nil {
			t.Fatalf("failed to load completion: %v", err)
		}
		if completion.Score != 15 {
			t.Fatalf("order %v: stored score = %d, want 15", order, completion.Score)
		}
	}
}

func TestCompleteEndToEnd(t *testing.T) {
	db := newTestDB(t)
	svc := newCompletionService(db)
	seedUser(t, db, "u1")

	playedAt := date(2025, time.March, 5)
	season := seedSeason(t, db, "spring-2025",
		date(2025, time.March, 1), date(2025, time.May, 31))

	def := models.AchievementDefinition{
		ID:                    "a1",
		Slug:                  "science-sprinter",
		Name:                  "Science Sprinter",
		UnlockConditionType:   models.ConditionPerfectInCategoryUnderSeconds,
		UnlockConditionConfig: datatypes.JSON(`{"category":"science","seconds":100}`),
		Points:                50,
	}
	if err := db.Create(&def).Error; err != nil {
		t.Fatalf("failed to seed definition: %v", err)
	}

	event := CompletionEvent{
		UserID:         "u1",
		QuizSlug:       "42",
		Score:          25,
		TotalQuestions: 25,
		RoundScores: []RoundResult{
			{RoundNumber: 1, Category: "science", Score: 25, TotalQuestions: 25, TimeSeconds: 80},
		},
		PlayedAt: playedAt,
	}

	result, err := svc.Complete(event)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if len(result.NewlyUnlocked) != 1 || result.NewlyUnlocked[0].ID != "a1" {
		t.Fatalf("expected a1 newly unlocked, got %+v", result.NewlyUnlocked)
	}

	var ua models.UserAchievement
	if err := db.First(&ua, "user_id = ? AND achievement_id = ?", "u1", "a1").Error; err != nil {
		t.Fatalf("failed to load user achievement: %v", err)
	}
	if !ua.Unlocked() {
		t.Fatal("achievement should be unlocked")
	}
	if ua.QuizSlug != "42" {
		t.Fatalf("unlock should record the triggering quiz, got %q", ua.QuizSlug)
	}

	var stats models.SeasonStats
	if err := db.First(&stats, "user_id = ? AND season_id = ?", "u1", season.ID).Error; err != nil {
		t.Fatalf("failed to load season stats: %v", err)
	}
	if stats.PerfectScores != 1 {
		t.Fatalf("perfect scores = %d, want 1", stats.PerfectScores)
	}
	if stats.AchievementsUnlocked != 1 {
		t.Fatalf("achievements unlocked = %d, want 1", stats.AchievementsUnlocked)
	}
	if stats.QuizzesPlayed != 1 {
		t.Fatalf("quizzes played = %d, want 1", stats.QuizzesPlayed)
	}

	// Resubmitting the identical event unlocks nothing new.
	result, err = svc.Complete(event)
	if err != nil {
		t.Fatalf("resubmission failed: %v", err)
	}
	if len(result.NewlyUnlocked) != 0 {
		t.Fatalf("resubmission must not unlock again, got %+v", result.NewlyUnlocked)
	}

	if err := db.First(&stats, "user_id = ? AND season_id = ?", "u1", season.ID).Error; err != nil {
		t.Fatalf("failed to reload season stats: %v", err)
	}
	if stats.AchievementsUnlocked != 1 {
		t.Fatalf("achievements unlocked after resubmission = %d, want 1", stats.AchievementsUnlocked)
	}
	if stats.QuizzesPlayed != 2 {
		t.Fatalf("quizzes played after resubmission = %d, want 2", stats.QuizzesPlayed)
	}
}

func TestCompleteSkipsBrokenCatalogRows(t *testing.T) {
	db := newTestDB(t)
	svc := newCompletionService(db)
	seedUser(t, db, "u1")

	broken := models.AchievementDefinition{
		ID:                    "broken",
		Slug:                  "broken",
		UnlockConditionType:   models.ConditionPerfectInCategoryUnderSeconds,
		UnlockConditionConfig: datatypes.JSON(`{"category":`),
	}
	valid := models.AchievementDefinition{
		ID:                    "valid",
		Slug:                  "valid",
		UnlockConditionType:   models.ConditionPerfectInCategoryUnderSeconds,
		UnlockConditionConfig: datatypes.JSON(`{"category":"history","seconds":120}`),
	}
	if err := db.Create(&broken).Error; err != nil {
		t.Fatalf("failed to seed broken definition: %v", err)
	}
	if err := db.Create(&valid).Error; err != nil {
		t.Fatalf("failed to seed valid definition: %v", err)
	}

	result, err := svc.Complete(CompletionEvent{
		UserID:         "u1",
		QuizSlug:       "42",
		Score:          5,
		TotalQuestions: 5,
		RoundScores: []RoundResult{
			{RoundNumber: 1, Category: "history", Score: 5, TotalQuestions: 5, TimeSeconds: 60},
		},
		PlayedAt: date(2025, time.March, 5),
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if len(result.NewlyUnlocked) != 1 || result.NewlyUnlocked[0].ID != "valid" {
		t.Fatalf("broken row must not block the sweep, got %+v", result.NewlyUnlocked)
	}
}

func TestCompletePremiumOnlySkippedForFreeUsers(t *testing.T) {
	db := newTestDB(t)
	svc := newCompletionService(db)
	seedUser(t, db, "u1")

	def := models.AchievementDefinition{
		ID:                    "vip",
		Slug:                  "vip-only",
		IsPremiumOnly:         true,
		UnlockConditionType:   models.ConditionPerfectInCategoryUnderSeconds,
		UnlockConditionConfig: datatypes.JSON(`{"category":"history","seconds":120}`),
	}
	if err := db.Create(&def).Error; err != nil {
		t.Fatalf("failed to seed definition: %v", err)
	}

	result, err := svc.Complete(CompletionEvent{
		UserID:         "u1",
		QuizSlug:       "42",
		Score:          5,
		TotalQuestions: 5,
		RoundScores: []RoundResult{
			{RoundNumber: 1, Category: "history", Score: 5, TotalQuestions: 5, TimeSeconds: 60},
		},
		PlayedAt: date(2025, time.March, 5),
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if len(result.NewlyUnlocked) != 0 {
		t.Fatalf("premium-only achievement must not unlock for free users, got %+v", result.NewlyUnlocked)
	}
}

func TestCompleteValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newCompletionService(db)

	_, err := svc.Complete(CompletionEvent{QuizSlug: "42", TotalQuestions: 25})
	if !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent for missing user, got %v", err)
	}

	_, err = svc.Complete(CompletionEvent{UserID: "ghost", QuizSlug: "42", TotalQuestions: 25})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
