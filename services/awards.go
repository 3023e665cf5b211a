// services/awards.go - Idempotent achievement progress and unlock writes
package services

import (
	"time"

	"triviaclub/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AwardStore owns the user_achievements table. All writes are conditional:
// progress only moves forward and an unlock happens at most once per
// (user, achievement), even when concurrent submissions race.
type AwardStore struct {
	db *gorm.DB
}

func NewAwardStore(db *gorm.DB) *AwardStore {
	return &AwardStore{db: db}
}

var userAchievementKey = []clause.Column{
	{Name: "user_id"},
	{Name: "achievement_id"},
}

// RecordProgress creates the progress row if absent, otherwise raises the
// stored progress. Lower values and already-unlocked rows are left alone.
func (s *AwardStore) RecordProgress(userID, achievementID string, value, max int) error {
	row := models.UserAchievement{
		ID:            uuid.New().String(),
		UserID:        userID,
		AchievementID: achievementID,
		ProgressValue: &value,
		ProgressMax:   &max,
	}

	res := s.db.Clauses(clause.OnConflict{Columns: userAchievementKey, DoNothing: true}).Create(&row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	return s.db.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ? AND unlocked_at IS NULL", userID, achievementID).
		Where("progress_value IS NULL OR progress_value < ?", value).
		Updates(map[string]interface{}{
			"progress_value": value,
			"progress_max":   max,
		}).Error
}

// GrantAward unlocks an achievement for a user. It reports true only for
// the caller that actually performed the unlock; repeated or racing calls
// get false with no error. The insert-or-update-where-null shape, not a
// read-then-write, is what makes the exactly-once guarantee hold.
func (s *AwardStore) GrantAward(userID, achievementID, quizSlug string, meta datatypes.JSON) (bool, error) {
	now := time.Now().UTC()
	row := models.UserAchievement{
		ID:            uuid.New().String(),
		UserID:        userID,
		AchievementID: achievementID,
		UnlockedAt:    &now,
		QuizSlug:      quizSlug,
		Meta:          meta,
	}

	res := s.db.Clauses(clause.OnConflict{Columns: userAchievementKey, DoNothing: true}).Create(&row)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	// A row already exists, either progress-only or unlocked. The
	// unlocked_at IS NULL condition decides which caller wins.
	upd := s.db.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ? AND unlocked_at IS NULL", userID, achievementID).
		Updates(map[string]interface{}{
			"unlocked_at":    now,
			"quiz_slug":      quizSlug,
			"meta":           meta,
			"progress_value": nil,
			"progress_max":   nil,
		})
	if upd.Error != nil {
		return false, upd.Error
	}
	return upd.RowsAffected > 0, nil
}

// UnlockedIDs returns the set of achievement IDs the user has unlocked.
func (s *AwardStore) UnlockedIDs(userID string) (map[string]bool, error) {
	var ids []string
	err := s.db.Model(&models.UserAchievement{}).
		Where("user_id = ? AND unlocked_at IS NOT NULL", userID).
		Pluck("achievement_id", &ids).Error
	if err != nil {
		return nil, err
	}

	unlocked := make(map[string]bool, len(ids))
	for _, id := range ids {
		unlocked[id] = true
	}
	return unlocked, nil
}
