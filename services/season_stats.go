// services/season_stats.go - Per-season statistics rollup
package services

import (
	"errors"
	"time"

	"triviaclub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeasonStatsService aggregates completion outcomes into the per-player,
// per-season summary row.
//
// The update path is a plain read-modify-write: two completions landing in
// the same season at the same instant can lose one average-score update,
// and a late-arriving older completion moves LastPlayedAt backwards. Both
// match the shipped behavior of the original engine and are tracked as
// latent bugs rather than silently changed here.
type SeasonStatsService struct {
	db *gorm.DB
}

func NewSeasonStatsService(db *gorm.DB) *SeasonStatsService {
	return &SeasonStatsService{db: db}
}

// SeasonFor returns the season whose date range contains t, or nil when no
// season is configured for that date. Absence is expected, not an error.
func (s *SeasonStatsService) SeasonFor(t time.Time) (*models.Season, error) {
	var season models.Season
	err := s.db.Where("start_date <= ? AND end_date >= ?", t, t).First(&season).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &season, nil
}

// Update rolls one completion into the stats row for the season containing
// completedAt. Completions outside any season are deliberately dropped.
func (s *SeasonStatsService) Update(userID string, completedAt time.Time, score, totalQuestions, newAchievements int) error {
	season, err := s.SeasonFor(completedAt)
	if err != nil {
		return err
	}
	if season == nil {
		return nil
	}

	perfect := 0
	if totalQuestions > 0 && score == totalQuestions {
		perfect = 1
	}

	var stats models.SeasonStats
	err = s.db.Where("user_id = ? AND season_id = ?", userID, season.ID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stats = models.SeasonStats{
			ID:                   uuid.New().String(),
			UserID:               userID,
			SeasonID:             season.ID,
			QuizzesPlayed:        1,
			PerfectScores:        perfect,
			AverageScore:         float64(score),
			CurrentStreakWeeks:   1,
			LongestStreakWeeks:   1,
			AchievementsUnlocked: newAchievements,
			LastPlayedAt:         completedAt,
		}
		res := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "season_id"}},
			DoNothing: true,
		}).Create(&stats)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		// Lost the first-row race; fall through to the update path.
		if err := s.db.Where("user_id = ? AND season_id = ?", userID, season.ID).First(&stats).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	oldCount := stats.QuizzesPlayed
	stats.QuizzesPlayed = oldCount + 1
	stats.PerfectScores += perfect
	stats.AverageScore = (stats.AverageScore*float64(oldCount) + float64(score)) / float64(oldCount+1)
	stats.AchievementsUnlocked += newAchievements

	streak := CalculateWeeklyStreak(completedAt, stats.LastPlayedAt, stats.CurrentStreakWeeks)
	stats.CurrentStreakWeeks = streak
	if streak > stats.LongestStreakWeeks {
		stats.LongestStreakWeeks = streak
	}

	stats.LastPlayedAt = completedAt

	return s.db.Save(&stats).Error
}

// StatsFor returns the user's stats row for one season, or nil when the
// user has not played in it.
func (s *SeasonStatsService) StatsFor(userID, seasonID string) (*models.SeasonStats, error) {
	var stats models.SeasonStats
	err := s.db.Where("user_id = ? AND season_id = ?", userID, seasonID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
