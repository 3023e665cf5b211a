// models/season.go
package models

import (
	"time"
)

// Season is an admin-defined date range used to bucket player statistics.
// Completions that fall outside every season are not aggregated anywhere.
type Season struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Slug      string    `gorm:"uniqueIndex;not null;size:100" json:"slug"`
	Name      string    `gorm:"not null" json:"name"`
	StartDate time.Time `gorm:"not null;index" json:"start_date"`
	EndDate   time.Time `gorm:"not null;index" json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Season) TableName() string {
	return "seasons"
}

// Contains reports whether t falls inside the season's date range
// (inclusive on both ends).
func (s *Season) Contains(t time.Time) bool {
	return !t.Before(s.StartDate) && !t.After(s.EndDate)
}

// SeasonStats is the per-player, per-season rollup. One row per
// (user, season). AverageScore is maintained as a running mean.
type SeasonStats struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	UserID   string `gorm:"not null;size:36;uniqueIndex:idx_user_season" json:"user_id"`
	SeasonID string `gorm:"not null;size:36;uniqueIndex:idx_user_season" json:"season_id"`

	QuizzesPlayed        int     `gorm:"default:0" json:"quizzes_played"`
	PerfectScores        int     `gorm:"default:0" json:"perfect_scores"`
	AverageScore         float64 `gorm:"default:0" json:"average_score"`
	CurrentStreakWeeks   int     `gorm:"default:0" json:"current_streak_weeks"`
	LongestStreakWeeks   int     `gorm:"default:0" json:"longest_streak_weeks"`
	AchievementsUnlocked int     `gorm:"default:0" json:"achievements_unlocked"`

	LastPlayedAt time.Time `json:"last_played_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	User   *User   `gorm:"foreignKey:UserID" json:"-"`
	Season *Season `gorm:"foreignKey:SeasonID" json:"season,omitempty"`
}

func (SeasonStats) TableName() string {
	return "season_stats"
}
