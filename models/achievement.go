// models/achievement.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Unlock condition types. The type string selects how UnlockConditionConfig
// is interpreted; unknown values fall through to the custom path and are
// never treated as unlocked by the generic evaluator.
const (
	ConditionPerfectInCategoryUnderSeconds = "score_perfect_in_category_under_seconds"
	ConditionSameScoreTwoWeeksInARow       = "same_score_two_weeks_in_a_row"
	ConditionCustom                        = "custom"
)

// AchievementDefinition is one immutable catalog entry. Rows are created and
// edited only through admin tooling; the progression engine reads them.
type AchievementDefinition struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Slug        string `gorm:"uniqueIndex;not null;size:100" json:"slug"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"index;size:50" json:"category"` // Speed, Accuracy, Streak, Special
	Rarity      string `gorm:"size:20" json:"rarity"`         // common, rare, epic, legendary
	Icon        string `gorm:"size:50" json:"icon"`

	IsPremiumOnly bool `gorm:"default:false" json:"is_premium_only"`
	Points        int  `gorm:"default:0" json:"points"`

	UnlockConditionType   string         `gorm:"not null;index;size:60" json:"unlock_condition_type"`
	UnlockConditionConfig datatypes.JSON `json:"unlock_condition_config"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AchievementDefinition) TableName() string {
	return "achievement_definitions"
}

// UserAchievement is the per-user unlock/progress record. A non-nil
// UnlockedAt is the unlock signal; progress columns are only meaningful
// while it is nil. One row per (user, achievement), enforced by the
// composite unique index — the idempotent award path relies on it.
type UserAchievement struct {
	ID            string `gorm:"primaryKey;size:36" json:"id"`
	UserID        string `gorm:"not null;size:36;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID string `gorm:"not null;size:36;uniqueIndex:idx_user_achievement" json:"achievement_id"`

	ProgressValue *int           `json:"progress_value,omitempty"`
	ProgressMax   *int           `json:"progress_max,omitempty"`
	UnlockedAt    *time.Time     `gorm:"index" json:"unlocked_at,omitempty"`
	QuizSlug      string         `gorm:"size:100" json:"quiz_slug,omitempty"`
	Meta          datatypes.JSON `json:"meta,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	User        User                  `gorm:"foreignKey:UserID" json:"-"`
	Achievement AchievementDefinition `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}

// Unlocked reports whether the achievement has been granted.
func (ua *UserAchievement) Unlocked() bool {
	return ua.UnlockedAt != nil
}
