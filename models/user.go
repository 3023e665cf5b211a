// models/user.go
package models

import (
	"time"
)

// Subscription tiers and statuses mirrored from the billing provider.
const (
	TierFree    = "free"
	TierPremium = "premium"

	SubscriptionNone     = "none"
	SubscriptionActive   = "active"
	SubscriptionTrialing = "trialing"
	SubscriptionCanceled = "canceled"
)

type User struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"`
	Username    string  `gorm:"uniqueIndex;not null" json:"username"`
	Email       *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Password    string  `json:"-"`
	DisplayName string  `json:"display_name"`
	Avatar      string  `json:"avatar"`
	IsGuest     bool    `gorm:"default:false" json:"is_guest"`
	IsAdmin     bool    `gorm:"default:false" json:"is_admin"`
	IsBanned    bool    `gorm:"default:false" json:"is_banned"`

	// Commercial state (written by the billing webhook layer)
	Tier               string     `gorm:"default:'free';size:20" json:"tier"`
	SubscriptionStatus string     `gorm:"default:'none';size:20" json:"subscription_status"`
	FreeTrialUntil     *time.Time `json:"free_trial_until,omitempty"`
	NextCycleFree      bool       `gorm:"default:false" json:"next_cycle_free"`
	FreeMonthsGranted  int        `gorm:"default:0" json:"free_months_granted"`

	// Referral program
	ReferralCode string `gorm:"uniqueIndex;size:20" json:"referral_code"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastLogin time.Time `json:"last_login"`
	LastSeen  time.Time `json:"last_seen"`

	// Relationships
	Achievements []UserAchievement `gorm:"foreignKey:UserID" json:"achievements,omitempty"`
	Completions  []QuizCompletion  `gorm:"foreignKey:UserID" json:"completions,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// IsPremium reports whether the user currently counts as a paying or
// trialing subscriber for reward purposes.
func (u *User) IsPremium() bool {
	return u.SubscriptionStatus == SubscriptionActive || u.SubscriptionStatus == SubscriptionTrialing
}
