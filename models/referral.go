// models/referral.go
package models

import (
	"time"
)

const (
	ReferralStatusPending  = "PENDING"
	ReferralStatusRewarded = "REWARDED"

	// MaxFreeMonths caps lifetime free months a user can earn from
	// referrals, on either side of the relationship.
	MaxFreeMonths = 3
)

// Referral links a referrer to the user they invited. One row per referred
// user. Status transitions PENDING -> REWARDED exactly once, when the
// referred user first becomes a paying/trialing subscriber.
type Referral struct {
	ID             string `gorm:"primaryKey;size:36" json:"id"`
	ReferrerID     string `gorm:"not null;index;size:36" json:"referrer_id"`
	ReferredUserID string `gorm:"uniqueIndex;not null;size:36" json:"referred_user_id"`

	Status           string     `gorm:"default:'PENDING';size:20;index" json:"status"`
	ReferrerRewarded bool       `gorm:"default:false" json:"referrer_rewarded"`
	ReferredRewarded bool       `gorm:"default:false" json:"referred_rewarded"`
	RewardGrantedAt  *time.Time `json:"reward_granted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Referrer     *User `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`
	ReferredUser *User `gorm:"foreignKey:ReferredUserID" json:"referred_user,omitempty"`
}

func (Referral) TableName() string {
	return "referrals"
}
