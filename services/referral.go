// services/referral.go - Referral reward trigger
package services

import (
	"errors"
	"time"

	"triviaclub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSelfReferral    = errors.New("users cannot refer themselves")
	ErrInvalidCode     = errors.New("unknown referral code")
	ErrAlreadyReferred = errors.New("user was already referred")
)

// freeMonthGrantRetries bounds the compare-and-swap loop in grantFreeMonth.
const freeMonthGrantRetries = 3

// ReferralService creates referral relationships at signup and grants the
// one-time, capped reward when the referred user becomes a subscriber.
type ReferralService struct {
	db *gorm.DB
}

func NewReferralService(db *gorm.DB) *ReferralService {
	return &ReferralService{db: db}
}

// CreateReferral links a freshly registered user to the owner of the
// referral code they signed up with. A user can be referred at most once;
// the unique key on referred_user_id enforces it.
func (s *ReferralService) CreateReferral(referralCode, referredUserID string) (*models.Referral, error) {
	var referrer models.User
	if err := s.db.Where("referral_code = ?", referralCode).First(&referrer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, err
	}
	if referrer.ID == referredUserID {
		return nil, ErrSelfReferral
	}

	referral := models.Referral{
		ID:             uuid.New().String(),
		ReferrerID:     referrer.ID,
		ReferredUserID: referredUserID,
		Status:         models.ReferralStatusPending,
	}
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "referred_user_id"}},
		DoNothing: true,
	}).Create(&referral)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrAlreadyReferred
	}
	return &referral, nil
}

// HandleSubscriptionActivated reacts to a user's subscription turning
// active or trialing. Payment providers redeliver webhooks, so every path
// through here is a no-op the second time around.
func (s *ReferralService) HandleSubscriptionActivated(userID string) error {
	var referral models.Referral
	err := s.db.Where("referred_user_id = ?", userID).First(&referral).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if referral.Status == models.ReferralStatusRewarded {
		return nil
	}

	// The webhook can race the subscription-state write. Re-check before
	// rewarding; an early delivery simply waits for the next one.
	var referred models.User
	if err := s.db.First(&referred, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !referred.IsPremium() {
		return nil
	}

	referrerRewarded, err := s.grantFreeMonth(referral.ReferrerID)
	if err != nil {
		return err
	}
	referredRewarded, err := s.grantFreeMonth(referral.ReferredUserID)
	if err != nil {
		return err
	}

	// One transition per referral, whatever the two grants came back with.
	// A party at the cap just misses out.
	now := time.Now().UTC()
	return s.db.Model(&models.Referral{}).
		Where("id = ? AND status = ?", referral.ID, models.ReferralStatusPending).
		Updates(map[string]interface{}{
			"status":            models.ReferralStatusRewarded,
			"referrer_rewarded": referrerRewarded,
			"referred_rewarded": referredRewarded,
			"reward_granted_at": now,
		}).Error
}

// grantFreeMonth gives one user one free month, capped at
// models.MaxFreeMonths lifetime grants. An actively paying subscriber gets
// the next billing cycle free; everyone else gets 30 days of trial,
// stacked on top of any trial already running. The free_months_granted
// guard in the WHERE clause is the cap's compare-and-swap.
func (s *ReferralService) grantFreeMonth(userID string) (bool, error) {
	for attempt := 0; attempt < freeMonthGrantRetries; attempt++ {
		var user models.User
		if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, ErrUserNotFound
			}
			return false, err
		}
		if user.FreeMonthsGranted >= models.MaxFreeMonths {
			return false, nil
		}

		updates := map[string]interface{}{
			"free_months_granted": user.FreeMonthsGranted + 1,
		}
		if user.SubscriptionStatus == models.SubscriptionActive {
			updates["next_cycle_free"] = true
		} else {
			start := time.Now().UTC()
			if user.FreeTrialUntil != nil && user.FreeTrialUntil.After(start) {
				start = *user.FreeTrialUntil
			}
			updates["free_trial_until"] = start.Add(30 * 24 * time.Hour)
		}

		res := s.db.Model(&models.User{}).
			Where("id = ? AND free_months_granted = ?", userID, user.FreeMonthsGranted).
			Updates(updates)
		if res.Error != nil {
			return false, res.Error
		}
		if res.RowsAffected > 0 {
			return true, nil
		}
		// Another grant moved the counter first; re-read and try again.
	}
	return false, nil
}

// ReferralFor returns the referral row where the user is the referred
// party, or nil if they were not referred.
func (s *ReferralService) ReferralFor(userID string) (*models.Referral, error) {
	var referral models.Referral
	err := s.db.Where("referred_user_id = ?", userID).First(&referral).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &referral, nil
}

// ReferralsBy lists the referrals a user has made.
func (s *ReferralService) ReferralsBy(referrerID string) ([]models.Referral, error) {
	var referrals []models.Referral
	err := s.db.Where("referrer_id = ?", referrerID).Order("created_at DESC").Find(&referrals).Error
	return referrals, err
}
