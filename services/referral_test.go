package services

import (
	"errors"
	"testing"
	"time"

	"triviaclub/models"

	"gorm.io/gorm"
)

func seedSubscriber(t *testing.T, db *gorm.DB, id, status string) models.User {
	t.Helper()
	user := models.User{
		ID:                 id,
		Username:           "player-" + id,
		ReferralCode:       "CODE" + id,
		SubscriptionStatus: status,
	}
	if status == models.SubscriptionActive || status == models.SubscriptionTrialing {
		user.Tier = models.TierPremium
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func TestCreateReferral(t *testing.T) {
	db := newTestDB(t)
	svc := NewReferralService(db)
	referrer := seedSubscriber(t, db, "ref", models.SubscriptionNone)
	seedSubscriber(t, db, "new", models.SubscriptionNone)

	referral, err := svc.CreateReferral(referrer.ReferralCode, "new")
	if err != nil {
		t.Fatalf("create referral failed: %v", err)
	}
	if referral.ReferrerID != "ref" || referral.Status != models.ReferralStatusPending {
		t.Fatalf("unexpected referral %+v", referral)
	}

	if _, err := svc.CreateReferral(referrer.ReferralCode, "new"); !errors.Is(err, ErrAlreadyReferred) {
		t.Fatalf("second referral for the same user: got %v, want ErrAlreadyReferred", err)
	}
	if _, err := svc.CreateReferral(referrer.ReferralCode, "ref"); !errors.Is(err, ErrSelfReferral) {
		t.Fatalf("self referral: got %v, want ErrSelfReferral", err)
	}
	if _, err := svc.CreateReferral("NOSUCHCODE", "new"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("bad code: got %v, want ErrInvalidCode", err)
	}
}

func TestHandleSubscriptionActivatedRewardsBothParties(t *testing.T) {
	db := newTestDB(t)
	svc := NewReferralService(db)
	referrer := seedSubscriber(t, db, "ref", models.SubscriptionActive)
	seedSubscriber(t, db, "new", models.SubscriptionTrialing)
	if _, err := svc.CreateReferral(referrer.ReferralCode, "new"); err != nil {
		t.Fatalf("create referral failed: %v", err)
	}

	if err := svc.HandleSubscriptionActivated("new"); err != nil {
		t.Fatalf("activation failed: %v", err)
	}

	var referral models.Referral
	if err := db.First(&referral, "referred_user_id = ?", "new").Error; err != nil {
		t.Fatalf("failed to load referral: %v", err)
	}
	if referral.Status != models.ReferralStatusRewarded {
		t.Fatalf("status = %q, want REWARDED", referral.Status)
	}
	if !referral.ReferrerRewarded || !referral.ReferredRewarded {
		t.Fatalf("both parties should be rewarded, got %+v", referral)
	}
	if referral.RewardGrantedAt == nil {
		t.Fatal("reward_granted_at should be set")
	}

	// Actively paying referrer gets the next cycle free, trialing referred
	// user gets 30 days stacked onto the trial.
	var ref, referred models.User
	if err := db.First(&ref, "id = ?", "ref").Error; err != nil {
		t.Fatalf("failed to load referrer: %v", err)
	}
	if err := db.First(&referred, "id = ?", "new").Error; err != nil {
		t.Fatalf("failed to load referred user: %v", err)
	}
	if !ref.NextCycleFree || ref.FreeMonthsGranted != 1 {
		t.Fatalf("referrer grant wrong: next_cycle_free=%v granted=%d", ref.NextCycleFree, ref.FreeMonthsGranted)
	}
	if referred.FreeTrialUntil == nil || referred.FreeMonthsGranted != 1 {
		t.Fatalf("referred grant wrong: trial=%v granted=%d", referred.FreeTrialUntil, referred.FreeMonthsGranted)
	}
	if remaining := time.Until(*referred.FreeTrialUntil); remaining < 29*24*time.Hour {
		t.Fatalf("trial extension too short: %v", remaining)
	}
}

func TestHandleSubscriptionActivatedIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewReferralService(db)
	referrer := seedSubscriber(t, db, "ref", models.SubscriptionActive)
	seedSubscriber(t, db, "new", models.SubscriptionActive)
	if _, err := svc.CreateReferral(referrer.ReferralCode, "new"); err != nil {
		t.Fatalf("create referral failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := svc.HandleSubscriptionActivated("new"); err != nil {
			t.Fatalf("delivery %d failed: %v", i, err)
		}
	}

	var ref models.User
	if err := db.First(&ref, "id = ?", "ref").Error; err != nil {
		t.Fatalf("failed to load referrer: %v", err)
	}
	if ref.FreeMonthsGranted != 1 {
		t.Fatalf("redeliveries must not stack grants, granted=%d", ref.FreeMonthsGranted)
	}
}

func TestHandleSubscriptionActivatedNotPremiumYet(t *testing.T) {
	db := newTestDB(t)
	svc := NewReferralService(db)
	referrer := seedSubscriber(t, db, "ref", models.SubscriptionActive)
	seedSubscriber(t, db, "new", models.SubscriptionNone)
	if _, err := svc.CreateReferral(referrer.ReferralCode, "new"); err != nil {
		t.Fatalf("create referral failed: %v", err)
	}

	if err := svc.HandleSubscriptionActivated("new"); err != nil {
		t.Fatalf("early delivery failed: %v", err)
	}

	var referral models.Referral
	if err := db.First(&referral, "referred_user_id = ?", "new").Error; err != nil {
		t.Fatalf("failed to load referral: %v", err)
	}
	if referral.Status != models.ReferralStatusPending {
		t.Fatalf("referral must stay PENDING until the user is premium, got %q", referral.Status)
	}
}

func TestGrantFreeMonthCap(t *testing.T) {
	db := newTestDB(t)
	svc := NewReferralService(db)
	user := seedSubscriber(t, db, "ref", models.SubscriptionNone)
	if err := db.Model(&user).Update("free_months_granted", models.MaxFreeMonths).Error; err != nil {
		t.Fatalf("failed to set granted months: %v", err)
	}

	granted, err := svc.grantFreeMonth("ref")
	if err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if granted {
		t.Fatal("user at the lifetime cap must not receive another month")
	}
}

func TestRewardedAtCapStillTransitions(t *testing.T) {
	db := newTestDB(t)
	svc := NewReferralService(db)
	referrer := seedSubscriber(t, db, "ref", models.SubscriptionActive)
	referred := seedSubscriber(t, db, "new", models.SubscriptionActive)
	for _, u := range []models.User{referrer, referred} {
		if err := db.Model(&u).Update("free_months_granted", models.MaxFreeMonths).Error; err != nil {
			t.Fatalf("failed to set granted months: %v", err)
		}
	}
	if _, err := svc.CreateReferral(referrer.ReferralCode, "new"); err != nil {
		t.Fatalf("create referral failed: %v", err)
	}

	if err := svc.HandleSubscriptionActivated("new"); err != nil {
		t.Fatalf("activation failed: %v", err)
	}

	var referral models.Referral
	if err := db.First(&referral, "referred_user_id = ?", "new").Error; err != nil {
		t.Fatalf("failed to load referral: %v", err)
	}
	if referral.Status != models.ReferralStatusRewarded {
		t.Fatalf("referral still transitions at the cap, got %q", referral.Status)
	}
	if referral.ReferrerRewarded || referral.ReferredRewarded {
		t.Fatalf("neither party should be marked rewarded at the cap, got %+v", referral)
	}
}
