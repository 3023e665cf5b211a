// handlers/webhooks.go - billing provider callbacks
package handlers

import (
	"log"

	"triviaclub/database"
	"triviaclub/models"

	"github.com/gofiber/fiber/v2"
)

type SubscriptionEventRequest struct {
	UserID string `json:"user_id"`
	Status string `json:"status,omitempty"` // active or trialing; defaults to active
}

// SubscriptionActivated handles the billing provider's notification that a
// user's subscription turned active or trialing. Providers redeliver
// webhooks, so the whole path is idempotent: the subscription-state write
// converges and the referral reward fires at most once.
//
// Signature verification happens in the gateway in front of this service.
func SubscriptionActivated(c *fiber.Ctx) error {
	var req SubscriptionEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.UserID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "user_id is required"})
	}

	status := req.Status
	if status != models.SubscriptionTrialing {
		status = models.SubscriptionActive
	}

	db := database.GetDB()

	res := db.Model(&models.User{}).
		Where("id = ?", req.UserID).
		Updates(map[string]interface{}{
			"tier":                models.TierPremium,
			"subscription_status": status,
		})
	if res.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update subscription state"})
	}
	if res.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	if err := referralService.HandleSubscriptionActivated(req.UserID); err != nil {
		// The provider will redeliver; the reward path is idempotent.
		log.Printf("Referral reward for user %s failed: %v", req.UserID, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to process referral reward"})
	}

	return c.JSON(fiber.Map{"success": true})
}
