// handlers/referral.go
package handlers

import (
	"triviaclub/database"
	"triviaclub/middleware"
	"triviaclub/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyReferrals returns the player's own code, the referrals they have
// made, and their standing as a referred user if someone invited them.
func GetMyReferrals(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	made, err := referralService.ReferralsBy(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch referrals"})
	}

	referredBy, err := referralService.ReferralFor(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch referrals"})
	}

	return c.JSON(fiber.Map{
		"success":             true,
		"referral_code":       user.ReferralCode,
		"free_months_granted": user.FreeMonthsGranted,
		"free_months_cap":     models.MaxFreeMonths,
		"referrals":           made,
		"referred_by":         referredBy,
	})
}
