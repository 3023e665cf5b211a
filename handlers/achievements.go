// handlers/achievements.go
package handlers

import (
	"triviaclub/database"
	"triviaclub/middleware"
	"triviaclub/models"

	"github.com/gofiber/fiber/v2"
)

// GetUserAchievements returns the full catalog merged with the player's
// unlock and progress state.
func GetUserAchievements(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var rows []models.UserAchievement
	if err := db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievements"})
	}

	defs, err := catalogService.Definitions()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievement catalog"})
	}

	rowMap := make(map[string]models.UserAchievement, len(rows))
	for _, row := range rows {
		rowMap[row.AchievementID] = row
	}

	unlockedCount := 0
	achievements := make([]fiber.Map, 0, len(defs))
	for _, def := range defs {
		achData := fiber.Map{
			"id":              def.ID,
			"slug":            def.Slug,
			"name":            def.Name,
			"description":     def.Description,
			"category":        def.Category,
			"rarity":          def.Rarity,
			"icon":            def.Icon,
			"points":          def.Points,
			"is_premium_only": def.IsPremiumOnly,
			"unlocked":        false,
		}

		if row, ok := rowMap[def.ID]; ok {
			if row.Unlocked() {
				achData["unlocked"] = true
				achData["unlocked_at"] = row.UnlockedAt
				achData["quiz_slug"] = row.QuizSlug
				unlockedCount++
			} else if row.ProgressValue != nil {
				achData["progress_value"] = *row.ProgressValue
				achData["progress_max"] = row.ProgressMax
			}
		}

		achievements = append(achievements, achData)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"achievements": achievements,
		"total":        len(defs),
		"unlocked":     unlockedCount,
	})
}
