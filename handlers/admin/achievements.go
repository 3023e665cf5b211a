// handlers/admin/achievements.go - catalog management
package admin

import (
	"log"

	"triviaclub/database"
	"triviaclub/handlers"
	"triviaclub/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetAchievements returns the full achievement catalog
func GetAchievements(c *fiber.Ctx) error {
	db := database.GetDB()

	var defs []models.AchievementDefinition
	if err := db.Order("slug").Find(&defs).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievements"})
	}

	return c.JSON(fiber.Map{"success": true, "achievements": defs})
}

// CreateAchievement adds a catalog entry and refreshes the engine's cache
func CreateAchievement(c *fiber.Ctx) error {
	var def models.AchievementDefinition
	if err := c.BodyParser(&def); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if def.Slug == "" || def.Name == "" || def.UnlockConditionType == "" {
		return c.Status(400).JSON(fiber.Map{"error": "slug, name and unlock_condition_type are required"})
	}
	if def.ID == "" {
		def.ID = uuid.New().String()
	}

	db := database.GetDB()
	if err := db.Create(&def).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create achievement"})
	}

	refreshCatalog()

	return c.Status(201).JSON(fiber.Map{"success": true, "achievement": def})
}

// UpdateAchievement edits a catalog entry and refreshes the engine's cache
func UpdateAchievement(c *fiber.Ctx) error {
	id := c.Params("id")

	db := database.GetDB()
	var def models.AchievementDefinition
	if err := db.First(&def, "id = ?", id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Achievement not found"})
	}

	if err := c.BodyParser(&def); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	def.ID = id

	if err := db.Save(&def).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update achievement"})
	}

	refreshCatalog()

	return c.JSON(fiber.Map{"success": true, "achievement": def})
}

// DeleteAchievement removes a catalog entry. Existing unlocks keep their
// rows; only the definition disappears.
func DeleteAchievement(c *fiber.Ctx) error {
	id := c.Params("id")

	db := database.GetDB()
	if err := db.Delete(&models.AchievementDefinition{}, "id = ?", id).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete achievement"})
	}

	refreshCatalog()

	return c.JSON(fiber.Map{"success": true, "message": "Achievement deleted successfully"})
}

func refreshCatalog() {
	if catalog := handlers.Catalog(); catalog != nil {
		if err := catalog.Refresh(); err != nil {
			log.Printf("Catalog refresh failed: %v", err)
		}
	}
}
