// handlers/admin/seasons.go - season management
package admin

import (
	"triviaclub/database"
	"triviaclub/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetSeasons returns all seasons
func GetSeasons(c *fiber.Ctx) error {
	db := database.GetDB()

	var seasons []models.Season
	if err := db.Order("start_date DESC").Find(&seasons).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch seasons"})
	}

	return c.JSON(fiber.Map{"success": true, "seasons": seasons})
}

// CreateSeason adds a season
func CreateSeason(c *fiber.Ctx) error {
	var season models.Season
	if err := c.BodyParser(&season); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if season.Slug == "" || season.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "slug and name are required"})
	}
	if !season.EndDate.After(season.StartDate) {
		return c.Status(400).JSON(fiber.Map{"error": "end_date must be after start_date"})
	}
	if season.ID == "" {
		season.ID = uuid.New().String()
	}

	db := database.GetDB()
	if err := db.Create(&season).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create season"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "season": season})
}

// UpdateSeason edits a season
func UpdateSeason(c *fiber.Ctx) error {
	id := c.Params("id")

	db := database.GetDB()
	var season models.Season
	if err := db.First(&season, "id = ?", id).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Season not found"})
	}

	if err := c.BodyParser(&season); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	season.ID = id

	if !season.EndDate.After(season.StartDate) {
		return c.Status(400).JSON(fiber.Map{"error": "end_date must be after start_date"})
	}

	if err := db.Save(&season).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update season"})
	}

	return c.JSON(fiber.Map{"success": true, "season": season})
}

// DeleteSeason removes a season. Stats rows for it remain but stop being
// served once the season is gone.
func DeleteSeason(c *fiber.Ctx) error {
	id := c.Params("id")

	db := database.GetDB()
	if err := db.Delete(&models.Season{}, "id = ?", id).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete season"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Season deleted successfully"})
}
