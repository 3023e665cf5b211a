// handlers/stats.go - season statistics endpoints
package handlers

import (
	"errors"
	"time"

	"triviaclub/database"
	"triviaclub/middleware"
	"triviaclub/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetSeasonStats returns the player's stats for one season: the season
// matching ?season=<slug>, or the season containing today when omitted.
func GetSeasonStats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var season *models.Season
	if slug := c.Query("season"); slug != "" {
		var s models.Season
		if err := db.Where("slug = ?", slug).First(&s).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(404).JSON(fiber.Map{"error": "Season not found"})
			}
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch season"})
		}
		season = &s
	} else {
		season, err = seasonStatsService.SeasonFor(time.Now().UTC())
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch season"})
		}
		if season == nil {
			return c.JSON(fiber.Map{
				"success": true,
				"season":  nil,
				"stats":   nil,
			})
		}
	}

	stats, err := seasonStatsService.StatsFor(userID, season.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch season stats"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"season":  season,
		"stats":   stats,
	})
}

// GetSeasons lists all configured seasons, newest first.
func GetSeasons(c *fiber.Ctx) error {
	db := database.GetDB()

	var seasons []models.Season
	if err := db.Order("start_date DESC").Find(&seasons).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch seasons"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"seasons": seasons,
	})
}
