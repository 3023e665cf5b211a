package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"triviaclub/database"
	"triviaclub/models"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

type catalogFile struct {
	Achievements []achievementEntry `json:"achievements"`
	Seasons      []seasonEntry      `json:"seasons"`
}

type achievementEntry struct {
	Slug                  string          `json:"slug"`
	Name                  string          `json:"name"`
	Description           string          `json:"description"`
	Category              string          `json:"category"`
	Rarity                string          `json:"rarity"`
	Icon                  string          `json:"icon"`
	IsPremiumOnly         bool            `json:"is_premium_only"`
	Points                int             `json:"points"`
	UnlockConditionType   string          `json:"unlock_condition_type"`
	UnlockConditionConfig json.RawMessage `json:"unlock_condition_config"`
}

type seasonEntry struct {
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func main() {
	path := flag.String("file", "./catalog.json", "path to the catalog JSON file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	database.InitDB()
	db := database.GetDB()

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatal("Failed to read catalog file:", err)
	}

	var catalog catalogFile
	if err := json.Unmarshal(data, &catalog); err != nil {
		log.Fatal("Failed to parse catalog file:", err)
	}

	fmt.Printf("Found %d achievements, %d seasons\n\n", len(catalog.Achievements), len(catalog.Seasons))

	for _, entry := range catalog.Achievements {
		if entry.Slug == "" || entry.UnlockConditionType == "" {
			log.Printf("Skipping achievement with missing slug or condition type: %+v", entry)
			continue
		}

		def := models.AchievementDefinition{
			ID:                    uuid.New().String(),
			Slug:                  entry.Slug,
			Name:                  entry.Name,
			Description:           entry.Description,
			Category:              entry.Category,
			Rarity:                entry.Rarity,
			Icon:                  entry.Icon,
			IsPremiumOnly:         entry.IsPremiumOnly,
			Points:                entry.Points,
			UnlockConditionType:   entry.UnlockConditionType,
			UnlockConditionConfig: datatypes.JSON(entry.UnlockConditionConfig),
		}

		err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "category", "rarity", "icon",
				"is_premium_only", "points",
				"unlock_condition_type", "unlock_condition_config",
			}),
		}).Create(&def).Error
		if err != nil {
			log.Printf("Error upserting achievement %s: %v", entry.Slug, err)
			continue
		}
		fmt.Printf("Upserted achievement: %s\n", entry.Slug)
	}

	for _, entry := range catalog.Seasons {
		if entry.Slug == "" {
			log.Printf("Skipping season with missing slug: %+v", entry)
			continue
		}

		season := models.Season{
			ID:        uuid.New().String(),
			Slug:      entry.Slug,
			Name:      entry.Name,
			StartDate: entry.StartDate,
			EndDate:   entry.EndDate,
		}

		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "start_date", "end_date"}),
		}).Create(&season).Error
		if err != nil {
			log.Printf("Error upserting season %s: %v", entry.Slug, err)
			continue
		}
		fmt.Printf("Upserted season: %s\n", entry.Slug)
	}

	fmt.Println("\n✓ Catalog import completed")
}
