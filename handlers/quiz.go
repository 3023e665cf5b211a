// handlers/quiz.go - quiz completion endpoint
package handlers

import (
	"errors"
	"time"

	"triviaclub/database"
	"triviaclub/middleware"
	"triviaclub/models"
	"triviaclub/services"

	"github.com/gofiber/fiber/v2"
)

type CompleteQuizRequest struct {
	QuizSlug              string                 `json:"quiz_slug"`
	Score                 int                    `json:"score"`
	TotalQuestions        int                    `json:"total_questions"`
	CompletionTimeSeconds *int                   `json:"completion_time_seconds,omitempty"`
	RoundScores           []services.RoundResult `json:"round_scores"`
	Categories            []string               `json:"categories"`
	PlayedAt              *time.Time             `json:"played_at,omitempty"`
}

// CompleteQuiz records one finished quiz and returns the merged completion
// plus any achievements this submission unlocked. Resubmitting the same
// completion is safe; it simply unlocks nothing new.
func CompleteQuiz(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req CompleteQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	event := services.CompletionEvent{
		UserID:                userID,
		QuizSlug:              req.QuizSlug,
		Score:                 req.Score,
		TotalQuestions:        req.TotalQuestions,
		CompletionTimeSeconds: req.CompletionTimeSeconds,
		RoundScores:           req.RoundScores,
		Categories:            req.Categories,
	}
	if req.PlayedAt != nil {
		event.PlayedAt = *req.PlayedAt
	}

	result, err := completionService.Complete(event)
	if err != nil {
		if errors.Is(err, services.ErrInvalidEvent) {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid completion payload"})
		}
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "User not found"})
		}
		if result != nil {
			// Awards landed but a later step failed; the client should
			// retry the submission, which is idempotent.
			return c.Status(200).JSON(fiber.Map{
				"success":          true,
				"partial":          true,
				"completion":       result.Completion,
				"new_achievements": achievementSlugs(result.NewlyUnlocked),
			})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to record completion"})
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"completion":       result.Completion,
		"new_achievements": achievementSlugs(result.NewlyUnlocked),
		"unlocked_details": result.NewlyUnlocked,
	})
}

// GetQuizHistory returns the player's best results, most recent first.
func GetQuizHistory(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var completions []models.QuizCompletion
	if err := db.Where("user_id = ?", userID).Order("completed_at DESC").Find(&completions).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch history"})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"completions": completions,
		"total":       len(completions),
	})
}

func achievementSlugs(defs []models.AchievementDefinition) []string {
	slugs := make([]string, 0, len(defs))
	for _, def := range defs {
		slugs = append(slugs, def.Slug)
	}
	return slugs
}
