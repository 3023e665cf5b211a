// services/completion.go - Quiz completion orchestration
package services

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"triviaclub/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvalidEvent = errors.New("invalid completion event")

// CompletionResult is what the quiz API layer returns to the player.
type CompletionResult struct {
	Completion    models.QuizCompletion          `json:"completion"`
	NewlyUnlocked []models.AchievementDefinition `json:"newly_unlocked_achievements"`
}

// CompletionService sequences everything that happens when a player
// finishes a quiz: merge the completion row, evaluate the catalog, grant
// awards, roll season stats, notify subscribers.
//
// The sub-steps are independently idempotent rather than one transaction.
// A failure partway through leaves a visible partial state that the caller
// repairs by resubmitting the same event; nothing is ever double-granted.
type CompletionService struct {
	db       *gorm.DB
	catalog  *CatalogService
	awards   *AwardStore
	seasons  *SeasonStatsService
	notifier *UnlockNotifier
}

func NewCompletionService(db *gorm.DB, catalog *CatalogService, awards *AwardStore, seasons *SeasonStatsService, notifier *UnlockNotifier) *CompletionService {
	return &CompletionService{
		db:       db,
		catalog:  catalog,
		awards:   awards,
		seasons:  seasons,
		notifier: notifier,
	}
}

// Complete processes one completion event. On a season-stats failure the
// already-granted result is returned alongside the error so the caller can
// report partial success; resubmitting the event is always safe.
func (s *CompletionService) Complete(event CompletionEvent) (*CompletionResult, error) {
	if event.UserID == "" || event.QuizSlug == "" || event.TotalQuestions <= 0 {
		return nil, ErrInvalidEvent
	}
	if event.PlayedAt.IsZero() {
		event.PlayedAt = time.Now().UTC()
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", event.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	completion, err := s.upsertCompletion(event)
	if err != nil {
		return nil, err
	}

	newlyUnlocked, err := s.evaluateAndAward(&user, event)
	if err != nil {
		return nil, err
	}

	result := &CompletionResult{
		Completion:    *completion,
		NewlyUnlocked: newlyUnlocked,
	}

	if err := s.seasons.Update(event.UserID, event.PlayedAt, event.Score, event.TotalQuestions, len(newlyUnlocked)); err != nil {
		// Awards already granted stay granted; surface the failure and
		// let the caller retry the whole event.
		return result, err
	}

	return result, nil
}

// upsertCompletion merges the event into the (user, quiz) completion row.
// Score only ever goes up; completed_at always follows the latest attempt.
func (s *CompletionService) upsertCompletion(event CompletionEvent) (*models.QuizCompletion, error) {
	timeSeconds := 0
	if event.CompletionTimeSeconds != nil {
		timeSeconds = *event.CompletionTimeSeconds
	}

	row := models.QuizCompletion{
		ID:             uuid.New().String(),
		UserID:         event.UserID,
		QuizSlug:       event.QuizSlug,
		Score:          event.Score,
		TotalQuestions: event.TotalQuestions,
		TimeSeconds:    timeSeconds,
		CompletedAt:    event.PlayedAt,
	}

	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "quiz_slug"}},
		DoNothing: true,
	}).Create(&row)
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		if err := s.db.Model(&models.QuizCompletion{}).
			Where("user_id = ? AND quiz_slug = ?", event.UserID, event.QuizSlug).
			Update("completed_at", event.PlayedAt).Error; err != nil {
			return nil, err
		}
		if err := s.db.Model(&models.QuizCompletion{}).
			Where("user_id = ? AND quiz_slug = ? AND score < ?", event.UserID, event.QuizSlug, event.Score).
			Updates(map[string]interface{}{
				"score":           event.Score,
				"total_questions": event.TotalQuestions,
				"time_seconds":    timeSeconds,
			}).Error; err != nil {
			return nil, err
		}
	}

	var merged models.QuizCompletion
	if err := s.db.Where("user_id = ? AND quiz_slug = ?", event.UserID, event.QuizSlug).First(&merged).Error; err != nil {
		return nil, err
	}
	return &merged, nil
}

// evaluateAndAward sweeps the catalog against the player's updated history
// and grants whatever is newly satisfied. Only awards this call actually
// transitioned count as newly unlocked.
func (s *CompletionService) evaluateAndAward(user *models.User, event CompletionEvent) ([]models.AchievementDefinition, error) {
	defs, err := s.catalog.Definitions()
	if err != nil {
		return nil, err
	}

	unlocked, err := s.awards.UnlockedIDs(user.ID)
	if err != nil {
		return nil, err
	}

	var completions []models.QuizCompletion
	if err := s.db.Where("user_id = ?", user.ID).Find(&completions).Error; err != nil {
		return nil, err
	}
	history := PlayerHistory{Completions: completions}

	meta, _ := json.Marshal(map[string]interface{}{
		"quiz_slug":       event.QuizSlug,
		"score":           event.Score,
		"total_questions": event.TotalQuestions,
	})

	newlyUnlocked := []models.AchievementDefinition{}
	for _, def := range defs {
		if unlocked[def.ID] {
			continue
		}
		if def.IsPremiumOnly && !user.IsPremium() {
			continue
		}

		eval, err := EvaluateDefinition(def, history, event)
		if err != nil {
			// A broken catalog row must not block the rest of the sweep.
			log.Printf("Skipping achievement %s: %v", def.Slug, err)
			continue
		}

		switch eval.Outcome {
		case OutcomeProgress:
			if err := s.awards.RecordProgress(user.ID, def.ID, eval.ProgressValue, eval.ProgressMax); err != nil {
				return nil, err
			}
		case OutcomeUnlocked:
			granted, err := s.awards.GrantAward(user.ID, def.ID, event.QuizSlug, datatypes.JSON(meta))
			if err != nil {
				return nil, err
			}
			if granted {
				newlyUnlocked = append(newlyUnlocked, def)
				if s.notifier != nil {
					s.notifier.Publish(UnlockNotification{
						UserID:     user.ID,
						Slug:       def.Slug,
						Name:       def.Name,
						Points:     def.Points,
						QuizSlug:   event.QuizSlug,
						UnlockedAt: time.Now().UTC(),
					})
				}
			}
		}
	}

	return newlyUnlocked, nil
}
