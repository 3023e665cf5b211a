// services/evaluator.go - Achievement unlock condition evaluation
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"triviaclub/models"
)

// ErrInvalidConfig marks a catalog row whose condition config does not
// match its declared type. Callers skip the single definition and keep
// evaluating the rest.
var ErrInvalidConfig = errors.New("invalid unlock condition config")

// RoundResult is one round of a completed quiz as reported by the client.
type RoundResult struct {
	RoundNumber    int    `json:"round_number"`
	Category       string `json:"category"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total_questions"`
	TimeSeconds    int    `json:"time_seconds"`
}

// CompletionEvent is one finished quiz for one player. PlayedAt, not
// wall-clock time, drives all week-based evaluation so replayed or
// back-dated events are judged consistently.
type CompletionEvent struct {
	UserID                string        `json:"user_id"`
	QuizSlug              string        `json:"quiz_slug"`
	Score                 int           `json:"score"`
	TotalQuestions        int           `json:"total_questions"`
	CompletionTimeSeconds *int          `json:"completion_time_seconds,omitempty"`
	RoundScores           []RoundResult `json:"round_scores"`
	Categories            []string      `json:"categories"`
	PlayedAt              time.Time     `json:"played_at"`
}

// PlayerHistory is the player's completion record at evaluation time,
// including the row the current event was just merged into.
type PlayerHistory struct {
	Completions []models.QuizCompletion
}

// EvalOutcome classifies the result of evaluating one definition.
type EvalOutcome int

const (
	OutcomeNoChange EvalOutcome = iota
	OutcomeProgress
	OutcomeUnlocked
)

// Evaluation is the evaluator's verdict for a single definition.
type Evaluation struct {
	Outcome       EvalOutcome
	ProgressValue int
	ProgressMax   int
}

// PerfectInCategoryConfig parameterizes
// score_perfect_in_category_under_seconds.
type PerfectInCategoryConfig struct {
	Category string `json:"category"`
	Seconds  int    `json:"seconds"`
}

// SameScoreTwoWeeksConfig parameterizes same_score_two_weeks_in_a_row. A
// nil Score means any pair of equal scores qualifies.
type SameScoreTwoWeeksConfig struct {
	Score *int `json:"score,omitempty"`
}

// EvaluateDefinition decides whether the event newly satisfies one
// definition. It reads state and writes nothing. Unknown and custom
// condition types evaluate to no change so catalog authors can ship new
// types ahead of engine support.
func EvaluateDefinition(def models.AchievementDefinition, history PlayerHistory, event CompletionEvent) (Evaluation, error) {
	switch def.UnlockConditionType {
	case models.ConditionPerfectInCategoryUnderSeconds:
		return evalPerfectInCategory(def, event)
	case models.ConditionSameScoreTwoWeeksInARow:
		return evalSameScoreTwoWeeks(def, history, event)
	default:
		// custom or unknown: not satisfiable by the generic engine
		return Evaluation{Outcome: OutcomeNoChange}, nil
	}
}

func evalPerfectInCategory(def models.AchievementDefinition, event CompletionEvent) (Evaluation, error) {
	var cfg PerfectInCategoryConfig
	if err := json.Unmarshal(def.UnlockConditionConfig, &cfg); err != nil {
		return Evaluation{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, def.Slug, err)
	}
	if cfg.Category == "" || cfg.Seconds <= 0 {
		return Evaluation{}, fmt.Errorf("%w: %s: category and seconds are required", ErrInvalidConfig, def.Slug)
	}

	for _, round := range event.RoundScores {
		if round.TotalQuestions == 0 || round.Score != round.TotalQuestions {
			continue
		}
		if !strings.EqualFold(round.Category, cfg.Category) {
			continue
		}
		if round.TimeSeconds <= cfg.Seconds {
			// binary condition, no partial credit
			return Evaluation{Outcome: OutcomeUnlocked}, nil
		}
	}
	return Evaluation{Outcome: OutcomeNoChange}, nil
}

func evalSameScoreTwoWeeks(def models.AchievementDefinition, history PlayerHistory, event CompletionEvent) (Evaluation, error) {
	var cfg SameScoreTwoWeeksConfig
	if len(def.UnlockConditionConfig) > 0 {
		if err := json.Unmarshal(def.UnlockConditionConfig, &cfg); err != nil {
			return Evaluation{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, def.Slug, err)
		}
	}

	// The literal score, when configured, must match this week's result
	// before last week is even worth checking.
	if cfg.Score != nil && event.Score != *cfg.Score {
		return Evaluation{Outcome: OutcomeNoChange}, nil
	}

	prevYear, prevWeek := event.PlayedAt.AddDate(0, 0, -7).ISOWeek()
	for _, completion := range history.Completions {
		year, week := completion.CompletedAt.ISOWeek()
		if year != prevYear || week != prevWeek {
			continue
		}
		if completion.Score == event.Score {
			return Evaluation{Outcome: OutcomeUnlocked}, nil
		}
	}

	// Played this week but no matching result last week: halfway there.
	return Evaluation{Outcome: OutcomeProgress, ProgressValue: 1, ProgressMax: 2}, nil
}
