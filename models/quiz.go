// models/quiz.go
package models

import (
	"time"
)

// QuizCompletion holds a player's best result for one weekly quiz. One row
// per (user, quiz slug); resubmissions merge with a monotonic-max rule on
// Score while CompletedAt always advances to the latest attempt.
type QuizCompletion struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	UserID   string `gorm:"not null;size:36;uniqueIndex:idx_user_quiz" json:"user_id"`
	QuizSlug string `gorm:"not null;size:100;uniqueIndex:idx_user_quiz" json:"quiz_slug"`

	Score          int `gorm:"default:0" json:"score"`
	TotalQuestions int `gorm:"default:0" json:"total_questions"`
	TimeSeconds    int `gorm:"default:0" json:"time_seconds"` // elapsed time of the best attempt

	CompletedAt time.Time `gorm:"index" json:"completed_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (QuizCompletion) TableName() string {
	return "quiz_completions"
}

// IsPerfect reports whether every question was answered correctly.
func (qc *QuizCompletion) IsPerfect() bool {
	return qc.TotalQuestions > 0 && qc.Score == qc.TotalQuestions
}
