package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quiz attempt lifecycle states. An attempt starts in_progress and moves
// exactly once to completed on submission. Abandoned is reserved.
const (
	AttemptInProgress = "in_progress"
	AttemptCompleted  = "completed"
	AttemptAbandoned  = "abandoned"
)

// QuizAttempt ties a user to a quiz in the content store and records the
// outcome once completed. Attempts are soft-deleted only.
type QuizAttempt struct {
	ID               uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	QuizID           string         `json:"quiz_id" gorm:"size:255;not null;index"`
	Status           string         `json:"status" gorm:"size:50;not null;default:in_progress;index"`
	Score            *int           `json:"score"`
	Level            *string        `json:"level" gorm:"size:50"`
	Passed           *bool          `json:"passed"`
	StartedAt        time.Time      `json:"started_at" gorm:"not null;index"`
	CompletedAt      *time.Time     `json:"completed_at" gorm:"index"`
	TimeSpentSeconds *int           `json:"time_spent_seconds"`
	CategoryScores   *string        `json:"-" gorm:"type:text"`
	Strengths        *string        `json:"-" gorm:"type:text"`
	Weaknesses       *string        `json:"-" gorm:"type:text"`
	ResultContentID  *string        `json:"result_content_id" gorm:"size:255"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
