package quiz

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"assessment-system/internal/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) DB() *gorm.DB {
	return r.db
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) CreateAttempt(attempt *models.QuizAttempt) error {
	return r.db.Create(attempt).Error
}

// CountAttempts counts a user's non-deleted attempts for a quiz, used to
// enforce the max-attempts cap.
func (r *Repository) CountAttempts(userID uuid.UUID, quizID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&count).Error
	return count, err
}

// GetAttempt loads an attempt scoped to its owner and quiz. A foreign
// attempt id behaves exactly like a missing one.
func (r *Repository) GetAttempt(id, userID uuid.UUID, quizID string) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := r.db.
		Where("id = ? AND user_id = ? AND quiz_id = ?", id, userID, quizID).
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

// CompletionUpdate carries everything written when an attempt completes.
type CompletionUpdate struct {
	Score            int
	Level            string
	Passed           bool
	CompletedAt      time.Time
	TimeSpentSeconds int
	CategoryScores   string
	Strengths        string
	Weaknesses       string
	ResultContentID  string
}

// CompleteAttempt transitions an attempt to completed with a conditional
// update. The status guard runs inside the same statement that writes the
// new status, so two concurrent submits cannot both succeed: the second one
// matches zero rows and reports false.
func (r *Repository) CompleteAttempt(id uuid.UUID, upd CompletionUpdate) (bool, error) {
	result := r.db.Model(&models.QuizAttempt{}).
		Where("id = ? AND status = ?", id, models.AttemptInProgress).
		Updates(map[string]interface{}{
			"status":             models.AttemptCompleted,
			"score":              upd.Score,
			"level":              upd.Level,
			"passed":             upd.Passed,
			"completed_at":       upd.CompletedAt,
			"time_spent_seconds": upd.TimeSpentSeconds,
			"category_scores":    upd.CategoryScores,
			"strengths":          upd.Strengths,
			"weaknesses":         upd.Weaknesses,
			"result_content_id":  upd.ResultContentID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
