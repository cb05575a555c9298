package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"assessment-system/internal/content"
	"assessment-system/internal/models"
	"assessment-system/internal/recommend"
	"assessment-system/internal/scoring"
)

var (
	ErrQuizNotFound    = errors.New("quiz not found")
	ErrAttemptNotFound = errors.New("quiz attempt not found")
	ErrMaxAttempts     = errors.New("maximum attempts reached for this quiz")
	ErrNotInProgress   = errors.New("quiz attempt is not in progress")
)

// ContentStore is the slice of the content store the attempt lifecycle needs.
type ContentStore interface {
	GetQuiz(ctx context.Context, quizID string) (*models.QuizContent, error)
	GetQuestionsByIDs(ctx context.Context, ids []string) ([]models.Question, error)
	InsertResult(ctx context.Context, doc *models.ResultDoc) (string, error)
	GetResult(ctx context.Context, id string) (*models.ResultDoc, error)
	DeleteResult(ctx context.Context, id string) error
}

// RecommendationScheduler kicks off background recommendation generation for
// a stored result.
type RecommendationScheduler interface {
	Schedule(resultID string, in recommend.Input)
}

type Service struct {
	repo  *Repository
	store ContentStore
	tasks RecommendationScheduler
	log   *zap.Logger
}

func NewService(repo *Repository, store ContentStore, tasks RecommendationScheduler, log *zap.Logger) *Service {
	return &Service{repo: repo, store: store, tasks: tasks, log: log}
}

// GetQuiz returns a quiz definition with its question count.
func (s *Service) GetQuiz(ctx context.Context, quizID string) (*models.QuizResponse, error) {
	quiz, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return &models.QuizResponse{QuizContent: *quiz, QuestionCount: len(quiz.QuestionIDs)}, nil
}

// GetQuestions returns a quiz's questions in definition order.
func (s *Service) GetQuestions(ctx context.Context, quizID string) ([]models.Question, error) {
	quiz, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	questions, err := s.store.GetQuestionsByIDs(ctx, quiz.QuestionIDs)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return questions, nil
}

// Start creates a new in_progress attempt, rejecting with a capacity error
// when the quiz caps attempts and the user has exhausted them.
func (s *Service) Start(ctx context.Context, user *models.User, quizID string) (*models.StartQuizResponse, error) {
	quiz, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	attempt := &models.QuizAttempt{
		UserID:    user.ID,
		QuizID:    quiz.ID,
		Status:    models.AttemptInProgress,
		StartedAt: time.Now().UTC(),
	}

	err = s.repo.DB().Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if quiz.Settings.MaxAttempts > 0 {
			count, err := repo.CountAttempts(user.ID, quiz.ID)
			if err != nil {
				return err
			}
			if count >= int64(quiz.Settings.MaxAttempts) {
				return ErrMaxAttempts
			}
		}

		return repo.CreateAttempt(attempt)
	})
	if err != nil {
		return nil, err
	}

	questions, err := s.store.GetQuestionsByIDs(ctx, quiz.QuestionIDs)
	if err != nil && !errors.Is(err, content.ErrNotFound) {
		return nil, err
	}

	return &models.StartQuizResponse{
		AttemptID: attempt.ID.String(),
		Quiz:      models.QuizResponse{QuizContent: *quiz, QuestionCount: len(questions)},
		Questions: questions,
	}, nil
}

// Submit completes an in_progress attempt: scores the answers, stores the
// detailed result document, writes the outcome with an at-most-once status
// transition, and schedules background recommendation generation.
func (s *Service) Submit(ctx context.Context, user *models.User, quizID string, attemptID uuid.UUID, answers map[string]string) (*models.QuizAttemptResponse, error) {
	quiz, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	attempt, err := s.repo.GetAttempt(attemptID, user.ID, quiz.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.Status != models.AttemptInProgress {
		return nil, ErrNotInProgress
	}

	questions, err := s.store.GetQuestionsByIDs(ctx, quiz.QuestionIDs)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	result := scoring.Score(questions, answers)
	levelName := determineLevel(quiz, result)
	passed := result.OverallScore >= quiz.PassingScore
	now := time.Now().UTC()
	timeSpent := int(now.Sub(attempt.StartedAt).Seconds())

	doc := &models.ResultDoc{
		User: models.ResultUser{
			Name:  user.Name,
			Email: user.Email,
		},
		Answers:              answers,
		Categories:           result.Categories,
		OverallScore:         result.OverallScore,
		Level:                result.Level,
		Strengths:            result.Strengths,
		Weaknesses:           result.Weaknesses,
		RecommendationStatus: models.RecommendationPending,
		QuestionDetails:      result.QuestionDetails,
		CreatedAt:            now,
	}
	resultID, err := s.store.InsertResult(ctx, doc)
	if err != nil {
		return nil, err
	}

	categoryScores := make(map[string]int, len(result.Categories))
	for cat, cs := range result.Categories {
		categoryScores[cat] = cs.Score
	}
	catJSON, _ := json.Marshal(categoryScores)
	strengthsJSON, _ := json.Marshal(result.Strengths)
	weaknessesJSON, _ := json.Marshal(result.Weaknesses)

	// The status guard runs inside the update itself; a concurrent submit
	// that lost the race sees a conflict, never a recomputed score.
	updated, err := s.repo.CompleteAttempt(attempt.ID, CompletionUpdate{
		Score:            result.OverallScore,
		Level:            levelName,
		Passed:           passed,
		CompletedAt:      now,
		TimeSpentSeconds: timeSpent,
		CategoryScores:   string(catJSON),
		Strengths:        string(strengthsJSON),
		Weaknesses:       string(weaknessesJSON),
		ResultContentID:  resultID,
	})
	if err != nil {
		return nil, err
	}
	if !updated {
		// The winning submit owns the attempt's result document; this one
		// would be orphaned, so remove it.
		if err := s.store.DeleteResult(ctx, resultID); err != nil {
			s.log.Warn("failed to delete orphaned result document",
				zap.String("result_id", resultID), zap.Error(err))
		}
		return nil, ErrNotInProgress
	}

	s.tasks.Schedule(resultID, recommend.Input{
		UserName:        user.Name,
		Level:           result.Level,
		OverallScore:    result.OverallScore,
		Strengths:       result.Strengths,
		Weaknesses:      result.Weaknesses,
		QuestionDetails: result.QuestionDetails,
	})

	startedAt := attempt.StartedAt.Format(time.RFC3339)
	completedAt := now.Format(time.RFC3339)
	return &models.QuizAttemptResponse{
		AttemptID:        attempt.ID.String(),
		QuizID:           quiz.ID,
		Status:           models.AttemptCompleted,
		Score:            &result.OverallScore,
		Level:            &levelName,
		Passed:           &passed,
		StartedAt:        startedAt,
		CompletedAt:      &completedAt,
		TimeSpentSeconds: &timeSpent,
		CategoryScores:   categoryScores,
		Strengths:        result.Strengths,
		Weaknesses:       result.Weaknesses,
		QuestionDetails:  result.QuestionDetails,
	}, nil
}

// GetAttempt returns an attempt with detailed results and recommendations
// when the linked result document is available.
func (s *Service) GetAttempt(ctx context.Context, user *models.User, quizID string, attemptID uuid.UUID) (*models.QuizAttemptResponse, error) {
	quizID = content.NormalizeQuizID(quizID)

	attempt, err := s.repo.GetAttempt(attemptID, user.ID, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}

	resp := &models.QuizAttemptResponse{
		AttemptID:        attempt.ID.String(),
		QuizID:           attempt.QuizID,
		Status:           attempt.Status,
		Score:            attempt.Score,
		Level:            attempt.Level,
		Passed:           attempt.Passed,
		StartedAt:        attempt.StartedAt.Format(time.RFC3339),
		TimeSpentSeconds: attempt.TimeSpentSeconds,
	}
	if attempt.CompletedAt != nil {
		completedAt := attempt.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &completedAt
	}
	if attempt.CategoryScores != nil {
		json.Unmarshal([]byte(*attempt.CategoryScores), &resp.CategoryScores)
	}
	if attempt.Strengths != nil {
		json.Unmarshal([]byte(*attempt.Strengths), &resp.Strengths)
	}
	if attempt.Weaknesses != nil {
		json.Unmarshal([]byte(*attempt.Weaknesses), &resp.Weaknesses)
	}

	if attempt.ResultContentID != nil {
		doc, err := s.store.GetResult(ctx, *attempt.ResultContentID)
		if err == nil {
			resp.Recommendations = doc.Recommendations
			resp.QuestionDetails = doc.QuestionDetails
		} else if !errors.Is(err, content.ErrNotFound) {
			s.log.Warn("failed to load result document",
				zap.String("result_id", *attempt.ResultContentID), zap.Error(err))
		}
	}

	return resp, nil
}

// determineLevel prefers the quiz's own level configuration; without one the
// default tier name is used, lowercased to match stored level keys.
func determineLevel(quiz *models.QuizContent, result scoring.Result) string {
	if len(quiz.LevelConfig) == 0 {
		return strings.ToLower(result.Level.Level)
	}

	levelName := ""
	best := -1
	for key, cfg := range quiz.LevelConfig {
		if result.OverallScore >= cfg.MinScore && (cfg.MinScore > best || (cfg.MinScore == best && key < levelName)) {
			best = cfg.MinScore
			levelName = key
		}
	}
	if levelName == "" {
		return strings.ToLower(result.Level.Level)
	}
	return levelName
}
