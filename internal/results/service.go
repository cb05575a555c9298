package results

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"assessment-system/internal/content"
	"assessment-system/internal/models"
	"assessment-system/internal/recommend"
	"assessment-system/internal/scoring"
)

var (
	ErrNoQuestions       = errors.New("questions not found")
	ErrResultNotFound    = errors.New("result not found")
	ErrQuickTestDisabled = errors.New("quick test functionality is disabled")
)

// ContentStore is the slice of the content store the results surface needs.
type ContentStore interface {
	AllQuestions(ctx context.Context) ([]models.Question, error)
	InsertResult(ctx context.Context, doc *models.ResultDoc) (string, error)
	GetResult(ctx context.Context, id string) (*models.ResultDoc, error)
}

// Scheduler kicks off background recommendation generation.
type Scheduler interface {
	Schedule(resultID string, in recommend.Input)
}

type Service struct {
	store            ContentStore
	tasks            Scheduler
	gen              Generator
	quickTestEnabled bool
	log              *zap.Logger
}

func NewService(store ContentStore, tasks Scheduler, gen Generator, quickTestEnabled bool, log *zap.Logger) *Service {
	return &Service{store: store, tasks: tasks, gen: gen, quickTestEnabled: quickTestEnabled, log: log}
}

// Questions returns the full question bank.
func (s *Service) Questions(ctx context.Context) ([]models.Question, error) {
	return s.store.AllQuestions(ctx)
}

// Submit scores the given answers against the full question bank, stores the
// result document and schedules background recommendation generation.
func (s *Service) Submit(ctx context.Context, req models.SubmitResultRequest) (*models.ResultDoc, error) {
	questions, err := s.store.AllQuestions(ctx)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	result := scoring.Score(questions, req.Answers)
	doc := &models.ResultDoc{
		User:                 req.User,
		Answers:              req.Answers,
		Categories:           result.Categories,
		OverallScore:         result.OverallScore,
		Level:                result.Level,
		Strengths:            result.Strengths,
		Weaknesses:           result.Weaknesses,
		RecommendationStatus: models.RecommendationPending,
		QuestionDetails:      result.QuestionDetails,
		CreatedAt:            time.Now().UTC(),
	}

	resultID, err := s.store.InsertResult(ctx, doc)
	if err != nil {
		return nil, err
	}

	s.tasks.Schedule(resultID, recommend.Input{
		UserName:        req.User.Name,
		UserExperience:  req.User.Experience,
		Level:           result.Level,
		OverallScore:    result.OverallScore,
		Strengths:       result.Strengths,
		Weaknesses:      result.Weaknesses,
		QuestionDetails: result.QuestionDetails,
	})
	return doc, nil
}

// Get returns a stored result with the embedded user stripped down to name
// and experience. Email never leaves the store through this path.
func (s *Service) Get(ctx context.Context, id string) (*models.ResultDoc, error) {
	doc, err := s.store.GetResult(ctx, id)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	doc.User = models.ResultUser{Name: doc.User.Name, Experience: doc.User.Experience}
	return doc, nil
}

// Recommendations generates advice synchronously and returns the markdown.
func (s *Service) Recommendations(ctx context.Context, req models.RecommendationRequest) (string, error) {
	return s.gen.Generate(ctx, recommend.Input{
		UserName:        req.User.Name,
		UserExperience:  req.User.Experience,
		Level:           req.Level,
		OverallScore:    req.OverallScore,
		Strengths:       req.Strengths,
		Weaknesses:      req.Weaknesses,
		QuestionDetails: req.QuestionDetails,
	})
}

// QuickTest generates a synthetic attempt with profile-shaped answers and
// runs it through the normal submit pipeline.
func (s *Service) QuickTest(ctx context.Context, testType string) (*models.QuickTestResponse, error) {
	if !s.quickTestEnabled {
		return nil, ErrQuickTestDisabled
	}
	if testType == "" {
		testType = "random"
	}

	questions, err := s.store.AllQuestions(ctx)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	answers := generateQuickTestAnswers(questions, testType)
	doc, err := s.Submit(ctx, models.SubmitResultRequest{
		User: models.ResultUser{
			Name:       "Quick Test - " + titleCase(testType),
			Experience: "N/A",
		},
		Answers: answers,
	})
	if err != nil {
		return nil, err
	}

	return &models.QuickTestResponse{
		TestID:       doc.ID,
		Message:      fmt.Sprintf("Quick test completed with %s level answers", testType),
		AnswersCount: len(answers),
	}, nil
}

// QuickTestResult returns a quick-test result through the sanitized path.
func (s *Service) QuickTestResult(ctx context.Context, id string) (*models.ResultDoc, error) {
	if !s.quickTestEnabled {
		return nil, ErrQuickTestDisabled
	}
	return s.Get(ctx, id)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var (
	strongOptions = []string{"a", "b", "c"}
	weakOptions   = []string{"d", "e", "f", "g", "h", "i"}
	allOptions    = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
)

// correctRate is the chance a profile picks from the strong options.
var correctRate = map[string]float64{
	"expert":       0.8,
	"intermediate": 0.6,
	"beginner":     0.3,
}

func generateQuickTestAnswers(questions []models.Question, testType string) map[string]string {
	answers := make(map[string]string, len(questions))
	for _, q := range questions {
		rate, ok := correctRate[testType]
		if !ok {
			answers[q.ID] = allOptions[rand.Intn(len(allOptions))]
			continue
		}
		if rand.Float64() < rate {
			answers[q.ID] = strongOptions[rand.Intn(len(strongOptions))]
		} else {
			answers[q.ID] = weakOptions[rand.Intn(len(weakOptions))]
		}
	}
	return answers
}
