package content

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"

	"assessment-system/internal/models"
	"assessment-system/pkg/cache"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("content not found")

// Store reads quiz definitions and questions from the document store and
// persists result documents. Reads are fronted by a fixed-TTL cache and
// treated as eventually consistent reference data.
type Store struct {
	quizzes   *mongo.Collection
	questions *mongo.Collection
	results   *mongo.Collection
	cache     *cache.RedisCache
	log       *zap.Logger
}

func NewStore(db *mongo.Database, c *cache.RedisCache, log *zap.Logger) *Store {
	return &Store{
		quizzes:   db.Collection("quiz_content"),
		questions: db.Collection("questions"),
		results:   db.Collection("results"),
		cache:     c,
		log:       log,
	}
}

// NormalizeQuizID adds the "quiz:" prefix when absent, so both
// "system-analyst-assessment" and "quiz:system-analyst-assessment" resolve
// to the same document.
func NormalizeQuizID(id string) string {
	if strings.HasPrefix(id, "quiz:") {
		return id
	}
	return "quiz:" + id
}

// GetQuiz loads a quiz definition, serving from cache within the TTL.
func (s *Store) GetQuiz(ctx context.Context, quizID string) (*models.QuizContent, error) {
	quizID = NormalizeQuizID(quizID)
	cacheKey := "content:" + quizID

	var quiz models.QuizContent
	if hit, err := s.cache.GetJSON(ctx, cacheKey, &quiz); err != nil {
		s.log.Warn("quiz cache read failed", zap.Error(err))
	} else if hit {
		return &quiz, nil
	}

	err := s.quizzes.FindOne(ctx, bson.M{"_id": quizID}).Decode(&quiz)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if quiz.PassingScore == 0 {
		quiz.PassingScore = 50
	}

	if err := s.cache.SetJSON(ctx, cacheKey, &quiz); err != nil {
		s.log.Warn("quiz cache write failed", zap.Error(err))
	}
	return &quiz, nil
}

// GetQuestionsByIDs fetches questions and returns them in the order the ids
// were given. Missing ids are an error: the quiz references content that is
// not there.
func (s *Store) GetQuestionsByIDs(ctx context.Context, ids []string) ([]models.Question, error) {
	if len(ids) == 0 {
		return nil, ErrNotFound
	}

	cursor, err := s.questions.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var found []models.Question
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}

	byID := make(map[string]models.Question, len(found))
	for _, q := range found {
		byID[q.ID] = q
	}

	ordered := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			return nil, ErrNotFound
		}
		ordered = append(ordered, q)
	}
	return ordered, nil
}

// AllQuestions returns the full question bank, cached for the content TTL.
func (s *Store) AllQuestions(ctx context.Context) ([]models.Question, error) {
	const cacheKey = "content:questions:all"

	var questions []models.Question
	if hit, err := s.cache.GetJSON(ctx, cacheKey, &questions); err != nil {
		s.log.Warn("questions cache read failed", zap.Error(err))
	} else if hit {
		return questions, nil
	}

	cursor, err := s.questions.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, cacheKey, questions); err != nil {
		s.log.Warn("questions cache write failed", zap.Error(err))
	}
	return questions, nil
}

// InsertResult stores a result document and returns its id.
func (s *Store) InsertResult(ctx context.Context, doc *models.ResultDoc) (string, error) {
	if doc.ID == "" {
		doc.ID = bson.NewObjectID().Hex()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if _, err := s.results.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return doc.ID, nil
}

// GetResult loads a stored result document.
func (s *Store) GetResult(ctx context.Context, id string) (*models.ResultDoc, error) {
	var doc models.ResultDoc
	err := s.results.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// DeleteResult removes a stored result document. Deleting an absent id is
// not an error.
func (s *Store) DeleteResult(ctx context.Context, id string) error {
	_, err := s.results.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// SetRecommendations writes the generated recommendations text (or nil on
// failure) and the final task status onto a stored result.
func (s *Store) SetRecommendations(ctx context.Context, id string, text *string, status string) error {
	_, err := s.results.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"recommendations":       text,
			"recommendation_status": status,
		},
	})
	return err
}
