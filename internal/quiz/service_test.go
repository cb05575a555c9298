package quiz

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"assessment-system/internal/content"
	"assessment-system/internal/models"
	"assessment-system/internal/recommend"
	"assessment-system/internal/scoring"
)

func scoringResult(score int) scoring.Result {
	return scoring.Result{OverallScore: score, Level: scoring.LevelFor(score)}
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

type fakeStore struct {
	quiz      *models.QuizContent
	questions []models.Question
	results   map[string]*models.ResultDoc
	inserted  *models.ResultDoc
	deleted   []string
}

func (f *fakeStore) GetQuiz(ctx context.Context, quizID string) (*models.QuizContent, error) {
	if f.quiz == nil || content.NormalizeQuizID(quizID) != f.quiz.ID {
		return nil, content.ErrNotFound
	}
	return f.quiz, nil
}

func (f *fakeStore) GetQuestionsByIDs(ctx context.Context, ids []string) ([]models.Question, error) {
	return f.questions, nil
}

func (f *fakeStore) InsertResult(ctx context.Context, doc *models.ResultDoc) (string, error) {
	f.inserted = doc
	return "res-1", nil
}

func (f *fakeStore) GetResult(ctx context.Context, id string) (*models.ResultDoc, error) {
	doc, ok := f.results[id]
	if !ok {
		return nil, content.ErrNotFound
	}
	return doc, nil
}

func (f *fakeStore) DeleteResult(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.results, id)
	return nil
}

type fakeScheduler struct {
	resultID string
	input    recommend.Input
	calls    int
}

func (f *fakeScheduler) Schedule(resultID string, in recommend.Input) {
	f.resultID = resultID
	f.input = in
	f.calls++
}

func testQuiz() *models.QuizContent {
	return &models.QuizContent{
		ID:           "quiz:backend",
		Title:        "Backend assessment",
		PassingScore: 50,
		QuestionIDs:  []string{"q1"},
		Settings:     models.QuizSettings{MaxAttempts: 3},
	}
}

func testQuestions() []models.Question {
	return []models.Question{
		{
			ID:       "q1",
			Category: "security",
			Question: "Where do you store secrets?",
			Options: []models.Option{
				{Value: "a", Text: "In a vault"},
				{Value: "b", Text: "In the repo"},
			},
			Weights: map[string]int{"a": 5, "b": 0},
		},
	}
}

func testUser() *models.User {
	return &models.User{ID: uuid.New(), Email: "alex@example.com", Name: "Alex"}
}

func newTestService(t *testing.T, store *fakeStore, tasks *fakeScheduler) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewService(NewRepository(db), store, tasks, zap.NewNop()), mock
}

func TestService_GetQuiz_NotFound(t *testing.T) {
	svc, _ := newTestService(t, &fakeStore{}, &fakeScheduler{})

	_, err := svc.GetQuiz(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestService_GetQuiz_CountsQuestions(t *testing.T) {
	store := &fakeStore{quiz: testQuiz()}
	svc, _ := newTestService(t, store, &fakeScheduler{})

	resp, err := svc.GetQuiz(context.Background(), "backend")
	require.NoError(t, err)
	assert.Equal(t, "quiz:backend", resp.ID)
	assert.Equal(t, 1, resp.QuestionCount)
}

func TestService_Start_MaxAttemptsReached(t *testing.T) {
	store := &fakeStore{quiz: testQuiz(), questions: testQuestions()}
	svc, mock := newTestService(t, store, &fakeScheduler{})

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "quiz_attempts"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectRollback()

	_, err := svc.Start(context.Background(), testUser(), "quiz:backend")
	assert.ErrorIs(t, err, ErrMaxAttempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func attemptRows(id, userID uuid.UUID, quizID, status string, startedAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "quiz_id", "status", "started_at"}).
		AddRow(id, userID, quizID, status, startedAt)
}

func TestService_Submit_AttemptNotFound(t *testing.T) {
	store := &fakeStore{quiz: testQuiz(), questions: testQuestions()}
	svc, mock := newTestService(t, store, &fakeScheduler{})

	mock.ExpectQuery(`SELECT \* FROM "quiz_attempts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Submit(context.Background(), testUser(), "quiz:backend", uuid.New(), nil)
	assert.ErrorIs(t, err, ErrAttemptNotFound)
}

func TestService_Submit_AlreadyCompleted(t *testing.T) {
	store := &fakeStore{quiz: testQuiz(), questions: testQuestions()}
	svc, mock := newTestService(t, store, &fakeScheduler{})

	user := testUser()
	attemptID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "quiz_attempts"`).
		WillReturnRows(attemptRows(attemptID, user.ID, "quiz:backend", models.AttemptCompleted, time.Now()))

	_, err := svc.Submit(context.Background(), user, "quiz:backend", attemptID, map[string]string{"q1": "a"})
	assert.ErrorIs(t, err, ErrNotInProgress)
}

func TestService_Submit_CompletesAndSchedules(t *testing.T) {
	store := &fakeStore{quiz: testQuiz(), questions: testQuestions()}
	tasks := &fakeScheduler{}
	svc, mock := newTestService(t, store, tasks)

	user := testUser()
	attemptID := uuid.New()
	started := time.Now().Add(-90 * time.Second)

	mock.ExpectQuery(`SELECT \* FROM "quiz_attempts"`).
		WillReturnRows(attemptRows(attemptID, user.ID, "quiz:backend", models.AttemptInProgress, started))
	mock.ExpectExec(`UPDATE "quiz_attempts"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp, err := svc.Submit(context.Background(), user, "quiz:backend", attemptID, map[string]string{"q1": "a"})
	require.NoError(t, err)

	assert.Equal(t, models.AttemptCompleted, resp.Status)

	// One perfect security answer and eight silent categories: the weighted
	// overall is round(100*1.0/9.9) = 10, below the 50% passing score.
	require.NotNil(t, resp.Score)
	assert.Equal(t, 10, *resp.Score)
	require.NotNil(t, resp.Passed)
	assert.False(t, *resp.Passed)
	require.NotNil(t, resp.Level)
	assert.Equal(t, "junior", *resp.Level)
	require.NotNil(t, resp.TimeSpentSeconds)
	assert.GreaterOrEqual(t, *resp.TimeSpentSeconds, 90)

	require.NotNil(t, store.inserted)
	assert.Equal(t, models.RecommendationPending, store.inserted.RecommendationStatus)
	assert.Equal(t, "Alex", store.inserted.User.Name)

	assert.Equal(t, 1, tasks.calls)
	assert.Equal(t, "res-1", tasks.resultID)
	assert.Equal(t, "Alex", tasks.input.UserName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Submit_LostRaceReportsConflict(t *testing.T) {
	store := &fakeStore{quiz: testQuiz(), questions: testQuestions()}
	tasks := &fakeScheduler{}
	svc, mock := newTestService(t, store, tasks)

	user := testUser()
	attemptID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "quiz_attempts"`).
		WillReturnRows(attemptRows(attemptID, user.ID, "quiz:backend", models.AttemptInProgress, time.Now()))
	mock.ExpectExec(`UPDATE "quiz_attempts"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := svc.Submit(context.Background(), user, "quiz:backend", attemptID, map[string]string{"q1": "a"})
	assert.ErrorIs(t, err, ErrNotInProgress)
	assert.Equal(t, 0, tasks.calls, "a lost race must not schedule recommendations")
	assert.Equal(t, []string{"res-1"}, store.deleted, "the losing submit's result document must be removed")
}

func TestService_GetAttempt_MergesResultDoc(t *testing.T) {
	rec := "## Development plan"
	store := &fakeStore{
		quiz: testQuiz(),
		results: map[string]*models.ResultDoc{
			"res-1": {
				ID:                   "res-1",
				Recommendations:      &rec,
				RecommendationStatus: models.RecommendationDone,
				QuestionDetails:      []models.QuestionDetail{{QuestionID: "q1"}},
			},
		},
	}
	svc, mock := newTestService(t, store, &fakeScheduler{})

	user := testUser()
	attemptID := uuid.New()
	score := 72
	resultID := "res-1"

	mock.ExpectQuery(`SELECT \* FROM "quiz_attempts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "quiz_id", "status", "score", "started_at", "result_content_id"}).
			AddRow(attemptID, user.ID, "quiz:backend", models.AttemptCompleted, score, time.Now(), resultID))

	resp, err := svc.GetAttempt(context.Background(), user, "backend", attemptID)
	require.NoError(t, err)
	require.NotNil(t, resp.Recommendations)
	assert.Equal(t, rec, *resp.Recommendations)
	assert.Len(t, resp.QuestionDetails, 1)
}

func TestDetermineLevel(t *testing.T) {
	quiz := testQuiz()
	quiz.LevelConfig = map[string]models.LevelConfig{
		"junior": {Name: "Junior", MinScore: 0},
		"middle": {Name: "Middle", MinScore: 50},
		"senior": {Name: "Senior", MinScore: 85},
	}

	tests := []struct {
		score int
		want  string
	}{
		{score: 10, want: "junior"},
		{score: 50, want: "middle"},
		{score: 84, want: "middle"},
		{score: 100, want: "senior"},
	}
	for _, tt := range tests {
		result := scoringResult(tt.score)
		assert.Equal(t, tt.want, determineLevel(quiz, result), "score %d", tt.score)
	}

	// Without level config the default tier name applies, lowercased.
	assert.Equal(t, "middle", determineLevel(testQuiz(), scoringResult(60)))
}
