package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assessment-system/internal/models"
)

func dbQuestion() models.Question {
	return models.Question{
		ID:       "q1",
		Category: "database",
		Type:     "single",
		Question: "How would you model a many-to-many relation?",
		Options: []models.Option{
			{Value: "a", Text: "Join table"},
			{Value: "b", Text: "Comma-separated column"},
		},
		Weights: map[string]int{"a": 5, "b": 0},
	}
}

func TestScore_CorrectAnswerScoresCategoryFull(t *testing.T) {
	res := Score([]models.Question{dbQuestion()}, map[string]string{"q1": "a"})

	assert.Equal(t, 100, res.Categories["database"].Score)
	// database weight 1.1 of total 9.9 => round(100*1.1/9.9) = 11
	assert.Equal(t, 11, res.OverallScore)
	assert.Equal(t, "Junior", res.Level.Level)

	require.Len(t, res.QuestionDetails, 1)
	d := res.QuestionDetails[0]
	assert.Equal(t, "a", d.CorrectAnswerValue)
	assert.Equal(t, "Join table", d.CorrectAnswerText)
	assert.Equal(t, 5, d.UserScore)
	assert.Equal(t, 5, d.MaxScore)
}

func TestScore_WrongAnswerScoresZero(t *testing.T) {
	res := Score([]models.Question{dbQuestion()}, map[string]string{"q1": "b"})

	assert.Equal(t, 0, res.Categories["database"].Score)
	assert.Equal(t, 0, res.OverallScore)
}

func TestScore_EmptyAnswers(t *testing.T) {
	res := Score([]models.Question{dbQuestion()}, map[string]string{})

	assert.Equal(t, 0, res.OverallScore)
	for cat, cs := range res.Categories {
		assert.Equalf(t, 0, cs.Score, "category %s", cat)
	}
	assert.Empty(t, res.QuestionDetails)
}

func TestScore_NoWeightMapDefaults(t *testing.T) {
	q := models.Question{
		ID:       "q2",
		Category: "api",
		Question: "Describe REST maturity levels",
		Options:  []models.Option{{Value: "a", Text: "Level 0-3"}},
	}
	res := Score([]models.Question{q}, map[string]string{"q2": "a"})

	require.Len(t, res.QuestionDetails, 1)
	d := res.QuestionDetails[0]
	assert.Equal(t, 5, d.MaxScore)
	assert.Equal(t, "", d.CorrectAnswerValue)
	assert.Equal(t, 0, d.UserScore)
}

func TestScore_UnknownChosenOptionScoresZero(t *testing.T) {
	res := Score([]models.Question{dbQuestion()}, map[string]string{"q1": "zz"})

	require.Len(t, res.QuestionDetails, 1)
	assert.Equal(t, 0, res.QuestionDetails[0].UserScore)
	assert.Equal(t, 0, res.Categories["database"].Score)
}

func TestScore_UnansweredCategoriesStayInDenominator(t *testing.T) {
	// Two questions in different categories, only one answered. The empty
	// eight categories plus the unanswered one all weigh the average down.
	questions := []models.Question{
		dbQuestion(),
		{
			ID:       "q3",
			Category: "security",
			Question: "Where do you store secrets?",
			Options:  []models.Option{{Value: "a", Text: "Vault"}},
			Weights:  map[string]int{"a": 5},
		},
	}
	res := Score(questions, map[string]string{"q1": "a"})

	assert.Equal(t, 100, res.Categories["database"].Score)
	assert.Equal(t, 0, res.Categories["security"].Score)
	assert.Equal(t, 11, res.OverallScore)
}

func TestScore_StrengthsAndWeaknessesBands(t *testing.T) {
	res := Score([]models.Question{dbQuestion()}, map[string]string{"q1": "a"})

	// database at 100 is a strength; every other category at 0 is a weakness.
	require.Len(t, res.Strengths, 1)
	assert.Equal(t, "Databases", res.Strengths[0].Name)
	assert.Len(t, res.Weaknesses, 8)
}

func TestScore_NeutralBand(t *testing.T) {
	// 2 questions worth 5 each, user earns 6.5 -> not representable; use
	// 13/20 = 65% which sits in the 60-69 neutral band.
	questions := []models.Question{
		{
			ID: "n1", Category: "api", Question: "Q1",
			Options: []models.Option{{Value: "a", Text: "A"}, {Value: "b", Text: "B"}},
			Weights: map[string]int{"a": 10, "b": 8},
		},
		{
			ID: "n2", Category: "api", Question: "Q2",
			Options: []models.Option{{Value: "a", Text: "A"}, {Value: "b", Text: "B"}},
			Weights: map[string]int{"a": 10, "b": 5},
		},
	}
	res := Score(questions, map[string]string{"n1": "b", "n2": "b"})

	assert.Equal(t, 65, res.Categories["api"].Score)
	for _, s := range res.Strengths {
		assert.NotEqual(t, "API Design", s.Name)
	}
	for _, w := range res.Weaknesses {
		assert.NotEqual(t, "API Design", w.Name)
	}
}

func TestLevelFor_Thresholds(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{0, "Junior"},
		{39, "Junior"},
		{40, "Junior+"},
		{54, "Junior+"},
		{55, "Middle"},
		{69, "Middle"},
		{70, "Middle+"},
		{84, "Middle+"},
		{85, "Senior"},
		{100, "Senior"},
	}
	for _, tc := range cases {
		got := LevelFor(tc.score)
		assert.Equalf(t, tc.want, got.Level, "score %d", tc.score)
	}
}

func TestLevelFor_StringifiedThresholds(t *testing.T) {
	lvl := LevelFor(90)
	assert.Equal(t, "85", lvl.MinScore)
	assert.Equal(t, "100", lvl.NextLevelScore)
	assert.Equal(t, "Lead/Architect", lvl.NextLevel)
}

func TestScore_MaxPerQuestionEqualsMaxWeight(t *testing.T) {
	q := models.Question{
		ID: "m1", Category: "modeling", Question: "Pick one",
		Options: []models.Option{{Value: "a", Text: "A"}, {Value: "b", Text: "B"}, {Value: "c", Text: "C"}},
		Weights: map[string]int{"a": 3, "b": 7, "c": 1},
	}
	res := Score([]models.Question{q}, map[string]string{"m1": "a"})

	require.Len(t, res.QuestionDetails, 1)
	assert.Equal(t, 7, res.QuestionDetails[0].MaxScore)
	assert.Equal(t, "b", res.QuestionDetails[0].CorrectAnswerValue)
	// 3/7 => 43%
	assert.Equal(t, 43, res.Categories["modeling"].Score)
}
