package models

import "time"

// Content-store records. These are owned by the content store and read-only
// to the scoring engine; they are validated and converted at the store
// boundary rather than passed around as loose documents.

type Option struct {
	Value string `bson:"value" json:"value"`
	Text  string `bson:"text" json:"text"`
}

type Question struct {
	ID       string         `bson:"id" json:"id"`
	Category string         `bson:"category" json:"category"`
	Type     string         `bson:"type" json:"type"`
	Question string         `bson:"question" json:"question"`
	Options  []Option       `bson:"options" json:"options"`
	Weights  map[string]int `bson:"weights,omitempty" json:"weights,omitempty"`
}

type CategoryConfig struct {
	Name   string  `bson:"name" json:"name"`
	Icon   string  `bson:"icon" json:"icon"`
	Weight float64 `bson:"weight" json:"weight"`
}

type LevelConfig struct {
	Name     string `bson:"name" json:"name"`
	MinScore int    `bson:"min_score" json:"min_score"`
}

type QuizSettings struct {
	MaxAttempts      int  `bson:"max_attempts,omitempty" json:"max_attempts,omitempty"`
	ShuffleQuestions bool `bson:"shuffle_questions,omitempty" json:"shuffle_questions,omitempty"`
	ShuffleOptions   bool `bson:"shuffle_options,omitempty" json:"shuffle_options,omitempty"`
}

// QuizContent is a quiz definition document. IDs carry the "quiz:" prefix.
type QuizContent struct {
	ID              string                    `bson:"_id" json:"id"`
	Type            string                    `bson:"type" json:"type"`
	Title           string                    `bson:"title" json:"title"`
	Description     string                    `bson:"description" json:"description"`
	Slug            string                    `bson:"slug" json:"slug"`
	Level           string                    `bson:"level,omitempty" json:"level"`
	DurationMinutes *int                      `bson:"duration_minutes,omitempty" json:"duration_minutes,omitempty"`
	PassingScore    int                       `bson:"passing_score,omitempty" json:"passing_score"`
	Categories      map[string]CategoryConfig `bson:"categories,omitempty" json:"categories,omitempty"`
	LevelConfig     map[string]LevelConfig    `bson:"level_config,omitempty" json:"level_config,omitempty"`
	QuestionIDs     []string                  `bson:"question_ids" json:"-"`
	Settings        QuizSettings              `bson:"settings,omitempty" json:"settings"`
}

// Recommendation generation states for a stored result.
const (
	RecommendationPending = "pending"
	RecommendationDone    = "done"
	RecommendationFailed  = "failed"
)

// ResultUser is the denormalized user info embedded in a result document.
type ResultUser struct {
	Name       string `bson:"name" json:"name"`
	Email      string `bson:"email,omitempty" json:"email,omitempty"`
	Experience string `bson:"experience" json:"experience"`
}

// ResultDoc is a detailed assessment result stored in the content store.
// Recommendations start null and are filled in by a background task; clients
// poll until recommendation_status leaves "pending".
type ResultDoc struct {
	ID                   string                   `bson:"_id,omitempty" json:"result_id,omitempty"`
	User                 ResultUser               `bson:"user" json:"user"`
	Answers              map[string]string        `bson:"answers" json:"-"`
	Categories           map[string]CategoryScore `bson:"categories" json:"categories"`
	OverallScore         int                      `bson:"overallScore" json:"overallScore"`
	Level                Level                    `bson:"level" json:"level"`
	Strengths            []CategoryBrief          `bson:"strengths" json:"strengths"`
	Weaknesses           []CategoryBrief          `bson:"weaknesses" json:"weaknesses"`
	Recommendations      *string                  `bson:"recommendations" json:"recommendations"`
	RecommendationStatus string                   `bson:"recommendation_status" json:"recommendation_status"`
	QuestionDetails      []QuestionDetail         `bson:"question_details" json:"question_details"`
	CreatedAt            time.Time                `bson:"created_at" json:"created_at"`
}

// CategoryScore is the per-category outcome of a scored attempt.
type CategoryScore struct {
	Score  int     `bson:"score" json:"score"`
	Weight float64 `bson:"weight" json:"weight"`
	Name   string  `bson:"name" json:"name"`
}

// CategoryBrief names a strong or weak category with its score.
type CategoryBrief struct {
	Name  string `bson:"name" json:"name"`
	Score int    `bson:"score" json:"score"`
}

// Level is a proficiency tier with display thresholds.
type Level struct {
	Level          string `bson:"level" json:"level"`
	Description    string `bson:"description" json:"description"`
	NextLevel      string `bson:"nextLevel" json:"nextLevel"`
	MinYears       string `bson:"minYears" json:"minYears"`
	NextLevelScore string `bson:"nextLevelScore" json:"nextLevelScore"`
	MinScore       string `bson:"minScore" json:"minScore"`
}

// QuestionDetail records how a single answered question was scored.
type QuestionDetail struct {
	QuestionID         string `bson:"question_id" json:"question_id"`
	QuestionText       string `bson:"question_text" json:"question_text"`
	UserAnswerValue    string `bson:"user_answer_value" json:"user_answer_value"`
	UserAnswerText     string `bson:"user_answer_text" json:"user_answer_text"`
	CorrectAnswerValue string `bson:"correct_answer_value" json:"correct_answer_value"`
	CorrectAnswerText  string `bson:"correct_answer_text" json:"correct_answer_text"`
	UserScore          int    `bson:"user_score" json:"user_score"`
	MaxScore           int    `bson:"max_score" json:"max_score"`
	Explanation        string `bson:"explanation" json:"explanation"`
	Difficulty         string `bson:"difficulty" json:"difficulty"`
	LearningTip        string `bson:"learning_tip" json:"learning_tip"`
}
