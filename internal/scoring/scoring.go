package scoring

import (
	"fmt"
	"math"

	"assessment-system/internal/models"
)

// Result is the full output of scoring one answer set.
type Result struct {
	OverallScore    int
	Level           models.Level
	Categories      map[string]models.CategoryScore
	Strengths       []models.CategoryBrief
	Weaknesses      []models.CategoryBrief
	QuestionDetails []models.QuestionDetail
}

// Score computes per-category and overall weighted scores for a question set
// and an answer map keyed by question id.
//
// Every configured category participates in the weighted average, including
// categories with no answered questions; those score 0% and still count
// against the denominator.
func Score(questions []models.Question, answers map[string]string) Result {
	achieved := make(map[string]int, len(Categories))
	maxPossible := make(map[string]int, len(Categories))
	for cat := range Categories {
		achieved[cat] = 0
		maxPossible[cat] = 0
	}

	var details []models.QuestionDetail

	for _, q := range questions {
		// Without a weight map the question is worth DefaultMaxScore and no
		// correct option is determinable. Ties in the weight map break toward
		// the lexically smallest option value so results are deterministic.
		maxScore := DefaultMaxScore
		correctValue := ""
		if len(q.Weights) > 0 {
			first := true
			for value, points := range q.Weights {
				if first || points > maxScore || (points == maxScore && value < correctValue) {
					maxScore = points
					correctValue = value
					first = false
				}
			}
		}

		maxPossible[q.Category] += maxScore

		answer, ok := answers[q.ID]
		if !ok || answer == "" {
			continue
		}

		score := q.Weights[answer]
		achieved[q.Category] += score

		userText, correctText := "", ""
		for _, opt := range q.Options {
			if opt.Value == answer {
				userText = opt.Text
			}
			if opt.Value == correctValue {
				correctText = opt.Text
			}
		}

		catName := q.Category
		if cfg, ok := Categories[q.Category]; ok {
			catName = cfg.Name
		}

		details = append(details, models.QuestionDetail{
			QuestionID:         q.ID,
			QuestionText:       q.Question,
			UserAnswerValue:    answer,
			UserAnswerText:     userText,
			CorrectAnswerValue: correctValue,
			CorrectAnswerText:  correctText,
			UserScore:          score,
			MaxScore:           maxScore,
			Explanation:        fmt.Sprintf("You chose '%s' (score: %d/%d)", userText, score, maxScore),
			Difficulty:         "medium",
			LearningTip:        fmt.Sprintf("To improve in '%s', review: %s", catName, q.Question),
		})
	}

	categories := make(map[string]models.CategoryScore, len(Categories))
	var weightedSum, totalWeight float64
	for _, cat := range categoryOrder {
		cfg := Categories[cat]
		percent := 0
		if maxPossible[cat] > 0 {
			percent = int(math.Round(float64(achieved[cat]) / float64(maxPossible[cat]) * 100))
		}
		categories[cat] = models.CategoryScore{
			Score:  percent,
			Weight: cfg.Weight,
			Name:   cfg.Name,
		}
		weightedSum += float64(percent) * cfg.Weight
		totalWeight += cfg.Weight
	}

	overall := int(math.Round(weightedSum / totalWeight))

	var strengths, weaknesses []models.CategoryBrief
	for _, cat := range categoryOrder {
		cs := categories[cat]
		if cs.Score >= StrengthThreshold {
			strengths = append(strengths, models.CategoryBrief{Name: cs.Name, Score: cs.Score})
		}
		if cs.Score < WeaknessThreshold {
			weaknesses = append(weaknesses, models.CategoryBrief{Name: cs.Name, Score: cs.Score})
		}
	}

	return Result{
		OverallScore:    overall,
		Level:           LevelFor(overall),
		Categories:      categories,
		Strengths:       strengths,
		Weaknesses:      weaknesses,
		QuestionDetails: details,
	}
}
