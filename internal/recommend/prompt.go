package recommend

import (
	"fmt"
	"strings"

	"assessment-system/internal/models"
	"assessment-system/internal/scoring"
)

// Input carries everything the mentor prompt is built from.
type Input struct {
	UserName        string
	UserExperience  string
	Level           models.Level
	OverallScore    int
	Strengths       []models.CategoryBrief
	Weaknesses      []models.CategoryBrief
	QuestionDetails []models.QuestionDetail
}

const systemPrompt = `You are a caring, motivating and expert mentor for systems analysts.
Your task is to analyze the user's concrete answers and give personalized recommendations.
Write vividly, with examples, and avoid boilerplate. Ground everything in the user's real questions and answers.`

func categoryList(items []models.CategoryBrief, empty string) string {
	if len(items) == 0 {
		return empty
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s (%d%%)", it.Name, it.Score)
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// buildUserPrompt assembles the mentor prompt: candidate summary, error
// analysis grouped by category, and the requested response format.
func buildUserPrompt(in Input) string {
	strongStr := categoryList(in.Strengths, "Still developing")
	weakStr := categoryList(in.Weaknesses, "No clear weaknesses")

	var incorrect, correct []models.QuestionDetail
	for _, qd := range in.QuestionDetails {
		if qd.UserScore < qd.MaxScore {
			incorrect = append(incorrect, qd)
		} else {
			correct = append(correct, qd)
		}
	}

	// Group errors by category, matched through the learning tip the scoring
	// engine embeds.
	errorsByCategory := make(map[string][]models.QuestionDetail)
	var categoryOrder []string
	for _, qd := range incorrect {
		catName := "General"
		for _, key := range scoring.CategoryKeys() {
			name := scoring.Categories[key].Name
			if strings.Contains(qd.LearningTip, "'"+name+"'") {
				catName = name
				break
			}
		}
		if _, seen := errorsByCategory[catName]; !seen {
			categoryOrder = append(categoryOrder, catName)
		}
		errorsByCategory[catName] = append(errorsByCategory[catName], qd)
	}

	var analysis strings.Builder
	for _, cat := range categoryOrder {
		errs := errorsByCategory[cat]
		fmt.Fprintf(&analysis, "\n**%s** - %d errors:\n", cat, len(errs))
		for i, e := range errs {
			if i == 3 {
				break
			}
			fmt.Fprintf(&analysis, "- Question: %s...\n", truncate(e.QuestionText, 100))
			fmt.Fprintf(&analysis, "  Your answer: %s\n", e.UserAnswerText)
			fmt.Fprintf(&analysis, "  Correct: %s\n", e.CorrectAnswerText)
			fmt.Fprintf(&analysis, "  Score: %d/%d\n", e.UserScore, e.MaxScore)
		}
	}

	var examples strings.Builder
	for i, qd := range incorrect {
		if i == 5 {
			break
		}
		fmt.Fprintf(&examples, "- %s... (Your answer: %s, Correct: %s)\n",
			truncate(qd.QuestionText, 80), qd.UserAnswerText, qd.CorrectAnswerText)
	}

	return fmt.Sprintf(`You are an experienced, inspiring and caring mentor for systems analysts.
Your task is to analyze the user's concrete answers and give personal advice.

## CANDIDATE:
Candidate: %s
Experience: %s
Current level: %s (%d%%)
Strengths: %s
Growth areas: %s

## DETAILED ANSWER ANALYSIS:
Total questions: %d
Correct answers: %d
Errors: %d

### ERROR ANALYSIS BY CATEGORY:
%s

### EXAMPLE QUESTIONS WITH ERRORS:
%s

## YOUR TASK:
1. **Analyze the concrete errors** - look at the questions that went wrong and explain why they matter
2. **Give personal advice** - based on the user's real answers, not generic categories
3. **Build a development plan** - targeting the specific weak spots visible in the answers
4. **Pick resources** - for the topics where errors occurred
5. **Motivate** - show that mistakes are normal and how to turn them into experience

## RESPONSE FORMAT:
# Personal development plan for %s

## Analysis of your answers
Having analyzed your answers to %d questions, I see the following patterns:
- **You answered correctly on:** [concrete topics]
- **You struggled with:** [concrete topics based on the errors]

## Concrete areas for development
[Based on the real mistakes you made]

## 3-month plan
[A personalized plan that accounts for your errors]

## Best resources
[For the concrete topics where errors occurred]

**Remember: every wrong answer is a step toward understanding!**`,
		in.UserName,
		in.UserExperience,
		in.Level.Level,
		in.OverallScore,
		strongStr,
		weakStr,
		len(in.QuestionDetails),
		len(correct),
		len(incorrect),
		analysis.String(),
		examples.String(),
		in.UserName,
		len(in.QuestionDetails),
	)
}
