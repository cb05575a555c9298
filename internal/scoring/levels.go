package scoring

import (
	"strconv"

	"assessment-system/internal/models"
)

type levelTier struct {
	Level          string
	Description    string
	NextLevel      string
	MinYears       string
	NextLevelScore int
	MinScore       int
}

// levels is ordered from the highest minimum score down. The last tier has
// MinScore 0 so LevelFor is total.
var levels = []levelTier{
	{Level: "Senior", Description: "Expert-level systems analyst", NextLevel: "Lead/Architect", MinYears: "5+", NextLevelScore: 100, MinScore: 85},
	{Level: "Middle+", Description: "Confident Middle with growth potential", NextLevel: "Senior", MinYears: "3-5", NextLevelScore: 85, MinScore: 70},
	{Level: "Middle", Description: "Independent systems analyst", NextLevel: "Middle+", MinYears: "2-3", NextLevelScore: 70, MinScore: 55},
	{Level: "Junior+", Description: "Developing Junior", NextLevel: "Middle", MinYears: "1-2", NextLevelScore: 55, MinScore: 40},
	{Level: "Junior", Description: "Entry-level systems analyst", NextLevel: "Junior+", MinYears: "0-1", NextLevelScore: 40, MinScore: 0},
}

// LevelFor maps an overall score to the first tier whose minimum the score
// meets.
func LevelFor(score int) models.Level {
	for _, lvl := range levels {
		if score >= lvl.MinScore {
			return toModel(lvl)
		}
	}
	return toModel(levels[len(levels)-1])
}

func toModel(lvl levelTier) models.Level {
	return models.Level{
		Level:          lvl.Level,
		Description:    lvl.Description,
		NextLevel:      lvl.NextLevel,
		MinYears:       lvl.MinYears,
		NextLevelScore: strconv.Itoa(lvl.NextLevelScore),
		MinScore:       strconv.Itoa(lvl.MinScore),
	}
}
