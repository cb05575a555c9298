package scoring

import "assessment-system/internal/models"

// DefaultMaxScore is the per-question maximum when a question carries no
// weight map.
const DefaultMaxScore = 5

// Classification thresholds. Categories scoring between the two are neither
// a strength nor a weakness.
const (
	StrengthThreshold = 70
	WeaknessThreshold = 60
)

// categoryOrder fixes iteration order so strengths, weaknesses and category
// maps serialize deterministically.
var categoryOrder = []string{
	"documentation",
	"modeling",
	"api",
	"database",
	"messaging",
	"system_design",
	"security",
	"analytical",
	"communication",
}

// Categories is the default category configuration. The weight combines
// per-category percentages into the overall score.
var Categories = map[string]models.CategoryConfig{
	"documentation": {Name: "Documentation", Icon: "📝", Weight: 1},
	"modeling":      {Name: "Process Modeling", Icon: "📊", Weight: 1.2},
	"api":           {Name: "API Design", Icon: "🔌", Weight: 1.1},
	"database":      {Name: "Databases", Icon: "🗄️", Weight: 1.1},
	"messaging":     {Name: "Async Messaging", Icon: "📨", Weight: 1},
	"system_design": {Name: "System Design", Icon: "🏗️", Weight: 1.3},
	"security":      {Name: "Security", Icon: "🔒", Weight: 1},
	"analytical":    {Name: "Analytical Thinking", Icon: "🧠", Weight: 1.2},
	"communication": {Name: "Communication", Icon: "💬", Weight: 1},
}

// CategoryKeys returns category keys in their fixed order.
func CategoryKeys() []string {
	keys := make([]string, len(categoryOrder))
	copy(keys, categoryOrder)
	return keys
}
