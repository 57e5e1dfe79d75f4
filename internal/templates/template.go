package templates

import (
	"time"

	"github.com/edbpede/math-sub000/internal/taxonomy"
)

// MinHintProviders is the smallest hint ladder a template may register with.
const MinHintProviders = 4

// HintProvider produces one hint for the current exercise instance.
type HintProvider func(ex Exercise) string

// Exercise is one generated, answerable exercise instance.
type Exercise struct {
	TemplateID string
	Prompt     string
	Answer     string
}

// Generator is the opaque handle a registered template exposes. The registry
// never inspects generated content; it only stores and selects handles.
type Generator interface {
	// Generate produces a deterministic exercise instance for the seed.
	Generate(seed int64, locale string) (Exercise, error)
	// Validate reports whether a learner answer is correct for the exercise.
	Validate(ex Exercise, answer string) bool
	// Hints returns the ordered hint ladder, least to most revealing.
	Hints() []HintProvider
}

// Metadata describes a template for indexing and selection.
type Metadata struct {
	CompetencyArea taxonomy.CompetencyArea
	SkillID        string
	GradeRange     taxonomy.GradeRange
	Difficulty     taxonomy.Difficulty
	IsBinding      bool
	Tags           []string
}

// View is the read-only projection of a registry entry.
type View struct {
	ID         string
	Name       string
	Metadata   Metadata
	UsageCount int
	LastUsed   *time.Time
}

type entry struct {
	id         string
	name       string
	generator  Generator
	meta       Metadata
	usageCount int
	lastUsed   *time.Time
}
