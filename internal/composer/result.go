package composer

import (
	"time"

	"github.com/edbpede/math-sub000/internal/taxonomy"
)

// Category labels why an exercise entered the plan.
type Category string

const (
	CategoryNew      Category = "new"
	CategoryReview   Category = "review"
	CategoryWeakArea Category = "weak-area"
	CategoryRandom   Category = "random"
)

// AllCategories returns the categories in allocation order.
func AllCategories() []Category {
	return []Category{CategoryNew, CategoryReview, CategoryWeakArea, CategoryRandom}
}

// Allocation is the per-category exercise count budget. The four counts sum
// to Total.
type Allocation struct {
	New      int `json:"new"`
	Review   int `json:"review"`
	WeakArea int `json:"weak_area"`
	Random   int `json:"random"`
	Total    int `json:"total"`
}

// CountFor returns the budget for one category.
func (a Allocation) CountFor(cat Category) int {
	switch cat {
	case CategoryNew:
		return a.New
	case CategoryReview:
		return a.Review
	case CategoryWeakArea:
		return a.WeakArea
	case CategoryRandom:
		return a.Random
	default:
		return 0
	}
}

// PlannedExercise is one slot in a session plan.
type PlannedExercise struct {
	TemplateID string   `json:"template_id"`
	Category   Category `json:"category"`
	SkillID    string   `json:"skill_id"`
	Position   int      `json:"position"`
}

// SessionPlan is the composed, ordered practice session.
type SessionPlan struct {
	UserID         string                  `json:"user_id"`
	GradeRange     taxonomy.GradeRange     `json:"grade_range"`
	CompetencyArea taxonomy.CompetencyArea `json:"competency_area_id,omitempty"`
	Config         Config                  `json:"config"`
	Allocation     Allocation              `json:"allocation"`
	Exercises      []PlannedExercise       `json:"exercises"`
	ComposedAt     time.Time               `json:"composed_at"`
}

// Status tags a composition outcome.
type Status string

const (
	StatusSuccess          Status = "success"
	StatusInsufficientData Status = "insufficient-data"
	StatusError            Status = "error"
)

// Result is the tagged outcome of Compose. Plan is set on Success and, as a
// partial best effort, on InsufficientData; Available/Requested describe the
// shortfall in the latter case.
type Result struct {
	Status    Status
	Plan      *SessionPlan
	Message   string
	Available int
	Requested int
}
