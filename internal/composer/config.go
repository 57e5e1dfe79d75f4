package composer

import (
	"fmt"

	"github.com/edbpede/math-sub000/internal/templates"
)

// Total-exercise bounds for a single session.
const (
	MinTotalExercises = 5
	MaxTotalExercises = 100
)

// Config sets the category mix and size of a session. Percentages must sum
// to 100 (plus or minus one for rounding).
type Config struct {
	NewContentPercent    int `json:"new_content_percent"`
	ReviewContentPercent int `json:"review_content_percent"`
	WeakAreaPercent      int `json:"weak_area_percent"`
	RandomPercent        int `json:"random_percent"`
	TotalExercises       int `json:"total_exercises"`
}

// DefaultConfig returns a balanced everyday session mix.
func DefaultConfig() Config {
	return Config{
		NewContentPercent:    30,
		ReviewContentPercent: 40,
		WeakAreaPercent:      20,
		RandomPercent:        10,
		TotalExercises:       15,
	}
}

// Validate checks ranges and the percentage sum.
func (c Config) Validate() error {
	for _, p := range []struct {
		name  string
		value int
	}{
		{"new_content_percent", c.NewContentPercent},
		{"review_content_percent", c.ReviewContentPercent},
		{"weak_area_percent", c.WeakAreaPercent},
		{"random_percent", c.RandomPercent},
	} {
		if p.value < 0 || p.value > 100 {
			return fmt.Errorf("%s = %d, must be within [0, 100]", p.name, p.value)
		}
	}

	sum := c.NewContentPercent + c.ReviewContentPercent + c.WeakAreaPercent + c.RandomPercent
	if sum < 99 || sum > 101 {
		return fmt.Errorf("category percentages sum to %d, must be 100 (±1)", sum)
	}

	if c.TotalExercises < MinTotalExercises || c.TotalExercises > MaxTotalExercises {
		return fmt.Errorf("total_exercises = %d, must be within [%d, %d]",
			c.TotalExercises, MinTotalExercises, MaxTotalExercises)
	}
	return nil
}

// NewContentCriteria decides which skills count as new content.
type NewContentCriteria struct {
	// MaxAttempts: skills attempted fewer times than this are still new.
	MaxAttempts int `json:"max_attempts"`
	// MinDaysSinceLastPractice: skills idle at least this long are new again.
	MinDaysSinceLastPractice float64 `json:"min_days_since_last_practice"`
}

// DefaultNewContentCriteria treats barely-touched or month-idle skills as new.
func DefaultNewContentCriteria() NewContentCriteria {
	return NewContentCriteria{MaxAttempts: 3, MinDaysSinceLastPractice: 30}
}

// WeakAreaCriteria decides which skills count as weak areas.
type WeakAreaCriteria struct {
	// MaxMasteryLevel: mastery at or below this counts as weak.
	MaxMasteryLevel int `json:"max_mastery_level"`
	// MinAttempts: floor for statistical confidence in the mastery score.
	MinAttempts int `json:"min_attempts"`
}

// DefaultWeakAreaCriteria flags mastery of 50 or below backed by enough attempts.
func DefaultWeakAreaCriteria() WeakAreaCriteria {
	return WeakAreaCriteria{MaxMasteryLevel: 50, MinAttempts: 5}
}

// categoryWeights are the per-category selection weight profiles.
var categoryWeights = map[Category]templates.SelectionWeights{
	CategoryReview:   {SRSBaseline: 1.5, BindingBonus: 0.4, RecencyPenalty: 0.5, MasteryAdjustment: 0.2},
	CategoryWeakArea: {SRSBaseline: 1.0, BindingBonus: 0.4, RecencyPenalty: 0.3, MasteryAdjustment: 0.3},
	CategoryNew:      {SRSBaseline: 1.0, BindingBonus: 0.3, RecencyPenalty: 0.4, MasteryAdjustment: 0.1},
	CategoryRandom:   {SRSBaseline: 1.0, BindingBonus: 0.2, RecencyPenalty: 0.3, MasteryAdjustment: 0.0},
}

// WeightsForCategory returns the selection weight profile for a category.
func WeightsForCategory(cat Category) templates.SelectionWeights {
	if w, ok := categoryWeights[cat]; ok {
		return w
	}
	return categoryWeights[CategoryRandom]
}
