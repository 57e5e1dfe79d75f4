package progress

import (
	"time"

	"github.com/edbpede/math-sub000/internal/srs"
	"github.com/edbpede/math-sub000/internal/taxonomy"
)

// AttemptWindow is the number of most recent attempts the mastery calculator
// consumes per skill.
const AttemptWindow = 20

// ExerciseAttempt is one immutable entry in the append-only attempt log.
type ExerciseAttempt struct {
	SkillID          string                  `json:"skill_id"`
	TemplateID       string                  `json:"template_id"`
	CompetencyArea   taxonomy.CompetencyArea `json:"competency_area_id"`
	Difficulty       taxonomy.Difficulty     `json:"difficulty"`
	IsBinding        bool                    `json:"is_binding"`
	Correct          bool                    `json:"correct"`
	TimeSpentSeconds float64                 `json:"time_spent_seconds"`
	HintsUsed        int                     `json:"hints_used"`
	CreatedAt        time.Time               `json:"created_at"`
}

// SkillProgress is the per-skill aggregate the engine reads and updates.
type SkillProgress struct {
	SkillID           string     `json:"skill_id"`
	MasteryLevel      int        `json:"mastery_level"`
	SRS               srs.Params `json:"srs"`
	Attempts          int        `json:"attempts"`
	Successes         int        `json:"successes"`
	AvgResponseTimeMs float64    `json:"avg_response_time_ms"`
	LastPracticed     time.Time  `json:"last_practiced_at"`
	NextReview        time.Time  `json:"next_review_at"`
}

// NewSkillProgress returns the state created on a learner's first encounter
// with a skill: zero mastery, initial SRS params, due immediately.
func NewSkillProgress(skillID string, now time.Time) *SkillProgress {
	return &SkillProgress{
		SkillID:    skillID,
		SRS:        srs.NewParams(),
		NextReview: now,
	}
}

// ApplyAttempt folds one attempt into the aggregate: counters, rolling
// average response time, SRS state, and the next review instant. The quality
// factor is the same [0,1] response-quality signal the scheduler consumes.
// Mastery is recomputed separately from the attempt window.
func (sp *SkillProgress) ApplyAttempt(a ExerciseAttempt, quality float64, now time.Time) {
	sp.Attempts++
	if a.Correct {
		sp.Successes++
	}

	ms := a.TimeSpentSeconds * 1000
	sp.AvgResponseTimeMs += (ms - sp.AvgResponseTimeMs) / float64(sp.Attempts)

	sp.SRS, sp.NextReview = srs.Update(sp.SRS, a.Correct, quality, now)
	sp.LastPracticed = now
}

// SuccessRate returns the lifetime success ratio, or 0 with no attempts.
func (sp *SkillProgress) SuccessRate() float64 {
	if sp.Attempts == 0 {
		return 0
	}
	return float64(sp.Successes) / float64(sp.Attempts)
}

// DaysSinceLastPracticed returns 24-hour periods since the last practice.
// A skill never practiced reports a very large value so idle checks treat it
// as maximally stale.
func (sp *SkillProgress) DaysSinceLastPracticed(now time.Time) float64 {
	if sp.LastPracticed.IsZero() {
		return 1e9
	}
	return srs.DaysSince(sp.LastPracticed, now)
}

// ReviewCandidate adapts the aggregate into the scheduler's ranking input.
func (sp *SkillProgress) ReviewCandidate() srs.ReviewCandidate {
	return srs.ReviewCandidate{
		SkillID:      sp.SkillID,
		Params:       sp.SRS,
		MasteryLevel: sp.MasteryLevel,
		NextReview:   sp.NextReview,
	}
}
