package store

import (
	"context"
	"time"

	"github.com/edbpede/math-sub000/internal/progress"
	"github.com/edbpede/math-sub000/internal/srs"
	"github.com/edbpede/math-sub000/internal/taxonomy"
)

// ProgressData is the persisted form of a per-skill aggregate.
type ProgressData struct {
	UserID            string
	SkillID           string
	MasteryLevel      int
	Attempts          int
	Successes         int
	AvgResponseTimeMs float64
	EaseFactor        float64
	IntervalDays      int
	RepetitionCount   int
	LastPracticedAt   *time.Time
	NextReviewAt      time.Time
}

// FromSkillProgress converts a core aggregate into its persisted form.
func FromSkillProgress(userID string, sp *progress.SkillProgress) ProgressData {
	d := ProgressData{
		UserID:            userID,
		SkillID:           sp.SkillID,
		MasteryLevel:      sp.MasteryLevel,
		Attempts:          sp.Attempts,
		Successes:         sp.Successes,
		AvgResponseTimeMs: sp.AvgResponseTimeMs,
		EaseFactor:        sp.SRS.EaseFactor,
		IntervalDays:      sp.SRS.IntervalDays,
		RepetitionCount:   sp.SRS.RepetitionCount,
		NextReviewAt:      sp.NextReview,
	}
	if !sp.LastPracticed.IsZero() {
		t := sp.LastPracticed
		d.LastPracticedAt = &t
	}
	return d
}

// ToSkillProgress converts persisted data back into the core aggregate.
func (d ProgressData) ToSkillProgress() *progress.SkillProgress {
	sp := &progress.SkillProgress{
		SkillID:           d.SkillID,
		MasteryLevel:      d.MasteryLevel,
		Attempts:          d.Attempts,
		Successes:         d.Successes,
		AvgResponseTimeMs: d.AvgResponseTimeMs,
		SRS: srs.Params{
			EaseFactor:      d.EaseFactor,
			IntervalDays:    d.IntervalDays,
			RepetitionCount: d.RepetitionCount,
		},
		NextReview: d.NextReviewAt,
	}
	if d.LastPracticedAt != nil {
		sp.LastPracticed = *d.LastPracticedAt
	}
	return sp
}

// CompetencyData is the persisted per-area roll-up.
type CompetencyData struct {
	UserID           string
	CompetencyAreaID taxonomy.CompetencyArea
	GradeRange       taxonomy.GradeRange
	MasteryLevel     int
	TotalAttempts    int
	SuccessRate      float64
	LastPracticedAt  *time.Time
	AchievedAt       *time.Time
}

// AttemptData is the persisted form of one attempt-log entry.
type AttemptData struct {
	UserID           string
	SkillID          string
	TemplateID       string
	CompetencyAreaID taxonomy.CompetencyArea
	Difficulty       taxonomy.Difficulty
	IsBinding        bool
	Correct          bool
	TimeSpentSeconds float64
	HintsUsed        int
	CreatedAt        time.Time
}

// ToAttempt converts persisted data back into the core attempt value.
func (d AttemptData) ToAttempt() progress.ExerciseAttempt {
	return progress.ExerciseAttempt{
		SkillID:          d.SkillID,
		TemplateID:       d.TemplateID,
		CompetencyArea:   d.CompetencyAreaID,
		Difficulty:       d.Difficulty,
		IsBinding:        d.IsBinding,
		Correct:          d.Correct,
		TimeSpentSeconds: d.TimeSpentSeconds,
		HintsUsed:        d.HintsUsed,
		CreatedAt:        d.CreatedAt,
	}
}

// SessionData records one composed session.
type SessionData struct {
	SessionID        string
	UserID           string
	GradeRange       taxonomy.GradeRange
	CompetencyAreaID taxonomy.CompetencyArea
	PlannedNew       int
	PlannedReview    int
	PlannedWeakArea  int
	PlannedRandom    int
	TotalExercises   int
	Completed        int
	ComposedAt       time.Time
}

// ProgressRepo persists per-skill aggregates and competency roll-ups.
type ProgressRepo interface {
	// Upsert writes a per-skill aggregate, replacing any existing row for
	// the (user, skill) pair.
	Upsert(ctx context.Context, data ProgressData) error
	// Get loads one aggregate, or nil if the skill was never practiced.
	Get(ctx context.Context, userID, skillID string) (*ProgressData, error)
	// All loads every aggregate for a learner.
	All(ctx context.Context, userID string) ([]ProgressData, error)
	// UpsertCompetency writes a per-area roll-up.
	UpsertCompetency(ctx context.Context, data CompetencyData) error
	// AllCompetencies loads every roll-up for a learner.
	AllCompetencies(ctx context.Context, userID string) ([]CompetencyData, error)
}

// EventRepo appends to and reads the event log.
type EventRepo interface {
	// AppendAttempt adds one attempt to the append-only log.
	AppendAttempt(ctx context.Context, data AttemptData) error
	// RecentAttempts returns the last limit attempts for a skill, ordered
	// oldest to newest, ready for the mastery calculator's window.
	RecentAttempts(ctx context.Context, userID, skillID string, limit int) ([]AttemptData, error)
	// AppendSession records a composed session.
	AppendSession(ctx context.Context, data SessionData) error
	// SetSessionCompleted updates the completed-exercise count for a session.
	SetSessionCompleted(ctx context.Context, sessionID string, completed int) error
}
