package session

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/edbpede/math-sub000/internal/mastery"
	"github.com/edbpede/math-sub000/internal/progress"
	"github.com/edbpede/math-sub000/internal/store"
	"github.com/edbpede/math-sub000/internal/taxonomy"
)

// Recorder folds finished attempts into a learner's persisted state: the
// attempt log, the per-skill aggregate (SRS + mastery), and the competency
// roll-up. Writes go through the debounced buffer; call Flush before reading
// the store back.
type Recorder struct {
	progressRepo store.ProgressRepo
	eventRepo    store.EventRepo
	buffer       *store.Buffer
	calc         *mastery.Calculator
}

// NewRecorder wires a recorder over a store's repositories.
func NewRecorder(progressRepo store.ProgressRepo, eventRepo store.EventRepo, buffer *store.Buffer) *Recorder {
	return &Recorder{
		progressRepo: progressRepo,
		eventRepo:    eventRepo,
		buffer:       buffer,
		calc:         mastery.NewCalculator(),
	}
}

// RecordAttempt applies one answered exercise for a learner. The grade range
// selects the response-time benchmark for both the quality factor and the
// mastery recalculation. Returns the updated aggregate.
func (r *Recorder) RecordAttempt(ctx context.Context, userID string, grade taxonomy.GradeRange, attempt progress.ExerciseAttempt, now time.Time) (*progress.SkillProgress, error) {
	sp, err := r.loadOrCreate(ctx, userID, attempt.SkillID, now)
	if err != nil {
		return nil, err
	}

	quality := QualityFactor(attempt.TimeSpentSeconds, grade, attempt.Difficulty)
	sp.ApplyAttempt(attempt, quality, now)

	// The stored window misses the attempt still sitting in the buffer, so
	// recompute mastery over history plus the new attempt.
	window, err := r.eventRepo.RecentAttempts(ctx, userID, attempt.SkillID, progress.AttemptWindow-1)
	if err != nil {
		return nil, fmt.Errorf("load attempt window: %w", err)
	}
	attempts := make([]progress.ExerciseAttempt, 0, len(window)+1)
	for _, w := range window {
		attempts = append(attempts, w.ToAttempt())
	}
	attempts = append(attempts, attempt)

	result := r.calc.Calculate(mastery.Input{
		SkillID:       attempt.SkillID,
		Attempts:      attempts,
		Grade:         grade,
		Difficulty:    attempt.Difficulty,
		LastPracticed: sp.LastPracticed,
		Now:           now,
	})
	switch result.Status {
	case mastery.StatusSuccess, mastery.StatusInsufficientData:
		sp.MasteryLevel = result.Level
	case mastery.StatusError:
		return nil, fmt.Errorf("mastery calculation: %s", result.Reason)
	}

	r.buffer.QueueAttempt(store.AttemptData{
		UserID:           userID,
		SkillID:          attempt.SkillID,
		TemplateID:       attempt.TemplateID,
		CompetencyAreaID: attempt.CompetencyArea,
		Difficulty:       attempt.Difficulty,
		IsBinding:        attempt.IsBinding,
		Correct:          attempt.Correct,
		TimeSpentSeconds: attempt.TimeSpentSeconds,
		HintsUsed:        attempt.HintsUsed,
		CreatedAt:        attempt.CreatedAt,
	})
	r.buffer.QueueProgress(store.FromSkillProgress(userID, sp))

	return sp, nil
}

func (r *Recorder) loadOrCreate(ctx context.Context, userID, skillID string, now time.Time) (*progress.SkillProgress, error) {
	data, err := r.progressRepo.Get(ctx, userID, skillID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if data == nil {
		return progress.NewSkillProgress(skillID, now), nil
	}
	return data.ToSkillProgress(), nil
}

// UpdateCompetency recomputes and persists the roll-up for one competency
// area from the learner's current per-skill aggregates. skillAreas maps each
// skill id to its competency area; skills outside the area are ignored.
func (r *Recorder) UpdateCompetency(
	ctx context.Context,
	userID string,
	area taxonomy.CompetencyArea,
	grade taxonomy.GradeRange,
	skillAreas map[string]taxonomy.CompetencyArea,
	now time.Time,
) error {
	all, err := r.progressRepo.All(ctx, userID)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}

	var (
		masterySum    int
		skillCount    int
		totalAttempts int
		successes     int
		lastPracticed time.Time
	)
	for _, d := range all {
		if skillAreas[d.SkillID] != area {
			continue
		}
		skillCount++
		masterySum += d.MasteryLevel
		totalAttempts += d.Attempts
		successes += d.Successes
		if d.LastPracticedAt != nil && d.LastPracticedAt.After(lastPracticed) {
			lastPracticed = *d.LastPracticedAt
		}
	}
	if skillCount == 0 {
		return nil
	}

	level := int(math.Round(float64(masterySum) / float64(skillCount)))
	rate := 0.0
	if totalAttempts > 0 {
		rate = float64(successes) / float64(totalAttempts)
	}

	data := store.CompetencyData{
		UserID:           userID,
		CompetencyAreaID: area,
		GradeRange:       grade,
		MasteryLevel:     level,
		TotalAttempts:    totalAttempts,
		SuccessRate:      rate,
	}
	if !lastPracticed.IsZero() {
		data.LastPracticedAt = &lastPracticed
	}
	if level >= 80 {
		t := now
		data.AchievedAt = &t
	}
	return r.progressRepo.UpsertCompetency(ctx, data)
}

// Flush drains the write buffer.
func (r *Recorder) Flush(ctx context.Context) error {
	return r.buffer.Flush(ctx)
}

// QualityFactor derives the [0,1] response-quality signal the scheduler
// consumes from how the response time sits against the grade/difficulty
// benchmark: at or under the expected time is full quality, decaying to zero
// at the benchmark maximum.
func QualityFactor(timeSpentSeconds float64, grade taxonomy.GradeRange, difficulty taxonomy.Difficulty) float64 {
	b := mastery.BenchmarkFor(grade, difficulty)
	if timeSpentSeconds <= b.Expected {
		return 1.0
	}
	if timeSpentSeconds >= b.Max {
		return 0.0
	}
	return 1.0 - (timeSpentSeconds-b.Expected)/(b.Max-b.Expected)
}
