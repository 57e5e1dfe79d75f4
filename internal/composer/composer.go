package composer

import (
	"fmt"
	"time"

	"github.com/edbpede/math-sub000/internal/progress"
	"github.com/edbpede/math-sub000/internal/randsrc"
	"github.com/edbpede/math-sub000/internal/taxonomy"
	"github.com/edbpede/math-sub000/internal/templates"
)

// Options carries everything one composition needs. The skill snapshot is
// read-only; the registry is only mutated when MarkUsed is set.
type Options struct {
	UserID         string
	GradeRange     taxonomy.GradeRange
	CompetencyArea taxonomy.CompetencyArea // optional; empty means any
	Config         Config
	NewCriteria    NewContentCriteria
	WeakCriteria   WeakAreaCriteria
	Skills         []*progress.SkillProgress
	Registry       *templates.Registry
	RNG            randsrc.Source
	Now            time.Time
	// MarkUsed records picked templates in the registry's recency queue so
	// the next composition's weighting sees them.
	MarkUsed bool
}

// Compose assembles a balanced, interleaved practice session. The outcome is
// tagged: invalid configuration yields Error, a registry too thin to fill
// half the session yields InsufficientData (with the partial plan attached),
// and anything else yields Success. Deterministic for fixed inputs, Now, and
// rng seed.
func Compose(opts Options) Result {
	if err := opts.Config.Validate(); err != nil {
		return Result{Status: StatusError, Message: fmt.Sprintf("invalid session config: %v", err)}
	}
	if opts.Registry == nil {
		return Result{Status: StatusError, Message: "no template registry supplied"}
	}
	if opts.RNG == nil {
		opts.RNG = randsrc.System()
	}

	alloc := ComputeAllocation(opts.Config)

	bySkillCategory := map[Category][]*progress.SkillProgress{
		CategoryNew:      newContentSkills(opts.Skills, opts.NewCriteria, opts.Now),
		CategoryReview:   reviewSkills(opts.Skills, opts.Now),
		CategoryWeakArea: weakAreaSkills(opts.Skills, opts.WeakCriteria),
		CategoryRandom:   randomSkills(opts.Skills, opts.RNG),
	}

	used := make(map[string]struct{})
	var picked []PlannedExercise
	for _, cat := range AllCategories() {
		picked = append(picked, selectTemplatesForCategory(
			cat, bySkillCategory[cat], alloc.CountFor(cat), used, opts)...)
	}

	required := MinTotalExercises
	if half := (opts.Config.TotalExercises + 1) / 2; half > required {
		required = half
	}

	exercises := interleave(picked, opts.RNG)

	if opts.MarkUsed {
		for _, ex := range exercises {
			opts.Registry.MarkUsed(ex.TemplateID, opts.Now)
		}
	}

	plan := &SessionPlan{
		UserID:         opts.UserID,
		GradeRange:     opts.GradeRange,
		CompetencyArea: opts.CompetencyArea,
		Config:         opts.Config,
		Allocation:     alloc,
		Exercises:      exercises,
		ComposedAt:     opts.Now,
	}

	if len(picked) < required {
		return Result{
			Status:    StatusInsufficientData,
			Plan:      plan,
			Message:   "not enough matching templates to fill the session",
			Available: len(picked),
			Requested: opts.Config.TotalExercises,
		}
	}
	return Result{Status: StatusSuccess, Plan: plan}
}

// selectTemplatesForCategory cycles through a category's ranked skills,
// asking the registry for one template per step and skipping anything already
// picked for the plan. A full cycle of consecutive failed picks means the
// category is exhausted.
func selectTemplatesForCategory(
	cat Category,
	skills []*progress.SkillProgress,
	count int,
	used map[string]struct{},
	opts Options,
) []PlannedExercise {
	if count <= 0 || len(skills) == 0 {
		return nil
	}

	weights := WeightsForCategory(cat)

	var picked []PlannedExercise
	failures := 0
	for iter := 0; len(picked) < count && failures < len(skills); iter++ {
		sp := skills[iter%len(skills)]

		criteria := templates.Criteria{
			CompetencyArea: opts.CompetencyArea,
			SkillID:        sp.SkillID,
			GradeRange:     opts.GradeRange,
			ExcludeIDs:     used,
		}

		id, ok := opts.Registry.Select(criteria, weights, sp.MasteryLevel, opts.RNG)
		if !ok {
			failures++
			continue
		}
		failures = 0
		used[id] = struct{}{}
		picked = append(picked, PlannedExercise{
			TemplateID: id,
			Category:   cat,
			SkillID:    sp.SkillID,
		})
	}
	return picked
}
