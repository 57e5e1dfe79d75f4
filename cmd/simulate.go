package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/edbpede/math-sub000/internal/catalog"
	"github.com/edbpede/math-sub000/internal/composer"
	"github.com/edbpede/math-sub000/internal/mastery"
	"github.com/edbpede/math-sub000/internal/progress"
	"github.com/edbpede/math-sub000/internal/randsrc"
	"github.com/edbpede/math-sub000/internal/session"
	"github.com/edbpede/math-sub000/internal/store"
	"github.com/edbpede/math-sub000/internal/taxonomy"
	"github.com/edbpede/math-sub000/internal/templates"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a synthetic practice session and record it",
	Long: `Compose a session, answer it with a synthetic learner, and persist the
results. Useful for exercising the full pipeline and seeding a database
with realistic history.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().String("user", "local", "Learner id")
	simulateCmd.Flags().String("grade", "4-6", "Grade range: 0-3, 4-6, or 7-9")
	simulateCmd.Flags().Int("total", composer.DefaultConfig().TotalExercises, "Total exercises (5-100)")
	simulateCmd.Flags().Int64("seed", 1, "RNG seed for the synthetic learner")
	simulateCmd.Flags().Float64("skill", 0.75, "Synthetic learner's base success probability")
	simulateCmd.Flags().String("locale", "en", "Exercise locale")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user")
	gradeVal, _ := cmd.Flags().GetString("grade")
	total, _ := cmd.Flags().GetInt("total")
	seed, _ := cmd.Flags().GetInt64("seed")
	ability, _ := cmd.Flags().GetFloat64("skill")
	locale, _ := cmd.Flags().GetString("locale")

	grade := taxonomy.GradeRange(gradeVal)
	if !grade.Valid() {
		return fmt.Errorf("invalid grade range %q: must be 0-3, 4-6, or 7-9", gradeVal)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	reg := templates.NewRegistry()
	if err := catalog.RegisterBuiltins(reg); err != nil {
		return fmt.Errorf("load template catalog: %w", err)
	}

	ctx := context.Background()
	skills, err := loadSkills(ctx, s, userID, reg)
	if err != nil {
		return err
	}

	rng := randsrc.NewSeeded(seed)
	now := time.Now().UTC()

	cfg := composer.DefaultConfig()
	cfg.TotalExercises = total

	result := composer.Compose(composer.Options{
		UserID:       userID,
		GradeRange:   grade,
		Config:       cfg,
		NewCriteria:  composer.DefaultNewContentCriteria(),
		WeakCriteria: composer.DefaultWeakAreaCriteria(),
		Skills:       skills,
		Registry:     reg,
		RNG:          rng,
		Now:          now,
		MarkUsed:     true,
	})
	if result.Status == composer.StatusError {
		return fmt.Errorf("compose session: %s", result.Message)
	}
	plan := result.Plan
	if len(plan.Exercises) == 0 {
		return fmt.Errorf("no exercises could be composed")
	}

	sessionID := uuid.NewString()
	events := s.EventRepo()
	if err := events.AppendSession(ctx, store.SessionData{
		SessionID:       sessionID,
		UserID:          userID,
		GradeRange:      grade,
		PlannedNew:      plan.Allocation.New,
		PlannedReview:   plan.Allocation.Review,
		PlannedWeakArea: plan.Allocation.WeakArea,
		PlannedRandom:   plan.Allocation.Random,
		TotalExercises:  len(plan.Exercises),
		ComposedAt:      now,
	}); err != nil {
		return err
	}

	buf := store.NewBuffer(s.ProgressRepo(), events)
	recorder := session.NewRecorder(s.ProgressRepo(), events, buf)

	correctCount := 0
	for i, ex := range plan.Exercises {
		v, ok := reg.Get(ex.TemplateID)
		if !ok {
			return fmt.Errorf("template %q vanished from the registry", ex.TemplateID)
		}
		gen, _ := reg.Generator(ex.TemplateID)
		instance, err := gen.Generate(seed+int64(i), locale)
		if err != nil {
			return fmt.Errorf("generate %s: %w", ex.TemplateID, err)
		}

		// The synthetic learner gives the canonical answer with the
		// configured probability and takes a plausible time for the
		// difficulty. Correctness comes from the template's own validator.
		b := mastery.BenchmarkFor(grade, v.Metadata.Difficulty)
		answer := instance.Answer
		elapsed := b.Min + rng.Float64()*(b.Expected-b.Min)
		if rng.Float64() >= ability {
			answer = "?"
			elapsed = b.Expected + rng.Float64()*(b.Max-b.Expected)
		}
		correct := gen.Validate(instance, answer)
		hints := 0
		if !correct && rng.Float64() < 0.5 {
			hints = 1 + rng.Intn(2)
		}
		if correct {
			correctCount++
		}

		attemptNow := now.Add(time.Duration(i) * 45 * time.Second)
		_, err = recorder.RecordAttempt(ctx, userID, grade, progress.ExerciseAttempt{
			SkillID:          ex.SkillID,
			TemplateID:       ex.TemplateID,
			CompetencyArea:   v.Metadata.CompetencyArea,
			Difficulty:       v.Metadata.Difficulty,
			IsBinding:        v.Metadata.IsBinding,
			Correct:          correct,
			TimeSpentSeconds: elapsed,
			HintsUsed:        hints,
			CreatedAt:        attemptNow,
		}, attemptNow)
		if err != nil {
			return fmt.Errorf("record attempt: %w", err)
		}
	}

	if err := buf.Close(ctx); err != nil {
		return fmt.Errorf("flush writes: %w", err)
	}
	if err := events.SetSessionCompleted(ctx, sessionID, len(plan.Exercises)); err != nil {
		return err
	}

	// Refresh competency roll-ups touched by this session.
	skillAreas := make(map[string]taxonomy.CompetencyArea)
	for _, v := range reg.All() {
		skillAreas[v.Metadata.SkillID] = v.Metadata.CompetencyArea
	}
	touched := make(map[taxonomy.CompetencyArea]bool)
	for _, ex := range plan.Exercises {
		touched[skillAreas[ex.SkillID]] = true
	}
	for area := range touched {
		if err := recorder.UpdateCompetency(ctx, userID, area, grade, skillAreas, now); err != nil {
			return fmt.Errorf("update %s roll-up: %w", area, err)
		}
	}

	fmt.Printf("Session %s: %d/%d correct\n", sessionID, correctCount, len(plan.Exercises))
	return nil
}
