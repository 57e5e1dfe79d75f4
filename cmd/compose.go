package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/edbpede/math-sub000/internal/catalog"
	"github.com/edbpede/math-sub000/internal/composer"
	"github.com/edbpede/math-sub000/internal/progress"
	"github.com/edbpede/math-sub000/internal/randsrc"
	"github.com/edbpede/math-sub000/internal/store"
	"github.com/edbpede/math-sub000/internal/taxonomy"
	"github.com/edbpede/math-sub000/internal/templates"
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Compose a practice session for a learner",
	Long: `Compose a balanced practice session from the learner's stored progress.

Prints the plan without recording anything. Use a fixed --seed to reproduce
a plan exactly.`,
	RunE: runCompose,
}

func init() {
	composeCmd.Flags().String("user", "local", "Learner id")
	composeCmd.Flags().String("grade", "4-6", "Grade range: 0-3, 4-6, or 7-9")
	composeCmd.Flags().String("competency", "", "Restrict to one competency area")
	composeCmd.Flags().Int("total", composer.DefaultConfig().TotalExercises, "Total exercises (5-100)")
	composeCmd.Flags().Int64("seed", 0, "RNG seed (0 = non-deterministic)")
}

func runCompose(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user")
	gradeVal, _ := cmd.Flags().GetString("grade")
	competencyVal, _ := cmd.Flags().GetString("competency")
	total, _ := cmd.Flags().GetInt("total")
	seed, _ := cmd.Flags().GetInt64("seed")

	grade := taxonomy.GradeRange(gradeVal)
	if !grade.Valid() {
		return fmt.Errorf("invalid grade range %q: must be 0-3, 4-6, or 7-9", gradeVal)
	}

	var area taxonomy.CompetencyArea
	if competencyVal != "" {
		area = taxonomy.CompetencyArea(competencyVal)
		if !area.Valid() {
			return fmt.Errorf("invalid competency area %q", competencyVal)
		}
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

	rng := randsrc.System()
	if seed != 0 {
		rng = randsrc.NewSeeded(seed)
	}

	cfg := composer.DefaultConfig()
	cfg.TotalExercises = total

	result := composer.Compose(composer.Options{
		UserID:         userID,
		GradeRange:     grade,
		CompetencyArea: area,
		Config:         cfg,
		NewCriteria:    composer.DefaultNewContentCriteria(),
		WeakCriteria:   composer.DefaultWeakAreaCriteria(),
		Skills:         skills,
		Registry:       reg,
		RNG:            rng,
		Now:            time.Now().UTC(),
	})

	switch result.Status {
	case composer.StatusError:
		return fmt.Errorf("compose session: %s", result.Message)
	case composer.StatusInsufficientData:
		fmt.Printf("Only %d of %d exercises available; showing a partial plan.\n\n",
			result.Available, result.Requested)
	}

	printPlan(result.Plan)
	return nil
}

// loadSkills reads the learner's stored aggregates; catalog skills with no
// history get a fresh aggregate so composition can start from nothing.
func loadSkills(ctx context.Context, s *store.Store, userID string, reg *templates.Registry) ([]*progress.SkillProgress, error) {
	rows, err := s.ProgressRepo().All(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	now := time.Now().UTC()
	known := make(map[string]bool, len(rows))
	var skills []*progress.SkillProgress
	for _, row := range rows {
		known[row.SkillID] = true
		skills = append(skills, row.ToSkillProgress())
	}

	for _, v := range reg.All() {
		if !known[v.Metadata.SkillID] {
			known[v.Metadata.SkillID] = true
			skills = append(skills, progress.NewSkillProgress(v.Metadata.SkillID, now))
		}
	}
	return skills, nil
}

func printPlan(plan *composer.SessionPlan) {
	fmt.Printf("Session plan for %s (grade %s)\n", plan.UserID, plan.GradeRange)
	fmt.Println(strings.Repeat("─", 52))
	a := plan.Allocation
	fmt.Printf("Allocation: %d new, %d review, %d weak-area, %d random\n\n",
		a.New, a.Review, a.WeakArea, a.Random)

	for _, ex := range plan.Exercises {
		fmt.Printf("  %2d. %-9s %-24s %s\n", ex.Position+1, ex.Category, ex.SkillID, ex.TemplateID)
	}
	fmt.Printf("\n%d exercises, composed %s\n",
		len(plan.Exercises), plan.ComposedAt.Format(time.RFC3339))
}
