package composer

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/edbpede/math-sub000/internal/progress"
	"github.com/edbpede/math-sub000/internal/randsrc"
	"github.com/edbpede/math-sub000/internal/srs"
	"github.com/edbpede/math-sub000/internal/taxonomy"
	"github.com/edbpede/math-sub000/internal/templates"
)

var composeNow = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

type stubGenerator struct{}

func (stubGenerator) Generate(seed int64, locale string) (templates.Exercise, error) {
	return templates.Exercise{Prompt: "2 + 2 = ?", Answer: "4"}, nil
}

func (stubGenerator) Validate(ex templates.Exercise, answer string) bool {
	return answer == ex.Answer
}

func (stubGenerator) Hints() []templates.HintProvider {
	return []templates.HintProvider{
		func(templates.Exercise) string { return "h1" },
		func(templates.Exercise) string { return "h2" },
		func(templates.Exercise) string { return "h3" },
		func(templates.Exercise) string { return "h4" },
	}
}

// buildRegistry registers perSkill templates for each skill id, all in the
// given grade range.
func buildRegistry(t *testing.T, skillIDs []string, perSkill int, grade taxonomy.GradeRange) *templates.Registry {
	t.Helper()
	r := templates.NewRegistry()
	for _, sid := range skillIDs {
		for j := 0; j < perSkill; j++ {
			id := fmt.Sprintf("%s-tpl%02d", sid, j)
			err := r.Register(id, "Exercise "+id, stubGenerator{}, templates.Metadata{
				CompetencyArea: taxonomy.CompetencyArithmetic,
				SkillID:        sid,
				GradeRange:     grade,
				Difficulty:     taxonomy.DifficultyB,
				IsBinding:      j == 0,
				Tags:           []string{"test"},
			})
			if err != nil {
				t.Fatalf("register %s: %v", id, err)
			}
		}
	}
	return r
}

func skillIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("skill-%02d", i)
	}
	return ids
}

func baseOptions(skills []*progress.SkillProgress, reg *templates.Registry, cfg Config, seed int64) Options {
	return Options{
		UserID:       "learner-1",
		GradeRange:   taxonomy.Grade4To6,
		Config:       cfg,
		NewCriteria:  DefaultNewContentCriteria(),
		WeakCriteria: DefaultWeakAreaCriteria(),
		Skills:       skills,
		Registry:     reg,
		RNG:          randsrc.NewSeeded(seed),
		Now:          composeNow,
	}
}

func countByCategory(plan *SessionPlan) map[Category]int {
	counts := make(map[Category]int)
	for _, ex := range plan.Exercises {
		counts[ex.Category]++
	}
	return counts
}

func assertPlanShape(t *testing.T, plan *SessionPlan) {
	t.Helper()
	seenTemplates := make(map[string]bool)
	seenPositions := make(map[int]bool)
	for i, ex := range plan.Exercises {
		if seenTemplates[ex.TemplateID] {
			t.Errorf("duplicate template %s in plan", ex.TemplateID)
		}
		seenTemplates[ex.TemplateID] = true
		if ex.Position != i {
			t.Errorf("position %d at slot %d, want dense ordering", ex.Position, i)
		}
		seenPositions[ex.Position] = true
	}
	if len(seenPositions) != len(plan.Exercises) {
		t.Errorf("positions are not a permutation of 0..%d", len(plan.Exercises)-1)
	}
}

func TestCompose_InvalidConfig(t *testing.T) {
	reg := buildRegistry(t, skillIDs(3), 2, taxonomy.Grade4To6)
	opts := baseOptions(nil, reg, Config{
		NewContentPercent: 10, ReviewContentPercent: 10,
		WeakAreaPercent: 10, RandomPercent: 10, TotalExercises: 20,
	}, 1)

	res := Compose(opts)
	if res.Status != StatusError {
		t.Fatalf("status = %v, want error", res.Status)
	}
	if res.Plan != nil {
		t.Error("error result should carry no plan")
	}
}

// Fresh learner: every skill untouched and due now.
func TestCompose_FreshLearner(t *testing.T) {
	ids := skillIDs(15)
	var skills []*progress.SkillProgress
	for _, id := range ids {
		skills = append(skills, progress.NewSkillProgress(id, composeNow))
	}
	reg := buildRegistry(t, ids, 3, taxonomy.Grade4To6)

	cfg := Config{NewContentPercent: 60, ReviewContentPercent: 20, WeakAreaPercent: 10, RandomPercent: 10, TotalExercises: 20}
	res := Compose(baseOptions(skills, reg, cfg, 42))

	if res.Status != StatusSuccess {
		t.Fatalf("status = %v (%s), want success", res.Status, res.Message)
	}

	wantAlloc := Allocation{New: 12, Review: 4, WeakArea: 2, Random: 2, Total: 20}
	if res.Plan.Allocation != wantAlloc {
		t.Errorf("allocation = %+v, want %+v", res.Plan.Allocation, wantAlloc)
	}

	counts := countByCategory(res.Plan)
	if counts[CategoryNew] != 12 {
		t.Errorf("new count = %d, want 12", counts[CategoryNew])
	}
	if counts[CategoryReview] != 4 {
		t.Errorf("review count = %d, want 4", counts[CategoryReview])
	}
	// No skill has enough attempts to qualify as a weak area yet.
	if counts[CategoryWeakArea] != 0 {
		t.Errorf("weak count = %d, want 0 for a fresh learner", counts[CategoryWeakArea])
	}
	if counts[CategoryRandom] != 2 {
		t.Errorf("random count = %d, want 2", counts[CategoryRandom])
	}

	assertPlanShape(t, res.Plan)
}

// Experienced learner: heavy review mix, scattered due dates.
func TestCompose_ExperiencedLearner(t *testing.T) {
	ids := skillIDs(25)
	var skills []*progress.SkillProgress
	var earliest string
	for i, id := range ids {
		sp := progress.NewSkillProgress(id, composeNow)
		sp.Attempts = 15 + i
		sp.Successes = sp.Attempts * 2 / 3
		sp.MasteryLevel = 60 + (i*20)/25
		sp.SRS = srs.Params{EaseFactor: 2.2, IntervalDays: 7, RepetitionCount: 4}
		sp.LastPracticed = composeNow.AddDate(0, 0, -7)
		// next_review scattered across ±7 days.
		offset := (i % 15) - 7
		sp.NextReview = composeNow.AddDate(0, 0, offset)
		if offset == -7 {
			earliest = id
		}
		skills = append(skills, sp)
	}
	reg := buildRegistry(t, ids, 3, taxonomy.Grade4To6)

	cfg := Config{NewContentPercent: 10, ReviewContentPercent: 60, WeakAreaPercent: 20, RandomPercent: 10, TotalExercises: 30}
	res := Compose(baseOptions(skills, reg, cfg, 42))

	if res.Status != StatusSuccess {
		t.Fatalf("status = %v (%s), want success", res.Status, res.Message)
	}

	counts := countByCategory(res.Plan)
	if counts[CategoryReview] < 15 {
		t.Errorf("review count = %d, want >= 15", counts[CategoryReview])
	}

	reviewSkillSet := make(map[string]bool)
	for _, ex := range res.Plan.Exercises {
		if ex.Category == CategoryReview {
			reviewSkillSet[ex.SkillID] = true
		}
	}
	if !reviewSkillSet[earliest] {
		t.Errorf("review selection skipped the most overdue skill %s", earliest)
	}

	assertPlanShape(t, res.Plan)
}

// Struggling learner: weak areas dominate.
func TestCompose_StrugglingLearner(t *testing.T) {
	ids := skillIDs(20)
	var skills []*progress.SkillProgress
	for _, id := range ids {
		sp := progress.NewSkillProgress(id, composeNow)
		sp.Attempts = 12
		sp.Successes = 5
		sp.MasteryLevel = 25
		sp.LastPracticed = composeNow.AddDate(0, 0, -2)
		sp.NextReview = composeNow.AddDate(0, 0, -1)
		skills = append(skills, sp)
	}
	reg := buildRegistry(t, ids, 3, taxonomy.Grade4To6)

	cfg := Config{NewContentPercent: 10, ReviewContentPercent: 30, WeakAreaPercent: 50, RandomPercent: 10, TotalExercises: 25}
	res := Compose(baseOptions(skills, reg, cfg, 42))

	if res.Status != StatusSuccess {
		t.Fatalf("status = %v (%s), want success", res.Status, res.Message)
	}

	weak := 0
	bySkill := make(map[string]*progress.SkillProgress)
	for _, sp := range skills {
		bySkill[sp.SkillID] = sp
	}
	for _, ex := range res.Plan.Exercises {
		if ex.Category == CategoryWeakArea {
			weak++
			if bySkill[ex.SkillID].MasteryLevel >= 40 {
				t.Errorf("weak-area pick %s has mastery %d, want < 40", ex.SkillID, bySkill[ex.SkillID].MasteryLevel)
			}
		}
	}
	if weak < 10 {
		t.Errorf("weak-area count = %d, want >= 10", weak)
	}

	assertPlanShape(t, res.Plan)
}

// One skill cannot fill a 30-exercise session.
func TestCompose_InsufficientContent(t *testing.T) {
	ids := skillIDs(1)
	skills := []*progress.SkillProgress{progress.NewSkillProgress(ids[0], composeNow)}
	reg := buildRegistry(t, ids, 3, taxonomy.Grade4To6)

	cfg := Config{NewContentPercent: 60, ReviewContentPercent: 20, WeakAreaPercent: 10, RandomPercent: 10, TotalExercises: 30}
	res := Compose(baseOptions(skills, reg, cfg, 42))

	if res.Status != StatusInsufficientData {
		t.Fatalf("status = %v, want insufficient-data", res.Status)
	}
	if res.Available >= 15 {
		t.Errorf("available = %d, want < 15", res.Available)
	}
	if res.Requested != 30 {
		t.Errorf("requested = %d, want 30", res.Requested)
	}
	if res.Plan == nil {
		t.Error("insufficient result should still carry the partial plan")
	}
}

func TestCompose_MinimumTotal(t *testing.T) {
	ids := skillIDs(10)
	var skills []*progress.SkillProgress
	for _, id := range ids {
		skills = append(skills, progress.NewSkillProgress(id, composeNow))
	}
	reg := buildRegistry(t, ids, 2, taxonomy.Grade4To6)

	cfg := Config{NewContentPercent: 40, ReviewContentPercent: 40, WeakAreaPercent: 0, RandomPercent: 20, TotalExercises: 5}
	res := Compose(baseOptions(skills, reg, cfg, 42))

	if res.Status != StatusSuccess {
		t.Fatalf("status = %v (%s), want success", res.Status, res.Message)
	}
	assertPlanShape(t, res.Plan)
}

// A registry with only one category's worth of skills still satisfies the
// allocation sum.
func TestCompose_SingleCategorySkills(t *testing.T) {
	ids := skillIDs(8)
	var skills []*progress.SkillProgress
	for _, id := range ids {
		sp := progress.NewSkillProgress(id, composeNow)
		// Practiced recently, not due, solid mastery: only "random" and the
		// allocation's new/review/weak budgets can't draw from them.
		sp.Attempts = 20
		sp.Successes = 18
		sp.MasteryLevel = 85
		sp.LastPracticed = composeNow.Add(-2 * time.Hour)
		sp.NextReview = composeNow.AddDate(0, 0, 5)
		skills = append(skills, sp)
	}
	reg := buildRegistry(t, ids, 2, taxonomy.Grade4To6)

	cfg := Config{NewContentPercent: 30, ReviewContentPercent: 30, WeakAreaPercent: 30, RandomPercent: 10, TotalExercises: 10}
	res := Compose(baseOptions(skills, reg, cfg, 42))

	a := res.Plan.Allocation
	if sum := a.New + a.Review + a.WeakArea + a.Random; sum != a.Total {
		t.Errorf("allocation %+v does not sum to total", a)
	}
	assertPlanShape(t, res.Plan)
}

func TestCompose_Deterministic(t *testing.T) {
	run := func() *SessionPlan {
		ids := skillIDs(12)
		var skills []*progress.SkillProgress
		for i, id := range ids {
			sp := progress.NewSkillProgress(id, composeNow)
			sp.Attempts = i
			sp.Successes = i / 2
			sp.MasteryLevel = i * 7
			sp.NextReview = composeNow.AddDate(0, 0, i%3-1)
			sp.LastPracticed = composeNow.AddDate(0, 0, -i)
			skills = append(skills, sp)
		}
		reg := buildRegistry(t, ids, 3, taxonomy.Grade4To6)
		res := Compose(baseOptions(skills, reg, DefaultConfig(), 1234))
		return res.Plan
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same inputs and seed produced different plans:\n%+v\n%+v", a, b)
	}
}

func TestCompose_MarkUsedFeedsRecency(t *testing.T) {
	ids := skillIDs(6)
	var skills []*progress.SkillProgress
	for _, id := range ids {
		skills = append(skills, progress.NewSkillProgress(id, composeNow))
	}
	reg := buildRegistry(t, ids, 2, taxonomy.Grade4To6)

	opts := baseOptions(skills, reg, Config{
		NewContentPercent: 40, ReviewContentPercent: 30,
		WeakAreaPercent: 20, RandomPercent: 10, TotalExercises: 6,
	}, 42)

	res := Compose(opts)
	if got := reg.RecentlyUsed(); len(got) != 0 {
		t.Errorf("recency queue touched without MarkUsed: %v", got)
	}

	opts.MarkUsed = true
	opts.RNG = randsrc.NewSeeded(42)
	res = Compose(opts)
	if res.Plan == nil {
		t.Fatal("expected a plan")
	}
	if got := reg.RecentlyUsed(); len(got) != len(res.Plan.Exercises) {
		t.Errorf("recency queue len = %d, want %d", len(got), len(res.Plan.Exercises))
	}
}

func TestInterleave_SpreadsCategories(t *testing.T) {
	var picked []PlannedExercise
	for i := 0; i < 10; i++ {
		picked = append(picked, PlannedExercise{TemplateID: fmt.Sprintf("a%d", i), Category: CategoryNew, SkillID: "s"})
	}
	for i := 0; i < 10; i++ {
		picked = append(picked, PlannedExercise{TemplateID: fmt.Sprintf("b%d", i), Category: CategoryReview, SkillID: "s"})
	}

	out := interleave(picked, randsrc.NewSeeded(5))
	if len(out) != 20 {
		t.Fatalf("len = %d, want 20", len(out))
	}

	// With two equal-size categories evenly spread, runs of one category
	// should stay short.
	maxRun, run := 0, 0
	var prev Category
	for _, ex := range out {
		if ex.Category == prev {
			run++
		} else {
			run = 1
			prev = ex.Category
		}
		if run > maxRun {
			maxRun = run
		}
	}
	if maxRun > 4 {
		t.Errorf("max same-category run = %d, want <= 4", maxRun)
	}
}

func TestInterleave_Empty(t *testing.T) {
	if out := interleave(nil, randsrc.NewSeeded(1)); len(out) != 0 {
		t.Errorf("interleave(nil) = %v, want empty", out)
	}
}
