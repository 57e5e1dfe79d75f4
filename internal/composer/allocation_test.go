package composer

import "testing"

func TestComputeAllocation_SumsToTotal(t *testing.T) {
	configs := []Config{
		{NewContentPercent: 60, ReviewContentPercent: 20, WeakAreaPercent: 10, RandomPercent: 10, TotalExercises: 20},
		{NewContentPercent: 10, ReviewContentPercent: 60, WeakAreaPercent: 20, RandomPercent: 10, TotalExercises: 30},
		{NewContentPercent: 10, ReviewContentPercent: 30, WeakAreaPercent: 50, RandomPercent: 10, TotalExercises: 25},
		{NewContentPercent: 33, ReviewContentPercent: 33, WeakAreaPercent: 33, RandomPercent: 1, TotalExercises: 7},
		{NewContentPercent: 25, ReviewContentPercent: 25, WeakAreaPercent: 25, RandomPercent: 25, TotalExercises: 5},
		{NewContentPercent: 100, ReviewContentPercent: 0, WeakAreaPercent: 0, RandomPercent: 0, TotalExercises: 100},
	}
	for _, cfg := range configs {
		a := ComputeAllocation(cfg)
		if sum := a.New + a.Review + a.WeakArea + a.Random; sum != cfg.TotalExercises {
			t.Errorf("config %+v: allocation %+v sums to %d, want %d", cfg, a, sum, cfg.TotalExercises)
		}
		if a.Total != cfg.TotalExercises {
			t.Errorf("config %+v: Total = %d, want %d", cfg, a.Total, cfg.TotalExercises)
		}
	}
}

func TestComputeAllocation_ExactSplit(t *testing.T) {
	a := ComputeAllocation(Config{
		NewContentPercent: 60, ReviewContentPercent: 20,
		WeakAreaPercent: 10, RandomPercent: 10, TotalExercises: 20,
	})
	want := Allocation{New: 12, Review: 4, WeakArea: 2, Random: 2, Total: 20}
	if a != want {
		t.Errorf("allocation = %+v, want %+v", a, want)
	}
}

func TestComputeAllocation_RemainderGoesToLargestFraction(t *testing.T) {
	// Ideals: new 1.75, review 1.75, weak 1.75, random 1.75 over 7 slots:
	// floors 1 each, remainder 3 distributed by category order on equal parts.
	a := ComputeAllocation(Config{
		NewContentPercent: 25, ReviewContentPercent: 25,
		WeakAreaPercent: 25, RandomPercent: 25, TotalExercises: 7,
	})
	want := Allocation{New: 2, Review: 2, WeakArea: 2, Random: 1, Total: 7}
	if a != want {
		t.Errorf("allocation = %+v, want %+v", a, want)
	}
}

func TestComputeAllocation_ShedsOvershoot(t *testing.T) {
	// Sum 101 at total 100: every ideal is an integer, so the floors alone
	// already sum to 101 and one slot must be shed.
	cfg := Config{NewContentPercent: 26, ReviewContentPercent: 25, WeakAreaPercent: 25, RandomPercent: 25, TotalExercises: 100}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sum 101 should be tolerated: %v", err)
	}
	a := ComputeAllocation(cfg)
	if sum := a.New + a.Review + a.WeakArea + a.Random; sum != 100 {
		t.Errorf("allocation %+v sums to %d, want 100", a, sum)
	}
	for _, c := range []int{a.New, a.Review, a.WeakArea, a.Random} {
		if c < 0 {
			t.Errorf("negative category count in %+v", a)
		}
	}

	// Sum 101 at a total where the overshoot appears after flooring.
	cfg = Config{NewContentPercent: 34, ReviewContentPercent: 33, WeakAreaPercent: 17, RandomPercent: 17, TotalExercises: 100}
	a = ComputeAllocation(cfg)
	if sum := a.New + a.Review + a.WeakArea + a.Random; sum != 100 {
		t.Errorf("allocation %+v sums to %d, want 100", a, sum)
	}
}

func TestComputeAllocation_Deterministic(t *testing.T) {
	cfg := Config{NewContentPercent: 33, ReviewContentPercent: 33, WeakAreaPercent: 17, RandomPercent: 17, TotalExercises: 13}
	a, b := ComputeAllocation(cfg), ComputeAllocation(cfg)
	if a != b {
		t.Errorf("allocation not deterministic: %+v vs %+v", a, b)
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	bad := []Config{
		{NewContentPercent: 50, ReviewContentPercent: 20, WeakAreaPercent: 10, RandomPercent: 10, TotalExercises: 20}, // sum 90
		{NewContentPercent: -5, ReviewContentPercent: 55, WeakAreaPercent: 30, RandomPercent: 20, TotalExercises: 20},
		{NewContentPercent: 110, ReviewContentPercent: 0, WeakAreaPercent: 0, RandomPercent: 0, TotalExercises: 20},
		{NewContentPercent: 25, ReviewContentPercent: 25, WeakAreaPercent: 25, RandomPercent: 25, TotalExercises: 4},   // too small
		{NewContentPercent: 25, ReviewContentPercent: 25, WeakAreaPercent: 25, RandomPercent: 25, TotalExercises: 101}, // too large
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Errorf("config %d should be invalid: %+v", i, cfg)
		}
	}

	// Sum within tolerance of one passes.
	ok := Config{NewContentPercent: 33, ReviewContentPercent: 33, WeakAreaPercent: 33, RandomPercent: 0, TotalExercises: 10}
	if err := ok.Validate(); err != nil {
		t.Errorf("sum 99 should be tolerated: %v", err)
	}
}
