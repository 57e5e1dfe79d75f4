package composer

import "math"

// ComputeAllocation splits the session total across categories by largest
// remainder: each category floors its ideal share, then leftover slots go to
// the categories with the largest fractional parts. Because Validate
// tolerates a percentage sum of 99 or 101, the floors can also overshoot the
// total; in that case slots are shed from the smallest fractional parts.
// Equal fractions break by category order (new, review, weak-area, random),
// so the split is deterministic. The four counts always sum to the total.
func ComputeAllocation(cfg Config) Allocation {
	total := cfg.TotalExercises
	percents := []struct {
		cat Category
		pct int
	}{
		{CategoryNew, cfg.NewContentPercent},
		{CategoryReview, cfg.ReviewContentPercent},
		{CategoryWeakArea, cfg.WeakAreaPercent},
		{CategoryRandom, cfg.RandomPercent},
	}

	counts := make(map[Category]int, 4)
	type frac struct {
		cat   Category
		order int
		part  float64
	}
	fracs := make([]frac, 0, 4)

	assigned := 0
	for i, p := range percents {
		ideal := float64(p.pct) / 100.0 * float64(total)
		floor := int(math.Floor(ideal))
		counts[p.cat] = floor
		assigned += floor
		fracs = append(fracs, frac{cat: p.cat, order: i, part: ideal - float64(floor)})
	}

	// Stable selection sort over four entries: largest fraction first,
	// category order on ties.
	for i := 0; i < len(fracs); i++ {
		best := i
		for j := i + 1; j < len(fracs); j++ {
			if fracs[j].part > fracs[best].part ||
				(fracs[j].part == fracs[best].part && fracs[j].order < fracs[best].order) {
				best = j
			}
		}
		fracs[i], fracs[best] = fracs[best], fracs[i]
	}

	for i := 0; assigned < total; i++ {
		counts[fracs[i%len(fracs)].cat]++
		assigned++
	}

	// Walk from the smallest fractional part when the floors overshoot.
	for i := len(fracs) - 1; assigned > total; i-- {
		if i < 0 {
			i = len(fracs) - 1
		}
		if counts[fracs[i].cat] > 0 {
			counts[fracs[i].cat]--
			assigned--
		}
	}

	return Allocation{
		New:      counts[CategoryNew],
		Review:   counts[CategoryReview],
		WeakArea: counts[CategoryWeakArea],
		Random:   counts[CategoryRandom],
		Total:    total,
	}
}
