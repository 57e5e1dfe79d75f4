package composer

import (
	"math"

	"github.com/edbpede/math-sub000/internal/randsrc"
)

// interleave spreads each category's exercises evenly across the session
// with a small random jitter, so consecutive exercises rarely share a
// category. Positions come out dense 0..N-1 in final slot order.
func interleave(picked []PlannedExercise, rng randsrc.Source) []PlannedExercise {
	n := len(picked)
	if n == 0 {
		return nil
	}

	byCategory := make(map[Category][]PlannedExercise)
	for _, ex := range picked {
		byCategory[ex.Category] = append(byCategory[ex.Category], ex)
	}

	slots := make([]*PlannedExercise, n)
	for _, cat := range AllCategories() {
		group := byCategory[cat]
		if len(group) == 0 {
			continue
		}
		spacing := float64(n) / float64(len(group))
		for i := range group {
			base := int(math.Floor(float64(i) * spacing))
			jitter := int(math.Round((rng.Float64()*0.4 - 0.2) * spacing))
			pos := ((base+jitter)%n + n) % n

			// Linear probe forward on collision.
			for slots[pos] != nil {
				pos = (pos + 1) % n
			}
			ex := group[i]
			slots[pos] = &ex
		}
	}

	out := make([]PlannedExercise, n)
	for i, ex := range slots {
		ex.Position = i
		out[i] = *ex
	}
	return out
}
