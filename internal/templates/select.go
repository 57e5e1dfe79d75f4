package templates

import (
	"math"
	"sort"

	"github.com/edbpede/math-sub000/internal/randsrc"
)

// SelectionWeights tune the anti-repetition weighted pick.
type SelectionWeights struct {
	SRSBaseline       float64
	BindingBonus      float64
	RecencyPenalty    float64
	MasteryAdjustment float64
}

// Select finds candidates for the criteria and draws one by weighted random
// choice. Binding templates gain weight; recently used ones lose it, the most
// recent losing the most; the mastery adjustment pulls the pick toward the
// difficulty matching the learner's level. Returns false when nothing matches.
func (r *Registry) Select(c Criteria, w SelectionWeights, masteryLevel int, rng randsrc.Source) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	candidates := r.findLocked(c)
	if len(candidates) == 0 {
		return "", false
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}

	// Candidate order must be stable for a given registry state so a seeded
	// rng reproduces the same pick.
	sort.Strings(candidates)

	recencyRank := make(map[string]int, len(r.recency))
	for i, id := range r.recency {
		recencyRank[id] = i
	}

	// The optimal difficulty rank slides from A (1) at mastery 0 to C (3)
	// at mastery 100.
	optimal := 1.0 + float64(masteryLevel)/50.0

	weights := make([]float64, len(candidates))
	total := 0.0
	for i, id := range candidates {
		e := r.entries[id]
		weight := w.SRSBaseline
		if e.meta.IsBinding {
			weight += w.BindingBonus
		}
		if pos, used := recencyRank[id]; used {
			n := len(r.recency)
			weight -= w.RecencyPenalty * float64(pos+1) / float64(n)
		}
		weight -= w.MasteryAdjustment * math.Abs(float64(e.meta.Difficulty.Rank())-optimal)
		if weight < 0 {
			weight = 0
		}
		weights[i] = weight
		total += weight
	}

	if total <= 0 {
		return candidates[rng.Intn(len(candidates))], true
	}

	x := rng.Float64() * total
	for i, id := range candidates {
		x -= weights[i]
		if x < 0 {
			return id, true
		}
	}
	return candidates[len(candidates)-1], true
}
