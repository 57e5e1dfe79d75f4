package composer

import (
	"sort"
	"time"

	"github.com/edbpede/math-sub000/internal/progress"
	"github.com/edbpede/math-sub000/internal/randsrc"
	"github.com/edbpede/math-sub000/internal/srs"
)

// newContentSkills returns skills that count as new under the criteria:
// never attempted, under the attempt threshold, or idle long enough to be
// new again. Sorted by ascending attempts, then skill id.
func newContentSkills(skills []*progress.SkillProgress, crit NewContentCriteria, now time.Time) []*progress.SkillProgress {
	var out []*progress.SkillProgress
	for _, sp := range skills {
		if sp.Attempts == 0 ||
			sp.Attempts < crit.MaxAttempts ||
			sp.DaysSinceLastPracticed(now) >= crit.MinDaysSinceLastPractice {
			out = append(out, sp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Attempts != out[j].Attempts {
			return out[i].Attempts < out[j].Attempts
		}
		return out[i].SkillID < out[j].SkillID
	})
	return out
}

// reviewSkills returns due skills ranked by descending review priority.
func reviewSkills(skills []*progress.SkillProgress, now time.Time) []*progress.SkillProgress {
	byID := make(map[string]*progress.SkillProgress, len(skills))
	candidates := make([]srs.ReviewCandidate, 0, len(skills))
	for _, sp := range skills {
		byID[sp.SkillID] = sp
		candidates = append(candidates, sp.ReviewCandidate())
	}

	ranked := srs.RankDue(candidates, now)
	out := make([]*progress.SkillProgress, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, byID[c.SkillID])
	}
	return out
}

// weakAreaSkills returns low-mastery skills with enough attempts for the
// score to be trusted, weakest first, ties by skill id.
func weakAreaSkills(skills []*progress.SkillProgress, crit WeakAreaCriteria) []*progress.SkillProgress {
	var out []*progress.SkillProgress
	for _, sp := range skills {
		if sp.MasteryLevel <= crit.MaxMasteryLevel && sp.Attempts >= crit.MinAttempts {
			out = append(out, sp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MasteryLevel != out[j].MasteryLevel {
			return out[i].MasteryLevel < out[j].MasteryLevel
		}
		return out[i].SkillID < out[j].SkillID
	})
	return out
}

// randomSkills returns the full skill set in a seeded shuffle order. The
// input ordering is normalised first so the result depends only on the skill
// set and the rng.
func randomSkills(skills []*progress.SkillProgress, rng randsrc.Source) []*progress.SkillProgress {
	out := make([]*progress.SkillProgress, len(skills))
	copy(out, skills)
	sort.Slice(out, func(i, j int) bool { return out[i].SkillID < out[j].SkillID })
	randsrc.Shuffle(rng, len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
