package srs

import (
	"sort"
	"time"
)

// Priority weights. Overdueness dominates, then retention difficulty (low
// ease), then mastery gap.
const (
	overdueWeight = 0.5
	easeWeight    = 0.3
	masteryWeight = 0.2
)

// Priority computes the review urgency scalar for a skill. Higher means the
// skill should be reviewed sooner.
func Priority(p Params, masteryLevel int, nextReview, now time.Time) float64 {
	overdue := DaysOverdue(nextReview, now)
	easeGap := (MaxEaseFactor - clampEase(p.EaseFactor)) / (MaxEaseFactor - MinEaseFactor)
	masteryGap := float64(100-masteryLevel) / 100.0

	return overdueWeight*overdue*2 + easeWeight*easeGap + masteryWeight*masteryGap
}

// ReviewCandidate pairs a skill with the state the priority ranking needs.
type ReviewCandidate struct {
	SkillID      string
	Params       Params
	MasteryLevel int
	NextReview   time.Time
}

// RankDue filters candidates down to those due at now and sorts them by
// descending priority, breaking ties by skill id for deterministic output.
func RankDue(candidates []ReviewCandidate, now time.Time) []ReviewCandidate {
	var due []ReviewCandidate
	for _, c := range candidates {
		if IsDue(c.NextReview, now) {
			due = append(due, c)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		pi := Priority(due[i].Params, due[i].MasteryLevel, due[i].NextReview, now)
		pj := Priority(due[j].Params, due[j].MasteryLevel, due[j].NextReview, now)
		if pi != pj {
			return pi > pj
		}
		return due[i].SkillID < due[j].SkillID
	})
	return due
}
