package mastery

import (
	"math"
	"time"

	"github.com/edbpede/math-sub000/internal/progress"
	"github.com/edbpede/math-sub000/internal/taxonomy"
)

// Factor weights. Recent performance dominates; the remaining factors refine.
const (
	recentWeight      = 0.45
	speedWeight       = 0.20
	hintsWeight       = 0.15
	consistencyWeight = 0.10
	decayWeight       = 0.10
)

// Attempts below this count yield an InsufficientData result capped at 60,
// so "mastered" is unreachable without enough evidence.
const minConfidentAttempts = 5

// insufficientCap is the highest level reportable from a thin sample.
const insufficientCap = 60

// decayHalfLifeDays is the forgetting half-life for the time-decay factor.
const decayHalfLifeDays = 14.0

// Input carries everything one mastery calculation needs. Attempts are the
// last up-to-20 attempts for the skill, ordered oldest to newest.
type Input struct {
	SkillID       string
	Attempts      []progress.ExerciseAttempt
	Grade         taxonomy.GradeRange
	Difficulty    taxonomy.Difficulty
	LastPracticed time.Time
	Now           time.Time
}

// Calculate maps an attempt window plus aggregate state onto a 0-100 mastery
// level. Pure: identical inputs yield identical results.
func Calculate(in Input) Result {
	attempts := in.Attempts
	if len(attempts) > progress.AttemptWindow {
		attempts = attempts[len(attempts)-progress.AttemptWindow:]
	}

	n := len(attempts)
	if n == 0 {
		return Insufficient(0, "no attempts")
	}
	if n < minConfidentAttempts {
		correct := 0
		for _, a := range attempts {
			if a.Correct {
				correct++
			}
		}
		rate := float64(correct) / float64(n)
		level := int(math.Round(rate * float64(insufficientCap)))
		return Insufficient(level, "fewer than 5 attempts")
	}

	recent := recentPerformance(attempts)
	speed := responseSpeed(attempts, in.Grade, in.Difficulty)
	hints := hintUsage(attempts)
	consistency := consistencyScore(attempts)
	decay := timeDecay(in.LastPracticed, in.Now)

	score := recentWeight*recent + speedWeight*speed + hintsWeight*hints +
		consistencyWeight*consistency + decayWeight*decay

	if math.IsNaN(score) || math.IsInf(score, 0) {
		return Failure("mastery score is not a finite number")
	}

	level := int(math.Round(score * 100))
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	return Success(level)
}

// recentPerformance weights outcomes by exponential recency: the newest
// attempt counts fully, each step back decays by e^-0.1.
func recentPerformance(attempts []progress.ExerciseAttempt) float64 {
	n := len(attempts)
	var weighted, total float64
	for i, a := range attempts {
		w := math.Exp(-0.1 * float64(n-1-i))
		total += w
		if a.Correct {
			weighted += w
		}
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// responseSpeed compares the window's average response time to the
// grade/difficulty benchmark. Answers faster than the benchmark minimum look
// like guessing and score 0.4, well below on-pace work; answers past the
// expected time decay linearly from 1.0 to 0.3 at the benchmark maximum.
func responseSpeed(attempts []progress.ExerciseAttempt, grade taxonomy.GradeRange, difficulty taxonomy.Difficulty) float64 {
	var sum float64
	for _, a := range attempts {
		sum += a.TimeSpentSeconds
	}
	avg := sum / float64(len(attempts))

	b := BenchmarkFor(grade, difficulty)
	switch {
	case avg < b.Min:
		return 0.4
	case avg <= b.Expected:
		return 1.0
	case avg >= b.Max:
		return 0.3
	default:
		frac := (avg - b.Expected) / (b.Max - b.Expected)
		return 1.0 - frac*0.7
	}
}

// hintUsage applies a piecewise penalty based on average hints per attempt.
func hintUsage(attempts []progress.ExerciseAttempt) float64 {
	total := 0
	for _, a := range attempts {
		total += a.HintsUsed
	}
	avg := float64(total) / float64(len(attempts))

	switch {
	case avg == 0:
		return 1.0
	case avg <= 0.5:
		return 0.85
	case avg <= 1:
		return 0.75
	case avg <= 2:
		return 0.60
	case avg <= 3:
		return 0.50
	default:
		return 0.40
	}
}

// consistencyScore maps the sample standard deviation of the 0/1 outcome
// sequence onto [0,1]. A coin-flip learner (sigma ~0.5) scores 0.
func consistencyScore(attempts []progress.ExerciseAttempt) float64 {
	n := len(attempts)
	if n < 2 {
		return 1.0
	}

	var sum float64
	for _, a := range attempts {
		if a.Correct {
			sum++
		}
	}
	mean := sum / float64(n)

	var sq float64
	for _, a := range attempts {
		x := 0.0
		if a.Correct {
			x = 1.0
		}
		sq += (x - mean) * (x - mean)
	}
	sigma := math.Sqrt(sq / float64(n-1))

	score := 1.0 - sigma/0.5
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// timeDecay halves every two weeks since the last practice, floored at 0.05.
// Anything practiced within the last day is fully fresh.
func timeDecay(lastPracticed, now time.Time) float64 {
	if lastPracticed.IsZero() {
		return 0.05
	}
	days := now.Sub(lastPracticed).Hours() / 24.0
	if days < 1 {
		return 1.0
	}
	decay := math.Exp(-math.Ln2 * days / decayHalfLifeDays)
	if decay < 0.05 {
		return 0.05
	}
	return decay
}
