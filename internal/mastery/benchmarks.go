package mastery

import "github.com/edbpede/math-sub000/internal/taxonomy"

// Benchmark holds the response-time expectations in seconds for one
// grade/difficulty cell.
type Benchmark struct {
	Min      float64
	Expected float64
	Max      float64
}

// benchmarks maps grade range and difficulty to response-time expectations.
var benchmarks = map[taxonomy.GradeRange]map[taxonomy.Difficulty]Benchmark{
	taxonomy.Grade0To3: {
		taxonomy.DifficultyA: {Min: 15, Expected: 30, Max: 60},
		taxonomy.DifficultyB: {Min: 20, Expected: 45, Max: 90},
		taxonomy.DifficultyC: {Min: 30, Expected: 60, Max: 120},
	},
	taxonomy.Grade4To6: {
		taxonomy.DifficultyA: {Min: 20, Expected: 40, Max: 80},
		taxonomy.DifficultyB: {Min: 30, Expected: 60, Max: 120},
		taxonomy.DifficultyC: {Min: 45, Expected: 90, Max: 180},
	},
	taxonomy.Grade7To9: {
		taxonomy.DifficultyA: {Min: 30, Expected: 60, Max: 120},
		taxonomy.DifficultyB: {Min: 45, Expected: 90, Max: 180},
		taxonomy.DifficultyC: {Min: 60, Expected: 120, Max: 240},
	},
}

// BenchmarkFor returns the response-time benchmark for a grade/difficulty
// pair, falling back to the middle cell for unknown inputs.
func BenchmarkFor(grade taxonomy.GradeRange, difficulty taxonomy.Difficulty) Benchmark {
	if byDiff, ok := benchmarks[grade]; ok {
		if b, ok := byDiff[difficulty]; ok {
			return b
		}
	}
	return benchmarks[taxonomy.Grade4To6][taxonomy.DifficultyB]
}
