package catalog

import (
	"fmt"

	"github.com/edbpede/math-sub000/internal/taxonomy"
	"github.com/edbpede/math-sub000/internal/templates"
)

type builtin struct {
	id         string
	name       string
	area       taxonomy.CompetencyArea
	skill      string
	grade      taxonomy.GradeRange
	difficulty taxonomy.Difficulty
	binding    bool
	tags       []string
	gen        templates.Generator
}

// builtins is the bundled starter catalog: every competency area and grade
// range has content, so a fresh install can compose sessions immediately.
var builtins = []builtin{
	// Arithmetic, grades 0-3.
	{"add-to-20-a", "Addition to 20", taxonomy.CompetencyArithmetic, "add-to-20", taxonomy.Grade0To3, taxonomy.DifficultyA, true, []string{"addition", "mental-math"}, AdditionGenerator{Max: 20}},
	{"add-to-100-b", "Addition to 100", taxonomy.CompetencyArithmetic, "add-to-100", taxonomy.Grade0To3, taxonomy.DifficultyB, true, []string{"addition"}, AdditionGenerator{Max: 100}},
	{"sub-to-20-a", "Subtraction to 20", taxonomy.CompetencyArithmetic, "sub-to-20", taxonomy.Grade0To3, taxonomy.DifficultyA, true, []string{"subtraction", "mental-math"}, SubtractionGenerator{Max: 20}},
	{"sub-to-100-b", "Subtraction to 100", taxonomy.CompetencyArithmetic, "sub-to-100", taxonomy.Grade0To3, taxonomy.DifficultyB, false, []string{"subtraction"}, SubtractionGenerator{Max: 100}},
	{"mult-tables-c", "Times tables", taxonomy.CompetencyArithmetic, "mult-tables", taxonomy.Grade0To3, taxonomy.DifficultyC, true, []string{"multiplication", "tables"}, MultiplicationGenerator{MaxA: 10, MaxB: 10}},

	// Arithmetic, grades 4-6.
	{"add-large-a", "Multi-digit addition", taxonomy.CompetencyArithmetic, "add-large", taxonomy.Grade4To6, taxonomy.DifficultyA, false, []string{"addition"}, AdditionGenerator{Max: 1000}},
	{"mult-2digit-b", "Two-digit multiplication", taxonomy.CompetencyArithmetic, "mult-2digit", taxonomy.Grade4To6, taxonomy.DifficultyB, true, []string{"multiplication"}, MultiplicationGenerator{MaxA: 99, MaxB: 12}},
	{"div-integer-b", "Whole-number division", taxonomy.CompetencyArithmetic, "div-integer", taxonomy.Grade4To6, taxonomy.DifficultyB, true, []string{"division"}, DivisionGenerator{MaxDivisor: 12, MaxQuotient: 20}},
	{"frac-compare-c", "Comparing fractions", taxonomy.CompetencyArithmetic, "frac-compare", taxonomy.Grade4To6, taxonomy.DifficultyC, true, []string{"fractions"}, FractionCompareGenerator{MaxDenominator: 12}},

	// Arithmetic, grades 7-9.
	{"div-large-b", "Long division", taxonomy.CompetencyArithmetic, "div-large", taxonomy.Grade7To9, taxonomy.DifficultyB, false, []string{"division"}, DivisionGenerator{MaxDivisor: 25, MaxQuotient: 99}},
	{"percent-of-b", "Percent of a number", taxonomy.CompetencyArithmetic, "percent-of", taxonomy.Grade7To9, taxonomy.DifficultyB, true, []string{"percent"}, PercentOfGenerator{MaxBase: 400}},

	// Geometry.
	{"perimeter-rect-a", "Rectangle perimeter", taxonomy.CompetencyGeometry, "perimeter-rect", taxonomy.Grade0To3, taxonomy.DifficultyA, true, []string{"perimeter", "shapes"}, PerimeterGenerator{MaxSide: 10}},
	{"area-rect-a", "Rectangle area", taxonomy.CompetencyGeometry, "area-rect", taxonomy.Grade4To6, taxonomy.DifficultyA, true, []string{"area", "shapes"}, RectangleAreaGenerator{MaxSide: 12}},
	{"area-rect-large-b", "Rectangle area, large numbers", taxonomy.CompetencyGeometry, "area-rect-large", taxonomy.Grade7To9, taxonomy.DifficultyB, false, []string{"area"}, RectangleAreaGenerator{MaxSide: 40}},

	// Statistics & probability.
	{"mean-small-a", "Mean of small sets", taxonomy.CompetencyStatistics, "mean-small", taxonomy.Grade4To6, taxonomy.DifficultyA, true, []string{"mean", "data"}, MeanGenerator{Count: 4, MaxValue: 20}},
	{"mean-large-b", "Mean of larger sets", taxonomy.CompetencyStatistics, "mean-large", taxonomy.Grade7To9, taxonomy.DifficultyB, false, []string{"mean", "data"}, MeanGenerator{Count: 6, MaxValue: 50}},

	// Algebra.
	{"linear-eq-b", "Linear equations", taxonomy.CompetencyAlgebra, "linear-eq", taxonomy.Grade7To9, taxonomy.DifficultyB, true, []string{"equations"}, LinearEquationGenerator{MaxCoefficient: 9, MaxSolution: 12}},
	{"linear-eq-hard-c", "Linear equations, larger solutions", taxonomy.CompetencyAlgebra, "linear-eq-hard", taxonomy.Grade7To9, taxonomy.DifficultyC, false, []string{"equations"}, LinearEquationGenerator{MaxCoefficient: 15, MaxSolution: 30}},
}

// RegisterBuiltins registers the bundled starter catalog into a registry.
func RegisterBuiltins(r *templates.Registry) error {
	for _, b := range builtins {
		meta := templates.Metadata{
			CompetencyArea: b.area,
			SkillID:        b.skill,
			GradeRange:     b.grade,
			Difficulty:     b.difficulty,
			IsBinding:      b.binding,
			Tags:           b.tags,
		}
		if err := r.Register(b.id, b.name, b.gen, meta); err != nil {
			return fmt.Errorf("seed template %q: %w", b.id, err)
		}
	}
	return nil
}
