package taxonomy

// CompetencyArea is a top-level curriculum category.
type CompetencyArea string

const (
	CompetencyArithmetic CompetencyArea = "arithmetic"
	CompetencyGeometry   CompetencyArea = "geometry"
	CompetencyStatistics CompetencyArea = "statistics-probability"
	CompetencyAlgebra    CompetencyArea = "algebra"
)

// AllCompetencyAreas returns all competency areas in display order.
func AllCompetencyAreas() []CompetencyArea {
	return []CompetencyArea{
		CompetencyArithmetic,
		CompetencyGeometry,
		CompetencyStatistics,
		CompetencyAlgebra,
	}
}

// Valid reports whether c is one of the four known competency areas.
func (c CompetencyArea) Valid() bool {
	switch c {
	case CompetencyArithmetic, CompetencyGeometry, CompetencyStatistics, CompetencyAlgebra:
		return true
	}
	return false
}

// CompetencyDisplayName returns a human-readable name for a competency area.
func CompetencyDisplayName(c CompetencyArea) string {
	switch c {
	case CompetencyArithmetic:
		return "Arithmetic"
	case CompetencyGeometry:
		return "Geometry"
	case CompetencyStatistics:
		return "Statistics & Probability"
	case CompetencyAlgebra:
		return "Algebra"
	default:
		return string(c)
	}
}

// GradeRange is a curriculum grade band.
type GradeRange string

const (
	Grade0To3 GradeRange = "0-3"
	Grade4To6 GradeRange = "4-6"
	Grade7To9 GradeRange = "7-9"
)

// AllGradeRanges returns all grade ranges in ascending order.
func AllGradeRanges() []GradeRange {
	return []GradeRange{Grade0To3, Grade4To6, Grade7To9}
}

// Valid reports whether g is one of the three known grade ranges.
func (g GradeRange) Valid() bool {
	switch g {
	case Grade0To3, Grade4To6, Grade7To9:
		return true
	}
	return false
}

// Difficulty is an exercise difficulty level, A (easiest) through C (hardest).
type Difficulty string

const (
	DifficultyA Difficulty = "A"
	DifficultyB Difficulty = "B"
	DifficultyC Difficulty = "C"
)

// AllDifficulties returns all difficulty levels in ascending order.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyA, DifficultyB, DifficultyC}
}

// Valid reports whether d is one of the three known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyA, DifficultyB, DifficultyC:
		return true
	}
	return false
}

// Rank returns the numeric rank of a difficulty: A=1, B=2, C=3.
// Unknown difficulties rank as 0.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyA:
		return 1
	case DifficultyB:
		return 2
	case DifficultyC:
		return 3
	default:
		return 0
	}
}
