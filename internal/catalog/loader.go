package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/edbpede/math-sub000/internal/taxonomy"
	"github.com/edbpede/math-sub000/internal/templates"
)

// catalogSchema validates catalog files before any entry touches the
// registry, so a malformed file fails as a whole with a precise error.
const catalogSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["templates"],
  "properties": {
    "templates": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "name", "competency_area", "skill_id", "grade_range", "difficulty", "generator"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string", "minLength": 1},
          "competency_area": {"enum": ["arithmetic", "geometry", "statistics-probability", "algebra"]},
          "skill_id": {"type": "string", "minLength": 1},
          "grade_range": {"enum": ["0-3", "4-6", "7-9"]},
          "difficulty": {"enum": ["A", "B", "C"]},
          "is_binding": {"type": "boolean"},
          "tags": {"type": "array", "items": {"type": "string"}},
          "generator": {
            "type": "object",
            "required": ["kind"],
            "properties": {"kind": {"type": "string", "minLength": 1}}
          }
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func compiledCatalogSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(catalogSchema))
		if err != nil {
			schemaErr = fmt.Errorf("parse catalog schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://catalog.json", doc); err != nil {
			schemaErr = fmt.Errorf("add catalog schema: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile("schema://catalog.json")
	})
	return compiledSchema, schemaErr
}

// File is the on-disk catalog shape.
type File struct {
	Templates []Entry `json:"templates"`
}

// Entry is one template definition in a catalog file.
type Entry struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	CompetencyArea string          `json:"competency_area"`
	SkillID        string          `json:"skill_id"`
	GradeRange     string          `json:"grade_range"`
	Difficulty     string          `json:"difficulty"`
	IsBinding      bool            `json:"is_binding"`
	Tags           []string        `json:"tags"`
	Generator      json.RawMessage `json:"generator"`
}

// generatorSpec is the union of all generator parameter shapes; Kind selects
// which fields apply.
type generatorSpec struct {
	Kind           string `json:"kind"`
	Max            int    `json:"max"`
	MaxA           int    `json:"max_a"`
	MaxB           int    `json:"max_b"`
	MaxDivisor     int    `json:"max_divisor"`
	MaxQuotient    int    `json:"max_quotient"`
	MaxDenominator int    `json:"max_denominator"`
	MaxSide        int    `json:"max_side"`
	MaxValue       int    `json:"max_value"`
	MaxBase        int    `json:"max_base"`
	MaxCoefficient int    `json:"max_coefficient"`
	MaxSolution    int    `json:"max_solution"`
	Count          int    `json:"count"`
}

// Load parses, schema-validates, and registers a catalog file's templates.
// Returns the number of templates registered.
func Load(r *templates.Registry, data []byte) (int, error) {
	schema, err := compiledCatalogSchema()
	if err != nil {
		return 0, err
	}

	parsed, err := jsonschema.UnmarshalJSON(strings.NewReader(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse catalog: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return 0, fmt.Errorf("catalog does not match schema: %w", err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("decode catalog: %w", err)
	}

	// Build every generator before touching the registry, so a bad entry
	// anywhere rejects the file as a whole.
	gens := make([]templates.Generator, len(file.Templates))
	for i, e := range file.Templates {
		gen, err := buildGenerator(e.Generator)
		if err != nil {
			return 0, fmt.Errorf("template %q: %w", e.ID, err)
		}
		gens[i] = gen
	}

	var added []string
	for i, e := range file.Templates {
		meta := templates.Metadata{
			CompetencyArea: taxonomy.CompetencyArea(e.CompetencyArea),
			SkillID:        e.SkillID,
			GradeRange:     taxonomy.GradeRange(e.GradeRange),
			Difficulty:     taxonomy.Difficulty(e.Difficulty),
			IsBinding:      e.IsBinding,
			Tags:           e.Tags,
		}
		if err := r.Register(e.ID, e.Name, gens[i], meta); err != nil {
			for _, id := range added {
				r.Unregister(id)
			}
			return 0, fmt.Errorf("register %q: %w", e.ID, err)
		}
		added = append(added, e.ID)
	}
	return len(file.Templates), nil
}

// buildGenerator constructs a concrete generator from its JSON spec,
// applying per-kind parameter defaults.
func buildGenerator(raw json.RawMessage) (templates.Generator, error) {
	var spec generatorSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("decode generator spec: %w", err)
	}

	switch spec.Kind {
	case "addition":
		return AdditionGenerator{Max: intParam(spec.Max, 1, 20)}, nil
	case "subtraction":
		return SubtractionGenerator{Max: intParam(spec.Max, 1, 20)}, nil
	case "multiplication":
		return MultiplicationGenerator{
			MaxA: intParam(spec.MaxA, 3, 10),
			MaxB: intParam(spec.MaxB, 3, 10),
		}, nil
	case "division":
		return DivisionGenerator{
			MaxDivisor:  intParam(spec.MaxDivisor, 3, 10),
			MaxQuotient: intParam(spec.MaxQuotient, 1, 10),
		}, nil
	case "fraction-compare":
		return FractionCompareGenerator{MaxDenominator: intParam(spec.MaxDenominator, 3, 12)}, nil
	case "rectangle-area":
		return RectangleAreaGenerator{MaxSide: intParam(spec.MaxSide, 3, 12)}, nil
	case "perimeter":
		return PerimeterGenerator{MaxSide: intParam(spec.MaxSide, 3, 12)}, nil
	case "mean":
		return MeanGenerator{
			Count:    intParam(spec.Count, 2, 5),
			MaxValue: intParam(spec.MaxValue, 1, 20),
		}, nil
	case "percent-of":
		return PercentOfGenerator{MaxBase: intParam(spec.MaxBase, 100, 200)}, nil
	case "linear-equation":
		return LinearEquationGenerator{
			MaxCoefficient: intParam(spec.MaxCoefficient, 3, 9),
			MaxSolution:    intParam(spec.MaxSolution, 1, 12),
		}, nil
	default:
		return nil, fmt.Errorf("unknown generator kind %q", spec.Kind)
	}
}

// intParam resolves a generator parameter: absent or non-positive values take
// the fallback, and values below the kind's floor are raised to it so no
// parameter combination can drive a generator into an empty random range.
func intParam(v, floor, fallback int) int {
	if v <= 0 {
		return fallback
	}
	if v < floor {
		return floor
	}
	return v
}
