package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edbpede/math-sub000/internal/taxonomy"
	"github.com/edbpede/math-sub000/internal/templates"
)

func TestRegisterBuiltins(t *testing.T) {
	r := templates.NewRegistry()
	require.NoError(t, RegisterBuiltins(r))
	assert.Equal(t, len(builtins), r.Len())

	// Every competency area has at least one template.
	for _, area := range taxonomy.AllCompetencyAreas() {
		ids := r.Find(templates.Criteria{CompetencyArea: area})
		assert.NotEmpty(t, ids, "area %s has no templates", area)
	}

	// Every grade range has at least one template.
	for _, g := range taxonomy.AllGradeRanges() {
		ids := r.Find(templates.Criteria{GradeRange: g})
		assert.NotEmpty(t, ids, "grade %s has no templates", g)
	}
}

func TestGenerators_DeterministicAndSelfConsistent(t *testing.T) {
	for _, b := range builtins {
		b := b
		t.Run(b.id, func(t *testing.T) {
			ex1, err := b.gen.Generate(12345, "en")
			require.NoError(t, err)
			ex2, err := b.gen.Generate(12345, "en")
			require.NoError(t, err)
			assert.Equal(t, ex1, ex2, "same seed should generate the same exercise")

			assert.NotEmpty(t, ex1.Prompt)
			assert.NotEmpty(t, ex1.Answer)
			assert.True(t, b.gen.Validate(ex1, ex1.Answer), "canonical answer should validate")
			assert.False(t, b.gen.Validate(ex1, "certainly-wrong"), "garbage answer should not validate")

			hints := b.gen.Hints()
			require.GreaterOrEqual(t, len(hints), templates.MinHintProviders)
			for i, h := range hints {
				assert.NotEmpty(t, h(ex1), "hint %d is empty", i)
			}
		})
	}
}

func TestGenerators_LocaleSwitches(t *testing.T) {
	gen := AdditionGenerator{Max: 20}
	en, err := gen.Generate(7, "en")
	require.NoError(t, err)
	da, err := gen.Generate(7, "da-DK")
	require.NoError(t, err)

	assert.Contains(t, en.Prompt, "What is")
	assert.Contains(t, da.Prompt, "Hvad er")
	assert.Equal(t, en.Answer, da.Answer, "locale must not change the math")
}

func TestLoad_ValidCatalog(t *testing.T) {
	data := []byte(`{
		"templates": [
			{
				"id": "custom-add",
				"name": "Custom addition",
				"competency_area": "arithmetic",
				"skill_id": "add-custom",
				"grade_range": "0-3",
				"difficulty": "A",
				"is_binding": true,
				"tags": ["addition"],
				"generator": {"kind": "addition", "max": 50}
			},
			{
				"id": "custom-mean",
				"name": "Custom mean",
				"competency_area": "statistics-probability",
				"skill_id": "mean-custom",
				"grade_range": "4-6",
				"difficulty": "B",
				"generator": {"kind": "mean", "count": 5, "max_value": 30}
			}
		]
	}`)

	r := templates.NewRegistry()
	n, err := Load(r, data)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, r.Len())

	v, ok := r.Get("custom-add")
	require.True(t, ok)
	assert.Equal(t, taxonomy.CompetencyArithmetic, v.Metadata.CompetencyArea)
	assert.True(t, v.Metadata.IsBinding)
}

func TestLoad_RejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"missing templates": `{}`,
		"empty id":          `{"templates": [{"id": "", "name": "n", "competency_area": "arithmetic", "skill_id": "s", "grade_range": "0-3", "difficulty": "A", "generator": {"kind": "addition"}}]}`,
		"bad area":          `{"templates": [{"id": "t", "name": "n", "competency_area": "calculus", "skill_id": "s", "grade_range": "0-3", "difficulty": "A", "generator": {"kind": "addition"}}]}`,
		"bad difficulty":    `{"templates": [{"id": "t", "name": "n", "competency_area": "arithmetic", "skill_id": "s", "grade_range": "0-3", "difficulty": "D", "generator": {"kind": "addition"}}]}`,
		"missing generator": `{"templates": [{"id": "t", "name": "n", "competency_area": "arithmetic", "skill_id": "s", "grade_range": "0-3", "difficulty": "A"}]}`,
		"not json":          `{"templates": [`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			r := templates.NewRegistry()
			_, err := Load(r, []byte(data))
			assert.Error(t, err)
			assert.Zero(t, r.Len(), "failed load must not leave partial registrations")
		})
	}
}

func TestLoad_RaisesDegenerateParams(t *testing.T) {
	// max_a below the multiplication floor must not survive into a
	// generator whose random range would be empty.
	data := []byte(`{"templates": [{"id": "tiny", "name": "Tiny product", "competency_area": "arithmetic", "skill_id": "s", "grade_range": "0-3", "difficulty": "A", "generator": {"kind": "multiplication", "max_a": 1, "max_b": 1}}]}`)
	r := templates.NewRegistry()
	_, err := Load(r, data)
	require.NoError(t, err)

	gen, ok := r.Generator("tiny")
	require.True(t, ok)
	for seed := int64(0); seed < 20; seed++ {
		ex, err := gen.Generate(seed, "en")
		require.NoError(t, err)
		assert.NotEmpty(t, ex.Answer)
	}
}

func TestLoad_UnknownGeneratorKind(t *testing.T) {
	data := []byte(`{"templates": [{"id": "t", "name": "n", "competency_area": "arithmetic", "skill_id": "s", "grade_range": "0-3", "difficulty": "A", "generator": {"kind": "quadratic"}}]}`)
	r := templates.NewRegistry()
	_, err := Load(r, data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown generator kind")
}
