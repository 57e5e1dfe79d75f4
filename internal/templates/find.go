package templates

import "github.com/edbpede/math-sub000/internal/taxonomy"

// Criteria narrows a search. Zero-valued fields are ignored; Tags must all be
// present on a matching template; ExcludeIDs subtracts from the result.
type Criteria struct {
	CompetencyArea taxonomy.CompetencyArea
	SkillID        string
	GradeRange     taxonomy.GradeRange
	Difficulty     taxonomy.Difficulty
	Binding        *bool
	Tags           []string
	ExcludeIDs     map[string]struct{}
}

// Find returns the ids of all templates matching the criteria, unordered.
// The match is the intersection of the applicable index sets, seeded from
// the smallest set.
func (r *Registry) Find(c Criteria) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findLocked(c)
}

func (r *Registry) findLocked(c Criteria) []string {
	var sets []map[string]struct{}

	if c.CompetencyArea != "" {
		sets = append(sets, r.byCompetency[c.CompetencyArea])
	}
	if c.SkillID != "" {
		sets = append(sets, r.bySkill[c.SkillID])
	}
	if c.GradeRange != "" {
		sets = append(sets, r.byGrade[c.GradeRange])
	}
	if c.Difficulty != "" {
		sets = append(sets, r.byDifficulty[c.Difficulty])
	}
	if c.Binding != nil {
		sets = append(sets, r.byBinding[*c.Binding])
	}
	for _, tag := range c.Tags {
		sets = append(sets, r.byTag[tag])
	}

	var result []string
	if len(sets) == 0 {
		// No constraints: every template matches.
		for id := range r.entries {
			if _, skip := c.ExcludeIDs[id]; !skip {
				result = append(result, id)
			}
		}
		return result
	}

	// Seed from the smallest set; any empty set short-circuits.
	seed := sets[0]
	for _, s := range sets[1:] {
		if len(s) < len(seed) {
			seed = s
		}
	}
	if len(seed) == 0 {
		return nil
	}

	for id := range seed {
		if _, skip := c.ExcludeIDs[id]; skip {
			continue
		}
		ok := true
		for _, s := range sets {
			if _, in := s[id]; !in {
				ok = false
				break
			}
		}
		if ok {
			result = append(result, id)
		}
	}
	return result
}
