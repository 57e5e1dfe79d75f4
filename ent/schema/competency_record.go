package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// CompetencyRecord is the persisted per-area roll-up (competency_progress).
type CompetencyRecord struct {
	ent.Schema
}

func (CompetencyRecord) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id").
			NotEmpty().
			Comment("Learner this roll-up belongs to"),
		field.String("competency_area_id").
			NotEmpty().
			Comment("Competency area being rolled up"),
		field.String("grade_range").
			NotEmpty().
			Comment("0-3, 4-6, or 7-9"),
		field.Int("mastery_level").
			Default(0).
			Comment("Mean mastery across the area's skills"),
		field.Int("total_attempts").
			Default(0).
			Comment("Attempts across the area's skills"),
		field.Float("success_rate").
			Default(0).
			Comment("Correct ratio across the area's skills"),
		field.Time("last_practiced_at").
			Optional().
			Nillable().
			Comment("Most recent attempt in the area"),
		field.Time("achieved_at").
			Optional().
			Nillable().
			Comment("Set once area mastery first reaches 80"),
	}
}

func (CompetencyRecord) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "competency_area_id", "grade_range").Unique(),
	}
}
