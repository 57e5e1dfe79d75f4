package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ProgressRecord is the persisted per-skill aggregate (skills_progress).
type ProgressRecord struct {
	ent.Schema
}

func (ProgressRecord) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id").
			NotEmpty().
			Comment("Learner this record belongs to"),
		field.String("skill_id").
			NotEmpty().
			Comment("Skill being tracked"),
		field.Int("mastery_level").
			Default(0).
			Comment("Current mastery score, 0-100"),
		field.Int("attempts").
			Default(0).
			Comment("Lifetime attempt count"),
		field.Int("successes").
			Default(0).
			Comment("Lifetime correct count"),
		field.Float("avg_response_time_ms").
			Default(0).
			Comment("Rolling average response time"),
		field.Float("ease_factor").
			Comment("SM-2 ease factor, 1.3-3.0"),
		field.Int("interval_days").
			Comment("Current review interval in days"),
		field.Int("repetition_count").
			Comment("Consecutive successful reviews"),
		field.Time("last_practiced_at").
			Optional().
			Nillable().
			Comment("Last attempt instant"),
		field.Time("next_review_at").
			Comment("When the skill comes due"),
	}
}

func (ProgressRecord) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "skill_id").Unique(),
		index.Fields("next_review_at"),
	}
}
