package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AttemptEvent is one row of the append-only attempt log (exercise_history).
type AttemptEvent struct {
	ent.Schema
}

func (AttemptEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AttemptEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id").
			NotEmpty().
			Comment("Learner who made the attempt"),
		field.String("skill_id").
			NotEmpty().
			Comment("Skill the exercise practised"),
		field.String("template_id").
			NotEmpty().
			Comment("Template the exercise was generated from"),
		field.String("competency_area_id").
			NotEmpty().
			Comment("Competency area of the template"),
		field.String("difficulty").
			NotEmpty().
			Comment("A, B, or C"),
		field.Bool("is_binding").
			Comment("Whether the template is mandatory curriculum"),
		field.Bool("correct").
			Comment("Whether the answer was correct"),
		field.Float("time_spent_seconds").
			Comment("Seconds from presentation to answer"),
		field.Int("hints_used").
			Default(0).
			Comment("Hints revealed before answering"),
		field.Time("created_at").
			Comment("When the attempt happened"),
	}
}

func (AttemptEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "skill_id"),
		index.Fields("template_id"),
		index.Fields("created_at"),
	}
}
