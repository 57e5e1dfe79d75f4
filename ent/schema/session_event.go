package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent records one composed practice session.
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Unique().
			Comment("UUID minted at composition"),
		field.String("user_id").
			NotEmpty().
			Comment("Learner the session was composed for"),
		field.String("grade_range").
			NotEmpty().
			Comment("Grade range the session targeted"),
		field.String("competency_area_id").
			Optional().
			Comment("Competency filter, empty when unrestricted"),
		field.Int("planned_new").
			Comment("Allocated new-content slots"),
		field.Int("planned_review").
			Comment("Allocated review slots"),
		field.Int("planned_weak_area").
			Comment("Allocated weak-area slots"),
		field.Int("planned_random").
			Comment("Allocated random slots"),
		field.Int("total_exercises").
			Comment("Exercises in the composed plan"),
		field.Int("completed").
			Default(0).
			Comment("Exercises the learner finished"),
		field.Time("composed_at").
			Comment("When the plan was composed"),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id"),
		index.Fields("composed_at"),
	}
}
