package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
)

// EventMixin carries the fields every log entity (attempt and session
// events) shares. The sequence comes from the store's global counter, so
// entries across both tables interleave in write order; recorded_at is the
// insertion instant, distinct from the domain timestamps the entities carry
// themselves (created_at, composed_at).
type EventMixin struct {
	mixin.Schema
}

func (EventMixin) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("sequence").
			Unique().
			Immutable().
			Comment("Global write-order sequence shared across event tables"),
		field.Time("recorded_at").
			Default(time.Now).
			Immutable().
			Comment("When the row was inserted"),
	}
}

func (EventMixin) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("sequence"),
	}
}
