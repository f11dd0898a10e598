// Package schema declares the langdrill tables in ent's schema DSL. The
// store migrates the matching column definitions in internal/store without
// generated clients; the tests here keep the two in step.
package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
)

// EventMixin is shared by the append-only event tables. Rows from different
// tables interleave by sequence.
type EventMixin struct {
	mixin.Schema
}

func (EventMixin) Fields() []ent.Field {
	seq := field.Int64("sequence").Unique().Immutable().
		Comment("Drawn from global_sequence")
	at := field.Time("timestamp").Default(time.Now).Immutable().
		Comment("Unix milliseconds, UTC")
	return []ent.Field{seq, at}
}

func (EventMixin) Indexes() []ent.Index {
	return []ent.Index{index.Fields("timestamp")}
}
