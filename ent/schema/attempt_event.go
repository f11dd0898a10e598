package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AttemptEvent records one settled submission.
type AttemptEvent struct {
	ent.Schema
}

func (AttemptEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AttemptEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			Comment("One app or drill run"),
		field.String("kind_id").
			NotEmpty().
			Comment("Exercise kind, e.g. reading/fill-blanks"),
		field.Int("record_id"),
		field.Int("generation").
			Default(0).
			Comment("Restart counter within the session"),
		field.Bool("scored").
			Default(false),
		field.Float("percent").
			Default(0),
		field.Int("correct").
			Default(0),
		field.Int("total").
			Default(0).
			Comment("Gap or option count for objective formats"),
		field.Int("elapsed_secs").
			Default(0),
		field.String("source").
			Default("").
			Comment("local or remote; empty when unscored"),
		field.Text("feedback").
			Default(""),
		field.String("notice").
			Default("").
			Comment("Why the submission was not scored"),
	}
}

func (AttemptEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("kind_id"),
	}
}
