package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Progress holds one JSON progress blob per exercise kind. Writes replace
// the whole row.
type Progress struct {
	ent.Schema
}

func (Progress) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("key").
			NotEmpty().
			Comment("Exercise kind ID"),
		field.Text("data"),
		field.Int64("updated_at").
			Comment("Unix milliseconds"),
	}
}
