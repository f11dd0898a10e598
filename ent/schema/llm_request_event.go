package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LLMRequestEvent is one evaluator or transcription call, successful or
// not. `langdrill llm` reads these back for usage and cost.
type LLMRequestEvent struct {
	ent.Schema
}

func (LLMRequestEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (LLMRequestEvent) Fields() []ent.Field {
	counters := func(name string) ent.Field {
		return field.Int(name).NonNegative().Default(0)
	}
	return []ent.Field{
		field.String("provider").NotEmpty(),
		field.String("model").
			Comment("Model reported by the vendor, else the configured one"),
		field.String("purpose").
			Comment("response-eval, transcribe"),
		counters("input_tokens"),
		counters("output_tokens"),
		field.Int64("latency_ms").Default(0),
		field.Bool("success"),
		field.String("error_message").Default(""),
		field.Text("request_body").Default("").
			Comment("Prompt sections; audio is summarized, never stored"),
		field.Text("response_body").Default(""),
	}
}

func (LLMRequestEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("purpose"),
		index.Fields("success"),
	}
}
