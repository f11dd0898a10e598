package llm

import (
	"testing"
)

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"transcript": map[string]any{"type": "string"},
			"score":      map[string]any{"type": "number", "minimum": 0, "maximum": 100},
			"band":       map[string]any{"type": "string", "enum": []any{"A1", "B2", "C1"}},
			"errors": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"odd": map[string]any{"type": "null"},
		},
		"required": []string{"transcript", "score"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("type = %s, want OBJECT", schema.Type)
	}
	if len(schema.Properties) != 5 {
		t.Fatalf("got %d properties, want 5", len(schema.Properties))
	}
	score := schema.Properties["score"]
	if score.Type != "NUMBER" {
		t.Errorf("score type = %s", score.Type)
	}
	if score.Minimum == nil || *score.Minimum != 0 || score.Maximum == nil || *score.Maximum != 100 {
		t.Errorf("score bounds = %v..%v", score.Minimum, score.Maximum)
	}
	if got := schema.Properties["band"].Enum; len(got) != 3 {
		t.Errorf("band enum = %v", got)
	}
	if got := schema.Properties["errors"].Items.Type; got != "STRING" {
		t.Errorf("errors items = %s", got)
	}
	if got := schema.Properties["odd"].Type; got != "STRING" {
		t.Errorf("unknown type should fall back to STRING, got %s", got)
	}
	if len(schema.Required) != 2 || schema.Required[0] != "transcript" {
		t.Errorf("required = %v", schema.Required)
	}
}

func TestGeminiConfig(t *testing.T) {
	conf := geminiConfig(Request{
		System:      "You are an examiner.",
		MaxTokens:   300,
		Temperature: 0.2,
		Schema:      &Schema{Name: "s", Definition: map[string]any{"type": "object"}},
	})
	if conf.MaxOutputTokens != 300 {
		t.Errorf("max tokens = %d", conf.MaxOutputTokens)
	}
	if conf.Temperature == nil || *conf.Temperature != float32(0.2) {
		t.Errorf("temperature = %v", conf.Temperature)
	}
	if conf.SystemInstruction == nil || conf.SystemInstruction.Parts[0].Text != "You are an examiner." {
		t.Errorf("system instruction = %+v", conf.SystemInstruction)
	}
	if conf.ResponseMIMEType != "application/json" || conf.ResponseSchema == nil {
		t.Errorf("structured output not configured")
	}

	if plain := geminiConfig(Request{}); plain.Temperature != nil || plain.ResponseSchema != nil {
		t.Errorf("zero request should leave optional fields unset")
	}
}

func TestGeminiContents_Audio(t *testing.T) {
	contents := geminiContents([]Message{
		{Role: RoleUser, Content: "Score this answer.", Audio: &Audio{Data: []byte("RIFF"), MIMEType: "audio/wav"}},
		{Role: RoleAssistant, Content: "ok"},
	})
	if len(contents) != 2 {
		t.Fatalf("got %d contents, want 2", len(contents))
	}
	user := contents[0]
	if user.Role != "user" || len(user.Parts) != 2 {
		t.Fatalf("user content = role %q, %d parts", user.Role, len(user.Parts))
	}
	blob := user.Parts[1].InlineData
	if blob == nil || blob.MIMEType != "audio/wav" || string(blob.Data) != "RIFF" {
		t.Errorf("audio part = %+v", blob)
	}
	if contents[1].Role != "model" || len(contents[1].Parts) != 1 {
		t.Errorf("assistant content = role %q, %d parts", contents[1].Role, len(contents[1].Parts))
	}
}

func TestAcceptsAudio(t *testing.T) {
	gemini := &GeminiProvider{model: "gemini-2.5-flash"}
	if !AcceptsAudio(gemini) {
		t.Error("gemini should accept audio")
	}
	if !AcceptsAudio(WithRetry(gemini, DefaultConfig().Retry)) {
		t.Error("retry wrapper should forward audio capability")
	}
	if AcceptsAudio(&OpenAIProvider{model: "gpt-4o"}) {
		t.Error("openai should not accept audio")
	}
	if AcceptsAudio(NewMockProvider()) {
		t.Error("mock accepts audio only when asked to")
	}
}
