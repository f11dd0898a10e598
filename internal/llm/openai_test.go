package llm

import (
	"context"
	"testing"
)

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "gpt-4o-mini-2024-07-18",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 9, "total_tokens": 49},
	}
}

func apiError(kind string) map[string]any {
	return map[string]any{"error": map[string]any{"type": kind, "message": kind}}
}

func newFakeOpenAI(t *testing.T, api *fakeAPI) *OpenAIProvider {
	t.Helper()
	p, err := NewOpenAIProvider(Config{Provider: "openai", APIKey: "sk-test", BaseURL: api.start(t) + "/v1"})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func TestOpenAIProvider_Generate(t *testing.T) {
	api := &fakeAPI{body: chatCompletion(`{"score":72}`, "stop")}
	p := newFakeOpenAI(t, api)

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are an English examiner.",
		Messages:  userTurn("Score this response."),
		Schema:    scoreSchema,
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(resp.Content) != `{"score":72}` || resp.StopReason != StopEnd {
		t.Errorf("resp = %s, %s", resp.Content, resp.StopReason)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 9 || resp.Model != "gpt-4o-mini-2024-07-18" {
		t.Errorf("usage/model = %+v %s", resp.Usage, resp.Model)
	}

	if api.last["model"] != "gpt-4o-mini" {
		t.Errorf("sent model %v", api.last["model"])
	}
	msgs, _ := api.last["messages"].([]any)
	if len(msgs) != 2 || msgs[0].(map[string]any)["role"] != "system" {
		t.Errorf("sent messages %v", msgs)
	}
	format, _ := api.last["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Errorf("sent response_format %v", format)
	}
}

func TestOpenAIProvider_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		schema *Schema
		want   string
	}{
		{"rate limited", 429, apiError("tokens"), nil, "rate-limit"},
		{"bad key", 401, apiError("invalid_api_key"), nil, "auth"},
		{"server error", 500, apiError("server_error"), nil, "unavailable"},
		{"truncated", 200, chatCompletion(`{"score":`, "length"), scoreSchema, "max-tokens"},
		{"off schema", 200, chatCompletion(`{"grade":"B"}`, "stop"), scoreSchema, "invalid"},
		{"no choices", 200, map[string]any{"id": "x", "choices": []any{}}, nil, "invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newFakeOpenAI(t, &fakeAPI{status: tt.status, body: tt.body})
			_, err := p.Generate(context.Background(), Request{Messages: userTurn("test"), Schema: tt.schema, MaxTokens: 100})
			if got := errorKind(err); got != tt.want {
				t.Errorf("error = %s (%v), want %s", got, err, tt.want)
			}
		})
	}
}

func TestOpenAIProvider_RejectsAudio(t *testing.T) {
	api := &fakeAPI{body: chatCompletion(`{}`, "stop")}
	p := newFakeOpenAI(t, api)
	_, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "Score this.", Audio: &Audio{Data: []byte("RIFF"), MIMEType: "audio/wav"}}},
	})
	if errorKind(err) != "unsupported" {
		t.Fatalf("expected ErrUnsupportedInput, got %v", err)
	}
	if api.hits != 0 {
		t.Error("request should not reach the server")
	}
}

func TestNewOpenAIProvider(t *testing.T) {
	cfg, err := Config{Provider: "openrouter", APIKey: "sk-or"}.Resolve(noEnv)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	p, err := NewOpenAIProvider(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if p.ModelID() != "google/gemini-2.5-flash" || p.name != "openrouter" {
		t.Errorf("openrouter provider = %s %s", p.name, p.ModelID())
	}

	p, _ = NewOpenAIProvider(Config{Provider: "openrouter", APIKey: "sk-or", Model: "meta-llama/llama-3.1-8b-instruct"})
	if p.ModelID() != "meta-llama/llama-3.1-8b-instruct" {
		t.Errorf("unaliased model should pass through, got %q", p.ModelID())
	}
	p, _ = NewOpenAIProvider(Config{APIKey: "sk", Model: "gpt-mini"})
	if p.name != "openai" || p.ModelID() != "gpt-4.1-mini" {
		t.Errorf("default provider = %s %s", p.name, p.ModelID())
	}

	if _, err := NewOpenAIProvider(Config{Provider: "openrouter"}); err == nil {
		t.Error("expected error without key")
	}
}
