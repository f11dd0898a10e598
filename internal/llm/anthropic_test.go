package llm

import (
	"context"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

func claudeMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 12},
	}
}

func claudeError(kind string) map[string]any {
	return map[string]any{"type": "error", "error": map[string]any{"type": kind, "message": kind}}
}

func newFakeAnthropic(t *testing.T, api *fakeAPI) *AnthropicProvider {
	t.Helper()
	p, err := NewAnthropicProvider(Config{APIKey: "sk-ant", BaseURL: api.start(t)})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func TestAnthropicProvider_Generate(t *testing.T) {
	api := &fakeAPI{body: claudeMessage(`{"score":72}`, "end_turn")}
	p := newFakeAnthropic(t, api)

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are an English examiner.",
		Messages:  userTurn("Score this response."),
		Schema:    scoreSchema,
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(resp.Content) != `{"score":72}` || resp.StopReason != StopEnd || resp.Usage.InputTokens != 50 {
		t.Errorf("resp = %s %s %+v", resp.Content, resp.StopReason, resp.Usage)
	}
	if api.last["model"] != "claude-haiku-4-5-20251001" {
		t.Errorf("sent model %v", api.last["model"])
	}
	if api.last["system"] == nil {
		t.Error("system prompt not sent")
	}
}

func TestAnthropicProvider_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		want   string
	}{
		{"rate limited", 429, claudeError("rate_limit_error"), "rate-limit"},
		{"bad key", 401, claudeError("authentication_error"), "auth"},
		{"forbidden", 403, claudeError("permission_error"), "auth"},
		{"overloaded", 529, claudeError("overloaded_error"), "unavailable"},
		{"truncated", 200, claudeMessage(`{"score":7`, "max_tokens"), "max-tokens"},
		{"off schema", 200, claudeMessage(`{"grade":"B"}`, "end_turn"), "invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{status: tt.status, body: tt.body}
			// The SDK retries 429 and 5xx on its own unless told not to.
			client := anthropic.NewClient(
				option.WithAPIKey("sk-ant"),
				option.WithBaseURL(api.start(t)),
				option.WithMaxRetries(0),
			)
			p := &AnthropicProvider{client: &client, model: "claude-haiku-4-5-20251001"}
			_, err := p.Generate(context.Background(), Request{Messages: userTurn("test"), Schema: scoreSchema, MaxTokens: 16})
			if got := errorKind(err); got != tt.want {
				t.Errorf("error = %s (%v), want %s", got, err, tt.want)
			}
		})
	}
}

func TestAnthropicMessages_MergesSameRole(t *testing.T) {
	msgs := anthropicMessages([]Message{
		{Role: RoleUser, Content: "Task."},
		{Role: RoleUser, Content: "Response."},
		{Role: RoleAssistant, Content: "ok"},
	})
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if len(msgs[0].Content) != 2 {
		t.Errorf("first message has %d blocks, want 2", len(msgs[0].Content))
	}
	if msgs[1].Role != anthropic.MessageParamRoleAssistant {
		t.Errorf("second role = %s", msgs[1].Role)
	}
}

func TestNewAnthropicProvider(t *testing.T) {
	p, err := NewAnthropicProvider(Config{APIKey: "sk-ant", Model: "claude-sonnet"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if p.ModelID() != "claude-sonnet-4-20250514" {
		t.Errorf("alias not expanded: %q", p.ModelID())
	}
	if _, err := NewAnthropicProvider(Config{}); err == nil {
		t.Error("expected error without key")
	}
}
