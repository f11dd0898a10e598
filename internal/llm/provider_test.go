package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestMockProvider(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"score":1}`), Usage: Usage{InputTokens: 10}},
		MockResponse{Err: &ErrRateLimit{}},
		MockResponse{Content: json.RawMessage(`{"score":2}`), Stop: StopMaxTokens},
	)
	ctx := context.Background()

	resp, err := mock.Generate(ctx, Request{System: "sys", Messages: userTurn("first")})
	if err != nil || string(resp.Content) != `{"score":1}` || resp.StopReason != StopEnd || resp.Usage.InputTokens != 10 {
		t.Fatalf("first = %+v, %v", resp, err)
	}
	if _, err := mock.Generate(ctx, Request{}); errorKind(err) != "rate-limit" {
		t.Fatalf("second: %v", err)
	}
	if _, err := mock.Generate(ctx, Request{Schema: scoreSchema}); errorKind(err) != "max-tokens" {
		t.Fatalf("third: %v", err)
	}
	if _, err := mock.Generate(ctx, Request{}); errorKind(err) != "unavailable" {
		t.Fatalf("exhausted script: %v", err)
	}

	if mock.CallCount() != 4 || mock.Calls[0].System != "sys" {
		t.Errorf("calls = %d, first system %q", mock.CallCount(), mock.Calls[0].System)
	}
	if mock.ModelID() != "mock" {
		t.Errorf("model = %q", mock.ModelID())
	}
	mock.AddResponse(MockResponse{Content: json.RawMessage(`{}`)})
	if _, err := mock.Generate(ctx, Request{}); err != nil {
		t.Errorf("added response: %v", err)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != PurposeUnknown {
		t.Fatalf("expected unknown, got %q", p)
	}

	ctx = WithPurpose(ctx, PurposeResponseEval)
	if p := PurposeFrom(ctx); p != "response-eval" {
		t.Fatalf("expected 'response-eval', got %q", p)
	}
}

func TestFinish(t *testing.T) {
	schema := &Schema{Name: "finish-test", Definition: map[string]any{
		"type":     "object",
		"required": []any{"score"},
	}}

	if _, err := finish(Request{}, &Response{Content: json.RawMessage(`not json`)}); err != nil {
		t.Errorf("schemaless responses pass through, got %v", err)
	}

	_, err := finish(Request{Schema: schema}, &Response{Content: json.RawMessage(`{"score":`), StopReason: StopMaxTokens})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Errorf("expected ErrMaxTokensExceeded, got %v", err)
	}

	_, err = finish(Request{Schema: schema}, &Response{Content: json.RawMessage(`{}`)})
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Errorf("expected ErrInvalidResponse, got %v", err)
	}

	if _, err := finish(Request{Schema: schema}, &Response{Content: json.RawMessage(`{"score":3}`)}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClassify(t *testing.T) {
	cause := errors.New("boom")
	for status, want := range map[int]string{
		429: "rate-limit",
		401: "auth",
		403: "auth",
		503: "unavailable",
		0:   "unavailable",
	} {
		err := classify(status, cause)
		if got := errorKind(err); got != want {
			t.Errorf("classify(%d) = %s, want %s", status, got, want)
		}
		if !errors.Is(err, cause) {
			t.Errorf("classify(%d) lost the cause", status)
		}
	}
}

func TestSerializeRequest_SummarizesAudio(t *testing.T) {
	out := serializeRequest(Request{
		System: "Examiner.",
		Messages: []Message{{
			Role:    RoleUser,
			Content: "Score the recording.",
			Audio:   &Audio{Data: make([]byte, 2048), MIMEType: "audio/wav"},
		}},
	})
	for _, want := range []string{"[system]\nExaminer.", "[user]\nScore the recording.", "[audio: audio/wav, 2048 bytes]"} {
		if !strings.Contains(out, want) {
			t.Errorf("serialized request missing %q:\n%s", want, out)
		}
	}
}
