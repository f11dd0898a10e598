// Package llm talks to hosted language models. One Provider interface
// fronts Gemini, OpenAI, OpenRouter and Anthropic; decorators add retry
// and per-request event logging.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates structured JSON from a prompt.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is
	// set the output has been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	ModelID() string
}

// Request is a single generation call.
type Request struct {
	System   string
	Messages []Message

	// Schema asks for structured output using the provider's native
	// mechanism. Without it Content is the raw text.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

func (r Request) hasAudio() bool {
	for _, m := range r.Messages {
		if m.Audio != nil {
			return true
		}
	}
	return false
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string

	// Audio is an optional recording sent alongside Content. Providers that
	// cannot take it fail with ErrUnsupportedInput.
	Audio *Audio
}

// Audio is an inline audio attachment.
type Audio struct {
	Data     []byte
	MIMEType string
}

// AudioCapable is implemented by providers, and the decorators around
// them, that can take audio input.
type AudioCapable interface {
	AcceptsAudio() bool
}

// AcceptsAudio reports whether p can be sent a Message with Audio.
func AcceptsAudio(p Provider) bool {
	a, ok := p.(AudioCapable)
	return ok && a.AcceptsAudio()
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema for structured output.
type Schema struct {
	// Name is kebab-case, e.g. "response-evaluation". OpenAI uses it as
	// the schema name and it keys the compiled-schema cache.
	Name        string
	Description string
	Definition  map[string]any
}

// StopReason is why generation ended, normalized across providers.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Response is a provider's answer.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason StopReason
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// finish is the common tail of every provider: truncated structured output
// is an error, and the rest is checked against the schema.
func finish(req Request, resp *Response) (*Response, error) {
	if req.Schema == nil {
		return resp, nil
	}
	if resp.StopReason == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: resp.Content}
	}
	if err := validateResponse(req.Schema, resp.Content); err != nil {
		return nil, err
	}
	return resp, nil
}
