package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted answer. Err, when set, is returned instead.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Stop    StopReason
	Err     error
}

// MockProvider replays scripted responses in order and records requests.
// Responses go through the same schema check as real providers.
type MockProvider struct {
	mu     sync.Mutex
	script []MockResponse
	Calls  []Request

	// Audio makes the mock report audio input support.
	Audio bool
}

func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

// Generate returns ErrProviderUnavailable once the script runs out.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if req.hasAudio() && !m.Audio {
		return nil, &ErrUnsupportedInput{Provider: "mock", Input: "audio"}
	}
	if len(m.script) == 0 {
		return nil, &ErrProviderUnavailable{}
	}

	next := m.script[0]
	m.script = m.script[1:]
	if next.Err != nil {
		return nil, next.Err
	}

	stop := next.Stop
	if stop == "" {
		stop = StopEnd
	}
	return finish(req, &Response{Content: next.Content, Usage: next.Usage, Model: "mock", StopReason: stop})
}

func (m *MockProvider) ModelID() string { return "mock" }

func (m *MockProvider) AcceptsAudio() bool { return m.Audio }

// AddResponse appends to the script.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, resp)
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
