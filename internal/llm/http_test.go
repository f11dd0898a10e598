package llm

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeAPI answers every request with status and body, and keeps the last
// request body for inspection.
type fakeAPI struct {
	status int
	body   any
	last   map[string]any
	hits   int
}

func (f *fakeAPI) start(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits++
		raw, _ := io.ReadAll(r.Body)
		f.last = nil
		_ = json.Unmarshal(raw, &f.last)

		w.Header().Set("Content-Type", "application/json")
		if f.status != 0 {
			w.WriteHeader(f.status)
		}
		_ = json.NewEncoder(w).Encode(f.body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

// errorKind names the typed error err carries, for table assertions.
func errorKind(err error) string {
	var (
		rl    *ErrRateLimit
		auth  *ErrAuth
		down  *ErrProviderUnavailable
		trunc *ErrMaxTokensExceeded
		inval *ErrInvalidResponse
		unsup *ErrUnsupportedInput
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &rl):
		return "rate-limit"
	case errors.As(err, &auth):
		return "auth"
	case errors.As(err, &down):
		return "unavailable"
	case errors.As(err, &trunc):
		return "max-tokens"
	case errors.As(err, &inval):
		return "invalid"
	case errors.As(err, &unsup):
		return "unsupported"
	}
	return "other: " + err.Error()
}

var scoreSchema = &Schema{
	Name: "test-score",
	Definition: map[string]any{
		"type":       "object",
		"properties": map[string]any{"score": map[string]any{"type": "integer"}},
		"required":   []string{"score"},
	},
}

func userTurn(text string) []Message {
	return []Message{{Role: RoleUser, Content: text}}
}
