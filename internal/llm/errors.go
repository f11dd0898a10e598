package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Provider errors. WithRetry decides from these types whether another
// attempt is worthwhile; evaluators turn them into a notice on the result.
type (
	// ErrRateLimit is an HTTP 429. RetryAfter is zero when the vendor gave
	// no hint.
	ErrRateLimit struct {
		RetryAfter time.Duration
		Err        error
	}

	// ErrAuth is a rejected or missing API key.
	ErrAuth struct{ Err error }

	// ErrInvalidResponse carries a reply that failed schema validation.
	ErrInvalidResponse struct {
		Content json.RawMessage
		Err     error
	}

	// ErrProviderUnavailable covers 5xx answers and transport failures.
	ErrProviderUnavailable struct{ Err error }

	// ErrMaxTokensExceeded means structured output hit the token ceiling
	// and cannot be parsed.
	ErrMaxTokensExceeded struct{ Content json.RawMessage }

	// ErrUnsupportedInput is returned before any request is made, e.g.
	// audio sent to a text-only vendor.
	ErrUnsupportedInput struct {
		Provider string
		Input    string
	}
)

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("llm: rate limited, retry in %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("llm: rate limited: %v", e.Err)
}

func (e *ErrAuth) Error() string {
	return fmt.Sprintf("llm: api key rejected: %v", e.Err)
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("llm: reply does not match schema: %v", e.Err)
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "llm: provider unavailable"
	}
	return "llm: provider unavailable: " + e.Err.Error()
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "llm: reply truncated at max tokens"
}

func (e *ErrUnsupportedInput) Error() string {
	return fmt.Sprintf("llm: %s cannot take %s input", e.Provider, e.Input)
}

func (e *ErrRateLimit) Unwrap() error           { return e.Err }
func (e *ErrAuth) Unwrap() error                { return e.Err }
func (e *ErrInvalidResponse) Unwrap() error     { return e.Err }
func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// classify maps a vendor SDK error with an HTTP status onto the types
// above. Status 0 means no answer arrived.
func classify(status int, err error) error {
	switch status {
	case http.StatusTooManyRequests:
		return &ErrRateLimit{Err: err}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ErrAuth{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
