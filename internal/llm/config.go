package llm

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoProvider is returned by Resolve when neither a provider nor any
// standard vendor key is available.
var ErrNoProvider = errors.New("no LLM provider configured; set llm.provider and llm.api_key, " +
	"or one of GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY")

// Config selects and authenticates one provider.
type Config struct {
	// Provider is gemini, openai, anthropic, openrouter or mock. Empty
	// means discover from the environment.
	Provider string
	Model    string
	APIKey   string

	// BaseURL overrides the API endpoint of OpenAI-compatible providers.
	BaseURL string

	Retry RetryConfig
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64

	// Timeout bounds one Generate call, retries included. Zero leaves the
	// caller's deadline alone.
	Timeout time.Duration
}

// DefaultConfig returns the retry policy with no provider selected.
func DefaultConfig() Config {
	return Config{
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
			Timeout:     time.Minute,
		},
	}
}

// Resolve fills in what c leaves empty. A blank Provider picks the first
// vendor whose standard key variable is set, a blank APIKey is read from
// the vendor's variable, and model aliases are expanded. lookup is usually
// os.Getenv.
func (c Config) Resolve(lookup func(string) string) (Config, error) {
	if c.Provider == "mock" {
		return c, nil
	}

	if c.Provider == "" {
		if c.APIKey != "" {
			return c, errors.New("llm.api_key is set without llm.provider")
		}
		for _, v := range vendors {
			if key := lookup(v.keyEnv); key != "" {
				c.Provider, c.APIKey = v.name, key
				break
			}
		}
		if c.Provider == "" {
			return c, ErrNoProvider
		}
	}

	v, ok := lookupVendor(c.Provider)
	if !ok {
		return c, fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.APIKey == "" {
		c.APIKey = lookup(v.keyEnv)
	}
	if c.APIKey == "" {
		return c, fmt.Errorf("the %s provider needs llm.api_key or %s", v.name, v.keyEnv)
	}
	c.Model = v.model(c.Model)
	if c.BaseURL == "" {
		c.BaseURL = v.baseURL
	}
	return c, nil
}
