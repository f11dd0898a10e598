package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/langdrill/internal/logger"
	"github.com/abhisek/langdrill/internal/store"
)

// NewProvider builds the provider named by a resolved cfg, wrapped in
// retry. With a non-nil repo every attempt is also logged as an event.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo, log *logger.Logger) (Provider, error) {
	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg)
	case "openai", "openrouter":
		base, err = NewOpenAIProvider(cfg)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if repo != nil {
		base = WithLogging(base, cfg.Provider, repo, log)
	}
	return WithRetry(base, cfg.Retry), nil
}
