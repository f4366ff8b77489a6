package llm

import (
	"context"
	"fmt"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/logger"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/store"
)

// NewProvider creates a Provider from configuration.
// Each configured provider is wrapped with logging; fallbacks are chained
// in order and the whole chain is bounded by cfg.Timeout.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (Provider, error) {
	names := append([]string{cfg.Provider}, cfg.Fallback...)

	chain := make([]Provider, 0, len(names))
	for _, name := range names {
		base, err := newBaseProvider(ctx, name, cfg)
		if err != nil {
			return nil, fmt.Errorf("initializing %s provider: %w", name, err)
		}
		chain = append(chain, WithLogging(base, name, eventRepo, log))
	}

	// caller → timeout → fallback → logging → base
	return WithTimeout(WithFallback(chain[0], chain[1:]...), cfg.Timeout), nil
}

func newBaseProvider(ctx context.Context, name string, cfg Config) (Provider, error) {
	switch name {
	case "azure":
		return NewAzureProvider(cfg.Azure)
	case "openai":
		return NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		return NewAnthropicProvider(cfg.Anthropic)
	case "gemini":
		return NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		return NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, &ErrConfiguration{Field: "provider", Err: fmt.Errorf("unknown LLM provider: %q", name)}
	}
}
