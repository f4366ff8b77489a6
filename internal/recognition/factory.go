package recognition

import (
	"context"
	"fmt"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/cache"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/logger"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/store"
)

// New builds the configured recognizer behind the event recorder and the
// shared cache. A nil cache gets a private in-memory one. The result
// implements io.Closer; closing it releases a Document AI connection.
func New(ctx context.Context, cfg Config, c cache.Cache, repo store.EventRepo, log *logger.Logger) (Recognizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if c == nil {
		c = cache.NewMemory(256)
	}

	var (
		base Recognizer
		name string
	)
	switch cfg.Provider {
	case "", "azure":
		base, name = NewPoller(cfg.Azure, cfg.PollInterval, cfg.MaxWait), "azure"
	case "google":
		g, err := NewGoogleRecognizer(ctx, cfg.Google)
		if err != nil {
			return nil, err
		}
		base, name = g, "google"
	default:
		return nil, fmt.Errorf("unknown recognition provider: %s", cfg.Provider)
	}

	return WithEvents(WithCache(base, c, cfg.CacheTTL, log), name, repo, log), nil
}
