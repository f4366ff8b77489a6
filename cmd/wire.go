package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/cache"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/config"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/decode"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/hints"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/llm"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/logger"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/recognition"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/stepgen"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/store"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/synthesis"
)

// wireOptions controls how strictly buildService treats missing settings.
type wireOptions struct {
	// offline skips the oracle and uses local generation only.
	offline bool
	// needRecognizer makes a recognition configuration error fatal.
	needRecognizer bool
}

// buildService assembles the pipeline from cfg. The returned cleanup
// closes the store and any cache connection.
func buildService(ctx context.Context, cfg config.Config, st *store.Store, log *logger.Logger, opts wireOptions) (*decode.Service, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	var repo store.EventRepo = store.NopEventRepo{}
	if st != nil {
		repo = st.EventRepo()
	}

	var provider llm.Provider
	if !opts.offline {
		if err := cfg.LLM.Validate(); err != nil {
			return nil, cleanup, err
		}
		p, err := llm.NewProvider(ctx, cfg.LLM, repo, log)
		if err != nil {
			return nil, cleanup, err
		}
		provider = p
	}

	c, closeCache, err := buildCache(ctx, cfg.Cache)
	if err != nil {
		return nil, cleanup, err
	}
	if closeCache != nil {
		closers = append(closers, closeCache)
	}

	rec, err := recognition.New(ctx, cfg.Recognition, c, repo, log)
	if err != nil {
		var cfgErr *llm.ErrConfiguration
		if opts.needRecognizer || !errors.As(err, &cfgErr) {
			cleanup()
			return nil, func() {}, fmt.Errorf("recognition: %w", err)
		}
		log.Warn("recognition not configured, uploads will be rejected", "error", err)
		rec = nil
	}
	if c, ok := rec.(io.Closer); ok {
		closers = append(closers, c.Close)
	}

	engine := hints.NewEngine().WithLogger(log)
	svc := decode.New(decode.Deps{
		Recognizer:  rec,
		Generator:   stepgen.New(provider, cfg.StepGen, log),
		Hints:       engine,
		Refiner:     hints.NewRefiner(provider, engine, log),
		Synthesizer: synthesis.New(provider, cfg.Synthesis, log),
		Log:         log,
	})
	return svc, cleanup, nil
}

func buildCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, func() error, error) {
	switch cfg.Backend {
	case "redis":
		client, err := cache.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return cache.NewRedis(client, cfg.RedisPrefix), client.Close, nil
	default:
		return cache.NewMemory(cfg.MaxEntries), nil, nil
	}
}
