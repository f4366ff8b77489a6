package llm

import (
	"context"
	"errors"
	"time"
)

// FallbackProvider is a decorator that tries providers in order and
// returns the first success. There is no backoff and no repeated attempt
// against the same provider.
type FallbackProvider struct {
	providers []Provider
}

// WithFallback chains providers. With a single provider it returns that
// provider unchanged.
func WithFallback(primary Provider, rest ...Provider) Provider {
	if len(rest) == 0 {
		return primary
	}
	return &FallbackProvider{providers: append([]Provider{primary}, rest...)}
}

func (f *FallbackProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	for _, p := range f.providers {
		resp, err := p.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		// The caller's deadline covers the whole chain.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// ModelID returns the primary provider's model.
func (f *FallbackProvider) ModelID() string {
	return f.providers[0].ModelID()
}

// TimeoutProvider bounds every request with a default deadline. A tighter
// deadline already on the context wins.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps a Provider with a per-request deadline. A zero
// timeout returns p unchanged.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: timeout}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
