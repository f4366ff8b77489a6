package recognition

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/cache"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/logger"
)

const cacheKeyPrefix = "recognition:"

// CachedRecognizer serves repeated payloads from a cache keyed by
// ContentHash. Successful results are normalized before they are stored.
type CachedRecognizer struct {
	inner Recognizer
	cache cache.Cache
	ttl   time.Duration
	log   *logger.Logger
}

// WithCache wraps r so identical uploads within ttl are not re-submitted.
func WithCache(r Recognizer, c cache.Cache, ttl time.Duration, log *logger.Logger) *CachedRecognizer {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CachedRecognizer{inner: r, cache: c, ttl: ttl, log: log}
}

// Close releases the wrapped recognizer's connection, if any.
func (c *CachedRecognizer) Close() error { return closeInner(c.inner) }

type cachedJob struct {
	Text     string `json:"text"`
	Pages    int    `json:"pages"`
	Provider string `json:"provider"`
}

func (c *CachedRecognizer) Recognize(ctx context.Context, mimeType string, data []byte) (*Job, error) {
	hash := ContentHash(mimeType, data)
	key := cacheKeyPrefix + hash

	if raw, ok, err := c.cache.Get(ctx, key); err != nil {
		c.log.Warn("recognition cache read failed", "hash", hash, "error", err)
	} else if ok {
		var cj cachedJob
		if err := json.Unmarshal([]byte(raw), &cj); err == nil {
			return &Job{
				ContentHash: hash,
				Status:      StatusSucceeded,
				ResultText:  cj.Text,
				PageCount:   cj.Pages,
				Cached:      true,
				Provider:    cj.Provider,
			}, nil
		}
	}

	job, err := c.inner.Recognize(ctx, mimeType, data)
	if err != nil {
		return job, err
	}
	job.ContentHash = hash
	job.ResultText = Normalize(job.ResultText)

	raw, err := json.Marshal(cachedJob{Text: job.ResultText, Pages: job.PageCount, Provider: job.Provider})
	if err == nil {
		err = c.cache.Set(context.WithoutCancel(ctx), key, string(raw), c.ttl)
	}
	if err != nil {
		c.log.Warn("recognition cache write failed", "hash", hash, "error", err)
	}
	return job, nil
}
