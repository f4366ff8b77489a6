package recognition

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/cache"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/store"
)

type countingRecognizer struct {
	mu    sync.Mutex
	calls int
	text  string
	err   error
}

func (c *countingRecognizer) Recognize(_ context.Context, mimeType string, data []byte) (*Job, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	job := &Job{ContentHash: ContentHash(mimeType, data), Status: StatusSucceeded, ResultText: c.text, PageCount: 1, Provider: "fake"}
	if c.err != nil {
		job.Status = StatusFailed
		return job, c.err
	}
	return job, nil
}

func TestCachedRecognizer_ServesRepeatsFromCache(t *testing.T) {
	inner := &countingRecognizer{text: "*P72861A0224*\nA ball   is dropped."}
	r := WithCache(inner, cache.NewMemory(8), time.Minute, nil)
	ctx := context.Background()

	first, err := r.Recognize(ctx, "image/png", []byte("same"))
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, "A ball is dropped.", first.ResultText)

	second, err := r.Recognize(ctx, "image/png", []byte("same"))
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.ResultText, second.ResultText)
	assert.Equal(t, first.ContentHash, second.ContentHash)
	assert.Equal(t, "fake", second.Provider)
	assert.Equal(t, 1, inner.calls)

	_, err = r.Recognize(ctx, "image/jpeg", []byte("same"))
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls, "mime type is part of the key")
}

func TestCachedRecognizer_DoesNotCacheFailures(t *testing.T) {
	inner := &countingRecognizer{err: &ErrUpstream{Status: 503}}
	r := WithCache(inner, cache.NewMemory(8), time.Minute, nil)

	for i := 0; i < 2; i++ {
		_, err := r.Recognize(context.Background(), "image/png", []byte("x"))
		var upErr *ErrUpstream
		require.True(t, errors.As(err, &upErr))
	}
	assert.Equal(t, 2, inner.calls)
}

type recordingEvents struct {
	store.NopEventRepo
	mu     sync.Mutex
	events []store.RecognitionEventData
}

func (r *recordingEvents) AppendRecognition(_ context.Context, data store.RecognitionEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return nil
}

func TestWithEvents_RecordsOutcomes(t *testing.T) {
	repo := &recordingEvents{}
	ok := WithEvents(WithCache(&countingRecognizer{text: "hello"}, cache.NewMemory(4), time.Minute, nil), "azure", repo, nil)

	_, err := ok.Recognize(context.Background(), "image/png", []byte("a"))
	require.NoError(t, err)
	_, err = ok.Recognize(context.Background(), "image/png", []byte("a"))
	require.NoError(t, err)

	bad := WithEvents(&countingRecognizer{err: &ErrProtocol{Reason: "no header"}}, "azure", repo, nil)
	_, err = bad.Recognize(context.Background(), "image/png", []byte("b"))
	require.Error(t, err)

	require.Len(t, repo.events, 3)
	assert.Equal(t, "succeeded", repo.events[0].Status)
	assert.False(t, repo.events[0].Cached)
	assert.True(t, repo.events[1].Cached)
	assert.Equal(t, "failed", repo.events[2].Status)
	assert.Contains(t, repo.events[2].ErrorMessage, "no header")
	assert.Equal(t, ContentHash("image/png", []byte("b")), repo.events[2].ContentHash)
}
