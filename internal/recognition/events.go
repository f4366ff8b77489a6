package recognition

import (
	"context"
	"time"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/logger"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/store"
)

// RecordingRecognizer appends one recognition event per call.
type RecordingRecognizer struct {
	inner     Recognizer
	name      string
	eventRepo store.EventRepo
	log       *logger.Logger
}

// WithEvents wraps r so each job outcome is written to repo.
func WithEvents(r Recognizer, name string, repo store.EventRepo, log *logger.Logger) *RecordingRecognizer {
	if repo == nil {
		repo = store.NopEventRepo{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RecordingRecognizer{inner: r, name: name, eventRepo: repo, log: log}
}

// Close releases the wrapped recognizer's connection, if any.
func (r *RecordingRecognizer) Close() error { return closeInner(r.inner) }

func (r *RecordingRecognizer) Recognize(ctx context.Context, mimeType string, data []byte) (*Job, error) {
	start := time.Now()
	job, err := r.inner.Recognize(ctx, mimeType, data)
	latency := time.Since(start).Milliseconds()

	ev := store.RecognitionEventData{
		Provider:  r.name,
		MimeType:  mimeType,
		LatencyMs: latency,
	}
	if job != nil {
		ev.ContentHash = job.ContentHash
		ev.Status = string(job.Status)
		ev.PageCount = job.PageCount
		ev.Cached = job.Cached
	} else {
		ev.ContentHash = ContentHash(mimeType, data)
	}

	if err != nil {
		if ev.Status == "" {
			ev.Status = string(StatusFailed)
		}
		ev.ErrorMessage = err.Error()
		r.log.Warn("recognition failed",
			"provider", r.name,
			"mime_type", mimeType,
			"bytes", len(data),
			"latency_ms", latency,
			"error", err,
		)
	} else {
		r.log.Debug("recognition complete",
			"provider", r.name,
			"pages", ev.PageCount,
			"cached", ev.Cached,
			"latency_ms", latency,
		)
	}

	if appendErr := r.eventRepo.AppendRecognition(context.WithoutCancel(ctx), ev); appendErr != nil {
		r.log.Warn("recognition event not recorded", "error", appendErr)
	}
	return job, err
}
