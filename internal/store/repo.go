package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	After   int64  // sequence > After
	Purpose string // exact purpose match, empty = any
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// RecognitionEventData captures one recognition job outcome.
type RecognitionEventData struct {
	Provider     string
	ContentHash  string
	MimeType     string
	Status       string
	PageCount    int
	Cached       bool
	LatencyMs    int64
	ErrorMessage string
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendRecognition records a recognition job outcome.
	AppendRecognition(ctx context.Context, data RecognitionEventData) error
}

// NopEventRepo discards every event. It backs runs without a database.
type NopEventRepo struct{}

func (NopEventRepo) AppendLLMRequest(context.Context, LLMRequestEventData) error   { return nil }
func (NopEventRepo) AppendRecognition(context.Context, RecognitionEventData) error { return nil }
