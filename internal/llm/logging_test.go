package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/logger"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/store"
)

type recordingRepo struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return nil
}

func (r *recordingRepo) AppendRecognition(context.Context, store.RecognitionEventData) error {
	return nil
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"ok":true}`),
		Usage:   Usage{InputTokens: 7, OutputTokens: 3, TotalTokens: 10},
	})
	p := WithLogging(mock, "azure", repo, logger.Nop())

	ctx := WithPurpose(context.Background(), PurposeSteps)
	if _, err := p.Generate(ctx, Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "hi"}}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	e := repo.events[0]
	if e.Provider != "azure" || e.Model != "mock" || e.Purpose != "steps" {
		t.Errorf("event = %+v", e)
	}
	if !e.Success || e.InputTokens != 7 || e.OutputTokens != 3 {
		t.Errorf("event = %+v", e)
	}
	if e.ResponseBody != `{"ok":true}` {
		t.Errorf("response body = %q", e.ResponseBody)
	}
}

func TestLoggingProvider_RecordsFailure(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{Err: errors.New("upstream down")})
	p := WithLogging(mock, "openai", repo, nil)

	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	if repo.events[0].Success || repo.events[0].ErrorMessage != "upstream down" {
		t.Errorf("event = %+v", repo.events[0])
	}
	if repo.events[0].Purpose != "unknown" {
		t.Errorf("purpose = %q", repo.events[0].Purpose)
	}
}

func TestLoggingProvider_WritesToStore(t *testing.T) {
	s, err := store.Open("file:llm_logging_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	p := WithLogging(NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), "mock", s.EventRepo(), nil)
	if _, err := p.Generate(WithPurpose(context.Background(), PurposePitfalls), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 || events[0].Purpose != "pitfalls" {
		t.Fatalf("events = %+v", events)
	}
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"
	p, err := NewProvider(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("ModelID = %q", p.ModelID())
	}
}

func TestNewProvider_UnknownFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"
	cfg.Fallback = []string{"nope"}
	_, err := NewProvider(context.Background(), cfg, nil, nil)
	var cfgErr *ErrConfiguration
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ErrConfiguration, got %T (%v)", err, err)
	}
}
