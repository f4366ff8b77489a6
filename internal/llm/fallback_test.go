package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestFallback_FirstSuccessWins(t *testing.T) {
	primary := NewMockProvider(MockResponse{Content: json.RawMessage(`{"from":"primary"}`)})
	secondary := NewMockProvider(MockResponse{Content: json.RawMessage(`{"from":"secondary"}`)})

	p := WithFallback(primary, secondary)
	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"from":"primary"}` {
		t.Fatalf("content = %s", resp.Content)
	}
	if secondary.CallCount() != 0 {
		t.Fatalf("secondary called %d times", secondary.CallCount())
	}
}

func TestFallback_TriesNextOnFailure(t *testing.T) {
	primary := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{StatusCode: 503}})
	secondary := NewMockProvider(MockResponse{Content: json.RawMessage(`{"from":"secondary"}`)})

	p := WithFallback(primary, secondary)
	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"from":"secondary"}` {
		t.Fatalf("content = %s", resp.Content)
	}
	// No repeated attempts against the failing provider.
	if primary.CallCount() != 1 {
		t.Fatalf("primary called %d times, want 1", primary.CallCount())
	}
}

func TestFallback_ReturnsLastError(t *testing.T) {
	primary := NewMockProvider(MockResponse{Err: &ErrRateLimit{}})
	secondary := NewMockProvider(MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad")}})

	_, err := WithFallback(primary, secondary).Generate(context.Background(), Request{})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
}

func TestFallback_StopsOnDeadline(t *testing.T) {
	primary := NewMockProvider(MockResponse{Delay: time.Second})
	secondary := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := WithFallback(primary, secondary).Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if secondary.CallCount() != 0 {
		t.Fatalf("secondary should not be called after the deadline")
	}
}

func TestFallback_SingleProviderUnwrapped(t *testing.T) {
	mock := NewMockProvider()
	if p := WithFallback(mock); p != Provider(mock) {
		t.Fatalf("expected the provider itself, got %T", p)
	}
}

func TestTimeoutProvider(t *testing.T) {
	slow := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`), Delay: time.Second})

	start := time.Now()
	_, err := WithTimeout(slow, 20*time.Millisecond).Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatalf("timeout not applied")
	}
}
