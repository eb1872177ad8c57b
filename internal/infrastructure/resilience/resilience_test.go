package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hugohenrick/nexum-erp/internal/infrastructure/resilience"
	"github.com/sony/gobreaker"
)

var errBoom = errors.New("boom")

func TestRetryWithBackoff_SucceedsAfterRetry(t *testing.T) {
	calls := 0
	err := resilience.RetryWithBackoff(context.Background(),
		resilience.Config{MaxRetries: 2, InitialBackoff: time.Millisecond}, nil,
		func() error {
			calls++
			if calls < 2 {
				return errBoom
			}
			return nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestRetryWithBackoff_StopsOnNonRetryable(t *testing.T) {
	calls := 0
	err := resilience.RetryWithBackoff(context.Background(),
		resilience.Config{MaxRetries: 3, InitialBackoff: time.Millisecond},
		func(error) bool { return false },
		func() error {
			calls++
			return errBoom
		})
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single call, got %d", calls)
	}
}

func TestRetryWithBackoff_RespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := resilience.RetryWithBackoff(ctx, resilience.Config{MaxRetries: 3}, nil, func() error {
		t.Fatal("fn must not run with a cancelled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewCircuitBreaker_OpensAfterFailures(t *testing.T) {
	cb := resilience.NewCircuitBreaker("test")
	for i := 0; i < 5; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, errBoom })
	}
	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", cb.State())
	}
	_, err := cb.Execute(func() (interface{}, error) { return nil, nil })
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
}
