package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Retry error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryLinearBackoff(t *testing.T) {
	step := 10 * time.Millisecond
	calls := 0
	start := time.Now()
	_ = Retry(context.Background(), 3, step, func() error {
		calls++
		return errors.New("transient")
	})
	elapsed := time.Since(start)

	// Two sleeps: 1*step after attempt 1, 2*step after attempt 2.
	if want := 3 * step; elapsed < want {
		t.Errorf("expected at least %v of backoff, got %v", want, elapsed)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryNonRetryableShortCircuits(t *testing.T) {
	calls := 0
	terminal := &NonRetryableError{Err: errors.New("invalid key")}
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return terminal
	})
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	var nre *NonRetryableError
	if !errors.As(err, &nre) {
		t.Errorf("expected NonRetryableError, got %v", err)
	}
}

func TestRetryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, 3, time.Minute, func() error {
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
