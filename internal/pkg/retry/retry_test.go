package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

// TestWithRetrySucceedsAfterFailures verifies the backoff loop retries
// until the operation succeeds.
func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}
	err := WithRetry(context.Background(), zap.NewNop(), "op", op, 5, time.Millisecond)
	if err != nil {
		t.Fatalf("WithRetry failed: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

// TestWithRetryExhausted verifies the final error wraps the last cause.
func TestWithRetryExhausted(t *testing.T) {
	cause := errors.New("still down")
	err := WithRetry(context.Background(), zap.NewNop(), "op", func() error {
		return cause
	}, 3, time.Millisecond)
	if err == nil {
		t.Fatalf("expected an error after exhausting retries")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("error does not wrap the cause: %v", err)
	}
}

// TestWithRetryStopsOnCancellation verifies cancellation errors are not
// retried.
func TestWithRetryStopsOnCancellation(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), zap.NewNop(), "op", func() error {
		attempts++
		return context.Canceled
	}, 5, time.Millisecond)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
}
