package source

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithRetryEventualSuccess(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), 3, time.Millisecond, func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithRetryExhausted(t *testing.T) {
	wantErr := errors.New("still down")
	attempts := 0
	err := withRetry(context.Background(), 2, time.Millisecond, func(context.Context) error {
		attempts++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected last error to surface, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected initial attempt plus 2 retries, got %d", attempts)
	}
}

type daemonRejection struct {
	code int
}

func (e daemonRejection) Error() string  { return "method not found" }
func (e daemonRejection) ErrorCode() int { return e.code }

func TestWithRetryDaemonRejectionNotRetried(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), 5, time.Millisecond, func(context.Context) error {
		attempts++
		return daemonRejection{code: -32601}
	})

	var rejected daemonRejection
	if !errors.As(err, &rejected) {
		t.Fatalf("expected the rejection to surface, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("a daemon rejection must not be retried, saw %d attempts", attempts)
	}
}

func TestWithRetryCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withRetry(ctx, 5, time.Hour, func(context.Context) error {
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error between attempts, got %v", err)
	}
}
