package source

import (
	"context"
	"errors"
	"time"
)

// rpcError matches the structured error the RPC client returns when the
// daemon received the call and rejected it (unknown method, bad params).
type rpcError interface {
	Error() string
	ErrorCode() int
}

// retryable reports whether another attempt can change the outcome. Daemon
// rejections are final; only transport failures are worth backing off on.
func retryable(err error) bool {
	var rejected rpcError
	return !errors.As(err, &rejected)
}

func withRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	delay := baseDelay
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		if attempt >= maxRetries {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}
