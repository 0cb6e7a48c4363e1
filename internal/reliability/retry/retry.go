// Package retry wraps background operations with bounded retries.
// Request-path code never retries; only workers use this.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const initialBackoff = 100 * time.Millisecond

// Do runs fn up to attempts times with doubling backoff. It stops early
// when the context is cancelled.
func Do[T any](ctx context.Context, log *slog.Logger, op string, attempts int, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	backoff := initialBackoff
	for attempt := 1; attempt <= attempts; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		lastErr = err
		if attempt < attempts {
			log.Warn("operation failed, retrying",
				slog.String("operation", op),
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", attempts),
				slog.Duration("backoff", backoff),
				slog.String("error", err.Error()),
			)
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}

	return zero, fmt.Errorf("operation %q failed after %d attempts: %w", op, attempts, lastErr)
}
