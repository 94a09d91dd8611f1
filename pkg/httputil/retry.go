// Package httputil provides HTTP delivery utilities for the streaming client.
//
// [Retry] wraps an operation with bounded retries and linearly increasing
// backoff. Failures are retried by default; wrap terminal failures (invalid
// credentials, malformed requests) in [NonRetryableError] to abort the loop
// immediately. Real-time delivery is best-effort, so callers are expected to
// drop the payload once Retry gives up rather than requeue it.
package httputil

import (
	"context"
	"errors"
	"time"
)

// NonRetryableError wraps an error to indicate it must not trigger a retry.
// Wrap terminal failures (401 responses, invalid payloads) with this type so
// that [Retry] aborts instead of burning the remaining attempts.
type NonRetryableError struct{ Err error }

func (e *NonRetryableError) Error() string { return e.Err.Error() }
func (e *NonRetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times with linearly increasing backoff:
// after the n-th failed attempt (1-based) it sleeps n*step before trying
// again. Errors wrapped with [NonRetryableError] are returned immediately.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled
// during a backoff sleep.
func Retry(ctx context.Context, attempts int, step time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i+1) * step):
			}
		}
	}
	return lastErr
}

func isRetryable(err error) bool {
	return !errors.As(err, new(*NonRetryableError))
}
