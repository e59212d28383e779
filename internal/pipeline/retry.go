package pipeline

import (
	"context"
	"time"
)

// withRetry runs fn up to attempts times with a fixed delay between
// attempts, surfacing the last error if every attempt fails. The single-shot
// invoice path retries any failure: a malformed response is as transient as
// a rate limit when the model is asked again.
func withRetry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return lastErr
}
