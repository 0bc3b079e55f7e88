package retry

import (
	"context"
	"errors"
	"time"

	"github.com/troupe-dev/troupe"
)

// retryAfterHint extracts the provider-requested backoff from a rate-limit
// failure. Zero when the error carries none.
func retryAfterHint(err error) time.Duration {
	var me *troupe.ModelError
	if errors.As(err, &me) {
		return me.RetryAfter
	}
	return 0
}

// effectiveDelay honors a server's Retry-After when it exceeds the
// configured backoff.
func effectiveDelay(configured time.Duration, err error) time.Duration {
	if server := retryAfterHint(err); server > configured {
		return server
	}
	return configured
}

// Do executes fn under the given policy. Failures go through cfg.Classify
// (IsTransient when unset); a final failure returns immediately, otherwise
// Do sleeps cfg.DelayFor and tries again until the attempts run out.
// The backoff wait respects context cancellation.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	classify := cfg.Classify
	if classify == nil {
		classify = IsTransient
	}

	attempts := cfg.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !classify(err) {
			return zero, err
		}

		// Don't sleep after the last attempt
		if attempt < attempts-1 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(effectiveDelay(cfg.DelayFor(attempt), err)):
			}
		}
	}

	return zero, lastErr
}

// DoStream is like Do but for functions that return a channel.
// It retries the stream connection establishment, not individual chunks.
func DoStream[T any](ctx context.Context, cfg Config, fn func() (<-chan T, error)) (<-chan T, error) {
	var lastErr error

	classify := cfg.Classify
	if classify == nil {
		classify = IsTransient
	}

	attempts := cfg.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		ch, err := fn()
		if err == nil {
			return ch, nil
		}

		lastErr = err

		if !classify(err) {
			return nil, err
		}

		if attempt < attempts-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(effectiveDelay(cfg.DelayFor(attempt), err)):
			}
		}
	}

	return nil, lastErr
}
