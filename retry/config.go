// Package retry provides bounded retry with exponential backoff for
// transient failures.
package retry

import (
	"math"
	"math/rand"
	"time"
)

// Config holds retry policy parameters.
type Config struct {
	// MaxRetries is the number of retries after the initial attempt.
	// Zero disables retries; 2 means three invocations in total.
	MaxRetries int

	// Delay is the base delay before the first retry (default: 1s).
	Delay time.Duration

	// Backoff doubles the delay on every further retry.
	Backoff bool

	// MaxDelay caps the delay between retries. Zero means no cap.
	MaxDelay time.Duration

	// Jitter adds randomness to spread out synchronized retries
	// (0.1 = up to ±10%). Zero keeps delays exact.
	Jitter float64

	// Classify decides whether a failure is worth another attempt.
	// Nil defaults to IsTransient.
	Classify func(error) bool
}

// DefaultConfig returns the policy tools start with:
// two retries, one second apart, doubling.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 2,
		Delay:      time.Second,
		Backoff:    true,
		MaxDelay:   60 * time.Second,
	}
}

// Disabled returns a policy with retries turned off (single attempt).
func Disabled() Config {
	return Config{}
}

// DelayFor calculates the delay after a given failed attempt (0-indexed).
// With Backoff the delay is Delay * 2^attempt, capped at MaxDelay.
func (c Config) DelayFor(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(c.Delay)
	if c.Backoff {
		delay *= math.Pow(2, float64(attempt))
	}
	if c.MaxDelay > 0 && delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}

	// Jitter multiplies by a random factor in [1-j, 1+j].
	if c.Jitter > 0 {
		delay *= 1 + (rand.Float64()*2-1)*c.Jitter
	}

	return time.Duration(delay)
}
