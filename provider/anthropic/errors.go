package anthropic

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/troupe-dev/troupe"
)

// wrapError converts an Anthropic SDK failure into a *troupe.ModelError.
// The status and Retry-After hint from API errors feed the retry package's
// backoff; anything that never reached the API (network failures,
// cancellation) is wrapped bare and left to the retry heuristics.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return &troupe.ModelError{Provider: troupe.ProviderAnthropic, Err: err}
	}

	return &troupe.ModelError{
		Provider:   troupe.ProviderAnthropic,
		Status:     apiErr.StatusCode,
		RetryAfter: retryAfterHeader(apiErr.Response),
		Err:        err,
	}
}

// retryAfterHeader reads the Retry-After header off an API error response:
// either a number of seconds or an HTTP-date. Absent, malformed, or
// already-elapsed values yield 0.
func retryAfterHeader(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		if wait := time.Until(t); wait > 0 {
			return wait
		}
	}
	return 0
}
