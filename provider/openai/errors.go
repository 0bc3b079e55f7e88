package openai

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/openai/openai-go"

	"github.com/troupe-dev/troupe"
)

// wrapError converts an OpenAI SDK failure into a *troupe.ModelError.
// API errors carry their HTTP status and any Retry-After hint so the retry
// package can honor server-requested backoff; network failures and
// cancellation are wrapped without a status and left to the retry heuristics.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return &troupe.ModelError{Provider: troupe.ProviderOpenAI, Err: err}
	}

	return &troupe.ModelError{
		Provider:   troupe.ProviderOpenAI,
		Status:     apiErr.StatusCode,
		RetryAfter: retryAfterHeader(apiErr.Response),
		Err:        err,
	}
}

// retryAfterHeader reads the Retry-After header off an API error response.
// The value is either a second count or an HTTP-date; an absent, malformed,
// or already-elapsed value yields 0.
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

	t, err := http.ParseTime(header)
	if err != nil {
		return 0
	}
	if wait := time.Until(t); wait > 0 {
		return wait
	}
	return 0
}
