package google

import (
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/troupe-dev/troupe"
)

var errEmptyStream = errors.New("stream returned no data")

// BlockedError indicates the request was rejected by content filtering.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("request blocked: %s", e.Reason)
}

// wrapError converts a GenAI SDK failure into a *troupe.ModelError. API
// errors carry their HTTP status; the SDK does not expose response headers,
// so no Retry-After hint is available. Everything else (network failures,
// blocked prompts) is wrapped without a status.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return &troupe.ModelError{Provider: troupe.ProviderGoogle, Err: err}
	}

	return &troupe.ModelError{
		Provider: troupe.ProviderGoogle,
		Status:   apiErr.Code,
		Err:      err,
	}
}
