package retry

import (
	"errors"
	"net"
	"net/url"
	"strconv"
	"strings"
	"syscall"

	"github.com/troupe-dev/troupe"
)

// statusCoder is implemented by provider SDK errors that carry an HTTP
// status code. Both the Anthropic and OpenAI SDKs expose it.
type statusCoder interface {
	StatusCode() int
}

// IsTransient reports whether an error looks like a passing condition worth
// retrying. Errors implementing troupe.RetryableError carry their own
// verdict; for everything else it falls back to heuristics:
//   - rate limits (HTTP 429)
//   - server errors (HTTP 5xx)
//   - network timeouts, connection resets, DNS failures
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var re troupe.RetryableError
	if errors.As(err, &re) {
		if re.Retryable() {
			return true
		}
		// A model error wrapping an opaque SDK failure answers false for
		// lack of an explicit signal; the heuristics below still get a
		// look at the wrapped error. Validation and routing failures are
		// genuinely final.
		var me *troupe.ModelError
		if !errors.As(err, &me) {
			return false
		}
	}

	var sc statusCoder
	if errors.As(err, &sc) && isTransientStatusCode(sc.StatusCode()) {
		return true
	}

	// Google's genai errors format the status into the message rather than
	// exposing a StatusCode method.
	if code := googleAPIErrorCode(err); code > 0 && isTransientStatusCode(code) {
		return true
	}

	return isTransientNetworkError(err)
}

// UnlessFinal retries any failure except one that explicitly declares
// itself final. Tool handlers use this policy: a handler error is assumed
// worth another attempt unless validation or routing already ruled it out.
func UnlessFinal(err error) bool {
	if err == nil {
		return false
	}
	var re troupe.RetryableError
	if errors.As(err, &re) {
		return re.Retryable()
	}
	return true
}

// isTransientStatusCode checks if an HTTP status code indicates a transient
// condition.
func isTransientStatusCode(code int) bool {
	if code == 429 {
		return true
	}
	return code >= 500 && code < 600
}

// googleAPIErrorCode extracts a status code from a Google API error message
// of the form "googleapi: Error 429: ...". Returns 0 when absent.
func googleAPIErrorCode(err error) int {
	msg := err.Error()
	if !strings.Contains(msg, "googleapi:") {
		return 0
	}
	for _, code := range []int{429, 500, 502, 503, 504} {
		if strings.Contains(msg, "Error "+strconv.Itoa(code)) {
			return code
		}
	}
	return 0
}

// isTransientNetworkError checks for network-level transient errors.
func isTransientNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		if urlErr.Err != nil && isTransientNetworkError(urlErr.Err) {
			return true
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary()
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET,
			syscall.ECONNREFUSED,
			syscall.ETIMEDOUT:
			return true
		}
	}

	// Message-pattern fallback for errors that lost their type on the way.
	msg := strings.ToLower(err.Error())
	patterns := []string{
		"connection reset",
		"connection refused",
		"timeout",
		"temporary failure",
		"service unavailable",
		"too many requests",
		"rate limit",
		"server error",
		"bad gateway",
		"gateway timeout",
	}
	for _, pattern := range patterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}

	return false
}
