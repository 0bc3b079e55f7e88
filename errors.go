package troupe

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyInput is returned when a required input slice is empty.
var ErrEmptyInput = errors.New("empty input")

// RetryableError is implemented by errors that know whether the failed
// operation may be attempted again. Validation and routing failures are
// final; timeouts and tool execution failures are transient.
type RetryableError interface {
	error
	Retryable() bool
}

// IsRetryable reports whether err (or any error it wraps) may be retried.
// Errors that do not implement RetryableError are treated as final.
func IsRetryable(err error) bool {
	var re RetryableError
	if errors.As(err, &re) {
		return re.Retryable()
	}
	return false
}

// ValidationError indicates tool arguments that failed schema validation:
// a missing required parameter or a type mismatch. Validation failures are
// never retried; the same arguments would fail the same way.
type ValidationError struct {
	Tool   string // tool name, empty if not known at the failure site
	Field  string // offending parameter, empty for document-level failures
	Reason string
}

// Error returns a formatted message naming the tool and field when known.
func (e *ValidationError) Error() string {
	switch {
	case e.Tool != "" && e.Field != "":
		return fmt.Sprintf("validation failed for %s.%s: %s", e.Tool, e.Field, e.Reason)
	case e.Field != "":
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
	case e.Tool != "":
		return fmt.Sprintf("validation failed for %s: %s", e.Tool, e.Reason)
	default:
		return "validation failed: " + e.Reason
	}
}

// Retryable always returns false for validation failures.
func (e *ValidationError) Retryable() bool { return false }

// TimeoutError indicates an operation exceeded its time bound.
// Retryable per the owning tool's policy.
type TimeoutError struct {
	Op    string // what timed out, e.g. a tool or provider name
	Limit time.Duration
}

// Error returns a formatted message including the exceeded limit.
func (e *TimeoutError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s timed out after %s", e.Op, e.Limit)
	}
	return fmt.Sprintf("operation timed out after %s", e.Limit)
}

// Retryable always returns true for timeouts.
func (e *TimeoutError) Retryable() bool { return true }

// ToolExecutionError wraps a failure raised by a tool's underlying operation.
// Retryable per the owning tool's policy.
type ToolExecutionError struct {
	Tool string
	Err  error
}

// Error returns a formatted message including the tool name and cause.
func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s execution failed: %v", e.Tool, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ToolExecutionError) Unwrap() error { return e.Err }

// Retryable always returns true for execution failures.
func (e *ToolExecutionError) Retryable() bool { return true }

// RoutingError indicates a router selected an agent name absent from the
// pool's registry. This is a configuration error, not a transient condition:
// it aborts the whole run and is never retried.
type RoutingError struct {
	Agent string
}

// Error identifies the unknown agent name.
func (e *RoutingError) Error() string {
	return fmt.Sprintf("routing failed: unknown agent %q", e.Agent)
}

// Retryable always returns false for routing failures.
func (e *RoutingError) Retryable() bool { return false }

// ModelError wraps an opaque provider failure from a chat or embedding call.
// The orchestration core does not retry model calls; wrap a provider with
// the retry package to opt in.
type ModelError struct {
	Provider Provider // empty when the provider is not known
	// Status is the HTTP status returned by the provider API, 0 when the
	// failure never reached the API (network errors, cancellation).
	Status int
	// RetryAfter is the backoff the provider requested on a rate limit,
	// 0 when absent.
	RetryAfter time.Duration
	Err        error
}

// Error returns a formatted message including the provider when known.
func (e *ModelError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("model call failed (%s): %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("model call failed: %v", e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ModelError) Unwrap() error { return e.Err }

// Retryable reports whether the provider failure is transient. Rate limits
// and server errors are; otherwise the wrapped error carries the verdict,
// and an opaque failure is treated as final.
func (e *ModelError) Retryable() bool {
	if e.Status == 429 || (e.Status >= 500 && e.Status < 600) {
		return true
	}
	return IsRetryable(e.Err)
}
