package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/log"
	"github.com/troupe-dev/troupe/retry"
	"github.com/troupe-dev/troupe/schema"
)

// OnErrorMode selects what Run does once a tool invocation has failed for
// good (validation failure, or retries exhausted).
type OnErrorMode string

const (
	// ModeReturn folds the failure into a structured Result with
	// Success=false so the model can read the error and recover.
	ModeReturn OnErrorMode = "return_error"
	// ModeRaise propagates the failure as a Go error to the caller.
	ModeRaise OnErrorMode = "raise"
)

// Handler is the function a Tool executes. Args have already been validated
// against the tool's parameter schema and defaults have been filled in.
//
// A handler may return any JSON-serializable value, or a *Result when it
// wants control over the full result shape (status codes, headers, metadata).
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Tool couples a wire-level declaration with a handler and an execution
// policy. The zero value is not usable; construct with New or Func.
type Tool struct {
	// Name is the unique identifier the model calls the tool by.
	Name string
	// Description tells the model what the tool does.
	Description string
	// Parameters is the JSON Schema for the handler's arguments.
	Parameters json.RawMessage
	// Handler executes the tool.
	Handler Handler

	// Timeout bounds each individual attempt. Zero disables the bound.
	Timeout time.Duration
	// MaxRetries is the number of retries after the first failed attempt,
	// so MaxRetries=2 means at most three invocations.
	MaxRetries int
	// RetryDelay is the base delay between attempts.
	RetryDelay time.Duration
	// RetryBackoff doubles the delay after each failed attempt.
	RetryBackoff bool
	// OnError selects how Run surfaces a final failure.
	OnError OnErrorMode
}

// Option configures a Tool at construction.
type Option func(*Tool)

// WithTimeout sets the per-attempt execution bound. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(t *Tool) { t.Timeout = d }
}

// WithMaxRetries sets how many times a failed attempt is retried.
func WithMaxRetries(n int) Option {
	return func(t *Tool) { t.MaxRetries = n }
}

// WithRetryDelay sets the base delay between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(t *Tool) { t.RetryDelay = d }
}

// WithRetryBackoff enables or disables exponential backoff between attempts.
func WithRetryBackoff(enabled bool) Option {
	return func(t *Tool) { t.RetryBackoff = enabled }
}

// WithOnError sets how Run surfaces a final failure.
func WithOnError(mode OnErrorMode) Option {
	return func(t *Tool) { t.OnError = mode }
}

// New creates a Tool with the given declaration and handler. Unset policy
// fields default to a 30s attempt timeout, two retries with 1s backoff, and
// ModeRaise.
func New(name, description string, parameters json.RawMessage, handler Handler, opts ...Option) *Tool {
	t := &Tool{
		Name:         name,
		Description:  description,
		Parameters:   parameters,
		Handler:      handler,
		Timeout:      30 * time.Second,
		MaxRetries:   2,
		RetryDelay:   time.Second,
		RetryBackoff: true,
		OnError:      ModeRaise,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Spec returns the wire-level declaration handed to chat providers.
func (t *Tool) Spec() troupe.Tool {
	return troupe.Tool{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  t.Parameters,
	}
}

// RunOption adjusts a single Run call without touching the tool's policy.
type RunOption func(*runConfig)

type runConfig struct {
	timeout    time.Duration
	hasTimeout bool
}

// WithTimeoutOverride bounds each attempt of this call instead of the
// tool's configured Timeout. Zero disables the bound for this call.
func WithTimeoutOverride(d time.Duration) RunOption {
	return func(c *runConfig) {
		c.timeout = d
		c.hasTimeout = true
	}
}

// Run validates args against the tool's parameter schema, executes the
// handler under the tool's timeout and retry policy, and shapes the outcome.
//
// Validation failures are final: they are never retried and are surfaced
// immediately, subject to OnError. Execution failures are retried up to
// MaxRetries times with the validated args; each attempt gets a fresh
// timeout. Once retries are exhausted, ModeReturn folds the failure into a
// Result with Success=false while ModeRaise returns the error itself.
func (t *Tool) Run(ctx context.Context, args map[string]any, opts ...RunOption) (*Result, error) {
	cfg := runConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	timeout := t.Timeout
	if cfg.hasTimeout {
		timeout = cfg.timeout
	}

	validated, err := schema.Validate(t.Parameters, args)
	if err != nil {
		var verr *troupe.ValidationError
		if errors.As(err, &verr) && verr.Tool == "" {
			verr.Tool = t.Name
		}
		return t.failed(err)
	}

	rcfg := retry.Config{
		MaxRetries: t.MaxRetries,
		Delay:      t.RetryDelay,
		Backoff:    t.RetryBackoff,
		Classify:   retry.UnlessFinal,
	}
	result, err := retry.Do(ctx, rcfg, func() (*Result, error) {
		return t.attempt(ctx, validated, timeout)
	})
	if err != nil {
		// Cancellation means the caller is gone; never fold it into a Result.
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return t.failed(err)
	}
	return result, nil
}

// attempt executes the handler once under a single-attempt timeout. The
// handler runs on its own goroutine so a handler that ignores ctx still
// gets cut off at the deadline.
func (t *Tool) attempt(ctx context.Context, args map[string]any, timeout time.Duration) (*Result, error) {
	actx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type outcome struct {
		value any
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		value, err := t.Handler(actx, args)
		done <- outcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			log.Debugf("tool: %s attempt failed: %v", t.Name, out.err)
			return nil, t.wrap(out.err)
		}
		return resultOf(out.value), nil
	case <-actx.Done():
		err := actx.Err()
		if errors.Is(err, context.DeadlineExceeded) && timeout > 0 {
			log.Debugf("tool: %s timed out after %s", t.Name, timeout)
			return nil, &troupe.TimeoutError{Op: t.Name, Limit: timeout}
		}
		return nil, err
	}
}

// wrap classifies a handler error. Errors already carrying a retryability
// verdict pass through untouched so a nested validation failure stays final;
// everything else becomes a retryable execution failure.
func (t *Tool) wrap(err error) error {
	var re troupe.RetryableError
	if errors.As(err, &re) {
		return err
	}
	return &troupe.ToolExecutionError{Tool: t.Name, Err: err}
}

// failed applies the tool's OnError policy to a final failure.
func (t *Tool) failed(err error) (*Result, error) {
	if t.OnError == ModeReturn {
		return Failure(err.Error()), nil
	}
	return nil, err
}

// resultOf shapes a handler return value. Handlers that return a *Result
// keep it verbatim; any other value becomes the Data of a success Result.
func resultOf(value any) *Result {
	if r, ok := value.(*Result); ok {
		return r
	}
	return &Result{Success: true, Data: value}
}

// Result is the structured outcome of a tool invocation. Builtin tools fill
// the transport fields; plain handlers only ever see Success and Data.
type Result struct {
	Success    bool              `json:"success"`
	Data       any               `json:"data,omitempty"`
	Error      string            `json:"error,omitempty"`
	StatusCode int               `json:"status_code,omitempty"`
	URL        string            `json:"url,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
	Metadata   map[string]any    `json:"metadata,omitempty"`
}

// Failure builds a failed Result with the given message.
func Failure(msg string) *Result {
	return &Result{Success: false, Error: msg}
}

// Failuref builds a failed Result with a formatted message.
func Failuref(format string, args ...any) *Result {
	return Failure(fmt.Sprintf(format, args...))
}
