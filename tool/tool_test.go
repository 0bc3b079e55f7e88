package tool

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/schema"
)

var echoParams = schema.Object().
	Field("value", schema.String().Desc("Value to echo.").Required()).
	Field("repeat", schema.Int().Default(1)).
	MustBuild()

func fastOpts(opts ...Option) []Option {
	return append([]Option{
		WithRetryDelay(time.Millisecond),
		WithRetryBackoff(false),
	}, opts...)
}

func TestNewDefaults(t *testing.T) {
	tl := New("echo", "Echo a value.", echoParams, nil)

	assert.Equal(t, "echo", tl.Name)
	assert.Equal(t, 30*time.Second, tl.Timeout)
	assert.Equal(t, 2, tl.MaxRetries)
	assert.Equal(t, time.Second, tl.RetryDelay)
	assert.True(t, tl.RetryBackoff)
	assert.Equal(t, ModeRaise, tl.OnError)
}

func TestSpec(t *testing.T) {
	tl := New("echo", "Echo a value.", echoParams, nil)
	spec := tl.Spec()

	assert.Equal(t, "echo", spec.Name)
	assert.Equal(t, "Echo a value.", spec.Description)
	assert.JSONEq(t, string(echoParams), string(spec.Parameters))
}

func TestRunSuccess(t *testing.T) {
	var seen map[string]any
	tl := New("echo", "Echo a value.", echoParams,
		func(ctx context.Context, args map[string]any) (any, error) {
			seen = args
			return args["value"], nil
		}, fastOpts()...)

	result, err := tl.Run(context.Background(), map[string]any{"value": "hello"})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "hello", result.Data)
	// Defaults are filled before the handler runs; JSON numbers are float64.
	assert.Equal(t, float64(1), seen["repeat"])
}

func TestRunValidationFailureIsImmediate(t *testing.T) {
	var calls atomic.Int32
	tl := New("echo", "Echo a value.", echoParams,
		func(ctx context.Context, args map[string]any) (any, error) {
			calls.Add(1)
			return nil, nil
		}, fastOpts()...)

	_, err := tl.Run(context.Background(), map[string]any{})
	require.Error(t, err)

	var verr *troupe.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "echo", verr.Tool)
	assert.False(t, troupe.IsRetryable(err))
	assert.Equal(t, int32(0), calls.Load(), "handler must not run on invalid args")
}

func TestRunValidationFailureReturnMode(t *testing.T) {
	tl := New("echo", "Echo a value.", echoParams, nil,
		fastOpts(WithOnError(ModeReturn))...)

	result, err := tl.Run(context.Background(), map[string]any{})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "validation failed")
}

func TestRunRetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	tl := New("flaky", "Fail twice then succeed.", nil,
		func(ctx context.Context, args map[string]any) (any, error) {
			if calls.Add(1) < 3 {
				return nil, fmt.Errorf("transient glitch")
			}
			return "done", nil
		}, fastOpts(WithMaxRetries(2))...)

	result, err := tl.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "done", result.Data)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRunExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	tl := New("broken", "Always fail.", nil,
		func(ctx context.Context, args map[string]any) (any, error) {
			calls.Add(1)
			return nil, fmt.Errorf("nope")
		}, fastOpts(WithMaxRetries(2))...)

	_, err := tl.Run(context.Background(), nil)
	require.Error(t, err)

	var xerr *troupe.ToolExecutionError
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, "broken", xerr.Tool)
	// MaxRetries counts retries, not attempts: two retries means the
	// handler runs exactly three times.
	assert.Equal(t, int32(3), calls.Load())
}

func TestRunReturnModeFoldsFailure(t *testing.T) {
	tl := New("broken", "Always fail.", nil,
		func(ctx context.Context, args map[string]any) (any, error) {
			return nil, fmt.Errorf("nope")
		}, fastOpts(WithMaxRetries(1), WithOnError(ModeReturn))...)

	result, err := tl.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "nope")
}

func TestRunNestedFinalErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	tl := New("guarded", "Reject its own input.", nil,
		func(ctx context.Context, args map[string]any) (any, error) {
			calls.Add(1)
			return nil, &troupe.ValidationError{Tool: "guarded", Field: "url", Reason: "blocked"}
		}, fastOpts(WithMaxRetries(5))...)

	_, err := tl.Run(context.Background(), nil)
	require.Error(t, err)

	var verr *troupe.ValidationError
	require.ErrorAs(t, err, &verr)
	var xerr *troupe.ToolExecutionError
	assert.False(t, errors.As(err, &xerr), "final errors must not be rewrapped")
	assert.Equal(t, int32(1), calls.Load())
}

func TestRunTimeout(t *testing.T) {
	tl := New("slow", "Sleep past the deadline.", nil,
		func(ctx context.Context, args map[string]any) (any, error) {
			// Ignores ctx on purpose; the runtime must still cut it off.
			time.Sleep(200 * time.Millisecond)
			return "late", nil
		}, fastOpts(WithTimeout(20*time.Millisecond), WithMaxRetries(0))...)

	_, err := tl.Run(context.Background(), nil)
	require.Error(t, err)

	var terr *troupe.TimeoutError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "slow", terr.Op)
	assert.Equal(t, 20*time.Millisecond, terr.Limit)
}

func TestRunTimeoutIsRetriedPerPolicy(t *testing.T) {
	var calls atomic.Int32
	tl := New("slow", "Sleep past the deadline.", nil,
		func(ctx context.Context, args map[string]any) (any, error) {
			calls.Add(1)
			time.Sleep(200 * time.Millisecond)
			return nil, nil
		}, fastOpts(WithTimeout(20*time.Millisecond), WithMaxRetries(1))...)

	_, err := tl.Run(context.Background(), nil)
	require.Error(t, err)

	var terr *troupe.TimeoutError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRunTimeoutOverride(t *testing.T) {
	tl := New("slow", "Sleep past the deadline.", nil,
		func(ctx context.Context, args map[string]any) (any, error) {
			time.Sleep(200 * time.Millisecond)
			return nil, nil
		}, fastOpts(WithTimeout(time.Minute), WithMaxRetries(0))...)

	_, err := tl.Run(context.Background(), nil, WithTimeoutOverride(20*time.Millisecond))
	require.Error(t, err)

	var terr *troupe.TimeoutError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 20*time.Millisecond, terr.Limit)
}

func TestRunContextCanceledPropagates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tl := New("patient", "Wait for cancellation.", nil,
		func(ctx context.Context, args map[string]any) (any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}, fastOpts(WithOnError(ModeReturn))...)

	result, err := tl.Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result, "cancellation must not fold into a result")
}

func TestRunHandlerResultPassthrough(t *testing.T) {
	var calls atomic.Int32
	failed := &Result{Success: false, Error: "HTTP 500: Internal Server Error", StatusCode: 500}
	tl := New("fetch", "Return a structured failure.", nil,
		func(ctx context.Context, args map[string]any) (any, error) {
			calls.Add(1)
			return failed, nil
		}, fastOpts(WithMaxRetries(5))...)

	result, err := tl.Run(context.Background(), nil)
	require.NoError(t, err)

	// A handler-shaped failure is a readable outcome, not an error: it is
	// returned verbatim and never retried.
	assert.Same(t, failed, result)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFailuref(t *testing.T) {
	result := Failuref("HTTP %d", 404)
	assert.False(t, result.Success)
	assert.Equal(t, "HTTP 404", result.Error)
}
