package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/troupe-dev/troupe"
)

func echoTool(name string, opts ...Option) *Tool {
	return New(name, "Echo a value.", echoParams,
		func(ctx context.Context, args map[string]any) (any, error) {
			return args["value"], nil
		}, append(fastOpts(), opts...)...)
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register(echoTool("echo")))
	assert.Equal(t, 1, reg.Len())

	got, ok := reg.Get("echo")
	require.True(t, ok)
	assert.Equal(t, "echo", got.Name)

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestRegistryRegisterDuplicate(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoTool("echo")))

	err := reg.Register(echoTool("echo"))
	require.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.Contains(t, err.Error(), "echo")
}

func TestRegistryMustRegisterPanics(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(echoTool("echo"))

	assert.Panics(t, func() {
		reg.MustRegister(echoTool("echo"))
	})
}

func TestRegistryReplaceLastWins(t *testing.T) {
	reg := NewRegistry()
	reg.Replace(New("echo", "First definition.", nil, nil))
	reg.Replace(New("echo", "Second definition.", nil, nil))

	require.Equal(t, 1, reg.Len())
	got, ok := reg.Get("echo")
	require.True(t, ok)
	assert.Equal(t, "Second definition.", got.Description)
}

func TestRegistryAddFluent(t *testing.T) {
	reg := NewRegistry().Add(echoTool("alpha"), echoTool("beta"))
	assert.Equal(t, 2, reg.Len())
}

func TestRegistryUnregister(t *testing.T) {
	reg := NewRegistry().Add(echoTool("echo"))

	reg.Unregister("echo")
	assert.Equal(t, 0, reg.Len())

	// Unknown names are a no-op.
	reg.Unregister("missing")
}

func TestRegistryNamesSorted(t *testing.T) {
	reg := NewRegistry().Add(echoTool("zeta"), echoTool("alpha"), echoTool("mid"))
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, reg.Names())
}

func TestRegistrySpecs(t *testing.T) {
	reg := NewRegistry().Add(echoTool("zeta"), echoTool("alpha"))

	specs := reg.Specs()
	require.Len(t, specs, 2)
	assert.Equal(t, "alpha", specs[0].Name)
	assert.Equal(t, "zeta", specs[1].Name)
	assert.JSONEq(t, string(echoParams), string(specs[0].Parameters))
}

func TestRegistryExecute(t *testing.T) {
	reg := NewRegistry().Add(echoTool("echo"))

	result, err := reg.Execute(context.Background(), troupe.ToolCall{
		ID:        "call-1",
		Name:      "echo",
		Arguments: `{"value": "hello"}`,
	})
	require.NoError(t, err)

	assert.Equal(t, "call-1", result.ToolCallID)
	assert.False(t, result.IsError)

	var decoded Result
	require.NoError(t, json.Unmarshal([]byte(result.Content), &decoded))
	assert.True(t, decoded.Success)
	assert.Equal(t, "hello", decoded.Data)
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Execute(context.Background(), troupe.ToolCall{Name: "missing"})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "missing")
}

func TestRegistryExecuteMalformedArguments(t *testing.T) {
	reg := NewRegistry().Add(echoTool("echo", WithOnError(ModeReturn)))

	result, err := reg.Execute(context.Background(), troupe.ToolCall{
		ID:        "call-1",
		Name:      "echo",
		Arguments: `{not json`,
	})
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, result.Content, "arguments are not valid JSON")
}

func TestRegistryExecuteMalformedArgumentsRaiseMode(t *testing.T) {
	reg := NewRegistry().Add(echoTool("echo"))

	_, err := reg.Execute(context.Background(), troupe.ToolCall{
		Name:      "echo",
		Arguments: `{not json`,
	})
	require.Error(t, err)

	var verr *troupe.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "echo", verr.Tool)
}

func TestRegistryExecuteFoldsReturnModeFailure(t *testing.T) {
	broken := New("broken", "Always fail.", nil,
		func(ctx context.Context, args map[string]any) (any, error) {
			return nil, fmt.Errorf("nope")
		}, fastOpts(WithMaxRetries(0), WithOnError(ModeReturn))...)
	reg := NewRegistry().Add(broken)

	result, err := reg.Execute(context.Background(), troupe.ToolCall{ID: "call-2", Name: "broken"})
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, result.Content, "nope")
}

func TestRegistryExecutePropagatesRaiseMode(t *testing.T) {
	broken := New("broken", "Always fail.", nil,
		func(ctx context.Context, args map[string]any) (any, error) {
			return nil, fmt.Errorf("nope")
		}, fastOpts(WithMaxRetries(0))...)
	reg := NewRegistry().Add(broken)

	_, err := reg.Execute(context.Background(), troupe.ToolCall{Name: "broken"})
	require.Error(t, err)

	var xerr *troupe.ToolExecutionError
	assert.ErrorAs(t, err, &xerr)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := NewRegistry()
	done := make(chan struct{})

	for i := 0; i < 10; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			reg.Replace(echoTool(fmt.Sprintf("tool-%d", n)))
			reg.Names()
			reg.Specs()
			reg.Len()
		}(i)
	}
	for i := 0; i < 10; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("concurrent registry access deadlocked")
		}
	}

	assert.Equal(t, 10, reg.Len())
}
