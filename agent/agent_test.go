package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/event"
	"github.com/troupe-dev/troupe/tool"
)

// mockProvider implements troupe.ChatProvider with scripted responses,
// capturing the prompt and applied options of every call.
type mockProvider struct {
	responses   []mockResponse
	callCount   int
	streamCalls int
	prompts     [][]troupe.Message
	opts        []*troupe.Options
}

type mockResponse struct {
	content   string
	toolCalls []troupe.ToolCall
	err       error
}

func (m *mockProvider) next(messages []troupe.Message, opts []troupe.Option) mockResponse {
	m.prompts = append(m.prompts, messages)
	m.opts = append(m.opts, troupe.ApplyOptions(opts...))
	if m.callCount >= len(m.responses) {
		return mockResponse{content: "No more responses"}
	}
	resp := m.responses[m.callCount]
	m.callCount++
	return resp
}

func (m *mockProvider) Chat(ctx context.Context, messages []troupe.Message, opts ...troupe.Option) (*troupe.Response, error) {
	resp := m.next(messages, opts)
	if resp.err != nil {
		return nil, resp.err
	}
	return &troupe.Response{
		Content:   resp.content,
		ToolCalls: resp.toolCalls,
		Usage:     troupe.Usage{InputTokens: 10, OutputTokens: 20},
	}, nil
}

func (m *mockProvider) ChatStream(ctx context.Context, messages []troupe.Message, opts ...troupe.Option) (<-chan troupe.StreamEvent, error) {
	m.streamCalls++
	resp := m.next(messages, opts)
	ch := make(chan troupe.StreamEvent)

	go func() {
		defer close(ch)
		if resp.err != nil {
			ch <- troupe.StreamEvent{Err: resp.err}
			return
		}
		for _, c := range resp.content {
			ch <- troupe.StreamEvent{Delta: string(c)}
		}
		ch <- troupe.StreamEvent{
			Done: true,
			Response: &troupe.Response{
				Content:   resp.content,
				ToolCalls: resp.toolCalls,
				Usage:     troupe.Usage{InputTokens: 10, OutputTokens: 20},
			},
		}
	}()
	return ch, nil
}

// objectSchema is the minimal accept-anything parameter document.
var objectSchema = json.RawMessage(`{"type":"object"}`)

func fastTool(name string, handler tool.Handler, opts ...tool.Option) *tool.Tool {
	base := []tool.Option{tool.WithTimeout(0), tool.WithMaxRetries(0)}
	return tool.New(name, "Test tool.", objectSchema, handler, append(base, opts...)...)
}

func okHandler(result string) tool.Handler {
	return func(ctx context.Context, args map[string]any) (any, error) {
		return result, nil
	}
}

// --- Construction ---

func TestNewDefaults(t *testing.T) {
	a := New("scout")

	assert.Equal(t, "scout", a.Name())
	assert.Empty(t, a.Description())
	assert.Empty(t, a.Persona())
	assert.Empty(t, a.Model())
	assert.Nil(t, a.Provider())
	assert.Equal(t, 0, a.Registry().Len())
	assert.False(t, a.TracingEnabled())
}

// --- Run ---

func TestRunRequiresProvider(t *testing.T) {
	a := New("scout")

	_, _, err := a.Run(context.Background(), "hi", troupe.NewState())

	var noProvider *ErrNoProvider
	require.ErrorAs(t, err, &noProvider)
	assert.Equal(t, "scout", noProvider.Agent)
	assert.Contains(t, err.Error(), "scout")
}

func TestRunSimpleTurn(t *testing.T) {
	provider := &mockProvider{
		responses: []mockResponse{{content: "Hello! How can I help you?"}},
	}
	a := New("scout",
		WithPersona("You are terse."),
		WithProvider(provider),
	)

	output, toolsUsed, err := a.Run(context.Background(), "Hi", troupe.NewState())

	require.NoError(t, err)
	assert.Equal(t, "Hello! How can I help you?", output)
	assert.Empty(t, toolsUsed)

	require.Len(t, provider.prompts, 1)
	prompt := provider.prompts[0]
	require.Len(t, prompt, 2)
	assert.Equal(t, troupe.RoleSystem, prompt[0].Role)
	assert.Equal(t, "You are terse.", prompt[0].Content)
	assert.Equal(t, troupe.RoleUser, prompt[1].Role)
	assert.Equal(t, "Hi", prompt[1].Content)
}

func TestRunInputNotDuplicatedWhenHistoryEndsWithIt(t *testing.T) {
	// The pool appends the run input to history before the first turn, so
	// the view already delivers it.
	provider := &mockProvider{
		responses: []mockResponse{{content: "ok"}},
	}
	a := New("scout", WithPersona("Be helpful."), WithProvider(provider))

	st := troupe.NewState()
	st.Append(troupe.NewUserMessage("Hi"))

	_, _, err := a.Run(context.Background(), "Hi", st)

	require.NoError(t, err)
	prompt := provider.prompts[0]
	require.Len(t, prompt, 2)
	assert.Equal(t, troupe.RoleSystem, prompt[0].Role)
	assert.Equal(t, troupe.RoleUser, prompt[1].Role)
	assert.Equal(t, "Hi", prompt[1].Content)
}

func TestRunInputAppendedAfterAssistantTail(t *testing.T) {
	// Later turns receive the previous agent's output as input while history
	// ends with that assistant message; the input must still arrive as a
	// user message so roles alternate.
	provider := &mockProvider{
		responses: []mockResponse{{content: "refined"}},
	}
	a := New("editor", WithProvider(provider))

	st := troupe.NewState()
	st.Append(troupe.NewUserMessage("Write a haiku"))
	st.Append(troupe.NewAssistantMessage("writer", "draft text"))

	_, _, err := a.Run(context.Background(), "draft text", st)

	require.NoError(t, err)
	prompt := provider.prompts[0]
	require.Len(t, prompt, 3)
	assert.Equal(t, troupe.RoleAssistant, prompt[1].Role)
	assert.Equal(t, troupe.RoleUser, prompt[2].Role)
	assert.Equal(t, "draft text", prompt[2].Content)
}

func TestRunEmptyInputSendsViewOnly(t *testing.T) {
	provider := &mockProvider{
		responses: []mockResponse{{content: "continuing"}},
	}
	a := New("scout", WithProvider(provider))

	st := troupe.NewState()
	st.Append(troupe.NewUserMessage("earlier"))

	_, _, err := a.Run(context.Background(), "", st)

	require.NoError(t, err)
	prompt := provider.prompts[0]
	require.Len(t, prompt, 1)
	assert.Equal(t, "earlier", prompt[0].Content)
}

// --- Tool dispatch ---

func TestRunToolCycle(t *testing.T) {
	provider := &mockProvider{
		responses: []mockResponse{
			{
				content: "Checking the weather.",
				toolCalls: []troupe.ToolCall{
					{ID: "call_1", Name: "get_weather", Arguments: `{"city":"Tokyo"}`},
				},
			},
			{content: "It is 22C in Tokyo."},
		},
	}
	var seenArgs map[string]any
	a := New("scout",
		WithProvider(provider),
		WithTools(fastTool("get_weather", func(ctx context.Context, args map[string]any) (any, error) {
			seenArgs = args
			return map[string]any{"temp": 22}, nil
		})),
	)

	output, toolsUsed, err := a.Run(context.Background(), "Weather in Tokyo?", troupe.NewState())

	require.NoError(t, err)
	assert.Equal(t, "It is 22C in Tokyo.", output)
	assert.Equal(t, []string{"get_weather"}, toolsUsed)
	assert.Equal(t, "Tokyo", seenArgs["city"])

	// The follow-up call carries the assistant tool request and its results.
	require.Len(t, provider.prompts, 2)
	followUp := provider.prompts[1]
	require.GreaterOrEqual(t, len(followUp), 2)
	asst := followUp[len(followUp)-2]
	results := followUp[len(followUp)-1]
	assert.Equal(t, troupe.RoleAssistant, asst.Role)
	require.Len(t, asst.ToolCalls, 1)
	assert.Equal(t, "get_weather", asst.ToolCalls[0].Name)
	assert.Equal(t, troupe.RoleTool, results.Role)
	require.Len(t, results.ToolResults, 1)
	assert.Equal(t, "call_1", results.ToolResults[0].ToolCallID)
	assert.False(t, results.ToolResults[0].IsError)
}

func TestRunDispatchesInRequestOrder(t *testing.T) {
	provider := &mockProvider{
		responses: []mockResponse{
			{
				content: "Running both.",
				toolCalls: []troupe.ToolCall{
					{ID: "c1", Name: "beta", Arguments: "{}"},
					{ID: "c2", Name: "alpha", Arguments: "{}"},
				},
			},
			{content: "done"},
		},
	}
	var order []string
	record := func(name string) tool.Handler {
		return func(ctx context.Context, args map[string]any) (any, error) {
			order = append(order, name)
			return "ok", nil
		}
	}
	a := New("scout",
		WithProvider(provider),
		WithTools(
			fastTool("alpha", record("alpha")),
			fastTool("beta", record("beta")),
		),
	)

	_, toolsUsed, err := a.Run(context.Background(), "go", troupe.NewState())

	require.NoError(t, err)
	// Request order wins over registration or alphabetical order.
	assert.Equal(t, []string{"beta", "alpha"}, order)
	assert.Equal(t, []string{"beta", "alpha"}, toolsUsed)
}

func TestRunToolRoundLimit(t *testing.T) {
	// The model keeps requesting tools; the turn must end at the round
	// limit with the model's latest content and no further dispatch.
	looping := mockResponse{
		content:   "still working",
		toolCalls: []troupe.ToolCall{{ID: "c", Name: "probe", Arguments: "{}"}},
	}
	provider := &mockProvider{
		responses: []mockResponse{looping, looping, looping},
	}
	calls := 0
	a := New("scout",
		WithProvider(provider),
		WithMaxToolRounds(1),
		WithTools(fastTool("probe", func(ctx context.Context, args map[string]any) (any, error) {
			calls++
			return "ok", nil
		})),
	)

	output, toolsUsed, err := a.Run(context.Background(), "go", troupe.NewState())

	require.NoError(t, err)
	assert.Equal(t, "still working", output)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"probe"}, toolsUsed)
	assert.Equal(t, 2, provider.callCount)
}

func TestRunZeroToolRoundsNeverDispatches(t *testing.T) {
	provider := &mockProvider{
		responses: []mockResponse{
			{content: "wanted a tool", toolCalls: []troupe.ToolCall{{ID: "c", Name: "probe", Arguments: "{}"}}},
		},
	}
	a := New("scout",
		WithProvider(provider),
		WithMaxToolRounds(0),
		WithTools(fastTool("probe", okHandler("ok"))),
	)

	output, toolsUsed, err := a.Run(context.Background(), "go", troupe.NewState())

	require.NoError(t, err)
	assert.Equal(t, "wanted a tool", output)
	assert.Empty(t, toolsUsed)
}

func TestRunRaisingToolEndsTurn(t *testing.T) {
	provider := &mockProvider{
		responses: []mockResponse{
			{content: "calling", toolCalls: []troupe.ToolCall{{ID: "c", Name: "flaky", Arguments: "{}"}}},
			{content: "never reached"},
		},
	}
	a := New("scout",
		WithProvider(provider),
		WithTools(fastTool("flaky", func(ctx context.Context, args map[string]any) (any, error) {
			return nil, errors.New("backend down")
		})),
	)

	output, toolsUsed, err := a.Run(context.Background(), "go", troupe.NewState())

	var execErr *troupe.ToolExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "flaky", execErr.Tool)
	assert.Empty(t, output)
	// The tool ran, so it counts even though it failed.
	assert.Equal(t, []string{"flaky"}, toolsUsed)
	assert.Equal(t, 1, provider.callCount)
}

func TestRunUnknownToolNotCounted(t *testing.T) {
	provider := &mockProvider{
		responses: []mockResponse{
			{content: "calling", toolCalls: []troupe.ToolCall{{ID: "c", Name: "ghost", Arguments: "{}"}}},
		},
	}
	a := New("scout", WithProvider(provider))

	_, toolsUsed, err := a.Run(context.Background(), "go", troupe.NewState())

	require.ErrorIs(t, err, tool.ErrNotFound)
	assert.Contains(t, err.Error(), "ghost")
	assert.Empty(t, toolsUsed)
}

func TestRunFoldedFailureContinues(t *testing.T) {
	// A return-mode tool folds its failure into a readable result; the
	// model sees it and the turn completes normally.
	provider := &mockProvider{
		responses: []mockResponse{
			{content: "calling", toolCalls: []troupe.ToolCall{{ID: "c", Name: "soft", Arguments: "{}"}}},
			{content: "recovered"},
		},
	}
	a := New("scout",
		WithProvider(provider),
		WithTools(fastTool("soft", func(ctx context.Context, args map[string]any) (any, error) {
			return nil, errors.New("quota exceeded")
		}, tool.WithOnError(tool.ModeReturn))),
	)

	output, toolsUsed, err := a.Run(context.Background(), "go", troupe.NewState())

	require.NoError(t, err)
	assert.Equal(t, "recovered", output)
	assert.Equal(t, []string{"soft"}, toolsUsed)

	results := provider.prompts[1][len(provider.prompts[1])-1]
	require.Len(t, results.ToolResults, 1)
	assert.True(t, results.ToolResults[0].IsError)
	assert.Contains(t, results.ToolResults[0].Content, "quota exceeded")
}

// --- Provider failures ---

func TestRunWrapsProviderError(t *testing.T) {
	t.Run("raw errors become ModelError", func(t *testing.T) {
		cause := errors.New("connection refused")
		provider := &mockProvider{responses: []mockResponse{{err: cause}}}
		a := New("scout", WithProvider(provider))

		_, _, err := a.Run(context.Background(), "hi", troupe.NewState())

		var modelErr *troupe.ModelError
		require.ErrorAs(t, err, &modelErr)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("classified errors pass through", func(t *testing.T) {
		orig := &troupe.ModelError{Provider: troupe.ProviderAnthropic, Err: errors.New("overloaded")}
		provider := &mockProvider{responses: []mockResponse{{err: orig}}}
		a := New("scout", WithProvider(provider))

		_, _, err := a.Run(context.Background(), "hi", troupe.NewState())

		var modelErr *troupe.ModelError
		require.ErrorAs(t, err, &modelErr)
		assert.Equal(t, troupe.ProviderAnthropic, modelErr.Provider)
	})
}

// --- Call options ---

func TestRunCallOptions(t *testing.T) {
	provider := &mockProvider{responses: []mockResponse{{content: "ok"}}}
	a := New("scout",
		WithProvider(provider),
		WithModel("claude-sonnet-4-5"),
		WithTools(fastTool("probe", okHandler("ok"))),
		WithMaxTokens(512),
		WithTemperature(0.2),
	)

	_, _, err := a.Run(context.Background(), "hi", troupe.NewState())

	require.NoError(t, err)
	opts := provider.opts[0]
	assert.Equal(t, "claude-sonnet-4-5", opts.Model)
	assert.Equal(t, 512, opts.MaxTokens)
	require.NotNil(t, opts.Temperature)
	assert.Equal(t, 0.2, *opts.Temperature)
	require.Len(t, opts.Tools, 1)
	assert.Equal(t, "probe", opts.Tools[0].Name)
}

func TestRunNoToolsOmitsDeclaration(t *testing.T) {
	provider := &mockProvider{responses: []mockResponse{{content: "ok"}}}
	a := New("scout", WithProvider(provider))

	_, _, err := a.Run(context.Background(), "hi", troupe.NewState())

	require.NoError(t, err)
	assert.Empty(t, provider.opts[0].Tools)
}

// --- Observation ---

func TestRunStreamsWhenObserved(t *testing.T) {
	provider := &mockProvider{
		responses: []mockResponse{
			{content: "calling", toolCalls: []troupe.ToolCall{{ID: "c1", Name: "probe", Arguments: "{}"}}},
			{content: "Hi!"},
		},
	}
	a := New("scout",
		WithProvider(provider),
		WithTools(fastTool("probe", okHandler("ok"))),
	)

	ch := event.NewChannel()
	stream := event.NewStream(ch, "run-1").ForTurn(1, "scout")
	ctx := event.WithStream(context.Background(), stream)

	output, _, err := a.Run(ctx, "hi", troupe.NewState())
	close(ch)

	require.NoError(t, err)
	assert.Equal(t, "Hi!", output)
	assert.Equal(t, 2, provider.streamCalls)

	var types []event.Type
	var deltas string
	for e := range ch {
		types = append(types, e.Type)
		if e.Type == event.MessageDelta {
			deltas += e.Delta
		}
		assert.Equal(t, "run-1", e.RunID)
		assert.Equal(t, "scout", e.Agent)
		assert.Equal(t, 1, e.Turn)
	}

	assert.Contains(t, types, event.MessageStart)
	assert.Contains(t, types, event.MessageDelta)
	assert.Contains(t, types, event.MessageEnd)
	assert.Contains(t, types, event.ToolCallStart)
	assert.Contains(t, types, event.ToolCallEnd)
	assert.Contains(t, deltas, "calling")
	assert.Contains(t, deltas, "Hi!")
}

func TestRunUnobservedUsesPlainCalls(t *testing.T) {
	provider := &mockProvider{responses: []mockResponse{{content: "ok"}}}
	a := New("scout", WithProvider(provider))

	_, _, err := a.Run(context.Background(), "hi", troupe.NewState())

	require.NoError(t, err)
	assert.Equal(t, 0, provider.streamCalls)
	assert.Equal(t, 1, provider.callCount)
}

func TestRunStreamEventsCarryMessageID(t *testing.T) {
	provider := &mockProvider{responses: []mockResponse{{content: "bonjour"}}}
	a := New("scout", WithProvider(provider))

	ch := event.NewChannel()
	ctx := event.WithStream(context.Background(), event.NewStream(ch, "run-2"))

	_, _, err := a.Run(ctx, "hi", troupe.NewState())
	close(ch)
	require.NoError(t, err)

	ids := make(map[event.Type]string)
	for e := range ch {
		ids[e.Type] = e.MessageID
	}
	require.NotEmpty(t, ids[event.MessageStart])
	assert.Equal(t, ids[event.MessageStart], ids[event.MessageDelta])
	assert.Equal(t, ids[event.MessageStart], ids[event.MessageEnd])
}

func TestRunStreamErrorWrapped(t *testing.T) {
	provider := &mockProvider{responses: []mockResponse{{err: errors.New("stream reset")}}}
	a := New("scout", WithProvider(provider))

	ch := event.NewChannel()
	ctx := event.WithStream(context.Background(), event.NewStream(ch, "run-3"))

	_, _, err := a.Run(ctx, "hi", troupe.NewState())

	var modelErr *troupe.ModelError
	require.ErrorAs(t, err, &modelErr)
}

// --- troupe.Agent contract ---

func TestAgentSatisfiesInterface(t *testing.T) {
	var a troupe.Agent = New("scout", WithDescription("Finds things."))
	assert.Equal(t, "scout", a.Name())
	assert.Equal(t, "Finds things.", a.Description())
}
