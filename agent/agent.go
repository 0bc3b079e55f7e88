package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/event"
	"github.com/troupe-dev/troupe/log"
	"github.com/troupe-dev/troupe/tool"
)

// Agent is a named unit combining a persona, a model reference, and a tool
// set. Each Run is one turn: consume the input and the shared state's
// history view, call the model, dispatch any requested tools, and produce
// one textual output.
type Agent struct {
	name          string
	description   string
	persona       string
	provider      troupe.ChatProvider
	model         string
	registry      *tool.Registry
	maxToolRounds int
	tracing       *bool
	chatOpts      []troupe.Option
}

// New creates an agent. The zero configuration is a bare agent with an
// empty tool registry and no provider; a provider must be set (directly or
// adopted from a pool) before the agent can run.
func New(name string, opts ...Option) *Agent {
	a := &Agent{
		name:          name,
		registry:      tool.NewRegistry(),
		maxToolRounds: 5,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the agent's unique registry key.
func (a *Agent) Name() string { return a.name }

// Description returns the capability summary used by routers.
func (a *Agent) Description() string { return a.description }

// Persona returns the agent's system prompt.
func (a *Agent) Persona() string { return a.persona }

// Model returns the agent's model reference, empty if unset.
func (a *Agent) Model() string { return a.model }

// Provider returns the agent's chat provider, nil if unset.
func (a *Agent) Provider() troupe.ChatProvider { return a.provider }

// Registry returns the agent's tool registry.
func (a *Agent) Registry() *tool.Registry { return a.registry }

// TracingEnabled reports the effective tracing setting.
func (a *Agent) TracingEnabled() bool { return a.tracing != nil && *a.tracing }

// AdoptModel fills in the model reference if the agent has none. Called
// during pool assembly, before any turn runs; explicit settings win.
func (a *Agent) AdoptModel(model string) {
	if a.model == "" {
		a.model = model
	}
}

// AdoptProvider fills in the chat provider if the agent has none. Called
// during pool assembly, before any turn runs; explicit settings win.
func (a *Agent) AdoptProvider(p troupe.ChatProvider) {
	if a.provider == nil {
		a.provider = p
	}
}

// AdoptTracing fills in the tracing setting if the agent has none. Called
// during pool assembly, before any turn runs; explicit settings win.
func (a *Agent) AdoptTracing(enabled bool) {
	if a.tracing == nil {
		a.tracing = &enabled
	}
}

// Run executes one agent turn. The prompt is assembled from the persona,
// the state's history view, and the input; tool calls requested by the
// model are dispatched in request order, with results folded back into a
// follow-up call until the model produces plain text or the tool round
// limit is reached. toolsUsed lists invoked tool names in order.
func (a *Agent) Run(ctx context.Context, input string, st *troupe.State) (string, []string, error) {
	if a.provider == nil {
		return "", nil, &ErrNoProvider{Agent: a.name}
	}

	view, err := st.View(ctx)
	if err != nil {
		return "", nil, err
	}
	prompt := a.assemble(view, input)
	stream := event.StreamFromContext(ctx)

	a.tracef("turn start: input=%q", preview(input))

	callOpts := a.callOptions()
	var toolsUsed []string

	for round := 0; ; round++ {
		resp, err := a.generate(ctx, prompt, callOpts, stream)
		if err != nil {
			return "", toolsUsed, err
		}

		if len(resp.ToolCalls) == 0 {
			a.tracef("turn end: output=%q", preview(resp.Content))
			return resp.Content, toolsUsed, nil
		}
		if round >= a.maxToolRounds {
			a.tracef("tool round limit (%d) reached, ending turn", a.maxToolRounds)
			return resp.Content, toolsUsed, nil
		}

		results, used, err := a.dispatch(ctx, resp.ToolCalls, stream)
		toolsUsed = append(toolsUsed, used...)
		if err != nil {
			return "", toolsUsed, err
		}

		prompt = append(prompt, troupe.Message{
			Role:      troupe.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		prompt = append(prompt, troupe.NewToolResultMessage(results...))
	}
}

// assemble builds the transient prompt for one turn. The input is appended
// as a user message unless the view already ends with it, which is the
// normal shape when a pool appended the run input to history first.
func (a *Agent) assemble(view []troupe.Message, input string) []troupe.Message {
	prompt := make([]troupe.Message, 0, len(view)+2)
	if a.persona != "" {
		prompt = append(prompt, troupe.NewSystemMessage(a.persona))
	}
	prompt = append(prompt, view...)
	if input != "" && !tailDelivers(view, input) {
		prompt = append(prompt, troupe.NewUserMessage(input))
	}
	return prompt
}

func tailDelivers(view []troupe.Message, input string) bool {
	if len(view) == 0 {
		return false
	}
	last := view[len(view)-1]
	return last.Role == troupe.RoleUser && last.Content == input
}

// callOptions builds the per-call chat options: model, declared tools, and
// any passthrough options.
func (a *Agent) callOptions() []troupe.Option {
	var opts []troupe.Option
	if a.model != "" {
		opts = append(opts, troupe.WithModel(a.model))
	}
	if specs := a.registry.Specs(); len(specs) > 0 {
		opts = append(opts, troupe.WithTools(specs...))
	}
	return append(opts, a.chatOpts...)
}

// generate makes one model call. Observed runs use the streaming path and
// emit message lifecycle events; unobserved runs use the plain call.
func (a *Agent) generate(ctx context.Context, prompt []troupe.Message, opts []troupe.Option, stream *event.Stream) (*troupe.Response, error) {
	if stream == nil {
		resp, err := a.provider.Chat(ctx, prompt, opts...)
		if err != nil {
			return nil, wrapModelErr(err)
		}
		return resp, nil
	}

	ch, err := a.provider.ChatStream(ctx, prompt, opts...)
	if err != nil {
		return nil, wrapModelErr(err)
	}

	messageID := troupe.GenerateMessageID()
	stream.Emit(event.Event{Type: event.MessageStart, MessageID: messageID})

	var final *troupe.Response
	var content strings.Builder
	for ev := range ch {
		if ev.Err != nil {
			return nil, wrapModelErr(ev.Err)
		}
		if ev.Delta != "" {
			content.WriteString(ev.Delta)
			stream.Emit(event.Event{Type: event.MessageDelta, MessageID: messageID, Delta: ev.Delta})
		}
		if ev.Done {
			final = ev.Response
		}
	}
	if final == nil {
		return nil, wrapModelErr(fmt.Errorf("stream ended without a final response"))
	}
	if final.Content == "" && content.Len() > 0 {
		filled := *final
		filled.Content = content.String()
		final = &filled
	}

	stream.Emit(event.Event{Type: event.MessageEnd, MessageID: messageID, Response: final})
	return final, nil
}

// dispatch executes tool calls strictly in request order. used lists the
// tools that actually ran, including a failing final call; an unknown tool
// name never ran and is not counted.
func (a *Agent) dispatch(ctx context.Context, calls []troupe.ToolCall, stream *event.Stream) ([]troupe.ToolResult, []string, error) {
	results := make([]troupe.ToolResult, 0, len(calls))
	var used []string

	for i := range calls {
		call := calls[i]
		stream.Emit(event.Event{Type: event.ToolCallStart, ToolCall: &call})
		a.tracef("tool call: %s %s", call.Name, preview(call.Arguments))

		result, err := a.registry.Execute(ctx, call)
		if err != nil {
			if !errors.Is(err, tool.ErrNotFound) {
				used = append(used, call.Name)
			}
			a.tracef("tool %s failed: %v", call.Name, err)
			return nil, used, err
		}

		used = append(used, call.Name)
		stream.Emit(event.Event{Type: event.ToolCallEnd, ToolCall: &call, ToolResult: &result})
		a.tracef("tool result: %s -> %s", call.Name, preview(result.Content))
		results = append(results, result)
	}
	return results, used, nil
}

// wrapModelErr classifies a provider failure. Errors already carrying
// taxonomy information pass through; raw SDK errors become ModelError.
func wrapModelErr(err error) error {
	var re troupe.RetryableError
	if errors.As(err, &re) {
		return err
	}
	return &troupe.ModelError{Err: err}
}

func (a *Agent) tracef(format string, args ...any) {
	if !a.TracingEnabled() {
		return
	}
	log.Infof("agent %s: "+format, append([]any{a.name}, args...)...)
}

// preview flattens and truncates a string for trace lines.
func preview(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > 120 {
		return s[:117] + "..."
	}
	return s
}

var _ troupe.Agent = (*Agent)(nil)
