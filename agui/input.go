package agui

import (
	"encoding/json"
	"errors"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/troupe-dev/troupe"
)

// RunAgentInput is the request body an AG-UI frontend posts to start a run.
// Field names and casing follow the protocol, so the struct decodes straight
// off the wire regardless of transport.
type RunAgentInput struct {
	ThreadID       string           `json:"thread_id"`
	RunID          string           `json:"run_id"`
	Messages       []events.Message `json:"messages"`
	Tools          []any            `json:"tools,omitempty"`
	Context        []any            `json:"context,omitempty"`
	State          any              `json:"state,omitempty"`
	ForwardedProps any              `json:"forwarded_props,omitempty"`
}

// PreparedInput is a RunAgentInput after validation: messages converted to
// conversation types, frontend tools parsed, raw state carried along.
type PreparedInput struct {
	ThreadID string
	RunID    string
	Messages []troupe.Message

	// Tools holds the frontend-declared tools; ToolNames lists their names
	// for logging and post-run cleanup.
	Tools     []Tool
	ToolNames []string

	// State is the frontend state exactly as it arrived. NewState and
	// DecodeState interpret it.
	State any
}

// ErrNoMessages is returned when the input contains no messages.
var ErrNoMessages = errors.New("no messages provided")

// Prepare validates the request and converts it for a pool run. An empty
// conversation fails with ErrNoMessages; malformed frontend tools fail with
// the parse error.
func (r *RunAgentInput) Prepare() (*PreparedInput, error) {
	prepared := &PreparedInput{
		ThreadID: r.ThreadID,
		RunID:    r.RunID,
		Messages: ToMessages(r.Messages),
		State:    r.State,
	}
	if len(prepared.Messages) == 0 {
		return nil, ErrNoMessages
	}

	if len(r.Tools) > 0 {
		tools, err := ParseTools(r.Tools)
		if err != nil {
			return nil, err
		}
		prepared.Tools = tools
		prepared.ToolNames = ToolNames(tools)
	}
	return prepared, nil
}

// Specs converts the parsed frontend tools to troupe Tool declarations.
// Returns nil if no tools were parsed.
func (p *PreparedInput) Specs() []troupe.Tool {
	return ToTools(p.Tools)
}

// Input returns the content of the trailing user message: the prompt a pool
// run should carry. Returns "" when the conversation does not end with a
// user message.
func (p *PreparedInput) Input() string {
	if len(p.Messages) == 0 {
		return ""
	}
	last := p.Messages[len(p.Messages)-1]
	if last.Role != troupe.RoleUser {
		return ""
	}
	return last.Content
}

// NewState builds a pool-ready State from the input. When the frontend state
// is a JSON object its entries seed the key-value store, and every message
// except the trailing user prompt seeds the history. Pair with Input, which
// carries the prompt itself:
//
//	prepared, err := input.Prepare()
//	p := pool.New(
//	    pool.WithAgents(agents...),
//	    pool.WithState(prepared.NewState()),
//	)
//	events := p.RunStream(ctx, prepared.Input())
func (p *PreparedInput) NewState() *troupe.State {
	var st *troupe.State
	if kv, ok := p.State.(map[string]any); ok {
		st = troupe.NewStateFrom(kv)
	} else {
		st = troupe.NewState()
	}

	history := p.Messages
	if p.Input() != "" {
		history = history[:len(history)-1]
	}
	for _, msg := range history {
		st.Append(msg)
	}
	return st
}

// DecodeState decodes the frontend state into T. Nil state yields T's zero
// value. The round trip through JSON is what gives the frontend's untyped
// map its shape.
func DecodeState[T any](input *PreparedInput) (T, error) {
	var out T
	if input.State == nil {
		return out, nil
	}

	data, err := json.Marshal(input.State)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(data, &out)
	return out, err
}

// MustDecodeState is like DecodeState but panics on error.
func MustDecodeState[T any](input *PreparedInput) T {
	result, err := DecodeState[T](input)
	if err != nil {
		panic("agui: failed to decode state: " + err.Error())
	}
	return result
}
