package agui

import (
	"fmt"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/troupe-dev/troupe/event"
)

// Mapper converts pool events to AG-UI events.
//
// Each pool event maps to at most one AG-UI event through MapEvent. The
// stream form, MapStream, additionally fills in the protocol sequences a
// frontend expects: TOOL_CALL_ARGS after TOOL_CALL_START, TOOL_CALL_RESULT
// after TOOL_CALL_END, and an optional STATE_SNAPSHOT right after the run
// starts.
//
// Nested runs are filtered: when a tool or agent starts an inner pool run on
// the same stream, only the outermost run's lifecycle reaches the frontend.
//
// A Mapper serves one run and is not safe for concurrent use.
type Mapper struct {
	threadID string
	runID    string
	runDepth int

	initialState any
	announced    bool
}

// MapperOption configures a Mapper.
type MapperOption func(*Mapper)

// WithInitialState makes MapStream announce the given state as a
// STATE_SNAPSHOT immediately after RUN_STARTED. The snapshot is emitted once
// per mapper, for the outermost run only.
func WithInitialState(state any) MapperOption {
	return func(m *Mapper) {
		m.initialState = state
	}
}

// NewMapper builds the mapper for one run. The IDs flow into the lifecycle
// events; empty ones are generated, so a server can pass through whatever
// the frontend sent.
func NewMapper(threadID, runID string, opts ...MapperOption) *Mapper {
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	if runID == "" {
		runID = events.GenerateRunID()
	}
	m := &Mapper{
		threadID: threadID,
		runID:    runID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ThreadID reports the conversation this run belongs to.
func (m *Mapper) ThreadID() string {
	return m.threadID
}

// RunID reports the run's identifier.
func (m *Mapper) RunID() string {
	return m.runID
}

// RunDepth returns the current run nesting depth.
func (m *Mapper) RunDepth() int {
	return m.runDepth
}

// RunStarted builds the RUN_STARTED lifecycle event.
func (m *Mapper) RunStarted() events.Event {
	return events.NewRunStartedEvent(m.threadID, m.runID)
}

// RunFinished builds the RUN_FINISHED lifecycle event.
func (m *Mapper) RunFinished() events.Event {
	return events.NewRunFinishedEvent(m.threadID, m.runID)
}

// RunError builds a RUN_ERROR event; a nil err still yields a valid event.
func (m *Mapper) RunError(err error) events.Event {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return events.NewRunErrorEvent(msg)
}

// StateSnapshot returns a STATE_SNAPSHOT event carrying the given state.
func (m *Mapper) StateSnapshot(state any) events.Event {
	return events.NewStateSnapshotEvent(state)
}

// MapEvent converts a pool event to an AG-UI event.
// Returns nil for events that have no AG-UI equivalent and for the lifecycle
// of nested runs.
func (m *Mapper) MapEvent(e event.Event) events.Event {
	switch e.Type {
	// Run lifecycle - track depth so nested runs stay internal
	case event.RunStart:
		m.runDepth++
		if m.runDepth == 1 {
			return m.RunStarted()
		}
		return nil
	case event.RunEnd:
		m.runDepth--
		if m.runDepth == 0 {
			return m.RunFinished()
		}
		return nil
	case event.RunError:
		return m.RunError(e.Error)

	// Turn lifecycle
	case event.TurnStart:
		return events.NewStepStartedEvent(stepName(e))
	case event.TurnEnd:
		return events.NewStepFinishedEvent(stepName(e))

	// Message lifecycle
	case event.MessageStart:
		return events.NewTextMessageStartEvent(
			e.MessageID,
			events.WithRole(RoleAssistant),
		)
	case event.MessageDelta:
		return events.NewTextMessageContentEvent(e.MessageID, e.Delta)
	case event.MessageEnd:
		return events.NewTextMessageEndEvent(e.MessageID)

	// Tool call lifecycle. MapStream follows TOOL_CALL_START with
	// TOOL_CALL_ARGS and TOOL_CALL_END with TOOL_CALL_RESULT.
	case event.ToolCallStart:
		if e.ToolCall == nil {
			return nil
		}
		return events.NewToolCallStartEvent(e.ToolCall.ID, e.ToolCall.Name)
	case event.ToolCallEnd:
		if e.ToolCall == nil {
			return nil
		}
		return events.NewToolCallEndEvent(e.ToolCall.ID)

	// Routing
	case event.RouteDecision:
		return events.NewCustomEvent("route_decision",
			events.WithValue(map[string]any{
				"agent": e.Agent,
				"turn":  e.Turn,
			}),
		)

	default:
		return nil
	}
}

// MapStream wraps a pool event channel and yields its AG-UI projection.
// The output closes once the pool stream does.
func (m *Mapper) MapStream(input <-chan event.Event) <-chan events.Event {
	output := make(chan events.Event, 100)
	go func() {
		defer close(output)
		for e := range input {
			mapped := m.MapEvent(e)
			if mapped == nil {
				continue
			}
			output <- mapped

			switch e.Type {
			case event.RunStart:
				if m.initialState != nil && !m.announced {
					m.announced = true
					output <- m.StateSnapshot(m.initialState)
				}
			case event.ToolCallStart:
				if e.ToolCall.Arguments != "" {
					output <- events.NewToolCallArgsEvent(e.ToolCall.ID, e.ToolCall.Arguments)
				}
			case event.ToolCallEnd:
				if e.ToolResult != nil {
					messageID := events.GenerateMessageID()
					output <- events.NewToolCallResultEvent(messageID, e.ToolCall.ID, e.ToolResult.Content)
				}
			}
		}
	}()
	return output
}

// stepName labels a turn for STEP_STARTED/STEP_FINISHED pairs. Agents can
// take several turns per run, so the turn number keeps the labels distinct.
func stepName(e event.Event) string {
	if e.Turn > 0 {
		return fmt.Sprintf("%s:%d", e.Agent, e.Turn)
	}
	return e.Agent
}
