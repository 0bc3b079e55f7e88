// Package agui provides utilities for integrating troupe with the AG-UI protocol.
//
// AG-UI (Agent-User Interface) is an open, lightweight, event-based protocol that
// standardizes how AI agents connect to user-facing applications. This package
// converts pool events to AG-UI events, enabling integration with
// AG-UI-compatible frontends.
//
// # Overview
//
// This package provides:
//   - [Mapper]: converts the pool event stream into AG-UI event sequences
//   - [RunAgentInput]: the protocol request, with [RunAgentInput.Prepare]
//     turning it into pool-ready input
//   - Message conversion utilities: [ToMessages], [FromMessages]
//
// The package does NOT provide HTTP handlers or transport implementations;
// cmd/aguiserver shows a complete SSE server built on it. Users are free to
// use the AG-UI SDK's SSE writer or their preferred transport mechanism.
//
// # Usage
//
// Decode a RunAgentInput, prepare it, and stream a pool run through a Mapper:
//
//	prepared, err := input.Prepare()
//	if err != nil { ... }
//
//	p := pool.New(
//	    pool.WithAgents(agents...),
//	    pool.WithState(prepared.NewState()),
//	)
//
//	mapper := agui.NewMapper(prepared.ThreadID, prepared.RunID)
//	for aguiEvent := range mapper.MapStream(p.RunStream(ctx, prepared.Input())) {
//	    writeSSE(aguiEvent)
//	}
//
// # Event Mapping
//
// MapEvent maps each pool event to at most one AG-UI event; MapStream fills
// in the adjacent protocol events a frontend expects:
//
//   - RunStart/RunEnd/RunError → RUN_STARTED, RUN_FINISHED, RUN_ERROR
//     (outermost run only; nested runs on the same stream stay internal)
//   - TurnStart/TurnEnd → STEP_STARTED, STEP_FINISHED
//   - MessageStart/Delta/End → TEXT_MESSAGE_START, TEXT_MESSAGE_CONTENT,
//     TEXT_MESSAGE_END
//   - ToolCallStart → TOOL_CALL_START, then TOOL_CALL_ARGS on the stream
//   - ToolCallEnd → TOOL_CALL_END, then TOOL_CALL_RESULT on the stream
//   - RouteDecision → CUSTOM ("route_decision")
//
// # Message Conversion
//
// Use [ToMessages] to convert AG-UI messages to troupe messages for input,
// and [FromMessages] for snapshots going the other way:
//
//	snapshot := events.NewMessagesSnapshotEvent(agui.FromMessages(state.History()))
//
// # Thread Safety
//
// The Mapper is NOT safe for concurrent use. Each goroutine should have its
// own Mapper instance. Message conversion functions are stateless and safe
// for concurrent use.
package agui
