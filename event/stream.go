package event

import (
	"context"
	"time"
)

// Stream is a run-scoped event destination. It stamps run correlation data
// onto every event it emits, so emitters deep in an agent turn need not know
// which run or turn they are part of.
//
// A nil *Stream is valid and drops everything, which is how unobserved runs
// stay free of conditionals at every emit site.
type Stream struct {
	ch    chan<- Event
	fwd   chan<- Event
	runID string
	turn  int
	agent string
}

// NewStream creates a stream that emits onto ch with the given run ID.
func NewStream(ch chan<- Event, runID string) *Stream {
	if ch == nil {
		return nil
	}
	return &Stream{ch: ch, runID: runID}
}

// ForTurn derives a stream that additionally stamps the turn number and
// agent name onto emitted events.
func (s *Stream) ForTurn(turn int, agent string) *Stream {
	if s == nil {
		return nil
	}
	derived := *s
	derived.turn = turn
	derived.agent = agent
	return &derived
}

// Tee derives a stream that forwards every emitted event to ch as well,
// under the same non-blocking discipline. Used for a pool's persistent
// observer channel alongside the per-run stream.
func (s *Stream) Tee(ch chan<- Event) *Stream {
	if s == nil || ch == nil {
		return s
	}
	derived := *s
	derived.fwd = ch
	return &derived
}

// Emit stamps run correlation data and sends without blocking.
func (s *Stream) Emit(e Event) {
	if s == nil {
		return
	}
	if e.RunID == "" {
		e.RunID = s.runID
	}
	if e.Turn == 0 {
		e.Turn = s.turn
	}
	if e.Agent == "" {
		e.Agent = s.agent
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	Emit(s.ch, e)
	Emit(s.fwd, e)
}

type streamKey struct{}

// WithStream attaches a stream to the context so nested emitters can reach
// the run's event channel.
func WithStream(ctx context.Context, s *Stream) context.Context {
	if s == nil {
		return ctx
	}
	return context.WithValue(ctx, streamKey{}, s)
}

// StreamFromContext returns the attached stream, or nil when the run is not
// observed.
func StreamFromContext(ctx context.Context) *Stream {
	if v := ctx.Value(streamKey{}); v != nil {
		return v.(*Stream)
	}
	return nil
}
