package router

import (
	"context"

	"github.com/troupe-dev/troupe"
)

// RoundRobin cycles through a fixed list of agent names in order:
// names[callCount % len(names)]. It never stops on its own; the pool's
// iteration bound ends the run. With no names it always stops.
type RoundRobin struct {
	names []string
}

// NewRoundRobin creates a round-robin router over the given names.
func NewRoundRobin(names ...string) *RoundRobin {
	return &RoundRobin{names: names}
}

// Names returns the rotation in order.
func (r *RoundRobin) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Decide implements troupe.Router.
func (r *RoundRobin) Decide(ctx context.Context, st *troupe.State, callCount int, last *troupe.LastResult) (string, error) {
	if len(r.names) == 0 {
		return "", nil
	}
	return r.names[callCount%len(r.names)], nil
}

var _ troupe.Router = (*RoundRobin)(nil)

// Stop returns a router that stops immediately. A pool configured without a
// router uses this, so an unconfigured pool runs zero turns.
func Stop() troupe.Router {
	return troupe.RouterFunc(func(ctx context.Context, st *troupe.State, callCount int, last *troupe.LastResult) (string, error) {
		return "", nil
	})
}

// instruction is the text a decision is about: the previous turn's output
// when there is one, otherwise the latest user message.
func instruction(st *troupe.State, last *troupe.LastResult) string {
	if last != nil && last.Output != "" {
		return last.Output
	}
	if st == nil {
		return ""
	}
	history := st.History()
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == troupe.RoleUser {
			return history[i].Content
		}
	}
	return ""
}
