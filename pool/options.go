package pool

import (
	"context"

	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/event"
)

// Option configures a Pool during construction.
type Option func(*Pool)

// WithAgents adds agents to the pool. Agents are registered in the given
// order; when two share a name the later registration wins.
func WithAgents(agents ...troupe.Agent) Option {
	return func(p *Pool) {
		p.agents = append(p.agents, agents...)
	}
}

// WithRouter sets the routing strategy. A pool without a router stops on
// its first decision.
func WithRouter(r troupe.Router) Option {
	return func(p *Pool) {
		p.router = r
	}
}

// WithRouterFunc sets a plain decision function as the router.
func WithRouterFunc(fn func(ctx context.Context, st *troupe.State, callCount int, last *troupe.LastResult) (string, error)) Option {
	return func(p *Pool) {
		p.router = troupe.RouterFunc(fn)
	}
}

// WithMaxIter bounds the number of agent turns per run. Zero means the
// loop body never executes. Negative values are ignored.
func WithMaxIter(n int) Option {
	return func(p *Pool) {
		if n >= 0 {
			p.maxIter = n
		}
	}
}

// WithState supplies the shared state instead of default-constructing one.
// Useful for sharing history across pools or seeding key/value data.
func WithState(st *troupe.State) Option {
	return func(p *Pool) {
		p.state = st
	}
}

// WithProvider sets the default chat provider handed to agents that have
// none of their own.
func WithProvider(provider troupe.ChatProvider) Option {
	return func(p *Pool) {
		p.provider = provider
	}
}

// WithModel sets the default model reference handed to agents that have
// none of their own.
func WithModel(model string) Option {
	return func(p *Pool) {
		p.model = model
	}
}

// WithHistory installs a history manager governing the agents' view of
// history and mirroring appends into its store.
func WithHistory(m troupe.HistoryManager) Option {
	return func(p *Pool) {
		p.history = m
	}
}

// WithTracing enables trace logging for the pool and, at assembly time,
// for every agent that did not set tracing explicitly.
func WithTracing(enabled bool) Option {
	return func(p *Pool) {
		p.tracing = enabled
	}
}

// WithEvents installs a persistent observer channel receiving every run's
// events, in addition to any per-run RunStream channel. Sends never block;
// events are dropped when the channel is full.
func WithEvents(ch chan<- event.Event) Option {
	return func(p *Pool) {
		p.events = ch
	}
}
