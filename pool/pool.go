package pool

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/event"
	"github.com/troupe-dev/troupe/log"
)

// Pool drives a set of agents through a run: it owns the shared state, the
// agent registry, and the router, and executes the decide/run loop until the
// router stops or the iteration bound is reached.
//
// A pool's state survives across runs: history accumulates and is never
// reset. Run calls on one pool are serialized; concurrent callers queue.
type Pool struct {
	agents   []troupe.Agent
	router   troupe.Router
	maxIter  int
	state    *troupe.State
	provider troupe.ChatProvider
	model    string
	history  troupe.HistoryManager
	tracing  bool
	events   chan<- event.Event

	mu        sync.Mutex
	assembled bool
}

// Result is the outcome of one pool run.
type Result struct {
	// RunID is the unique identifier correlating this run's events.
	RunID string
	// Output is the last agent's output, empty when no turn ran.
	Output string
	// Turns is the number of completed agent turns.
	Turns int
	// Last summarizes the final turn, nil when no turn ran.
	Last *troupe.LastResult
}

// New creates a pool. An unconfigured pool stops immediately on its first
// routing decision and runs zero turns; give it agents and a router to make
// it do work.
func New(opts ...Option) *Pool {
	p := &Pool{maxIter: 10}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the pool's shared state, creating it on first use.
func (p *Pool) State() *troupe.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.assemble()
}

// Agents returns the pool's agents in registration order.
func (p *Pool) Agents() []troupe.Agent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]troupe.Agent, len(p.agents))
	copy(out, p.agents)
	return out
}

// Router returns the configured routing strategy, nil when none is set.
func (p *Pool) Router() troupe.Router {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.router
}

// MaxIter returns the per-run bound on agent turns.
func (p *Pool) MaxIter() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maxIter
}

// Run executes one run to completion: append input to history, then loop
// router decision, agent turn, output chaining, until the router stops or
// maxIter turns have completed. The returned Result carries the last
// agent's output, or an empty output when the loop body never ran.
//
// A router decision naming an unregistered agent fails the run with a
// *troupe.RoutingError; history keeps everything appended up to that point.
func (p *Pool) Run(ctx context.Context, input string) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runID := newRunID()
	var stream *event.Stream
	if p.events != nil {
		stream = event.NewStream(p.events, runID)
	}

	stream.Emit(event.Event{Type: event.RunStart, Message: input})
	res, err := p.run(ctx, input, runID, stream)
	if err != nil {
		stream.Emit(event.Event{Type: event.RunError, Error: err})
		return nil, err
	}
	stream.Emit(event.Event{Type: event.RunEnd, Output: res.Output})
	return res, nil
}

// RunStream executes one run like Run while emitting the run's events on
// the returned channel: run and turn lifecycle, streamed message deltas,
// tool calls, and routing decisions, ending with RunEnd or RunError. The
// channel closes when the run finishes; consume it until closed.
//
// Use event.Text to reduce the stream to plain output chunks.
func (p *Pool) RunStream(ctx context.Context, input string) <-chan event.Event {
	out := event.NewChannel()
	runID := newRunID()

	go func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		defer close(out)

		stream := event.NewStream(out, runID).Tee(p.events)
		stream.Emit(event.Event{Type: event.RunStart, Message: input})

		res, err := p.run(ctx, input, runID, stream)

		terminal := event.Event{Type: event.RunEnd, RunID: runID, Timestamp: time.Now()}
		if err != nil {
			terminal.Type = event.RunError
			terminal.Error = err
		} else {
			terminal.Output = res.Output
		}
		event.Emit(p.events, terminal)
		// The terminal event must reach the consumer even if observational
		// events were dropped along the way.
		out <- terminal
	}()
	return out
}

// run is the orchestration loop. Caller holds p.mu.
func (p *Pool) run(ctx context.Context, input string, runID string, stream *event.Stream) (*Result, error) {
	st := p.assemble()
	res := &Result{RunID: runID}

	p.record(ctx, st, troupe.NewUserMessage(input))
	p.tracef("run %s: input=%q", runID, preview(input))

	current := input
	var last *troupe.LastResult

	for callCount := 0; callCount < p.maxIter; callCount++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		next, err := p.decide(ctx, st, callCount, last)
		if err != nil {
			return res, err
		}
		if next == "" {
			p.tracef("run %s: router stopped after %d turns", runID, callCount)
			break
		}
		stream.Emit(event.Event{Type: event.RouteDecision, Agent: next, Turn: callCount + 1})
		p.tracef("run %s: turn %d routed to %s", runID, callCount+1, next)

		ag, ok := st.Agent(next)
		if !ok {
			return res, &troupe.RoutingError{Agent: next}
		}

		turn := callCount + 1
		ts := stream.ForTurn(turn, next)
		ts.Emit(event.Event{Type: event.TurnStart})

		output, toolsUsed, err := ag.Run(event.WithStream(ctx, ts), current, st)
		if err != nil {
			return res, err
		}

		p.record(ctx, st, troupe.NewAssistantMessage(next, output))
		last = &troupe.LastResult{Agent: next, Output: output, ToolsUsed: toolsUsed}
		current = output
		res.Output = output
		res.Turns = turn
		res.Last = last

		ts.Emit(event.Event{Type: event.TurnEnd, Output: output})
	}
	return res, nil
}

// decide asks the router for the next agent. A nil router stops
// immediately.
func (p *Pool) decide(ctx context.Context, st *troupe.State, callCount int, last *troupe.LastResult) (string, error) {
	if p.router == nil {
		return "", nil
	}
	return p.router.Decide(ctx, st, callCount, last)
}

// Adoption probes. Agents that expose these receive the pool's defaults at
// assembly time; agents configured explicitly are untouched.
type modelAdopter interface{ AdoptModel(model string) }
type providerAdopter interface {
	AdoptProvider(p troupe.ChatProvider)
}
type tracingAdopter interface{ AdoptTracing(enabled bool) }

// assemble creates the state on first use, registers the agents (last
// duplicate name wins), hands pool defaults to agents that lack their own,
// and injects the registry into a registry-aware router. Caller holds p.mu.
func (p *Pool) assemble() *troupe.State {
	if p.state == nil {
		p.state = troupe.NewState()
	}
	if p.assembled {
		return p.state
	}

	if p.history != nil {
		p.state.SetHistoryManager(p.history)
	}
	for _, a := range p.agents {
		if p.model != "" {
			if ad, ok := a.(modelAdopter); ok {
				ad.AdoptModel(p.model)
			}
		}
		if p.provider != nil {
			if ad, ok := a.(providerAdopter); ok {
				ad.AdoptProvider(p.provider)
			}
		}
		if ad, ok := a.(tracingAdopter); ok {
			ad.AdoptTracing(p.tracing)
		}
		p.state.RegisterAgent(a)
	}
	if ra, ok := p.router.(troupe.RegistryAware); ok {
		ra.SetAgents(p.registryInfos())
	}

	p.assembled = true
	return p.state
}

// registryInfos snapshots the registry in sorted name order.
func (p *Pool) registryInfos() []troupe.AgentInfo {
	agents := p.state.Agents()
	infos := make([]troupe.AgentInfo, 0, len(agents))
	for _, a := range agents {
		infos = append(infos, troupe.AgentInfo{Name: a.Name(), Description: a.Description()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// record appends to canonical history and mirrors the message into the
// history manager's store. A failing mirror never fails the run.
func (p *Pool) record(ctx context.Context, st *troupe.State, msg troupe.Message) {
	st.Append(msg)
	if m := st.HistoryManager(); m != nil {
		if err := m.Record(ctx, msg); err != nil {
			log.Warnf("pool: history record failed: %v", err)
		}
	}
}

func newRunID() string {
	return "run-" + uuid.New().String()
}

func (p *Pool) tracef(format string, args ...any) {
	if !p.tracing {
		return
	}
	log.Infof("pool: "+format, args...)
}

// preview flattens and truncates a string for trace lines.
func preview(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > 120 {
		return s[:117] + "..."
	}
	return s
}
