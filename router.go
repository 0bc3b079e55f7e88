package troupe

import "context"

// Router decides which agent runs next. Decide returns the name of the next
// agent, or an empty string to stop the run. Routers do not validate names:
// the pool is the sole validation point, and an unknown name surfaces there
// as a fatal RoutingError.
//
// callCount is the number of completed agent turns in the current run,
// starting at zero; last is the previous turn's summary, nil on the first
// decision.
type Router interface {
	Decide(ctx context.Context, st *State, callCount int, last *LastResult) (string, error)
}

// RouterFunc adapts a plain decision function to the Router interface,
// the way http.HandlerFunc adapts handlers.
type RouterFunc func(ctx context.Context, st *State, callCount int, last *LastResult) (string, error)

// Decide calls fn.
func (fn RouterFunc) Decide(ctx context.Context, st *State, callCount int, last *LastResult) (string, error) {
	return fn(ctx, st, callCount, last)
}

// AgentInfo carries the registry metadata a stateful router may inspect.
type AgentInfo struct {
	Name        string
	Description string
}

// RegistryAware is implemented by routers whose decisions depend on the
// pool's agent registry (model-backed and semantic routing). The pool calls
// SetAgents with the live registry contents before the run loop starts.
type RegistryAware interface {
	SetAgents(agents []AgentInfo)
}
