package agent

import "fmt"

// ErrNoProvider indicates an agent was run without a chat provider, either
// directly or because pool assembly had no default to hand down.
type ErrNoProvider struct {
	Agent string
}

func (e *ErrNoProvider) Error() string {
	return fmt.Sprintf("agent %s has no chat provider", e.Agent)
}
