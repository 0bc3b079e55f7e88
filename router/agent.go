package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/log"
)

// StopSentinel is the answer a routing agent's model gives to end the run.
const StopSentinel = "STOP"

const defaultRoutingPersona = "You are a router that selects the best agent to act next."

// Agent is a model-backed router: each decision is one classification-style
// chat call that answers with a candidate agent name or the STOP sentinel.
// It fails closed: an answer that matches no candidate stops the run
// instead of guessing.
type Agent struct {
	name     string
	provider troupe.ChatProvider
	persona  string
	model    string
	chatOpts []troupe.Option

	mu       sync.Mutex
	agents   []troupe.AgentInfo
	explicit bool
}

// AgentOption configures a routing agent.
type AgentOption func(*Agent)

// WithPersona sets the routing persona. A default is used when empty.
func WithPersona(persona string) AgentOption {
	return func(r *Agent) { r.persona = persona }
}

// WithModel sets the model reference for decision calls.
func WithModel(model string) AgentOption {
	return func(r *Agent) { r.model = model }
}

// WithChatOptions appends options passed through on every decision call.
func WithChatOptions(opts ...troupe.Option) AgentOption {
	return func(r *Agent) { r.chatOpts = append(r.chatOpts, opts...) }
}

// NewAgent creates a model-backed router. agents restricts the candidate
// set; pass nil to adopt the pool's registry at assembly time.
func NewAgent(name string, provider troupe.ChatProvider, agents []troupe.AgentInfo, opts ...AgentOption) *Agent {
	r := &Agent{
		name:     name,
		provider: provider,
		agents:   agents,
		explicit: len(agents) > 0,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name returns the router's name, used in trace output.
func (r *Agent) Name() string { return r.name }

// Model returns the model reference for decision calls, empty for the
// provider default.
func (r *Agent) Model() string { return r.model }

// Candidates returns the names of the explicit candidate roster given at
// construction, nil for a router that adopts the pool registry.
func (r *Agent) Candidates() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.explicit {
		return nil
	}
	names := make([]string, len(r.agents))
	for i, a := range r.agents {
		names[i] = a.Name
	}
	return names
}

// SetAgents installs the pool's registry contents as candidates. An
// explicit candidate list given at construction wins.
func (r *Agent) SetAgents(agents []troupe.AgentInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.explicit {
		return
	}
	r.agents = agents
}

// Decide makes one classification call and parses the answer.
func (r *Agent) Decide(ctx context.Context, st *troupe.State, callCount int, last *troupe.LastResult) (string, error) {
	r.mu.Lock()
	candidates := make([]troupe.AgentInfo, len(r.agents))
	copy(candidates, r.agents)
	r.mu.Unlock()

	if len(candidates) == 0 {
		return "", nil
	}

	opts := r.chatOpts
	if r.model != "" {
		opts = append([]troupe.Option{troupe.WithModel(r.model)}, opts...)
	}
	resp, err := r.provider.Chat(ctx, r.decisionPrompt(candidates, st, last), opts...)
	if err != nil {
		var re troupe.RetryableError
		if errors.As(err, &re) {
			return "", err
		}
		return "", &troupe.ModelError{Err: err}
	}

	choice := parseChoice(resp.Content, candidates)
	if choice == "" {
		log.Debugf("router: %s: answer %q selects no agent, stopping", r.name, strings.TrimSpace(resp.Content))
	}
	return choice, nil
}

// decisionPrompt frames the classification: persona and roster as the
// system message, the current situation as the user message.
func (r *Agent) decisionPrompt(candidates []troupe.AgentInfo, st *troupe.State, last *troupe.LastResult) []troupe.Message {
	persona := r.persona
	if persona == "" {
		persona = defaultRoutingPersona
	}

	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\n\nAgents you may pick from:\n")
	for _, a := range candidates {
		if a.Description != "" {
			fmt.Fprintf(&b, "- %s: %s\n", a.Name, a.Description)
		} else {
			fmt.Fprintf(&b, "- %s\n", a.Name)
		}
	}
	fmt.Fprintf(&b, "\nReply with exactly one agent name from the list, or %s when no agent should act next.", StopSentinel)

	var user string
	if last != nil {
		user = fmt.Sprintf("%s produced this output:\n\n%s\n\nWhich agent should act next?", last.Agent, last.Output)
	} else {
		user = fmt.Sprintf("The user asked:\n\n%s\n\nWhich agent should act first?", instruction(st, nil))
	}

	return []troupe.Message{
		troupe.NewSystemMessage(b.String()),
		troupe.NewUserMessage(user),
	}
}

// parseChoice extracts the selected candidate from a model answer, or ""
// for the stop sentinel and anything unrecognizable.
func parseChoice(content string, candidates []troupe.AgentInfo) string {
	answer := strings.TrimSpace(content)
	if i := strings.IndexByte(answer, '\n'); i >= 0 {
		answer = strings.TrimSpace(answer[:i])
	}
	answer = strings.Trim(answer, "\"'`*.")

	if strings.EqualFold(answer, StopSentinel) {
		return ""
	}
	for _, a := range candidates {
		if answer == a.Name {
			return a.Name
		}
	}
	for _, a := range candidates {
		if strings.EqualFold(answer, a.Name) {
			return a.Name
		}
	}
	return ""
}

var (
	_ troupe.Router        = (*Agent)(nil)
	_ troupe.RegistryAware = (*Agent)(nil)
)
