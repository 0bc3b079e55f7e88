package agent

import (
	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/tool"
)

// Option configures an Agent during construction.
type Option func(*Agent)

// WithDescription sets the capability summary routers use to pick this
// agent.
func WithDescription(description string) Option {
	return func(a *Agent) {
		a.description = description
	}
}

// WithPersona sets the system prompt prepended to every turn.
func WithPersona(persona string) Option {
	return func(a *Agent) {
		a.persona = persona
	}
}

// WithProvider sets the chat provider. An agent without a provider adopts
// the pool's default when assembled into one.
func WithProvider(p troupe.ChatProvider) Option {
	return func(a *Agent) {
		a.provider = p
	}
}

// WithModel sets the model reference passed to the provider. An agent
// without a model adopts the pool's default when assembled into one.
func WithModel(model string) Option {
	return func(a *Agent) {
		a.model = model
	}
}

// WithTools registers tools on the agent's registry. Later tools with the
// same name win.
func WithTools(tools ...*tool.Tool) Option {
	return func(a *Agent) {
		for _, t := range tools {
			a.registry.Replace(t)
		}
	}
}

// WithRegistry replaces the agent's tool registry wholesale. Useful for
// sharing one registry across agents.
func WithRegistry(reg *tool.Registry) Option {
	return func(a *Agent) {
		if reg != nil {
			a.registry = reg
		}
	}
}

// WithMaxToolRounds bounds how many tool-dispatch cycles one turn may
// make before the turn ends with whatever content the model produced.
func WithMaxToolRounds(n int) Option {
	return func(a *Agent) {
		if n >= 0 {
			a.maxToolRounds = n
		}
	}
}

// WithTracing explicitly enables or disables trace logging for this
// agent, overriding any pool default.
func WithTracing(enabled bool) Option {
	return func(a *Agent) {
		a.tracing = &enabled
	}
}

// WithChatOptions appends options passed through to every provider call,
// after the agent's own model and tool options.
func WithChatOptions(opts ...troupe.Option) Option {
	return func(a *Agent) {
		a.chatOpts = append(a.chatOpts, opts...)
	}
}

// WithMaxTokens caps response length on every provider call.
func WithMaxTokens(n int) Option {
	return WithChatOptions(troupe.WithMaxTokens(n))
}

// WithTemperature sets sampling temperature on every provider call.
func WithTemperature(t float64) Option {
	return WithChatOptions(troupe.WithTemperature(t))
}
