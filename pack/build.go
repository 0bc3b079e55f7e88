package pack

import (
	"context"
	"fmt"
	"time"

	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/agent"
	"github.com/troupe-dev/troupe/pool"
	"github.com/troupe-dev/troupe/router"
	"github.com/troupe-dev/troupe/tool"
)

// BuildOption supplies the non-serializable pieces a document needs to
// become a live pool.
type BuildOption func(*bindings)

type bindings struct {
	handlers   map[string]tool.Handler
	provider   troupe.ChatProvider
	embeddings troupe.EmbeddingProvider
	model      string
}

// WithHandler binds a handler to the named tool. Every tool the document
// defines needs one.
func WithHandler(name string, h tool.Handler) BuildOption {
	return func(b *bindings) { b.handlers[name] = h }
}

// WithProvider binds the chat provider handed to the pool as its agents'
// default. A router of the agent kind requires it, and the semantic kind
// uses it for embeddings when it implements troupe.EmbeddingProvider.
func WithProvider(p troupe.ChatProvider) BuildOption {
	return func(b *bindings) { b.provider = p }
}

// WithEmbeddingProvider binds the embedding provider for a semantic
// router, overriding the probe on the chat provider.
func WithEmbeddingProvider(p troupe.EmbeddingProvider) BuildOption {
	return func(b *bindings) { b.embeddings = p }
}

// WithModel sets the pool's default model reference for agents whose
// definition names none.
func WithModel(model string) BuildOption {
	return func(b *bindings) { b.model = model }
}

// Build reconstructs a live pool from a document. Tools get their handlers
// from WithHandler bindings; a tool without one is an error, as is any
// dangling name reference in the document. A semantic router embeds its
// explicit candidates during Build, which is what ctx is for.
func Build(ctx context.Context, doc *Document, opts ...BuildOption) (*pool.Pool, error) {
	b := &bindings{handlers: make(map[string]tool.Handler)}
	for _, opt := range opts {
		opt(b)
	}

	tools, err := buildTools(doc, b)
	if err != nil {
		return nil, err
	}
	agents, err := buildAgents(doc, tools)
	if err != nil {
		return nil, err
	}
	selected, err := selectAgents(doc, agents)
	if err != nil {
		return nil, err
	}
	rt, err := buildRouter(ctx, doc, selected, b)
	if err != nil {
		return nil, err
	}

	poolOpts := []pool.Option{pool.WithAgents(asAgents(selected)...)}
	if rt != nil {
		poolOpts = append(poolOpts, pool.WithRouter(rt))
	}
	if doc.Pool.MaxIter != nil {
		poolOpts = append(poolOpts, pool.WithMaxIter(*doc.Pool.MaxIter))
	}
	if b.provider != nil {
		poolOpts = append(poolOpts, pool.WithProvider(b.provider))
	}
	if b.model != "" {
		poolOpts = append(poolOpts, pool.WithModel(b.model))
	}
	return pool.New(poolOpts...), nil
}

func buildTools(doc *Document, b *bindings) (map[string]*tool.Tool, error) {
	tools := make(map[string]*tool.Tool, len(doc.Tools))
	for _, def := range doc.Tools {
		if def.Name == "" {
			return nil, fmt.Errorf("pack: tool definition without a name")
		}
		handler, ok := b.handlers[def.Name]
		if !ok {
			return nil, fmt.Errorf("pack: tool %q has no handler binding", def.Name)
		}

		var opts []tool.Option
		if def.TimeoutSeconds != nil {
			opts = append(opts, tool.WithTimeout(seconds(*def.TimeoutSeconds)))
		}
		if def.MaxRetries != nil {
			opts = append(opts, tool.WithMaxRetries(*def.MaxRetries))
		}
		if def.RetryDelaySeconds != nil {
			opts = append(opts, tool.WithRetryDelay(seconds(*def.RetryDelaySeconds)))
		}
		if def.RetryBackoff != nil {
			opts = append(opts, tool.WithRetryBackoff(*def.RetryBackoff))
		}
		if def.OnError != "" {
			mode := tool.OnErrorMode(def.OnError)
			if mode != tool.ModeRaise && mode != tool.ModeReturn {
				return nil, fmt.Errorf("pack: tool %q has unknown on_error %q", def.Name, def.OnError)
			}
			opts = append(opts, tool.WithOnError(mode))
		}
		tools[def.Name] = tool.New(def.Name, def.Description, def.Parameters, handler, opts...)
	}
	return tools, nil
}

func buildAgents(doc *Document, tools map[string]*tool.Tool) (map[string]*agent.Agent, error) {
	agents := make(map[string]*agent.Agent, len(doc.Agents))
	for _, def := range doc.Agents {
		if def.Name == "" {
			return nil, fmt.Errorf("pack: agent definition without a name")
		}

		opts := []agent.Option{
			agent.WithDescription(def.Description),
			agent.WithPersona(def.Persona),
		}
		if def.Model != "" {
			opts = append(opts, agent.WithModel(def.Model))
		}
		for _, name := range def.Tools {
			t, ok := tools[name]
			if !ok {
				return nil, fmt.Errorf("pack: agent %q references unknown tool %q", def.Name, name)
			}
			opts = append(opts, agent.WithTools(t))
		}
		agents[def.Name] = agent.New(def.Name, opts...)
	}
	return agents, nil
}

// selectAgents resolves the pool's agent list against the document's
// definitions, keeping document definition order for the empty list.
func selectAgents(doc *Document, agents map[string]*agent.Agent) ([]*agent.Agent, error) {
	names := doc.Pool.Agents
	if len(names) == 0 {
		names = make([]string, len(doc.Agents))
		for i, def := range doc.Agents {
			names[i] = def.Name
		}
	}
	selected := make([]*agent.Agent, 0, len(names))
	for _, name := range names {
		a, ok := agents[name]
		if !ok {
			return nil, fmt.Errorf("pack: pool references unknown agent %q", name)
		}
		selected = append(selected, a)
	}
	return selected, nil
}

func buildRouter(ctx context.Context, doc *Document, selected []*agent.Agent, b *bindings) (troupe.Router, error) {
	def := doc.Pool.Router
	if def == nil {
		return nil, nil
	}

	switch def.Type {
	case RouterRoundRobin:
		names := def.Agents
		if len(names) == 0 {
			names = make([]string, len(selected))
			for i, a := range selected {
				names[i] = a.Name()
			}
		}
		return router.NewRoundRobin(names...), nil

	case RouterAgent:
		if b.provider == nil {
			return nil, fmt.Errorf("pack: router type %q requires a chat provider binding", def.Type)
		}
		infos, err := candidateInfos(doc, def.Agents)
		if err != nil {
			return nil, err
		}
		var opts []router.AgentOption
		if def.Model != "" {
			opts = append(opts, router.WithModel(def.Model))
		}
		return router.NewAgent("router", b.provider, infos, opts...), nil

	case RouterSemantic:
		ep := b.embeddings
		if ep == nil {
			ep, _ = b.provider.(troupe.EmbeddingProvider)
		}
		if ep == nil {
			return nil, fmt.Errorf("pack: router type %q requires an embedding provider binding", def.Type)
		}
		infos, err := candidateInfos(doc, def.Agents)
		if err != nil {
			return nil, err
		}
		opts := []router.SemanticOption{router.WithMinScore(def.MinScore)}
		if def.Model != "" {
			opts = append(opts, router.WithEmbeddingModel(def.Model))
		}
		return router.NewSemantic(ctx, "router", ep, infos, opts...)

	default:
		return nil, fmt.Errorf("pack: unknown router type %q", def.Type)
	}
}

// candidateInfos resolves router candidate names to name/description pairs
// using the document's agent definitions. An empty name list returns nil,
// which lets the router adopt the pool registry at assembly time.
func candidateInfos(doc *Document, names []string) ([]troupe.AgentInfo, error) {
	if len(names) == 0 {
		return nil, nil
	}
	byName := make(map[string]AgentDef, len(doc.Agents))
	for _, def := range doc.Agents {
		byName[def.Name] = def
	}
	infos := make([]troupe.AgentInfo, 0, len(names))
	for _, name := range names {
		def, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("pack: router references unknown agent %q", name)
		}
		infos = append(infos, troupe.AgentInfo{Name: def.Name, Description: def.Description})
	}
	return infos, nil
}

func asAgents(agents []*agent.Agent) []troupe.Agent {
	out := make([]troupe.Agent, len(agents))
	for i, a := range agents {
		out[i] = a
	}
	return out
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
