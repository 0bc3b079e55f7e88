package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/troupe-dev/troupe"
)

// Registry holds the tools available to an agent. Nothing is registered
// implicitly; callers opt in to builtins with Add(Builtins()...).
//
// All methods are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

// Register adds a tool to the registry. Registering a name that already
// exists returns an error wrapping ErrAlreadyRegistered.
func (r *Registry) Register(t *Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("%q: %w", t.Name, ErrAlreadyRegistered)
	}
	r.tools[t.Name] = t
	return nil
}

// MustRegister is like Register but panics on a duplicate name.
func (r *Registry) MustRegister(t *Tool) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Replace adds a tool, overwriting any existing registration with the same
// name. Used where later definitions win, such as assembling a pool's
// effective tool set.
func (r *Registry) Replace(t *Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name] = t
}

// Add registers tools fluently, panicking on duplicates.
func (r *Registry) Add(tools ...*Tool) *Registry {
	for _, t := range tools {
		r.MustRegister(t)
	}
	return r
}

// Unregister removes a tool by name. Removing an unknown name is a no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tools, name)
}

// Get returns the named tool, or false if it is not registered.
func (r *Registry) Get(name string) (*Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Specs returns wire-level declarations for every registered tool, sorted
// by name so provider payloads are stable across runs.
func (r *Registry) Specs() []troupe.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	specs := make([]troupe.Tool, 0, len(names))
	for _, name := range names {
		specs = append(specs, r.tools[name].Spec())
	}
	return specs
}

// Execute resolves a model-issued tool call and runs it.
//
// Failures the model can recover from (validation problems, tools run in
// ModeReturn) are folded into the ToolResult with IsError set; tools run in
// ModeRaise propagate their failure as an error. An unregistered name is
// always an error: the model was handed a tool list this call is not on.
func (r *Registry) Execute(ctx context.Context, call troupe.ToolCall) (troupe.ToolResult, error) {
	t, ok := r.Get(call.Name)
	if !ok {
		return troupe.ToolResult{}, fmt.Errorf("%q: %w", call.Name, ErrNotFound)
	}

	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			verr := &troupe.ValidationError{Tool: call.Name, Reason: "arguments are not valid JSON: " + err.Error()}
			if t.OnError == ModeRaise {
				return troupe.ToolResult{}, verr
			}
			return errorResult(call.ID, verr.Error()), nil
		}
	}

	res, err := t.Run(ctx, args)
	if err != nil {
		return troupe.ToolResult{}, err
	}

	content, err := json.Marshal(res)
	if err != nil {
		return troupe.ToolResult{}, err
	}
	return troupe.ToolResult{
		ToolCallID: call.ID,
		Content:    string(content),
		IsError:    !res.Success,
	}, nil
}

func errorResult(callID, msg string) troupe.ToolResult {
	content, _ := json.Marshal(Failure(msg))
	return troupe.ToolResult{ToolCallID: callID, Content: string(content), IsError: true}
}
