package troupe

import (
	"context"
	"sort"
	"sync"

	"github.com/troupe-dev/troupe/log"
)

// HistoryManager governs what subset of canonical history an agent sees and
// mirrors appended messages into a persistence store. Implemented by
// history.Manager; the zero configuration (nil manager) means full history.
type HistoryManager interface {
	// Record mirrors an appended message into the manager's store.
	Record(ctx context.Context, msg Message) error
	// View produces the agent-visible subset of history.
	// It must not mutate the input slice.
	View(ctx context.Context, history []Message) ([]Message, error)
	// Reset clears the manager's store.
	Reset(ctx context.Context) error
}

// State is shared mutable conversation state: the message history, a generic
// key/value store, and the agent registry. A State is created once per Pool
// (explicitly supplied or default-constructed) and survives across Run calls;
// history accumulates and is never reset mid-run.
//
// All methods are safe for concurrent use. Run-level serialization (one run
// at a time per Pool) is the Pool's responsibility.
type State struct {
	mu      sync.RWMutex
	history []Message
	data    map[string]any
	agents  map[string]Agent
	manager HistoryManager
}

// NewState creates a new empty state.
func NewState() *State {
	return &State{
		data:   make(map[string]any),
		agents: make(map[string]Agent),
	}
}

// NewStateFrom creates state with an initial key/value map.
func NewStateFrom(data map[string]any) *State {
	s := NewState()
	for k, v := range data {
		s.data[k] = v
	}
	return s
}

// Append adds a message to the canonical history.
func (s *State) Append(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, msg)
}

// History returns a copy of the canonical history.
func (s *State) History() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

// HistoryLen returns the number of messages in canonical history.
func (s *State) HistoryLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// LastMessage returns the most recent message and true, or a zero message
// and false when history is empty.
func (s *State) LastMessage() (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.history) == 0 {
		return Message{}, false
	}
	return s.history[len(s.history)-1], true
}

// View returns the history subset an agent may see. With no history manager
// configured this is the full history; otherwise the manager's policy
// (truncation or compaction) applies. The canonical history is never mutated.
func (s *State) View(ctx context.Context) ([]Message, error) {
	s.mu.RLock()
	manager := s.manager
	s.mu.RUnlock()

	history := s.History()
	if manager == nil {
		return history, nil
	}
	return manager.View(ctx, history)
}

// SetHistoryManager installs the bounded-context policy for this state.
func (s *State) SetHistoryManager(m HistoryManager) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manager = m
}

// HistoryManager returns the installed history manager, or nil.
func (s *State) HistoryManager() HistoryManager {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manager
}

// Get retrieves a value from the key/value store.
func (s *State) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// GetString retrieves a string value. Returns empty string if not found or not a string.
func (s *State) GetString(key string) string {
	v, ok := s.Get(key)
	if !ok {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return ""
}

// GetInt retrieves an int value. Returns 0 if not found or not an int.
func (s *State) GetInt(key string) int {
	v, ok := s.Get(key)
	if !ok {
		return 0
	}
	if i, ok := v.(int); ok {
		return i
	}
	return 0
}

// GetFloat retrieves a float64 value. Returns 0 if not found or not a float64.
func (s *State) GetFloat(key string) float64 {
	v, ok := s.Get(key)
	if !ok {
		return 0
	}
	if f, ok := v.(float64); ok {
		return f
	}
	return 0
}

// GetBool retrieves a bool value. Returns false if not found or not a bool.
func (s *State) GetBool(key string) bool {
	v, ok := s.Get(key)
	if !ok {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}

// Set stores a value in the key/value store.
func (s *State) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// Delete removes a key from the key/value store.
func (s *State) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Has returns true if the key exists in the key/value store.
func (s *State) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[key]
	return ok
}

// Keys returns all key/value store keys.
func (s *State) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// RegisterAgent adds an agent to the registry under its name. Registering a
// name twice replaces the earlier entry; the last registration wins. The
// replacement is logged because it is usually a configuration slip rather
// than an intentional override.
func (s *State) RegisterAgent(a Agent) {
	if a == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.agents[a.Name()]; exists {
		log.Debugf("state: agent %q registered twice, last registration wins", a.Name())
	}
	s.agents[a.Name()] = a
}

// Agent retrieves a registered agent by name.
func (s *State) Agent(name string) (Agent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.agents[name]
	return a, ok
}

// Agents returns a copy of the agent registry.
func (s *State) Agents() map[string]Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Agent, len(s.agents))
	for name, a := range s.agents {
		out[name] = a
	}
	return out
}

// AgentNames returns the registered agent names in sorted order.
func (s *State) AgentNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.agents))
	for name := range s.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
