// Package history bounds the conversation context an agent sees.
//
// A Manager mirrors every recorded message into a store.Adapter and derives
// the agent-visible view of canonical history on demand. Trimming is
// presentational: the canonical history owned by the State is never edited,
// a View call just decides what the next agent invocation gets to read.
package history

import (
	"context"

	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/log"
	"github.com/troupe-dev/troupe/store"
)

// Strategy selects how View trims history once it exceeds the cap.
type Strategy string

const (
	// StrategyNone presents the full history unchanged.
	StrategyNone Strategy = "none"

	// StrategyTruncateOldest keeps the newest messages, retaining earlier
	// system messages ahead of them.
	StrategyTruncateOldest Strategy = "truncate_oldest"

	// StrategySmart compacts older messages into a single system digest,
	// keeping the newest messages verbatim.
	StrategySmart Strategy = "smart"
)

// Config holds history management parameters.
type Config struct {
	// AutoManage toggles context management. When false, View returns the
	// full history regardless of strategy.
	AutoManage bool

	// MaxContextMessages caps how many recent messages an agent sees.
	// Default is 10.
	MaxContextMessages int

	// Strategy selects the trimming behavior. Default is StrategyNone.
	Strategy Strategy

	// Store receives every recorded message. Default is store.NewMemory().
	Store store.Adapter

	// Summarizer produces the digest for StrategySmart. Nil uses the
	// deterministic Compact fallback.
	Summarizer Summarizer
}

// Option is a functional option for configuring a Manager.
type Option func(*Config)

// WithAutoManage toggles context management. Default is enabled.
func WithAutoManage(enabled bool) Option {
	return func(c *Config) {
		c.AutoManage = enabled
	}
}

// WithMaxContextMessages caps how many recent messages an agent sees.
// Default is 10.
func WithMaxContextMessages(n int) Option {
	return func(c *Config) {
		c.MaxContextMessages = n
	}
}

// WithStrategy selects the trimming behavior.
func WithStrategy(s Strategy) Option {
	return func(c *Config) {
		c.Strategy = s
	}
}

// WithStore sets the persistence backend for recorded messages.
func WithStore(s store.Adapter) Option {
	return func(c *Config) {
		c.Store = s
	}
}

// WithSummarizer sets the model-backed summarizer for StrategySmart.
func WithSummarizer(s Summarizer) Option {
	return func(c *Config) {
		c.Summarizer = s
	}
}

// Manager mirrors recorded messages into its store and derives the
// agent-visible view of history. Implements troupe.HistoryManager.
type Manager struct {
	cfg Config
}

// New creates a Manager. Without options it is a pure persistence mirror:
// messages are recorded into an in-memory store and View presents history
// unchanged.
func New(opts ...Option) *Manager {
	cfg := Config{
		AutoManage:         true,
		MaxContextMessages: 10,
		Strategy:           StrategyNone,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemory()
	}
	if cfg.MaxContextMessages <= 0 {
		cfg.MaxContextMessages = 10
	}
	return &Manager{cfg: cfg}
}

// Record mirrors an appended message into the store.
func (m *Manager) Record(ctx context.Context, msg troupe.Message) error {
	return m.cfg.Store.Append(ctx, msg)
}

// Reset clears the backing store.
func (m *Manager) Reset(ctx context.Context) error {
	return m.cfg.Store.Clear(ctx)
}

// Store returns the backing store.
func (m *Manager) Store() store.Adapter {
	return m.cfg.Store
}

// View derives the agent-visible subset of history. The input slice is never
// mutated. Management turned off, strategy none, or a history already within
// the cap all come back as a plain copy.
func (m *Manager) View(ctx context.Context, history []troupe.Message) ([]troupe.Message, error) {
	if !m.cfg.AutoManage || len(history) <= m.cfg.MaxContextMessages {
		return copied(history), nil
	}

	switch m.cfg.Strategy {
	case StrategyTruncateOldest:
		return m.truncate(history), nil
	case StrategySmart:
		return m.compact(ctx, history), nil
	default:
		return copied(history), nil
	}
}

// truncate keeps the newest MaxContextMessages messages, with any earlier
// system messages retained ahead of them.
func (m *Manager) truncate(history []troupe.Message) []troupe.Message {
	cut := len(history) - m.cfg.MaxContextMessages
	out := make([]troupe.Message, 0, m.cfg.MaxContextMessages+2)
	for _, msg := range history[:cut] {
		if msg.Role == troupe.RoleSystem {
			out = append(out, msg)
		}
	}
	return append(out, history[cut:]...)
}

// compact folds everything before the newest window into one system digest.
// A configured summarizer that fails degrades to the deterministic digest;
// a run never dies on a summarizer error.
func (m *Manager) compact(ctx context.Context, history []troupe.Message) []troupe.Message {
	cut := len(history) - m.cfg.MaxContextMessages
	older, newest := history[:cut], history[cut:]

	out := make([]troupe.Message, 0, m.cfg.MaxContextMessages+2)
	rest := make([]troupe.Message, 0, len(older))
	for _, msg := range older {
		if msg.Role == troupe.RoleSystem {
			out = append(out, msg)
		} else {
			rest = append(rest, msg)
		}
	}

	if len(rest) > 0 {
		var summary string
		if m.cfg.Summarizer != nil {
			s, err := m.cfg.Summarizer.Summarize(ctx, rest)
			if err != nil {
				log.Warnf("history: summarizer failed, falling back to compaction: %v", err)
			} else {
				summary = s
			}
		}
		if summary == "" {
			summary = Compact(rest)
		}
		out = append(out, troupe.NewSystemMessage(summary))
	}

	return append(out, newest...)
}

func copied(history []troupe.Message) []troupe.Message {
	out := make([]troupe.Message, len(history))
	copy(out, history)
	return out
}
