package store

import (
	"context"
	"sync"

	"github.com/troupe-dev/troupe"
)

// Memory keeps the transcript in process memory.
type Memory struct {
	mu   sync.RWMutex
	msgs []troupe.Message
}

// NewMemory creates an empty in-memory transcript store.
func NewMemory() *Memory {
	return &Memory{}
}

// Append adds messages to the end of the transcript.
func (m *Memory) Append(_ context.Context, msgs ...troupe.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msgs...)
	return nil
}

// Load returns a copy of the transcript in insertion order.
func (m *Memory) Load(_ context.Context) ([]troupe.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]troupe.Message, len(m.msgs))
	copy(out, m.msgs)
	return out, nil
}

// Len reports the number of stored messages.
func (m *Memory) Len(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.msgs), nil
}

// Clear removes the whole transcript.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = nil
	return nil
}
