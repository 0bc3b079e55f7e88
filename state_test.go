package troupe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// namedAgent is the minimal Agent: a name and a description, no behavior.
type namedAgent struct {
	name string
	desc string
}

func (a namedAgent) Name() string        { return a.name }
func (a namedAgent) Description() string { return a.desc }

func (a namedAgent) Run(context.Context, string, *State) (string, []string, error) {
	return "", nil, nil
}

// lastOnlyManager is a HistoryManager whose view is just the newest message.
type lastOnlyManager struct {
	viewErr error
}

func (m lastOnlyManager) Record(context.Context, Message) error { return nil }
func (m lastOnlyManager) Reset(context.Context) error           { return nil }

func (m lastOnlyManager) View(_ context.Context, history []Message) ([]Message, error) {
	if m.viewErr != nil {
		return nil, m.viewErr
	}
	if len(history) == 0 {
		return history, nil
	}
	return history[len(history)-1:], nil
}

func TestStateHistory(t *testing.T) {
	t.Run("append accumulates in order", func(t *testing.T) {
		st := NewState()
		assert.Equal(t, 0, st.HistoryLen())

		st.Append(NewUserMessage("first"))
		st.Append(NewAssistantMessage("triage", "second"))

		require.Equal(t, 2, st.HistoryLen())
		history := st.History()
		assert.Equal(t, "first", history[0].Content)
		assert.Equal(t, "second", history[1].Content)
	})

	t.Run("history returns a copy", func(t *testing.T) {
		st := NewState()
		st.Append(NewUserMessage("original"))

		leaked := st.History()
		leaked[0].Content = "tampered"

		assert.Equal(t, "original", st.History()[0].Content)
	})

	t.Run("last message", func(t *testing.T) {
		st := NewState()

		_, ok := st.LastMessage()
		assert.False(t, ok)

		st.Append(NewUserMessage("first"))
		st.Append(NewUserMessage("newest"))

		last, ok := st.LastMessage()
		require.True(t, ok)
		assert.Equal(t, "newest", last.Content)
	})
}

func TestStateView(t *testing.T) {
	ctx := context.Background()

	st := NewState()
	st.Append(NewUserMessage("one"))
	st.Append(NewUserMessage("two"))
	st.Append(NewUserMessage("three"))

	t.Run("no manager means full history", func(t *testing.T) {
		require.Nil(t, st.HistoryManager())

		view, err := st.View(ctx)
		require.NoError(t, err)
		require.Len(t, view, 3)

		view[0].Content = "tampered"
		assert.Equal(t, "one", st.History()[0].Content)
	})

	t.Run("manager policy applies", func(t *testing.T) {
		st.SetHistoryManager(lastOnlyManager{})
		require.NotNil(t, st.HistoryManager())

		view, err := st.View(ctx)
		require.NoError(t, err)
		require.Len(t, view, 1)
		assert.Equal(t, "three", view[0].Content)

		// The view narrows what an agent sees; canonical history keeps everything.
		assert.Equal(t, 3, st.HistoryLen())
	})

	t.Run("manager errors propagate", func(t *testing.T) {
		boom := errors.New("store unavailable")
		st.SetHistoryManager(lastOnlyManager{viewErr: boom})

		_, err := st.View(ctx)
		assert.ErrorIs(t, err, boom)
	})
}

func TestStateKV(t *testing.T) {
	t.Run("set get delete", func(t *testing.T) {
		st := NewState()

		st.Set("ticket", "T-100")
		v, ok := st.Get("ticket")
		require.True(t, ok)
		assert.Equal(t, "T-100", v)
		assert.True(t, st.Has("ticket"))

		st.Delete("ticket")
		assert.False(t, st.Has("ticket"))
		_, ok = st.Get("ticket")
		assert.False(t, ok)
	})

	t.Run("keys", func(t *testing.T) {
		st := NewStateFrom(map[string]any{"a": 1, "b": 2})
		assert.ElementsMatch(t, []string{"a", "b"}, st.Keys())
	})

	t.Run("typed getters tolerate missing and mistyped values", func(t *testing.T) {
		st := NewStateFrom(map[string]any{
			"name":     "triage",
			"attempts": 3,
			"score":    0.75,
			"done":     true,
		})

		assert.Equal(t, "triage", st.GetString("name"))
		assert.Equal(t, 3, st.GetInt("attempts"))
		assert.Equal(t, 0.75, st.GetFloat("score"))
		assert.True(t, st.GetBool("done"))

		// Missing keys come back as zero values.
		assert.Equal(t, "", st.GetString("missing"))
		assert.Equal(t, 0, st.GetInt("missing"))
		assert.Equal(t, 0.0, st.GetFloat("missing"))
		assert.False(t, st.GetBool("missing"))

		// So do values of the wrong type.
		assert.Equal(t, "", st.GetString("attempts"))
		assert.Equal(t, 0, st.GetInt("name"))
		assert.Equal(t, 0.0, st.GetFloat("done"))
		assert.False(t, st.GetBool("score"))
	})

	t.Run("seed map is copied", func(t *testing.T) {
		seed := map[string]any{"k": "v"}
		st := NewStateFrom(seed)

		seed["k"] = "changed"
		assert.Equal(t, "v", st.GetString("k"))
	})
}

func TestStateAgents(t *testing.T) {
	t.Run("register and look up", func(t *testing.T) {
		st := NewState()
		st.RegisterAgent(namedAgent{name: "triage", desc: "routes tickets"})

		a, ok := st.Agent("triage")
		require.True(t, ok)
		assert.Equal(t, "routes tickets", a.Description())

		_, ok = st.Agent("nonexistent")
		assert.False(t, ok)
	})

	t.Run("nil registration is ignored", func(t *testing.T) {
		st := NewState()
		st.RegisterAgent(nil)
		assert.Empty(t, st.AgentNames())
	})

	t.Run("last registration wins", func(t *testing.T) {
		st := NewState()
		st.RegisterAgent(namedAgent{name: "triage", desc: "first"})
		st.RegisterAgent(namedAgent{name: "triage", desc: "second"})

		a, ok := st.Agent("triage")
		require.True(t, ok)
		assert.Equal(t, "second", a.Description())
		assert.Len(t, st.Agents(), 1)
	})

	t.Run("names are sorted", func(t *testing.T) {
		st := NewState()
		st.RegisterAgent(namedAgent{name: "writer"})
		st.RegisterAgent(namedAgent{name: "critic"})
		st.RegisterAgent(namedAgent{name: "researcher"})

		assert.Equal(t, []string{"critic", "researcher", "writer"}, st.AgentNames())
	})

	t.Run("registry copy does not leak", func(t *testing.T) {
		st := NewState()
		st.RegisterAgent(namedAgent{name: "triage"})

		agents := st.Agents()
		delete(agents, "triage")

		_, ok := st.Agent("triage")
		assert.True(t, ok)
	})
}
