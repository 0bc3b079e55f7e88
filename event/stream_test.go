package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamStampsCorrelation(t *testing.T) {
	ch := NewChannel()
	s := NewStream(ch, "run-1").ForTurn(2, "helper")

	s.Emit(Event{Type: MessageDelta, Delta: "hi"})

	e := <-ch
	assert.Equal(t, "run-1", e.RunID)
	assert.Equal(t, 2, e.Turn)
	assert.Equal(t, "helper", e.Agent)
	assert.Equal(t, "hi", e.Delta)
}

func TestStreamDoesNotOverrideExplicitFields(t *testing.T) {
	ch := NewChannel()
	s := NewStream(ch, "run-1").ForTurn(2, "helper")

	s.Emit(Event{Type: RouteDecision, Agent: "other"})

	e := <-ch
	assert.Equal(t, "other", e.Agent)
	assert.Equal(t, "run-1", e.RunID)
}

func TestNilStreamDropsEverything(t *testing.T) {
	var s *Stream
	assert.NotPanics(t, func() {
		s.Emit(Event{Type: RunStart})
		s.ForTurn(1, "helper").Emit(Event{Type: TurnStart})
	})
	assert.Nil(t, NewStream(nil, "run-1"))
}

func TestStreamTeeForwardsCopies(t *testing.T) {
	primary := NewChannel()
	observer := NewChannel()
	s := NewStream(primary, "run-1").Tee(observer)

	s.Emit(Event{Type: TurnStart, Agent: "helper"})

	a := <-primary
	b := <-observer
	assert.Equal(t, a, b, "both channels receive the same stamped event")
	assert.Equal(t, "run-1", a.RunID)
	assert.False(t, a.Timestamp.IsZero())
}

func TestStreamTeeNilChannel(t *testing.T) {
	ch := NewChannel()
	s := NewStream(ch, "run-1")
	assert.Same(t, s, s.Tee(nil))

	var nilStream *Stream
	assert.Nil(t, nilStream.Tee(ch))
}

func TestStreamContextRoundTrip(t *testing.T) {
	ch := NewChannel()
	s := NewStream(ch, "run-1")

	ctx := WithStream(context.Background(), s)
	require.Same(t, s, StreamFromContext(ctx))

	assert.Nil(t, StreamFromContext(context.Background()))
	assert.Equal(t, context.Background(), WithStream(context.Background(), nil))
}
