package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onchainiq/internal/schema"
)

func TestInvocationStructuredPath(t *testing.T) {
	inv := NewInvocation(ModeStructured)
	require.NoError(t, inv.Transition(StateRequested))
	require.NoError(t, inv.Transition(StateAwaitingObject))
	require.NoError(t, inv.Transition(StateCompleted))
	assert.True(t, inv.State().Terminal())
	assert.Equal(t, []State{StateIdle, StateRequested, StateAwaitingObject, StateCompleted}, inv.History())
}

func TestInvocationIllegalTransitions(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		path []State
		to   State
	}{
		{"skip requested", ModeStructured, nil, StateAwaitingObject},
		{"idle to completed", ModeStreaming, nil, StateCompleted},
		{"structured cannot stream", ModeStructured, []State{StateRequested}, StateAwaitingFirstToken},
		{"streaming cannot await object", ModeStreaming, []State{StateRequested}, StateAwaitingObject},
		{"object before completion only", ModeStructured, []State{StateRequested, StateAwaitingObject}, StateStreaming},
		{"terminal is final", ModeStreaming, []State{StateRequested, StateAwaitingFirstToken, StateCompleted}, StateStreaming},
		{"no way back", ModeStreaming, []State{StateRequested, StateAwaitingFirstToken, StateStreaming}, StateAwaitingFirstToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := NewInvocation(tt.mode)
			for _, s := range tt.path {
				require.NoError(t, inv.Transition(s))
			}
			before := inv.State()
			err := inv.Transition(tt.to)
			assert.ErrorIs(t, err, ErrIllegalTransition)
			assert.Equal(t, before, inv.State())
		})
	}
}

func TestInvocationFailAndAbort(t *testing.T) {
	idle := NewInvocation(ModeStreaming)
	idle.Fail(errors.New("x"))
	assert.Equal(t, StateIdle, idle.State())
	assert.False(t, idle.Abort())

	inv := NewInvocation(ModeStreaming)
	require.NoError(t, inv.Transition(StateRequested))
	require.NoError(t, inv.Transition(StateAwaitingFirstToken))
	require.NoError(t, inv.Transition(StateStreaming))

	cause := errors.New("reset by peer")
	assert.Equal(t, cause, inv.Fail(cause))
	assert.Equal(t, StateFailed, inv.State())
	assert.Equal(t, cause, inv.Err())

	assert.False(t, inv.Abort())
	inv.Fail(errors.New("later"))
	assert.Equal(t, cause, inv.Err())
	assert.Equal(t, StateFailed, inv.State())
}

func TestClassify(t *testing.T) {
	bg := context.Background()

	cancelled, cancel := context.WithCancel(bg)
	cancel()
	assert.ErrorIs(t, classify(cancelled, cancelled, context.Canceled), ErrAborted)

	expired, cancel2 := context.WithTimeout(bg, 0)
	defer cancel2()
	<-expired.Done()
	assert.ErrorIs(t, classify(bg, expired, errors.New("read tcp: i/o timeout")), ErrProviderTimeout)

	err := classify(bg, bg, errors.New("502 bad gateway"))
	assert.ErrorIs(t, err, ErrProviderTransport)
	assert.Contains(t, err.Error(), "502 bad gateway")
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "completed", outcome(nil))
	assert.Equal(t, "aborted", outcome(ErrAborted))
	assert.Equal(t, "timeout", outcome(ErrProviderTimeout))
	assert.Equal(t, "transport", outcome(ErrProviderTransport))
	assert.Equal(t, "schema", outcome(&schema.SchemaValidationError{Schema: "x"}))
	assert.Equal(t, "failed", outcome(errors.New("other")))
}
