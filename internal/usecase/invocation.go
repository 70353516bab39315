package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"onchainiq/internal/schema"
)

var (
	// ErrProviderTimeout means the model did not answer within the
	// invocation's deadline.
	ErrProviderTimeout = errors.New("model provider timed out")
	// ErrProviderTransport covers every other failure to talk to the model.
	ErrProviderTransport = errors.New("model provider transport error")
	// ErrAborted is returned by structured calls whose caller went away.
	// Aborted streams are not errors.
	ErrAborted = errors.New("invocation aborted by caller")
	// ErrIllegalTransition is a programming error in the invoker.
	ErrIllegalTransition = errors.New("illegal invocation transition")
)

type Mode string

const (
	ModeStructured Mode = "structured"
	ModeStreaming  Mode = "streaming"
)

type State string

const (
	StateIdle               State = "idle"
	StateRequested          State = "requested"
	StateAwaitingObject     State = "awaiting_object"
	StateAwaitingFirstToken State = "awaiting_first_token"
	StateStreaming          State = "streaming"
	StateCompleted          State = "completed"
	StateAborted            State = "aborted"
	StateFailed             State = "failed"
)

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateAborted || s == StateFailed
}

var transitions = map[State][]State{
	StateIdle:               {StateRequested},
	StateRequested:          {StateAwaitingObject, StateAwaitingFirstToken},
	StateAwaitingObject:     {StateCompleted},
	StateAwaitingFirstToken: {StateStreaming, StateCompleted},
	StateStreaming:          {StateCompleted},
}

// Invocation tracks one model call through its lifecycle. Failed and aborted
// are reachable from every non-terminal state. Safe for concurrent use.
type Invocation struct {
	mu      sync.Mutex
	mode    Mode
	state   State
	err     error
	history []State
	started time.Time
}

func NewInvocation(mode Mode) *Invocation {
	return &Invocation{
		mode:    mode,
		state:   StateIdle,
		history: []State{StateIdle},
		started: time.Now(),
	}
}

func (i *Invocation) Mode() Mode { return i.mode }

func (i *Invocation) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// Err is the failure cause, nil unless the state is failed.
func (i *Invocation) Err() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.err
}

// History lists every state entered, in order.
func (i *Invocation) History() []State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]State(nil), i.history...)
}

func (i *Invocation) Elapsed() time.Duration { return time.Since(i.started) }

// Transition moves to a non-terminal-failure state.
func (i *Invocation) Transition(to State) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.allowed(to) {
		return fmt.Errorf("%w: %s -> %s (%s)", ErrIllegalTransition, i.state, to, i.mode)
	}
	i.enter(to)
	return nil
}

func (i *Invocation) allowed(to State) bool {
	if i.state.Terminal() {
		return false
	}
	if to == StateFailed || to == StateAborted {
		return i.state != StateIdle
	}
	switch to {
	case StateAwaitingObject:
		if i.mode != ModeStructured {
			return false
		}
	case StateAwaitingFirstToken, StateStreaming:
		if i.mode != ModeStreaming {
			return false
		}
	}
	for _, s := range transitions[i.state] {
		if s == to {
			return true
		}
	}
	return false
}

func (i *Invocation) enter(to State) {
	i.state = to
	i.history = append(i.history, to)
}

// Fail records cause and moves to failed. It returns cause so call sites
// can write `return inv.Fail(err)`. A terminal invocation is left as is.
func (i *Invocation) Fail(cause error) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.allowed(StateFailed) {
		i.err = cause
		i.enter(StateFailed)
	}
	return cause
}

// Abort moves to aborted. It reports false when the invocation had already
// ended.
func (i *Invocation) Abort() bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.allowed(StateAborted) {
		return false
	}
	i.enter(StateAborted)
	return true
}

// classify maps a provider error to the invoker's error kinds. parent is the
// caller's context, call the derived context carrying the invocation timeout.
func classify(parent, call context.Context, err error) error {
	switch {
	case errors.Is(parent.Err(), context.Canceled):
		return fmt.Errorf("%w: %w", ErrAborted, err)
	case errors.Is(call.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrProviderTimeout, err)
	default:
		return fmt.Errorf("%w: %w", ErrProviderTransport, err)
	}
}

// outcome is the metrics label for an invocation's final state.
func outcome(err error) string {
	switch {
	case err == nil:
		return "completed"
	case errors.Is(err, ErrAborted):
		return "aborted"
	case errors.Is(err, ErrProviderTimeout):
		return "timeout"
	case errors.Is(err, ErrProviderTransport):
		return "transport"
	case errors.Is(err, schema.ErrSchemaValidation):
		return "schema"
	default:
		return "failed"
	}
}
