package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"onchainiq/internal/domain/models"
	"onchainiq/internal/domain/repository"
	"onchainiq/internal/domain/service"
	"onchainiq/internal/prompt"
	"onchainiq/pkg/logger"
)

var ErrNoMessages = errors.New("chat needs at least one message")

type ChatConfig struct {
	MaxOutputTokens int
	Timeout         time.Duration
}

func (c ChatConfig) withDefaults() ChatConfig {
	if c.MaxOutputTokens <= 0 {
		c.MaxOutputTokens = 2000
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	return c
}

// Chatter runs conversational turns streamed as free text.
type Chatter struct {
	data    repository.DataProvider
	model   service.ModelProvider
	metrics repository.Metrics
	logger  *logger.Logger
	cfg     ChatConfig
}

func NewChatter(
	data repository.DataProvider,
	model service.ModelProvider,
	metrics repository.Metrics,
	log *logger.Logger,
	cfg ChatConfig,
) *Chatter {
	return &Chatter{data: data, model: model, metrics: metrics, logger: log, cfg: cfg.withDefaults()}
}

var marketChains = []models.Chain{models.ChainSolana, models.ChainBNB}

// Snapshot reads the current market state for the chat context block.
func (c *Chatter) Snapshot(ctx context.Context) (prompt.MarketSnapshot, error) {
	var s prompt.MarketSnapshot
	for _, chain := range marketChains {
		o, err := c.data.MarketOverview(ctx, chain)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return s, fmt.Errorf("market overview %s: %w", chain, err)
		}
		s.Overviews = append(s.Overviews, *o)
	}

	tokens, err := c.data.ListTokens(ctx, "")
	if err != nil {
		return s, fmt.Errorf("list tokens: %w", err)
	}
	s.Tokens = tokens

	whales, err := c.data.ListWhaleWallets(ctx, "")
	if err != nil {
		return s, fmt.Errorf("list whale wallets: %w", err)
	}
	s.Whales = whales
	return s, nil
}

// Chat opens a streamed reply to messages. The market context is rebuilt on
// every call. Cancelling ctx or closing the Stream aborts the turn; text
// already received stands.
func (c *Chatter) Chat(ctx context.Context, messages []models.ChatMessage) (*Stream, error) {
	if len(messages) == 0 {
		return nil, ErrNoMessages
	}

	inv := NewInvocation(ModeStreaming)
	if err := inv.Transition(StateRequested); err != nil {
		return nil, err
	}

	snap, err := c.Snapshot(ctx)
	if err != nil {
		inv.Fail(err)
		c.metrics.RecordInvocation(string(ModeStreaming), outcome(err))
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	s := &Stream{
		inv:     inv,
		parent:  ctx,
		callCtx: callCtx,
		cancel:  cancel,
		metrics: c.metrics,
		logger:  c.logger.With(logger.String("mode", string(ModeStreaming))),
	}

	if err := inv.Transition(StateAwaitingFirstToken); err != nil {
		s.finish(err)
		return nil, err
	}

	src, err := c.model.StreamText(callCtx, service.ChatRequest{
		System:          prompt.ChatSystemPrompt(snap),
		Messages:        messages,
		MaxOutputTokens: c.cfg.MaxOutputTokens,
	})
	if err != nil {
		err = classify(ctx, callCtx, err)
		if errors.Is(err, ErrAborted) {
			s.finish(nil)
			return s, nil
		}
		s.finish(err)
		return nil, err
	}
	s.src = src
	return s, nil
}

// Stream is the lazy, finite sequence of text fragments of one chat turn.
// Recv is for a single consumer; Close may be called from any goroutine.
type Stream struct {
	inv     *Invocation
	src     service.TextStream
	parent  context.Context
	callCtx context.Context
	cancel  context.CancelFunc
	metrics repository.Metrics
	logger  *logger.Logger

	// mu orders fragment hand-off against abort.
	mu        sync.Mutex
	fragments int
	release   sync.Once
	ended     sync.Once
}

// Recv returns the next fragment in generation order. It returns io.EOF
// when the reply is complete or the turn was aborted, and the failure
// otherwise.
func (s *Stream) Recv() (string, error) {
	switch st := s.inv.State(); {
	case st == StateFailed:
		return "", s.inv.Err()
	case st.Terminal():
		return "", io.EOF
	}
	if errors.Is(s.parent.Err(), context.Canceled) {
		s.finish(nil)
		return "", io.EOF
	}

	frag, err := s.src.Recv()

	switch {
	case err == nil:
		return s.deliver(frag)
	case s.aborted():
		s.finish(nil)
		return "", io.EOF
	case errors.Is(err, io.EOF):
		if terr := s.inv.Transition(StateCompleted); terr != nil {
			if s.inv.State() == StateAborted {
				s.finish(nil)
				return "", io.EOF
			}
			s.finish(terr)
			return "", terr
		}
		s.finish(nil)
		return "", io.EOF
	default:
		err = classify(s.parent, s.callCtx, err)
		if errors.Is(err, ErrAborted) {
			s.finish(nil)
			return "", io.EOF
		}
		s.finish(err)
		return "", err
	}
}

// deliver hands frag to the caller unless the turn was aborted while the
// read was in flight. Abort takes mu, so no fragment escapes after Close.
func (s *Stream) deliver(frag string) (string, error) {
	s.mu.Lock()
	if s.aborted() {
		s.mu.Unlock()
		s.finish(nil)
		return "", io.EOF
	}
	if s.fragments == 0 {
		if terr := s.inv.Transition(StateStreaming); terr != nil {
			s.mu.Unlock()
			s.finish(terr)
			return "", terr
		}
	}
	s.fragments++
	s.mu.Unlock()
	return frag, nil
}

func (s *Stream) aborted() bool {
	return s.inv.State() == StateAborted || errors.Is(s.parent.Err(), context.Canceled)
}

// Close aborts the turn if it is still running and releases the provider
// stream. It is safe to call more than once.
func (s *Stream) Close() error {
	s.finish(nil)
	return nil
}

func (s *Stream) State() State { return s.inv.State() }

// Err is the failure of the turn. An aborted or completed turn has none.
func (s *Stream) Err() error { return s.inv.Err() }

// Fragments counts the fragments delivered so far.
func (s *Stream) Fragments() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fragments
}

func (s *Stream) Invocation() *Invocation { return s.inv }

// finish settles the invocation once: err fails it, a nil err on a running
// invocation aborts it. The provider stream is released either way.
func (s *Stream) finish(err error) {
	s.mu.Lock()
	if err != nil {
		s.inv.Fail(err)
	} else {
		s.inv.Abort()
	}
	s.mu.Unlock()

	s.release.Do(func() {
		s.cancel()
		if s.src != nil {
			_ = s.src.Close()
		}
	})

	s.ended.Do(func() {
		state := s.inv.State()
		fragments := s.Fragments()
		label := string(state)
		if state == StateFailed {
			label = outcome(s.inv.Err())
			s.metrics.RecordError(label)
		}
		s.metrics.RecordInvocation(string(ModeStreaming), label)
		s.metrics.RecordFragments(fragments)
		s.metrics.RecordLatency("chat", s.inv.Elapsed().Seconds())

		fields := []logger.Field{
			logger.String("state", string(state)),
			logger.Int("fragments", fragments),
			logger.Duration("duration_ms", s.inv.Elapsed()),
		}
		if state == StateFailed {
			s.logger.Warn("chat stream failed", append(fields, logger.Error(s.inv.Err()))...)
			return
		}
		s.logger.Info("chat stream ended", fields...)
	})
}
