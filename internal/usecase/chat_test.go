package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onchainiq/internal/domain/models"
	"onchainiq/internal/repository/memory"
	"onchainiq/pkg/logger"
)

var history = []models.ChatMessage{
	{Role: models.ChatRoleUser, Content: "What are whales doing on Solana?"},
}

func newTestChatter(model *fakeModel, cfg ChatConfig) (*Chatter, *fakeMetrics) {
	m := newFakeMetrics()
	return NewChatter(memory.NewProvider(base, logger.Nop()), model, m, logger.Nop(), cfg), m
}

func drain(t *testing.T, s *Stream) []string {
	t.Helper()
	var out []string
	for {
		f, err := s.Recv()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, f)
	}
}

func TestChatStreamsInOrder(t *testing.T) {
	src := &fakeStream{fragments: []string{"Whales ", "are ", "accumulating."}}
	model := &fakeModel{stream: src}
	c, m := newTestChatter(model, ChatConfig{})

	s, err := c.Chat(context.Background(), history)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingFirstToken, s.State())

	assert.Equal(t, []string{"Whales ", "are ", "accumulating."}, drain(t, s))
	assert.Equal(t, StateCompleted, s.State())
	assert.NoError(t, s.Err())
	assert.Equal(t, []State{
		StateIdle, StateRequested, StateAwaitingFirstToken, StateStreaming, StateCompleted,
	}, s.Invocation().History())

	_, err = s.Recv()
	assert.ErrorIs(t, err, io.EOF)

	_, closes := src.snapshot()
	assert.Equal(t, 1, closes)
	assert.Equal(t, 1, m.invocation("streaming/completed"))
	assert.Equal(t, []int{3}, m.fragments)
}

func TestChatRequestCarriesMarketContext(t *testing.T) {
	model := &fakeModel{newStream: func() *fakeStream {
		return &fakeStream{fragments: []string{"ok"}}
	}}
	c, _ := newTestChatter(model, ChatConfig{})

	for i := 0; i < 2; i++ {
		s, err := c.Chat(context.Background(), history)
		require.NoError(t, err)
		assert.Equal(t, []string{"ok"}, drain(t, s))
		assert.Equal(t, StateCompleted, s.State())
	}

	require.Len(t, model.chatReqs, 2)
	req := model.chatReqs[0]
	assert.Equal(t, 2000, req.MaxOutputTokens)
	assert.Equal(t, history, req.Messages)
	assert.True(t, strings.HasPrefix(req.System, "You are OnchainIQ"))
	assert.Contains(t, req.System, "CURRENT MARKET CONTEXT:")
	assert.Contains(t, req.System, "SOLANA")
	assert.Contains(t, req.System, "BNB CHAIN")
	assert.Contains(t, req.System, "- BONK (solana)")
	assert.Equal(t, req.System, model.chatReqs[1].System)
}

func TestChatEmptyStream(t *testing.T) {
	c, _ := newTestChatter(&fakeModel{stream: &fakeStream{}}, ChatConfig{})

	s, err := c.Chat(context.Background(), history)
	require.NoError(t, err)
	assert.Empty(t, drain(t, s))
	assert.Equal(t, []State{
		StateIdle, StateRequested, StateAwaitingFirstToken, StateCompleted,
	}, s.Invocation().History())
}

func TestChatNoMessages(t *testing.T) {
	c, _ := newTestChatter(&fakeModel{stream: &fakeStream{}}, ChatConfig{})
	_, err := c.Chat(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoMessages)
}

func TestChatCloseAfterFirstFragment(t *testing.T) {
	src := &fakeStream{fragments: []string{"one", "two", "three", "four"}}
	c, m := newTestChatter(&fakeModel{stream: src}, ChatConfig{})

	s, err := c.Chat(context.Background(), history)
	require.NoError(t, err)

	f, err := s.Recv()
	require.NoError(t, err)
	assert.Equal(t, "one", f)

	require.NoError(t, s.Close())

	_, err = s.Recv()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, StateAborted, s.State())
	assert.NoError(t, s.Err())
	assert.Equal(t, 1, s.Fragments())

	reads, closes := src.snapshot()
	assert.Equal(t, 1, reads, "provider must not be read after abort")
	assert.Equal(t, 1, closes)

	require.NoError(t, s.Close())
	_, closes = src.snapshot()
	assert.Equal(t, 1, closes)
	assert.Equal(t, 1, m.invocation("streaming/aborted"))
}

func TestChatCancelAfterFirstFragment(t *testing.T) {
	src := &fakeStream{fragments: []string{"one", "two", "three"}}
	c, _ := newTestChatter(&fakeModel{stream: src}, ChatConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := c.Chat(ctx, history)
	require.NoError(t, err)

	f, err := s.Recv()
	require.NoError(t, err)
	assert.Equal(t, "one", f)

	cancel()

	_, err = s.Recv()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, StateAborted, s.State())
	assert.NoError(t, s.Err())

	reads, closes := src.snapshot()
	assert.Equal(t, 1, reads)
	assert.Equal(t, 1, closes)
}

func TestChatCloseWhileBlocked(t *testing.T) {
	src := &fakeStream{fragments: []string{"one"}, block: true}
	c, _ := newTestChatter(&fakeModel{stream: src}, ChatConfig{})

	s, err := c.Chat(context.Background(), history)
	require.NoError(t, err)

	_, err = s.Recv()
	require.NoError(t, err)

	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = s.Close()
	}()

	_, err = s.Recv()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, StateAborted, s.State())
	assert.Equal(t, []State{
		StateIdle, StateRequested, StateAwaitingFirstToken, StateStreaming, StateAborted,
	}, s.Invocation().History())
}

func TestChatTimeout(t *testing.T) {
	src := &fakeStream{fragments: []string{"slow"}, block: true}
	c, m := newTestChatter(&fakeModel{stream: src}, ChatConfig{Timeout: 20 * time.Millisecond})

	s, err := c.Chat(context.Background(), history)
	require.NoError(t, err)

	_, err = s.Recv()
	require.NoError(t, err)

	_, err = s.Recv()
	require.ErrorIs(t, err, ErrProviderTimeout)
	assert.Equal(t, StateFailed, s.State())
	assert.ErrorIs(t, s.Err(), ErrProviderTimeout)

	_, err = s.Recv()
	assert.ErrorIs(t, err, ErrProviderTimeout)
	assert.Equal(t, 1, m.invocation("streaming/timeout"))
}

func TestChatOpenFailure(t *testing.T) {
	model := &fakeModel{streamErr: errors.New("401 unauthorized")}
	c, m := newTestChatter(model, ChatConfig{})

	_, err := c.Chat(context.Background(), history)
	require.ErrorIs(t, err, ErrProviderTransport)
	assert.Equal(t, 1, m.invocation("streaming/transport"))
}

func TestChatOpenAbortedByCaller(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c, _ := newTestChatter(&fakeModel{streamErr: context.Canceled, onStream: cancel}, ChatConfig{})

	s, err := c.Chat(ctx, history)
	require.NoError(t, err)
	assert.Equal(t, StateAborted, s.State())

	_, err = s.Recv()
	assert.ErrorIs(t, err, io.EOF)
}

func TestChatCloseFromAnotherGoroutine(t *testing.T) {
	src := &fakeStream{repeat: "tick "}
	c, m := newTestChatter(&fakeModel{stream: src}, ChatConfig{})

	s, err := c.Chat(context.Background(), history)
	require.NoError(t, err)

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		n := 0
		for {
			if _, err := s.Recv(); err != nil {
				done <- result{n, err}
				return
			}
			n++
		}
	}()

	require.Eventually(t, func() bool { return s.Fragments() > 10 }, time.Second, time.Millisecond)
	require.NoError(t, s.Close())
	atClose := s.Fragments()

	var res result
	select {
	case res = <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop after Close")
	}
	assert.ErrorIs(t, res.err, io.EOF)
	assert.Equal(t, atClose, res.n, "no fragment may be delivered after Close returns")
	assert.Equal(t, atClose, s.Fragments())
	assert.Equal(t, StateAborted, s.State())
	assert.NoError(t, s.Err())

	_, closes := src.snapshot()
	assert.Equal(t, 1, closes)
	assert.Equal(t, 1, m.invocation("streaming/aborted"))
}
