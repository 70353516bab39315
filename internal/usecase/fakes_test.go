package usecase

import (
	"context"
	"errors"
	"io"
	"sync"

	"onchainiq/internal/domain/models"
	"onchainiq/internal/domain/repository"
	"onchainiq/internal/domain/service"
)

type fakeModel struct {
	mu         sync.Mutex
	structured func(ctx context.Context, req service.StructuredRequest) ([]byte, error)
	stream     *fakeStream
	newStream  func() *fakeStream
	streamErr  error
	onStream   func()

	structuredReqs []service.StructuredRequest
	chatReqs       []service.ChatRequest
}

func (m *fakeModel) GenerateStructured(ctx context.Context, req service.StructuredRequest) ([]byte, error) {
	m.mu.Lock()
	m.structuredReqs = append(m.structuredReqs, req)
	fn := m.structured
	m.mu.Unlock()
	return fn(ctx, req)
}

func (m *fakeModel) StreamText(ctx context.Context, req service.ChatRequest) (service.TextStream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatReqs = append(m.chatReqs, req)
	if m.onStream != nil {
		m.onStream()
	}
	if m.streamErr != nil {
		return nil, m.streamErr
	}
	st := m.stream
	if m.newStream != nil {
		st = m.newStream()
	}
	st.mu.Lock()
	st.ctx = ctx
	st.mu.Unlock()
	return st, nil
}

func (m *fakeModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.structuredReqs)
}

var errStreamClosed = errors.New("read on closed stream")

// fakeStream hands out fragments; with block set it waits for its context
// once they run out. With repeat set it never runs out.
type fakeStream struct {
	mu        sync.Mutex
	ctx       context.Context
	fragments []string
	repeat    string
	block     bool
	reads     int
	closes    int
}

func (s *fakeStream) Recv() (string, error) {
	s.mu.Lock()
	if s.closes > 0 {
		s.mu.Unlock()
		return "", errStreamClosed
	}
	if s.repeat != "" {
		s.reads++
		s.mu.Unlock()
		return s.repeat, nil
	}
	if s.reads < len(s.fragments) {
		f := s.fragments[s.reads]
		s.reads++
		s.mu.Unlock()
		return f, nil
	}
	block, ctx := s.block, s.ctx
	s.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return "", io.EOF
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

func (s *fakeStream) snapshot() (reads, closes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads, s.closes
}

type fakeMetrics struct {
	mu          sync.Mutex
	invocations map[string]int
	errs        map[string]int
	fragments   []int
	hits        int
	misses      int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{invocations: map[string]int{}, errs: map[string]int{}}
}

func (m *fakeMetrics) RecordInvocation(mode, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invocations[mode+"/"+outcome]++
}

func (m *fakeMetrics) RecordLatency(string, float64) {}

func (m *fakeMetrics) RecordFragments(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fragments = append(m.fragments, n)
}

func (m *fakeMetrics) RecordCache(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[kind]++
}

func (m *fakeMetrics) invocation(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invocations[key]
}

type fakeEvents struct {
	mu     sync.Mutex
	events []repository.AnalysisEvent
	err    error
}

func (e *fakeEvents) PublishAnalysis(_ context.Context, ev repository.AnalysisEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
	return e.err
}

func (e *fakeEvents) Close() error { return nil }

// brokenData fails token lookups with a non-miss error.
type brokenData struct {
	repository.DataProvider
	err error
}

func (b brokenData) LookupToken(context.Context, string) (*models.TokenInfo, error) {
	return nil, b.err
}
