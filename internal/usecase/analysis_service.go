package usecase

import (
	"context"
	"errors"
	"time"

	"onchainiq/internal/domain/models"
	"onchainiq/internal/domain/repository"
	"onchainiq/internal/schema"
	"onchainiq/pkg/cache"
	"onchainiq/pkg/logger"
)

const defaultCacheTTL = 5 * time.Minute

// AnalysisService puts the response cache and the event feed around an
// Analyzer. Neither is allowed to fail a request.
type AnalysisService struct {
	analyzer *Analyzer
	cache    cache.Service
	ttl      time.Duration
	events   repository.EventPublisher
	metrics  repository.Metrics
	logger   *logger.Logger
}

// NewAnalysisService wires the service. c and events may be nil.
func NewAnalysisService(
	analyzer *Analyzer,
	c cache.Service,
	ttl time.Duration,
	events repository.EventPublisher,
	metrics repository.Metrics,
	log *logger.Logger,
) *AnalysisService {
	if c == nil {
		c = cache.Noop{}
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &AnalysisService{
		analyzer: analyzer,
		cache:    c,
		ttl:      ttl,
		events:   events,
		metrics:  metrics,
		logger:   log,
	}
}

// CacheKey derives the cache key of a prepared analysis from the exact text
// sent to the model.
func (s *AnalysisService) CacheKey(p *Prepared) string {
	req := StructuredRequest(s.analyzer, schema.Analysis, p.Prompt)
	return cache.GenerateKey("analysis", cache.HashKey(req.SchemaName, req.System, req.Prompt))
}

func (s *AnalysisService) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResponse, error) {
	p, err := s.analyzer.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	key := s.CacheKey(p)

	hit, err := cache.GetJSON[models.AnalysisResponse](ctx, s.cache, key)
	switch {
	case err == nil:
		s.metrics.RecordCache(true)
		hit.Cached = true
		s.publish(ctx, req, &hit)
		return &hit, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		s.logger.Warn("analysis cache read failed", logger.String("key", key), logger.Error(err))
	}
	s.metrics.RecordCache(false)

	resp, err := s.analyzer.Generate(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, s.cache, key, resp, s.ttl); err != nil {
		s.logger.Warn("analysis cache write failed", logger.String("key", key), logger.Error(err))
	}
	s.publish(ctx, req, resp)
	return resp, nil
}

func (s *AnalysisService) SafetyCheck(ctx context.Context, req models.AnalysisRequest) (*models.SafetyCheck, error) {
	return s.analyzer.SafetyCheck(ctx, req)
}

func (s *AnalysisService) WhaleSummary(ctx context.Context, req models.AnalysisRequest) (*models.WhaleActivity, error) {
	return s.analyzer.WhaleSummary(ctx, req)
}

func (s *AnalysisService) publish(ctx context.Context, req models.AnalysisRequest, resp *models.AnalysisResponse) {
	if s.events == nil {
		return
	}
	ev := repository.AnalysisEvent{
		Kind:           "analysis",
		Query:          req.Query,
		TokenAddress:   req.TokenAddress(),
		Bias:           string(resp.Bias),
		RiskScore:      resp.RiskScore,
		RugProbability: resp.RugProbability,
		Cached:         resp.Cached,
		At:             time.Now().UnixMilli(),
	}
	if err := s.events.PublishAnalysis(ctx, ev); err != nil {
		s.logger.Warn("publish analysis event failed", logger.Error(err))
	}
}
