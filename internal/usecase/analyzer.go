package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"onchainiq/internal/domain/models"
	"onchainiq/internal/domain/repository"
	"onchainiq/internal/domain/service"
	"onchainiq/internal/prompt"
	"onchainiq/internal/schema"
	"onchainiq/pkg/logger"
)

type AnalyzerConfig struct {
	MaxOutputTokens int
	Timeout         time.Duration
	RecentTxLimit   int
}

func (c AnalyzerConfig) withDefaults() AnalyzerConfig {
	if c.MaxOutputTokens <= 0 {
		c.MaxOutputTokens = 4000
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.RecentTxLimit <= 0 {
		c.RecentTxLimit = 10
	}
	return c
}

// Analyzer runs structured, schema-validated analyses. It never retries:
// a failed call is returned to the caller as is.
type Analyzer struct {
	data    repository.DataProvider
	model   service.ModelProvider
	metrics repository.Metrics
	logger  *logger.Logger
	cfg     AnalyzerConfig
	now     func() time.Time
}

func NewAnalyzer(
	data repository.DataProvider,
	model service.ModelProvider,
	metrics repository.Metrics,
	log *logger.Logger,
	cfg AnalyzerConfig,
) *Analyzer {
	return &Analyzer{
		data:    data,
		model:   model,
		metrics: metrics,
		logger:  log,
		cfg:     cfg.withDefaults(),
		now:     time.Now,
	}
}

// Prepared is the serialized input of one analysis.
type Prepared struct {
	Query  string
	Bundle prompt.Bundle
	Prompt string
}

// Prepare gathers the records referenced by req and renders the prompt.
// Missing records leave their section out; any other lookup failure is
// returned.
func (a *Analyzer) Prepare(ctx context.Context, req models.AnalysisRequest) (*Prepared, error) {
	start := time.Now()
	var b prompt.Bundle

	if addr := req.TokenAddress(); addr != "" {
		tok, err := a.data.LookupToken(ctx, addr)
		if err := a.lookupErr("token", addr, err); err != nil {
			return nil, err
		}
		b.Token = tok

		liq, err := a.data.LookupLiquidity(ctx, addr)
		if err := a.lookupErr("liquidity", addr, err); err != nil {
			return nil, err
		}
		b.Liquidity = liq

		rug, err := a.data.LookupRugAnalysis(ctx, addr)
		if err := a.lookupErr("rug analysis", addr, err); err != nil {
			return nil, err
		}
		b.RugAnalysis = rug
	}

	whales, err := a.data.ListWhaleWallets(ctx, req.Chain())
	if err != nil {
		return nil, fmt.Errorf("lookup whale wallets: %w", err)
	}
	if addr := req.WalletAddress(); addr != "" {
		w, err := a.data.LookupWallet(ctx, addr)
		if err := a.lookupErr("wallet", addr, err); err != nil {
			return nil, err
		}
		if w != nil {
			whales = withWalletFirst(*w, whales)
		}
	}
	b.RelatedWallets = whales

	txs, err := a.data.ListRecentTransactions(ctx, a.cfg.RecentTxLimit)
	if err != nil {
		return nil, fmt.Errorf("lookup recent transactions: %w", err)
	}
	b.RecentTransactions = txs

	a.metrics.RecordLatency("prepare", time.Since(start).Seconds())
	return &Prepared{
		Query:  req.Query,
		Bundle: b,
		Prompt: prompt.BuildAnalysisPrompt(req.Query, b),
	}, nil
}

// lookupErr turns a miss into nil and wraps everything else.
func (a *Analyzer) lookupErr(what, addr string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		a.logger.Debug("lookup miss, section omitted",
			logger.String("record", what),
			logger.String("address", addr),
		)
		return nil
	}
	return fmt.Errorf("lookup %s %s: %w", what, addr, err)
}

func withWalletFirst(w models.WalletInfo, rest []models.WalletInfo) []models.WalletInfo {
	out := make([]models.WalletInfo, 0, len(rest)+1)
	out = append(out, w)
	for _, r := range rest {
		if r.Address != w.Address {
			out = append(out, r)
		}
	}
	return out
}

// Analyze answers req with a schema-valid AnalysisResult.
func (a *Analyzer) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResponse, error) {
	p, err := a.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return a.Generate(ctx, p)
}

// Generate runs the model on a prepared prompt.
func (a *Analyzer) Generate(ctx context.Context, p *Prepared) (*models.AnalysisResponse, error) {
	result, _, err := Run(ctx, a, schema.Analysis, "analyze", p.Prompt)
	if err != nil {
		return nil, err
	}
	return &models.AnalysisResponse{
		Query:          p.Query,
		AnalysisResult: result,
		DataTimestamp:  a.now().UTC(),
	}, nil
}

// SafetyCheck returns a quick verdict for the token in req.
func (a *Analyzer) SafetyCheck(ctx context.Context, req models.AnalysisRequest) (*models.SafetyCheck, error) {
	p, err := a.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	out, _, err := Run(ctx, a, schema.Safety, "safety", p.Prompt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// WhaleSummary describes what large holders are doing.
func (a *Analyzer) WhaleSummary(ctx context.Context, req models.AnalysisRequest) (*models.WhaleActivity, error) {
	p, err := a.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	out, _, err := Run(ctx, a, schema.Whales, "whales", p.Prompt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// StructuredRequest is what Run sends to the model for sc and promptText.
func StructuredRequest[T any](a *Analyzer, sc *schema.Schema[T], promptText string) service.StructuredRequest {
	return service.StructuredRequest{
		System:          prompt.StructuredSystemPrompt(sc.Describe()),
		Prompt:          promptText,
		SchemaName:      sc.Name(),
		Schema:          sc.JSONSchema(),
		MaxOutputTokens: a.cfg.MaxOutputTokens,
	}
}

// Run performs one structured invocation: a single provider call bounded by
// the configured timeout, then schema validation. The zero T is returned
// with any error.
func Run[T any](ctx context.Context, a *Analyzer, sc *schema.Schema[T], op, promptText string) (T, *Invocation, error) {
	var zero T
	inv := NewInvocation(ModeStructured)

	if err := inv.Transition(StateRequested); err != nil {
		return zero, inv, err
	}
	req := StructuredRequest(a, sc, promptText)

	callCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	if err := inv.Transition(StateAwaitingObject); err != nil {
		return zero, inv, a.end(inv, op, err)
	}
	raw, err := a.model.GenerateStructured(callCtx, req)
	if err != nil {
		return zero, inv, a.end(inv, op, classify(ctx, callCtx, err))
	}

	out, err := sc.Decode(raw)
	if err != nil {
		return zero, inv, a.end(inv, op, err)
	}

	if err := inv.Transition(StateCompleted); err != nil {
		return zero, inv, a.end(inv, op, err)
	}
	a.end(inv, op, nil)
	return out, inv, nil
}

// end settles inv for err and records the outcome. It returns err.
func (a *Analyzer) end(inv *Invocation, op string, err error) error {
	switch {
	case errors.Is(err, ErrAborted):
		inv.Abort()
	case err != nil:
		inv.Fail(err)
		a.metrics.RecordError(outcome(err))
	}
	a.metrics.RecordInvocation(string(ModeStructured), outcome(err))
	a.metrics.RecordLatency(op, inv.Elapsed().Seconds())

	fields := []logger.Field{
		logger.String("mode", string(ModeStructured)),
		logger.String("op", op),
		logger.String("state", string(inv.State())),
		logger.Duration("duration_ms", inv.Elapsed()),
	}
	if err != nil {
		a.logger.Warn("structured invocation ended without result", append(fields, logger.Error(err))...)
		return err
	}
	a.logger.Info("structured invocation completed", fields...)
	return nil
}
