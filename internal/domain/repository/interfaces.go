package repository

import (
	"context"

	"onchainiq/internal/domain/models"
)

// DataProvider serves read-only on-chain snapshots. Misses return ErrNotFound.
type DataProvider interface {
	LookupToken(ctx context.Context, address string) (*models.TokenInfo, error)
	LookupLiquidity(ctx context.Context, tokenAddress string) (*models.TokenLiquidity, error)
	LookupRugAnalysis(ctx context.Context, tokenAddress string) (*models.RugAnalysis, error)
	LookupWallet(ctx context.Context, address string) (*models.WalletInfo, error)
	// ListWhaleWallets returns all whales when chain is empty.
	ListWhaleWallets(ctx context.Context, chain models.Chain) ([]models.WalletInfo, error)
	ListRecentTransactions(ctx context.Context, limit int) ([]models.WalletTransaction, error)
	// ListTokens returns all tracked tokens when chain is empty.
	ListTokens(ctx context.Context, chain models.Chain) ([]models.TokenInfo, error)
	MarketOverview(ctx context.Context, chain models.Chain) (*models.MarketOverview, error)
}

// AnalysisEvent is emitted after a structured analysis completes.
type AnalysisEvent struct {
	Kind           string  `json:"kind"`
	Query          string  `json:"query"`
	TokenAddress   string  `json:"tokenAddress,omitempty"`
	Bias           string  `json:"bias,omitempty"`
	RiskScore      float64 `json:"riskScore"`
	RugProbability float64 `json:"rugProbability"`
	Cached         bool    `json:"cached"`
	At             int64   `json:"at"` // unix ms
}

// EventPublisher ships analysis events to downstream consumers.
type EventPublisher interface {
	PublishAnalysis(ctx context.Context, ev AnalysisEvent) error
	Close() error
}

type Metrics interface {
	RecordInvocation(mode, outcome string)
	RecordLatency(op string, seconds float64)
	RecordFragments(n int)
	RecordCache(hit bool)
	RecordError(kind string)
}
