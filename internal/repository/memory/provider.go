// Package memory is an in-memory DataProvider over a fixed Dataset.
package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"onchainiq/internal/domain/models"
	"onchainiq/internal/domain/repository"
	"onchainiq/pkg/logger"
)

// Provider serves a Dataset. It is read-only after construction and safe for
// concurrent use. Returned records are copies.
type Provider struct {
	tokens      map[string]models.TokenInfo
	tokenOrder  []string
	liquidity   map[string]models.TokenLiquidity
	rug         map[string]models.RugAnalysis
	wallets     map[string]models.WalletInfo
	walletOrder []string
	txs         []models.WalletTransaction
	markets     map[models.Chain]models.MarketOverview
	advisories  []string
}

var _ repository.DataProvider = (*Provider)(nil)

// NewProvider serves the demo fixtures with timestamps relative to now.
func NewProvider(now time.Time, log *logger.Logger) *Provider {
	return NewProviderWith(Fixtures(now), log)
}

// NewProviderWith serves d. Records that break an advisory invariant are
// logged and served unchanged.
func NewProviderWith(d Dataset, log *logger.Logger) *Provider {
	p := &Provider{
		tokens:    make(map[string]models.TokenInfo, len(d.Tokens)),
		liquidity: make(map[string]models.TokenLiquidity, len(d.Liquidity)),
		rug:       make(map[string]models.RugAnalysis, len(d.RugAnalyses)),
		wallets:   make(map[string]models.WalletInfo, len(d.Wallets)),
		txs:       slices.Clone(d.Transactions),
		markets:   make(map[models.Chain]models.MarketOverview, len(d.Markets)),
	}

	for _, t := range d.Tokens {
		if _, dup := p.tokens[t.Address]; !dup {
			p.tokenOrder = append(p.tokenOrder, t.Address)
		}
		p.tokens[t.Address] = t
	}
	for _, l := range d.Liquidity {
		p.liquidity[l.TokenAddress] = l
	}
	for _, r := range d.RugAnalyses {
		p.rug[r.TokenAddress] = r
	}
	for _, w := range d.Wallets {
		if _, dup := p.wallets[w.Address]; !dup {
			p.walletOrder = append(p.walletOrder, w.Address)
		}
		p.wallets[w.Address] = w
	}
	for _, m := range d.Markets {
		p.markets[m.Chain] = m
	}

	p.advisories = Audit(d)
	if log != nil {
		for _, msg := range p.advisories {
			log.Warn("advisory invariant violated", logger.String("detail", msg))
		}
	}
	return p
}

// Advisories returns the invariant violations found at construction.
func (p *Provider) Advisories() []string {
	return slices.Clone(p.advisories)
}

// Audit checks the invariants that hold by convention only: token supply
// figures, LP holder shares summing to at most 100%, and rug scores agreeing
// with the severity of their risk factors.
func Audit(d Dataset) []string {
	var out []string
	for _, t := range d.Tokens {
		if err := t.Validate(); err != nil {
			out = append(out, err.Error())
		}
	}
	for _, l := range d.Liquidity {
		if share := l.LPHolderShare(); share > 100 {
			out = append(out, fmt.Sprintf("pool %s of %s: LP holder shares sum to %.2f%%", l.PairAddress, l.TokenAddress, share))
		}
	}
	for _, r := range d.RugAnalyses {
		if r.OverallRiskScore < 0 || r.OverallRiskScore > 100 {
			out = append(out, fmt.Sprintf("rug analysis %s: score %d out of range", r.TokenAddress, r.OverallRiskScore))
		}
		if len(r.RiskFactors) == 0 {
			continue
		}
		want, got := models.ExpectedSeverity(r.OverallRiskScore), r.MaxSeverity()
		if want != got {
			out = append(out, fmt.Sprintf("rug analysis %s: score %d suggests %s but worst factor is %s", r.TokenAddress, r.OverallRiskScore, want, got))
		}
	}
	return out
}

func (p *Provider) LookupToken(ctx context.Context, address string) (*models.TokenInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, ok := p.tokens[address]
	if !ok {
		return nil, fmt.Errorf("token %s: %w", address, repository.ErrNotFound)
	}
	return &t, nil
}

func (p *Provider) LookupLiquidity(ctx context.Context, tokenAddress string) (*models.TokenLiquidity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l, ok := p.liquidity[tokenAddress]
	if !ok {
		return nil, fmt.Errorf("liquidity %s: %w", tokenAddress, repository.ErrNotFound)
	}
	l.LPHolders = slices.Clone(l.LPHolders)
	return &l, nil
}

func (p *Provider) LookupRugAnalysis(ctx context.Context, tokenAddress string) (*models.RugAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, ok := p.rug[tokenAddress]
	if !ok {
		return nil, fmt.Errorf("rug analysis %s: %w", tokenAddress, repository.ErrNotFound)
	}
	r.RiskFactors = slices.Clone(r.RiskFactors)
	r.Warnings = slices.Clone(r.Warnings)
	r.Recommendations = slices.Clone(r.Recommendations)
	return &r, nil
}

func (p *Provider) LookupWallet(ctx context.Context, address string) (*models.WalletInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, ok := p.wallets[address]
	if !ok {
		return nil, fmt.Errorf("wallet %s: %w", address, repository.ErrNotFound)
	}
	return &w, nil
}

func (p *Provider) ListWhaleWallets(ctx context.Context, chain models.Chain) ([]models.WalletInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.WalletInfo, 0, len(p.walletOrder))
	for _, addr := range p.walletOrder {
		w := p.wallets[addr]
		if !w.IsWhale || (chain != "" && w.Chain != chain) {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

// ListRecentTransactions returns up to limit transactions, newest first.
// A non-positive limit returns all of them.
func (p *Provider) ListRecentTransactions(ctx context.Context, limit int) ([]models.WalletTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > len(p.txs) {
		limit = len(p.txs)
	}
	return slices.Clone(p.txs[:limit]), nil
}

func (p *Provider) ListTokens(ctx context.Context, chain models.Chain) ([]models.TokenInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.TokenInfo, 0, len(p.tokenOrder))
	for _, addr := range p.tokenOrder {
		t := p.tokens[addr]
		if chain != "" && t.Chain != chain {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (p *Provider) MarketOverview(ctx context.Context, chain models.Chain) (*models.MarketOverview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, ok := p.markets[chain]
	if !ok {
		return nil, fmt.Errorf("market %s: %w", chain, repository.ErrNotFound)
	}
	return &m, nil
}
