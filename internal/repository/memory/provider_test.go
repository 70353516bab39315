package memory

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onchainiq/internal/domain/models"
	"onchainiq/internal/domain/repository"
	"onchainiq/pkg/logger"
)

var now = time.Date(2024, 12, 2, 10, 0, 0, 0, time.UTC)

func TestFixturesPassAudit(t *testing.T) {
	assert.Empty(t, Audit(Fixtures(now)))
	assert.Empty(t, NewProvider(now, logger.Nop()).Advisories())
}

func TestLookupToken(t *testing.T) {
	p := NewProvider(now, logger.Nop())
	ctx := context.Background()

	tok, err := p.LookupToken(ctx, BonkAddress)
	require.NoError(t, err)
	assert.Equal(t, "BONK", tok.Symbol)
	assert.Equal(t, int64(892341), tok.Holders)

	_, err = p.LookupToken(ctx, "0xDOESNOTEXIST")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLookupRugAnalysis(t *testing.T) {
	p := NewProvider(now, logger.Nop())
	ctx := context.Background()

	r, err := p.LookupRugAnalysis(ctx, BonkAddress)
	require.NoError(t, err)
	assert.Equal(t, 15, r.OverallRiskScore)
	assert.Len(t, r.RiskFactors, 3)
	assert.Equal(t, now, r.AnalyzedAt)

	scam, err := p.LookupRugAnalysis(ctx, ScamAddress)
	require.NoError(t, err)
	assert.Equal(t, 95, scam.OverallRiskScore)
	assert.Equal(t, models.SeverityCritical, scam.MaxSeverity())

	_, err = p.LookupRugAnalysis(ctx, JupAddress)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	p := NewProvider(now, logger.Nop())
	ctx := context.Background()

	l, err := p.LookupLiquidity(ctx, BonkAddress)
	require.NoError(t, err)
	l.LPHolders[0].Percentage = 99
	l.Dex = "changed"

	again, err := p.LookupLiquidity(ctx, BonkAddress)
	require.NoError(t, err)
	assert.Equal(t, 10.0, again.LPHolders[0].Percentage)
	assert.Equal(t, "Raydium", again.Dex)
}

func TestListWhaleWalletsFiltersByChain(t *testing.T) {
	p := NewProvider(now, logger.Nop())
	ctx := context.Background()

	all, err := p.ListWhaleWallets(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, AlamedaWallet, all[0].Address)

	bnb, err := p.ListWhaleWallets(ctx, models.ChainBNB)
	require.NoError(t, err)
	require.Len(t, bnb, 1)
	assert.Equal(t, BinanceWallet, bnb[0].Address)
}

func TestListRecentTransactions(t *testing.T) {
	p := NewProvider(now, logger.Nop())
	ctx := context.Background()

	txs, err := p.ListRecentTransactions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "5K8T...x9Yz", txs[0].Hash)
	assert.Equal(t, now.Add(-5*time.Minute), txs[0].Timestamp)

	all, err := p.ListRecentTransactions(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	all, err = p.ListRecentTransactions(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestListTokensAndMarket(t *testing.T) {
	p := NewProvider(now, logger.Nop())
	ctx := context.Background()

	sol, err := p.ListTokens(ctx, models.ChainSolana)
	require.NoError(t, err)
	assert.Len(t, sol, 4)

	all, err := p.ListTokens(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, "BONK", all[0].Symbol)

	m, err := p.MarketOverview(ctx, models.ChainSolana)
	require.NoError(t, err)
	assert.Equal(t, 8.5e9, m.TotalValueLocked)

	_, err = p.MarketOverview(ctx, "eth")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCancelledContext(t *testing.T) {
	p := NewProvider(now, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.LookupToken(ctx, BonkAddress)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAuditFlagsAdvisoryViolationsWithoutRejecting(t *testing.T) {
	d := Fixtures(now)
	d.Liquidity[0].LPHolders = append(d.Liquidity[0].LPHolders, models.LPHolder{Address: "x", Percentage: 90})
	d.RugAnalyses[0].OverallRiskScore = 85 // factors are all low
	d.Tokens[1].CirculatingSupply = "not-a-number"

	var buf bytes.Buffer
	p := NewProviderWith(d, logger.NewWriter(&buf, "warn"))

	assert.Len(t, p.Advisories(), 3)
	assert.Contains(t, buf.String(), "advisory invariant violated")

	// data is still served as supplied
	l, err := p.LookupLiquidity(context.Background(), BonkAddress)
	require.NoError(t, err)
	assert.Len(t, l.LPHolders, 4)
	r, err := p.LookupRugAnalysis(context.Background(), BonkAddress)
	require.NoError(t, err)
	assert.Equal(t, 85, r.OverallRiskScore)
}
