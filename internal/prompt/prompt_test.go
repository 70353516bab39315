package prompt

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onchainiq/internal/domain/models"
)

var base = time.Date(2024, 12, 1, 12, 0, 0, 0, time.UTC)

func sampleBundle() Bundle {
	return Bundle{
		Token: &models.TokenInfo{
			Address:        "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263",
			Chain:          models.ChainSolana,
			Symbol:         "BONK",
			Name:           "Bonk",
			Decimals:       5,
			Price:          0.0000235,
			PriceChange24h: 12.5,
			Volume24h:      2100000000,
			MarketCap:      1234567.891,
			Holders:        687432,
			CreatedAt:      base.AddDate(-2, 0, 0),
		},
		Liquidity: &models.TokenLiquidity{
			Dex:                "Raydium",
			BaseToken:          "BONK",
			QuoteToken:         "SOL",
			LiquidityUSD:       45600000,
			LiquidityChange24h: -3.2,
			LPHolders: []models.LPHolder{
				{Address: "5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1", Percentage: 45.2, IsContract: true, Label: "Raydium Authority"},
				{Address: "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", Percentage: 12.8},
			},
		},
		RugAnalysis: &models.RugAnalysis{
			OverallRiskScore: 15,
			RugProbability:   0.05,
			Confidence:       0.92,
			RiskFactors: []models.RiskFactor{
				{Name: "Liquidity Locked", Severity: models.SeverityLow, Score: 10, Description: "95% of LP tokens burned"},
			},
		},
		RelatedWallets: []models.WalletInfo{
			{Address: "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM", Label: "Jump Trading", IsWhale: true, TotalValueUSD: 125000000, TokenCount: 47, TxCount: 15678},
		},
		RecentTransactions: []models.WalletTransaction{
			{
				Type:      models.TxSwap,
				Timestamp: base.Add(-time.Hour),
				From:      "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM",
				To:        "5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1",
				TokenIn:   &models.TokenAmount{Symbol: "SOL", Amount: "1000"},
				TokenOut:  &models.TokenAmount{Symbol: "BONK", Amount: "2500000000"},
				ValueUSD:  58750.5,
			},
		},
	}
}

func TestBuildAnalysisPromptIsDeterministic(t *testing.T) {
	b := sampleBundle()
	first := BuildAnalysisPrompt("Is BONK safe?", b)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, BuildAnalysisPrompt("Is BONK safe?", b))
	}
}

func TestBuildAnalysisPromptSectionOrder(t *testing.T) {
	out := BuildAnalysisPrompt("Is BONK safe?", sampleBundle())

	headers := []string{
		`USER QUERY: "Is BONK safe?"`,
		"=== STRUCTURED ON-CHAIN DATA ===",
		"TOKEN DATA:",
		"LIQUIDITY DATA:",
		"RUG DETECTION ANALYSIS:",
		"KEY WALLETS:",
		"RECENT TRANSACTIONS:",
		"=== ANALYSIS INSTRUCTIONS ===",
	}
	last := -1
	for _, h := range headers {
		idx := strings.Index(out, h)
		require.GreaterOrEqual(t, idx, 0, "missing %q", h)
		assert.Greater(t, idx, last, "%q out of order", h)
		last = idx
	}
	assert.True(t, strings.HasPrefix(out, `USER QUERY: "Is BONK safe?"`))
	assert.True(t, strings.HasSuffix(out, "prioritize the rug analysis data.\n"))
}

func TestBuildAnalysisPromptOmitsAbsentSections(t *testing.T) {
	tests := []struct {
		name   string
		edit   func(b *Bundle)
		header string
	}{
		{"token", func(b *Bundle) { b.Token = nil }, "TOKEN DATA"},
		{"liquidity", func(b *Bundle) { b.Liquidity = nil }, "LIQUIDITY DATA"},
		{"rug analysis", func(b *Bundle) { b.RugAnalysis = nil }, "RUG DETECTION ANALYSIS"},
		{"wallets", func(b *Bundle) { b.RelatedWallets = nil }, "KEY WALLETS"},
		{"empty wallets", func(b *Bundle) { b.RelatedWallets = []models.WalletInfo{} }, "KEY WALLETS"},
		{"transactions", func(b *Bundle) { b.RecentTransactions = nil }, "RECENT TRANSACTIONS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := sampleBundle()
			tt.edit(&b)
			out := BuildAnalysisPrompt("q", b)
			assert.NotContains(t, out, tt.header)
			assert.Contains(t, out, "=== ANALYSIS INSTRUCTIONS ===")
		})
	}
}

func TestBuildAnalysisPromptEmptyBundle(t *testing.T) {
	out := BuildAnalysisPrompt("", Bundle{})

	assert.True(t, strings.HasPrefix(out, "USER QUERY: \"\"\n\n=== STRUCTURED ON-CHAIN DATA ===\n\n=== ANALYSIS INSTRUCTIONS ==="))
	for _, h := range []string{"TOKEN DATA", "LIQUIDITY DATA", "RUG DETECTION ANALYSIS", "KEY WALLETS", "RECENT TRANSACTIONS"} {
		assert.NotContains(t, out, h)
	}
}

func TestBuildAnalysisPromptKeepsQueryVerbatim(t *testing.T) {
	q := `what about "SCAM"?` + "\nand\tthis"
	out := BuildAnalysisPrompt(q, Bundle{})
	assert.True(t, strings.HasPrefix(out, `USER QUERY: "`+q+`"`))
}

func TestBuildAnalysisPromptCapsTransactions(t *testing.T) {
	txs := make([]models.WalletTransaction, 12)
	for i := range txs {
		txs[i] = models.WalletTransaction{
			Type:      models.TxTransfer,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			From:      fmt.Sprintf("from-%02d", i+1),
			To:        "to",
			ValueUSD:  float64(i + 1),
		}
	}

	out := BuildAnalysisPrompt("q", Bundle{RecentTransactions: txs})

	assert.Equal(t, 5, strings.Count(out, "- TRANSFER |"))
	last := -1
	for i := 1; i <= 5; i++ {
		idx := strings.Index(out, fmt.Sprintf("From: from-%02d ", i))
		require.GreaterOrEqual(t, idx, 0)
		assert.Greater(t, idx, last)
		last = idx
	}
	assert.NotContains(t, out, "from-06")
	assert.Len(t, txs, 12)
}

func TestBuildAnalysisPromptFormatting(t *testing.T) {
	out := BuildAnalysisPrompt("Is BONK safe?", sampleBundle())

	for _, want := range []string{
		"- Address: DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263\n",
		"- Price: $0.0000235\n",
		"- 24h Change: +12.5%\n",
		"- 24h Volume: $2,100,000,000\n",
		"- Market Cap: $1,234,567.891\n",
		"- Holders: 687,432\n",
		"- Created: 2022-12-01T12:00:00Z\n",
		"- Total Liquidity: $45,600,000\n",
		"- 24h Liquidity Change: -3.2%\n",
		"  * 5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1: 45.2% (Raydium Authority) [CONTRACT]\n",
		"  * 7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU: 12.8%\n",
		"- Overall Risk Score: 15/100\n",
		"- Rug Probability: 5.0%\n",
		"- Analysis Confidence: 92.0%\n",
		"  * [LOW] Liquidity Locked: 95% of LP tokens burned (score: 10)\n",
		"- Warnings: None\n",
		"- 9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM (Jump Trading)\n",
		"  Value: $125,000,000 | Tokens: 47 | TX Count: 15,678\n",
		"  [WHALE]\n",
		"- SWAP | $58,750.5 | 2024-12-01T11:00:00Z\n",
		"  From: 9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM To: 5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1\n",
		"  In: 1000 SOL Out: 2500000000 BONK\n",
	} {
		assert.Contains(t, out, want)
	}
}

func TestBuildAnalysisPromptDoesNotMutateInput(t *testing.T) {
	b := sampleBundle()
	before := *b.Token
	holders := append([]models.LPHolder(nil), b.Liquidity.LPHolders...)

	_ = BuildAnalysisPrompt("q", b)

	assert.Equal(t, before, *b.Token)
	assert.Equal(t, holders, b.Liquidity.LPHolders)
}

func TestBuildMarketContext(t *testing.T) {
	out := BuildMarketContext(MarketSnapshot{
		Overviews: []models.MarketOverview{
			{Chain: models.ChainSolana, TotalValueLocked: 8.5e9, Volume24h: 2.1e9, ActiveWallets24h: 1234567},
			{Chain: models.ChainBNB, TotalValueLocked: 5.2e9, Volume24h: 8.9e8, ActiveWallets24h: 567890},
		},
		Tokens: []models.TokenInfo{
			{Symbol: "BONK", Chain: models.ChainSolana, Price: 0.0000235, PriceChange24h: 12.5},
			{Symbol: "CAKE", Chain: models.ChainBNB, Price: 2.45, PriceChange24h: -1.8},
		},
		Whales: []models.WalletInfo{
			{Address: "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM", Label: "Jump Trading", TotalValueUSD: 125e6},
			{Address: "3yFwqXBfZY4jBVUafQ1YEXw189y2dN3V5KQq9uzBDy1E", TotalValueUSD: 45.6e6},
		},
	})

	for _, want := range []string{
		"SOLANA:\n- TVL: $8.50B\n- 24h Volume: $2.10B\n- Active Wallets: 1.23M\n",
		"BNB CHAIN:\n- TVL: $5.20B\n- 24h Volume: $890M\n- Active Wallets: 568K\n",
		"- BONK (solana): $0.0000235 (+12.5%)\n",
		"- CAKE (bnb): $2.45 (-1.8%)\n",
		"- Jump Trading ($125.0M)\n",
		"- 3yFwqXBfZY4jBVUafQ1YEXw189y2dN3V5KQq9uzBDy1E ($45.6M)\n",
		"Available commands you can help with:",
	} {
		assert.Contains(t, out, want)
	}
	assert.True(t, strings.HasPrefix(out, "CURRENT MARKET CONTEXT:\n"))
}

func TestChatSystemPrompt(t *testing.T) {
	out := ChatSystemPrompt(MarketSnapshot{})
	assert.True(t, strings.HasPrefix(out, SystemPrompt+"\n\nCURRENT MARKET CONTEXT:"))
	assert.Equal(t, SystemPrompt, StructuredSystemPrompt(""))
	assert.Equal(t, SystemPrompt+"\n\nfields", StructuredSystemPrompt("fields"))
}
