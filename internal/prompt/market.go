package prompt

import (
	"fmt"
	"strings"

	"onchainiq/internal/domain/models"
)

// MarketSnapshot is the state the chat assistant is primed with.
type MarketSnapshot struct {
	Overviews []models.MarketOverview
	Tokens    []models.TokenInfo
	Whales    []models.WalletInfo
}

const capabilities = `Available commands you can help with:
- Analyze any token by address or symbol
- Check wallet holdings and activity
- Get rug detection scores
- Track whale movements
- Compare DEX liquidity
`

// BuildMarketContext renders s as the block appended to the chat system
// prompt.
func BuildMarketContext(s MarketSnapshot) string {
	var w strings.Builder
	w.WriteString("CURRENT MARKET CONTEXT:\n")

	for _, o := range s.Overviews {
		fmt.Fprintf(&w, "\n%s:\n", chainTitle(o.Chain))
		fmt.Fprintf(&w, "- TVL: $%s\n", compactUSD(o.TotalValueLocked))
		fmt.Fprintf(&w, "- 24h Volume: $%s\n", compactUSD(o.Volume24h))
		fmt.Fprintf(&w, "- Active Wallets: %s\n", compactCount(o.ActiveWallets24h))
	}

	if len(s.Tokens) > 0 {
		w.WriteString("\nTRACKED TOKENS:\n")
		for _, t := range s.Tokens {
			fmt.Fprintf(&w, "- %s (%s): $%s (%s)\n", t.Symbol, t.Chain, raw(t.Price), delta(t.PriceChange24h))
		}
	}

	if len(s.Whales) > 0 {
		w.WriteString("\nKNOWN WHALE WALLETS:\n")
		for _, wl := range s.Whales {
			name := wl.Label
			if name == "" {
				name = wl.Address
			}
			fmt.Fprintf(&w, "- %s ($%s)\n", name, compact(wl.TotalValueUSD, 1e6, 1, "M"))
		}
	}

	w.WriteString("\n")
	w.WriteString(capabilities)
	return w.String()
}

// ChatSystemPrompt is the system text for one chat turn.
func ChatSystemPrompt(s MarketSnapshot) string {
	return SystemPrompt + "\n\n" + BuildMarketContext(s)
}

func chainTitle(c models.Chain) string {
	switch c {
	case models.ChainSolana:
		return "SOLANA"
	case models.ChainBNB:
		return "BNB CHAIN"
	default:
		return strings.ToUpper(string(c))
	}
}

func compactUSD(v float64) string {
	switch {
	case v >= 1e9:
		return compact(v, 1e9, 2, "B")
	case v >= 1e6:
		return compact(v, 1e6, 0, "M")
	case v >= 1e3:
		return compact(v, 1e3, 0, "K")
	default:
		return compact(v, 1, 0, "")
	}
}

func compactCount(v int64) string {
	switch {
	case v >= 1e6:
		return compact(float64(v), 1e6, 2, "M")
	case v >= 1e3:
		return compact(float64(v), 1e3, 0, "K")
	default:
		return count(v)
	}
}
