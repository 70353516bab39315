// Package prompt renders on-chain records into the text the model reads.
// Every function here is pure: identical inputs give byte-identical output.
package prompt

import (
	"fmt"
	"strings"

	"onchainiq/internal/domain/models"
)

// MaxTransactions is how many of the supplied transactions are rendered.
const MaxTransactions = 5

// Bundle is the optional data attached to an analysis query. Nil or empty
// members produce no section.
type Bundle struct {
	Token              *models.TokenInfo
	Liquidity          *models.TokenLiquidity
	RugAnalysis        *models.RugAnalysis
	RelatedWallets     []models.WalletInfo
	RecentTransactions []models.WalletTransaction
}

const instructions = `=== ANALYSIS INSTRUCTIONS ===
Based on the structured on-chain data above, provide a comprehensive analysis answering the user's query.
Your response must be:
1. Factual and based ONLY on the provided data
2. Include specific numbers and addresses from the data
3. Classify risk factors appropriately
4. Provide actionable recommendations
5. Be explicit about confidence levels

If the data suggests high risk (score > 70), emphasize warnings prominently.
If asking about whale activity, focus on the wallet data and transactions.
If asking about safety/rug risk, prioritize the rug analysis data.
`

// BuildAnalysisPrompt renders query and b as labelled sections followed by
// the response instructions. Addresses are written in full.
func BuildAnalysisPrompt(query string, b Bundle) string {
	var w strings.Builder

	w.WriteString(`USER QUERY: "`)
	w.WriteString(query)
	w.WriteString("\"\n")
	w.WriteString("\n=== STRUCTURED ON-CHAIN DATA ===\n")

	if b.Token != nil {
		writeToken(&w, b.Token)
	}
	if b.Liquidity != nil {
		writeLiquidity(&w, b.Liquidity)
	}
	if b.RugAnalysis != nil {
		writeRugAnalysis(&w, b.RugAnalysis)
	}
	if len(b.RelatedWallets) > 0 {
		writeWallets(&w, b.RelatedWallets)
	}
	if len(b.RecentTransactions) > 0 {
		writeTransactions(&w, b.RecentTransactions)
	}

	w.WriteString("\n")
	w.WriteString(instructions)
	return w.String()
}

func writeToken(w *strings.Builder, t *models.TokenInfo) {
	w.WriteString("\nTOKEN DATA:\n")
	fmt.Fprintf(w, "- Symbol: %s\n", t.Symbol)
	fmt.Fprintf(w, "- Name: %s\n", t.Name)
	fmt.Fprintf(w, "- Chain: %s\n", t.Chain)
	fmt.Fprintf(w, "- Address: %s\n", t.Address)
	fmt.Fprintf(w, "- Price: $%s\n", raw(t.Price))
	fmt.Fprintf(w, "- 24h Change: %s\n", delta(t.PriceChange24h))
	fmt.Fprintf(w, "- 24h Volume: %s\n", money(t.Volume24h))
	fmt.Fprintf(w, "- Market Cap: %s\n", money(t.MarketCap))
	fmt.Fprintf(w, "- Holders: %s\n", count(t.Holders))
	if !t.CreatedAt.IsZero() {
		fmt.Fprintf(w, "- Created: %s\n", timestamp(t.CreatedAt))
	}
}

func writeLiquidity(w *strings.Builder, l *models.TokenLiquidity) {
	w.WriteString("\nLIQUIDITY DATA:\n")
	fmt.Fprintf(w, "- DEX: %s\n", l.Dex)
	fmt.Fprintf(w, "- Pair: %s/%s\n", l.BaseToken, l.QuoteToken)
	if l.PairAddress != "" {
		fmt.Fprintf(w, "- Pair Address: %s\n", l.PairAddress)
	}
	fmt.Fprintf(w, "- Total Liquidity: %s\n", money(l.LiquidityUSD))
	fmt.Fprintf(w, "- 24h Liquidity Change: %s\n", delta(l.LiquidityChange24h))
	if len(l.LPHolders) == 0 {
		return
	}
	w.WriteString("- LP Holder Distribution:\n")
	for _, h := range l.LPHolders {
		fmt.Fprintf(w, "  * %s: %s%%", h.Address, raw(h.Percentage))
		if h.Label != "" {
			fmt.Fprintf(w, " (%s)", h.Label)
		}
		if h.IsContract {
			w.WriteString(" [CONTRACT]")
		}
		w.WriteString("\n")
	}
}

func writeRugAnalysis(w *strings.Builder, r *models.RugAnalysis) {
	w.WriteString("\nRUG DETECTION ANALYSIS:\n")
	fmt.Fprintf(w, "- Overall Risk Score: %d/100\n", r.OverallRiskScore)
	fmt.Fprintf(w, "- Rug Probability: %s\n", ratio(r.RugProbability))
	fmt.Fprintf(w, "- Analysis Confidence: %s\n", ratio(r.Confidence))
	if len(r.RiskFactors) > 0 {
		w.WriteString("- Risk Factors:\n")
		for _, f := range r.RiskFactors {
			fmt.Fprintf(w, "  * [%s] %s: %s (score: %d)\n",
				strings.ToUpper(string(f.Severity)), f.Name, f.Description, f.Score)
		}
	}
	warnings := "None"
	if len(r.Warnings) > 0 {
		warnings = strings.Join(r.Warnings, "; ")
	}
	fmt.Fprintf(w, "- Warnings: %s\n", warnings)
}

func writeWallets(w *strings.Builder, wallets []models.WalletInfo) {
	w.WriteString("\nKEY WALLETS:\n")
	for _, wl := range wallets {
		w.WriteString("- ")
		w.WriteString(wl.Address)
		if wl.Label != "" {
			fmt.Fprintf(w, " (%s)", wl.Label)
		}
		w.WriteString("\n")
		fmt.Fprintf(w, "  Value: %s | Tokens: %d | TX Count: %s\n",
			money(wl.TotalValueUSD), wl.TokenCount, count(wl.TxCount))
		if wl.IsWhale {
			w.WriteString("  [WHALE]\n")
		}
	}
}

func writeTransactions(w *strings.Builder, txs []models.WalletTransaction) {
	if len(txs) > MaxTransactions {
		txs = txs[:MaxTransactions]
	}

	w.WriteString("\nRECENT TRANSACTIONS:\n")
	for _, tx := range txs {
		fmt.Fprintf(w, "- %s | %s | %s\n",
			strings.ToUpper(string(tx.Type)), money(tx.ValueUSD), timestamp(tx.Timestamp))
		fmt.Fprintf(w, "  From: %s To: %s\n", tx.From, tx.To)

		var moved []string
		if tx.TokenIn != nil {
			moved = append(moved, fmt.Sprintf("In: %s %s", tx.TokenIn.Amount, tx.TokenIn.Symbol))
		}
		if tx.TokenOut != nil {
			moved = append(moved, fmt.Sprintf("Out: %s %s", tx.TokenOut.Amount, tx.TokenOut.Symbol))
		}
		if len(moved) > 0 {
			fmt.Fprintf(w, "  %s\n", strings.Join(moved, " "))
		}
	}
}
