package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Chain identifies a supported network.
type Chain string

const (
	ChainSolana Chain = "solana"
	ChainBNB    Chain = "bnb"
)

// IsValid reports whether c is a supported chain.
func (c Chain) IsValid() bool {
	switch c {
	case ChainSolana, ChainBNB:
		return true
	default:
		return false
	}
}

// TokenInfo is a market snapshot of a fungible token.
// Supply figures are base-10 integers in minor units.
type TokenInfo struct {
	Address           string    `json:"address"`
	Chain             Chain     `json:"chain"`
	Symbol            string    `json:"symbol"`
	Name              string    `json:"name"`
	Decimals          int32     `json:"decimals"`
	TotalSupply       string    `json:"totalSupply"`
	CirculatingSupply string    `json:"circulatingSupply"`
	Price             float64   `json:"price"`
	PriceChange24h    float64   `json:"priceChange24h"`
	Volume24h         float64   `json:"volume24h"`
	MarketCap         float64   `json:"marketCap"`
	Holders           int64     `json:"holders"`
	CreatedAt         time.Time `json:"createdAt"`
}

// SupplyUnits converts a minor-unit supply string into whole tokens.
func (t TokenInfo) SupplyUnits(minor string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(minor)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse supply %q: %w", minor, err)
	}
	if d.IsNegative() || !d.Equal(d.Truncate(0)) {
		return decimal.Zero, fmt.Errorf("supply %q is not a non-negative integer", minor)
	}
	return d.Shift(-t.Decimals), nil
}

// Validate checks the record invariants that can be checked locally.
func (t TokenInfo) Validate() error {
	if t.Address == "" {
		return fmt.Errorf("token address is required")
	}
	if !t.Chain.IsValid() {
		return fmt.Errorf("token %s: unsupported chain %q", t.Address, t.Chain)
	}
	total, err := t.SupplyUnits(t.TotalSupply)
	if err != nil {
		return fmt.Errorf("token %s total supply: %w", t.Address, err)
	}
	circ, err := t.SupplyUnits(t.CirculatingSupply)
	if err != nil {
		return fmt.Errorf("token %s circulating supply: %w", t.Address, err)
	}
	if circ.GreaterThan(total) {
		return fmt.Errorf("token %s: circulating supply exceeds total supply", t.Address)
	}
	return nil
}

// LPHolder is one holder of pool-share tokens.
type LPHolder struct {
	Address    string  `json:"address"`
	Balance    string  `json:"balance"`
	Percentage float64 `json:"percentage"`
	IsContract bool    `json:"isContract"`
	Label      string  `json:"label,omitempty"`
}

// TokenLiquidity is one DEX pool's liquidity snapshot for a token.
// Holder percentages are reported independently and need not sum to 100.
type TokenLiquidity struct {
	TokenAddress       string     `json:"tokenAddress"`
	Chain              Chain      `json:"chain"`
	Dex                string     `json:"dex"`
	PairAddress        string     `json:"pairAddress"`
	BaseToken          string     `json:"baseToken"`
	QuoteToken         string     `json:"quoteToken"`
	LiquidityUSD       float64    `json:"liquidityUsd"`
	LiquidityChange24h float64    `json:"liquidityChange24h"`
	LPTokenSupply      string     `json:"lpTokenSupply"`
	LPHolders          []LPHolder `json:"lpHolders"`
}

// LPHolderShare returns the sum of reported holder percentages.
func (l TokenLiquidity) LPHolderShare() float64 {
	var sum float64
	for _, h := range l.LPHolders {
		sum += h.Percentage
	}
	return sum
}

// TokenAmount is an amount of a token moved by a transaction.
type TokenAmount struct {
	Address  string  `json:"address"`
	Symbol   string  `json:"symbol"`
	Amount   string  `json:"amount"`
	ValueUSD float64 `json:"valueUsd"`
}
