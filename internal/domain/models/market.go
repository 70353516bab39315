package models

// MarketOverview is a per-chain activity summary.
type MarketOverview struct {
	Chain            Chain   `json:"chain"`
	TotalValueLocked float64 `json:"totalValueLocked"`
	Volume24h        float64 `json:"volume24h"`
	Transactions24h  int64   `json:"transactions24h"`
	ActiveWallets24h int64   `json:"activeWallets24h"`
}
