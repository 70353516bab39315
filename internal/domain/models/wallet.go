package models

import "time"

// TxType classifies wallet transactions.
type TxType string

const (
	TxSwap     TxType = "swap"
	TxTransfer TxType = "transfer"
	TxMint     TxType = "mint"
	TxBurn     TxType = "burn"
	TxLPAdd    TxType = "lp_add"
	TxLPRemove TxType = "lp_remove"
)

type WalletInfo struct {
	Address       string    `json:"address"`
	Chain         Chain     `json:"chain"`
	Label         string    `json:"label,omitempty"`
	IsWhale       bool      `json:"isWhale"`
	TotalValueUSD float64   `json:"totalValueUsd"`
	TokenCount    int       `json:"tokenCount"`
	NFTCount      int       `json:"nftCount"`
	FirstTxAt     time.Time `json:"firstTxAt"`
	LastTxAt      time.Time `json:"lastTxAt"`
	TxCount       int64     `json:"txCount"`
}

type WalletTransaction struct {
	Hash      string       `json:"hash"`
	Chain     Chain        `json:"chain"`
	Type      TxType       `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
	From      string       `json:"from"`
	To        string       `json:"to"`
	TokenIn   *TokenAmount `json:"tokenIn,omitempty"`
	TokenOut  *TokenAmount `json:"tokenOut,omitempty"`
	ValueUSD  float64      `json:"valueUsd"`
	Fee       float64      `json:"fee"`
}
