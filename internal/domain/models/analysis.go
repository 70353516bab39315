package models

import "time"

// Requests and structured model outputs for the AI endpoints.
//
// The `validate` and `desc` tags on the output types are the single source of
// the response contract: internal/schema derives the JSON Schema sent to the
// model, the field descriptions in the instructions, and the validation rules
// from them. Fields without omitempty are required.

type AnalysisContext struct {
	TokenAddress  string `json:"tokenAddress,omitempty" query:"tokenAddress" validate:"omitempty,max=128"`
	WalletAddress string `json:"walletAddress,omitempty" query:"walletAddress" validate:"omitempty,max=128"`
	Chain         Chain  `json:"chain,omitempty" query:"chain" validate:"omitempty,oneof=solana bnb"`
}

// AnalysisRequest is created per user interaction and discarded after the response.
type AnalysisRequest struct {
	Query   string           `json:"query" validate:"max=4000"`
	Context *AnalysisContext `json:"context,omitempty"`
}

// TokenAddress returns the referenced token address, if any.
func (r AnalysisRequest) TokenAddress() string {
	if r.Context == nil {
		return ""
	}
	return r.Context.TokenAddress
}

// WalletAddress returns the referenced wallet address, if any.
func (r AnalysisRequest) WalletAddress() string {
	if r.Context == nil {
		return ""
	}
	return r.Context.WalletAddress
}

// Chain returns the chain filter, empty when unset.
func (r AnalysisRequest) Chain() Chain {
	if r.Context == nil {
		return ""
	}
	return r.Context.Chain
}

type Bias string

const (
	BiasBullish Bias = "bullish"
	BiasBearish Bias = "bearish"
	BiasNeutral Bias = "neutral"
)

type WalletRole string

const (
	RoleWhale       WalletRole = "whale"
	RoleInsider     WalletRole = "insider"
	RoleDeployer    WalletRole = "deployer"
	RoleMarketMaker WalletRole = "market_maker"
	RoleRetail      WalletRole = "retail"
)

type FlowType string

const (
	FlowAccumulation FlowType = "accumulation"
	FlowDistribution FlowType = "distribution"
	FlowWash         FlowType = "wash"
	FlowNormal       FlowType = "normal"
)

type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

// AnalysisResult is the structured output the model must return for a
// token/wallet analysis.
type AnalysisResult struct {
	Bias            Bias             `json:"bias" validate:"oneof=bullish bearish neutral" desc:"Overall market sentiment for the queried asset"`
	Confidence      float64          `json:"confidence" validate:"gte=0,lte=1" desc:"Confidence level in the analysis"`
	RiskScore       float64          `json:"riskScore" validate:"gte=0,lte=100,integral" desc:"Overall risk score, higher = more risky"`
	RugProbability  float64          `json:"rugProbability" validate:"gte=0,lte=1" desc:"Probability of rug pull"`
	KeyWallets      []KeyWallet      `json:"keyWallets" validate:"required,dive" desc:"Key wallets affecting the token"`
	Flows           []TokenFlow      `json:"flows" validate:"required,dive" desc:"Significant token flows"`
	Explanation     string           `json:"explanation" validate:"required,notblank" desc:"Human-readable explanation of the analysis"`
	Factors         []AnalysisFactor `json:"factors" validate:"required,dive" desc:"Factors contributing to the analysis"`
	Recommendations []string         `json:"recommendations" validate:"required" desc:"Actionable recommendations"`
}

type KeyWallet struct {
	Address        string     `json:"address" desc:"Wallet address"`
	Label          string     `json:"label,omitempty" desc:"Known label for wallet"`
	Role           WalletRole `json:"role" validate:"oneof=whale insider deployer market_maker retail" desc:"Wallet classification"`
	Influence      float64    `json:"influence" validate:"gte=0,lte=1" desc:"Influence on token price"`
	RecentActivity string     `json:"recentActivity" desc:"Summary of recent activity"`
}

type TokenFlow struct {
	From      string   `json:"from" desc:"Source address"`
	To        string   `json:"to" desc:"Destination address"`
	Amount    string   `json:"amount" desc:"Token amount"`
	ValueUSD  float64  `json:"valueUsd" desc:"USD value"`
	Timestamp string   `json:"timestamp" validate:"iso8601" desc:"ISO-8601 timestamp"`
	Type      FlowType `json:"type" validate:"oneof=accumulation distribution wash normal" desc:"Flow classification"`
}

type AnalysisFactor struct {
	Name        string  `json:"name" desc:"Factor name"`
	Impact      Impact  `json:"impact" validate:"oneof=positive negative neutral" desc:"Impact direction"`
	Weight      float64 `json:"weight" validate:"gte=0,lte=1" desc:"Importance weight"`
	Explanation string  `json:"explanation" desc:"Factor explanation"`
}

// AnalysisResponse is what the presentation layer receives for a structured
// analysis. It is never persisted.
type AnalysisResponse struct {
	Query string `json:"query"`
	AnalysisResult
	DataTimestamp time.Time `json:"dataTimestamp"`
	Cached        bool      `json:"cached"`
}

// SafetyCheck is the quick safety verdict for a token.
type SafetyCheck struct {
	IsSafe       bool     `json:"isSafe" desc:"Whether the token appears safe"`
	RiskLevel    Severity `json:"riskLevel" validate:"oneof=low medium high critical" desc:"Risk classification"`
	MainConcerns []string `json:"mainConcerns" validate:"required" desc:"Primary concerns if any"`
	Summary      string   `json:"summary" validate:"required,notblank" desc:"Brief safety summary"`
}

// WhaleActivity summarises what large holders are doing.
type WhaleActivity struct {
	IsAccumulating bool        `json:"isAccumulating" desc:"Whether whales are accumulating"`
	NetFlow        string      `json:"netFlow" validate:"oneof=inflow outflow neutral" desc:"Net flow direction"`
	TopWhales      []WhaleMove `json:"topWhales" validate:"required,dive" desc:"Top whale activities"`
	Summary        string      `json:"summary" validate:"required,notblank" desc:"Whale activity summary"`
}

type WhaleMove struct {
	Address   string `json:"address" desc:"Wallet address"`
	Action    string `json:"action" validate:"oneof=buying selling holding" desc:"What the wallet is doing"`
	Amount    string `json:"amount" desc:"Token amount"`
	Timeframe string `json:"timeframe" desc:"Period the action covers"`
}
