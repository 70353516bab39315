package models

import "time"

// Severity is a risk tier.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities from low (1) to critical (4). Unknown tiers rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// RiskCategory groups risk factors.
type RiskCategory string

const (
	RiskLiquidity RiskCategory = "liquidity"
	RiskOwnership RiskCategory = "ownership"
	RiskContract  RiskCategory = "contract"
	RiskTrading   RiskCategory = "trading"
	RiskSocial    RiskCategory = "social"
)

type RiskFactor struct {
	Category    RiskCategory   `json:"category"`
	Name        string         `json:"name"`
	Severity    Severity       `json:"severity"`
	Score       int            `json:"score"` // 0-100
	Description string         `json:"description"`
	Details     map[string]any `json:"details,omitempty"`
}

// RugAnalysis is a risk assessment keyed by token address.
type RugAnalysis struct {
	TokenAddress     string       `json:"tokenAddress"`
	Chain            Chain        `json:"chain"`
	OverallRiskScore int          `json:"overallRiskScore"` // 0-100, higher = riskier
	RugProbability   float64      `json:"rugProbability"`   // 0-1
	Confidence       float64      `json:"confidence"`       // 0-1
	RiskFactors      []RiskFactor `json:"riskFactors"`
	Warnings         []string     `json:"warnings"`
	Recommendations  []string     `json:"recommendations"`
	AnalyzedAt       time.Time    `json:"analyzedAt"`
}

// MaxSeverity returns the highest severity among the risk factors.
func (r RugAnalysis) MaxSeverity() Severity {
	var top Severity
	for _, f := range r.RiskFactors {
		if f.Severity.Rank() > top.Rank() {
			top = f.Severity
		}
	}
	return top
}

// ExpectedSeverity is the tier an overall score conventionally maps to.
func ExpectedSeverity(score int) Severity {
	switch {
	case score >= 80:
		return SeverityCritical
	case score >= 60:
		return SeverityHigh
	case score >= 30:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
