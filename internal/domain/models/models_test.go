package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupplyUnits(t *testing.T) {
	tok := TokenInfo{Decimals: 6}

	got, err := tok.SupplyUnits("1000000000000")
	require.NoError(t, err)
	assert.Equal(t, "1000000", got.String())

	for _, bad := range []string{"-5", "1.5", "abc", ""} {
		_, err := tok.SupplyUnits(bad)
		assert.Error(t, err, bad)
	}
}

func TestTokenValidate(t *testing.T) {
	tok := TokenInfo{
		Address:           "So11111111111111111111111111111111111111112",
		Chain:             ChainSolana,
		Decimals:          9,
		TotalSupply:       "500000000000000000",
		CirculatingSupply: "400000000000000000",
	}
	require.NoError(t, tok.Validate())

	tok.CirculatingSupply = "600000000000000000"
	assert.ErrorContains(t, tok.Validate(), "exceeds total supply")

	tok.CirculatingSupply = "1"
	tok.Chain = "eth"
	assert.ErrorContains(t, tok.Validate(), "unsupported chain")
}

func TestLPHolderShare(t *testing.T) {
	l := TokenLiquidity{LPHolders: []LPHolder{{Percentage: 60}, {Percentage: 25.5}}}
	assert.InDelta(t, 85.5, l.LPHolderShare(), 1e-9)
	assert.Zero(t, TokenLiquidity{}.LPHolderShare())
}

func TestMaxSeverity(t *testing.T) {
	r := RugAnalysis{RiskFactors: []RiskFactor{
		{Severity: SeverityMedium},
		{Severity: SeverityCritical},
		{Severity: SeverityLow},
	}}
	assert.Equal(t, SeverityCritical, r.MaxSeverity())
	assert.Equal(t, Severity(""), RugAnalysis{}.MaxSeverity())
}

func TestExpectedSeverity(t *testing.T) {
	cases := map[int]Severity{
		0:   SeverityLow,
		29:  SeverityLow,
		30:  SeverityMedium,
		60:  SeverityHigh,
		95:  SeverityCritical,
		100: SeverityCritical,
	}
	for score, want := range cases {
		assert.Equal(t, want, ExpectedSeverity(score), score)
	}
}
