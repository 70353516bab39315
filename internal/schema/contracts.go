package schema

import "onchainiq/internal/domain/models"

var (
	Analysis = Must(New[models.AnalysisResult](
		"analysis_result",
		"On-chain analysis of a token or wallet with bias, risk and supporting evidence",
	))

	Safety = Must(New[models.SafetyCheck](
		"safety_check",
		"Quick safety verdict for a token",
	))

	Whales = Must(New[models.WhaleActivity](
		"whale_activity",
		"Summary of recent whale behaviour for a token",
	))
)
