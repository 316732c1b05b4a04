package scan

import (
	"PayGuard-Backend/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskLevelForScore_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, domain.RiskLevelLow},
		{59, domain.RiskLevelLow},
		{60, domain.RiskLevelMedium},
		{79, domain.RiskLevelMedium},
		{80, domain.RiskLevelHigh},
		{89, domain.RiskLevelHigh},
		{90, domain.RiskLevelCritical},
		{100, domain.RiskLevelCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevelForScore(tt.score), "score %d", tt.score)
	}
}

func TestScoreHeuristics_BaselineOnly(t *testing.T) {
	text := "UPI: shop@ybl Amount Rs 100 Txn ID TX123456"
	details := ExtractPaymentDetails(text)

	result := ScoreHeuristics(details, text)

	// Base 30, all fields present, small amount, no keywords.
	assert.Equal(t, 30, result.Score)
	assert.Equal(t, domain.RiskLevelLow, result.Level)
	assert.InDelta(t, 0.30, result.FraudProbability, 0.0001)
	assert.Empty(t, result.Flags)
}

func TestScoreHeuristics_MissingFieldPenalties(t *testing.T) {
	result := ScoreHeuristics(domain.PaymentDetails{Confidence: 0.5}, "plain text")

	// Base 30 + 20 missing UPI + 8 missing reference.
	assert.Equal(t, 58, result.Score)
	assert.Contains(t, result.Flags, "missing_upi_id")
	assert.Contains(t, result.Flags, "missing_reference")
	assert.NotContains(t, result.Flags, "low_extraction_confidence")
}

func TestScoreHeuristics_LowConfidencePenalty(t *testing.T) {
	result := ScoreHeuristics(domain.PaymentDetails{Confidence: 0.39}, "plain text")

	assert.Contains(t, result.Flags, "low_extraction_confidence")
	assert.Equal(t, 68, result.Score)
}

func TestScoreHeuristics_AmountTiers(t *testing.T) {
	upi := "shop@ybl"
	ref := "TX123456"
	base := domain.PaymentDetails{UPIID: &upi, ReferenceID: &ref, Confidence: 0.8}

	small := 19999.0
	mid := 20000.0
	large := 50000.0

	details := base
	details.Amount = &small
	assert.Equal(t, 30, ScoreHeuristics(details, "x").Score)

	details.Amount = &mid
	result := ScoreHeuristics(details, "x")
	assert.Equal(t, 45, result.Score)
	assert.Contains(t, result.Flags, "amount_gt_20k")

	details.Amount = &large
	result = ScoreHeuristics(details, "x")
	assert.Equal(t, 55, result.Score)
	assert.Contains(t, result.Flags, "amount_gt_50k")
	assert.NotContains(t, result.Flags, "amount_gt_20k")
}

func TestScoreHeuristics_KeywordPenalties(t *testing.T) {
	upi := "shop@ybl"
	ref := "TX123456"
	details := domain.PaymentDetails{UPIID: &upi, ReferenceID: &ref, Confidence: 0.8}

	// "lottery" is suspicious only (+6); "otp" is suspicious and high risk (+6+8).
	result := ScoreHeuristics(details, "you won a lottery, share your otp")

	assert.Equal(t, 30+6+6+8, result.Score)
	assert.Contains(t, result.Flags, "keyword:lottery")
	assert.Contains(t, result.Flags, "keyword:otp")
	assert.Contains(t, result.Flags, "high_risk_keyword:otp")
	assert.NotContains(t, result.Flags, "high_risk_keyword:lottery")
}

func TestScoreHeuristics_ScoreClampedAt100(t *testing.T) {
	text := "urgent otp pin verify blocked freeze warning scam kyc refund lottery prize"

	result := ScoreHeuristics(domain.PaymentDetails{Confidence: 0.1}, text)

	assert.Equal(t, 100, result.Score)
	assert.Equal(t, domain.RiskLevelCritical, result.Level)
}

func TestScoreHeuristics_SuspiciousLargePayment(t *testing.T) {
	text := "pay to merchant@upi Rs. 75000 urgent"
	details := ExtractPaymentDetails(text)
	result := ScoreHeuristics(details, text)

	// 30 base + 8 no reference + 25 large amount + 6 keyword + 8 high risk.
	assert.Equal(t, 77, result.Score)
	assert.Equal(t, domain.RiskLevelMedium, result.Level)
	assert.Contains(t, result.Flags, "high_risk_keyword:urgent")
}
