package scan

import (
	"PayGuard-Backend/domain"
	"strings"
)

const heuristicBaseScore = 30

// suspiciousKeywords each add 6 to the heuristic score when present in the
// OCR text. highRiskKeywords add a further 8 on top of the general penalty.
var (
	suspiciousKeywords = []string{
		"kyc", "blocked", "freeze", "urgent", "refund", "otp", "pin",
		"lottery", "prize", "investment", "verify", "suspend", "expire",
		"warning", "scam", "winner", "cashback", "gift",
	}
	highRiskKeywords = []string{
		"urgent", "otp", "pin", "verify", "blocked", "freeze", "warning", "scam",
	}
)

// ScoreHeuristics computes the deterministic preliminary risk assessment from
// extracted payment details and the raw OCR text.
func ScoreHeuristics(details domain.PaymentDetails, text string) domain.RiskAssessment {
	lower := strings.ToLower(text)
	score := heuristicBaseScore
	var flags []string

	if details.UPIID == nil {
		score += 20
		flags = append(flags, "missing_upi_id")
	}
	if details.ReferenceID == nil {
		score += 8
		flags = append(flags, "missing_reference")
	}
	if details.Amount != nil {
		if *details.Amount >= 50000 {
			score += 25
			flags = append(flags, "amount_gt_50k")
		} else if *details.Amount >= 20000 {
			score += 15
			flags = append(flags, "amount_gt_20k")
		}
	}
	if details.Confidence < 0.4 {
		score += 10
		flags = append(flags, "low_extraction_confidence")
	}

	for _, kw := range suspiciousKeywords {
		if strings.Contains(lower, kw) {
			score += 6
			flags = append(flags, "keyword:"+kw)
		}
	}
	for _, kw := range highRiskKeywords {
		if strings.Contains(lower, kw) {
			score += 8
			flags = append(flags, "high_risk_keyword:"+kw)
		}
	}

	score = clampScore(score)

	return domain.RiskAssessment{
		Score:            score,
		FraudProbability: float64(score) / 100,
		Level:            RiskLevelForScore(score),
		Flags:            flags,
	}
}

// RiskLevelForScore maps a score to its ordinal risk level. The mapping is
// monotonic with exact boundaries at 60, 80 and 90.
func RiskLevelForScore(score int) string {
	switch {
	case score >= 90:
		return domain.RiskLevelCritical
	case score >= 80:
		return domain.RiskLevelHigh
	case score >= 60:
		return domain.RiskLevelMedium
	default:
		return domain.RiskLevelLow
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
