package scan

import (
	"PayGuard-Backend/domain"
	"math"
	"strings"
)

// Relative weights when both the model and the heuristic engine reported a
// score.
const (
	modelScoreWeight     = 0.6
	heuristicScoreWeight = 0.4
)

var validRiskLevels = map[string]bool{
	domain.RiskLevelLow:      true,
	domain.RiskLevelMedium:   true,
	domain.RiskLevelHigh:     true,
	domain.RiskLevelCritical: true,
}

// BlendAssessments merges the heuristic assessment with the reasoning model's
// opinion. A nil model opinion leaves the heuristic result untouched.
func BlendAssessments(heuristic domain.RiskAssessment, model *domain.ClaudeAnalysis) domain.RiskAssessment {
	if model == nil {
		return heuristic
	}

	var score int
	switch {
	case model.RiskScore != nil:
		score = int(math.Round(modelScoreWeight*float64(*model.RiskScore) + heuristicScoreWeight*float64(heuristic.Score)))
	case model.FraudProbability != nil:
		score = int(math.Round(*model.FraudProbability * 100))
	default:
		score = heuristic.Score
	}
	score = clampScore(score)

	probability := float64(score) / 100
	if model.FraudProbability != nil {
		probability = *model.FraudProbability
	}

	level := strings.ToLower(strings.TrimSpace(model.RiskLevel))
	if !validRiskLevels[level] {
		level = RiskLevelForScore(score)
	}

	flags := make([]string, 0, len(heuristic.Flags)+len(model.RiskFactors))
	flags = append(flags, heuristic.Flags...)
	for _, factor := range model.RiskFactors {
		flags = append(flags, "model:"+factor)
	}

	return domain.RiskAssessment{
		Score:            score,
		FraudProbability: probability,
		Level:            level,
		Flags:            dedupeStrings(flags),
	}
}
