package scan

import (
	"PayGuard-Backend/domain"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClaudeAnalysis_PlainJSON(t *testing.T) {
	raw := `{"summary":"Recipient demands OTP","risk_level":"high","risk_score":82,"fraud_probability":0.8,"risk_factors":["otp request"],"recommended_actions":["block payment"],"confidence":0.9}`

	analysis := ParseClaudeAnalysis(raw, 50)

	assert.False(t, analysis.Fallback)
	assert.Equal(t, "Recipient demands OTP", analysis.Summary)
	assert.Equal(t, domain.RiskLevelHigh, analysis.RiskLevel)
	require.NotNil(t, analysis.RiskScore)
	assert.Equal(t, 82, *analysis.RiskScore)
	require.NotNil(t, analysis.FraudProbability)
	assert.InDelta(t, 0.8, *analysis.FraudProbability, 0.0001)
	assert.Equal(t, []string{"otp request"}, analysis.RiskFactors)
	assert.Equal(t, []string{"block payment"}, analysis.RecommendedActions)
	require.NotNil(t, analysis.Confidence)
	assert.InDelta(t, 0.9, *analysis.Confidence, 0.0001)
}

func TestParseClaudeAnalysis_StripsCodeFences(t *testing.T) {
	raw := "```json\n{\"summary\":\"ok\",\"risk_level\":\"low\",\"risk_score\":12}\n```"

	analysis := ParseClaudeAnalysis(raw, 50)

	assert.False(t, analysis.Fallback)
	assert.Equal(t, "ok", analysis.Summary)
	require.NotNil(t, analysis.RiskScore)
	assert.Equal(t, 12, *analysis.RiskScore)
}

func TestParseClaudeAnalysis_ExtractsOutermostBraces(t *testing.T) {
	raw := `Here is my assessment: {"summary":"wrapped","risk_level":"medium","risk_score":61} hope that helps!`

	analysis := ParseClaudeAnalysis(raw, 50)

	assert.False(t, analysis.Fallback)
	assert.Equal(t, "wrapped", analysis.Summary)
	assert.Equal(t, domain.RiskLevelMedium, analysis.RiskLevel)
}

func TestParseClaudeAnalysis_FractionalScoreRounded(t *testing.T) {
	raw := `{"summary":"x","risk_score":61.6}`

	analysis := ParseClaudeAnalysis(raw, 50)

	require.NotNil(t, analysis.RiskScore)
	assert.Equal(t, 62, *analysis.RiskScore)
}

func TestParseClaudeAnalysis_NormalizesLevelCase(t *testing.T) {
	raw := `{"summary":"x","risk_level":" HIGH "}`

	analysis := ParseClaudeAnalysis(raw, 50)

	assert.Equal(t, domain.RiskLevelHigh, analysis.RiskLevel)
}

func TestParseClaudeAnalysis_GarbageSynthesizesFallback(t *testing.T) {
	raw := "I am unable to produce JSON right now, sorry."

	analysis := ParseClaudeAnalysis(raw, 73)

	assert.True(t, analysis.Fallback)
	assert.Equal(t, raw, analysis.Summary)
	assert.Equal(t, domain.RiskLevelMedium, analysis.RiskLevel)
	require.NotNil(t, analysis.RiskScore)
	assert.Equal(t, 73, *analysis.RiskScore)
	require.NotNil(t, analysis.FraudProbability)
	assert.InDelta(t, 0.73, *analysis.FraudProbability, 0.0001)
}

func TestParseClaudeAnalysis_FallbackSummaryTruncated(t *testing.T) {
	raw := strings.Repeat("a", 500)

	analysis := ParseClaudeAnalysis(raw, 40)

	assert.True(t, analysis.Fallback)
	assert.Len(t, analysis.Summary, 200)
}
