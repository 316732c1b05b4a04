package scan

import (
	"PayGuard-Backend/domain"
	"PayGuard-Backend/internal/utils"
	"PayGuard-Backend/internal/utils/retry"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strings"
	"time"
)

const reasoningPrompt = `You are a payment fraud analyst. Analyze this payment screenshot text and respond ONLY with a valid JSON object containing exactly these fields: "summary" (string), "risk_level" (one of "low", "medium", "high", "critical"), "risk_score" (integer 0-100), "fraud_probability" (number 0-1), "risk_factors" (array of strings), "recommended_actions" (array of strings) and optionally "confidence" (number 0-1). Do not include any explanations, markdown formatting, or extra text.`

type (
	// ReasoningClient asks the external model for a second opinion on a scan.
	// A nil result means no opinion is available; the pipeline degrades to
	// the heuristic assessment alone.
	ReasoningClient interface {
		Analyze(ctx context.Context, ocrText string, details domain.PaymentDetails, heuristicScore int) *domain.ClaudeAnalysis
	}

	claudeClient struct {
		endpoint string
		apiKey   string
		model    string
		client   *http.Client
		retryCfg retry.Config
	}
)

func NewClaudeClient() ReasoningClient {
	return &claudeClient{
		endpoint: utils.GetConfig("CLAUDE_ENDPOINT"),
		apiKey:   utils.GetConfig("CLAUDE_API_KEY"),
		model:    utils.GetConfig("CLAUDE_MODEL"),
		client:   &http.Client{Timeout: 60 * time.Second},
		retryCfg: retry.DefaultConfig(2),
	}
}

func (c *claudeClient) Analyze(ctx context.Context, ocrText string, details domain.PaymentDetails, heuristicScore int) *domain.ClaudeAnalysis {
	if c.apiKey == "" {
		return nil
	}

	detailsJSON, _ := json.Marshal(details)
	requestBody := map[string]any{
		"model":      c.model,
		"max_tokens": 1024,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": fmt.Sprintf(
					"%s\n\nExtracted payment details:\n%s\n\nPayment screenshot text:\n%s",
					reasoningPrompt, string(detailsJSON), ocrText,
				),
			},
		},
	}
	payload, err := json.Marshal(requestBody)
	if err != nil {
		log.Printf("error encoding reasoning request: %v", err)
		return nil
	}

	var raw string
	err = retry.Do(ctx, c.retryCfg, isTransientError, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", "2023-06-01")

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return &gatewayStatusError{status: resp.StatusCode, body: string(body)}
		}

		var decoded struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return err
		}
		if len(decoded.Content) == 0 {
			return fmt.Errorf("reasoning response contained no content")
		}
		raw = decoded.Content[0].Text
		return nil
	})
	if err != nil {
		log.Printf("reasoning call failed after retries: %v", err)
		return nil
	}

	analysis := ParseClaudeAnalysis(raw, heuristicScore)
	return &analysis
}

// ParseClaudeAnalysis decodes the model's semi-structured reply. On any parse
// failure it synthesizes a fallback assessment from the raw text and the
// heuristic score instead of returning an error.
func ParseClaudeAnalysis(raw string, heuristicScore int) domain.ClaudeAnalysis {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	text = strings.TrimSpace(text)

	// Locate the outermost {...} span in case the model wrapped the JSON in
	// commentary.
	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			text = text[start : end+1]
		}
	}

	var decoded struct {
		Summary            string   `json:"summary"`
		RiskLevel          string   `json:"risk_level"`
		RiskScore          *float64 `json:"risk_score"`
		FraudProbability   *float64 `json:"fraud_probability"`
		RiskFactors        []string `json:"risk_factors"`
		RecommendedActions []string `json:"recommended_actions"`
		Confidence         *float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return fallbackAnalysis(raw, heuristicScore)
	}

	analysis := domain.ClaudeAnalysis{
		Summary:            decoded.Summary,
		RiskLevel:          strings.ToLower(strings.TrimSpace(decoded.RiskLevel)),
		RiskFactors:        decoded.RiskFactors,
		RecommendedActions: decoded.RecommendedActions,
		Confidence:         decoded.Confidence,
		FraudProbability:   decoded.FraudProbability,
	}
	if decoded.RiskScore != nil {
		score := int(math.Round(*decoded.RiskScore))
		analysis.RiskScore = &score
	}
	return analysis
}

func fallbackAnalysis(raw string, heuristicScore int) domain.ClaudeAnalysis {
	summary := strings.TrimSpace(raw)
	if len(summary) > 200 {
		summary = summary[:200]
	}
	score := heuristicScore
	probability := float64(heuristicScore) / 100
	return domain.ClaudeAnalysis{
		Summary:          summary,
		RiskLevel:        RiskLevelForScore(heuristicScore),
		RiskScore:        &score,
		FraudProbability: &probability,
		Fallback:         true,
	}
}
