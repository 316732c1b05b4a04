package scan

import (
	"PayGuard-Backend/internal/utils"
	"PayGuard-Backend/internal/utils/retry"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

type (
	// OCRClient extracts text from a base64-encoded image. An empty string
	// with a nil error means the image contained no recognizable text.
	OCRClient interface {
		ExtractText(ctx context.Context, imageBase64 string, languageHints []string) (string, error)
	}

	visionOCRClient struct {
		endpoint string
		apiKey   string
		client   *http.Client
		retryCfg retry.Config
	}
)

func NewVisionOCRClient() OCRClient {
	return &visionOCRClient{
		endpoint: utils.GetConfig("VISION_ENDPOINT"),
		apiKey:   utils.GetConfig("VISION_API_KEY"),
		client:   &http.Client{Timeout: 30 * time.Second},
		retryCfg: retry.DefaultConfig(3),
	}
}

// gatewayStatusError carries the HTTP status of a failed upstream call so the
// retry predicate can tell transient failures (429, 5xx) from permanent ones.
type gatewayStatusError struct {
	status int
	body   string
}

func (e *gatewayStatusError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.status, e.body)
}

func isTransientError(err error) bool {
	var se *gatewayStatusError
	if errors.As(err, &se) {
		return se.status == http.StatusTooManyRequests || se.status >= 500
	}
	// Timeouts and connection errors surface as plain transport errors.
	return true
}

func (v *visionOCRClient) ExtractText(ctx context.Context, imageBase64 string, languageHints []string) (string, error) {
	requestBody := map[string]any{
		"requests": []map[string]any{
			{
				"image": map[string]any{"content": imageBase64},
				"features": []map[string]any{
					{"type": "DOCUMENT_TEXT_DETECTION"},
				},
			},
		},
	}
	if len(languageHints) > 0 {
		requestBody["requests"].([]map[string]any)[0]["imageContext"] = map[string]any{
			"languageHints": languageHints,
		}
	}

	payload, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	var text string
	err = retry.Do(ctx, v.retryCfg, isTransientError, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint+"?key="+v.apiKey, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := v.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return &gatewayStatusError{status: resp.StatusCode, body: string(body)}
		}

		var decoded struct {
			Responses []struct {
				FullTextAnnotation struct {
					Text string `json:"text"`
				} `json:"fullTextAnnotation"`
				TextAnnotations []struct {
					Description string `json:"description"`
				} `json:"textAnnotations"`
				Error *struct {
					Code    int    `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			} `json:"responses"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return err
		}

		text = ""
		if len(decoded.Responses) == 0 {
			return nil
		}
		r := decoded.Responses[0]
		if r.Error != nil {
			return &gatewayStatusError{status: r.Error.Code, body: r.Error.Message}
		}
		if r.FullTextAnnotation.Text != "" {
			text = r.FullTextAnnotation.Text
		} else if len(r.TextAnnotations) > 0 {
			text = r.TextAnnotations[0].Description
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}
