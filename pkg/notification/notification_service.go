package notification

import (
	"PayGuard-Backend/domain"
	"PayGuard-Backend/internal/utils"
	"PayGuard-Backend/internal/utils/retry"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The push gateway accepts at most 100 messages per request.
const pushChunkSize = 100

var expoTokenRe = regexp.MustCompile(`^(?:Expo|Exponent)PushToken\[[A-Za-z0-9_\-]+\]$`)

var highPriorityKeywords = map[string]bool{
	"high":      true,
	"critical":  true,
	"urgent":    true,
	"emergency": true,
}

var defaultPriorityKeywords = map[string]bool{
	"default": true,
	"normal":  true,
	"low":     true,
}

type (
	NotificationService interface {
		SendPushNotification(ctx context.Context, req domain.SendNotificationRequest) (*domain.DispatchResult, error)
	}

	notificationService struct {
		gatewayURL string
		client     *http.Client
		retryCfg   retry.Config
	}
)

func NewNotificationService() NotificationService {
	return &notificationService{
		gatewayURL: utils.GetConfig("EXPO_PUSH_URL"),
		client:     &http.Client{Timeout: 15 * time.Second},
		retryCfg:   retry.DefaultConfig(3),
	}
}

func (s *notificationService) SendPushNotification(ctx context.Context, req domain.SendNotificationRequest) (*domain.DispatchResult, error) {
	tokens, err := normalizeTokens(req.DeviceToken)
	if err != nil {
		return nil, err
	}

	var invalid []string
	for _, t := range tokens {
		if !expoTokenRe.MatchString(t) {
			invalid = append(invalid, t)
		}
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidDeviceToken, strings.Join(invalid, ", "))
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Body) == "" {
		return nil, domain.ErrNotificationRequired
	}

	badge, err := parseBadge(req.Badge)
	if err != nil {
		return nil, err
	}

	priority := derivePriority(req.Priority, req.Data)

	result := &domain.DispatchResult{
		Priority: priority,
		Tickets:  []domain.PushTicket{},
		Failures: []domain.PushFailure{},
	}

	for _, chunk := range chunkTokens(tokens, pushChunkSize) {
		tickets, failures, err := s.sendChunk(ctx, chunk, req.Title, req.Body, req.Data, priority, badge)
		if err != nil {
			// The whole chunk failed; already-delivered chunks stand.
			for _, t := range chunk {
				result.Failures = append(result.Failures, domain.PushFailure{
					Token:   t,
					Message: err.Error(),
				})
			}
			continue
		}
		result.Tickets = append(result.Tickets, tickets...)
		result.Failures = append(result.Failures, failures...)
	}

	result.Success = len(result.Failures) == 0
	return result, nil
}

func (s *notificationService) sendChunk(ctx context.Context, tokens []string, title, body string, data map[string]any, priority string, badge *int) ([]domain.PushTicket, []domain.PushFailure, error) {
	message := map[string]any{
		"to":       tokens,
		"title":    title,
		"body":     body,
		"priority": priority,
	}
	if data != nil {
		message["data"] = data
	}
	if badge != nil {
		message["badge"] = *badge
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return nil, nil, err
	}

	var decoded struct {
		Data []struct {
			Status  string         `json:"status"`
			ID      string         `json:"id"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"data"`
	}

	err = retry.Do(ctx, s.retryCfg, isTransientError, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return &gatewayStatusError{status: resp.StatusCode, body: string(respBody)}
		}

		decoded.Data = nil
		return json.NewDecoder(resp.Body).Decode(&decoded)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrPushGatewayFailed, err)
	}

	var tickets []domain.PushTicket
	var failures []domain.PushFailure
	for i, token := range tokens {
		if i >= len(decoded.Data) {
			failures = append(failures, domain.PushFailure{
				Token:   token,
				Message: "push gateway returned no ticket for this token",
			})
			continue
		}
		t := decoded.Data[i]
		if t.Status == "ok" {
			tickets = append(tickets, domain.PushTicket{Token: token, ID: t.ID})
		} else {
			failures = append(failures, domain.PushFailure{
				Token:   token,
				Message: t.Message,
				Details: t.Details,
			})
		}
	}
	return tickets, failures, nil
}

type gatewayStatusError struct {
	status int
	body   string
}

func (e *gatewayStatusError) Error() string {
	return fmt.Sprintf("push gateway returned %d: %s", e.status, e.body)
}

func isTransientError(err error) bool {
	var se *gatewayStatusError
	if errors.As(err, &se) {
		return se.status == http.StatusTooManyRequests || se.status >= 500
	}
	return true
}

// normalizeTokens accepts a single token string or a list of them.
func normalizeTokens(raw any) ([]string, error) {
	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, domain.ErrDeviceTokenRequired
		}
		return []string{v}, nil
	case []string:
		if len(v) == 0 {
			return nil, domain.ErrDeviceTokenRequired
		}
		return v, nil
	case []any:
		tokens := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDeviceToken, item)
			}
			tokens = append(tokens, s)
		}
		if len(tokens) == 0 {
			return nil, domain.ErrDeviceTokenRequired
		}
		return tokens, nil
	default:
		return nil, domain.ErrDeviceTokenRequired
	}
}

func chunkTokens(tokens []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(tokens); start += size {
		end := start + size
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, tokens[start:end])
	}
	return chunks
}

// parseBadge accepts a JSON number or a numeric string; nil means no badge.
func parseBadge(raw any) (*int, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case float64:
		if v < 0 || v != float64(int(v)) {
			return nil, domain.ErrInvalidBadge
		}
		badge := int(v)
		return &badge, nil
	case int:
		if v < 0 {
			return nil, domain.ErrInvalidBadge
		}
		return &v, nil
	case string:
		badge, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || badge < 0 {
			return nil, domain.ErrInvalidBadge
		}
		return &badge, nil
	default:
		return nil, domain.ErrInvalidBadge
	}
}

// derivePriority resolves the delivery priority: an explicit recognizable
// priority wins, then risk/severity hints in the data payload, then default.
func derivePriority(raw any, data map[string]any) string {
	switch v := raw.(type) {
	case bool:
		if v {
			return domain.PushPriorityHigh
		}
		return domain.PushPriorityDefault
	case string:
		lower := strings.ToLower(strings.TrimSpace(v))
		if highPriorityKeywords[lower] {
			return domain.PushPriorityHigh
		}
		if defaultPriorityKeywords[lower] {
			return domain.PushPriorityDefault
		}
	}

	for _, key := range []string{"risk", "severity", "criticality", "risk_level", "priority"} {
		if s, ok := data[key].(string); ok {
			if highPriorityKeywords[strings.ToLower(strings.TrimSpace(s))] {
				return domain.PushPriorityHigh
			}
		}
	}
	return domain.PushPriorityDefault
}
