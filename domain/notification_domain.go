package domain

import (
	"errors"
)

var (
	MessageSuccessSendNotification = "notification dispatched successfully"
	MessagePartialSendNotification = "notification partially dispatched"

	MessageFailedSendNotification = "failed to dispatch notification"

	ErrInvalidDeviceToken   = errors.New("invalid device token")
	ErrDeviceTokenRequired  = errors.New("device token is required")
	ErrNotificationRequired = errors.New("notification title and body are required")
	ErrInvalidBadge         = errors.New("badge must be a non-negative integer")
	ErrPushGatewayFailed    = errors.New("push gateway request failed")
)

// Push priorities.
const (
	PushPriorityDefault = "default"
	PushPriorityHigh    = "high"
)

type (
	// SendNotificationRequest accepts a single token or a list; priority may
	// be a string or boolean and badge a number or numeric string, so the
	// loosely typed fields stay `any` until the dispatcher validates them.
	SendNotificationRequest struct {
		DeviceToken any            `json:"deviceToken" validate:"required"`
		Title       string         `json:"title" validate:"required"`
		Body        string         `json:"body" validate:"required"`
		Data        map[string]any `json:"data,omitempty"`
		Priority    any            `json:"priority,omitempty"`
		Badge       any            `json:"badge,omitempty"`
	}

	// PushTicket is the gateway's per-token delivery acknowledgment.
	PushTicket struct {
		Token string `json:"token"`
		ID    string `json:"id"`
	}

	PushFailure struct {
		Token   string         `json:"token"`
		Message string         `json:"message"`
		Details map[string]any `json:"details,omitempty"`
	}

	// DispatchResult reports a possibly partial delivery outcome. Success is
	// true only when no failures occurred across all chunks.
	DispatchResult struct {
		Success  bool          `json:"success"`
		Priority string        `json:"priority"`
		Tickets  []PushTicket  `json:"tickets"`
		Failures []PushFailure `json:"failures"`
	}

	SendNotificationResponse struct {
		RequestID string        `json:"requestId"`
		Success   bool          `json:"success"`
		Priority  string        `json:"priority"`
		Tickets   []PushTicket  `json:"tickets"`
		Failures  []PushFailure `json:"failures"`
	}
)
