package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetAlerts   = "alerts retrieved successfully"
	MessageSuccessUpdateAlert = "alert updated successfully"

	MessageFailedGetAlerts   = "failed to retrieve alerts"
	MessageFailedUpdateAlert = "failed to update alert"

	ErrAlertNotFound     = errors.New("alert not found")
	ErrInvalidAlertState = errors.New("invalid alert status")
)

// Alert statuses.
const (
	AlertStatusOpen          = "open"
	AlertStatusInvestigating = "investigating"
	AlertStatusDismissed     = "dismissed"
	AlertStatusResolved      = "resolved"
)

// Alert severities.
const (
	AlertSeverityLow      = "low"
	AlertSeverityMedium   = "medium"
	AlertSeverityHigh     = "high"
	AlertSeverityCritical = "critical"
)

// AlertThreshold is the minimum blended risk score that raises an alert.
const AlertThreshold = 70

type (
	AlertSummary struct {
		ID       string `json:"id"`
		ScanID   string `json:"scan_id"`
		Severity string `json:"severity"`
		Status   string `json:"status"`
		Reason   string `json:"reason"`
		IsNew    bool   `json:"is_new"`
	}

	// AlertMetadata is the snapshot persisted on the alert row.
	AlertMetadata struct {
		RiskAssessment RiskAssessment  `json:"risk_assessment"`
		ModelAnalysis  *ClaudeAnalysis `json:"model_analysis,omitempty"`
		RequestID      string          `json:"request_id"`
	}

	AlertResponse struct {
		ID         string     `json:"id"`
		ScanID     string     `json:"scan_id"`
		Status     string     `json:"status"`
		Severity   string     `json:"severity"`
		Reason     string     `json:"reason"`
		Metadata   string     `json:"metadata,omitempty"`
		ResolvedAt *time.Time `json:"resolved_at,omitempty"`
		CreatedAt  time.Time  `json:"created_at"`
		UpdatedAt  time.Time  `json:"updated_at"`
	}

	UpdateAlertStatusRequest struct {
		Status string `json:"status" validate:"required,oneof=open investigating dismissed resolved"`
	}
)
