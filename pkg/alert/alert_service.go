package alert

import (
	"PayGuard-Backend/domain"
	"PayGuard-Backend/entities"
	"PayGuard-Backend/internal/utils/mailing"
	"PayGuard-Backend/pkg/notification"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	AlertService interface {
		ProcessScanResult(ctx context.Context, scan *entities.Scan, assessment domain.RiskAssessment, details domain.PaymentDetails, model *domain.ClaudeAnalysis, user *entities.User, requestID string) (*domain.AlertSummary, error)
		GetAlerts(ctx context.Context, userID string, status string, page, limit int) ([]domain.AlertResponse, int64, error)
		UpdateAlertStatus(ctx context.Context, id string, req domain.UpdateAlertStatusRequest, userID string) error
	}

	alertService struct {
		alertRepository     AlertRepository
		notificationService notification.NotificationService
	}
)

func NewAlertService(alertRepository AlertRepository, notificationService notification.NotificationService) AlertService {
	return &alertService{
		alertRepository:     alertRepository,
		notificationService: notificationService,
	}
}

// ProcessScanResult upserts the scan's fraud alert when the blended score
// crosses the alert threshold, and kicks off push/email delivery for
// high-severity outcomes. Returns nil without error when no alert is
// warranted.
func (s *alertService) ProcessScanResult(ctx context.Context, scan *entities.Scan, assessment domain.RiskAssessment, details domain.PaymentDetails, model *domain.ClaudeAnalysis, user *entities.User, requestID string) (*domain.AlertSummary, error) {
	if assessment.Score < domain.AlertThreshold {
		return nil, nil
	}

	severity, status := severityForScore(assessment.Score)
	reason := alertReason(assessment, details, model)

	metadata, _ := json.Marshal(domain.AlertMetadata{
		RiskAssessment: assessment,
		ModelAnalysis:  model,
		RequestID:      requestID,
	})

	existing, err := s.alertRepository.GetAlertByScanID(ctx, scan.ID.String())
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var alertRow *entities.FraudAlert
	isNew := existing == nil
	prevSeverity := ""

	if existing != nil {
		prevSeverity = existing.Severity
		existing.Severity = severity
		existing.Status = status
		existing.Reason = reason
		existing.Metadata = string(metadata)
		existing.ResolvedAt = nil
		if err := s.alertRepository.UpdateAlert(ctx, existing); err != nil {
			return nil, err
		}
		alertRow = existing
	} else {
		alertRow = &entities.FraudAlert{
			ID:       uuid.New(),
			ScanID:   scan.ID,
			UserID:   scan.UserID,
			Status:   status,
			Severity: severity,
			Reason:   reason,
			Metadata: string(metadata),
		}
		if err := s.alertRepository.CreateAlert(ctx, alertRow); err != nil {
			return nil, err
		}
	}

	notifiable := severity == domain.AlertSeverityHigh || severity == domain.AlertSeverityCritical
	severityChanged := isNew || prevSeverity != severity
	if notifiable && severityChanged && user.ExpoPushToken != "" {
		go s.dispatchAlertPush(user.ExpoPushToken, alertRow, assessment)
	}
	if severity == domain.AlertSeverityCritical && severityChanged && user.Email != "" {
		go s.sendAlertEmail(user.Email, alertRow, assessment)
	}

	return &domain.AlertSummary{
		ID:       alertRow.ID.String(),
		ScanID:   alertRow.ScanID.String(),
		Severity: alertRow.Severity,
		Status:   alertRow.Status,
		Reason:   alertRow.Reason,
		IsNew:    isNew,
	}, nil
}

func (s *alertService) GetAlerts(ctx context.Context, userID string, status string, page, limit int) ([]domain.AlertResponse, int64, error) {
	alerts, count, err := s.alertRepository.GetAlerts(ctx, userID, status, page, limit)
	if err != nil {
		return nil, 0, err
	}

	var response []domain.AlertResponse
	for _, a := range alerts {
		response = append(response, domain.AlertResponse{
			ID:         a.ID.String(),
			ScanID:     a.ScanID.String(),
			Status:     a.Status,
			Severity:   a.Severity,
			Reason:     a.Reason,
			Metadata:   a.Metadata,
			ResolvedAt: a.ResolvedAt,
			CreatedAt:  a.CreatedAt,
			UpdatedAt:  a.UpdatedAt,
		})
	}

	return response, count, nil
}

func (s *alertService) UpdateAlertStatus(ctx context.Context, id string, req domain.UpdateAlertStatusRequest, userID string) error {
	alertRow, err := s.alertRepository.GetAlertByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAlertNotFound
		}
		return err
	}

	if alertRow.UserID.String() != userID {
		return domain.ErrUnauthorizedAccess
	}

	alertRow.Status = req.Status
	if req.Status == domain.AlertStatusDismissed || req.Status == domain.AlertStatusResolved {
		now := time.Now()
		alertRow.ResolvedAt = &now
	} else {
		alertRow.ResolvedAt = nil
	}

	return s.alertRepository.UpdateAlert(ctx, alertRow)
}

func severityForScore(score int) (string, string) {
	switch {
	case score >= 90:
		return domain.AlertSeverityCritical, domain.AlertStatusInvestigating
	case score >= 80:
		return domain.AlertSeverityHigh, domain.AlertStatusInvestigating
	default:
		return domain.AlertSeverityMedium, domain.AlertStatusOpen
	}
}

func alertReason(assessment domain.RiskAssessment, details domain.PaymentDetails, model *domain.ClaudeAnalysis) string {
	if model != nil && model.Summary != "" {
		return model.Summary
	}
	recipient := "unknown recipient"
	if details.UPIID != nil {
		recipient = *details.UPIID
	}
	return fmt.Sprintf("Payment to %s scored %d/100 on fraud risk", recipient, assessment.Score)
}

// Push dispatch runs off the response path; failures are logged, never
// propagated to the scan result.
func (s *alertService) dispatchAlertPush(token string, alertRow *entities.FraudAlert, assessment domain.RiskAssessment) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := s.notificationService.SendPushNotification(ctx, domain.SendNotificationRequest{
		DeviceToken: token,
		Title:       "Fraud alert",
		Body:        alertRow.Reason,
		Priority:    domain.PushPriorityHigh,
		Data: map[string]any{
			"scan_id":    alertRow.ScanID.String(),
			"alert_id":   alertRow.ID.String(),
			"severity":   alertRow.Severity,
			"risk_score": assessment.Score,
		},
	})
	if err != nil {
		log.Printf("alert push dispatch failed for scan %s: %v", alertRow.ScanID, err)
		return
	}
	if !result.Success {
		log.Printf("alert push partially failed for scan %s: %d failures", alertRow.ScanID, len(result.Failures))
	}
}

func (s *alertService) sendAlertEmail(email string, alertRow *entities.FraudAlert, assessment domain.RiskAssessment) {
	subject := fmt.Sprintf("Critical fraud alert for scan %s", alertRow.ScanID)
	body := fmt.Sprintf(
		"<p>A payment scan was flagged as <b>%s</b> risk (score %d/100).</p><p>%s</p>",
		alertRow.Severity, assessment.Score, alertRow.Reason,
	)
	if err := mailing.SendMail(email, subject, body); err != nil {
		log.Printf("alert email failed for scan %s: %v", alertRow.ScanID, err)
	}
}
