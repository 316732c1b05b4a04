package alert

import (
	"PayGuard-Backend/domain"
	"PayGuard-Backend/entities"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAlertRepo struct {
	byScanID map[string]*entities.FraudAlert
	creates  int
	updates  int
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{byScanID: map[string]*entities.FraudAlert{}}
}

func (r *fakeAlertRepo) CreateAlert(ctx context.Context, alert *entities.FraudAlert) error {
	copied := *alert
	r.byScanID[alert.ScanID.String()] = &copied
	r.creates++
	return nil
}

func (r *fakeAlertRepo) UpdateAlert(ctx context.Context, alert *entities.FraudAlert) error {
	copied := *alert
	r.byScanID[alert.ScanID.String()] = &copied
	r.updates++
	return nil
}

func (r *fakeAlertRepo) GetAlertByID(ctx context.Context, id string) (*entities.FraudAlert, error) {
	for _, a := range r.byScanID {
		if a.ID.String() == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAlertRepo) GetAlertByScanID(ctx context.Context, scanID string) (*entities.FraudAlert, error) {
	a, ok := r.byScanID[scanID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAlertRepo) GetAlerts(ctx context.Context, userID string, status string, page, limit int) ([]*entities.FraudAlert, int64, error) {
	var out []*entities.FraudAlert
	for _, a := range r.byScanID {
		if a.UserID.String() != userID {
			continue
		}
		if status != "" && status != "all" && a.Status != status {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

type fakeDispatcher struct {
	requests chan domain.SendNotificationRequest
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{requests: make(chan domain.SendNotificationRequest, 8)}
}

func (d *fakeDispatcher) SendPushNotification(ctx context.Context, req domain.SendNotificationRequest) (*domain.DispatchResult, error) {
	d.requests <- req
	return &domain.DispatchResult{Success: true}, nil
}

func (d *fakeDispatcher) awaitPush(t *testing.T) domain.SendNotificationRequest {
	t.Helper()
	select {
	case req := <-d.requests:
		return req
	case <-time.After(2 * time.Second):
		t.Fatal("expected a push dispatch")
		return domain.SendNotificationRequest{}
	}
}

func (d *fakeDispatcher) assertNoPush(t *testing.T) {
	t.Helper()
	select {
	case req := <-d.requests:
		t.Fatalf("unexpected push dispatch: %+v", req)
	case <-time.After(100 * time.Millisecond):
	}
}

type alertFixture struct {
	service    AlertService
	repo       *fakeAlertRepo
	dispatcher *fakeDispatcher
	scan       *entities.Scan
	user       *entities.User
}

func newAlertFixture() *alertFixture {
	repo := newFakeAlertRepo()
	dispatcher := newFakeDispatcher()
	userID := uuid.New()
	return &alertFixture{
		service:    NewAlertService(repo, dispatcher),
		repo:       repo,
		dispatcher: dispatcher,
		scan:       &entities.Scan{ID: uuid.New(), UserID: userID},
		user:       &entities.User{ID: userID, ExpoPushToken: "ExpoPushToken[abc123]"},
	}
}

func assessmentWithScore(score int) domain.RiskAssessment {
	return domain.RiskAssessment{
		Score:            score,
		FraudProbability: float64(score) / 100,
	}
}

func TestProcessScanResult_BelowThresholdNoAlert(t *testing.T) {
	f := newAlertFixture()

	summary, err := f.service.ProcessScanResult(
		context.Background(), f.scan, assessmentWithScore(69),
		domain.PaymentDetails{}, nil, f.user, "req-1",
	)

	require.NoError(t, err)
	assert.Nil(t, summary)
	assert.Zero(t, f.repo.creates)
	f.dispatcher.assertNoPush(t)
}

func TestProcessScanResult_MediumAlertNoPush(t *testing.T) {
	f := newAlertFixture()
	upi := "shady@upi"

	summary, err := f.service.ProcessScanResult(
		context.Background(), f.scan, assessmentWithScore(75),
		domain.PaymentDetails{UPIID: &upi}, nil, f.user, "req-1",
	)

	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.True(t, summary.IsNew)
	assert.Equal(t, domain.AlertSeverityMedium, summary.Severity)
	assert.Equal(t, domain.AlertStatusOpen, summary.Status)
	assert.Equal(t, "Payment to shady@upi scored 75/100 on fraud risk", summary.Reason)
	assert.Equal(t, 1, f.repo.creates)

	// Medium severity never notifies.
	f.dispatcher.assertNoPush(t)
}

func TestProcessScanResult_HighAlertPushes(t *testing.T) {
	f := newAlertFixture()

	summary, err := f.service.ProcessScanResult(
		context.Background(), f.scan, assessmentWithScore(85),
		domain.PaymentDetails{}, nil, f.user, "req-1",
	)

	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, domain.AlertSeverityHigh, summary.Severity)
	assert.Equal(t, domain.AlertStatusInvestigating, summary.Status)

	push := f.dispatcher.awaitPush(t)
	assert.Equal(t, "ExpoPushToken[abc123]", push.DeviceToken)
	assert.Equal(t, domain.PushPriorityHigh, push.Priority)
	assert.Equal(t, f.scan.ID.String(), push.Data["scan_id"])
	assert.Equal(t, domain.AlertSeverityHigh, push.Data["severity"])
}

func TestProcessScanResult_CriticalSeverityMapping(t *testing.T) {
	f := newAlertFixture()

	summary, err := f.service.ProcessScanResult(
		context.Background(), f.scan, assessmentWithScore(92),
		domain.PaymentDetails{}, nil, f.user, "req-1",
	)

	require.NoError(t, err)
	assert.Equal(t, domain.AlertSeverityCritical, summary.Severity)
	assert.Equal(t, domain.AlertStatusInvestigating, summary.Status)
}

func TestProcessScanResult_UpsertIsIdempotentOnScanID(t *testing.T) {
	f := newAlertFixture()

	first, err := f.service.ProcessScanResult(
		context.Background(), f.scan, assessmentWithScore(85),
		domain.PaymentDetails{}, nil, f.user, "req-1",
	)
	require.NoError(t, err)
	f.dispatcher.awaitPush(t)

	second, err := f.service.ProcessScanResult(
		context.Background(), f.scan, assessmentWithScore(85),
		domain.PaymentDetails{}, nil, f.user, "req-2",
	)
	require.NoError(t, err)

	assert.True(t, first.IsNew)
	assert.False(t, second.IsNew)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.repo.byScanID, 1)
	assert.Equal(t, 1, f.repo.creates)
	assert.Equal(t, 1, f.repo.updates)
}

func TestProcessScanResult_UnchangedSeverityDoesNotRenotify(t *testing.T) {
	f := newAlertFixture()

	_, err := f.service.ProcessScanResult(
		context.Background(), f.scan, assessmentWithScore(95),
		domain.PaymentDetails{}, nil, f.user, "req-1",
	)
	require.NoError(t, err)
	f.dispatcher.awaitPush(t)

	_, err = f.service.ProcessScanResult(
		context.Background(), f.scan, assessmentWithScore(96),
		domain.PaymentDetails{}, nil, f.user, "req-2",
	)
	require.NoError(t, err)

	f.dispatcher.assertNoPush(t)
}

func TestProcessScanResult_EscalationRenotifies(t *testing.T) {
	f := newAlertFixture()

	_, err := f.service.ProcessScanResult(
		context.Background(), f.scan, assessmentWithScore(85),
		domain.PaymentDetails{}, nil, f.user, "req-1",
	)
	require.NoError(t, err)
	first := f.dispatcher.awaitPush(t)
	assert.Equal(t, domain.AlertSeverityHigh, first.Data["severity"])

	summary, err := f.service.ProcessScanResult(
		context.Background(), f.scan, assessmentWithScore(95),
		domain.PaymentDetails{}, nil, f.user, "req-2",
	)
	require.NoError(t, err)
	assert.Equal(t, domain.AlertSeverityCritical, summary.Severity)

	second := f.dispatcher.awaitPush(t)
	assert.Equal(t, domain.AlertSeverityCritical, second.Data["severity"])
}

func TestProcessScanResult_NoTokenNoPush(t *testing.T) {
	f := newAlertFixture()
	f.user.ExpoPushToken = ""

	_, err := f.service.ProcessScanResult(
		context.Background(), f.scan, assessmentWithScore(85),
		domain.PaymentDetails{}, nil, f.user, "req-1",
	)

	require.NoError(t, err)
	f.dispatcher.assertNoPush(t)
}

func TestProcessScanResult_ModelSummaryPreferredAsReason(t *testing.T) {
	f := newAlertFixture()
	model := &domain.ClaudeAnalysis{Summary: "Recipient impersonates a bank"}

	summary, err := f.service.ProcessScanResult(
		context.Background(), f.scan, assessmentWithScore(75),
		domain.PaymentDetails{}, model, f.user, "req-1",
	)

	require.NoError(t, err)
	assert.Equal(t, "Recipient impersonates a bank", summary.Reason)
}

func TestProcessScanResult_ReprocessingClearsResolution(t *testing.T) {
	f := newAlertFixture()
	now := time.Now()
	f.repo.byScanID[f.scan.ID.String()] = &entities.FraudAlert{
		ID:         uuid.New(),
		ScanID:     f.scan.ID,
		UserID:     f.scan.UserID,
		Status:     domain.AlertStatusDismissed,
		Severity:   domain.AlertSeverityMedium,
		ResolvedAt: &now,
	}

	summary, err := f.service.ProcessScanResult(
		context.Background(), f.scan, assessmentWithScore(75),
		domain.PaymentDetails{}, nil, f.user, "req-1",
	)

	require.NoError(t, err)
	assert.False(t, summary.IsNew)
	stored := f.repo.byScanID[f.scan.ID.String()]
	assert.Equal(t, domain.AlertStatusOpen, stored.Status)
	assert.Nil(t, stored.ResolvedAt)
}

func TestUpdateAlertStatus_StampsResolution(t *testing.T) {
	f := newAlertFixture()
	alertID := uuid.New()
	f.repo.byScanID[f.scan.ID.String()] = &entities.FraudAlert{
		ID:       alertID,
		ScanID:   f.scan.ID,
		UserID:   f.scan.UserID,
		Status:   domain.AlertStatusOpen,
		Severity: domain.AlertSeverityMedium,
	}

	err := f.service.UpdateAlertStatus(context.Background(), alertID.String(), domain.UpdateAlertStatusRequest{
		Status: domain.AlertStatusResolved,
	}, f.scan.UserID.String())

	require.NoError(t, err)
	stored := f.repo.byScanID[f.scan.ID.String()]
	assert.Equal(t, domain.AlertStatusResolved, stored.Status)
	require.NotNil(t, stored.ResolvedAt)
}

func TestUpdateAlertStatus_ReopenClearsResolution(t *testing.T) {
	f := newAlertFixture()
	alertID := uuid.New()
	now := time.Now()
	f.repo.byScanID[f.scan.ID.String()] = &entities.FraudAlert{
		ID:         alertID,
		ScanID:     f.scan.ID,
		UserID:     f.scan.UserID,
		Status:     domain.AlertStatusResolved,
		Severity:   domain.AlertSeverityMedium,
		ResolvedAt: &now,
	}

	err := f.service.UpdateAlertStatus(context.Background(), alertID.String(), domain.UpdateAlertStatusRequest{
		Status: domain.AlertStatusOpen,
	}, f.scan.UserID.String())

	require.NoError(t, err)
	stored := f.repo.byScanID[f.scan.ID.String()]
	assert.Equal(t, domain.AlertStatusOpen, stored.Status)
	assert.Nil(t, stored.ResolvedAt)
}

func TestUpdateAlertStatus_OwnershipEnforced(t *testing.T) {
	f := newAlertFixture()
	alertID := uuid.New()
	f.repo.byScanID[f.scan.ID.String()] = &entities.FraudAlert{
		ID:     alertID,
		ScanID: f.scan.ID,
		UserID: f.scan.UserID,
		Status: domain.AlertStatusOpen,
	}

	err := f.service.UpdateAlertStatus(context.Background(), alertID.String(), domain.UpdateAlertStatusRequest{
		Status: domain.AlertStatusDismissed,
	}, uuid.New().String())

	assert.ErrorIs(t, err, domain.ErrUnauthorizedAccess)
}

func TestUpdateAlertStatus_NotFound(t *testing.T) {
	f := newAlertFixture()

	err := f.service.UpdateAlertStatus(context.Background(), uuid.New().String(), domain.UpdateAlertStatusRequest{
		Status: domain.AlertStatusDismissed,
	}, f.scan.UserID.String())

	assert.ErrorIs(t, err, domain.ErrAlertNotFound)
}

func TestGetAlerts_StatusFilter(t *testing.T) {
	f := newAlertFixture()
	for i, status := range []string{domain.AlertStatusOpen, domain.AlertStatusDismissed} {
		scanID := uuid.New()
		f.repo.byScanID[scanID.String()] = &entities.FraudAlert{
			ID:       uuid.New(),
			ScanID:   scanID,
			UserID:   f.scan.UserID,
			Status:   status,
			Severity: domain.AlertSeverityMedium,
			Reason:   "alert " + string(rune('a'+i)),
		}
	}

	all, count, err := f.service.GetAlerts(context.Background(), f.scan.UserID.String(), "all", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.Len(t, all, 2)

	open, _, err := f.service.GetAlerts(context.Background(), f.scan.UserID.String(), domain.AlertStatusOpen, 1, 10)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, domain.AlertStatusOpen, open[0].Status)
}
