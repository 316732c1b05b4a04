package alert

import (
	"PayGuard-Backend/entities"
	"context"

	"gorm.io/gorm"
)

type (
	AlertRepository interface {
		CreateAlert(ctx context.Context, alert *entities.FraudAlert) error
		UpdateAlert(ctx context.Context, alert *entities.FraudAlert) error
		GetAlertByID(ctx context.Context, id string) (*entities.FraudAlert, error)
		GetAlertByScanID(ctx context.Context, scanID string) (*entities.FraudAlert, error)
		GetAlerts(ctx context.Context, userID string, status string, page, limit int) ([]*entities.FraudAlert, int64, error)
	}

	alertRepository struct {
		db *gorm.DB
	}
)

func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{
		db: db,
	}
}

func (r *alertRepository) CreateAlert(ctx context.Context, alert *entities.FraudAlert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *alertRepository) UpdateAlert(ctx context.Context, alert *entities.FraudAlert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

func (r *alertRepository) GetAlertByID(ctx context.Context, id string) (*entities.FraudAlert, error) {
	var alert entities.FraudAlert
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&alert).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepository) GetAlertByScanID(ctx context.Context, scanID string) (*entities.FraudAlert, error) {
	var alert entities.FraudAlert
	if err := r.db.WithContext(ctx).
		Where("scan_id = ?", scanID).
		First(&alert).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepository) GetAlerts(ctx context.Context, userID string, status string, page, limit int) ([]*entities.FraudAlert, int64, error) {
	var alerts []*entities.FraudAlert
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.FraudAlert{}).Where("user_id = ?", userID)
	if status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&alerts).Error; err != nil {
		return nil, 0, err
	}

	return alerts, count, nil
}
