package scan

import (
	"PayGuard-Backend/entities"
	"context"

	"gorm.io/gorm"
)

type (
	ScanRepository interface {
		CreateScan(ctx context.Context, scan *entities.Scan) error
		GetScanByID(ctx context.Context, id string) (*entities.Scan, error)
		UpdateScan(ctx context.Context, scan *entities.Scan) error
		SaveCompletedScan(ctx context.Context, scan *entities.Scan, statsJSON *string) error
		GetScans(ctx context.Context, userID string, page, limit int) ([]*entities.Scan, int64, error)
	}

	scanRepository struct {
		db *gorm.DB
	}
)

func NewScanRepository(db *gorm.DB) ScanRepository {
	return &scanRepository{
		db: db,
	}
}

func (r *scanRepository) CreateScan(ctx context.Context, scan *entities.Scan) error {
	return r.db.WithContext(ctx).Create(scan).Error
}

func (r *scanRepository) GetScanByID(ctx context.Context, id string) (*entities.Scan, error) {
	var scan entities.Scan
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&scan).Error; err != nil {
		return nil, err
	}
	return &scan, nil
}

func (r *scanRepository) UpdateScan(ctx context.Context, scan *entities.Scan) error {
	return r.db.WithContext(ctx).Save(scan).Error
}

// SaveCompletedScan persists the terminal scan row and, when statsJSON is
// non-nil, the user's aggregate stats blob in the same transaction.
func (r *scanRepository) SaveCompletedScan(ctx context.Context, scan *entities.Scan, statsJSON *string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(scan).Error; err != nil {
			return err
		}
		if statsJSON != nil {
			if err := tx.Model(&entities.User{}).
				Where("id = ?", scan.UserID).
				Update("scan_stats", *statsJSON).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *scanRepository) GetScans(ctx context.Context, userID string, page, limit int) ([]*entities.Scan, int64, error) {
	var scans []*entities.Scan
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.Scan{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&scans).Error; err != nil {
		return nil, 0, err
	}

	return scans, count, nil
}
