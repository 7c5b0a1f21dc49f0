package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/bidflow/bidflow-api/internal/models"
)

// ComplianceRepository defines persistence operations for compliance items.
type ComplianceRepository interface {
	ListByOpportunity(ctx context.Context, opportunityID uint) ([]models.ComplianceItem, error)
	GetByID(ctx context.Context, id uint) (models.ComplianceItem, error)
	Create(ctx context.Context, item *models.ComplianceItem) error
	Update(ctx context.Context, item *models.ComplianceItem) error
	Delete(ctx context.Context, id uint) error
}

type complianceRepository struct {
	db *gorm.DB
}

// NewComplianceRepository instantiates a GORM-backed repository.
func NewComplianceRepository(db *gorm.DB) ComplianceRepository {
	return &complianceRepository{db: db}
}

func (r *complianceRepository) ListByOpportunity(ctx context.Context, opportunityID uint) ([]models.ComplianceItem, error) {
	var items []models.ComplianceItem
	err := r.db.WithContext(ctx).
		Where("opportunity_id = ?", opportunityID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *complianceRepository) GetByID(ctx context.Context, id uint) (models.ComplianceItem, error) {
	var item models.ComplianceItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return models.ComplianceItem{}, err
	}

	return item, nil
}

func (r *complianceRepository) Create(ctx context.Context, item *models.ComplianceItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *complianceRepository) Update(ctx context.Context, item *models.ComplianceItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *complianceRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.ComplianceItem{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
