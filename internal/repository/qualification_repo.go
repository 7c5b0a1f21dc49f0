package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/bidflow/bidflow-api/internal/models"
)

// QualificationRepository stores scored tender assessments. Rows are
// append-only; the newest row per tender is the current assessment.
type QualificationRepository interface {
	Create(ctx context.Context, qualification *models.Qualification) error
	GetByID(ctx context.Context, id uint) (models.Qualification, error)
	LatestByTenderID(ctx context.Context, tenderID uint) (models.Qualification, error)
	ListByTenderID(ctx context.Context, tenderID uint) ([]models.Qualification, error)
}

type qualificationRepository struct {
	db *gorm.DB
}

// NewQualificationRepository instantiates a GORM-backed repository.
func NewQualificationRepository(db *gorm.DB) QualificationRepository {
	return &qualificationRepository{db: db}
}

func (r *qualificationRepository) Create(ctx context.Context, qualification *models.Qualification) error {
	return r.db.WithContext(ctx).Create(qualification).Error
}

func (r *qualificationRepository) GetByID(ctx context.Context, id uint) (models.Qualification, error) {
	var qualification models.Qualification
	if err := r.db.WithContext(ctx).First(&qualification, id).Error; err != nil {
		return models.Qualification{}, err
	}

	return qualification, nil
}

func (r *qualificationRepository) LatestByTenderID(ctx context.Context, tenderID uint) (models.Qualification, error) {
	var qualification models.Qualification
	err := r.db.WithContext(ctx).
		Where("tender_id = ?", tenderID).
		Order("created_at DESC, id DESC").
		First(&qualification).Error
	if err != nil {
		return models.Qualification{}, err
	}

	return qualification, nil
}

func (r *qualificationRepository) ListByTenderID(ctx context.Context, tenderID uint) ([]models.Qualification, error) {
	var qualifications []models.Qualification
	err := r.db.WithContext(ctx).
		Where("tender_id = ?", tenderID).
		Order("created_at DESC, id DESC").
		Find(&qualifications).Error
	if err != nil {
		return nil, err
	}

	return qualifications, nil
}
