package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/bidflow/bidflow-api/internal/models"
)

// TenderFilter enumerates the recognized tender query options.
type TenderFilter struct {
	Category string
	Search   string
	MinValue *float64
	Status   string
	Sort     string
	Page     int
	PageSize int
}

// TenderRepository defines persistence operations for tenders.
type TenderRepository interface {
	List(ctx context.Context, filter TenderFilter) ([]models.Tender, int64, error)
	GetByID(ctx context.Context, id uint) (models.Tender, error)
	GetByReference(ctx context.Context, reference string) (models.Tender, error)
	Create(ctx context.Context, tender *models.Tender) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
}

type tenderRepository struct {
	db *gorm.DB
}

// NewTenderRepository instantiates a GORM-backed repository.
func NewTenderRepository(db *gorm.DB) TenderRepository {
	return &tenderRepository{db: db}
}

func (r *tenderRepository) List(ctx context.Context, filter TenderFilter) ([]models.Tender, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Tender{})

	if filter.Category != "" && !strings.EqualFold(filter.Category, "all") {
		query = query.Where("category = ?", filter.Category)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.MinValue != nil {
		query = query.Where("value_estimate >= ?", *filter.MinValue)
	}

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(reference) LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(normalizeTenderSort(filter.Sort))

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var tenders []models.Tender
	if err := query.Find(&tenders).Error; err != nil {
		return nil, 0, err
	}

	return tenders, total, nil
}

func (r *tenderRepository) GetByID(ctx context.Context, id uint) (models.Tender, error) {
	var tender models.Tender
	if err := r.db.WithContext(ctx).First(&tender, id).Error; err != nil {
		return models.Tender{}, err
	}

	return tender, nil
}

func (r *tenderRepository) GetByReference(ctx context.Context, reference string) (models.Tender, error) {
	var tender models.Tender
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&tender).Error; err != nil {
		return models.Tender{}, err
	}

	return tender, nil
}

func (r *tenderRepository) Create(ctx context.Context, tender *models.Tender) error {
	return r.db.WithContext(ctx).Create(tender).Error
}

func (r *tenderRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).Model(&models.Tender{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *tenderRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Tender{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func normalizeTenderSort(sort string) string {
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case "closing_at", "closing_at:asc", "closing_at.asc":
		return "closing_at ASC"
	case "-closing_at", "closing_at:desc", "closing_at.desc":
		return "closing_at DESC"
	case "value", "value:asc", "value.asc":
		return "value_estimate ASC"
	case "-value", "value:desc", "value.desc":
		return "value_estimate DESC"
	case "published_at", "published_at:asc", "published_at.asc":
		return "published_at ASC"
	case "-published_at", "published_at:desc", "published_at.desc":
		return "published_at DESC"
	default:
		return "closing_at ASC"
	}
}
