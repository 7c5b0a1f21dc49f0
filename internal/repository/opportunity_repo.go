package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/bidflow/bidflow-api/internal/models"
)

// OpportunityFilter narrows opportunity listings.
type OpportunityFilter struct {
	AssignedTo *uint
	Status     string
	Page       int
	PageSize   int
}

// OpportunityRepository defines persistence operations for pipeline records.
type OpportunityRepository interface {
	List(ctx context.Context, filter OpportunityFilter) ([]models.Opportunity, int64, error)
	GetByID(ctx context.Context, id uint) (models.Opportunity, error)
	ActiveByTenderID(ctx context.Context, tenderID uint) (models.Opportunity, error)
	Create(ctx context.Context, opportunity *models.Opportunity) error
	Update(ctx context.Context, opportunity *models.Opportunity) error
	Delete(ctx context.Context, id uint) error
}

type opportunityRepository struct {
	db *gorm.DB
}

// NewOpportunityRepository instantiates a GORM-backed repository.
func NewOpportunityRepository(db *gorm.DB) OpportunityRepository {
	return &opportunityRepository{db: db}
}

func (r *opportunityRepository) List(ctx context.Context, filter OpportunityFilter) ([]models.Opportunity, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Opportunity{})

	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var opportunities []models.Opportunity
	err := query.
		Preload("Tender").
		Order("created_at DESC").
		Find(&opportunities).Error
	if err != nil {
		return nil, 0, err
	}

	return opportunities, total, nil
}

func (r *opportunityRepository) GetByID(ctx context.Context, id uint) (models.Opportunity, error) {
	var opportunity models.Opportunity
	err := r.db.WithContext(ctx).
		Preload("Tender").
		Preload("Tasks").
		Preload("ComplianceItems").
		Preload("Documents").
		First(&opportunity, id).Error
	if err != nil {
		return models.Opportunity{}, err
	}

	return opportunity, nil
}

// ActiveByTenderID finds the tender's non-terminal opportunity, if any.
func (r *opportunityRepository) ActiveByTenderID(ctx context.Context, tenderID uint) (models.Opportunity, error) {
	var opportunity models.Opportunity
	err := r.db.WithContext(ctx).
		Where("tender_id = ? AND status NOT IN ?", tenderID, []string{models.OpportunityStatusWon, models.OpportunityStatusLost}).
		First(&opportunity).Error
	if err != nil {
		return models.Opportunity{}, err
	}

	return opportunity, nil
}

func (r *opportunityRepository) Create(ctx context.Context, opportunity *models.Opportunity) error {
	return r.db.WithContext(ctx).Create(opportunity).Error
}

func (r *opportunityRepository) Update(ctx context.Context, opportunity *models.Opportunity) error {
	return r.db.WithContext(ctx).
		Omit("Tender", "Tasks", "ComplianceItems", "Documents").
		Save(opportunity).Error
}

func (r *opportunityRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// SQLite test databases do not enforce the FK cascade, so children are
		// removed explicitly before the parent row.
		if err := tx.Where("opportunity_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("opportunity_id = ?", id).Delete(&models.ComplianceItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("opportunity_id = ?", id).Delete(&models.Document{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Opportunity{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
