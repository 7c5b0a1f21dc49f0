package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/bidflow/bidflow-api/internal/models"
)

// DashboardRepository exposes the aggregate reads behind the overview screens.
type DashboardRepository interface {
	CountTendersByStatus(ctx context.Context) (map[string]int64, error)
	ListOpportunitiesWithTenders(ctx context.Context) ([]models.Opportunity, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository builds a gorm-backed dashboard repository.
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) CountTendersByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Tender{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}

func (r *dashboardRepository) ListOpportunitiesWithTenders(ctx context.Context) ([]models.Opportunity, error) {
	var opportunities []models.Opportunity
	err := r.db.WithContext(ctx).
		Preload("Tender").
		Find(&opportunities).Error
	if err != nil {
		return nil, err
	}
	return opportunities, nil
}
