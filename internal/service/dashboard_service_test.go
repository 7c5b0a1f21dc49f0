package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bidflow/bidflow-api/internal/models"
	"github.com/bidflow/bidflow-api/internal/repository"
)

func seedDashboardData(t *testing.T, db *gorm.DB) {
	t.Helper()

	won := seedServiceTender(t, db, "RFQ-D-1", "ICT Infrastructure", floatPtr(1000000))
	lost := seedServiceTender(t, db, "RFQ-D-2", "Cybersecurity", floatPtr(500000))
	active := seedServiceTender(t, db, "RFQ-D-3", "Software Development", floatPtr(2000000))
	idle := seedServiceTender(t, db, "RFQ-D-4", "Education Technology", nil)
	require.NoError(t, db.Model(&models.Tender{}).Where("id = ?", idle.ID).Update("status", models.TenderStatusQualified).Error)

	opportunities := []models.Opportunity{
		{TenderID: won.ID, Status: models.OpportunityStatusWon, WinProbability: 90},
		{TenderID: lost.ID, Status: models.OpportunityStatusLost, WinProbability: 20},
		{TenderID: active.ID, Status: models.OpportunityStatusPreparing, WinProbability: 40},
	}
	for i := range opportunities {
		require.NoError(t, db.Create(&opportunities[i]).Error)
	}
}

func TestDashboardServiceAggregates(t *testing.T) {
	db := setupServiceDB(t)
	seedDashboardData(t, db)

	svc := NewDashboardService(repository.NewDashboardRepository(db), nil, time.Minute, zerolog.Nop())

	overview, err := svc.GetOverview(context.Background())
	require.NoError(t, err)

	require.Equal(t, int64(3), overview.TendersByStatus[models.TenderStatusNew])
	require.Equal(t, int64(1), overview.TendersByStatus[models.TenderStatusQualified])

	require.Equal(t, int64(1), overview.OpportunitiesByStage[models.OpportunityStatusWon])
	require.Equal(t, int64(1), overview.OpportunitiesByStage[models.OpportunityStatusLost])
	require.Equal(t, int64(1), overview.OpportunitiesByStage[models.OpportunityStatusPreparing])

	// Pipeline value counts only non-terminal opportunities.
	require.Equal(t, float64(2000000), overview.TotalPipelineValue)
	require.Equal(t, 50.0, overview.WinRate)
	require.Equal(t, 40, overview.AverageWinProbability)
	require.NotEmpty(t, overview.GeneratedAt)
}

func TestDashboardServiceCaches(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	db := setupServiceDB(t)
	seedDashboardData(t, db)

	cache := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	svc := NewDashboardService(repository.NewDashboardRepository(db), cache, time.Minute, zerolog.Nop())
	ctx := context.Background()

	first, err := svc.GetOverview(ctx)
	require.NoError(t, err)

	// A change after the first read is not visible until the TTL passes.
	seedServiceTender(t, db, "RFQ-D-5", "Identity Management", nil)

	second, err := svc.GetOverview(ctx)
	require.NoError(t, err)
	require.Equal(t, first.TendersByStatus, second.TendersByStatus)

	mini.FastForward(2 * time.Minute)

	third, err := svc.GetOverview(ctx)
	require.NoError(t, err)
	require.Equal(t, first.TendersByStatus[models.TenderStatusNew]+1, third.TendersByStatus[models.TenderStatusNew])
}

func TestDashboardServiceEmptyDatabase(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewDashboardService(repository.NewDashboardRepository(db), nil, time.Minute, zerolog.Nop())

	overview, err := svc.GetOverview(context.Background())
	require.NoError(t, err)
	require.Empty(t, overview.TendersByStatus)
	require.Empty(t, overview.OpportunitiesByStage)
	require.Zero(t, overview.TotalPipelineValue)
	require.Zero(t, overview.WinRate)
	require.Zero(t, overview.AverageWinProbability)
}
