package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bidflow/bidflow-api/internal/models"
	"github.com/bidflow/bidflow-api/internal/repository"
	"github.com/bidflow/bidflow-api/internal/scoring"
)

func newQualificationTestService(db *gorm.DB) QualificationService {
	return NewQualificationService(
		repository.NewQualificationRepository(db),
		repository.NewTenderRepository(db),
		scoring.DefaultProfile(),
		zerolog.Nop(),
	)
}

func TestQualificationServiceQualifyScoresAndMarksTender(t *testing.T) {
	db := setupServiceDB(t)
	svc := newQualificationTestService(db)
	ctx := context.Background()

	tender := seedServiceTender(t, db, "RFQ-Q-1", "ICT Infrastructure", floatPtr(1000000))

	result, err := svc.Qualify(ctx, tender.ID)
	require.NoError(t, err)
	require.Equal(t, 85, result.MatchScore)
	require.Equal(t, models.RiskLevelLow, result.RiskLevel)
	require.Equal(t, models.RecommendationPursue, result.Recommendation)
	require.NotEmpty(t, result.Reasoning)
	require.NotEmpty(t, result.KeyRequirements)

	var refreshed models.Tender
	require.NoError(t, db.First(&refreshed, tender.ID).Error)
	require.Equal(t, models.TenderStatusQualified, refreshed.Status)
}

func TestQualificationServiceQualifyIsDeterministic(t *testing.T) {
	db := setupServiceDB(t)
	svc := newQualificationTestService(db)
	ctx := context.Background()

	tender := seedServiceTender(t, db, "RFQ-Q-2", "Cybersecurity", floatPtr(3000000))

	first, err := svc.Qualify(ctx, tender.ID)
	require.NoError(t, err)
	second, err := svc.Qualify(ctx, tender.ID)
	require.NoError(t, err)

	require.Equal(t, first.MatchScore, second.MatchScore)
	require.Equal(t, first.RiskLevel, second.RiskLevel)
	require.Equal(t, first.Recommendation, second.Recommendation)
	require.Equal(t, first.EstimatedEffortDays, second.EstimatedEffortDays)
	require.Equal(t, first.Confidence, second.Confidence)
	require.Equal(t, first.Reasoning, second.Reasoning)
}

func TestQualificationServiceQualifyAppendsHistory(t *testing.T) {
	db := setupServiceDB(t)
	svc := newQualificationTestService(db)
	ctx := context.Background()

	tender := seedServiceTender(t, db, "RFQ-Q-3", "Software Development", nil)

	first, err := svc.Qualify(ctx, tender.ID)
	require.NoError(t, err)
	second, err := svc.Qualify(ctx, tender.ID)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	history, err := svc.History(ctx, tender.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	latest, err := svc.Latest(ctx, tender.ID)
	require.NoError(t, err)
	require.Equal(t, second.ID, latest.ID)
}

func TestQualificationServiceQualifyUnknownTender(t *testing.T) {
	db := setupServiceDB(t)
	svc := newQualificationTestService(db)

	_, err := svc.Qualify(context.Background(), 999)
	require.ErrorIs(t, err, ErrTenderNotFound)
}

func TestQualificationServiceQualifyRejectsMissingCategory(t *testing.T) {
	db := setupServiceDB(t)
	svc := newQualificationTestService(db)
	ctx := context.Background()

	tender := seedServiceTender(t, db, "RFQ-Q-4", "", nil)

	_, err := svc.Qualify(ctx, tender.ID)
	require.ErrorIs(t, err, scoring.ErrInvalidTender)

	// A rejected tender keeps its status.
	var refreshed models.Tender
	require.NoError(t, db.First(&refreshed, tender.ID).Error)
	require.Equal(t, models.TenderStatusNew, refreshed.Status)
}

func TestQualificationServiceLatestWithoutAssessments(t *testing.T) {
	db := setupServiceDB(t)
	svc := newQualificationTestService(db)

	tender := seedServiceTender(t, db, "RFQ-Q-5", "Cybersecurity", nil)

	_, err := svc.Latest(context.Background(), tender.ID)
	require.ErrorIs(t, err, ErrQualificationNotFound)
}

func TestQualificationServicePersistsKeyRequirements(t *testing.T) {
	db := setupServiceDB(t)
	svc := newQualificationTestService(db)
	ctx := context.Background()

	tender := seedServiceTender(t, db, "RFQ-Q-6", "ICT Infrastructure", nil)

	result, err := svc.Qualify(ctx, tender.ID)
	require.NoError(t, err)

	var stored models.Qualification
	require.NoError(t, db.First(&stored, result.ID).Error)

	var requirements []string
	require.NoError(t, json.Unmarshal(stored.KeyRequirements, &requirements))
	require.Equal(t, result.KeyRequirements, requirements)
	require.Contains(t, requirements, "ISO 27001 certification")
}
