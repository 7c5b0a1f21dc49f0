package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bidflow/bidflow-api/internal/dto"
	"github.com/bidflow/bidflow-api/internal/models"
	"github.com/bidflow/bidflow-api/internal/repository"
)

func newComplianceService(db *gorm.DB) ComplianceService {
	return NewComplianceService(
		repository.NewComplianceRepository(db),
		repository.NewOpportunityRepository(db),
		repository.NewQualificationRepository(db),
		newTestValidator(),
		zerolog.Nop(),
	)
}

func seedComplianceOpportunity(t *testing.T, db *gorm.DB, matchScore int) models.Opportunity {
	t.Helper()
	tender := seedServiceTender(t, db, "RFQ-C-1", "ICT Infrastructure", nil)
	qualification := seedQualification(t, db, tender.ID, matchScore)
	opportunity := models.Opportunity{
		TenderID:        tender.ID,
		QualificationID: &qualification.ID,
		Status:          models.OpportunityStatusPreparing,
	}
	require.NoError(t, db.Create(&opportunity).Error)
	return opportunity
}

func TestComplianceServiceCreateStartsPending(t *testing.T) {
	db := setupServiceDB(t)
	svc := newComplianceService(db)
	ctx := context.Background()

	opportunity := seedComplianceOpportunity(t, db, 80)

	item, err := svc.Create(ctx, opportunity.ID, dto.ComplianceCreateRequest{Requirement: "Valid tax clearance certificate"})
	require.NoError(t, err)
	require.Equal(t, models.ComplianceStatusPending, item.Status)
	require.Empty(t, item.VerifiedBy)
	require.Nil(t, item.VerifiedAt)
}

func TestComplianceServiceCreateRejectsUnknownOpportunity(t *testing.T) {
	db := setupServiceDB(t)
	svc := newComplianceService(db)

	_, err := svc.Create(context.Background(), 999, dto.ComplianceCreateRequest{Requirement: "B-BBEE certificate"})
	require.ErrorIs(t, err, ErrOpportunityNotFound)
}

func TestComplianceServiceSetStatusRequiresVerifier(t *testing.T) {
	db := setupServiceDB(t)
	svc := newComplianceService(db)
	ctx := context.Background()

	opportunity := seedComplianceOpportunity(t, db, 80)
	item, err := svc.Create(ctx, opportunity.ID, dto.ComplianceCreateRequest{Requirement: "ISO 27001 certification"})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, item.ID, dto.ComplianceStatusRequest{Status: models.ComplianceStatusCompliant})
	require.ErrorIs(t, err, ErrVerifierRequired)

	_, err = svc.SetStatus(ctx, item.ID, dto.ComplianceStatusRequest{Status: models.ComplianceStatusNonCompliant})
	require.ErrorIs(t, err, ErrVerifierRequired)

	// Not-applicable carries no verification and needs no verifier.
	updated, err := svc.SetStatus(ctx, item.ID, dto.ComplianceStatusRequest{Status: models.ComplianceStatusNotApplicable})
	require.NoError(t, err)
	require.Equal(t, models.ComplianceStatusNotApplicable, updated.Status)
	require.Nil(t, updated.VerifiedAt)
}

func TestComplianceServiceSetStatusStampsAndClearsVerification(t *testing.T) {
	db := setupServiceDB(t)
	svc := newComplianceService(db)
	ctx := context.Background()

	opportunity := seedComplianceOpportunity(t, db, 80)
	item, err := svc.Create(ctx, opportunity.ID, dto.ComplianceCreateRequest{Requirement: "Professional indemnity insurance"})
	require.NoError(t, err)

	verified, err := svc.SetStatus(ctx, item.ID, dto.ComplianceStatusRequest{
		Status:     models.ComplianceStatusCompliant,
		VerifiedBy: "thandi",
		Notes:      "Policy document on file",
	})
	require.NoError(t, err)
	require.Equal(t, "thandi", verified.VerifiedBy)
	require.NotNil(t, verified.VerifiedAt)
	require.Equal(t, "Policy document on file", verified.Notes)

	reverted, err := svc.SetStatus(ctx, item.ID, dto.ComplianceStatusRequest{Status: models.ComplianceStatusPending})
	require.NoError(t, err)
	require.Empty(t, reverted.VerifiedBy)
	require.Nil(t, reverted.VerifiedAt)
}

func TestComplianceServiceSetStatusRefreshesWinProbability(t *testing.T) {
	db := setupServiceDB(t)
	svc := newComplianceService(db)
	ctx := context.Background()

	opportunity := seedComplianceOpportunity(t, db, 80)

	first, err := svc.Create(ctx, opportunity.ID, dto.ComplianceCreateRequest{Requirement: "Tax clearance"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, opportunity.ID, dto.ComplianceCreateRequest{Requirement: "CIDB grading"})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, first.ID, dto.ComplianceStatusRequest{
		Status:     models.ComplianceStatusCompliant,
		VerifiedBy: "sipho",
	})
	require.NoError(t, err)

	var refreshed models.Opportunity
	require.NoError(t, db.First(&refreshed, opportunity.ID).Error)
	// Half the checklist resolved: 80 * (0.5 + 0.25) = 60.
	require.Equal(t, 60, refreshed.WinProbability)

	_, err = svc.SetStatus(ctx, second.ID, dto.ComplianceStatusRequest{Status: models.ComplianceStatusNotApplicable})
	require.NoError(t, err)

	require.NoError(t, db.First(&refreshed, opportunity.ID).Error)
	require.Equal(t, 80, refreshed.WinProbability)
}

func TestComplianceServiceDeleteRefreshesWinProbability(t *testing.T) {
	db := setupServiceDB(t)
	svc := newComplianceService(db)
	ctx := context.Background()

	opportunity := seedComplianceOpportunity(t, db, 80)

	resolved, err := svc.Create(ctx, opportunity.ID, dto.ComplianceCreateRequest{Requirement: "Tax clearance"})
	require.NoError(t, err)
	open, err := svc.Create(ctx, opportunity.ID, dto.ComplianceCreateRequest{Requirement: "CIDB grading"})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, resolved.ID, dto.ComplianceStatusRequest{
		Status:     models.ComplianceStatusCompliant,
		VerifiedBy: "sipho",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, open.ID))

	var refreshed models.Opportunity
	require.NoError(t, db.First(&refreshed, opportunity.ID).Error)
	require.Equal(t, 80, refreshed.WinProbability)

	require.ErrorIs(t, svc.Delete(ctx, open.ID), ErrComplianceNotFound)
}
