package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/bidflow/bidflow-api/internal/dto"
	"github.com/bidflow/bidflow-api/internal/models"
	"github.com/bidflow/bidflow-api/internal/repository"
)

var (
	// ErrComplianceNotFound indicates the requested compliance item does not exist.
	ErrComplianceNotFound = errors.New("compliance item not found")
	// ErrVerifierRequired blocks compliant/non-compliant without a verifier.
	ErrVerifierRequired = errors.New("verified_by is required for this status")
)

// ComplianceService manages the per-opportunity compliance checklist.
type ComplianceService interface {
	List(ctx context.Context, opportunityID uint) ([]dto.ComplianceResponse, error)
	Create(ctx context.Context, opportunityID uint, payload dto.ComplianceCreateRequest) (dto.ComplianceResponse, error)
	SetStatus(ctx context.Context, id uint, payload dto.ComplianceStatusRequest) (dto.ComplianceResponse, error)
	Delete(ctx context.Context, id uint) error
}

type complianceService struct {
	compliance     repository.ComplianceRepository
	opportunities  repository.OpportunityRepository
	qualifications repository.QualificationRepository
	validator      *validator.Validate
	logger         zerolog.Logger
	now            func() time.Time
}

// NewComplianceService builds a new compliance checklist service.
func NewComplianceService(
	compliance repository.ComplianceRepository,
	opportunities repository.OpportunityRepository,
	qualifications repository.QualificationRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) ComplianceService {
	return &complianceService{
		compliance:     compliance,
		opportunities:  opportunities,
		qualifications: qualifications,
		validator:      validate,
		logger:         logger.With().Str("component", "compliance_service").Logger(),
		now:            time.Now,
	}
}

func (s *complianceService) List(ctx context.Context, opportunityID uint) ([]dto.ComplianceResponse, error) {
	if _, err := s.opportunities.GetByID(ctx, opportunityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOpportunityNotFound
		}
		return nil, err
	}

	items, err := s.compliance.ListByOpportunity(ctx, opportunityID)
	if err != nil {
		return nil, err
	}

	return dto.NewComplianceResponseSlice(items), nil
}

func (s *complianceService) Create(ctx context.Context, opportunityID uint, payload dto.ComplianceCreateRequest) (dto.ComplianceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ComplianceResponse{}, err
	}

	if _, err := s.opportunities.GetByID(ctx, opportunityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ComplianceResponse{}, ErrOpportunityNotFound
		}
		return dto.ComplianceResponse{}, err
	}

	item := models.ComplianceItem{
		OpportunityID: opportunityID,
		Requirement:   payload.Requirement,
		Notes:         payload.Notes,
		Status:        models.ComplianceStatusPending,
	}

	if err := s.compliance.Create(ctx, &item); err != nil {
		return dto.ComplianceResponse{}, err
	}

	s.logger.Info().Uint("compliance_id", item.ID).Uint("opportunity_id", opportunityID).Msg("compliance item added")

	return dto.NewComplianceResponse(item), nil
}

// SetStatus moves the item to a new status. Compliant and non-compliant stamp
// the verifier and timestamp together; reverting to pending clears both. The
// owning opportunity's win probability is refreshed afterwards.
func (s *complianceService) SetStatus(ctx context.Context, id uint, payload dto.ComplianceStatusRequest) (dto.ComplianceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ComplianceResponse{}, err
	}

	item, err := s.compliance.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ComplianceResponse{}, ErrComplianceNotFound
		}
		return dto.ComplianceResponse{}, err
	}

	if models.ComplianceRequiresVerifier(payload.Status) && payload.VerifiedBy == "" {
		return dto.ComplianceResponse{}, ErrVerifierRequired
	}

	item.Status = payload.Status
	if payload.Notes != "" {
		item.Notes = payload.Notes
	}

	if models.ComplianceRequiresVerifier(payload.Status) {
		verifiedAt := s.now()
		item.VerifiedBy = payload.VerifiedBy
		item.VerifiedAt = &verifiedAt
	} else {
		item.VerifiedBy = ""
		item.VerifiedAt = nil
	}

	if err := s.compliance.Update(ctx, &item); err != nil {
		return dto.ComplianceResponse{}, err
	}

	s.refreshOpportunityProbability(ctx, item.OpportunityID)

	s.logger.Info().Uint("compliance_id", item.ID).Str("status", item.Status).Msg("compliance status changed")

	return dto.NewComplianceResponse(item), nil
}

func (s *complianceService) Delete(ctx context.Context, id uint) error {
	item, err := s.compliance.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrComplianceNotFound
		}
		return err
	}

	if err := s.compliance.Delete(ctx, id); err != nil {
		return err
	}

	s.refreshOpportunityProbability(ctx, item.OpportunityID)

	s.logger.Info().Uint("compliance_id", id).Msg("compliance item deleted")
	return nil
}

// refreshOpportunityProbability is best-effort: a stale probability is a
// display issue, not a data-integrity one.
func (s *complianceService) refreshOpportunityProbability(ctx context.Context, opportunityID uint) {
	opportunity, err := s.opportunities.GetByID(ctx, opportunityID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("opportunity_id", opportunityID).Msg("failed to load opportunity for probability refresh")
		return
	}

	if opportunity.QualificationID == nil {
		return
	}

	qualification, err := s.qualifications.GetByID(ctx, *opportunity.QualificationID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("opportunity_id", opportunityID).Msg("failed to load qualification for probability refresh")
		return
	}

	items, err := s.compliance.ListByOpportunity(ctx, opportunityID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("opportunity_id", opportunityID).Msg("failed to list compliance items for probability refresh")
		return
	}

	opportunity.WinProbability = computeWinProbability(qualification.MatchScore, items)
	if err := s.opportunities.Update(ctx, &opportunity); err != nil {
		s.logger.Warn().Err(err).Uint("opportunity_id", opportunityID).Msg("failed to store refreshed win probability")
	}
}
