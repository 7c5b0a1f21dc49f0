package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/bidflow/bidflow-api/internal/dto"
	"github.com/bidflow/bidflow-api/internal/models"
	"github.com/bidflow/bidflow-api/internal/observability"
	"github.com/bidflow/bidflow-api/internal/repository"
)

var (
	// ErrOpportunityNotFound indicates the requested opportunity does not exist.
	ErrOpportunityNotFound = errors.New("opportunity not found")
	// ErrIllegalTransition indicates the target stage is not reachable.
	ErrIllegalTransition = errors.New("illegal pipeline transition")
	// ErrIncompleteTasks blocks the move into review while high-priority tasks are open.
	ErrIncompleteTasks = errors.New("high-priority tasks are not done")
	// ErrQualificationRequired blocks promotion of an unqualified tender.
	ErrQualificationRequired = errors.New("tender has no qualification")
	// ErrDuplicateOpportunity indicates the tender already has an active opportunity.
	ErrDuplicateOpportunity = errors.New("tender already has an active opportunity")
	// ErrUnknownStage indicates the requested stage name is not recognized.
	ErrUnknownStage = errors.New("unknown pipeline stage")
)

// OpportunityService drives the bid pipeline.
type OpportunityService interface {
	Create(ctx context.Context, payload dto.OpportunityCreateRequest) (dto.OpportunityResponse, error)
	Get(ctx context.Context, id uint) (dto.OpportunityResponse, error)
	List(ctx context.Context, req dto.OpportunityListRequest) (dto.OpportunityListResponse, error)
	Transition(ctx context.Context, id uint, payload dto.OpportunityTransitionRequest, actor uint) (dto.OpportunityResponse, error)
	Delete(ctx context.Context, id uint) error
}

type opportunityService struct {
	opportunities  repository.OpportunityRepository
	tenders        repository.TenderRepository
	qualifications repository.QualificationRepository
	tasks          repository.TaskRepository
	compliance     repository.ComplianceRepository
	events         PipelineEventPublisher
	validator      *validator.Validate
	logger         zerolog.Logger
	now            func() time.Time
}

// NewOpportunityService builds the pipeline service. The event publisher may
// be nil.
func NewOpportunityService(
	opportunities repository.OpportunityRepository,
	tenders repository.TenderRepository,
	qualifications repository.QualificationRepository,
	tasks repository.TaskRepository,
	compliance repository.ComplianceRepository,
	events PipelineEventPublisher,
	validate *validator.Validate,
	logger zerolog.Logger,
) OpportunityService {
	return &opportunityService{
		opportunities:  opportunities,
		tenders:        tenders,
		qualifications: qualifications,
		tasks:          tasks,
		compliance:     compliance,
		events:         events,
		validator:      validate,
		logger:         logger.With().Str("component", "opportunity_service").Logger(),
		now:            time.Now,
	}
}

// Create promotes a tender into the pipeline at the qualifying stage. A tender
// may have at most one active opportunity.
func (s *opportunityService) Create(ctx context.Context, payload dto.OpportunityCreateRequest) (dto.OpportunityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.OpportunityResponse{}, err
	}

	tender, err := s.tenders.GetByID(ctx, payload.TenderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.OpportunityResponse{}, ErrTenderNotFound
		}
		return dto.OpportunityResponse{}, err
	}

	if _, err := s.opportunities.ActiveByTenderID(ctx, tender.ID); err == nil {
		return dto.OpportunityResponse{}, ErrDuplicateOpportunity
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.OpportunityResponse{}, err
	}

	opportunity := models.Opportunity{
		TenderID:   tender.ID,
		AssignedTo: payload.AssignedTo,
		Status:     models.OpportunityStatusQualifying,
	}

	if payload.QualificationID != nil {
		qualification, err := s.qualifications.GetByID(ctx, *payload.QualificationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.OpportunityResponse{}, ErrQualificationNotFound
			}
			return dto.OpportunityResponse{}, err
		}
		if qualification.TenderID != tender.ID {
			return dto.OpportunityResponse{}, fmt.Errorf("%w: qualification belongs to another tender", ErrQualificationNotFound)
		}
		opportunity.QualificationID = &qualification.ID
		opportunity.WinProbability = computeWinProbability(qualification.MatchScore, nil)
	}

	if err := s.opportunities.Create(ctx, &opportunity); err != nil {
		return dto.OpportunityResponse{}, err
	}

	if err := s.tenders.UpdateStatus(ctx, tender.ID, models.TenderStatusInProgress); err != nil {
		s.logger.Warn().Err(err).Uint("tender_id", tender.ID).Msg("failed to mark tender in progress")
	}

	s.logger.Info().Uint("opportunity_id", opportunity.ID).Uint("tender_id", tender.ID).Msg("opportunity created")

	created, err := s.opportunities.GetByID(ctx, opportunity.ID)
	if err != nil {
		return dto.OpportunityResponse{}, err
	}

	return dto.NewOpportunityResponse(created), nil
}

func (s *opportunityService) Get(ctx context.Context, id uint) (dto.OpportunityResponse, error) {
	opportunity, err := s.opportunities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.OpportunityResponse{}, ErrOpportunityNotFound
		}
		return dto.OpportunityResponse{}, err
	}

	return dto.NewOpportunityResponse(opportunity), nil
}

func (s *opportunityService) List(ctx context.Context, req dto.OpportunityListRequest) (dto.OpportunityListResponse, error) {
	filter := repository.OpportunityFilter{
		AssignedTo: req.AssignedTo,
		Status:     req.Status,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	opportunities, total, err := s.opportunities.List(ctx, filter)
	if err != nil {
		return dto.OpportunityListResponse{}, err
	}

	return dto.OpportunityListResponse{
		Items:      dto.NewOpportunityResponseSlice(opportunities),
		Pagination: dto.NewPagination(req.Page, req.PageSize, total),
	}, nil
}

// Transition moves the opportunity to the requested stage, enforcing the
// pipeline rules from the stage table and the high-priority task gate.
func (s *opportunityService) Transition(ctx context.Context, id uint, payload dto.OpportunityTransitionRequest, actor uint) (dto.OpportunityResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.OpportunityResponse{}, err
	}

	if !models.IsOpportunityStatus(payload.Status) {
		return dto.OpportunityResponse{}, fmt.Errorf("%w: %q", ErrUnknownStage, payload.Status)
	}

	opportunity, err := s.opportunities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.OpportunityResponse{}, ErrOpportunityNotFound
		}
		return dto.OpportunityResponse{}, err
	}

	from := opportunity.Status
	target := payload.Status

	if !models.CanTransitionOpportunity(from, target) {
		return dto.OpportunityResponse{}, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, target)
	}

	switch {
	case from == models.OpportunityStatusQualifying && target == models.OpportunityStatusPreparing:
		qualification, err := s.qualifications.LatestByTenderID(ctx, opportunity.TenderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.OpportunityResponse{}, ErrQualificationRequired
			}
			return dto.OpportunityResponse{}, err
		}
		opportunity.QualificationID = &qualification.ID

	case from == models.OpportunityStatusPreparing && target == models.OpportunityStatusReview:
		if !payload.Force {
			open, err := s.tasks.CountOpenByPriority(ctx, opportunity.ID, models.TaskPriorityHigh)
			if err != nil {
				return dto.OpportunityResponse{}, err
			}
			if open > 0 {
				return dto.OpportunityResponse{}, fmt.Errorf("%w: %d open", ErrIncompleteTasks, open)
			}
		}

	case target == models.OpportunityStatusSubmitted:
		submittedAt := s.now()
		opportunity.SubmittedAt = &submittedAt
	}

	opportunity.Status = target

	if err := s.refreshWinProbability(ctx, &opportunity); err != nil {
		return dto.OpportunityResponse{}, err
	}

	if err := s.opportunities.Update(ctx, &opportunity); err != nil {
		return dto.OpportunityResponse{}, err
	}

	s.syncTenderStatus(ctx, opportunity.TenderID, target)

	observability.OpportunityTransitions().WithLabelValues(from, target).Inc()

	if s.events != nil {
		s.events.PublishTransition(ctx, PipelineEvent{
			OpportunityID: opportunity.ID,
			TenderID:      opportunity.TenderID,
			From:          from,
			To:            target,
			Actor:         actor,
			OccurredAt:    s.now(),
		})
	}

	s.logger.Info().
		Uint("opportunity_id", opportunity.ID).
		Str("from", from).
		Str("to", target).
		Msg("opportunity transitioned")

	updated, err := s.opportunities.GetByID(ctx, opportunity.ID)
	if err != nil {
		return dto.OpportunityResponse{}, err
	}

	return dto.NewOpportunityResponse(updated), nil
}

func (s *opportunityService) Delete(ctx context.Context, id uint) error {
	if err := s.opportunities.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOpportunityNotFound
		}
		return err
	}

	s.logger.Info().Uint("opportunity_id", id).Msg("opportunity deleted")
	return nil
}

// refreshWinProbability blends the qualification match score with the current
// compliance completion ratio.
func (s *opportunityService) refreshWinProbability(ctx context.Context, opportunity *models.Opportunity) error {
	if opportunity.QualificationID == nil {
		opportunity.WinProbability = 0
		return nil
	}

	qualification, err := s.qualifications.GetByID(ctx, *opportunity.QualificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			opportunity.WinProbability = 0
			return nil
		}
		return err
	}

	items, err := s.compliance.ListByOpportunity(ctx, opportunity.ID)
	if err != nil {
		return err
	}

	opportunity.WinProbability = computeWinProbability(qualification.MatchScore, items)
	return nil
}

// computeWinProbability maps a match score and compliance state to a display
// probability: round(score * (0.5 + 0.5 * completionRatio)), clamped to [0,100].
func computeWinProbability(matchScore int, items []models.ComplianceItem) int {
	ratio := 0.0
	if len(items) > 0 {
		resolved := 0
		for _, item := range items {
			if item.IsResolved() {
				resolved++
			}
		}
		ratio = float64(resolved) / float64(len(items))
	}

	probability := int(math.Round(float64(matchScore) * (0.5 + 0.5*ratio)))
	if probability < 0 {
		return 0
	}
	if probability > 100 {
		return 100
	}
	return probability
}

// syncTenderStatus mirrors terminal and submission stages onto the tender row.
func (s *opportunityService) syncTenderStatus(ctx context.Context, tenderID uint, stage string) {
	var tenderStatus string
	switch stage {
	case models.OpportunityStatusSubmitted:
		tenderStatus = models.TenderStatusSubmitted
	case models.OpportunityStatusWon:
		tenderStatus = models.TenderStatusWon
	case models.OpportunityStatusLost:
		tenderStatus = models.TenderStatusLost
	default:
		return
	}

	if err := s.tenders.UpdateStatus(ctx, tenderID, tenderStatus); err != nil {
		s.logger.Warn().Err(err).Uint("tender_id", tenderID).Str("status", tenderStatus).Msg("failed to sync tender status")
	}
}
