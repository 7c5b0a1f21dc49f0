package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/bidflow/bidflow-api/internal/dto"
	"github.com/bidflow/bidflow-api/internal/models"
	"github.com/bidflow/bidflow-api/internal/observability"
	"github.com/bidflow/bidflow-api/internal/repository"
	"github.com/bidflow/bidflow-api/internal/scoring"
)

// ErrQualificationNotFound indicates no assessment exists for the tender.
var ErrQualificationNotFound = errors.New("qualification not found")

// QualificationService scores tenders and keeps the assessment history.
type QualificationService interface {
	Qualify(ctx context.Context, tenderID uint) (dto.QualificationResponse, error)
	Latest(ctx context.Context, tenderID uint) (dto.QualificationResponse, error)
	History(ctx context.Context, tenderID uint) ([]dto.QualificationResponse, error)
}

type qualificationService struct {
	qualifications repository.QualificationRepository
	tenders        repository.TenderRepository
	profile        scoring.CapabilityProfile
	logger         zerolog.Logger
	tracer         trace.Tracer
	now            func() time.Time
}

// NewQualificationService builds the scoring service around a fixed
// capability profile.
func NewQualificationService(qualifications repository.QualificationRepository, tenders repository.TenderRepository, profile scoring.CapabilityProfile, logger zerolog.Logger) QualificationService {
	return &qualificationService{
		qualifications: qualifications,
		tenders:        tenders,
		profile:        profile,
		logger:         logger.With().Str("component", "qualification_service").Logger(),
		tracer:         otel.Tracer("github.com/bidflow/bidflow-api/internal/service/qualification"),
		now:            time.Now,
	}
}

// Qualify scores the tender against the capability profile, records a new
// assessment and marks the tender qualified. Each call appends a fresh record;
// earlier assessments stay untouched.
func (s *qualificationService) Qualify(ctx context.Context, tenderID uint) (dto.QualificationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "qualification.qualify")
	defer span.End()
	span.SetAttributes(attribute.Int("tender.id", int(tenderID)))

	tender, err := s.tenders.GetByID(ctx, tenderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "tender not found")
			return dto.QualificationResponse{}, ErrTenderNotFound
		}
		span.RecordError(err)
		return dto.QualificationResponse{}, err
	}

	result, err := scoring.Score(scoring.Input{
		Reference:     tender.Reference,
		Title:         tender.Title,
		Description:   tender.Description,
		Category:      tender.Category,
		ValueEstimate: tender.ValueEstimate,
	}, s.profile)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scoring rejected tender")
		return dto.QualificationResponse{}, err
	}

	requirements, err := json.Marshal(result.KeyRequirements)
	if err != nil {
		return dto.QualificationResponse{}, err
	}

	qualification := models.Qualification{
		TenderID:            tender.ID,
		MatchScore:          result.MatchScore,
		RiskLevel:           result.RiskLevel,
		Recommendation:      result.Recommendation,
		Reasoning:           result.Reasoning,
		KeyRequirements:     requirements,
		EstimatedEffortDays: result.EstimatedEffortDays,
		Confidence:          result.Confidence,
		CreatedAt:           s.now(),
	}

	if err := s.qualifications.Create(ctx, &qualification); err != nil {
		span.RecordError(err)
		return dto.QualificationResponse{}, err
	}

	if tender.Status == models.TenderStatusNew {
		if err := s.tenders.UpdateStatus(ctx, tender.ID, models.TenderStatusQualified); err != nil {
			s.logger.Warn().Err(err).Uint("tender_id", tender.ID).Msg("failed to mark tender qualified")
		}
	}

	observability.QualificationsScored().WithLabelValues(result.Recommendation).Inc()
	span.SetAttributes(
		attribute.Int("qualification.match_score", result.MatchScore),
		attribute.String("qualification.recommendation", result.Recommendation),
	)

	s.logger.Info().
		Uint("tender_id", tender.ID).
		Int("match_score", result.MatchScore).
		Str("recommendation", result.Recommendation).
		Msg("tender qualified")

	return dto.NewQualificationResponse(qualification), nil
}

func (s *qualificationService) Latest(ctx context.Context, tenderID uint) (dto.QualificationResponse, error) {
	qualification, err := s.qualifications.LatestByTenderID(ctx, tenderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QualificationResponse{}, ErrQualificationNotFound
		}
		return dto.QualificationResponse{}, err
	}

	return dto.NewQualificationResponse(qualification), nil
}

func (s *qualificationService) History(ctx context.Context, tenderID uint) ([]dto.QualificationResponse, error) {
	qualifications, err := s.qualifications.ListByTenderID(ctx, tenderID)
	if err != nil {
		return nil, err
	}

	return dto.NewQualificationResponseSlice(qualifications), nil
}
