package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/bidflow/bidflow-api/internal/dto"
	"github.com/bidflow/bidflow-api/internal/models"
	"github.com/bidflow/bidflow-api/internal/repository"
)

// DashboardService aggregates portfolio figures for the overview screens.
type DashboardService interface {
	GetOverview(ctx context.Context) (dto.DashboardResponse, error)
}

type dashboardService struct {
	repo     repository.DashboardRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewDashboardService constructs the dashboard aggregator. The cache client
// may be nil, in which case every call recomputes.
func NewDashboardService(repo repository.DashboardRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
		now:      time.Now,
	}
}

func (s *dashboardService) GetOverview(ctx context.Context) (dto.DashboardResponse, error) {
	const cacheKey = "dashboard:overview"
	tracer := otel.Tracer("github.com/bidflow/bidflow-api/internal/service/dashboard")
	ctx, span := tracer.Start(ctx, "dashboard.aggregate")
	span.SetAttributes(attribute.String("dashboard.cache_key", cacheKey))
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				span.SetAttributes(attribute.Bool("dashboard.cache_hit", true))
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
			span.RecordError(err)
		}
	}

	tendersByStatus, err := s.repo.CountTendersByStatus(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_tenders_failed")
		return dto.DashboardResponse{}, err
	}

	opportunities, err := s.repo.ListOpportunitiesWithTenders(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_opportunities_failed")
		return dto.DashboardResponse{}, err
	}

	response := s.buildResponse(tendersByStatus, opportunities)
	span.SetAttributes(attribute.Int("dashboard.opportunity_count", len(opportunities)))

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
				span.RecordError(err)
			}
		}
	}

	return response, nil
}

func (s *dashboardService) buildResponse(tendersByStatus map[string]int64, opportunities []models.Opportunity) dto.DashboardResponse {
	byStage := map[string]int64{}
	var pipelineValue float64
	var won, lost int64
	var probabilityTotal, activeCount int

	for _, opportunity := range opportunities {
		byStage[opportunity.Status]++

		switch opportunity.Status {
		case models.OpportunityStatusWon:
			won++
		case models.OpportunityStatusLost:
			lost++
		default:
			if opportunity.Tender.ValueEstimate != nil {
				pipelineValue += *opportunity.Tender.ValueEstimate
			}
			probabilityTotal += opportunity.WinProbability
			activeCount++
		}
	}

	winRate := 0.0
	if won+lost > 0 {
		winRate = math.Round(float64(won)/float64(won+lost)*1000) / 10
	}

	averageProbability := 0
	if activeCount > 0 {
		averageProbability = int(math.Round(float64(probabilityTotal) / float64(activeCount)))
	}

	return dto.DashboardResponse{
		TendersByStatus:       tendersByStatus,
		OpportunitiesByStage:  byStage,
		TotalPipelineValue:    pipelineValue,
		WinRate:               winRate,
		AverageWinProbability: averageProbability,
		GeneratedAt:           s.now().UTC().Format(time.RFC3339),
	}
}
