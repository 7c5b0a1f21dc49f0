package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/bidflow/bidflow-api/internal/dto"
	"github.com/bidflow/bidflow-api/internal/etenders"
	"github.com/bidflow/bidflow-api/internal/models"
	"github.com/bidflow/bidflow-api/internal/repository"
)

var (
	// ErrTenderNotFound indicates the requested tender does not exist.
	ErrTenderNotFound = errors.New("tender not found")
	// ErrDuplicateTenderReference indicates the reference is already registered.
	ErrDuplicateTenderReference = errors.New("tender reference already registered")
)

// ExternalTenderSearcher queries an external tender listing feed.
type ExternalTenderSearcher interface {
	Search(ctx context.Context, query etenders.Query) ([]etenders.Result, error)
}

// TenderService exposes tender ingestion and lookup use cases.
type TenderService interface {
	List(ctx context.Context, req dto.TenderListRequest) (dto.TenderListResponse, error)
	Get(ctx context.Context, id uint) (dto.TenderResponse, error)
	Create(ctx context.Context, payload dto.TenderCreateRequest) (dto.TenderResponse, error)
	Delete(ctx context.Context, id uint) error
	SearchExternal(ctx context.Context, query etenders.Query) ([]etenders.Result, error)
	Import(ctx context.Context, result etenders.Result) (dto.TenderResponse, error)
}

type tenderService struct {
	repo      repository.TenderRepository
	searcher  ExternalTenderSearcher
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewTenderService builds a new tender service. The external searcher may be
// nil when no feed is configured.
func NewTenderService(repo repository.TenderRepository, searcher ExternalTenderSearcher, validate *validator.Validate, logger zerolog.Logger) TenderService {
	return &tenderService{
		repo:      repo,
		searcher:  searcher,
		validator: validate,
		logger:    logger.With().Str("component", "tender_service").Logger(),
		now:       time.Now,
	}
}

func (s *tenderService) List(ctx context.Context, req dto.TenderListRequest) (dto.TenderListResponse, error) {
	filter := repository.TenderFilter{
		Category: req.Category,
		Search:   req.Search,
		Status:   req.Status,
		Sort:     req.Sort,
		MinValue: req.MinValue,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	tenders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.TenderListResponse{}, err
	}

	return dto.TenderListResponse{
		Items:      dto.NewTenderResponseSlice(tenders),
		Pagination: dto.NewPagination(req.Page, req.PageSize, total),
		Search:     req.Search,
	}, nil
}

func (s *tenderService) Get(ctx context.Context, id uint) (dto.TenderResponse, error) {
	tender, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TenderResponse{}, ErrTenderNotFound
		}
		return dto.TenderResponse{}, err
	}

	return dto.NewTenderResponse(tender), nil
}

func (s *tenderService) Create(ctx context.Context, payload dto.TenderCreateRequest) (dto.TenderResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TenderResponse{}, err
	}

	if _, err := s.repo.GetByReference(ctx, payload.Reference); err == nil {
		return dto.TenderResponse{}, ErrDuplicateTenderReference
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.TenderResponse{}, err
	}

	closingAt, err := time.Parse(time.RFC3339, payload.ClosingAt)
	if err != nil {
		return dto.TenderResponse{}, fmt.Errorf("invalid closing date: %w", err)
	}

	tender := models.Tender{
		Reference:     payload.Reference,
		Title:         payload.Title,
		Description:   payload.Description,
		Department:    payload.Department,
		Category:      payload.Category,
		Location:      payload.Location,
		ValueEstimate: payload.ValueEstimate,
		ClosingAt:     closingAt,
		Status:        models.TenderStatusNew,
		SourceURL:     payload.SourceURL,
		FetchedAt:     s.now(),
	}

	if payload.PublishedAt != "" {
		publishedAt, err := time.Parse(time.RFC3339, payload.PublishedAt)
		if err != nil {
			return dto.TenderResponse{}, fmt.Errorf("invalid publish date: %w", err)
		}
		tender.PublishedAt = publishedAt
	}

	if err := s.repo.Create(ctx, &tender); err != nil {
		return dto.TenderResponse{}, err
	}

	s.logger.Info().Uint("tender_id", tender.ID).Str("reference", tender.Reference).Msg("tender registered")

	return dto.NewTenderResponse(tender), nil
}

func (s *tenderService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTenderNotFound
		}
		return err
	}

	s.logger.Info().Uint("tender_id", id).Msg("tender deleted")
	return nil
}

func (s *tenderService) SearchExternal(ctx context.Context, query etenders.Query) ([]etenders.Result, error) {
	if s.searcher == nil {
		return nil, fmt.Errorf("external tender search is not configured")
	}

	return s.searcher.Search(ctx, query)
}

// Import registers a tender from an external search result.
func (s *tenderService) Import(ctx context.Context, result etenders.Result) (dto.TenderResponse, error) {
	payload := dto.TenderCreateRequest{
		Reference:   result.TenderNumber,
		Title:       result.Title,
		Description: result.Description,
		Department:  result.Department,
		Category:    result.Category,
		Location:    result.Province,
		PublishedAt: result.PublishDate,
		ClosingAt:   result.ClosingDate,
		SourceURL:   result.SourceURL,
	}

	return s.Create(ctx, payload)
}
