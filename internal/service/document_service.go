package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
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
)

var (
	// ErrDocumentNotFound indicates the requested document does not exist.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrDocumentTypeNotAllowed rejects uploads outside the allowed set.
	ErrDocumentTypeNotAllowed = errors.New("document type not allowed")
	// ErrDocumentTooLarge rejects uploads above the size limit.
	ErrDocumentTooLarge = errors.New("document exceeds the size limit")
)

var allowedDocumentTypes = map[string]struct{}{
	"application/pdf": {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       {},
	"image/png":  {},
	"image/jpeg": {},
	"text/plain": {},
}

// FileUploader abstracts uploading binary data and returning a URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// DocumentService manages per-opportunity document uploads.
type DocumentService interface {
	List(ctx context.Context, opportunityID uint) ([]dto.DocumentResponse, error)
	Upload(ctx context.Context, opportunityID uint, file *multipart.FileHeader, uploadedBy uint) (dto.DocumentResponse, error)
	Delete(ctx context.Context, id uint) error
}

type documentService struct {
	documents     repository.DocumentRepository
	opportunities repository.OpportunityRepository
	uploader      FileUploader
	maxSize       int64
	logger        zerolog.Logger
	tracer        trace.Tracer
	now           func() time.Time
}

// NewDocumentService builds a new document service.
func NewDocumentService(documents repository.DocumentRepository, opportunities repository.OpportunityRepository, uploader FileUploader, maxSize int64, logger zerolog.Logger) DocumentService {
	return &documentService{
		documents:     documents,
		opportunities: opportunities,
		uploader:      uploader,
		maxSize:       maxSize,
		logger:        logger.With().Str("component", "document_service").Logger(),
		tracer:        otel.Tracer("github.com/bidflow/bidflow-api/internal/service/document"),
		now:           time.Now,
	}
}

func (s *documentService) List(ctx context.Context, opportunityID uint) ([]dto.DocumentResponse, error) {
	if _, err := s.opportunities.GetByID(ctx, opportunityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOpportunityNotFound
		}
		return nil, err
	}

	documents, err := s.documents.ListByOpportunity(ctx, opportunityID)
	if err != nil {
		return nil, err
	}

	return dto.NewDocumentResponseSlice(documents), nil
}

// Upload sniffs the real MIME type from content, enforces the allowed set and
// size limit, stores the binary externally and records the metadata.
func (s *documentService) Upload(ctx context.Context, opportunityID uint, file *multipart.FileHeader, uploadedBy uint) (dto.DocumentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "document.upload")
	defer span.End()
	span.SetAttributes(attribute.Int("opportunity.id", int(opportunityID)))

	if _, err := s.opportunities.GetByID(ctx, opportunityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "opportunity not found")
			return dto.DocumentResponse{}, ErrOpportunityNotFound
		}
		return dto.DocumentResponse{}, err
	}

	if s.maxSize > 0 && file.Size > s.maxSize {
		observability.DocumentUploadsRejected().WithLabelValues("size").Inc()
		span.SetStatus(codes.Error, "file too large")
		return dto.DocumentResponse{}, fmt.Errorf("%w: %d bytes", ErrDocumentTooLarge, file.Size)
	}

	source, err := file.Open()
	if err != nil {
		return dto.DocumentResponse{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer source.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, source); err != nil {
		return dto.DocumentResponse{}, fmt.Errorf("failed to read file: %w", err)
	}

	// mimetype may append parameters such as "; charset=utf-8".
	detected, _, _ := strings.Cut(mimetype.Detect(buf.Bytes()).String(), ";")
	span.SetAttributes(attribute.String("document.detected_mime", detected))

	if _, ok := allowedDocumentTypes[detected]; !ok {
		observability.DocumentUploadsRejected().WithLabelValues("type").Inc()
		span.RecordError(ErrDocumentTypeNotAllowed)
		span.SetStatus(codes.Error, "type not allowed")
		return dto.DocumentResponse{}, fmt.Errorf("%w: %s", ErrDocumentTypeNotAllowed, detected)
	}

	url, err := s.uploader.Upload(ctx, file.Filename, bytes.NewReader(buf.Bytes()))
	if err != nil {
		span.RecordError(err)
		return dto.DocumentResponse{}, fmt.Errorf("failed to upload document: %w", err)
	}

	document := models.Document{
		OpportunityID: opportunityID,
		Name:          file.Filename,
		Type:          detected,
		Size:          int64(buf.Len()),
		URL:           url,
		UploadedBy:    uploadedBy,
		UploadedAt:    s.now(),
	}

	if err := s.documents.Create(ctx, &document); err != nil {
		return dto.DocumentResponse{}, err
	}

	s.logger.Info().Uint("document_id", document.ID).Uint("opportunity_id", opportunityID).Str("type", detected).Msg("document uploaded")

	return dto.NewDocumentResponse(document), nil
}

func (s *documentService) Delete(ctx context.Context, id uint) error {
	if err := s.documents.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}

	s.logger.Info().Uint("document_id", id).Msg("document deleted")
	return nil
}
