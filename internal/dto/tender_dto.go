package dto

import (
	"github.com/bidflow/bidflow-api/internal/models"
)

// TenderCreateRequest describes the payload for registering a tender.
type TenderCreateRequest struct {
	Reference     string   `json:"reference" validate:"required,min=3,max=64"`
	Title         string   `json:"title" validate:"required,min=3,max=255"`
	Description   string   `json:"description" validate:"omitempty,max=10000"`
	Department    string   `json:"department" validate:"omitempty,max=255"`
	Category      string   `json:"category" validate:"required,max=128"`
	Location      string   `json:"location" validate:"omitempty,max=128"`
	ValueEstimate *float64 `json:"value_estimate" validate:"omitempty,gte=0"`
	PublishedAt   string   `json:"published_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	ClosingAt     string   `json:"closing_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	SourceURL     string   `json:"source_url" validate:"omitempty,url,max=512"`
}

// TenderListRequest carries the recognized tender filter fields.
type TenderListRequest struct {
	Category string
	Search   string
	Status   string
	Sort     string
	MinValue *float64
	Page     int
	PageSize int
}

// TenderResponse is the API representation of a tender.
type TenderResponse struct {
	ID            uint     `json:"id"`
	Reference     string   `json:"reference"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Department    string   `json:"department"`
	Category      string   `json:"category"`
	Location      string   `json:"location"`
	ValueEstimate *float64 `json:"value_estimate,omitempty"`
	PublishedAt   string   `json:"published_at,omitempty"`
	ClosingAt     string   `json:"closing_at"`
	Status        string   `json:"status"`
	SourceURL     string   `json:"source_url,omitempty"`
	FetchedAt     string   `json:"fetched_at,omitempty"`
	CreatedAt     string   `json:"created_at"`
}

// TenderListResponse wraps a filtered tender page.
type TenderListResponse struct {
	Items      []TenderResponse `json:"items"`
	Pagination Pagination       `json:"pagination"`
	Search     string           `json:"search,omitempty"`
}

// NewTenderResponse maps a tender model to its API shape.
func NewTenderResponse(tender models.Tender) TenderResponse {
	return TenderResponse{
		ID:            tender.ID,
		Reference:     tender.Reference,
		Title:         tender.Title,
		Description:   tender.Description,
		Department:    tender.Department,
		Category:      tender.Category,
		Location:      tender.Location,
		ValueEstimate: tender.ValueEstimate,
		PublishedAt:   formatTime(tender.PublishedAt),
		ClosingAt:     formatTime(tender.ClosingAt),
		Status:        tender.Status,
		SourceURL:     tender.SourceURL,
		FetchedAt:     formatTime(tender.FetchedAt),
		CreatedAt:     formatTime(tender.CreatedAt),
	}
}

// NewTenderResponseSlice maps a slice of tender models.
func NewTenderResponseSlice(tenders []models.Tender) []TenderResponse {
	responses := make([]TenderResponse, 0, len(tenders))
	for _, tender := range tenders {
		responses = append(responses, NewTenderResponse(tender))
	}
	return responses
}
