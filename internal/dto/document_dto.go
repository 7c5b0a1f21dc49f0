package dto

import (
	"github.com/bidflow/bidflow-api/internal/models"
)

// DocumentResponse is the API representation of an uploaded document.
type DocumentResponse struct {
	ID            uint   `json:"id"`
	OpportunityID uint   `json:"opportunity_id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Size          int64  `json:"size"`
	URL           string `json:"url"`
	UploadedBy    uint   `json:"uploaded_by"`
	UploadedAt    string `json:"uploaded_at"`
}

// NewDocumentResponse maps a document model to its API shape.
func NewDocumentResponse(document models.Document) DocumentResponse {
	return DocumentResponse{
		ID:            document.ID,
		OpportunityID: document.OpportunityID,
		Name:          document.Name,
		Type:          document.Type,
		Size:          document.Size,
		URL:           document.URL,
		UploadedBy:    document.UploadedBy,
		UploadedAt:    formatTime(document.UploadedAt),
	}
}

// NewDocumentResponseSlice maps a slice of document models.
func NewDocumentResponseSlice(documents []models.Document) []DocumentResponse {
	responses := make([]DocumentResponse, 0, len(documents))
	for _, document := range documents {
		responses = append(responses, NewDocumentResponse(document))
	}
	return responses
}
