package dto

import (
	"github.com/bidflow/bidflow-api/internal/models"
)

// ComplianceCreateRequest adds a requirement to an opportunity's checklist.
type ComplianceCreateRequest struct {
	Requirement string `json:"requirement" validate:"required,min=3,max=512"`
	Notes       string `json:"notes" validate:"omitempty,max=10000"`
}

// ComplianceStatusRequest moves a compliance item to a new status. VerifiedBy
// is mandatory when the target status is compliant or non-compliant.
type ComplianceStatusRequest struct {
	Status     string `json:"status" validate:"required,oneof=pending compliant non-compliant not-applicable"`
	VerifiedBy string `json:"verified_by" validate:"omitempty,max=128"`
	Notes      string `json:"notes" validate:"omitempty,max=10000"`
}

// ComplianceResponse is the API representation of a compliance item.
type ComplianceResponse struct {
	ID            uint    `json:"id"`
	OpportunityID uint    `json:"opportunity_id"`
	Requirement   string  `json:"requirement"`
	Status        string  `json:"status"`
	Notes         string  `json:"notes,omitempty"`
	VerifiedBy    string  `json:"verified_by,omitempty"`
	VerifiedAt    *string `json:"verified_at,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// NewComplianceResponse maps a compliance item model to its API shape.
func NewComplianceResponse(item models.ComplianceItem) ComplianceResponse {
	return ComplianceResponse{
		ID:            item.ID,
		OpportunityID: item.OpportunityID,
		Requirement:   item.Requirement,
		Status:        item.Status,
		Notes:         item.Notes,
		VerifiedBy:    item.VerifiedBy,
		VerifiedAt:    formatTimePtr(item.VerifiedAt),
		CreatedAt:     formatTime(item.CreatedAt),
		UpdatedAt:     formatTime(item.UpdatedAt),
	}
}

// NewComplianceResponseSlice maps a slice of compliance item models.
func NewComplianceResponseSlice(items []models.ComplianceItem) []ComplianceResponse {
	responses := make([]ComplianceResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewComplianceResponse(item))
	}
	return responses
}
