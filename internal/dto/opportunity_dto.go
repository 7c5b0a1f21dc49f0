package dto

import (
	"github.com/bidflow/bidflow-api/internal/models"
)

// OpportunityCreateRequest promotes a tender into the pipeline.
type OpportunityCreateRequest struct {
	TenderID        uint  `json:"tender_id" validate:"required"`
	QualificationID *uint `json:"qualification_id"`
	AssignedTo      *uint `json:"assigned_to"`
}

// OpportunityTransitionRequest moves an opportunity to a target stage. Force
// bypasses the open high-priority task gate on the move into review.
type OpportunityTransitionRequest struct {
	Status string `json:"status" validate:"required"`
	Force  bool   `json:"force"`
}

// OpportunityListRequest narrows opportunity listings.
type OpportunityListRequest struct {
	AssignedTo *uint
	Status     string
	Page       int
	PageSize   int
}

// OpportunityResponse is the API representation of a pipeline record.
type OpportunityResponse struct {
	ID              uint                   `json:"id"`
	TenderID        uint                   `json:"tender_id"`
	Tender          *TenderResponse        `json:"tender,omitempty"`
	QualificationID *uint                  `json:"qualification_id,omitempty"`
	AssignedTo      *uint                  `json:"assigned_to,omitempty"`
	Status          string                 `json:"status"`
	WinProbability  int                    `json:"win_probability"`
	SubmittedAt     *string                `json:"submitted_at,omitempty"`
	CreatedAt       string                 `json:"created_at"`
	UpdatedAt       string                 `json:"updated_at"`
	Tasks           []TaskResponse         `json:"tasks,omitempty"`
	ComplianceItems []ComplianceResponse   `json:"compliance_items,omitempty"`
	Documents       []DocumentResponse     `json:"documents,omitempty"`
}

// OpportunityListResponse wraps a filtered opportunity page.
type OpportunityListResponse struct {
	Items      []OpportunityResponse `json:"items"`
	Pagination Pagination            `json:"pagination"`
}

// NewOpportunityResponse maps an opportunity model to its API shape.
func NewOpportunityResponse(opportunity models.Opportunity) OpportunityResponse {
	response := OpportunityResponse{
		ID:              opportunity.ID,
		TenderID:        opportunity.TenderID,
		QualificationID: opportunity.QualificationID,
		AssignedTo:      opportunity.AssignedTo,
		Status:          opportunity.Status,
		WinProbability:  opportunity.WinProbability,
		SubmittedAt:     formatTimePtr(opportunity.SubmittedAt),
		CreatedAt:       formatTime(opportunity.CreatedAt),
		UpdatedAt:       formatTime(opportunity.UpdatedAt),
	}

	if opportunity.Tender.ID != 0 {
		tender := NewTenderResponse(opportunity.Tender)
		response.Tender = &tender
	}

	for _, task := range opportunity.Tasks {
		response.Tasks = append(response.Tasks, NewTaskResponse(task))
	}
	for _, item := range opportunity.ComplianceItems {
		response.ComplianceItems = append(response.ComplianceItems, NewComplianceResponse(item))
	}
	for _, document := range opportunity.Documents {
		response.Documents = append(response.Documents, NewDocumentResponse(document))
	}

	return response
}

// NewOpportunityResponseSlice maps a slice of opportunity models.
func NewOpportunityResponseSlice(opportunities []models.Opportunity) []OpportunityResponse {
	responses := make([]OpportunityResponse, 0, len(opportunities))
	for _, opportunity := range opportunities {
		responses = append(responses, NewOpportunityResponse(opportunity))
	}
	return responses
}
