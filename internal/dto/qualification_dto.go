package dto

import (
	"encoding/json"

	"github.com/bidflow/bidflow-api/internal/models"
)

// QualificationResponse is the API representation of a scored assessment.
type QualificationResponse struct {
	ID                  uint     `json:"id"`
	TenderID            uint     `json:"tender_id"`
	MatchScore          int      `json:"match_score"`
	RiskLevel           string   `json:"risk_level"`
	Recommendation      string   `json:"recommendation"`
	Reasoning           string   `json:"reasoning"`
	KeyRequirements     []string `json:"key_requirements"`
	EstimatedEffortDays int      `json:"estimated_effort_days"`
	Confidence          int      `json:"confidence"`
	CreatedAt           string   `json:"created_at"`
}

// NewQualificationResponse maps a qualification model to its API shape.
func NewQualificationResponse(qualification models.Qualification) QualificationResponse {
	var requirements []string
	if len(qualification.KeyRequirements) > 0 {
		// Stored as a JSON array; a decode failure yields an empty list rather
		// than a serving error.
		_ = json.Unmarshal(qualification.KeyRequirements, &requirements)
	}

	return QualificationResponse{
		ID:                  qualification.ID,
		TenderID:            qualification.TenderID,
		MatchScore:          qualification.MatchScore,
		RiskLevel:           qualification.RiskLevel,
		Recommendation:      qualification.Recommendation,
		Reasoning:           qualification.Reasoning,
		KeyRequirements:     requirements,
		EstimatedEffortDays: qualification.EstimatedEffortDays,
		Confidence:          qualification.Confidence,
		CreatedAt:           formatTime(qualification.CreatedAt),
	}
}

// NewQualificationResponseSlice maps a slice of qualification models.
func NewQualificationResponseSlice(qualifications []models.Qualification) []QualificationResponse {
	responses := make([]QualificationResponse, 0, len(qualifications))
	for _, qualification := range qualifications {
		responses = append(responses, NewQualificationResponse(qualification))
	}
	return responses
}
