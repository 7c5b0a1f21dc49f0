package models

import "time"

// Opportunity pipeline stages.
const (
	OpportunityStatusQualifying = "qualifying"
	OpportunityStatusPreparing  = "preparing"
	OpportunityStatusReview     = "review"
	OpportunityStatusSubmitted  = "submitted"
	OpportunityStatusWon        = "won"
	OpportunityStatusLost       = "lost"
)

// opportunityTransitions lists the reachable target stages per current stage.
// Backward moves between non-terminal stages are deliberate corrections and
// must be requested explicitly; won/lost accept nothing.
var opportunityTransitions = map[string][]string{
	OpportunityStatusQualifying: {OpportunityStatusPreparing},
	OpportunityStatusPreparing:  {OpportunityStatusReview, OpportunityStatusQualifying},
	OpportunityStatusReview:     {OpportunityStatusSubmitted, OpportunityStatusPreparing},
	OpportunityStatusSubmitted:  {OpportunityStatusWon, OpportunityStatusLost, OpportunityStatusReview},
	OpportunityStatusWon:        {},
	OpportunityStatusLost:       {},
}

// CanTransitionOpportunity reports whether target is reachable from current.
func CanTransitionOpportunity(current, target string) bool {
	for _, allowed := range opportunityTransitions[current] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminalOpportunityStatus reports whether the stage accepts no further transitions.
func IsTerminalOpportunityStatus(status string) bool {
	return status == OpportunityStatusWon || status == OpportunityStatusLost
}

// IsOpportunityStatus reports whether the value names a known pipeline stage.
func IsOpportunityStatus(status string) bool {
	_, ok := opportunityTransitions[status]
	return ok
}

// Opportunity is an internal pipeline record tracking pursuit of a tender.
// It owns its tasks, compliance items and documents.
type Opportunity struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	TenderID        uint             `gorm:"not null;index" json:"tender_id"`
	Tender          Tender           `json:"tender"`
	QualificationID *uint            `json:"qualification_id,omitempty"`
	AssignedTo      *uint            `gorm:"index" json:"assigned_to,omitempty"`
	Status          string           `gorm:"size:32;not null;default:qualifying" json:"status"`
	WinProbability  int              `gorm:"not null;default:0" json:"win_probability"`
	SubmittedAt     *time.Time       `json:"submitted_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Tasks           []Task           `gorm:"constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
	ComplianceItems []ComplianceItem `gorm:"constraint:OnDelete:CASCADE" json:"compliance_items,omitempty"`
	Documents       []Document       `gorm:"constraint:OnDelete:CASCADE" json:"documents,omitempty"`
}
