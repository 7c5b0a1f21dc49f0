package models

import "time"

// Compliance item statuses. Moving into compliant or non-compliant requires a
// verifier; reverting to pending clears the verification fields.
const (
	ComplianceStatusPending       = "pending"
	ComplianceStatusCompliant     = "compliant"
	ComplianceStatusNonCompliant  = "non-compliant"
	ComplianceStatusNotApplicable = "not-applicable"
)

// IsComplianceStatus reports whether the value names a known compliance status.
func IsComplianceStatus(status string) bool {
	switch status {
	case ComplianceStatusPending, ComplianceStatusCompliant, ComplianceStatusNonCompliant, ComplianceStatusNotApplicable:
		return true
	}
	return false
}

// ComplianceRequiresVerifier reports whether the status must carry verification details.
func ComplianceRequiresVerifier(status string) bool {
	return status == ComplianceStatusCompliant || status == ComplianceStatusNonCompliant
}

// ComplianceItem is a discrete regulatory or certification requirement tracked
// per opportunity.
type ComplianceItem struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	OpportunityID uint       `gorm:"not null;index" json:"opportunity_id"`
	Requirement   string     `gorm:"size:512;not null" json:"requirement"`
	Status        string     `gorm:"size:32;not null;default:pending" json:"status"`
	Notes         string     `gorm:"type:text" json:"notes,omitempty"`
	VerifiedBy    string     `gorm:"size:128" json:"verified_by,omitempty"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsResolved reports whether the item no longer counts against completion.
func (c ComplianceItem) IsResolved() bool {
	return c.Status == ComplianceStatusCompliant || c.Status == ComplianceStatusNotApplicable
}
