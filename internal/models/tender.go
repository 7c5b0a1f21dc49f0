package models

import "time"

// Tender lifecycle statuses.
const (
	TenderStatusNew        = "new"
	TenderStatusQualified  = "qualified"
	TenderStatusInProgress = "in-progress"
	TenderStatusSubmitted  = "submitted"
	TenderStatusWon        = "won"
	TenderStatusLost       = "lost"
)

// Tender represents a published government procurement opportunity as fetched
// from an external source. Fields other than Status are immutable after ingestion.
type Tender struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Reference     string     `gorm:"size:64;uniqueIndex;not null" json:"reference"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Description   string     `gorm:"type:text" json:"description"`
	Department    string     `gorm:"size:255" json:"department"`
	Category      string     `gorm:"size:128;index" json:"category"`
	Location      string     `gorm:"size:128" json:"location"`
	ValueEstimate *float64   `json:"value_estimate,omitempty"`
	PublishedAt   time.Time  `json:"published_at"`
	ClosingAt     time.Time  `gorm:"not null;index" json:"closing_at"`
	Status        string     `gorm:"size:32;not null;default:new" json:"status"`
	SourceURL     string     `gorm:"size:512" json:"source_url,omitempty"`
	FetchedAt     time.Time  `json:"fetched_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsClosed reports whether the tender's closing date has passed.
func (t Tender) IsClosed(reference time.Time) bool {
	return reference.After(t.ClosingAt)
}
