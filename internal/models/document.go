package models

import "time"

// Document is an uploaded bid artifact attached to an opportunity. The binary
// itself lives in external storage; only the metadata and URL are kept here.
type Document struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OpportunityID uint      `gorm:"not null;index" json:"opportunity_id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Type          string    `gorm:"size:128" json:"type"`
	Size          int64     `gorm:"not null" json:"size"`
	URL           string    `gorm:"size:512;not null" json:"url"`
	UploadedBy    uint      `json:"uploaded_by"`
	UploadedAt    time.Time `json:"uploaded_at"`
}
