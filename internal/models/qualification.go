package models

import (
	"time"

	"gorm.io/datatypes"
)

// Risk level bands derived from the match score.
const (
	RiskLevelLow    = "low"
	RiskLevelMedium = "medium"
	RiskLevelHigh   = "high"
)

// Bid recommendations derived from the match score.
const (
	RecommendationPursue   = "pursue"
	RecommendationConsider = "consider"
	RecommendationSkip     = "skip"
)

// Qualification is a scored assessment of whether to pursue a tender.
// Records are append-only; re-qualifying a tender creates a new row and the
// latest row is the current assessment.
type Qualification struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	TenderID            uint           `gorm:"not null;index" json:"tender_id"`
	MatchScore          int            `gorm:"not null" json:"match_score"`
	RiskLevel           string         `gorm:"size:16;not null" json:"risk_level"`
	Recommendation      string         `gorm:"size:16;not null" json:"recommendation"`
	Reasoning           string         `gorm:"type:text" json:"reasoning"`
	KeyRequirements     datatypes.JSON `json:"key_requirements"`
	EstimatedEffortDays int            `gorm:"not null" json:"estimated_effort_days"`
	Confidence          int            `gorm:"not null" json:"confidence"`
	CreatedAt           time.Time      `json:"created_at"`
}
