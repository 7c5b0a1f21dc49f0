package service

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bidflow/bidflow-api/internal/models"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Tender{},
		&models.Qualification{},
		&models.Opportunity{},
		&models.Task{},
		&models.ComplianceItem{},
		&models.Document{},
	))
	return db
}

func newTestValidator() *validator.Validate {
	return validator.New()
}

func seedServiceTender(t *testing.T, db *gorm.DB, reference, category string, value *float64) models.Tender {
	t.Helper()
	tender := models.Tender{
		Reference:     reference,
		Title:         "Upgrade of provincial data centre " + reference,
		Description:   "Supply, installation and commissioning of server equipment.",
		Category:      category,
		ValueEstimate: value,
		ClosingAt:     time.Now().Add(30 * 24 * time.Hour),
		Status:        models.TenderStatusNew,
	}
	require.NoError(t, db.Create(&tender).Error)
	return tender
}

func seedQualification(t *testing.T, db *gorm.DB, tenderID uint, matchScore int) models.Qualification {
	t.Helper()
	qualification := models.Qualification{
		TenderID:       tenderID,
		MatchScore:     matchScore,
		RiskLevel:      models.RiskLevelLow,
		Recommendation: models.RecommendationPursue,
		Reasoning:      "seeded assessment",
		Confidence:     80,
	}
	require.NoError(t, db.Create(&qualification).Error)
	return qualification
}

func floatPtr(v float64) *float64 { return &v }
