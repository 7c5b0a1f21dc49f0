package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ictProfile() CapabilityProfile {
	return CapabilityProfile{
		Organization: "Test Org",
		Categories: map[string]CategoryCapability{
			"ICT Infrastructure": {
				BaseScore:    85,
				Requirements: []string{"Certified network engineers", "ISO 27001 certification"},
			},
		},
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestScoreKnownCategory(t *testing.T) {
	input := Input{
		Reference:     "DPWI-2024-001",
		Title:         "Supply and Installation of Network Equipment",
		Category:      "ICT Infrastructure",
		ValueEstimate: floatPtr(8_500_000),
	}

	result, err := Score(input, ictProfile())
	require.NoError(t, err)
	require.Equal(t, 85, result.MatchScore)
	require.Equal(t, "low", result.RiskLevel)
	require.Equal(t, "pursue", result.Recommendation)
	require.Equal(t, []string{"Certified network engineers", "ISO 27001 certification"}, result.KeyRequirements)
	require.NotEmpty(t, result.Reasoning)
}

func TestScoreIsDeterministic(t *testing.T) {
	input := Input{
		Reference:     "DOH-2024-089",
		Title:         "Healthcare Management Information System",
		Description:   "Implementation of an integrated healthcare management system.",
		Category:      "ICT Infrastructure",
		ValueEstimate: floatPtr(12_000_000),
	}

	first, err := Score(input, ictProfile())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := Score(input, ictProfile())
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestScoreUnknownCategoryUsesNeutralBaseline(t *testing.T) {
	result, err := Score(Input{Category: "Catering Services"}, ictProfile())
	require.NoError(t, err)
	require.Equal(t, 50, result.MatchScore)
	require.Equal(t, "high", result.RiskLevel)
	require.Equal(t, "skip", result.Recommendation)
	require.Equal(t, []string{"Detailed requirements analysis required"}, result.KeyRequirements)
	require.Equal(t, defaultEffortDays, result.EstimatedEffortDays)
}

func TestScoreBandBoundaries(t *testing.T) {
	profile := CapabilityProfile{
		Organization: "Test Org",
		Categories: map[string]CategoryCapability{
			"Exactly Eighty":    {BaseScore: 80},
			"Just Below Eighty": {BaseScore: 79},
			"Exactly Sixty Five": {BaseScore: 65},
			"Just Below Sixty Five": {BaseScore: 64},
		},
	}

	result, err := Score(Input{Category: "Exactly Eighty"}, profile)
	require.NoError(t, err)
	require.Equal(t, "low", result.RiskLevel)
	require.Equal(t, "pursue", result.Recommendation)

	result, err = Score(Input{Category: "Just Below Eighty"}, profile)
	require.NoError(t, err)
	require.Equal(t, "medium", result.RiskLevel)
	require.Equal(t, "consider", result.Recommendation)

	result, err = Score(Input{Category: "Exactly Sixty Five"}, profile)
	require.NoError(t, err)
	require.Equal(t, "medium", result.RiskLevel)
	require.Equal(t, "consider", result.Recommendation)

	result, err = Score(Input{Category: "Just Below Sixty Five"}, profile)
	require.NoError(t, err)
	require.Equal(t, "high", result.RiskLevel)
	require.Equal(t, "skip", result.Recommendation)
}

func TestScoreKeywordAdjustments(t *testing.T) {
	profile := ictProfile()
	profile.Strengths = []string{"iso 27001"}
	profile.Gaps = []string{"biometric"}

	base, err := Score(Input{Category: "ICT Infrastructure", Description: "plain brief"}, profile)
	require.NoError(t, err)

	boosted, err := Score(Input{Category: "ICT Infrastructure", Description: "requires ISO 27001 certification"}, profile)
	require.NoError(t, err)
	require.Greater(t, boosted.MatchScore, base.MatchScore)

	penalized, err := Score(Input{Category: "ICT Infrastructure", Description: "biometric enrolment stations"}, profile)
	require.NoError(t, err)
	require.Less(t, penalized.MatchScore, base.MatchScore)
}

func TestEffortMonotonicInValue(t *testing.T) {
	profile := ictProfile()
	previous := 0
	for _, value := range []float64{500_000, 2_000_000, 8_500_000, 20_000_000} {
		result, err := Score(Input{Category: "ICT Infrastructure", ValueEstimate: floatPtr(value)}, profile)
		require.NoError(t, err)
		require.GreaterOrEqual(t, result.EstimatedEffortDays, previous)
		previous = result.EstimatedEffortDays
	}
}

func TestEffortMonotonicInMatchScore(t *testing.T) {
	value := floatPtr(8_500_000)
	previous := -1
	for _, base := range []int{95, 80, 60, 30} {
		profile := CapabilityProfile{
			Organization: "Test Org",
			Categories:   map[string]CategoryCapability{"X": {BaseScore: base}},
		}
		result, err := Score(Input{Category: "X", ValueEstimate: value}, profile)
		require.NoError(t, err)
		require.GreaterOrEqual(t, result.EstimatedEffortDays, previous, "lower fit must not reduce effort")
		previous = result.EstimatedEffortDays
	}
}

func TestScoreRejectsMissingCategory(t *testing.T) {
	_, err := Score(Input{Title: "No category"}, ictProfile())
	require.ErrorIs(t, err, ErrMissingCategory)
	require.ErrorIs(t, err, ErrInvalidTender)
}

func TestScoreRejectsNegativeValue(t *testing.T) {
	_, err := Score(Input{Category: "ICT Infrastructure", ValueEstimate: floatPtr(-1)}, ictProfile())
	require.ErrorIs(t, err, ErrNegativeValue)
	require.ErrorIs(t, err, ErrInvalidTender)
}

func TestConfidenceGrowsWithSignalsAndIsCapped(t *testing.T) {
	profile := ictProfile()
	profile.Strengths = []string{"iso 27001", "network infrastructure", "government", "cloud", "security", "data centre", "fibre", "wan", "lan", "voip", "sdn", "firewall", "vpn", "mpls", "monitoring"}

	sparse, err := Score(Input{Category: "Unknown Category"}, profile)
	require.NoError(t, err)

	rich, err := Score(Input{
		Category:      "ICT Infrastructure",
		Description:   "iso 27001 network infrastructure government cloud security",
		ValueEstimate: floatPtr(1_000_000),
	}, profile)
	require.NoError(t, err)

	require.Greater(t, rich.Confidence, sparse.Confidence)

	saturated, err := Score(Input{
		Category:      "ICT Infrastructure",
		Description:   "iso 27001 network infrastructure government cloud security data centre fibre wan lan voip sdn firewall vpn mpls monitoring",
		ValueEstimate: floatPtr(1_000_000),
	}, profile)
	require.NoError(t, err)
	require.LessOrEqual(t, saturated.Confidence, maxConfidence)
}

func TestMatchScoreStaysWithinBounds(t *testing.T) {
	profile := CapabilityProfile{
		Organization: "Test Org",
		Categories:   map[string]CategoryCapability{"Maxed": {BaseScore: 100}, "Floored": {BaseScore: 0}},
		Strengths:    []string{"alpha"},
		Gaps:         []string{"omega"},
	}

	high, err := Score(Input{Category: "Maxed", Description: "alpha"}, profile)
	require.NoError(t, err)
	require.Equal(t, 100, high.MatchScore)

	low, err := Score(Input{Category: "Floored", Description: "omega"}, profile)
	require.NoError(t, err)
	require.Equal(t, 0, low.MatchScore)
}
