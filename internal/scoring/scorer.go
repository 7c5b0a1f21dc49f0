// Package scoring implements the deterministic tender qualification scorer.
// Given a tender's attributes and a capability profile it produces a match
// score, risk band, recommendation and effort estimate. The scorer is a pure
// function: persistence of the result is the caller's concern.
package scoring

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Scoring bands shared with the qualification model.
const (
	pursueThreshold   = 80
	considerThreshold = 65

	neutralBaseScore  = 50
	keywordAdjustCap  = 10
	keywordAdjustStep = 2

	defaultEffortDays = 120
	minEffortDays     = 10
	valuePerEffortDay = 50000

	baseConfidence = 50
	maxConfidence  = 95
)

var (
	// ErrInvalidTender indicates the tender lacks data required for scoring.
	ErrInvalidTender = errors.New("invalid tender for qualification")
	// ErrMissingCategory indicates the tender has no category.
	ErrMissingCategory = fmt.Errorf("%w: category is required", ErrInvalidTender)
	// ErrNegativeValue indicates a negative value estimate.
	ErrNegativeValue = fmt.Errorf("%w: value estimate must be non-negative", ErrInvalidTender)
)

// Input carries the tender attributes the scorer reads.
type Input struct {
	Reference     string
	Title         string
	Description   string
	Category      string
	ValueEstimate *float64
}

// Result is the qualification verdict for a single tender.
type Result struct {
	MatchScore          int
	RiskLevel           string
	Recommendation      string
	Reasoning           string
	KeyRequirements     []string
	EstimatedEffortDays int
	Confidence          int
}

// Score qualifies a tender against the capability profile. The same input
// always produces the same result.
func Score(in Input, profile CapabilityProfile) (Result, error) {
	if strings.TrimSpace(in.Category) == "" {
		return Result{}, ErrMissingCategory
	}
	if in.ValueEstimate != nil && *in.ValueEstimate < 0 {
		return Result{}, ErrNegativeValue
	}

	capability, categoryKnown := profile.Capability(in.Category)
	score := neutralBaseScore
	if categoryKnown {
		score = capability.BaseScore
	}

	text := strings.ToLower(in.Title + " " + in.Description)
	strengthHits := matchKeywords(text, profile.Strengths)
	gapHits := matchKeywords(text, profile.Gaps)

	score += keywordAdjustment(len(strengthHits))
	score -= keywordAdjustment(len(gapHits))
	score = clamp(score, 0, 100)

	result := Result{
		MatchScore:          score,
		RiskLevel:           riskLevel(score),
		Recommendation:      recommendation(score),
		Reasoning:           buildReasoning(in, score, categoryKnown, strengthHits, gapHits),
		KeyRequirements:     keyRequirements(capability, categoryKnown),
		EstimatedEffortDays: effortDays(in.ValueEstimate, score),
		Confidence:          confidence(categoryKnown, in.ValueEstimate != nil, len(strengthHits)+len(gapHits)),
	}

	return result, nil
}

func riskLevel(score int) string {
	switch {
	case score >= pursueThreshold:
		return "low"
	case score >= considerThreshold:
		return "medium"
	default:
		return "high"
	}
}

func recommendation(score int) string {
	switch {
	case score >= pursueThreshold:
		return "pursue"
	case score >= considerThreshold:
		return "consider"
	default:
		return "skip"
	}
}

// effortDays grows with contract value and shrinks as the fit improves.
func effortDays(valueEstimate *float64, score int) int {
	if valueEstimate == nil {
		return defaultEffortDays
	}

	misfit := 1.0 + float64(100-score)/100.0
	days := int(math.Round(*valueEstimate / valuePerEffortDay * misfit))
	if days < minEffortDays {
		return minEffortDays
	}
	return days
}

// confidence reflects how much signal was available, capped at maxConfidence.
func confidence(categoryKnown, valueKnown bool, keywordSignals int) int {
	value := baseConfidence
	if categoryKnown {
		value += 20
	}
	if valueKnown {
		value += 10
	}
	value += 3 * keywordSignals
	return clamp(value, 0, maxConfidence)
}

func keywordAdjustment(hits int) int {
	adjustment := hits * keywordAdjustStep
	if adjustment > keywordAdjustCap {
		return keywordAdjustCap
	}
	return adjustment
}

func matchKeywords(text string, keywords []string) []string {
	matched := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		normalized := strings.ToLower(strings.TrimSpace(keyword))
		if normalized == "" {
			continue
		}
		if strings.Contains(text, normalized) {
			matched = append(matched, normalized)
		}
	}
	return matched
}

func keyRequirements(capability CategoryCapability, categoryKnown bool) []string {
	if categoryKnown && len(capability.Requirements) > 0 {
		requirements := make([]string, len(capability.Requirements))
		copy(requirements, capability.Requirements)
		return requirements
	}
	return []string{"Detailed requirements analysis required"}
}

func buildReasoning(in Input, score int, categoryKnown bool, strengthHits, gapHits []string) string {
	var sentences []string

	switch {
	case !categoryKnown:
		sentences = append(sentences, fmt.Sprintf("Category %q is outside the configured capability profile; scored from the neutral baseline.", in.Category))
	case score >= pursueThreshold:
		sentences = append(sentences, fmt.Sprintf("Strong alignment with our %s capability.", in.Category))
	case score >= considerThreshold:
		sentences = append(sentences, fmt.Sprintf("Reasonable fit with our %s capability, with some open risk.", in.Category))
	default:
		sentences = append(sentences, fmt.Sprintf("Limited fit with our %s capability.", in.Category))
	}

	if len(strengthHits) > 0 {
		sentences = append(sentences, fmt.Sprintf("Capability signals matched in the brief: %s.", strings.Join(strengthHits, ", ")))
	}
	if len(gapHits) > 0 {
		sentences = append(sentences, fmt.Sprintf("Known capability gaps mentioned in the brief: %s.", strings.Join(gapHits, ", ")))
	}

	if in.ValueEstimate != nil {
		sentences = append(sentences, fmt.Sprintf("Estimated contract value of %.0f factored into the effort estimate.", *in.ValueEstimate))
	} else {
		sentences = append(sentences, "No value estimate provided; a standard effort allocation applies.")
	}

	return strings.Join(sentences, " ")
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
