package scoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	_ "embed"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed profile_schema.json
var profileSchema []byte

//go:embed default_profile.json
var defaultProfile []byte

// CategoryCapability describes how well the organization is positioned for a
// single tender category.
type CategoryCapability struct {
	BaseScore    int      `json:"base_score"`
	Requirements []string `json:"requirements,omitempty"`
}

// CapabilityProfile captures the bidding organization's strengths per tender
// category plus the certification/technology keywords it holds or lacks.
// Keyword and category matching is case-insensitive.
type CapabilityProfile struct {
	Organization string                        `json:"organization"`
	Categories   map[string]CategoryCapability `json:"categories"`
	Strengths    []string                      `json:"strengths,omitempty"`
	Gaps         []string                      `json:"gaps,omitempty"`
}

// Capability looks up the category capability, case-insensitively.
func (p CapabilityProfile) Capability(category string) (CategoryCapability, bool) {
	needle := strings.ToLower(strings.TrimSpace(category))
	for name, capability := range p.Categories {
		if strings.ToLower(strings.TrimSpace(name)) == needle {
			return capability, true
		}
	}
	return CategoryCapability{}, false
}

// LoadProfile reads and validates a capability profile from a JSON file.
func LoadProfile(path string) (CapabilityProfile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return CapabilityProfile{}, fmt.Errorf("failed to read capability profile: %w", err)
	}

	return ParseProfile(raw)
}

// ParseProfile validates raw JSON against the profile schema and decodes it.
func ParseProfile(raw []byte) (CapabilityProfile, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("profile_schema.json", bytes.NewReader(profileSchema)); err != nil {
		return CapabilityProfile{}, fmt.Errorf("failed to load profile schema: %w", err)
	}

	schema, err := compiler.Compile("profile_schema.json")
	if err != nil {
		return CapabilityProfile{}, fmt.Errorf("failed to compile profile schema: %w", err)
	}

	var document interface{}
	if err := json.Unmarshal(raw, &document); err != nil {
		return CapabilityProfile{}, fmt.Errorf("capability profile is not valid JSON: %w", err)
	}

	if err := schema.Validate(document); err != nil {
		return CapabilityProfile{}, fmt.Errorf("capability profile failed validation: %w", err)
	}

	var profile CapabilityProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return CapabilityProfile{}, fmt.Errorf("failed to decode capability profile: %w", err)
	}

	return profile, nil
}

// DefaultProfile returns the embedded fallback profile used when no profile
// file is configured.
func DefaultProfile() CapabilityProfile {
	profile, err := ParseProfile(defaultProfile)
	if err != nil {
		// The embedded profile is validated by tests; reaching this means the
		// binary itself is broken.
		panic(fmt.Sprintf("embedded capability profile is invalid: %v", err))
	}
	return profile
}
