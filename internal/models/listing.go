package models

import "strings"

// Tone selects the opening sentence of a listing description
type Tone string

const (
	ToneProfessional Tone = "Professional"
	ToneElegant      Tone = "Elegant/Luxury"
	ToneUrgent       Tone = "Urgent/Investment"
)

// DefaultTone is used whenever a tone is missing or not recognised
const DefaultTone = ToneProfessional

// FeatureStyle controls how the highlights paragraph lists features
type FeatureStyle string

const (
	FeatureStyleInline  FeatureStyle = "inline"
	FeatureStyleBullets FeatureStyle = "bullets"
)

// ParseFeatureStyle returns the style named by s, defaulting to inline.
func ParseFeatureStyle(s string) FeatureStyle {
	if FeatureStyle(strings.ToLower(strings.TrimSpace(s))) == FeatureStyleBullets {
		return FeatureStyleBullets
	}
	return FeatureStyleInline
}

// ListingSpec is the fully populated set of listing attributes a description
// and brochure are generated from. It is passed by value; NewListingSpec
// copies the feature slice so callers cannot mutate it afterwards.
type ListingSpec struct {
	PropertyType string   `json:"property_type"`
	Location     string   `json:"location"`
	Price        string   `json:"price"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	AreaSqFt     int      `json:"area_sq_ft"`
	Parking      string   `json:"parking"`
	Furnishing   string   `json:"furnishing"`
	Features     []string `json:"features"`
	Tone         Tone     `json:"tone"`
}

// NewListingSpec returns a copy of spec that shares no memory with the input.
func NewListingSpec(spec ListingSpec) ListingSpec {
	features := make([]string, len(spec.Features))
	copy(features, spec.Features)
	spec.Features = features
	return spec
}

// ParseFeatures splits a comma separated list of highlights, trimming each
// entry and dropping empty ones. Input order is preserved.
func ParseFeatures(raw string) []string {
	features := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			features = append(features, trimmed)
		}
	}
	return features
}
