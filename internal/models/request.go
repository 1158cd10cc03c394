package models

import (
	"fmt"
	"sort"
	"strings"
)

// ListingRequest is the raw listing input as submitted by the form or the
// JSON API. Pointer fields distinguish "not sent" from zero values so that
// catalog defaults only fill what the caller left out.
type ListingRequest struct {
	PropertyType string  `form:"property_type" json:"property_type" binding:"max=120"`
	Location     string  `form:"location" json:"location" binding:"max=200"`
	Price        string  `form:"price" json:"price" binding:"max=80"`
	Bedrooms     *int    `form:"bedrooms" json:"bedrooms"`
	Bathrooms    *int    `form:"bathrooms" json:"bathrooms"`
	AreaSqFt     *int    `form:"area_sq_ft" json:"area_sq_ft"`
	Parking      string  `form:"parking" json:"parking" binding:"max=120"`
	Furnishing   string  `form:"furnishing" json:"furnishing" binding:"max=120"`
	Features     *string `form:"features" json:"features" binding:"omitempty,max=2000"`
	Tone         string  `form:"tone" json:"tone" binding:"max=60"`
	FeatureStyle string  `form:"feature_style" json:"feature_style"`
}

// ValidationErrors maps a request field to the problems found with it
type ValidationErrors map[string][]string

func (v ValidationErrors) Add(field, message string) {
	v[field] = append(v[field], message)
}

func (v ValidationErrors) Empty() bool {
	return len(v) == 0
}

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(v[field], "; ")))
	}
	return "invalid listing: " + strings.Join(parts, ", ")
}

// ApplyDefaults fills every field the request left empty from the catalog.
func (r *ListingRequest) ApplyDefaults(c *Catalog) {
	d := c.Defaults

	r.PropertyType = strings.TrimSpace(r.PropertyType)
	r.Location = strings.TrimSpace(r.Location)
	r.Price = strings.TrimSpace(r.Price)
	r.Parking = strings.TrimSpace(r.Parking)
	r.Furnishing = strings.TrimSpace(r.Furnishing)
	r.Tone = strings.TrimSpace(r.Tone)

	if r.PropertyType == "" {
		r.PropertyType = d.PropertyType
	}
	if r.Location == "" {
		r.Location = d.Location
	}
	if r.Price == "" {
		r.Price = d.Price
	}
	if r.Bedrooms == nil {
		r.Bedrooms = intPtr(d.Bedrooms)
	}
	if r.Bathrooms == nil {
		r.Bathrooms = intPtr(d.Bathrooms)
	}
	if r.AreaSqFt == nil {
		r.AreaSqFt = intPtr(d.AreaSqFt)
	}
	if r.Parking == "" {
		r.Parking = d.Parking
	}
	if r.Furnishing == "" {
		r.Furnishing = d.Furnishing
	}
	if r.Features == nil {
		features := d.Features
		r.Features = &features
	}
	if r.Tone == "" {
		r.Tone = string(d.Tone)
	}
	if r.Tone == "" {
		r.Tone = string(DefaultTone)
	}
}

// Validate checks enum membership and numeric bounds against the catalog.
// It expects ApplyDefaults to have run. The tone is deliberately not checked:
// unknown tones are composed with the default opening.
func (r *ListingRequest) Validate(c *Catalog) ValidationErrors {
	errs := ValidationErrors{}

	if !c.HasPropertyType(r.PropertyType) {
		errs.Add("property_type", fmt.Sprintf("unknown property type %q", r.PropertyType))
	}
	if r.Location == "" {
		errs.Add("location", "location is required")
	}
	if r.Price == "" {
		errs.Add("price", "price is required")
	}
	if !c.HasParking(r.Parking) {
		errs.Add("parking", fmt.Sprintf("unknown parking option %q", r.Parking))
	}
	if !c.HasFurnishing(r.Furnishing) {
		errs.Add("furnishing", fmt.Sprintf("unknown furnishing level %q", r.Furnishing))
	}

	b := c.Bounds
	checkRange(errs, "bedrooms", r.Bedrooms, b.MinRooms, b.MaxRooms)
	checkRange(errs, "bathrooms", r.Bathrooms, b.MinRooms, b.MaxRooms)
	checkRange(errs, "area_sq_ft", r.AreaSqFt, b.MinAreaSqFt, b.MaxAreaSqFt)

	return errs
}

// ToSpec converts a defaulted, validated request into a ListingSpec.
func (r *ListingRequest) ToSpec() ListingSpec {
	spec := ListingSpec{
		PropertyType: r.PropertyType,
		Location:     r.Location,
		Price:        r.Price,
		Parking:      r.Parking,
		Furnishing:   r.Furnishing,
		Tone:         Tone(r.Tone),
	}
	if r.Bedrooms != nil {
		spec.Bedrooms = *r.Bedrooms
	}
	if r.Bathrooms != nil {
		spec.Bathrooms = *r.Bathrooms
	}
	if r.AreaSqFt != nil {
		spec.AreaSqFt = *r.AreaSqFt
	}
	if r.Features != nil {
		spec.Features = ParseFeatures(*r.Features)
	} else {
		spec.Features = []string{}
	}
	return spec
}

func checkRange(errs ValidationErrors, field string, value *int, min, max int) {
	if value == nil {
		errs.Add(field, "value is required")
		return
	}
	if *value < min {
		errs.Add(field, fmt.Sprintf("must be at least %d", min))
	}
	if max > 0 && *value > max {
		errs.Add(field, fmt.Sprintf("must be at most %d", max))
	}
}

func intPtr(v int) *int {
	return &v
}
