package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"brochure/server/internal/models"
)

// DefaultCatalog returns the built-in option catalog
func DefaultCatalog() *models.Catalog {
	return &models.Catalog{
		PropertyTypes:    []string{"Luxury Villa", "Modern Apartment", "Penthouse Suite", "Commercial Floor"},
		ParkingOptions:   []string{"2 Covered Spaces", "Multi-Car Garage", "Underground Parking"},
		FurnishingLevels: []string{"Shell Core", "Semi-Furnished", "Designer Furnished"},
		Bounds: models.Bounds{
			MinRooms:    1,
			MaxRooms:    10,
			MinAreaSqFt: 100,
			MaxAreaSqFt: 50000,
		},
		Defaults: models.ListingDefaults{
			PropertyType: "Luxury Villa",
			Location:     "Emaar Oceanfront, Karachi",
			Price:        "8.5 Crore",
			Bedrooms:     4,
			Bathrooms:    5,
			AreaSqFt:     4500,
			Parking:      "Multi-Car Garage",
			Furnishing:   "Designer Furnished",
			Features:     "Panoramic Sea View, Private Elevator, Italian Marble Flooring, Smart Home System, Infinity Pool Access",
			Tone:         models.ToneProfessional,
		},
	}
}

// LoadCatalog reads a YAML catalog from path. Keys missing from the file keep
// their built-in values. An empty path yields the built-in catalog.
func LoadCatalog(path string) (*models.Catalog, error) {
	catalog := DefaultCatalog()
	if path == "" {
		return catalog, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	if err := yaml.Unmarshal(data, catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if err := ValidateCatalog(catalog); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return catalog, nil
}

// ValidateCatalog checks that every option list is populated, the bounds are
// ordered and the defaults are themselves valid choices.
func ValidateCatalog(c *models.Catalog) error {
	var errs []error

	if len(c.PropertyTypes) == 0 {
		errs = append(errs, errors.New("property_types must not be empty"))
	}
	if len(c.ParkingOptions) == 0 {
		errs = append(errs, errors.New("parking must not be empty"))
	}
	if len(c.FurnishingLevels) == 0 {
		errs = append(errs, errors.New("furnishing must not be empty"))
	}

	b := c.Bounds
	if b.MinRooms < 0 || b.MinRooms > b.MaxRooms {
		errs = append(errs, fmt.Errorf("room bounds %d..%d are out of order", b.MinRooms, b.MaxRooms))
	}
	if b.MinAreaSqFt < 0 || b.MinAreaSqFt > b.MaxAreaSqFt {
		errs = append(errs, fmt.Errorf("area bounds %d..%d are out of order", b.MinAreaSqFt, b.MaxAreaSqFt))
	}

	d := c.Defaults
	if !c.HasPropertyType(d.PropertyType) {
		errs = append(errs, fmt.Errorf("default property type %q is not offered", d.PropertyType))
	}
	if !c.HasParking(d.Parking) {
		errs = append(errs, fmt.Errorf("default parking %q is not offered", d.Parking))
	}
	if !c.HasFurnishing(d.Furnishing) {
		errs = append(errs, fmt.Errorf("default furnishing %q is not offered", d.Furnishing))
	}

	return errors.Join(errs...)
}
