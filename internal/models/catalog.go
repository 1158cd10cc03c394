package models

// Bounds holds the numeric limits enforced on listing input
type Bounds struct {
	MinRooms    int `yaml:"min_rooms" json:"min_rooms"`
	MaxRooms    int `yaml:"max_rooms" json:"max_rooms"`
	MinAreaSqFt int `yaml:"min_area_sq_ft" json:"min_area_sq_ft"`
	MaxAreaSqFt int `yaml:"max_area_sq_ft" json:"max_area_sq_ft"`
}

// ListingDefaults are the values the input form starts with and the values
// used for any field a request leaves out.
type ListingDefaults struct {
	PropertyType string `yaml:"property_type" json:"property_type"`
	Location     string `yaml:"location" json:"location"`
	Price        string `yaml:"price" json:"price"`
	Bedrooms     int    `yaml:"bedrooms" json:"bedrooms"`
	Bathrooms    int    `yaml:"bathrooms" json:"bathrooms"`
	AreaSqFt     int    `yaml:"area_sq_ft" json:"area_sq_ft"`
	Parking      string `yaml:"parking" json:"parking"`
	Furnishing   string `yaml:"furnishing" json:"furnishing"`
	Features     string `yaml:"features" json:"features"`
	Tone         Tone   `yaml:"tone" json:"tone"`
}

// Catalog describes the closed option sets offered by a deployment.
// FurnishingLevels is ordered from least to most furnished.
type Catalog struct {
	PropertyTypes    []string        `yaml:"property_types" json:"property_types"`
	ParkingOptions   []string        `yaml:"parking" json:"parking"`
	FurnishingLevels []string        `yaml:"furnishing" json:"furnishing"`
	Bounds           Bounds          `yaml:"bounds" json:"bounds"`
	Defaults         ListingDefaults `yaml:"defaults" json:"defaults"`
}

func (c *Catalog) HasPropertyType(value string) bool {
	return contains(c.PropertyTypes, value)
}

func (c *Catalog) HasParking(value string) bool {
	return contains(c.ParkingOptions, value)
}

func (c *Catalog) HasFurnishing(value string) bool {
	return contains(c.FurnishingLevels, value)
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
