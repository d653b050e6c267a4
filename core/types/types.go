// Package types - Shared domain types for the quoting core
package types

import (
	"math"
	"strings"
)

// Coordinate is a geographic point in decimal degrees (WGS-84).
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Ring is an ordered closed polygon boundary. The closing vertex is implicit:
// the last coordinate connects back to the first.
type Ring []Coordinate

// Clone returns an independent copy of the ring.
func (r Ring) Clone() Ring {
	if r == nil {
		return nil
	}
	out := make(Ring, len(r))
	copy(out, r)
	return out
}

// BoundingBox is a rectangular geographic area.
type BoundingBox struct {
	SouthWest Coordinate `json:"southwest"`
	NorthEast Coordinate `json:"northeast"`
}

// Contains reports whether the coordinate lies inside the box.
func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Lat >= b.SouthWest.Lat && c.Lat <= b.NorthEast.Lat &&
		c.Lng >= b.SouthWest.Lng && c.Lng <= b.NorthEast.Lng
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() Coordinate {
	return Coordinate{
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
		Lng: (b.SouthWest.Lng + b.NorthEast.Lng) / 2,
	}
}

// AddressComponents are the structured parts of a resolved address.
type AddressComponents struct {
	// StreetNumber is the house number ("1600"), empty if absent
	StreetNumber string `json:"street_number,omitempty"`

	// Street is the street name including any directional token
	// ("N Main St", "Elm Avenue SW")
	Street string `json:"street,omitempty"`

	// City is the locality
	City string `json:"city,omitempty"`

	// Region is the state or province
	Region string `json:"region,omitempty"`

	// PostalCode is the ZIP or postal code
	PostalCode string `json:"postal_code,omitempty"`
}

// HasStreetAddress reports whether both a street number and a street name
// were resolved. Used to pick map zoom and to gate estimation confidence.
func (a AddressComponents) HasStreetAddress() bool {
	return a.StreetNumber != "" && a.Street != ""
}

// Place is an immutable resolved-address record produced by the mapping
// collaborator. Center is nil when the address text matched but could not
// be pinned to a coordinate.
type Place struct {
	// FormattedAddress is the display form of the resolved address
	FormattedAddress string `json:"formatted_address"`

	// Center is the resolved coordinate, nil if none could be determined
	Center *Coordinate `json:"center,omitempty"`

	// Viewport is the recommended view rectangle, nil if none was provided
	Viewport *BoundingBox `json:"viewport,omitempty"`

	// Components are the structured address parts
	Components AddressComponents `json:"components"`
}

// HasCenter reports whether the place resolved to a usable coordinate.
func (p *Place) HasCenter() bool {
	return p != nil && p.Center != nil &&
		!math.IsNaN(p.Center.Lat) && !math.IsNaN(p.Center.Lng)
}

// PropertyClass classifies the property being quoted.
type PropertyClass string

const (
	PropertyResidential PropertyClass = "residential"
	PropertyCommercial  PropertyClass = "commercial"
)

// ParsePropertyClass normalizes a property class string, defaulting to
// residential for anything unrecognized.
func ParsePropertyClass(s string) PropertyClass {
	if strings.EqualFold(strings.TrimSpace(s), string(PropertyCommercial)) {
		return PropertyCommercial
	}
	return PropertyResidential
}

// AreaSource records the provenance of a quote's service area.
type AreaSource string

const (
	// AreaMeasured means the area came from user-drawn polygons
	AreaMeasured AreaSource = "measured"

	// AreaEstimated means the area came from the auto-estimator
	AreaEstimated AreaSource = "estimated"

	// AreaNone means no polygon-derived area exists for the quote
	AreaNone AreaSource = "none"
)

// PricingMode selects between the tiered schedule and the flat rate.
type PricingMode string

const (
	PricingTiered PricingMode = "tiered"
	PricingFlat   PricingMode = "flat"
)

// Frequency is the selected service cadence.
type Frequency string

const (
	FrequencyOneTime  Frequency = "one_time"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)
