// Package estimator - Heuristic service-area synthesis
// Turns a resolved place and a property classification into an initial set
// of editable polygons sized to a configured target area, without user
// interaction. The output is a starting point for manual editing, not a
// parcel boundary.
package estimator

import (
	"math"

	"greenquote/core/area"
	"greenquote/core/geo"
	"greenquote/core/types"
)

// Config carries the estimator's tunable constants. The defaults mirror
// long-standing product behavior; treat them as product data, not derived
// values.
type Config struct {
	// DualPolygonThresholdSqFt is the residential target area above which
	// the estimator lays out separate front and back yards
	DualPolygonThresholdSqFt int

	// FrontShare is the fraction of the target area given to the front
	// yard in the dual layout (the rest goes to the back)
	FrontShare float64

	// AspectRatio is the long-to-short side ratio of every synthesized
	// rectangle
	AspectRatio float64

	// YardGapMeters separates the front and back rectangles so they never
	// overlap
	YardGapMeters float64
}

// DefaultConfig returns the stock constants: dual layout above 5,000
// sq ft, a 30/70 front/back split, and a 1.6 aspect ratio.
func DefaultConfig() Config {
	return Config{
		DualPolygonThresholdSqFt: 5000,
		FrontShare:               0.30,
		AspectRatio:              1.6,
		YardGapMeters:            4,
	}
}

// Orientation is the assumed direction of the property's street frontage.
// It decides whether a synthesized rectangle's long axis runs north-south
// or east-west.
type Orientation int

const (
	// OrientEastWest lays the long axis east-west. The fallback when the
	// address gives no directional hint.
	OrientEastWest Orientation = iota

	// OrientNorthSouth lays the long axis north-south
	OrientNorthSouth
)

// directional tokens recognized in street names, first letter decides the
// axis for the intercardinals
var directionAxis = map[string]Orientation{
	"N": OrientNorthSouth, "S": OrientNorthSouth,
	"NORTH": OrientNorthSouth, "SOUTH": OrientNorthSouth,
	"NE": OrientNorthSouth, "NW": OrientNorthSouth,
	"SE": OrientNorthSouth, "SW": OrientNorthSouth,
	"E": OrientEastWest, "W": OrientEastWest,
	"EAST": OrientEastWest, "WEST": OrientEastWest,
}

// StreetOrientation extracts a directional prefix or suffix token from a
// street name ("N Main St", "Elm Avenue SW") and maps it to an axis.
// A best-effort string heuristic; anything unparsable falls back to
// east-west.
func StreetOrientation(street string) Orientation {
	tokens := fields(street)
	if len(tokens) == 0 {
		return OrientEastWest
	}
	if o, ok := directionAxis[tokens[0]]; ok {
		return o
	}
	if o, ok := directionAxis[tokens[len(tokens)-1]]; ok {
		return o
	}
	return OrientEastWest
}

// fields upper-cases and splits on spaces, dropping punctuation-only
// tokens.
func fields(s string) []string {
	var out []string
	word := make([]rune, 0, 8)
	flush := func() {
		if len(word) > 0 {
			out = append(out, string(word))
			word = word[:0]
		}
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			word = append(word, r-'a'+'A')
		case r >= 'A' && r <= 'Z' || r >= '0' && r <= '9':
			word = append(word, r)
		default:
			flush()
		}
	}
	flush()
	return out
}

// Result reports what an estimation produced. The Area Model's own
// measurement is authoritative: TotalSqFt comes from the model, not from
// the target the rectangles were sized to.
type Result struct {
	// TotalSqFt is the measured aggregate of the synthesized polygons
	TotalSqFt int

	// PolygonCount is 1 or 2 depending on the layout rule
	PolygonCount int

	// Orientation is the street-frontage axis that was used
	Orientation Orientation

	// Confident is true when the place resolved both a street number and
	// a street name
	Confident bool
}

// Estimate synthesizes polygons for the place into the given model.
// The model is repopulated wholesale: existing polygons are cleared first.
// Returns ok=false, with the model left empty, when the place has no
// usable center; the caller falls back to a flat numeric estimate.
//
// Layout rule: commercial properties, and residential targets at or below
// the dual-polygon threshold, get one rectangle centered on the place.
// Larger residential targets get a front and a back yard split
// FrontShare/(1-FrontShare) and offset along the orientation axis.
func Estimate(cfg Config, model *area.Model, place *types.Place, class types.PropertyClass, defaultAreaSqFt int) (Result, bool) {
	model.Clear()

	if !place.HasCenter() || defaultAreaSqFt <= 0 {
		return Result{}, false
	}

	center := *place.Center
	orient := StreetOrientation(place.Components.Street)
	targetSqM := float64(defaultAreaSqFt) / geo.SquareFeetPerSquareMeter

	single := class == types.PropertyCommercial || defaultAreaSqFt <= cfg.DualPolygonThresholdSqFt
	if single {
		model.AddPolygon(rect(center, targetSqM, cfg.AspectRatio, orient))
	} else {
		frontSqM := targetSqM * cfg.FrontShare
		backSqM := targetSqM - frontSqM

		_, frontLong := sides(frontSqM, cfg.AspectRatio)
		_, backLong := sides(backSqM, cfg.AspectRatio)

		// Stack the yards along the orientation axis, front on the
		// negative side, separated by the configured gap.
		frontOffset := -(frontLong/2 + cfg.YardGapMeters/2)
		backOffset := backLong/2 + cfg.YardGapMeters/2

		model.AddPolygon(rect(offsetAlong(center, orient, frontOffset), frontSqM, cfg.AspectRatio, orient))
		model.AddPolygon(rect(offsetAlong(center, orient, backOffset), backSqM, cfg.AspectRatio, orient))
	}

	return Result{
		TotalSqFt:    model.TotalAreaSqFt(),
		PolygonCount: model.PolygonCount(),
		Orientation:  orient,
		Confident:    place.Components.HasStreetAddress(),
	}, true
}

// sides solves the short and long side lengths in meters for a rectangle
// of the given area and long:short ratio.
func sides(areaSqM, ratio float64) (short, long float64) {
	if ratio < 1 {
		ratio = 1
	}
	short = math.Sqrt(areaSqM / ratio)
	long = short * ratio
	return short, long
}

// rect builds a rectangle of the target area centered on c with its long
// axis along the orientation.
func rect(c types.Coordinate, areaSqM, ratio float64, orient Orientation) types.Ring {
	short, long := sides(areaSqM, ratio)
	if orient == OrientNorthSouth {
		return geo.RectRing(c, short, long)
	}
	return geo.RectRing(c, long, short)
}

// offsetAlong moves a coordinate by meters along the orientation axis.
func offsetAlong(c types.Coordinate, orient Orientation, meters float64) types.Coordinate {
	if orient == OrientNorthSouth {
		return geo.Offset(c, meters, 0)
	}
	return geo.Offset(c, 0, meters)
}
