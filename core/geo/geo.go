// Package geo - Geodesic geometry primitives
// Implements the spherical area and projection math the quoting core needs.
// The area algorithm matches what interactive map SDKs report, so areas
// measured here agree with what a user sees on the canvas.
package geo

import (
	"math"

	"greenquote/core/types"
)

const (
	// EarthRadiusMeters is the mean earth radius (WGS-84 derived)
	EarthRadiusMeters = 6371008.8

	// SquareFeetPerSquareMeter converts geodesic areas to the unit quotes use
	SquareFeetPerSquareMeter = 10.7639

	// metersPerDegreeLat is the approximate length of one degree of latitude
	metersPerDegreeLat = 111320.0
)

// GeodesicAreaSqMeters computes the area of a closed ring on the sphere
// using the Chamberlain-Duquette algorithm. Rings with fewer than three
// vertices, and degenerate rings, yield zero. The result is always
// non-negative regardless of winding order.
func GeodesicAreaSqMeters(ring types.Ring) float64 {
	if len(ring) < 3 {
		return 0
	}

	total := 0.0
	n := len(ring)
	for i := 0; i < n; i++ {
		p1 := ring[i]
		p2 := ring[(i+1)%n]
		lng1 := p1.Lng * math.Pi / 180
		lng2 := p2.Lng * math.Pi / 180
		lat1 := p1.Lat * math.Pi / 180
		lat2 := p2.Lat * math.Pi / 180
		total += (lng2 - lng1) * (2 + math.Sin(lat1) + math.Sin(lat2))
	}

	return math.Abs(total * EarthRadiusMeters * EarthRadiusMeters / 2)
}

// SquareMetersToSquareFeet converts and rounds to the nearest whole foot.
func SquareMetersToSquareFeet(sqMeters float64) int {
	return int(math.Round(sqMeters * SquareFeetPerSquareMeter))
}

// GeodesicAreaSqFeet is the conversion the Area Model uses for every ring.
func GeodesicAreaSqFeet(ring types.Ring) int {
	return SquareMetersToSquareFeet(GeodesicAreaSqMeters(ring))
}

// MetersPerDegreeLng returns the east-west length of one degree of
// longitude at the given latitude. Shrinks toward the poles.
func MetersPerDegreeLng(lat float64) float64 {
	m := metersPerDegreeLat * math.Cos(lat*math.Pi/180)
	if m < 1 {
		// Degenerate at the poles; clamp so projection never divides by zero.
		return 1
	}
	return m
}

// Offset moves a coordinate by the given distances in meters.
// Positive north moves toward the north pole, positive east toward
// increasing longitude.
func Offset(c types.Coordinate, northMeters, eastMeters float64) types.Coordinate {
	return types.Coordinate{
		Lat: c.Lat + northMeters/metersPerDegreeLat,
		Lng: c.Lng + eastMeters/MetersPerDegreeLng(c.Lat),
	}
}

// RectRing builds an axis-aligned rectangular ring centered on c.
// widthMeters runs east-west, heightMeters runs north-south. Vertices are
// ordered counterclockwise starting at the southwest corner; no closing
// duplicate is appended.
func RectRing(c types.Coordinate, widthMeters, heightMeters float64) types.Ring {
	halfW := widthMeters / 2
	halfH := heightMeters / 2
	return types.Ring{
		Offset(c, -halfH, -halfW),
		Offset(c, -halfH, halfW),
		Offset(c, halfH, halfW),
		Offset(c, halfH, -halfW),
	}
}

// BoundsOf returns the bounding box covering every vertex of the given
// rings, and false when there are no vertices at all.
func BoundsOf(rings []types.Ring) (types.BoundingBox, bool) {
	found := false
	box := types.BoundingBox{
		SouthWest: types.Coordinate{Lat: math.MaxFloat64, Lng: math.MaxFloat64},
		NorthEast: types.Coordinate{Lat: -math.MaxFloat64, Lng: -math.MaxFloat64},
	}
	for _, ring := range rings {
		for _, c := range ring {
			found = true
			box.SouthWest.Lat = math.Min(box.SouthWest.Lat, c.Lat)
			box.SouthWest.Lng = math.Min(box.SouthWest.Lng, c.Lng)
			box.NorthEast.Lat = math.Max(box.NorthEast.Lat, c.Lat)
			box.NorthEast.Lng = math.Max(box.NorthEast.Lng, c.Lng)
		}
	}
	return box, found
}
