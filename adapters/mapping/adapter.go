// Package mapping provides the mapping-collaborator adapter: address
// resolution, geodesic measurement, and viewport fitting behind one
// interface. The in-process implementation geocodes against an R-tree
// place index; a vendor map SDK can replace it without touching the core.
package mapping

import (
	"context"

	"greenquote/core/geo"
	"greenquote/core/types"
)

// Provider is the capability set the quoting flow consumes from a map
// service.
type Provider interface {
	// ResolveAddress resolves free text to a Place. Returns a NOT_FOUND
	// domain error when nothing matches; the quote flow treats that as a
	// retryable user-facing state, not a failure.
	ResolveAddress(ctx context.Context, text string) (*types.Place, error)

	// AreaSqMeters computes the geodesic area of a ring
	AreaSqMeters(ring types.Ring) float64

	// FitViewTo picks the viewport and zoom for the given place and any
	// polygons already on the canvas
	FitViewTo(place *types.Place, rings []types.Ring) (types.BoundingBox, int)
}

// Zoom hints for FitViewTo. Rooftop zoom needs a full street address;
// anything vaguer gets a neighborhood view.
const (
	zoomRooftop      = 20
	zoomNeighborhood = 16
)

// viewport half-sizes in meters
const (
	parcelViewRadius       = 60
	neighborhoodViewRadius = 800
)

// fitViewTo is shared by any Provider built on core/geo primitives.
func fitViewTo(place *types.Place, rings []types.Ring) (types.BoundingBox, int) {
	if box, ok := geo.BoundsOf(rings); ok {
		return box, zoomRooftop
	}
	if place.HasCenter() {
		zoom := zoomNeighborhood
		radius := float64(neighborhoodViewRadius)
		if place.Components.HasStreetAddress() {
			zoom = zoomRooftop
			radius = parcelViewRadius
		}
		return boxAround(*place.Center, radius), zoom
	}
	if place != nil && place.Viewport != nil {
		return *place.Viewport, zoomNeighborhood
	}
	return types.BoundingBox{}, zoomNeighborhood
}

func boxAround(c types.Coordinate, radiusMeters float64) types.BoundingBox {
	return types.BoundingBox{
		SouthWest: geo.Offset(c, -radiusMeters, -radiusMeters),
		NorthEast: geo.Offset(c, radiusMeters, radiusMeters),
	}
}
