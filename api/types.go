package api

import (
	"greenquote/core/quote"
	"greenquote/core/types"
)

// ResolveRequest asks the geocoder to resolve a free-text address.
type ResolveRequest struct {
	Address string `json:"address"`
}

// ResolveResponse carries the resolved place and the view that frames it.
type ResolveResponse struct {
	Place    *types.Place      `json:"place"`
	Viewport types.BoundingBox `json:"viewport"`
	Zoom     int               `json:"zoom"`
}

// EstimateRequest resolves an address and auto-estimates its service
// area.
type EstimateRequest struct {
	Address       string `json:"address"`
	PropertyClass string `json:"property_class,omitempty"`
}

// EstimateResponse is the estimated service area plus the price it
// implies under the account's current settings.
type EstimateResponse struct {
	Place      *types.Place     `json:"place"`
	State      string           `json:"state"`
	AreaSqFt   int              `json:"area_sqft"`
	AreaSource types.AreaSource `json:"area_source"`
	Polygons   []types.Ring     `json:"polygons"`
	Price      quote.PriceQuote `json:"price"`
}

// PriceRequest prices a known square footage directly, without an
// address.
type PriceRequest struct {
	AreaSqFt  int      `json:"area_sqft"`
	Frequency string   `json:"frequency,omitempty"`
	AddOns    []string `json:"addons,omitempty"`
}

// PriceResponse wraps the derived price.
type PriceResponse struct {
	Price quote.PriceQuote `json:"price"`
}

// QuoteRequest runs the full flow (resolve, estimate, price) and
// persists the result as a quote record.
type QuoteRequest struct {
	AccountID     string   `json:"account_id,omitempty"`
	Address       string   `json:"address"`
	PropertyClass string   `json:"property_class,omitempty"`
	Frequency     string   `json:"frequency,omitempty"`
	AddOns        []string `json:"addons,omitempty"`

	// Polygons, when present, replace the auto-estimate with the
	// client's own drawing.
	Polygons []types.Ring `json:"polygons,omitempty"`
}

// QuoteResponse returns the saved record.
type QuoteResponse struct {
	Quote *quote.Record `json:"quote"`
}

// QuoteListResponse returns matching records, newest first.
type QuoteListResponse struct {
	Quotes []*quote.Record `json:"quotes"`
	Count  int             `json:"count"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the machine-readable code and the human message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
