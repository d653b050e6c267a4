package api

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"greenquote/adapters/mapping"
	"greenquote/adapters/storage"
	"greenquote/core/geo"
	"greenquote/core/quote"
	"greenquote/core/types"
	"greenquote/internal/observability"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	metrics, err := observability.NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	s, err := NewServer(Options{
		Version:  "test",
		Provider: mapping.NewGeocoder(mapping.SamplePlaces()),
		Settings: quote.DefaultSettings(),
		Store:    storage.NewMemoryStore(),
		Metrics:  metrics,
	})
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s *Server, method, uri string, body interface{}) (int, []byte) {
	t.Helper()

	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI("http://greenquote.test" + uri)
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		req.SetBody(data)
	}

	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	s.Handler()(&ctx)

	return ctx.Response.StatusCode(), append([]byte(nil), ctx.Response.Body()...)
}

func decode(t *testing.T, data []byte, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, v))
}

func TestHealth(t *testing.T) {
	s := testServer(t)

	status, body := do(t, s, fasthttp.MethodGet, "/health", nil)
	assert.Equal(t, fasthttp.StatusOK, status)

	var resp HealthResponse
	decode(t, body, &resp)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Version)
}

func TestResolve(t *testing.T) {
	s := testServer(t)

	status, body := do(t, s, fasthttp.MethodPost, "/v1/resolve",
		ResolveRequest{Address: "123 Main St, Dallas, TX"})
	require.Equal(t, fasthttp.StatusOK, status)

	var resp ResolveResponse
	decode(t, body, &resp)
	require.NotNil(t, resp.Place)
	assert.True(t, resp.Place.HasCenter())
	assert.Greater(t, resp.Zoom, 0)
	assert.True(t, resp.Viewport.Contains(*resp.Place.Center))
}

func TestResolveNotFound(t *testing.T) {
	s := testServer(t)

	status, _ := do(t, s, fasthttp.MethodPost, "/v1/resolve",
		ResolveRequest{Address: "9999 Nowhere Blvd, Nullville"})
	assert.Equal(t, fasthttp.StatusNotFound, status)
}

func TestResolveValidation(t *testing.T) {
	s := testServer(t)

	status, body := do(t, s, fasthttp.MethodPost, "/v1/resolve", ResolveRequest{})
	assert.Equal(t, fasthttp.StatusBadRequest, status)

	var resp ErrorResponse
	decode(t, body, &resp)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestEstimate(t *testing.T) {
	s := testServer(t)

	status, body := do(t, s, fasthttp.MethodPost, "/v1/estimate",
		EstimateRequest{Address: "123 Main St, Dallas, TX"})
	require.Equal(t, fasthttp.StatusOK, status)

	var resp EstimateResponse
	decode(t, body, &resp)
	assert.Equal(t, "estimated_auto", resp.State)
	// Dual-zone rectangles re-measured geodesically land near the
	// residential default, not exactly on it.
	assert.InDelta(t, 6500, resp.AreaSqFt, 130)
	assert.Len(t, resp.Polygons, 2)
	assert.Equal(t, resp.AreaSqFt, resp.Price.AreaSqFt)
	assert.True(t, resp.Price.PerVisit.GreaterThan(decimal.Zero))
}

func TestEstimateCommercialSingleZone(t *testing.T) {
	s := testServer(t)

	status, body := do(t, s, fasthttp.MethodPost, "/v1/estimate",
		EstimateRequest{Address: "123 Main St, Dallas, TX", PropertyClass: "commercial"})
	require.Equal(t, fasthttp.StatusOK, status)

	var resp EstimateResponse
	decode(t, body, &resp)
	assert.InDelta(t, 15000, resp.AreaSqFt, 300)
	assert.Len(t, resp.Polygons, 1)
}

func TestPrice(t *testing.T) {
	s := testServer(t)

	status, body := do(t, s, fasthttp.MethodPost, "/v1/price",
		PriceRequest{AreaSqFt: 10000, Frequency: "weekly", AddOns: []string{"edging"}})
	require.Equal(t, fasthttp.StatusOK, status)

	var resp PriceResponse
	decode(t, body, &resp)
	// 5000*0.012 + 5000*0.008 = 100, +10 edging, weekly multiplier 1.0
	assert.True(t, decimal.RequireFromString("110").Equal(resp.Price.PerVisit),
		"per visit = %s", resp.Price.PerVisit)
	assert.Len(t, resp.Price.Breakdown, 2)
	assert.False(t, resp.Price.FloorApplied)
}

func TestPriceUnknownFrequency(t *testing.T) {
	s := testServer(t)

	status, _ := do(t, s, fasthttp.MethodPost, "/v1/price",
		PriceRequest{AreaSqFt: 10000, Frequency: "fortnightly"})
	assert.Equal(t, fasthttp.StatusBadRequest, status)
}

func TestPriceMalformedBody(t *testing.T) {
	s := testServer(t)

	var req fasthttp.Request
	req.Header.SetMethod(fasthttp.MethodPost)
	req.SetRequestURI("http://greenquote.test/v1/price")
	req.SetBodyString("{not json")

	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	s.Handler()(&ctx)

	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestQuoteLifecycle(t *testing.T) {
	s := testServer(t)

	status, body := do(t, s, fasthttp.MethodPost, "/v1/quotes", QuoteRequest{
		AccountID: "acct-1",
		Address:   "123 Main St, Dallas, TX",
		Frequency: "weekly",
		AddOns:    []string{"edging"},
	})
	require.Equal(t, fasthttp.StatusCreated, status)

	var created QuoteResponse
	decode(t, body, &created)
	require.NotNil(t, created.Quote)
	assert.NotEmpty(t, created.Quote.ID)
	assert.InDelta(t, 6500, created.Quote.AreaSqFt, 130)
	assert.Len(t, created.Quote.AddOns, 1)
	assert.True(t, created.Quote.PerVisitPrice.GreaterThan(decimal.Zero))
	assert.True(t, created.Quote.MonthlyEstimate.GreaterThan(created.Quote.PerVisitPrice))

	status, body = do(t, s, fasthttp.MethodGet, "/v1/quotes/"+created.Quote.ID, nil)
	require.Equal(t, fasthttp.StatusOK, status)

	var fetched QuoteResponse
	decode(t, body, &fetched)
	assert.Equal(t, created.Quote.ID, fetched.Quote.ID)
	assert.Equal(t, created.Quote.AddressText, fetched.Quote.AddressText)

	status, body = do(t, s, fasthttp.MethodGet, "/v1/quotes?account_id=acct-1", nil)
	require.Equal(t, fasthttp.StatusOK, status)

	var listed QuoteListResponse
	decode(t, body, &listed)
	assert.Equal(t, 1, listed.Count)
}

func TestQuoteWithClientDrawnPolygons(t *testing.T) {
	s := testServer(t)

	// Roughly 30.5m x 30.5m near the Dallas sample place, about 10,000
	// sq ft.
	ring := geo.RectRing(types.Coordinate{Lat: 32.7767, Lng: -96.797}, 30.482, 30.48)

	status, body := do(t, s, fasthttp.MethodPost, "/v1/quotes", QuoteRequest{
		Address:  "123 Main St, Dallas, TX",
		Polygons: []types.Ring{ring},
	})
	require.Equal(t, fasthttp.StatusCreated, status)

	var created QuoteResponse
	decode(t, body, &created)
	assert.Equal(t, types.AreaMeasured, created.Quote.AreaSource)
	assert.Len(t, created.Quote.Polygons, 1)
	assert.InDelta(t, 10000, created.Quote.AreaSqFt, 100)
}

func TestGetQuoteNotFound(t *testing.T) {
	s := testServer(t)

	status, _ := do(t, s, fasthttp.MethodGet, "/v1/quotes/missing", nil)
	assert.Equal(t, fasthttp.StatusNotFound, status)
}

func TestUnknownRoute(t *testing.T) {
	s := testServer(t)

	status, _ := do(t, s, fasthttp.MethodGet, "/v1/acreage", nil)
	assert.Equal(t, fasthttp.StatusNotFound, status)

	// Wrong method on a known path
	status, _ = do(t, s, fasthttp.MethodGet, "/v1/price", nil)
	assert.Equal(t, fasthttp.StatusNotFound, status)
}
