// Package api is the thin HTTP layer over the quoting core. Handlers
// only decode input, drive the core, and serialize output; no pricing or
// geometry happens here.
package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"greenquote/adapters/mapping"
	"greenquote/adapters/storage"
	"greenquote/core/quote"
	"greenquote/core/types"
	"greenquote/internal/errors"
	"greenquote/internal/logging"
	"greenquote/internal/observability"
)

// Options configures a Server.
type Options struct {
	Version  string
	Provider mapping.Provider
	Settings quote.AccountSettings
	Store    storage.Store
	Metrics  *observability.Collector

	// EstimateDelay is a deliberate pause before estimation responses so
	// clients can show their measuring state. Zero disables it.
	EstimateDelay time.Duration
}

// Server is the HTTP API server
type Server struct {
	version  string
	provider mapping.Provider
	settings quote.AccountSettings
	store    storage.Store
	metrics  *observability.Collector
	delay    time.Duration
	log      *zap.Logger

	metricsHandler fasthttp.RequestHandler
	srv            *fasthttp.Server
}

// NewServer creates the API server
func NewServer(opts Options) (*Server, error) {
	metrics := opts.Metrics
	if metrics == nil {
		var err error
		metrics, err = observability.NewCollector(prometheus.NewRegistry())
		if err != nil {
			return nil, err
		}
	}

	s := &Server{
		version:  opts.Version,
		provider: opts.Provider,
		settings: opts.Settings,
		store:    opts.Store,
		metrics:  metrics,
		delay:    opts.EstimateDelay,
		log:      logging.Logger,
	}
	s.metricsHandler = fasthttpadaptor.NewFastHTTPHandler(
		promhttp.HandlerFor(metrics.Gatherer(), promhttp.HandlerOpts{}))
	return s, nil
}

// Handler returns the root request handler.
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.route
}

// ListenAndServe serves until Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	s.srv = &fasthttp.Server{
		Handler: s.route,
		Name:    "greenquote/" + s.version,
	}
	s.log.Info("api server listening", zap.String("addr", addr))
	return s.srv.ListenAndServe(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown()
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	method := string(ctx.Method())

	switch {
	case path == "/health" && method == fasthttp.MethodGet:
		s.writeJSON(ctx, HealthResponse{Status: "ok", Version: s.version}, fasthttp.StatusOK)
	case path == "/metrics" && method == fasthttp.MethodGet:
		s.metricsHandler(ctx)
	case path == "/v1/resolve" && method == fasthttp.MethodPost:
		s.handleResolve(ctx)
	case path == "/v1/estimate" && method == fasthttp.MethodPost:
		s.handleEstimate(ctx)
	case path == "/v1/price" && method == fasthttp.MethodPost:
		s.handlePrice(ctx)
	case path == "/v1/quotes" && method == fasthttp.MethodPost:
		s.handleCreateQuote(ctx)
	case path == "/v1/quotes" && method == fasthttp.MethodGet:
		s.handleListQuotes(ctx)
	case strings.HasPrefix(path, "/v1/quotes/") && method == fasthttp.MethodGet:
		s.handleGetQuote(ctx, strings.TrimPrefix(path, "/v1/quotes/"))
	default:
		s.writeError(ctx, "NOT_FOUND", "no such route", fasthttp.StatusNotFound)
	}
}

// handleResolve handles POST /v1/resolve
func (s *Server) handleResolve(ctx *fasthttp.RequestCtx) {
	var req ResolveRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.writeError(ctx, "INVALID_JSON", err.Error(), fasthttp.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		s.writeError(ctx, "VALIDATION_ERROR", "address is required", fasthttp.StatusBadRequest)
		return
	}

	place, err := s.provider.ResolveAddress(ctx, req.Address)
	if err != nil {
		s.metrics.AddressResolutions.WithLabelValues("not_found").Inc()
		s.writeDomainError(ctx, err)
		return
	}
	s.metrics.AddressResolutions.WithLabelValues("found").Inc()

	viewport, zoom := s.provider.FitViewTo(place, nil)
	s.writeJSON(ctx, ResolveResponse{Place: place, Viewport: viewport, Zoom: zoom}, fasthttp.StatusOK)
}

// handleEstimate handles POST /v1/estimate
func (s *Server) handleEstimate(ctx *fasthttp.RequestCtx) {
	var req EstimateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.writeError(ctx, "INVALID_JSON", err.Error(), fasthttp.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		s.writeError(ctx, "VALIDATION_ERROR", "address is required", fasthttp.StatusBadRequest)
		return
	}

	o, place, err := s.runEstimate(ctx, req.Address, req.PropertyClass)
	if err != nil {
		s.writeDomainError(ctx, err)
		return
	}

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.writeJSON(ctx, EstimateResponse{
		Place:      place,
		State:      string(o.State()),
		AreaSqFt:   o.TotalAreaSqFt(),
		AreaSource: o.AreaSource(),
		Polygons:   o.Snapshot(),
		Price:      o.CurrentPrice(),
	}, fasthttp.StatusOK)
}

// handlePrice handles POST /v1/price
func (s *Server) handlePrice(ctx *fasthttp.RequestCtx) {
	var req PriceRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.writeError(ctx, "INVALID_JSON", err.Error(), fasthttp.StatusBadRequest)
		return
	}
	if req.AreaSqFt < 0 {
		s.writeError(ctx, "VALIDATION_ERROR", "area_sqft must not be negative", fasthttp.StatusBadRequest)
		return
	}
	freq, err := s.parseFrequency(req.Frequency)
	if err != nil {
		s.writeDomainError(ctx, err)
		return
	}

	price := quote.Price(s.settings, req.AreaSqFt, freq, req.AddOns)
	s.metrics.QuotesPriced.WithLabelValues(string(price.Mode)).Inc()
	s.writeJSON(ctx, PriceResponse{Price: price}, fasthttp.StatusOK)
}

// handleCreateQuote handles POST /v1/quotes
func (s *Server) handleCreateQuote(ctx *fasthttp.RequestCtx) {
	var req QuoteRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.writeError(ctx, "INVALID_JSON", err.Error(), fasthttp.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		s.writeError(ctx, "VALIDATION_ERROR", "address is required", fasthttp.StatusBadRequest)
		return
	}
	freq, err := s.parseFrequency(req.Frequency)
	if err != nil {
		s.writeDomainError(ctx, err)
		return
	}

	o, _, err := s.runEstimate(ctx, req.Address, req.PropertyClass)
	if err != nil {
		s.writeDomainError(ctx, err)
		return
	}
	if len(req.Polygons) > 0 {
		o.SetManualPolygons(req.Polygons)
	}
	o.SetFrequency(freq)
	for _, id := range req.AddOns {
		o.SelectAddOn(id, true)
	}

	rec := o.BuildRecord(req.AccountID, req.Address)
	if err := s.store.Save(ctx, &rec); err != nil {
		s.writeDomainError(ctx, err)
		return
	}
	s.metrics.QuotesPriced.WithLabelValues(string(rec.PricingMode)).Inc()
	s.metrics.QuotesSaved.Inc()
	s.log.Info("quote saved",
		zap.String("id", rec.ID),
		zap.Int("area_sqft", rec.AreaSqFt),
		zap.String("frequency", string(rec.Frequency)))

	s.writeJSON(ctx, QuoteResponse{Quote: &rec}, fasthttp.StatusCreated)
}

// handleGetQuote handles GET /v1/quotes/{id}
func (s *Server) handleGetQuote(ctx *fasthttp.RequestCtx, id string) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		s.writeDomainError(ctx, err)
		return
	}
	s.writeJSON(ctx, QuoteResponse{Quote: rec}, fasthttp.StatusOK)
}

// handleListQuotes handles GET /v1/quotes
func (s *Server) handleListQuotes(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	filter := &storage.ListFilter{
		AccountID: string(args.Peek("account_id")),
		Frequency: types.Frequency(args.Peek("frequency")),
	}
	if v := string(args.Peek("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(ctx, "VALIDATION_ERROR", "limit must be a non-negative integer", fasthttp.StatusBadRequest)
			return
		}
		filter.Limit = n
	}
	if v := string(args.Peek("offset")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(ctx, "VALIDATION_ERROR", "offset must be a non-negative integer", fasthttp.StatusBadRequest)
			return
		}
		filter.Offset = n
	}

	recs, err := s.store.List(ctx, filter)
	if err != nil {
		s.writeDomainError(ctx, err)
		return
	}
	s.writeJSON(ctx, QuoteListResponse{Quotes: recs, Count: len(recs)}, fasthttp.StatusOK)
}

// runEstimate resolves an address and drives a fresh quote session
// through auto-estimation.
func (s *Server) runEstimate(ctx *fasthttp.RequestCtx, address, class string) (*quote.Orchestrator, *types.Place, error) {
	place, err := s.provider.ResolveAddress(ctx, address)
	if err != nil {
		s.metrics.AddressResolutions.WithLabelValues("not_found").Inc()
		return nil, nil, err
	}
	s.metrics.AddressResolutions.WithLabelValues("found").Inc()

	o := quote.New(s.settings)
	o.SetPropertyClass(types.ParsePropertyClass(class))
	o.SetPlace(place)

	switch o.PolygonCount() {
	case 0:
		s.metrics.AutoEstimates.WithLabelValues("flat").Inc()
	case 1:
		s.metrics.AutoEstimates.WithLabelValues("single").Inc()
	default:
		s.metrics.AutoEstimates.WithLabelValues("dual").Inc()
	}
	return o, place, nil
}

func (s *Server) parseFrequency(raw string) (types.Frequency, error) {
	if raw == "" {
		return types.FrequencyBiweekly, nil
	}
	f := types.Frequency(raw)
	if _, ok := s.settings.FrequencyMultipliers[f]; !ok {
		return "", errors.Input("unknown frequency: " + raw)
	}
	return f, nil
}

func (s *Server) writeJSON(ctx *fasthttp.RequestCtx, v interface{}, status int) {
	data, err := json.Marshal(v)
	if err != nil {
		s.writeError(ctx, "ENCODING_ERROR", err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func (s *Server) writeError(ctx *fasthttp.RequestCtx, code, message string, status int) {
	data, _ := json.Marshal(ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

// writeDomainError maps typed core errors onto HTTP statuses.
func (s *Server) writeDomainError(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.IsType(err, errors.TypeNotFound):
		s.writeError(ctx, string(errors.TypeNotFound), err.Error(), fasthttp.StatusNotFound)
	case errors.IsType(err, errors.TypeInput):
		s.writeError(ctx, string(errors.TypeInput), err.Error(), fasthttp.StatusBadRequest)
	default:
		s.log.Error("request failed", zap.Error(err))
		s.writeError(ctx, "INTERNAL_ERROR", err.Error(), fasthttp.StatusInternalServerError)
	}
}
