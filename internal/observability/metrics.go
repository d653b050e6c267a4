// Package observability bundles Prometheus metrics for the quoting
// service and helpers to wire them into the HTTP surface.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the service's metric instruments.
type Collector struct {
	gatherer prometheus.Gatherer

	// AddressResolutions counts geocoder lookups by outcome
	// (found, not_found)
	AddressResolutions *prometheus.CounterVec

	// AutoEstimates counts estimator runs by layout (single, dual, flat)
	AutoEstimates *prometheus.CounterVec

	// QuotesPriced counts price calculations by mode (tiered, flat)
	QuotesPriced *prometheus.CounterVec

	// QuotesSaved counts persisted quotes
	QuotesSaved prometheus.Counter
}

// NewCollector registers the quoting metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{
		gatherer: gatherer,
		AddressResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "greenquote_address_resolutions_total",
			Help: "Address resolution attempts, labeled by outcome.",
		}, []string{"outcome"}),
		AutoEstimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "greenquote_auto_estimates_total",
			Help: "Auto-estimation runs, labeled by layout.",
		}, []string{"layout"}),
		QuotesPriced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "greenquote_quotes_priced_total",
			Help: "Price calculations, labeled by pricing mode.",
		}, []string{"mode"}),
		QuotesSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "greenquote_quotes_saved_total",
			Help: "Quotes persisted to storage.",
		}),
	}

	for _, m := range []prometheus.Collector{
		c.AddressResolutions, c.AutoEstimates, c.QuotesPriced, c.QuotesSaved,
	} {
		if err := reg.Register(m); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return nil, err
		}
	}
	return c, nil
}

// Gatherer exposes the registry backing this collector for the /metrics
// endpoint.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.gatherer
}
