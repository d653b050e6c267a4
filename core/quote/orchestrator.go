package quote

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"greenquote/core/area"
	"greenquote/core/estimator"
	"greenquote/core/pricing"
	"greenquote/core/types"
	"greenquote/internal/logging"
)

// State is the estimation state of an in-progress quote.
type State string

const (
	// StateNoAddress means no address has resolved yet
	StateNoAddress State = "no_address"

	// StateEstimating means an estimation pass is in flight
	StateEstimating State = "estimating"

	// StateEstimatedAuto means the current polygons came from the
	// auto-estimator
	StateEstimatedAuto State = "estimated_auto"

	// StateEditedManual means the user has touched the polygons; manual
	// work is never silently overwritten by address changes
	StateEditedManual State = "edited_manual"
)

// AreaEvent is delivered to the UI's subscriber after every area change.
// Auto distinguishes an auto-estimation pass (drives the one-time
// "we detected N zones" message) from a manual edit.
type AreaEvent struct {
	TotalSqFt    int
	PolygonCount int
	Auto         bool
}

// PriceQuote is the fully derived price for the current state. Recomputed
// synchronously on every area or service-selection change; reads and
// recomputations can never diverge because reads return the value the
// last change computed.
type PriceQuote struct {
	// AreaSqFt is the area that was priced
	AreaSqFt int `json:"area_sqft"`

	// Mode is tiered or flat
	Mode types.PricingMode `json:"mode"`

	// AreaSubtotal is the engine's area-driven subtotal
	AreaSubtotal decimal.Decimal `json:"area_subtotal"`

	// Breakdown lists the tier brackets touched
	Breakdown []pricing.BreakdownEntry `json:"breakdown"`

	// FloorApplied is true when the minimum-price floor replaced the
	// subtotal
	FloorApplied bool `json:"floor_applied"`

	// AddOnTotal is the flat per-visit sum of the selected add-ons
	AddOnTotal decimal.Decimal `json:"add_on_total"`

	// Frequency is the cadence the multiplier came from
	Frequency types.Frequency `json:"frequency"`

	// PerVisit is the final per-visit price, rounded to cents
	PerVisit decimal.Decimal `json:"per_visit"`

	// Monthly is PerVisit times the cadence's visits per month
	Monthly decimal.Decimal `json:"monthly"`
}

// Orchestrator wires address selection, auto-estimation, manual area
// edits, and re-pricing for a single quote session. Each session owns its
// own instance; nothing is shared across quotes. Single-threaded by
// design: every operation completes within one logical turn.
type Orchestrator struct {
	settings AccountSettings
	estCfg   estimator.Config
	model    *area.Model
	log      *zap.Logger

	state State
	place *types.Place
	class types.PropertyClass

	frequency      types.Frequency
	selectedAddOns map[string]bool

	// fallbackSqFt holds the flat numeric estimate used when a place
	// resolves without a usable center (no polygons possible)
	fallbackSqFt int
	areaSource   types.AreaSource

	price PriceQuote

	onAreaChanged   func(AreaEvent)
	onAutoEstimated func(AreaEvent)

	// estimating suppresses per-polygon change events while the
	// estimator repopulates the model wholesale
	estimating bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithModel supplies a pre-built area model (for attaching a renderer).
func WithModel(m *area.Model) Option {
	return func(o *Orchestrator) { o.model = m }
}

// WithEstimatorConfig overrides the estimation constants.
func WithEstimatorConfig(cfg estimator.Config) Option {
	return func(o *Orchestrator) { o.estCfg = cfg }
}

// New creates an orchestrator with an empty service area.
func New(settings AccountSettings, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		settings:       settings,
		estCfg:         estimator.DefaultConfig(),
		log:            logging.Logger,
		state:          StateNoAddress,
		class:          types.PropertyResidential,
		frequency:      types.FrequencyBiweekly,
		selectedAddOns: make(map[string]bool),
		areaSource:     types.AreaNone,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.model == nil {
		o.model = area.NewModel(nil)
	}
	o.model.SetOnChange(o.onModelChange)
	o.reprice()
	return o
}

// SetOnAreaChanged registers the UI's area subscriber. The UI subscribes
// to the orchestrator, never to the model directly, to keep layering
// one-directional.
func (o *Orchestrator) SetOnAreaChanged(fn func(AreaEvent)) { o.onAreaChanged = fn }

// SetOnAutoEstimated registers the one-time auto-estimation subscriber.
func (o *Orchestrator) SetOnAutoEstimated(fn func(AreaEvent)) { o.onAutoEstimated = fn }

// State returns the current estimation state.
func (o *Orchestrator) State() State { return o.state }

// Place returns the currently resolved place, nil before any resolution.
func (o *Orchestrator) Place() *types.Place { return o.place }

// PropertyClass returns the current classification.
func (o *Orchestrator) PropertyClass() types.PropertyClass { return o.class }

// TotalAreaSqFt returns the effective quoted area: the model's aggregate,
// or the flat fallback when no polygons exist.
func (o *Orchestrator) TotalAreaSqFt() int {
	if total := o.model.TotalAreaSqFt(); total > 0 {
		return total
	}
	return o.fallbackSqFt
}

// AreaSource reports the provenance of the current area.
func (o *Orchestrator) AreaSource() types.AreaSource { return o.areaSource }

// PolygonCount returns the number of live polygons.
func (o *Orchestrator) PolygonCount() int { return o.model.PolygonCount() }

// Snapshot returns the current polygon rings for persistence.
func (o *Orchestrator) Snapshot() []types.Ring { return o.model.Snapshot() }

// CurrentPrice returns the price computed by the most recent change.
func (o *Orchestrator) CurrentPrice() PriceQuote { return o.price }

// SetPlace handles an address-resolution outcome. A nil place (address
// not found) leaves the quote without an address and, unless the user has
// drawn polygons, at zero area. A resolved place triggers auto-estimation
// unless manual edits exist; manual polygons survive address changes as
// long as the classification stays put.
func (o *Orchestrator) SetPlace(place *types.Place) {
	if place == nil {
		o.place = nil
		if o.state != StateEditedManual {
			o.state = StateNoAddress
			o.fallbackSqFt = 0
			o.areaSource = types.AreaNone
			o.clearModel()
		}
		o.reprice()
		return
	}

	o.place = place
	if o.state == StateEditedManual {
		// Re-resolve only; user-drawn polygons are never silently
		// overwritten by an address change.
		o.reprice()
		return
	}
	o.estimate()
}

// SetPropertyClass changes the classification and always re-runs
// estimation, discarding any manual edits: the property type is a
// stronger signal than a stale drawing made for the previous type.
func (o *Orchestrator) SetPropertyClass(class types.PropertyClass) {
	if class == o.class {
		return
	}
	o.class = class
	if o.place != nil {
		o.estimate()
		return
	}
	o.reprice()
}

// SetFrequency changes the service cadence and reprices.
func (o *Orchestrator) SetFrequency(f types.Frequency) {
	o.frequency = f
	o.reprice()
}

// SelectAddOn toggles an offered add-on and reprices. Unknown IDs are
// ignored.
func (o *Orchestrator) SelectAddOn(id string, selected bool) {
	if _, ok := o.settings.AddOnByID(id); !ok {
		o.log.Warn("ignoring unknown add-on", zap.String("id", id))
		return
	}
	if selected {
		o.selectedAddOns[id] = true
	} else {
		delete(o.selectedAddOns, id)
	}
	o.reprice()
}

// SelectedAddOns returns the selected add-ons in settings order.
func (o *Orchestrator) SelectedAddOns() []AddOn {
	var out []AddOn
	for _, a := range o.settings.AddOns {
		if o.selectedAddOns[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

// AddPolygon registers a user-drawn ring. Any manual touch moves the
// session to EditedManual: no further auto-estimation for this
// address+classification pair.
func (o *Orchestrator) AddPolygon(ring types.Ring) *area.Polygon {
	o.markEdited()
	return o.model.AddPolygon(ring)
}

// UpdatePolygon applies a user's vertex edits to one polygon.
func (o *Orchestrator) UpdatePolygon(id string, ring types.Ring) error {
	o.markEdited()
	return o.model.UpdatePolygon(id, ring)
}

// RemovePolygon deletes one user-managed polygon.
func (o *Orchestrator) RemovePolygon(id string) error {
	o.markEdited()
	return o.model.RemovePolygon(id)
}

// SetManualPolygons replaces the whole service area with client-drawn
// rings, as when a drawing made elsewhere is submitted wholesale. A
// single area event fires for the replacement.
func (o *Orchestrator) SetManualPolygons(rings []types.Ring) {
	o.clearModel()
	o.markEdited()
	o.estimating = true
	for _, r := range rings {
		o.model.AddPolygon(r)
	}
	o.estimating = false
	o.reprice()
	if o.onAreaChanged != nil {
		o.onAreaChanged(AreaEvent{
			TotalSqFt:    o.model.TotalAreaSqFt(),
			PolygonCount: o.model.PolygonCount(),
		})
	}
}

func (o *Orchestrator) markEdited() {
	o.state = StateEditedManual
	o.areaSource = types.AreaMeasured
	o.fallbackSqFt = 0
}

// estimate runs the auto-estimator for the current place and class.
// Polygon-level change events are suppressed while the model is
// repopulated; a single auto event fires at the end.
func (o *Orchestrator) estimate() {
	o.state = StateEstimating
	o.estimating = true
	result, ok := estimator.Estimate(o.estCfg, o.model, o.place, o.class, o.settings.DefaultAreaSqFt[o.class])
	o.estimating = false

	if ok {
		o.fallbackSqFt = 0
		o.areaSource = types.AreaEstimated
		o.log.Debug("auto-estimated service area",
			zap.Int("total_sqft", result.TotalSqFt),
			zap.Int("polygons", result.PolygonCount),
			zap.Bool("confident", result.Confident))
	} else {
		// No usable center: fall back to a flat numeric estimate with no
		// polygons rather than failing the quote flow.
		o.fallbackSqFt = o.settings.DefaultAreaSqFt[o.class]
		o.areaSource = types.AreaEstimated
		o.log.Debug("place has no center, using flat area fallback",
			zap.Int("fallback_sqft", o.fallbackSqFt))
	}

	o.state = StateEstimatedAuto
	o.reprice()
	if o.onAutoEstimated != nil {
		o.onAutoEstimated(AreaEvent{
			TotalSqFt:    o.TotalAreaSqFt(),
			PolygonCount: o.model.PolygonCount(),
			Auto:         true,
		})
	}
}

// clearModel empties the model without emitting per-polygon events.
func (o *Orchestrator) clearModel() {
	o.estimating = true
	o.model.Clear()
	o.estimating = false
}

// onModelChange is the model's sole subscriber. Manual edits flow through
// here: reprice, then forward to the UI.
func (o *Orchestrator) onModelChange(ev area.ChangeEvent) {
	if o.estimating {
		return
	}
	o.reprice()
	if o.onAreaChanged != nil {
		o.onAreaChanged(AreaEvent{
			TotalSqFt:    ev.TotalSqFt,
			PolygonCount: ev.PolygonCount,
			Auto:         false,
		})
	}
}

// reprice recomputes the derived price from current state.
func (o *Orchestrator) reprice() {
	var ids []string
	for _, a := range o.SelectedAddOns() {
		ids = append(ids, a.ID)
	}
	o.price = Price(o.settings, o.TotalAreaSqFt(), o.frequency, ids)
}
