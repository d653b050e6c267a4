// Package area - Service-area model
// Holds the editable ground polygons for one in-progress quote and keeps
// their aggregate square footage current. The model does no geometry
// validation itself; it aggregates whatever area the measurement primitive
// reports for each ring.
package area

import (
	"fmt"

	"greenquote/core/geo"
	"greenquote/core/types"
	"greenquote/internal/errors"
)

// MeasureFunc computes the geodesic area of a ring in square feet. It is
// the mapping collaborator's area primitive; geo.GeodesicAreaSqFeet is the
// in-process default.
type MeasureFunc func(types.Ring) int

// RenderHandle is the opaque handle to a polygon's rendered, editable
// representation on the map canvas. Released when the polygon leaves the
// model.
type RenderHandle interface {
	Release()
}

// Renderer places a ring on the map canvas. Optional; a headless model
// (tests, API callers with no canvas) runs without one.
type Renderer interface {
	RenderPolygon(id string, ring types.Ring) RenderHandle
}

// ChangeEvent is passed to the model's change listener after every
// mutation.
type ChangeEvent struct {
	// TotalSqFt is the new aggregate area
	TotalSqFt int

	// PolygonCount is the number of live polygons (the UI's zone count)
	PolygonCount int
}

// Polygon is one service-area zone.
type Polygon struct {
	id       string
	ring     types.Ring
	areaSqFt int
	handle   RenderHandle
}

// ID returns the polygon's model-scoped identifier.
func (p *Polygon) ID() string { return p.id }

// AreaSqFt returns the polygon's cached area in square feet.
func (p *Polygon) AreaSqFt() int { return p.areaSqFt }

// Ring returns a copy of the polygon's current boundary.
func (p *Polygon) Ring() types.Ring { return p.ring.Clone() }

// Model is an ordered collection of polygons plus their aggregate area.
// Order is display order only. A model belongs to exactly one quote
// session; it is not safe for concurrent use and does not need to be,
// each session owns its own instance.
type Model struct {
	measure  MeasureFunc
	renderer Renderer

	polygons []*Polygon
	byID     map[string]*Polygon
	totalSqFt int

	onChange func(ChangeEvent)
	nextID   int
}

// Option configures a Model.
type Option func(*Model)

// WithRenderer attaches a map canvas renderer.
func WithRenderer(r Renderer) Option {
	return func(m *Model) { m.renderer = r }
}

// NewModel creates an empty model. A nil measure falls back to the
// in-process geodesic primitive.
func NewModel(measure MeasureFunc, opts ...Option) *Model {
	if measure == nil {
		measure = geo.GeodesicAreaSqFeet
	}
	m := &Model{
		measure: measure,
		byID:    make(map[string]*Polygon),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetOnChange registers the single area-changed listener. Every mutating
// operation invokes it exactly once.
func (m *Model) SetOnChange(fn func(ChangeEvent)) {
	m.onChange = fn
}

// AddPolygon registers a new polygon for the given ring, measures it, and
// appends it to the model. A degenerate ring simply yields a zero-area
// polygon.
func (m *Model) AddPolygon(ring types.Ring) *Polygon {
	m.nextID++
	p := &Polygon{
		id:       fmt.Sprintf("zone-%d", m.nextID),
		ring:     ring.Clone(),
		areaSqFt: m.measure(ring),
	}
	if m.renderer != nil {
		p.handle = m.renderer.RenderPolygon(p.id, p.ring)
	}
	m.polygons = append(m.polygons, p)
	m.byID[p.id] = p
	m.recompute()
	m.notify()
	return p
}

// UpdatePolygon replaces one polygon's ring and remeasures it. Idempotent:
// updating with the same ring twice leaves the total unchanged.
func (m *Model) UpdatePolygon(id string, ring types.Ring) error {
	p, ok := m.byID[id]
	if !ok {
		return errors.NotFound("polygon", id)
	}
	p.ring = ring.Clone()
	p.areaSqFt = m.measure(ring)
	m.recompute()
	m.notify()
	return nil
}

// RemovePolygon detaches a polygon and releases its render handle.
func (m *Model) RemovePolygon(id string) error {
	p, ok := m.byID[id]
	if !ok {
		return errors.NotFound("polygon", id)
	}
	delete(m.byID, id)
	for i, q := range m.polygons {
		if q == p {
			m.polygons = append(m.polygons[:i], m.polygons[i+1:]...)
			break
		}
	}
	if p.handle != nil {
		p.handle.Release()
		p.handle = nil
	}
	m.recompute()
	m.notify()
	return nil
}

// Clear removes every polygon and releases all render handles.
func (m *Model) Clear() {
	for _, p := range m.polygons {
		if p.handle != nil {
			p.handle.Release()
			p.handle = nil
		}
	}
	m.polygons = nil
	m.byID = make(map[string]*Polygon)
	m.recompute()
	m.notify()
}

// TotalAreaSqFt returns the cached aggregate area. Always equals the sum
// of the live polygons' areas.
func (m *Model) TotalAreaSqFt() int {
	return m.totalSqFt
}

// PolygonCount returns the number of live polygons.
func (m *Model) PolygonCount() int {
	return len(m.polygons)
}

// Polygons returns the live polygons in display order.
func (m *Model) Polygons() []*Polygon {
	out := make([]*Polygon, len(m.polygons))
	copy(out, m.polygons)
	return out
}

// Snapshot returns a serialization-safe copy of every polygon's ring, one
// per polygon in display order. Feeding each ring back through AddPolygon
// on a fresh model reconstructs an equivalent total.
func (m *Model) Snapshot() []types.Ring {
	out := make([]types.Ring, 0, len(m.polygons))
	for _, p := range m.polygons {
		out = append(out, p.ring.Clone())
	}
	return out
}

func (m *Model) recompute() {
	total := 0
	for _, p := range m.polygons {
		total += p.areaSqFt
	}
	m.totalSqFt = total
}

func (m *Model) notify() {
	if m.onChange == nil {
		return
	}
	m.onChange(ChangeEvent{
		TotalSqFt:    m.totalSqFt,
		PolygonCount: len(m.polygons),
	})
}
