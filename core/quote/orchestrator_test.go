package quote

import (
	"testing"

	"github.com/shopspring/decimal"

	"greenquote/core/geo"
	"greenquote/core/types"
)

func resolvedPlace(street string) *types.Place {
	return &types.Place{
		FormattedAddress: "123 " + street + ", Dallas, TX",
		Center:           &types.Coordinate{Lat: 32.7767, Lng: -96.797},
		Components: types.AddressComponents{
			StreetNumber: "123",
			Street:       street,
			City:         "Dallas",
			Region:       "TX",
		},
	}
}

func userRing(width, height float64) types.Ring {
	return geo.RectRing(types.Coordinate{Lat: 32.78, Lng: -96.8}, width, height)
}

func TestAddressResolutionTriggersEstimation(t *testing.T) {
	o := New(DefaultSettings())
	if o.State() != StateNoAddress {
		t.Fatalf("initial state = %s", o.State())
	}

	var autoEvents []AreaEvent
	o.SetOnAutoEstimated(func(ev AreaEvent) { autoEvents = append(autoEvents, ev) })

	o.SetPlace(resolvedPlace("Main St"))

	if o.State() != StateEstimatedAuto {
		t.Errorf("state = %s, want %s", o.State(), StateEstimatedAuto)
	}
	if o.AreaSource() != types.AreaEstimated {
		t.Errorf("area source = %s, want estimated", o.AreaSource())
	}
	if o.TotalAreaSqFt() == 0 {
		t.Error("expected a non-zero estimated area")
	}
	if len(autoEvents) != 1 {
		t.Fatalf("got %d auto events, want 1", len(autoEvents))
	}
	if !autoEvents[0].Auto {
		t.Error("auto event must carry the auto flag")
	}
	// Residential default 6,500 sq ft exceeds the dual threshold.
	if autoEvents[0].PolygonCount != 2 {
		t.Errorf("polygon count = %d, want 2", autoEvents[0].PolygonCount)
	}
}

func TestUnresolvableAddress(t *testing.T) {
	o := New(DefaultSettings())
	o.SetPlace(nil)

	if o.State() != StateNoAddress {
		t.Errorf("state = %s, want %s", o.State(), StateNoAddress)
	}
	if o.TotalAreaSqFt() != 0 {
		t.Errorf("area = %d, want 0", o.TotalAreaSqFt())
	}
	// The floor still guarantees a non-zero displayed price.
	if !o.CurrentPrice().FloorApplied {
		t.Error("zero-area quote should carry the price floor")
	}
}

func TestNoCenterFallsBackToFlatEstimate(t *testing.T) {
	o := New(DefaultSettings())
	o.SetPlace(&types.Place{FormattedAddress: "Dallas, TX"})

	if o.State() != StateEstimatedAuto {
		t.Errorf("state = %s, want %s", o.State(), StateEstimatedAuto)
	}
	if o.PolygonCount() != 0 {
		t.Errorf("polygon count = %d, want 0", o.PolygonCount())
	}
	want := DefaultSettings().DefaultAreaSqFt[types.PropertyResidential]
	if o.TotalAreaSqFt() != want {
		t.Errorf("fallback area = %d, want %d", o.TotalAreaSqFt(), want)
	}
}

func TestManualEditBlocksReEstimation(t *testing.T) {
	o := New(DefaultSettings())
	o.SetPlace(resolvedPlace("Main St"))

	// User redraws the whole service area.
	o.AddPolygon(userRing(40, 30))
	if o.State() != StateEditedManual {
		t.Fatalf("state = %s, want %s", o.State(), StateEditedManual)
	}
	snapshotBefore := o.Snapshot()
	areaBefore := o.TotalAreaSqFt()

	var autoFired bool
	o.SetOnAutoEstimated(func(AreaEvent) { autoFired = true })

	// Address changes alone must not touch the drawn polygons.
	o.SetPlace(resolvedPlace("Oak Ln"))

	if autoFired {
		t.Error("auto-estimator ran after a manual edit")
	}
	if o.State() != StateEditedManual {
		t.Errorf("state = %s, want %s", o.State(), StateEditedManual)
	}
	if o.TotalAreaSqFt() != areaBefore {
		t.Errorf("area changed %d -> %d across address change", areaBefore, o.TotalAreaSqFt())
	}
	if len(o.Snapshot()) != len(snapshotBefore) {
		t.Error("polygons were discarded by an address change")
	}
}

func TestSetManualPolygonsReplacesAutoEstimate(t *testing.T) {
	o := New(DefaultSettings())
	o.SetPlace(resolvedPlace("Main St"))
	if o.PolygonCount() != 2 {
		t.Fatalf("polygon count = %d, want 2 before replacement", o.PolygonCount())
	}

	var events []AreaEvent
	o.SetOnAreaChanged(func(ev AreaEvent) { events = append(events, ev) })

	o.SetManualPolygons([]types.Ring{userRing(40, 30), userRing(20, 15), userRing(10, 10)})

	if o.State() != StateEditedManual {
		t.Errorf("state = %s, want %s", o.State(), StateEditedManual)
	}
	if o.AreaSource() != types.AreaMeasured {
		t.Errorf("area source = %s, want measured", o.AreaSource())
	}
	if o.PolygonCount() != 3 {
		t.Errorf("polygon count = %d, want 3", o.PolygonCount())
	}
	if len(events) != 1 {
		t.Fatalf("area events = %d, want 1 for a wholesale replacement", len(events))
	}
	if events[0].TotalSqFt != o.TotalAreaSqFt() {
		t.Errorf("event sqft = %d, orchestrator total = %d", events[0].TotalSqFt, o.TotalAreaSqFt())
	}
	if o.CurrentPrice().AreaSqFt != o.TotalAreaSqFt() {
		t.Error("price was not recomputed for the replaced area")
	}
}

func TestClassificationChangeOverridesManualEdits(t *testing.T) {
	o := New(DefaultSettings())
	o.SetPlace(resolvedPlace("Main St"))
	o.AddPolygon(userRing(40, 30))
	if o.AreaSource() != types.AreaMeasured {
		t.Fatalf("area source = %s, want measured", o.AreaSource())
	}

	var autoEvents int
	o.SetOnAutoEstimated(func(AreaEvent) { autoEvents++ })

	o.SetPropertyClass(types.PropertyCommercial)

	if autoEvents != 1 {
		t.Fatalf("auto events = %d, want 1", autoEvents)
	}
	if o.State() != StateEstimatedAuto {
		t.Errorf("state = %s, want %s", o.State(), StateEstimatedAuto)
	}
	if o.AreaSource() != types.AreaEstimated {
		t.Errorf("area source = %s, want estimated", o.AreaSource())
	}
	// Commercial layout is a single polygon at the commercial default.
	if o.PolygonCount() != 1 {
		t.Errorf("polygon count = %d, want 1", o.PolygonCount())
	}
}

func TestSameClassificationIsNoOp(t *testing.T) {
	o := New(DefaultSettings())
	o.SetPlace(resolvedPlace("Main St"))
	o.AddPolygon(userRing(40, 30))

	var autoEvents int
	o.SetOnAutoEstimated(func(AreaEvent) { autoEvents++ })
	o.SetPropertyClass(types.PropertyResidential)

	if autoEvents != 0 {
		t.Error("re-setting the same classification must not re-estimate")
	}
	if o.State() != StateEditedManual {
		t.Errorf("state = %s, want %s", o.State(), StateEditedManual)
	}
}

func TestManualEditsEmitAreaEvents(t *testing.T) {
	o := New(DefaultSettings())
	o.SetPlace(resolvedPlace("Main St"))

	var events []AreaEvent
	o.SetOnAreaChanged(func(ev AreaEvent) { events = append(events, ev) })

	p := o.AddPolygon(userRing(40, 30))
	if err := o.UpdatePolygon(p.ID(), userRing(50, 30)); err != nil {
		t.Fatal(err)
	}
	if err := o.RemovePolygon(p.ID()); err != nil {
		t.Fatal(err)
	}

	if len(events) != 3 {
		t.Fatalf("got %d area events, want 3", len(events))
	}
	for i, ev := range events {
		if ev.Auto {
			t.Errorf("event %d: manual edit flagged as auto", i)
		}
	}
}

func TestPricingPipeline(t *testing.T) {
	settings := DefaultSettings()
	o := New(settings)

	// Draw a known-size area well above the floor: 10,000 sq ft prices
	// at $100.00 under the default schedule.
	o.SetPlace(resolvedPlace("Main St"))
	o.clearModelForTest()
	o.AddPolygon(geo.RectRing(types.Coordinate{Lat: 32.78, Lng: -96.8}, 30.482, 30.48))

	price := o.CurrentPrice()
	if price.AreaSqFt < 9950 || price.AreaSqFt > 10050 {
		t.Fatalf("drawn area = %d sq ft, want ~10000", price.AreaSqFt)
	}

	o.SetFrequency(types.FrequencyWeekly) // multiplier 1
	base := o.CurrentPrice()
	if base.FloorApplied {
		t.Error("floor applied above the minimum")
	}

	o.SelectAddOn("edging", true) // +$10 per visit
	withAddOn := o.CurrentPrice()
	wantDelta := decimal.RequireFromString("10")
	if got := withAddOn.PerVisit.Sub(base.PerVisit); !got.Equal(wantDelta) {
		t.Errorf("add-on delta = %s, want %s", got, wantDelta)
	}

	o.SetFrequency(types.FrequencyMonthly) // multiplier 1.35, 1 visit/month
	monthly := o.CurrentPrice()
	wantPerVisit := base.AreaSubtotal.Add(wantDelta).Mul(decimal.RequireFromString("1.35")).Round(2)
	if !monthly.PerVisit.Equal(wantPerVisit) {
		t.Errorf("monthly-cadence per visit = %s, want %s", monthly.PerVisit, wantPerVisit)
	}
	if !monthly.Monthly.Equal(monthly.PerVisit) {
		t.Errorf("monthly estimate = %s, want %s at 1 visit/month", monthly.Monthly, monthly.PerVisit)
	}
}

func TestMinimumPriceFloor(t *testing.T) {
	o := New(DefaultSettings())
	o.SetPlace(resolvedPlace("Main St"))
	o.clearModelForTest()
	// A tiny patch: 500 sq ft prices at $6.00, far below the $35 floor.
	o.AddPolygon(geo.RectRing(types.Coordinate{Lat: 32.78, Lng: -96.8}, 6.816, 6.816))

	o.SetFrequency(types.FrequencyWeekly)
	price := o.CurrentPrice()
	if !price.FloorApplied {
		t.Fatal("expected the minimum-price floor")
	}
	if !price.PerVisit.Equal(decimal.RequireFromString("35")) {
		t.Errorf("per visit = %s, want 35", price.PerVisit)
	}
}

func TestFlatModeSharesPipeline(t *testing.T) {
	settings := DefaultSettings()
	settings.UseTieredPricing = false
	settings.FlatRatePerSqFt = decimal.RequireFromString("0.01")
	o := New(settings)

	o.SetPlace(resolvedPlace("Main St"))
	o.clearModelForTest()
	o.AddPolygon(geo.RectRing(types.Coordinate{Lat: 32.78, Lng: -96.8}, 30.482, 30.48))
	o.SetFrequency(types.FrequencyWeekly)

	price := o.CurrentPrice()
	if price.Mode != types.PricingFlat {
		t.Errorf("mode = %s, want flat", price.Mode)
	}
	want := decimal.NewFromInt(int64(price.AreaSqFt)).Mul(settings.FlatRatePerSqFt).Round(2)
	if !price.PerVisit.Equal(want) {
		t.Errorf("flat per visit = %s, want %s", price.PerVisit, want)
	}
	if len(price.Breakdown) != 1 {
		t.Errorf("flat breakdown entries = %d, want 1", len(price.Breakdown))
	}
}

func TestBuildRecordSnapshotsPricing(t *testing.T) {
	settings := DefaultSettings()
	o := New(settings)
	o.SetPlace(resolvedPlace("Main St"))
	o.SelectAddOn("edging", true)
	o.SetFrequency(types.FrequencyBiweekly)

	rec := o.BuildRecord("acct-1", "123 Main St, Dallas, TX")

	if rec.ID == "" {
		t.Error("record needs an ID")
	}
	if rec.PricingMode != types.PricingTiered {
		t.Errorf("pricing mode = %s, want tiered", rec.PricingMode)
	}
	if len(rec.TiersSnapshot) != len(settings.Tiers) {
		t.Errorf("tier snapshot has %d tiers, want %d", len(rec.TiersSnapshot), len(settings.Tiers))
	}
	if rec.FlatRateSnapshot != nil {
		t.Error("flat snapshot must be empty in tiered mode")
	}
	if rec.AreaSource != types.AreaEstimated {
		t.Errorf("area source = %s, want estimated", rec.AreaSource)
	}
	if len(rec.AddOns) != 1 || rec.AddOns[0].ID != "edging" {
		t.Errorf("addons = %+v, want the selected edging add-on", rec.AddOns)
	}
	if !rec.PerVisitPrice.Equal(o.CurrentPrice().PerVisit) {
		t.Error("record per-visit price diverges from current price")
	}

	// Mutating account settings after saving must not alter the snapshot.
	settings.Tiers[0].RatePerSqFt = decimal.RequireFromString("9.99")
	if rec.TiersSnapshot[0].RatePerSqFt.Equal(settings.Tiers[0].RatePerSqFt) {
		t.Error("tier snapshot aliases live settings")
	}
}

// clearModelForTest empties the polygons without leaving the estimated
// state, letting tests draw areas of exact known size.
func (o *Orchestrator) clearModelForTest() {
	o.clearModel()
	o.fallbackSqFt = 0
	o.reprice()
}
