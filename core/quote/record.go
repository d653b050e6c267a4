package quote

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"greenquote/core/pricing"
	"greenquote/core/types"
)

// Record is the persisted form of a completed quote. Pricing fields are a
// snapshot of whichever schedule or flat rate was active when the quote
// was saved, so quote history survives later settings changes.
type Record struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`

	// AddressText is the text the customer entered
	AddressText string `json:"address_text"`

	// Place is the resolved address, nil when resolution failed
	Place *types.Place `json:"place,omitempty"`

	AreaSqFt   int              `json:"area_sqft"`
	AreaSource types.AreaSource `json:"area_source"`

	// Polygons is the coordinate snapshot of the service area
	Polygons []types.Ring `json:"polygons,omitempty"`

	Frequency types.Frequency `json:"frequency"`
	AddOns    []AddOn         `json:"addons,omitempty"`

	PricingMode types.PricingMode `json:"pricing_mode"`

	// TiersSnapshot is set in tiered mode
	TiersSnapshot pricing.Schedule `json:"pricing_tiers_snapshot,omitempty"`

	// FlatRateSnapshot is set in flat mode
	FlatRateSnapshot *decimal.Decimal `json:"flat_rate_snapshot,omitempty"`

	PerVisitPrice   decimal.Decimal `json:"per_visit_price"`
	MonthlyEstimate decimal.Decimal `json:"monthly_estimate"`
}

// BuildRecord captures the session's current state as a persistable quote.
func (o *Orchestrator) BuildRecord(accountID, addressText string) Record {
	rec := Record{
		ID:              uuid.NewString(),
		AccountID:       accountID,
		CreatedAt:       time.Now().UTC(),
		AddressText:     addressText,
		Place:           o.place,
		AreaSqFt:        o.TotalAreaSqFt(),
		AreaSource:      o.areaSource,
		Polygons:        o.model.Snapshot(),
		Frequency:       o.frequency,
		AddOns:          o.SelectedAddOns(),
		PricingMode:     o.settings.Mode(),
		PerVisitPrice:   o.price.PerVisit,
		MonthlyEstimate: o.price.Monthly,
	}

	if o.settings.UseTieredPricing {
		rec.TiersSnapshot = append(pricing.Schedule(nil), o.settings.Tiers...)
	} else {
		rate := o.settings.FlatRatePerSqFt
		rec.FlatRateSnapshot = &rate
	}
	return rec
}
