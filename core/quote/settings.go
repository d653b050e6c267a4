// Package quote - Quote orchestration
// Owns the mutable state for one in-progress quote: the service-area
// model, the estimation state machine, service selections, and the
// downstream pricing steps (floor, add-ons, frequency, monthly estimate)
// that sit outside the pure pricing engine.
package quote

import (
	"github.com/shopspring/decimal"

	"greenquote/core/pricing"
	"greenquote/core/types"
)

// AddOn is a flat per-visit extra service an account offers.
type AddOn struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	PricePerVisit decimal.Decimal `json:"price_per_visit"`
}

// AccountSettings is the per-account pricing configuration loaded from
// persistence. Read-only to the orchestrator.
type AccountSettings struct {
	// UseTieredPricing selects the tier schedule over the flat rate
	UseTieredPricing bool `json:"use_tiered_pricing"`

	// Tiers is the progressive rate schedule
	Tiers pricing.Schedule `json:"tiers"`

	// FlatRatePerSqFt is used when tiering is disabled
	FlatRatePerSqFt decimal.Decimal `json:"flat_rate_per_sqft"`

	// MinPricePerVisit floors every visit price
	MinPricePerVisit decimal.Decimal `json:"min_price_per_visit"`

	// AddOns are the offered extras
	AddOns []AddOn `json:"add_ons"`

	// FrequencyMultipliers scale the per-visit price by cadence
	FrequencyMultipliers map[types.Frequency]decimal.Decimal `json:"frequency_multipliers"`

	// VisitsPerMonth converts a per-visit price to a monthly estimate
	VisitsPerMonth map[types.Frequency]decimal.Decimal `json:"visits_per_month"`

	// DefaultAreaSqFt is the estimation baseline per property class
	DefaultAreaSqFt map[types.PropertyClass]int `json:"default_area_sqft"`
}

// DefaultSettings returns the configuration new accounts start with.
func DefaultSettings() AccountSettings {
	return AccountSettings{
		UseTieredPricing: true,
		Tiers:            pricing.DefaultSchedule(),
		FlatRatePerSqFt:  decimal.RequireFromString("0.012"),
		MinPricePerVisit: decimal.RequireFromString("35"),
		AddOns: []AddOn{
			{ID: "edging", Name: "Edging & trimming", PricePerVisit: decimal.RequireFromString("10")},
			{ID: "leaf_cleanup", Name: "Leaf cleanup", PricePerVisit: decimal.RequireFromString("25")},
			{ID: "fertilizer", Name: "Fertilizer application", PricePerVisit: decimal.RequireFromString("30")},
		},
		FrequencyMultipliers: map[types.Frequency]decimal.Decimal{
			types.FrequencyWeekly:   decimal.RequireFromString("1"),
			types.FrequencyBiweekly: decimal.RequireFromString("1.15"),
			types.FrequencyMonthly:  decimal.RequireFromString("1.35"),
			types.FrequencyOneTime:  decimal.RequireFromString("1.5"),
		},
		VisitsPerMonth: map[types.Frequency]decimal.Decimal{
			types.FrequencyWeekly:   decimal.RequireFromString("4.33"),
			types.FrequencyBiweekly: decimal.RequireFromString("2.17"),
			types.FrequencyMonthly:  decimal.RequireFromString("1"),
			types.FrequencyOneTime:  decimal.RequireFromString("1"),
		},
		DefaultAreaSqFt: map[types.PropertyClass]int{
			types.PropertyResidential: 6500,
			types.PropertyCommercial:  15000,
		},
	}
}

// Mode returns the pricing mode the settings select.
func (s AccountSettings) Mode() types.PricingMode {
	if s.UseTieredPricing {
		return types.PricingTiered
	}
	return types.PricingFlat
}

// AddOnByID finds an offered add-on.
func (s AccountSettings) AddOnByID(id string) (AddOn, bool) {
	for _, a := range s.AddOns {
		if a.ID == id {
			return a, true
		}
	}
	return AddOn{}, false
}

// multiplier defaults to 1 for cadences the account has not configured.
func (s AccountSettings) multiplier(f types.Frequency) decimal.Decimal {
	if m, ok := s.FrequencyMultipliers[f]; ok {
		return m
	}
	return decimal.NewFromInt(1)
}

func (s AccountSettings) visitsPerMonth(f types.Frequency) decimal.Decimal {
	if v, ok := s.VisitsPerMonth[f]; ok {
		return v
	}
	return decimal.NewFromInt(1)
}
