package quote

import (
	"github.com/shopspring/decimal"

	"greenquote/core/pricing"
	"greenquote/core/types"
)

// Price derives the full per-visit and monthly price for an area under
// the given settings: engine subtotal, then the minimum floor, then
// add-ons, then the frequency multiplier, then the monthly projection.
// The orchestrator reprices through this on every change; callers that
// only have a square footage use it directly.
func Price(settings AccountSettings, areaSqFt int, frequency types.Frequency, addOnIDs []string) PriceQuote {
	var result pricing.Result
	if settings.UseTieredPricing {
		result = pricing.PriceArea(areaSqFt, settings.Tiers)
	} else {
		result = pricing.PriceFlat(areaSqFt, settings.FlatRatePerSqFt)
	}

	perVisit := result.TotalPrice
	floored := false
	if perVisit.LessThan(settings.MinPricePerVisit) {
		perVisit = settings.MinPricePerVisit
		floored = true
	}

	selected := make(map[string]bool, len(addOnIDs))
	for _, id := range addOnIDs {
		selected[id] = true
	}
	addOnTotal := decimal.Zero
	for _, a := range settings.AddOns {
		if selected[a.ID] {
			addOnTotal = addOnTotal.Add(a.PricePerVisit)
		}
	}

	perVisit = perVisit.Add(addOnTotal).Mul(settings.multiplier(frequency)).Round(2)
	monthly := perVisit.Mul(settings.visitsPerMonth(frequency)).Round(2)

	return PriceQuote{
		AreaSqFt:     areaSqFt,
		Mode:         settings.Mode(),
		AreaSubtotal: result.TotalPrice,
		Breakdown:    result.Breakdown,
		FloorApplied: floored,
		AddOnTotal:   addOnTotal,
		Frequency:    frequency,
		PerVisit:     perVisit,
		Monthly:      monthly,
	}
}
