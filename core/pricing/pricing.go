// Package pricing - Tiered square-footage pricing engine
// Pure functions, no I/O, no shared state. Turns a total area into an
// area-driven subtotal; minimum-price floors, add-ons, and frequency
// adjustments are the orchestrator's job.
package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Tier is one bracket of a progressive rate schedule. A nil UpToSqFt marks
// the unbounded top tier.
type Tier struct {
	// UpToSqFt is the bracket's inclusive upper bound in square feet,
	// nil for the unbounded tier
	UpToSqFt *int64 `json:"up_to_sqft"`

	// RatePerSqFt is the dollar rate charged per square foot inside
	// this bracket
	RatePerSqFt decimal.Decimal `json:"rate_per_sqft"`
}

// Schedule is an ordered list of tiers. Callers are not required to
// pre-sort; the engine sorts defensively on every walk.
type Schedule []Tier

// BreakdownEntry reports one bracket actually touched by a price walk.
// Price is unrounded for transparency; only the result total is rounded.
type BreakdownEntry struct {
	SqFtInTier  int64           `json:"sqft_in_tier"`
	RatePerSqFt decimal.Decimal `json:"rate_per_sqft"`
	Price       decimal.Decimal `json:"price"`
}

// Result is the outcome of pricing an area. Both the tiered and flat modes
// produce this shape so downstream steps treat them identically.
type Result struct {
	// TotalPrice is the area subtotal rounded to cents
	TotalPrice decimal.Decimal `json:"total_price"`

	// Breakdown lists the brackets touched, in walk order
	Breakdown []BreakdownEntry `json:"breakdown"`
}

// SqFt builds a bounded tier cap.
func SqFt(v int64) *int64 { return &v }

// DefaultSchedule is the stock three-bracket schedule new accounts start
// with: $0.012 up to 5,000 sq ft, $0.008 up to 20,000, $0.005 beyond.
func DefaultSchedule() Schedule {
	return Schedule{
		{UpToSqFt: SqFt(5000), RatePerSqFt: decimal.RequireFromString("0.012")},
		{UpToSqFt: SqFt(20000), RatePerSqFt: decimal.RequireFromString("0.008")},
		{UpToSqFt: nil, RatePerSqFt: decimal.RequireFromString("0.005")},
	}
}

// sorted returns a copy ordered by ascending cap with the unbounded tier
// forced last, whatever order the schedule arrived in.
func (s Schedule) sorted() Schedule {
	out := make(Schedule, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].UpToSqFt, out[j].UpToSqFt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
	return out
}

// PriceArea walks the schedule bracket by bracket, charging each slice of
// the area at its bracket's rate. Non-positive areas short-circuit to a
// zero result. Area not covered by any bracket (a misconfigured schedule
// with no unbounded tier) contributes nothing rather than failing;
// Schedule.Validate is the place that catches such configurations.
func PriceArea(totalSqFt int, schedule Schedule) Result {
	if totalSqFt <= 0 || len(schedule) == 0 {
		return Result{TotalPrice: decimal.Zero.Round(2)}
	}

	total := decimal.Zero
	remaining := int64(totalSqFt)
	previousMax := int64(0)
	var breakdown []BreakdownEntry

	for _, tier := range schedule.sorted() {
		if remaining <= 0 {
			break
		}

		var capacity int64
		if tier.UpToSqFt == nil {
			capacity = remaining
		} else {
			capacity = *tier.UpToSqFt - previousMax
			previousMax = *tier.UpToSqFt
		}
		if capacity <= 0 {
			// Overlapping or duplicate caps; this bracket holds nothing.
			continue
		}

		inTier := min(remaining, capacity)
		price := decimal.NewFromInt(inTier).Mul(tier.RatePerSqFt)
		breakdown = append(breakdown, BreakdownEntry{
			SqFtInTier:  inTier,
			RatePerSqFt: tier.RatePerSqFt,
			Price:       price,
		})
		total = total.Add(price)
		remaining -= inTier
	}

	return Result{TotalPrice: total.Round(2), Breakdown: breakdown}
}

// PriceFlat bypasses tiering: the whole area at one rate. Used when an
// account has tiered pricing disabled.
func PriceFlat(totalSqFt int, ratePerSqFt decimal.Decimal) Result {
	if totalSqFt <= 0 {
		return Result{TotalPrice: decimal.Zero.Round(2)}
	}
	price := decimal.NewFromInt(int64(totalSqFt)).Mul(ratePerSqFt)
	return Result{
		TotalPrice: price.Round(2),
		Breakdown: []BreakdownEntry{{
			SqFtInTier:  int64(totalSqFt),
			RatePerSqFt: ratePerSqFt,
			Price:       price,
		}},
	}
}

// EffectiveRate returns the blended per-square-foot rate the schedule
// charges for the given area, zero for non-positive areas.
func EffectiveRate(totalSqFt int, schedule Schedule) decimal.Decimal {
	if totalSqFt <= 0 {
		return decimal.Zero
	}
	return PriceArea(totalSqFt, schedule).TotalPrice.Div(decimal.NewFromInt(int64(totalSqFt)))
}

// Comparison shows what an area costs under both modes. Used by the
// settings screen's pricing preview.
type Comparison struct {
	Tiered decimal.Decimal `json:"tiered"`
	Flat   decimal.Decimal `json:"flat"`

	// Delta is tiered minus flat; negative means tiering is cheaper
	Delta decimal.Decimal `json:"delta"`
}

// Compare prices the same area under the schedule and under a flat rate.
func Compare(totalSqFt int, schedule Schedule, flatRate decimal.Decimal) Comparison {
	tiered := PriceArea(totalSqFt, schedule).TotalPrice
	flat := PriceFlat(totalSqFt, flatRate).TotalPrice
	return Comparison{Tiered: tiered, Flat: flat, Delta: tiered.Sub(flat)}
}
