// Package settings loads per-account pricing configuration from HCL.
// The schema is fixed, so decoding goes through static structs; values
// land directly in the core settings type after validation.
package settings

import (
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/shopspring/decimal"

	"greenquote/core/pricing"
	"greenquote/core/quote"
	"greenquote/core/types"
	"greenquote/internal/errors"
)

type fileSchema struct {
	UseTieredPricing *bool    `hcl:"use_tiered_pricing,optional"`
	FlatRatePerSqFt  *float64 `hcl:"flat_rate_per_sqft,optional"`
	MinPricePerVisit *float64 `hcl:"min_price_per_visit,optional"`

	Tiers        []tierBlock    `hcl:"tier,block"`
	AddOns       []addOnBlock   `hcl:"add_on,block"`
	Frequencies  []freqBlock    `hcl:"frequency,block"`
	DefaultAreas []defaultsArea `hcl:"default_area,block"`
}

type tierBlock struct {
	// UpToSqFt omitted marks the unbounded top tier
	UpToSqFt    *int64  `hcl:"up_to_sqft,optional"`
	RatePerSqFt float64 `hcl:"rate_per_sqft"`
}

type addOnBlock struct {
	ID            string  `hcl:"id,label"`
	Name          string  `hcl:"name"`
	PricePerVisit float64 `hcl:"price_per_visit"`
}

type freqBlock struct {
	Name           string  `hcl:"name,label"`
	Multiplier     float64 `hcl:"multiplier"`
	VisitsPerMonth float64 `hcl:"visits_per_month"`
}

type defaultsArea struct {
	Class string `hcl:"class,label"`
	SqFt  int    `hcl:"sqft"`
}

// Load reads an HCL settings file and overlays it on the built-in
// defaults. The tier schedule is validated before it is accepted; a file
// that would misprice quotes is rejected here rather than degrading
// silently at price time.
func Load(path string) (quote.AccountSettings, error) {
	out := quote.DefaultSettings()

	var schema fileSchema
	if err := hclsimple.DecodeFile(path, nil, &schema); err != nil {
		return out, errors.Settings("decoding settings file", err)
	}

	if schema.UseTieredPricing != nil {
		out.UseTieredPricing = *schema.UseTieredPricing
	}
	if schema.FlatRatePerSqFt != nil {
		out.FlatRatePerSqFt = decimal.NewFromFloat(*schema.FlatRatePerSqFt)
	}
	if schema.MinPricePerVisit != nil {
		out.MinPricePerVisit = decimal.NewFromFloat(*schema.MinPricePerVisit)
	}

	if len(schema.Tiers) > 0 {
		schedule := make(pricing.Schedule, 0, len(schema.Tiers))
		for _, t := range schema.Tiers {
			schedule = append(schedule, pricing.Tier{
				UpToSqFt:    t.UpToSqFt,
				RatePerSqFt: decimal.NewFromFloat(t.RatePerSqFt),
			})
		}
		if problems := schedule.Validate(); len(problems) > 0 {
			return out, errors.New(errors.TypeSettings,
				"invalid tier schedule: "+strings.Join(problems, "; "))
		}
		out.Tiers = schedule
	}

	if len(schema.AddOns) > 0 {
		out.AddOns = nil
		for _, a := range schema.AddOns {
			out.AddOns = append(out.AddOns, quote.AddOn{
				ID:            a.ID,
				Name:          a.Name,
				PricePerVisit: decimal.NewFromFloat(a.PricePerVisit),
			})
		}
	}

	for _, f := range schema.Frequencies {
		freq := types.Frequency(f.Name)
		out.FrequencyMultipliers[freq] = decimal.NewFromFloat(f.Multiplier)
		out.VisitsPerMonth[freq] = decimal.NewFromFloat(f.VisitsPerMonth)
	}

	for _, d := range schema.DefaultAreas {
		out.DefaultAreaSqFt[types.ParsePropertyClass(d.Class)] = d.SqFt
	}

	return out, nil
}

// Sample is a complete settings file matching the built-in defaults,
// written by `greenquote settings init` as a starting point.
const Sample = `# GreenQuote account pricing settings

use_tiered_pricing  = true
flat_rate_per_sqft  = 0.012
min_price_per_visit = 35

tier {
  up_to_sqft    = 5000
  rate_per_sqft = 0.012
}

tier {
  up_to_sqft    = 20000
  rate_per_sqft = 0.008
}

# Omitting up_to_sqft marks the unbounded top tier.
tier {
  rate_per_sqft = 0.005
}

add_on "edging" {
  name            = "Edging & trimming"
  price_per_visit = 10
}

add_on "leaf_cleanup" {
  name            = "Leaf cleanup"
  price_per_visit = 25
}

add_on "fertilizer" {
  name            = "Fertilizer application"
  price_per_visit = 30
}

frequency "weekly" {
  multiplier       = 1.0
  visits_per_month = 4.33
}

frequency "biweekly" {
  multiplier       = 1.15
  visits_per_month = 2.17
}

frequency "monthly" {
  multiplier       = 1.35
  visits_per_month = 1
}

frequency "one_time" {
  multiplier       = 1.5
  visits_per_month = 1
}

default_area "residential" {
  sqft = 6500
}

default_area "commercial" {
  sqft = 15000
}
`
