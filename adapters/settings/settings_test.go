package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenquote/core/quote"
	"greenquote/core/types"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSampleMatchesDefaults(t *testing.T) {
	loaded, err := Load(writeFile(t, Sample))
	require.NoError(t, err)

	defaults := quote.DefaultSettings()

	assert.Equal(t, defaults.UseTieredPricing, loaded.UseTieredPricing)
	assert.True(t, defaults.FlatRatePerSqFt.Equal(loaded.FlatRatePerSqFt))
	assert.True(t, defaults.MinPricePerVisit.Equal(loaded.MinPricePerVisit))

	require.Len(t, loaded.Tiers, len(defaults.Tiers))
	for i, tier := range defaults.Tiers {
		assert.True(t, tier.RatePerSqFt.Equal(loaded.Tiers[i].RatePerSqFt), "tier %d rate", i)
		if tier.UpToSqFt == nil {
			assert.Nil(t, loaded.Tiers[i].UpToSqFt, "tier %d cap", i)
		} else {
			require.NotNil(t, loaded.Tiers[i].UpToSqFt, "tier %d cap", i)
			assert.Equal(t, *tier.UpToSqFt, *loaded.Tiers[i].UpToSqFt)
		}
	}

	require.Len(t, loaded.AddOns, len(defaults.AddOns))
	for i, a := range defaults.AddOns {
		assert.Equal(t, a.ID, loaded.AddOns[i].ID)
		assert.True(t, a.PricePerVisit.Equal(loaded.AddOns[i].PricePerVisit))
	}

	for freq, want := range defaults.FrequencyMultipliers {
		assert.True(t, want.Equal(loaded.FrequencyMultipliers[freq]), "multiplier for %s", freq)
	}
	assert.Equal(t, defaults.DefaultAreaSqFt, loaded.DefaultAreaSqFt)
}

func TestLoadPartialOverlay(t *testing.T) {
	loaded, err := Load(writeFile(t, `
use_tiered_pricing = false
flat_rate_per_sqft = 0.015
`))
	require.NoError(t, err)

	assert.False(t, loaded.UseTieredPricing)
	assert.Equal(t, types.PricingFlat, loaded.Mode())
	assert.True(t, decimal.RequireFromString("0.015").Equal(loaded.FlatRatePerSqFt))

	// Everything not mentioned keeps its default.
	defaults := quote.DefaultSettings()
	assert.Len(t, loaded.Tiers, len(defaults.Tiers))
	assert.Len(t, loaded.AddOns, len(defaults.AddOns))
	assert.True(t, defaults.MinPricePerVisit.Equal(loaded.MinPricePerVisit))
}

func TestLoadRejectsInvalidSchedule(t *testing.T) {
	cases := map[string]string{
		"no unbounded tier": `
tier {
  up_to_sqft    = 5000
  rate_per_sqft = 0.012
}
`,
		"two unbounded tiers": `
tier {
  rate_per_sqft = 0.012
}
tier {
  rate_per_sqft = 0.005
}
`,
		"non-positive rate": `
tier {
  up_to_sqft    = 5000
  rate_per_sqft = 0
}
tier {
  rate_per_sqft = 0.005
}
`,
		"duplicate caps": `
tier {
  up_to_sqft    = 5000
  rate_per_sqft = 0.012
}
tier {
  up_to_sqft    = 5000
  rate_per_sqft = 0.008
}
tier {
  rate_per_sqft = 0.005
}
`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoadFrequencyOverride(t *testing.T) {
	loaded, err := Load(writeFile(t, `
frequency "weekly" {
  multiplier       = 0.9
  visits_per_month = 4.33
}
`))
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("0.9").Equal(loaded.FrequencyMultipliers[types.FrequencyWeekly]))
	// Other frequencies keep their defaults.
	assert.True(t, decimal.RequireFromString("1.15").Equal(loaded.FrequencyMultipliers[types.FrequencyBiweekly]))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	assert.Error(t, err)
}

func TestLoadMalformedHCL(t *testing.T) {
	_, err := Load(writeFile(t, `use_tiered_pricing = `))
	assert.Error(t, err)
}
