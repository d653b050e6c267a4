package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Validate checks a schedule for the misconfigurations the price walk
// silently tolerates. Returns the list of problems, empty when the
// schedule is sound. Owned by the settings surface; PriceArea never calls
// it.
func (s Schedule) Validate() []string {
	var problems []string

	if len(s) == 0 {
		return []string{"schedule has no tiers"}
	}

	unbounded := 0
	for i, tier := range s {
		if tier.UpToSqFt == nil {
			unbounded++
		} else if *tier.UpToSqFt <= 0 {
			problems = append(problems, fmt.Sprintf("tier %d: cap must be positive, got %d", i+1, *tier.UpToSqFt))
		}
		if tier.RatePerSqFt.LessThanOrEqual(decimal.Zero) {
			problems = append(problems, fmt.Sprintf("tier %d: rate must be positive, got %s", i+1, tier.RatePerSqFt))
		}
	}

	switch unbounded {
	case 0:
		problems = append(problems, "schedule needs an unbounded top tier (up_to_sqft = null)")
	case 1:
		// ok
	default:
		problems = append(problems, fmt.Sprintf("schedule has %d unbounded tiers, want exactly 1", unbounded))
	}

	sorted := s.sorted()
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1].UpToSqFt, sorted[i].UpToSqFt
		if prev != nil && cur != nil && *cur == *prev {
			problems = append(problems, fmt.Sprintf("duplicate tier cap %d", *cur))
		}
	}

	return problems
}
