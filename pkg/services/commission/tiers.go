package commission

import (
	"math"

	"github.com/gmn-dev/dispatch/pkg/models/domain"
)

// TierTable is an ascending list of count ranges. Rates are per qualifying unit.
type TierTable []domain.CommissionTier

var DefaultTiers = TierTable{
	{Min: 0, Max: 24, Rate: 0},
	{Min: 25, Max: 35, Rate: 3},
	{Min: 36, Max: 45, Rate: 4},
	{Min: 46, Max: 55, Rate: 5},
	{Min: 56, Max: 65, Rate: 5.5},
	{Min: 66, Max: 75, Rate: 6},
	{Min: 76, Max: 85, Rate: 6.5},
	{Min: 86, Max: 95, Rate: 7},
	{Min: 96, Max: 105, Rate: 7.5},
	{Min: 106, Max: -1, Rate: 8},
}

// Lookup returns the tier containing floor(count). The fractional part of the
// count never moves a job across a tier boundary.
func (t TierTable) Lookup(count float64) (domain.CommissionTier, bool) {
	floored := int(math.Floor(count))
	for _, tier := range t {
		if tier.Contains(floored) {
			return tier, true
		}
	}
	return domain.CommissionTier{}, false
}

func (t TierTable) Rate(count float64) float64 {
	tier, ok := t.Lookup(count)
	if !ok {
		return 0
	}
	return tier.Rate
}
