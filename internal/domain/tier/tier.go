// Package tier classifies schools by participation ratio.
package tier

// Tier is a performance bucket.
type Tier string

// Known tiers, best first.
const (
	Excellent Tier = "Excellent"
	Good      Tier = "Good"
	Nice      Tier = "Nice"
	Bad       Tier = "Bad"
)

// Thresholds are inclusive lower bounds of the ratio.
const (
	ExcellentMin = 0.8
	GoodMin      = 0.6
	NiceMin      = 0.4
)

// All lists every tier, best first.
func All() []Tier { return []Tier{Excellent, Good, Nice, Bad} }

// Ratio is participated/possible, or 0 when nothing was possible.
func Ratio(participated, possible int) float64 {
	if possible <= 0 {
		return 0
	}
	return float64(participated) / float64(possible)
}

// Classify maps a participation count to its tier.
func Classify(participated, possible int) Tier {
	return ForRatio(Ratio(participated, possible))
}

// ForRatio maps a ratio to its tier.
func ForRatio(r float64) Tier {
	switch {
	case r >= ExcellentMin:
		return Excellent
	case r >= GoodMin:
		return Good
	case r >= NiceMin:
		return Nice
	default:
		return Bad
	}
}
