package card

import (
	"github.com/lucasb-eyer/go-colorful"
)

// TierOrder lists tier ranks from best to worst.
var TierOrder = []string{"S+", "S", "A+", "A", "B+", "B", "C+", "C", "D+", "D", "E+", "E", "F"}

var tierValues = func() map[string]int {
	m := make(map[string]int, len(TierOrder))
	for i, t := range TierOrder {
		m[t] = len(TierOrder) - i
	}
	return m
}()

// TierValue maps S+ to 13 down to F at 1. Unknown or empty tiers are 0.
func TierValue(tier string) int {
	return tierValues[tier]
}

// KnownTier reports whether tier is one of TierOrder.
func KnownTier(tier string) bool {
	_, ok := tierValues[tier]
	return ok
}

var (
	tierBest    = colorful.Hsv(130, 0.70, 0.90)
	tierWorst   = colorful.Hsv(0, 0.75, 0.90)
	tierUnknown = colorful.Color{R: 0.55, G: 0.55, B: 0.55}
)

// TierColor returns the display colour for a tier, blending from green (S+)
// to red (F).
func TierColor(tier string) colorful.Color {
	v := TierValue(tier)
	if v == 0 {
		return tierUnknown
	}
	t := float64(len(TierOrder)-v) / float64(len(TierOrder)-1)
	return tierBest.BlendHcl(tierWorst, t).Clamped()
}
