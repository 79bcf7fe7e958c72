package item

import (
	"math/rand/v2"
)

// DamageForDurabilityRange picks a damage value that leaves between minPct
// and maxPct percent of the material's durability. Bounds are reordered and
// clamped to 0..100. Materials without durability always get 0.
func DamageForDurabilityRange(rng *rand.Rand, m Material, minPct, maxPct float64) int {
	maxDur := m.MaxDurability()
	if maxDur <= 0 {
		return 0
	}
	lo := clampPercent(min(minPct, maxPct))
	hi := clampPercent(max(minPct, maxPct))

	// more durability left means less damage taken
	minDamage := int((100 - hi) / 100 * float64(maxDur))
	maxDamage := int((100 - lo) / 100 * float64(maxDur))
	if maxDamage <= minDamage {
		return minDamage
	}
	return minDamage + rng.IntN(maxDamage-minDamage+1)
}

func clampPercent(v float64) float64 {
	return max(0, min(100, v))
}
