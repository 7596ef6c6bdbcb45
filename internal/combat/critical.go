package combat

// CriticalDamage draws the bonus damage of a critical hit on top of base.
//
// With a berserk modifier the bonus ranges from 1% of base up to
// min(99%, 25% per level). Otherwise it ranges from 10% of base up to the full
// base, halved when the target is a player.
func CriticalDamage(base, berserk int, targetPlayer bool, r Roller) int {
	if base <= 0 {
		return 0
	}
	var lo, hi int
	if berserk > 0 {
		lo = base / 100
		hi = int(min(0.99, 0.25*float64(berserk)) * float64(base))
	} else {
		lo = base / 10
		hi = base
		if targetPlayer {
			hi = base / 2
		}
	}
	lo = max(1, lo)
	hi = max(lo, hi)
	return lo + r.IntN(hi-lo+1)
}
