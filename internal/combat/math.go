package combat

//go:generate go tool mockgen -destination=mocks/math_mock.go -package=mocks . Math,Roller

// Stats is the snapshot of a combatant's attributes handed to combat math.
type Stats struct {
	Level int
	Str   int
	Dex   int
	Con   int
	AC    int
	MR    int
}

// Context is everything the combat-math provider sees about one attempt.
type Context struct {
	Attacker       Stats
	Target         Stats
	AttackerPlayer bool
	TargetPlayer   bool
	Mode           WeaponMode
	WeaponDamage   int
	Distance       float64
}

// Math is the external combat-math provider: hit/miss rolls and damage.
type Math interface {
	Outcome(ctx Context) ResultKind
	Damage(ctx Context) int
	CriticalChance(ctx Context) int
}

// Roller draws uniform integers in [0, n). *rand.Rand from math/rand/v2
// satisfies it.
type Roller interface {
	IntN(n int) int
}

// Chance rolls a percentage.
func Chance(r Roller, percent int) bool {
	if percent <= 0 {
		return false
	}
	if percent >= 100 {
		return true
	}
	return r.IntN(100) < percent
}

// StatMath is the built-in formula set, used when no script engine is
// configured or a script function is missing.
type StatMath struct {
	Roll Roller
}

func (m StatMath) Outcome(ctx Context) ResultKind {
	if Chance(m.Roll, 1) {
		return Fumbled
	}
	hit := 75 + (ctx.Attacker.Level-ctx.Target.Level)*2 + (ctx.Attacker.Dex-ctx.Target.Dex)/2 - ctx.Target.AC/4
	hit = max(5, min(95, hit))
	if !Chance(m.Roll, hit) {
		return Missed
	}
	if ctx.Mode == Melee && ctx.TargetPlayer {
		if Chance(m.Roll, max(0, ctx.Target.Dex/10)) {
			return Parried
		}
	}
	if Chance(m.Roll, max(0, ctx.Target.Con/15)) {
		return Blocked
	}
	if Chance(m.Roll, max(0, (ctx.Target.Dex-ctx.Attacker.Dex)/10)) {
		return Evaded
	}
	return Hit
}

func (m StatMath) Damage(ctx Context) int {
	base := ctx.WeaponDamage
	if base <= 0 {
		base = Fists.Damage
	}
	dmg := base/2 + m.Roll.IntN(base/2+1) + ctx.Attacker.Str/10
	return max(1, dmg)
}

func (m StatMath) CriticalChance(ctx Context) int {
	return min(50, 5+ctx.Attacker.Dex/10)
}
