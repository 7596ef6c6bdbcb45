package combat

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"github.com/l1jgo/regioncore/internal/geom"
)

// DefaultFacingArc is the arc, in degrees, a target must be inside to be seen.
const DefaultFacingArc = 120

// Combatant is a point-in-time view of one side of an attack.
type Combatant struct {
	ID       ecs.EntityID
	Position mgl64.Vec3
	Heading  uint16
	Alive    bool
	InRegion bool
	Player   bool
	Berserk  int
	Stats    Stats
}

// Attempt is one swing or shot waiting to be resolved.
type Attempt struct {
	Attacker  Combatant
	Target    *Combatant // nil when nothing is selected
	Weapon    Weapon
	FacingArc float64
	Now       timer.Time
}

// Validate runs the validity checks of an attempt, in order: target
// selected, target alive, target in this region, range, facing. ok is false
// with the failing kind when the attempt cannot reach the roll.
func Validate(at Attempt) (kind ResultKind, dist float64, ok bool) {
	tgt := at.Target
	switch {
	case tgt == nil || tgt.ID.IsZero():
		return NoTarget, 0, false
	case !tgt.Alive:
		return TargetDead, 0, false
	case !tgt.InRegion:
		return InvalidTarget, 0, false
	}
	dist = geom.GroundDistance(at.Attacker.Position, tgt.Position)
	if !geom.Within(dist, at.Weapon.Range) {
		return OutOfRange, dist, false
	}
	arc := at.FacingArc
	if arc <= 0 {
		arc = DefaultFacingArc
	}
	if !geom.InArc(at.Attacker.Position, at.Attacker.Heading, tgt.Position, arc) {
		return TargetNotVisible, dist, false
	}
	return Hit, dist, true
}

// Resolve turns an attempt into an AttackResult. Only an attempt that passes
// Validate reaches the combat-math roll.
func Resolve(at Attempt, m Math, r Roller) AttackResult {
	res := AttackResult{
		Attacker: at.Attacker.ID,
		Mode:     at.Weapon.Mode,
		WeaponID: at.Weapon.ID,
		Time:     at.Now,
	}
	if at.Target != nil {
		res.Target = at.Target.ID
	}
	kind, dist, ok := Validate(at)
	if !ok {
		res.Kind = kind
		return res
	}

	tgt := at.Target
	ctx := Context{
		Attacker:       at.Attacker.Stats,
		Target:         tgt.Stats,
		AttackerPlayer: at.Attacker.Player,
		TargetPlayer:   tgt.Player,
		Mode:           at.Weapon.Mode,
		WeaponDamage:   at.Weapon.Damage,
		Distance:       dist,
	}
	kind = m.Outcome(ctx)
	if !kind.Rolled() {
		kind = Missed
	}
	if kind != Hit {
		res.Kind = kind
		return res
	}
	dmg := m.Damage(ctx)
	if dmg <= 0 {
		res.Kind = Missed
		return res
	}
	res.Kind = Hit
	res.Damage = dmg
	if Chance(r, m.CriticalChance(ctx)) {
		res.Critical = CriticalDamage(dmg, at.Attacker.Berserk, tgt.Player, r)
	}
	return res
}
