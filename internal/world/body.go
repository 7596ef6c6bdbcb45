package world

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/regioncore/internal/brain"
	"github.com/l1jgo/regioncore/internal/combat"
	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"github.com/l1jgo/regioncore/internal/geom"
	"go.uber.org/zap"
)

// Living is the body its brains act through.
var _ brain.Body = (*Living)(nil)

func (l *Living) Now() timer.Time  { return l.region.Now() }
func (l *Living) Log() *zap.Logger { return l.region.log.With(zap.Stringer("entity", l.id)) }

func (l *Living) Position() mgl64.Vec3          { return l.intent.Position(l.region.Now()) }
func (l *Living) SpawnPoint() mgl64.Vec3        { return l.spawn }
func (l *Living) Alive() bool                   { return !l.dead }
func (l *Living) Health() (cur, max int)        { return l.health, l.maxHealth }
func (l *Living) CombatState() combat.State     { return l.cycle.State() }
func (l *Living) CombatTarget() ecs.EntityID    { return l.cycle.Target }
func (l *Living) WeaponMode() combat.WeaponMode { return l.mode }
func (l *Living) HasRangedWeapon() bool         { return l.ranged != nil }
func (l *Living) IsReturningHome() bool         { return l.returning }
func (l *Living) SpellIDs() []int32             { return slices.Clone(l.spells) }

func (l *Living) IsMoving() bool {
	return l.intent.Moving() && !l.intent.Arrived(l.region.Now())
}

// DistanceTo is the ground distance to a live entity of the same region.
func (l *Living) DistanceTo(target ecs.EntityID) (float64, bool) {
	r := l.region
	t, ok := r.lookup(target)
	if !ok || t.dead {
		return 0, false
	}
	now := r.Now()
	return geom.GroundDistance(l.intent.Position(now), t.intent.Position(now)), true
}

// Nearby lists the live entities within radius, nearest first.
func (l *Living) Nearby(radius float64) []brain.Contact {
	r := l.region
	now := r.Now()
	pos := l.intent.Position(now)
	var out []brain.Contact
	visit := func(o *Living) {
		if o.id == l.id || o.dead {
			return
		}
		if d := geom.GroundDistance(pos, o.intent.Position(now)); d <= radius {
			out = append(out, brain.Contact{ID: o.id, Dist: d, Player: o.Kind == Commanded})
		}
	}
	if radius <= r.rules.VisibilityDistance {
		for _, id := range r.grid.Nearby(pos) {
			if o, ok := r.lookup(id); ok {
				visit(o)
			}
		}
	} else {
		r.Each(visit)
	}
	slices.SortFunc(out, func(a, b brain.Contact) int {
		if c := cmp.Compare(a.Dist, b.Dist); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (l *Living) StartAttack(target ecs.EntityID) error {
	return l.region.StartAttack(l.id, target)
}

func (l *Living) StopAttack() { l.region.endAttack(l) }

func (l *Living) Follow(target ecs.EntityID, minDist, maxDist float64) error {
	return l.region.IssueFollow(l.id, target, minDist, maxDist)
}

func (l *Living) MoveTo(p mgl64.Vec3, speed float64) error {
	return l.region.IssueMove(l.id, p, speed)
}

func (l *Living) StopMoving() { _ = l.region.StopMovement(l.id) }

func (l *Living) ReturnToSpawn() { l.region.walkToSpawn(l) }

func (l *Living) Cast(spellID int32, target ecs.EntityID) error {
	return l.region.CastByID(l.id, spellID, target)
}

func (l *Living) SwitchWeapon(mode combat.WeaponMode) error {
	return l.region.SwitchWeaponMode(l.id, mode)
}

// StartThinking runs fn every interval. Dead and inert bodies skip the turn.
func (l *Living) StartThinking(interval timer.Time, fn func(now timer.Time)) {
	interval = max(interval, 1)
	l.actions.Schedule(timer.PurposeThink, interval, func(now timer.Time) timer.Time {
		if !l.dead && !l.inert {
			fn(now)
		}
		return interval
	})
}

func (l *Living) StopThinking() { l.actions.Stop(timer.PurposeThink) }

// PushBrain puts b on top of the entity's brain stack, making it the active
// controller.
func (r *Region) PushBrain(id ecs.EntityID, b brain.Brain) error {
	l, err := r.brainsOf(id)
	if err != nil {
		return err
	}
	return l.brains.Push(b)
}

// RemoveBrain takes b off the stack. Removing the active brain hands control
// to the one below.
func (r *Region) RemoveBrain(id ecs.EntityID, b brain.Brain) error {
	l, err := r.brainsOf(id)
	if err != nil {
		return err
	}
	if !l.brains.Remove(b) {
		return fmt.Errorf("remove brain %s: %w", b.Name(), brain.ErrNoBrain)
	}
	return nil
}

// SwapBaseBrain replaces the bottom brain and returns the old one.
func (r *Region) SwapBaseBrain(id ecs.EntityID, b brain.Brain) (brain.Brain, error) {
	l, err := r.brainsOf(id)
	if err != nil {
		return nil, err
	}
	return l.brains.SwapBase(b)
}

func (r *Region) brainsOf(id ecs.EntityID) (*Living, error) {
	l, err := r.get(id)
	if err != nil {
		return nil, err
	}
	if l.brains == nil {
		return nil, fmt.Errorf("%v: %w", id, ErrNotAutonomous)
	}
	return l, nil
}
