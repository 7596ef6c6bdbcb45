package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/regioncore/internal/combat"
	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/event"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"github.com/l1jgo/regioncore/internal/geom"
	"github.com/l1jgo/regioncore/internal/movement"
	"go.uber.org/zap"
)

// IssueMove replaces the entity's intent with a straight walk to target.
// Speed is capped at the entity's maximum; zero speed stops in place. A
// commanded move ends any pursuit.
func (r *Region) IssueMove(id ecs.EntityID, target mgl64.Vec3, speed float64) error {
	l, err := r.controllable(id)
	if err != nil {
		return fmt.Errorf("move: %w", err)
	}
	now := r.Now()
	if _, err := movement.Toward(l.intent.Position(now), now, target, speed); err != nil {
		if !geom.Finite(target) {
			r.log.Error("non-finite move target", zap.Stringer("entity", id), zap.Error(err))
		}
		return fmt.Errorf("move: %w", err)
	}
	if l.stunned {
		return fmt.Errorf("move: %w", ErrDisabled)
	}
	r.stopPursuit(l)
	l.returning = false
	r.moveTo(l, target, speed)
	r.movedWhileBusy(l)
	return nil
}

// StopMovement halts the entity where it is and ends any pursuit. A
// stationary entity with no pursuit is left untouched and nothing is sent.
func (r *Region) StopMovement(id ecs.EntityID) error {
	l, err := r.controllable(id)
	if err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	moving := l.intent.Moving() && !l.intent.Arrived(r.Now())
	if !moving && l.pursuit == nil {
		return nil
	}
	r.stopPursuit(l)
	l.returning = false
	if moving {
		r.halt(l)
	}
	return nil
}

// Turn changes the heading of a stationary or moving entity.
func (r *Region) Turn(id ecs.EntityID, heading uint16) error {
	l, err := r.controllable(id)
	if err != nil {
		return fmt.Errorf("turn: %w", err)
	}
	heading %= geom.HeadingSteps
	if heading == l.heading {
		return nil
	}
	l.heading = heading
	r.emitPosition(l)
	r.movedWhileBusy(l)
	return nil
}

// CurrentPosition extrapolates the entity's position at now.
func (r *Region) CurrentPosition(id ecs.EntityID, now timer.Time) (mgl64.Vec3, error) {
	l, err := r.get(id)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return l.intent.Position(now), nil
}

// moveTo installs a new intent from the current position. Callers have
// already validated target.
func (r *Region) moveTo(l *Living, target mgl64.Vec3, speed float64) {
	now := r.Now()
	pos := l.intent.Position(now)
	speed = min(speed, l.maxSpeed)
	in, err := movement.Toward(pos, now, target, speed)
	if err != nil {
		r.violation(l.id, timer.PurposeArrival, err)
		return
	}
	if speed <= 0 {
		in = movement.Stationary(pos, now)
	}
	l.intent = in
	if in.Moving() {
		l.heading = geom.HeadingTo(pos, target)
	}
	r.refile(l, pos)
	if in.Moving() {
		l.actions.Schedule(timer.PurposeArrival, in.ArrivalTime()-now, r.arrive(l))
	} else {
		l.actions.Stop(timer.PurposeArrival)
	}
	r.emitPosition(l)
}

// halt freezes the entity at its extrapolated position.
func (r *Region) halt(l *Living) {
	now := r.Now()
	pos := l.intent.Position(now)
	l.intent = movement.Stationary(pos, now)
	l.actions.Stop(timer.PurposeArrival)
	r.refile(l, pos)
	r.emitPosition(l)
}

func (r *Region) arrive(l *Living) timer.Callback {
	return func(now timer.Time) timer.Time {
		target := l.intent.Target
		l.intent = movement.Stationary(target, now)
		r.refile(l, target)
		if l.returning && target == l.spawn {
			l.returning = false
			l.heading = l.spawnHeading
		}
		event.Emit(r.bus, event.Arrived{Header: r.header(l), Position: target})
		return 0
	}
}

// face turns an entity toward p, announcing the change.
func (r *Region) face(l *Living, p mgl64.Vec3) {
	pos := l.intent.Position(r.Now())
	if pos.X() == p.X() && pos.Y() == p.Y() {
		return
	}
	if h := geom.HeadingTo(pos, p); h != l.heading {
		l.heading = h
		r.emitPosition(l)
	}
}

// walkToSpawn sends an autonomous entity home at a reduced pace, dropping
// whatever it was fighting.
func (r *Region) walkToSpawn(l *Living) {
	if l.dead || l.inert {
		return
	}
	r.endAttack(l)
	r.stopPursuit(l)
	if l.intent.Position(r.Now()) == l.spawn {
		l.returning = false
		return
	}
	l.returning = true
	div := max(r.rules.ReturnSpeedDivisor, 1)
	r.moveTo(l, l.spawn, l.maxSpeed/div)
}

// movedWhileBusy interrupts a cast or a drawn shot that does not tolerate
// movement.
func (r *Region) movedWhileBusy(l *Living) {
	switch st := l.cycle.State(); {
	case st == combat.CastingQueued:
		if sp, _ := l.cycle.Casting(); sp != nil && sp.InterruptOnMove {
			r.interrupt(l, l.id)
		}
	case st == combat.RangedDrawing || st == combat.RangedReady:
		if l.ranged != nil && l.ranged.InterruptOnMove {
			r.interrupt(l, l.id)
		}
	}
}

// refile keeps the AOI cell in step with the entity's position.
func (r *Region) refile(l *Living, pos mgl64.Vec3) {
	l.cell = r.grid.Move(l.id, l.cell, pos)
}

// RefreshVisibility refiles moving entities in the AOI grid.
func (r *Region) RefreshVisibility() int {
	now := r.Now()
	n := 0
	r.Each(func(l *Living) {
		if l.intent.Moving() {
			r.refile(l, l.intent.Position(now))
			n++
		}
	})
	return n
}
