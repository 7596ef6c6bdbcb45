package world

import (
	"fmt"

	"github.com/l1jgo/regioncore/internal/combat"
	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/event"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"github.com/l1jgo/regioncore/internal/geom"
	"github.com/l1jgo/regioncore/internal/notice"
	"github.com/l1jgo/regioncore/internal/pursuit"
	"go.uber.org/zap"
)

// repathSlack is how far the stand-off point may drift before the path is
// reissued.
const repathSlack = 1.0

// Reasons carried by TargetLost.
const (
	LostGone          = "gone"
	LostDead          = "dead"
	LostOtherRegion   = "other_region"
	LostTooFar        = "too_far"
	LostCombatTimeout = "combat_timeout"
)

// IssueFollow makes the entity pursue target, holding between minDist and
// maxDist of it. The first evaluation runs at once.
func (r *Region) IssueFollow(id, target ecs.EntityID, minDist, maxDist float64) error {
	l, err := r.controllable(id)
	if err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	if target == id {
		return fmt.Errorf("follow: %w", ErrSelfTarget)
	}
	st, err := pursuit.New(target, minDist, maxDist)
	if err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	t, ok := r.lookup(target)
	if !ok {
		return fmt.Errorf("follow %v: %w", target, ErrUnknownTarget)
	}
	if t.dead {
		return fmt.Errorf("follow %v: %w", target, ErrTargetDead)
	}
	if l.stunned || l.cycle.State() == combat.CastingQueued {
		return fmt.Errorf("follow: %w", ErrDisabled)
	}
	l.returning = false
	r.installPursuit(l, st)
	return nil
}

// startPursuit is the internal variant used by combat: the band comes from
// the weapon, not the caller.
func (r *Region) startPursuit(l *Living, target ecs.EntityID, minDist float64) {
	if l.stunned || l.cycle.State() == combat.CastingQueued {
		return
	}
	maxDist := max(r.rules.FollowMax, minDist)
	if p := l.pursuit; p != nil && p.Target == target && p.MinDist == minDist {
		return
	}
	st, err := pursuit.New(target, minDist, maxDist)
	if err != nil {
		r.log.Warn("pursuit rejected", zap.Stringer("entity", l.id), zap.Error(err))
		return
	}
	r.installPursuit(l, st)
}

func (r *Region) installPursuit(l *Living, st *pursuit.State) {
	l.pursuit = st
	l.actions.Schedule(timer.PurposePursuit, 0, r.pursue(l, st))
}

// stopPursuit destroys the pursuit. Movement already in flight continues.
func (r *Region) stopPursuit(l *Living) {
	if l.pursuit == nil {
		return
	}
	l.pursuit = nil
	l.actions.Stop(timer.PurposePursuit)
}

// Following returns the pursued entity, if any.
func (l *Living) Following() ecs.EntityID {
	if l.pursuit == nil {
		return ecs.None
	}
	return l.pursuit.Target
}

func (r *Region) pursue(l *Living, st *pursuit.State) timer.Callback {
	return func(now timer.Time) timer.Time {
		if l.pursuit != st {
			return 0
		}
		if r.combatTimedOut(l, now) {
			r.giveUp(l, st.Target, LostCombatTimeout)
			return 0
		}
		view := r.targetView(st.Target)
		d := st.Evaluate(l.intent.Position(now), view, now)
		switch d.Verdict {
		case pursuit.Lost:
			r.loseTarget(l, st.Target, r.lostReason(st.Target))
			return 0
		case pursuit.TooFar:
			r.giveUp(l, st.Target, LostTooFar)
			return 0
		case pursuit.InRange:
			if l.intent.Moving() && !l.intent.Arrived(now) {
				r.halt(l)
			}
			r.face(l, view.Position)
			if d.Entered {
				r.inRange(l, st.Target)
			}
		case pursuit.Approach:
			// 目標幾乎沒動就沿用現有路徑，不重發位置。
			pos := l.intent.Position(now)
			if geom.Within(geom.Distance(pos, d.Destination), 0) {
				break
			}
			if !l.intent.Moving() || l.intent.Arrived(now) || geom.Distance(l.intent.Target, d.Destination) > repathSlack {
				r.moveTo(l, d.Destination, l.maxSpeed)
			}
		}
		if l.pursuit != st {
			return 0
		}
		return r.rules.FollowInterval
	}
}

// combatTimedOut reports an autonomous fight that has gone quiet: no attempt
// rolled either way since the timeout.
func (r *Region) combatTimedOut(l *Living, now timer.Time) bool {
	if l.Kind != Autonomous || r.rules.CombatTimeout <= 0 || !l.cycle.State().Attacking() {
		return false
	}
	last := max(l.engagedAt, l.lastRolled, l.lastTaken)
	return now-last > r.rules.CombatTimeout
}

func (r *Region) targetView(id ecs.EntityID) pursuit.Target {
	if t, ok := r.lookup(id); ok {
		return pursuit.Target{
			Found:      true,
			Alive:      !t.dead,
			SameRegion: true,
			Position:   t.intent.Position(r.Now()),
		}
	}
	if _, ok := r.departed[id]; ok {
		return pursuit.Target{Found: true, Alive: true}
	}
	return pursuit.Target{}
}

func (r *Region) lostReason(id ecs.EntityID) string {
	if t, ok := r.lookup(id); ok && t.dead {
		return LostDead
	}
	if _, ok := r.departed[id]; ok {
		return LostOtherRegion
	}
	return LostGone
}

// loseTarget ends the pursuit and any attack on the target, then lets the
// brain decide what next. Brainless autonomous entities walk home.
func (r *Region) loseTarget(l *Living, target ecs.EntityID, reason string) {
	r.stopPursuit(l)
	if l.cycle.Target == target {
		r.endAttack(l)
	}
	event.Emit(r.bus, event.TargetLost{Header: r.header(l), Target: target, Reason: reason})
	if reason == LostDead {
		r.notify(l, notice.TargetDead)
	} else {
		r.notify(l, notice.TargetLost)
	}
	if l.Kind != Autonomous {
		return
	}
	if l.brains != nil && l.brains.Running() {
		l.brains.OnTargetLost(target)
		return
	}
	r.walkToSpawn(l)
}

// giveUp abandons a chase that went beyond reach: the threat ledger is
// cleared and autonomous entities return to spawn.
func (r *Region) giveUp(l *Living, target ecs.EntityID, reason string) {
	r.log.Debug("pursuit given up",
		zap.Stringer("entity", l.id), zap.Stringer("target", target), zap.String("reason", reason))
	r.stopPursuit(l)
	if l.cycle.Target == target {
		r.endAttack(l)
	}
	r.deps.Threat.Clear(l.id)
	event.Emit(r.bus, event.TargetLost{Header: r.header(l), Target: target, Reason: reason})
	r.notify(l, notice.TargetLost)
	if l.Kind == Autonomous {
		r.walkToSpawn(l)
	}
}
