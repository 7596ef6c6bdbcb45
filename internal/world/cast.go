package world

import (
	"errors"
	"fmt"

	"github.com/l1jgo/regioncore/internal/combat"
	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/event"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"github.com/l1jgo/regioncore/internal/journal"
	"github.com/l1jgo/regioncore/internal/notice"
)

// CastSpell starts a cast on target. Instant spells complete at once; a cast
// requested while another runs takes the single queued slot, replacing
// whatever was queued before.
func (r *Region) CastSpell(id ecs.EntityID, sp *combat.Spell, target ecs.EntityID) error {
	l, err := r.controllable(id)
	if err != nil {
		return fmt.Errorf("cast: %w", err)
	}
	if sp == nil {
		return fmt.Errorf("cast: %w", ErrNoSpell)
	}
	if l.stunned {
		return fmt.Errorf("cast %s: %w", sp.Name, ErrDisabled)
	}
	c := l.cycle
	if sp.Instant() {
		if err := c.CanCastInstant(); err != nil {
			r.castRejected(l, err)
			return fmt.Errorf("cast %s: %w", sp.Name, err)
		}
		r.completeCast(l, sp, target)
		return nil
	}

	queued, err := c.BeginCast(sp, target)
	if err != nil {
		r.castRejected(l, err)
		return fmt.Errorf("cast %s: %w", sp.Name, err)
	}
	if queued {
		return nil
	}
	// 施法期間不追擊、不移動，近戰暫停。
	r.stopPursuit(l)
	if l.intent.Moving() && !l.intent.Arrived(r.Now()) {
		r.halt(l)
	}
	l.actions.Stop(timer.PurposeAttack)
	l.actions.Schedule(timer.PurposeCast, sp.CastTime, r.castDone(l))
	return nil
}

// CastByID looks the spell up in the region's spellbook.
func (r *Region) CastByID(id ecs.EntityID, spellID int32, target ecs.EntityID) error {
	if r.deps.Book == nil {
		return fmt.Errorf("cast %d: %w", spellID, ErrNoSpell)
	}
	sp := r.deps.Book.Spell(spellID)
	if sp == nil {
		return fmt.Errorf("cast %d: %w", spellID, ErrNoSpell)
	}
	return r.CastSpell(id, sp, target)
}

func (r *Region) castRejected(l *Living, err error) {
	if errors.Is(err, combat.ErrCastWhileRanged) {
		r.notify(l, notice.CastWhileRanged)
	}
}

func (r *Region) castDone(l *Living) timer.Callback {
	return func(now timer.Time) timer.Time {
		c := l.cycle
		sp, target := c.Casting()
		if c.State() != combat.CastingQueued || sp == nil {
			return 0
		}
		next, _, err := c.FinishCast()
		if err != nil {
			return 0
		}
		r.completeCast(l, sp, target)
		if l.dead || l.inert {
			return 0
		}
		if next != nil {
			return max(next.CastTime, 1)
		}
		if c.State() == combat.MeleeEngaged {
			r.startPursuit(l, c.Target, r.engageDistance(l))
			l.actions.Schedule(timer.PurposeAttack, max(l.nextSwing-now, 0), r.swing(l))
		}
		return 0
	}
}

func (r *Region) completeCast(l *Living, sp *combat.Spell, target ecs.EntityID) {
	event.Emit(r.bus, event.CastCompleted{Header: r.header(l), Target: target, SpellID: sp.ID})
	r.record(journal.KindCast, l.id, target, journal.CastPayload{SpellID: sp.ID})
	if r.deps.Spells != nil {
		r.deps.Spells.CastComplete(l.id, target, sp)
	}
}

// interrupt abandons the cast or drawn shot of l. Nothing is resolved and
// the queued spell is dropped.
func (r *Region) interrupt(l *Living, by ecs.EntityID) {
	c := l.cycle
	was := c.State()
	target := c.Target
	abandoned, err := c.Interrupt()
	if err != nil {
		return
	}
	l.actions.Stop(timer.PurposeAttack)
	l.actions.Stop(timer.PurposeCast)
	l.actions.Stop(timer.PurposeRangedHold)
	if l.pursuit != nil && l.pursuit.Target == target {
		r.stopPursuit(l)
	}

	var spellID int32
	if abandoned != nil {
		spellID = abandoned.ID
	}
	event.Emit(r.bus, event.Interrupted{Header: r.header(l), By: by, Was: was, SpellID: spellID})
	r.notify(l, notice.Interrupted)
	r.record(journal.KindInterrupt, l.id, by, journal.InterruptPayload{
		Was:     string(was),
		By:      by,
		SpellID: spellID,
	})

	if r.rules.InterruptLockout <= 0 {
		_ = c.Recover()
		return
	}
	l.actions.Schedule(timer.PurposeRecover, r.rules.InterruptLockout, func(timer.Time) timer.Time {
		_ = c.Recover()
		return 0
	})
}

// Stun disables an entity for d. Pursuit ends, movement halts and an
// interruptible cast or shot is abandoned. An engaged attack resumes its
// pursuit when the stun wears off.
func (r *Region) Stun(id ecs.EntityID, d timer.Time) error {
	l, err := r.controllable(id)
	if err != nil {
		return fmt.Errorf("stun: %w", err)
	}
	if d <= 0 {
		return nil
	}
	l.stunned = true
	r.stopPursuit(l)
	if l.intent.Moving() && !l.intent.Arrived(r.Now()) {
		r.halt(l)
	}
	if l.cycle.Interruptible() {
		r.interrupt(l, ecs.None)
	}
	l.actions.Schedule(timer.PurposeStun, d, func(timer.Time) timer.Time {
		l.stunned = false
		if st := l.cycle.State(); st.Attacking() {
			r.startPursuit(l, l.cycle.Target, r.engageDistance(l))
		}
		return 0
	})
	return nil
}
