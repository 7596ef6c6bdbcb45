package world

import (
	"fmt"

	"github.com/l1jgo/regioncore/internal/combat"
	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/event"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"github.com/l1jgo/regioncore/internal/geom"
	"github.com/l1jgo/regioncore/internal/journal"
	"github.com/l1jgo/regioncore/internal/movement"
	"github.com/l1jgo/regioncore/internal/notice"
	"go.uber.org/zap"
)

// StartAttack engages target with the active weapon. Attacking the current
// target again is a no-op; attacking another one switches.
func (r *Region) StartAttack(id, target ecs.EntityID) error {
	l, err := r.controllable(id)
	if err != nil {
		return fmt.Errorf("attack: %w", err)
	}
	if target.IsZero() {
		return fmt.Errorf("attack: %w", combat.ErrNoTarget)
	}
	if target == id {
		return fmt.Errorf("attack: %w", ErrSelfTarget)
	}
	t, ok := r.lookup(target)
	if !ok {
		return fmt.Errorf("attack %v: %w", target, ErrUnknownTarget)
	}
	if t.dead {
		return fmt.Errorf("attack %v: %w", target, ErrTargetDead)
	}
	if l.stunned {
		return fmt.Errorf("attack: %w", ErrDisabled)
	}

	switch st := l.cycle.State(); {
	case st == combat.Interrupted:
		return fmt.Errorf("attack: %w", combat.ErrInterrupted)
	case st == combat.CastingQueued:
		if l.mode != combat.Melee {
			return fmt.Errorf("attack: %w", combat.ErrBusy)
		}
		return l.cycle.EngageAfterCast(target)
	case st.Attacking() && l.cycle.Target == target:
		return nil
	case st.Attacking():
		r.endAttack(l)
	}
	l.returning = false
	if err := r.engage(l, target); err != nil {
		return fmt.Errorf("attack: %w", err)
	}
	return nil
}

// StopAttack ends weapon attacks and the pursuit of the attack target. During
// a cast only the melee resumption is cancelled.
func (r *Region) StopAttack(id ecs.EntityID) error {
	l, err := r.get(id)
	if err != nil {
		return fmt.Errorf("stop attack: %w", err)
	}
	r.endAttack(l)
	return nil
}

// CurrentCombatState returns the combat cycle state of an entity.
func (r *Region) CurrentCombatState(id ecs.EntityID) (combat.State, error) {
	l, err := r.get(id)
	if err != nil {
		return combat.Idle, err
	}
	return l.cycle.State(), nil
}

// SwitchWeaponMode selects the melee or ranged weapon. Whatever the cycle
// was doing is dropped; a running cast is cancelled with a notice.
func (r *Region) SwitchWeaponMode(id ecs.EntityID, mode combat.WeaponMode) error {
	l, err := r.controllable(id)
	if err != nil {
		return fmt.Errorf("switch weapon: %w", err)
	}
	if mode == combat.Ranged && l.ranged == nil {
		return fmt.Errorf("switch weapon: %w", ErrNoRangedWeapon)
	}
	if mode == l.mode {
		return nil
	}
	r.switchMode(l, mode)
	return nil
}

// Fire releases a drawn shot. AimFire and AimFireReload may be given while
// still drawing; the shot then goes as soon as the draw completes.
func (r *Region) Fire(id ecs.EntityID, mode combat.FireMode) error {
	l, err := r.controllable(id)
	if err != nil {
		return fmt.Errorf("fire: %w", err)
	}
	if l.ranged == nil || l.mode != combat.Ranged {
		return fmt.Errorf("fire: %w", ErrNoRangedWeapon)
	}
	l.fire = mode
	c := l.cycle
	switch c.State() {
	case combat.RangedReady:
		c.Fire = mode
		r.shoot(l)
		return nil
	case combat.RangedDrawing:
		if mode == combat.Fire {
			return fmt.Errorf("fire: %w", combat.ErrNotReady)
		}
		c.Fire = mode
		return nil
	}
	return fmt.Errorf("fire from %s: %w", c.State(), combat.ErrNotReady)
}

// TakeHit applies damage from outside the weapon cycle, such as a spell
// effect. It counts as a qualifying hit.
func (r *Region) TakeHit(id, attacker ecs.EntityID, damage int) error {
	t, err := r.controllable(id)
	if err != nil {
		return fmt.Errorf("take hit: %w", err)
	}
	res := combat.AttackResult{
		Attacker: attacker,
		Target:   id,
		Kind:     combat.Hit,
		Damage:   max(damage, 0),
		Time:     r.Now(),
	}
	r.struck(t, attacker, res)
	return nil
}

// Kill sets an entity's health to zero.
func (r *Region) Kill(id, killer ecs.EntityID) error {
	l, err := r.controllable(id)
	if err != nil {
		return fmt.Errorf("kill: %w", err)
	}
	r.kill(l, killer)
	return nil
}

func (r *Region) engageDistance(l *Living) float64 {
	w := l.activeWeapon()
	if w.Mode == combat.Ranged {
		return min(r.rules.RangedMinDistance, w.Range)
	}
	return min(r.rules.StickRange, w.Range)
}

func (r *Region) engage(l *Living, target ecs.EntityID) error {
	now := r.Now()
	w := l.activeWeapon()
	if w.Mode == combat.Melee {
		if err := l.cycle.EngageMelee(target); err != nil {
			return err
		}
		l.engagedAt = now
		r.startPursuit(l, target, r.engageDistance(l))
		delay := max(r.rules.EngageDelay, l.nextSwing-now)
		l.actions.Schedule(timer.PurposeAttack, delay, r.swing(l))
		return nil
	}
	if err := l.cycle.Draw(target, l.fire); err != nil {
		return err
	}
	l.engagedAt = now
	r.startPursuit(l, target, r.engageDistance(l))
	l.actions.Schedule(timer.PurposeAttack, max(w.DrawTime, 1), r.drawn(l))
	return nil
}

// endAttack returns the cycle to Idle and drops the pursuit of the target.
func (r *Region) endAttack(l *Living) {
	c := l.cycle
	st := c.State()
	switch st {
	case combat.Idle:
		return
	case combat.CastingQueued:
		_ = c.Stop()
		return
	}
	if l.pursuit != nil && l.pursuit.Target == c.Target {
		r.stopPursuit(l)
	}
	l.actions.Stop(timer.PurposeAttack)
	l.actions.Stop(timer.PurposeRangedHold)
	l.actions.Stop(timer.PurposeRecover)
	if err := c.Stop(); err != nil {
		r.log.Warn("stop attack", zap.Stringer("entity", l.id), zap.Error(err))
	}
}

func (r *Region) switchMode(l *Living, mode combat.WeaponMode) {
	if l.pursuit != nil && l.cycle.State().Attacking() && l.pursuit.Target == l.cycle.Target {
		r.stopPursuit(l)
	}
	l.actions.Stop(timer.PurposeAttack)
	l.actions.Stop(timer.PurposeCast)
	l.actions.Stop(timer.PurposeRangedHold)
	l.actions.Stop(timer.PurposeRecover)
	if sp := l.cycle.ForceIdle(); sp != nil {
		r.notify(l, notice.CastCancelled, sp.Name)
	}
	l.mode = mode
}

// swing is the melee attack loop. OutOfRange parks the loop until the
// pursuit reports the target in range again.
func (r *Region) swing(l *Living) timer.Callback {
	return func(now timer.Time) timer.Time {
		c := l.cycle
		if c.State() != combat.MeleeEngaged {
			return 0
		}
		if l.stunned {
			return max(r.rules.StunRetry, 1)
		}
		w := l.melee
		interval := max(w.Speed, 1)
		if c.SkipNext {
			c.SkipNext = false
			l.nextSwing = now + interval
			return interval
		}

		target := c.Target
		if t, ok := r.lookup(target); ok && l.Kind == Autonomous {
			r.face(l, t.intent.Position(now))
		}
		res := r.attempt(l, target, w)
		r.deliver(l, res)
		if c.State() != combat.MeleeEngaged || c.Target != target {
			return 0
		}

		switch {
		case res.Kind.Terminal():
			r.loseTarget(l, target, r.lostReason(target))
			return 0
		case res.Kind == combat.OutOfRange:
			c.ClearFollowUps()
			c.WaitInRange = true
			r.startPursuit(l, target, r.engageDistance(l))
			r.notify(l, notice.TooFarAway, r.nameOf(target))
			return 0
		case res.Kind == combat.TargetNotVisible:
			r.notify(l, notice.NotInView)
		case res.Kind == combat.Fumbled:
			c.SkipNext = true
		}
		if !res.Hit() {
			c.ClearFollowUps()
		}
		l.nextSwing = now + interval
		return interval
	}
}

// inRange is the pursuit's in-range edge. It resumes an attack parked on
// OutOfRange.
func (r *Region) inRange(l *Living, target ecs.EntityID) {
	c := l.cycle
	if c.Target != target || !c.WaitInRange {
		return
	}
	c.WaitInRange = false
	switch c.State() {
	case combat.MeleeEngaged:
		l.actions.Schedule(timer.PurposeAttack, max(l.nextSwing-r.Now(), 0), r.swing(l))
	case combat.RangedReady:
		r.shoot(l)
	}
}

// drawn fires when the draw time has elapsed.
func (r *Region) drawn(l *Living) timer.Callback {
	return func(now timer.Time) timer.Time {
		c := l.cycle
		if c.State() != combat.RangedDrawing {
			return 0
		}
		if l.stunned {
			return max(r.rules.StunRetry, 1)
		}
		if err := c.Ready(now); err != nil {
			return 0
		}
		if l.Kind == Autonomous || c.Fire != combat.Fire {
			r.shoot(l)
			return 0
		}
		r.notify(l, notice.ReadyToFire)
		if l.ranged != nil && !l.ranged.NoFatigue && r.rules.MaxHold > 0 {
			l.actions.Schedule(timer.PurposeRangedHold, r.rules.MaxHold, r.holdExpired(l))
		}
		return 0
	}
}

func (r *Region) holdExpired(l *Living) timer.Callback {
	return func(timer.Time) timer.Time {
		if l.cycle.State() == combat.RangedReady {
			r.notify(l, notice.TooTired)
			r.endAttack(l)
		}
		return 0
	}
}

// shoot looses a ready shot. An invalid shot is held: out of range waits for
// the pursuit edge, terminal results end the attack.
func (r *Region) shoot(l *Living) {
	c := l.cycle
	if c.State() != combat.RangedReady || l.ranged == nil {
		return
	}
	w := *l.ranged
	target := c.Target
	now := r.Now()

	if l.Kind == Autonomous {
		if t, ok := r.lookup(target); ok && !t.dead {
			tp := t.intent.Position(now)
			if geom.GroundDistance(l.intent.Position(now), tp) <= r.rules.MeleeSwitchRange {
				r.switchMode(l, combat.Melee)
				if err := r.engage(l, target); err != nil {
					r.log.Debug("melee switch", zap.Stringer("entity", l.id), zap.Error(err))
				}
				return
			}
			r.face(l, tp)
		}
	}

	at := r.attemptFor(l, target, w)
	if kind, _, ok := combat.Validate(at); !ok {
		if kind.Terminal() {
			r.deliver(l, combat.Resolve(at, r.deps.Math, r.deps.Roller))
			r.loseTarget(l, target, r.lostReason(target))
			return
		}
		if kind == combat.OutOfRange {
			c.WaitInRange = true
			r.notify(l, notice.TooFarAway, r.nameOf(target))
			return
		}
		r.notify(l, notice.NotInView)
		if l.Kind == Autonomous {
			l.actions.Schedule(timer.PurposeAttack, max(w.Speed, 1), r.retryShot(l))
		}
		return
	}

	l.actions.Stop(timer.PurposeRangedHold)
	if err := c.Loose(); err != nil {
		return
	}
	res := combat.Resolve(at, r.deps.Math, r.deps.Roller)
	if r.deps.Ammo != nil {
		r.deps.Ammo.ConsumeAmmo(l.id, w)
	}
	r.deliver(l, res)
	if c.State() != combat.RangedFiring {
		return
	}
	if l.Kind == Autonomous || w.AutoReload || c.Fire == combat.AimFireReload {
		if err := c.Rearm(); err == nil {
			l.actions.Schedule(timer.PurposeAttack, max(w.Speed, w.DrawTime, 1), r.drawn(l))
			return
		}
	}
	r.endAttack(l)
}

func (r *Region) retryShot(l *Living) timer.Callback {
	return func(timer.Time) timer.Time {
		r.shoot(l)
		return 0
	}
}

func (r *Region) attemptFor(l *Living, target ecs.EntityID, w combat.Weapon) combat.Attempt {
	now := r.Now()
	return combat.Attempt{
		Attacker:  l.combatant(now),
		Target:    r.targetCombatant(target, now),
		Weapon:    w,
		FacingArc: r.rules.FacingArc,
		Now:       now,
	}
}

func (r *Region) attempt(l *Living, target ecs.EntityID, w combat.Weapon) combat.AttackResult {
	return combat.Resolve(r.attemptFor(l, target, w), r.deps.Math, r.deps.Roller)
}

// targetCombatant views a target handle. A handle this region no longer
// knows is reported as outside the region.
func (r *Region) targetCombatant(id ecs.EntityID, now timer.Time) *combat.Combatant {
	if id.IsZero() {
		return nil
	}
	if t, ok := r.lookup(id); ok {
		c := t.combatant(now)
		return &c
	}
	return &combat.Combatant{ID: id, Alive: true, InRegion: false}
}

// deliver publishes a result and applies it to the target.
func (r *Region) deliver(l *Living, res combat.AttackResult) {
	event.Emit(r.bus, event.AttackResolved{Header: r.header(l), Result: res})
	r.record(journal.KindAttack, l.id, res.Target, journal.AttackPayload{
		Result:   res.Kind.String(),
		Mode:     res.Mode.String(),
		WeaponID: res.WeaponID,
		Damage:   res.Damage,
		Critical: res.Critical,
	})
	if !res.Kind.Rolled() {
		return
	}
	l.lastRolled = res.Time
	if t, ok := r.lookup(res.Target); ok && !t.dead {
		r.struck(t, l.id, res)
	}
}

// struck applies a rolled result to its target: damage, death, interrupt,
// and the brain's reaction.
func (r *Region) struck(t *Living, attacker ecs.EntityID, res combat.AttackResult) {
	t.lastTaken = r.Now()
	if res.Hit() {
		t.health -= res.Total()
		if t.health <= 0 {
			r.kill(t, attacker)
			return
		}
		if t.cycle.Interruptible() {
			r.interrupt(t, attacker)
		}
	}
	if t.brains != nil {
		t.brains.OnAttacked(attacker, res)
	}
}

func (r *Region) kill(t *Living, killer ecs.EntityID) {
	now := r.Now()
	t.health = 0
	t.dead = true
	t.stunned = false
	t.returning = false
	t.actions.StopAll()
	if t.brains != nil {
		t.brains.Stop()
	}
	t.pursuit = nil
	t.cycle.ForceIdle()
	t.intent = movement.Stationary(t.intent.Position(now), now)
	r.deps.Threat.Clear(t.id)

	r.log.Debug("entity died", zap.Stringer("entity", t.id), zap.Stringer("killer", killer))
	event.Emit(r.bus, event.Died{Header: r.header(t), Killer: killer})
	r.record(journal.KindDeath, t.id, killer, journal.DeathPayload{Killer: killer})

	if t.Kind == Autonomous && t.respawnDelay > 0 {
		t.actions.Schedule(timer.PurposeRespawn, t.respawnDelay, r.respawn(t))
	}
}

// respawn revives an autonomous entity at its spawn point.
func (r *Region) respawn(t *Living) timer.Callback {
	return func(now timer.Time) timer.Time {
		if !t.dead {
			return 0
		}
		t.dead = false
		t.health = t.maxHealth
		t.heading = t.spawnHeading
		t.nextSwing = 0
		t.mode = combat.Melee
		t.intent = movement.Stationary(t.spawn, now)
		r.refile(t, t.spawn)
		r.emitPosition(t)
		if t.brains != nil && !t.inert {
			t.brains.Start()
		}
		return 0
	}
}
