package combat

import (
	"context"
	"errors"
	"fmt"

	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"github.com/looplab/fsm"
)

// State is the combat cycle state of one entity.
type State string

const (
	Idle          State = "idle"
	MeleeEngaged  State = "melee_engaged"
	RangedDrawing State = "ranged_drawing"
	RangedReady   State = "ranged_ready"
	RangedFiring  State = "ranged_firing"
	CastingQueued State = "casting_queued"
	Interrupted   State = "interrupted"
)

// Attacking reports whether s is one of the weapon attack states.
func (s State) Attacking() bool {
	switch s {
	case MeleeEngaged, RangedDrawing, RangedReady, RangedFiring:
		return true
	}
	return false
}

// Ranged reports whether s belongs to the ranged weapon cycle.
func (s State) Ranged() bool {
	return s == RangedDrawing || s == RangedReady || s == RangedFiring
}

var (
	ErrNoTarget        = errors.New("no attack target")
	ErrBusy            = errors.New("combat cycle busy")
	ErrCastWhileRanged = errors.New("cannot cast while using a ranged weapon")
	ErrInterrupted     = errors.New("recovering from an interrupt")
	ErrNotReady        = errors.New("shot is not ready")
	ErrNotCasting      = errors.New("no cast in progress")
)

const (
	evEngageMelee = "engage_melee"
	evDraw        = "draw"
	evReady       = "ready"
	evFire        = "fire"
	evCast        = "cast"
	evFinishCast  = "finish_cast"
	evResumeMelee = "resume_melee"
	evInterrupt   = "interrupt"
	evRecover     = "recover"
	evStop        = "stop"
)

func str(states ...State) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = string(s)
	}
	return out
}

// Cycle is one entity's combat state machine plus the bookkeeping that rides
// along with it: the attack target, the running and queued spell, and the
// ranged hold clock.
type Cycle struct {
	machine *fsm.FSM

	Target      ecs.EntityID
	Fire        FireMode
	HoldSince   timer.Time
	SkipNext    bool // a fumble costs the next swing
	WaitInRange bool // out of range, waiting for the pursuit in-range edge

	casting     *Spell
	castTarget  ecs.EntityID
	queued      *Spell
	queuedOn    ecs.EntityID
	resumeMelee bool

	onChange func(from, to State)
}

// NewCycle returns a cycle in Idle. onChange, if set, sees every transition.
func NewCycle(onChange func(from, to State)) *Cycle {
	c := &Cycle{onChange: onChange}
	c.machine = fsm.NewFSM(
		string(Idle),
		fsm.Events{
			{Name: evEngageMelee, Src: str(Idle), Dst: string(MeleeEngaged)},
			{Name: evDraw, Src: str(Idle, RangedFiring), Dst: string(RangedDrawing)},
			{Name: evReady, Src: str(RangedDrawing), Dst: string(RangedReady)},
			{Name: evFire, Src: str(RangedReady), Dst: string(RangedFiring)},
			{Name: evCast, Src: str(Idle, MeleeEngaged), Dst: string(CastingQueued)},
			{Name: evFinishCast, Src: str(CastingQueued), Dst: string(Idle)},
			{Name: evResumeMelee, Src: str(CastingQueued), Dst: string(MeleeEngaged)},
			{Name: evInterrupt, Src: str(RangedDrawing, RangedReady, CastingQueued), Dst: string(Interrupted)},
			{Name: evRecover, Src: str(Interrupted), Dst: string(Idle)},
			{Name: evStop, Src: str(MeleeEngaged, RangedDrawing, RangedReady, RangedFiring, CastingQueued, Interrupted), Dst: string(Idle)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				if c.onChange != nil {
					c.onChange(State(e.Src), State(e.Dst))
				}
			},
		},
	)
	return c
}

func (c *Cycle) State() State { return State(c.machine.Current()) }

func (c *Cycle) event(name string) error {
	if err := c.machine.Event(context.Background(), name); err != nil {
		return fmt.Errorf("%s from %s: %w", name, c.State(), ErrBusy)
	}
	return nil
}

// Casting returns the spell being cast, if any.
func (c *Cycle) Casting() (*Spell, ecs.EntityID) { return c.casting, c.castTarget }

// Queued returns the spell waiting for the running cast to finish.
func (c *Cycle) Queued() (*Spell, ecs.EntityID) { return c.queued, c.queuedOn }

// ResumesMelee reports whether melee picks up again once the cast completes.
func (c *Cycle) ResumesMelee() bool { return c.resumeMelee }

// EngageMelee starts the melee cycle against target.
func (c *Cycle) EngageMelee(target ecs.EntityID) error {
	if target.IsZero() {
		return ErrNoTarget
	}
	if err := c.event(evEngageMelee); err != nil {
		return err
	}
	c.Target = target
	c.SkipNext = false
	c.WaitInRange = false
	return nil
}

// Draw starts (or restarts, after a shot) drawing against target.
func (c *Cycle) Draw(target ecs.EntityID, mode FireMode) error {
	if target.IsZero() {
		return ErrNoTarget
	}
	if err := c.event(evDraw); err != nil {
		return err
	}
	c.Target = target
	c.Fire = mode
	return nil
}

// Ready marks the draw complete and starts the hold clock.
func (c *Cycle) Ready(now timer.Time) error {
	if err := c.event(evReady); err != nil {
		return err
	}
	c.HoldSince = now
	return nil
}

// Loose moves a ready shot into flight.
func (c *Cycle) Loose() error {
	if c.State() != RangedReady {
		return ErrNotReady
	}
	return c.event(evFire)
}

// Rearm goes back to drawing after a shot.
func (c *Cycle) Rearm() error {
	return c.event(evDraw)
}

// CanCastInstant rejects instant spells where they would overlap a shot.
func (c *Cycle) CanCastInstant() error {
	switch s := c.State(); {
	case s.Ranged():
		return ErrCastWhileRanged
	case s == Interrupted:
		return ErrInterrupted
	}
	return nil
}

// BeginCast starts a cast, or queues it when one is already running. The
// queue holds one spell; a later request overwrites it.
func (c *Cycle) BeginCast(sp *Spell, target ecs.EntityID) (queued bool, err error) {
	switch s := c.State(); {
	case s == CastingQueued:
		c.queued = sp
		c.queuedOn = target
		return true, nil
	case s.Ranged():
		return false, ErrCastWhileRanged
	case s == Interrupted:
		return false, ErrInterrupted
	}
	resume := c.State() == MeleeEngaged
	if err := c.event(evCast); err != nil {
		return false, err
	}
	c.resumeMelee = resume
	c.casting = sp
	c.castTarget = target
	return false, nil
}

// EngageAfterCast points the melee resume at target while a cast runs.
func (c *Cycle) EngageAfterCast(target ecs.EntityID) error {
	if c.State() != CastingQueued {
		return ErrNotCasting
	}
	if target.IsZero() {
		return ErrNoTarget
	}
	c.Target = target
	c.resumeMelee = true
	return nil
}

// FinishCast completes the running cast. If a spell was queued it becomes the
// running cast and is returned; the cycle stays in CastingQueued. Otherwise the
// cycle returns to melee (if it was engaged before the cast) or Idle.
func (c *Cycle) FinishCast() (next *Spell, nextTarget ecs.EntityID, err error) {
	if c.State() != CastingQueued {
		return nil, ecs.None, ErrNotCasting
	}
	if c.queued != nil {
		next, nextTarget = c.queued, c.queuedOn
		c.queued, c.queuedOn = nil, ecs.None
		c.casting, c.castTarget = next, nextTarget
		return next, nextTarget, nil
	}
	c.casting, c.castTarget = nil, ecs.None
	if c.resumeMelee && !c.Target.IsZero() {
		c.resumeMelee = false
		c.WaitInRange = false
		return nil, ecs.None, c.event(evResumeMelee)
	}
	c.resumeMelee = false
	c.Target = ecs.None
	return nil, ecs.None, c.event(evFinishCast)
}

// Interruptible reports whether a qualifying hit breaks the current action.
func (c *Cycle) Interruptible() bool {
	switch c.State() {
	case RangedDrawing, RangedReady:
		return true
	case CastingQueued:
		return c.casting == nil || !c.casting.Uninterruptible
	}
	return false
}

// Interrupt abandons the cast or shot in progress. The queued spell is
// discarded and no attack result is owed.
func (c *Cycle) Interrupt() (abandoned *Spell, err error) {
	if !c.Interruptible() {
		return nil, ErrBusy
	}
	abandoned = c.casting
	if err := c.event(evInterrupt); err != nil {
		return nil, err
	}
	c.reset()
	return abandoned, nil
}

// Recover leaves the Interrupted state.
func (c *Cycle) Recover() error {
	return c.event(evRecover)
}

// Stop ends weapon attacks. During a cast it only cancels the melee resume.
func (c *Cycle) Stop() error {
	switch c.State() {
	case Idle:
		return nil
	case CastingQueued:
		c.resumeMelee = false
		c.Target = ecs.None
		return nil
	}
	if err := c.event(evStop); err != nil {
		return err
	}
	c.reset()
	return nil
}

// ForceIdle drops whatever is in progress, including a running cast, which is
// returned so the caller can report it.
func (c *Cycle) ForceIdle() (cancelled *Spell) {
	cancelled = c.casting
	if c.State() != Idle {
		from := c.State()
		c.machine.SetState(string(Idle))
		if c.onChange != nil {
			c.onChange(from, Idle)
		}
	}
	c.reset()
	return cancelled
}

// ClearFollowUps forgets anything queued behind the current attempt.
func (c *Cycle) ClearFollowUps() {
	c.queued, c.queuedOn = nil, ecs.None
	c.WaitInRange = false
}

func (c *Cycle) reset() {
	c.Target = ecs.None
	c.casting, c.castTarget = nil, ecs.None
	c.queued, c.queuedOn = nil, ecs.None
	c.resumeMelee = false
	c.WaitInRange = false
	c.SkipNext = false
	c.HoldSince = 0
}
