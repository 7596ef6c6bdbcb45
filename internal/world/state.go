package world

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/l1jgo/regioncore/internal/aggro"
	"github.com/l1jgo/regioncore/internal/combat"
	"github.com/l1jgo/regioncore/internal/config"
	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/event"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"github.com/l1jgo/regioncore/internal/geom"
	"github.com/l1jgo/regioncore/internal/journal"
	"github.com/l1jgo/regioncore/internal/movement"
	"github.com/l1jgo/regioncore/internal/notice"
	"go.uber.org/zap"
)

var (
	ErrUnknownEntity  = errors.New("unknown entity")
	ErrUnknownTarget  = errors.New("unknown target")
	ErrDead           = errors.New("entity is dead")
	ErrTargetDead     = errors.New("target is dead")
	ErrInert          = errors.New("entity is inert")
	ErrDisabled       = errors.New("entity is disabled")
	ErrSelfTarget     = errors.New("entity cannot target itself")
	ErrNoRangedWeapon = errors.New("no ranged weapon equipped")
	ErrNoSpell        = errors.New("no such spell")
	ErrQueueFull      = errors.New("region command queue full")
	ErrNotAutonomous  = errors.New("entity has no brain stack")
)

// Rules are the region-wide tuning values, converted to logical time.
type Rules struct {
	VisibilityDistance float64
	MaxCommandsPerTick int
	CommandQueueSize   int
	DepartedTTL        timer.Time

	DefaultMaxSpeed    float64
	ReturnSpeedDivisor float64

	FollowInterval timer.Time
	FollowMax      float64
	CombatTimeout  timer.Time

	StickRange        float64
	RangedMinDistance float64
	EngageDelay       timer.Time
	MaxHold           timer.Time
	InterruptLockout  timer.Time
	StunRetry         timer.Time
	MeleeSwitchRange  float64
	FacingArc         float64
}

// RulesFromConfig picks the region settings out of the server config.
func RulesFromConfig(cfg *config.Config) Rules {
	return Rules{
		VisibilityDistance: cfg.Region.VisibilityDistance,
		MaxCommandsPerTick: cfg.Region.MaxCommandsPerTick,
		CommandQueueSize:   cfg.Region.CommandQueueSize,
		DepartedTTL:        timer.FromDuration(cfg.Region.DepartedTTL),
		DefaultMaxSpeed:    cfg.Movement.DefaultMaxSpeed,
		ReturnSpeedDivisor: cfg.Movement.ReturnSpeedDivisor,
		FollowInterval:     timer.FromDuration(cfg.Pursuit.Interval),
		FollowMax:          cfg.Pursuit.MaxDistance,
		CombatTimeout:      timer.FromDuration(cfg.Pursuit.CombatTimeout),
		StickRange:         cfg.Combat.StickRange,
		RangedMinDistance:  cfg.Combat.RangedMinDistance,
		EngageDelay:        timer.FromDuration(cfg.Combat.EngageDelay),
		MaxHold:            timer.FromDuration(cfg.Combat.MaxHold),
		InterruptLockout:   timer.FromDuration(cfg.Combat.InterruptLockout),
		StunRetry:          timer.FromDuration(cfg.Combat.StunRetry),
		MeleeSwitchRange:   cfg.Combat.MeleeSwitchRange,
		FacingArc:          cfg.Combat.FacingArc,
	}
}

// AmmoHook is told once per loosed shot.
type AmmoHook interface {
	ConsumeAmmo(shooter ecs.EntityID, weapon combat.Weapon)
}

// SpellHook receives completed casts. The spell effect is its business.
type SpellHook interface {
	CastComplete(caster, target ecs.EntityID, spell *combat.Spell)
}

// Spellbook resolves spell ids for brains. data.SpellTable implements it.
type Spellbook interface {
	Spell(id int32) *combat.Spell
}

// Journal receives combat records. journal.Buffer implements it.
type Journal interface {
	Record(e journal.Entry)
}

// Deps are the collaborators a region talks to. Nil fields get defaults
// (Go combat math, a seeded PCG roller, a fresh threat table, English notices).
type Deps struct {
	Math    combat.Math
	Roller  combat.Roller
	Sink    event.Sink
	Threat  *aggro.Table
	Ammo    AmmoHook
	Spells  SpellHook
	Book    Spellbook
	Journal Journal
	Notices *notice.Catalog
}

// Command is a unit of work submitted from another goroutine and run on the
// region goroutine during the input phase.
type Command func(r *Region)

type departure struct {
	to uint32
	at timer.Time
}

// Region is one simulation partition: a single goroutine of authority over
// its entities, clock and scheduled actions. Everything except Submit must be
// called from that goroutine.
type Region struct {
	ID       uint32
	Name     string
	Instance uuid.UUID

	rules    Rules
	deps     Deps
	log      *zap.Logger
	sched    *timer.Scheduler
	ents     *ecs.World
	living   *ecs.PtrComponentStore[Living]
	grid     *AOIGrid
	bus      *event.Bus
	departed map[ecs.EntityID]departure
	commands chan Command
}

func NewRegion(id uint32, name string, rules Rules, deps Deps, log *zap.Logger) *Region {
	instance := uuid.New()
	log = log.With(zap.Uint32("region", id), zap.String("region_name", name))
	if deps.Roller == nil {
		deps.Roller = NewRoller(uint64(id))
	}
	if deps.Math == nil {
		deps.Math = combat.StatMath{Roll: deps.Roller}
	}
	if deps.Threat == nil {
		deps.Threat = aggro.NewTable()
	}
	if deps.Notices == nil {
		deps.Notices = notice.New("en")
	}
	if rules.CommandQueueSize < 1 {
		rules.CommandQueueSize = 1
	}

	r := &Region{
		ID:       id,
		Name:     name,
		Instance: instance,
		rules:    rules,
		deps:     deps,
		log:      log,
		sched:    timer.NewScheduler(log),
		ents:     ecs.NewWorld(),
		living:   ecs.NewPtrComponentStore[Living](),
		grid:     NewAOIGrid(rules.VisibilityDistance),
		bus:      event.NewBus(),
		departed: make(map[ecs.EntityID]departure),
		commands: make(chan Command, rules.CommandQueueSize),
	}
	r.ents.Registry().Register(r.living)
	r.sched.OnViolation(r.violation)
	if deps.Sink != nil {
		event.ForwardAll(r.bus, deps.Sink)
	}
	return r
}

// NewRoller returns a PCG-backed roller. A region's rolls replay identically
// for the same seed and command sequence.
func NewRoller(seed uint64) combat.Roller {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (r *Region) Now() timer.Time             { return r.sched.Now() }
func (r *Region) Rules() Rules                { return r.rules }
func (r *Region) Log() *zap.Logger            { return r.log }
func (r *Region) Scheduler() *timer.Scheduler { return r.sched }
func (r *Region) Entities() *ecs.World        { return r.ents }
func (r *Region) Bus() *event.Bus             { return r.bus }
func (r *Region) Threat() *aggro.Table        { return r.deps.Threat }
func (r *Region) Count() int                  { return r.living.Len() }

// Advance moves the region clock forward by dt and fires every action due.
func (r *Region) Advance(dt time.Duration) int {
	return r.sched.Advance(r.sched.Now() + timer.FromDuration(dt))
}

// AdvanceTo moves the region clock to t.
func (r *Region) AdvanceTo(t timer.Time) int {
	return r.sched.Advance(t)
}

// Submit queues fn for the region goroutine. It never blocks.
func (r *Region) Submit(fn Command) error {
	select {
	case r.commands <- fn:
		return nil
	default:
		return ErrQueueFull
	}
}

// DrainCommands runs up to max submitted commands; max <= 0 means all queued.
func (r *Region) DrainCommands(max int) int {
	n := 0
	for max <= 0 || n < max {
		select {
		case fn := <-r.commands:
			fn(r)
			n++
		default:
			return n
		}
	}
	return n
}

// Dispatch delivers this tick's notifications to the sink.
func (r *Region) Dispatch() int {
	r.bus.SwapBuffers()
	return r.bus.DispatchAll()
}

// PruneDeparted forgets transfer records older than the configured TTL.
func (r *Region) PruneDeparted() {
	now := r.Now()
	for id, d := range r.departed {
		if now-d.at > r.rules.DepartedTTL {
			delete(r.departed, id)
		}
	}
}

func (r *Region) lookup(id ecs.EntityID) (*Living, bool) {
	if !r.ents.Alive(id) {
		return nil, false
	}
	return r.living.Get(id)
}

// Get returns a live entity of this region.
func (r *Region) Get(id ecs.EntityID) (*Living, bool) {
	return r.lookup(id)
}

func (r *Region) get(id ecs.EntityID) (*Living, error) {
	l, ok := r.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%v: %w", id, ErrUnknownEntity)
	}
	return l, nil
}

// controllable returns an entity that may accept commands.
func (r *Region) controllable(id ecs.EntityID) (*Living, error) {
	l, err := r.get(id)
	if err != nil {
		return nil, err
	}
	switch {
	case l.dead:
		return nil, fmt.Errorf("%v: %w", id, ErrDead)
	case l.inert:
		return nil, fmt.Errorf("%v: %w", id, ErrInert)
	}
	return l, nil
}

// Each visits live entities in ascending id order.
func (r *Region) Each(fn func(*Living)) {
	r.living.Each(func(id ecs.EntityID, l *Living) {
		if r.ents.Alive(id) {
			fn(l)
		}
	})
}

// violation forces an entity inert after a broken scheduling invariant. The
// clock and every other entity carry on.
func (r *Region) violation(owner ecs.EntityID, purpose timer.Purpose, err error) {
	r.log.Error("entity invariant violated",
		zap.Stringer("entity", owner),
		zap.Stringer("purpose", purpose),
		zap.Error(err),
	)
	r.record(journal.KindViolation, owner, ecs.None, journal.ViolationPayload{
		Purpose: purpose.String(),
		Error:   err.Error(),
	})
	if l, ok := r.lookup(owner); ok {
		r.makeInert(l)
	}
}

func (r *Region) makeInert(l *Living) {
	if l.inert {
		return
	}
	l.inert = true
	now := r.Now()
	l.actions.StopAll()
	if l.brains != nil {
		l.brains.Stop()
	}
	l.pursuit = nil
	l.cycle.ForceIdle()
	pos := l.intent.Position(now)
	if !geom.Finite(pos) {
		pos = l.spawn
	}
	l.intent = movement.Stationary(pos, now)
	l.returning = false
}

// Revive clears the inert flag after an operator has dealt with the cause.
func (r *Region) Revive(id ecs.EntityID) error {
	l, err := r.get(id)
	if err != nil {
		return err
	}
	if !l.inert {
		return nil
	}
	l.inert = false
	if l.brains != nil && !l.dead {
		l.brains.Start()
	}
	return nil
}

func (r *Region) record(kind journal.Kind, entity, target ecs.EntityID, payload any) {
	if r.deps.Journal == nil {
		return
	}
	e, err := journal.New(r.Instance, r.Now(), kind, entity, target, payload)
	if err != nil {
		r.log.Error("journal entry", zap.Error(err))
		return
	}
	r.deps.Journal.Record(e)
}
