package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/regioncore/internal/brain"
	"github.com/l1jgo/regioncore/internal/combat"
	"github.com/l1jgo/regioncore/internal/config"
	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/event"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"github.com/l1jgo/regioncore/internal/journal"
	"go.uber.org/zap/zaptest"
)

var (
	sword = combat.Weapon{ID: 11, Name: "sword", Range: 128, Speed: 2000, Damage: 10}
	bow   = combat.Weapon{ID: 21, Name: "bow", Range: 1500, Speed: 1500, DrawTime: 1000, Damage: 8}
)

// recorder is a sink that keeps everything dispatched to it.
type recorder struct {
	events []event.Event
}

func (s *recorder) Notify(_ []ecs.EntityID, ev event.Event) {
	s.events = append(s.events, ev)
}

func (s *recorder) reset() { s.events = nil }

func eventsOf[T event.Event](s *recorder) []T {
	var out []T
	for _, ev := range s.events {
		if e, ok := ev.(T); ok {
			out = append(out, e)
		}
	}
	return out
}

func noticesFor(s *recorder, id ecs.EntityID) []string {
	var keys []string
	for _, n := range eventsOf[event.Notice](s) {
		if n.Entity == id {
			keys = append(keys, n.Key)
		}
	}
	return keys
}

func resultsBy(s *recorder, id ecs.EntityID) []combat.AttackResult {
	var out []combat.AttackResult
	for _, ev := range eventsOf[event.AttackResolved](s) {
		if ev.Result.Attacker == id {
			out = append(out, ev.Result)
		}
	}
	return out
}

// fixedMath always rolls the same outcome.
type fixedMath struct {
	kind   combat.ResultKind
	damage int
}

func (m fixedMath) Outcome(combat.Context) combat.ResultKind { return m.kind }
func (m fixedMath) Damage(combat.Context) int                { return m.damage }
func (m fixedMath) CriticalChance(combat.Context) int        { return 0 }

type ammoCounter struct{ shots int }

func (a *ammoCounter) ConsumeAmmo(ecs.EntityID, combat.Weapon) { a.shots++ }

type castLog struct{ spells []int32 }

func (c *castLog) CastComplete(_, _ ecs.EntityID, sp *combat.Spell) {
	c.spells = append(c.spells, sp.ID)
}

type entries struct{ list []journal.Entry }

func (e *entries) Record(en journal.Entry) { e.list = append(e.list, en) }

func (e *entries) kinds() []journal.Kind {
	out := make([]journal.Kind, 0, len(e.list))
	for _, en := range e.list {
		out = append(out, en.Kind)
	}
	return out
}

// idleBrain holds an autonomous entity still.
type idleBrain struct{ brain.Base }

func (b *idleBrain) Name() string              { return "idle" }
func (b *idleBrain) ThinkInterval() timer.Time { return 0 }
func (b *idleBrain) Think(timer.Time)          {}

type harness struct {
	t    *testing.T
	r    *Region
	sink *recorder
}

func newHarness(t *testing.T, deps Deps) *harness {
	t.Helper()
	sink := &recorder{}
	deps.Sink = sink
	if deps.Math == nil {
		deps.Math = fixedMath{kind: combat.Hit, damage: 10}
	}
	r := NewRegion(1, "test", RulesFromConfig(config.Default()), deps, zaptest.NewLogger(t))
	return &harness{t: t, r: r, sink: sink}
}

// until advances the clock to at and dispatches what was emitted.
func (h *harness) until(at timer.Time) {
	h.r.AdvanceTo(at)
	h.r.Dispatch()
}

func (h *harness) spawn(spec Spec) ecs.EntityID {
	h.t.Helper()
	id, err := h.r.Spawn(spec)
	if err != nil {
		h.t.Fatalf("spawn %s: %v", spec.Name, err)
	}
	return id
}

func (h *harness) player(name string, at mgl64.Vec3) ecs.EntityID {
	return h.spawn(Spec{Name: name, Kind: Commanded, Position: at, Health: 100, Melee: sword})
}

func (h *harness) archer(name string, at mgl64.Vec3) ecs.EntityID {
	h.t.Helper()
	w := bow
	id := h.spawn(Spec{Name: name, Kind: Commanded, Position: at, Health: 100, Melee: sword, Ranged: &w})
	if err := h.r.SwitchWeaponMode(id, combat.Ranged); err != nil {
		h.t.Fatalf("switch to bow: %v", err)
	}
	return id
}

func (h *harness) living(id ecs.EntityID) *Living {
	h.t.Helper()
	l, ok := h.r.Get(id)
	if !ok {
		h.t.Fatalf("expected %v to be live", id)
	}
	return l
}

func (h *harness) state(id ecs.EntityID) combat.State {
	h.t.Helper()
	st, err := h.r.CurrentCombatState(id)
	if err != nil {
		h.t.Fatalf("combat state of %v: %v", id, err)
	}
	return st
}
