package brain

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/regioncore/internal/aggro"
	"github.com/l1jgo/regioncore/internal/combat"
	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"github.com/l1jgo/regioncore/internal/scripting"
)

var (
	mob    = ecs.NewEntityID(1, 1)
	hero   = ecs.NewEntityID(2, 1)
	squire = ecs.NewEntityID(3, 1)
)

// probe is a minimal brain that counts lifecycle calls.
type probe struct {
	Base
	name   string
	starts int
	stops  int
	hits   int
}

func (p *probe) Name() string              { return p.name }
func (p *probe) ThinkInterval() timer.Time { return 1000 }
func (p *probe) Think(timer.Time)          {}

func (p *probe) Start(body Body) {
	p.starts++
	p.Base.Start(body)
}

func (p *probe) Stop() {
	p.stops++
	p.Base.Stop()
}

func (p *probe) OnAttacked(ecs.EntityID, combat.AttackResult) { p.hits++ }

func TestStackOnlyTopIsActive(t *testing.T) {
	body := newFakeBody(mob)
	base := &probe{name: "base"}
	s, err := NewStack(body, base)
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	if !base.Active() || !body.thinking {
		t.Fatalf("expected base active and thinking")
	}

	temp := &probe{name: "temp"}
	if err := s.Push(temp); err != nil {
		t.Fatal(err)
	}
	if base.Active() || !temp.Active() {
		t.Fatalf("expected only the pushed brain active")
	}
	if s.Active() != temp || s.Depth() != 1 {
		t.Fatalf("unexpected top %v depth %d", s.Active().Name(), s.Depth())
	}

	s.OnAttacked(hero, combat.AttackResult{})
	if temp.hits != 1 || base.hits != 0 {
		t.Fatalf("expected hook to reach only the active brain")
	}

	if !s.Remove(temp) {
		t.Fatalf("expected remove to succeed")
	}
	if !base.Active() || temp.Active() || base.starts != 2 {
		t.Fatalf("expected base reactivated, starts=%d", base.starts)
	}
}

func TestStackRejectsAttachedBrains(t *testing.T) {
	body := newFakeBody(mob)
	base := &probe{name: "base"}
	s, _ := NewStack(body, base)
	s.Start()

	if err := s.Push(nil); !errors.Is(err, ErrNoBrain) {
		t.Fatalf("expected ErrNoBrain, got %v", err)
	}
	if err := s.Push(base); !errors.Is(err, ErrBrainAttached) {
		t.Fatalf("expected ErrBrainAttached, got %v", err)
	}
	other, _ := NewStack(newFakeBody(hero), &probe{name: "x"})
	busy := &probe{name: "busy"}
	other.Start()
	_ = other.Push(busy)
	if err := s.Push(busy); !errors.Is(err, ErrBrainAttached) {
		t.Fatalf("expected active brain to be rejected, got %v", err)
	}
	if s.Remove(base) {
		t.Fatalf("base must not be removable")
	}
}

func TestRemoveBuriedBrainKeepsTop(t *testing.T) {
	body := newFakeBody(mob)
	s, _ := NewStack(body, &probe{name: "base"})
	s.Start()
	low, high := &probe{name: "low"}, &probe{name: "high"}
	_ = s.Push(low)
	_ = s.Push(high)

	if !s.Remove(low) {
		t.Fatalf("expected buried brain removed")
	}
	if s.Active() != high || !high.Active() || high.stops != 0 {
		t.Fatalf("top brain must be untouched")
	}
}

func TestSwapBase(t *testing.T) {
	body := newFakeBody(mob)
	first := &probe{name: "first"}
	s, _ := NewStack(body, first)
	s.Start()

	second := &probe{name: "second"}
	old, err := s.SwapBase(second)
	if err != nil {
		t.Fatal(err)
	}
	if old != first || first.Active() || !second.Active() {
		t.Fatalf("expected swap to move activity to the new base")
	}

	temp := &probe{name: "temp"}
	_ = s.Push(temp)
	third := &probe{name: "third"}
	if _, err := s.SwapBase(third); err != nil {
		t.Fatal(err)
	}
	if third.Active() {
		t.Fatalf("a swapped base under a temporary brain stays inactive")
	}
	s.Remove(temp)
	if !third.Active() {
		t.Fatalf("expected new base active after removing the temporary brain")
	}
}

func TestStoppedStackIgnoresHooks(t *testing.T) {
	body := newFakeBody(mob)
	base := &probe{name: "base"}
	s, _ := NewStack(body, base)
	s.OnAttacked(hero, combat.AttackResult{})
	if base.hits != 0 {
		t.Fatalf("hooks must not reach a stopped stack")
	}
	s.Start()
	s.Stop()
	if base.Active() || body.thinking {
		t.Fatalf("expected everything stopped")
	}
}

func TestStandardMobFightsMostWanted(t *testing.T) {
	body := newFakeBody(mob)
	threat := aggro.NewTable()
	b := NewStandardMob(threat, false, 0, 0, 500)
	b.Start(body)

	body.distances[hero] = 50
	body.distances[squire] = 50
	b.OnAttacked(squire, combat.AttackResult{Kind: combat.Missed})
	if len(body.attacks) != 1 || body.attacks[0] != squire {
		t.Fatalf("expected to engage the attacker, got %v", body.attacks)
	}

	threat.Add(mob, hero, 40)
	b.Think(0)
	if body.target != hero {
		t.Fatalf("expected switch to the heavier hitter, got %v", body.target)
	}
}

func TestStandardMobAggroOnSight(t *testing.T) {
	body := newFakeBody(mob)
	threat := aggro.NewTable()
	b := NewStandardMob(threat, true, 300, 0, 500)
	b.Start(body)

	body.nearby = []Contact{{ID: hero, Dist: 250, Player: true}, {ID: squire, Dist: 100}}
	body.distances[hero] = 250
	b.Think(0)

	if threat.Get(mob, hero) != 1 || threat.Get(mob, squire) != 0 {
		t.Fatalf("expected only players to be noticed")
	}
	if body.target != hero {
		t.Fatalf("expected to attack the noticed player")
	}
}

func TestStandardMobTether(t *testing.T) {
	body := newFakeBody(mob)
	threat := aggro.NewTable()
	threat.Add(mob, hero, 10)
	b := NewStandardMob(threat, false, 0, 800, 500)
	b.Start(body)

	body.pos = mgl64.Vec3{900, 0, 0}
	b.Think(0)
	if body.homeCalls != 1 || threat.Has(mob) {
		t.Fatalf("expected tether to clear threat and walk home")
	}
	if len(body.attacks) != 0 {
		t.Fatalf("must not engage past the tether")
	}
}

func TestStandardMobWalksHomeWhenLedgerEmpties(t *testing.T) {
	body := newFakeBody(mob)
	threat := aggro.NewTable()
	threat.Add(mob, hero, 10)
	b := NewStandardMob(threat, false, 0, 0, 500)
	b.Start(body)
	body.pos = mgl64.Vec3{100, 0, 0}

	// hero is no longer attackable
	b.OnTargetLost(hero)
	if body.homeCalls != 1 {
		t.Fatalf("expected return to spawn, got %d", body.homeCalls)
	}
}

func TestStandardMobIdlesWhileReturning(t *testing.T) {
	body := newFakeBody(mob)
	threat := aggro.NewTable()
	threat.Add(mob, hero, 10)
	body.distances[hero] = 10
	body.returning = true
	b := NewStandardMob(threat, false, 0, 0, 500)
	b.Start(body)
	b.Think(0)
	if len(body.attacks) != 0 {
		t.Fatalf("expected no engagement while walking home")
	}
}

func TestControlledFollowsOwnerAndObeys(t *testing.T) {
	body := newFakeBody(mob)
	s, _ := NewStack(body, NewStandardMob(aggro.NewTable(), false, 0, 0, 500))
	s.Start()

	c := NewControlled(hero, 60, 1500, 500)
	if err := s.Push(c); err != nil {
		t.Fatal(err)
	}
	if body.following != hero {
		t.Fatalf("expected to follow the owner on attach")
	}

	c.Order(squire)
	if body.target != squire || c.Ordered() != squire {
		t.Fatalf("expected attack order carried out")
	}

	c.OnTargetLost(squire)
	if !c.Ordered().IsZero() || body.following != hero {
		t.Fatalf("expected to heel after losing the target")
	}

	s.Remove(c)
	if c.Active() || body.state != combat.Idle {
		t.Fatalf("expected controlled brain to release the body")
	}
}

func TestControlledDefendsItself(t *testing.T) {
	body := newFakeBody(mob)
	c := NewControlled(hero, 60, 1500, 500)
	c.Start(body)
	c.OnAttacked(squire, combat.AttackResult{Kind: combat.Hit, Damage: 3})
	if body.target != squire {
		t.Fatalf("expected counterattack")
	}
	c.OnAttacked(hero, combat.AttackResult{})
	if body.target != squire {
		t.Fatalf("owner hits must not redirect the attack")
	}
}

type scriptedThinker struct {
	seen scripting.BrainContext
	cmds []scripting.Command
}

func (s *scriptedThinker) Think(_ string, ctx scripting.BrainContext) []scripting.Command {
	s.seen = ctx
	return s.cmds
}

func TestScriptedAppliesCommands(t *testing.T) {
	body := newFakeBody(mob)
	body.nearby = []Contact{{ID: hero, Dist: 120, Player: true}}
	threat := aggro.NewTable()
	threat.Add(mob, hero, 7)

	engine := &scriptedThinker{cmds: []scripting.Command{
		{Type: "switch", Mode: "ranged"},
		{Type: "attack", Target: uint64(hero)},
		{Type: "cast", SpellID: 9},
		{Type: "move", X: 10, Y: 20, Speed: 100},
		{Type: "dance"},
	}}
	b := NewScripted(engine, threat, "archer", 500, 1000)
	b.Start(body)
	b.Think(0)

	if len(engine.seen.Enemies) != 1 || engine.seen.Enemies[0].Threat != 7 {
		t.Fatalf("expected enemy with threat in context, got %+v", engine.seen.Enemies)
	}
	if engine.seen.State != string(combat.Idle) || engine.seen.Entity != uint64(mob) {
		t.Fatalf("unexpected context %+v", engine.seen)
	}
	if len(body.switches) != 1 || body.switches[0] != combat.Ranged {
		t.Fatalf("expected switch to ranged")
	}
	if body.target != hero {
		t.Fatalf("expected attack")
	}
	if len(body.casts) != 1 || body.casts[0] != 9 {
		t.Fatalf("expected cast on current target")
	}
	if len(body.moves) != 1 || body.moves[0] != (mgl64.Vec3{10, 20, 0}) {
		t.Fatalf("expected move, got %v", body.moves)
	}
}

func TestScriptedReturnHomeClearsThreat(t *testing.T) {
	body := newFakeBody(mob)
	threat := aggro.NewTable()
	threat.Add(mob, hero, 7)
	b := NewScripted(&scriptedThinker{cmds: []scripting.Command{{Type: "return_home"}}}, threat, "coward", 0, 1000)
	b.Start(body)
	b.Think(0)
	if threat.Has(mob) || body.homeCalls != 1 {
		t.Fatalf("expected threat cleared and walk home")
	}
}
