package world

import (
	"errors"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/regioncore/internal/brain"
	"github.com/l1jgo/regioncore/internal/combat"
	"github.com/l1jgo/regioncore/internal/core/event"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"github.com/l1jgo/regioncore/internal/journal"
)

// faultyBrain panics on its first thought.
type faultyBrain struct{ brain.Base }

func (b *faultyBrain) Name() string              { return "faulty" }
func (b *faultyBrain) ThinkInterval() timer.Time { return 100 }
func (b *faultyBrain) Think(timer.Time)          { panic("bad state") }

func TestViolationMakesOnlyOwnerInert(t *testing.T) {
	log := &entries{}
	h := newHarness(t, Deps{Journal: log})
	mob := h.spawn(Spec{Name: "broken", Position: mgl64.Vec3{0, 0, 0}, Brain: &faultyBrain{}})
	a := h.player("a", mgl64.Vec3{500, 0, 0})
	if err := h.r.IssueMove(a, mgl64.Vec3{600, 0, 0}, 100); err != nil {
		t.Fatal(err)
	}

	h.until(1000)
	if !h.living(mob).Inert() {
		t.Fatalf("expected the panicking entity to go inert")
	}
	if err := h.r.StartAttack(mob, a); !errors.Is(err, ErrInert) {
		t.Fatalf("expected ErrInert, got %v", err)
	}
	if n := len(eventsOf[event.Arrived](h.sink)); n != 1 {
		t.Fatalf("expected the other entity to keep moving, got %d arrivals", n)
	}
	if !slices.Contains(log.kinds(), journal.KindViolation) {
		t.Fatalf("expected a violation journal entry, got %v", log.kinds())
	}

	if err := h.r.Revive(mob); err != nil {
		t.Fatal(err)
	}
	if h.living(mob).Inert() {
		t.Fatalf("expected revive to clear the inert flag")
	}
}

func TestRemoveCancelsOwnedActions(t *testing.T) {
	h := newHarness(t, Deps{})
	a := h.player("a", mgl64.Vec3{0, 0, 0})
	b := h.player("b", mgl64.Vec3{1000, 0, 0})
	if err := h.r.StartAttack(a, b); err != nil {
		t.Fatal(err)
	}
	h.until(100)
	if h.r.Scheduler().Pending() == 0 {
		t.Fatalf("expected pending actions while attacking")
	}
	if err := h.r.Remove(a); err != nil {
		t.Fatal(err)
	}
	if n := h.r.Scheduler().Pending(); n != 0 {
		t.Fatalf("expected no pending actions after removal, got %d", n)
	}
	if _, ok := h.r.Get(a); ok {
		t.Fatalf("expected the handle to be invalid at once")
	}
	if err := h.r.StopAttack(a); !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("expected ErrUnknownEntity, got %v", err)
	}
	if n := h.r.Entities().FlushDestroyQueue(); n != 1 {
		t.Fatalf("expected one entity reclaimed, got %d", n)
	}
}

func TestAutonomousRespawnsAtSpawn(t *testing.T) {
	h := newHarness(t, Deps{})
	mob := h.spawn(Spec{Name: "wolf", Position: mgl64.Vec3{100, 100, 0}, Health: 30,
		Brain: &idleBrain{}, RespawnDelay: 5000})
	if err := h.r.IssueMove(mob, mgl64.Vec3{300, 100, 0}, 200); err != nil {
		t.Fatal(err)
	}
	h.until(500)
	if err := h.r.Kill(mob, 0); err != nil {
		t.Fatal(err)
	}
	if !h.living(mob).Dead() {
		t.Fatalf("expected dead")
	}
	if err := h.r.IssueMove(mob, mgl64.Vec3{0, 0, 0}, 100); !errors.Is(err, ErrDead) {
		t.Fatalf("expected ErrDead, got %v", err)
	}
	h.until(5500)
	l := h.living(mob)
	if l.Dead() || l.health != 30 {
		t.Fatalf("expected revived at full health, got dead=%v health=%d", l.Dead(), l.health)
	}
	if pos, _ := h.r.CurrentPosition(mob, 5500); pos != (mgl64.Vec3{100, 100, 0}) {
		t.Fatalf("expected back at spawn, got %v", pos)
	}
	if !l.Brains().Running() {
		t.Fatalf("expected the brain restarted")
	}
}

func TestAggressiveMobEngagesPlayer(t *testing.T) {
	h := newHarness(t, Deps{})
	mob := h.spawn(Spec{Name: "orc", Position: mgl64.Vec3{0, 0, 0}, Health: 50, Melee: sword,
		Brain: brain.NewStandardMob(h.r.Threat(), true, 500, 2000, 1000)})
	p := h.player("p", mgl64.Vec3{300, 0, 0})

	h.until(1000)
	l := h.living(mob)
	if l.cycle.State() != combat.MeleeEngaged || l.cycle.Target != p {
		t.Fatalf("expected the mob to engage the player, got %v on %v", l.cycle.State(), l.cycle.Target)
	}
	if l.Following() != p {
		t.Fatalf("expected the mob to chase")
	}
}

func TestMobGoesHomeWhenTargetLeaves(t *testing.T) {
	h := newHarness(t, Deps{})
	mob := h.spawn(Spec{Name: "orc", Position: mgl64.Vec3{0, 0, 0}, Health: 50, Melee: sword,
		Brain: brain.NewStandardMob(h.r.Threat(), false, 0, 0, 1000)})
	p := h.player("p", mgl64.Vec3{400, 0, 0})
	if err := h.r.TakeHit(mob, p, 1); err != nil {
		t.Fatal(err)
	}
	if h.state(mob) != combat.MeleeEngaged {
		t.Fatalf("expected retaliation, got %v", h.state(mob))
	}
	h.until(1000)
	if err := h.r.Remove(p); err != nil {
		t.Fatal(err)
	}
	h.until(1500)
	l := h.living(mob)
	if l.cycle.State() != combat.Idle || !l.IsReturningHome() {
		t.Fatalf("expected the mob to walk home, got %v returning=%v", l.cycle.State(), l.IsReturningHome())
	}
	if h.r.Threat().Has(mob) {
		t.Fatalf("expected the threat ledger emptied")
	}
	h.until(10000)
	if pos, _ := h.r.CurrentPosition(mob, 10000); pos != (mgl64.Vec3{0, 0, 0}) || l.IsReturningHome() {
		t.Fatalf("expected home at spawn, got %v", pos)
	}
}

func TestPushedBrainTakesOver(t *testing.T) {
	h := newHarness(t, Deps{})
	owner := h.player("owner", mgl64.Vec3{0, 0, 0})
	mob := h.spawn(Spec{Name: "wolf", Position: mgl64.Vec3{400, 0, 0}, Brain: &idleBrain{}})

	charm := brain.NewControlled(owner, 100, 3000, 500)
	if err := h.r.PushBrain(mob, charm); err != nil {
		t.Fatal(err)
	}
	h.until(3000)
	if h.living(mob).Following() != owner {
		t.Fatalf("expected the charmed mob to heel")
	}
	if err := h.r.RemoveBrain(mob, charm); err != nil {
		t.Fatal(err)
	}
	if charm.Active() || !h.living(mob).Following().IsZero() {
		t.Fatalf("expected the charm gone and the heel dropped")
	}
	if err := h.r.RemoveBrain(mob, charm); !errors.Is(err, brain.ErrNoBrain) {
		t.Fatalf("expected ErrNoBrain, got %v", err)
	}
	if err := h.r.PushBrain(owner, charm); !errors.Is(err, ErrNotAutonomous) {
		t.Fatalf("expected ErrNotAutonomous, got %v", err)
	}
}

func TestNoticesOnlyReachCommanded(t *testing.T) {
	h := newHarness(t, Deps{})
	a := h.player("a", mgl64.Vec3{0, 0, 0})
	mob := h.spawn(Spec{Name: "orc", Position: mgl64.Vec3{2000, 0, 0}, Brain: &idleBrain{}})
	if err := h.r.StartAttack(a, mob); err != nil {
		t.Fatal(err)
	}
	if err := h.r.StartAttack(mob, a); err != nil {
		t.Fatal(err)
	}
	h.until(500)
	if keys := noticesFor(h.sink, mob); len(keys) != 0 {
		t.Fatalf("expected no notices for an autonomous entity, got %v", keys)
	}
	if keys := noticesFor(h.sink, a); len(keys) == 0 {
		t.Fatalf("expected the player to be told the target is too far")
	}
}

func TestSubmitRunsOnDrain(t *testing.T) {
	h := newHarness(t, Deps{})
	var ran []int
	for i := range 3 {
		if err := h.r.Submit(func(*Region) { ran = append(ran, i) }); err != nil {
			t.Fatal(err)
		}
	}
	if n := h.r.DrainCommands(2); n != 2 || !slices.Equal(ran, []int{0, 1}) {
		t.Fatalf("expected a budget of two, got %d %v", n, ran)
	}
	if n := h.r.DrainCommands(0); n != 1 || len(ran) != 3 {
		t.Fatalf("expected the rest drained, got %d %v", n, ran)
	}
}

func TestSubmitNeverBlocks(t *testing.T) {
	h := newHarness(t, Deps{})
	h.r.commands = make(chan Command, 1)
	if err := h.r.Submit(func(*Region) {}); err != nil {
		t.Fatal(err)
	}
	if err := h.r.Submit(func(*Region) {}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}
