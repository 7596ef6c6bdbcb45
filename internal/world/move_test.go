package world

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/regioncore/internal/core/event"
	"github.com/l1jgo/regioncore/internal/movement"
)

func TestMoveExtrapolatesAndArrives(t *testing.T) {
	h := newHarness(t, Deps{})
	a := h.player("a", mgl64.Vec3{0, 0, 0})
	h.until(0)
	h.sink.reset()

	if err := h.r.IssueMove(a, mgl64.Vec3{100, 0, 0}, 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pos, err := h.r.CurrentPosition(a, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(pos.X()-50) > 1e-9 {
		t.Fatalf("expected x=50 after one second at speed 50, got %v", pos)
	}

	h.until(2000)
	moves := eventsOf[event.PositionChanged](h.sink)
	if len(moves) != 1 || moves[0].Speed != 50 || moves[0].Target != (mgl64.Vec3{100, 0, 0}) {
		t.Fatalf("expected one position change at speed 50, got %+v", moves)
	}
	arrived := eventsOf[event.Arrived](h.sink)
	if len(arrived) != 1 || arrived[0].At != 2000 {
		t.Fatalf("expected arrival at 2000, got %+v", arrived)
	}
	if h.living(a).Intent().Moving() {
		t.Fatalf("expected a stationary intent after arrival")
	}
}

func TestMoveSpeedIsCapped(t *testing.T) {
	h := newHarness(t, Deps{})
	a := h.player("a", mgl64.Vec3{0, 0, 0})
	if err := h.r.IssueMove(a, mgl64.Vec3{1000, 0, 0}, 5000); err != nil {
		t.Fatal(err)
	}
	if got := h.living(a).Intent().Speed; got != h.r.Rules().DefaultMaxSpeed {
		t.Fatalf("expected speed capped at %v, got %v", h.r.Rules().DefaultMaxSpeed, got)
	}
}

func TestMoveRejectsBadTargets(t *testing.T) {
	h := newHarness(t, Deps{})
	a := h.player("a", mgl64.Vec3{0, 0, 0})
	if err := h.r.IssueMove(a, mgl64.Vec3{math.NaN(), 0, 0}, 50); !errors.Is(err, movement.ErrInvalidIntent) {
		t.Fatalf("expected ErrInvalidIntent, got %v", err)
	}
	if err := h.r.IssueMove(a, mgl64.Vec3{10, 0, 0}, -1); err == nil {
		t.Fatalf("expected negative speed to be rejected")
	}
	if h.living(a).Intent().Moving() {
		t.Fatalf("expected rejected moves to leave the intent alone")
	}
}

func TestStopMovementOnStationaryIsSilent(t *testing.T) {
	h := newHarness(t, Deps{})
	a := h.player("a", mgl64.Vec3{0, 0, 0})
	h.until(0)
	h.sink.reset()

	if err := h.r.StopMovement(a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.until(100)
	if n := len(eventsOf[event.PositionChanged](h.sink)); n != 0 {
		t.Fatalf("expected no position change, got %d", n)
	}
}

func TestStopMovementHaltsInPlace(t *testing.T) {
	h := newHarness(t, Deps{})
	a := h.player("a", mgl64.Vec3{0, 0, 0})
	if err := h.r.IssueMove(a, mgl64.Vec3{1000, 0, 0}, 100); err != nil {
		t.Fatal(err)
	}
	h.until(500)
	if err := h.r.StopMovement(a); err != nil {
		t.Fatal(err)
	}
	h.until(5000)
	pos, _ := h.r.CurrentPosition(a, 5000)
	if math.Abs(pos.X()-50) > 1e-9 {
		t.Fatalf("expected to stay at x=50, got %v", pos)
	}
	if n := len(eventsOf[event.Arrived](h.sink)); n != 0 {
		t.Fatalf("expected no arrival after a stop, got %d", n)
	}
}

func TestFollowKeepsBandAndReportsLoss(t *testing.T) {
	h := newHarness(t, Deps{})
	a := h.player("a", mgl64.Vec3{0, 0, 0})
	b := h.player("b", mgl64.Vec3{1000, 0, 0})

	if err := h.r.IssueFollow(a, b, 100, 3000); err != nil {
		t.Fatal(err)
	}
	h.until(6000)
	pos, _ := h.r.CurrentPosition(a, 6000)
	if math.Abs(pos.X()-900) > 1e-6 {
		t.Fatalf("expected to hold 100 short of the target, got %v", pos)
	}

	if err := h.r.Remove(b); err != nil {
		t.Fatal(err)
	}
	h.sink.reset()
	h.until(6500)
	lost := eventsOf[event.TargetLost](h.sink)
	if len(lost) != 1 || lost[0].Target != b || lost[0].Reason != LostGone {
		t.Fatalf("expected target lost (gone), got %+v", lost)
	}
	if !h.living(a).Following().IsZero() {
		t.Fatalf("expected pursuit to end")
	}
}

func TestFollowReportsOtherRegion(t *testing.T) {
	h := newHarness(t, Deps{})
	a := h.player("a", mgl64.Vec3{0, 0, 0})
	b := h.player("b", mgl64.Vec3{500, 0, 0})
	if err := h.r.IssueFollow(a, b, 100, 3000); err != nil {
		t.Fatal(err)
	}
	h.until(0)
	if err := h.r.Depart(b, 2); err != nil {
		t.Fatal(err)
	}
	h.sink.reset()
	h.until(500)
	lost := eventsOf[event.TargetLost](h.sink)
	if len(lost) != 1 || lost[0].Reason != LostOtherRegion {
		t.Fatalf("expected target lost to another region, got %+v", lost)
	}
}

func TestFollowValidation(t *testing.T) {
	h := newHarness(t, Deps{})
	a := h.player("a", mgl64.Vec3{0, 0, 0})
	b := h.player("b", mgl64.Vec3{500, 0, 0})
	if err := h.r.IssueFollow(a, a, 0, 100); !errors.Is(err, ErrSelfTarget) {
		t.Fatalf("expected ErrSelfTarget, got %v", err)
	}
	if err := h.r.IssueFollow(a, b, 300, 100); err == nil {
		t.Fatalf("expected an inverted band to be rejected")
	}
	if err := h.r.Kill(b, a); err != nil {
		t.Fatal(err)
	}
	if err := h.r.IssueFollow(a, b, 0, 100); !errors.Is(err, ErrTargetDead) {
		t.Fatalf("expected ErrTargetDead, got %v", err)
	}
}
