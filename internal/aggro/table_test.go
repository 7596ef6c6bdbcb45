package aggro

import (
	"testing"

	"github.com/l1jgo/regioncore/internal/core/ecs"
)

var (
	mob = ecs.NewEntityID(1, 1)
	p1  = ecs.NewEntityID(2, 1)
	p2  = ecs.NewEntityID(3, 1)
)

func TestAddAndClear(t *testing.T) {
	tb := NewTable()
	tb.Add(mob, p1, 10)
	tb.Add(mob, p1, 0)
	tb.Add(mob, mob, 50)
	if got := tb.Get(mob, p1); got != 11 {
		t.Fatalf("expected 11 threat, got %d", got)
	}
	if tb.Get(mob, mob) != 0 {
		t.Fatalf("expected self-threat to be ignored")
	}
	tb.Clear(mob)
	if tb.Has(mob) {
		t.Fatalf("expected empty ledger after clear")
	}
}

func TestMostWantedScalesByDistance(t *testing.T) {
	tb := NewTable()
	tb.Add(mob, p1, 100) // far away: 100 * 500/2000 = 25
	tb.Add(mob, p2, 40)  // close
	dist := map[ecs.EntityID]float64{p1: 2000, p2: 100}
	got, ok := tb.MostWanted(mob, func(id ecs.EntityID) (float64, bool) {
		d, found := dist[id]
		return d, found
	})
	if !ok || got != p2 {
		t.Fatalf("expected nearby %v, got %v", p2, got)
	}
}

func TestMostWantedPrunesUnreachable(t *testing.T) {
	tb := NewTable()
	tb.Add(mob, p1, 100)
	tb.Add(mob, p2, 10)
	got, ok := tb.MostWanted(mob, func(id ecs.EntityID) (float64, bool) {
		return 10, id != p1
	})
	if !ok || got != p2 {
		t.Fatalf("expected %v, got %v", p2, got)
	}
	if tb.Get(mob, p1) != 0 {
		t.Fatalf("expected unreachable entry pruned")
	}
}

func TestForget(t *testing.T) {
	tb := NewTable()
	tb.Add(mob, p1, 5)
	tb.Add(p1, mob, 5)
	tb.Forget(p1)
	if tb.Has(mob) || tb.Has(p1) {
		t.Fatalf("expected %v forgotten everywhere", p1)
	}
	if _, ok := tb.MostWanted(mob, func(ecs.EntityID) (float64, bool) { return 0, true }); ok {
		t.Fatalf("expected no target")
	}
}
