package combat

import "testing"

// edgeRoller always returns the lowest or highest value of the range.
type edgeRoller struct{ high bool }

func (r edgeRoller) IntN(n int) int {
	if r.high {
		return n - 1
	}
	return 0
}

func TestCriticalBounds(t *testing.T) {
	cases := []struct {
		name         string
		base         int
		berserk      int
		targetPlayer bool
		lo, hi       int
	}{
		{"vs npc", 100, 0, false, 10, 100},
		{"vs player", 100, 0, true, 10, 50},
		{"berserk 1", 200, 1, false, 2, 50},
		{"berserk 4 capped", 100, 4, true, 1, 99},
		{"tiny base", 3, 0, false, 1, 3},
	}
	for _, c := range cases {
		lo := CriticalDamage(c.base, c.berserk, c.targetPlayer, edgeRoller{})
		hi := CriticalDamage(c.base, c.berserk, c.targetPlayer, edgeRoller{high: true})
		if lo != c.lo || hi != c.hi {
			t.Fatalf("%s: expected [%d,%d], got [%d,%d]", c.name, c.lo, c.hi, lo, hi)
		}
	}
	if got := CriticalDamage(0, 0, false, edgeRoller{}); got != 0 {
		t.Fatalf("expected no critical on zero damage, got %d", got)
	}
}

func TestChance(t *testing.T) {
	if Chance(edgeRoller{}, 0) {
		t.Fatalf("expected 0%% to never succeed")
	}
	if !Chance(edgeRoller{high: true}, 100) {
		t.Fatalf("expected 100%% to always succeed")
	}
	if Chance(edgeRoller{high: true}, 99) {
		t.Fatalf("expected roll of 99 to fail a 99%% chance")
	}
}

func TestStatMathStaysInRange(t *testing.T) {
	for _, r := range []edgeRoller{{}, {high: true}} {
		m := StatMath{Roll: r}
		ctx := Context{Attacker: Stats{Level: 10, Dex: 15, Str: 20}, Target: Stats{Level: 10}, WeaponDamage: 10}
		if !m.Outcome(ctx).Rolled() {
			t.Fatalf("expected a rollable outcome")
		}
		if d := m.Damage(ctx); d < 1 {
			t.Fatalf("expected positive damage, got %d", d)
		}
		if c := m.CriticalChance(ctx); c < 0 || c > 50 {
			t.Fatalf("expected critical chance within [0,50], got %d", c)
		}
	}
}
