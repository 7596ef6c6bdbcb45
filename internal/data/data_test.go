package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/l1jgo/regioncore/internal/combat"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadWeaponTable(t *testing.T) {
	p := writeFile(t, "weapon_list.yaml", `
weapons:
  - weapon_id: 1
    name: long sword
    type: melee
    range: 128
    speed_ms: 2000
    damage: 12
  - weapon_id: 2
    name: crossbow
    type: ranged
    range: 1500
    speed_ms: 3000
    draw_ms: 2500
    damage: 18
    no_fatigue: true
`)
	tbl, err := LoadWeaponTable(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Count() != 2 {
		t.Fatalf("expected 2 weapons, got %d", tbl.Count())
	}
	xbow := tbl.Get(2).Weapon()
	if xbow.Mode != combat.Ranged || !xbow.NoFatigue || xbow.DrawTime != 2500 {
		t.Fatalf("unexpected crossbow %+v", xbow)
	}
	if tbl.Get(99) != nil {
		t.Fatalf("expected nil for unknown weapon")
	}
}

func TestLoadWeaponTableRejectsUnknownType(t *testing.T) {
	p := writeFile(t, "weapon_list.yaml", `
weapons:
  - weapon_id: 1
    name: wand
    type: magic
    range: 10
    speed_ms: 100
`)
	if _, err := LoadWeaponTable(p); err == nil || !strings.Contains(err.Error(), "unknown type") {
		t.Fatalf("expected unknown type error, got %v", err)
	}
}

func TestLoadSpellTable(t *testing.T) {
	p := writeFile(t, "spell_list.yaml", `
spells:
  - spell_id: 10
    name: fireball
    cast_ms: 3000
    range: 1200
  - spell_id: 11
    name: heal
    cast_ms: 0
    uninterruptible: true
`)
	tbl, err := LoadSpellTable(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	heal := tbl.GetByName("heal").Spell()
	if !heal.Instant() || !heal.Uninterruptible {
		t.Fatalf("unexpected heal %+v", heal)
	}
	if fb := tbl.Get(10).Spell(); fb.CastTime != 3000 {
		t.Fatalf("expected 3000ms cast, got %d", fb.CastTime)
	}
}

func TestLoadNpcAndSpawns(t *testing.T) {
	npcs := writeFile(t, "npc_list.yaml", `
npcs:
  - npc_id: 45000
    name: goblin archer
    level: 8
    hp: 120
    max_speed: 180
    ranged_weapon: 2
    agro: true
    aggro_range: 400
`)
	tbl, err := LoadNpcTable(npcs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tbl.Get(45000); got == nil || got.Brain != "standard" {
		t.Fatalf("expected default brain, got %+v", got)
	}

	spawns := writeFile(t, "spawn_list.yaml", `
spawns:
  - npc_id: 45000
    region: 1
    x: 100
    y: 200
`)
	list, err := LoadSpawnList(spawns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].Count != 1 {
		t.Fatalf("expected a single spawn with count 1, got %+v", list)
	}
}

func TestMissingFile(t *testing.T) {
	if _, err := LoadNpcTable(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
