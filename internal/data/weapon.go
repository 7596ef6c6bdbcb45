package data

import (
	"fmt"
	"os"

	"github.com/l1jgo/regioncore/internal/combat"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"gopkg.in/yaml.v3"
)

// WeaponInfo holds a single weapon template.
type WeaponInfo struct {
	WeaponID        int32   `yaml:"weapon_id"`
	Name            string  `yaml:"name"`
	Type            string  `yaml:"type"` // "melee" or "ranged"
	Range           float64 `yaml:"range"`
	SpeedMs         int     `yaml:"speed_ms"` // swing or shot interval
	DrawMs          int     `yaml:"draw_ms"`  // ranged only
	Damage          int     `yaml:"damage"`
	AutoReload      bool    `yaml:"auto_reload"`
	NoFatigue       bool    `yaml:"no_fatigue"` // crossbows
	InterruptOnMove bool    `yaml:"interrupt_on_move"`
}

// Weapon converts the template to its combat view.
func (w *WeaponInfo) Weapon() combat.Weapon {
	mode := combat.Melee
	if w.Type == "ranged" {
		mode = combat.Ranged
	}
	return combat.Weapon{
		ID:              w.WeaponID,
		Name:            w.Name,
		Mode:            mode,
		Range:           w.Range,
		Speed:           timer.Time(w.SpeedMs),
		DrawTime:        timer.Time(w.DrawMs),
		Damage:          w.Damage,
		AutoReload:      w.AutoReload,
		NoFatigue:       w.NoFatigue,
		InterruptOnMove: w.InterruptOnMove,
	}
}

type weaponListFile struct {
	Weapons []WeaponInfo `yaml:"weapons"`
}

// WeaponTable holds all weapons indexed by WeaponID.
type WeaponTable struct {
	weapons map[int32]*WeaponInfo
}

// LoadWeaponTable loads weapon templates from a YAML file.
func LoadWeaponTable(path string) (*WeaponTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weapon_list: %w", err)
	}
	var f weaponListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse weapon_list: %w", err)
	}
	t := &WeaponTable{weapons: make(map[int32]*WeaponInfo, len(f.Weapons))}
	for i := range f.Weapons {
		w := &f.Weapons[i]
		if w.Type != "melee" && w.Type != "ranged" {
			return nil, fmt.Errorf("weapon %d: unknown type %q", w.WeaponID, w.Type)
		}
		if w.Range <= 0 || w.SpeedMs <= 0 {
			return nil, fmt.Errorf("weapon %d: range and speed_ms must be positive", w.WeaponID)
		}
		t.weapons[w.WeaponID] = w
	}
	return t, nil
}

// Get returns a weapon by ID, or nil if not found.
func (t *WeaponTable) Get(weaponID int32) *WeaponInfo {
	return t.weapons[weaponID]
}

// Count returns total loaded weapons.
func (t *WeaponTable) Count() int {
	return len(t.weapons)
}
