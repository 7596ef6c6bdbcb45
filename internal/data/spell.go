package data

import (
	"fmt"
	"os"

	"github.com/l1jgo/regioncore/internal/combat"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"gopkg.in/yaml.v3"
)

// SpellInfo holds a single spell template. Effects belong to the spell
// system; only timing and interruption are read here.
type SpellInfo struct {
	SpellID         int32   `yaml:"spell_id"`
	Name            string  `yaml:"name"`
	CastMs          int     `yaml:"cast_ms"` // 0 = instant
	Range           float64 `yaml:"range"`
	Uninterruptible bool    `yaml:"uninterruptible"`
	InterruptOnMove bool    `yaml:"interrupt_on_move"`
	Effect          string  `yaml:"effect"`
}

// Spell converts the template to the descriptor handed to the combat cycle.
func (s *SpellInfo) Spell() *combat.Spell {
	return &combat.Spell{
		ID:              s.SpellID,
		Name:            s.Name,
		CastTime:        timer.Time(s.CastMs),
		Range:           s.Range,
		Uninterruptible: s.Uninterruptible,
		InterruptOnMove: s.InterruptOnMove,
		Payload:         s,
	}
}

type spellListFile struct {
	Spells []SpellInfo `yaml:"spells"`
}

// SpellTable holds all spells indexed by SpellID.
type SpellTable struct {
	spells map[int32]*SpellInfo
	byName map[string]*SpellInfo
}

// LoadSpellTable loads spell templates from a YAML file.
func LoadSpellTable(path string) (*SpellTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spell_list: %w", err)
	}
	var f spellListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spell_list: %w", err)
	}
	t := &SpellTable{
		spells: make(map[int32]*SpellInfo, len(f.Spells)),
		byName: make(map[string]*SpellInfo, len(f.Spells)),
	}
	for i := range f.Spells {
		s := &f.Spells[i]
		if s.CastMs < 0 {
			return nil, fmt.Errorf("spell %d: negative cast_ms", s.SpellID)
		}
		t.spells[s.SpellID] = s
		t.byName[s.Name] = s
	}
	return t, nil
}

// Get returns a spell by ID, or nil if not found.
func (t *SpellTable) Get(spellID int32) *SpellInfo {
	return t.spells[spellID]
}

// GetByName returns a spell by its exact name, or nil if not found.
func (t *SpellTable) GetByName(name string) *SpellInfo {
	return t.byName[name]
}

// Count returns total loaded spells.
func (t *SpellTable) Count() int {
	return len(t.spells)
}

// Spell returns the combat descriptor for spellID, or nil if unknown.
func (t *SpellTable) Spell(spellID int32) *combat.Spell {
	if info := t.Get(spellID); info != nil {
		return info.Spell()
	}
	return nil
}
