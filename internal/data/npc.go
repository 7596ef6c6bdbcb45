package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NpcTemplate holds static data for an NPC type loaded from YAML.
type NpcTemplate struct {
	NpcID        int32   `yaml:"npc_id"`
	Name         string  `yaml:"name"`
	Level        int     `yaml:"level"`
	HP           int     `yaml:"hp"`
	STR          int     `yaml:"str"`
	DEX          int     `yaml:"dex"`
	CON          int     `yaml:"con"`
	AC           int     `yaml:"ac"`
	MR           int     `yaml:"mr"`
	MaxSpeed     float64 `yaml:"max_speed"`
	MeleeWeapon  int32   `yaml:"melee_weapon"`  // 0 = fists
	RangedWeapon int32   `yaml:"ranged_weapon"` // 0 = none
	Brain        string  `yaml:"brain"`         // "standard", "lua:<name>", "none"
	Agro         bool    `yaml:"agro"`
	AggroRange   float64 `yaml:"aggro_range"`
	TetherRange  float64 `yaml:"tether_range"`
	ThinkMs      int     `yaml:"think_ms"`
	RespawnDelay int     `yaml:"respawn_delay"` // seconds, 0 = no respawn
	Spells       []int32 `yaml:"spells"`
}

// SpawnEntry defines where and how many NPCs to spawn.
type SpawnEntry struct {
	NpcID   int32   `yaml:"npc_id"`
	Region  uint32  `yaml:"region"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Z       float64 `yaml:"z"`
	Count   int     `yaml:"count"`
	Spread  float64 `yaml:"spread"`
	Heading uint16  `yaml:"heading"`
}

type npcListFile struct {
	Npcs []NpcTemplate `yaml:"npcs"`
}

type spawnListFile struct {
	Spawns []SpawnEntry `yaml:"spawns"`
}

// NpcTable holds all NPC templates indexed by NpcID.
type NpcTable struct {
	templates map[int32]*NpcTemplate
}

// LoadNpcTable loads NPC templates from a YAML file.
func LoadNpcTable(path string) (*NpcTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read npc_list: %w", err)
	}
	var f npcListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse npc_list: %w", err)
	}
	t := &NpcTable{templates: make(map[int32]*NpcTemplate, len(f.Npcs))}
	for i := range f.Npcs {
		npc := &f.Npcs[i]
		if npc.HP <= 0 {
			return nil, fmt.Errorf("npc %d: hp must be positive", npc.NpcID)
		}
		if npc.Brain == "" {
			npc.Brain = "standard"
		}
		t.templates[npc.NpcID] = npc
	}
	return t, nil
}

// Get returns an NPC template by ID, or nil if not found.
func (t *NpcTable) Get(npcID int32) *NpcTemplate {
	return t.templates[npcID]
}

// Count returns the number of loaded templates.
func (t *NpcTable) Count() int {
	return len(t.templates)
}

// LoadSpawnList loads spawn entries from a YAML file.
func LoadSpawnList(path string) ([]SpawnEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spawn_list: %w", err)
	}
	var f spawnListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse spawn_list: %w", err)
	}
	for i := range f.Spawns {
		if f.Spawns[i].Count <= 0 {
			f.Spawns[i].Count = 1
		}
	}
	return f.Spawns, nil
}
