package system

import (
	"math/rand/v2"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/regioncore/internal/brain"
	"github.com/l1jgo/regioncore/internal/combat"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"github.com/l1jgo/regioncore/internal/data"
	"github.com/l1jgo/regioncore/internal/world"
	"go.uber.org/zap"
)

const defaultThink = 1000 // ms

// Templates are the static tables a spawn list refers to.
type Templates struct {
	Npcs    *data.NpcTable
	Weapons *data.WeaponTable
	Engine  brain.Thinker // nil disables lua brains
}

// SpawnNpcs creates the autonomous entities of one region from the spawn
// list. Entries for other regions are skipped; region 0 means the first one.
func SpawnNpcs(r *world.Region, t Templates, spawns []data.SpawnEntry, seed uint64, log *zap.Logger) int {
	rng := rand.New(rand.NewPCG(seed, uint64(r.ID)))
	count := 0
	for _, sp := range spawns {
		if sp.Region != 0 && sp.Region != r.ID {
			continue
		}
		tmpl := t.Npcs.Get(sp.NpcID)
		if tmpl == nil {
			log.Warn("生成: 未知的 NPC ID", zap.Int32("npc_id", sp.NpcID))
			continue
		}
		for range max(sp.Count, 1) {
			pos := mgl64.Vec3{sp.X, sp.Y, sp.Z}
			if sp.Spread > 0 {
				pos[0] += (rng.Float64()*2 - 1) * sp.Spread
				pos[1] += (rng.Float64()*2 - 1) * sp.Spread
			}
			spec := npcSpec(r, t, tmpl, pos, sp.Heading, log)
			if _, err := r.Spawn(spec); err != nil {
				log.Warn("生成失敗", zap.Int32("npc_id", sp.NpcID), zap.Error(err))
				continue
			}
			count++
		}
	}
	return count
}

func npcSpec(r *world.Region, t Templates, tmpl *data.NpcTemplate, pos mgl64.Vec3, heading uint16, log *zap.Logger) world.Spec {
	spec := world.Spec{
		Name:       tmpl.Name,
		Kind:       world.Autonomous,
		TemplateID: tmpl.NpcID,
		Position:   pos,
		Heading:    heading,
		MaxSpeed:   tmpl.MaxSpeed,
		Health:     tmpl.HP,
		Stats: combat.Stats{
			Level: tmpl.Level,
			Str:   tmpl.STR,
			Dex:   tmpl.DEX,
			Con:   tmpl.CON,
			AC:    tmpl.AC,
			MR:    tmpl.MR,
		},
		Spells:       tmpl.Spells,
		RespawnDelay: timer.Time(tmpl.RespawnDelay) * 1000,
	}
	if t.Weapons != nil {
		if w := t.Weapons.Get(tmpl.MeleeWeapon); w != nil {
			spec.Melee = w.Weapon()
		}
		if w := t.Weapons.Get(tmpl.RangedWeapon); w != nil {
			rw := w.Weapon()
			spec.Ranged = &rw
		}
	}
	spec.Brain = npcBrain(r, t, tmpl, log)
	return spec
}

// npcBrain picks the base brain named by the template.
func npcBrain(r *world.Region, t Templates, tmpl *data.NpcTemplate, log *zap.Logger) brain.Brain {
	think := timer.Time(tmpl.ThinkMs)
	if think <= 0 {
		think = defaultThink
	}
	if name, ok := strings.CutPrefix(tmpl.Brain, "lua:"); ok {
		if t.Engine != nil {
			return brain.NewScripted(t.Engine, r.Threat(), name, tmpl.AggroRange, think)
		}
		log.Warn("lua brain without script engine, using standard",
			zap.Int32("npc_id", tmpl.NpcID), zap.String("brain", tmpl.Brain))
	}
	if tmpl.Brain == "none" {
		// 不主動思考，只在受到攻擊時反擊。
		return brain.NewStandardMob(r.Threat(), false, 0, tmpl.TetherRange, 0)
	}
	return brain.NewStandardMob(r.Threat(), tmpl.Agro, tmpl.AggroRange, tmpl.TetherRange, think)
}
