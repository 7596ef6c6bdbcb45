package scripting

import (
	"github.com/l1jgo/regioncore/internal/combat"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine satisfies combat.Math through these Lua entry points:
//
//	calc_attack_outcome(ctx)  -> "hit" | "missed" | "blocked" | "parried" | "evaded" | "fumbled"
//	calc_attack_damage(ctx)   -> integer
//	calc_critical_chance(ctx) -> integer percent
//
// A missing function falls back to the built-in formulas.
var _ combat.Math = (*Engine)(nil)

func (e *Engine) statsTable(s combat.Stats, player bool) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("level", lua.LNumber(s.Level))
	t.RawSetString("str", lua.LNumber(s.Str))
	t.RawSetString("dex", lua.LNumber(s.Dex))
	t.RawSetString("con", lua.LNumber(s.Con))
	t.RawSetString("ac", lua.LNumber(s.AC))
	t.RawSetString("mr", lua.LNumber(s.MR))
	t.RawSetString("player", lBool(player))
	return t
}

func (e *Engine) combatTable(ctx combat.Context) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("attacker", e.statsTable(ctx.Attacker, ctx.AttackerPlayer))
	t.RawSetString("target", e.statsTable(ctx.Target, ctx.TargetPlayer))
	t.RawSetString("mode", lua.LString(ctx.Mode.String()))
	t.RawSetString("weapon_dmg", lua.LNumber(ctx.WeaponDamage))
	t.RawSetString("distance", lua.LNumber(ctx.Distance))
	return t
}

// Outcome calls calc_attack_outcome.
func (e *Engine) Outcome(ctx combat.Context) combat.ResultKind {
	v, ok := e.call("calc_attack_outcome", e.combatTable(ctx))
	if !ok {
		return e.fallback.Outcome(ctx)
	}
	kind, known := combat.ParseResultKind(lua.LVAsString(v))
	if !known || !kind.Rolled() {
		e.log.Error("lua calc_attack_outcome returned unknown outcome",
			zap.String("outcome", lua.LVAsString(v)),
		)
		return combat.Missed
	}
	return kind
}

// Damage calls calc_attack_damage.
func (e *Engine) Damage(ctx combat.Context) int {
	v, ok := e.call("calc_attack_damage", e.combatTable(ctx))
	if !ok {
		return e.fallback.Damage(ctx)
	}
	return int(lua.LVAsNumber(v))
}

// CriticalChance calls calc_critical_chance.
func (e *Engine) CriticalChance(ctx combat.Context) int {
	v, ok := e.call("calc_critical_chance", e.combatTable(ctx))
	if !ok {
		return e.fallback.CriticalChance(ctx)
	}
	return max(0, min(100, int(lua.LVAsNumber(v))))
}
