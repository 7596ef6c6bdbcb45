package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Nearby describes one candidate target visible to a scripted brain.
type Nearby struct {
	ID     uint64
	Dist   float64
	Threat int64
	Player bool
}

// BrainContext holds pre-packed data for one think of a scripted brain.
type BrainContext struct {
	Entity     uint64
	HP         int
	MaxHP      int
	X, Y, Z    float64
	SpawnDist  float64
	State      string // combat cycle state
	WeaponMode string
	HasRanged  bool
	Moving     bool
	Returning  bool
	TargetID   uint64
	TargetDist float64
	Spells     []int32
	Enemies    []Nearby
}

// Command is a single action returned by a Lua think function.
type Command struct {
	Type    string // "attack", "follow", "move", "stop", "cast", "switch", "return_home", "idle"
	Target  uint64
	X, Y, Z float64
	Speed   float64
	Min     float64
	Max     float64
	SpellID int32
	Mode    string
}

// Think calls think_<name>(ctx) and returns the commands it produced. A
// missing function or a script error yields no commands.
func (e *Engine) Think(name string, ctx BrainContext) []Command {
	fnName := "think_" + name
	if !e.Has(fnName) {
		e.log.Error("lua brain not found", zap.String("func", fnName))
		return nil
	}

	t := e.vm.NewTable()
	t.RawSetString("entity", lua.LNumber(ctx.Entity))
	t.RawSetString("hp", lua.LNumber(ctx.HP))
	t.RawSetString("max_hp", lua.LNumber(ctx.MaxHP))
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("z", lua.LNumber(ctx.Z))
	t.RawSetString("spawn_dist", lua.LNumber(ctx.SpawnDist))
	t.RawSetString("state", lua.LString(ctx.State))
	t.RawSetString("weapon_mode", lua.LString(ctx.WeaponMode))
	t.RawSetString("has_ranged", lBool(ctx.HasRanged))
	t.RawSetString("moving", lBool(ctx.Moving))
	t.RawSetString("returning", lBool(ctx.Returning))
	t.RawSetString("target_id", lua.LNumber(ctx.TargetID))
	t.RawSetString("target_dist", lua.LNumber(ctx.TargetDist))

	spells := e.vm.NewTable()
	for i, id := range ctx.Spells {
		spells.RawSetInt(i+1, lua.LNumber(id))
	}
	t.RawSetString("spells", spells)

	enemies := e.vm.NewTable()
	for i, n := range ctx.Enemies {
		row := e.vm.NewTable()
		row.RawSetString("id", lua.LNumber(n.ID))
		row.RawSetString("dist", lua.LNumber(n.Dist))
		row.RawSetString("threat", lua.LNumber(n.Threat))
		row.RawSetString("player", lBool(n.Player))
		enemies.RawSetInt(i+1, row)
	}
	t.RawSetString("enemies", enemies)

	result, ok := e.call(fnName, t)
	if !ok {
		return nil
	}
	rt, isTable := result.(*lua.LTable)
	if !isTable {
		return nil
	}

	// Parse commands array
	var cmds []Command
	rt.ForEach(func(_, v lua.LValue) {
		if row, ok := v.(*lua.LTable); ok {
			cmds = append(cmds, Command{
				Type:    lStr(row, "type"),
				Target:  uint64(lua.LVAsNumber(row.RawGetString("target"))),
				X:       lFloat(row, "x"),
				Y:       lFloat(row, "y"),
				Z:       lFloat(row, "z"),
				Speed:   lFloat(row, "speed"),
				Min:     lFloat(row, "min"),
				Max:     lFloat(row, "max"),
				SpellID: int32(lInt(row, "spell_id")),
				Mode:    lStr(row, "mode"),
			})
		}
	})
	return cmds
}
