package brain

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/regioncore/internal/aggro"
	"github.com/l1jgo/regioncore/internal/combat"
	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"github.com/l1jgo/regioncore/internal/geom"
	"github.com/l1jgo/regioncore/internal/scripting"
	"go.uber.org/zap"
)

// Thinker runs a named script brain. scripting.Engine implements it.
type Thinker interface {
	Think(name string, ctx scripting.BrainContext) []scripting.Command
}

// Scripted hands each think to a Lua function think_<Script>.
type Scripted struct {
	Base
	engine Thinker
	threat *aggro.Table

	Script     string
	AggroRange float64
	Interval   timer.Time
}

func NewScripted(engine Thinker, threat *aggro.Table, script string, aggroRange float64, interval timer.Time) *Scripted {
	return &Scripted{
		engine:     engine,
		threat:     threat,
		Script:     script,
		AggroRange: aggroRange,
		Interval:   interval,
	}
}

func (b *Scripted) Name() string              { return "lua:" + b.Script }
func (b *Scripted) ThinkInterval() timer.Time { return b.Interval }

func (b *Scripted) OnAttacked(attacker ecs.EntityID, res combat.AttackResult) {
	if body := b.Body(); body != nil {
		b.threat.Add(body.ID(), attacker, int64(res.Total()))
	}
}

func (b *Scripted) OnTargetLost(target ecs.EntityID) {
	if body := b.Body(); body != nil {
		b.threat.Remove(body.ID(), target)
	}
}

func (b *Scripted) Think(now timer.Time) {
	body := b.Body()
	if body == nil || !body.Alive() {
		return
	}
	for _, cmd := range b.engine.Think(b.Script, b.context()) {
		b.apply(cmd)
	}
}

func (b *Scripted) context() scripting.BrainContext {
	body := b.Body()
	self := body.ID()
	pos := body.Position()
	hp, maxHP := body.Health()
	ctx := scripting.BrainContext{
		Entity:     uint64(self),
		HP:         hp,
		MaxHP:      maxHP,
		X:          pos.X(),
		Y:          pos.Y(),
		Z:          pos.Z(),
		SpawnDist:  geom.Distance(pos, body.SpawnPoint()),
		State:      string(body.CombatState()),
		WeaponMode: body.WeaponMode().String(),
		HasRanged:  body.HasRangedWeapon(),
		Moving:     body.IsMoving(),
		Returning:  body.IsReturningHome(),
		Spells:     body.SpellIDs(),
	}
	if t := body.CombatTarget(); !t.IsZero() {
		ctx.TargetID = uint64(t)
		if d, ok := body.DistanceTo(t); ok {
			ctx.TargetDist = d
		}
	}
	if b.AggroRange > 0 {
		for _, c := range body.Nearby(b.AggroRange) {
			ctx.Enemies = append(ctx.Enemies, scripting.Nearby{
				ID:     uint64(c.ID),
				Dist:   c.Dist,
				Threat: b.threat.Get(self, c.ID),
				Player: c.Player,
			})
		}
	}
	return ctx
}

func (b *Scripted) apply(cmd scripting.Command) {
	body := b.Body()
	target := ecs.EntityID(cmd.Target)
	var err error
	switch cmd.Type {
	case "attack":
		err = body.StartAttack(target)
	case "follow":
		err = body.Follow(target, cmd.Min, cmd.Max)
	case "move":
		err = body.MoveTo(mgl64.Vec3{cmd.X, cmd.Y, cmd.Z}, cmd.Speed)
	case "stop":
		body.StopAttack()
		body.StopMoving()
	case "cast":
		if target.IsZero() {
			target = body.CombatTarget()
		}
		err = body.Cast(cmd.SpellID, target)
	case "switch":
		mode := combat.Melee
		if cmd.Mode == combat.Ranged.String() {
			mode = combat.Ranged
		}
		err = body.SwitchWeapon(mode)
	case "return_home":
		b.threat.Clear(body.ID())
		body.ReturnToSpawn()
	case "idle", "":
	default:
		body.Log().Warn("unknown brain command", zap.String("brain", b.Name()), zap.String("type", cmd.Type))
		return
	}
	if err != nil {
		body.Log().Debug("brain command rejected",
			zap.String("brain", b.Name()), zap.String("type", cmd.Type), zap.Error(err))
	}
}
