package brain

import (
	"github.com/l1jgo/regioncore/internal/aggro"
	"github.com/l1jgo/regioncore/internal/combat"
	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"github.com/l1jgo/regioncore/internal/geom"
	"go.uber.org/zap"
)

// homeSlack is how far from spawn an idle mob may stand before walking back.
const homeSlack = 1.0

// StandardMob is the default autonomous brain: pick up aggressors from the
// threat ledger, fight the most wanted one, walk home when there is nothing
// left to fight or the tether snaps.
type StandardMob struct {
	Base
	threat *aggro.Table

	Aggressive  bool
	AggroRange  float64
	TetherRange float64 // 0 disables the tether
	Interval    timer.Time
}

func NewStandardMob(threat *aggro.Table, aggressive bool, aggroRange, tether float64, interval timer.Time) *StandardMob {
	return &StandardMob{
		threat:      threat,
		Aggressive:  aggressive,
		AggroRange:  aggroRange,
		TetherRange: tether,
		Interval:    interval,
	}
}

func (b *StandardMob) Name() string              { return "standard" }
func (b *StandardMob) ThinkInterval() timer.Time { return b.Interval }

func (b *StandardMob) Think(now timer.Time) {
	body := b.Body()
	if body == nil || !body.Alive() || body.IsReturningHome() {
		return
	}
	self := body.ID()

	if b.TetherRange > 0 && geom.Distance(body.Position(), body.SpawnPoint()) > b.TetherRange {
		body.Log().Debug("tether snapped", zap.Stringer("entity", self))
		b.threat.Clear(self)
		body.ReturnToSpawn()
		return
	}

	if b.Aggressive && b.AggroRange > 0 {
		for _, c := range body.Nearby(b.AggroRange) {
			if c.Player && b.threat.Get(self, c.ID) == 0 {
				b.threat.Add(self, c.ID, 1)
			}
		}
	}

	if b.threat.Has(self) {
		b.engage()
		return
	}
	if !body.CombatState().Attacking() && !body.IsMoving() &&
		geom.Distance(body.Position(), body.SpawnPoint()) > homeSlack {
		body.ReturnToSpawn()
	}
}

func (b *StandardMob) OnAttacked(attacker ecs.EntityID, res combat.AttackResult) {
	body := b.Body()
	if body == nil || !body.Alive() {
		return
	}
	b.threat.Add(body.ID(), attacker, int64(res.Total()))
	if !body.CombatState().Attacking() {
		b.engage()
	}
}

func (b *StandardMob) OnTargetLost(target ecs.EntityID) {
	body := b.Body()
	if body == nil {
		return
	}
	b.threat.Remove(body.ID(), target)
	if !b.engage() {
		body.ReturnToSpawn()
	}
}

// engage attacks the most wanted entity. It reports false when the ledger
// has nothing reachable left.
func (b *StandardMob) engage() bool {
	body := b.Body()
	target, ok := b.threat.MostWanted(body.ID(), body.DistanceTo)
	if !ok {
		return false
	}
	if body.CombatTarget() == target && body.CombatState() != combat.Idle {
		return true
	}
	if err := body.StartAttack(target); err != nil {
		body.Log().Debug("engage failed",
			zap.Stringer("entity", body.ID()), zap.Stringer("target", target), zap.Error(err))
		return false
	}
	return true
}
