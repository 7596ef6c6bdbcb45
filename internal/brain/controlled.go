package brain

import (
	"github.com/l1jgo/regioncore/internal/combat"
	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"go.uber.org/zap"
)

// Controlled is a temporary brain for summoned or charmed entities: stay with
// the owner, attack what the owner orders.
type Controlled struct {
	Base
	Owner     ecs.EntityID
	FollowMin float64
	FollowMax float64
	Interval  timer.Time

	order ecs.EntityID
}

func NewControlled(owner ecs.EntityID, followMin, followMax float64, interval timer.Time) *Controlled {
	return &Controlled{Owner: owner, FollowMin: followMin, FollowMax: followMax, Interval: interval}
}

func (b *Controlled) Name() string              { return "controlled" }
func (b *Controlled) ThinkInterval() timer.Time { return b.Interval }

func (b *Controlled) Start(body Body) {
	b.Base.Start(body)
	b.heel()
}

func (b *Controlled) Stop() {
	if body := b.Body(); body != nil && b.Active() {
		body.StopAttack()
		body.StopMoving()
	}
	b.order = ecs.None
	b.Base.Stop()
}

// Order sends the entity after target. A zero target recalls it.
func (b *Controlled) Order(target ecs.EntityID) {
	b.order = target
	if !b.Active() {
		return
	}
	if target.IsZero() {
		b.Body().StopAttack()
		b.heel()
		return
	}
	if err := b.Body().StartAttack(target); err != nil {
		b.Body().Log().Debug("order rejected", zap.Stringer("target", target), zap.Error(err))
		b.order = ecs.None
	}
}

// Ordered returns the current attack order.
func (b *Controlled) Ordered() ecs.EntityID { return b.order }

func (b *Controlled) Think(now timer.Time) {
	body := b.Body()
	if body == nil || !body.Alive() {
		return
	}
	if !b.order.IsZero() {
		if body.CombatTarget() != b.order && body.CombatState() == combat.Idle {
			if err := body.StartAttack(b.order); err != nil {
				b.order = ecs.None
				b.heel()
			}
		}
		return
	}
	if body.Following() != b.Owner {
		b.heel()
	}
}

func (b *Controlled) OnAttacked(attacker ecs.EntityID, _ combat.AttackResult) {
	if b.order.IsZero() && attacker != b.Owner {
		b.Order(attacker)
	}
}

func (b *Controlled) OnTargetLost(target ecs.EntityID) {
	if target == b.order {
		b.order = ecs.None
	}
	b.heel()
}

func (b *Controlled) heel() {
	body := b.Body()
	if b.Owner.IsZero() {
		return
	}
	if err := body.Follow(b.Owner, b.FollowMin, b.FollowMax); err != nil {
		body.Log().Debug("cannot follow owner", zap.Stringer("owner", b.Owner), zap.Error(err))
	}
}
