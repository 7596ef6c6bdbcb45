// Package brain holds the decision-making controllers that drive autonomous
// entities, and the stack that decides which one is in charge.
package brain

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/regioncore/internal/combat"
	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"go.uber.org/zap"
)

var (
	ErrNoBrain       = errors.New("no brain")
	ErrBrainAttached = errors.New("brain already attached")
)

// Contact is one entity seen around a body.
type Contact struct {
	ID     ecs.EntityID
	Dist   float64
	Player bool
}

// Body is what a brain may observe and command. The region's living entity
// implements it; calls happen on the region goroutine.
type Body interface {
	ID() ecs.EntityID
	Now() timer.Time
	Log() *zap.Logger

	Position() mgl64.Vec3
	SpawnPoint() mgl64.Vec3
	Alive() bool
	Health() (cur, max int)
	CombatState() combat.State
	CombatTarget() ecs.EntityID
	WeaponMode() combat.WeaponMode
	HasRangedWeapon() bool
	IsMoving() bool
	IsReturningHome() bool
	Following() ecs.EntityID
	// DistanceTo reports the ground distance to an attackable entity.
	DistanceTo(target ecs.EntityID) (float64, bool)
	Nearby(radius float64) []Contact
	SpellIDs() []int32

	StartAttack(target ecs.EntityID) error
	StopAttack()
	Follow(target ecs.EntityID, minDist, maxDist float64) error
	MoveTo(p mgl64.Vec3, speed float64) error
	StopMoving()
	ReturnToSpawn()
	Cast(spellID int32, target ecs.EntityID) error
	SwitchWeapon(mode combat.WeaponMode) error

	// StartThinking runs fn every interval until StopThinking.
	StartThinking(interval timer.Time, fn func(now timer.Time))
	StopThinking()
}

// Brain is a controller. At most one brain per entity is active at a time.
type Brain interface {
	Name() string
	Start(body Body)
	Stop()
	Active() bool
	Think(now timer.Time)
	ThinkInterval() timer.Time
	OnAttacked(attacker ecs.EntityID, res combat.AttackResult)
	OnTargetLost(target ecs.EntityID)
}

// Base carries the attach bookkeeping shared by the brains in this package.
type Base struct {
	body   Body
	active bool
}

func (b *Base) Start(body Body) {
	b.body = body
	b.active = true
}

func (b *Base) Stop()        { b.active = false }
func (b *Base) Active() bool { return b.active }
func (b *Base) Body() Body   { return b.body }

func (b *Base) OnAttacked(ecs.EntityID, combat.AttackResult) {}
func (b *Base) OnTargetLost(ecs.EntityID)                    {}
