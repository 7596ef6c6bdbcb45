package event

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/regioncore/internal/combat"
	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/timer"
)

// Event is an outbound notification about one entity, addressed to the
// entities observing it.
type Event interface {
	Source() ecs.EntityID
	Audience() []ecs.EntityID
	Name() string
}

// Header carries the fields every event shares.
type Header struct {
	Entity    ecs.EntityID
	At        timer.Time
	Observers []ecs.EntityID
}

func (h Header) Source() ecs.EntityID     { return h.Entity }
func (h Header) Audience() []ecs.EntityID { return h.Observers }

// PositionChanged is sent whenever a new Movement Intent replaces the old one.
// Observers extrapolate from it until the next one arrives.
type PositionChanged struct {
	Header
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Speed    float64
	Heading  uint16
}

func (PositionChanged) Name() string { return "position_changed" }

// Arrived is sent when a moving entity reaches its intent target.
type Arrived struct {
	Header
	Position mgl64.Vec3
}

func (Arrived) Name() string { return "arrived" }

// AttackResolved carries one attack result.
type AttackResolved struct {
	Header
	Result combat.AttackResult
}

func (AttackResolved) Name() string { return "attack_resolved" }

// TargetLost is sent when a pursuit or attack target can no longer be reached.
type TargetLost struct {
	Header
	Target ecs.EntityID
	Reason string
}

func (TargetLost) Name() string { return "target_lost" }

// Interrupted is sent when a cast or drawn shot is abandoned.
type Interrupted struct {
	Header
	By      ecs.EntityID
	Was     combat.State
	SpellID int32
}

func (Interrupted) Name() string { return "interrupted" }

// CastCompleted is sent when a cast finishes and is handed to the spell system.
type CastCompleted struct {
	Header
	Target  ecs.EntityID
	SpellID int32
}

func (CastCompleted) Name() string { return "cast_completed" }

// Notice is user-visible text addressed to the entity itself.
type Notice struct {
	Header
	Key  string
	Text string
}

func (Notice) Name() string { return "notice" }

// Died is sent when an entity's health reaches zero.
type Died struct {
	Header
	Killer ecs.EntityID
}

func (Died) Name() string { return "died" }
