package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/regioncore/internal/brain"
	"github.com/l1jgo/regioncore/internal/combat"
	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"github.com/l1jgo/regioncore/internal/geom"
	"github.com/l1jgo/regioncore/internal/movement"
	"github.com/l1jgo/regioncore/internal/pursuit"
	"go.uber.org/zap"
)

// Kind tells who drives an entity.
type Kind uint8

const (
	Commanded  Kind = iota + 1 // commands arrive from outside (a player)
	Autonomous                 // a brain stack decides
)

func (k Kind) String() string {
	if k == Autonomous {
		return "autonomous"
	}
	return "commanded"
}

// Spec describes an entity to spawn.
type Spec struct {
	Name         string
	Kind         Kind
	TemplateID   int32
	Position     mgl64.Vec3
	Heading      uint16
	MaxSpeed     float64 // 0 = region default
	Health       int
	Stats        combat.Stats
	Berserk      int
	Melee        combat.Weapon // zero value = fists
	Ranged       *combat.Weapon
	Spells       []int32
	Brain        brain.Brain // base brain, autonomous only
	RespawnDelay timer.Time  // 0 = stays dead
}

// Living is the simulation state of one entity. Its fields are owned by the
// region goroutine and only change through Region commands.
type Living struct {
	id         ecs.EntityID
	Name       string
	Kind       Kind
	TemplateID int32

	region       *Region
	intent       movement.Intent
	heading      uint16
	maxSpeed     float64
	spawn        mgl64.Vec3
	spawnHeading uint16
	cell         cellKey

	health    int
	maxHealth int
	stats     combat.Stats
	berserk   int
	melee     combat.Weapon
	ranged    *combat.Weapon
	mode      combat.WeaponMode
	fire      combat.FireMode
	spells    []int32

	cycle   *combat.Cycle
	pursuit *pursuit.State
	actions *timer.Set
	brains  *brain.Stack

	dead         bool
	inert        bool
	stunned      bool
	returning    bool
	respawnDelay timer.Time

	engagedAt  timer.Time
	lastRolled timer.Time // last attempt this entity rolled, hit or not
	lastTaken  timer.Time
	nextSwing  timer.Time
}

// Spawn places a new entity and starts its brain.
func (r *Region) Spawn(spec Spec) (ecs.EntityID, error) {
	if !geom.Finite(spec.Position) {
		return ecs.None, fmt.Errorf("spawn %q: %w", spec.Name, movement.ErrInvalidIntent)
	}
	if spec.Kind == 0 {
		spec.Kind = Commanded
		if spec.Brain != nil {
			spec.Kind = Autonomous
		}
	}
	if spec.Kind == Commanded && spec.Brain != nil {
		return ecs.None, fmt.Errorf("spawn %q: commanded entities take no brain", spec.Name)
	}
	if spec.MaxSpeed <= 0 {
		spec.MaxSpeed = r.rules.DefaultMaxSpeed
	}
	if spec.Health <= 0 {
		spec.Health = 1
	}
	if spec.Melee.Range <= 0 {
		spec.Melee = combat.Fists
	}
	spec.Melee.Mode = combat.Melee
	if spec.Ranged != nil {
		w := *spec.Ranged
		w.Mode = combat.Ranged
		spec.Ranged = &w
	}

	now := r.Now()
	id := r.ents.CreateEntity()
	l := &Living{
		id:           id,
		Name:         spec.Name,
		Kind:         spec.Kind,
		TemplateID:   spec.TemplateID,
		region:       r,
		intent:       movement.Stationary(spec.Position, now),
		heading:      spec.Heading % geom.HeadingSteps,
		maxSpeed:     spec.MaxSpeed,
		spawn:        spec.Position,
		spawnHeading: spec.Heading % geom.HeadingSteps,
		health:       spec.Health,
		maxHealth:    spec.Health,
		stats:        spec.Stats,
		berserk:      spec.Berserk,
		melee:        spec.Melee,
		ranged:       spec.Ranged,
		mode:         combat.Melee,
		spells:       spec.Spells,
		actions:      r.sched.NewSet(id),
		respawnDelay: spec.RespawnDelay,
	}
	if l.Kind == Autonomous {
		l.fire = combat.AimFireReload
	}
	l.cycle = combat.NewCycle(func(from, to combat.State) {
		r.log.Debug("combat state",
			zap.Stringer("entity", id), zap.String("from", string(from)), zap.String("to", string(to)))
	})
	if spec.Brain != nil {
		stack, err := brain.NewStack(l, spec.Brain)
		if err != nil {
			r.ents.Pool().Destroy(id)
			return ecs.None, fmt.Errorf("spawn %q: %w", spec.Name, err)
		}
		l.brains = stack
	}

	r.living.Set(id, l)
	l.cell = r.grid.Add(id, spec.Position)
	r.emitPosition(l)
	if l.brains != nil {
		l.brains.Start()
	}
	r.log.Debug("entity spawned",
		zap.Stringer("entity", id), zap.String("name", l.Name), zap.Stringer("kind", l.Kind))
	return id, nil
}

// Remove takes an entity out of the simulation. The handle is invalid at once;
// storage is reclaimed in the cleanup phase. Pursuers and attackers of the
// entity find out on their next evaluation.
func (r *Region) Remove(id ecs.EntityID) error {
	l, err := r.get(id)
	if err != nil {
		return err
	}
	r.detach(l)
	r.ents.MarkForDestruction(id)
	return nil
}

// Depart removes an entity that moved to another region. Until the record
// expires, its old handle reads as "in another region" rather than gone.
func (r *Region) Depart(id ecs.EntityID, to uint32) error {
	if err := r.Remove(id); err != nil {
		return err
	}
	r.departed[id] = departure{to: to, at: r.Now()}
	return nil
}

func (r *Region) detach(l *Living) {
	l.actions.StopAll()
	if l.brains != nil {
		l.brains.Stop()
	}
	l.pursuit = nil
	l.cycle.ForceIdle()
	r.grid.Remove(l.id, l.cell)
	r.deps.Threat.Forget(l.id)
}

func (l *Living) ID() ecs.EntityID { return l.id }

// Intent returns the current movement intent.
func (l *Living) Intent() movement.Intent { return l.intent }

func (l *Living) Heading() uint16            { return l.heading }
func (l *Living) Dead() bool                 { return l.dead }
func (l *Living) Inert() bool                { return l.inert }
func (l *Living) Stunned() bool              { return l.stunned }
func (l *Living) Cycle() *combat.Cycle       { return l.cycle }
func (l *Living) Brains() *brain.Stack       { return l.brains }
func (l *Living) Pursuit() *pursuit.State    { return l.pursuit }
func (l *Living) MeleeWeapon() combat.Weapon { return l.melee }

// activeWeapon returns the weapon of the selected mode.
func (l *Living) activeWeapon() combat.Weapon {
	if l.mode == combat.Ranged && l.ranged != nil {
		return *l.ranged
	}
	return l.melee
}

func (l *Living) combatant(now timer.Time) combat.Combatant {
	return combat.Combatant{
		ID:       l.id,
		Position: l.intent.Position(now),
		Heading:  l.heading,
		Alive:    !l.dead,
		InRegion: true,
		Player:   l.Kind == Commanded,
		Berserk:  l.berserk,
		Stats:    l.stats,
	}
}
