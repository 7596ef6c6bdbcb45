package brain

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/regioncore/internal/combat"
	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"go.uber.org/zap"
)

// fakeBody records commands and serves canned observations.
type fakeBody struct {
	id        ecs.EntityID
	pos       mgl64.Vec3
	spawn     mgl64.Vec3
	alive     bool
	state     combat.State
	target    ecs.EntityID
	moving    bool
	returning bool
	following ecs.EntityID
	distances map[ecs.EntityID]float64
	nearby    []Contact

	attacks    []ecs.EntityID
	follows    []ecs.EntityID
	moves      []mgl64.Vec3
	casts      []int32
	switches   []combat.WeaponMode
	homeCalls  int
	stops      int
	thinking   bool
	thinkEvery timer.Time
}

func newFakeBody(id ecs.EntityID) *fakeBody {
	return &fakeBody{
		id:        id,
		alive:     true,
		state:     combat.Idle,
		distances: make(map[ecs.EntityID]float64),
	}
}

func (f *fakeBody) ID() ecs.EntityID              { return f.id }
func (f *fakeBody) Now() timer.Time               { return 0 }
func (f *fakeBody) Log() *zap.Logger              { return zap.NewNop() }
func (f *fakeBody) Position() mgl64.Vec3          { return f.pos }
func (f *fakeBody) SpawnPoint() mgl64.Vec3        { return f.spawn }
func (f *fakeBody) Alive() bool                   { return f.alive }
func (f *fakeBody) Health() (int, int)            { return 50, 100 }
func (f *fakeBody) CombatState() combat.State     { return f.state }
func (f *fakeBody) CombatTarget() ecs.EntityID    { return f.target }
func (f *fakeBody) WeaponMode() combat.WeaponMode { return combat.Melee }
func (f *fakeBody) HasRangedWeapon() bool         { return false }
func (f *fakeBody) IsMoving() bool                { return f.moving }
func (f *fakeBody) IsReturningHome() bool         { return f.returning }
func (f *fakeBody) Following() ecs.EntityID       { return f.following }
func (f *fakeBody) SpellIDs() []int32             { return []int32{3} }

func (f *fakeBody) DistanceTo(target ecs.EntityID) (float64, bool) {
	d, ok := f.distances[target]
	return d, ok
}

func (f *fakeBody) Nearby(radius float64) []Contact {
	var out []Contact
	for _, c := range f.nearby {
		if c.Dist <= radius {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeBody) StartAttack(target ecs.EntityID) error {
	f.attacks = append(f.attacks, target)
	f.target = target
	f.state = combat.MeleeEngaged
	return nil
}

func (f *fakeBody) StopAttack() {
	f.target = ecs.None
	f.state = combat.Idle
}

func (f *fakeBody) Follow(target ecs.EntityID, _, _ float64) error {
	f.follows = append(f.follows, target)
	f.following = target
	return nil
}

func (f *fakeBody) MoveTo(p mgl64.Vec3, _ float64) error {
	f.moves = append(f.moves, p)
	return nil
}

func (f *fakeBody) StopMoving() {
	f.stops++
	f.following = ecs.None
}

func (f *fakeBody) ReturnToSpawn() {
	f.homeCalls++
	f.returning = true
}

func (f *fakeBody) Cast(spellID int32, _ ecs.EntityID) error {
	f.casts = append(f.casts, spellID)
	return nil
}

func (f *fakeBody) SwitchWeapon(mode combat.WeaponMode) error {
	f.switches = append(f.switches, mode)
	return nil
}

func (f *fakeBody) StartThinking(interval timer.Time, _ func(timer.Time)) {
	f.thinking = true
	f.thinkEvery = interval
}

func (f *fakeBody) StopThinking() { f.thinking = false }
