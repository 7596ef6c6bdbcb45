package combat

import (
	"github.com/l1jgo/regioncore/internal/core/timer"
)

// Weapon is the combat-relevant view of an equipped weapon.
type Weapon struct {
	ID              int32
	Name            string
	Mode            WeaponMode
	Range           float64
	Speed           timer.Time // interval between swings or shots
	DrawTime        timer.Time // ranged only
	Damage          int
	AutoReload      bool // re-arm after each shot
	NoFatigue       bool // may be held ready indefinitely
	InterruptOnMove bool // moving while drawing abandons the shot
}

// Fists is used when an entity has no melee weapon configured.
var Fists = Weapon{Name: "fists", Mode: Melee, Range: 128, Speed: 2000, Damage: 4}

// Spell is the opaque descriptor handed over by the spell system. Only cast
// time and interruption flags are interpreted here.
type Spell struct {
	ID              int32
	Name            string
	CastTime        timer.Time
	Range           float64
	Uninterruptible bool
	InterruptOnMove bool
	Payload         any
}

// Instant reports whether the spell completes without a casting phase.
func (s *Spell) Instant() bool { return s.CastTime <= 0 }

// FireMode is how a commanded shooter releases a drawn shot.
type FireMode uint8

const (
	// Fire releases a shot that is already ready.
	Fire FireMode = iota
	// AimFire releases as soon as the draw completes.
	AimFire
	// AimFireReload releases when ready and draws again.
	AimFireReload
)

func (m FireMode) String() string {
	switch m {
	case AimFire:
		return "aim_fire"
	case AimFireReload:
		return "aim_fire_reload"
	default:
		return "fire"
	}
}
