package combat

import (
	"fmt"

	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/timer"
)

// WeaponMode selects between the melee and ranged weapon of an entity.
type WeaponMode uint8

const (
	Melee WeaponMode = iota
	Ranged
)

func (m WeaponMode) String() string {
	if m == Ranged {
		return "ranged"
	}
	return "melee"
}

// ResultKind classifies one resolved attack attempt.
type ResultKind uint8

const (
	Hit ResultKind = iota + 1
	Missed
	Blocked
	Parried
	Evaded
	Fumbled
	OutOfRange
	TargetNotVisible
	NoTarget
	TargetDead
	InvalidTarget
)

var resultNames = map[ResultKind]string{
	Hit:              "hit",
	Missed:           "missed",
	Blocked:          "blocked",
	Parried:          "parried",
	Evaded:           "evaded",
	Fumbled:          "fumbled",
	OutOfRange:       "out_of_range",
	TargetNotVisible: "target_not_visible",
	NoTarget:         "no_target",
	TargetDead:       "target_dead",
	InvalidTarget:    "invalid_target",
}

func (k ResultKind) String() string {
	if s, ok := resultNames[k]; ok {
		return s
	}
	return fmt.Sprintf("result(%d)", uint8(k))
}

// ParseResultKind maps a name produced by String back to its kind.
func ParseResultKind(s string) (ResultKind, bool) {
	for k, name := range resultNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Rolled reports whether k can come out of the combat-math roll.
func (k ResultKind) Rolled() bool {
	switch k {
	case Hit, Missed, Blocked, Parried, Evaded, Fumbled:
		return true
	}
	return false
}

// Terminal results end the attack: there is nothing left to swing at.
func (k ResultKind) Terminal() bool {
	return k == NoTarget || k == TargetDead || k == InvalidTarget
}

// AttackResult is produced once per resolved attempt and never mutated.
type AttackResult struct {
	Attacker ecs.EntityID
	Target   ecs.EntityID
	Mode     WeaponMode
	WeaponID int32
	Kind     ResultKind
	Damage   int
	Critical int
	Time     timer.Time
}

func (r AttackResult) Hit() bool { return r.Kind == Hit }

// Total is the damage dealt including the critical bonus.
func (r AttackResult) Total() int { return r.Damage + r.Critical }
