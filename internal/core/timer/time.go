package timer

import (
	"fmt"
	"time"
)

// Time is region-local logical time in milliseconds. It only moves forward and
// only when the owning region's scheduler is advanced.
type Time int64

// FromDuration converts a wall-clock duration to logical milliseconds.
func FromDuration(d time.Duration) Time { return Time(d / time.Millisecond) }

func (t Time) Duration() time.Duration { return time.Duration(t) * time.Millisecond }

// Seconds returns t as fractional seconds.
func (t Time) Seconds() float64 { return float64(t) / 1000 }

// Purpose names the job of a scheduled action. An entity owns at most one live
// action per purpose.
type Purpose uint8

const (
	PurposeArrival Purpose = iota + 1
	PurposePursuit
	PurposeAttack
	PurposeCast
	PurposeRangedHold
	PurposeRecover
	PurposeThink
	PurposeRespawn
	PurposeStun
)

func (p Purpose) String() string {
	switch p {
	case PurposeArrival:
		return "arrival"
	case PurposePursuit:
		return "pursuit"
	case PurposeAttack:
		return "attack"
	case PurposeCast:
		return "cast"
	case PurposeRangedHold:
		return "ranged_hold"
	case PurposeRecover:
		return "recover"
	case PurposeThink:
		return "think"
	case PurposeRespawn:
		return "respawn"
	case PurposeStun:
		return "stun"
	default:
		return fmt.Sprintf("purpose(%d)", uint8(p))
	}
}
