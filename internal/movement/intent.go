// Package movement implements dead reckoning: an entity's position at any
// logical time is derived from its last Movement Intent instead of being
// stored every tick.
package movement

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"github.com/l1jgo/regioncore/internal/geom"
)

var (
	ErrInvalidIntent = errors.New("invalid movement intent")
	ErrNegativeSpeed = errors.New("negative speed")
)

// Intent is the last commanded movement of an entity. It is replaced whole on
// every move, walk or follow command.
type Intent struct {
	Start     mgl64.Vec3
	StartTime timer.Time
	Target    mgl64.Vec3
	Speed     float64 // units per second
}

// Stationary returns an intent that keeps the entity at p.
func Stationary(p mgl64.Vec3, now timer.Time) Intent {
	return Intent{Start: p, StartTime: now, Target: p}
}

// Toward builds an intent from p at now heading for target.
func Toward(p mgl64.Vec3, now timer.Time, target mgl64.Vec3, speed float64) (Intent, error) {
	in := Intent{Start: p, StartTime: now, Target: target, Speed: speed}
	if err := in.Validate(); err != nil {
		return Intent{}, err
	}
	return in, nil
}

// Validate rejects intents that would poison every later position query.
func (in Intent) Validate() error {
	if !geom.Finite(in.Start) || !geom.Finite(in.Target) {
		return fmt.Errorf("%w: non-finite coordinates", ErrInvalidIntent)
	}
	if math.IsNaN(in.Speed) || math.IsInf(in.Speed, 0) {
		return fmt.Errorf("%w: non-finite speed", ErrInvalidIntent)
	}
	if in.Speed < 0 {
		return ErrNegativeSpeed
	}
	return nil
}

// Moving reports whether the intent describes actual travel.
func (in Intent) Moving() bool {
	return in.Speed > 0 && in.Start != in.Target
}

// Distance is the full length of the commanded path.
func (in Intent) Distance() float64 {
	return geom.Distance(in.Start, in.Target)
}

// Velocity is the per-second displacement while travelling.
func (in Intent) Velocity() mgl64.Vec3 {
	if !in.Moving() {
		return mgl64.Vec3{}
	}
	d := in.Distance()
	if d <= 0 {
		return mgl64.Vec3{}
	}
	return in.Target.Sub(in.Start).Mul(in.Speed / d)
}

// ArrivalTime is the first logical time at which Position returns Target.
func (in Intent) ArrivalTime() timer.Time {
	if !in.Moving() {
		return in.StartTime
	}
	ms := math.Ceil(in.Distance() / in.Speed * 1000)
	return in.StartTime + timer.Time(ms)
}

// Arrived reports whether the entity has reached Target by now.
func (in Intent) Arrived(now timer.Time) bool {
	return !in.Moving() || now >= in.ArrivalTime()
}

// Position extrapolates where the entity is at now. Pure query.
func (in Intent) Position(now timer.Time) mgl64.Vec3 {
	if !in.Moving() {
		return in.Start
	}
	elapsed := now - in.StartTime
	if elapsed <= 0 {
		return in.Start
	}
	if now >= in.ArrivalTime() {
		return in.Target
	}
	dist := in.Distance()
	if dist <= 0 {
		return in.Target
	}
	travelled := in.Speed * elapsed.Seconds()
	if travelled >= dist {
		return in.Target
	}
	ratio := travelled / dist
	var p mgl64.Vec3
	for i := range p {
		p[i] = clamp(in.Start[i]+(in.Target[i]-in.Start[i])*ratio, in.Start[i], in.Target[i])
	}
	return p
}

func clamp(v, a, b float64) float64 {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Max(lo, math.Min(hi, v))
}
