// Package pursuit decides how an entity keeps a chosen distance band to a
// moving target. It only evaluates; the region applies the decision.
package pursuit

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"github.com/l1jgo/regioncore/internal/geom"
)

var (
	ErrInvertedRange    = errors.New("minimum distance exceeds maximum distance")
	ErrNegativeDistance = errors.New("negative follow distance")
	ErrNoTarget         = errors.New("no follow target")
)

// Verdict is the outcome of one pursuit evaluation.
type Verdict uint8

const (
	Lost Verdict = iota + 1
	TooFar
	InRange
	Approach
)

func (v Verdict) String() string {
	switch v {
	case Lost:
		return "lost"
	case TooFar:
		return "too_far"
	case InRange:
		return "in_range"
	case Approach:
		return "approach"
	default:
		return fmt.Sprintf("verdict(%d)", uint8(v))
	}
}

// Target is what the region can tell about the pursued entity right now.
type Target struct {
	Found      bool // handle still resolves in some region
	Alive      bool
	SameRegion bool
	Position   mgl64.Vec3
}

// Decision tells the region what to do after an evaluation.
type Decision struct {
	Verdict     Verdict
	Distance    float64
	Entered     bool       // first InRange after being out of range
	Destination mgl64.Vec3 // set for Approach
}

// State is one entity's pursuit of a target. The target handle is non-owning.
type State struct {
	Target    ecs.EntityID
	MinDist   float64
	MaxDist   float64
	LastCheck timer.Time
	inRange   bool
}

// New validates the distance band.
func New(target ecs.EntityID, minDist, maxDist float64) (*State, error) {
	if target.IsZero() {
		return nil, ErrNoTarget
	}
	if minDist < 0 || maxDist < 0 || math.IsNaN(minDist) || math.IsNaN(maxDist) {
		return nil, fmt.Errorf("%w: min=%v max=%v", ErrNegativeDistance, minDist, maxDist)
	}
	if minDist > maxDist {
		return nil, fmt.Errorf("%w: min=%v max=%v", ErrInvertedRange, minDist, maxDist)
	}
	return &State{Target: target, MinDist: minDist, MaxDist: maxDist}, nil
}

// InRange reports the latched in-range flag.
func (s *State) InRange() bool { return s.inRange }

// Evaluate compares self against the target and updates the in-range latch.
func (s *State) Evaluate(self mgl64.Vec3, t Target, now timer.Time) Decision {
	s.LastCheck = now
	if !t.Found || !t.Alive || !t.SameRegion {
		s.inRange = false
		return Decision{Verdict: Lost}
	}
	dist := geom.GroundDistance(self, t.Position)
	if !geom.Within(dist, s.MaxDist) {
		s.inRange = false
		return Decision{Verdict: TooFar, Distance: dist}
	}
	if geom.Within(dist, s.MinDist) {
		entered := !s.inRange
		s.inRange = true
		return Decision{Verdict: InRange, Distance: dist, Entered: entered}
	}
	s.inRange = false
	return Decision{Verdict: Approach, Distance: dist, Destination: StandOff(self, t.Position, s.MinDist)}
}

// StandOff returns the point on the line from self to target that lies minDist
// short of the target.
func StandOff(self, target mgl64.Vec3, minDist float64) mgl64.Vec3 {
	diff := target.Sub(self)
	planar := self.Z() == 0 || target.Z() == 0
	if planar {
		diff[2] = 0
	}
	d := diff.Len()
	if d <= minDist || d == 0 {
		return self
	}
	p := target.Sub(diff.Mul(minDist / d))
	if planar {
		p[2] = self.Z()
	}
	return p
}
