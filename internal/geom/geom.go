// Package geom holds the distance and heading helpers shared by movement,
// pursuit and combat.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// HeadingSteps is the number of discrete headings in a full turn.
const HeadingSteps = 4096

// Distance is the 3D distance between a and b.
func Distance(a, b mgl64.Vec3) float64 {
	return b.Sub(a).Len()
}

// PlanarDistance ignores the vertical axis.
func PlanarDistance(a, b mgl64.Vec3) float64 {
	return math.Hypot(b.X()-a.X(), b.Y()-a.Y())
}

// GroundDistance measures in 2D when either point sits at z = 0 (ground
// relative), in 3D otherwise.
func GroundDistance(a, b mgl64.Vec3) float64 {
	if a.Z() == 0 || b.Z() == 0 {
		return PlanarDistance(a, b)
	}
	return Distance(a, b)
}

// HeadingTo returns the heading from a towards b. Heading 0 points along -Y and
// values grow clockwise.
func HeadingTo(a, b mgl64.Vec3) uint16 {
	dx := b.X() - a.X()
	dy := b.Y() - a.Y()
	if dx == 0 && dy == 0 {
		return 0
	}
	rad := math.Atan2(-dx, dy)
	h := int(math.Round(rad*HeadingSteps/(2*math.Pi))) + HeadingSteps/2
	return uint16(((h % HeadingSteps) + HeadingSteps) % HeadingSteps)
}

// InArc reports whether b lies within arcDegrees centred on heading as seen
// from a. Coincident points are always inside.
func InArc(a mgl64.Vec3, heading uint16, b mgl64.Vec3, arcDegrees float64) bool {
	if a.X() == b.X() && a.Y() == b.Y() {
		return true
	}
	diff := int(HeadingTo(a, b)) - int(heading)
	diff = ((diff % HeadingSteps) + HeadingSteps) % HeadingSteps
	if diff > HeadingSteps/2 {
		diff = HeadingSteps - diff
	}
	half := arcDegrees / 2 * HeadingSteps / 360
	return float64(diff) <= half
}

// Slack is the relative tolerance of distance comparisons. An entity that
// arrives on a computed stand-off point sits within rounding of it.
const Slack = 1e-6

// Within reports dist <= limit, allowing for rounding.
func Within(dist, limit float64) bool {
	return dist <= limit+Slack*max(1, limit)
}

// Finite reports whether every component of v is a real number.
func Finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
