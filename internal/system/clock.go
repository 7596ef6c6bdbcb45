package system

import (
	"time"

	coresys "github.com/l1jgo/regioncore/internal/core/system"
	"github.com/l1jgo/regioncore/internal/world"
)

// ClockSystem advances the region clock by the tick length. Every scheduled
// action that falls due fires here, in due-time order. Phase 2 (Update).
type ClockSystem struct {
	region *world.Region
	fired  int
}

func NewClockSystem(region *world.Region) *ClockSystem {
	return &ClockSystem{region: region}
}

func (s *ClockSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ClockSystem) Update(dt time.Duration) {
	s.fired += s.region.Advance(dt)
}

// Fired counts actions run since start.
func (s *ClockSystem) Fired() int { return s.fired }
