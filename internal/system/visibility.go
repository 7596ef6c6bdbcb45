package system

import (
	"time"

	coresys "github.com/l1jgo/regioncore/internal/core/system"
	"github.com/l1jgo/regioncore/internal/world"
)

// VisibilitySystem keeps the AOI grid in step with extrapolated positions and
// expires transfer records. Phase 3 (PostUpdate), every `every` ticks.
type VisibilitySystem struct {
	region *world.Region
	every  int
	ticks  int
}

func NewVisibilitySystem(region *world.Region, every int) *VisibilitySystem {
	return &VisibilitySystem{region: region, every: max(every, 1)}
}

func (s *VisibilitySystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *VisibilitySystem) Update(_ time.Duration) {
	s.ticks++
	if s.ticks < s.every {
		return
	}
	s.ticks = 0
	s.region.RefreshVisibility()
	s.region.PruneDeparted()
}
