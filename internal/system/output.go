package system

import (
	"time"

	coresys "github.com/l1jgo/regioncore/internal/core/system"
	"github.com/l1jgo/regioncore/internal/world"
)

// OutputSystem hands the tick's notifications to the sink. Phase 4 (Output).
type OutputSystem struct {
	region *world.Region
}

func NewOutputSystem(region *world.Region) *OutputSystem {
	return &OutputSystem{region: region}
}

func (s *OutputSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *OutputSystem) Update(_ time.Duration) {
	s.region.Dispatch()
}
