package system

import (
	"time"

	coresys "github.com/l1jgo/regioncore/internal/core/system"
	"github.com/l1jgo/regioncore/internal/world"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end.
// Removed handles are already invalid; only their storage is reclaimed here.
// Phase 6 (Cleanup).
type CleanupSystem struct {
	region *world.Region
}

func NewCleanupSystem(region *world.Region) *CleanupSystem {
	return &CleanupSystem{region: region}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.region.Entities().FlushDestroyQueue()
}
