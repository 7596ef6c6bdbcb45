package system

import (
	"time"

	coresys "github.com/l1jgo/regioncore/internal/core/system"
	"github.com/l1jgo/regioncore/internal/world"
	"go.uber.org/zap"
)

// InputSystem drains commands submitted from other goroutines (network
// handlers, the admin surface, cross-region transfers) and runs them on the
// region goroutine. Phase 0 (Input).
type InputSystem struct {
	region     *world.Region
	maxPerTick int
	log        *zap.Logger
}

func NewInputSystem(region *world.Region, maxPerTick int, log *zap.Logger) *InputSystem {
	return &InputSystem{region: region, maxPerTick: maxPerTick, log: log}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	n := s.region.DrainCommands(s.maxPerTick)
	if s.maxPerTick > 0 && n == s.maxPerTick {
		// 本 tick 已達上限，剩餘指令留到下一個 tick。
		s.log.Debug("command budget exhausted", zap.Int("ran", n))
	}
}
