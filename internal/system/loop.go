package system

import (
	"context"
	"time"

	coresys "github.com/l1jgo/regioncore/internal/core/system"
	"github.com/l1jgo/regioncore/internal/world"
	"go.uber.org/zap"
)

// LoopConfig tunes one region loop.
type LoopConfig struct {
	TickRate           time.Duration
	MaxCommandsPerTick int
	VisibilityEvery    int // ticks between AOI refreshes
	FlushEvery         int // ticks between journal flushes
}

// RegionLoop owns a region goroutine: a fixed-rate ticker driving the
// phase-ordered systems.
type RegionLoop struct {
	region  *world.Region
	runner  *coresys.Runner
	persist *PersistenceSystem
	cfg     LoopConfig
	log     *zap.Logger
}

// NewRegionLoop wires the standard systems for region. journal may be nil
// when the combat journal is disabled.
func NewRegionLoop(region *world.Region, journal Flusher, cfg LoopConfig, log *zap.Logger) *RegionLoop {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 50 * time.Millisecond
	}
	l := &RegionLoop{
		region: region,
		runner: coresys.NewRunner(),
		cfg:    cfg,
		log:    log,
	}
	l.runner.Register(
		NewInputSystem(region, cfg.MaxCommandsPerTick, log),
		NewClockSystem(region),
		NewVisibilitySystem(region, cfg.VisibilityEvery),
		NewOutputSystem(region),
		NewCleanupSystem(region),
	)
	if journal != nil {
		l.persist = NewPersistenceSystem(journal, cfg.FlushEvery)
		l.runner.Register(l.persist)
	}
	return l
}

// Step runs one full tick.
func (l *RegionLoop) Step() {
	l.runner.Tick(l.cfg.TickRate)
}

// Run ticks until ctx is cancelled. Pending notifications and journal entries
// are flushed before it returns.
func (l *RegionLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.cfg.TickRate)
	defer ticker.Stop()
	l.log.Info("region loop started",
		zap.Uint32("region", l.region.ID), zap.Duration("tick", l.cfg.TickRate))
	for {
		select {
		case <-ticker.C:
			l.Step()
		case <-ctx.Done():
			l.runner.TickPhase(coresys.PhaseInput, 0)
			l.runner.TickPhase(coresys.PhaseOutput, 0)
			if l.persist != nil {
				l.persist.FlushNow()
			}
			l.log.Info("region loop stopped", zap.Uint32("region", l.region.ID))
			return nil
		}
	}
}
