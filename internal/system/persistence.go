package system

import (
	"time"

	coresys "github.com/l1jgo/regioncore/internal/core/system"
)

// Flusher is the region side of the combat journal.
type Flusher interface {
	Flush()
}

// PersistenceSystem passes the region's journal entries to the writer
// goroutine every `interval` ticks. The tick never waits on the database.
// Phase 5 (Persist).
type PersistenceSystem struct {
	buf       Flusher
	tickCount int
	interval  int
}

func NewPersistenceSystem(buf Flusher, intervalTicks int) *PersistenceSystem {
	return &PersistenceSystem{buf: buf, interval: max(intervalTicks, 1)}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.buf.Flush()
}

// FlushNow is called on shutdown so nothing recorded is left behind.
func (s *PersistenceSystem) FlushNow() {
	s.tickCount = 0
	s.buf.Flush()
}
