package system

import "time"

// Phase defines execution ordering within a single region tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain submitted commands
	PhasePreUpdate               // 1: reserved
	PhaseUpdate                  // 2: advance the clock, fire due actions
	PhasePostUpdate              // 3: respawn, AOI refresh
	PhaseOutput                  // 4: dispatch notifications
	PhasePersist                 // 5: hand journal entries to the writer
	PhaseCleanup                 // 6: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhasePreUpdate:
		return "pre_update"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post_update"
	case PhaseOutput:
		return "output"
	case PhasePersist:
		return "persist"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
