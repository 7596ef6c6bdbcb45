package system

import (
	"testing"
	"time"
)

type probe struct {
	phase Phase
	name  string
	log   *[]string
}

func (p probe) Phase() Phase           { return p.phase }
func (p probe) Update(_ time.Duration) { *p.log = append(*p.log, p.name) }

func TestRunnerOrdersByPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(
		probe{PhaseCleanup, "cleanup", &log},
		probe{PhaseUpdate, "timers", &log},
		probe{PhaseInput, "input", &log},
		probe{PhaseUpdate, "respawn", &log},
	)
	r.Tick(50 * time.Millisecond)
	want := []string{"input", "timers", "respawn", "cleanup"}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, log)
		}
	}

	log = log[:0]
	r.TickPhase(PhaseInput, 0)
	if len(log) != 1 || log[0] != "input" {
		t.Fatalf("expected only input phase, got %v", log)
	}
}
