package system

import (
	"context"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/regioncore/internal/config"
	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/event"
	"github.com/l1jgo/regioncore/internal/world"
	"go.uber.org/zap/zaptest"
)

type countingFlusher struct{ flushes int }

func (f *countingFlusher) Flush() { f.flushes++ }

type sinkLog struct{ names []string }

func (s *sinkLog) Notify(_ []ecs.EntityID, ev event.Event) { s.names = append(s.names, ev.Name()) }

func newLoop(t *testing.T, flush Flusher) (*RegionLoop, *world.Region, *sinkLog) {
	t.Helper()
	sink := &sinkLog{}
	log := zaptest.NewLogger(t)
	r := world.NewRegion(1, "test", world.RulesFromConfig(config.Default()), world.Deps{Sink: sink}, log)
	l := NewRegionLoop(r, flush, LoopConfig{
		TickRate:           50 * time.Millisecond,
		MaxCommandsPerTick: 8,
		VisibilityEvery:    2,
		FlushEvery:         4,
	}, log)
	return l, r, sink
}

func TestStepRunsPhasesInOrder(t *testing.T) {
	flush := &countingFlusher{}
	l, r, sink := newLoop(t, flush)

	var id ecs.EntityID
	if err := r.Submit(func(r *world.Region) {
		var err error
		id, err = r.Spawn(world.Spec{Name: "a", Position: mgl64.Vec3{0, 0, 0}})
		if err != nil {
			t.Errorf("spawn: %v", err)
			return
		}
		if err := r.IssueMove(id, mgl64.Vec3{100, 0, 0}, 100); err != nil {
			t.Errorf("move: %v", err)
		}
	}); err != nil {
		t.Fatal(err)
	}

	l.Step()
	if id.IsZero() {
		t.Fatalf("expected the submitted command to run in the input phase")
	}
	if r.Now() != 50 {
		t.Fatalf("expected the clock at 50, got %d", r.Now())
	}
	if len(sink.names) != 2 || sink.names[1] != "position_changed" {
		t.Fatalf("expected spawn and move dispatched in the same tick, got %v", sink.names)
	}

	for range 19 {
		l.Step()
	}
	if r.Now() != 1000 {
		t.Fatalf("expected the clock at 1000, got %d", r.Now())
	}
	if sink.names[len(sink.names)-1] != "arrived" {
		t.Fatalf("expected an arrival after one second, got %v", sink.names)
	}
	if flush.flushes != 5 {
		t.Fatalf("expected a flush every fourth tick, got %d", flush.flushes)
	}
}

func TestCleanupReclaimsRemoved(t *testing.T) {
	l, r, _ := newLoop(t, nil)
	id, err := r.Spawn(world.Spec{Name: "a"})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Remove(id); err != nil {
		t.Fatal(err)
	}
	if r.Entities().Pool().Live() != 1 {
		t.Fatalf("expected storage kept until cleanup")
	}
	l.Step()
	if r.Entities().Pool().Live() != 0 {
		t.Fatalf("expected the entity reclaimed at tick end")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	flush := &countingFlusher{}
	l, r, _ := newLoop(t, flush)
	ctx, cancel := context.WithCancel(context.Background())
	ran := make(chan struct{})
	if err := r.Submit(func(*world.Region) { close(ran) }); err != nil {
		t.Fatal(err)
	}
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	<-ran
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected Run to return after cancel")
	}
	if flush.flushes == 0 {
		t.Fatalf("expected a final journal flush")
	}
}
