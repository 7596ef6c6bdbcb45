package event

import (
	"github.com/l1jgo/regioncore/internal/core/ecs"
	"go.uber.org/zap"
)

//go:generate go tool mockgen -destination=mocks/sink_mock.go -package=mocks . Sink

// Sink receives notifications leaving the simulation, typically the network
// layer that encodes them for each observer.
type Sink interface {
	Notify(observers []ecs.EntityID, ev Event)
}

// Forward delivers every dispatched T to sink.
func Forward[T Event](b *Bus, sink Sink) {
	Subscribe(b, func(ev T) {
		sink.Notify(ev.Audience(), ev)
	})
}

// ForwardAll wires every notification type to sink.
func ForwardAll(b *Bus, sink Sink) {
	Forward[PositionChanged](b, sink)
	Forward[Arrived](b, sink)
	Forward[AttackResolved](b, sink)
	Forward[TargetLost](b, sink)
	Forward[Interrupted](b, sink)
	Forward[CastCompleted](b, sink)
	Forward[Notice](b, sink)
	Forward[Died](b, sink)
}

// LogSink writes notifications to the log. Used when no transport is attached.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Notify(observers []ecs.EntityID, ev Event) {
	s.log.Debug("notify",
		zap.String("event", ev.Name()),
		zap.Stringer("entity", ev.Source()),
		zap.Int("observers", len(observers)),
	)
}
