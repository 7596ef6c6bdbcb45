package world

import (
	"fmt"

	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/event"
	"github.com/l1jgo/regioncore/internal/geom"
)

// observers returns the commanded entities that can see l, l included when
// it is commanded.
func (r *Region) observers(l *Living) []ecs.EntityID {
	now := r.Now()
	pos := l.intent.Position(now)
	var out []ecs.EntityID
	for _, id := range r.grid.Nearby(pos) {
		o, ok := r.lookup(id)
		if !ok || o.Kind != Commanded {
			continue
		}
		if id == l.id || geom.PlanarDistance(pos, o.intent.Position(now)) <= r.rules.VisibilityDistance {
			out = append(out, id)
		}
	}
	return out
}

func (r *Region) header(l *Living) event.Header {
	return event.Header{Entity: l.id, At: r.Now(), Observers: r.observers(l)}
}

// emitPosition announces l's current intent.
func (r *Region) emitPosition(l *Living) {
	in := l.intent
	event.Emit(r.bus, event.PositionChanged{
		Header:   r.header(l),
		Position: in.Start,
		Target:   in.Target,
		Speed:    in.Speed,
		Heading:  l.heading,
	})
}

// notify sends user-visible text to a commanded entity. Autonomous entities
// have nobody to read it.
func (r *Region) notify(l *Living, key string, args ...any) {
	if l.Kind != Commanded {
		return
	}
	event.Emit(r.bus, event.Notice{
		Header: event.Header{Entity: l.id, At: r.Now(), Observers: []ecs.EntityID{l.id}},
		Key:    key,
		Text:   r.deps.Notices.Text(key, args...),
	})
}

func (r *Region) nameOf(id ecs.EntityID) string {
	if t, ok := r.lookup(id); ok && t.Name != "" {
		return t.Name
	}
	return fmt.Sprint(id)
}
