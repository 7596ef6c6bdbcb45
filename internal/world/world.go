package world

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/regioncore/internal/core/ecs"
)

var (
	ErrUnknownRegion = errors.New("unknown region")
	ErrRegionExists  = errors.New("region already registered")
	ErrStaysHome     = errors.New("autonomous entities stay in their region")
)

// World indexes the regions of one process. The registry itself is shared;
// each region is still only touched from its own goroutine.
type World struct {
	mu      sync.RWMutex
	regions map[uint32]*Region
}

func NewWorld() *World {
	return &World{regions: make(map[uint32]*Region)}
}

func (w *World) Add(r *Region) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.regions[r.ID]; ok {
		return fmt.Errorf("region %d: %w", r.ID, ErrRegionExists)
	}
	w.regions[r.ID] = r
	return nil
}

func (w *World) Get(id uint32) (*Region, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	r, ok := w.regions[id]
	return r, ok
}

// Regions returns every region in id order.
func (w *World) Regions() []*Region {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ids := slices.Sorted(maps.Keys(w.regions))
	out := make([]*Region, 0, len(ids))
	for _, id := range ids {
		out = append(out, w.regions[id])
	}
	return out
}

// Transfer moves a commanded entity to another region, arriving at pos. The
// entity departs on the source goroutine and is respawned on the destination
// goroutine with a new handle; done, when set, is called there with that handle.
// Anyone still holding the old handle sees it as in another region.
func (w *World) Transfer(from, to uint32, id ecs.EntityID, pos mgl64.Vec3, done func(ecs.EntityID, error)) error {
	src, ok := w.Get(from)
	if !ok {
		return fmt.Errorf("transfer from %d: %w", from, ErrUnknownRegion)
	}
	dst, ok := w.Get(to)
	if !ok {
		return fmt.Errorf("transfer to %d: %w", to, ErrUnknownRegion)
	}
	report := func(nid ecs.EntityID, err error) {
		if done != nil {
			done(nid, err)
		}
	}
	return src.Submit(func(r *Region) {
		spec, err := r.departing(id, to, pos)
		if err != nil {
			report(ecs.None, err)
			return
		}
		if err := dst.Submit(func(d *Region) {
			report(d.Spawn(spec))
		}); err != nil {
			report(ecs.None, fmt.Errorf("transfer %v: %w", id, err))
		}
	})
}

// departing snapshots a commanded entity as a spawn spec and departs it.
func (r *Region) departing(id ecs.EntityID, to uint32, pos mgl64.Vec3) (Spec, error) {
	l, err := r.controllable(id)
	if err != nil {
		return Spec{}, fmt.Errorf("transfer: %w", err)
	}
	if l.Kind != Commanded {
		return Spec{}, fmt.Errorf("transfer %v: %w", id, ErrStaysHome)
	}
	spec := Spec{
		Name:       l.Name,
		Kind:       Commanded,
		TemplateID: l.TemplateID,
		Position:   pos,
		Heading:    l.heading,
		MaxSpeed:   l.maxSpeed,
		Health:     l.maxHealth,
		Stats:      l.stats,
		Berserk:    l.berserk,
		Melee:      l.melee,
		Ranged:     l.ranged,
		Spells:     slices.Clone(l.spells),
	}
	if err := r.Depart(id, to); err != nil {
		return Spec{}, err
	}
	return spec, nil
}
