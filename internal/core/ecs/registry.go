package ecs

import "slices"

// Registry is the set of component stores an entity may have data in.
// Destroying an entity clears it from each of them.
type Registry struct {
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds stores. A store registered twice is kept once.
func (r *Registry) Register(stores ...Removable) {
	for _, s := range stores {
		if !slices.Contains(r.stores, s) {
			r.stores = append(r.stores, s)
		}
	}
}

// Len returns the number of registered stores.
func (r *Registry) Len() int { return len(r.stores) }

func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}
