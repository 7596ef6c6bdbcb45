package world

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/l1jgo/regioncore/internal/core/ecs"
)

// AOIGrid implements a cell-based Area of Interest index.
// Cell size equals the visibility distance, so a 3x3 neighbourhood of cells
// fully covers it. Accessed only from the region goroutine, no locks.
type AOIGrid struct {
	size  float64
	cells map[cellKey]map[ecs.EntityID]struct{}
}

type cellKey struct {
	cx int32
	cy int32
}

func NewAOIGrid(cellSize float64) *AOIGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &AOIGrid{
		size:  cellSize,
		cells: make(map[cellKey]map[ecs.EntityID]struct{}),
	}
}

func (g *AOIGrid) key(p mgl64.Vec3) cellKey {
	return cellKey{
		cx: int32(math.Floor(p.X() / g.size)),
		cy: int32(math.Floor(p.Y() / g.size)),
	}
}

// Add places an entity into the grid and returns its cell.
func (g *AOIGrid) Add(id ecs.EntityID, p mgl64.Vec3) cellKey {
	k := g.key(p)
	cell := g.cells[k]
	if cell == nil {
		cell = make(map[ecs.EntityID]struct{})
		g.cells[k] = cell
	}
	cell[id] = struct{}{}
	return k
}

// Remove takes an entity out of the cell it was filed under.
func (g *AOIGrid) Remove(id ecs.EntityID, k cellKey) {
	cell := g.cells[k]
	if cell != nil {
		delete(cell, id)
		if len(cell) == 0 {
			delete(g.cells, k)
		}
	}
}

// Move refiles an entity when its position crosses a cell border.
func (g *AOIGrid) Move(id ecs.EntityID, old cellKey, p mgl64.Vec3) cellKey {
	k := g.key(p)
	if k == old {
		return old
	}
	g.Remove(id, old)
	return g.Add(id, p)
}

// Nearby returns the entities in the 3x3 neighbourhood of p, in ascending id
// order. Caller does fine-grained distance filtering.
func (g *AOIGrid) Nearby(p mgl64.Vec3) []ecs.EntityID {
	c := g.key(p)
	var result []ecs.EntityID
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for id := range g.cells[cellKey{cx: c.cx + dx, cy: c.cy + dy}] {
				result = append(result, id)
			}
		}
	}
	slices.Sort(result)
	return result
}

// Len counts filed entities.
func (g *AOIGrid) Len() int {
	n := 0
	for _, cell := range g.cells {
		n += len(cell)
	}
	return n
}
