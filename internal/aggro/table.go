// Package aggro keeps the threat ledger of autonomous entities.
package aggro

import (
	"github.com/l1jgo/regioncore/internal/core/ecs"
)

// Table holds, per owner, the accumulated threat against each attacker.
// 遊戲迴圈單線程呼叫，無需鎖。
type Table struct {
	lists map[ecs.EntityID]map[ecs.EntityID]int64
}

func NewTable() *Table {
	return &Table{lists: make(map[ecs.EntityID]map[ecs.EntityID]int64, 64)}
}

// Add accumulates threat. Non-positive amounts still register the attacker
// with a minimum of 1 so that a missed swing is enough to be noticed.
func (t *Table) Add(owner, attacker ecs.EntityID, amount int64) {
	if owner.IsZero() || attacker.IsZero() || owner == attacker {
		return
	}
	list := t.lists[owner]
	if list == nil {
		list = make(map[ecs.EntityID]int64, 4)
		t.lists[owner] = list
	}
	list[attacker] += max(1, amount)
}

// Get returns the threat owner holds against attacker.
func (t *Table) Get(owner, attacker ecs.EntityID) int64 {
	return t.lists[owner][attacker]
}

// Has reports whether owner has any threat entries.
func (t *Table) Has(owner ecs.EntityID) bool {
	return len(t.lists[owner]) > 0
}

// Total sums all threat held by owner.
func (t *Table) Total(owner ecs.EntityID) int64 {
	var total int64
	for _, v := range t.lists[owner] {
		total += v
	}
	return total
}

// Remove forgets one attacker (dead, gone, out of reach).
func (t *Table) Remove(owner, attacker ecs.EntityID) {
	if list := t.lists[owner]; list != nil {
		delete(list, attacker)
		if len(list) == 0 {
			delete(t.lists, owner)
		}
	}
}

// Clear forgets everything owner was angry at (give-up, death, respawn).
func (t *Table) Clear(owner ecs.EntityID) {
	delete(t.lists, owner)
}

// Forget removes id everywhere, both as owner and as attacker.
func (t *Table) Forget(id ecs.EntityID) {
	delete(t.lists, id)
	for owner, list := range t.lists {
		delete(list, id)
		if len(list) == 0 {
			delete(t.lists, owner)
		}
	}
}

// Distance returns the distance to a candidate, or ok=false if it can no
// longer be attacked.
type Distance func(candidate ecs.EntityID) (dist float64, ok bool)

// MostWanted picks the attacker with the highest threat, scaled down for
// candidates further than 500 units away. Unreachable candidates are pruned.
// Ties go to the lower EntityID so the choice is reproducible.
func (t *Table) MostWanted(owner ecs.EntityID, distance Distance) (ecs.EntityID, bool) {
	list := t.lists[owner]
	var (
		best      ecs.EntityID
		bestScore = -1.0
		stale     []ecs.EntityID
	)
	for id, threat := range list {
		d, ok := distance(id)
		if !ok {
			stale = append(stale, id)
			continue
		}
		scale := 1.0
		if d > 0 {
			scale = min(1, 500/d)
		}
		score := float64(threat) * scale
		if score > bestScore || (score == bestScore && id < best) {
			best, bestScore = id, score
		}
	}
	for _, id := range stale {
		t.Remove(owner, id)
	}
	return best, bestScore >= 0
}
