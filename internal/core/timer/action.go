package timer

import (
	"container/heap"
	"fmt"

	"github.com/l1jgo/regioncore/internal/core/ecs"
	"go.uber.org/zap"
)

// Action is a cancellable, single-fire or repeating timer bound to one entity
// and one purpose.
type Action struct {
	sched   *Scheduler
	owner   ecs.EntityID
	purpose Purpose
	fn      Callback
	due     Time
	seq     uint64
	index   int
	epoch   uint64
}

func (a *Action) Owner() ecs.EntityID { return a.owner }
func (a *Action) Purpose() Purpose    { return a.purpose }

// Alive reports whether the action is queued.
func (a *Action) Alive() bool { return a.index >= 0 }

// DueAt returns the logical time the action fires at. Only meaningful while alive.
func (a *Action) DueAt() Time { return a.due }

// Remaining returns the time left before the action fires, or 0 if idle.
func (a *Action) Remaining() Time {
	if !a.Alive() {
		return 0
	}
	return a.due - a.sched.now
}

// Start (re)schedules the action delay milliseconds from now. A running
// action is moved, not duplicated.
func (a *Action) Start(delay Time) error {
	if delay < 0 {
		delay = 0
	}
	s := a.sched
	if err := s.claim(a); err != nil {
		s.log.Error("scheduled action overlap",
			zap.Stringer("entity", a.owner),
			zap.Stringer("purpose", a.purpose),
		)
		err = fmt.Errorf("start %s for %v: %w", a.purpose, a.owner, err)
		s.violate(a.owner, a.purpose, err)
		return err
	}
	a.epoch++
	a.seq = s.seq
	s.seq++
	a.due = s.now + delay
	if a.index >= 0 {
		heap.Fix(&s.queue, a.index)
		return nil
	}
	heap.Push(&s.queue, a)
	return nil
}

// Stop cancels the action. Stopping an idle action is a no-op.
func (a *Action) Stop() {
	a.epoch++
	if a.index < 0 {
		return
	}
	heap.Remove(&a.sched.queue, a.index)
	a.sched.release(a)
}

// Set holds one entity's actions keyed by purpose.
type Set struct {
	sched   *Scheduler
	owner   ecs.EntityID
	actions map[Purpose]*Action
}

func (s *Scheduler) NewSet(owner ecs.EntityID) *Set {
	return &Set{sched: s, owner: owner, actions: make(map[Purpose]*Action, 4)}
}

// Schedule replaces whatever action of this purpose is outstanding with fn,
// due delay milliseconds from now.
func (set *Set) Schedule(p Purpose, delay Time, fn Callback) *Action {
	a, ok := set.actions[p]
	if !ok {
		a = set.sched.NewAction(set.owner, p, fn)
		set.actions[p] = a
	} else {
		a.Stop()
		a.fn = fn
	}
	_ = a.Start(delay)
	return a
}

// Get returns the action for p, or nil if none was ever scheduled.
func (set *Set) Get(p Purpose) *Action { return set.actions[p] }

// Alive reports whether an action of purpose p is queued.
func (set *Set) Alive(p Purpose) bool {
	a, ok := set.actions[p]
	return ok && a.Alive()
}

func (set *Set) Stop(p Purpose) {
	if a, ok := set.actions[p]; ok {
		a.Stop()
	}
}

// StopAll cancels every action the entity owns.
func (set *Set) StopAll() {
	for _, a := range set.actions {
		a.Stop()
	}
}
