package timer

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/l1jgo/regioncore/internal/core/ecs"
	"go.uber.org/zap"
)

var (
	// ErrOverlap reports a second live action for an (owner, purpose) slot.
	ErrOverlap = errors.New("overlapping scheduled action")
	// ErrCallbackPanic wraps a panic recovered from an action callback.
	ErrCallbackPanic = errors.New("scheduled action panicked")
)

// Callback runs when an action comes due. A positive return value re-arms the
// action after that many milliseconds; zero lets it expire.
type Callback func(now Time) Time

// ViolationFunc is told about broken scheduling invariants. The owning region
// uses it to force the offending entity inert.
type ViolationFunc func(owner ecs.EntityID, purpose Purpose, err error)

type slotKey struct {
	owner   ecs.EntityID
	purpose Purpose
}

// Scheduler is the logical clock of one region and the queue of its pending
// actions. Accessed only from the region goroutine, no locks.
type Scheduler struct {
	now         Time
	seq         uint64
	queue       actionQueue
	live        map[slotKey]*Action
	onViolation ViolationFunc
	log         *zap.Logger
}

func NewScheduler(log *zap.Logger) *Scheduler {
	return &Scheduler{
		queue: make(actionQueue, 0, 256),
		live:  make(map[slotKey]*Action, 256),
		log:   log,
	}
}

// OnViolation installs the invariant violation hook.
func (s *Scheduler) OnViolation(fn ViolationFunc) { s.onViolation = fn }

func (s *Scheduler) Now() Time { return s.now }

// Pending returns the number of queued actions.
func (s *Scheduler) Pending() int { return len(s.queue) }

// NextDue reports when the earliest queued action fires.
func (s *Scheduler) NextDue() (Time, bool) {
	if len(s.queue) == 0 {
		return 0, false
	}
	return s.queue[0].due, true
}

// NewAction creates an idle action bound to owner and purpose.
func (s *Scheduler) NewAction(owner ecs.EntityID, purpose Purpose, fn Callback) *Action {
	return &Action{sched: s, owner: owner, purpose: purpose, fn: fn, index: -1}
}

// Advance fires every action due at or before to, in due order. Actions due at
// the same instant fire in the order they were started. Going backwards is a
// no-op. Returns the number of callbacks run.
func (s *Scheduler) Advance(to Time) int {
	if to < s.now {
		return 0
	}
	fired := 0
	for len(s.queue) > 0 && s.queue[0].due <= to {
		a := heap.Pop(&s.queue).(*Action)
		s.release(a)
		s.now = a.due
		epoch := a.epoch
		next, ok := s.fire(a)
		fired++
		if ok && next > 0 && a.epoch == epoch {
			_ = a.Start(next)
		}
	}
	s.now = to
	return fired
}

func (s *Scheduler) fire(a *Action) (next Time, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrCallbackPanic, r)
			s.log.Error("scheduled action panicked",
				zap.Stringer("entity", a.owner),
				zap.Stringer("purpose", a.purpose),
				zap.Any("panic", r),
			)
			s.violate(a.owner, a.purpose, err)
			next, ok = 0, false
		}
	}()
	return a.fn(s.now), true
}

func (s *Scheduler) violate(owner ecs.EntityID, purpose Purpose, err error) {
	if s.onViolation != nil {
		s.onViolation(owner, purpose, err)
	}
}

func (s *Scheduler) claim(a *Action) error {
	k := slotKey{a.owner, a.purpose}
	if cur, ok := s.live[k]; ok && cur != a {
		return ErrOverlap
	}
	s.live[k] = a
	return nil
}

func (s *Scheduler) release(a *Action) {
	k := slotKey{a.owner, a.purpose}
	if cur, ok := s.live[k]; ok && cur == a {
		delete(s.live, k)
	}
}

// actionQueue is a min-heap ordered by (due, seq).
type actionQueue []*Action

func (q actionQueue) Len() int { return len(q) }

func (q actionQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}

func (q actionQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *actionQueue) Push(x any) {
	a := x.(*Action)
	a.index = len(*q)
	*q = append(*q, a)
}

func (q *actionQueue) Pop() any {
	old := *q
	n := len(old)
	a := old[n-1]
	old[n-1] = nil
	a.index = -1
	*q = old[:n-1]
	return a
}
