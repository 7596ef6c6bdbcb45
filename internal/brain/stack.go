package brain

import (
	"slices"

	"github.com/l1jgo/regioncore/internal/combat"
	"github.com/l1jgo/regioncore/internal/core/ecs"
	"go.uber.org/zap"
)

// Stack is a base brain plus temporary overrides. The most recently pushed
// brain is the only active one; removing it reactivates the one below.
type Stack struct {
	body    Body
	base    Brain
	temps   []Brain
	running bool
}

func NewStack(body Body, base Brain) (*Stack, error) {
	if base == nil {
		return nil, ErrNoBrain
	}
	if base.Active() {
		return nil, ErrBrainAttached
	}
	return &Stack{body: body, base: base}, nil
}

// Active returns the brain in charge.
func (s *Stack) Active() Brain {
	if n := len(s.temps); n > 0 {
		return s.temps[n-1]
	}
	return s.base
}

func (s *Stack) Base() Brain { return s.base }

// Depth counts temporary brains above the base.
func (s *Stack) Depth() int { return len(s.temps) }

func (s *Stack) Running() bool { return s.running }

// Start activates the top brain. Calling it again is a no-op.
func (s *Stack) Start() {
	if s.running {
		return
	}
	s.running = true
	s.activate(s.Active())
}

// Stop deactivates the top brain, keeping the stack intact.
func (s *Stack) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.deactivate(s.Active())
}

// Push makes b the active brain, suspending the current one.
func (s *Stack) Push(b Brain) error {
	if b == nil {
		return ErrNoBrain
	}
	if b.Active() || b == s.base || slices.Contains(s.temps, b) {
		return ErrBrainAttached
	}
	if s.running {
		s.deactivate(s.Active())
	}
	s.temps = append(s.temps, b)
	if s.running {
		s.activate(b)
	}
	s.body.Log().Debug("brain pushed", zap.String("brain", b.Name()), zap.Int("depth", len(s.temps)))
	return nil
}

// Remove takes a temporary brain off the stack. The base cannot be removed.
func (s *Stack) Remove(b Brain) bool {
	i := slices.Index(s.temps, b)
	if i < 0 {
		return false
	}
	top := i == len(s.temps)-1
	if s.running && top {
		s.deactivate(b)
	}
	s.temps = slices.Delete(s.temps, i, i+1)
	if s.running && top {
		s.activate(s.Active())
	}
	return true
}

// SwapBase replaces the base brain and returns the old one.
func (s *Stack) SwapBase(b Brain) (Brain, error) {
	if b == nil {
		return nil, ErrNoBrain
	}
	if b.Active() || slices.Contains(s.temps, b) {
		return nil, ErrBrainAttached
	}
	old := s.base
	inCharge := s.running && len(s.temps) == 0
	if inCharge {
		s.deactivate(old)
	}
	s.base = b
	if inCharge {
		s.activate(b)
	}
	return old, nil
}

func (s *Stack) OnAttacked(attacker ecs.EntityID, res combat.AttackResult) {
	if s.running {
		s.Active().OnAttacked(attacker, res)
	}
}

func (s *Stack) OnTargetLost(target ecs.EntityID) {
	if s.running {
		s.Active().OnTargetLost(target)
	}
}

func (s *Stack) activate(b Brain) {
	b.Start(s.body)
	if iv := b.ThinkInterval(); iv > 0 {
		s.body.StartThinking(iv, b.Think)
	}
}

func (s *Stack) deactivate(b Brain) {
	s.body.StopThinking()
	b.Stop()
}
