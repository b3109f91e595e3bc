package wizard

import (
	"github.com/pkg/errors"

	"github.com/telsim/onboard/form"
)

// Sequencer tracks the cursor through a wizard's steps. It holds no state
// beyond the current index; Advance and Retreat are deterministic given the
// form state and the index.
type Sequencer struct {
	def   *Definition
	index int
}

func NewSequencer(def *Definition) *Sequencer {
	return &Sequencer{def: def}
}

// Current returns the current step index.
func (s *Sequencer) Current() int {
	return s.index
}

// CurrentStep returns the step under the cursor.
func (s *Sequencer) CurrentStep() Step {
	return s.def.Steps[s.index]
}

// AtEnd reports whether the cursor is on the terminal step.
func (s *Sequencer) AtEnd() bool {
	return s.index == len(s.def.Steps)-1
}

// Advance moves to the next step whose skip predicate evaluates false for the
// given state. It clamps at the last step and is a no-op when every later
// step is skipped.
func (s *Sequencer) Advance(state *form.State) int {
	for i := s.index + 1; i < len(s.def.Steps); i++ {
		if !skipped(s.def.Steps[i], state) {
			s.index = i
			break
		}
	}
	return s.index
}

// Retreat is symmetric to Advance and clamps at index 0.
func (s *Sequencer) Retreat(state *form.State) int {
	for i := s.index - 1; i >= 0; i-- {
		if !skipped(s.def.Steps[i], state) {
			s.index = i
			break
		}
	}
	return s.index
}

// JumpTo moves the cursor directly to index. Under the strict policy only
// indices up to current+1 are reachable, so unvalidated steps cannot be
// skipped ahead of; under free-backward only already-visited indices are.
func (s *Sequencer) JumpTo(index int) error {
	if index < 0 || index >= len(s.def.Steps) {
		return errors.Errorf("step index %d out of range", index)
	}
	switch s.def.Navigation {
	case NavFreeBackward:
		if index > s.index {
			return errors.Errorf("wizard %s only allows backward navigation", s.def.Name)
		}
	default:
		if index > s.index+1 {
			return errors.Errorf("cannot jump ahead of step %d", s.index+1)
		}
	}
	s.index = index
	return nil
}

func skipped(step Step, state *form.State) bool {
	return step.Skip != nil && step.Skip(state)
}
