package wizard

import (
	"github.com/telsim/onboard/form"
	"github.com/telsim/onboard/model"
)

// NavigationPolicy controls how far JumpTo may move the cursor. The stricter
// wizards only allow jumping one step past the current one; the rest allow
// free backward navigation only.
type NavigationPolicy string

const (
	NavStrict       NavigationPolicy = "strict"
	NavFreeBackward NavigationPolicy = "free-backward"
)

// Step is one entry in a wizard. Skip, when set, hides the step for the
// current form state (e.g. business details for individual customers).
type Step struct {
	ID          string
	Title       string
	Description string
	Skip        func(state *form.State) bool
}

// Definition is the static descriptor of one wizard: its ordered steps, its
// validation contract, its navigation policy and the defaults every field
// starts from. Definitions are immutable after construction.
type Definition struct {
	Name       string
	Steps      []Step
	Navigation NavigationPolicy
	Validation form.ValidationPolicy
	Defaults   model.Sections
	Ruleset    *form.Ruleset
}

// NewState builds a fresh form state for this wizard, seeded with the
// definition's defaults so every validated field exists from the start.
func (d *Definition) NewState() *form.State {
	return form.NewState(d.Defaults, d.Ruleset, d.Validation)
}

// StepIndex returns the index of the step with the given id, or -1.
func (d *Definition) StepIndex(id string) int {
	for i, s := range d.Steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}
