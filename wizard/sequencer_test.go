package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceSkipsBusinessStepsForIndividuals(t *testing.T) {
	def := KYCDefinition()
	state := def.NewState()
	state.Update("personalDetails", "customerType", "individual")

	seq := NewSequencer(def)
	businessIdx := def.StepIndex("business-details")
	signatoryIdx := def.StepIndex("authorized-signatory")

	var visited []int
	for !seq.AtEnd() {
		visited = append(visited, seq.Advance(state))
	}

	assert.NotContains(t, visited, businessIdx)
	assert.NotContains(t, visited, signatoryIdx)
	assert.Equal(t, len(def.Steps)-1, seq.Current())
}

func TestAdvanceVisitsBusinessStepsForBusinesses(t *testing.T) {
	def := KYCDefinition()
	state := def.NewState()
	state.Update("personalDetails", "customerType", "business")

	seq := NewSequencer(def)
	var visited []int
	for !seq.AtEnd() {
		visited = append(visited, seq.Advance(state))
	}

	assert.Contains(t, visited, def.StepIndex("business-details"))
	assert.Contains(t, visited, def.StepIndex("authorized-signatory"))
	// Every step visited exactly once, in order
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, visited)
}

func TestAdvanceClampsAtTerminalStep(t *testing.T) {
	def := CAFDefinition()
	state := def.NewState()
	seq := NewSequencer(def)

	for !seq.AtEnd() {
		seq.Advance(state)
	}
	last := seq.Current()
	assert.Equal(t, last, seq.Advance(state), "advance at terminal step is a no-op")
}

func TestRetreatClampsAtZero(t *testing.T) {
	def := CAFDefinition()
	state := def.NewState()
	seq := NewSequencer(def)

	assert.Equal(t, 0, seq.Retreat(state))

	seq.Advance(state)
	seq.Advance(state)
	assert.Equal(t, 1, seq.Retreat(state))
	assert.Equal(t, 0, seq.Retreat(state))
	assert.Equal(t, 0, seq.Retreat(state))
}

func TestRetreatSkipsHiddenSteps(t *testing.T) {
	def := KYCDefinition()
	state := def.NewState()
	state.Update("personalDetails", "customerType", "individual")

	seq := NewSequencer(def)
	seq.Advance(state) // personal-details
	seq.Advance(state) // telecom-usage (business-details skipped)
	assert.Equal(t, "telecom-usage", seq.CurrentStep().ID)

	seq.Retreat(state)
	assert.Equal(t, "personal-details", seq.CurrentStep().ID)
}

func TestJumpToStrictPolicy(t *testing.T) {
	def := KYCDefinition() // strict
	seq := NewSequencer(def)

	assert.NoError(t, seq.JumpTo(1), "one step ahead is allowed")
	assert.Error(t, seq.JumpTo(4), "cannot jump ahead of unvalidated steps")
	assert.NoError(t, seq.JumpTo(0), "backward is always allowed")
	assert.Error(t, seq.JumpTo(-1))
	assert.Error(t, seq.JumpTo(len(def.Steps)))
}

func TestJumpToFreeBackwardPolicy(t *testing.T) {
	def := ConversionDefinition() // free-backward
	state := def.NewState()
	seq := NewSequencer(def)

	seq.Advance(state)
	seq.Advance(state)
	assert.Equal(t, 2, seq.Current())

	assert.NoError(t, seq.JumpTo(0))
	assert.Error(t, seq.JumpTo(1), "forward jumps are rejected")
}
