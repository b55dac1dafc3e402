package workflows

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	sm := NewStateMachine()

	assert.True(t, sm.CanTransition("pending", "approved"))
	assert.True(t, sm.CanTransition("pending", "rejected"))

	assert.False(t, sm.CanTransition("approved", "rejected"))
	assert.False(t, sm.CanTransition("approved", "pending"))
	assert.False(t, sm.CanTransition("rejected", "approved"))
	assert.False(t, sm.CanTransition("pending", "pending"))
	assert.False(t, sm.CanTransition("unknown", "approved"))
}

func TestIsTerminal(t *testing.T) {
	sm := NewStateMachine()

	assert.False(t, sm.IsTerminal("pending"))
	assert.True(t, sm.IsTerminal("approved"))
	assert.True(t, sm.IsTerminal("rejected"))
	assert.False(t, sm.IsTerminal("unknown"))
}

func TestGetAllowedTransitions(t *testing.T) {
	sm := NewStateMachine()

	assert.ElementsMatch(t, []string{"approved", "rejected"}, sm.GetAllowedTransitions("pending"))
	assert.Empty(t, sm.GetAllowedTransitions("approved"))
	assert.Empty(t, sm.GetAllowedTransitions("unknown"))
}
