package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlockedRoomState(t *testing.T) {
	for _, s := range []string{"pending", "accepted", "rejected"} {
		t.Run(s, func(t *testing.T) {
			state, err := NewBlockedRoomState(s)
			require.NoError(t, err)
			assert.Equal(t, s, state.String())
		})
	}

	_, err := NewBlockedRoomState("cancelled")
	assert.Error(t, err)
}

func TestBlockedRoomState_Predicates(t *testing.T) {
	assert.True(t, StatePending.IsPending())
	assert.True(t, StateAccepted.IsAccepted())
	assert.True(t, StateRejected.IsRejected())
	assert.False(t, StateRejected.IsPending())
}
