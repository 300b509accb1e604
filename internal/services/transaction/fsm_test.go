package transaction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rajivgeraev/barrio-api/internal/models"
)

var allStates = []models.RequestState{
	models.StatePending, models.StateAccepted, models.StateRejected,
	models.StateCancelledByRequester, models.StateCancelledByOwner,
	models.StateInProgress, models.StateCompleted, models.StateDisputed,
}

func TestCanTransitionMatchesLifecycle(t *testing.T) {
	edges := map[[2]models.RequestState]bool{
		{models.StatePending, models.StateAccepted}:              true,
		{models.StatePending, models.StateRejected}:              true,
		{models.StatePending, models.StateCancelledByRequester}:  true,
		{models.StatePending, models.StateCancelledByOwner}:      true,
		{models.StateAccepted, models.StateInProgress}:           true,
		{models.StateAccepted, models.StateCancelledByRequester}: true,
		{models.StateAccepted, models.StateCancelledByOwner}:     true,
		{models.StateInProgress, models.StateCompleted}:          true,
		{models.StateInProgress, models.StateDisputed}:           true,
	}

	for _, from := range allStates {
		for _, to := range allStates {
			want := edges[[2]models.RequestState{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from.Name(), to.Name())
			if !want {
				assert.True(t, models.IsKind(checkTransition(from, to), models.KindStateConflict))
			}
		}
	}
}

func TestTerminalStatesHaveNoEdges(t *testing.T) {
	for _, from := range allStates {
		if !from.IsTerminal() {
			continue
		}
		for _, to := range allStates {
			assert.False(t, CanTransition(from, to), "%s -> %s", from.Name(), to.Name())
		}
	}
}

func TestEveryStateInTable(t *testing.T) {
	for _, s := range allStates {
		_, ok := transitions[s]
		assert.True(t, ok, s.Name())
	}
	assert.False(t, CanTransition(models.RequestState("XX"), models.StatePending))
}
