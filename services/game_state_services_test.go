package services

import (
	"context"
	"testing"

	"olympool/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteGameRequiresLock(t *testing.T) {
	a := newTestApp(t, beforeDeadline())

	_, _, err := CompleteGame(context.Background(), a)
	var serr *StateError
	assert.ErrorAs(t, err, &serr)
}

func TestCompleteGameStoresTiedWinners(t *testing.T) {
	a := newTestApp(t, beforeDeadline())
	ctx := context.Background()

	alice := createUser(t, a.DB, "alice")
	bob := createUser(t, a.DB, "bob")
	carol := createUser(t, a.DB, "carol")
	guess := scoring.Medals{Gold: 2, Silver: 2, Bronze: 2}
	for _, id := range []uint{alice.ID, bob.ID} {
		_, err := SubmitPicks(ctx, a, id, validPicks(t, a.DB), guess)
		require.NoError(t, err)
	}
	_, err := SubmitPicks(ctx, a, carol.ID, validPicks(t, a.DB), scoring.Medals{Gold: 9, Silver: 9, Bronze: 9})
	require.NoError(t, err)

	a.Clock = afterDeadline
	state, winners, err := CompleteGame(ctx, a)
	require.NoError(t, err)
	assert.True(t, state.IsComplete)
	require.Len(t, winners, 2)
	assert.ElementsMatch(t, []uint{alice.ID, bob.ID}, WinnerIDs(state))

	reloaded, err := GameStateFor(ctx, a.DB)
	require.NoError(t, err)
	assert.True(t, reloaded.IsComplete)
	assert.ElementsMatch(t, []uint{alice.ID, bob.ID}, WinnerIDs(reloaded))
}
