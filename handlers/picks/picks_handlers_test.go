package picks

import (
	"context"
	"net/http"
	"testing"

	"olympool/handlers/handlertest"
	"olympool/scoring"
	"olympool/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPicksRequireAuth(t *testing.T) {
	a := handlertest.NewApp(t, handlertest.BeforeDeadline())
	r := handlertest.Router(a, RegisterRoutes)

	w := handlertest.Do(t, r, http.MethodGet, "/api/v1/picks", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitAndFetchPicks(t *testing.T) {
	a := handlertest.NewApp(t, handlertest.BeforeDeadline())
	user := handlertest.CreateUser(t, a, "alice", false)
	token := handlertest.Token(t, a, user)
	r := handlertest.Router(a, RegisterRoutes)

	w := handlertest.Do(t, r, http.MethodPut, "/api/v1/picks", PicksRequest{
		Picks:      handlertest.ValidPicks(t, a),
		Tiebreaker: &scoring.Medals{Gold: 10, Silver: 8, Bronze: 6},
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var saved PicksResponse
	handlertest.Decode(t, w, &saved)
	assert.Equal(t, MsgPicksSaved, saved.Message)
	assert.True(t, saved.Complete)
	assert.Equal(t, a.Game.TotalPicks(), saved.PickCount)

	w = handlertest.Do(t, r, http.MethodGet, "/api/v1/picks", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var fetched PicksResponse
	handlertest.Decode(t, w, &fetched)
	assert.False(t, fetched.PicksLocked)
	require.NotNil(t, fetched.Tiebreaker)
	assert.Equal(t, scoring.Medals{Gold: 10, Silver: 8, Bronze: 6}, *fetched.Tiebreaker)
	assert.Len(t, fetched.Tiers, len(a.Game.Tiers))
}

func TestSubmitInvalidPicksReportsErrors(t *testing.T) {
	a := handlertest.NewApp(t, handlertest.BeforeDeadline())
	user := handlertest.CreateUser(t, a, "bob", false)
	token := handlertest.Token(t, a, user)
	r := handlertest.Router(a, RegisterRoutes)

	picks := handlertest.ValidPicks(t, a)
	picks[2] = picks[2][:1]

	w := handlertest.Do(t, r, http.MethodPut, "/api/v1/picks", PicksRequest{Picks: picks}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Errors []string `json:"errors"`
	}
	handlertest.Decode(t, w, &body)
	assert.NotEmpty(t, body.Errors)

	set, err := services.UserPicks(context.Background(), a.DB, a.Game, user.ID)
	require.NoError(t, err)
	assert.Zero(t, set.PickCount)
}

func TestSubmitAfterDeadline(t *testing.T) {
	a := handlertest.NewApp(t, handlertest.AfterDeadline())
	user := handlertest.CreateUser(t, a, "carol", false)
	token := handlertest.Token(t, a, user)
	r := handlertest.Router(a, RegisterRoutes)

	w := handlertest.Do(t, r, http.MethodPut, "/api/v1/picks", PicksRequest{
		Picks: handlertest.ValidPicks(t, a),
	}, token)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), services.ErrDeadlinePassed)
}

func TestValidatePicksDryRun(t *testing.T) {
	a := handlertest.NewApp(t, handlertest.BeforeDeadline())
	user := handlertest.CreateUser(t, a, "dave", false)
	token := handlertest.Token(t, a, user)
	r := handlertest.Router(a, RegisterRoutes)

	w := handlertest.Do(t, r, http.MethodPost, "/api/v1/picks/validate", PicksRequest{
		Picks: handlertest.ValidPicks(t, a),
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ValidationResponse
	handlertest.Decode(t, w, &resp)
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Errors)

	set, err := services.UserPicks(context.Background(), a.DB, a.Game, user.ID)
	require.NoError(t, err)
	assert.Zero(t, set.PickCount)
}
