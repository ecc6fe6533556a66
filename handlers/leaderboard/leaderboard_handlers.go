package leaderboard

import (
	"errors"
	"net/http"
	"time"

	"olympool/app"
	"olympool/handlers"
	"olympool/realtime"
	"olympool/services"
	"olympool/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// ErrLiveUpdatesDisabled is returned when the server runs without a hub
const ErrLiveUpdatesDisabled = "Live updates are not available"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GetLeaderboard returns the ranked leaderboard
// @Summary Leaderboard
// @Description Ranked by points, then by distance to the tiebreaker country's actual medals. Hidden until picks are locked.
// @Tags Leaderboard
// @Produce json
// @Success 200 {object} services.LeaderboardView
// @Failure 403 {object} map[string]string
// @Router /leaderboard [get]
func GetLeaderboard(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := services.GetLeaderboard(c.Request.Context(), a)
		var serr *services.StateError
		if errors.As(err, &serr) {
			response.Error(c, http.StatusForbidden, serr.Message)
			return
		}
		if err != nil {
			handlers.RespondWithServiceError(c, a.Log, err, "")
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// LeaderboardWebSocket streams leaderboard and medal updates. The current
// leaderboard is sent as soon as the connection opens.
// @Summary Leaderboard updates
// @Tags Leaderboard
// @Router /leaderboard/ws [get]
func LeaderboardWebSocket(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.Hub == nil {
			response.Error(c, http.StatusServiceUnavailable, ErrLiveUpdatesDisabled)
			return
		}
		view, err := services.GetLeaderboard(c.Request.Context(), a)
		var serr *services.StateError
		if errors.As(err, &serr) {
			response.Error(c, http.StatusForbidden, serr.Message)
			return
		}
		if err != nil {
			handlers.RespondWithServiceError(c, a.Log, err, "")
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			a.Log.Warn("WebSocket upgrade error", "error", err)
			return
		}

		// written before registering so the hub never writes concurrently
		snapshot := realtime.Update{Type: "leaderboard", Data: view, SentAt: time.Now()}
		if err := conn.WriteJSON(snapshot); err != nil {
			conn.Close()
			return
		}

		a.Hub.RegisterClient(conn)
		defer func() {
			a.Hub.UnregisterClient(conn)
			conn.Close()
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}
