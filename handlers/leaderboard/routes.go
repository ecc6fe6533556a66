package leaderboard

import (
	"olympool/app"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the leaderboard routes
func RegisterRoutes(r *gin.RouterGroup, a *app.App) {
	r.GET("/leaderboard", GetLeaderboard(a))
	r.GET("/leaderboard/ws", LeaderboardWebSocket(a))
}
