package picks

import (
	"olympool/app"
	"olympool/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the pick routes, all of which need a logged in user
func RegisterRoutes(r *gin.RouterGroup, a *app.App) {
	picks := r.Group("/picks")
	picks.Use(middleware.AuthMiddleware(a))
	{
		picks.GET("", GetMyPicks(a))
		picks.PUT("", SubmitPicks(a))
		picks.POST("/validate", ValidatePicks(a))
	}
}
