package users

import (
	"olympool/app"
	"olympool/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to participants
// r: the RouterGroup to which the routes are added
func RegisterRoutes(r *gin.RouterGroup, a *app.App) {
	r.GET("/users/me", middleware.AuthMiddleware(a), GetMe(a))

	users := r.Group("/users")
	users.Use(middleware.OptionalAuthMiddleware(a))
	{
		users.GET("", GetUsers(a))
		users.GET("/:id", GetUser(a))
	}
}
