package auth

import (
	"olympool/app"
	"olympool/config"
	"olympool/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all routes related to authentication
// r: the RouterGroup to which routes are added
func RegisterRoutes(r *gin.RouterGroup, a *app.App) {
	limiter := middleware.NewRateLimiter("auth", config.AuthRateLimitConfig)

	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimiterMiddleware(limiter), Login(a))
		auth.POST("/register", middleware.RateLimiterMiddleware(limiter), RegisterUser(a))
		auth.POST("/logout", Logout(a))
		auth.GET("/check", middleware.AuthMiddleware(a), CheckAuth(a))
		auth.PUT("/password", middleware.AuthMiddleware(a), ChangePassword(a))
	}
}
