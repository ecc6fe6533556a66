package v1

import (
	"log/slog"

	"olympool/app"
	"olympool/config"
	"olympool/handlers/admin"
	"olympool/handlers/auth"
	"olympool/handlers/countries"
	"olympool/handlers/leaderboard"
	"olympool/handlers/picks"
	"olympool/handlers/users"
	"olympool/middleware"

	"github.com/gin-gonic/gin"
)

// Register the endpoints for the v1 API
func Register(r *gin.Engine, a *app.App) {
	v1 := r.Group("/api/v1")

	// Add metrics and request logging to all routes
	v1.Use(middleware.MetricsMiddleware())
	v1.Use(middleware.RequestLogger(a.Log.With(slog.String("component", "http"))))

	rateLimiter := middleware.NewRateLimiter("api", config.DefaultRateLimitConfig)
	v1.Use(middleware.RateLimiterMiddleware(rateLimiter))

	RegisterPingRoutes(v1)
	auth.RegisterRoutes(v1, a)
	countries.RegisterRoutes(v1, a)
	picks.RegisterRoutes(v1, a)
	users.RegisterRoutes(v1, a)
	leaderboard.RegisterRoutes(v1, a)
	admin.RegisterRoutes(v1, a)

	// Register metrics and documentation endpoints
	RegisterMetricsRoutes(v1)
	RegisterSwaggerRoutes(r)
}
