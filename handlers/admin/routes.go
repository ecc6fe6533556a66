package admin

import (
	"olympool/app"
	"olympool/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the admin routes
// r: the RouterGroup to which the routes are added
func RegisterRoutes(r *gin.RouterGroup, a *app.App) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(a), middleware.AdminMiddleware())
	{
		admin.GET("/dashboard", GetDashboard(a))
		admin.GET("/users", GetUsers(a))
		admin.POST("/users/import", ImportUsers(a))
		admin.POST("/users/:id/reset-password", ResetPassword(a))
		admin.POST("/medals", UpdateMedals(a))
		admin.GET("/medals/audit", GetMedalAudit(a))
		admin.POST("/calculate", CalculateScores(a))
		admin.GET("/picks", GetAllPicks(a))
		admin.GET("/export", ExportWorkbook(a))
		admin.POST("/seed", SeedCountries(a))
		admin.POST("/complete", CompleteGame(a))
	}
}
