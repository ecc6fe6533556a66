package countries

import (
	"olympool/app"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the public country, medal and rules routes
func RegisterRoutes(r *gin.RouterGroup, a *app.App) {
	r.GET("/countries", GetCountries(a))
	r.GET("/countries/:id", GetCountry(a))
	r.GET("/medals", GetMedalTable(a))
	r.GET("/medals/leaders", GetMedalLeaders(a))
	r.GET("/rules", GetRules(a))
	r.GET("/summary", GetSummary(a))
}
