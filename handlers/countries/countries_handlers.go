package countries

import (
	"net/http"

	"olympool/app"
	"olympool/handlers"
	"olympool/services"
	"olympool/utils/response"

	"github.com/gin-gonic/gin"
)

// GetCountries lists the active countries grouped by tier
// @Summary List countries
// @Description Active countries grouped by tier, with flags and medal counts
// @Tags Countries
// @Produce json
// @Success 200 {array} services.TierCountries
// @Failure 500 {object} map[string]string
// @Router /countries [get]
func GetCountries(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		tiers, err := services.CountriesByTier(c.Request.Context(), a.DB, a.Game)
		if err != nil {
			a.Log.Error(ErrFetchCountries, "error", err)
			response.Error(c, http.StatusInternalServerError, ErrFetchCountries)
			return
		}
		c.JSON(http.StatusOK, tiers)
	}
}

// GetCountry returns one country with its points breakdown
// @Summary Get country
// @Description Country detail with a per-medal breakdown. Pickers are listed once picks are locked.
// @Tags Countries
// @Produce json
// @Param id path int true "Country ID"
// @Success 200 {object} services.CountryDetail
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /countries/{id} [get]
func GetCountry(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := handlers.ParseID(c, "id")
		if !ok {
			return
		}

		detail, err := services.GetCountryDetail(c.Request.Context(), a.DB, a.Game, id, a.PicksLocked())
		if err != nil {
			handlers.RespondWithServiceError(c, a.Log, err, ErrCountryNotFound)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

// GetMedalTable returns every country with at least one medal
// @Summary Medal table
// @Description Countries with medals ordered by gold, silver and bronze
// @Tags Countries
// @Produce json
// @Success 200 {object} services.MedalTable
// @Failure 500 {object} map[string]string
// @Router /medals [get]
func GetMedalTable(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, err := services.GetMedalTable(c.Request.Context(), a)
		if err != nil {
			a.Log.Error(ErrFetchMedals, "error", err)
			response.Error(c, http.StatusInternalServerError, ErrFetchMedals)
			return
		}
		c.JSON(http.StatusOK, table)
	}
}

// GetMedalLeaders returns the top of the medal table
// @Summary Medal leaders
// @Tags Countries
// @Produce json
// @Success 200 {array} services.MedalRow
// @Router /medals/leaders [get]
func GetMedalLeaders(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := services.MedalLeaders(c.Request.Context(), a.DB, services.MedalLeadersLimit)
		if err != nil {
			a.Log.Error(ErrFetchMedals, "error", err)
			response.Error(c, http.StatusInternalServerError, ErrFetchMedals)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// GetRules describes tiers, points and the deadline
// @Summary Pool rules
// @Tags Countries
// @Produce json
// @Success 200 {object} RulesResponse
// @Router /rules [get]
func GetRules(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, newRulesResponse(a.Game, a.PicksLocked()))
	}
}

// GetSummary returns participation counts, medal leaders and, after the
// deadline, the leaderboard
// @Summary Pool summary
// @Tags Countries
// @Produce json
// @Success 200 {object} services.Summary
// @Router /summary [get]
func GetSummary(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := services.GetSummary(c.Request.Context(), a)
		if err != nil {
			a.Log.Error(ErrFetchSummary, "error", err)
			response.Error(c, http.StatusInternalServerError, ErrFetchSummary)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}
