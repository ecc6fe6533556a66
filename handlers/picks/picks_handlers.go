package picks

import (
	"net/http"

	"olympool/app"
	"olympool/handlers"
	"olympool/middleware"
	"olympool/services"
	"olympool/utils/response"

	"github.com/gin-gonic/gin"
)

// GetMyPicks returns the authenticated user's entry
// @Summary Get my picks
// @Description The caller's picks grouped by tier, with the tiebreaker guess
// @Tags Picks
// @Produce json
// @Success 200 {object} PicksResponse
// @Failure 401 {object} map[string]string
// @Router /picks [get]
// @Security Bearer
func GetMyPicks(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := middleware.GetUserFromRequest(c)
		if err != nil {
			return
		}

		set, err := services.UserPicks(c.Request.Context(), a.DB, a.Game, user.ID)
		if err != nil {
			handlers.RespondWithServiceError(c, a.Log, err, middleware.ErrUserNotFound)
			return
		}

		resp := PicksResponse{PickSet: set, PicksLocked: a.PicksLocked(), PickDeadline: a.Game.PickDeadline}
		if resp.PicksLocked {
			resp.Message = MsgPicksLocked
		}
		c.JSON(http.StatusOK, resp)
	}
}

// SubmitPicks replaces the authenticated user's entry
// @Summary Submit picks
// @Description Replace all picks and the tiebreaker guess. Every problem is reported at once and nothing is saved unless the entry is valid.
// @Tags Picks
// @Accept json
// @Produce json
// @Param picks body PicksRequest true "Country IDs by tier and tiebreaker guess"
// @Success 200 {object} PicksResponse
// @Failure 400 {object} map[string][]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /picks [put]
// @Security Bearer
func SubmitPicks(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := middleware.GetUserFromRequest(c)
		if err != nil {
			return
		}

		var req PicksRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, handlers.ErrInvalidRequest)
			return
		}

		set, err := services.SubmitPicks(c.Request.Context(), a, user.ID, req.Picks, req.guess())
		if err != nil {
			handlers.RespondWithServiceError(c, a.Log, err, middleware.ErrUserNotFound)
			return
		}

		c.JSON(http.StatusOK, PicksResponse{
			PickSet:      set,
			PicksLocked:  false,
			PickDeadline: a.Game.PickDeadline,
			Message:      MsgPicksSaved,
		})
	}
}

// ValidatePicks checks an entry without saving it
// @Summary Validate picks
// @Tags Picks
// @Accept json
// @Produce json
// @Param picks body PicksRequest true "Country IDs by tier"
// @Success 200 {object} ValidationResponse
// @Router /picks/validate [post]
// @Security Bearer
func ValidatePicks(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := middleware.GetUserFromRequest(c)
		if err != nil {
			return
		}

		var req PicksRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, handlers.ErrInvalidRequest)
			return
		}

		valid, errs := services.ValidatePicks(c.Request.Context(), a.DB, a.Game, a.Now(), user.ID, req.Picks)
		if errs == nil {
			errs = []string{}
		}
		c.JSON(http.StatusOK, ValidationResponse{Valid: valid, Errors: errs})
	}
}
