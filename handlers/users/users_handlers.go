package users

import (
	"errors"
	"net/http"

	"olympool/app"
	"olympool/handlers"
	"olympool/middleware"
	"olympool/services"
	"olympool/utils/response"

	"github.com/gin-gonic/gin"
)

func viewerID(c *gin.Context) uint {
	if user := middleware.CurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}

// GetUsers lists participants with their readiness
// @Summary List users
// @Description Every participant with pick count and ready flag. Points are included once picks are locked.
// @Tags Users
// @Produce json
// @Success 200 {array} services.UserListItem
// @Failure 500 {object} map[string]string
// @Router /users [get]
func GetUsers(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := services.ListUsers(c.Request.Context(), a.DB, a.Game, viewerID(c), a.PicksLocked())
		if err != nil {
			a.Log.Error(ErrFetchUsers, "error", err)
			response.Error(c, http.StatusInternalServerError, ErrFetchUsers)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// GetUser returns a participant's entry
// @Summary Get user
// @Description A user's picks. Before the deadline only the user may see their own entry.
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} services.UserDetail
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /users/{id} [get]
func GetUser(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := handlers.ParseID(c, "id")
		if !ok {
			return
		}

		detail, err := services.GetUserDetail(c.Request.Context(), a.DB, a.Game, id, viewerID(c), a.PicksLocked())
		var serr *services.StateError
		if errors.As(err, &serr) {
			response.Error(c, http.StatusForbidden, serr.Message)
			return
		}
		if err != nil {
			handlers.RespondWithServiceError(c, a.Log, err, ErrUserNotFound)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

// GetMe returns the authenticated user's entry
// @Summary Get my entry
// @Tags Users
// @Produce json
// @Success 200 {object} services.UserDetail
// @Failure 401 {object} map[string]string
// @Router /users/me [get]
// @Security Bearer
func GetMe(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := middleware.GetUserFromRequest(c)
		if err != nil {
			return
		}

		detail, err := services.GetUserDetail(c.Request.Context(), a.DB, a.Game, user.ID, user.ID, a.PicksLocked())
		if err != nil {
			handlers.RespondWithServiceError(c, a.Log, err, ErrUserNotFound)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}
