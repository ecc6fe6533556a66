package admin

import (
	"fmt"
	"net/http"
	"strconv"

	"olympool/app"
	"olympool/handlers"
	"olympool/middleware"
	"olympool/scoring"
	"olympool/services"
	"olympool/utils/response"

	"github.com/gin-gonic/gin"
)

// GetDashboard returns pool-wide counts
// @Summary Admin dashboard
// @Tags Admin
// @Produce json
// @Success 200 {object} services.Dashboard
// @Failure 403 {object} map[string]string
// @Router /admin/dashboard [get]
// @Security Bearer
func GetDashboard(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := services.GetDashboard(c.Request.Context(), a.DB, a.PicksLocked())
		if err != nil {
			a.Log.Error(ErrFetchDashboard, "error", err)
			response.Error(c, http.StatusInternalServerError, ErrFetchDashboard)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

// GetUsers lists every account
// @Summary Admin users list
// @Tags Admin
// @Produce json
// @Success 200 {array} services.AdminUser
// @Router /admin/users [get]
// @Security Bearer
func GetUsers(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := services.ListAdminUsers(c.Request.Context(), a.DB)
		if err != nil {
			a.Log.Error(ErrFetchUsers, "error", err)
			response.Error(c, http.StatusInternalServerError, ErrFetchUsers)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// ResetPassword sets a user's password
// @Summary Reset a user's password
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body ResetPasswordRequest true "New password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string][]string
// @Failure 404 {object} map[string]string
// @Router /admin/users/{id}/reset-password [post]
// @Security Bearer
func ResetPassword(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := handlers.ParseID(c, "id")
		if !ok {
			return
		}

		var req ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, handlers.ErrInvalidRequest)
			return
		}

		user, err := services.ResetPassword(c.Request.Context(), a.DB, id, req.NewPassword)
		if err != nil {
			handlers.RespondWithServiceError(c, a.Log, err, ErrUserNotFound)
			return
		}
		a.Log.Info("Password reset by admin", "user_id", user.ID, "admin_id", middleware.CurrentUser(c).ID)
		response.Message(c, http.StatusOK, fmt.Sprintf("Password reset for %s.", user.GetDisplayName()))
	}
}

// UpdateMedals sets a country's medal counts and rescores every user
// @Summary Update medals
// @Description Set medal counts. Decreases require allow_decrease. Identical counts are a no-op.
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body MedalUpdateRequest true "Medal counts"
// @Success 200 {object} services.MedalUpdateResult
// @Failure 400 {object} map[string][]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/medals [post]
// @Security Bearer
func UpdateMedals(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MedalUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, handlers.ErrInvalidRequest)
			return
		}

		adminID := middleware.CurrentUser(c).ID
		result, err := services.UpdateMedals(c.Request.Context(), a, services.MedalUpdate{
			CountryID:     req.CountryID,
			Medals:        scoring.Medals{Gold: req.Gold, Silver: req.Silver, Bronze: req.Bronze},
			AllowDecrease: req.AllowDecrease,
			UpdatedByID:   &adminID,
			Source:        services.SourceAdminForm,
		})
		if err != nil {
			handlers.RespondWithServiceError(c, a.Log, err, ErrCountryNotFound)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// GetMedalAudit lists medal changes, newest first
// @Summary Medal audit log
// @Tags Admin
// @Produce json
// @Param country_id query int false "Only this country"
// @Param limit query int false "Maximum entries"
// @Success 200 {array} models.MedalAudit
// @Router /admin/medals/audit [get]
// @Security Bearer
func GetMedalAudit(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		countryID, _ := strconv.ParseUint(c.Query("country_id"), 10, 64)
		limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(AuditLimit)))
		if err != nil || limit <= 0 {
			limit = AuditLimit
		}

		entries, err := services.MedalAuditLog(c.Request.Context(), a.DB, uint(countryID), limit)
		if err != nil {
			a.Log.Error(ErrFetchAudit, "error", err)
			response.Error(c, http.StatusInternalServerError, ErrFetchAudit)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

// CalculateScores recomputes every pick and user total
// @Summary Recalculate scores
// @Tags Admin
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/calculate [post]
// @Security Bearer
func CalculateScores(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := services.RecalculateScores(c.Request.Context(), a); err != nil {
			handlers.RespondWithServiceError(c, a.Log, err, "")
			return
		}
		response.Message(c, http.StatusOK, MsgScoresUpdated)
	}
}

// GetAllPicks returns every user's entry
// @Summary All picks
// @Tags Admin
// @Produce json
// @Success 200 {array} services.AdminPicks
// @Router /admin/picks [get]
// @Security Bearer
func GetAllPicks(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		picks, err := services.ListAllPicks(c.Request.Context(), a.DB, a.Game)
		if err != nil {
			a.Log.Error(ErrFetchPicks, "error", err)
			response.Error(c, http.StatusInternalServerError, ErrFetchPicks)
			return
		}
		c.JSON(http.StatusOK, picks)
	}
}

// ExportWorkbook downloads the leaderboard, picks and medals as XLSX
// @Summary Export workbook
// @Tags Admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /admin/export [get]
// @Security Bearer
func ExportWorkbook(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := services.ExportWorkbook(c.Request.Context(), a)
		if err != nil {
			a.Log.Error(ErrExport, "error", err)
			response.Error(c, http.StatusInternalServerError, ErrExport)
			return
		}
		defer f.Close()

		filename := fmt.Sprintf("olympics-pool-%s.xlsx", a.Now().Format("2006-01-02"))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Header("Content-Type", XLSXContentType)
		c.Status(http.StatusOK)
		if err := f.Write(c.Writer); err != nil {
			a.Log.Error(ErrExport, "error", err)
		}
	}
}

// ImportUsers creates accounts from an XLSX upload
// @Summary Import users
// @Description Creates an account per row with username and email columns. Existing accounts are skipped.
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "XLSX file"
// @Param password formData string true "Initial password"
// @Success 201 {object} services.ImportResult
// @Failure 400 {object} map[string][]string
// @Router /admin/users/import [post]
// @Security Bearer
func ImportUsers(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ImportUsersRequest
		if err := c.ShouldBind(&req); err != nil {
			response.Error(c, http.StatusBadRequest, handlers.ErrInvalidRequest)
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			response.Error(c, http.StatusBadRequest, ErrNoFile)
			return
		}
		opened, err := file.Open()
		if err != nil {
			response.Error(c, http.StatusInternalServerError, ErrOpenFile)
			return
		}
		defer opened.Close()

		result, err := services.ImportUsers(c.Request.Context(), a, opened, req.Password)
		if err != nil {
			handlers.RespondWithServiceError(c, a.Log, err, "")
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

// SeedCountries reloads the reference countries
// @Summary Seed countries
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body SeedRequest false "Deactivate countries missing from the reference set"
// @Success 200 {object} services.SeedSummary
// @Router /admin/seed [post]
// @Security Bearer
func SeedCountries(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SeedRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				response.Error(c, http.StatusBadRequest, handlers.ErrInvalidRequest)
				return
			}
		}

		summary, err := services.SeedCountries(c.Request.Context(), a.DB, a.Game, req.Reset)
		if err != nil {
			a.Log.Error(ErrSeed, "error", err)
			response.Error(c, http.StatusInternalServerError, ErrSeed)
			return
		}
		a.Cache.Invalidate(c.Request.Context(), services.MedalTableCacheKey)
		c.JSON(http.StatusOK, summary)
	}
}

// CompleteGame closes the pool and records the winners
// @Summary Complete the game
// @Tags Admin
// @Produce json
// @Success 200 {object} CompleteResponse
// @Failure 409 {object} map[string]string
// @Router /admin/complete [post]
// @Security Bearer
func CompleteGame(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, winners, err := services.CompleteGame(c.Request.Context(), a)
		if err != nil {
			handlers.RespondWithServiceError(c, a.Log, err, "")
			return
		}
		c.JSON(http.StatusOK, CompleteResponse{GameState: state, Winners: winners})
	}
}
