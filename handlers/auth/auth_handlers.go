package auth

import (
	"errors"
	"net/http"
	"time"

	"olympool/app"
	"olympool/handlers"
	"olympool/middleware"
	"olympool/services"
	"olympool/utils"
	"olympool/utils/response"

	"github.com/gin-gonic/gin"
)

// Login authenticates a user and issues a token
// @Summary User Login
// @Description Authenticate with username and password. The token is returned in the body and set as the auth_token cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login Credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func Login(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, handlers.ErrInvalidRequest)
			return
		}

		user, err := services.Authenticate(c.Request.Context(), a.DB, req.Username, req.Password)
		if errors.Is(err, services.ErrBadCredentials) {
			response.Error(c, http.StatusUnauthorized, ErrInvalidCredentials)
			return
		}
		if err != nil {
			handlers.RespondWithServiceError(c, a.Log, err, ErrInvalidCredentials)
			return
		}

		ttl := a.Cfg.JWT.DefaultTTL
		if req.RememberMe {
			ttl = a.Cfg.JWT.RememberMe
		}
		token, err := utils.GenerateJWT(user.ID, user.IsAdmin, a.Cfg.JWT.Secret, ttl, time.Now())
		if err != nil {
			a.Log.Error("Token generation failed", "user_id", user.ID, "error", err)
			response.Error(c, http.StatusInternalServerError, ErrTokenGenerateFailed)
			return
		}

		setCookieToken(c, token, ttl, a.Cfg.Server.SecureCookies)
		a.Log.Info("User logged in", "user_id", user.ID)
		c.JSON(http.StatusOK, AuthResponse{
			Token:   token,
			Message: "Welcome back, " + user.GetDisplayName() + "!",
			User:    newUserResponse(user),
		})
	}
}

// RegisterUser creates an account
// @Summary Register User
// @Description Create an account. Usernames and emails are unique regardless of case.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration data"
// @Success 201 {object} UserResponse
// @Failure 400 {object} map[string][]string
// @Router /auth/register [post]
func RegisterUser(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, handlers.ErrInvalidRequest)
			return
		}

		user, err := services.RegisterUser(c.Request.Context(), a.DB, services.RegisterInput{
			Username:        req.Username,
			Email:           req.Email,
			Password:        req.Password,
			ConfirmPassword: req.ConfirmPassword,
			DisplayName:     req.DisplayName,
		})
		if err != nil {
			handlers.RespondWithServiceError(c, a.Log, err, "")
			return
		}

		a.Log.Info("User registered", "user_id", user.ID, "username", user.Username)
		c.JSON(http.StatusCreated, gin.H{
			"message": services.MsgRegistrationSucceeded,
			"user":    newUserResponse(user),
		})
	}
}

// Logout clears the auth cookie
// @Summary Logout
// @Description Clear the authentication cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func Logout(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		setCookieToken(c, "", -1, a.Cfg.Server.SecureCookies)
		response.Message(c, http.StatusOK, ErrLogoutSuccess)
	}
}

// CheckAuth returns the authenticated user
// @Summary Check authentication
// @Description Return the user the request is authenticated as
// @Tags Auth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} map[string]string
// @Router /auth/check [get]
// @Security Bearer
func CheckAuth(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := middleware.GetUserFromRequest(c)
		if err != nil {
			return
		}
		c.JSON(http.StatusOK, newUserResponse(user))
	}
}

// ChangePassword replaces the authenticated user's password
// @Summary Change password
// @Description Change the password after confirming the current one
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Passwords"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string][]string
// @Failure 401 {object} map[string]string
// @Router /auth/password [put]
// @Security Bearer
func ChangePassword(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := middleware.GetUserFromRequest(c)
		if err != nil {
			return
		}

		var req ChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, handlers.ErrInvalidRequest)
			return
		}

		err = services.ChangePassword(c.Request.Context(), a.DB, user.ID, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
		if err != nil {
			handlers.RespondWithServiceError(c, a.Log, err, middleware.ErrUserNotFound)
			return
		}
		response.Message(c, http.StatusOK, services.MsgPasswordChanged)
	}
}
