package auth

import (
	"net/http"
	"time"

	"olympool/middleware"
	"olympool/models"

	"github.com/gin-gonic/gin"
)

// Constants for error messages
const (
	ErrInvalidCredentials  = "Invalid username or password."
	ErrTokenGenerateFailed = "Failed to generate token"
	ErrLogoutSuccess       = "You have been logged out."
)

// LoginRequest model for login endpoints
type LoginRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RegisterRequest model for registration
type RegisterRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	DisplayName     string `json:"display_name"`
}

// ChangePasswordRequest model for password changes
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// UserResponse is the authenticated user as returned to clients
type UserResponse struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	IsAdmin     bool      `json:"is_admin"`
	TotalPoints int       `json:"total_points"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuthResponse model for authentication responses
type AuthResponse struct {
	Token   string       `json:"token"`
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.GetDisplayName(),
		IsAdmin:     u.IsAdmin,
		TotalPoints: u.TotalPoints,
		CreatedAt:   u.CreatedAt,
	}
}

// setCookieToken sets the authentication token as an HTTP-only cookie
func setCookieToken(c *gin.Context, token string, maxAge time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middleware.AuthCookieName,
		token,
		int(maxAge.Seconds()),
		"/",
		"",
		secure,
		true,
	)
}
