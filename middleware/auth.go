package middleware

import (
	"errors"
	"net/http"
	"strings"

	"olympool/app"
	"olympool/models"
	"olympool/utils"
	"olympool/utils/response"

	"github.com/gin-gonic/gin"
)

// AuthCookieName is the cookie carrying the session token
const AuthCookieName = "auth_token"

const userContextKey = "user"

// Constants for error messages
const (
	ErrNoTokenProvided     = "No token provided"
	ErrInvalidExpiredToken = "Invalid or expired token"
	ErrUserNotFound        = "User not found"
	ErrAdminRequired       = "Admin access required"
)

var errUnauthenticated = errors.New("unauthenticated")

// TokenFromRequest returns the token from the auth cookie, or from a Bearer
// Authorization header when there is no cookie
func TokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(AuthCookieName); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// loadUser resolves the request token to a user, or returns an error message
func loadUser(c *gin.Context, a *app.App) (*models.User, string) {
	token := TokenFromRequest(c)
	if token == "" {
		return nil, ErrNoTokenProvided
	}
	claims, err := utils.ParseJWT(token, a.Cfg.JWT.Secret)
	if err != nil {
		return nil, ErrInvalidExpiredToken
	}

	var user models.User
	if err := a.DB.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, ""
}

// AuthMiddleware rejects requests without a valid token and stores the user
// in the context
func AuthMiddleware(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, msg := loadUser(c, a)
		if user == nil {
			response.Error(c, http.StatusUnauthorized, msg)
			c.Abort()
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// OptionalAuthMiddleware stores the user when a valid token is present and
// lets anonymous requests through
func OptionalAuthMiddleware(a *app.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, _ := loadUser(c, a); user != nil {
			c.Set(userContextKey, user)
		}
		c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Error(c, http.StatusUnauthorized, ErrNoTokenProvided)
			c.Abort()
			return
		}
		if !user.IsAdmin {
			response.Error(c, http.StatusForbidden, ErrAdminRequired)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, nil for anonymous requests
func CurrentUser(c *gin.Context) *models.User {
	value, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}

// GetUserFromRequest returns the authenticated user. When there is none it
// writes a 401 and returns an error, so handlers can simply return.
func GetUserFromRequest(c *gin.Context) (*models.User, error) {
	user := CurrentUser(c)
	if user == nil {
		response.Error(c, http.StatusUnauthorized, ErrNoTokenProvided)
		c.Abort()
		return nil, errUnauthenticated
	}
	return user, nil
}
