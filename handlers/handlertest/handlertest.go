// Package handlertest builds apps and requests for handler tests.
package handlertest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"olympool/app"
	"olympool/config"
	"olympool/database"
	"olympool/models"
	"olympool/services"
	"olympool/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Password is the password of every user created by CreateUser
const Password = "secret1"

// NewApp returns an app over a private in-memory database seeded with the
// reference countries, with the clock fixed at now
func NewApp(t *testing.T, now time.Time) *app.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:handler_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	_, err = database.SeedCountries(context.Background(), db)
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := app.New(config.Default(), config.DefaultGame(), db, nil, nil, log)
	a.Clock = func() time.Time { return now }
	return a
}

// BeforeDeadline is a day before picks lock
func BeforeDeadline() time.Time {
	return config.DefaultGame().PickDeadline.Add(-24 * time.Hour)
}

// AfterDeadline is a day after picks lock
func AfterDeadline() time.Time {
	return config.DefaultGame().PickDeadline.Add(24 * time.Hour)
}

// Router mounts the routes registered by register under /api/v1
func Router(a *app.App, register func(*gin.RouterGroup, *app.App)) *gin.Engine {
	r := gin.New()
	register(r.Group("/api/v1"), a)
	return r
}

// CreateUser registers a user, promoted to admin when admin is set
func CreateUser(t *testing.T, a *app.App, username string, admin bool) *models.User {
	t.Helper()
	user, err := services.RegisterUser(context.Background(), a.DB, services.RegisterInput{
		Username:        username,
		Email:           username + "@example.com",
		Password:        Password,
		ConfirmPassword: Password,
	})
	require.NoError(t, err)
	if admin {
		require.NoError(t, a.DB.Model(user).Update("is_admin", true).Error)
		user.IsAdmin = true
	}
	return user
}

// Token issues a bearer token for user
func Token(t *testing.T, a *app.App, user *models.User) string {
	t.Helper()
	token, err := utils.GenerateJWT(user.ID, user.IsAdmin, a.Cfg.JWT.Secret, time.Hour, time.Now())
	require.NoError(t, err)
	return token
}

// CountryID returns the ID of the country with the given code
func CountryID(t *testing.T, a *app.App, code string) uint {
	t.Helper()
	var c models.Country
	require.NoError(t, a.DB.Where("code = ?", code).First(&c).Error)
	return c.ID
}

// ValidPicks is a complete entry built from the reference tiers
func ValidPicks(t *testing.T, a *app.App) map[int][]uint {
	t.Helper()
	ids := func(codes ...string) []uint {
		out := make([]uint, 0, len(codes))
		for _, code := range codes {
			out = append(out, CountryID(t, a, code))
		}
		return out
	}
	return map[int][]uint{
		1: ids("USA"),
		2: ids("NED", "AUT"),
		3: ids("CHN"),
		4: ids("FIN"),
		5: ids("POL"),
		6: ids("NZL", "UKR"),
	}
}

// Do sends a JSON request. A non-empty token is sent as a bearer token.
func Do(t *testing.T, h http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// Decode unmarshals a response body into dest
func Decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}
