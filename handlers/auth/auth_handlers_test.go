package auth

import (
	"net/http"
	"testing"

	"olympool/handlers/handlertest"
	"olympool/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	a := handlertest.NewApp(t, handlertest.BeforeDeadline())
	r := handlertest.Router(a, RegisterRoutes)

	w := handlertest.Do(t, r, http.MethodPost, "/api/v1/auth/register", RegisterRequest{
		Username:        "alice",
		Email:           "Alice@Example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		DisplayName:     "Alice A.",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = handlertest.Do(t, r, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Username: "alice",
		Password: "secret1",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp AuthResponse
	handlertest.Decode(t, w, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, "Alice A.", resp.User.DisplayName)

	var cookieSet bool
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.AuthCookieName {
			cookieSet = true
			assert.True(t, cookie.HttpOnly)
			assert.Equal(t, resp.Token, cookie.Value)
		}
	}
	assert.True(t, cookieSet, "auth cookie not set")

	w = handlertest.Do(t, r, http.MethodGet, "/api/v1/auth/check", nil, resp.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var me UserResponse
	handlertest.Decode(t, w, &me)
	assert.Equal(t, "alice", me.Username)
}

func TestRegisterReportsEveryProblem(t *testing.T) {
	a := handlertest.NewApp(t, handlertest.BeforeDeadline())
	handlertest.CreateUser(t, a, "bob", false)
	r := handlertest.Router(a, RegisterRoutes)

	w := handlertest.Do(t, r, http.MethodPost, "/api/v1/auth/register", RegisterRequest{
		Username:        "BOB",
		Email:           "not-an-email",
		Password:        "short",
		ConfirmPassword: "other",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Errors []string `json:"errors"`
	}
	handlertest.Decode(t, w, &body)
	assert.Len(t, body.Errors, 4)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	a := handlertest.NewApp(t, handlertest.BeforeDeadline())
	handlertest.CreateUser(t, a, "carol", false)
	r := handlertest.Router(a, RegisterRoutes)

	w := handlertest.Do(t, r, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Username: "carol",
		Password: "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), ErrInvalidCredentials)
}

func TestCheckRequiresToken(t *testing.T) {
	a := handlertest.NewApp(t, handlertest.BeforeDeadline())
	r := handlertest.Router(a, RegisterRoutes)

	w := handlertest.Do(t, r, http.MethodGet, "/api/v1/auth/check", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = handlertest.Do(t, r, http.MethodGet, "/api/v1/auth/check", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangePassword(t *testing.T) {
	a := handlertest.NewApp(t, handlertest.BeforeDeadline())
	user := handlertest.CreateUser(t, a, "dave", false)
	token := handlertest.Token(t, a, user)
	r := handlertest.Router(a, RegisterRoutes)

	w := handlertest.Do(t, r, http.MethodPut, "/api/v1/auth/password", ChangePasswordRequest{
		CurrentPassword: "wrong1",
		NewPassword:     "newsecret",
		ConfirmPassword: "newsecret",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = handlertest.Do(t, r, http.MethodPut, "/api/v1/auth/password", ChangePasswordRequest{
		CurrentPassword: handlertest.Password,
		NewPassword:     "newsecret",
		ConfirmPassword: "newsecret",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = handlertest.Do(t, r, http.MethodPost, "/api/v1/auth/login", LoginRequest{Username: "dave", Password: "newsecret"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
