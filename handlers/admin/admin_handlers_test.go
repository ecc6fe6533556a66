package admin

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"olympool/handlers/handlertest"
	"olympool/models"
	"olympool/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestAdminRoutesRequireAdmin(t *testing.T) {
	a := handlertest.NewApp(t, handlertest.BeforeDeadline())
	user := handlertest.CreateUser(t, a, "alice", false)
	r := handlertest.Router(a, RegisterRoutes)

	w := handlertest.Do(t, r, http.MethodGet, "/api/v1/admin/dashboard", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = handlertest.Do(t, r, http.MethodGet, "/api/v1/admin/dashboard", nil, handlertest.Token(t, a, user))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateMedalsFlow(t *testing.T) {
	a := handlertest.NewApp(t, handlertest.AfterDeadline())
	admin := handlertest.CreateUser(t, a, "admin", true)
	token := handlertest.Token(t, a, admin)
	r := handlertest.Router(a, RegisterRoutes)
	usa := handlertest.CountryID(t, a, "USA")

	w := handlertest.Do(t, r, http.MethodPost, "/api/v1/admin/medals", MedalUpdateRequest{
		CountryID: usa, Gold: 2, Silver: 1, Bronze: 1,
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result services.MedalUpdateResult
	handlertest.Decode(t, w, &result)
	assert.True(t, result.Changed)

	// identical counts change nothing
	w = handlertest.Do(t, r, http.MethodPost, "/api/v1/admin/medals", MedalUpdateRequest{
		CountryID: usa, Gold: 2, Silver: 1, Bronze: 1,
	}, token)
	require.Equal(t, http.StatusOK, w.Code)
	handlertest.Decode(t, w, &result)
	assert.False(t, result.Changed)

	w = handlertest.Do(t, r, http.MethodPost, "/api/v1/admin/medals", MedalUpdateRequest{
		CountryID: usa, Gold: 1, Silver: 1, Bronze: 1,
	}, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = handlertest.Do(t, r, http.MethodPost, "/api/v1/admin/medals", MedalUpdateRequest{
		CountryID: usa, Gold: -1,
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = handlertest.Do(t, r, http.MethodPost, "/api/v1/admin/medals", MedalUpdateRequest{
		CountryID: 999999, Gold: 1,
	}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = handlertest.Do(t, r, http.MethodGet, "/api/v1/admin/medals/audit", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var audit []models.MedalAudit
	handlertest.Decode(t, w, &audit)
	require.Len(t, audit, 1)
	assert.Equal(t, services.SourceAdminForm, audit[0].Source)
	require.NotNil(t, audit[0].UpdatedByID)
	assert.Equal(t, admin.ID, *audit[0].UpdatedByID)
}

func TestResetPassword(t *testing.T) {
	a := handlertest.NewApp(t, handlertest.BeforeDeadline())
	admin := handlertest.CreateUser(t, a, "admin", true)
	user := handlertest.CreateUser(t, a, "bob", false)
	token := handlertest.Token(t, a, admin)
	r := handlertest.Router(a, RegisterRoutes)

	w := handlertest.Do(t, r, http.MethodPost, "/api/v1/admin/users/999999/reset-password", ResetPasswordRequest{NewPassword: "another1"}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = handlertest.Do(t, r, http.MethodPost, "/api/v1/admin/users/"+strconv.FormatUint(uint64(user.ID), 10)+"/reset-password", ResetPasswordRequest{NewPassword: "abc"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = handlertest.Do(t, r, http.MethodPost, "/api/v1/admin/users/"+strconv.FormatUint(uint64(user.ID), 10)+"/reset-password", ResetPasswordRequest{NewPassword: "another1"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, err := services.Authenticate(context.Background(), a.DB, "bob", "another1")
	assert.NoError(t, err)
}

func TestDashboardAndCalculate(t *testing.T) {
	a := handlertest.NewApp(t, handlertest.BeforeDeadline())
	admin := handlertest.CreateUser(t, a, "admin", true)
	token := handlertest.Token(t, a, admin)
	r := handlertest.Router(a, RegisterRoutes)

	w := handlertest.Do(t, r, http.MethodPost, "/api/v1/admin/calculate", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = handlertest.Do(t, r, http.MethodGet, "/api/v1/admin/dashboard", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var d services.Dashboard
	handlertest.Decode(t, w, &d)
	assert.EqualValues(t, 1, d.TotalUsers)
	assert.False(t, d.PicksLocked)
	require.NotNil(t, d.GameState)
	assert.NotNil(t, d.GameState.ScoresCalculatedAt)
}

func TestCompleteGameBeforeDeadline(t *testing.T) {
	a := handlertest.NewApp(t, handlertest.BeforeDeadline())
	admin := handlertest.CreateUser(t, a, "admin", true)
	r := handlertest.Router(a, RegisterRoutes)

	w := handlertest.Do(t, r, http.MethodPost, "/api/v1/admin/complete", nil, handlertest.Token(t, a, admin))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestExportWorkbook(t *testing.T) {
	a := handlertest.NewApp(t, handlertest.AfterDeadline())
	admin := handlertest.CreateUser(t, a, "admin", true)
	r := handlertest.Router(a, RegisterRoutes)

	w := handlertest.Do(t, r, http.MethodGet, "/api/v1/admin/export", nil, handlertest.Token(t, a, admin))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, XLSXContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), services.SheetLeaderboard)
	assert.Contains(t, f.GetSheetList(), services.SheetMedals)
}

func TestImportUsers(t *testing.T) {
	a := handlertest.NewApp(t, handlertest.BeforeDeadline())
	admin := handlertest.CreateUser(t, a, "admin", true)
	r := handlertest.Router(a, RegisterRoutes)

	xlsx := excelize.NewFile()
	sheet := xlsx.GetSheetName(0)
	require.NoError(t, xlsx.SetSheetRow(sheet, "A1", &[]interface{}{"Username", "Email", "Display Name"}))
	require.NoError(t, xlsx.SetSheetRow(sheet, "A2", &[]interface{}{"erin", "erin@example.com", "Erin"}))
	require.NoError(t, xlsx.SetSheetRow(sheet, "A3", &[]interface{}{"admin", "admin2@example.com", ""}))
	var upload bytes.Buffer
	require.NoError(t, xlsx.Write(&upload))
	xlsx.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("password", "welcome1"))
	part, err := mw.CreateFormFile("file", "users.xlsx")
	require.NoError(t, err)
	_, err = part.Write(upload.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+handlertest.Token(t, a, admin))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var result services.ImportResult
	handlertest.Decode(t, w, &result)
	assert.Equal(t, []string{"erin"}, result.Created)
	assert.Equal(t, []string{"admin"}, result.Skipped)
}
