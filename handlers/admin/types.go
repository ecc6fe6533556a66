package admin

import (
	"olympool/leaderboard"
	"olympool/models"
)

// Constants for error messages
const (
	ErrCountryNotFound = "Country not found"
	ErrUserNotFound    = "User not found"
	ErrFetchDashboard  = "Failed to fetch dashboard"
	ErrFetchUsers      = "Failed to fetch users"
	ErrFetchPicks      = "Failed to fetch picks"
	ErrFetchAudit      = "Failed to fetch medal audit"
	ErrExport          = "Failed to export workbook"
	ErrNoFile          = "Failed to get file"
	ErrOpenFile        = "Failed to open file"
	ErrSeed            = "Failed to seed countries"
	MsgScoresUpdated   = "Scores recalculated."
)

// AuditLimit caps the audit entries returned by default
const AuditLimit = 100

// XLSXContentType is the media type of exported workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MedalUpdateRequest sets a country's medal counts
type MedalUpdateRequest struct {
	CountryID     uint `json:"country_id" binding:"required"`
	Gold          int  `json:"gold"`
	Silver        int  `json:"silver"`
	Bronze        int  `json:"bronze"`
	AllowDecrease bool `json:"allow_decrease"`
}

// ResetPasswordRequest holds the new password chosen by an admin
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

// ImportUsersRequest is the form of a user import
type ImportUsersRequest struct {
	Password string `form:"password" binding:"required"`
}

// SeedRequest controls a reseed of the reference countries
type SeedRequest struct {
	Reset bool `json:"reset"`
}

// CompleteResponse reports the winners of a finished pool
type CompleteResponse struct {
	GameState *models.GameState   `json:"game_state"`
	Winners   []leaderboard.Entry `json:"winners"`
}
