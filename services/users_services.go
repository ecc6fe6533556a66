package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"olympool/config"
	"olympool/models"
	"olympool/utils"

	"gorm.io/gorm"
)

// MinPasswordLength applies to registration, password changes and resets
const MinPasswordLength = 6

// Constants for account messages
const (
	ErrUsernameTooShort      = "Username must be at least 3 characters."
	ErrUsernameTaken         = "Username already taken."
	ErrEmailInvalid          = "The email address is not valid."
	ErrEmailTaken            = "Email already registered."
	ErrPasswordTooShort      = "Password must be at least 6 characters."
	ErrPasswordMismatch      = "Passwords do not match."
	ErrInvalidCredentials    = "Invalid username or password."
	ErrCurrentPasswordWrong  = "Current password is incorrect."
	ErrNewPasswordTooShort   = "New password must be at least 6 characters."
	ErrNewPasswordMismatch   = "New passwords do not match."
	ErrPicksHidden           = "Picks will be visible after the deadline."
	MsgPasswordChanged       = "Password changed successfully!"
	MsgRegistrationSucceeded = "Registration successful! Please log in to make your picks."
)

// ErrBadCredentials is returned by Authenticate for unknown users and wrong passwords
var ErrBadCredentials = errors.New(ErrInvalidCredentials)

// RegisterInput holds a registration request
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	DisplayName     string
}

// UserSummary is the public identity of a user
type UserSummary struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// UserListItem is one row of the players list. Points stay hidden until
// picks lock.
type UserListItem struct {
	ID            uint      `json:"id"`
	DisplayName   string    `json:"display_name"`
	CreatedAt     time.Time `json:"created_at"`
	PickCount     int       `json:"pick_count"`
	HasTiebreaker bool      `json:"has_tiebreaker"`
	Ready         bool      `json:"ready"`
	IsCurrentUser bool      `json:"is_current_user"`
	TotalPoints   *int      `json:"total_points"`
}

// UserDetail is a user with their entry
type UserDetail struct {
	UserSummary
	TotalPoints int      `json:"total_points"`
	Picks       *PickSet `json:"picks"`
}

// RegisterUser validates and creates a user. Username and email are unique
// regardless of case.
func RegisterUser(ctx context.Context, db *gorm.DB, in RegisterInput) (*models.User, error) {
	db = db.WithContext(ctx)
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	var errs []string
	if len(username) < 3 {
		errs = append(errs, ErrUsernameTooShort)
	}
	taken, err := exists(db, "LOWER(username) = ?", strings.ToLower(username))
	if err != nil {
		return nil, err
	}
	if taken {
		errs = append(errs, ErrUsernameTaken)
	}

	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		errs = append(errs, ErrEmailInvalid)
	} else {
		email = strings.ToLower(email)
		taken, err := exists(db, "LOWER(email) = ?", email)
		if err != nil {
			return nil, err
		}
		if taken {
			errs = append(errs, ErrEmailTaken)
		}
	}

	if len(in.Password) < MinPasswordLength {
		errs = append(errs, ErrPasswordTooShort)
	}
	if in.Password != in.ConfirmPassword {
		errs = append(errs, ErrPasswordMismatch)
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Messages: errs}
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{Username: username, Email: email, PasswordHash: hash}
	if name := strings.TrimSpace(in.DisplayName); name != "" {
		user.DisplayName = &name
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, &PersistenceError{Op: "Failed to create user", Err: err}
	}
	return &user, nil
}

// CreateAdmin creates an admin account, or promotes the existing user with
// that username
func CreateAdmin(ctx context.Context, db *gorm.DB, username, email, password string) (*models.User, error) {
	if len(password) < MinPasswordLength {
		return nil, &ValidationError{Messages: []string{ErrPasswordTooShort}}
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	db = db.WithContext(ctx)
	var user models.User
	err = db.Where("LOWER(username) = ?", strings.ToLower(username)).First(&user).Error
	switch {
	case err == nil:
		user.IsAdmin = true
		user.PasswordHash = hash
		if err := db.Save(&user).Error; err != nil {
			return nil, &PersistenceError{Op: "Failed to promote user", Err: err}
		}
		return &user, nil
	case !isNotFound(err):
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	user = models.User{
		Username:     username,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		IsAdmin:      true,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, &PersistenceError{Op: "Failed to create admin", Err: err}
	}
	return &user, nil
}

// Authenticate checks a username and password, ignoring username case
func Authenticate(ctx context.Context, db *gorm.DB, username, password string) (*models.User, error) {
	var user models.User
	err := db.WithContext(ctx).Where("LOWER(username) = ?", strings.ToLower(strings.TrimSpace(username))).First(&user).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrBadCredentials
	}
	return &user, nil
}

// GetUser loads a user by ID
func GetUser(ctx context.Context, db *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if isNotFound(err) {
			return nil, notFound("user")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// ChangePassword replaces a user's password after checking the current one
func ChangePassword(ctx context.Context, db *gorm.DB, userID uint, current, next, confirm string) error {
	user, err := GetUser(ctx, db, userID)
	if err != nil {
		return err
	}

	switch {
	case !utils.CheckPasswordHash(current, user.PasswordHash):
		return validationError(ErrCurrentPasswordWrong)
	case len(next) < MinPasswordLength:
		return validationError(ErrNewPasswordTooShort)
	case next != confirm:
		return validationError(ErrNewPasswordMismatch)
	}
	return setPassword(ctx, db, user.ID, next)
}

// ResetPassword sets a user's password without knowing the old one
func ResetPassword(ctx context.Context, db *gorm.DB, userID uint, password string) (*models.User, error) {
	user, err := GetUser(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(password)) < MinPasswordLength {
		return nil, validationError(ErrPasswordTooShort)
	}
	if err := setPassword(ctx, db, user.ID, strings.TrimSpace(password)); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns every user in registration order with their readiness
func ListUsers(ctx context.Context, db *gorm.DB, game *config.Game, currentUserID uint, locked bool) ([]UserListItem, error) {
	db = db.WithContext(ctx)

	var users []models.User
	if err := db.Select("id", "username", "display_name", "created_at", "total_points").Order("created_at, id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	pickCounts, err := pickCountsByUser(db)
	if err != nil {
		return nil, err
	}
	var guessers []uint
	if err := db.Model(&models.Tiebreaker{}).Pluck("user_id", &guessers).Error; err != nil {
		return nil, fmt.Errorf("failed to load tiebreakers: %w", err)
	}
	hasGuess := make(map[uint]bool, len(guessers))
	for _, id := range guessers {
		hasGuess[id] = true
	}

	items := make([]UserListItem, 0, len(users))
	for _, u := range users {
		item := UserListItem{
			ID:            u.ID,
			DisplayName:   u.GetDisplayName(),
			CreatedAt:     u.CreatedAt,
			PickCount:     pickCounts[u.ID],
			HasTiebreaker: hasGuess[u.ID],
			IsCurrentUser: currentUserID != 0 && u.ID == currentUserID,
		}
		item.Ready = item.PickCount == game.TotalPicks() && item.HasTiebreaker
		if locked {
			points := u.TotalPoints
			item.TotalPoints = &points
		}
		items = append(items, item)
	}
	return items, nil
}

// GetUserDetail returns a user's entry. Before the deadline only the user
// themself may see it.
func GetUserDetail(ctx context.Context, db *gorm.DB, game *config.Game, userID, viewerID uint, locked bool) (*UserDetail, error) {
	user, err := GetUser(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	if !locked && user.ID != viewerID {
		return nil, &StateError{Message: ErrPicksHidden}
	}

	picks, err := UserPicks(ctx, db, game, user.ID)
	if err != nil {
		return nil, err
	}
	return &UserDetail{
		UserSummary: UserSummary{ID: user.ID, Username: user.Username, DisplayName: user.GetDisplayName()},
		TotalPoints: user.TotalPoints,
		Picks:       picks,
	}, nil
}

func setPassword(ctx context.Context, db *gorm.DB, userID uint, password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password_hash", hash).Error; err != nil {
		return &PersistenceError{Op: "Failed to update password", Err: err}
	}
	return nil
}

func exists(db *gorm.DB, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := db.Model(&models.User{}).Where(query, args...).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return count > 0, nil
}

func pickCountsByUser(db *gorm.DB) (map[uint]int, error) {
	var rows []struct {
		UserID uint
		Count  int
	}
	if err := db.Model(&models.Pick{}).Select("user_id, COUNT(*) AS count").Group("user_id").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count picks: %w", err)
	}
	counts := make(map[uint]int, len(rows))
	for _, r := range rows {
		counts[r.UserID] = r.Count
	}
	return counts, nil
}
