package services

import (
	"context"
	"fmt"

	"olympool/config"
	"olympool/models"

	"gorm.io/gorm"
)

// Dashboard summarises the pool for admins
type Dashboard struct {
	TotalUsers  int64             `json:"total_users"`
	UsersPicked int64             `json:"users_with_picks"`
	TotalMedals int64             `json:"total_medals"`
	AuditCount  int64             `json:"audit_entries"`
	PicksLocked bool              `json:"picks_locked"`
	GameState   *models.GameState `json:"game_state"`
}

// AdminUser is a user row of the admin users list
type AdminUser struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	IsAdmin     bool   `json:"is_admin"`
	TotalPoints int    `json:"total_points"`
	PickCount   int    `json:"pick_count"`
}

// AdminPicks is one user's full entry for the admin overview
type AdminPicks struct {
	User  UserSummary `json:"user"`
	Picks *PickSet    `json:"picks"`
}

// GetDashboard counts users, picks and medals
func GetDashboard(ctx context.Context, db *gorm.DB, locked bool) (*Dashboard, error) {
	db = db.WithContext(ctx)
	d := &Dashboard{PicksLocked: locked}

	if err := db.Model(&models.User{}).Count(&d.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.Model(&models.Pick{}).Distinct("user_id").Count(&d.UsersPicked).Error; err != nil {
		return nil, fmt.Errorf("failed to count pickers: %w", err)
	}
	if err := db.Model(&models.Country{}).Select("COALESCE(SUM(gold_count + silver_count + bronze_count), 0)").Scan(&d.TotalMedals).Error; err != nil {
		return nil, fmt.Errorf("failed to count medals: %w", err)
	}
	if err := db.Model(&models.MedalAudit{}).Count(&d.AuditCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count audit entries: %w", err)
	}

	state, err := GameStateFor(ctx, db)
	if err != nil {
		return nil, err
	}
	d.GameState = state
	return d, nil
}

// ListAdminUsers returns every user ordered by username, ignoring case
func ListAdminUsers(ctx context.Context, db *gorm.DB) ([]AdminUser, error) {
	db = db.WithContext(ctx)

	var users []models.User
	if err := db.Order("LOWER(username)").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	counts, err := pickCountsByUser(db)
	if err != nil {
		return nil, err
	}

	out := make([]AdminUser, 0, len(users))
	for _, u := range users {
		out = append(out, AdminUser{
			ID:          u.ID,
			Username:    u.Username,
			Email:       u.Email,
			DisplayName: u.GetDisplayName(),
			IsAdmin:     u.IsAdmin,
			TotalPoints: u.TotalPoints,
			PickCount:   counts[u.ID],
		})
	}
	return out, nil
}

// ListAllPicks returns the entries of every user holding picks
func ListAllPicks(ctx context.Context, db *gorm.DB, game *config.Game) ([]AdminPicks, error) {
	db = db.WithContext(ctx)

	var users []models.User
	err := db.Where("id IN (?)", db.Model(&models.Pick{}).Select("user_id")).
		Order("LOWER(username)").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	out := make([]AdminPicks, 0, len(users))
	for _, u := range users {
		set, err := UserPicks(ctx, db, game, u.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, AdminPicks{
			User:  UserSummary{ID: u.ID, Username: u.Username, DisplayName: u.GetDisplayName()},
			Picks: set,
		})
	}
	return out, nil
}
