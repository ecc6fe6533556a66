package services

import (
	"context"
	"fmt"
	"time"

	"olympool/app"
	"olympool/leaderboard"
	"olympool/models"
)

// Summary is the landing page of the pool
type Summary struct {
	TotalUsers     int64               `json:"total_users"`
	UsersWithPicks int64               `json:"users_with_picks"`
	PicksLocked    bool                `json:"picks_locked"`
	PickDeadline   time.Time           `json:"pick_deadline"`
	MedalLeaders   []MedalRow          `json:"medal_leaders"`
	Leaderboard    []leaderboard.Entry `json:"leaderboard,omitempty"`
}

// GetSummary counts participants and lists the medal leaders. The
// leaderboard is included once picks are locked.
func GetSummary(ctx context.Context, a *app.App) (*Summary, error) {
	db := a.DB.WithContext(ctx)
	s := &Summary{PicksLocked: a.PicksLocked(), PickDeadline: a.Game.PickDeadline}

	if err := db.Model(&models.User{}).Count(&s.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := db.Model(&models.Pick{}).Distinct("user_id").Count(&s.UsersWithPicks).Error; err != nil {
		return nil, fmt.Errorf("failed to count pickers: %w", err)
	}

	leaders, err := MedalLeaders(ctx, a.DB, MedalLeadersLimit)
	if err != nil {
		return nil, err
	}
	s.MedalLeaders = leaders

	if s.PicksLocked {
		view, err := GetLeaderboard(ctx, a)
		if err != nil {
			return nil, err
		}
		s.Leaderboard = view.Leaderboard
	}
	return s, nil
}
