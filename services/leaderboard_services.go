package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"olympool/app"
	"olympool/config"
	"olympool/leaderboard"
	"olympool/metrics"
	"olympool/models"
	"olympool/scoring"

	"gorm.io/gorm"
)

// LeaderboardCacheKey is the cache entry holding the public leaderboard
const LeaderboardCacheKey = "leaderboard:v1"

// ErrPicksNotLocked is the message returned while the leaderboard is hidden
const ErrPicksNotLocked = "Leaderboard will be available after picks lock"

// LeaderboardView is the public leaderboard with its freshness information
type LeaderboardView struct {
	Leaderboard     []leaderboard.Entry `json:"leaderboard"`
	ReferenceMedals scoring.Medals      `json:"reference_medals"`
	LastUpdated     *time.Time          `json:"last_updated"`
	IsComplete      bool                `json:"is_complete"`
	WinnerIDs       []uint              `json:"winner_ids,omitempty"`
}

// ReferenceMedals returns the actual medals of the tiebreaker country,
// zeros when it is not in the table
func ReferenceMedals(ctx context.Context, db *gorm.DB, game *config.Game) (scoring.Medals, error) {
	var country models.Country
	err := db.WithContext(ctx).Where("code = ?", game.TiebreakerCountry).First(&country).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return scoring.Medals{}, nil
	}
	if err != nil {
		return scoring.Medals{}, fmt.Errorf("failed to load %s medals: %w", game.TiebreakerCountry, err)
	}
	return medalsOf(&country), nil
}

// BuildLeaderboard ranks every user holding at least one pick. It ignores
// the pick deadline; callers showing it publicly must check it.
func BuildLeaderboard(ctx context.Context, db *gorm.DB, game *config.Game) ([]leaderboard.Entry, error) {
	startTime := time.Now()
	db = db.WithContext(ctx)

	actual, err := ReferenceMedals(ctx, db, game)
	if err != nil {
		return nil, err
	}

	var users []models.User
	err = db.Preload("Tiebreaker").
		Where("id IN (?)", db.Model(&models.Pick{}).Select("user_id")).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	rows := make([]leaderboard.Row, 0, len(users))
	for _, u := range users {
		row := leaderboard.Row{UserID: u.ID, DisplayName: u.GetDisplayName(), Points: u.TotalPoints}
		if u.Tiebreaker != nil {
			row.Guess = &scoring.Medals{Gold: u.Tiebreaker.Gold, Silver: u.Tiebreaker.Silver, Bronze: u.Tiebreaker.Bronze}
		}
		rows = append(rows, row)
	}

	entries := leaderboard.Build(rows, actual)
	metrics.RecordDBOperation("leaderboard", "users", startTime)
	return entries, nil
}

// GetLeaderboard returns the public leaderboard, from cache when possible.
// Before the pick deadline it returns a StateError.
func GetLeaderboard(ctx context.Context, a *app.App) (*LeaderboardView, error) {
	if !a.PicksLocked() {
		return nil, &StateError{Message: ErrPicksNotLocked}
	}

	var view LeaderboardView
	if found, err := a.Cache.Get(ctx, LeaderboardCacheKey, &view); found {
		return &view, nil
	} else if err != nil {
		a.Log.Warn("Leaderboard cache read failed", "error", err)
	}

	entries, err := BuildLeaderboard(ctx, a.DB, a.Game)
	if err != nil {
		return nil, err
	}
	actual, err := ReferenceMedals(ctx, a.DB, a.Game)
	if err != nil {
		return nil, err
	}
	state, err := GameStateFor(ctx, a.DB)
	if err != nil {
		return nil, err
	}

	view = LeaderboardView{
		Leaderboard:     entries,
		ReferenceMedals: actual,
		LastUpdated:     state.MedalsUpdatedAt,
		IsComplete:      state.IsComplete,
		WinnerIDs:       WinnerIDs(state),
	}
	if err := a.Cache.Set(ctx, LeaderboardCacheKey, view); err != nil {
		a.Log.Warn("Leaderboard cache write failed", "error", err)
	}
	return &view, nil
}
