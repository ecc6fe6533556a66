package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"olympool/app"
	"olympool/leaderboard"
	"olympool/models"

	"gorm.io/gorm"
)

// GameStateFor loads the game state row, creating it on first use
func GameStateFor(ctx context.Context, db *gorm.DB) (*models.GameState, error) {
	var state models.GameState
	err := db.WithContext(ctx).Order("id").First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		state = models.GameState{}
		if err := db.WithContext(ctx).Create(&state).Error; err != nil {
			return nil, fmt.Errorf("failed to create game state: %w", err)
		}
		return &state, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game state: %w", err)
	}
	return &state, nil
}

// WinnerIDs parses the stored comma-separated winner list
func WinnerIDs(state *models.GameState) []uint {
	if state == nil || state.WinnerIDs == "" {
		return nil
	}
	var ids []uint
	for _, part := range strings.Split(state.WinnerIDs, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}

// CompleteGame marks the pool finished and stores the current leaders as
// winners. Several winners are kept when they tie on points and tiebreaker.
func CompleteGame(ctx context.Context, a *app.App) (*models.GameState, []leaderboard.Entry, error) {
	if !a.PicksLocked() {
		return nil, nil, &StateError{Message: "The game cannot be completed before picks lock."}
	}

	entries, err := BuildLeaderboard(ctx, a.DB, a.Game)
	if err != nil {
		return nil, nil, err
	}
	winners := leaderboard.Leaders(entries)

	ids := make([]string, 0, len(winners))
	for _, w := range winners {
		ids = append(ids, strconv.FormatUint(uint64(w.UserID), 10))
	}

	state, err := GameStateFor(ctx, a.DB)
	if err != nil {
		return nil, nil, err
	}
	state.IsComplete = true
	state.WinnerIDs = strings.Join(ids, ",")
	if err := a.DB.WithContext(ctx).Save(state).Error; err != nil {
		return nil, nil, &PersistenceError{Op: "Failed to complete game", Err: err}
	}

	a.Log.Info("Game completed", "winners", state.WinnerIDs)
	a.Cache.Invalidate(ctx, LeaderboardCacheKey)
	return state, winners, nil
}

func stamp(t time.Time) *time.Time {
	return &t
}
