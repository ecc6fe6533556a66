package services

import (
	"context"
	"fmt"
	"time"

	"olympool/app"
	"olympool/config"
	"olympool/metrics"
	"olympool/models"
	"olympool/scoring"

	"gorm.io/gorm"
)

// RecalculateAllScores rescores every pick and user from the current medal
// counts. It runs on the given handle, so callers decide the transaction.
// Running it twice without medal changes writes the same totals.
func RecalculateAllScores(ctx context.Context, tx *gorm.DB, game *config.Game, now time.Time) error {
	startTime := time.Now()
	defer func() {
		metrics.RescoreDuration.Observe(time.Since(startTime).Seconds())
	}()
	tx = tx.WithContext(ctx)

	var users []models.User
	if err := tx.Select("id", "total_points").Find(&users).Error; err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	var picks []models.Pick
	if err := tx.Find(&picks).Error; err != nil {
		return fmt.Errorf("load picks: %w", err)
	}
	var countries []models.Country
	if err := tx.Find(&countries).Error; err != nil {
		return fmt.Errorf("load countries: %w", err)
	}

	userIDs := make([]uint, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
	}
	result := scoring.ScoreAll(userIDs, toScoringPicks(picks), toScoringCountries(countries), game)

	for _, p := range picks {
		points := result.PickPoints[p.ID]
		if points == p.PointsEarned {
			continue
		}
		if err := tx.Model(&models.Pick{}).Where("id = ?", p.ID).Update("points_earned", points).Error; err != nil {
			return fmt.Errorf("update pick %d: %w", p.ID, err)
		}
	}
	for _, u := range users {
		total := result.UserTotals[u.ID]
		if total == u.TotalPoints {
			continue
		}
		if err := tx.Model(&models.User{}).Where("id = ?", u.ID).Update("total_points", total).Error; err != nil {
			return fmt.Errorf("update user %d: %w", u.ID, err)
		}
	}

	if err := stampGameState(tx, "scores_calculated_at", now); err != nil {
		return err
	}
	metrics.RecordDBOperation("rescore", "users", startTime)
	return nil
}

// RecalculateScores runs a full rescore in its own transaction, then drops
// the cached leaderboard and pushes the new one to listeners.
func RecalculateScores(ctx context.Context, a *app.App) error {
	err := a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return RecalculateAllScores(ctx, tx, a.Game, a.Now())
	})
	if err != nil {
		a.Log.Error("Score recalculation failed", "error", err)
		return &PersistenceError{Op: "Failed to recalculate scores", Err: err}
	}

	a.Log.Info("Scores recalculated")
	afterScoresChanged(ctx, a)
	return nil
}

// afterScoresChanged runs once new scores are committed
func afterScoresChanged(ctx context.Context, a *app.App) {
	a.Cache.Invalidate(ctx, LeaderboardCacheKey, MedalTableCacheKey)
	if !a.PicksLocked() || a.Hub == nil {
		return
	}
	view, err := GetLeaderboard(ctx, a)
	if err != nil {
		a.Log.Warn("Failed to build leaderboard for broadcast", "error", err)
		return
	}
	a.Hub.Broadcast("leaderboard", view)
}

func stampGameState(tx *gorm.DB, column string, now time.Time) error {
	res := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Model(&models.GameState{}).Update(column, now)
	if res.Error != nil {
		return fmt.Errorf("update game state: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		state := models.GameState{}
		switch column {
		case "medals_updated_at":
			state.MedalsUpdatedAt = stamp(now)
		case "scores_calculated_at":
			state.ScoresCalculatedAt = stamp(now)
		}
		if err := tx.Create(&state).Error; err != nil {
			return fmt.Errorf("create game state: %w", err)
		}
	}
	return nil
}

func toScoringPicks(picks []models.Pick) []scoring.Pick {
	out := make([]scoring.Pick, 0, len(picks))
	for _, p := range picks {
		out = append(out, scoring.Pick{ID: p.ID, UserID: p.UserID, CountryID: p.CountryID, Tier: p.Tier})
	}
	return out
}

func toScoringCountries(countries []models.Country) map[uint]scoring.Country {
	out := make(map[uint]scoring.Country, len(countries))
	for _, c := range countries {
		out[c.ID] = scoring.Country{ID: c.ID, Tier: c.Tier, Medals: medalsOf(&c)}
	}
	return out
}

func medalsOf(c *models.Country) scoring.Medals {
	return scoring.Medals{Gold: c.GoldCount, Silver: c.SilverCount, Bronze: c.BronzeCount}
}
