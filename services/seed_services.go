package services

import (
	"context"
	"fmt"

	"olympool/config"
	"olympool/database"
	"olympool/models"

	"gorm.io/gorm"
)

// SeedSummary reports the outcome of a seeding run
type SeedSummary struct {
	Added   int         `json:"added"`
	Updated int         `json:"updated"`
	Total   int64       `json:"total"`
	ByTier  map[int]int `json:"by_tier"`
}

// SeedCountries loads the reference countries into the database. With reset,
// every country is first deactivated so only the reference set stays
// selectable; rows are never deleted because picks and audits reference them.
// The reset and the reseed commit together or not at all.
func SeedCountries(ctx context.Context, db *gorm.DB, game *config.Game, reset bool) (*SeedSummary, error) {
	summary := &SeedSummary{ByTier: make(map[int]int)}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if reset {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Model(&models.Country{}).Update("is_active", false).Error; err != nil {
				return fmt.Errorf("failed to reset countries: %w", err)
			}
		}

		res, err := database.SeedCountries(ctx, tx)
		if err != nil {
			return err
		}
		if _, err := GameStateFor(ctx, tx); err != nil {
			return err
		}
		summary.Added, summary.Updated = res.Added, res.Updated

		if err := tx.Model(&models.Country{}).Count(&summary.Total).Error; err != nil {
			return fmt.Errorf("failed to count countries: %w", err)
		}
		for _, n := range game.TierNumbers() {
			var count int64
			if err := tx.Model(&models.Country{}).Where("tier = ? AND is_active = ?", n, true).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to count tier %d: %w", n, err)
			}
			summary.ByTier[n] = int(count)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}
