package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"olympool/config"
	"olympool/models"
	"olympool/reference"
	"olympool/utils"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultPassword is used for the first admin when none is configured
var DefaultPassword = "admin"

// Open connects to the configured database and migrates the models
func Open(cfg *config.Config, game *config.Game) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.SQLitePath)
	default:
		dialector = postgres.Open(cfg.Database.PostgresDSN(game.Location))
	}

	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.Log.Level == "debug" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tables of every model
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Populate seeds the reference countries, the game state row and the first
// admin account. It only inserts what is missing.
func Populate(ctx context.Context, db *gorm.DB, cfg *config.Config, log *slog.Logger) error {
	db = db.WithContext(ctx)

	seeded, err := SeedCountries(ctx, db)
	if err != nil {
		return err
	}
	if seeded.Added > 0 {
		log.Info("Countries seeded", "added", seeded.Added)
	}

	var countState int64
	db.Model(&models.GameState{}).Count(&countState)
	if countState == 0 {
		if err := db.Create(&models.GameState{}).Error; err != nil {
			return fmt.Errorf("failed to create game state: %w", err)
		}
	}

	// Create the default admin only on an empty user table
	var countUser int64
	db.Model(&models.User{}).Count(&countUser)
	if countUser > 0 {
		return nil
	}

	password := DefaultPassword
	if cfg.Admin.Password != "" {
		password = cfg.Admin.Password
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:     cfg.Admin.Username,
		Email:        strings.ToLower(cfg.Admin.Email),
		PasswordHash: hash,
		IsAdmin:      true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	log.Info("Default user admin created", "username", admin.Username)
	return nil
}

// SeedResult counts the rows touched by SeedCountries
type SeedResult struct {
	Added   int
	Updated int
}

// SeedCountries inserts every reference country missing from the table and
// refreshes name, tier and history of the existing ones, marking them
// active. Excluded countries are never inserted.
func SeedCountries(ctx context.Context, db *gorm.DB) (SeedResult, error) {
	var res SeedResult
	var existing []models.Country
	if err := db.WithContext(ctx).Find(&existing).Error; err != nil {
		return res, fmt.Errorf("failed to load countries: %w", err)
	}
	byCode := make(map[string]*models.Country, len(existing))
	for i := range existing {
		byCode[existing[i].Code] = &existing[i]
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ref := range reference.Countries() {
			if c, ok := byCode[ref.Code]; ok {
				if err := tx.Model(c).Updates(map[string]interface{}{
					"name":                  ref.Name,
					"tier":                  ref.Tier,
					"has_medaled_2010_2022": ref.HasMedaled,
					"is_active":             true,
				}).Error; err != nil {
					return err
				}
				res.Updated++
				continue
			}
			country := models.Country{
				Code:               ref.Code,
				Name:               ref.Name,
				Tier:               ref.Tier,
				HasMedaledRecently: ref.HasMedaled,
				IsActive:           true,
			}
			if err := tx.Create(&country).Error; err != nil {
				return err
			}
			res.Added++
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, fmt.Errorf("failed to seed countries: %w", err)
	}
	return res, nil
}
