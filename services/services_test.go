package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"olympool/app"
	"olympool/config"
	"olympool/database"
	"olympool/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestApp returns an app backed by a private in-memory database seeded
// with the reference countries. The clock is fixed at now.
func newTestApp(t *testing.T, now time.Time) *app.App {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	_, err = database.SeedCountries(context.Background(), db)
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := app.New(config.Default(), config.DefaultGame(), db, nil, nil, log)
	a.Clock = func() time.Time { return now }
	return a
}

func beforeDeadline() time.Time {
	return config.DefaultGame().PickDeadline.Add(-24 * time.Hour)
}

func afterDeadline() time.Time {
	return config.DefaultGame().PickDeadline.Add(24 * time.Hour)
}

func countryID(t *testing.T, db *gorm.DB, code string) uint {
	t.Helper()
	var c models.Country
	require.NoError(t, db.Where("code = ?", code).First(&c).Error)
	return c.ID
}

func ids(t *testing.T, db *gorm.DB, codes ...string) []uint {
	t.Helper()
	out := make([]uint, 0, len(codes))
	for _, code := range codes {
		out = append(out, countryID(t, db, code))
	}
	return out
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user, err := RegisterUser(context.Background(), db, RegisterInput{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	return user
}

// validPicks is a complete entry built from the reference tiers
func validPicks(t *testing.T, db *gorm.DB) map[int][]uint {
	t.Helper()
	return map[int][]uint{
		1: ids(t, db, "USA"),
		2: ids(t, db, "NED", "AUT"),
		3: ids(t, db, "CHN"),
		4: ids(t, db, "FIN"),
		5: ids(t, db, "POL"),
		6: ids(t, db, "NZL", "UKR"),
	}
}

func setMedals(t *testing.T, db *gorm.DB, code string, gold, silver, bronze int) {
	t.Helper()
	require.NoError(t, db.Model(&models.Country{}).Where("code = ?", code).Updates(map[string]interface{}{
		"gold_count":   gold,
		"silver_count": silver,
		"bronze_count": bronze,
	}).Error)
}
