package services

import (
	"context"
	"errors"
	"testing"

	"olympool/models"
	"olympool/reference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func addRetiredCountry(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&models.Country{Code: "XYZ", Name: "Retired", Tier: 6, IsActive: true}).Error)
}

func activeCountries(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Country{}).Where("is_active = ?", true).Count(&count).Error)
	return count
}

func TestSeedCountriesReset(t *testing.T) {
	a := newTestApp(t, beforeDeadline())
	addRetiredCountry(t, a.DB)

	summary, err := SeedCountries(context.Background(), a.DB, a.Game, true)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Added)
	assert.Equal(t, len(reference.Countries()), summary.Updated)
	assert.Equal(t, int64(len(reference.Countries())+1), summary.Total)

	var retired models.Country
	require.NoError(t, a.DB.Where("code = ?", "XYZ").First(&retired).Error)
	assert.False(t, retired.IsActive)
	assert.Equal(t, int64(len(reference.Countries())), activeCountries(t, a.DB))
}

func TestSeedCountriesResetRollsBackOnFailure(t *testing.T) {
	a := newTestApp(t, beforeDeadline())
	addRetiredCountry(t, a.DB)
	before := activeCountries(t, a.DB)

	// the reset itself goes through, the first per-country update fails
	updates := 0
	require.NoError(t, a.DB.Callback().Update().Before("gorm:update").Register("test:fail_countries", func(db *gorm.DB) {
		if db.Statement.Table != "countries" {
			return
		}
		updates++
		if updates > 1 {
			db.AddError(errors.New("disk full"))
		}
	}))

	_, err := SeedCountries(context.Background(), a.DB, a.Game, true)
	require.NoError(t, a.DB.Callback().Update().Remove("test:fail_countries"))
	require.Error(t, err)
	assert.Greater(t, updates, 1)

	assert.Equal(t, before, activeCountries(t, a.DB))
	var retired models.Country
	require.NoError(t, a.DB.Where("code = ?", "XYZ").First(&retired).Error)
	assert.True(t, retired.IsActive)
}

func TestSeedCountriesWithoutResetKeepsExtras(t *testing.T) {
	a := newTestApp(t, beforeDeadline())
	addRetiredCountry(t, a.DB)

	summary, err := SeedCountries(context.Background(), a.DB, a.Game, false)
	require.NoError(t, err)
	assert.Equal(t, len(reference.Countries()), summary.Updated)
	assert.Equal(t, int64(len(reference.Countries())+1), activeCountries(t, a.DB))
}
