package services

import (
	"context"
	"testing"

	"olympool/models"
	"olympool/reference"
	"olympool/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountriesByTier(t *testing.T) {
	a := newTestApp(t, beforeDeadline())

	tiers, err := CountriesByTier(context.Background(), a.DB, a.Game)
	require.NoError(t, err)
	require.Len(t, tiers, 6)

	total := 0
	for _, tier := range tiers {
		assert.Len(t, tier.Countries, len(reference.CountriesInTier(tier.Number)))
		for _, c := range tier.Countries {
			assert.Equal(t, tier.Number, c.Tier)
			assert.Equal(t, tier.Multiplier, c.Multiplier)
		}
		total += len(tier.Countries)
	}
	assert.Equal(t, len(reference.Countries()), total)
}

func TestGetCountryDetail(t *testing.T) {
	a := newTestApp(t, beforeDeadline())
	ctx := context.Background()
	alice := createUser(t, a.DB, "alice")
	_, err := SubmitPicks(ctx, a, alice.ID, validPicks(t, a.DB), scoring.Medals{})
	require.NoError(t, err)
	setMedals(t, a.DB, "FIN", 1, 0, 2)
	finID := countryID(t, a.DB, "FIN")

	detail, err := GetCountryDetail(ctx, a.DB, a.Game, finID, false)
	require.NoError(t, err)
	assert.Equal(t, 30, detail.Breakdown.TotalPoints)
	assert.Empty(t, detail.PickedBy)
	assert.Equal(t, "🇫🇮", detail.FlagEmoji)

	detail, err = GetCountryDetail(ctx, a.DB, a.Game, finID, true)
	require.NoError(t, err)
	require.Len(t, detail.PickedBy, 1)
	assert.Equal(t, alice.ID, detail.PickedBy[0].ID)

	_, err = GetCountryDetail(ctx, a.DB, a.Game, 99999, true)
	assert.True(t, IsNotFound(err))
}

func TestMedalTableOrdering(t *testing.T) {
	a := newTestApp(t, afterDeadline())
	ctx := context.Background()
	setMedals(t, a.DB, "NOR", 3, 1, 0)
	setMedals(t, a.DB, "GER", 3, 2, 0)
	setMedals(t, a.DB, "USA", 1, 5, 5)
	for _, code := range []string{"CAN", "ITA", "JPN", "AUT"} {
		setMedals(t, a.DB, code, 0, 0, 1)
	}

	table, err := GetMedalTable(ctx, a)
	require.NoError(t, err)
	require.Len(t, table.Medals, 7)
	assert.Equal(t, []string{"GER", "NOR", "USA"}, []string{table.Medals[0].Code, table.Medals[1].Code, table.Medals[2].Code})
	assert.Equal(t, 11, table.Medals[2].Total)

	leaders, err := MedalLeaders(ctx, a.DB, MedalLeadersLimit)
	require.NoError(t, err)
	assert.Len(t, leaders, MedalLeadersLimit)
}

func TestCountriesSeedCountriesReset(t *testing.T) {
	a := newTestApp(t, beforeDeadline())
	ctx := context.Background()
	require.NoError(t, a.DB.Create(&models.Country{Code: "XXX", Name: "Nowhere", Tier: 6, IsActive: true}).Error)

	summary, err := SeedCountries(ctx, a.DB, a.Game, true)
	require.NoError(t, err)
	assert.Zero(t, summary.Added)
	assert.Equal(t, len(reference.Countries()), summary.Updated)
	assert.Equal(t, int64(len(reference.Countries())+1), summary.Total)
	assert.Equal(t, len(reference.CountriesInTier(6)), summary.ByTier[6])

	var stray models.Country
	require.NoError(t, a.DB.Where("code = ?", "XXX").First(&stray).Error)
	assert.False(t, stray.IsActive)
}
