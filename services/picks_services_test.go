package services

import (
	"context"
	"testing"

	"olympool/models"
	"olympool/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePicksAcceptsCompleteEntry(t *testing.T) {
	a := newTestApp(t, beforeDeadline())

	ok, errs := ValidatePicks(context.Background(), a.DB, a.Game, a.Now(), 1, validPicks(t, a.DB))
	assert.True(t, ok)
	assert.Empty(t, errs)
}

func TestValidatePicksAfterDeadline(t *testing.T) {
	a := newTestApp(t, afterDeadline())

	ok, errs := ValidatePicks(context.Background(), a.DB, a.Game, a.Now(), 1, map[int][]uint{})
	assert.False(t, ok)
	assert.Equal(t, []string{ErrDeadlinePassed}, errs)
}

func TestValidatePicksReportsEachProblem(t *testing.T) {
	a := newTestApp(t, beforeDeadline())
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(picks map[int][]uint)
		want   []string
	}{
		{
			name:   "wrong count",
			mutate: func(p map[int][]uint) { p[6] = ids(t, a.DB, "NZL") },
			want:   []string{"Tier 6 (Wildcard) requires 2 pick(s), got 1."},
		},
		{
			name:   "duplicate",
			mutate: func(p map[int][]uint) { p[2] = ids(t, a.DB, "NED", "NED") },
			want:   []string{"Each country can only be selected once."},
		},
		{
			name: "wrong tier",
			mutate: func(p map[int][]uint) {
				p[3] = ids(t, a.DB, "FIN")
				p[4] = ids(t, a.DB, "SLO")
			},
			want: []string{"Finland is not in Tier 3."},
		},
		{
			name: "all three together",
			mutate: func(p map[int][]uint) {
				p[6] = ids(t, a.DB, "NZL")
				p[2] = ids(t, a.DB, "NED", "NED")
				p[3] = ids(t, a.DB, "FIN")
				p[4] = ids(t, a.DB, "SLO")
			},
			want: []string{
				"Tier 6 (Wildcard) requires 2 pick(s), got 1.",
				"Each country can only be selected once.",
				"Finland is not in Tier 3.",
			},
		},
		{
			name:   "unknown country",
			mutate: func(p map[int][]uint) { p[1] = []uint{99999} },
			want:   []string{"Invalid country ID: 99999"},
		},
		{
			name:   "unknown tier",
			mutate: func(p map[int][]uint) { p[7] = []uint{} },
			want:   []string{"Tier 7 is not a valid tier."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			picks := validPicks(t, a.DB)
			tt.mutate(picks)

			ok, errs := ValidatePicks(ctx, a.DB, a.Game, a.Now(), 1, picks)
			assert.False(t, ok)
			assert.Equal(t, tt.want, errs)
		})
	}
}

func TestValidatePicksInactiveCountry(t *testing.T) {
	a := newTestApp(t, beforeDeadline())
	require.NoError(t, a.DB.Model(&models.Country{}).Where("code = ?", "POL").Update("is_active", false).Error)

	ok, errs := ValidatePicks(context.Background(), a.DB, a.Game, a.Now(), 1, validPicks(t, a.DB))
	assert.False(t, ok)
	assert.Equal(t, []string{"Poland is not available for selection."}, errs)
}

func TestSubmitPicksReplacesEntry(t *testing.T) {
	a := newTestApp(t, beforeDeadline())
	ctx := context.Background()
	user := createUser(t, a.DB, "alice")

	set, err := SubmitPicks(ctx, a, user.ID, validPicks(t, a.DB), scoring.Medals{Gold: 10, Silver: 8, Bronze: 6})
	require.NoError(t, err)
	assert.Equal(t, 8, set.PickCount)
	assert.True(t, set.Complete)

	second := validPicks(t, a.DB)
	second[1] = ids(t, a.DB, "NOR")
	second[6] = ids(t, a.DB, "HUN", "ARG")
	set, err = SubmitPicks(ctx, a, user.ID, second, scoring.Medals{Gold: 12, Silver: 9, Bronze: 7})
	require.NoError(t, err)
	assert.Equal(t, 8, set.PickCount)
	require.NotNil(t, set.Tiebreaker)
	assert.Equal(t, scoring.Medals{Gold: 12, Silver: 9, Bronze: 7}, *set.Tiebreaker)

	var codes []string
	for _, tier := range set.Tiers {
		for _, p := range tier.Picks {
			require.NotNil(t, p.Country)
			assert.Equal(t, tier.Number, p.Tier)
			codes = append(codes, p.Country.Code)
		}
	}
	assert.ElementsMatch(t, []string{"NOR", "NED", "AUT", "CHN", "FIN", "POL", "HUN", "ARG"}, codes)

	var tiebreakers int64
	require.NoError(t, a.DB.Model(&models.Tiebreaker{}).Where("user_id = ?", user.ID).Count(&tiebreakers).Error)
	assert.Equal(t, int64(1), tiebreakers)
}

func TestSubmitPicksInvalidKeepsPreviousEntry(t *testing.T) {
	a := newTestApp(t, beforeDeadline())
	ctx := context.Background()
	user := createUser(t, a.DB, "bob")

	_, err := SubmitPicks(ctx, a, user.ID, validPicks(t, a.DB), scoring.Medals{Gold: 1})
	require.NoError(t, err)

	bad := validPicks(t, a.DB)
	bad[6] = ids(t, a.DB, "NZL")
	_, err = SubmitPicks(ctx, a, user.ID, bad, scoring.Medals{Gold: -1})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Messages, "Tier 6 (Wildcard) requires 2 pick(s), got 1.")
	assert.Contains(t, verr.Messages, "Tiebreaker guesses must be zero or greater.")

	var count int64
	require.NoError(t, a.DB.Model(&models.Pick{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(8), count)
}

func TestSubmitPicksAfterDeadline(t *testing.T) {
	a := newTestApp(t, beforeDeadline())
	user := createUser(t, a.DB, "carol")
	picks := validPicks(t, a.DB)

	a.Clock = afterDeadline
	_, err := SubmitPicks(context.Background(), a, user.ID, picks, scoring.Medals{})

	var serr *StateError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, ErrDeadlinePassed, serr.Message)
}

func TestSubmitPicksScoresExistingMedals(t *testing.T) {
	a := newTestApp(t, beforeDeadline())
	user := createUser(t, a.DB, "dave")
	setMedals(t, a.DB, "FIN", 1, 0, 2)

	set, err := SubmitPicks(context.Background(), a, user.ID, validPicks(t, a.DB), scoring.Medals{})
	require.NoError(t, err)
	assert.Equal(t, 30, set.TotalPoints)
}
