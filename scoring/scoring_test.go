package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olympool/config"
)

func TestPickPoints(t *testing.T) {
	game := config.DefaultGame()

	tests := []struct {
		name   string
		medals Medals
		tier   int
		want   int
	}{
		{name: "tier 4 one gold two bronze", medals: Medals{Gold: 1, Bronze: 2}, tier: 4, want: 30},
		{name: "tier 1 is unweighted", medals: Medals{Gold: 2, Silver: 1, Bronze: 1}, tier: 1, want: 9},
		{name: "tier 6 single bronze", medals: Medals{Bronze: 1}, tier: 6, want: 20},
		{name: "no medals", medals: Medals{}, tier: 5, want: 0},
		{name: "unknown tier falls back to multiplier 1", medals: Medals{Gold: 1}, tier: 9, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PickPoints(tt.medals, tt.tier, game))
		})
	}
}

func TestPickPointsMatchesFormulaForEveryTier(t *testing.T) {
	game := config.DefaultGame()
	m := Medals{Gold: 4, Silver: 7, Bronze: 3}

	for _, tier := range game.TierNumbers() {
		want := (m.Gold*3 + m.Silver*2 + m.Bronze*1) * game.Tiers[tier].Multiplier
		assert.Equal(t, want, PickPoints(m, tier, game), "tier %d", tier)
	}
}

func TestScoreUser(t *testing.T) {
	game := config.DefaultGame()
	countries := map[uint]Country{
		1: {ID: 1, Tier: 1, Medals: Medals{Gold: 5, Silver: 3, Bronze: 1}},
		2: {ID: 2, Tier: 4, Medals: Medals{Gold: 1, Bronze: 2}},
		3: {ID: 3, Tier: 6, Medals: Medals{Silver: 1}},
	}
	picks := []Pick{
		{ID: 10, UserID: 1, CountryID: 1, Tier: 1},
		{ID: 11, UserID: 1, CountryID: 2, Tier: 4},
		{ID: 12, UserID: 1, CountryID: 99, Tier: 6},
	}

	// 22 + 30, the missing country scores nothing
	assert.Equal(t, 52, ScoreUser(picks, countries, game))
	assert.Equal(t, 0, ScoreUser(nil, countries, game))
}

func TestScoreAllSwapChangesOnlyOneUser(t *testing.T) {
	game := config.DefaultGame()
	countries := map[uint]Country{
		1: {ID: 1, Tier: 2, Medals: Medals{Gold: 2}},
		2: {ID: 2, Tier: 2, Medals: Medals{Silver: 1}},
		3: {ID: 3, Tier: 3, Medals: Medals{Bronze: 4}},
	}
	before := []Pick{
		{ID: 1, UserID: 1, CountryID: 1, Tier: 2},
		{ID: 2, UserID: 1, CountryID: 3, Tier: 3},
		{ID: 3, UserID: 2, CountryID: 1, Tier: 2},
	}
	after := []Pick{
		{ID: 1, UserID: 1, CountryID: 2, Tier: 2},
		{ID: 2, UserID: 1, CountryID: 3, Tier: 3},
		{ID: 3, UserID: 2, CountryID: 1, Tier: 2},
	}

	users := []uint{1, 2, 3}
	r1 := ScoreAll(users, before, countries, game)
	r2 := ScoreAll(users, after, countries, game)

	delta := ScorePick(after[0], countries[2], game) - ScorePick(before[0], countries[1], game)
	assert.Equal(t, r1.UserTotals[1]+delta, r2.UserTotals[1])
	assert.Equal(t, r1.UserTotals[2], r2.UserTotals[2])
	assert.Equal(t, 0, r2.UserTotals[3])
	assert.Equal(t, 4, r2.PickPoints[1])
}

func TestScoreAllIsIdempotent(t *testing.T) {
	game := config.DefaultGame()
	countries := map[uint]Country{1: {ID: 1, Tier: 5, Medals: Medals{Gold: 1, Silver: 1, Bronze: 1}}}
	picks := []Pick{{ID: 1, UserID: 7, CountryID: 1, Tier: 5}}

	first := ScoreAll([]uint{7}, picks, countries, game)
	second := ScoreAll([]uint{7}, picks, countries, game)
	assert.Equal(t, first, second)
	assert.Equal(t, 60, first.UserTotals[7])
}

func TestGroupByTier(t *testing.T) {
	game := config.DefaultGame()
	picks := []Pick{
		{ID: 1, Tier: 2},
		{ID: 2, Tier: 6},
		{ID: 3, Tier: 2},
	}

	groups := GroupByTier(picks, game)
	require.Len(t, groups, 6)
	assert.Equal(t, []Pick{{ID: 1, Tier: 2}, {ID: 3, Tier: 2}}, groups[2])
	assert.Empty(t, groups[1])
	assert.Len(t, groups[6], 1)
}

func TestBreakdownFor(t *testing.T) {
	game := config.DefaultGame()
	b := BreakdownFor(Medals{Gold: 1, Silver: 2, Bronze: 3}, 3, game)

	assert.Equal(t, MedalLine{Count: 1, PointsEach: 9, Total: 9}, b.Gold)
	assert.Equal(t, MedalLine{Count: 2, PointsEach: 6, Total: 12}, b.Silver)
	assert.Equal(t, MedalLine{Count: 3, PointsEach: 3, Total: 9}, b.Bronze)
	assert.Equal(t, 3, b.Multiplier)
	assert.Equal(t, PickPoints(Medals{Gold: 1, Silver: 2, Bronze: 3}, 3, game), b.TotalPoints)
}
