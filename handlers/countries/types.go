package countries

import (
	"time"

	"olympool/config"
)

// Constants for error messages
const (
	ErrCountryNotFound = "Country not found"
	ErrFetchCountries  = "Failed to fetch countries"
	ErrFetchMedals     = "Failed to fetch medal table"
	ErrFetchSummary    = "Failed to fetch summary"
)

// RulesResponse describes how the pool is scored
type RulesResponse struct {
	Name               string             `json:"name"`
	Tiers              []config.Tier      `json:"tiers"`
	MedalPoints        config.MedalPoints `json:"medal_points"`
	TotalPicks         int                `json:"total_picks"`
	PickDeadline       time.Time          `json:"pick_deadline"`
	GamesStart         time.Time          `json:"games_start"`
	GamesEnd           time.Time          `json:"games_end"`
	Timezone           string             `json:"timezone"`
	TiebreakerCountry  string             `json:"tiebreaker_country"`
	WildcardTier       int                `json:"wildcard_tier"`
	WildcardTierNotice string             `json:"wildcard_tier_notice"`
	PicksLocked        bool               `json:"picks_locked"`
}

func newRulesResponse(game *config.Game, locked bool) RulesResponse {
	tiers := make([]config.Tier, 0, len(game.Tiers))
	for _, n := range game.TierNumbers() {
		tiers = append(tiers, game.Tiers[n])
	}
	return RulesResponse{
		Name:               game.Name,
		Tiers:              tiers,
		MedalPoints:        game.MedalPoints,
		TotalPicks:         game.TotalPicks(),
		PickDeadline:       game.PickDeadline,
		GamesStart:         game.Start,
		GamesEnd:           game.End,
		Timezone:           game.Location.String(),
		TiebreakerCountry:  game.TiebreakerCountry,
		WildcardTier:       game.WildcardTier,
		WildcardTierNotice: game.WildcardTierNotice,
		PicksLocked:        locked,
	}
}
