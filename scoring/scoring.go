// Package scoring turns medal counts into pool points. Everything here is pure:
// callers load countries and picks, scoring never touches storage.
package scoring

import (
	"olympool/config"
)

// Medals is a gold/silver/bronze triple
type Medals struct {
	Gold   int `json:"gold"`
	Silver int `json:"silver"`
	Bronze int `json:"bronze"`
}

// Total medal count
func (m Medals) Total() int {
	return m.Gold + m.Silver + m.Bronze
}

// Country is the slice of a country scoring needs
type Country struct {
	ID     uint
	Tier   int
	Medals Medals
}

// Pick links a user to a country. Tier is the copy taken at pick time and is
// only used for grouping; points always follow the country's own tier.
type Pick struct {
	ID        uint
	UserID    uint
	CountryID uint
	Tier      int
}

// PickPoints returns (gold*goldWeight + silver*silverWeight + bronze*bronzeWeight) * multiplier
func PickPoints(m Medals, tier int, game *config.Game) int {
	multiplier := game.Multiplier(tier)
	return m.Gold*game.MedalPoints.Gold*multiplier +
		m.Silver*game.MedalPoints.Silver*multiplier +
		m.Bronze*game.MedalPoints.Bronze*multiplier
}

// ScorePick scores a single pick against its country
func ScorePick(p Pick, c Country, game *config.Game) int {
	return PickPoints(c.Medals, c.Tier, game)
}

// ScoreUser sums the points of a user's picks. Picks whose country is
// missing score zero.
func ScoreUser(picks []Pick, countries map[uint]Country, game *config.Game) int {
	total := 0
	for _, p := range picks {
		c, ok := countries[p.CountryID]
		if !ok {
			continue
		}
		total += ScorePick(p, c, game)
	}
	return total
}

// Result holds the outcome of a full rescore
type Result struct {
	PickPoints map[uint]int // by pick ID
	UserTotals map[uint]int // by user ID
}

// ScoreAll scores every pick and totals them per user. Every user in userIDs
// gets an entry, users without picks total zero.
func ScoreAll(userIDs []uint, picks []Pick, countries map[uint]Country, game *config.Game) Result {
	res := Result{
		PickPoints: make(map[uint]int, len(picks)),
		UserTotals: make(map[uint]int, len(userIDs)),
	}
	for _, id := range userIDs {
		res.UserTotals[id] = 0
	}
	for _, p := range picks {
		points := 0
		if c, ok := countries[p.CountryID]; ok {
			points = ScorePick(p, c, game)
		}
		res.PickPoints[p.ID] = points
		res.UserTotals[p.UserID] += points
	}
	return res
}

// GroupByTier buckets picks by their tier. Every configured tier is present
// in the result, possibly empty. Picks inside a bucket keep input order.
func GroupByTier(picks []Pick, game *config.Game) map[int][]Pick {
	groups := make(map[int][]Pick, len(game.Tiers))
	for _, n := range game.TierNumbers() {
		groups[n] = []Pick{}
	}
	for _, p := range picks {
		groups[p.Tier] = append(groups[p.Tier], p)
	}
	return groups
}
