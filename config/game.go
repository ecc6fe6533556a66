package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
	_ "time/tzdata"
)

// Medal types, in tiebreaker order
const (
	Gold   = "gold"
	Silver = "silver"
	Bronze = "bronze"
)

// Tier describes one weight class of countries
type Tier struct {
	Number     int    `json:"number" yaml:"number"`
	Name       string `json:"name" yaml:"name"`
	Multiplier int    `json:"multiplier" yaml:"multiplier"`
	Picks      int    `json:"picks_allowed" yaml:"picks"`
}

// MedalPoints holds the base points of each medal before the tier multiplier
type MedalPoints struct {
	Gold   int `json:"gold" yaml:"gold"`
	Silver int `json:"silver" yaml:"silver"`
	Bronze int `json:"bronze" yaml:"bronze"`
}

// Get returns the base points for a medal type, 0 for unknown types
func (m MedalPoints) Get(medalType string) int {
	switch strings.ToLower(medalType) {
	case Gold:
		return m.Gold
	case Silver:
		return m.Silver
	case Bronze:
		return m.Bronze
	}
	return 0
}

// Game is the rule set of one pool. It is built once at startup and passed
// explicitly to every service that needs it.
type Game struct {
	Name               string         `json:"name"`
	ShortName          string         `json:"short_name"`
	Location           *time.Location `json:"-"`
	Start              time.Time      `json:"start"`
	End                time.Time      `json:"end"`
	PickDeadline       time.Time      `json:"pick_deadline"`
	MedalPoints        MedalPoints    `json:"medal_points"`
	Tiers              map[int]Tier   `json:"tiers"`
	TiebreakerCountry  string         `json:"tiebreaker_country"`
	WildcardTier       int            `json:"wildcard_tier"`
	WildcardTierNotice string         `json:"wildcard_tier_notice"`
}

const wildcardNotice = `Not all countries in Tier 6 have recent Olympic medal history.
Countries marked as not medaled have not won a medal in the last four
Winter Olympics (2010-2022). Choose wisely, or boldly.`

// DefaultGame returns the Milano-Cortina 2026 rule set
func DefaultGame() *Game {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		loc = time.FixedZone("CST", -6*60*60)
	}

	return &Game{
		Name:         "2026 Milano-Cortina Winter Olympics Pool",
		ShortName:    "Olympics Pool",
		Location:     loc,
		Start:        time.Date(2026, time.February, 6, 0, 0, 0, 0, loc),
		End:          time.Date(2026, time.February, 22, 23, 59, 59, 0, loc),
		PickDeadline: time.Date(2026, time.February, 6, 23, 59, 59, 0, loc),
		MedalPoints:  MedalPoints{Gold: 3, Silver: 2, Bronze: 1},
		Tiers: map[int]Tier{
			1: {Number: 1, Name: "Elite", Multiplier: 1, Picks: 1},
			2: {Number: 2, Name: "Strong", Multiplier: 2, Picks: 2},
			3: {Number: 3, Name: "Competitive", Multiplier: 3, Picks: 1},
			4: {Number: 4, Name: "Emerging", Multiplier: 6, Picks: 1},
			5: {Number: 5, Name: "Occasional", Multiplier: 10, Picks: 1},
			6: {Number: 6, Name: "Wildcard", Multiplier: 20, Picks: 2},
		},
		TiebreakerCountry:  "USA",
		WildcardTier:       6,
		WildcardTierNotice: wildcardNotice,
	}
}

// LoadGame returns the default rule set with environment overrides applied.
// PICK_DEADLINE is RFC3339, GAME_TIMEZONE an IANA zone name.
func LoadGame() (*Game, error) {
	game := DefaultGame()

	if v := os.Getenv("GAME_TIMEZONE"); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GAME_TIMEZONE %q: %w", v, err)
		}
		game.Location = loc
		game.Start = game.Start.In(loc)
		game.End = game.End.In(loc)
		game.PickDeadline = game.PickDeadline.In(loc)
	}
	if v := os.Getenv("PICK_DEADLINE"); v != "" {
		deadline, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("invalid PICK_DEADLINE %q: %w", v, err)
		}
		game.PickDeadline = deadline.In(game.Location)
	}
	if v := os.Getenv("TIEBREAKER_COUNTRY"); v != "" {
		game.TiebreakerCountry = strings.ToUpper(v)
	}

	return game, nil
}

// TierNumbers returns the configured tiers in ascending order
func (g *Game) TierNumbers() []int {
	numbers := make([]int, 0, len(g.Tiers))
	for n := range g.Tiers {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}

// Multiplier returns the multiplier of a tier, 1 for unknown tiers
func (g *Game) Multiplier(tier int) int {
	if t, ok := g.Tiers[tier]; ok {
		return t.Multiplier
	}
	return 1
}

// TierName returns the display name of a tier
func (g *Game) TierName(tier int) string {
	if t, ok := g.Tiers[tier]; ok {
		return t.Name
	}
	return "Unknown"
}

// MedalValue is the points one medal of the given type is worth in a tier
func (g *Game) MedalValue(tier int, medalType string) int {
	return g.MedalPoints.Get(medalType) * g.Multiplier(tier)
}

// TotalPicks is the number of picks a complete entry holds
func (g *Game) TotalPicks() int {
	total := 0
	for _, t := range g.Tiers {
		total += t.Picks
	}
	return total
}

// PicksLocked reports whether the pick deadline has passed at now
func (g *Game) PicksLocked(now time.Time) bool {
	return now.After(g.PickDeadline)
}

// Now returns the current time in the game's timezone
func (g *Game) Now() time.Time {
	return time.Now().In(g.Location)
}
