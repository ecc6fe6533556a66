package scoring

import "olympool/config"

// MedalLine is the contribution of one medal type
type MedalLine struct {
	Count      int `json:"count"`
	PointsEach int `json:"points_each"`
	Total      int `json:"total"`
}

// Breakdown details how a country's points are made up
type Breakdown struct {
	Gold        MedalLine `json:"gold"`
	Silver      MedalLine `json:"silver"`
	Bronze      MedalLine `json:"bronze"`
	Multiplier  int       `json:"multiplier"`
	TotalPoints int       `json:"total_points"`
}

// BreakdownFor returns the per-medal points of a country
func BreakdownFor(m Medals, tier int, game *config.Game) Breakdown {
	line := func(count int, medalType string) MedalLine {
		each := game.MedalValue(tier, medalType)
		return MedalLine{Count: count, PointsEach: each, Total: count * each}
	}

	b := Breakdown{
		Gold:       line(m.Gold, config.Gold),
		Silver:     line(m.Silver, config.Silver),
		Bronze:     line(m.Bronze, config.Bronze),
		Multiplier: game.Multiplier(tier),
	}
	b.TotalPoints = b.Gold.Total + b.Silver.Total + b.Bronze.Total
	return b
}
