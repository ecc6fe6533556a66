// Package leaderboard orders scored users and assigns ranks.
package leaderboard

import (
	"cmp"
	"slices"

	"olympool/scoring"
)

// MissingGuessDistance is used for every component when a user has no
// tiebreaker guess, so they sort last within their points.
const MissingGuessDistance = 999

// Row is a scored user as loaded by the caller
type Row struct {
	UserID      uint
	DisplayName string
	Points      int
	Guess       *scoring.Medals
}

// Entry is one ranked line of the leaderboard
type Entry struct {
	Rank        int             `json:"rank"`
	UserID      uint            `json:"user_id"`
	DisplayName string          `json:"name"`
	Points      int             `json:"points"`
	Guess       *scoring.Medals `json:"tiebreaker,omitempty"`
	Distance    [3]int          `json:"tiebreaker_diff"`
}

// Distance returns the absolute gold, silver and bronze differences between
// a guess and the actual counts
func Distance(guess *scoring.Medals, actual scoring.Medals) [3]int {
	if guess == nil {
		return [3]int{MissingGuessDistance, MissingGuessDistance, MissingGuessDistance}
	}
	return [3]int{
		abs(guess.Gold - actual.Gold),
		abs(guess.Silver - actual.Silver),
		abs(guess.Bronze - actual.Bronze),
	}
}

// Compare orders two entries: points descending, then gold, silver and
// bronze distance ascending.
func Compare(a, b Entry) int {
	if c := cmp.Compare(b.Points, a.Points); c != 0 {
		return c
	}
	for i := range a.Distance {
		if c := cmp.Compare(a.Distance[i], b.Distance[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Build sorts rows against the reference country's actual medals and numbers
// them 1..n. Entries with identical keys still get distinct, consecutive
// ranks; user ID decides their order so the output is deterministic.
func Build(rows []Row, actual scoring.Medals) []Entry {
	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, Entry{
			UserID:      r.UserID,
			DisplayName: r.DisplayName,
			Points:      r.Points,
			Guess:       r.Guess,
			Distance:    Distance(r.Guess, actual),
		})
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := Compare(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Leaders returns the entries sharing the top points and closest tiebreaker.
// Empty input yields nil.
func Leaders(entries []Entry) []Entry {
	if len(entries) == 0 {
		return nil
	}
	var out []Entry
	for _, e := range entries {
		if Compare(e, entries[0]) != 0 {
			break
		}
		out = append(out, e)
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
