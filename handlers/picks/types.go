package picks

import (
	"time"

	"olympool/scoring"
	"olympool/services"
)

// Constants for messages
const (
	ErrFetchPicks  = "Failed to fetch picks"
	MsgPicksSaved  = "Your picks have been saved!"
	MsgPicksLocked = "Picks are locked. Good luck!"
)

// PicksRequest is a full entry: country IDs keyed by tier number and the
// tiebreaker medal guess
type PicksRequest struct {
	Picks      map[int][]uint  `json:"picks" binding:"required"`
	Tiebreaker *scoring.Medals `json:"tiebreaker"`
}

func (r PicksRequest) guess() scoring.Medals {
	if r.Tiebreaker == nil {
		return scoring.Medals{}
	}
	return *r.Tiebreaker
}

// PicksResponse is the caller's entry with the deadline state
type PicksResponse struct {
	*services.PickSet
	PicksLocked  bool      `json:"picks_locked"`
	PickDeadline time.Time `json:"pick_deadline"`
	Message      string    `json:"message,omitempty"`
}

// ValidationResponse is the result of a dry-run validation
type ValidationResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}
