package toes

import (
	"sort"

	"toes-server/pkg/deck"
)

// Result ranks the face-up cards of a round
type Result struct {
	// Order is the IDs of players who went in, from lowest card to highest
	Order []string
	// WinnerID is the holder of the highest face-up card, or empty if nobody went in
	WinnerID string
}

// Losers returns the players who went in and did not win, lowest card first
func (r Result) Losers() []string {
	if len(r.Order) == 0 {
		return []string{}
	}

	return r.Order[:len(r.Order)-1]
}

// RoundResult ranks the face-up cards of the state
func RoundResult(state GameState) Result {
	order := make([]string, 0, len(state.FaceUpCards))
	// seat order first so the result does not depend on map iteration
	for _, p := range state.Players {
		if _, ok := state.FaceUpCards[p.ID]; ok {
			order = append(order, p.ID)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return deck.Less(state.FaceUpCards[order[i]], state.FaceUpCards[order[j]])
	})

	result := Result{Order: order}
	if n := len(order); n > 0 {
		result.WinnerID = order[n-1]
	}

	return result
}
