package toes

import (
	"toes-server/pkg/deck"
	"toes-server/pkg/shuffle"
)

// PlayerView is the state as one player may see it
// This is safe to send to that player: the active seed and other players' face-down cards are
// never included while the match is in progress.
type PlayerView struct {
	TableID     string `json:"tableId"`
	Phase       Phase  `json:"phase"`
	Round       int    `json:"round"`
	Pot         int    `json:"pot"`
	Ante        int    `json:"ante"`
	DealerIndex int    `json:"dealerIndex"`
	CardsLeft   int    `json:"cardsLeft"`
	// Discards are cards revealed earlier in this cycle
	Discards    []deck.Card          `json:"discards"`
	Players     []PlayerViewSeat     `json:"players"`
	FaceUpCards map[string]deck.Card `json:"faceUpCards"`

	CommitHash        string         `json:"commitHash"`
	PreviousShuffle   *shuffle.Audit `json:"previousShuffle,omitempty"`
	PendingCommitHash string         `json:"pendingCommitHash,omitempty"`
	// Seed is only populated once the match is over
	Seed     string `json:"seed,omitempty"`
	WinnerID string `json:"winnerId,omitempty"`

	// Card is the viewer's own face-down card
	Card       *deck.Card `json:"card,omitempty"`
	LegalMoves []MoveKind `json:"legalMoves"`
}

// PlayerViewSeat is the public state of one player
type PlayerViewSeat struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Toes    int    `json:"toes"`
	HasCard bool   `json:"hasCard"`
	Decided bool   `json:"decided"`
	// IsIn is hidden from other players until everyone has decided
	IsIn *bool `json:"isIn,omitempty"`
}

// View returns the state as seen by playerID
// An empty or unknown playerID gets the spectator view.
func View(state GameState, playerID string) PlayerView {
	hideChoices := state.Phase == PhaseChoose && !state.AllChosen()

	seats := make([]PlayerViewSeat, len(state.Players))
	for i, p := range state.Players {
		seat := PlayerViewSeat{
			ID:      p.ID,
			Name:    p.Name,
			Toes:    p.Toes,
			HasCard: p.LastDealtCard != nil,
			Decided: p.HasChosen(),
		}

		if p.IsIn != nil && (!hideChoices || p.ID == playerID) {
			in := *p.IsIn
			seat.IsIn = &in
		}

		seats[i] = seat
	}

	faceUp := make(map[string]deck.Card, len(state.FaceUpCards))
	for id, card := range state.FaceUpCards {
		faceUp[id] = card
	}

	discards := make([]deck.Card, len(state.Discards))
	copy(discards, state.Discards)

	view := PlayerView{
		TableID:           state.TableID,
		Phase:             state.Phase,
		Round:             state.Round,
		Pot:               state.Pot,
		Ante:              state.Ante,
		DealerIndex:       state.DealerIndex,
		CardsLeft:         len(state.Deck),
		Discards:          discards,
		Players:           seats,
		FaceUpCards:       faceUp,
		CommitHash:        state.CurrentShuffle.CommitHash,
		PendingCommitHash: state.PendingCommitHash,
		WinnerID:          state.WinnerID,
		LegalMoves:        LegalMoves(state, playerID),
	}

	// cards dealt before a mid-hand reshuffle come from the previous cycle
	if state.PreviousShuffle != nil && (len(state.HeldCards()) == 0 || state.IsOver()) {
		prev := *state.PreviousShuffle
		view.PreviousShuffle = &prev
	}

	if state.IsOver() {
		view.Seed = state.CurrentShuffle.Seed
	}

	if p, ok := state.Player(playerID); ok && p.LastDealtCard != nil {
		card := *p.LastDealtCard
		view.Card = &card
	}

	return view
}
