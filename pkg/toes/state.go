package toes

import (
	"toes-server/pkg/deck"
	"toes-server/pkg/shuffle"
)

// Phase represents the current phase of the hand
type Phase string

const (
	// PhaseDeal is waiting for the dealer to deal one card to each player
	PhaseDeal Phase = "deal"
	// PhaseChoose is when players decide in/out
	PhaseChoose Phase = "choose"
	// PhaseReveal is when the cards of players who went in are face up
	PhaseReveal Phase = "reveal"
	// PhaseBetween is the end of the match
	PhaseBetween Phase = "between"
)

// PlayerState is a seat at the table
type PlayerState struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Toes int    `json:"toes"`
	// LastDealtCard is face down until revealed
	LastDealtCard *deck.Card `json:"lastDealtCard,omitempty"`
	// IsIn is nil until the player has chosen this round
	IsIn *bool `json:"isIn,omitempty"`
}

// HasChosen returns true if the player made their choice this round
func (p PlayerState) HasChosen() bool {
	return p.IsIn != nil
}

// In returns true if the player chose to go in this round
func (p PlayerState) In() bool {
	return p.IsIn != nil && *p.IsIn
}

// GameState is the complete state of one table
// It is a plain value: transport and persistence layers may serialize it as is, but it contains
// the current seed and every face-down card. Use View() for anything sent to a player.
type GameState struct {
	TableID     string               `json:"tableId"`
	Players     []PlayerState        `json:"players"`
	DealerIndex int                  `json:"dealerIndex"`
	Deck        []deck.Card          `json:"deck"`
	Discards    []deck.Card          `json:"discards"`
	Pot         int                  `json:"pot"`
	Ante        int                  `json:"ante"`
	Round       int                  `json:"round"`
	Phase       Phase                `json:"phase"`
	FaceUpCards map[string]deck.Card `json:"faceUpCards"`

	CurrentShuffle shuffle.Audit `json:"currentShuffle"`
	// PreviousShuffle is the audit of the cycle replaced by the last reshuffle; its seed is public
	PreviousShuffle   *shuffle.Audit `json:"previousShuffle,omitempty"`
	PendingCommitHash string         `json:"pendingCommitHash,omitempty"`
	WinnerID          string         `json:"winnerId,omitempty"`
}

// IsOver returns true once a player has reached the winning number of toes
func (g GameState) IsOver() bool {
	return g.WinnerID != ""
}

// PlayerIndex returns the seat of the player, or -1
func (g GameState) PlayerIndex(playerID string) int {
	for i, p := range g.Players {
		if p.ID == playerID {
			return i
		}
	}

	return -1
}

// Player returns the player with the given ID
func (g GameState) Player(playerID string) (PlayerState, bool) {
	i := g.PlayerIndex(playerID)
	if i < 0 {
		return PlayerState{}, false
	}

	return g.Players[i], true
}

// Dealer returns the player currently dealing
func (g GameState) Dealer() PlayerState {
	return g.Players[g.DealerIndex]
}

// AllChosen returns true if every player has made their choice
func (g GameState) AllChosen() bool {
	for _, p := range g.Players {
		if !p.HasChosen() {
			return false
		}
	}

	return true
}

// Undecided returns the IDs of players who have not chosen yet, in seat order
func (g GameState) Undecided() []string {
	ids := make([]string, 0)
	for _, p := range g.Players {
		if !p.HasChosen() {
			ids = append(ids, p.ID)
		}
	}

	return ids
}

// HeldCards returns every card currently dealt to a player, in seat order
func (g GameState) HeldCards() []deck.Card {
	cards := make([]deck.Card, 0, len(g.Players))
	for _, p := range g.Players {
		if p.LastDealtCard != nil {
			cards = append(cards, *p.LastDealtCard)
		}
	}

	return cards
}

// AllCards returns every card the table accounts for: deck, discards and held cards
// Face-up cards are the held cards of players who went in, so they are not counted twice.
func (g GameState) AllCards() []deck.Card {
	cards := make([]deck.Card, 0, deck.Size)
	cards = append(cards, g.Deck...)
	cards = append(cards, g.Discards...)
	cards = append(cards, g.HeldCards()...)

	return cards
}

// Clone returns a deep copy of the state
func (g GameState) Clone() GameState {
	c := g

	c.Players = make([]PlayerState, len(g.Players))
	for i, p := range g.Players {
		if p.LastDealtCard != nil {
			card := *p.LastDealtCard
			p.LastDealtCard = &card
		}

		if p.IsIn != nil {
			in := *p.IsIn
			p.IsIn = &in
		}

		c.Players[i] = p
	}

	c.Deck = make([]deck.Card, len(g.Deck))
	copy(c.Deck, g.Deck)

	c.Discards = make([]deck.Card, len(g.Discards))
	copy(c.Discards, g.Discards)

	c.FaceUpCards = make(map[string]deck.Card, len(g.FaceUpCards))
	for id, card := range g.FaceUpCards {
		c.FaceUpCards[id] = card
	}

	if g.PreviousShuffle != nil {
		prev := *g.PreviousShuffle
		c.PreviousShuffle = &prev
	}

	return c
}
