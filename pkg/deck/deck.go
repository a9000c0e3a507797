package deck

import "errors"

// ErrEndOfDeck is an error when Draw() is attempted and there are no more cards
var ErrEndOfDeck = errors.New("end of deck reached")

// Size is the number of cards in a standard deck
const Size = 52

// New returns a new, unshuffled deck of cards
// Cards are suit-major (clubs, diamonds, hearts, spades) and rank-minor (2 through ace)
func New() []Card {
	cards := make([]Card, 0, Size)
	for _, suit := range Suits {
		for rank := MinRank; rank <= MaxRank; rank++ {
			cards = append(cards, Card{
				Rank: rank,
				Suit: suit,
			})
		}
	}

	return cards
}

// Draw takes the top card, which is the last card of the slice
// If there are no more cards, an ErrEndOfDeck is returned along with the unchanged slice.
func Draw(cards []Card) (Card, []Card, error) {
	n := len(cards)
	if n == 0 {
		return Card{}, cards, ErrEndOfDeck
	}

	return cards[n-1], cards[:n-1], nil
}

// CanDraw returns true if there are {want} cards left in the deck
func CanDraw(cards []Card, want int) bool {
	return len(cards) >= want
}

// Without returns a copy of cards with every card in exclude removed
// The relative order of the remaining cards is preserved.
func Without(cards []Card, exclude ...Card) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if !Hand(exclude).HasCard(c) {
			out = append(out, c)
		}
	}

	return out
}

// IsComplete returns true if cards is exactly one standard deck: 52 valid cards, no duplicates
func IsComplete(cards []Card) bool {
	if len(cards) != Size {
		return false
	}

	seen := make(map[Card]bool, Size)
	for _, c := range cards {
		if !c.IsValid() || seen[c] {
			return false
		}

		seen[c] = true
	}

	return true
}
