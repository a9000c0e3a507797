package deck

// Compare orders cards by rank, then by suit (clubs < diamonds < hearts < spades)
// It returns a negative number if a < b, zero if they are the same card and a positive number if a > b
func Compare(a, b Card) int {
	if a.Rank != b.Rank {
		return a.Rank - b.Rank
	}

	return suitIndex(a.Suit) - suitIndex(b.Suit)
}

// Less returns true if a ranks below b
func Less(a, b Card) bool {
	return Compare(a, b) < 0
}

// Hand represents a collection of cards
type Hand []Card

func (h Hand) Len() int {
	return len(h)
}

func (h Hand) Less(i, j int) bool {
	return Less(h[i], h[j])
}

func (h Hand) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

// HasCard returns true if the hand contains the specified card
func (h Hand) HasCard(card Card) bool {
	for _, c := range h {
		if c.Equal(card) {
			return true
		}
	}

	return false
}

func (h Hand) String() string {
	return CardsToString(h)
}
