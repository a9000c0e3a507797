package toes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"toes-server/pkg/deck"
)

func TestRoundResult(t *testing.T) {
	state := GameState{
		Players: []PlayerState{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}, {ID: "p4"}},
		FaceUpCards: map[string]deck.Card{
			"p1": deck.CardFromString("12d"),
			"p2": deck.CardFromString("12s"),
			"p4": deck.CardFromString("2c"),
		},
	}

	result := RoundResult(state)
	assert.Equal(t, []string{"p4", "p1", "p2"}, result.Order)
	assert.Equal(t, "p2", result.WinnerID)
	assert.Equal(t, []string{"p4", "p1"}, result.Losers())
}

func TestRoundResult_SingleAndEmpty(t *testing.T) {
	a := assert.New(t)

	single := RoundResult(GameState{
		Players:     []PlayerState{{ID: "p1"}, {ID: "p2"}},
		FaceUpCards: map[string]deck.Card{"p2": deck.CardFromString("3h")},
	})
	a.Equal("p2", single.WinnerID)
	a.Empty(single.Losers())

	empty := RoundResult(GameState{Players: []PlayerState{{ID: "p1"}}})
	a.Empty(empty.WinnerID)
	a.Empty(empty.Order)
	a.Empty(empty.Losers())
}
