package toes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toes-server/pkg/deck"
	"toes-server/pkg/snapshot"
)

func TestView_Snapshot(t *testing.T) {
	e := newTestEngine()
	state := e.Apply(newTestGame(t, e), Advance{})

	snapshot.ValidateSnapshot(t, View(state, "p1"))
}

func TestView_HidesSecrets(t *testing.T) {
	a := assert.New(t)
	e := newTestEngine()
	state := e.Apply(newTestGame(t, e), Advance{})
	state = e.Apply(state, Choose{PlayerID: "p1", In: true})

	view := View(state, "p2")
	a.Equal("7h", deck.CardToString(*view.Card))
	a.Empty(view.Seed)
	a.Equal(49, view.CardsLeft)
	a.Equal([]MoveKind{MoveChoose}, view.LegalMoves)

	a.True(view.Players[0].Decided)
	a.Nil(view.Players[0].IsIn, "choices stay hidden until everyone decides")
	a.True(view.Players[0].HasCard)

	own := View(state, "p1")
	a.NotNil(own.Players[0].IsIn)
	a.Empty(own.LegalMoves)

	b, err := json.Marshal(view)
	require.NoError(t, err)
	a.NotContains(string(b), "seed-1")
	a.NotContains(string(b), `"rank":3,"suit":"diamonds"`, "p1's card must not leak to p2")
	a.NotContains(string(b), `"rank":13,"suit":"spades"`, "p3's card must not leak to p2")

	spectator := View(state, "")
	a.Nil(spectator.Card)
	a.Empty(spectator.LegalMoves)
}

func TestView_AfterReveal(t *testing.T) {
	a := assert.New(t)
	e := newTestEngine()
	state := e.Apply(newTestGame(t, e), Advance{})
	state = e.Apply(chooseAll(e, state, true, false, true), Advance{})

	view := View(state, "")
	a.Len(view.FaceUpCards, 2)
	a.Equal("3d", deck.CardToString(view.FaceUpCards["p1"]))
	a.NotContains(view.FaceUpCards, "p2")
	for _, seat := range view.Players {
		a.NotNil(seat.IsIn)
	}
	a.Equal([]MoveKind{MoveAdvance}, view.LegalMoves)
}

func TestView_RevealsSeeds(t *testing.T) {
	a := assert.New(t)
	e := newTestEngine()
	state := newTestGame(t, e)

	state = e.Apply(state, Reshuffle{Seed: "x", CommitHash: e.Shuffler().Commit("x")})
	view := View(state, "p1")
	a.Equal("seed-1", view.PreviousShuffle.Seed, "a finished cycle is public")
	a.Empty(view.Seed)

	state = playRound(t, e, state, "14c,2c,3c", true, true, true)
	state = playRound(t, e, state, "14d,2d,3d", true, true, true)
	state = playRound(t, e, state, "14h,2h,3h", true, true, true)
	a.True(state.IsOver())

	view = View(state, "p2")
	a.Equal("x", view.Seed)
	a.Equal("p1", view.WinnerID)
	a.Empty(view.LegalMoves)
}

func TestView_HidesPreviousSeedWhileCardsAreHeld(t *testing.T) {
	a := assert.New(t)
	e := newTestEngine()
	state := e.Apply(newTestGame(t, e), Advance{})
	state = e.Apply(state, Reshuffle{Seed: "x", CommitHash: e.Shuffler().Commit("x")})
	a.Equal("seed-1", state.PreviousShuffle.Seed)

	view := View(state, "p1")
	a.Nil(view.PreviousShuffle, "p2 still holds a card from the seed-1 cycle")

	b, err := json.Marshal(view)
	require.NoError(t, err)
	a.NotContains(string(b), "seed-1")

	state = e.Apply(chooseAll(e, state, false, false, false), Advance{})
	state = e.Apply(state, Advance{})
	a.Empty(state.HeldCards())

	view = View(state, "p1")
	if a.NotNil(view.PreviousShuffle) {
		a.Equal("seed-1", view.PreviousShuffle.Seed)
	}
}
