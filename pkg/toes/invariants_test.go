package toes

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toes-server/pkg/deck"
)

// randomMove picks from legal and illegal moves alike so no-op paths get exercised too
func randomMove(r *rand.Rand, state GameState, cycle *int) Move {
	switch n := r.Intn(20); {
	case n < 8:
		p := state.Players[r.Intn(len(state.Players))]
		return Choose{PlayerID: p.ID, In: r.Intn(100) < 60}
	case n < 18:
		return Advance{}
	case n == 18:
		return Choose{PlayerID: "nobody", In: true}
	default:
		*cycle++
		seed := fmt.Sprintf("cycle-%d", *cycle)
		return Reshuffle{Seed: seed, CommitHash: seed + "-commit"}
	}
}

func TestEngine_Invariants(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	e := NewEngine(logger, nil)

	for game := 0; game < 50; game++ {
		r := rand.New(rand.NewSource(int64(game))) // nolint:gosec
		state, err := e.NewGame(Options{
			TableID:     fmt.Sprintf("t%d", game),
			PlayerIDs:   []string{"p1", "p2", "p3", "p4"},
			ShuffleSeed: fmt.Sprintf("game-%d", game),
		})
		require.NoError(t, err)

		cycle := 0
		for step := 0; step < 2000 && !state.IsOver(); step++ {
			var m Move
			if NeedsReshuffle(state) {
				cycle++
				m = Reshuffle{Seed: fmt.Sprintf("stall-%d", cycle), CommitHash: "c"}
			} else {
				m = randomMove(r, state, &cycle)
			}

			next := e.Apply(state, m)
			checkTransition(t, state, next)
			state = next
		}

		require.True(t, state.IsOver(), "game %d did not finish", game)

		// frozen once won
		for i := 0; i < 20; i++ {
			assert.Equal(t, state, e.Apply(state, randomMove(r, state, &cycle)))
		}
	}
}

func checkTransition(t *testing.T, prev, next GameState) {
	t.Helper()

	if !assert.True(t, deck.IsComplete(next.AllCards()), "partition broken in round %d phase %s", next.Round, next.Phase) {
		t.FailNow()
	}

	assert.GreaterOrEqual(t, next.Pot, prev.Pot)
	assert.GreaterOrEqual(t, next.Round, prev.Round)
	require.Len(t, next.Players, len(prev.Players))

	maxToes := 0
	for i := range next.Players {
		assert.Equal(t, prev.Players[i].ID, next.Players[i].ID)
		assert.GreaterOrEqual(t, next.Players[i].Toes, prev.Players[i].Toes)
		if next.Players[i].Toes > maxToes {
			maxToes = next.Players[i].Toes
		}
	}

	if maxToes >= WinningToes {
		assert.NotEmpty(t, next.WinnerID)
		assert.Equal(t, PhaseBetween, next.Phase)
		if w, ok := next.Player(next.WinnerID); assert.True(t, ok) {
			assert.Equal(t, WinningToes, w.Toes)
		}
	} else {
		assert.Empty(t, next.WinnerID)
	}

	for id, card := range next.FaceUpCards {
		p, ok := next.Player(id)
		if assert.True(t, ok) && assert.NotNil(t, p.LastDealtCard) {
			assert.True(t, p.In())
			assert.Equal(t, *p.LastDealtCard, card)
		}
	}
}
