package shuffle

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toes-server/pkg/deck"
)

const seed1Deck = "7d,10c,8d,4s,12h,10s,12c,14d,12d,13d,5d,11s,14c,5h,4h,11d,4c,12s,6d,13h,5s,2s,9h,9c,7s,11c," +
	"4d,8h,14s,2d,6s,10h,8c,11h,6c,9s,3h,2h,3s,3c,10d,6h,9d,5c,13c,2c,14h,8s,7c,13s,7h,3d"

func TestShuffler_Generate(t *testing.T) {
	a := assert.New(t)

	res := Default().Generate("seed-1")
	a.Equal("0eb026731d9ea3f870511f8c18daeb814eaa2c9e276082b204f2a962212fb5bd", res.CommitHash)
	a.Equal(seed1Deck, deck.CardsToString(res.Deck))
}

func TestShuffler_Generate_Deterministic(t *testing.T) {
	s := Default()
	for _, seed := range []string{"", "x", "seed-1", "a much longer seed with spaces ♠"} {
		r1 := s.Generate(seed)
		r2 := s.Generate(seed)
		assert.Equal(t, r1, r2, seed)
	}
}

func TestShuffler_Generate_Permutation(t *testing.T) {
	for _, h := range []Hasher{SHA256, SHA3_256, BLAKE2b256} {
		s, err := New(h)
		require.NoError(t, err)

		for i := 0; i < 200; i++ {
			res := s.Generate(fmt.Sprintf("perm-%d", i))
			assert.True(t, deck.IsComplete(res.Deck), "%s seed %d", h.Name(), i)
		}
	}
}

func TestShuffler_Generate_Distinct(t *testing.T) {
	a := assert.New(t)
	s := Default()

	hashes := make(map[string]bool)
	decks := make(map[string]bool)
	const n = 2000
	for i := 0; i < n; i++ {
		res := s.Generate(fmt.Sprintf("distinct-%d", i))
		hashes[res.CommitHash] = true
		decks[deck.CardsToString(res.Deck)] = true
	}

	a.Len(hashes, n)
	a.Len(decks, n)
}

func TestShuffler_ZeroSeedGuard(t *testing.T) {
	zero := HasherFunc{Label: "zero", Fn: func(s string) string {
		return "00000000" + s
	}}

	s, err := New(zero)
	require.NoError(t, err)

	res := s.Generate("abc")
	assert.True(t, deck.IsComplete(res.Deck))
	assert.NotEqual(t, deck.CardsToString(deck.New()), deck.CardsToString(res.Deck))
	assert.Equal(t, "00000000abc", res.CommitHash)
}

func TestNew_ShortDigest(t *testing.T) {
	_, err := New(HasherFunc{Label: "short", Fn: func(string) string { return "abc" }})
	assert.Equal(t, ErrShortDigest, err)

	_, err = New(HasherFunc{Label: "nothex", Fn: func(string) string { return "zzzzzzzzzz" }})
	assert.Equal(t, ErrShortDigest, err)
}

func TestShuffler_HasherOnlyChangesOutput(t *testing.T) {
	// a hasher that returns the sha256 digest in upper case derives the same seed
	upper := HasherFunc{Label: "upper", Fn: func(s string) string {
		d := SHA256.HexDigest(s)
		out := make([]byte, len(d))
		for i := range d {
			c := d[i]
			if c >= 'a' && c <= 'f' {
				c -= 'a' - 'A'
			}
			out[i] = c
		}
		return string(out)
	}}

	s, err := New(upper)
	require.NoError(t, err)

	a := assert.New(t)
	a.Equal(Default().Generate("seed-1").Deck, s.Generate("seed-1").Deck)
	a.NotEqual(Default().Commit("seed-1"), s.Commit("seed-1"))
}

func TestShuffler_Verify(t *testing.T) {
	a := assert.New(t)
	s := Default()

	res := s.Generate("x")
	a.NoError(s.Verify(res.Audit("x")))
	a.Equal(ErrCommitMismatch, s.Verify(Audit{Seed: "y", CommitHash: res.CommitHash}))
	a.Equal(ErrCommitMismatch, s.Verify(Audit{Seed: "x", CommitHash: "00"}))
}
