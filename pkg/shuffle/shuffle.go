package shuffle

import (
	"strconv"

	"toes-server/internal/rng"
	"toes-server/pkg/deck"
)

// seedHexWidth is how many leading hex characters of the digest seed the generator
const seedHexWidth = 8

// Audit is one shuffle cycle's fairness record
// The commit hash may be published immediately. The seed must stay private until the cycle's
// hands are resolved.
type Audit struct {
	Seed       string `json:"seed"`
	CommitHash string `json:"commitHash"`
}

// Result is the output of Generate
type Result struct {
	Deck       []deck.Card
	CommitHash string
}

// Audit returns the audit record for the seed that produced r
func (r Result) Audit(seed string) Audit {
	return Audit{
		Seed:       seed,
		CommitHash: r.CommitHash,
	}
}

// Shuffler derives decks and commitments from seeds
type Shuffler struct {
	hasher Hasher
}

// New returns a shuffler using the provided hasher
func New(hasher Hasher) (*Shuffler, error) {
	if _, err := deriveSeed(hasher.HexDigest("")); err != nil {
		return nil, err
	}

	return &Shuffler{hasher: hasher}, nil
}

// Default returns a shuffler using SHA256
func Default() *Shuffler {
	return &Shuffler{hasher: SHA256}
}

// Hasher returns the commitment hash in use
func (s *Shuffler) Hasher() Hasher {
	return s.hasher
}

// Commit returns the commitment hash for seed
func (s *Shuffler) Commit(seed string) string {
	return s.hasher.HexDigest(seed)
}

// Generate returns the deck and commitment for seed
// The same seed always yields the same deck and hash. The last card of Deck is the top of the deck.
func (s *Shuffler) Generate(seed string) Result {
	digest := s.hasher.HexDigest(seed)
	genSeed, err := deriveSeed(digest)
	if err != nil {
		// New() checked the hasher, so only a non-deterministic hasher can get here
		panic(err)
	}

	gen := rng.NewXorShift32(genSeed)
	cards := deck.New()
	for i := len(cards) - 1; i > 0; i-- {
		j := gen.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}

	return Result{
		Deck:       cards,
		CommitHash: digest,
	}
}

// Verify checks that the audit's seed hashes to its commitment
func (s *Shuffler) Verify(audit Audit) error {
	if s.Commit(audit.Seed) != audit.CommitHash {
		return ErrCommitMismatch
	}

	return nil
}

func deriveSeed(digest string) (uint32, error) {
	if len(digest) < seedHexWidth {
		return 0, ErrShortDigest
	}

	v, err := strconv.ParseUint(digest[:seedHexWidth], 16, 32)
	if err != nil {
		return 0, ErrShortDigest
	}

	return uint32(v), nil
}
