package shuffle

import "toes-server/internal/rng"

// seedBytes is the amount of entropy in a generated seed
const seedBytes = 32

// SeedSource produces fresh secret seeds for drivers
// The engine itself never calls it.
type SeedSource interface {
	NewSeed() (string, error)
}

// CryptoSeeds draws seeds from crypto/rand
type CryptoSeeds struct{}

// NewSeed returns 32 random bytes, hex encoded
func (CryptoSeeds) NewSeed() (string, error) {
	return rng.Crypto{}.HexString(seedBytes)
}
