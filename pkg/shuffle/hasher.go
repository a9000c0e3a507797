package shuffle

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Hasher is the commitment primitive
// Implementations must be deterministic and collision resistant, and return a hex digest
type Hasher interface {
	// Name identifies the hash in configuration and audit logs
	Name() string

	// HexDigest returns the hex encoded digest of s
	HexDigest(s string) string
}

// HasherFunc adapts a plain function to a Hasher
type HasherFunc struct {
	Label string
	Fn    func(s string) string
}

// Name returns the label
func (h HasherFunc) Name() string {
	return h.Label
}

// HexDigest calls Fn
func (h HasherFunc) HexDigest(s string) string {
	return h.Fn(s)
}

type sum256 struct {
	name string
	sum  func([]byte) [32]byte
}

func (s sum256) Name() string {
	return s.name
}

func (s sum256) HexDigest(str string) string {
	digest := s.sum([]byte(str))
	return hex.EncodeToString(digest[:])
}

// hasher names
const (
	NameSHA256     = "sha256"
	NameSHA3256    = "sha3-256"
	NameBLAKE2b256 = "blake2b-256"
)

// SHA256 is the default commitment hash
var SHA256 Hasher = sum256{name: NameSHA256, sum: sha256.Sum256}

// SHA3_256 is FIPS 202 SHA3-256
var SHA3_256 Hasher = sum256{name: NameSHA3256, sum: sha3.Sum256}

// BLAKE2b256 is BLAKE2b with a 256 bit digest
var BLAKE2b256 Hasher = sum256{name: NameBLAKE2b256, sum: blake2b.Sum256}

// HasherByName returns the hasher for a configuration value
// An empty name selects SHA256.
func HasherByName(name string) (Hasher, error) {
	switch strings.ToLower(name) {
	case "", NameSHA256:
		return SHA256, nil
	case NameSHA3256, "sha3":
		return SHA3_256, nil
	case NameBLAKE2b256, "blake2b":
		return BLAKE2b256, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownHasher, name)
}
