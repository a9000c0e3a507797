package shuffle

import "errors"

// ErrUnknownHasher is returned when a hasher name is not recognized
var ErrUnknownHasher = errors.New("unknown hasher")

// ErrShortDigest is returned when a hasher does not produce enough hex to derive a generator seed
var ErrShortDigest = errors.New("hasher digest is not a hex string of at least 8 characters")

// ErrCommitMismatch is returned when a revealed seed does not hash to its published commitment
var ErrCommitMismatch = errors.New("seed does not match commitment")
