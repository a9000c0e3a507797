package toes

import (
	"errors"
	"fmt"
)

// ErrEmptyTableID is returned when a game is created without a table ID
var ErrEmptyTableID = errors.New("table ID is required")

// ErrEmptyPlayerID is returned when a player ID is blank
var ErrEmptyPlayerID = errors.New("player ID cannot be blank")

// ErrDuplicatePlayer is returned when a player ID appears more than once
var ErrDuplicatePlayer = errors.New("player IDs must be unique")

// ErrInvalidAnte is returned when the ante is negative
var ErrInvalidAnte = errors.New("ante must be positive")

// ErrInvalidDealerIndex is returned when the initial dealer is not a seat at the table
var ErrInvalidDealerIndex = errors.New("initial dealer index is out of range")

// ErrMissingSeed is returned when no shuffle seed is provided
var ErrMissingSeed = errors.New("shuffle seed is required")

// ErrUnknownMove is returned when a move envelope has an unrecognized type
var ErrUnknownMove = errors.New("unknown move type")

// PlayerCountError is an error on the number of players in the game
type PlayerCountError struct {
	Min int
	Max int
	Got int
}

func (p PlayerCountError) Error() string {
	return fmt.Sprintf("expected %d to %d players, got %d", p.Min, p.Max, p.Got)
}
