package room

import "errors"

// ErrDealerClosed is returned when a move is submitted to a dealer whose shift has ended
var ErrDealerClosed = errors.New("dealer is closed")

// ErrMoveRejected is returned when a move did not change the game state
var ErrMoveRejected = errors.New("move rejected")

// ErrTableExists is returned when a table id is already in use
var ErrTableExists = errors.New("table already exists")

// ErrTableNotFound is returned when no dealer runs the requested table
var ErrTableNotFound = errors.New("table not found")
