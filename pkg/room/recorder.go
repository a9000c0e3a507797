package room

import (
	"context"

	"toes-server/pkg/shuffle"
	"toes-server/pkg/toes"
)

// Recorder persists the audit trail of a table
type Recorder interface {
	// RecordShuffle is called for every shuffle a table uses, starting with the initial one
	RecordShuffle(ctx context.Context, tableID string, audit shuffle.Audit) error

	// RecordResult is called once, when a match has a winner
	RecordResult(ctx context.Context, state toes.GameState) error
}

// NopRecorder discards everything
type NopRecorder struct{}

// RecordShuffle does nothing
func (NopRecorder) RecordShuffle(context.Context, string, shuffle.Audit) error {
	return nil
}

// RecordResult does nothing
func (NopRecorder) RecordResult(context.Context, toes.GameState) error {
	return nil
}
