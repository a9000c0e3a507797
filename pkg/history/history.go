package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"toes-server/pkg/db"
	"toes-server/pkg/shuffle"
	"toes-server/pkg/toes"
)

const pqDuplicateKeyErrorCode pq.ErrorCode = "23505"

// ErrResultExists is returned when a table's result has already been recorded
var ErrResultExists = errors.New("match result already recorded")

// ShuffleRecord is a record in the `shuffle_audits` table
type ShuffleRecord struct {
	ID         int64     `json:"id"`
	TableID    string    `json:"tableId"`
	Seed       string    `json:"seed"`
	CommitHash string    `json:"commitHash"`
	Created    time.Time `json:"created"`
}

// Audit returns the seed and commitment of the record
func (s *ShuffleRecord) Audit() shuffle.Audit {
	return shuffle.Audit{
		Seed:       s.Seed,
		CommitHash: s.CommitHash,
	}
}

// MatchResult is a record in the `match_results` table
type MatchResult struct {
	ID       int64     `json:"id"`
	TableID  string    `json:"tableId"`
	WinnerID string    `json:"winnerId"`
	Rounds   int       `json:"rounds"`
	Pot      int       `json:"pot"`
	Created  time.Time `json:"created"`
}

// Store keeps the shuffle audit trail and match results in Postgres
type Store struct {
	db *sql.DB
}

// NewStore returns a store backed by dbh
func NewStore(dbh *sql.DB) *Store {
	return &Store{db: dbh}
}

// RecordShuffle saves a shuffle used by the table
// Recording the same shuffle twice is not an error.
func (s *Store) RecordShuffle(ctx context.Context, tableID string, audit shuffle.Audit) error {
	const query = `
INSERT INTO shuffle_audits (table_id, seed, commit_hash)
VALUES ($1, $2, $3)
ON CONFLICT (table_id, commit_hash) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, query, tableID, audit.Seed, audit.CommitHash); err != nil {
		return fmt.Errorf("could not record shuffle: %w", err)
	}

	return nil
}

// RecordResult saves the outcome of a finished match
func (s *Store) RecordResult(ctx context.Context, state toes.GameState) error {
	if !state.IsOver() {
		return fmt.Errorf("match on table %s is not over", state.TableID)
	}

	const query = `
INSERT INTO match_results (table_id, winner_id, rounds, pot)
VALUES ($1, $2, $3, $4)`

	if _, err := s.db.ExecContext(ctx, query, state.TableID, state.WinnerID, state.Round, state.Pot); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqDuplicateKeyErrorCode {
			return fmt.Errorf("%w: %s", ErrResultExists, state.TableID)
		}

		return fmt.Errorf("could not record result: %w", err)
	}

	return nil
}

// ShufflesByTable returns every shuffle recorded for the table, oldest first
func (s *Store) ShufflesByTable(ctx context.Context, tableID string) ([]*ShuffleRecord, error) {
	const query = `
SELECT id, table_id, seed, commit_hash, created
FROM shuffle_audits
WHERE table_id = $1
ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*ShuffleRecord, 0)
	for rows.Next() {
		record, err := shuffleRecordByRow(rows)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

func shuffleRecordByRow(row db.Scanner) (*ShuffleRecord, error) {
	var r ShuffleRecord
	if err := row.Scan(&r.ID, &r.TableID, &r.Seed, &r.CommitHash, &r.Created); err != nil {
		return nil, err
	}

	return &r, nil
}

// ResultByTable returns the recorded result of the table's match
// If the match has not been recorded, sql.ErrNoRows is returned.
func (s *Store) ResultByTable(ctx context.Context, tableID string) (*MatchResult, error) {
	const query = `
SELECT id, table_id, winner_id, rounds, pot, created
FROM match_results
WHERE table_id = $1`

	var r MatchResult
	row := s.db.QueryRowContext(ctx, query, tableID)
	if err := row.Scan(&r.ID, &r.TableID, &r.WinnerID, &r.Rounds, &r.Pot, &r.Created); err != nil {
		return nil, err
	}

	return &r, nil
}

// VerifyTable checks every recorded shuffle of the table against its commitment
// It returns the number of shuffles verified.
func (s *Store) VerifyTable(ctx context.Context, tableID string, shuffler *shuffle.Shuffler) (int, error) {
	records, err := s.ShufflesByTable(ctx, tableID)
	if err != nil {
		return 0, err
	}

	for i, record := range records {
		if err := shuffler.Verify(record.Audit()); err != nil {
			return i, fmt.Errorf("shuffle %d of table %s: %w", record.ID, tableID, err)
		}
	}

	return len(records), nil
}
