package history

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toes-server/pkg/db"
	"toes-server/pkg/room"
	"toes-server/pkg/shuffle"
	"toes-server/pkg/toes"
)

var _ room.Recorder = (*Store)(nil)

var cbg = context.Background()

// newTestStore connects to the database named by PG_DSN, skipping the test if it is not set
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN is not set")
	}

	dbh, err := db.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = dbh.Close()
	})

	require.NoError(t, db.MigrateInstance(dbh, "../../sql"))

	return NewStore(dbh)
}

func TestStore_RecordShuffle(t *testing.T) {
	a := assert.New(t)
	s := newTestStore(t)
	tableID := uuid.New().String()
	shuffler := shuffle.Default()

	first := shuffler.Generate("seed-1").Audit("seed-1")
	second := shuffler.Generate("seed-2").Audit("seed-2")

	a.NoError(s.RecordShuffle(cbg, tableID, first))
	a.NoError(s.RecordShuffle(cbg, tableID, second))
	a.NoError(s.RecordShuffle(cbg, tableID, first))

	records, err := s.ShufflesByTable(cbg, tableID)
	a.NoError(err)
	if a.Len(records, 2) {
		a.Equal(first, records[0].Audit())
		a.Equal(second, records[1].Audit())
		a.Equal(tableID, records[0].TableID)
		a.False(records[0].Created.IsZero())
	}

	n, err := s.VerifyTable(cbg, tableID, shuffler)
	a.NoError(err)
	a.Equal(2, n)

	records, err = s.ShufflesByTable(cbg, uuid.New().String())
	a.NoError(err)
	a.Empty(records)
}

func TestStore_VerifyTable_Tampered(t *testing.T) {
	a := assert.New(t)
	s := newTestStore(t)
	tableID := uuid.New().String()
	shuffler := shuffle.Default()

	a.NoError(s.RecordShuffle(cbg, tableID, shuffle.Audit{
		Seed:       "seed-1",
		CommitHash: shuffler.Commit("seed-2"),
	}))

	n, err := s.VerifyTable(cbg, tableID, shuffler)
	a.Equal(0, n)
	a.True(errors.Is(err, shuffle.ErrCommitMismatch))
}

func TestStore_RecordResult(t *testing.T) {
	a := assert.New(t)
	s := newTestStore(t)
	tableID := uuid.New().String()

	state := toes.GameState{
		TableID:  tableID,
		WinnerID: "p2",
		Round:    7,
		Pot:      90,
		Phase:    toes.PhaseBetween,
	}

	a.NoError(s.RecordResult(cbg, state))
	a.True(errors.Is(s.RecordResult(cbg, state), ErrResultExists))

	result, err := s.ResultByTable(cbg, tableID)
	a.NoError(err)
	a.Equal("p2", result.WinnerID)
	a.Equal(7, result.Rounds)
	a.Equal(90, result.Pot)

	state.WinnerID = ""
	a.Error(s.RecordResult(cbg, state))

	_, err = s.ResultByTable(cbg, uuid.New().String())
	a.Equal(sql.ErrNoRows, err)
}
