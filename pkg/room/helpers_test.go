package room

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"toes-server/pkg/shuffle"
	"toes-server/pkg/toes"
)

// counterSeeds hands out next-1, next-2, ...
type counterSeeds struct {
	lock sync.Mutex
	n    int
}

func (c *counterSeeds) NewSeed() (string, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.n++
	return fmt.Sprintf("next-%d", c.n), nil
}

type memoryRecorder struct {
	lock    sync.Mutex
	audits  []shuffle.Audit
	results []toes.GameState
}

func (m *memoryRecorder) RecordShuffle(_ context.Context, _ string, audit shuffle.Audit) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.audits = append(m.audits, audit)
	return nil
}

func (m *memoryRecorder) RecordResult(_ context.Context, state toes.GameState) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.results = append(m.results, state)
	return nil
}

func (m *memoryRecorder) Audits() []shuffle.Audit {
	m.lock.Lock()
	defer m.lock.Unlock()

	return append([]shuffle.Audit{}, m.audits...)
}

func (m *memoryRecorder) Results() []toes.GameState {
	m.lock.Lock()
	defer m.lock.Unlock()

	return append([]toes.GameState{}, m.results...)
}

func newTestConfig() (Config, *memoryRecorder) {
	logger, _ := test.NewNullLogger()
	recorder := &memoryRecorder{}

	return Config{
		Engine:   toes.NewEngine(logger, nil),
		Seeds:    &counterSeeds{},
		Recorder: recorder,
		Logger:   logger,
	}, recorder
}

func newTestOptions() toes.Options {
	return toes.Options{
		TableID:     "t1",
		PlayerIDs:   []string{"p1", "p2", "p3"},
		PlayerNames: map[string]string{"p1": "A", "p2": "B", "p3": "C"},
		Ante:        10,
		ShuffleSeed: "seed-1",
	}
}

func newTestDealer(t *testing.T, cfg Config) *Dealer {
	t.Helper()

	d, err := NewDealer(cfg, newTestOptions())
	require.NoError(t, err)

	d.StartShift()
	t.Cleanup(d.EndShift)

	return d
}

func submit(t *testing.T, d *Dealer, move toes.Move) toes.GameState {
	t.Helper()

	state, err := d.Submit(context.Background(), move)
	require.NoError(t, err)

	return state
}

func chooseAll(t *testing.T, d *Dealer, in ...bool) toes.GameState {
	t.Helper()

	var state toes.GameState
	for i, id := range []string{"p1", "p2", "p3"} {
		state = submit(t, d, toes.Choose{PlayerID: id, In: in[i]})
	}

	return state
}
