package simulator

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"toes-server/internal/rng"
	"toes-server/internal/util"
	"toes-server/pkg/deck"
	"toes-server/pkg/toes"
)

// defaults
const (
	DefaultInRate    = 0.6
	DefaultMaxRounds = 10000
)

// ErrRunaway is returned when a match does not finish within MaxRounds
var ErrRunaway = errors.New("match did not finish")

// ErrBrokenPartition is returned when the deck, discards and held cards stop forming one deck
var ErrBrokenPartition = errors.New("cards were lost or duplicated")

// Options configures a simulation
type Options struct {
	Matches int
	Players int
	Ante    int

	// Workers is how many matches are played at once
	Workers int

	// Seed drives the players' decisions; the same seed replays the same simulation
	Seed uint32

	// InRate is the probability that a player goes in
	InRate float64

	// MaxRounds bounds a single match
	MaxRounds int
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 1
	}

	if o.MaxRounds <= 0 {
		o.MaxRounds = DefaultMaxRounds
	}

	return o
}

func (o Options) validate() error {
	if o.Matches <= 0 {
		return errors.New("matches must be greater than zero")
	}

	if o.Players < toes.MinPlayers || o.Players > toes.MaxPlayers {
		return toes.PlayerCountError{
			Min: toes.MinPlayers,
			Max: toes.MaxPlayers,
			Got: o.Players,
		}
	}

	if o.InRate < 0 || o.InRate > 1 {
		return errors.New("in rate must be between 0 and 1")
	}

	return nil
}

// MatchResult is the outcome of one simulated match
type MatchResult struct {
	Match      int    `json:"match"`
	WinnerID   string `json:"winnerId"`
	WinnerName string `json:"winnerName"`
	Rounds     int    `json:"rounds"`
	Pot        int    `json:"pot"`
	Reshuffles int    `json:"reshuffles"`
}

// Report summarizes a simulation
type Report struct {
	Players      int            `json:"players"`
	Matches      int            `json:"matches"`
	Wins         map[string]int `json:"wins"`
	TotalRounds  int            `json:"totalRounds"`
	LongestMatch int            `json:"longestMatch"`
	LargestPot   int            `json:"largestPot"`
	Reshuffles   int            `json:"reshuffles"`
}

// AverageRounds returns the mean number of rounds per match
func (r Report) AverageRounds() float64 {
	if r.Matches == 0 {
		return 0
	}

	return float64(r.TotalRounds) / float64(r.Matches)
}

// Seats returns the player ids of the report, in seat order
func (r Report) Seats() []string {
	ids := make([]string, 0, len(r.Wins))
	for id := range r.Wins {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		if len(ids[i]) != len(ids[j]) {
			return len(ids[i]) < len(ids[j])
		}

		return ids[i] < ids[j]
	})

	return ids
}

// Simulator plays matches with players who go in at random
type Simulator struct {
	engine *toes.Engine
	logger logrus.FieldLogger
}

// New returns a simulator using the engine
func New(engine *toes.Engine, logger logrus.FieldLogger) *Simulator {
	return &Simulator{
		engine: engine,
		logger: logger,
	}
}

// Run plays every match and tallies the results
// Each match depends only on its index and opts.Seed, so the report does not depend on Workers.
func (s *Simulator) Run(ctx context.Context, opts Options) (Report, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return Report{}, err
	}

	results := make([]MatchResult, opts.Matches)
	jobs := make(chan int)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < opts.Matches; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		return nil
	})

	for w := 0; w < opts.Workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				result, err := s.PlayMatch(i, opts)
				if err != nil {
					return err
				}

				// each worker writes distinct indexes
				results[i] = result
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{
		Players: opts.Players,
		Matches: opts.Matches,
		Wins:    make(map[string]int, opts.Players),
	}

	for _, id := range playerIDs(opts.Players) {
		report.Wins[id] = 0
	}

	for _, r := range results {
		report.Wins[r.WinnerID]++
		report.TotalRounds += r.Rounds
		report.Reshuffles += r.Reshuffles
		if r.Rounds > report.LongestMatch {
			report.LongestMatch = r.Rounds
		}

		if r.Pot > report.LargestPot {
			report.LargestPot = r.Pot
		}
	}

	return report, nil
}

// PlayMatch plays a single match to its end
func (s *Simulator) PlayMatch(match int, opts Options) (MatchResult, error) {
	opts = opts.withDefaults()
	gen := rng.NewXorShift32(opts.Seed ^ (uint32(match+1) * 0x9e3779b9))

	ids := playerIDs(opts.Players)
	names := make(map[string]string, len(ids))
	for _, id := range ids {
		names[id] = util.RandomName(gen)
	}

	state, err := s.engine.NewGame(toes.Options{
		TableID:     fmt.Sprintf("sim-%d", match),
		PlayerIDs:   ids,
		PlayerNames: names,
		Ante:        opts.Ante,
		ShuffleSeed: fmt.Sprintf("seed-%d", match),
	})
	if err != nil {
		return MatchResult{}, err
	}

	log := s.logger.WithField("table", state.TableID)
	shuffler := s.engine.Shuffler()
	reshuffles := 0

	for !state.IsOver() {
		if state.Round > opts.MaxRounds {
			return MatchResult{}, fmt.Errorf("%w: table %s after %d rounds", ErrRunaway, state.TableID, opts.MaxRounds)
		}

		switch {
		case toes.NeedsReshuffle(state):
			reshuffles++
			seed := fmt.Sprintf("seed-%d-%d", match, reshuffles)
			state = s.engine.Apply(state, toes.Reshuffle{
				Seed:       seed,
				CommitHash: shuffler.Commit(seed),
			})
			log.WithField("cycle", reshuffles).Debug("reshuffled")
		case state.Phase == toes.PhaseChoose && !state.AllChosen():
			for _, id := range state.Undecided() {
				state = s.engine.Apply(state, toes.Choose{
					PlayerID: id,
					In:       gen.Float64() < opts.InRate,
				})
			}
		default:
			state = s.engine.Apply(state, toes.Advance{})
		}

		if !deck.IsComplete(state.AllCards()) {
			return MatchResult{}, fmt.Errorf("%w: table %s round %d", ErrBrokenPartition, state.TableID, state.Round)
		}
	}

	winner, _ := state.Player(state.WinnerID)
	log.WithFields(logrus.Fields{
		"winner": winner.ID,
		"rounds": state.Round,
		"pot":    state.Pot,
	}).Debug("match over")

	return MatchResult{
		Match:      match,
		WinnerID:   winner.ID,
		WinnerName: winner.Name,
		Rounds:     state.Round,
		Pot:        state.Pot,
		Reshuffles: reshuffles,
	}, nil
}

func playerIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("p%d", i+1)
	}

	return ids
}
