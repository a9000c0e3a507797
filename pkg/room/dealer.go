package room

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"

	"toes-server/pkg/deck"
	"toes-server/pkg/shuffle"
	"toes-server/pkg/toes"
)

const (
	subscriberBuffer = 64
	recordTimeout    = 5 * time.Second
)

// Config holds the collaborators and house rules shared by every dealer
type Config struct {
	Engine   *toes.Engine
	Seeds    shuffle.SeedSource
	Recorder Recorder
	Clock    quartz.Clock
	Logger   logrus.FieldLogger

	// ChooseTimeout is how long a player may take to decide; zero waits forever
	ChooseTimeout time.Duration

	// AutoAdvance lets the dealer deal, reveal and settle without an advance move
	AutoAdvance bool

	// RevealDelay is how long revealed cards stay on the table when AutoAdvance is set
	RevealDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}

	if c.Engine == nil {
		c.Engine = toes.NewEngine(c.Logger, nil)
	}

	if c.Seeds == nil {
		c.Seeds = shuffle.CryptoSeeds{}
	}

	if c.Recorder == nil {
		c.Recorder = NopRecorder{}
	}

	if c.Clock == nil {
		c.Clock = quartz.NewReal()
	}

	return c
}

// Dealer runs a single table
// Every change to the game state happens in the dealer's run loop, so moves on a table are serialized.
type Dealer struct {
	cfg    Config
	logger logrus.FieldLogger

	lock        sync.RWMutex
	state       toes.GameState
	subscribers map[chan toes.GameState]bool
	logMessages []*LogMessage

	// run loop only
	nextSeed    string
	timer       *quartz.Timer
	timerKey    string
	resultSaved bool

	execInRunLoop chan func()
	close         chan struct{}
	closeOnce     sync.Once
}

// NewDealer creates the match and a dealer to run it
// Missing shuffle seeds are drawn from the configured seed source. The seed behind the
// pending commitment never leaves the dealer until the deck it shuffles is in play.
func NewDealer(cfg Config, opts toes.Options) (*Dealer, error) {
	cfg = cfg.withDefaults()

	if opts.ShuffleSeed == "" {
		seed, err := cfg.Seeds.NewSeed()
		if err != nil {
			return nil, fmt.Errorf("could not create shuffle seed: %w", err)
		}

		opts.ShuffleSeed = seed
	}

	if opts.NextShuffleSeed == "" {
		seed, err := cfg.Seeds.NewSeed()
		if err != nil {
			return nil, fmt.Errorf("could not create next shuffle seed: %w", err)
		}

		opts.NextShuffleSeed = seed
	}

	state, err := cfg.Engine.NewGame(opts)
	if err != nil {
		return nil, err
	}

	d := &Dealer{
		cfg:           cfg,
		logger:        cfg.Logger.WithField("table", state.TableID),
		state:         state,
		subscribers:   make(map[chan toes.GameState]bool),
		nextSeed:      opts.NextShuffleSeed,
		execInRunLoop: make(chan func(), 256),
		close:         make(chan struct{}),
	}

	d.logMessages = []*LogMessage{
		d.newLogMessage("", "deck shuffled, commitment %s", state.CurrentShuffle.CommitHash),
	}

	return d, nil
}

// TableID returns the id of the table the dealer runs
func (d *Dealer) TableID() string {
	return d.State().TableID
}

// State returns the current game state
func (d *Dealer) State() toes.GameState {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.state
}

// View returns the current game state as the player sees it
func (d *Dealer) View(playerID string) toes.PlayerView {
	return toes.View(d.State(), playerID)
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	d.execInRunLoop <- func() {
		d.record(func(ctx context.Context) error {
			return d.cfg.Recorder.RecordShuffle(ctx, d.state.TableID, d.state.CurrentShuffle)
		})

		d.settleDown()
	}

	go d.runLoop()
}

// EndShift is called when the dealer is no longer needed
// Subscriber channels are closed and further submits fail with ErrDealerClosed.
func (d *Dealer) EndShift() {
	d.closeOnce.Do(func() {
		close(d.close)
	})
}

func (d *Dealer) runLoop() {
	d.logger.Debug("creating dealer run loop")
	for {
		select {
		case fn := <-d.execInRunLoop:
			fn()
		case <-d.close:
			d.logger.Debug("terminating dealer run loop")
			d.stopTimer()
			d.closeSubscribers()
			return
		}
	}
}

// enqueue schedules fn on the run loop unless the shift has ended
func (d *Dealer) enqueue(fn func()) bool {
	select {
	case d.execInRunLoop <- fn:
		return true
	case <-d.close:
		return false
	}
}

// Submit applies a move and returns the resulting state
// Submit blocks until the run loop has applied the move and any automatic follow-up, or ctx ends.
// A move that does not change the state fails with ErrMoveRejected.
func (d *Dealer) Submit(ctx context.Context, move toes.Move) (toes.GameState, error) {
	if move == nil {
		return toes.GameState{}, fmt.Errorf("%w: nil move", ErrMoveRejected)
	}

	type result struct {
		state toes.GameState
		err   error
	}

	res := make(chan result, 1)
	fn := func() {
		state, err := d.apply(move)
		res <- result{state: state, err: err}
	}

	select {
	case d.execInRunLoop <- fn:
	case <-d.close:
		return toes.GameState{}, ErrDealerClosed
	case <-ctx.Done():
		return toes.GameState{}, ctx.Err()
	}

	select {
	case r := <-res:
		return r.state, r.err
	case <-d.close:
		return toes.GameState{}, ErrDealerClosed
	case <-ctx.Done():
		return toes.GameState{}, ctx.Err()
	}
}

// Subscribe returns a channel that receives every new game state, starting with the current one
// A subscriber that falls behind misses states; it never blocks the table. The returned
// function unsubscribes and closes the channel.
func (d *Dealer) Subscribe() (<-chan toes.GameState, func()) {
	ch := make(chan toes.GameState, subscriberBuffer)

	d.lock.Lock()
	select {
	case <-d.close:
		close(ch)
		d.lock.Unlock()
		return ch, func() {}
	default:
	}

	d.subscribers[ch] = true
	ch <- d.state
	d.lock.Unlock()

	return ch, func() {
		d.lock.Lock()
		defer d.lock.Unlock()

		if d.subscribers[ch] {
			delete(d.subscribers, ch)
			close(ch)
		}
	}
}

func (d *Dealer) closeSubscribers() {
	d.lock.Lock()
	defer d.lock.Unlock()

	for ch := range d.subscribers {
		close(ch)
	}

	d.subscribers = make(map[chan toes.GameState]bool)
}

// NOTE: must only be called from the run loop
func (d *Dealer) setState(next toes.GameState) {
	prev := d.state

	d.lock.Lock()
	d.state = next
	for ch := range d.subscribers {
		select {
		case ch <- next:
		default:
			d.logger.Warn("subscriber is not keeping up, skipped state")
		}
	}
	d.lock.Unlock()

	d.describe(prev, next)
}

// NOTE: must only be called from the run loop
func (d *Dealer) apply(move toes.Move) (toes.GameState, error) {
	prev := d.state
	next := d.cfg.Engine.Apply(prev, move)
	if reflect.DeepEqual(prev, next) {
		return prev, fmt.Errorf("%w: %s", ErrMoveRejected, move.Kind())
	}

	d.setState(next)
	d.settleDown()

	return d.state, nil
}

// settleDown performs every transition the dealer makes on its own
// NOTE: must only be called from the run loop
func (d *Dealer) settleDown() {
	for {
		s := d.state

		if s.IsOver() {
			d.stopTimer()
			d.saveResult()
			return
		}

		if toes.NeedsReshuffle(s) {
			if !d.reshuffle() {
				return
			}

			continue
		}

		if d.timerKey != "" && d.timerKey != timerKey(s) {
			d.stopTimer()
		}

		if d.cfg.AutoAdvance {
			switch {
			case s.Phase == toes.PhaseDeal, s.Phase == toes.PhaseChoose && s.AllChosen():
				d.setState(d.cfg.Engine.Apply(s, toes.Advance{}))
				continue
			case s.Phase == toes.PhaseReveal:
				if d.cfg.RevealDelay <= 0 {
					d.setState(d.cfg.Engine.Apply(s, toes.Advance{}))
					continue
				}

				d.startTimer(d.cfg.RevealDelay, s, d.revealExpired)
				return
			}
		}

		if s.Phase == toes.PhaseChoose && !s.AllChosen() && d.cfg.ChooseTimeout > 0 {
			d.startTimer(d.cfg.ChooseTimeout, s, d.chooseExpired)
		}

		return
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) reshuffle() bool {
	s := d.state
	seed := d.nextSeed
	commitHash := d.cfg.Engine.Shuffler().Commit(seed)
	if seed == "" || commitHash != s.PendingCommitHash {
		d.logger.WithField("pendingCommitHash", s.PendingCommitHash).Error("pending seed does not match its commitment, refusing to reshuffle")
		return false
	}

	next, err := d.cfg.Seeds.NewSeed()
	if err != nil {
		d.logger.WithError(err).Error("could not create next shuffle seed")
		return false
	}

	d.setState(d.cfg.Engine.Apply(s, toes.Reshuffle{
		Seed:           seed,
		CommitHash:     commitHash,
		NextCommitHash: d.cfg.Engine.Shuffler().Commit(next),
	}))
	d.nextSeed = next

	audit := d.state.CurrentShuffle
	d.record(func(ctx context.Context) error {
		return d.cfg.Recorder.RecordShuffle(ctx, s.TableID, audit)
	})

	d.logger.WithField("commitHash", commitHash).Info("reshuffled stalled deck")

	return true
}

// NOTE: must only be called from the run loop
func (d *Dealer) saveResult() {
	if d.resultSaved {
		return
	}

	d.resultSaved = true
	state := d.state
	d.record(func(ctx context.Context) error {
		return d.cfg.Recorder.RecordResult(ctx, state)
	})
}

func (d *Dealer) record(fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		d.logger.WithError(err).Error("could not record table history")
	}
}

func timerKey(s toes.GameState) string {
	return fmt.Sprintf("%d:%s", s.Round, s.Phase)
}

// startTimer arms fn to run in the run loop after wait, unless a timer is already armed for
// the state's round and phase
// NOTE: must only be called from the run loop
func (d *Dealer) startTimer(wait time.Duration, s toes.GameState, fn func(key string)) {
	key := timerKey(s)
	if d.timerKey == key {
		return
	}

	d.stopTimer()
	d.timerKey = key
	d.timer = d.cfg.Clock.AfterFunc(wait, func() {
		d.enqueue(func() {
			fn(key)
		})
	})
}

// NOTE: must only be called from the run loop
func (d *Dealer) stopTimer() {
	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = nil
	d.timerKey = ""
}

// chooseExpired sits out every player who has not decided
// NOTE: must only be called from the run loop
func (d *Dealer) chooseExpired(key string) {
	if d.timerKey != key || timerKey(d.state) != key {
		return
	}

	d.timer = nil
	d.timerKey = ""

	undecided := d.state.Undecided()
	if len(undecided) == 0 {
		return
	}

	next := d.state
	for _, id := range undecided {
		p, _ := next.Player(id)
		next = d.cfg.Engine.Apply(next, toes.Choose{PlayerID: id, In: false})
		d.logger.WithField("player", id).Info("player timed out, sitting out")
		d.addLogMessages(d.newLogMessage(id, "%s ran out of time and sits out", p.Name))
	}

	d.setState(next)
	d.settleDown()
}

// NOTE: must only be called from the run loop
func (d *Dealer) revealExpired(key string) {
	if d.timerKey != key || timerKey(d.state) != key {
		return
	}

	d.timer = nil
	d.timerKey = ""

	d.setState(d.cfg.Engine.Apply(d.state, toes.Advance{}))
	d.settleDown()
}

// describe adds log messages for the table's notable transitions
// NOTE: must only be called from the run loop
func (d *Dealer) describe(prev, next toes.GameState) {
	switch {
	case next.CurrentShuffle != prev.CurrentShuffle:
		d.addLogMessages(d.newLogMessage("", "deck reshuffled, commitment %s", next.CurrentShuffle.CommitHash))
	case prev.Phase == toes.PhaseChoose && next.Phase == toes.PhaseReveal:
		msg := d.newLogMessage("", "%d of %d players went in", len(next.FaceUpCards), len(next.Players))
		for _, p := range next.Players {
			if card, ok := next.FaceUpCards[p.ID]; ok {
				msg.PlayerIDs = append(msg.PlayerIDs, p.ID)
				msg.Cards = append(msg.Cards, card)
			}
		}

		d.addLogMessages(msg)
	case prev.Phase == toes.PhaseReveal && next.Phase != toes.PhaseReveal:
		result := toes.RoundResult(prev)
		if result.WinnerID == "" {
			msg := d.newLogMessage("", "nobody went in, the pot carries over")
			msg.Round = prev.Round
			d.addLogMessages(msg)
			break
		}

		winner, _ := next.Player(result.WinnerID)
		msg := d.newLogMessage(winner.ID, "%s wins the round with %s and has %d toes", winner.Name, prev.FaceUpCards[winner.ID], winner.Toes)
		msg.Round = prev.Round
		msg.Cards = []deck.Card{prev.FaceUpCards[winner.ID]}
		d.addLogMessages(msg)

		if next.IsOver() {
			d.addLogMessages(d.newLogMessage(winner.ID, "%s wins the match and the pot of %d", winner.Name, next.Pot))
		}
	}
}
