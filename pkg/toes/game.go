package toes

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"toes-server/pkg/deck"
	"toes-server/pkg/shuffle"
)

// Engine applies moves to game states
// An Engine holds no table state; one Engine can serve every table concurrently.
type Engine struct {
	logger   logrus.FieldLogger
	shuffler *shuffle.Shuffler
}

// NewEngine returns a new engine
// If logger is nil, the standard logger is used. If shuffler is nil, SHA256 commitments are used.
func NewEngine(logger logrus.FieldLogger, shuffler *shuffle.Shuffler) *Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if shuffler == nil {
		shuffler = shuffle.Default()
	}

	return &Engine{
		logger:   logger,
		shuffler: shuffler,
	}
}

// Shuffler returns the shuffle engine used for new games and reshuffles
func (e *Engine) Shuffler() *shuffle.Shuffler {
	return e.shuffler
}

// NewGame returns the initial state of a match
// Every player antes into the pot and the first hand waits in the deal phase.
func (e *Engine) NewGame(opts Options) (GameState, error) {
	if err := opts.validate(); err != nil {
		return GameState{}, err
	}

	ante := opts.Ante
	if ante == 0 {
		ante = DefaultAnte
	}

	players := make([]PlayerState, len(opts.PlayerIDs))
	for i, id := range opts.PlayerIDs {
		name := opts.PlayerNames[id]
		if name == "" {
			name = id
		}

		players[i] = PlayerState{
			ID:   id,
			Name: name,
		}
	}

	res := e.shuffler.Generate(opts.ShuffleSeed)

	state := GameState{
		TableID:        opts.TableID,
		Players:        players,
		DealerIndex:    opts.InitialDealerIndex,
		Deck:           res.Deck,
		Discards:       []deck.Card{},
		Pot:            ante * len(players),
		Ante:           ante,
		Round:          1,
		Phase:          PhaseDeal,
		FaceUpCards:    map[string]deck.Card{},
		CurrentShuffle: res.Audit(opts.ShuffleSeed),
	}

	if opts.NextShuffleSeed != "" {
		state.PendingCommitHash = e.shuffler.Commit(opts.NextShuffleSeed)
	}

	e.logger.WithFields(logrus.Fields{
		"table":      state.TableID,
		"players":    len(players),
		"pot":        state.Pot,
		"commitHash": state.CurrentShuffle.CommitHash,
	}).Debug("new game")

	return state, nil
}

// Apply returns the state that results from the move
// Apply never fails: a move that is not legal in the current state returns the state unchanged.
// The input state is never modified.
func (e *Engine) Apply(state GameState, move Move) GameState {
	if move == nil {
		e.logger.WithField("table", state.TableID).Warn("rejected nil move")
		return state
	}

	if state.IsOver() {
		return e.reject(state, move, "match is over")
	}

	switch m := move.(type) {
	case Choose:
		return e.choose(state, m)
	case Advance:
		return e.advance(state)
	case Reshuffle:
		return e.reshuffle(state, m)
	default:
		return e.reject(state, move, fmt.Sprintf("unsupported move type %T", move))
	}
}

func (e *Engine) reject(state GameState, move Move, reason string) GameState {
	e.log(state).WithField("move", move.Kind()).Debugf("rejected move: %s", reason)
	return state
}

func (e *Engine) log(state GameState) logrus.FieldLogger {
	return e.logger.WithFields(logrus.Fields{
		"table": state.TableID,
		"phase": state.Phase,
		"round": state.Round,
	})
}

func (e *Engine) choose(state GameState, m Choose) GameState {
	if state.Phase != PhaseChoose {
		return e.reject(state, m, "not in choose phase")
	}

	i := state.PlayerIndex(m.PlayerID)
	if i < 0 {
		return e.reject(state, m, "player not found")
	}

	if state.Players[i].HasChosen() {
		return e.reject(state, m, "player has already chosen")
	}

	next := state.Clone()
	in := m.In
	next.Players[i].IsIn = &in

	return next
}

func (e *Engine) advance(state GameState) GameState {
	switch state.Phase {
	case PhaseDeal:
		return e.deal(state)
	case PhaseChoose:
		return e.reveal(state)
	case PhaseReveal:
		return e.settle(state)
	}

	return e.reject(state, Advance{}, "nothing to advance")
}

func (e *Engine) deal(state GameState) GameState {
	if !deck.CanDraw(state.Deck, len(state.Players)) {
		return e.reject(state, Advance{}, "not enough cards to deal, reshuffle required")
	}

	next := state.Clone()
	for i := range next.Players {
		card, rest := mustDraw(state.TableID, next.Deck)
		next.Deck = rest
		next.Players[i].LastDealtCard = &card
		next.Players[i].IsIn = nil
	}

	next.FaceUpCards = map[string]deck.Card{}
	next.Phase = PhaseChoose

	return next
}

// mustDraw draws the top card of a deck already checked with CanDraw
// An empty deck here means cards were lost from the deck/discard partition.
func mustDraw(tableID string, cards []deck.Card) (deck.Card, []deck.Card) {
	card, rest, err := deck.Draw(cards)
	if err != nil {
		panic(fmt.Sprintf("deal from exhausted deck on table %s: %v", tableID, err))
	}

	return card, rest
}

func (e *Engine) reveal(state GameState) GameState {
	if !state.AllChosen() {
		return e.reject(state, Advance{}, "waiting on player choices")
	}

	next := state.Clone()
	next.FaceUpCards = make(map[string]deck.Card)
	for _, p := range next.Players {
		if p.In() && p.LastDealtCard != nil {
			next.FaceUpCards[p.ID] = *p.LastDealtCard
		}
	}

	next.Phase = PhaseReveal

	return next
}

func (e *Engine) settle(state GameState) GameState {
	result := RoundResult(state)

	next := state.Clone()
	if len(result.Order) > 0 {
		next.Pot += state.Ante * len(result.Losers())
	}

	winner := -1
	if result.WinnerID != "" {
		winner = next.PlayerIndex(result.WinnerID)
		next.Players[winner].Toes++
	}

	// the face-up cards and the face-down cards of players who sat out are retired together
	for i := range next.Players {
		if card := next.Players[i].LastDealtCard; card != nil {
			next.Discards = append(next.Discards, *card)
			next.Players[i].LastDealtCard = nil
		}
	}

	next.FaceUpCards = map[string]deck.Card{}

	log := e.log(next).WithFields(logrus.Fields{
		"roundWinner": result.WinnerID,
		"pot":         next.Pot,
	})

	if winner >= 0 && next.Players[winner].Toes >= WinningToes {
		next.Phase = PhaseBetween
		next.WinnerID = next.Players[winner].ID
		log.Info("match over")
		return next
	}

	next.DealerIndex = (next.DealerIndex + 1) % len(next.Players)
	next.Round++
	next.Phase = PhaseDeal
	log.Debug("round settled")

	return next
}

func (e *Engine) reshuffle(state GameState, m Reshuffle) GameState {
	res := e.shuffler.Generate(m.Seed)

	next := state.Clone()
	// cards in players' hands stay out of the new deck until the hand is settled
	next.Deck = deck.Without(res.Deck, state.HeldCards()...)
	next.Discards = []deck.Card{}

	prev := state.CurrentShuffle
	next.PreviousShuffle = &prev
	next.CurrentShuffle = shuffle.Audit{
		Seed:       m.Seed,
		CommitHash: m.CommitHash,
	}

	if next.PendingCommitHash == m.CommitHash {
		next.PendingCommitHash = ""
	}

	if m.NextCommitHash != "" {
		next.PendingCommitHash = m.NextCommitHash
	}

	e.log(next).WithField("commitHash", m.CommitHash).Debug("reshuffled")

	return next
}
