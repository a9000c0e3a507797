package toes

// DefaultAnte is used when Options.Ante is zero
const DefaultAnte = 10

// WinningToes is the number of round wins that ends the match
const WinningToes = 3

// player limits
const (
	MinPlayers = 2
	MaxPlayers = 10
)

// Options are options for creating a new game
type Options struct {
	TableID   string
	PlayerIDs []string
	// PlayerNames maps player ID to display name; players without an entry use their ID
	PlayerNames        map[string]string
	Ante               int // Default: 10
	InitialDealerIndex int
	ShuffleSeed        string
	// NextShuffleSeed, if set, pre-publishes the commitment of the next cycle
	NextShuffleSeed string
}

func (o Options) validate() error {
	if o.TableID == "" {
		return ErrEmptyTableID
	}

	if n := len(o.PlayerIDs); n < MinPlayers || n > MaxPlayers {
		return PlayerCountError{
			Min: MinPlayers,
			Max: MaxPlayers,
			Got: n,
		}
	}

	seen := make(map[string]bool, len(o.PlayerIDs))
	for _, id := range o.PlayerIDs {
		if id == "" {
			return ErrEmptyPlayerID
		}

		if seen[id] {
			return ErrDuplicatePlayer
		}

		seen[id] = true
	}

	if o.Ante < 0 {
		return ErrInvalidAnte
	}

	if o.InitialDealerIndex < 0 || o.InitialDealerIndex >= len(o.PlayerIDs) {
		return ErrInvalidDealerIndex
	}

	if o.ShuffleSeed == "" {
		return ErrMissingSeed
	}

	return nil
}
