package toes

// LegalMoves returns the move kinds the player may submit in the current state
// playerID may be empty for a spectator or the dealer. Reshuffle is reserved for the driver and
// is never listed, though Apply accepts it in any phase before the match ends.
func LegalMoves(state GameState, playerID string) []MoveKind {
	if state.IsOver() {
		return []MoveKind{}
	}

	switch state.Phase {
	case PhaseChoose:
		p, ok := state.Player(playerID)
		if !ok || p.HasChosen() {
			return []MoveKind{}
		}

		return []MoveKind{MoveChoose}
	case PhaseDeal, PhaseReveal, PhaseBetween:
		return []MoveKind{MoveAdvance}
	}

	return []MoveKind{}
}

// CanAdvance returns true if an advance would change the state
func CanAdvance(state GameState) bool {
	if state.IsOver() {
		return false
	}

	switch state.Phase {
	case PhaseDeal:
		return len(state.Deck) >= len(state.Players)
	case PhaseChoose:
		return state.AllChosen()
	case PhaseReveal:
		return true
	}

	return false
}

// NeedsReshuffle returns true if the deal phase is stalled on an exhausted deck
func NeedsReshuffle(state GameState) bool {
	return !state.IsOver() && state.Phase == PhaseDeal && len(state.Deck) < len(state.Players)
}
