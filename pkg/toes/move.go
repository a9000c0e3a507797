package toes

import (
	"encoding/json"
	"fmt"
)

// MoveKind is the tag of a move
type MoveKind string

// move kinds
const (
	MoveChoose    MoveKind = "choose"
	MoveAdvance   MoveKind = "advance"
	MoveReshuffle MoveKind = "reshuffle"
)

// Move is one of Choose, Advance or Reshuffle
type Move interface {
	Kind() MoveKind

	// move is unexported so the set of moves is closed
	move()
}

// Choose records a player's in/out decision for the round
type Choose struct {
	PlayerID string `json:"playerId"`
	In       bool   `json:"in"`
}

// Advance moves the hand to its next phase
type Advance struct{}

// Reshuffle replaces the deck with a freshly generated one and starts a new cycle
// CommitHash must be the hash returned when Seed was generated; it is recorded, not checked.
// NextCommitHash optionally pre-publishes the commitment of the cycle after this one.
type Reshuffle struct {
	Seed           string `json:"seed"`
	CommitHash     string `json:"commitHash"`
	NextCommitHash string `json:"nextCommitHash,omitempty"`
}

// Kind returns "choose"
func (Choose) Kind() MoveKind { return MoveChoose }

// Kind returns "advance"
func (Advance) Kind() MoveKind { return MoveAdvance }

// Kind returns "reshuffle"
func (Reshuffle) Kind() MoveKind { return MoveReshuffle }

func (Choose) move()    {}
func (Advance) move()   {}
func (Reshuffle) move() {}

// moveEnvelope is the wire format of a move: {"type": "choose", "playerId": "p1", "in": true}
type moveEnvelope struct {
	Type           MoveKind `json:"type"`
	PlayerID       string   `json:"playerId,omitempty"`
	In             bool     `json:"in,omitempty"`
	Seed           string   `json:"seed,omitempty"`
	CommitHash     string   `json:"commitHash,omitempty"`
	NextCommitHash string   `json:"nextCommitHash,omitempty"`
}

// EncodeMove returns the JSON envelope for the move
func EncodeMove(m Move) ([]byte, error) {
	env := moveEnvelope{Type: m.Kind()}
	switch mv := m.(type) {
	case Choose:
		env.PlayerID = mv.PlayerID
		env.In = mv.In
	case Advance:
	case Reshuffle:
		env.Seed = mv.Seed
		env.CommitHash = mv.CommitHash
		env.NextCommitHash = mv.NextCommitHash
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownMove, m)
	}

	return json.Marshal(env)
}

// DecodeMove parses a JSON envelope into a move
func DecodeMove(data []byte) (Move, error) {
	var env moveEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	switch env.Type {
	case MoveChoose:
		return Choose{PlayerID: env.PlayerID, In: env.In}, nil
	case MoveAdvance:
		return Advance{}, nil
	case MoveReshuffle:
		return Reshuffle{
			Seed:           env.Seed,
			CommitHash:     env.CommitHash,
			NextCommitHash: env.NextCommitHash,
		}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownMove, env.Type)
}
