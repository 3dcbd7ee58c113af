// internal/game/types.go
//
// Core type definitions for a single round.
// Defines:
//   - Round: state for one committed (then revealed) round.
//   - Result: what the player is shown once the round is over.

package game

import (
	"sync"

	"github.com/robalobadob/rps/internal/commit"
	"github.com/robalobadob/rps/internal/rules"
)

// Round states as reported by Round.State.
const (
	StateCommitted = "committed"
	StateRevealed  = "revealed"
)

// Round holds the state of a single game round.
type Round struct {
	ID     string        // Unique round identifier (random hex string).
	Moves  rules.MoveSet // Move set the round is played over.
	HMAC   string        // Digest committing to the computer's move.

	mu       sync.Mutex     // guards the fields below
	engine   *commit.Engine // Owns the key until reveal.
	finished bool           // true once the move and key are revealed
	result   *Result        // set when finished
}

// Result is the outcome of a finished round.
type Result struct {
	PlayerMove   string        `json:"yourMove"`
	ComputerMove string        `json:"computerMove"`
	Outcome      rules.Outcome `json:"outcome"`
	Key          string        `json:"key"` // 64 uppercase hex chars
}

// Message renders the result line ("You win!" etc.).
func (r Result) Message() string { return r.Outcome.Message() }
