// internal/rules/types.go
//
// Core type definitions for the rules engine.
// Defines:
//   - Outcome: result of one move challenging another (draw/player/computer).
//   - MoveSet: the ordered, validated list of move labels for a session.
//   - ValidationError / InvalidMoveError: typed failures at the input boundary.

package rules

import (
	"fmt"
	"strings"
)

// Outcome represents the result of a player move against a computer move.
// Possible values:
//   - "draw":     both sides picked the same move.
//   - "player":   the challenger (player, or table row) wins.
//   - "computer": the defender (computer, or table column) wins.
type Outcome string

const (
	OutcomeDraw         Outcome = "draw"
	OutcomePlayerWins   Outcome = "player"
	OutcomeComputerWins Outcome = "computer"
)

// Message renders the outcome as shown to the player after a round.
func (o Outcome) Message() string {
	switch o {
	case OutcomePlayerWins:
		return "You win!"
	case OutcomeComputerWins:
		return "Computer wins!"
	default:
		return "It's a draw!"
	}
}

// TableLabel renders the outcome from the row (challenger) point of view.
func (o Outcome) TableLabel() string {
	switch o {
	case OutcomePlayerWins:
		return "Win"
	case OutcomeComputerWins:
		return "Lose"
	default:
		return "Draw"
	}
}

// MoveSet is an ordered list of unique move labels.
// Positions 0..N-1 are the circular positions used by Determine.
// The zero value has no moves; build one with NewMoveSet.
type MoveSet struct {
	labels []string       // labels in circular order
	index  map[string]int // label -> position
}

// ValidationError reports a move list that cannot form a MoveSet.
type ValidationError struct {
	Reason string   // human-readable cause
	Moves  []string // the rejected input
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid move set [%s]: %s", strings.Join(e.Moves, " "), e.Reason)
}

// InvalidMoveError reports a label that is not part of the active MoveSet.
type InvalidMoveError struct {
	Move string
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("invalid move %q", e.Move)
}
