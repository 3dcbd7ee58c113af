// internal/rules/engine.go
//
// Rules engine for an odd-sized, circular set of moves.
// Responsibilities:
//   - Validate raw move lists into a MoveSet (odd, at least 3, unique).
//   - Decide a pair of moves with circular half-dominance.
//   - Build the N×N help table from Determine alone.
//
// Notes:
//   - Each move beats the N/2 moves that come before it (wrapping) and loses
//     to the N/2 moves after it, so every row of the table has the same
//     number of wins and losses.
//   - Labels are matched case-sensitively.
package rules

import "fmt"

const minMoves = 3

// NewMoveSet validates labels and returns a MoveSet in the given order.
// The input slice is copied; later changes to it do not affect the set.
func NewMoveSet(labels []string) (MoveSet, error) {
	in := append([]string(nil), labels...)
	if len(in) < minMoves {
		return MoveSet{}, &ValidationError{Reason: "at least 3 moves are required", Moves: in}
	}
	if len(in)%2 == 0 {
		return MoveSet{}, &ValidationError{Reason: "the number of moves must be odd", Moves: in}
	}
	index := make(map[string]int, len(in))
	for i, l := range in {
		if _, dup := index[l]; dup {
			return MoveSet{}, &ValidationError{Reason: fmt.Sprintf("duplicate move %q", l), Moves: in}
		}
		index[l] = i
	}
	return MoveSet{labels: in, index: index}, nil
}

// Len returns the number of moves.
func (ms MoveSet) Len() int { return len(ms.labels) }

// Labels returns a copy of the labels in circular order.
func (ms MoveSet) Labels() []string { return append([]string(nil), ms.labels...) }

// Label returns the label at position i. It panics if i is out of range.
func (ms MoveSet) Label(i int) string { return ms.labels[i] }

// Index returns the circular position of label.
func (ms MoveSet) Index(label string) (int, error) {
	if i, ok := ms.index[label]; ok {
		return i, nil
	}
	return -1, &InvalidMoveError{Move: label}
}

// Determine decides playerMove (challenger) against computerMove (defender).
// Both labels are looked up on every call; an unknown label is an
// *InvalidMoveError.
func Determine(ms MoveSet, playerMove, computerMove string) (Outcome, error) {
	a, err := ms.Index(playerMove)
	if err != nil {
		return "", err
	}
	b, err := ms.Index(computerMove)
	if err != nil {
		return "", err
	}
	return dominance(a, b, ms.Len()/2), nil
}

// BuildTable returns the N×N outcome matrix, row = challenger and
// column = defender. Every cell comes from Determine.
func BuildTable(ms MoveSet) [][]Outcome {
	n := ms.Len()
	table := make([][]Outcome, n)
	for i := 0; i < n; i++ {
		row := make([]Outcome, n)
		for j := 0; j < n; j++ {
			// Both labels come from ms, so the lookup cannot fail.
			row[j], _ = Determine(ms, ms.labels[i], ms.labels[j])
		}
		table[i] = row
	}
	return table
}

// dominance applies circular half-dominance to positions a (challenger)
// and b (defender). The boundary d == half goes to the challenger when
// d > 0 and to the defender when d < 0.
func dominance(a, b, half int) Outcome {
	if a == b {
		return OutcomeDraw
	}
	d := a - b
	if (d > 0 && d <= half) || (d < 0 && -d > half) {
		return OutcomePlayerWins
	}
	return OutcomeComputerWins
}
