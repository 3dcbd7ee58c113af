// internal/game/engine.go
//
// Round driver composing the commitment engine and the rules engine.
// Responsibilities:
//   - Start a round: commit to the computer's move and expose the digest.
//   - Accept the player's move, validate it against the move set.
//   - Reveal the computer's move and key, decide the outcome.
//   - Track state transitions: committed → revealed.
//
// Notes:
//   - The commit and rules packages never import each other; this package
//     is the only place they meet.
//   - An invalid player move is rejected before anything is revealed, so
//     the caller can ask again on the same round.
//   - randomID() is a compact hex identifier for correlating server state.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/robalobadob/rps/internal/commit"
	"github.com/robalobadob/rps/internal/rules"
)

// ErrRoundFinished is returned when playing a round that was already revealed.
var ErrRoundFinished = errors.New("round finished")

// New starts a round over ms, drawing key and selection from src
// (crypto/rand when nil). The returned round carries the digest to show
// the player before they choose.
func New(ms rules.MoveSet, src io.Reader) (*Round, error) {
	if ms.Len() == 0 {
		return nil, errors.New("game: empty move set")
	}
	e := commit.New(src)
	digest, err := e.SelectMove(ms.Labels())
	if err != nil {
		return nil, fmt.Errorf("start round: %w", err)
	}
	return &Round{
		ID:     randomID(),
		Moves:  ms,
		HMAC:   digest,
		engine: e,
	}, nil
}

// Play decides playerMove against the committed move and reveals the key.
//
// Validation rules:
//   - Round must not be finished (ErrRoundFinished).
//   - playerMove must belong to the move set (*rules.InvalidMoveError);
//     the round stays open in that case.
func (r *Round) Play(playerMove string) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return Result{}, ErrRoundFinished
	}
	if _, err := r.Moves.Index(playerMove); err != nil {
		return Result{}, err
	}

	computerMove, key, err := r.engine.Reveal()
	if err != nil {
		return Result{}, err
	}
	outcome, err := rules.Determine(r.Moves, playerMove, computerMove)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		PlayerMove:   playerMove,
		ComputerMove: computerMove,
		Outcome:      outcome,
		Key:          key.String(),
	}
	r.finished, r.result = true, &res
	return res, nil
}

// PlayIndex plays the move at 1-based menu position choice.
func (r *Round) PlayIndex(choice int) (Result, error) {
	if choice < 1 || choice > r.Moves.Len() {
		return Result{}, &rules.InvalidMoveError{Move: fmt.Sprint(choice)}
	}
	return r.Play(r.Moves.Label(choice - 1))
}

// State reports a coarse string representation of the round state.
func (r *Round) State() string {
	if r.Finished() {
		return StateRevealed
	}
	return StateCommitted
}

// Finished reports whether the move and key have been revealed.
func (r *Round) Finished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finished
}

// Result returns the outcome of a finished round. ok is false while the
// round is still open.
func (r *Round) Result() (res Result, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.result == nil {
		return Result{}, false
	}
	return *r.result, true
}

// randomID returns a compact 16‑hex‑char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
