// internal/commit/commit.go
//
// Commit-reveal engine for one round of play.
// Responsibilities:
//   - Generate a fresh 256-bit key from a secure source.
//   - Pick the computer's move and bind it to the key with HMAC-SHA256.
//   - Reveal the move and key exactly once, then forget the key.
//   - Let anyone recompute and check a digest in constant time.
//
// Notes:
//   - The source is owned by the Engine and passed in at construction;
//     crypto/rand.Reader is used when none is given. Tests inject a fixed
//     reader to make rounds reproducible.
//   - Move selection draws from the same source as the key.
//   - An Engine is single-use and not safe for concurrent rounds. Create
//     one per round.
package commit

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
)

// KeySize is the key length in bytes (256 bits).
const KeySize = 32

var (
	// ErrProtocolViolation is returned when the engine is used out of order:
	// Reveal before SelectMove, Reveal twice, or SelectMove on a round that
	// already has a key.
	ErrProtocolViolation = errors.New("commit: protocol violation")

	// ErrEntropyUnavailable is returned when the source cannot supply bytes.
	ErrEntropyUnavailable = errors.New("commit: secure randomness unavailable")
)

// Key is the secret HMAC key of one round.
type Key [KeySize]byte

// String renders the key as 64 uppercase hex characters.
func (k Key) String() string { return strings.ToUpper(hex.EncodeToString(k[:])) }

// ParseKey decodes a key rendered by Key.String (any case).
func ParseKey(s string) (Key, error) {
	var k Key
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return k, fmt.Errorf("parse key: %w", err)
	}
	if len(b) != KeySize {
		return k, fmt.Errorf("parse key: expected %d bytes, got %d", KeySize, len(b))
	}
	copy(k[:], b)
	return k, nil
}

// GenerateKey fills a Key from src. A failing or short src is
// ErrEntropyUnavailable; there is no weaker fallback.
func GenerateKey(src io.Reader) (Key, error) {
	var k Key
	if src == nil {
		src = rand.Reader
	}
	if _, err := io.ReadFull(src, k[:]); err != nil {
		return Key{}, fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}
	return k, nil
}

// Digest returns HMAC-SHA256(key, label) as 64 uppercase hex characters.
func Digest(key Key, label string) string {
	return strings.ToUpper(hex.EncodeToString(sum(key, label)))
}

// VerifyDigest recomputes the digest of label under key and compares it
// to digest (hex, any case) in constant time.
func VerifyDigest(label string, key Key, digest string) bool {
	want, err := hex.DecodeString(strings.TrimSpace(digest))
	if err != nil {
		return false
	}
	return hmac.Equal(sum(key, label), want)
}

// VerifyHex is VerifyDigest for a key given as displayed after a round.
// A malformed key is an error; a mismatching digest is simply false.
func VerifyHex(label, keyHex, digest string) (bool, error) {
	k, err := ParseKey(keyHex)
	if err != nil {
		return false, err
	}
	return VerifyDigest(label, k, digest), nil
}

func sum(key Key, label string) []byte {
	h := hmac.New(sha256.New, key[:])
	h.Write([]byte(label))
	return h.Sum(nil)
}

// state tracks where an Engine is in its round.
type state int

const (
	stateIdle state = iota
	stateCommitted
	stateRevealed
)

// Engine holds one round's commitment.
type Engine struct {
	src   io.Reader
	state state
	move  string
	key   Key
}

// New returns an Engine drawing from src, or crypto/rand.Reader if src is nil.
func New(src io.Reader) *Engine {
	if src == nil {
		src = rand.Reader
	}
	return &Engine{src: src}
}

// SelectMove picks one of moves uniformly, generates the round key and
// returns the digest that commits to the pick. The picked label is only
// available through Reveal.
func (e *Engine) SelectMove(moves []string) (string, error) {
	if e.state != stateIdle {
		return "", fmt.Errorf("%w: move already committed", ErrProtocolViolation)
	}
	if len(moves) == 0 {
		return "", errors.New("commit: no moves to select from")
	}
	n, err := rand.Int(e.src, big.NewInt(int64(len(moves))))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}
	key, err := GenerateKey(e.src)
	if err != nil {
		return "", err
	}
	e.move = moves[n.Int64()]
	e.key = key
	e.state = stateCommitted
	return Digest(key, e.move), nil
}

// Reveal returns the committed move and key, in that order. It succeeds
// once per round; the engine's copy of the key is zeroed afterwards.
func (e *Engine) Reveal() (string, Key, error) {
	switch e.state {
	case stateIdle:
		return "", Key{}, fmt.Errorf("%w: reveal before select", ErrProtocolViolation)
	case stateRevealed:
		return "", Key{}, fmt.Errorf("%w: already revealed", ErrProtocolViolation)
	}
	k := e.key
	e.key = Key{}
	e.state = stateRevealed
	return e.move, k, nil
}
