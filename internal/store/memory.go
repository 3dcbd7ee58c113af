// internal/store/memory.go
//
// In-memory store of open rounds for the HTTP wrapper.
// Each round owns its own commitment engine; the store only hands the
// round back to whoever holds its ID.
//
// Characteristics:
//   - Stores *game.Round objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Revealed rounds are deleted by the caller; nothing is kept as history.
//   - Rounds older than the TTL are evicted on Save and reported missing by
//     Get, so an unplayed round's key does not outlive it.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/rps/internal/game"
)

// ErrNotFound is returned by Get for an unknown or expired round ID.
var ErrNotFound = errors.New("not found")

// Store defines the interface for open rounds.
type Store interface {
	// Save adds or replaces a round.
	Save(ctx context.Context, r *game.Round) error

	// Get retrieves a round by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Round, error)

	// Delete discards a round. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error
}

// entry is a stored round and the time it was saved.
type entry struct {
	round   *game.Round
	created time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu     sync.RWMutex     // guards rounds map
	rounds map[string]entry // keyed by Round.ID
	ttl    time.Duration    // <= 0 disables expiry
	now    func() time.Time // clock, replaced in tests
}

// NewMemoryStore constructs a new in-memory Store whose rounds expire
// after ttl. A ttl <= 0 keeps rounds until they are deleted.
func NewMemoryStore(ttl time.Duration) Store {
	return &memory{rounds: make(map[string]entry), ttl: ttl, now: time.Now}
}

// Save adds or updates the round and evicts expired ones.
func (m *memory) Save(ctx context.Context, r *game.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.evictLocked(now)
	m.rounds[r.ID] = entry{round: r, created: now}
	return nil
}

// Get looks up a round by ID. Expired rounds are dropped and reported
// as ErrNotFound.
func (m *memory) Get(ctx context.Context, id string) (*game.Round, error) {
	m.mu.RLock()
	e, ok := m.rounds[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if m.expired(e, m.now()) {
		_ = m.Delete(ctx, id)
		return nil, ErrNotFound
	}
	return e.round, nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rounds, id)
	return nil
}

func (m *memory) expired(e entry, now time.Time) bool {
	return m.ttl > 0 && now.Sub(e.created) >= m.ttl
}

// evictLocked drops expired rounds. Caller holds m.mu for writing.
func (m *memory) evictLocked(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for id, e := range m.rounds {
		if m.expired(e, now) {
			delete(m.rounds, id)
		}
	}
}
