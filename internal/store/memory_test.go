package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/robalobadob/rps/internal/game"
	"github.com/robalobadob/rps/internal/rules"
)

func newRound(t *testing.T) *game.Round {
	t.Helper()
	ms, err := rules.NewMoveSet([]string{"rock", "paper", "scissors"})
	if err != nil {
		t.Fatalf("new move set: %v", err)
	}
	r, err := game.New(ms, nil)
	if err != nil {
		t.Fatalf("new round: %v", err)
	}
	return r
}

// fakeClock is a settable clock for expiry tests.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClockedStore(ttl time.Duration) (*memory, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	st := NewMemoryStore(ttl).(*memory)
	st.now = clock.now
	return st, clock
}

func TestMemorySaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(time.Minute)
	r := newRound(t)

	if _, err := st.Get(ctx, r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := st.Save(ctx, r); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := st.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != r {
		t.Fatal("expected the saved round back")
	}
	if err := st.Delete(ctx, r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.Get(ctx, r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := st.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestMemoryExpiredRoundNotFound(t *testing.T) {
	ctx := context.Background()
	st, clock := newClockedStore(time.Minute)
	r := newRound(t)
	if err := st.Save(ctx, r); err != nil {
		t.Fatalf("save: %v", err)
	}

	clock.advance(59 * time.Second)
	if _, err := st.Get(ctx, r.ID); err != nil {
		t.Fatalf("round should still be live: %v", err)
	}

	clock.advance(time.Second)
	if _, err := st.Get(ctx, r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired round, got %v", err)
	}
	if len(st.rounds) != 0 {
		t.Fatalf("expected expired round to be dropped, %d left", len(st.rounds))
	}
}

func TestMemorySaveEvictsUnplayedRounds(t *testing.T) {
	ctx := context.Background()
	st, clock := newClockedStore(time.Minute)
	for i := 0; i < 100; i++ {
		if err := st.Save(ctx, newRound(t)); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	clock.advance(2 * time.Minute)
	fresh := newRound(t)
	if err := st.Save(ctx, fresh); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(st.rounds) != 1 {
		t.Fatalf("expected only the fresh round to remain, got %d", len(st.rounds))
	}
	if _, err := st.Get(ctx, fresh.ID); err != nil {
		t.Fatalf("get fresh: %v", err)
	}
}

func TestMemoryZeroTTLKeepsRounds(t *testing.T) {
	ctx := context.Background()
	st, clock := newClockedStore(0)
	r := newRound(t)
	_ = st.Save(ctx, r)
	clock.advance(24 * time.Hour)
	if _, err := st.Get(ctx, r.ID); err != nil {
		t.Fatalf("expected round without expiry, got %v", err)
	}
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(time.Minute)
	rounds := make([]*game.Round, 16)
	for i := range rounds {
		rounds[i] = newRound(t)
	}
	var wg sync.WaitGroup
	for _, r := range rounds {
		wg.Add(1)
		go func(r *game.Round) {
			defer wg.Done()
			_ = st.Save(ctx, r)
			if _, err := st.Get(ctx, r.ID); err != nil {
				t.Errorf("get: %v", err)
			}
			_ = st.Delete(ctx, r.ID)
		}(r)
	}
	wg.Wait()
}
