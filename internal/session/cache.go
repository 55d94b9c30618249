package session

import (
	"context"
	"sync"
	"time"
)

// Cached layers a read-through cache over another Store. The wrapped store
// remains the source of truth: every Put goes through and drops the cached
// entry, so a failed write never leaves a stale hit behind. Correctness must
// never depend on the cache.
type Cached struct {
	next Store

	mu    sync.Mutex
	cache map[string]Session
}

func NewCached(next Store) *Cached {
	return &Cached{next: next, cache: make(map[string]Session)}
}

func (c *Cached) Get(ctx context.Context, userID string) (Session, error) {
	c.mu.Lock()
	s, ok := c.cache[userID]
	c.mu.Unlock()
	if ok {
		out := Session{UserID: s.UserID, LastActiveAt: s.LastActiveAt}
		out.Turns = make([]Turn, len(s.Turns))
		copy(out.Turns, s.Turns)
		return out, nil
	}

	s, err := c.next.Get(ctx, userID)
	if err != nil {
		return s, err
	}
	cp := Session{UserID: s.UserID, LastActiveAt: s.LastActiveAt}
	cp.Turns = make([]Turn, len(s.Turns))
	copy(cp.Turns, s.Turns)
	c.mu.Lock()
	c.cache[userID] = cp
	c.mu.Unlock()
	return s, nil
}

func (c *Cached) Put(ctx context.Context, userID string, turns []Turn, lastActiveAt time.Time) error {
	c.mu.Lock()
	delete(c.cache, userID)
	c.mu.Unlock()
	return c.next.Put(ctx, userID, turns, lastActiveAt)
}

func (c *Cached) DeleteIdle(ctx context.Context, before time.Time) (int, error) {
	c.mu.Lock()
	c.cache = make(map[string]Session)
	c.mu.Unlock()
	return c.next.DeleteIdle(ctx, before)
}
