package session

import (
	"context"
	"sync"
	"time"
)

// Memory keeps sessions in a mutex-guarded map. Suitable for a single
// process; state is lost on restart.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]Session)}
}

func (m *Memory) Get(_ context.Context, userID string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	if !ok {
		return Session{UserID: userID}, nil
	}
	// Copy turns so callers cannot mutate stored state through the slice.
	out := Session{UserID: s.UserID, LastActiveAt: s.LastActiveAt}
	out.Turns = make([]Turn, len(s.Turns))
	copy(out.Turns, s.Turns)
	return out, nil
}

func (m *Memory) Put(_ context.Context, userID string, turns []Turn, lastActiveAt time.Time) error {
	cp := make([]Turn, len(turns))
	copy(cp, turns)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = Session{UserID: userID, Turns: cp, LastActiveAt: lastActiveAt}
	return nil
}

func (m *Memory) DeleteIdle(_ context.Context, before time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int
	for id, s := range m.sessions {
		if s.LastActiveAt.Before(before) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}
