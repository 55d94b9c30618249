package session

import (
	"context"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message in a conversation's rolling history. Immutable once
// appended.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is the bounded conversational context for one user. The store owns
// the record; callers re-read at the start of a request and write back at the
// end, never holding a long-lived reference.
type Session struct {
	UserID       string
	Turns        []Turn
	LastActiveAt time.Time
}

// Store abstracts session persistence. Get returns a zero-value Session (nil
// Turns) for unknown users. Put replaces the full turn list, last-write-wins.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, userID string) (Session, error)
	Put(ctx context.Context, userID string, turns []Turn, lastActiveAt time.Time) error
	DeleteIdle(ctx context.Context, before time.Time) (int, error)
}

// Trim drops the oldest turns so at most k remain.
func Trim(turns []Turn, k int) []Turn {
	if k <= 0 || len(turns) <= k {
		return turns
	}
	return turns[len(turns)-k:]
}
