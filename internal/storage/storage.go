package storage

import "time"

// Event represents one pipeline interaction: the user's message, how it was
// classified, and the reply that went out. Events are expected to be appended
// in chronological order.
type Event struct {
	Timestamp         time.Time `json:"timestamp"`
	UserID            string    `json:"user_id"`
	UserMessage       string    `json:"user_message"`
	Intent            string    `json:"intent"`
	AssistantResponse string    `json:"assistant_response"`
	DurationMS        int64     `json:"duration_ms"`
}

// Recorder abstracts persistence of interaction events.
// Implementations can be file-based, database, etc.
// LoadInteractions should return events in chronological order.
// AppendInteraction should atomically append a new event.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendInteraction(event Event) error
	LoadInteractions() ([]Event, error)
}
