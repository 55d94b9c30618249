package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRecorderAppendAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "interactions.jsonl")
	rec, err := NewFileRecorder(path)
	require.NoError(t, err)

	ev1 := Event{
		Timestamp:         time.Now().UTC().Truncate(time.Second),
		UserID:            "u1",
		UserMessage:       "payment link",
		Intent:            "create_payment_link",
		AssistantResponse: "Here is your payment link",
		DurationMS:        12,
	}
	ev2 := Event{
		Timestamp:   time.Now().UTC().Truncate(time.Second),
		UserID:      "u2",
		UserMessage: "balance",
		Intent:      "balance",
	}
	require.NoError(t, rec.AppendInteraction(ev1))
	require.NoError(t, rec.AppendInteraction(ev2))

	events, err := rec.LoadInteractions()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ev1, events[0])
	assert.Equal(t, ev2, events[1])
}

func TestFileRecorderSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interactions.jsonl")
	rec, err := NewFileRecorder(path)
	require.NoError(t, err)

	require.NoError(t, rec.AppendInteraction(Event{UserID: "u1", UserMessage: "hi"}))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, rec.AppendInteraction(Event{UserID: "u2", UserMessage: "yo"}))

	events, err := rec.LoadInteractions()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "u1", events[0].UserID)
	assert.Equal(t, "u2", events[1].UserID)
}
