package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"walletchat/internal/storage"
)

func TestAnalyzeDailyLogs(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	events := []storage.Event{
		{Timestamp: day.Add(9 * time.Hour), UserID: "u1", UserMessage: "balance", Intent: "balance"},
		{Timestamp: day.Add(10 * time.Hour), UserID: "u1", UserMessage: "payment link", Intent: "create_payment_link"},
		{Timestamp: day.Add(11 * time.Hour), UserID: "u2", UserMessage: "balance", Intent: "balance"},
		// Outside the target day.
		{Timestamp: day.Add(-time.Hour), UserID: "u3", UserMessage: "balance", Intent: "balance"},
		{Timestamp: day.Add(25 * time.Hour), UserID: "u3", UserMessage: "balance", Intent: "balance"},
		// System record without a user message.
		{Timestamp: day.Add(12 * time.Hour), UserID: "u2"},
	}

	stats := AnalyzeDailyLogs(events, day.Add(15*time.Hour))
	assert.Equal(t, "2026-03-14", stats.Date)
	assert.Equal(t, 3, stats.TotalMessages)
	assert.Equal(t, 2, stats.UniqueUsers)
	assert.Equal(t, map[string]int{"balance": 2, "create_payment_link": 1}, stats.IntentCounts)
}

func TestGenerateReportSummary(t *testing.T) {
	stats := &DailyStats{
		Date:          "2026-03-14",
		TotalMessages: 3,
		UniqueUsers:   2,
		IntentCounts:  map[string]int{"balance": 2, "create_payment_link": 1},
	}
	got := stats.GenerateReportSummary()
	assert.Contains(t, got, "2026-03-14")
	assert.Contains(t, got, "Messages: 3")
	assert.Contains(t, got, "balance: 2")
	assert.Contains(t, got, "create_payment_link: 1")
}

func TestAnalyzeDailyLogsEmpty(t *testing.T) {
	stats := AnalyzeDailyLogs(nil, time.Now())
	assert.Equal(t, 0, stats.TotalMessages)
	assert.Equal(t, 0, stats.UniqueUsers)
	assert.NotNil(t, stats.IntentCounts)
}
