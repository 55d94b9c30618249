package analytics

import (
	"fmt"
	"sort"
	"time"

	"walletchat/internal/storage"
)

// DailyStats aggregates one day of pipeline interactions.
type DailyStats struct {
	Date          string         `json:"date"`
	TotalMessages int            `json:"total_messages"`
	UniqueUsers   int            `json:"unique_users"`
	IntentCounts  map[string]int `json:"intent_counts"`
}

// AnalyzeDailyLogs reduces events to the stats for targetDate.
func AnalyzeDailyLogs(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	stats := &DailyStats{
		Date:         startOfDay.Format("2006-01-02"),
		IntentCounts: make(map[string]int),
	}

	uniqueUsers := make(map[string]bool)
	for _, event := range events {
		if event.Timestamp.Before(startOfDay) || !event.Timestamp.Before(endOfDay) {
			continue
		}
		if event.UserMessage == "" {
			continue
		}
		stats.TotalMessages++
		uniqueUsers[event.UserID] = true
		if event.Intent != "" {
			stats.IntentCounts[event.Intent]++
		}
	}
	stats.UniqueUsers = len(uniqueUsers)
	return stats
}

// GenerateReportSummary renders the stats as the daily admin report.
func (ds *DailyStats) GenerateReportSummary() string {
	summary := fmt.Sprintf("Usage for %s:\n- Messages: %d\n- Unique users: %d\n",
		ds.Date, ds.TotalMessages, ds.UniqueUsers)

	if len(ds.IntentCounts) == 0 {
		return summary
	}

	intents := make([]string, 0, len(ds.IntentCounts))
	for in := range ds.IntentCounts {
		intents = append(intents, in)
	}
	sort.Slice(intents, func(i, j int) bool {
		if ds.IntentCounts[intents[i]] != ds.IntentCounts[intents[j]] {
			return ds.IntentCounts[intents[i]] > ds.IntentCounts[intents[j]]
		}
		return intents[i] < intents[j]
	})

	summary += "\nIntents:\n"
	for _, in := range intents {
		summary += fmt.Sprintf("- %s: %d\n", in, ds.IntentCounts[in])
	}
	return summary
}
