package sessions

import (
	"sort"
	"time"

	"practicelog/internal/models"
)

// TimestampLayout is the generator's timestamp format.
const TimestampLayout = "2006-01-02 15:04:05"

// Stats summarises a whole collection.
type Stats struct {
	TotalQuestions int `json:"total_questions"`
	UniqueDays     int `json:"unique_days"`
	// MostRecent is the first record's timestamp. Empty means unknown.
	MostRecent string `json:"most_recent,omitempty"`
}

// ComputeStats expects records newest first; it does not sort.
func ComputeStats(records []models.SessionRecord) Stats {
	var stats Stats
	days := make(map[string]struct{})
	for _, r := range records {
		stats.TotalQuestions += r.Count
		days[r.Date()] = struct{}{}
	}
	stats.UniqueDays = len(days)
	if len(records) > 0 {
		stats.MostRecent = records[0].Timestamp
	}
	return stats
}

// SortNewestFirst returns a copy of records ordered by timestamp, newest
// first. Timestamps that do not parse sort after the ones that do, and
// among themselves by plain string comparison. The sort is stable.
func SortNewestFirst(records []models.SessionRecord) []models.SessionRecord {
	type keyed struct {
		rec    models.SessionRecord
		at     time.Time
		parsed bool
	}

	items := make([]keyed, len(records))
	for i, r := range records {
		at, err := time.Parse(TimestampLayout, r.Timestamp)
		items[i] = keyed{rec: r, at: at, parsed: err == nil}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.parsed != b.parsed {
			return a.parsed
		}
		if a.parsed {
			return a.at.After(b.at)
		}
		return a.rec.Timestamp > b.rec.Timestamp
	})

	out := make([]models.SessionRecord, len(items))
	for i, it := range items {
		out[i] = it.rec
	}
	return out
}
