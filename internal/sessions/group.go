// Package sessions derives every view of the practice log from a read-only
// slice of records: date groups, pages and aggregate stats. Nothing here
// mutates its input or keeps state between calls.
package sessions

import (
	"sort"

	"practicelog/internal/models"
)

// DateGroup is one sidebar entry.
type DateGroup struct {
	Date      string                 `json:"date"`
	Runs      int                    `json:"runs"`
	Questions int                    `json:"questions"`
	Records   []models.SessionRecord `json:"records,omitempty"`
}

// GroupByDate buckets records by the date part of their timestamp. Records
// keep their input order inside a bucket.
func GroupByDate(records []models.SessionRecord) map[string][]models.SessionRecord {
	groups := make(map[string][]models.SessionRecord)
	for _, r := range records {
		date := r.Date()
		groups[date] = append(groups[date], r)
	}
	return groups
}

// Groups returns the same partition as GroupByDate, newest date first, with
// per-date totals.
func Groups(records []models.SessionRecord) []DateGroup {
	buckets := GroupByDate(records)

	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	groups := make([]DateGroup, 0, len(dates))
	for _, date := range dates {
		bucket := buckets[date]
		total := 0
		for _, r := range bucket {
			total += r.Count
		}
		groups = append(groups, DateGroup{
			Date:      date,
			Runs:      len(bucket),
			Questions: total,
			Records:   bucket,
		})
	}
	return groups
}

// RecordsOn returns the records whose date part equals date, in input order.
func RecordsOn(records []models.SessionRecord, date string) []models.SessionRecord {
	out := []models.SessionRecord{}
	for _, r := range records {
		if r.Date() == date {
			out = append(out, r)
		}
	}
	return out
}

// IndicesOn returns the positions in records of the records on date, in
// input order. It lines up with RecordsOn.
func IndicesOn(records []models.SessionRecord, date string) []int {
	out := []int{}
	for i, r := range records {
		if r.Date() == date {
			out = append(out, i)
		}
	}
	return out
}

// Sidebar is Groups without the per-group records.
func Sidebar(records []models.SessionRecord) []DateGroup {
	groups := Groups(records)
	for i := range groups {
		groups[i].Records = nil
	}
	return groups
}
