// Package viewer holds the browsing state of a history viewer as a plain
// value. Commands move one State to the next; Render turns a State into the
// data a presentation layer shows. Neither keeps anything between calls.
package viewer

import (
	"errors"
	"fmt"

	"practicelog/internal/models"
	"practicelog/internal/sessions"
)

type Mode string

const (
	ModeList   Mode = "list"
	ModeDetail Mode = "detail"
)

// ErrRecordNotFound is returned when a record index is outside the listing.
var ErrRecordNotFound = errors.New("record not found")

// State is what the viewer currently shows. Date "" means the flat listing
// over all records; Record indexes into the current listing in detail mode.
type State struct {
	Mode     Mode   `json:"mode"`
	Date     string `json:"date,omitempty"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Record   int    `json:"record"`
}

// Initial mirrors the viewer's start-up: the newest date when any records
// exist, the flat listing otherwise. records must be newest first.
func Initial(records []models.SessionRecord, pageSize int) State {
	s := State{Mode: ModeList, Page: 1, PageSize: pageSize}
	if len(records) > 0 {
		s.Date = records[0].Date()
	}
	return s
}

// Listing is the slice of records the state pages over.
func Listing(records []models.SessionRecord, s State) []models.SessionRecord {
	if s.Date == "" {
		return records
	}
	return sessions.RecordsOn(records, s.Date)
}

// View is everything needed to draw one screen.
type View struct {
	Mode     Mode                  `json:"mode"`
	Title    string                `json:"title"`
	Subtitle string                `json:"subtitle"`
	Groups   []sessions.DateGroup  `json:"groups"`
	Stats    sessions.Stats        `json:"stats"`
	Page     *sessions.Page        `json:"page,omitempty"`
	Record   *models.SessionRecord `json:"record,omitempty"`
}

// Render builds the view for s. It fails only when s itself is invalid.
func Render(records []models.SessionRecord, s State) (View, error) {
	listing := Listing(records, s)

	v := View{
		Mode:   s.Mode,
		Groups: sessions.Sidebar(records),
		Stats:  sessions.ComputeStats(records),
	}

	switch s.Mode {
	case ModeDetail:
		if s.Record < 0 || s.Record >= len(listing) {
			return View{}, fmt.Errorf("record %d of %d: %w", s.Record, len(listing), ErrRecordNotFound)
		}
		rec := listing[s.Record]
		v.Record = &rec
		v.Title = rec.Timestamp
		v.Subtitle = fmt.Sprintf("%d questions", rec.Count)
	default:
		page, err := sessions.Paginate(listing, s.PageSize, s.Page)
		if err != nil {
			return View{}, err
		}
		v.Mode = ModeList
		v.Page = &page
		v.Title = s.Date
		if v.Title == "" {
			v.Title = "All sessions"
		}
		v.Subtitle = fmt.Sprintf("%d runs", len(listing))
	}

	return v, nil
}
