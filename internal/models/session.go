package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// SessionRecord is one logged practice run.
type SessionRecord struct {
	Timestamp string            `json:"timestamp"`
	Count     int               `json:"count"`
	Questions []QuestionSummary `json:"questions"`
	File      string            `json:"file,omitempty"`
	RecordID  string            `json:"record_id,omitempty"`
}

// UnmarshalJSON accepts both the generator's "date" key and "timestamp".
// A missing questions list decodes as empty.
func (r *SessionRecord) UnmarshalJSON(data []byte) error {
	type plain SessionRecord
	aux := struct {
		*plain
		Date string `json:"date"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if r.Timestamp == "" {
		r.Timestamp = aux.Date
	}
	if r.Count < 0 {
		r.Count = 0
	}
	if r.Questions == nil {
		r.Questions = []QuestionSummary{}
	}
	return nil
}

// Date returns the calendar date part of the timestamp: everything before
// the first space, or the whole string when there is none.
func (r SessionRecord) Date() string {
	date, _, _ := strings.Cut(r.Timestamp, " ")
	return date
}

// ClockTime returns the part after the first space, or "" when absent.
func (r SessionRecord) ClockTime() string {
	_, clock, _ := strings.Cut(r.Timestamp, " ")
	return clock
}

// QuestionSummary is one question inside a session.
type QuestionSummary struct {
	Number     QuestionNumber `json:"number"`
	Title      string         `json:"title"`
	Difficulty Difficulty     `json:"difficulty"`
	File       string         `json:"file,omitempty"`
}

// QuestionNumber is a problem identifier. The feed carries it either as a
// string ("LCR 031") or as an integer (1); both decode to text.
type QuestionNumber string

func (n *QuestionNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*n = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = QuestionNumber(s)
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			*n = ""
			return nil
		}
		*n = QuestionNumber(num.String())
	}
	return nil
}

// History is a loaded feed. It is never mutated after load.
type History struct {
	Records     []SessionRecord `json:"records"`
	LastUpdated string          `json:"last_updated,omitempty"`
}

// QuestionDetail is one question parsed out of a question page.
type QuestionDetail struct {
	Number          string     `json:"number"`
	Title           string     `json:"title"`
	Difficulty      Difficulty `json:"difficulty"`
	DifficultyLabel string     `json:"difficulty_label"`
	URL             string     `json:"url,omitempty"`
	HTML            string     `json:"html"`
}

// QuestionPage is the parsed form of an external question page.
type QuestionPage struct {
	File      string           `json:"file"`
	Questions []QuestionDetail `json:"questions"`
}
