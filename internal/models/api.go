package models

import "time"

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// HistoryEvent is pushed to websocket viewers after a reload.
type HistoryEvent struct {
	Type        string    `json:"type"` // "history_reloaded" | "history_reload_failed"
	Records     int       `json:"records"`
	LastUpdated string    `json:"last_updated,omitempty"`
	Trigger     string    `json:"trigger"`
	Error       string    `json:"error,omitempty"`
	At          time.Time `json:"at"`
}
