package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"practicelog/internal/models"
)

type stubReloader struct {
	event   models.HistoryEvent
	trigger string
}

func (s *stubReloader) Reload(ctx context.Context, trigger string) models.HistoryEvent {
	s.trigger = trigger
	return s.event
}

func TestAdminReload_OK(t *testing.T) {
	stub := &stubReloader{event: models.HistoryEvent{Type: "history_reloaded", Records: 12, Trigger: "api"}}
	h := NewAdminHandler(stub)

	rr := httptest.NewRecorder()
	h.Reload(rr, httptest.NewRequest(http.MethodPost, "/api/v1/admin/reload", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if stub.trigger != "api" {
		t.Errorf("expected trigger api, got %q", stub.trigger)
	}

	var body struct {
		Event models.HistoryEvent `json:"event"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Event.Records != 12 {
		t.Errorf("expected 12 records, got %d", body.Event.Records)
	}
}

func TestAdminReload_Failure(t *testing.T) {
	stub := &stubReloader{event: models.HistoryEvent{Type: "history_reload_failed", Trigger: "api", Error: "connection refused"}}
	h := NewAdminHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reload", nil)
	req.Header.Set("X-Request-ID", "reload-1")
	rr := httptest.NewRecorder()
	h.Reload(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected status %d, got %d", http.StatusBadGateway, rr.Code)
	}

	var body struct {
		Error models.APIError    `json:"error"`
		Event models.HistoryEvent `json:"event"`
	}
	json.NewDecoder(rr.Body).Decode(&body)
	if body.Error.Code != "UPSTREAM_ERROR" || body.Error.RequestID != "reload-1" {
		t.Errorf("unexpected error body %+v", body.Error)
	}
	if body.Event.Error != "connection refused" {
		t.Errorf("expected event error to be reported, got %q", body.Event.Error)
	}
}
