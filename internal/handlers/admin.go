package handlers

import (
	"context"
	"net/http"

	"practicelog/internal/models"
)

type reloader interface {
	Reload(ctx context.Context, trigger string) models.HistoryEvent
}

type AdminHandler struct {
	reloader reloader
}

func NewAdminHandler(reloader reloader) *AdminHandler {
	return &AdminHandler{reloader: reloader}
}

// Reload refetches the history feed now.
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	event := h.reloader.Reload(r.Context(), "api")
	if event.Error != "" {
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error": models.APIError{
				Code:      "UPSTREAM_ERROR",
				Message:   "History reload failed; serving empty history",
				RequestID: r.Header.Get("X-Request-ID"),
			},
			"event": event,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"event": event,
	})
}
