package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"practicelog/internal/models"
	"practicelog/internal/services"
	"practicelog/internal/sessions"
	"practicelog/internal/viewer"
)

type historyStore interface {
	History() *models.History
}

type pageService interface {
	Get(ctx context.Context, file string) (*models.QuestionPage, error)
	Expand(ctx context.Context, rec models.SessionRecord) ([]models.QuestionDetail, error)
}

type HistoryHandler struct {
	history         historyStore
	pages           pageService
	pageSizes       []int
	defaultPageSize int
}

func NewHistoryHandler(history historyStore, pages pageService, pageSizes []int, defaultPageSize int) *HistoryHandler {
	return &HistoryHandler{
		history:         history,
		pages:           pages,
		pageSizes:       pageSizes,
		defaultPageSize: defaultPageSize,
	}
}

func (h *HistoryHandler) records() []models.SessionRecord {
	return h.history.History().Records
}

// pageParams reads page and page_size. A missing page_size is the default.
func (h *HistoryHandler) pageParams(r *http.Request) (int, int, error) {
	fields := make(map[string]string)

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			fields["page"] = "page must be an integer"
		}
		page = n
	}

	size := h.defaultPageSize
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			fields["page_size"] = "page_size must be an integer"
		} else if err := sessions.ValidatePageSize(n, h.pageSizes); err != nil {
			fields["page_size"] = err.Error()
		}
		size = n
	}

	if len(fields) > 0 {
		return 0, 0, &services.ValidationError{Fields: fields}
	}
	return page, size, nil
}

// Dates lists the sidebar groups, newest date first.
func (h *HistoryHandler) Dates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dates": sessions.Sidebar(h.records()),
	})
}

// DateRecords pages over the records of one date. Each record's position in
// the flat collection is returned alongside for use with Session.
func (h *HistoryHandler) DateRecords(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	page, size, err := h.pageParams(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	records := h.records()
	result, err := sessions.Paginate(sessions.RecordsOn(records, date), size, page)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	// indices[i] is the /sessions/{index} of result.Records[i].
	first := result.FirstIndex()
	indices := sessions.IndicesOn(records, date)[first : first+len(result.Records)]

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":    date,
		"page":    result,
		"indices": indices,
	})
}

// Sessions pages over the flat collection.
func (h *HistoryHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	page, size, err := h.pageParams(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	result, err := sessions.Paginate(h.records(), size, page)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"page": result,
	})
}

// Resize moves from page size "from" to "to" keeping the first visible
// record of "page" in view.
func (h *HistoryHandler) Resize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fields := make(map[string]string)

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		fields["page"] = "page must be an integer"
	}
	from, err := strconv.Atoi(q.Get("from"))
	if err != nil {
		fields["from"] = "from must be an integer"
	}
	to, err := strconv.Atoi(q.Get("to"))
	if err != nil {
		fields["to"] = "to must be an integer"
	} else if err := sessions.ValidatePageSize(to, h.pageSizes); err != nil {
		fields["to"] = err.Error()
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	result, err := sessions.Repaginate(h.records(), page, from, to)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"page": result,
	})
}

// Session returns one record of the flat collection. With expand=true the
// question pages are fetched and parsed too.
func (h *HistoryHandler) Session(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session index", r))
		return
	}

	records := h.records()
	if index < 0 || index >= len(records) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session not found", r))
		return
	}
	rec := records[index]

	resp := map[string]interface{}{
		"index":   index,
		"session": rec,
	}

	if expand, _ := strconv.ParseBool(r.URL.Query().Get("expand")); expand {
		details, err := h.pages.Expand(r.Context(), rec)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		resp["details"] = details
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *HistoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	hist := h.history.History()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":         sessions.ComputeStats(hist.Records),
		"total_records": len(hist.Records),
		"last_updated":  hist.LastUpdated,
	})
}

// Page returns a parsed question page for an opaque file reference.
func (h *HistoryHandler) Page(w http.ResponseWriter, r *http.Request) {
	page, err := h.pages.Get(r.Context(), r.URL.Query().Get("file"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"page": page,
	})
}

// View applies one command to a client-held state and returns the next
// state with its rendered view. An empty command renders the initial state.
func (h *HistoryHandler) View(w http.ResponseWriter, r *http.Request) {
	var req struct {
		State   *viewer.State         `json:"state"`
		Command viewer.CommandRequest `json:"command"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	records := h.records()

	state := viewer.Initial(records, h.defaultPageSize)
	if req.State != nil {
		state = *req.State
		if state.PageSize == 0 {
			state.PageSize = h.defaultPageSize
		}
	}

	if req.Command.Type != "" {
		cmd, err := req.Command.Decode()
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		state, err = viewer.Dispatch(records, h.pageSizes, state, cmd)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
	}

	view, err := viewer.Render(records, state)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state": state,
		"view":  view,
	})
}
