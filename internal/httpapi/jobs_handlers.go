package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"jobscanner-engine/internal/events"
	"jobscanner-engine/internal/store"
)

type JobsHandler struct {
	Store *store.DB
	Hub   *events.Hub
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := store.ListOpts{Status: q.Get("status"), Company: q.Get("company")}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			WriteError(w, r, http.StatusBadRequest, "bad_limit", "limit must be a non-negative integer")
			return
		}
		opts.Limit = n
	}
	if s := q.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			WriteError(w, r, http.StatusBadRequest, "bad_offset", "offset must be a non-negative integer")
			return
		}
		opts.Offset = n
	}

	jobs, err := h.Store.ListJobs(r.Context(), opts)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if jobs == nil {
		jobs = []store.StoredJob{}
	}
	writeJSON(w, jobs)
}

func (h JobsHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}

	job, err := h.Store.GetJob(r.Context(), id)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if job == nil {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such job")
		return
	}
	writeJSON(w, job)
}

func (h JobsHandler) UpdateByPath(w http.ResponseWriter, r *http.Request) {
	id, ok := jobID(w, r)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_body", "invalid JSON body")
		return
	}
	if body.Status != store.StatusNew && body.Status != store.StatusProcessed {
		WriteError(w, r, http.StatusBadRequest, "bad_status", "status must be new or processed")
		return
	}

	updated, err := h.Store.SetStatus(r.Context(), id, body.Status)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if !updated {
		WriteError(w, r, http.StatusNotFound, "not_found", "no such job")
		return
	}

	if h.Hub != nil {
		reqID := RequestIDFrom(r.Context())
		h.Hub.Publish(events.MakeEvent(reqID, "job_updated", 1, map[string]any{
			"id": id, "status": body.Status,
		}))
	}
	writeJSON(w, map[string]any{"ok": true, "id": id, "status": body.Status})
}

func (h JobsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.GetStats(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, stats)
}

func (h JobsHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_query", "q is required")
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			WriteError(w, r, http.StatusBadRequest, "bad_limit", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	jobs, err := h.Store.SearchJobs(r.Context(), q, limit)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if jobs == nil {
		jobs = []store.StoredJob{}
	}
	writeJSON(w, jobs)
}

func (h JobsHandler) Companies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.Store.Companies(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if companies == nil {
		companies = []store.CompanyCount{}
	}
	writeJSON(w, companies)
}

func jobID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, r, http.StatusBadRequest, "bad_id", "invalid job id")
		return 0, false
	}
	return id, true
}
