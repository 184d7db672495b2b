package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Retrofit/internal/assessor"
	"github.com/MikeSquared-Agency/Retrofit/internal/store"
)

const maxListLimit = 500

type AssessmentsHandler struct {
	svc *assessor.Service
}

func NewAssessmentsHandler(svc *assessor.Service) *AssessmentsHandler {
	return &AssessmentsHandler{svc: svc}
}

// List returns stored assessments, newest first.
// GET /api/v1/assessments?source=local&limit=20&offset=0
func (h *AssessmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.AssessmentFilter{}

	switch src := store.Source(q.Get("source")); src {
	case "", store.SourceLocal, store.SourceRemote:
		filter.Source = src
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "source must be local or remote"})
		return
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		filter.Limit = min(n, maxListLimit)
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid offset"})
			return
		}
		filter.Offset = n
	}

	out, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/v1/assessments/{id}
func (h *AssessmentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if a == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "assessment not found"})
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
