package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Retrofit/internal/assessor"
	"github.com/MikeSquared-Agency/Retrofit/internal/attributes"
)

type ScoreHandler struct {
	svc *assessor.Service
}

func NewScoreHandler(svc *assessor.Service) *ScoreHandler {
	return &ScoreHandler{svc: svc}
}

// Score runs the local heuristic and stores the result.
// POST /api/v1/score
func (h *ScoreHandler) Score(w http.ResponseWriter, r *http.Request) {
	var rec attributes.AttributeRecord
	if !decodeBody(w, r, &rec) {
		return
	}

	a, err := h.svc.ScoreLocal(r.Context(), rec)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// Explain returns the per-rule breakdown without storing anything.
// POST /api/v1/score/explain
func (h *ScoreHandler) Explain(w http.ResponseWriter, r *http.Request) {
	var rec attributes.AttributeRecord
	if !decodeBody(w, r, &rec) {
		return
	}

	ex, err := h.svc.Explain(rec)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}
