package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Retrofit/internal/assessor"
	"github.com/MikeSquared-Agency/Retrofit/internal/attributes"
)

type AnalyzeHandler struct {
	svc *assessor.Service
}

func NewAnalyzeHandler(svc *assessor.Service) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc}
}

// Analyze forwards a survey to the remote analyzer.
// POST /api/v1/analyze
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var survey attributes.Survey
	if !decodeBody(w, r, &survey) {
		return
	}

	a, err := h.svc.Analyze(r.Context(), survey)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}
