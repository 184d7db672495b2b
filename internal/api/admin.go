package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Retrofit/internal/assessor"
)

type AdminHandler struct {
	svc *assessor.Service
}

func NewAdminHandler(svc *assessor.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Delete removes one assessment.
// DELETE /api/v1/assessments/{id}
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	deleted, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "assessment not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id.String()})
}
