package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Retrofit/internal/attributes"
)

type OptionsHandler struct {
	catalogue attributes.Catalogue
}

func NewOptionsHandler() *OptionsHandler {
	return &OptionsHandler{catalogue: attributes.Options()}
}

// Get returns the selectable values for every form field.
// GET /api/v1/options
func (h *OptionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, h.catalogue)
}
