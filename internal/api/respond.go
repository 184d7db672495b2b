package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MikeSquared-Agency/Retrofit/internal/analyzer"
	"github.com/MikeSquared-Agency/Retrofit/internal/assessor"
	"github.com/MikeSquared-Agency/Retrofit/internal/attributes"
)

const maxBodyBytes = 1 << 20

type validationResponse struct {
	Error  string                      `json:"error"`
	Fields attributes.ValidationErrors `json:"fields"`
}

type upstreamResponse struct {
	Error          string `json:"error"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
	UpstreamBody   string `json:"upstream_body,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// writeServiceError maps assessor errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var verrs attributes.ValidationErrors
	if errors.As(err, &verrs) {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Error: "validation failed", Fields: verrs})
		return
	}

	var remote *assessor.RemoteError
	if !errors.As(err, &remote) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var se *analyzer.StatusError
	switch {
	case errors.As(err, &se):
		writeJSON(w, http.StatusBadGateway, upstreamResponse{
			Error:          "analyzer error",
			UpstreamStatus: se.StatusCode,
			UpstreamBody:   se.Body,
		})
	case errors.Is(err, analyzer.ErrTimeout):
		writeJSON(w, http.StatusGatewayTimeout, upstreamResponse{Error: "analyzer timed out"})
	default:
		writeJSON(w, http.StatusBadGateway, upstreamResponse{Error: "analyzer unavailable"})
	}
}
