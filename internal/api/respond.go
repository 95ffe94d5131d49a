package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"rttrainer/pkg/aerodata"
	"rttrainer/pkg/route"
	"rttrainer/pkg/scenario"
	"rttrainer/pkg/session"
	"rttrainer/pkg/store"
)

// maxBody caps request bodies; routes and calls are small.
const maxBody = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error(), Code: "bad_request"})
		return false
	}
	return true
}

// statusOf maps the domain errors to HTTP status codes and stable codes
// the frontend can switch on.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, session.ErrRadioOff):
		return http.StatusConflict, "radio_off"
	case errors.Is(err, session.ErrWrongFrequency):
		return http.StatusConflict, "wrong_frequency"
	case errors.Is(err, session.ErrWrongSquawk):
		return http.StatusConflict, "wrong_squawk"
	case errors.Is(err, session.ErrScenarioFinished):
		return http.StatusConflict, "finished"
	case errors.Is(err, scenario.ErrInvalidInput), errors.Is(err, route.ErrInvalidRoute),
		errors.Is(err, route.ErrIndexOutOfRange):
		return http.StatusUnprocessableEntity, "invalid_input"
	case errors.Is(err, route.ErrRouteSearchExhausted):
		return http.StatusUnprocessableEntity, "no_route"
	case errors.Is(err, aerodata.ErrDataAvailability):
		return http.StatusServiceUnavailable, "data_unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusOf(err)
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		slog.Debug("Request rejected", "path", r.URL.Path, "code", code, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}
