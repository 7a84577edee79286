package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nikbrunner/rl/internal/capture"
	"github.com/nikbrunner/rl/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error to its status code and kind.
func writeError(w http.ResponseWriter, err error) {
	status, kind := classify(err)
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

func classify(err error) (int, string) {
	switch capture.KindOf(err) {
	case capture.KindNoURLFound:
		return http.StatusBadRequest, "no_url_found"
	case capture.KindCreationFailed:
		return http.StatusUnprocessableEntity, "creation_failed"
	case capture.KindInboxFull:
		return http.StatusConflict, "inbox_full"
	case capture.KindStorage:
		return http.StatusInternalServerError, "storage"
	}

	var ce *model.CreationError
	switch {
	case errors.Is(err, model.ErrInboxFull):
		return http.StatusConflict, "inbox_full"
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, model.ErrInvalidTransition):
		return http.StatusBadRequest, "invalid_transition"
	case errors.As(err, &ce):
		return http.StatusUnprocessableEntity, "creation_failed"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	}
	return http.StatusInternalServerError, "storage"
}

var errBadRequest = errors.New("bad request")
