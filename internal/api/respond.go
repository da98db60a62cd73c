package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/navin-oss/CropChain/pkg/types"
)

type errorBody struct {
	Error string `json:"error"`
}

// badRequest wraps a transport-level decoding failure into the validation
// class so it maps to 400 like any other malformed input.
func badRequest(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", types.ErrValidation, what, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the service error classes onto HTTP statuses. Anything
// outside the known classes is a 500 with the detail kept out of the body.
func writeError(w http.ResponseWriter, log zerolog.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, types.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, types.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, types.ErrAlreadyRecalled):
		status = http.StatusConflict
	case errors.Is(err, types.ErrCreationFailed), errors.Is(err, types.ErrUpdateFailed):
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
		writeJSON(w, status, errorBody{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}
