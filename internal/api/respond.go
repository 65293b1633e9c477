package api

import (
	"encoding/json"
	"net/http"

	"github.com/levelforge/levelforge/pkg/errors"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps structured error codes to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)

	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidMode,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidParams,
		errors.ErrCodeInvalidPath:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeLevelNotFound,
		errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeUnsupported:
		status = http.StatusUnprocessableEntity
	}

	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(code),
	})
}
