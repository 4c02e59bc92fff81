package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"taskchat/src/executor"
	"taskchat/src/storage"
)

// Error kinds reported in HTTP error bodies, alongside the kinds the
// executor already defines.
const (
	errorKindInvalidRequest = "invalid_request"
	errorKindUnauthorized   = "unauthorized"
	errorKindNotFound       = "not_found"
	errorKindInternal       = "store_error"
)

// apiError is the failure body: error_kind and detail at the top level.
type apiError struct {
	Kind   string `json:"error_kind"`
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, kind, detail string) {
	writeJSON(w, status, apiError{Kind: kind, Detail: detail})
}

// writeMappedError translates domain errors into HTTP error responses.
func writeMappedError(w http.ResponseWriter, err error) {
	var te *executor.TurnError
	if errors.As(err, &te) {
		switch te.Kind {
		case executor.KindValidationError:
			writeError(w, http.StatusBadRequest, te.Kind, te.Detail)
		case executor.KindNotFound:
			writeError(w, http.StatusNotFound, te.Kind, te.Detail)
		default:
			writeError(w, http.StatusInternalServerError, te.Kind, te.Detail)
		}
		return
	}
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrForbidden) {
		// Ownership mismatches are reported as plain not found.
		writeError(w, http.StatusNotFound, errorKindNotFound, "resource not found")
		return
	}
	writeError(w, http.StatusInternalServerError, errorKindInternal, "internal error")
}
