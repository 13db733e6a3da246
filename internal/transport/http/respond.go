package httptransport

import (
	"encoding/json"
	"net/http"

	dErrors "loglens/pkg/domainerrors"
)

// writeJSON emits a JSON response. Serialization failures at this point can
// only be programming errors, so they degrade to a plain 500.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError centralizes domain error translation to HTTP responses.
// Messages come from the coded error's caller-safe message, never from
// wrapped internals.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	writeJSON(w, dErrors.ToHTTPStatus(code), map[string]string{
		"error":   string(code),
		"message": dErrors.MessageOf(err),
	})
}
