// Package testutil holds small helpers shared by handler tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"loglens/internal/platform/middleware"
)

// WithPrincipal attaches an authenticated principal ID to the request
// context, simulating what the auth middleware does for valid tokens.
func WithPrincipal(req *http.Request, principalID string) *http.Request {
	return req.WithContext(middleware.WithPrincipalID(req.Context(), principalID))
}

// DecodeJSON unmarshals a recorded response body into v, failing the test on
// malformed output.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("response body is not valid JSON: %v\nbody: %s", err, rec.Body.String())
	}
}
