package httptransport

import (
	"net/http"

	"loglens/internal/risk"
)

// handleAtRisk evaluates every configured rule on demand and reports the
// applications currently flagged. The caller still has to be a known
// principal, but the result is not scope-filtered: the dashboard is an
// operator view over all active applications.
func (h *Handler) handleAtRisk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := h.principal(ctx); err != nil {
		writeError(w, err)
		return
	}

	flagged, err := h.risk.EvaluateAll(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	if flagged == nil {
		flagged = []risk.AppRisk{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"at_risk_applications": flagged,
	})
}
