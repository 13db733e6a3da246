package httptransport

import (
	"encoding/json"
	"net/http"

	dErrors "loglens/pkg/domainerrors"
)

type updateRetentionRequest struct {
	RetentionDays int    `json:"retentionDays"`
	UpdatedBy     string `json:"updatedBy"`
}

func (h *Handler) handleGetRetention(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := h.principal(ctx); err != nil {
		writeError(w, err)
		return
	}

	policy, err := h.retention.Get(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, policy)
}

func (h *Handler) handleUpdateRetention(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := h.principal(ctx); err != nil {
		writeError(w, err)
		return
	}

	var req updateRetentionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "request body must be valid JSON"))
		return
	}

	policy, err := h.retention.Update(ctx, req.RetentionDays, req.UpdatedBy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, policy)
}
