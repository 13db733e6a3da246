package httptransport

import (
	"fmt"
	"net/http"

	"loglens/internal/domain"
	"loglens/internal/export"
	"loglens/internal/retention"
)

// appRef is the id+name projection of an application sent to clients.
type appRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func appRefs(applications []domain.Application) []appRef {
	refs := make([]appRef, 0, len(applications))
	for _, app := range applications {
		refs = append(refs, appRef{ID: app.ID, Name: app.Name})
	}
	return refs
}

// handleGetLogs serves one page of the caller's visible logs.
func (h *Handler) handleGetLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, err := h.principal(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	filters, err := parseFilters(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := parsePage(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.logsvc.Query(ctx, *principal, filters, page)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.LogQueries.Inc()
	}

	records := result.Records
	if records == nil {
		records = []domain.LogRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":                  records,
		"total":                 result.Total,
		"total_logs":            result.TotalMatched,
		"total_pages":           result.TotalPages,
		"assigned_applications": appRefs(result.AssignedApplications),
	})
}

// handleExportLogs downloads the filtered set directly, or acknowledges an
// out-of-band delivery when the set is too large to serve inline.
func (h *Handler) handleExportLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, err := h.principal(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	filters, err := parseFilters(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	format := export.FormatJSON
	if r.URL.Query().Get("is_csv") == "true" {
		format = export.FormatCSV
	}

	result, err := h.exports.Export(ctx, *principal, filters, format)
	if err != nil {
		writeError(w, err)
		return
	}

	if result.Async {
		writeJSON(w, http.StatusOK, map[string]bool{"emailSent": true})
		return
	}

	w.Header().Set("Content-Type", result.Payload.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Payload.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Payload.Data)
}

// handleActivity serves the dense hour-by-level chart grid.
func (h *Handler) handleActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, err := h.principal(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	filters, err := parseFilters(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	grid, err := h.activity.Activity(ctx, *principal, filters)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ActivityQueries.Inc()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":   grid.Data,
		"groups": grid.Buckets,
		"series": grid.Series,
	})
}

// handleUserdata bundles the session bootstrap data the frontend loads once:
// the caller's visible applications and the current log lifetime in seconds.
func (h *Handler) handleUserdata(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, err := h.principal(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	assigned, err := h.logsvc.AssignedApplications(ctx, principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	policy, err := h.retention.Get(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"assigned_applications": appRefs(assigned),
		"logTTL":                policy.RetentionDays * retention.SecondsPerDay,
	})
}
