package httptransport

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"loglens/internal/logs"
	dErrors "loglens/pkg/domainerrors"
)

// parseFilters decodes the shared filter query parameters: comma-separated
// app_ids and log_levels, RFC3339 time bounds, free-text search. Malformed
// values are rejected here, before anything touches the datastore.
func parseFilters(values url.Values) (logs.Filters, error) {
	f := logs.Filters{
		AppIDs: splitCSV(values.Get("app_ids")),
		Levels: splitCSV(values.Get("log_levels")),
		Search: strings.TrimSpace(values.Get("search")),
	}

	if raw := values.Get("start_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return logs.Filters{}, dErrors.New(dErrors.CodeInvalidInput, "start_time must be RFC3339")
		}
		f.From = &t
	}
	if raw := values.Get("end_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return logs.Filters{}, dErrors.New(dErrors.CodeInvalidInput, "end_time must be RFC3339")
		}
		f.To = &t
	}

	return f, nil
}

// parsePage decodes the 1-based page number, defaulting to 1.
func parsePage(values url.Values) (int, error) {
	raw := values.Get("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "page must be a positive integer")
	}
	return page, nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
