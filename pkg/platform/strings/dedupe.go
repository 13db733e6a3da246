// Package strings provides string slice utilities shared across services.
package strings

import "strings"

// DedupeAndTrim removes duplicates and empty strings from a slice, trimming
// whitespace from each element. Order is preserved, so callers that depend on
// deterministic output (scope resolution, filter intersection) can rely on
// first-seen ordering.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// Intersect returns the elements of base that also appear in allowed,
// preserving base ordering. A nil or empty allowed set returns base
// unchanged so optional filters can pass straight through.
func Intersect(base, allowed []string) []string {
	if len(allowed) == 0 {
		return base
	}

	set := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		set[v] = struct{}{}
	}

	result := make([]string, 0, len(base))
	for _, v := range base {
		if _, ok := set[v]; ok {
			result = append(result, v)
		}
	}
	return result
}
