package logs

import (
	"strings"
	"time"

	dErrors "loglens/pkg/domainerrors"
)

// Filters is the caller-supplied narrowing of a log query. Every field is
// optional; AppIDs are intersected with the principal's scope rather than
// trusted.
type Filters struct {
	AppIDs []string
	Levels []string
	From   *time.Time
	To     *time.Time
	Search string
}

// Query is a fully resolved, access-scoped filter ready for a store. AppIDs
// is always the post-intersection set; an empty set means the caller should
// short-circuit to an empty result instead of hitting the store.
type Query struct {
	AppIDs []string
	Levels []string
	From   *time.Time
	To     *time.Time
	Search string
}

// Validate rejects malformed filter input before any datastore round-trip.
func (f Filters) Validate() error {
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return dErrors.New(dErrors.CodeInvalidInput, "start_time is after end_time")
	}
	return nil
}

// matches reports whether a record satisfies the query. It is the reference
// semantic both stores implement: level set membership, inclusive time
// bounds on both ends, and case-insensitive literal substring search. The
// search string is treated as text, never as a pattern.
func (q Query) matches(appID, level, message string, ts time.Time) bool {
	if !contains(q.AppIDs, appID) {
		return false
	}
	if len(q.Levels) > 0 && !contains(q.Levels, level) {
		return false
	}
	if q.From != nil && ts.Before(*q.From) {
		return false
	}
	if q.To != nil && ts.After(*q.To) {
		return false
	}
	if q.Search != "" && !strings.Contains(strings.ToLower(message), strings.ToLower(q.Search)) {
		return false
	}
	return true
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// escapeLike neutralizes LIKE/ILIKE metacharacters so a search string only
// ever matches its literal characters. The backslash must be escaped first.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
