package logs

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"loglens/internal/domain"
)

// PostgresLogStore reads the shared logs table. The same store also serves
// the risk evaluator's grouped window counts and the retention sweep, so
// every consumer sees one set of filter semantics.
type PostgresLogStore struct {
	db *sql.DB
}

// NewPostgresLogStore constructs a PostgreSQL-backed log store.
func NewPostgresLogStore(db *sql.DB) *PostgresLogStore {
	return &PostgresLogStore{db: db}
}

// whereClause renders a Query into SQL conditions and its argument list.
// The search term goes through escapeLike so it can only match literally.
func whereClause(q Query) (string, []any) {
	conds := []string{"application_id = ANY($1)"}
	args := []any{pq.Array(q.AppIDs)}

	next := func() string { return "$" + strconv.Itoa(len(args)+1) }

	if len(q.Levels) > 0 {
		conds = append(conds, "level = ANY("+next()+")")
		args = append(args, pq.Array(q.Levels))
	}
	if q.From != nil {
		conds = append(conds, "timestamp >= "+next())
		args = append(args, *q.From)
	}
	if q.To != nil {
		conds = append(conds, "timestamp <= "+next())
		args = append(args, *q.To)
	}
	if q.Search != "" {
		conds = append(conds, "message ILIKE "+next()+` ESCAPE '\'`)
		args = append(args, "%"+escapeLike(q.Search)+"%")
	}

	return strings.Join(conds, " AND "), args
}

func (s *PostgresLogStore) Find(ctx context.Context, q Query, offset, limit int) ([]domain.LogRecord, error) {
	where, args := whereClause(q)
	query := fmt.Sprintf(`
		SELECT id, application_id, timestamp, level, message, trace_id
		FROM logs
		WHERE %s
		ORDER BY timestamp DESC, id DESC
		OFFSET $%d LIMIT $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, offset, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *PostgresLogStore) FindAll(ctx context.Context, q Query) ([]domain.LogRecord, error) {
	where, args := whereClause(q)
	query := fmt.Sprintf(`
		SELECT id, application_id, timestamp, level, message, trace_id
		FROM logs
		WHERE %s
		ORDER BY timestamp DESC, id DESC
	`, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *PostgresLogStore) Count(ctx context.Context, q Query) (int, error) {
	where, args := whereClause(q)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM logs WHERE %s`, where)

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count logs: %w", err)
	}
	return count, nil
}

func (s *PostgresLogStore) CountByHourLevel(ctx context.Context, q Query) (map[HourLevel]int, error) {
	where, args := whereClause(q)
	query := fmt.Sprintf(`
		SELECT EXTRACT(HOUR FROM timestamp AT TIME ZONE 'UTC')::int, level, COUNT(*)
		FROM logs
		WHERE %s
		GROUP BY 1, 2
	`, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("aggregate logs by hour: %w", err)
	}
	defer rows.Close()

	counts := make(map[HourLevel]int)
	for rows.Next() {
		var (
			key   HourLevel
			count int
		)
		if err := rows.Scan(&key.Hour, &key.Level, &count); err != nil {
			return nil, fmt.Errorf("scan hourly count: %w", err)
		}
		counts[key] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hourly counts: %w", err)
	}

	return counts, nil
}

// CountByAppSince groups recent records of one level by application over a
// lookback window. One call covers every application a rule applies to,
// instead of a round-trip per (application, rule) pair.
func (s *PostgresLogStore) CountByAppSince(ctx context.Context, level string, since time.Time, appIDs []string) (map[string]int, error) {
	query := `
		SELECT application_id, COUNT(*)
		FROM logs
		WHERE level = $1 AND timestamp >= $2 AND application_id = ANY($3)
		GROUP BY application_id
	`

	rows, err := s.db.QueryContext(ctx, query, level, since, pq.Array(appIDs))
	if err != nil {
		return nil, fmt.Errorf("count logs by application: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			appID string
			count int
		)
		if err := rows.Scan(&appID, &count); err != nil {
			return nil, fmt.Errorf("scan application count: %w", err)
		}
		counts[appID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate application counts: %w", err)
	}

	return counts, nil
}

// EnsureLogIndexes creates the indexes the retention sweep and the query
// engine lean on. CREATE INDEX IF NOT EXISTS keeps repeated calls from
// piling up duplicates.
func (s *PostgresLogStore) EnsureLogIndexes(ctx context.Context) error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS logs_timestamp_idx ON logs (timestamp)`,
		`CREATE INDEX IF NOT EXISTS logs_app_timestamp_idx ON logs (application_id, timestamp DESC)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure log index: %w", err)
		}
	}
	return nil
}

// DeleteOlderThan removes records past the retention bound and reports how
// many went away.
func (s *PostgresLogStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM logs WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired logs: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expired logs rows affected: %w", err)
	}
	return deleted, nil
}

func scanRecords(rows *sql.Rows) ([]domain.LogRecord, error) {
	var records []domain.LogRecord
	for rows.Next() {
		var rec domain.LogRecord
		if err := rows.Scan(&rec.ID, &rec.ApplicationID, &rec.Timestamp, &rec.Level, &rec.Message, &rec.TraceID); err != nil {
			return nil, fmt.Errorf("scan log record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate log records: %w", err)
	}
	return records, nil
}
