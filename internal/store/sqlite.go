// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides execution audit persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS executions (
			execution_id TEXT PRIMARY KEY,
			command      TEXT NOT NULL,
			work_dir     TEXT NOT NULL,
			exit_code    INTEGER NOT NULL,
			blocked      INTEGER NOT NULL DEFAULT 0,
			dry_run      INTEGER NOT NULL DEFAULT 0,
			timed_out    INTEGER NOT NULL DEFAULT 0,
			truncated    INTEGER NOT NULL DEFAULT 0,
			duration_ms  INTEGER NOT NULL,
			ts           DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_executions_ts ON executions(ts DESC);
		CREATE INDEX IF NOT EXISTS idx_executions_blocked ON executions(blocked);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// AppendExecution appends a record to the audit log.
// Generates ID and Timestamp if not set.
func (s *SQLiteStore) AppendExecution(ctx context.Context, rec *ExecutionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO executions (execution_id, command, work_dir, exit_code, blocked, dry_run, timed_out, truncated, duration_ms, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.Command,
		rec.WorkDir,
		rec.ExitCode,
		rec.Blocked,
		rec.DryRun,
		rec.TimedOut,
		rec.Truncated,
		rec.Duration.Milliseconds(),
		rec.Timestamp.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting execution record: %w", err)
	}

	s.logger.Debug("appended execution record",
		"id", rec.ID,
		"exit_code", rec.ExitCode,
		"blocked", rec.Blocked,
	)
	return nil
}

// normalizeLimit applies default (100) and cap (1000) to a list limit.
func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return 100
	case limit > 1000:
		return 1000
	default:
		return limit
	}
}

// ListExecutions returns audit records matching the filter, newest first.
func (s *SQLiteStore) ListExecutions(ctx context.Context, filter ExecutionFilter) ([]*ExecutionRecord, error) {
	var conds []string
	var args []any

	if filter.Since != nil {
		conds = append(conds, "ts >= ?")
		args = append(args, filter.Since.UTC().Format(time.RFC3339))
	}
	if filter.Until != nil {
		conds = append(conds, "ts <= ?")
		args = append(args, filter.Until.UTC().Format(time.RFC3339))
	}
	if filter.Blocked != nil {
		conds = append(conds, "blocked = ?")
		args = append(args, *filter.Blocked)
	}

	query := "SELECT execution_id, command, work_dir, exit_code, blocked, dry_run, timed_out, truncated, duration_ms, ts FROM executions"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY ts DESC LIMIT ?"
	args = append(args, normalizeLimit(filter.Limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying executions: %w", err)
	}
	defer rows.Close()

	var records []*ExecutionRecord
	for rows.Next() {
		var rec ExecutionRecord
		var durationMS int64
		var ts string
		if err := rows.Scan(&rec.ID, &rec.Command, &rec.WorkDir, &rec.ExitCode,
			&rec.Blocked, &rec.DryRun, &rec.TimedOut, &rec.Truncated, &durationMS, &ts); err != nil {
			return nil, fmt.Errorf("scanning execution row: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		rec.Timestamp, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing execution timestamp: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
