package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// SQLite is the durable physical store. A single sessions table keyed by
// pid; sqlite's own locking serializes concurrent writers.
type SQLite struct {
	db     *sql.DB
	logger zerolog.Logger
}

// OpenSQLite opens (creating if needed) the session database at path
func OpenSQLite(path string, logger zerolog.Logger) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Keep sqlite responsive under contention
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	s := &SQLite{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Debug().Str("path", path).Msg("Session database opened")
	return s, nil
}

func (s *SQLite) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			pid INTEGER PRIMARY KEY,
			owner TEXT NOT NULL,
			state BLOB NOT NULL,
			created_at_ns INTEGER NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Upsert inserts or fully replaces the record for pid. No partial-field
// update: the replace resets created_at as well, so retention age measures
// time since the last mutation.
func (s *SQLite) Upsert(ctx context.Context, pid int, owner string, state []byte) error {
	if owner == "" {
		return errors.New("owner cannot be empty")
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO sessions (pid, owner, state, created_at_ns) VALUES (?, ?, ?, ?)",
		pid, owner, state, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert session %d: %w", pid, err)
	}
	return nil
}

// GetByPid returns the record for pid, or ok=false when no record exists
func (s *SQLite) GetByPid(ctx context.Context, pid int) (Record, bool, error) {
	var rec Record
	var createdNs int64

	err := s.db.QueryRowContext(ctx,
		"SELECT pid, owner, state, created_at_ns FROM sessions WHERE pid = ?",
		pid,
	).Scan(&rec.Pid, &rec.Owner, &rec.State, &createdNs)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to load session %d: %w", pid, err)
	}

	rec.CreatedAt = time.Unix(0, createdNs)
	return rec, true, nil
}

// DeleteOlderThan removes every record created before now-age
func (s *SQLite) DeleteOlderThan(ctx context.Context, age time.Duration) (int, error) {
	if age < 0 {
		return 0, errors.New("age cannot be negative")
	}

	cutoff := time.Now().Add(-age).UnixNano()
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE created_at_ns < ?",
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale sessions: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(deleted), nil
}

// Count reports the number of stored session records
func (s *SQLite) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

// List returns every stored record ordered by creation time, newest first.
// State blobs are included; callers that only need metadata can ignore them.
func (s *SQLite) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT pid, owner, state, created_at_ns FROM sessions ORDER BY created_at_ns DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var createdNs int64
		if err := rows.Scan(&rec.Pid, &rec.Owner, &rec.State, &createdNs); err != nil {
			return nil, err
		}
		rec.CreatedAt = time.Unix(0, createdNs)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}
