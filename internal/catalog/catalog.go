// Package catalog persists a record of every decoded Crate file so the CLI
// can answer "what did I inspect, and how did it go" without re-decoding.
// Storage is a small SQLite database; schema migrations are guarded by a
// file lock so concurrent CLI invocations cannot race the DDL.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"stagecrate/internal/logging"
)

// Entry is one recorded decode.
type Entry struct {
	ID           int64
	SessionID    string
	FilePath     string
	FileSize     int64
	Fingerprint  string
	PrimCount    int
	SpecCount    int
	WarningCount int
	Succeeded    bool
	Duration     time.Duration
	CreatedAt    time.Time
}

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open initializes or connects to the catalog database and applies
// migrations.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.WithComponent(logger, "catalog")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, logger: logger}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) applyMigrations(ctx context.Context) error {
	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock catalog for migration: %w", err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("failed to release catalog lock", slog.String("error", err.Error()))
		}
	}()

	const schema = `
CREATE TABLE IF NOT EXISTS decodes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	file_path TEXT NOT NULL,
	file_size INTEGER NOT NULL,
	fingerprint TEXT NOT NULL,
	prim_count INTEGER NOT NULL,
	spec_count INTEGER NOT NULL,
	warning_count INTEGER NOT NULL,
	succeeded INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_decodes_fingerprint ON decodes(fingerprint);
CREATE INDEX IF NOT EXISTS idx_decodes_created_at ON decodes(created_at);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply catalog schema: %w", err)
	}
	return nil
}

// Record inserts one decode entry and returns its row ID.
func (s *Store) Record(ctx context.Context, entry Entry) (int64, error) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
INSERT INTO decodes
	(session_id, file_path, file_size, fingerprint, prim_count, spec_count, warning_count, succeeded, duration_ms, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.SessionID,
		entry.FilePath,
		entry.FileSize,
		entry.Fingerprint,
		entry.PrimCount,
		entry.SpecCount,
		entry.WarningCount,
		boolToInt(entry.Succeeded),
		entry.Duration.Milliseconds(),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert decode record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read insert id: %w", err)
	}
	s.logger.Debug("recorded decode",
		slog.Int64("id", id),
		slog.String("file", entry.FilePath),
		slog.Int("prims", entry.PrimCount))
	return id, nil
}

// Recent returns the newest entries, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, session_id, file_path, file_size, fingerprint, prim_count, spec_count, warning_count, succeeded, duration_ms, created_at
FROM decodes ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query decode records: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var succeeded int
		var durationMS int64
		var createdAt string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.FilePath, &e.FileSize, &e.Fingerprint,
			&e.PrimCount, &e.SpecCount, &e.WarningCount, &succeeded, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scan decode record: %w", err)
		}
		e.Succeeded = succeeded != 0
		e.Duration = time.Duration(durationMS) * time.Millisecond
		if ts, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			e.CreatedAt = ts
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LookupFingerprint returns prior decodes of the same content.
func (s *Store) LookupFingerprint(ctx context.Context, fingerprint string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, session_id, file_path, file_size, fingerprint, prim_count, spec_count, warning_count, succeeded, duration_ms, created_at
FROM decodes WHERE fingerprint = ? ORDER BY id DESC`, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("query by fingerprint: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var succeeded int
		var durationMS int64
		var createdAt string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.FilePath, &e.FileSize, &e.Fingerprint,
			&e.PrimCount, &e.SpecCount, &e.WarningCount, &succeeded, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scan decode record: %w", err)
		}
		e.Succeeded = succeeded != 0
		e.Duration = time.Duration(durationMS) * time.Millisecond
		if ts, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			e.CreatedAt = ts
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
