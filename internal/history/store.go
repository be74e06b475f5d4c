// Package history persists a record of past searches in a local SQLite
// database, backing the `linegrep history` subcommand.
//
// History is strictly best-effort: any failure here is reported as a
// warning by the caller and never affects the search itself.
package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/linegrep/internal/config"
	"github.com/harrison/linegrep/internal/filelock"
)

//go:embed schema.sql
var schemaSQL string

// Record is one completed search run.
type Record struct {
	ID           string
	Query        string
	Root         string
	IgnoreCase   bool
	Hidden       bool
	NoIgnore     bool
	Workers      int
	FilesScanned int64
	FilesMatched int64
	Duration     time.Duration
	StartedAt    time.Time
}

// NewRecord builds a Record for a run that is about to start, assigning
// it a fresh id and the current time.
func NewRecord(cfg config.Search, workers int) Record {
	return Record{
		ID:         uuid.NewString(),
		Query:      cfg.Query,
		Root:       cfg.TargetPath,
		IgnoreCase: cfg.IgnoreCase,
		Hidden:     cfg.Hidden,
		NoIgnore:   cfg.NoIgnore,
		Workers:    workers,
		StartedAt:  time.Now(),
	}
}

// Store manages the SQLite database holding search history.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the history database at dbPath and
// ensures the schema exists. ":memory:" is accepted for tests.
//
// For file-backed databases, schema initialization is serialized across
// processes with a sidecar flock, so two concurrent linegrep invocations
// cannot race each other creating the tables.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == ":memory:" {
		return openAndInitStore(dbPath)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	lock := filelock.NewFileLock(dbPath + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, err
	}
	defer lock.Unlock()

	return openAndInitStore(dbPath)
}

// openAndInitStore opens the database connection and initializes schema.
func openAndInitStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	// busy_timeout must be set first so the remaining pragmas wait on
	// locks held by a concurrent invocation.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one completed run.
func (s *Store) Record(rec Record) error {
	_, err := s.db.Exec(`
		INSERT INTO searches (
			id, query, root, ignore_case, hidden, no_ignore,
			workers, files_scanned, files_matched, duration_ms, started_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Query, rec.Root,
		boolToInt(rec.IgnoreCase), boolToInt(rec.Hidden), boolToInt(rec.NoIgnore),
		rec.Workers, rec.FilesScanned, rec.FilesMatched,
		rec.Duration.Milliseconds(), rec.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("record search: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(limit int) ([]Record, error) {
	if limit < 1 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, query, root, ignore_case, hidden, no_ignore,
		       workers, files_scanned, files_matched, duration_ms, started_at
		FROM searches
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var ignoreCase, hidden, noIgnore int
		var durationMS int64
		if err := rows.Scan(
			&rec.ID, &rec.Query, &rec.Root,
			&ignoreCase, &hidden, &noIgnore,
			&rec.Workers, &rec.FilesScanned, &rec.FilesMatched,
			&durationMS, &rec.StartedAt,
		); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		rec.IgnoreCase = ignoreCase != 0
		rec.Hidden = hidden != 0
		rec.NoIgnore = noIgnore != 0
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}

	return records, nil
}

// Clear removes every record.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM searches`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
