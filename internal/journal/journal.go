// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal persists a history of download runs in a local SQLite
// database, one row per run, so past queries and their outcomes can be
// inspected without digging through log files.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Statuses recorded for a run.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Entry is one recorded run.
type Entry struct {
	ID           int64
	QueryLabel   string
	DateLabel    string
	QueryString  string
	BatchSize    int
	OutputFormat string
	OutputDir    string
	HitCount     int
	FilesWritten int
	Status       string
	ErrorText    string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Store manages the run journal database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the journal database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query_label TEXT NOT NULL,
			date_label TEXT NOT NULL,
			query_string TEXT NOT NULL,
			batch_size INTEGER NOT NULL,
			output_format TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			hit_count INTEGER NOT NULL,
			files_written INTEGER NOT NULL,
			status TEXT NOT NULL,
			error_text TEXT,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_label_date ON runs(query_label, date_label)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts one run entry.
func (s *Store) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (query_label, date_label, query_string, batch_size,
			output_format, output_dir, hit_count, files_written, status,
			error_text, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.QueryLabel, e.DateLabel, e.QueryString, e.BatchSize,
		e.OutputFormat, e.OutputDir, e.HitCount, e.FilesWritten, e.Status,
		e.ErrorText, e.StartedAt.UTC().Format(time.RFC3339), e.FinishedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first. A limit of 0 means
// no limit.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, query_label, date_label, query_string, batch_size,
			output_format, output_dir, hit_count, files_written, status,
			COALESCE(error_text, ''), started_at, finished_at
		FROM runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var started, finished string
		if err := rows.Scan(&e.ID, &e.QueryLabel, &e.DateLabel, &e.QueryString,
			&e.BatchSize, &e.OutputFormat, &e.OutputDir, &e.HitCount,
			&e.FilesWritten, &e.Status, &e.ErrorText, &started, &finished); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, started); parseErr == nil {
			e.StartedAt = t
		}
		if t, parseErr := time.Parse(time.RFC3339, finished); parseErr == nil {
			e.FinishedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
