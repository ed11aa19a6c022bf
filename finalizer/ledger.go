// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package finalizer

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/go-unarchive"
	_ "modernc.org/sqlite"
)

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS extractions (
    id           TEXT PRIMARY KEY,
    source       TEXT NOT NULL,
    destination  TEXT NOT NULL,
    entry        TEXT NOT NULL DEFAULT '',
    type         TEXT NOT NULL DEFAULT '',
    files        INTEGER NOT NULL DEFAULT 0,
    dirs         INTEGER NOT NULL DEFAULT 0,
    symlinks     INTEGER NOT NULL DEFAULT 0,
    bytes        INTEGER NOT NULL DEFAULT 0,
    duration_ms  INTEGER NOT NULL DEFAULT 0,
    finished_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS extractions_source ON extractions (source);
`

// Record is one row of the ledger.
type Record struct {
	ID          string
	Source      string
	Destination string
	Entry       string
	Type        string
	Files       int64
	Dirs        int64
	Symlinks    int64
	Bytes       int64
	Duration    time.Duration
	FinishedAt  time.Time
}

// Ledger records every finished extraction in an SQLite database.
type Ledger struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenLedger opens or creates the ledger database at path.
func OpenLedger(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(ledgerSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// FinalizeExtraction implements [unarchive.Finalizer].
func (l *Ledger) FinalizeExtraction(ctx context.Context, x *unarchive.Extraction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	td := x.Telemetry
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO extractions (id, source, destination, entry, type, files, dirs, symlinks, bytes, duration_ms, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		x.ID, x.SourceFile, destination(x), x.Entry, td.ExtractedType,
		td.ExtractedFiles, td.ExtractedDirs, td.ExtractedSymlinks, td.ExtractionSize,
		td.ExtractionDuration.Milliseconds(), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record extraction: %w", err)
	}
	return nil
}

// History returns the latest extractions of source, newest first. An empty
// source returns the latest extractions of all archives. limit <= 0 returns all.
func (l *Ledger) History(ctx context.Context, source string, limit int) ([]Record, error) {
	query := `SELECT id, source, destination, entry, type, files, dirs, symlinks, bytes, duration_ms, finished_at
		FROM extractions WHERE (? = '' OR source = ?) ORDER BY finished_at DESC, rowid DESC`
	args := []any{source, source}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var durationMs int64
		var finishedAt string
		if err := rows.Scan(&r.ID, &r.Source, &r.Destination, &r.Entry, &r.Type,
			&r.Files, &r.Dirs, &r.Symlinks, &r.Bytes, &durationMs, &finishedAt); err != nil {
			return nil, fmt.Errorf("failed to read ledger: %w", err)
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

// String implements fmt.Stringer.
func (l *Ledger) String() string {
	return "ledger"
}
