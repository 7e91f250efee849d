// Package sqlite keeps the local history of remote synchronization runs.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Schema creates the sync history table.
const Schema = `
CREATE TABLE IF NOT EXISTS sync_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    direction TEXT NOT NULL,           -- 'PUSH' or 'PULL'
    status TEXT NOT NULL,              -- 'SUCCEEDED' or 'FAILED'
    attempts INTEGER NOT NULL,
    record_count INTEGER NOT NULL,
    error TEXT NOT NULL DEFAULT '',
    started_at TEXT NOT NULL,          -- RFC 3339, UTC
    finished_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sync_runs_direction_status
    ON sync_runs(direction, status);
`

// Open opens the SQLite file at dbPath in WAL mode and creates the schema.
func Open(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}
