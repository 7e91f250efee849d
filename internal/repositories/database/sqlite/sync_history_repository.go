package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/core/domain"
	portsrepo "github.com/SscSPs/agency_books/internal/core/ports/repositories"
)

// SyncHistoryRepository implements portsrepo.SyncHistoryRepository on SQLite.
type SyncHistoryRepository struct {
	db *sql.DB
}

func NewSyncHistoryRepository(db *sql.DB) *SyncHistoryRepository {
	return &SyncHistoryRepository{db: db}
}

var _ portsrepo.SyncHistoryRepository = (*SyncHistoryRepository)(nil)

const selectRunColumns = `SELECT id, direction, status, attempts, record_count, error, started_at, finished_at FROM sync_runs`

// RecordSyncRun inserts a finished run and returns its id.
func (r *SyncHistoryRepository) RecordSyncRun(ctx context.Context, run domain.SyncRun) (int64, error) {
	query := `
		INSERT INTO sync_runs (direction, status, attempts, record_count, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query,
		string(run.Direction),
		string(run.Status),
		run.Attempts,
		run.RecordCount,
		run.Error,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record sync run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read sync run id: %w", err)
	}
	return id, nil
}

// ListSyncRuns returns up to limit runs, newest first.
func (r *SyncHistoryRepository) ListSyncRuns(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	rows, err := r.db.QueryContext(ctx, selectRunColumns+` ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}
	defer rows.Close()

	runs := []domain.SyncRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sync runs: %w", err)
	}
	return runs, nil
}

// LastSuccessfulRun returns the latest succeeded run in the given direction.
func (r *SyncHistoryRepository) LastSuccessfulRun(ctx context.Context, direction domain.SyncDirection) (*domain.SyncRun, error) {
	row := r.db.QueryRowContext(ctx, selectRunColumns+` WHERE direction = ? AND status = ? ORDER BY id DESC LIMIT 1`,
		string(direction), string(domain.SyncSucceeded))
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*domain.SyncRun, error) {
	var run domain.SyncRun
	var direction, status, startedAt, finishedAt string
	if err := s.Scan(&run.RunID, &direction, &status, &run.Attempts, &run.RecordCount, &run.Error, &startedAt, &finishedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan sync run: %w", err)
	}
	run.Direction = domain.SyncDirection(direction)
	run.Status = domain.SyncStatus(status)

	var err error
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return nil, fmt.Errorf("invalid started_at %q: %w", startedAt, err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
		return nil, fmt.Errorf("invalid finished_at %q: %w", finishedAt, err)
	}
	return &run, nil
}
