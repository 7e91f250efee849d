package repositories

import (
	"context"

	"github.com/SscSPs/agency_books/internal/core/domain"
)

// SnapshotReader loads the persisted ledger document.
type SnapshotReader interface {
	// LoadSnapshot returns the stored snapshot, or apperrors.ErrNotFound when nothing has been saved yet.
	LoadSnapshot(ctx context.Context) (*domain.Snapshot, error)
}

// SnapshotWriter persists the ledger document as a whole.
type SnapshotWriter interface {
	// SaveSnapshot replaces the stored snapshot. Partial writes must never become visible.
	SaveSnapshot(ctx context.Context, snapshot *domain.Snapshot) error
}

// SnapshotStoreFacade combines snapshot read and write operations.
type SnapshotStoreFacade interface {
	SnapshotReader
	SnapshotWriter
}
