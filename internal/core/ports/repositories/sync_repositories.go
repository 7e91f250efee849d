package repositories

import (
	"context"

	"github.com/SscSPs/agency_books/internal/core/domain"
)

// RemoteLedgerWriter pushes whole collections to the remote store.
type RemoteLedgerWriter interface {
	// PushBatch upserts every record of the batch by its stable id. It must be safe to repeat.
	PushBatch(ctx context.Context, batch domain.SyncBatch) error
}

// RemoteLedgerReader pulls whole collections from the remote store.
type RemoteLedgerReader interface {
	PullBatch(ctx context.Context) (*domain.SyncBatch, error)
}

// RemoteLedgerFacade combines remote push and pull.
type RemoteLedgerFacade interface {
	RemoteLedgerReader
	RemoteLedgerWriter
}

// SyncHistoryRepository records synchronization runs.
type SyncHistoryRepository interface {
	RecordSyncRun(ctx context.Context, run domain.SyncRun) (int64, error)
	ListSyncRuns(ctx context.Context, limit int) ([]domain.SyncRun, error)
	LastSuccessfulRun(ctx context.Context, direction domain.SyncDirection) (*domain.SyncRun, error)
}
