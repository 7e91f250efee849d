package services

import (
	"context"

	"github.com/SscSPs/agency_books/internal/core/domain"
)

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Account      AccountSvcFacade
	Party        PartySvcFacade
	Posting      PostingSvcFacade
	Booking      BookingSvcFacade
	Ledger       LedgerService
	Reporting    ReportingService
	Integrity    IntegrityService
	ExchangeRate ExchangeRateSvcFacade
	Sync         SyncService
	Transfer     TransferService
	State        StateService
}

// SyncService pushes the local ledger to the remote store and pulls it back.
type SyncService interface {
	// Push upserts every collection remotely and drops locally deleted ids, retrying the
	// whole batch on failure.
	Push(ctx context.Context) (*domain.SyncRun, error)

	// PushPending pushes only when the ledger changed since the last successful push.
	// It returns a nil run when nothing was pending.
	PushPending(ctx context.Context) (*domain.SyncRun, error)

	// Pull merges the remote collections into the local ledger. Local records win on id conflicts.
	Pull(ctx context.Context) (*domain.SyncRun, error)

	// History lists the most recent runs, newest first.
	History(ctx context.Context, limit int) ([]domain.SyncRun, error)
}

// TransferService exports and imports the full ledger snapshot.
type TransferService interface {
	Export(ctx context.Context) ([]byte, error)

	// Import validates the document and replaces the whole ledger with it.
	Import(ctx context.Context, data []byte, actor string) error
}

// StateService exposes persistence housekeeping of the in-memory ledger.
type StateService interface {
	// Flush saves the ledger if an earlier save failed.
	Flush(ctx context.Context) error
	Dirty() bool
}
