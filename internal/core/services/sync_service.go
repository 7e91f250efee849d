package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/core/domain"
	portsrepo "github.com/SscSPs/agency_books/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/agency_books/internal/core/ports/services"
)

const (
	defaultSyncAttempts   = 3
	defaultSyncRetryDelay = 2 * time.Second
)

// syncService implements the SyncService interface
type syncService struct {
	BaseService
	state       *LedgerState
	remote      portsrepo.RemoteLedgerFacade
	history     portsrepo.SyncHistoryRepository
	maxAttempts int
	retryDelay  time.Duration
}

// SyncOption is a functional option for configuring the sync service
type SyncOption func(*syncService)

// WithSyncHistory records every run in the given repository.
func WithSyncHistory(history portsrepo.SyncHistoryRepository) SyncOption {
	return func(s *syncService) {
		s.history = history
	}
}

// WithSyncRetry sets how many times a whole batch is attempted and the pause between attempts.
func WithSyncRetry(maxAttempts int, delay time.Duration) SyncOption {
	return func(s *syncService) {
		if maxAttempts > 0 {
			s.maxAttempts = maxAttempts
		}
		if delay >= 0 {
			s.retryDelay = delay
		}
	}
}

// NewSyncService creates the remote synchronization service. remote may be nil,
// in which case every push and pull fails with apperrors.ErrSync.
func NewSyncService(state *LedgerState, remote portsrepo.RemoteLedgerFacade, options ...SyncOption) portssvc.SyncService {
	s := &syncService{
		state:       state,
		remote:      remote,
		maxAttempts: defaultSyncAttempts,
		retryDelay:  defaultSyncRetryDelay,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portssvc.SyncService = (*syncService)(nil)

// retry runs op until it succeeds, the attempts run out or ctx is done.
func (s *syncService) retry(ctx context.Context, run *domain.SyncRun, op func() error) error {
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		run.Attempts = attempt
		if lastErr = op(); lastErr == nil {
			return nil
		}
		s.LogWarn(ctx, "Sync attempt failed",
			slog.String("direction", string(run.Direction)),
			slog.Int("attempt", attempt),
			slog.String("error", lastErr.Error()))
		if attempt == s.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.retryDelay):
		}
	}
	return lastErr
}

// finish stamps and records the run. A history failure is logged only.
func (s *syncService) finish(ctx context.Context, run *domain.SyncRun, err error) error {
	run.FinishedAt = s.state.Now().UTC()
	run.Status = domain.SyncSucceeded
	if err != nil {
		run.Status = domain.SyncFailed
		run.Error = err.Error()
	}
	if s.history != nil {
		id, herr := s.history.RecordSyncRun(ctx, *run)
		if herr != nil {
			s.LogError(ctx, herr, "Failed to record sync run", slog.String("direction", string(run.Direction)))
		} else {
			run.RunID = id
		}
	}
	if err != nil {
		wrapped := fmt.Errorf("%w: %s failed after %d attempts: %v", apperrors.ErrSync, run.Direction, run.Attempts, err)
		s.LogError(ctx, wrapped, "Sync run failed", slog.String("direction", string(run.Direction)))
		return wrapped
	}
	return nil
}

// Push upserts every local collection into the remote store. The local ledger stays authoritative.
func (s *syncService) Push(ctx context.Context) (*domain.SyncRun, error) {
	run := &domain.SyncRun{Direction: domain.SyncPush, StartedAt: s.state.Now().UTC()}
	if s.remote == nil {
		return nil, s.finish(ctx, run, fmt.Errorf("remote store is not configured"))
	}

	snap, rev := s.state.revisionView()
	batch := domain.BatchFromSnapshot(snap)
	run.RecordCount = batch.Size()
	err := s.retry(ctx, run, func() error {
		return s.remote.PushBatch(ctx, batch)
	})
	if err := s.finish(ctx, run, err); err != nil {
		return nil, err
	}
	s.state.markPushed(rev)

	s.LogInfo(ctx, "Ledger pushed to remote store",
		slog.Int("records", run.RecordCount),
		slog.Int("attempts", run.Attempts))
	return run, nil
}

// PushPending pushes only when the ledger changed since the last successful push.
// It returns a nil run when there was nothing to send. A failed push leaves the change
// pending, so the next call retries the whole batch.
func (s *syncService) PushPending(ctx context.Context) (*domain.SyncRun, error) {
	if s.remote == nil || !s.state.PendingPush() {
		return nil, nil
	}
	return s.Push(ctx)
}

// mergeBatch adds the remote records missing locally. Records present on both sides keep the
// local version, ids deleted locally stay deleted, and remote bookings whose voucher did not
// make it are skipped.
func mergeBatch(draft *domain.Snapshot, remote *domain.SyncBatch) int {
	added := 0
	for _, a := range remote.Accounts {
		if draft.AccountIndex(a.AccountID) < 0 && !draft.WasDeleted(a.AccountID) {
			draft.Accounts = append(draft.Accounts, a)
			added++
		}
	}
	for _, p := range remote.Parties {
		if draft.PartyIndex(p.PartyID) < 0 && !draft.WasDeleted(p.PartyID) {
			draft.Parties = append(draft.Parties, p)
			added++
		}
	}
	for _, v := range remote.Vouchers {
		if draft.VoucherIndex(v.VoucherID) < 0 && !draft.WasDeleted(v.VoucherID) && !draft.HasVoucherNumber(v.VoucherNumber) {
			draft.Vouchers = append(draft.Vouchers, v.Clone())
			added++
		}
	}
	for _, b := range remote.Bookings {
		if draft.BookingIndex(b.BookingID) < 0 && !draft.WasDeleted(b.BookingID) && draft.VoucherIndex(b.VoucherID) >= 0 {
			draft.Bookings = append(draft.Bookings, b.Clone())
			added++
		}
	}
	return added
}

// Pull fetches the remote collections and merges them into the local ledger.
func (s *syncService) Pull(ctx context.Context) (*domain.SyncRun, error) {
	run := &domain.SyncRun{Direction: domain.SyncPull, StartedAt: s.state.Now().UTC()}
	if s.remote == nil {
		return nil, s.finish(ctx, run, fmt.Errorf("remote store is not configured"))
	}

	var remote *domain.SyncBatch
	err := s.retry(ctx, run, func() error {
		batch, err := s.remote.PullBatch(ctx)
		if err != nil {
			return err
		}
		remote = batch
		return nil
	})
	if err != nil {
		return nil, s.finish(ctx, run, err)
	}

	snap, err := s.state.Commit(ctx, func(draft *domain.Snapshot) error {
		run.RecordCount = mergeBatch(draft, remote)
		if err := checkSnapshot(draft); err != nil {
			return err
		}
		draft.ReconcileSequences()
		return nil
	})
	if err != nil {
		return nil, s.finish(ctx, run, err)
	}
	if err := s.state.ensureFloors(ctx, snap); err != nil {
		s.LogError(ctx, err, "Failed to raise shared sequences after pull")
	}
	if err := s.finish(ctx, run, nil); err != nil {
		return nil, err
	}

	if run.RecordCount > 0 {
		s.state.Publish(ctx, domain.EventLedgerImported, "ledger", string(domain.SyncPull), run)
	}
	s.LogInfo(ctx, "Ledger pulled from remote store",
		slog.Int("added", run.RecordCount),
		slog.Int("attempts", run.Attempts))
	return run, nil
}

// History lists the most recent sync runs.
func (s *syncService) History(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	if s.history == nil {
		return []domain.SyncRun{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	runs, err := s.history.ListSyncRuns(ctx, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list sync runs")
		return nil, err
	}
	return runs, nil
}
