package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/core/domain"
	portsrepo "github.com/SscSPs/agency_books/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/agency_books/internal/core/ports/services"
	"github.com/google/uuid"
)

// LedgerState owns the in-memory ledger. Readers get immutable snapshots; writers go through
// Commit, which mutates a private copy and swaps it in only when the mutation succeeds.
type LedgerState struct {
	BaseService
	store     portsrepo.SnapshotStoreFacade
	sequences portsrepo.SequenceAllocator
	events    portsrepo.EventPublisher
	now       func() time.Time

	writeMu sync.Mutex // serializes commits, replacements and flushes
	mu       sync.RWMutex
	current  *domain.Snapshot
	revision uint64 // bumped with every swap of current, guarded by mu
	pushed   atomic.Uint64
	dirty    atomic.Bool
}

// StateOption is a functional option for configuring the ledger state
type StateOption func(*LedgerState)

// WithSequenceAllocator makes code and voucher numbers come from a shared allocator.
func WithSequenceAllocator(allocator portsrepo.SequenceAllocator) StateOption {
	return func(s *LedgerState) {
		s.sequences = allocator
	}
}

// WithEventPublisher publishes ledger events after successful commits.
func WithEventPublisher(publisher portsrepo.EventPublisher) StateOption {
	return func(s *LedgerState) {
		s.events = publisher
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) StateOption {
	return func(s *LedgerState) {
		s.now = now
	}
}

// NewLedgerState loads the stored snapshot, or starts an empty ledger when nothing was saved yet.
func NewLedgerState(ctx context.Context, store portsrepo.SnapshotStoreFacade, functionalCurrency string, options ...StateOption) (*LedgerState, error) {
	s := &LedgerState{
		store: store,
		now:   time.Now,
	}
	for _, option := range options {
		option(s)
	}

	snap, err := store.LoadSnapshot(ctx)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		snap = domain.NewSnapshot(functionalCurrency)
		s.LogInfo(ctx, "No stored ledger found, starting empty", slog.String("functional_currency", functionalCurrency))
	case err != nil:
		return nil, fmt.Errorf("failed to load ledger snapshot: %w", err)
	}
	normalizeSnapshot(snap, functionalCurrency)
	snap.ReconcileSequences()
	if err := s.ensureFloors(ctx, snap); err != nil {
		return nil, err
	}

	s.current = snap
	s.revision = 1
	return s, nil
}

var _ portssvc.StateService = (*LedgerState)(nil)

// normalizeSnapshot fills in fields that older or hand-written documents may omit.
func normalizeSnapshot(snap *domain.Snapshot, functionalCurrency string) {
	if snap.Version == 0 {
		snap.Version = domain.SnapshotVersion
	}
	if snap.Settings.FunctionalCurrency == "" {
		snap.Settings.FunctionalCurrency = functionalCurrency
	}
	if snap.Settings.DefaultRates == nil {
		snap.Settings.DefaultRates = map[string]domain.ExchangeRate{}
	}
	if snap.Sequences == nil {
		snap.Sequences = map[string]int64{}
	}
	if snap.Accounts == nil {
		snap.Accounts = []domain.Account{}
	}
	if snap.Parties == nil {
		snap.Parties = []domain.Party{}
	}
	if snap.Vouchers == nil {
		snap.Vouchers = []domain.Voucher{}
	}
	if snap.Bookings == nil {
		snap.Bookings = []domain.Booking{}
	}
}

// View returns the current snapshot. Callers must not modify it.
func (s *LedgerState) View() *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// revisionView returns the current snapshot together with its revision.
func (s *LedgerState) revisionView() (*domain.Snapshot, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.revision
}

// PendingPush reports whether the ledger changed since the last successful push.
func (s *LedgerState) PendingPush() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision != s.pushed.Load()
}

// markPushed records that the snapshot at rev reached the remote store. An older push
// finishing late never hides a newer change.
func (s *LedgerState) markPushed(rev uint64) {
	for {
		old := s.pushed.Load()
		if rev <= old || s.pushed.CompareAndSwap(old, rev) {
			return
		}
	}
}

// Now returns the current time of the state's clock.
func (s *LedgerState) Now() time.Time {
	return s.now()
}

// Commit runs mutate against a copy of the current snapshot. If mutate fails nothing changes.
// Otherwise the copy becomes current and is persisted; a failed save only marks the state dirty.
func (s *LedgerState) Commit(ctx context.Context, mutate func(draft *domain.Snapshot) error) (*domain.Snapshot, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	draft := s.View().Clone()
	if err := mutate(draft); err != nil {
		return nil, err
	}
	draft.SavedAt = s.now().UTC()

	s.mu.Lock()
	s.current = draft
	s.revision++
	s.mu.Unlock()

	s.persist(ctx, draft)
	return draft, nil
}

// ReplaceAll swaps in a whole new snapshot, as done by import. The document keeps its own
// SavedAt so an imported export matches its source; only undated documents are stamped.
func (s *LedgerState) ReplaceAll(ctx context.Context, snap *domain.Snapshot) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	normalizeSnapshot(snap, s.View().Settings.FunctionalCurrency)
	snap.ReconcileSequences()
	if err := s.ensureFloors(ctx, snap); err != nil {
		return err
	}
	if snap.SavedAt.IsZero() {
		snap.SavedAt = s.now().UTC()
	}

	s.mu.Lock()
	s.current = snap
	s.revision++
	s.mu.Unlock()

	s.persist(ctx, snap)
	return nil
}

// ensureFloors raises the shared counters to the local ones so numbers already in use are never handed out.
func (s *LedgerState) ensureFloors(ctx context.Context, snap *domain.Snapshot) error {
	if s.sequences == nil {
		return nil
	}
	for key, floor := range snap.Sequences {
		if err := s.sequences.EnsureFloor(ctx, key, floor); err != nil {
			return fmt.Errorf("failed to seed sequence %s: %w", key, err)
		}
	}
	return nil
}

func (s *LedgerState) persist(ctx context.Context, snap *domain.Snapshot) {
	if err := s.store.SaveSnapshot(ctx, snap); err != nil {
		s.dirty.Store(true)
		s.LogError(ctx, err, "Failed to persist ledger snapshot, will retry on flush")
		return
	}
	s.dirty.Store(false)
}

// Dirty reports whether the last save failed.
func (s *LedgerState) Dirty() bool {
	return s.dirty.Load()
}

// Flush retries persisting the current snapshot if an earlier save failed.
func (s *LedgerState) Flush(ctx context.Context) error {
	if !s.dirty.Load() {
		return nil
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.SaveSnapshot(ctx, s.View()); err != nil {
		s.LogError(ctx, err, "Failed to flush ledger snapshot")
		return fmt.Errorf("failed to flush ledger snapshot: %w", err)
	}
	s.dirty.Store(false)
	s.LogInfo(ctx, "Ledger snapshot flushed")
	return nil
}

// nextNumber reserves the next value of a counter. With an allocator the shared counter is
// authoritative and the local one only tracks it.
func (s *LedgerState) nextNumber(ctx context.Context, draft *domain.Snapshot, key string) (int64, error) {
	if s.sequences == nil {
		return draft.NextSequence(key), nil
	}
	n, err := s.sequences.NextValue(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate sequence %s: %w", key, err)
	}
	draft.ObserveSequence(key, n)
	return n, nil
}

// Publish delivers an event. Failures are logged and never undo the commit.
func (s *LedgerState) Publish(ctx context.Context, eventType domain.EventType, subjectID, reference string, payload any) {
	if s.events == nil {
		return
	}
	event := domain.LedgerEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		SubjectID:  subjectID,
		Reference:  reference,
		OccurredAt: s.now().UTC(),
		Payload:    payload,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to publish ledger event",
			slog.String("event_type", string(eventType)),
			slog.String("subject_id", subjectID))
	}
}
