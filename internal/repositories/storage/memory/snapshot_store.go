package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/core/domain"
	portsrepo "github.com/SscSPs/agency_books/internal/core/ports/repositories"
)

// SnapshotStore keeps the ledger document in process memory. Used for ephemeral runs and tests.
type SnapshotStore struct {
	mu    sync.RWMutex
	snap  *domain.Snapshot
	saves int
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

var _ portsrepo.SnapshotStoreFacade = (*SnapshotStore)(nil)

func (s *SnapshotStore) LoadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, apperrors.ErrNotFound
	}
	return s.snap.Clone(), nil
}

func (s *SnapshotStore) SaveSnapshot(ctx context.Context, snapshot *domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snapshot.Clone()
	s.saves++
	return nil
}

// Saves returns how many snapshots were written.
func (s *SnapshotStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
