package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/core/domain"
	portsrepo "github.com/SscSPs/agency_books/internal/core/ports/repositories"
)

// Bucket and key names.
const (
	BucketLedger = "ledger"
	KeySnapshot  = "snapshot"
)

// SnapshotStore keeps the whole ledger as one JSON document in a bbolt file.
// Every save is a single bbolt transaction, so readers never see a partial write.
type SnapshotStore struct {
	db *bolt.DB
}

// NewSnapshotStore opens (or creates) the database file and its bucket.
func NewSnapshotStore(path string) (*SnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(BucketLedger)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", BucketLedger, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SnapshotStore{db: db}, nil
}

var _ portsrepo.SnapshotStoreFacade = (*SnapshotStore)(nil)

// Close closes the database.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// LoadSnapshot returns the stored document, or apperrors.ErrNotFound on a fresh file.
func (s *SnapshotStore) LoadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketLedger))
		if b == nil {
			return fmt.Errorf("bucket %s not found", BucketLedger)
		}

		data := b.Get([]byte(KeySnapshot))
		if data == nil {
			return apperrors.ErrNotFound
		}

		snap = &domain.Snapshot{}
		if err := json.Unmarshal(data, snap); err != nil {
			return apperrors.NewAppError(500, "stored snapshot is not valid JSON", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// SaveSnapshot replaces the stored document.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, snapshot *domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketLedger))
		if b == nil {
			return fmt.Errorf("bucket %s not found", BucketLedger)
		}
		if err := b.Put([]byte(KeySnapshot), data); err != nil {
			return apperrors.NewAppError(500, "failed to write snapshot", err)
		}
		return nil
	})
}
