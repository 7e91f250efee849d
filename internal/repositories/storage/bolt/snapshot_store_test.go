package bolt_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/core/domain"
	"github.com/SscSPs/agency_books/internal/repositories/storage/bolt"
)

func TestSnapshotStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")

	store, err := bolt.NewSnapshotStore(path)
	require.NoError(t, err)

	_, err = store.LoadSnapshot(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	snap := domain.NewSnapshot("PKR")
	snap.Accounts = append(snap.Accounts, domain.Account{AccountID: "a1", Code: "AC-0001", Title: "Cash", AccountType: domain.Cash, IsActive: true})
	snap.Sequences[domain.AccountSequence] = 1
	snap.Settings.DefaultRates["SAR"] = domain.ExchangeRate{CurrencyCode: "SAR", Rate: decimal.RequireFromString("74.5")}
	snap.SavedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveSnapshot(ctx, snap))
	require.NoError(t, store.Close())

	// Reopen to make sure the document survived on disk.
	reopened, err := bolt.NewSnapshotStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Accounts, loaded.Accounts)
	assert.Equal(t, int64(1), loaded.Sequences[domain.AccountSequence])
	assert.True(t, loaded.Settings.DefaultRates["SAR"].Rate.Equal(decimal.RequireFromString("74.5")))
	assert.True(t, snap.SavedAt.Equal(loaded.SavedAt))
}

func TestSnapshotStore_SaveReplacesDocument(t *testing.T) {
	ctx := context.Background()
	store, err := bolt.NewSnapshotStore(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer store.Close()

	first := domain.NewSnapshot("PKR")
	first.Parties = append(first.Parties, domain.Party{PartyID: "p1", Code: "CUS-0001", Kind: domain.Customer, Name: "A"})
	require.NoError(t, store.SaveSnapshot(ctx, first))

	require.NoError(t, store.SaveSnapshot(ctx, domain.NewSnapshot("PKR")))
	loaded, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.Parties)
}

func TestSnapshotStore_CancelledContext(t *testing.T) {
	store, err := bolt.NewSnapshotStore(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, store.SaveSnapshot(ctx, domain.NewSnapshot("PKR")), context.Canceled)
}
