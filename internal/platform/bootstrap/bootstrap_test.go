package bootstrap_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/agency_books/internal/core/domain"
	"github.com/SscSPs/agency_books/internal/dto"
	"github.com/SscSPs/agency_books/internal/platform/bootstrap"
	"github.com/SscSPs/agency_books/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		FunctionalCurrency: "PKR",
		StorageBackend:     config.StorageBolt,
		SnapshotPath:       filepath.Join(dir, "ledger.db"),
		SyncHistoryDB:      filepath.Join(dir, "sync.db"),
		SyncMaxAttempts:    1,
	}
}

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// The ledger and its sequence counters survive a restart on the bolt store.
func TestNew_PersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.ChartSeedFile = filepath.Join(t.TempDir(), "chart.yaml")
	require.NoError(t, os.WriteFile(cfg.ChartSeedFile, []byte(`
accounts:
  - title: Cash in Hand
    type: CASH
  - title: Capital
    type: EQUITY
`), 0o600))

	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{})
	require.NoError(t, err)
	accounts, err := app.Services.Account.ListAccounts(ctx, dto.ListAccountsParams{})
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	v, err := app.Services.Posting.PostVoucher(ctx, domain.VoucherShape{VoucherType: domain.JournalVoucher, VoucherDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		[]domain.EntryLine{
			domain.DebitLine(accounts[0].AccountID, "", amount("500"), ""),
			domain.CreditLine(accounts[1].AccountID, "", amount("500"), ""),
		}, "test")
	require.NoError(t, err)
	assert.Equal(t, "JV-0001", v.VoucherNumber)
	require.NoError(t, app.Close())

	// Reopening does not reseed and numbering continues.
	app, err = bootstrap.New(ctx, cfg, bootstrap.Options{})
	require.NoError(t, err)
	defer app.Close()
	accounts, err = app.Services.Account.ListAccounts(ctx, dto.ListAccountsParams{})
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	v, err = app.Services.Posting.PostVoucher(ctx, domain.VoucherShape{VoucherType: domain.JournalVoucher, VoucherDate: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
		[]domain.EntryLine{
			domain.DebitLine(accounts[0].AccountID, "", amount("1"), ""),
			domain.CreditLine(accounts[1].AccountID, "", amount("1"), ""),
		}, "test")
	require.NoError(t, err)
	assert.Equal(t, "JV-0002", v.VoucherNumber)

	// Sync is not configured, so the failure lands in the sqlite history.
	_, err = app.Services.Sync.Push(ctx)
	assert.Error(t, err)
	runs, err := app.Services.Sync.History(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.SyncFailed, runs[0].Status)
}

func TestNew_BadSeedFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.ChartSeedFile = filepath.Join(t.TempDir(), "missing.yaml")

	app, err := bootstrap.New(context.Background(), cfg, bootstrap.Options{})
	assert.Error(t, err)
	assert.NoError(t, app.Close())
}

type fakeState struct {
	dirty   atomic.Bool
	flushes atomic.Int32
}

func (f *fakeState) Dirty() bool { return f.dirty.Load() }
func (f *fakeState) Flush(context.Context) error {
	if f.flushes.Add(1) == 1 {
		return errors.New("disk full")
	}
	f.dirty.Store(false)
	return nil
}

type fakeIntegrity struct{ checks atomic.Int32 }

func (f *fakeIntegrity) Verify(_ context.Context, asOf time.Time) (*domain.IntegrityReport, error) {
	f.checks.Add(1)
	return &domain.IntegrityReport{AsOf: asOf, Balanced: true}, nil
}

// fakeSync counts pushes of pending changes; the first attempt fails.
type fakeSync struct {
	pending atomic.Bool
	pushes  atomic.Int32
}

func (f *fakeSync) Push(ctx context.Context) (*domain.SyncRun, error) {
	if f.pushes.Add(1) == 1 {
		return nil, errors.New("remote unreachable")
	}
	f.pending.Store(false)
	return &domain.SyncRun{Direction: domain.SyncPush, Status: domain.SyncSucceeded, RecordCount: 3}, nil
}

func (f *fakeSync) PushPending(ctx context.Context) (*domain.SyncRun, error) {
	if !f.pending.Load() {
		return nil, nil
	}
	return f.Push(ctx)
}

func (f *fakeSync) Pull(context.Context) (*domain.SyncRun, error) { return nil, nil }
func (f *fakeSync) History(context.Context, int) ([]domain.SyncRun, error) {
	return nil, nil
}

func TestRunMaintenance(t *testing.T) {
	state := &fakeState{}
	state.dirty.Store(true)
	syncer := &fakeSync{}
	syncer.pending.Store(true)
	integrity := &fakeIntegrity{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		bootstrap.RunMaintenance(ctx, state, syncer, integrity, bootstrap.Schedule{
			Flush:          5 * time.Millisecond,
			IntegrityCheck: 5 * time.Millisecond,
			Push:           5 * time.Millisecond,
		})
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return !state.Dirty() && !syncer.pending.Load() && integrity.checks.Load() > 0
	}, time.Second, 5*time.Millisecond)
	// Nothing is pending now, so later ticks send nothing.
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	// The first flush and the first push fail and are retried; once clean neither runs again.
	assert.Equal(t, int32(2), state.flushes.Load())
	assert.Equal(t, int32(2), syncer.pushes.Load())
}

func TestRunMaintenance_DisabledJobsNeverRun(t *testing.T) {
	state := &fakeState{}
	state.dirty.Store(true)
	syncer := &fakeSync{}
	syncer.pending.Store(true)
	integrity := &fakeIntegrity{}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	bootstrap.RunMaintenance(ctx, state, syncer, integrity, bootstrap.Schedule{})

	assert.Zero(t, state.flushes.Load())
	assert.Zero(t, syncer.pushes.Load())
	assert.Zero(t, integrity.checks.Load())
}
