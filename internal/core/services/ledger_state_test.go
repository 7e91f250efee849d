package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/core/domain"
	"github.com/SscSPs/agency_books/internal/core/services"
	"github.com/SscSPs/agency_books/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewLedgerState_LoadFailure(t *testing.T) {
	store := new(MockSnapshotStore)
	store.On("LoadSnapshot", mock.Anything).Return(nil, errors.New("permission denied")).Once()

	state, err := services.NewLedgerState(context.Background(), store, "PKR")
	assert.Nil(t, state)
	assert.ErrorContains(t, err, "permission denied")
}

func TestNewLedgerState_NormalizesStoredSnapshot(t *testing.T) {
	stored := &domain.Snapshot{
		Accounts: []domain.Account{{AccountID: "a1", Code: "AC-0004", Title: "Cash", AccountType: domain.Cash, IsActive: true}},
	}
	store := new(MockSnapshotStore)
	store.On("LoadSnapshot", mock.Anything).Return(stored, nil).Once()

	state, err := services.NewLedgerState(context.Background(), store, "PKR")
	require.NoError(t, err)

	snap := state.View()
	assert.Equal(t, domain.SnapshotVersion, snap.Version)
	assert.Equal(t, "PKR", snap.Settings.FunctionalCurrency)
	assert.NotNil(t, snap.Settings.DefaultRates)
	assert.NotNil(t, snap.Vouchers)
	assert.Equal(t, int64(4), snap.Sequences[domain.AccountSequence])
}

// A failed save keeps the committed change in memory and marks the state dirty until a flush succeeds.
func TestLedgerState_FailedSaveIsRetriedOnFlush(t *testing.T) {
	ctx := context.Background()
	store := new(MockSnapshotStore)
	store.On("LoadSnapshot", mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	store.On("SaveSnapshot", mock.Anything, mock.Anything).Return(errors.New("disk full")).Twice()

	state, err := services.NewLedgerState(ctx, store, "PKR")
	require.NoError(t, err)
	accounts := services.NewAccountService(state)

	a, err := accounts.CreateAccount(ctx, dto.CreateAccountRequest{Title: "Cash", AccountType: domain.Cash}, testActor)
	require.NoError(t, err)
	assert.True(t, state.Dirty())
	_, err = accounts.GetAccountByID(ctx, a.AccountID)
	assert.NoError(t, err)

	assert.Error(t, state.Flush(ctx))
	assert.True(t, state.Dirty())

	store.On("SaveSnapshot", mock.Anything, state.View()).Return(nil).Once()
	assert.NoError(t, state.Flush(ctx))
	assert.False(t, state.Dirty())

	// Nothing to do when clean.
	assert.NoError(t, state.Flush(ctx))
	store.AssertNumberOfCalls(t, "SaveSnapshot", 3)
}

func TestLedgerState_FailedMutationLeavesSnapshotUntouched(t *testing.T) {
	f := newLedgerFixture(t)
	before := f.state.View()

	_, err := f.state.Commit(context.Background(), func(draft *domain.Snapshot) error {
		draft.Accounts = nil
		return apperrors.ErrValidation
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Same(t, before, f.state.View())
	assert.Len(t, f.state.View().Accounts, 7)
}

func TestLedgerState_SharedSequenceAllocator(t *testing.T) {
	ctx := context.Background()
	stored := domain.NewSnapshot("PKR")
	stored.Accounts = []domain.Account{{AccountID: "a1", Code: "AC-0003", Title: "Cash", AccountType: domain.Cash, IsActive: true}}

	store := new(MockSnapshotStore)
	store.On("LoadSnapshot", mock.Anything).Return(stored, nil).Once()
	store.On("SaveSnapshot", mock.Anything, mock.Anything).Return(nil)
	allocator := new(MockSequenceAllocator)
	allocator.On("EnsureFloor", mock.Anything, domain.AccountSequence, int64(3)).Return(nil).Once()
	allocator.On("NextValue", mock.Anything, domain.AccountSequence).Return(int64(12), nil).Once()

	state, err := services.NewLedgerState(ctx, store, "PKR", services.WithSequenceAllocator(allocator))
	require.NoError(t, err)

	a, err := services.NewAccountService(state).CreateAccount(ctx, dto.CreateAccountRequest{Title: "Bank", AccountType: domain.Bank}, testActor)
	require.NoError(t, err)
	assert.Equal(t, "AC-0012", a.Code)
	assert.Equal(t, int64(12), state.View().Sequences[domain.AccountSequence])
	allocator.AssertExpectations(t)
}

func TestLedgerState_AllocatorFailures(t *testing.T) {
	ctx := context.Background()
	stored := domain.NewSnapshot("PKR")
	stored.Sequences[domain.AccountSequence] = 5

	store := new(MockSnapshotStore)
	store.On("LoadSnapshot", mock.Anything).Return(stored, nil).Once()
	allocator := new(MockSequenceAllocator)
	allocator.On("EnsureFloor", mock.Anything, domain.AccountSequence, int64(5)).Return(errors.New("redis down")).Once()

	_, err := services.NewLedgerState(ctx, store, "PKR", services.WithSequenceAllocator(allocator))
	assert.ErrorContains(t, err, "redis down")

	store.On("LoadSnapshot", mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	allocator.On("NextValue", mock.Anything, domain.AccountSequence).Return(int64(0), errors.New("redis down")).Once()
	state, err := services.NewLedgerState(ctx, store, "PKR", services.WithSequenceAllocator(allocator))
	require.NoError(t, err)

	_, err = services.NewAccountService(state).CreateAccount(ctx, dto.CreateAccountRequest{Title: "Bank", AccountType: domain.Bank}, testActor)
	assert.ErrorContains(t, err, "redis down")
	assert.Empty(t, state.View().Accounts)
	store.AssertNotCalled(t, "SaveSnapshot", mock.Anything, mock.Anything)
}
