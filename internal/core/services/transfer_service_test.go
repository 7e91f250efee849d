package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/core/domain"
	"github.com/SscSPs/agency_books/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func populatedFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	f := newLedgerFixture(t)
	ctx := context.Background()
	_, err := f.bookings.CreateBooking(ctx, hotelSale(f, day(2026, 2, 1), "100000", "80000"), testActor)
	require.NoError(t, err)
	_, err = f.bookings.CreateBooking(ctx, customerReceipt(f, day(2026, 2, 5), "50000"), testActor)
	require.NoError(t, err)
	f.mustPost(t, domain.JournalVoucher, day(2026, 1, 15),
		domain.DebitLine(f.cash.AccountID, "", amount("20000"), "capital"),
		domain.CreditLine(f.equity.AccountID, "", amount("20000"), "capital"))
	return f
}

func TestTransfer_ExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := populatedFixture(t)
	spare := source.mustAccount(t, "Spare Account", domain.Expense)
	require.NoError(t, source.accounts.DeleteAccount(ctx, spare.AccountID))
	exported, err := services.NewTransferService(source.state).Export(ctx)
	require.NoError(t, err)

	// The target runs on a later clock so an overwritten timestamp would show.
	target := newLedgerFixture(t, services.WithClock(func() time.Time { return fixtureNow.Add(72 * time.Hour) }))
	transfer := services.NewTransferService(target.state)
	require.NoError(t, transfer.Import(ctx, exported, testActor))

	want, got := source.state.View(), target.state.View()
	assert.Equal(t, want.SavedAt, got.SavedAt)
	assert.Equal(t, want.Sequences, got.Sequences)
	assert.Equal(t, want.Deleted, got.Deleted)
	assert.True(t, got.WasDeleted(spare.AccountID))
	assert.Equal(t, want.Settings.FunctionalCurrency, got.Settings.FunctionalCurrency)
	require.Len(t, got.Vouchers, len(want.Vouchers))
	for i := range want.Vouchers {
		assert.Equal(t, want.Vouchers[i].VoucherID, got.Vouchers[i].VoucherID)
		assert.Equal(t, want.Vouchers[i].VoucherNumber, got.Vouchers[i].VoucherNumber)
		assert.True(t, want.Vouchers[i].TotalAmount.Equal(got.Vouchers[i].TotalAmount))
		assert.Len(t, got.Vouchers[i].Entries, len(want.Vouchers[i].Entries))
	}
	// Decimals compare by value, so the full documents are compared in canonical JSON.
	wantJSON, err := json.Marshal(want)
	require.NoError(t, err)
	gotJSON, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, string(wantJSON), string(gotJSON))

	tb, err := target.reports.TrialBalance(ctx, day(2026, 12, 31))
	require.NoError(t, err)
	assert.True(t, tb.Balanced)
	assert.True(t, tb.TotalDebit.Equal(amount("120000")))

	target.events.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e domain.LedgerEvent) bool {
		return e.Type == domain.EventLedgerImported && e.Reference == testActor
	}))

	// Counters come along, so numbering continues where the source stopped.
	v := target.mustPost(t, domain.JournalVoucher, day(2026, 3, 1),
		domain.DebitLine(target.cash.AccountID, "", amount("1"), ""),
		domain.CreditLine(target.income.AccountID, "", amount("1"), ""))
	assert.Equal(t, "JV-0002", v.VoucherNumber)
}

func TestTransfer_ImportRejectsInvalidDocuments(t *testing.T) {
	ctx := context.Background()
	source := populatedFixture(t)
	exported, err := services.NewTransferService(source.state).Export(ctx)
	require.NoError(t, err)

	tamper := func(edit func(s *domain.Snapshot)) []byte {
		var snap domain.Snapshot
		require.NoError(t, json.Unmarshal(exported, &snap))
		edit(&snap)
		data, err := json.Marshal(&snap)
		require.NoError(t, err)
		return data
	}

	cases := map[string][]byte{
		"not json": []byte("{accounts:"),
		"unbalanced voucher": tamper(func(s *domain.Snapshot) {
			s.Vouchers[0].Entries[0].Debit = s.Vouchers[0].Entries[0].Debit.Add(amount("1"))
		}),
		"unknown account": tamper(func(s *domain.Snapshot) {
			s.Vouchers[0].Entries[0].AccountID = "nowhere"
		}),
		"duplicate voucher number": tamper(func(s *domain.Snapshot) {
			s.Vouchers[1].VoucherNumber = s.Vouchers[0].VoucherNumber
		}),
		"dangling booking": tamper(func(s *domain.Snapshot) {
			s.Bookings[0].VoucherID = "missing"
		}),
		"newer version": tamper(func(s *domain.Snapshot) {
			s.Version = domain.SnapshotVersion + 1
		}),
	}

	target := newLedgerFixture(t)
	transfer := services.NewTransferService(target.state)
	before := target.state.View()
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			err := transfer.Import(ctx, data, testActor)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Same(t, before, target.state.View())
		})
	}
}
