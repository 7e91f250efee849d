package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/core/domain"
	portssvc "github.com/SscSPs/agency_books/internal/core/ports/services"
	"github.com/SscSPs/agency_books/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SyncServiceTestSuite struct {
	suite.Suite
	f       *ledgerFixture
	remote  *MockRemoteLedger
	history *MockSyncHistory
	sync    portssvc.SyncService
	ctx     context.Context
}

func (suite *SyncServiceTestSuite) SetupTest() {
	suite.f = newLedgerFixture(suite.T())
	suite.remote = new(MockRemoteLedger)
	suite.history = new(MockSyncHistory)
	suite.sync = services.NewSyncService(suite.f.state, suite.remote,
		services.WithSyncHistory(suite.history),
		services.WithSyncRetry(3, 0))
	suite.ctx = context.Background()
}

func runWith(direction domain.SyncDirection, status domain.SyncStatus, attempts int) any {
	return mock.MatchedBy(func(r domain.SyncRun) bool {
		return r.Direction == direction && r.Status == status && r.Attempts == attempts
	})
}

func (suite *SyncServiceTestSuite) TestPush_RetriesThenSucceeds() {
	suite.remote.On("PushBatch", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()
	suite.remote.On("PushBatch", mock.Anything, mock.MatchedBy(func(b domain.SyncBatch) bool {
		return len(b.Accounts) == 7 && len(b.Parties) == 2
	})).Return(nil).Once()
	suite.history.On("RecordSyncRun", mock.Anything, runWith(domain.SyncPush, domain.SyncSucceeded, 2)).Return(int64(11), nil).Once()

	run, err := suite.sync.Push(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(11), run.RunID)
	suite.Equal(9, run.RecordCount)
	suite.Equal(fixtureNow, run.FinishedAt)
	suite.remote.AssertExpectations(suite.T())
	suite.history.AssertExpectations(suite.T())
}

func (suite *SyncServiceTestSuite) TestPush_FailsAfterAllAttempts() {
	suite.remote.On("PushBatch", mock.Anything, mock.Anything).Return(errors.New("timeout")).Times(3)
	suite.history.On("RecordSyncRun", mock.Anything, runWith(domain.SyncPush, domain.SyncFailed, 3)).Return(int64(12), nil).Once()

	run, err := suite.sync.Push(suite.ctx)
	suite.Nil(run)
	suite.ErrorIs(err, apperrors.ErrSync)
	suite.Contains(err.Error(), "timeout")
	suite.remote.AssertNumberOfCalls(suite.T(), "PushBatch", 3)
	suite.history.AssertExpectations(suite.T())
}

func (suite *SyncServiceTestSuite) TestPush_HistoryFailureDoesNotFailRun() {
	suite.remote.On("PushBatch", mock.Anything, mock.Anything).Return(nil).Once()
	suite.history.On("RecordSyncRun", mock.Anything, mock.Anything).Return(int64(0), errors.New("disk full")).Once()

	run, err := suite.sync.Push(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(domain.SyncSucceeded, run.Status)
	suite.Zero(run.RunID)
}

func (suite *SyncServiceTestSuite) TestSync_WithoutRemote() {
	sync := services.NewSyncService(suite.f.state, nil, services.WithSyncHistory(suite.history))
	suite.history.On("RecordSyncRun", mock.Anything, mock.Anything).Return(int64(1), nil).Twice()

	_, err := sync.Push(suite.ctx)
	suite.ErrorIs(err, apperrors.ErrSync)
	_, err = sync.Pull(suite.ctx)
	suite.ErrorIs(err, apperrors.ErrSync)
	suite.history.AssertExpectations(suite.T())
}

// Remote records missing locally are added; anything clashing with a local id or number keeps the local copy.
// Only committed changes trigger a push, and a failed push stays pending until one succeeds.
func (suite *SyncServiceTestSuite) TestPushPending_SendsOnlyAfterChanges() {
	f := suite.f
	suite.history.On("RecordSyncRun", mock.Anything, mock.Anything).Return(int64(1), nil)

	// A freshly opened ledger has never been pushed.
	suite.remote.On("PushBatch", mock.Anything, mock.Anything).Return(nil).Once()
	run, err := suite.sync.PushPending(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().NotNil(run)

	run, err = suite.sync.PushPending(suite.ctx)
	suite.Require().NoError(err)
	suite.Nil(run)
	suite.remote.AssertNumberOfCalls(suite.T(), "PushBatch", 1)

	f.mustPost(suite.T(), domain.CashVoucher, day(2026, 2, 1),
		domain.DebitLine(f.cash.AccountID, "", amount("100"), ""),
		domain.CreditLine(f.income.AccountID, "", amount("100"), ""))
	suite.True(f.state.PendingPush())

	suite.remote.On("PushBatch", mock.Anything, mock.Anything).Return(errors.New("timeout")).Times(3)
	_, err = suite.sync.PushPending(suite.ctx)
	suite.ErrorIs(err, apperrors.ErrSync)
	suite.True(f.state.PendingPush())

	suite.remote.On("PushBatch", mock.Anything, mock.MatchedBy(func(b domain.SyncBatch) bool {
		return len(b.Vouchers) == 1
	})).Return(nil).Once()
	run, err = suite.sync.PushPending(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().NotNil(run)
	suite.False(f.state.PendingPush())
	suite.remote.AssertNumberOfCalls(suite.T(), "PushBatch", 5)
}

// A remote that still holds records deleted here must not bring them back on pull.
func (suite *SyncServiceTestSuite) TestPull_KeepsLocalDeletions() {
	f := suite.f
	booking, err := f.bookings.CreateBooking(suite.ctx, customerReceipt(f, day(2026, 2, 5), "500"), testActor)
	suite.Require().NoError(err)
	spare := f.mustAccount(suite.T(), "Spare Account", domain.Expense)

	var firstPush domain.SyncBatch
	suite.remote.On("PushBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		firstPush = args.Get(1).(domain.SyncBatch)
	}).Return(nil).Once()
	var secondPush domain.SyncBatch
	suite.remote.On("PushBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		secondPush = args.Get(1).(domain.SyncBatch)
	}).Return(nil).Once()
	suite.history.On("RecordSyncRun", mock.Anything, mock.Anything).Return(int64(1), nil)

	_, err = suite.sync.Push(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(firstPush.Vouchers, 1)
	suite.Require().Len(firstPush.Bookings, 1)
	suite.Empty(firstPush.Deleted)

	suite.Require().NoError(f.bookings.DeleteBooking(suite.ctx, booking.BookingID, testActor))
	suite.Require().NoError(f.accounts.DeleteAccount(suite.ctx, spare.AccountID))
	_, err = suite.sync.Push(suite.ctx)
	suite.Require().NoError(err)
	suite.ElementsMatch([]string{booking.BookingID, booking.VoucherID, spare.AccountID}, secondPush.Deleted)

	// The remote only ever applied upserts, so it still returns the first batch.
	suite.remote.On("PullBatch", mock.Anything).Return(&firstPush, nil).Once()
	run, err := suite.sync.Pull(suite.ctx)
	suite.Require().NoError(err)
	suite.Zero(run.RecordCount)

	snap := f.state.View()
	suite.Empty(snap.Vouchers)
	suite.Empty(snap.Bookings)
	suite.Equal(-1, snap.AccountIndex(spare.AccountID))
	suite.True(snap.WasDeleted(booking.VoucherID))
}

func (suite *SyncServiceTestSuite) TestPull_MergesWithLocalPrecedence() {
	f := suite.f
	local := f.mustPost(suite.T(), domain.CashVoucher, day(2026, 2, 1),
		domain.DebitLine(f.cash.AccountID, "", amount("100"), ""),
		domain.CreditLine(f.income.AccountID, "", amount("100"), ""))

	renamedCash := *f.cash
	renamedCash.Title = "Remote Cash"
	remoteAccount := domain.Account{AccountID: "remote-commission", Code: "AC-0020", Title: "Commission", AccountType: domain.Income, IsActive: true}
	remoteVoucher := func(id, number string) domain.Voucher {
		return domain.Voucher{
			VoucherID:     id,
			VoucherNumber: number,
			VoucherDate:   day(2026, 2, 3),
			VoucherType:   domain.CashVoucher,
			Status:        domain.Posted,
			TotalAmount:   amount("40"),
			Entries: []domain.VoucherEntry{
				{EntryID: id + "-1", VoucherID: id, AccountID: f.cash.AccountID, Debit: amount("40"), Credit: amount("0")},
				{EntryID: id + "-2", VoucherID: id, AccountID: remoteAccount.AccountID, Debit: amount("0"), Credit: amount("40")},
			},
		}
	}
	batch := &domain.SyncBatch{
		Accounts: []domain.Account{renamedCash, remoteAccount},
		Vouchers: []domain.Voucher{
			remoteVoucher("remote-v1", local.VoucherNumber),
			remoteVoucher("remote-v2", "CV-0009"),
		},
		Bookings: []domain.Booking{{BookingID: "remote-b1", Kind: domain.BookingReceipt, VoucherID: "remote-v1"}},
	}
	suite.remote.On("PullBatch", mock.Anything).Return(nil, errors.New("reset")).Once()
	suite.remote.On("PullBatch", mock.Anything).Return(batch, nil).Once()
	suite.history.On("RecordSyncRun", mock.Anything, runWith(domain.SyncPull, domain.SyncSucceeded, 2)).Return(int64(3), nil).Once()

	run, err := suite.sync.Pull(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(2, run.RecordCount)

	cash, err := f.accounts.GetAccountByID(suite.ctx, f.cash.AccountID)
	suite.Require().NoError(err)
	suite.Equal("Cash in Hand", cash.Title)
	_, err = f.accounts.GetAccountByID(suite.ctx, remoteAccount.AccountID)
	suite.NoError(err)

	snap := f.state.View()
	suite.Len(snap.Vouchers, 2)
	suite.Empty(snap.Bookings)

	st, err := f.ledger.Statement(suite.ctx, f.cash.AccountID, domain.AccountLedger, nil, nil)
	suite.Require().NoError(err)
	suite.True(st.ClosingBalance.Equal(amount("140")))

	next := f.mustPost(suite.T(), domain.CashVoucher, day(2026, 2, 4),
		domain.DebitLine(f.cash.AccountID, "", amount("1"), ""),
		domain.CreditLine(f.income.AccountID, "", amount("1"), ""))
	suite.Equal("CV-0010", next.VoucherNumber)
	suite.Equal("AC-0021", f.mustAccount(suite.T(), "Misc", domain.Expense).Code)
}

func (suite *SyncServiceTestSuite) TestPull_RejectsInconsistentRemoteData() {
	f := suite.f
	broken := domain.Voucher{
		VoucherID:     "remote-bad",
		VoucherNumber: "JV-0044",
		VoucherDate:   day(2026, 2, 3),
		VoucherType:   domain.JournalVoucher,
		Status:        domain.Posted,
		Entries: []domain.VoucherEntry{
			{EntryID: "x1", VoucherID: "remote-bad", AccountID: f.cash.AccountID, Debit: amount("40"), Credit: amount("0")},
			{EntryID: "x2", VoucherID: "remote-bad", AccountID: f.income.AccountID, Debit: amount("0"), Credit: amount("39")},
		},
	}
	suite.remote.On("PullBatch", mock.Anything).Return(&domain.SyncBatch{Vouchers: []domain.Voucher{broken}}, nil).Once()
	suite.history.On("RecordSyncRun", mock.Anything, runWith(domain.SyncPull, domain.SyncFailed, 1)).Return(int64(4), nil).Once()

	before := f.state.View()
	_, err := suite.sync.Pull(suite.ctx)
	suite.ErrorIs(err, apperrors.ErrSync)
	suite.Same(before, f.state.View())
}

func (suite *SyncServiceTestSuite) TestHistory_ClampsLimit() {
	runs := []domain.SyncRun{{RunID: 2, Direction: domain.SyncPull}, {RunID: 1, Direction: domain.SyncPush}}
	suite.history.On("ListSyncRuns", mock.Anything, 20).Return(runs, nil).Twice()

	got, err := suite.sync.History(suite.ctx, 500)
	suite.Require().NoError(err)
	suite.Equal(runs, got)
	_, err = suite.sync.History(suite.ctx, 0)
	suite.NoError(err)

	suite.history.On("ListSyncRuns", mock.Anything, 5).Return(nil, errors.New("locked")).Once()
	_, err = suite.sync.History(suite.ctx, 5)
	suite.Error(err)

	noHistory := services.NewSyncService(suite.f.state, suite.remote)
	got, err = noHistory.History(suite.ctx, 10)
	suite.Require().NoError(err)
	suite.Empty(got)
}

func TestSyncServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SyncServiceTestSuite))
}
