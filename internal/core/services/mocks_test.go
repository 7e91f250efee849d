package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/core/domain"
	portssvc "github.com/SscSPs/agency_books/internal/core/ports/services"
	"github.com/SscSPs/agency_books/internal/core/services"
	"github.com/SscSPs/agency_books/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSnapshotStore is a mock type for the SnapshotStoreFacade interface
type MockSnapshotStore struct {
	mock.Mock
}

func (m *MockSnapshotStore) LoadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

func (m *MockSnapshotStore) SaveSnapshot(ctx context.Context, snapshot *domain.Snapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

// MockEventPublisher is a mock type for the EventPublisher interface
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}

// MockSequenceAllocator is a mock type for the SequenceAllocator interface
type MockSequenceAllocator struct {
	mock.Mock
}

func (m *MockSequenceAllocator) NextValue(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSequenceAllocator) EnsureFloor(ctx context.Context, key string, floor int64) error {
	args := m.Called(ctx, key, floor)
	return args.Error(0)
}

// MockRemoteLedger is a mock type for the RemoteLedgerFacade interface
type MockRemoteLedger struct {
	mock.Mock
}

func (m *MockRemoteLedger) PushBatch(ctx context.Context, batch domain.SyncBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockRemoteLedger) PullBatch(ctx context.Context) (*domain.SyncBatch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncBatch), args.Error(1)
}

// MockSyncHistory is a mock type for the SyncHistoryRepository interface
type MockSyncHistory struct {
	mock.Mock
}

func (m *MockSyncHistory) RecordSyncRun(ctx context.Context, run domain.SyncRun) (int64, error) {
	args := m.Called(ctx, run)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSyncHistory) ListSyncRuns(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SyncRun), args.Error(1)
}

func (m *MockSyncHistory) LastSuccessfulRun(ctx context.Context, direction domain.SyncDirection) (*domain.SyncRun, error) {
	args := m.Called(ctx, direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncRun), args.Error(1)
}

const testActor = "tester"

var fixtureNow = time.Date(2026, time.March, 1, 10, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ledgerFixture is a ledger with a small chart, control accounts, one customer and one vendor.
type ledgerFixture struct {
	state  *services.LedgerState
	store  *MockSnapshotStore
	events *MockEventPublisher

	accounts portssvc.AccountSvcFacade
	parties  portssvc.PartySvcFacade
	posting  portssvc.PostingSvcFacade
	bookings portssvc.BookingSvcFacade
	ledger   portssvc.LedgerService
	reports  portssvc.ReportingService
	rates    portssvc.ExchangeRateSvcFacade

	cash, bank, receivable, payable, income, expense, equity *domain.Account
	customer, vendor                                         *domain.Party
}

func newLedgerFixture(t *testing.T, options ...services.StateOption) *ledgerFixture {
	t.Helper()
	ctx := context.Background()

	f := &ledgerFixture{store: new(MockSnapshotStore), events: new(MockEventPublisher)}
	f.store.On("LoadSnapshot", mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	f.store.On("SaveSnapshot", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.events.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	opts := append([]services.StateOption{
		services.WithClock(func() time.Time { return fixtureNow }),
		services.WithEventPublisher(f.events),
	}, options...)
	state, err := services.NewLedgerState(ctx, f.store, "PKR", opts...)
	require.NoError(t, err)
	f.state = state

	f.accounts = services.NewAccountService(state)
	f.parties = services.NewPartyService(state)
	f.posting = services.NewPostingService(state)
	f.bookings = services.NewBookingService(state, services.NewValidationHelper())
	f.ledger = services.NewLedgerService(state)
	f.reports = services.NewReportingService(state)
	f.rates = services.NewExchangeRateService(state)

	f.cash = f.mustAccount(t, "Cash in Hand", domain.Cash)
	f.bank = f.mustAccount(t, "Meezan Bank", domain.Bank)
	f.receivable = f.mustAccount(t, "Accounts Receivable", domain.Receivable)
	f.payable = f.mustAccount(t, "Accounts Payable", domain.Payable)
	f.income = f.mustAccount(t, "Service Income", domain.Income)
	f.expense = f.mustAccount(t, "Office Expense", domain.Expense)
	f.equity = f.mustAccount(t, "Owner Capital", domain.Equity)

	_, err = f.accounts.SetControlAccounts(ctx, dto.ControlAccountsRequest{
		ReceivableAccountID: f.receivable.AccountID,
		PayableAccountID:    f.payable.AccountID,
		IncomeAccountID:     f.income.AccountID,
	}, testActor)
	require.NoError(t, err)

	f.customer = f.mustParty(t, "Ali Travels Client", domain.Customer)
	f.vendor = f.mustParty(t, "Pearl Continental", domain.Vendor)
	return f
}

func (f *ledgerFixture) mustAccount(t *testing.T, title string, accountType domain.AccountType) *domain.Account {
	t.Helper()
	a, err := f.accounts.CreateAccount(context.Background(), dto.CreateAccountRequest{Title: title, AccountType: accountType}, testActor)
	require.NoError(t, err)
	return a
}

func (f *ledgerFixture) mustParty(t *testing.T, name string, kind domain.PartyKind) *domain.Party {
	t.Helper()
	p, err := f.parties.CreateParty(context.Background(), dto.CreatePartyRequest{Kind: kind, Name: name}, testActor)
	require.NoError(t, err)
	return p
}

// mustPost posts a two-line manual voucher.
func (f *ledgerFixture) mustPost(t *testing.T, voucherType domain.VoucherType, date time.Time, debit, credit domain.EntryLine) *domain.Voucher {
	t.Helper()
	v, err := f.posting.PostVoucher(context.Background(), domain.VoucherShape{
		VoucherType: voucherType,
		VoucherDate: date,
		Description: "test posting",
	}, []domain.EntryLine{debit, credit}, testActor)
	require.NoError(t, err)
	return v
}

func hotelSale(f *ledgerFixture, date time.Time, sale, cost string) *domain.HotelDetails {
	return &domain.HotelDetails{
		MarginSale: domain.MarginSale{
			Pricing:    domain.Pricing{Date: date},
			CustomerID: f.customer.PartyID,
			VendorID:   f.vendor.PartyID,
			SaleAmount: amount(sale),
			CostAmount: amount(cost),
		},
		HotelName: "Pearl Continental",
		GuestName: "Mr. Khan",
		Rooms:     1,
	}
}

func customerReceipt(f *ledgerFixture, date time.Time, amt string) *domain.ReceiptDetails {
	return &domain.ReceiptDetails{
		Pricing:          domain.Pricing{Date: date},
		Source:           domain.FromCustomer,
		PartyID:          f.customer.PartyID,
		DepositAccountID: f.cash.AccountID,
		Amount:           amount(amt),
		Reference:        "RCPT-1",
	}
}
