package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/core/domain"
	"github.com/SscSPs/agency_books/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	f   *ledgerFixture
	ctx context.Context
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.f = newLedgerFixture(suite.T())
	suite.ctx = context.Background()
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	account, err := suite.f.accounts.CreateAccount(suite.ctx, dto.CreateAccountRequest{
		Title:       "  Petty Cash  ",
		AccountType: domain.Cash,
		Description: "front desk",
	}, testActor)

	suite.Require().NoError(err)
	suite.NotEmpty(account.AccountID)
	suite.Equal("AC-0008", account.Code) // seven fixture accounts precede it
	suite.Equal("Petty Cash", account.Title)
	suite.Equal(domain.Cash, account.AccountType)
	suite.True(account.IsActive)
	suite.Equal(testActor, account.CreatedBy)
	suite.Equal(fixtureNow, account.CreatedAt)

	stored, err := suite.f.accounts.GetAccountByID(suite.ctx, account.AccountID)
	suite.Require().NoError(err)
	suite.Equal(*account, *stored)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Validation() {
	_, err := suite.f.accounts.CreateAccount(suite.ctx, dto.CreateAccountRequest{Title: "X", AccountType: "ASSET"}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.f.accounts.CreateAccount(suite.ctx, dto.CreateAccountRequest{Title: "   ", AccountType: domain.Bank}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	_, err := suite.f.accounts.GetAccountByID(suite.ctx, "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestListAccounts_FiltersAndOrder() {
	suite.Require().NoError(suite.f.accounts.DeactivateAccount(suite.ctx, suite.f.bank.AccountID, testActor))

	active, err := suite.f.accounts.ListAccounts(suite.ctx, dto.ListAccountsParams{})
	suite.Require().NoError(err)
	suite.Len(active, 6)
	for i := 1; i < len(active); i++ {
		suite.Less(active[i-1].Code, active[i].Code)
	}

	all, err := suite.f.accounts.ListAccounts(suite.ctx, dto.ListAccountsParams{IncludeInactive: true})
	suite.Require().NoError(err)
	suite.Len(all, 7)

	banks, err := suite.f.accounts.ListAccounts(suite.ctx, dto.ListAccountsParams{AccountType: domain.Bank, IncludeInactive: true})
	suite.Require().NoError(err)
	suite.Require().Len(banks, 1)
	suite.False(banks[0].IsActive)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_TypeIsUntouched() {
	title := "Main Cash"
	updated, err := suite.f.accounts.UpdateAccount(suite.ctx, suite.f.cash.AccountID, dto.UpdateAccountRequest{Title: &title}, "editor")
	suite.Require().NoError(err)
	suite.Equal("Main Cash", updated.Title)
	suite.Equal(domain.Cash, updated.AccountType)
	suite.Equal(suite.f.cash.Code, updated.Code)
	suite.Equal("editor", updated.LastUpdatedBy)

	_, err = suite.f.accounts.UpdateAccount(suite.ctx, "missing", dto.UpdateAccountRequest{Title: &title}, "editor")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// Deleting an unreferenced account succeeds; one referencing entry blocks it.
func (suite *AccountServiceTestSuite) TestDeleteAccount_ReferentialIntegrity() {
	suite.Require().NoError(suite.f.accounts.DeleteAccount(suite.ctx, suite.f.expense.AccountID))
	_, err := suite.f.accounts.GetAccountByID(suite.ctx, suite.f.expense.AccountID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	rent := suite.f.mustAccount(suite.T(), "Rent", domain.Expense)
	suite.f.mustPost(suite.T(), domain.CashVoucher, day(2026, 2, 1),
		domain.DebitLine(rent.AccountID, "", amount("5000"), "rent"),
		domain.CreditLine(suite.f.cash.AccountID, "", amount("5000"), "rent"),
	)
	err = suite.f.accounts.DeleteAccount(suite.ctx, rent.AccountID)
	suite.ErrorIs(err, apperrors.ErrReferentialIntegrity)

	_, err = suite.f.accounts.GetAccountByID(suite.ctx, rent.AccountID)
	suite.NoError(err)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_ControlAccountIsReferenced() {
	err := suite.f.accounts.DeleteAccount(suite.ctx, suite.f.receivable.AccountID)
	suite.ErrorIs(err, apperrors.ErrReferentialIntegrity)
}

// Codes come from the stored sequence, so deleting never causes reuse.
func (suite *AccountServiceTestSuite) TestAccountCodes_NeverReused() {
	suite.Require().NoError(suite.f.accounts.DeleteAccount(suite.ctx, suite.f.equity.AccountID))
	next := suite.f.mustAccount(suite.T(), "Drawings", domain.Equity)
	suite.Equal("AC-0008", next.Code)
	suite.NotEqual(suite.f.equity.Code, next.Code)
}

func (suite *AccountServiceTestSuite) TestSetControlAccounts_WrongType() {
	_, err := suite.f.accounts.SetControlAccounts(suite.ctx, dto.ControlAccountsRequest{
		ReceivableAccountID: suite.f.cash.AccountID,
		PayableAccountID:    suite.f.payable.AccountID,
		IncomeAccountID:     suite.f.income.AccountID,
	}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)

	controls, err := suite.f.accounts.GetControlAccounts(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(suite.f.receivable.AccountID, controls.ReceivableAccountID)
}

func (suite *AccountServiceTestSuite) TestFailedCommit_DoesNotPersist() {
	suite.f.store.AssertNumberOfCalls(suite.T(), "SaveSnapshot", 10) // 7 accounts, controls, 2 parties

	_, err := suite.f.accounts.CreateAccount(suite.ctx, dto.CreateAccountRequest{Title: "", AccountType: domain.Cash}, testActor)
	suite.Error(err)
	suite.f.store.AssertNumberOfCalls(suite.T(), "SaveSnapshot", 10)
	suite.f.store.AssertCalled(suite.T(), "SaveSnapshot", mock.Anything, mock.Anything)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

// --- Party registry ---

type PartyServiceTestSuite struct {
	suite.Suite
	f   *ledgerFixture
	ctx context.Context
}

func (suite *PartyServiceTestSuite) SetupTest() {
	suite.f = newLedgerFixture(suite.T())
	suite.ctx = context.Background()
}

func (suite *PartyServiceTestSuite) TestCreateParty_CodesPerKind() {
	suite.Equal("CUS-0001", suite.f.customer.Code)
	suite.Equal("VEN-0001", suite.f.vendor.Code)

	second := suite.f.mustParty(suite.T(), "Second Client", domain.Customer)
	suite.Equal("CUS-0002", second.Code)
	vendor := suite.f.mustParty(suite.T(), "Emirates", domain.Vendor)
	suite.Equal("VEN-0002", vendor.Code)
}

func (suite *PartyServiceTestSuite) TestCreateParty_OpeningSideDefaultsByKind() {
	suite.Equal(domain.Debit, suite.f.customer.OpeningSide)
	suite.Equal(domain.Credit, suite.f.vendor.OpeningSide)

	opening := day(2025, 12, 31)
	p, err := suite.f.parties.CreateParty(suite.ctx, dto.CreatePartyRequest{
		Kind:           domain.Vendor,
		Name:           "Old Supplier",
		OpeningBalance: amount("1200"),
		OpeningDate:    &opening,
	}, testActor)
	suite.Require().NoError(err)
	suite.Equal(domain.Credit, p.OpeningSide)
	suite.Equal(opening, p.OpeningDate)
}

func (suite *PartyServiceTestSuite) TestCreateParty_Validation() {
	_, err := suite.f.parties.CreateParty(suite.ctx, dto.CreatePartyRequest{Kind: "AGENT", Name: "x"}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.f.parties.CreateParty(suite.ctx, dto.CreatePartyRequest{Kind: domain.Customer, Name: ""}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.f.parties.CreateParty(suite.ctx, dto.CreatePartyRequest{
		Kind: domain.Customer, Name: "Neg", OpeningBalance: amount("-5"),
	}, testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PartyServiceTestSuite) TestListParties_ByKind() {
	suite.f.mustParty(suite.T(), "Second Client", domain.Customer)

	customers, err := suite.f.parties.ListParties(suite.ctx, dto.ListPartiesParams{Kind: domain.Customer})
	suite.Require().NoError(err)
	suite.Len(customers, 2)

	all, err := suite.f.parties.ListParties(suite.ctx, dto.ListPartiesParams{})
	suite.Require().NoError(err)
	suite.Len(all, 3)
}

func (suite *PartyServiceTestSuite) TestDeleteParty_Referenced() {
	_, err := suite.f.bookings.CreateBooking(suite.ctx, hotelSale(suite.f, day(2026, 2, 1), "1000", "800"), testActor)
	suite.Require().NoError(err)

	err = suite.f.parties.DeleteParty(suite.ctx, suite.f.customer.PartyID)
	suite.ErrorIs(err, apperrors.ErrReferentialIntegrity)

	unused := suite.f.mustParty(suite.T(), "Walk-in", domain.Customer)
	suite.NoError(suite.f.parties.DeleteParty(suite.ctx, unused.PartyID))

	again := suite.f.mustParty(suite.T(), "Walk-in 2", domain.Customer)
	suite.Equal("CUS-0003", again.Code)
}

func (suite *PartyServiceTestSuite) TestDeactivateParty_BlocksNewPostings() {
	suite.Require().NoError(suite.f.parties.DeactivateParty(suite.ctx, suite.f.customer.PartyID, testActor))

	_, err := suite.f.bookings.CreateBooking(suite.ctx, hotelSale(suite.f, day(2026, 2, 1), "1000", "800"), testActor)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestPartyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PartyServiceTestSuite))
}
