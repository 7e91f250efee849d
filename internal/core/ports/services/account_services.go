package services

import (
	"context"

	"github.com/SscSPs/agency_books/internal/core/domain"
	"github.com/SscSPs/agency_books/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves accounts in code order, optionally filtered by type.
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)

	// GetControlAccounts returns the accounts bookings post into, falling back to the first active account of each type.
	GetControlAccounts(ctx context.Context) (*domain.ControlAccounts, error)
}

// AccountWriterSvc defines write operations for the chart of accounts
type AccountWriterSvc interface {
	// CreateAccount persists a new account with the next account code.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error)

	// UpdateAccount updates an existing account's details. The account type cannot change.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actor string) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, actor string) error

	// DeleteAccount removes an account that nothing references.
	DeleteAccount(ctx context.Context, accountID string) error

	// SetControlAccounts stores the receivable, payable and income accounts used by bookings.
	SetControlAccounts(ctx context.Context, req dto.ControlAccountsRequest, actor string) (*domain.ControlAccounts, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}

// PartyReaderSvc defines read operations for customers and vendors
type PartyReaderSvc interface {
	GetPartyByID(ctx context.Context, partyID string) (*domain.Party, error)
	ListParties(ctx context.Context, params dto.ListPartiesParams) ([]domain.Party, error)
}

// PartyWriterSvc defines write operations for customers and vendors
type PartyWriterSvc interface {
	// CreateParty registers a customer or vendor with the next code of its kind.
	CreateParty(ctx context.Context, req dto.CreatePartyRequest, actor string) (*domain.Party, error)

	UpdateParty(ctx context.Context, partyID string, req dto.UpdatePartyRequest, actor string) (*domain.Party, error)
	DeactivateParty(ctx context.Context, partyID string, actor string) error

	// DeleteParty removes a party that no voucher entry or booking references.
	DeleteParty(ctx context.Context, partyID string) error
}

// PartySvcFacade combines all party-related service interfaces
type PartySvcFacade interface {
	PartyReaderSvc
	PartyWriterSvc
}
