package dto

import (
	"time"

	"github.com/SscSPs/agency_books/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Title       string             `json:"title" binding:"required"`
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=CASH BANK INCOME EXPENSE RECEIVABLE PAYABLE EQUITY"`
	Description string             `json:"description"` // Optional
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID     string             `json:"accountID"`
	Code          string             `json:"code"`
	Title         string             `json:"title"`
	AccountType   domain.AccountType `json:"accountType"`
	Description   string             `json:"description"`
	IsActive      bool               `json:"isActive"`
	CreatedAt     time.Time          `json:"createdAt"`
	CreatedBy     string             `json:"createdBy"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy string             `json:"lastUpdatedBy"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
// The account type is deliberately absent: it cannot change after creation.
type UpdateAccountRequest struct {
	Title       *string `json:"title"`       // Optional: New title
	Description *string `json:"description"` // Optional: New description
	IsActive    *bool   `json:"isActive"`    // Optional: New active status
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Code:          acc.Code,
		Title:         acc.Title,
		AccountType:   acc.AccountType,
		Description:   acc.Description,
		IsActive:      acc.IsActive,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc) // Reuse the single converter
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	AccountType     domain.AccountType `form:"accountType"`
	IncludeInactive bool               `form:"includeInactive"`
}

// ControlAccountsRequest selects the accounts domain bookings post into.
type ControlAccountsRequest struct {
	ReceivableAccountID string `json:"receivableAccountID" binding:"required"`
	PayableAccountID    string `json:"payableAccountID" binding:"required"`
	IncomeAccountID     string `json:"incomeAccountID" binding:"required"`
}
