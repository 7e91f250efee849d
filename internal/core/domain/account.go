package domain

// AccountType defines the fundamental accounting type of an account.
// Reports classify accounts purely by this value, so it cannot change after creation.
type AccountType string

const (
	Cash       AccountType = "CASH"
	Bank       AccountType = "BANK"
	Income     AccountType = "INCOME"
	Expense    AccountType = "EXPENSE"
	Receivable AccountType = "RECEIVABLE"
	Payable    AccountType = "PAYABLE"
	Equity     AccountType = "EQUITY"
)

// AccountTypes lists every supported account type in chart order.
var AccountTypes = []AccountType{Cash, Bank, Receivable, Payable, Equity, Income, Expense}

// IsValid reports whether t is one of the supported account types.
func (t AccountType) IsValid() bool {
	for _, known := range AccountTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsCashLike reports whether the account holds money (cash in hand or bank).
func (t AccountType) IsCashLike() bool {
	return t == Cash || t == Bank
}

// Account represents a ledger account in the chart of accounts.
type Account struct {
	AccountID   string      `json:"accountID"`   // Primary Key (UUID)
	Code        string      `json:"code"`        // Sequential, unique, never reused
	Title       string      `json:"title"`       // User-defined name
	AccountType AccountType `json:"accountType"` // Immutable after creation
	Description string      `json:"description"` // Optional
	IsActive    bool        `json:"isActive"`
	AuditFields
}
