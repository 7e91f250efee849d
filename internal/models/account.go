package models

// AccountType defines the fundamental accounting type of an account.
type AccountType string

// Account is a row of the remote accounts table.
type Account struct {
	AccountID   string      `db:"account_id"`
	Code        string      `db:"code"`
	Title       string      `db:"title"`
	AccountType AccountType `db:"account_type"`
	Description string      `db:"description"`
	IsActive    bool        `db:"is_active"`
	AuditFields             // Embed common audit fields
}
