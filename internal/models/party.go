package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Party is a row of the remote parties table.
type Party struct {
	PartyID        string          `db:"party_id"`
	Kind           string          `db:"kind"`
	Code           string          `db:"code"`
	Name           string          `db:"name"`
	Phone          string          `db:"phone"`
	Email          string          `db:"email"`
	Address        string          `db:"address"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	OpeningSide    string          `db:"opening_side"`
	OpeningDate    *time.Time      `db:"opening_date"` // Nullable
	IsActive       bool            `db:"is_active"`
	AuditFields
}
