package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherStatus indicates the state of a voucher.
type VoucherStatus string

// Voucher is a row of the remote vouchers table. Its lines live in voucher_entries.
type Voucher struct {
	VoucherID          string          `db:"voucher_id"`
	VoucherNumber      string          `db:"voucher_number"`
	VoucherDate        time.Time       `db:"voucher_date"`
	VoucherType        string          `db:"voucher_type"`
	Description        string          `db:"description"`
	TotalAmount        decimal.Decimal `db:"total_amount"`
	NativeAmount       decimal.Decimal `db:"native_amount"`
	CurrencyCode       string          `db:"currency_code"`
	ROE                decimal.Decimal `db:"roe"`
	Status             VoucherStatus   `db:"status"`
	OriginalVoucherID  *string         `db:"original_voucher_id"`  // Nullable
	ReversingVoucherID *string         `db:"reversing_voucher_id"` // Nullable
	AuditFields
}

// VoucherEntry is a single line of a voucher. LineNo keeps the posting order.
type VoucherEntry struct {
	EntryID   string          `db:"entry_id"`
	VoucherID string          `db:"voucher_id"`
	LineNo    int             `db:"line_no"`
	AccountID string          `db:"account_id"`
	PartyID   *string         `db:"party_id"` // Nullable
	Debit     decimal.Decimal `db:"debit"`
	Credit    decimal.Decimal `db:"credit"`
	Narration string          `db:"narration"`
}
