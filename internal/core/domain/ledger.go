package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerKind selects the subject type of a ledger statement and, with it, the sign convention.
type LedgerKind string

const (
	AccountLedger  LedgerKind = "ACCOUNT"
	CustomerLedger LedgerKind = "CUSTOMER"
	VendorLedger   LedgerKind = "VENDOR"
)

// IsValid reports whether k is a known ledger kind.
func (k LedgerKind) IsValid() bool {
	return k == AccountLedger || k == CustomerLedger || k == VendorLedger
}

// LedgerLine is one entry of a statement annotated with its running balance.
type LedgerLine struct {
	VoucherID      string          `json:"voucherID"`
	VoucherNumber  string          `json:"voucherNumber"`
	VoucherType    VoucherType     `json:"voucherType"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	Narration      string          `json:"narration,omitempty"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Net            decimal.Decimal `json:"net"` // Signed per the ledger kind
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// LedgerStatement is the opening, running and closing view of one account or party.
// ClosingBalance always equals OpeningBalance plus the Net of every line.
type LedgerStatement struct {
	SubjectID      string          `json:"subjectID"`
	SubjectName    string          `json:"subjectName"`
	Kind           LedgerKind      `json:"kind"`
	FromDate       *time.Time      `json:"fromDate,omitempty"`
	ToDate         *time.Time      `json:"toDate,omitempty"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Lines          []LedgerLine    `json:"lines"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`  // Window only
	TotalCredit    decimal.Decimal `json:"totalCredit"` // Window only
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}
