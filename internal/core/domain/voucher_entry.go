package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherEntry is a single line of a voucher. Exactly one of Debit and Credit is non-zero,
// and both are stored already converted into the functional currency.
type VoucherEntry struct {
	EntryID   string          `json:"entryID"`
	VoucherID string          `json:"voucherID"`
	AccountID string          `json:"accountID"`
	PartyID   string          `json:"partyID,omitempty"` // Optional counterparty tag
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Narration string          `json:"narration,omitempty"`
}

// Side reports which side of the ledger the entry sits on.
func (e VoucherEntry) Side() EntrySide {
	if e.Credit.GreaterThan(decimal.Zero) {
		return Credit
	}
	return Debit
}

// Amount returns the non-zero side of the entry.
func (e VoucherEntry) Amount() decimal.Decimal {
	if e.Side() == Credit {
		return e.Credit
	}
	return e.Debit
}

// VoucherShape carries the header of a voucher to be posted.
// An empty CurrencyCode means the functional currency; a nil ROE means the default rate for CurrencyCode.
type VoucherShape struct {
	VoucherType  VoucherType      `json:"voucherType"`
	VoucherDate  time.Time        `json:"voucherDate"`
	Description  string           `json:"description"`
	CurrencyCode string           `json:"currencyCode"`
	ROE          *decimal.Decimal `json:"roe,omitempty"`
}

// EntryLine is a posting line in the voucher's native currency, before conversion.
type EntryLine struct {
	AccountID string          `json:"accountID"`
	PartyID   string          `json:"partyID,omitempty"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Narration string          `json:"narration,omitempty"`
}

// DebitLine builds a debit line.
func DebitLine(accountID, partyID string, amount decimal.Decimal, narration string) EntryLine {
	return EntryLine{AccountID: accountID, PartyID: partyID, Debit: amount, Credit: decimal.Zero, Narration: narration}
}

// CreditLine builds a credit line.
func CreditLine(accountID, partyID string, amount decimal.Decimal, narration string) EntryLine {
	return EntryLine{AccountID: accountID, PartyID: partyID, Debit: decimal.Zero, Credit: amount, Narration: narration}
}
