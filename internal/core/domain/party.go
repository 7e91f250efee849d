package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartyKind distinguishes customers from vendors.
type PartyKind string

const (
	Customer PartyKind = "CUSTOMER"
	Vendor   PartyKind = "VENDOR"
)

// IsValid reports whether k is a known party kind.
func (k PartyKind) IsValid() bool {
	return k == Customer || k == Vendor
}

// CodePrefix is the prefix used for sequential party codes.
func (k PartyKind) CodePrefix() string {
	if k == Vendor {
		return "VEN"
	}
	return "CUS"
}

// LedgerKind maps a party kind onto the ledger whose sign convention it uses.
func (k PartyKind) LedgerKind() LedgerKind {
	if k == Vendor {
		return VendorLedger
	}
	return CustomerLedger
}

// EntrySide indicates whether an amount sits on the debit or the credit side.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// Party is a counterparty of the agency: a customer or a vendor.
type Party struct {
	PartyID        string          `json:"partyID"`
	Kind           PartyKind       `json:"kind"`
	Code           string          `json:"code"` // CUS-0001 / VEN-0001, sequential per kind
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	Address        string          `json:"address"`
	OpeningBalance decimal.Decimal `json:"openingBalance"` // Always non-negative; direction is OpeningSide
	OpeningSide    EntrySide       `json:"openingSide"`
	OpeningDate    time.Time       `json:"openingDate"`
	IsActive       bool            `json:"isActive"`
	AuditFields
}

// OpeningAmounts returns the opening balance split into debit and credit.
func (p Party) OpeningAmounts() (debit, credit decimal.Decimal) {
	if p.OpeningBalance.IsZero() {
		return decimal.Zero, decimal.Zero
	}
	if p.OpeningSide == Credit {
		return decimal.Zero, p.OpeningBalance
	}
	return p.OpeningBalance, decimal.Zero
}
