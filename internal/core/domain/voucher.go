package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType identifies the business origin of a voucher and its number prefix.
type VoucherType string

const (
	CashVoucher      VoucherType = "CASH"
	BankVoucher      VoucherType = "BANK"
	JournalVoucher   VoucherType = "JOURNAL"
	HotelVoucher     VoucherType = "HOTEL"
	TicketVoucher    VoucherType = "TICKET"
	VisaVoucher      VoucherType = "VISA"
	TransportVoucher VoucherType = "TRANSPORT"
	ReceiptVoucher   VoucherType = "RECEIPT"
)

var voucherPrefixes = map[VoucherType]string{
	CashVoucher:      "CV",
	BankVoucher:      "BV",
	JournalVoucher:   "JV",
	HotelVoucher:     "HV",
	TicketVoucher:    "TV",
	VisaVoucher:      "VV",
	TransportVoucher: "TR",
	ReceiptVoucher:   "RV",
}

// Prefix returns the letter prefix used in voucher numbers, or "" for unknown types.
func (t VoucherType) Prefix() string {
	return voucherPrefixes[t]
}

// IsValid reports whether t is a known voucher type.
func (t VoucherType) IsValid() bool {
	_, ok := voucherPrefixes[t]
	return ok
}

// IsManual reports whether vouchers of this type are entered directly rather than derived from a booking.
func (t VoucherType) IsManual() bool {
	return t == CashVoucher || t == BankVoucher || t == JournalVoucher
}

// VoucherStatus indicates the state of a voucher.
type VoucherStatus string

const (
	Posted   VoucherStatus = "POSTED"
	Reversed VoucherStatus = "REVERSED"
)

// Voucher is an atomic, self-balancing posting. All entry amounts are in the functional currency;
// CurrencyCode, ROE and NativeAmount record how they were derived and are never reused to recompute them.
type Voucher struct {
	VoucherID          string          `json:"voucherID"`
	VoucherNumber      string          `json:"voucherNumber"` // e.g. HV-0001
	VoucherDate        time.Time       `json:"voucherDate"`
	VoucherType        VoucherType     `json:"voucherType"`
	Description        string          `json:"description"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`  // Σdebit in functional currency
	NativeAmount       decimal.Decimal `json:"nativeAmount"` // Σdebit in the source currency
	CurrencyCode       string          `json:"currencyCode"`
	ROE                decimal.Decimal `json:"roe"`
	Status             VoucherStatus   `json:"status"`
	OriginalVoucherID  *string         `json:"originalVoucherID,omitempty"`  // Set on a reversal
	ReversingVoucherID *string         `json:"reversingVoucherID,omitempty"` // Set on a reversed voucher
	Entries            []VoucherEntry  `json:"entries"`
	AuditFields
}

// Totals sums debit and credit across the voucher's entries.
func (v Voucher) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, e := range v.Entries {
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	return debit, credit
}

// References reports whether any entry of the voucher points at the given account or party id.
func (v Voucher) References(id string) bool {
	for _, e := range v.Entries {
		if e.AccountID == id || e.PartyID == id {
			return true
		}
	}
	return false
}

// IsMultiCurrency reports whether the voucher was posted from a non-functional currency.
func (v Voucher) IsMultiCurrency(functionalCurrency string) bool {
	return v.CurrencyCode != "" && v.CurrencyCode != functionalCurrency
}

// IsReversal reports whether the voucher was posted to reverse another one.
func (v Voucher) IsReversal() bool {
	return v.OriginalVoucherID != nil
}

// Clone returns a deep copy of the voucher.
func (v Voucher) Clone() Voucher {
	c := v
	c.Entries = append([]VoucherEntry(nil), v.Entries...)
	if v.OriginalVoucherID != nil {
		id := *v.OriginalVoucherID
		c.OriginalVoucherID = &id
	}
	if v.ReversingVoucherID != nil {
		id := *v.ReversingVoucherID
		c.ReversingVoucherID = &id
	}
	return c
}
