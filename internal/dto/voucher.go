package dto

import (
	"time"

	"github.com/SscSPs/agency_books/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryLineRequest is a posting line in the voucher's own currency.
type EntryLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	PartyID   string          `json:"partyID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Narration string          `json:"narration"`
}

// PostVoucherRequest defines a manual voucher: its header plus complete, balanced lines.
type PostVoucherRequest struct {
	VoucherType  domain.VoucherType `json:"voucherType" binding:"required,oneof=CASH BANK JOURNAL"`
	Date         time.Time          `json:"date" binding:"required"`
	Description  string             `json:"description"`
	CurrencyCode string             `json:"currencyCode" binding:"omitempty,len=3,uppercase"`
	ROE          *decimal.Decimal   `json:"roe"`
	Lines        []EntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ToShapeAndLines splits the request into the posting engine's inputs.
func (r PostVoucherRequest) ToShapeAndLines() (domain.VoucherShape, []domain.EntryLine) {
	shape := domain.VoucherShape{
		VoucherType:  r.VoucherType,
		VoucherDate:  r.Date,
		Description:  r.Description,
		CurrencyCode: r.CurrencyCode,
		ROE:          r.ROE,
	}
	lines := make([]domain.EntryLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.EntryLine{
			AccountID: l.AccountID,
			PartyID:   l.PartyID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Narration: l.Narration,
		}
	}
	return shape, lines
}

// ListVouchersParams defines query parameters for listing vouchers.
type ListVouchersParams struct {
	VoucherType      domain.VoucherType `form:"voucherType"`
	Limit            int                `form:"limit,default=20" binding:"omitempty,min=1,max=200"`
	NextToken        *string            `form:"nextToken"`
	IncludeReversals bool               `form:"includeReversals"`
}

// EntryResponse defines the data returned for a voucher entry.
type EntryResponse struct {
	EntryID   string          `json:"entryID"`
	AccountID string          `json:"accountID"`
	PartyID   string          `json:"partyID,omitempty"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Narration string          `json:"narration,omitempty"`
}

// VoucherResponse defines the data returned for a voucher.
type VoucherResponse struct {
	VoucherID          string               `json:"voucherID"`
	VoucherNumber      string               `json:"voucherNumber"`
	VoucherType        domain.VoucherType   `json:"voucherType"`
	Date               time.Time            `json:"date"`
	Description        string               `json:"description"`
	TotalAmount        decimal.Decimal      `json:"totalAmount"`
	NativeAmount       decimal.Decimal      `json:"nativeAmount"`
	CurrencyCode       string               `json:"currencyCode"`
	ROE                decimal.Decimal      `json:"roe"`
	Status             domain.VoucherStatus `json:"status"`
	OriginalVoucherID  *string              `json:"originalVoucherID,omitempty"`
	ReversingVoucherID *string              `json:"reversingVoucherID,omitempty"`
	Entries            []EntryResponse      `json:"entries"`
	CreatedAt          time.Time            `json:"createdAt"`
	CreatedBy          string               `json:"createdBy"`
}

// ListVouchersResponse is a page of vouchers.
type ListVouchersResponse struct {
	Vouchers  []VoucherResponse `json:"vouchers"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToVoucherResponse converts a domain.Voucher to VoucherResponse DTO.
func ToVoucherResponse(v *domain.Voucher) VoucherResponse {
	entries := make([]EntryResponse, len(v.Entries))
	for i, e := range v.Entries {
		entries[i] = EntryResponse{
			EntryID:   e.EntryID,
			AccountID: e.AccountID,
			PartyID:   e.PartyID,
			Debit:     e.Debit,
			Credit:    e.Credit,
			Narration: e.Narration,
		}
	}
	return VoucherResponse{
		VoucherID:          v.VoucherID,
		VoucherNumber:      v.VoucherNumber,
		VoucherType:        v.VoucherType,
		Date:               v.VoucherDate,
		Description:        v.Description,
		TotalAmount:        v.TotalAmount,
		NativeAmount:       v.NativeAmount,
		CurrencyCode:       v.CurrencyCode,
		ROE:                v.ROE,
		Status:             v.Status,
		OriginalVoucherID:  v.OriginalVoucherID,
		ReversingVoucherID: v.ReversingVoucherID,
		Entries:            entries,
		CreatedAt:          v.CreatedAt,
		CreatedBy:          v.CreatedBy,
	}
}

// ToVoucherResponses converts a slice of vouchers.
func ToVoucherResponses(vouchers []domain.Voucher) []VoucherResponse {
	res := make([]VoucherResponse, len(vouchers))
	for i, v := range vouchers {
		res[i] = ToVoucherResponse(&v)
	}
	return res
}

// LedgerStatementParams are the query parameters of a ledger statement request.
type LedgerStatementParams struct {
	Kind     domain.LedgerKind `form:"kind" binding:"required,oneof=ACCOUNT CUSTOMER VENDOR"`
	FromDate string            `form:"fromDate"`
	ToDate   string            `form:"toDate"`
}
