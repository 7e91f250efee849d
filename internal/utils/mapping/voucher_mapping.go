package mapping

import (
	"github.com/SscSPs/agency_books/internal/core/domain"
	"github.com/SscSPs/agency_books/internal/models"
)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func copyID(p *string) *string {
	if p == nil {
		return nil
	}
	s := *p
	return &s
}

// ToModelVoucher splits a domain Voucher into its header row and ordered entry rows.
func ToModelVoucher(d domain.Voucher) (models.Voucher, []models.VoucherEntry) {
	header := models.Voucher{
		VoucherID:          d.VoucherID,
		VoucherNumber:      d.VoucherNumber,
		VoucherDate:        d.VoucherDate,
		VoucherType:        string(d.VoucherType),
		Description:        d.Description,
		TotalAmount:        d.TotalAmount,
		NativeAmount:       d.NativeAmount,
		CurrencyCode:       d.CurrencyCode,
		ROE:                d.ROE,
		Status:             models.VoucherStatus(d.Status),
		OriginalVoucherID:  copyID(d.OriginalVoucherID),
		ReversingVoucherID: copyID(d.ReversingVoucherID),
		AuditFields:        auditToModel(d.AuditFields),
	}
	entries := make([]models.VoucherEntry, len(d.Entries))
	for i, e := range d.Entries {
		entries[i] = models.VoucherEntry{
			EntryID:   e.EntryID,
			VoucherID: d.VoucherID,
			LineNo:    i + 1,
			AccountID: e.AccountID,
			PartyID:   optional(e.PartyID),
			Debit:     e.Debit,
			Credit:    e.Credit,
			Narration: e.Narration,
		}
	}
	return header, entries
}

// ToDomainVoucher joins a header row with its entry rows, which must already be in line order.
func ToDomainVoucher(m models.Voucher, entries []models.VoucherEntry) domain.Voucher {
	d := domain.Voucher{
		VoucherID:          m.VoucherID,
		VoucherNumber:      m.VoucherNumber,
		VoucherDate:        domain.DateOnly(m.VoucherDate),
		VoucherType:        domain.VoucherType(m.VoucherType),
		Description:        m.Description,
		TotalAmount:        m.TotalAmount,
		NativeAmount:       m.NativeAmount,
		CurrencyCode:       m.CurrencyCode,
		ROE:                m.ROE,
		Status:             domain.VoucherStatus(m.Status),
		OriginalVoucherID:  copyID(m.OriginalVoucherID),
		ReversingVoucherID: copyID(m.ReversingVoucherID),
		Entries:            make([]domain.VoucherEntry, len(entries)),
		AuditFields:        auditToDomain(m.AuditFields),
	}
	for i, e := range entries {
		d.Entries[i] = domain.VoucherEntry{
			EntryID:   e.EntryID,
			VoucherID: m.VoucherID,
			AccountID: e.AccountID,
			Debit:     e.Debit,
			Credit:    e.Credit,
			Narration: e.Narration,
		}
		if e.PartyID != nil {
			d.Entries[i].PartyID = *e.PartyID
		}
	}
	return d
}
