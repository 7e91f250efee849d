package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/core/domain"
	"github.com/SscSPs/agency_books/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// resolveRate picks the currency and ROE of a posting. The functional currency always converts at 1;
// an explicit ROE wins over the configured default.
func resolveRate(settings domain.Settings, currencyCode string, explicit *decimal.Decimal) (string, decimal.Decimal, error) {
	functional := settings.FunctionalCurrency
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if code == "" || code == functional {
		return functional, decimal.NewFromInt(1), nil
	}
	if explicit != nil {
		if !explicit.IsPositive() {
			return "", decimal.Zero, fmt.Errorf("%w: rate of exchange for %s must be positive", apperrors.ErrValidation, code)
		}
		return code, *explicit, nil
	}
	rate, ok := settings.DefaultRates[code]
	if !ok || !rate.Rate.IsPositive() {
		return "", decimal.Zero, fmt.Errorf("%w: no rate of exchange given and no default configured for %s", apperrors.ErrValidation, code)
	}
	return code, rate.Rate, nil
}

// usable reports whether an inactive account or party may still be posted to:
// only when the voucher being replaced already references it.
func usable(active bool, id string, replacing *domain.Voucher) bool {
	return active || (replacing != nil && replacing.References(id))
}

// buildVoucher checks every posting precondition against snap and returns an unnumbered voucher
// whose entries are converted into the functional currency. Nothing is mutated.
func buildVoucher(snap *domain.Snapshot, shape domain.VoucherShape, lines []domain.EntryLine, replacing *domain.Voucher) (domain.Voucher, error) {
	if !shape.VoucherType.IsValid() {
		return domain.Voucher{}, fmt.Errorf("%w: unknown voucher type %q", apperrors.ErrValidation, shape.VoucherType)
	}
	if shape.VoucherDate.IsZero() {
		return domain.Voucher{}, fmt.Errorf("%w: voucher date is required", apperrors.ErrValidation)
	}
	if len(lines) < 2 {
		return domain.Voucher{}, fmt.Errorf("%w: a voucher needs at least two lines, got %d", apperrors.ErrValidation, len(lines))
	}

	currency, roe, err := resolveRate(snap.Settings, shape.CurrencyCode, shape.ROE)
	if err != nil {
		return domain.Voucher{}, err
	}

	entries := make([]domain.VoucherEntry, 0, len(lines))
	nativeDebit, nativeCredit := decimal.Zero, decimal.Zero
	for i, l := range lines {
		n := i + 1
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return domain.Voucher{}, fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrValidation, n)
		}
		if l.Debit.IsZero() == l.Credit.IsZero() {
			return domain.Voucher{}, fmt.Errorf("%w: line %d must carry exactly one of debit or credit", apperrors.ErrValidation, n)
		}

		account, ok := snap.FindAccount(l.AccountID)
		if !ok {
			return domain.Voucher{}, fmt.Errorf("%w: line %d references unknown account %q", apperrors.ErrValidation, n, l.AccountID)
		}
		if !usable(account.IsActive, account.AccountID, replacing) {
			return domain.Voucher{}, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, account.Code)
		}
		if l.PartyID != "" {
			party, ok := snap.FindParty(l.PartyID)
			if !ok {
				return domain.Voucher{}, fmt.Errorf("%w: line %d references unknown party %q", apperrors.ErrValidation, n, l.PartyID)
			}
			if !usable(party.IsActive, party.PartyID, replacing) {
				return domain.Voucher{}, fmt.Errorf("%w: party %s is inactive", apperrors.ErrValidation, party.Code)
			}
		}

		entry := domain.VoucherEntry{
			EntryID:   uuid.NewString(),
			AccountID: l.AccountID,
			PartyID:   l.PartyID,
			Debit:     accounting.ToFunctional(l.Debit, roe),
			Credit:    accounting.ToFunctional(l.Credit, roe),
			Narration: l.Narration,
		}
		if entry.Debit.IsZero() && entry.Credit.IsZero() {
			return domain.Voucher{}, fmt.Errorf("%w: line %d rounds to zero in %s", apperrors.ErrValidation, n, snap.Settings.FunctionalCurrency)
		}
		entries = append(entries, entry)
		nativeDebit = nativeDebit.Add(l.Debit)
		nativeCredit = nativeCredit.Add(l.Credit)
	}

	// Balance is judged on the native totals. Per-line rounding is then absorbed so the
	// stored entries balance exactly.
	if !accounting.WithinTolerance(accounting.ToFunctional(nativeDebit, roe), accounting.ToFunctional(nativeCredit, roe)) {
		return domain.Voucher{}, fmt.Errorf("%w: voucher does not balance: debits sum is %s and credits sum is %s %s",
			apperrors.ErrValidation, nativeDebit.String(), nativeCredit.String(), currency)
	}
	accounting.AbsorbRounding(entries)
	if err := accounting.ValidateVoucherBalance(entries); err != nil {
		return domain.Voucher{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	debit, _ := accounting.SumEntries(entries)

	return domain.Voucher{
		VoucherType:  shape.VoucherType,
		VoucherDate:  domain.DateOnly(shape.VoucherDate),
		Description:  shape.Description,
		TotalAmount:  debit,
		NativeAmount: nativeDebit,
		CurrencyCode: currency,
		ROE:          roe,
		Status:       domain.Posted,
		Entries:      entries,
	}, nil
}

func attachEntries(v *domain.Voucher) {
	for i := range v.Entries {
		v.Entries[i].VoucherID = v.VoucherID
	}
}

// allocateVoucherNumber reserves the next number for the voucher type.
func (s *LedgerState) allocateVoucherNumber(ctx context.Context, draft *domain.Snapshot, t domain.VoucherType) (string, error) {
	n, err := s.nextNumber(ctx, draft, domain.VoucherSequence(t))
	if err != nil {
		return "", err
	}
	number := domain.FormatCode(t.Prefix(), n)
	if draft.HasVoucherNumber(number) {
		return "", fmt.Errorf("%w: voucher number %s is already taken", apperrors.ErrDuplicate, number)
	}
	return number, nil
}

// postInto validates, numbers and appends a new voucher to draft.
func (s *LedgerState) postInto(ctx context.Context, draft *domain.Snapshot, shape domain.VoucherShape, lines []domain.EntryLine, actor string) (domain.Voucher, error) {
	v, err := buildVoucher(draft, shape, lines, nil)
	if err != nil {
		return domain.Voucher{}, err
	}
	number, err := s.allocateVoucherNumber(ctx, draft, v.VoucherType)
	if err != nil {
		return domain.Voucher{}, err
	}

	v.VoucherID = uuid.NewString()
	v.VoucherNumber = number
	v.AuditFields = domain.NewAuditFields(actor, s.now().UTC())
	attachEntries(&v)

	draft.Vouchers = append(draft.Vouchers, v)
	return v.Clone(), nil
}

// replaceIn swaps the whole entry set of the voucher at idx. Identity, number, status,
// reversal links and posting position are kept.
func (s *LedgerState) replaceIn(draft *domain.Snapshot, idx int, shape domain.VoucherShape, lines []domain.EntryLine, actor string) (domain.Voucher, error) {
	existing := draft.Vouchers[idx]
	if shape.VoucherType != existing.VoucherType {
		return domain.Voucher{}, fmt.Errorf("%w: voucher %s is %s and cannot become %s", apperrors.ErrValidation, existing.VoucherNumber, existing.VoucherType, shape.VoucherType)
	}
	v, err := buildVoucher(draft, shape, lines, &existing)
	if err != nil {
		return domain.Voucher{}, err
	}

	v.VoucherID = existing.VoucherID
	v.VoucherNumber = existing.VoucherNumber
	v.Status = existing.Status
	v.OriginalVoucherID = existing.OriginalVoucherID
	v.ReversingVoucherID = existing.ReversingVoucherID
	v.AuditFields = existing.AuditFields
	v.Touch(actor, s.now().UTC())
	attachEntries(&v)

	draft.Vouchers[idx] = v
	return v.Clone(), nil
}

// reverseIn posts the mirror image of the voucher at idx, dated today, and links the pair.
func (s *LedgerState) reverseIn(ctx context.Context, draft *domain.Snapshot, idx int, actor string) (domain.Voucher, error) {
	original := draft.Vouchers[idx]
	if original.Status != domain.Posted {
		return domain.Voucher{}, fmt.Errorf("%w: voucher %s status is %s, expected %s", apperrors.ErrConflict, original.VoucherNumber, original.Status, domain.Posted)
	}
	if original.IsReversal() {
		return domain.Voucher{}, fmt.Errorf("%w: voucher %s is itself a reversal", apperrors.ErrConflict, original.VoucherNumber)
	}

	number, err := s.allocateVoucherNumber(ctx, draft, original.VoucherType)
	if err != nil {
		return domain.Voucher{}, err
	}
	now := s.now().UTC()
	originalID := original.VoucherID

	reversal := domain.Voucher{
		VoucherID:         uuid.NewString(),
		VoucherNumber:     number,
		VoucherDate:       domain.DateOnly(now),
		VoucherType:       original.VoucherType,
		Description:       fmt.Sprintf("Reversal of %s: %s", original.VoucherNumber, original.Description),
		TotalAmount:       original.TotalAmount,
		NativeAmount:      original.NativeAmount,
		CurrencyCode:      original.CurrencyCode,
		ROE:               original.ROE,
		Status:            domain.Posted,
		OriginalVoucherID: &originalID,
		Entries:           make([]domain.VoucherEntry, len(original.Entries)),
		AuditFields:       domain.NewAuditFields(actor, now),
	}
	for i, e := range original.Entries {
		reversal.Entries[i] = domain.VoucherEntry{
			EntryID:   uuid.NewString(),
			AccountID: e.AccountID,
			PartyID:   e.PartyID,
			Debit:     e.Credit,
			Credit:    e.Debit,
			Narration: e.Narration,
		}
	}
	attachEntries(&reversal)

	reversalID := reversal.VoucherID
	original.Status = domain.Reversed
	original.ReversingVoucherID = &reversalID
	original.Touch(actor, now)

	draft.Vouchers[idx] = original
	draft.Vouchers = append(draft.Vouchers, reversal)
	return reversal.Clone(), nil
}
