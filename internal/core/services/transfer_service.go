package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/core/domain"
	portssvc "github.com/SscSPs/agency_books/internal/core/ports/services"
)

// transferService implements the TransferService interface
type transferService struct {
	BaseService
	state *LedgerState
}

// NewTransferService creates the export/import service.
func NewTransferService(state *LedgerState) portssvc.TransferService {
	return &transferService{state: state}
}

var _ portssvc.TransferService = (*transferService)(nil)

// checkSnapshot rejects documents that would leave the ledger inconsistent:
// duplicate ids, unbalanced vouchers and dangling references.
func checkSnapshot(snap *domain.Snapshot) error {
	if snap.Version > domain.SnapshotVersion {
		return fmt.Errorf("%w: snapshot version %d is newer than supported version %d", apperrors.ErrValidation, snap.Version, domain.SnapshotVersion)
	}

	accounts := make(map[string]bool, len(snap.Accounts))
	for _, a := range snap.Accounts {
		if a.AccountID == "" || accounts[a.AccountID] {
			return fmt.Errorf("%w: missing or duplicate account id %q", apperrors.ErrValidation, a.AccountID)
		}
		if !a.AccountType.IsValid() {
			return fmt.Errorf("%w: account %s has unknown type %q", apperrors.ErrValidation, a.Code, a.AccountType)
		}
		accounts[a.AccountID] = true
	}
	parties := make(map[string]bool, len(snap.Parties))
	for _, p := range snap.Parties {
		if p.PartyID == "" || parties[p.PartyID] {
			return fmt.Errorf("%w: missing or duplicate party id %q", apperrors.ErrValidation, p.PartyID)
		}
		if !p.Kind.IsValid() {
			return fmt.Errorf("%w: party %s has unknown kind %q", apperrors.ErrValidation, p.Code, p.Kind)
		}
		parties[p.PartyID] = true
	}

	vouchers := make(map[string]bool, len(snap.Vouchers))
	numbers := make(map[string]bool, len(snap.Vouchers))
	for _, v := range snap.Vouchers {
		if v.VoucherID == "" || vouchers[v.VoucherID] {
			return fmt.Errorf("%w: missing or duplicate voucher id %q", apperrors.ErrValidation, v.VoucherID)
		}
		if numbers[v.VoucherNumber] {
			return fmt.Errorf("%w: duplicate voucher number %s", apperrors.ErrValidation, v.VoucherNumber)
		}
		debit, credit := v.Totals()
		if !debit.Equal(credit) {
			return fmt.Errorf("%w: voucher %s is unbalanced (debit %s, credit %s)", apperrors.ErrValidation, v.VoucherNumber, debit, credit)
		}
		for _, e := range v.Entries {
			if !accounts[e.AccountID] {
				return fmt.Errorf("%w: voucher %s references unknown account %s", apperrors.ErrValidation, v.VoucherNumber, e.AccountID)
			}
			if e.PartyID != "" && !parties[e.PartyID] {
				return fmt.Errorf("%w: voucher %s references unknown party %s", apperrors.ErrValidation, v.VoucherNumber, e.PartyID)
			}
		}
		vouchers[v.VoucherID] = true
		numbers[v.VoucherNumber] = true
	}

	bookings := make(map[string]bool, len(snap.Bookings))
	for _, b := range snap.Bookings {
		if b.BookingID == "" || bookings[b.BookingID] {
			return fmt.Errorf("%w: missing or duplicate booking id %q", apperrors.ErrValidation, b.BookingID)
		}
		if !vouchers[b.VoucherID] {
			return fmt.Errorf("%w: booking %s references unknown voucher %s", apperrors.ErrValidation, b.BookingID, b.VoucherID)
		}
		bookings[b.BookingID] = true
	}
	return nil
}

// Export renders the whole ledger as an indented JSON document.
func (s *transferService) Export(ctx context.Context) ([]byte, error) {
	snap := s.state.View()
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		s.LogError(ctx, err, "Failed to export ledger")
		return nil, fmt.Errorf("failed to export ledger: %w", err)
	}

	s.LogInfo(ctx, "Ledger exported",
		slog.Int("accounts", len(snap.Accounts)),
		slog.Int("vouchers", len(snap.Vouchers)),
		slog.Int("bytes", len(data)))
	return data, nil
}

// Import replaces the whole ledger with the given document once it passes validation.
func (s *transferService) Import(ctx context.Context, data []byte, actor string) error {
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: invalid ledger document: %v", apperrors.ErrValidation, err)
	}
	if err := checkSnapshot(&snap); err != nil {
		s.LogDebug(ctx, "Ledger import rejected", slog.String("reason", err.Error()))
		return err
	}
	if err := s.state.ReplaceAll(ctx, &snap); err != nil {
		s.LogError(ctx, err, "Failed to import ledger")
		return err
	}

	s.state.Publish(ctx, domain.EventLedgerImported, "ledger", actor, nil)
	s.LogInfo(ctx, "Ledger imported",
		slog.String("actor", actor),
		slog.Int("accounts", len(snap.Accounts)),
		slog.Int("vouchers", len(snap.Vouchers)))
	return nil
}
