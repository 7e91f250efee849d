package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/core/domain"
	portssvc "github.com/SscSPs/agency_books/internal/core/ports/services"
)

// integrityService implements the IntegrityService interface
type integrityService struct {
	BaseService
	state *LedgerState
}

// NewIntegrityService creates the ledger integrity verifier.
func NewIntegrityService(state *LedgerState) portssvc.IntegrityService {
	return &integrityService{state: state}
}

var _ portssvc.IntegrityService = (*integrityService)(nil)

// unbalancedVouchers lists every voucher whose own lines do not balance.
func unbalancedVouchers(snap *domain.Snapshot) []domain.UnbalancedVoucher {
	found := []domain.UnbalancedVoucher{}
	for _, v := range snap.Vouchers {
		debit, credit := v.Totals()
		if debit.Equal(credit) {
			continue
		}
		found = append(found, domain.UnbalancedVoucher{
			VoucherID:     v.VoucherID,
			VoucherNumber: v.VoucherNumber,
			TotalDebit:    debit,
			TotalCredit:   credit,
			Difference:    debit.Sub(credit),
		})
	}
	return found
}

// Verify checks the trial balance as of asOf and scans every voucher for imbalance.
// Problems are logged and published; the ledger is never modified.
func (s *integrityService) Verify(ctx context.Context, asOf time.Time) (*domain.IntegrityReport, error) {
	snap := s.state.View()
	tb, err := buildTrialBalance(newLedgerIndex(snap), asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to build trial balance for integrity check")
		return nil, err
	}

	report := &domain.IntegrityReport{
		AsOf:               tb.AsOf,
		Balanced:           tb.Balanced,
		TotalDebit:         tb.TotalDebit,
		TotalCredit:        tb.TotalCredit,
		Difference:         tb.Difference,
		UnbalancedVouchers: unbalancedVouchers(snap),
		CheckedAt:          s.state.Now().UTC(),
	}

	if !report.Sound() {
		warning := fmt.Errorf("%w: trial balance off by %s with %d unbalanced vouchers",
			apperrors.ErrCorruption, report.Difference.String(), len(report.UnbalancedVouchers))
		s.LogError(ctx, warning, "Ledger integrity check failed",
			slog.String("asOf", report.AsOf.Format(time.DateOnly)),
			slog.String("total_debit", report.TotalDebit.String()),
			slog.String("total_credit", report.TotalCredit.String()))
		s.state.Publish(ctx, domain.EventCorruptionWarning, "ledger", report.AsOf.Format(time.DateOnly), report)
		return report, nil
	}

	s.LogInfo(ctx, "Ledger integrity check passed",
		slog.String("asOf", report.AsOf.Format(time.DateOnly)),
		slog.Int("vouchers", len(snap.Vouchers)))
	return report, nil
}
