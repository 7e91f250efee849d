package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/core/domain"
	portssvc "github.com/SscSPs/agency_books/internal/core/ports/services"
	"github.com/SscSPs/agency_books/internal/dto"
	"github.com/SscSPs/agency_books/internal/utils/pagination"
)

const (
	defaultVoucherPageSize = 20
	maxVoucherPageSize     = 200
)

// postingService implements the PostingSvcFacade interface
type postingService struct {
	BaseService
	state *LedgerState
}

// NewPostingService creates the posting engine over the ledger state.
func NewPostingService(state *LedgerState) portssvc.PostingSvcFacade {
	return &postingService{state: state}
}

// Ensure postingService implements the PostingSvcFacade interface
var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// logFailure logs unexpected errors loudly and rejected input quietly.
func (s *postingService) logFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrConflict) {
		s.LogDebug(ctx, msg, append(keyvals, slog.String("reason", err.Error()))...)
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}

func (s *postingService) PostVoucher(ctx context.Context, shape domain.VoucherShape, lines []domain.EntryLine, actor string) (*domain.Voucher, error) {
	if !shape.VoucherType.IsManual() {
		return nil, fmt.Errorf("%w: %s vouchers are posted through bookings", apperrors.ErrValidation, shape.VoucherType)
	}

	var posted domain.Voucher
	_, err := s.state.Commit(ctx, func(draft *domain.Snapshot) error {
		v, err := s.state.postInto(ctx, draft, shape, lines, actor)
		if err != nil {
			return err
		}
		posted = v
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to post voucher", slog.String("voucher_type", string(shape.VoucherType)))
		return nil, err
	}

	s.state.Publish(ctx, domain.EventVoucherPosted, posted.VoucherID, posted.VoucherNumber, posted)
	s.LogInfo(ctx, "Voucher posted successfully",
		slog.String("voucher_id", posted.VoucherID),
		slog.String("voucher_number", posted.VoucherNumber),
		slog.String("total_amount", posted.TotalAmount.String()))
	return &posted, nil
}

// checkEditable rejects replacement of vouchers whose entries are owned elsewhere or frozen.
func checkEditable(draft *domain.Snapshot, v domain.Voucher) error {
	if b, owned := draft.BookingForVoucher(v.VoucherID); owned {
		return fmt.Errorf("%w: voucher %s belongs to %s booking %s; edit the booking instead", apperrors.ErrConflict, v.VoucherNumber, b.Kind, b.BookingID)
	}
	if v.Status == domain.Reversed {
		return fmt.Errorf("%w: voucher %s has been reversed", apperrors.ErrConflict, v.VoucherNumber)
	}
	if v.IsReversal() {
		return fmt.Errorf("%w: voucher %s is a reversal and cannot be edited", apperrors.ErrConflict, v.VoucherNumber)
	}
	return nil
}

func (s *postingService) ReplaceVoucher(ctx context.Context, voucherID string, shape domain.VoucherShape, lines []domain.EntryLine, actor string) (*domain.Voucher, error) {
	var replaced domain.Voucher
	_, err := s.state.Commit(ctx, func(draft *domain.Snapshot) error {
		idx := draft.VoucherIndex(voucherID)
		if idx < 0 {
			return fmt.Errorf("%w: voucher %s", apperrors.ErrNotFound, voucherID)
		}
		if err := checkEditable(draft, draft.Vouchers[idx]); err != nil {
			return err
		}
		v, err := s.state.replaceIn(draft, idx, shape, lines, actor)
		if err != nil {
			return err
		}
		replaced = v
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to replace voucher", slog.String("voucher_id", voucherID))
		return nil, err
	}

	s.state.Publish(ctx, domain.EventVoucherReplaced, replaced.VoucherID, replaced.VoucherNumber, replaced)
	s.LogInfo(ctx, "Voucher replaced successfully",
		slog.String("voucher_id", replaced.VoucherID),
		slog.String("voucher_number", replaced.VoucherNumber))
	return &replaced, nil
}

// ReverseVoucher creates a new voucher that reverses a previously posted voucher.
func (s *postingService) ReverseVoucher(ctx context.Context, voucherID string, actor string) (*domain.Voucher, error) {
	var reversal domain.Voucher
	_, err := s.state.Commit(ctx, func(draft *domain.Snapshot) error {
		idx := draft.VoucherIndex(voucherID)
		if idx < 0 {
			return fmt.Errorf("%w: voucher %s", apperrors.ErrNotFound, voucherID)
		}
		v, err := s.state.reverseIn(ctx, draft, idx, actor)
		if err != nil {
			return err
		}
		reversal = v
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to reverse voucher", slog.String("voucher_id", voucherID))
		return nil, err
	}

	s.state.Publish(ctx, domain.EventVoucherReversed, voucherID, reversal.VoucherNumber, reversal)
	s.LogInfo(ctx, "Voucher reversed successfully",
		slog.String("original_voucher_id", voucherID),
		slog.String("reversing_voucher_id", reversal.VoucherID),
		slog.String("reversing_voucher_number", reversal.VoucherNumber))
	return &reversal, nil
}

func (s *postingService) GetVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	v, ok := s.state.View().FindVoucher(voucherID)
	if !ok {
		return nil, fmt.Errorf("%w: voucher %s", apperrors.ErrNotFound, voucherID)
	}
	c := v.Clone()
	return &c, nil
}

func voucherCursor(v domain.Voucher) pagination.Cursor {
	return pagination.Cursor{Date: v.VoucherDate, CreatedAt: v.CreatedAt, ID: v.VoucherID}
}

// ListVouchers returns vouchers newest first, one page at a time.
func (s *postingService) ListVouchers(ctx context.Context, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultVoucherPageSize
	}
	if limit > maxVoucherPageSize {
		limit = maxVoucherPageSize
	}

	var after *pagination.Cursor
	if params.NextToken != nil && *params.NextToken != "" {
		c, err := pagination.DecodeCursor(*params.NextToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		after = &c
	}

	snap := s.state.View()
	matching := make([]domain.Voucher, 0, len(snap.Vouchers))
	for _, v := range snap.Vouchers {
		if params.VoucherType != "" && v.VoucherType != params.VoucherType {
			continue
		}
		if !params.IncludeReversals && v.IsReversal() {
			continue
		}
		if after != nil && !voucherCursor(v).After(*after) {
			continue
		}
		matching = append(matching, v)
	}
	sort.SliceStable(matching, func(i, j int) bool {
		return voucherCursor(matching[j]).After(voucherCursor(matching[i]))
	})

	res := &dto.ListVouchersResponse{}
	if len(matching) > limit {
		matching = matching[:limit]
		token := pagination.EncodeCursor(voucherCursor(matching[limit-1]))
		res.NextToken = &token
	}
	res.Vouchers = dto.ToVoucherResponses(matching)

	s.LogDebug(ctx, "Vouchers listed", slog.Int("count", len(res.Vouchers)))
	return res, nil
}
