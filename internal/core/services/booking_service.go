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
	"github.com/google/uuid"
)

// bookingService implements the BookingSvcFacade interface
type bookingService struct {
	BaseService
	state     *LedgerState
	validator *ValidationHelper
}

// NewBookingService creates the service turning bookings into vouchers.
func NewBookingService(state *LedgerState, validator *ValidationHelper) portssvc.BookingSvcFacade {
	if validator == nil {
		validator = NewValidationHelper()
	}
	return &bookingService{state: state, validator: validator}
}

var _ portssvc.BookingSvcFacade = (*bookingService)(nil)

func (s *bookingService) validate(details domain.BookingDetails) error {
	if details == nil {
		return fmt.Errorf("%w: booking details are required", apperrors.ErrValidation)
	}
	if err := s.validator.ValidateStruct(details); err != nil {
		return err
	}
	return details.Validate()
}

func requirePartyKind(snap *domain.Snapshot, id string, kind domain.PartyKind) error {
	p, ok := snap.FindParty(id)
	if !ok {
		return fmt.Errorf("%w: party %s does not exist", apperrors.ErrValidation, id)
	}
	if p.Kind != kind {
		return fmt.Errorf("%w: party %s is a %s, expected a %s", apperrors.ErrValidation, p.Code, p.Kind, kind)
	}
	return nil
}

// checkCounterparties makes sure every party and account named by the booking plays the right role.
func checkCounterparties(snap *domain.Snapshot, details domain.BookingDetails) error {
	var sale *domain.MarginSale
	switch d := details.(type) {
	case *domain.HotelDetails:
		sale = &d.MarginSale
	case *domain.TicketDetails:
		sale = &d.MarginSale
	case *domain.VisaDetails:
		sale = &d.MarginSale
	case *domain.TransportDetails:
		return requirePartyKind(snap, d.CustomerID, domain.Customer)
	case *domain.ReceiptDetails:
		account, ok := snap.FindAccount(d.DepositAccountID)
		if !ok {
			return fmt.Errorf("%w: deposit account %s does not exist", apperrors.ErrValidation, d.DepositAccountID)
		}
		if !account.AccountType.IsCashLike() {
			return fmt.Errorf("%w: receipts are deposited into cash or bank accounts, %s is %s", apperrors.ErrValidation, account.Code, account.AccountType)
		}
		switch d.Source {
		case domain.FromCustomer:
			return requirePartyKind(snap, d.PartyID, domain.Customer)
		case domain.FromVendor:
			return requirePartyKind(snap, d.PartyID, domain.Vendor)
		}
		return nil
	}
	if err := requirePartyKind(snap, sale.CustomerID, domain.Customer); err != nil {
		return err
	}
	return requirePartyKind(snap, sale.VendorID, domain.Vendor)
}

// deriveLines produces the voucher shape and balanced lines of a booking against the draft's controls.
func deriveLines(draft *domain.Snapshot, details domain.BookingDetails) (domain.VoucherShape, []domain.EntryLine, error) {
	if err := checkCounterparties(draft, details); err != nil {
		return domain.VoucherShape{}, nil, err
	}
	lines, err := details.Derive(resolveControls(draft))
	if err != nil {
		return domain.VoucherShape{}, nil, err
	}
	return details.Shape(), lines, nil
}

func (s *bookingService) logFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrConflict) {
		s.LogDebug(ctx, msg, append(keyvals, slog.String("reason", err.Error()))...)
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}

func (s *bookingService) CreateBooking(ctx context.Context, details domain.BookingDetails, actor string) (*domain.Booking, error) {
	if err := s.validate(details); err != nil {
		return nil, err
	}

	var (
		booking domain.Booking
		voucher domain.Voucher
	)
	_, err := s.state.Commit(ctx, func(draft *domain.Snapshot) error {
		shape, lines, err := deriveLines(draft, details)
		if err != nil {
			return err
		}
		voucher, err = s.state.postInto(ctx, draft, shape, lines, actor)
		if err != nil {
			return err
		}
		booking = domain.Booking{
			BookingID:   uuid.NewString(),
			VoucherID:   voucher.VoucherID,
			AuditFields: domain.NewAuditFields(actor, s.state.Now().UTC()),
		}
		if err := booking.SetDetails(details); err != nil {
			return err
		}
		booking = booking.Clone()
		draft.Bookings = append(draft.Bookings, booking)
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create booking", slog.String("kind", string(details.Kind())))
		return nil, err
	}

	s.state.Publish(ctx, domain.EventVoucherPosted, voucher.VoucherID, voucher.VoucherNumber, voucher)
	s.LogInfo(ctx, "Booking created successfully",
		slog.String("booking_id", booking.BookingID),
		slog.String("kind", string(booking.Kind)),
		slog.String("voucher_number", voucher.VoucherNumber))
	return &booking, nil
}

// UpdateBooking stores new details and regenerates the whole entry set of the owned voucher.
func (s *bookingService) UpdateBooking(ctx context.Context, bookingID string, details domain.BookingDetails, actor string) (*domain.Booking, error) {
	if err := s.validate(details); err != nil {
		return nil, err
	}

	var (
		booking domain.Booking
		voucher domain.Voucher
	)
	_, err := s.state.Commit(ctx, func(draft *domain.Snapshot) error {
		bIdx := draft.BookingIndex(bookingID)
		if bIdx < 0 {
			return fmt.Errorf("%w: booking %s", apperrors.ErrNotFound, bookingID)
		}
		existing := draft.Bookings[bIdx]
		if existing.Kind != details.Kind() {
			return fmt.Errorf("%w: booking %s is %s and cannot become %s", apperrors.ErrValidation, bookingID, existing.Kind, details.Kind())
		}
		vIdx := draft.VoucherIndex(existing.VoucherID)
		if vIdx < 0 {
			return fmt.Errorf("%w: voucher %s of booking %s is missing", apperrors.ErrCorruption, existing.VoucherID, bookingID)
		}
		if draft.Vouchers[vIdx].Status == domain.Reversed {
			return fmt.Errorf("%w: the voucher of booking %s has been reversed", apperrors.ErrConflict, bookingID)
		}

		shape, lines, err := deriveLines(draft, details)
		if err != nil {
			return err
		}
		voucher, err = s.state.replaceIn(draft, vIdx, shape, lines, actor)
		if err != nil {
			return err
		}
		if err := existing.SetDetails(details); err != nil {
			return err
		}
		existing.Touch(actor, s.state.Now().UTC())
		booking = existing.Clone()
		draft.Bookings[bIdx] = booking
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to update booking", slog.String("booking_id", bookingID))
		return nil, err
	}

	s.state.Publish(ctx, domain.EventVoucherReplaced, voucher.VoucherID, voucher.VoucherNumber, voucher)
	s.LogInfo(ctx, "Booking updated successfully",
		slog.String("booking_id", bookingID),
		slog.String("voucher_number", voucher.VoucherNumber))
	return &booking, nil
}

// DeleteBooking removes a receipt and its voucher together. Other kinds are corrected by reversal.
func (s *bookingService) DeleteBooking(ctx context.Context, bookingID string, actor string) error {
	var removed domain.Voucher
	_, err := s.state.Commit(ctx, func(draft *domain.Snapshot) error {
		bIdx := draft.BookingIndex(bookingID)
		if bIdx < 0 {
			return fmt.Errorf("%w: booking %s", apperrors.ErrNotFound, bookingID)
		}
		b := draft.Bookings[bIdx]
		if b.Kind != domain.BookingReceipt {
			return fmt.Errorf("%w: only receipts can be deleted; reverse the %s voucher instead", apperrors.ErrConflict, b.Kind)
		}
		vIdx := draft.VoucherIndex(b.VoucherID)
		if vIdx >= 0 {
			removed = draft.Vouchers[vIdx]
			if removed.Status == domain.Reversed {
				return fmt.Errorf("%w: receipt %s has been reversed and is kept for audit", apperrors.ErrConflict, removed.VoucherNumber)
			}
			draft.Vouchers = append(draft.Vouchers[:vIdx], draft.Vouchers[vIdx+1:]...)
		}
		draft.Bookings = append(draft.Bookings[:bIdx], draft.Bookings[bIdx+1:]...)
		deletedAt := s.state.Now().UTC()
		draft.MarkDeleted(b.BookingID, deletedAt)
		draft.MarkDeleted(b.VoucherID, deletedAt)
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to delete booking", slog.String("booking_id", bookingID))
		return err
	}

	s.state.Publish(ctx, domain.EventVoucherDeleted, removed.VoucherID, removed.VoucherNumber, nil)
	s.LogInfo(ctx, "Booking deleted successfully",
		slog.String("booking_id", bookingID),
		slog.String("voucher_number", removed.VoucherNumber),
		slog.String("actor", actor))
	return nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	snap := s.state.View()
	idx := snap.BookingIndex(bookingID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: booking %s", apperrors.ErrNotFound, bookingID)
	}
	b := snap.Bookings[idx].Clone()
	return &b, nil
}

func (s *bookingService) ListBookings(ctx context.Context, params dto.ListBookingsParams) ([]domain.Booking, error) {
	snap := s.state.View()
	bookings := make([]domain.Booking, 0, len(snap.Bookings))
	for _, b := range snap.Bookings {
		if params.Kind != "" && b.Kind != params.Kind {
			continue
		}
		bookings = append(bookings, b.Clone())
	}
	sort.SliceStable(bookings, func(i, j int) bool { return bookings[i].CreatedAt.After(bookings[j].CreatedAt) })
	return bookings, nil
}
