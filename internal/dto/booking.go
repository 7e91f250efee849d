package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/core/domain"
)

// BookingRequest carries one booking variant. Kind selects which field must be set.
type BookingRequest struct {
	Kind      domain.BookingKind       `json:"kind" binding:"required,oneof=HOTEL TICKET VISA TRANSPORT RECEIPT"`
	Hotel     *domain.HotelDetails     `json:"hotel"`
	Ticket    *domain.TicketDetails    `json:"ticket"`
	Visa      *domain.VisaDetails      `json:"visa"`
	Transport *domain.TransportDetails `json:"transport"`
	Receipt   *domain.ReceiptDetails   `json:"receipt"`
}

// ToDetails returns the variant selected by Kind.
func (r BookingRequest) ToDetails() (domain.BookingDetails, error) {
	var d domain.BookingDetails
	switch r.Kind {
	case domain.BookingHotel:
		if r.Hotel != nil {
			d = r.Hotel
		}
	case domain.BookingTicket:
		if r.Ticket != nil {
			d = r.Ticket
		}
	case domain.BookingVisa:
		if r.Visa != nil {
			d = r.Visa
		}
	case domain.BookingTransport:
		if r.Transport != nil {
			d = r.Transport
		}
	case domain.BookingReceipt:
		if r.Receipt != nil {
			d = r.Receipt
		}
	}
	if d == nil {
		return nil, fmt.Errorf("%w: %s booking requires its %q details", apperrors.ErrValidation, r.Kind, string(r.Kind))
	}
	return d, nil
}

// ListBookingsParams defines query parameters for listing bookings.
type ListBookingsParams struct {
	Kind domain.BookingKind `form:"kind" binding:"omitempty,oneof=HOTEL TICKET VISA TRANSPORT RECEIPT"`
}

// BookingResponse pairs a booking with the voucher it owns.
type BookingResponse struct {
	BookingID string             `json:"bookingID"`
	Kind      domain.BookingKind `json:"kind"`
	VoucherID string             `json:"voucherID"`
	Details   any                `json:"details"`
	Voucher   *VoucherResponse   `json:"voucher,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	CreatedBy string             `json:"createdBy"`
}

// ToBookingResponse converts a booking and, when given, its voucher.
func ToBookingResponse(b *domain.Booking, v *domain.Voucher) BookingResponse {
	res := BookingResponse{
		BookingID: b.BookingID,
		Kind:      b.Kind,
		VoucherID: b.VoucherID,
		CreatedAt: b.CreatedAt,
		CreatedBy: b.CreatedBy,
	}
	if d, err := b.Details(); err == nil {
		res.Details = d
	}
	if v != nil {
		vr := ToVoucherResponse(v)
		res.Voucher = &vr
	}
	return res
}
