package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/agency_books/internal/core/domain"
	"github.com/SscSPs/agency_books/internal/models"
)

// ToModelBooking stores the populated booking variant as JSON.
func ToModelBooking(d domain.Booking) (models.Booking, error) {
	details, err := d.Details()
	if err != nil {
		return models.Booking{}, err
	}
	data, err := json.Marshal(details)
	if err != nil {
		return models.Booking{}, fmt.Errorf("failed to marshal booking %s details: %w", d.BookingID, err)
	}
	return models.Booking{
		BookingID:   d.BookingID,
		Kind:        string(d.Kind),
		VoucherID:   d.VoucherID,
		Details:     data,
		AuditFields: auditToModel(d.AuditFields),
	}, nil
}

// ToDomainBooking decodes the JSON details into the variant named by Kind.
func ToDomainBooking(m models.Booking) (domain.Booking, error) {
	var details domain.BookingDetails
	switch domain.BookingKind(m.Kind) {
	case domain.BookingHotel:
		details = &domain.HotelDetails{}
	case domain.BookingTicket:
		details = &domain.TicketDetails{}
	case domain.BookingVisa:
		details = &domain.VisaDetails{}
	case domain.BookingTransport:
		details = &domain.TransportDetails{}
	case domain.BookingReceipt:
		details = &domain.ReceiptDetails{}
	default:
		return domain.Booking{}, fmt.Errorf("booking %s has unknown kind %q", m.BookingID, m.Kind)
	}
	if err := json.Unmarshal(m.Details, details); err != nil {
		return domain.Booking{}, fmt.Errorf("failed to decode booking %s details: %w", m.BookingID, err)
	}

	d := domain.Booking{
		BookingID:   m.BookingID,
		VoucherID:   m.VoucherID,
		AuditFields: auditToDomain(m.AuditFields),
	}
	if err := d.SetDetails(details); err != nil {
		return domain.Booking{}, err
	}
	return d, nil
}
