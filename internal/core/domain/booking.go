package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/agency_books/internal/apperrors"
)

// BookingKind tags the variant held by a Booking.
type BookingKind string

const (
	BookingHotel     BookingKind = "HOTEL"
	BookingTicket    BookingKind = "TICKET"
	BookingVisa      BookingKind = "VISA"
	BookingTransport BookingKind = "TRANSPORT"
	BookingReceipt   BookingKind = "RECEIPT"
)

// ReceiptSource says who paid the agency.
type ReceiptSource string

const (
	FromCustomer ReceiptSource = "CUSTOMER"
	FromVendor   ReceiptSource = "VENDOR"
	FromOther    ReceiptSource = "OTHER"
)

// BookingDetails is implemented by every booking variant. Each variant knows its voucher type
// and how to derive balanced entry lines from its own fields.
type BookingDetails interface {
	Kind() BookingKind
	VoucherType() VoucherType
	Validate() error
	Shape() VoucherShape
	Derive(controls ControlAccounts) ([]EntryLine, error)
}

// Booking is a domain record owning exactly one voucher. It carries narrative data only;
// balances always come from the voucher's entries.
type Booking struct {
	BookingID string            `json:"bookingID"`
	Kind      BookingKind       `json:"kind"`
	VoucherID string            `json:"voucherID"`
	Hotel     *HotelDetails     `json:"hotel,omitempty"`
	Ticket    *TicketDetails    `json:"ticket,omitempty"`
	Visa      *VisaDetails      `json:"visa,omitempty"`
	Transport *TransportDetails `json:"transport,omitempty"`
	Receipt   *ReceiptDetails   `json:"receipt,omitempty"`
	AuditFields
}

// SetDetails stores d in the matching variant slot and clears the others.
func (b *Booking) SetDetails(d BookingDetails) error {
	b.Hotel, b.Ticket, b.Visa, b.Transport, b.Receipt = nil, nil, nil, nil, nil
	switch v := d.(type) {
	case *HotelDetails:
		b.Hotel = v
	case *TicketDetails:
		b.Ticket = v
	case *VisaDetails:
		b.Visa = v
	case *TransportDetails:
		b.Transport = v
	case *ReceiptDetails:
		b.Receipt = v
	default:
		return fmt.Errorf("%w: unsupported booking details %T", apperrors.ErrValidation, d)
	}
	b.Kind = d.Kind()
	return nil
}

// Details returns the populated variant.
func (b Booking) Details() (BookingDetails, error) {
	switch {
	case b.Kind == BookingHotel && b.Hotel != nil:
		return b.Hotel, nil
	case b.Kind == BookingTicket && b.Ticket != nil:
		return b.Ticket, nil
	case b.Kind == BookingVisa && b.Visa != nil:
		return b.Visa, nil
	case b.Kind == BookingTransport && b.Transport != nil:
		return b.Transport, nil
	case b.Kind == BookingReceipt && b.Receipt != nil:
		return b.Receipt, nil
	}
	return nil, fmt.Errorf("%w: booking %s has no %s details", apperrors.ErrValidation, b.BookingID, b.Kind)
}

// Clone returns a deep copy of the booking.
func (b Booking) Clone() Booking {
	c := b
	if b.Hotel != nil {
		h := *b.Hotel
		c.Hotel = &h
	}
	if b.Ticket != nil {
		t := *b.Ticket
		c.Ticket = &t
	}
	if b.Visa != nil {
		v := *b.Visa
		c.Visa = &v
	}
	if b.Transport != nil {
		t := *b.Transport
		c.Transport = &t
	}
	if b.Receipt != nil {
		r := *b.Receipt
		c.Receipt = &r
	}
	return c
}

// Pricing is the currency part shared by every booking.
type Pricing struct {
	Date         time.Time        `json:"date" validate:"required"`
	CurrencyCode string           `json:"currencyCode" validate:"omitempty,len=3"`
	ROE          *decimal.Decimal `json:"roe,omitempty"`
}

func (p Pricing) shape(t VoucherType, description string) VoucherShape {
	return VoucherShape{
		VoucherType:  t,
		VoucherDate:  p.Date,
		Description:  description,
		CurrencyCode: p.CurrencyCode,
		ROE:          p.ROE,
	}
}

// MarginSale is a three-party sale: the customer is billed the sale amount, the vendor is owed
// the cost, and the difference is the agency's income.
type MarginSale struct {
	Pricing
	CustomerID string          `json:"customerID" validate:"required"`
	VendorID   string          `json:"vendorID" validate:"required"`
	SaleAmount decimal.Decimal `json:"saleAmount"`
	CostAmount decimal.Decimal `json:"costAmount"`
}

func (m MarginSale) validate() error {
	if m.SaleAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: sale amount must be positive", apperrors.ErrValidation)
	}
	if m.CostAmount.IsNegative() {
		return fmt.Errorf("%w: cost amount cannot be negative", apperrors.ErrValidation)
	}
	return nil
}

// derive returns Dr Receivable(sale), Cr Payable(cost), and the margin on Income.
// A negative margin is debited to Income; zero legs are omitted.
func (m MarginSale) derive(c ControlAccounts, narration string) ([]EntryLine, error) {
	if c.ReceivableAccountID == "" || c.PayableAccountID == "" || c.IncomeAccountID == "" {
		return nil, fmt.Errorf("%w: receivable, payable and income control accounts are required", apperrors.ErrValidation)
	}
	lines := []EntryLine{DebitLine(c.ReceivableAccountID, m.CustomerID, m.SaleAmount, narration)}
	if m.CostAmount.IsPositive() {
		lines = append(lines, CreditLine(c.PayableAccountID, m.VendorID, m.CostAmount, narration))
	}
	margin := m.SaleAmount.Sub(m.CostAmount)
	switch {
	case margin.IsPositive():
		lines = append(lines, CreditLine(c.IncomeAccountID, "", margin, narration))
	case margin.IsNegative():
		lines = append(lines, DebitLine(c.IncomeAccountID, "", margin.Neg(), narration))
	}
	return lines, nil
}

// HotelDetails is a hotel reservation sold to a customer.
type HotelDetails struct {
	MarginSale
	HotelName string    `json:"hotelName" validate:"required"`
	City      string    `json:"city"`
	GuestName string    `json:"guestName"`
	CheckIn   time.Time `json:"checkIn"`
	CheckOut  time.Time `json:"checkOut"`
	Rooms     int       `json:"rooms" validate:"gte=0"`
}

func (h *HotelDetails) Kind() BookingKind        { return BookingHotel }
func (h *HotelDetails) VoucherType() VoucherType { return HotelVoucher }

func (h *HotelDetails) Validate() error {
	if err := h.MarginSale.validate(); err != nil {
		return err
	}
	if !h.CheckIn.IsZero() && !h.CheckOut.IsZero() && h.CheckOut.Before(h.CheckIn) {
		return fmt.Errorf("%w: check-out is before check-in", apperrors.ErrValidation)
	}
	return nil
}

func (h *HotelDetails) Shape() VoucherShape {
	return h.shape(HotelVoucher, fmt.Sprintf("Hotel: %s %s", h.HotelName, h.GuestName))
}

func (h *HotelDetails) Derive(c ControlAccounts) ([]EntryLine, error) {
	return h.derive(c, "Hotel "+h.HotelName)
}

// TicketDetails is an air ticket sold to a customer.
type TicketDetails struct {
	MarginSale
	Airline       string    `json:"airline" validate:"required"`
	PassengerName string    `json:"passengerName" validate:"required"`
	PNR           string    `json:"pnr"`
	Sector        string    `json:"sector"`
	TravelDate    time.Time `json:"travelDate"`
}

func (t *TicketDetails) Kind() BookingKind        { return BookingTicket }
func (t *TicketDetails) VoucherType() VoucherType { return TicketVoucher }
func (t *TicketDetails) Validate() error          { return t.MarginSale.validate() }

func (t *TicketDetails) Shape() VoucherShape {
	return t.shape(TicketVoucher, fmt.Sprintf("Ticket: %s %s %s", t.Airline, t.Sector, t.PassengerName))
}

func (t *TicketDetails) Derive(c ControlAccounts) ([]EntryLine, error) {
	return t.derive(c, "Ticket "+t.PNR)
}

// VisaDetails is a visa application processed for a customer.
type VisaDetails struct {
	MarginSale
	Country        string `json:"country" validate:"required"`
	ApplicantName  string `json:"applicantName" validate:"required"`
	PassportNumber string `json:"passportNumber"`
	VisaCategory   string `json:"visaCategory"`
}

func (v *VisaDetails) Kind() BookingKind        { return BookingVisa }
func (v *VisaDetails) VoucherType() VoucherType { return VisaVoucher }
func (v *VisaDetails) Validate() error          { return v.MarginSale.validate() }

func (v *VisaDetails) Shape() VoucherShape {
	return v.shape(VisaVoucher, fmt.Sprintf("Visa: %s %s", v.Country, v.ApplicantName))
}

func (v *VisaDetails) Derive(c ControlAccounts) ([]EntryLine, error) {
	return v.derive(c, "Visa "+v.Country)
}

// TransportDetails is a transport service billed to a customer, without a cost leg.
type TransportDetails struct {
	Pricing
	CustomerID  string          `json:"customerID" validate:"required"`
	Route       string          `json:"route"`
	VehicleType string          `json:"vehicleType"`
	Amount      decimal.Decimal `json:"amount"`
}

func (t *TransportDetails) Kind() BookingKind        { return BookingTransport }
func (t *TransportDetails) VoucherType() VoucherType { return TransportVoucher }

func (t *TransportDetails) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: billed amount must be positive", apperrors.ErrValidation)
	}
	return nil
}

func (t *TransportDetails) Shape() VoucherShape {
	return t.shape(TransportVoucher, fmt.Sprintf("Transport: %s %s", t.Route, t.VehicleType))
}

func (t *TransportDetails) Derive(c ControlAccounts) ([]EntryLine, error) {
	if c.ReceivableAccountID == "" || c.IncomeAccountID == "" {
		return nil, fmt.Errorf("%w: receivable and income control accounts are required", apperrors.ErrValidation)
	}
	narration := "Transport " + t.Route
	return []EntryLine{
		DebitLine(c.ReceivableAccountID, t.CustomerID, t.Amount, narration),
		CreditLine(c.IncomeAccountID, "", t.Amount, narration),
	}, nil
}

// ReceiptDetails is money received into a cash or bank account.
type ReceiptDetails struct {
	Pricing
	Source           ReceiptSource   `json:"source" validate:"required,oneof=CUSTOMER VENDOR OTHER"`
	PartyID          string          `json:"partyID" validate:"required_unless=Source OTHER"`
	DepositAccountID string          `json:"depositAccountID" validate:"required"`
	Amount           decimal.Decimal `json:"amount"`
	Reference        string          `json:"reference"`
	Description      string          `json:"description"`
}

func (r *ReceiptDetails) Kind() BookingKind        { return BookingReceipt }
func (r *ReceiptDetails) VoucherType() VoucherType { return ReceiptVoucher }

func (r *ReceiptDetails) Validate() error {
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: received amount must be positive", apperrors.ErrValidation)
	}
	if r.Source != FromOther && r.PartyID == "" {
		return fmt.Errorf("%w: a %s receipt needs a party", apperrors.ErrValidation, r.Source)
	}
	return nil
}

func (r *ReceiptDetails) Shape() VoucherShape {
	description := r.Description
	if description == "" {
		description = fmt.Sprintf("Receipt %s", r.Reference)
	}
	return r.shape(ReceiptVoucher, description)
}

// Derive debits the deposit account and credits the control account matching the source.
func (r *ReceiptDetails) Derive(c ControlAccounts) ([]EntryLine, error) {
	var credit EntryLine
	switch r.Source {
	case FromCustomer:
		credit = CreditLine(c.ReceivableAccountID, r.PartyID, r.Amount, r.Reference)
	case FromVendor:
		credit = CreditLine(c.PayableAccountID, r.PartyID, r.Amount, r.Reference)
	case FromOther:
		credit = CreditLine(c.IncomeAccountID, "", r.Amount, r.Reference)
	default:
		return nil, fmt.Errorf("%w: unknown receipt source %q", apperrors.ErrValidation, r.Source)
	}
	if credit.AccountID == "" {
		return nil, fmt.Errorf("%w: no control account configured for %s receipts", apperrors.ErrValidation, r.Source)
	}
	return []EntryLine{
		DebitLine(r.DepositAccountID, "", r.Amount, r.Reference),
		credit,
	}, nil
}
