package services

import (
	"context"

	"github.com/SscSPs/agency_books/internal/core/domain"
	"github.com/SscSPs/agency_books/internal/dto"
)

// VoucherReaderSvc defines read operations for voucher data
type VoucherReaderSvc interface {
	// GetVoucherByID retrieves a specific voucher by its ID.
	GetVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)

	// ListVouchers retrieves a page of vouchers, newest first.
	ListVouchers(ctx context.Context, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error)
}

// VoucherWriterSvc defines the posting engine's write operations
type VoucherWriterSvc interface {
	// PostVoucher validates the lines, converts them to the functional currency and commits a new voucher.
	PostVoucher(ctx context.Context, shape domain.VoucherShape, lines []domain.EntryLine, actor string) (*domain.Voucher, error)

	// ReplaceVoucher atomically swaps the whole entry set of a manual voucher.
	ReplaceVoucher(ctx context.Context, voucherID string, shape domain.VoucherShape, lines []domain.EntryLine, actor string) (*domain.Voucher, error)

	// ReverseVoucher posts a mirror voucher and marks the original as reversed.
	ReverseVoucher(ctx context.Context, voucherID string, actor string) (*domain.Voucher, error)
}

// PostingSvcFacade combines all voucher-related service interfaces
// This is a facade for clients that need access to all operations
type PostingSvcFacade interface {
	VoucherReaderSvc
	VoucherWriterSvc
}

// BookingReaderSvc defines read operations for domain bookings
type BookingReaderSvc interface {
	GetBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error)
	ListBookings(ctx context.Context, params dto.ListBookingsParams) ([]domain.Booking, error)
}

// BookingWriterSvc defines write operations for domain bookings. Every write regenerates the owned voucher.
type BookingWriterSvc interface {
	CreateBooking(ctx context.Context, details domain.BookingDetails, actor string) (*domain.Booking, error)
	UpdateBooking(ctx context.Context, bookingID string, details domain.BookingDetails, actor string) (*domain.Booking, error)

	// DeleteBooking removes a receipt together with its voucher.
	DeleteBooking(ctx context.Context, bookingID string, actor string) error
}

// BookingSvcFacade combines all booking-related service interfaces
type BookingSvcFacade interface {
	BookingReaderSvc
	BookingWriterSvc
}
