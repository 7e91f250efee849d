package models

// Booking is a row of the remote bookings table. The variant fields are stored as JSON.
type Booking struct {
	BookingID string `db:"booking_id"`
	Kind      string `db:"kind"`
	VoucherID string `db:"voucher_id"`
	Details   []byte `db:"details"` // JSONB
	AuditFields
}
