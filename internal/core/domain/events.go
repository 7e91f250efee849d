package domain

import "time"

// EventType names a ledger event published after a successful commit.
type EventType string

const (
	EventVoucherPosted     EventType = "voucher.posted"
	EventVoucherReplaced   EventType = "voucher.replaced"
	EventVoucherReversed   EventType = "voucher.reversed"
	EventVoucherDeleted    EventType = "voucher.deleted"
	EventLedgerImported    EventType = "ledger.imported"
	EventCorruptionWarning EventType = "ledger.corruption_warning"
)

// LedgerEvent is the message published to downstream consumers.
type LedgerEvent struct {
	EventID    string    `json:"eventID"`
	Type       EventType `json:"type"`
	SubjectID  string    `json:"subjectID"`
	Reference  string    `json:"reference,omitempty"` // e.g. the voucher number
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload,omitempty"`
}
