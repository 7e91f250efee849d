package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SnapshotVersion is the document version written by exports and the local store.
const SnapshotVersion = 1

// Snapshot is the complete ledger dataset. Vouchers are kept in posting order.
// A snapshot handed out to readers must be treated as immutable.
type Snapshot struct {
	Version   int              `json:"version"`
	Accounts  []Account        `json:"accounts"`
	Parties   []Party          `json:"parties"`
	Vouchers  []Voucher        `json:"vouchers"`
	Bookings  []Booking        `json:"bookings"`
	Settings  Settings         `json:"settings"`
	Sequences map[string]int64 `json:"sequences"`
	// Deleted remembers when each removed account, party, voucher or booking id was deleted,
	// so a pull never brings it back.
	Deleted map[string]time.Time `json:"deleted,omitempty"`
	SavedAt time.Time            `json:"savedAt"`
}

// NewSnapshot returns an empty snapshot for the given functional currency.
func NewSnapshot(functionalCurrency string) *Snapshot {
	return &Snapshot{
		Version:   SnapshotVersion,
		Accounts:  []Account{},
		Parties:   []Party{},
		Vouchers:  []Voucher{},
		Bookings:  []Booking{},
		Settings:  Settings{FunctionalCurrency: functionalCurrency, DefaultRates: map[string]ExchangeRate{}},
		Sequences: map[string]int64{},
	}
}

// Clone returns a deep copy that can be mutated without affecting s.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		Version:   s.Version,
		Accounts:  append([]Account(nil), s.Accounts...),
		Parties:   append([]Party(nil), s.Parties...),
		Vouchers:  make([]Voucher, len(s.Vouchers)),
		Bookings:  make([]Booking, len(s.Bookings)),
		Settings:  s.Settings.Clone(),
		Sequences: make(map[string]int64, len(s.Sequences)),
		SavedAt:   s.SavedAt,
	}
	for i, v := range s.Vouchers {
		c.Vouchers[i] = v.Clone()
	}
	for i, b := range s.Bookings {
		c.Bookings[i] = b.Clone()
	}
	for k, v := range s.Sequences {
		c.Sequences[k] = v
	}
	if s.Deleted != nil {
		c.Deleted = make(map[string]time.Time, len(s.Deleted))
		for id, at := range s.Deleted {
			c.Deleted[id] = at
		}
	}
	return c
}

// MarkDeleted records that id was removed at the given time.
func (s *Snapshot) MarkDeleted(id string, at time.Time) {
	if s.Deleted == nil {
		s.Deleted = map[string]time.Time{}
	}
	s.Deleted[id] = at
}

// WasDeleted reports whether id was removed from this ledger.
func (s *Snapshot) WasDeleted(id string) bool {
	_, ok := s.Deleted[id]
	return ok
}

// Sequence keys.
const (
	AccountSequence = "account"
)

// VoucherSequence is the counter key for a voucher type.
func VoucherSequence(t VoucherType) string {
	return "voucher:" + t.Prefix()
}

// PartySequence is the counter key for a party kind.
func PartySequence(k PartyKind) string {
	return "party:" + string(k)
}

// NextSequence increments and returns the counter for key.
func (s *Snapshot) NextSequence(key string) int64 {
	if s.Sequences == nil {
		s.Sequences = map[string]int64{}
	}
	s.Sequences[key]++
	return s.Sequences[key]
}

// ObserveSequence raises the counter for key to at least n. It never lowers a counter.
func (s *Snapshot) ObserveSequence(key string, n int64) {
	if s.Sequences == nil {
		s.Sequences = map[string]int64{}
	}
	if n > s.Sequences[key] {
		s.Sequences[key] = n
	}
}

// FormatCode renders a sequential code such as HV-0001.
func FormatCode(prefix string, n int64) string {
	return fmt.Sprintf("%s-%04d", prefix, n)
}

// ParseCode extracts the numeric suffix of a code produced by FormatCode.
func ParseCode(prefix, code string) (int64, bool) {
	rest, ok := strings.CutPrefix(code, prefix+"-")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// ReconcileSequences raises every counter to at least the highest code already present.
// Used after loading or importing data that may predate the stored counters.
func (s *Snapshot) ReconcileSequences() {
	for _, a := range s.Accounts {
		if n, ok := ParseCode(AccountCodePrefix, a.Code); ok {
			s.ObserveSequence(AccountSequence, n)
		}
	}
	for _, p := range s.Parties {
		if n, ok := ParseCode(p.Kind.CodePrefix(), p.Code); ok {
			s.ObserveSequence(PartySequence(p.Kind), n)
		}
	}
	for _, v := range s.Vouchers {
		if n, ok := ParseCode(v.VoucherType.Prefix(), v.VoucherNumber); ok {
			s.ObserveSequence(VoucherSequence(v.VoucherType), n)
		}
	}
}

// AccountCodePrefix prefixes account codes.
const AccountCodePrefix = "AC"

// AccountIndex returns the slice index of the account, or -1.
func (s *Snapshot) AccountIndex(id string) int {
	for i := range s.Accounts {
		if s.Accounts[i].AccountID == id {
			return i
		}
	}
	return -1
}

// FindAccount returns the account with the given id.
func (s *Snapshot) FindAccount(id string) (Account, bool) {
	if i := s.AccountIndex(id); i >= 0 {
		return s.Accounts[i], true
	}
	return Account{}, false
}

// PartyIndex returns the slice index of the party, or -1.
func (s *Snapshot) PartyIndex(id string) int {
	for i := range s.Parties {
		if s.Parties[i].PartyID == id {
			return i
		}
	}
	return -1
}

// FindParty returns the party with the given id.
func (s *Snapshot) FindParty(id string) (Party, bool) {
	if i := s.PartyIndex(id); i >= 0 {
		return s.Parties[i], true
	}
	return Party{}, false
}

// VoucherIndex returns the slice index of the voucher, or -1.
func (s *Snapshot) VoucherIndex(id string) int {
	for i := range s.Vouchers {
		if s.Vouchers[i].VoucherID == id {
			return i
		}
	}
	return -1
}

// FindVoucher returns the voucher with the given id.
func (s *Snapshot) FindVoucher(id string) (Voucher, bool) {
	if i := s.VoucherIndex(id); i >= 0 {
		return s.Vouchers[i], true
	}
	return Voucher{}, false
}

// HasVoucherNumber reports whether a voucher with the given number exists.
func (s *Snapshot) HasVoucherNumber(number string) bool {
	for i := range s.Vouchers {
		if s.Vouchers[i].VoucherNumber == number {
			return true
		}
	}
	return false
}

// BookingIndex returns the slice index of the booking, or -1.
func (s *Snapshot) BookingIndex(id string) int {
	for i := range s.Bookings {
		if s.Bookings[i].BookingID == id {
			return i
		}
	}
	return -1
}

// BookingForVoucher returns the booking owning the voucher, if any.
func (s *Snapshot) BookingForVoucher(voucherID string) (Booking, bool) {
	for _, b := range s.Bookings {
		if b.VoucherID == voucherID {
			return b, true
		}
	}
	return Booking{}, false
}

// IsReferenced reports whether any voucher entry, booking or control setting points at id.
func (s *Snapshot) IsReferenced(id string) bool {
	if s.Settings.Controls.References(id) {
		return true
	}
	for _, v := range s.Vouchers {
		if v.References(id) {
			return true
		}
	}
	for _, b := range s.Bookings {
		if bookingReferences(b, id) {
			return true
		}
	}
	return false
}

func bookingReferences(b Booking, id string) bool {
	switch {
	case b.Hotel != nil:
		return b.Hotel.CustomerID == id || b.Hotel.VendorID == id
	case b.Ticket != nil:
		return b.Ticket.CustomerID == id || b.Ticket.VendorID == id
	case b.Visa != nil:
		return b.Visa.CustomerID == id || b.Visa.VendorID == id
	case b.Transport != nil:
		return b.Transport.CustomerID == id
	case b.Receipt != nil:
		return b.Receipt.PartyID == id || b.Receipt.DepositAccountID == id
	}
	return false
}
