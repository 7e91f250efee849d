package domain

import (
	"sort"
	"time"
)

// SyncDirection is the direction of a remote synchronization run.
type SyncDirection string

const (
	SyncPush SyncDirection = "PUSH"
	SyncPull SyncDirection = "PULL"
)

// SyncStatus is the outcome of a synchronization run.
type SyncStatus string

const (
	SyncSucceeded SyncStatus = "SUCCEEDED"
	SyncFailed    SyncStatus = "FAILED"
)

// SyncBatch is the whole-collection payload exchanged with the remote store.
type SyncBatch struct {
	Accounts []Account `json:"accounts"`
	Parties  []Party   `json:"parties"`
	Vouchers []Voucher `json:"vouchers"`
	Bookings []Booking `json:"bookings"`
	// Deleted lists ids removed locally. The remote store drops them on push.
	Deleted []string `json:"deleted,omitempty"`
}

// BatchFromSnapshot copies the entity collections and deletion marks of s into a batch.
func BatchFromSnapshot(s *Snapshot) SyncBatch {
	c := s.Clone()
	b := SyncBatch{Accounts: c.Accounts, Parties: c.Parties, Vouchers: c.Vouchers, Bookings: c.Bookings}
	for id := range c.Deleted {
		b.Deleted = append(b.Deleted, id)
	}
	sort.Strings(b.Deleted)
	return b
}

// Size returns the number of records in the batch.
func (b SyncBatch) Size() int {
	return len(b.Accounts) + len(b.Parties) + len(b.Vouchers) + len(b.Bookings)
}

// SyncRun records one push or pull attempt series.
type SyncRun struct {
	RunID       int64         `json:"runID"`
	Direction   SyncDirection `json:"direction"`
	Status      SyncStatus    `json:"status"`
	Attempts    int           `json:"attempts"`
	RecordCount int           `json:"recordCount"`
	Error       string        `json:"error,omitempty"`
	StartedAt   time.Time     `json:"startedAt"`
	FinishedAt  time.Time     `json:"finishedAt"`
}
