package repositories

import (
	"context"

	"github.com/SscSPs/agency_books/internal/core/domain"
)

// EventPublisher delivers ledger events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.LedgerEvent) error
	Close() error
}
