package services

import (
	portsrepo "github.com/SscSPs/agency_books/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/agency_books/internal/core/ports/services"
	"github.com/SscSPs/agency_books/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// Every service shares the one ledger state.
func NewServiceContainer(cfg *config.Config, state *LedgerState, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(state)
	container.Party = NewPartyService(state)
	container.Posting = NewPostingService(state)
	container.Booking = NewBookingService(state, NewValidationHelper())
	container.ExchangeRate = NewExchangeRateService(state)

	container.Ledger = NewLedgerService(state)
	container.Reporting = NewReportingService(state)
	container.Integrity = NewIntegrityService(state)

	container.Transfer = NewTransferService(state)
	container.Sync = NewSyncService(state, repos.RemoteLedger,
		WithSyncHistory(repos.SyncHistory),
		WithSyncRetry(cfg.SyncMaxAttempts, cfg.SyncRetryDelay),
	)
	container.State = state

	return container
}
