package pgsql

import (
	portsrepo "github.com/SscSPs/agency_books/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRemoteLedger returns the PostgreSQL-backed remote store used by push and pull.
// It is nil-safe at the call site: without a pool there is no remote store.
func NewRemoteLedger(dbPool *pgxpool.Pool) portsrepo.RemoteLedgerFacade {
	if dbPool == nil {
		return nil
	}
	return newPgxSyncRepository(dbPool)
}
