package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
// Only SnapshotStore is required; the others may be nil when not configured.
type RepositoryProvider struct {
	SnapshotStore SnapshotStoreFacade
	RemoteLedger  RemoteLedgerFacade
	SyncHistory   SyncHistoryRepository
	Sequences     SequenceAllocator
	Events        EventPublisher
}
