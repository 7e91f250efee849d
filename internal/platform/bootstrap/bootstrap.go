// Package bootstrap assembles the ledger, its collaborators and the service container from configuration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	portsrepo "github.com/SscSPs/agency_books/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/agency_books/internal/core/ports/services"
	"github.com/SscSPs/agency_books/internal/core/services"
	"github.com/SscSPs/agency_books/internal/events/kafka"
	"github.com/SscSPs/agency_books/internal/platform/config"
	"github.com/SscSPs/agency_books/internal/repositories/database/pgsql"
	"github.com/SscSPs/agency_books/internal/repositories/database/sqlite"
	"github.com/SscSPs/agency_books/internal/repositories/sequence"
	"github.com/SscSPs/agency_books/internal/repositories/storage/bolt"
	"github.com/SscSPs/agency_books/internal/repositories/storage/memory"
	"github.com/SscSPs/agency_books/internal/seed"
	"github.com/SscSPs/agency_books/pkg/database"
)

// SeedActor is recorded on accounts created from the seed chart.
const SeedActor = "seed"

// App is a fully wired ledger.
type App struct {
	Config   *config.Config
	Services *portssvc.ServiceContainer
	Repos    portsrepo.RepositoryProvider

	closers []func() error
}

// Options select the optional collaborators to connect. The CLI skips the remote store unless it syncs.
type Options struct {
	Remote bool
}

// New opens every configured collaborator, loads the ledger and applies the seed chart.
// Close must be called even when New fails part way; it releases whatever was opened.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	app := &App{Config: cfg}

	store, err := app.openSnapshotStore()
	if err != nil {
		return app, err
	}
	app.Repos.SnapshotStore = store

	if cfg.SyncHistoryDB != "" {
		db, err := sqlite.Open(cfg.SyncHistoryDB)
		if err != nil {
			return app, fmt.Errorf("opening sync history: %w", err)
		}
		app.closers = append(app.closers, db.Close)
		app.Repos.SyncHistory = sqlite.NewSyncHistoryRepository(db)
	}

	if opts.Remote && cfg.DatabaseURL != "" {
		if cfg.RunMigrations {
			if err := database.MigrateUp(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
				return app, err
			}
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return app, err
		}
		app.closers = append(app.closers, func() error { database.ClosePgxPool(pool); return nil })
		app.Repos.RemoteLedger = pgsql.NewRemoteLedger(pool)
	}

	if cfg.RedisAddr != "" {
		rdb, err := database.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return app, err
		}
		app.closers = append(app.closers, rdb.Close)
		app.Repos.Sequences = sequence.NewRedisAllocator(rdb)
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		app.closers = append(app.closers, publisher.Close)
		app.Repos.Events = publisher
	} else {
		app.Repos.Events = kafka.NoopPublisher{}
	}

	var stateOpts []services.StateOption
	if app.Repos.Sequences != nil {
		stateOpts = append(stateOpts, services.WithSequenceAllocator(app.Repos.Sequences))
	}
	stateOpts = append(stateOpts, services.WithEventPublisher(app.Repos.Events))

	state, err := services.NewLedgerState(ctx, store, cfg.FunctionalCurrency, stateOpts...)
	if err != nil {
		return app, fmt.Errorf("loading ledger: %w", err)
	}
	// Flush whatever is still unsaved before the store closes.
	app.closers = append(app.closers, func() error { return state.Flush(context.Background()) })

	app.Services = services.NewServiceContainer(cfg, state, app.Repos)

	if cfg.ChartSeedFile != "" {
		chart, err := seed.LoadChart(cfg.ChartSeedFile)
		if err != nil {
			return app, err
		}
		if _, err := seed.Apply(ctx, chart, app.Services.Account, app.Services.ExchangeRate, SeedActor); err != nil {
			return app, err
		}
	}

	slog.Info("Ledger ready",
		slog.String("storage", cfg.StorageBackend),
		slog.Bool("remote_sync", app.Repos.RemoteLedger != nil),
		slog.Bool("shared_sequences", app.Repos.Sequences != nil),
		slog.Int("kafka_brokers", len(cfg.KafkaBrokers)))
	return app, nil
}

func (a *App) openSnapshotStore() (portsrepo.SnapshotStoreFacade, error) {
	if a.Config.StorageBackend == config.StorageMemory {
		slog.Warn("Using in-memory snapshot store; the ledger is lost on exit")
		return memory.NewSnapshotStore(), nil
	}
	store, err := bolt.NewSnapshotStore(a.Config.SnapshotPath)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot store: %w", err)
	}
	a.closers = append(a.closers, store.Close)
	return store, nil
}

// Close releases collaborators in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

var _ io.Closer = (*App)(nil)
