package bootstrap

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/agency_books/internal/core/ports/services"
)

// Schedule holds the maintenance intervals. A zero interval disables that job.
type Schedule struct {
	Flush          time.Duration
	IntegrityCheck time.Duration
	Push           time.Duration
}

// RunMaintenance retries failed snapshot saves, pushes committed changes to the remote store
// and verifies ledger integrity on fixed intervals until ctx is cancelled.
func RunMaintenance(ctx context.Context, state portssvc.StateService, syncer portssvc.SyncService, integrity portssvc.IntegrityService, every Schedule) {
	flushC, stopFlush := tick(every.Flush)
	defer stopFlush()
	checkC, stopCheck := tick(every.IntegrityCheck)
	defer stopCheck()
	pushC, stopPush := tick(every.Push)
	defer stopPush()

	for {
		select {
		case <-ctx.Done():
			return
		case <-flushC:
			if !state.Dirty() {
				continue
			}
			if err := state.Flush(ctx); err != nil {
				slog.Error("Background flush failed", slog.String("error", err.Error()))
			} else {
				slog.Info("Background flush saved pending changes")
			}
		case <-pushC:
			// A failed push stays pending and is retried whole on the next tick.
			run, err := syncer.PushPending(ctx)
			if err != nil {
				slog.Warn("Background push failed, will retry", slog.String("error", err.Error()))
				continue
			}
			if run != nil {
				slog.Info("Background push sent pending changes", slog.Int("records", run.RecordCount))
			}
		case <-checkC:
			report, err := integrity.Verify(ctx, time.Now().UTC())
			if err != nil {
				slog.Error("Scheduled integrity check failed", slog.String("error", err.Error()))
				continue
			}
			slog.Debug("Scheduled integrity check finished", slog.Bool("sound", report.Sound()))
		}
	}
}

// tick returns a nil channel, which never fires, for a non-positive interval.
func tick(every time.Duration) (<-chan time.Time, func()) {
	if every <= 0 {
		return nil, func() {}
	}
	t := time.NewTicker(every)
	return t.C, t.Stop
}
