package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/core/domain"
	"github.com/spf13/cobra"
)

var historyLimit int

// syncCmd groups the remote store operations.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize the ledger with the remote PostgreSQL store",
	Long: `Push the local ledger to the remote store, pull remote records into it,
and inspect the recorded sync runs.

Example:
  agency-books sync push
  agency-books sync history --limit 5`,
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upsert every local record into the remote store",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		app := openApp(ctx, true)
		run, err := app.Services.Sync.Push(ctx)
		closeApp(app)
		exitOnError(err, "push failed")
		exitOnError(render(cmd.OutOrStdout(), run, printRun), "failed to print run")
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Merge remote records into the local ledger",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		app := openApp(ctx, true)
		run, err := app.Services.Sync.Pull(ctx)
		if err == nil {
			err = app.Services.State.Flush(ctx)
		}
		closeApp(app)
		exitOnError(err, "pull failed")
		exitOnError(render(cmd.OutOrStdout(), run, printRun), "failed to print run")
	},
}

var syncHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent sync runs, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		app := openApp(ctx, false)
		runs, err := app.Services.Sync.History(ctx, historyLimit)
		closeApp(app)
		exitOnError(err, "failed to list sync runs")
		exitOnError(render(cmd.OutOrStdout(), runs, printRuns), "failed to print runs")
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last successful push and pull",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		app := openApp(ctx, false)
		defer closeApp(app)

		history := app.Repos.SyncHistory
		if history == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Sync history is disabled (SYNC_HISTORY_DB is empty)")
			return
		}

		status := map[domain.SyncDirection]*domain.SyncRun{}
		for _, direction := range []domain.SyncDirection{domain.SyncPush, domain.SyncPull} {
			run, err := history.LastSuccessfulRun(ctx, direction)
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			exitOnError(err, "failed to read sync history")
			status[direction] = run
		}
		exitOnError(render(cmd.OutOrStdout(), status, printStatus), "failed to print status")
	},
}

func init() {
	syncHistoryCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of runs to show (max 100)")
	syncCmd.AddCommand(syncPushCmd, syncPullCmd, syncHistoryCmd, syncStatusCmd)
}

func printRun(w io.Writer, r *domain.SyncRun) error {
	_, err := fmt.Fprintf(w, "%s %s: %d records in %d attempt(s), %s\n", r.Direction, r.Status, r.RecordCount, r.Attempts,
		r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	return err
}

func printRuns(w io.Writer, runs []domain.SyncRun) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No sync runs recorded")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "Run\tDirection\tStatus\tAttempts\tRecords\tStarted\tError\t")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\t%s\t\n", r.RunID, r.Direction, r.Status, r.Attempts, r.RecordCount,
			r.StartedAt.Format(time.RFC3339), r.Error)
	}
	return tw.Flush()
}

func printStatus(w io.Writer, status map[domain.SyncDirection]*domain.SyncRun) error {
	for _, direction := range []domain.SyncDirection{domain.SyncPush, domain.SyncPull} {
		run := status[direction]
		if run == nil {
			fmt.Fprintf(w, "Last %-5s (never)\n", direction)
			continue
		}
		fmt.Fprintf(w, "Last %-5s %s, %d records\n", direction, run.FinishedAt.Format(time.RFC3339), run.RecordCount)
	}
	return nil
}
