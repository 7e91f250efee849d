// Package cmd provides CLI commands for agency-books.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/agency_books/internal/platform/bootstrap"
	"github.com/SscSPs/agency_books/internal/platform/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

var (
	cfgFile    string
	debug      bool
	jsonOutput bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "agency-books",
	Short: "Operate the travel agency ledger from the command line",
	Long: `agency-books works directly on the local ledger snapshot used by the API server.

It supports:
- Financial reports and party ledgers
- Integrity verification
- Export and import of the full ledger
- Push and pull against the remote PostgreSQL store

Example:
  agency-books report trial-balance --as-of 2026-06-30
  agency-books verify
  agency-books sync push`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Setup logging
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "env file to load before the environment (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")

	// Add subcommands
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(ledgerCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(syncCmd)
}

// openApp loads configuration and wires the ledger. The remote store is connected only when asked for.
func openApp(ctx context.Context, remote bool) *bootstrap.App {
	if cfgFile != "" {
		exitOnError(godotenv.Load(cfgFile), "failed to load config file")
	}

	cfg, err := config.LoadConfig()
	exitOnError(err, "failed to load configuration")

	slog.Debug("Opening ledger", "backend", cfg.StorageBackend, "path", cfg.SnapshotPath)
	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{Remote: remote})
	if err != nil {
		_ = app.Close()
		exitOnError(err, "failed to open ledger")
	}
	return app
}

func closeApp(app *bootstrap.App) {
	if err := app.Close(); err != nil {
		slog.Error("failed to close ledger", "error", err)
	}
}

// dateFlag parses a YYYY-MM-DD flag value, returning fallback when the flag is empty.
func dateFlag(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", value)
	}
	return t, nil
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
