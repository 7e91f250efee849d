package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	exportOut   string
	importActor string
)

// exportCmd writes the full ledger snapshot as JSON.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the full ledger as a JSON document",
	Long: `Write the full ledger, including settings and numbering counters, as a JSON document.

Example:
  agency-books export --out backup.json`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		app := openApp(ctx, false)
		data, err := app.Services.Transfer.Export(ctx)
		closeApp(app)
		exitOnError(err, "failed to export ledger")

		if exportOut == "" {
			_, err = cmd.OutOrStdout().Write(data)
			exitOnError(err, "failed to write export")
			return
		}
		exitOnError(os.WriteFile(exportOut, data, 0o600), "failed to write export")
		slog.Info("Ledger exported", "path", exportOut, "bytes", len(data))
	},
}

// importCmd replaces the ledger with a previously exported document.
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the ledger with an exported JSON document",
	Long: `Validate an exported document and replace the whole ledger with it.
Nothing is changed when the document is invalid.

Example:
  agency-books import backup.json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		exitOnError(err, "failed to read import file")

		ctx := cmd.Context()
		app := openApp(ctx, false)
		err = app.Services.Transfer.Import(ctx, data, importActor)
		if err == nil {
			err = app.Services.State.Flush(ctx)
		}
		closeApp(app)
		exitOnError(err, "failed to import ledger")

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", args[0])
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	importCmd.Flags().StringVar(&importActor, "actor", "cli", "actor recorded on the import event")
}
