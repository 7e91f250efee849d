package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/SscSPs/agency_books/internal/core/domain"
	"github.com/spf13/cobra"
)

// verifyCmd runs the integrity check and exits non-zero when the books do not balance.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that the books balance",
	Long: `Check that total debits equal total credits and that every posted voucher balances.

Exits with status 2 when a problem is found.

Example:
  agency-books verify --as-of 2026-06-30`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		asOf, err := dateFlag(verifyAsOf, today())
		exitOnError(err, "invalid --as-of")

		ctx := cmd.Context()
		app := openApp(ctx, false)
		report, err := app.Services.Integrity.Verify(ctx, asOf)
		closeApp(app)
		exitOnError(err, "failed to verify ledger")
		exitOnError(render(cmd.OutOrStdout(), report, printIntegrity), "failed to print report")

		if !report.Sound() {
			os.Exit(2)
		}
	},
}

var verifyAsOf string

func init() {
	verifyCmd.Flags().StringVar(&verifyAsOf, "as-of", "", "check date, YYYY-MM-DD (default today)")
}

func printIntegrity(w io.Writer, r *domain.IntegrityReport) error {
	fmt.Fprintf(w, "Integrity as of %s\n", r.AsOf.Format(dateLayout))
	fmt.Fprintf(w, "Total debit:  %s\n", r.TotalDebit.StringFixed(2))
	fmt.Fprintf(w, "Total credit: %s\n", r.TotalCredit.StringFixed(2))
	if r.Sound() {
		fmt.Fprintln(w, "Books are balanced")
		return nil
	}
	if !r.Balanced {
		fmt.Fprintf(w, "Difference:   %s\n", r.Difference.StringFixed(2))
	}
	for _, v := range r.UnbalancedVouchers {
		fmt.Fprintf(w, "Unbalanced voucher %s: debit %s credit %s\n", v.VoucherNumber, v.TotalDebit.StringFixed(2), v.TotalCredit.StringFixed(2))
	}
	return nil
}
