package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/SscSPs/agency_books/internal/core/domain"
	"github.com/spf13/cobra"
)

var (
	asOfFlag string
	fromFlag string
	toFlag   string
	kindFlag string
)

// reportCmd groups the financial reports.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print financial reports",
	Long: `Print financial reports computed from posted vouchers.

Example:
  agency-books report trial-balance --as-of 2026-06-30
  agency-books report pnl --from 2026-01-01 --to 2026-06-30
  agency-books report aging vendors`,
}

var trialBalanceCmd = &cobra.Command{
	Use:     "trial-balance",
	Aliases: []string{"tb"},
	Short:   "Net balance of every account as of a date",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		asOf, err := dateFlag(asOfFlag, today())
		exitOnError(err, "invalid --as-of")

		ctx := cmd.Context()
		app := openApp(ctx, false)
		defer closeApp(app)

		report, err := app.Services.Reporting.TrialBalance(ctx, asOf)
		exitOnError(err, "failed to build trial balance")
		exitOnError(render(cmd.OutOrStdout(), report, printTrialBalance), "failed to print report")
	},
}

var profitAndLossCmd = &cobra.Command{
	Use:     "profit-and-loss",
	Aliases: []string{"pnl"},
	Short:   "Revenue and expenses over a period",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		from, to := periodFlags()

		ctx := cmd.Context()
		app := openApp(ctx, false)
		defer closeApp(app)

		report, err := app.Services.Reporting.ProfitAndLoss(ctx, from, to)
		exitOnError(err, "failed to build profit and loss")
		exitOnError(render(cmd.OutOrStdout(), report, printProfitAndLoss), "failed to print report")
	},
}

var balanceSheetCmd = &cobra.Command{
	Use:     "balance-sheet",
	Aliases: []string{"bs"},
	Short:   "Assets, liabilities and equity as of a date",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		asOf, err := dateFlag(asOfFlag, today())
		exitOnError(err, "invalid --as-of")

		ctx := cmd.Context()
		app := openApp(ctx, false)
		defer closeApp(app)

		report, err := app.Services.Reporting.BalanceSheet(ctx, asOf)
		exitOnError(err, "failed to build balance sheet")
		exitOnError(render(cmd.OutOrStdout(), report, printBalanceSheet), "failed to print report")
	},
}

var agingCmd = &cobra.Command{
	Use:       "aging customers|vendors",
	Short:     "Outstanding party balances by age",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"customers", "vendors"},
	Run: func(cmd *cobra.Command, args []string) {
		kind, err := agingKind(args[0])
		exitOnError(err, "invalid aging kind")
		asOf, err := dateFlag(asOfFlag, today())
		exitOnError(err, "invalid --as-of")

		ctx := cmd.Context()
		app := openApp(ctx, false)
		defer closeApp(app)

		report, err := app.Services.Reporting.Aging(ctx, kind, asOf)
		exitOnError(err, "failed to build aging report")
		exitOnError(render(cmd.OutOrStdout(), report, printAging), "failed to print report")
	},
}

var cashFlowCmd = &cobra.Command{
	Use:     "cash-flow",
	Aliases: []string{"cashflow"},
	Short:   "Movement of cash and bank accounts over a period",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		from, to := periodFlags()

		ctx := cmd.Context()
		app := openApp(ctx, false)
		defer closeApp(app)

		report, err := app.Services.Reporting.CashFlow(ctx, from, to)
		exitOnError(err, "failed to build cash flow")
		exitOnError(render(cmd.OutOrStdout(), report, printCashFlow), "failed to print report")
	},
}

// ledgerCmd prints the statement of one account or party.
var ledgerCmd = &cobra.Command{
	Use:   "ledger <account-or-party-id>",
	Short: "Print the running ledger of an account, customer or vendor",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		kind := domain.LedgerKind(strings.ToUpper(kindFlag))
		var from, to *time.Time
		if fromFlag != "" {
			t, err := dateFlag(fromFlag, time.Time{})
			exitOnError(err, "invalid --from")
			from = &t
		}
		if toFlag != "" {
			t, err := dateFlag(toFlag, time.Time{})
			exitOnError(err, "invalid --to")
			to = &t
		}

		ctx := cmd.Context()
		app := openApp(ctx, false)
		defer closeApp(app)

		statement, err := app.Services.Ledger.Statement(ctx, args[0], kind, from, to)
		exitOnError(err, "failed to build ledger")
		exitOnError(render(cmd.OutOrStdout(), statement, printStatement), "failed to print ledger")
	},
}

func init() {
	for _, c := range []*cobra.Command{trialBalanceCmd, balanceSheetCmd, agingCmd} {
		c.Flags().StringVar(&asOfFlag, "as-of", "", "report date, YYYY-MM-DD (default today)")
	}
	for _, c := range []*cobra.Command{profitAndLossCmd, cashFlowCmd} {
		c.Flags().StringVar(&fromFlag, "from", "", "period start, YYYY-MM-DD (default first of the month)")
		c.Flags().StringVar(&toFlag, "to", "", "period end, YYYY-MM-DD (default today)")
	}
	ledgerCmd.Flags().StringVar(&kindFlag, "kind", string(domain.AccountLedger), "ACCOUNT, CUSTOMER or VENDOR")
	ledgerCmd.Flags().StringVar(&fromFlag, "from", "", "window start, YYYY-MM-DD")
	ledgerCmd.Flags().StringVar(&toFlag, "to", "", "window end, YYYY-MM-DD")

	reportCmd.AddCommand(trialBalanceCmd, profitAndLossCmd, balanceSheetCmd, agingCmd, cashFlowCmd)
}

func periodFlags() (time.Time, time.Time) {
	now := today()
	from, err := dateFlag(fromFlag, time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC))
	exitOnError(err, "invalid --from")
	to, err := dateFlag(toFlag, now)
	exitOnError(err, "invalid --to")
	return from, to
}

func agingKind(arg string) (domain.PartyKind, error) {
	switch strings.ToLower(arg) {
	case "customers", "receivable":
		return domain.Customer, nil
	case "vendors", "payable":
		return domain.Vendor, nil
	}
	return "", fmt.Errorf("%q is not customers or vendors", arg)
}

// render prints v as JSON when --json is set, otherwise as a table.
func render[T any](w io.Writer, v T, table func(io.Writer, T) error) error {
	if jsonOutput {
		return writeJSON(w, v)
	}
	return table(w, v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
}

func printTrialBalance(w io.Writer, r *domain.TrialBalanceReport) error {
	fmt.Fprintf(w, "Trial balance as of %s\n\n", r.AsOf.Format(dateLayout))
	tw := newTable(w)
	fmt.Fprintln(tw, "Code\tAccount\tDebit\tCredit\t")
	for _, row := range r.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", row.AccountCode, row.AccountName, row.Debit.StringFixed(2), row.Credit.StringFixed(2))
	}
	fmt.Fprintf(tw, "\tTotal\t%s\t%s\t\n", r.TotalDebit.StringFixed(2), r.TotalCredit.StringFixed(2))
	if err := tw.Flush(); err != nil {
		return err
	}
	if !r.Balanced {
		fmt.Fprintf(w, "\nOUT OF BALANCE by %s\n", r.Difference.StringFixed(2))
	}
	return nil
}

func printAmounts(tw *tabwriter.Writer, title string, rows []domain.AccountAmount) {
	fmt.Fprintf(tw, "%s\t\t\t\n", title)
	for _, row := range rows {
		fmt.Fprintf(tw, "\t%s\t%s\t\n", row.Name, row.NetAmount.StringFixed(2))
	}
}

func printProfitAndLoss(w io.Writer, r *domain.PAndLReport) error {
	fmt.Fprintf(w, "Profit and loss from %s to %s\n\n", r.FromDate.Format(dateLayout), r.ToDate.Format(dateLayout))
	tw := newTable(w)
	printAmounts(tw, "Revenue", r.Revenue)
	fmt.Fprintf(tw, "\tTotal revenue\t%s\t\n", r.TotalRevenue.StringFixed(2))
	printAmounts(tw, "Expenses", r.Expenses)
	fmt.Fprintf(tw, "\tTotal expenses\t%s\t\n", r.TotalExpenses.StringFixed(2))
	fmt.Fprintf(tw, "Net profit\t\t%s\t\n", r.NetProfit.StringFixed(2))
	return tw.Flush()
}

func printBalanceSheet(w io.Writer, r *domain.BalanceSheetReport) error {
	fmt.Fprintf(w, "Balance sheet as of %s\n\n", r.AsOf.Format(dateLayout))
	tw := newTable(w)
	printAmounts(tw, "Assets", r.Assets)
	fmt.Fprintf(tw, "\tTotal assets\t%s\t\n", r.TotalAssets.StringFixed(2))
	printAmounts(tw, "Liabilities", r.Liabilities)
	fmt.Fprintf(tw, "\tTotal liabilities\t%s\t\n", r.TotalLiabilities.StringFixed(2))
	printAmounts(tw, "Equity", r.Equity)
	fmt.Fprintf(tw, "\tRetained earnings\t%s\t\n", r.RetainedEarnings.StringFixed(2))
	fmt.Fprintf(tw, "\tTotal equity\t%s\t\n", r.TotalEquity.StringFixed(2))
	if err := tw.Flush(); err != nil {
		return err
	}
	if !r.Balanced {
		fmt.Fprintf(w, "\nWarning: assets differ from liabilities and equity by %s\n", r.Difference.StringFixed(2))
	}
	return nil
}

func printAging(w io.Writer, r *domain.AgingReport) error {
	fmt.Fprintf(w, "%s aging as of %s\n\n", r.PartyKind, r.AsOf.Format(dateLayout))
	tw := newTable(w)
	fmt.Fprintln(tw, "Code\tParty\t0-30\t31-60\t61-90\t90+\tTotal\t")
	for _, row := range r.Rows {
		b := row.Buckets
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", row.PartyCode, row.PartyName,
			b.Current.StringFixed(2), b.Days31To60.StringFixed(2), b.Days61To90.StringFixed(2), b.Over90Days.StringFixed(2),
			row.Total.StringFixed(2))
	}
	t := r.Totals
	fmt.Fprintf(tw, "\tTotal\t%s\t%s\t%s\t%s\t%s\t\n",
		t.Current.StringFixed(2), t.Days31To60.StringFixed(2), t.Days61To90.StringFixed(2), t.Over90Days.StringFixed(2),
		r.Total.StringFixed(2))
	return tw.Flush()
}

func printCashFlow(w io.Writer, r *domain.CashFlowReport) error {
	fmt.Fprintf(w, "Cash flow from %s to %s\n\n", r.FromDate.Format(dateLayout), r.ToDate.Format(dateLayout))
	tw := newTable(w)
	fmt.Fprintln(tw, "Account\tOpening\tInflow\tOutflow\tClosing\t")
	for _, row := range r.Accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", row.AccountName, row.OpeningBalance.StringFixed(2),
			row.Inflow.StringFixed(2), row.Outflow.StringFixed(2), row.ClosingBalance.StringFixed(2))
	}
	fmt.Fprintf(tw, "Total\t%s\t%s\t%s\t%s\t\n", r.OpeningCash.StringFixed(2),
		r.TotalInflow.StringFixed(2), r.TotalOutflow.StringFixed(2), r.ClosingCash.StringFixed(2))
	return tw.Flush()
}

func printStatement(w io.Writer, s *domain.LedgerStatement) error {
	fmt.Fprintf(w, "%s ledger: %s\n\n", s.Kind, s.SubjectName)
	tw := newTable(w)
	fmt.Fprintln(tw, "Date\tVoucher\tDescription\tDebit\tCredit\tBalance\t")
	fmt.Fprintf(tw, "\t\tOpening balance\t\t\t%s\t\n", s.OpeningBalance.StringFixed(2))
	for _, line := range s.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n", line.Date.Format(dateLayout), line.VoucherNumber, line.Description,
			line.Debit.StringFixed(2), line.Credit.StringFixed(2), line.RunningBalance.StringFixed(2))
	}
	fmt.Fprintf(tw, "\t\tClosing balance\t%s\t%s\t%s\t\n", s.TotalDebit.StringFixed(2), s.TotalCredit.StringFixed(2),
		s.ClosingBalance.StringFixed(2))
	return tw.Flush()
}
