package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/core/domain"
	portssvc "github.com/SscSPs/agency_books/internal/core/ports/services"
	"github.com/SscSPs/agency_books/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	state *LedgerState
}

// NewReportingService creates the report generators over the ledger state.
func NewReportingService(state *LedgerState) portssvc.ReportingService {
	return &reportingService{state: state}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func accountsByCode(snap *domain.Snapshot, keep func(domain.Account) bool) []domain.Account {
	accounts := make([]domain.Account, 0, len(snap.Accounts))
	for _, a := range snap.Accounts {
		if keep(a) {
			accounts = append(accounts, a)
		}
	}
	sort.SliceStable(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts
}

func ofType(types ...domain.AccountType) func(domain.Account) bool {
	return func(a domain.Account) bool {
		for _, t := range types {
			if a.AccountType == t {
				return true
			}
		}
		return false
	}
}

func checkWindow(from, to time.Time) error {
	if domain.DateOnly(from).After(domain.DateOnly(to)) {
		return fmt.Errorf("%w: from date %s is after to date %s", apperrors.ErrValidation,
			from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	return nil
}

// buildTrialBalance lists the closing balance of every account as of asOf,
// positive balances as debits and negative ones as credits.
func buildTrialBalance(ix *ledgerIndex, asOf time.Time) (*domain.TrialBalanceReport, error) {
	asOf = domain.DateOnly(asOf)
	report := &domain.TrialBalanceReport{
		AsOf:        asOf,
		Rows:        []domain.TrialBalanceRow{},
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, a := range accountsByCode(ix.snap, func(domain.Account) bool { return true }) {
		st, err := ix.statement(a.AccountID, domain.AccountLedger, nil, &asOf)
		if err != nil {
			return nil, err
		}
		row := domain.TrialBalanceRow{
			AccountID:   a.AccountID,
			AccountCode: a.Code,
			AccountName: a.Title,
			AccountType: a.AccountType,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		if st.ClosingBalance.IsPositive() {
			row.Debit = st.ClosingBalance
		} else {
			row.Credit = st.ClosingBalance.Neg()
		}
		report.TotalDebit = report.TotalDebit.Add(row.Debit)
		report.TotalCredit = report.TotalCredit.Add(row.Credit)
		report.Rows = append(report.Rows, row)
	}
	report.Difference = report.TotalDebit.Sub(report.TotalCredit)
	report.Balanced = report.Difference.IsZero()
	return report, nil
}

// TrialBalance generates a trial balance report as of a specific date
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	report, err := buildTrialBalance(newLedgerIndex(s.state.View()), asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to build trial balance", slog.String("asOf", asOf.Format(time.DateOnly)))
		return nil, err
	}

	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("asOf", report.AsOf.Format(time.DateOnly)),
		slog.Int("row_count", len(report.Rows)),
		slog.Bool("balanced", report.Balanced))
	return report, nil
}

// windowAmounts returns the movement of each account of the given type inside [from, to],
// signed so that the account's normal side is positive.
func windowAmounts(ix *ledgerIndex, t domain.AccountType, from, to *time.Time, creditNormal bool) ([]domain.AccountAmount, decimal.Decimal, error) {
	amounts := []domain.AccountAmount{}
	total := decimal.Zero
	for _, a := range accountsByCode(ix.snap, ofType(t)) {
		st, err := ix.statement(a.AccountID, domain.AccountLedger, from, to)
		if err != nil {
			return nil, decimal.Zero, err
		}
		amount := st.TotalDebit.Sub(st.TotalCredit)
		if creditNormal {
			amount = amount.Neg()
		}
		if amount.IsZero() && !a.IsActive {
			continue
		}
		amounts = append(amounts, domain.AccountAmount{AccountID: a.AccountID, Code: a.Code, Name: a.Title, NetAmount: amount})
		total = total.Add(amount)
	}
	return amounts, total, nil
}

// profitAndLoss computes income minus expenses over a window; nil bounds leave it open.
func profitAndLoss(ix *ledgerIndex, from, to *time.Time) (*domain.PAndLReport, error) {
	revenue, totalRevenue, err := windowAmounts(ix, domain.Income, from, to, true)
	if err != nil {
		return nil, err
	}
	expenses, totalExpenses, err := windowAmounts(ix, domain.Expense, from, to, false)
	if err != nil {
		return nil, err
	}
	report := &domain.PAndLReport{
		Revenue:       revenue,
		Expenses:      expenses,
		TotalRevenue:  totalRevenue,
		TotalExpenses: totalExpenses,
		NetProfit:     totalRevenue.Sub(totalExpenses),
	}
	if from != nil {
		report.FromDate = domain.DateOnly(*from)
	}
	if to != nil {
		report.ToDate = domain.DateOnly(*to)
	}
	return report, nil
}

// ProfitAndLoss generates a profit and loss report for a specific period
func (s *reportingService) ProfitAndLoss(ctx context.Context, from, to time.Time) (*domain.PAndLReport, error) {
	if err := checkWindow(from, to); err != nil {
		return nil, err
	}
	report, err := profitAndLoss(newLedgerIndex(s.state.View()), &from, &to)
	if err != nil {
		s.LogError(ctx, err, "Failed to build profit and loss report")
		return nil, err
	}

	s.LogInfo(ctx, "Profit and loss report generated successfully",
		slog.String("from", report.FromDate.Format(time.DateOnly)),
		slog.String("to", report.ToDate.Format(time.DateOnly)),
		slog.Int("revenue_accounts", len(report.Revenue)),
		slog.Int("expense_accounts", len(report.Expenses)))
	return report, nil
}

// closingAmounts returns the closing balance of each account of the given types as of asOf.
func closingAmounts(ix *ledgerIndex, asOf time.Time, creditNormal bool, types ...domain.AccountType) ([]domain.AccountAmount, decimal.Decimal, error) {
	amounts := []domain.AccountAmount{}
	total := decimal.Zero
	for _, a := range accountsByCode(ix.snap, ofType(types...)) {
		st, err := ix.statement(a.AccountID, domain.AccountLedger, nil, &asOf)
		if err != nil {
			return nil, decimal.Zero, err
		}
		amount := st.ClosingBalance
		if creditNormal {
			amount = amount.Neg()
		}
		if amount.IsZero() && !a.IsActive {
			continue
		}
		amounts = append(amounts, domain.AccountAmount{AccountID: a.AccountID, Code: a.Code, Name: a.Title, NetAmount: amount})
		total = total.Add(amount)
	}
	return amounts, total, nil
}

// BalanceSheet generates a balance sheet report as of a specific date.
// A mismatch between assets and liabilities plus equity is reported, not corrected.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	asOf = domain.DateOnly(asOf)
	ix := newLedgerIndex(s.state.View())

	assets, totalAssets, err := closingAmounts(ix, asOf, false, domain.Cash, domain.Bank, domain.Receivable)
	if err != nil {
		return nil, err
	}
	liabilities, totalLiabilities, err := closingAmounts(ix, asOf, true, domain.Payable)
	if err != nil {
		return nil, err
	}
	equity, totalEquity, err := closingAmounts(ix, asOf, true, domain.Equity)
	if err != nil {
		return nil, err
	}
	earnings, err := profitAndLoss(ix, nil, &asOf)
	if err != nil {
		return nil, err
	}
	totalEquity = totalEquity.Add(earnings.NetProfit)

	report := &domain.BalanceSheetReport{
		AsOf:             asOf,
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           equity,
		RetainedEarnings: earnings.NetProfit,
		TotalAssets:      totalAssets,
		TotalLiabilities: totalLiabilities,
		TotalEquity:      totalEquity,
		Difference:       totalAssets.Sub(totalLiabilities.Add(totalEquity)),
	}
	report.Balanced = report.Difference.IsZero()
	if !report.Balanced {
		s.LogWarn(ctx, "Balance sheet does not balance",
			slog.String("asOf", asOf.Format(time.DateOnly)),
			slog.String("difference", report.Difference.String()))
	}

	s.LogInfo(ctx, "Balance sheet report generated successfully",
		slog.String("asOf", asOf.Format(time.DateOnly)),
		slog.Bool("balanced", report.Balanced))
	return report, nil
}

func daysBetween(from, to time.Time) int {
	return int(domain.DateOnly(to).Sub(domain.DateOnly(from)).Hours() / 24)
}

// bucketFor adds amount to the bucket matching its age in days.
func bucketFor(days int, amount decimal.Decimal) domain.AgingBuckets {
	b := domain.ZeroAgingBuckets()
	switch {
	case days <= 30:
		b.Current = amount
	case days <= 60:
		b.Days31To60 = amount
	case days <= 90:
		b.Days61To90 = amount
	default:
		b.Over90Days = amount
	}
	return b
}

// Aging buckets the signed net effect of every contributing entry of each active party by its age.
// The opening balance ages from the party's opening date; without one it counts as over 90 days.
func (s *reportingService) Aging(ctx context.Context, kind domain.PartyKind, asOf time.Time) (*domain.AgingReport, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown party kind %q", apperrors.ErrValidation, kind)
	}
	asOf = domain.DateOnly(asOf)
	snap := s.state.View()
	ix := newLedgerIndex(snap)
	ledgerKind := kind.LedgerKind()
	net, err := accounting.StrategyFor(ledgerKind)
	if err != nil {
		return nil, err
	}

	parties := make([]domain.Party, 0, len(snap.Parties))
	for _, p := range snap.Parties {
		if p.Kind == kind && p.IsActive {
			parties = append(parties, p)
		}
	}
	sort.SliceStable(parties, func(i, j int) bool { return parties[i].Code < parties[j].Code })

	report := &domain.AgingReport{
		AsOf:      asOf,
		PartyKind: kind,
		Rows:      []domain.AgingRow{},
		Totals:    domain.ZeroAgingBuckets(),
		Total:     decimal.Zero,
	}
	for _, p := range parties {
		st, err := ix.statement(p.PartyID, ledgerKind, nil, &asOf)
		if err != nil {
			return nil, err
		}

		buckets := domain.ZeroAgingBuckets()
		if opening := net(p.OpeningAmounts()); !opening.IsZero() {
			days := 91
			if !p.OpeningDate.IsZero() {
				days = daysBetween(p.OpeningDate, asOf)
			}
			buckets = buckets.Add(bucketFor(days, opening))
		}
		for _, line := range st.Lines {
			buckets = buckets.Add(bucketFor(daysBetween(line.Date, asOf), line.Net))
		}

		report.Rows = append(report.Rows, domain.AgingRow{
			PartyID:   p.PartyID,
			PartyCode: p.Code,
			PartyName: p.Name,
			Buckets:   buckets,
			Total:     st.ClosingBalance,
		})
		report.Totals = report.Totals.Add(buckets)
		report.Total = report.Total.Add(st.ClosingBalance)
	}

	s.LogInfo(ctx, "Aging report generated successfully",
		slog.String("kind", string(kind)),
		slog.String("asOf", asOf.Format(time.DateOnly)),
		slog.Int("parties", len(report.Rows)))
	return report, nil
}

// CashFlow aggregates the movement of every cash and bank account over a period.
// Inflows are debits and outflows credits.
func (s *reportingService) CashFlow(ctx context.Context, from, to time.Time) (*domain.CashFlowReport, error) {
	if err := checkWindow(from, to); err != nil {
		return nil, err
	}
	ix := newLedgerIndex(s.state.View())

	report := &domain.CashFlowReport{
		FromDate:     domain.DateOnly(from),
		ToDate:       domain.DateOnly(to),
		Accounts:     []domain.CashFlowRow{},
		OpeningCash:  decimal.Zero,
		TotalInflow:  decimal.Zero,
		TotalOutflow: decimal.Zero,
		ClosingCash:  decimal.Zero,
	}
	for _, a := range accountsByCode(ix.snap, ofType(domain.Cash, domain.Bank)) {
		st, err := ix.statement(a.AccountID, domain.AccountLedger, &from, &to)
		if err != nil {
			return nil, err
		}
		report.Accounts = append(report.Accounts, domain.CashFlowRow{
			AccountID:      a.AccountID,
			AccountName:    a.Title,
			AccountType:    a.AccountType,
			OpeningBalance: st.OpeningBalance,
			Inflow:         st.TotalDebit,
			Outflow:        st.TotalCredit,
			ClosingBalance: st.ClosingBalance,
		})
		report.OpeningCash = report.OpeningCash.Add(st.OpeningBalance)
		report.TotalInflow = report.TotalInflow.Add(st.TotalDebit)
		report.TotalOutflow = report.TotalOutflow.Add(st.TotalCredit)
		report.ClosingCash = report.ClosingCash.Add(st.ClosingBalance)
	}
	report.NetChange = report.TotalInflow.Sub(report.TotalOutflow)

	s.LogInfo(ctx, "Cash flow report generated successfully",
		slog.String("from", report.FromDate.Format(time.DateOnly)),
		slog.String("to", report.ToDate.Format(time.DateOnly)),
		slog.Int("accounts", len(report.Accounts)))
	return report, nil
}
