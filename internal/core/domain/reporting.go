package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport lists closing balances of every account as of a date.
type TrialBalanceReport struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	Difference  decimal.Decimal   `json:"difference"` // TotalDebit - TotalCredit
	Balanced    bool              `json:"balanced"`
}

// AccountAmount represents an account with its net amount for financial reports
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// PAndLReport represents a profit and loss report
type PAndLReport struct {
	FromDate      time.Time       `json:"fromDate"`
	ToDate        time.Time       `json:"toDate"`
	Revenue       []AccountAmount `json:"revenue"`  // Σ(credit-debit) per income account
	Expenses      []AccountAmount `json:"expenses"` // Σ(debit-credit) per expense account
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetProfit     decimal.Decimal `json:"netProfit"` // Total revenue minus total expenses
}

// BalanceSheetReport represents a balance sheet report.
// Balanced and Difference are diagnostics only; the identity is not enforced.
type BalanceSheetReport struct {
	AsOf             time.Time       `json:"asOf"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	RetainedEarnings decimal.Decimal `json:"retainedEarnings"` // Net profit up to AsOf, presentational
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	Difference       decimal.Decimal `json:"difference"` // Assets - (Liabilities + Equity)
	Balanced         bool            `json:"balanced"`
}

// AgingBuckets holds amounts split by days elapsed since the contributing entry.
type AgingBuckets struct {
	Current    decimal.Decimal `json:"current"`    // 0-30 days
	Days31To60 decimal.Decimal `json:"days31To60"` // 31-60 days
	Days61To90 decimal.Decimal `json:"days61To90"` // 61-90 days
	Over90Days decimal.Decimal `json:"over90Days"` // >90 days
}

// Add returns the element-wise sum of two bucket sets.
func (b AgingBuckets) Add(o AgingBuckets) AgingBuckets {
	return AgingBuckets{
		Current:    b.Current.Add(o.Current),
		Days31To60: b.Days31To60.Add(o.Days31To60),
		Days61To90: b.Days61To90.Add(o.Days61To90),
		Over90Days: b.Over90Days.Add(o.Over90Days),
	}
}

// ZeroAgingBuckets returns buckets with every amount set to zero.
func ZeroAgingBuckets() AgingBuckets {
	return AgingBuckets{Current: decimal.Zero, Days31To60: decimal.Zero, Days61To90: decimal.Zero, Over90Days: decimal.Zero}
}

// AgingRow is the aging of a single party. Total is the party's closing balance.
type AgingRow struct {
	PartyID   string          `json:"partyID"`
	PartyCode string          `json:"partyCode"`
	PartyName string          `json:"partyName"`
	Buckets   AgingBuckets    `json:"buckets"`
	Total     decimal.Decimal `json:"total"`
}

// AgingReport is the aging schedule of every active party of one kind.
type AgingReport struct {
	AsOf      time.Time       `json:"asOf"`
	PartyKind PartyKind       `json:"partyKind"`
	Rows      []AgingRow      `json:"rows"`
	Totals    AgingBuckets    `json:"totals"`
	Total     decimal.Decimal `json:"total"`
}

// CashFlowRow is the movement of one cash or bank account within a window.
type CashFlowRow struct {
	AccountID      string          `json:"accountID"`
	AccountName    string          `json:"accountName"`
	AccountType    AccountType     `json:"accountType"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Inflow         decimal.Decimal `json:"inflow"`
	Outflow        decimal.Decimal `json:"outflow"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// CashFlowReport aggregates cash and bank movement over a window.
type CashFlowReport struct {
	FromDate     time.Time       `json:"fromDate"`
	ToDate       time.Time       `json:"toDate"`
	Accounts     []CashFlowRow   `json:"accounts"`
	OpeningCash  decimal.Decimal `json:"openingCash"`
	TotalInflow  decimal.Decimal `json:"totalInflow"`
	TotalOutflow decimal.Decimal `json:"totalOutflow"`
	NetChange    decimal.Decimal `json:"netChange"`
	ClosingCash  decimal.Decimal `json:"closingCash"`
}

// UnbalancedVoucher identifies a voucher whose own entries do not balance.
type UnbalancedVoucher struct {
	VoucherID     string          `json:"voucherID"`
	VoucherNumber string          `json:"voucherNumber"`
	TotalDebit    decimal.Decimal `json:"totalDebit"`
	TotalCredit   decimal.Decimal `json:"totalCredit"`
	Difference    decimal.Decimal `json:"difference"`
}

// IntegrityReport is the outcome of a global consistency check.
type IntegrityReport struct {
	AsOf               time.Time           `json:"asOf"`
	Balanced           bool                `json:"balanced"`
	TotalDebit         decimal.Decimal     `json:"totalDebit"`
	TotalCredit        decimal.Decimal     `json:"totalCredit"`
	Difference         decimal.Decimal     `json:"difference"`
	UnbalancedVouchers []UnbalancedVoucher `json:"unbalancedVouchers"`
	CheckedAt          time.Time           `json:"checkedAt"`
}

// Sound reports whether the trial balance holds and no voucher is individually unbalanced.
func (r IntegrityReport) Sound() bool {
	return r.Balanced && len(r.UnbalancedVouchers) == 0
}
