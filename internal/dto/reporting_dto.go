package dto

import (
	"time"

	"github.com/SscSPs/agency_books/internal/core/domain"
	"github.com/shopspring/decimal"
)

const reportDateFormat = "2006-01-02"

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf   string                    `json:"asOf"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debit      decimal.Decimal `json:"debit"`
		Credit     decimal.Decimal `json:"credit"`
		Difference decimal.Decimal `json:"difference"`
		Balanced   bool            `json:"balanced"`
	} `json:"totals"`
}

// AccountAmountResponse represents an account with its amount in a financial report
type AccountAmountResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// ProfitAndLossResponse represents the profit and loss report response
type ProfitAndLossResponse struct {
	FromDate string                  `json:"fromDate"`
	ToDate   string                  `json:"toDate"`
	Revenue  []AccountAmountResponse `json:"revenue"`
	Expenses []AccountAmountResponse `json:"expenses"`
	Summary  struct {
		TotalRevenue  decimal.Decimal `json:"totalRevenue"`
		TotalExpenses decimal.Decimal `json:"totalExpenses"`
		NetProfit     decimal.Decimal `json:"netProfit"`
	} `json:"summary"`
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf        string                  `json:"asOf"`
	Assets      []AccountAmountResponse `json:"assets"`
	Liabilities []AccountAmountResponse `json:"liabilities"`
	Equity      []AccountAmountResponse `json:"equity"`
	Summary     struct {
		TotalAssets      decimal.Decimal `json:"totalAssets"`
		TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
		RetainedEarnings decimal.Decimal `json:"retainedEarnings"`
		TotalEquity      decimal.Decimal `json:"totalEquity"`
		Difference       decimal.Decimal `json:"difference"`
		Balanced         bool            `json:"balanced"`
	} `json:"summary"`
}

// AgingRowResponse is one party in the aging schedule.
type AgingRowResponse struct {
	PartyID    string          `json:"partyID"`
	PartyCode  string          `json:"partyCode"`
	PartyName  string          `json:"partyName"`
	Current    decimal.Decimal `json:"current"`
	Days31To60 decimal.Decimal `json:"days31To60"`
	Days61To90 decimal.Decimal `json:"days61To90"`
	Over90Days decimal.Decimal `json:"over90Days"`
	Total      decimal.Decimal `json:"total"`
}

// AgingResponse represents the aging schedule response.
type AgingResponse struct {
	AsOf      string             `json:"asOf"`
	PartyKind domain.PartyKind   `json:"partyKind"`
	Rows      []AgingRowResponse `json:"rows"`
	Totals    AgingRowResponse   `json:"totals"`
}

// CashFlowResponse represents the cash flow statement response.
type CashFlowResponse struct {
	FromDate     string               `json:"fromDate"`
	ToDate       string               `json:"toDate"`
	Accounts     []domain.CashFlowRow `json:"accounts"`
	OpeningCash  decimal.Decimal      `json:"openingCash"`
	TotalInflow  decimal.Decimal      `json:"totalInflow"`
	TotalOutflow decimal.Decimal      `json:"totalOutflow"`
	NetChange    decimal.Decimal      `json:"netChange"`
	ClosingCash  decimal.Decimal      `json:"closingCash"`
}

// IntegrityResponse represents the outcome of an integrity check.
type IntegrityResponse struct {
	AsOf               string                     `json:"asOf"`
	Balanced           bool                       `json:"balanced"`
	Sound              bool                       `json:"sound"`
	TotalDebit         decimal.Decimal            `json:"totalDebit"`
	TotalCredit        decimal.Decimal            `json:"totalCredit"`
	Difference         decimal.Decimal            `json:"difference"`
	UnbalancedVouchers []domain.UnbalancedVoucher `json:"unbalancedVouchers"`
	CheckedAt          time.Time                  `json:"checkedAt"`
}

// ToTrialBalanceResponse converts a domain trial balance report to a DTO response
func ToTrialBalanceResponse(report *domain.TrialBalanceReport) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf: report.AsOf.Format(reportDateFormat),
		Rows: make([]TrialBalanceRowResponse, len(report.Rows)),
	}

	for i, row := range report.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
		}
	}

	response.Totals.Debit = report.TotalDebit
	response.Totals.Credit = report.TotalCredit
	response.Totals.Difference = report.Difference
	response.Totals.Balanced = report.Balanced

	return response
}

func toAccountAmountResponses(amounts []domain.AccountAmount) []AccountAmountResponse {
	res := make([]AccountAmountResponse, len(amounts))
	for i, a := range amounts {
		res[i] = AccountAmountResponse{
			AccountID: a.AccountID,
			Code:      a.Code,
			Name:      a.Name,
			Amount:    a.NetAmount,
		}
	}
	return res
}

// ToProfitAndLossResponse converts a domain P&L report to a DTO response
func ToProfitAndLossResponse(report *domain.PAndLReport) ProfitAndLossResponse {
	response := ProfitAndLossResponse{
		FromDate: report.FromDate.Format(reportDateFormat),
		ToDate:   report.ToDate.Format(reportDateFormat),
		Revenue:  toAccountAmountResponses(report.Revenue),
		Expenses: toAccountAmountResponses(report.Expenses),
	}

	response.Summary.TotalRevenue = report.TotalRevenue
	response.Summary.TotalExpenses = report.TotalExpenses
	response.Summary.NetProfit = report.NetProfit

	return response
}

// ToBalanceSheetResponse converts a domain balance sheet report to a DTO response
func ToBalanceSheetResponse(report *domain.BalanceSheetReport) BalanceSheetResponse {
	response := BalanceSheetResponse{
		AsOf:        report.AsOf.Format(reportDateFormat),
		Assets:      toAccountAmountResponses(report.Assets),
		Liabilities: toAccountAmountResponses(report.Liabilities),
		Equity:      toAccountAmountResponses(report.Equity),
	}

	response.Summary.TotalAssets = report.TotalAssets
	response.Summary.TotalLiabilities = report.TotalLiabilities
	response.Summary.RetainedEarnings = report.RetainedEarnings
	response.Summary.TotalEquity = report.TotalEquity
	response.Summary.Difference = report.Difference
	response.Summary.Balanced = report.Balanced

	return response
}

// ToAgingResponse converts a domain aging report to a DTO response.
func ToAgingResponse(report *domain.AgingReport) AgingResponse {
	response := AgingResponse{
		AsOf:      report.AsOf.Format(reportDateFormat),
		PartyKind: report.PartyKind,
		Rows:      make([]AgingRowResponse, len(report.Rows)),
	}
	for i, row := range report.Rows {
		response.Rows[i] = AgingRowResponse{
			PartyID:    row.PartyID,
			PartyCode:  row.PartyCode,
			PartyName:  row.PartyName,
			Current:    row.Buckets.Current,
			Days31To60: row.Buckets.Days31To60,
			Days61To90: row.Buckets.Days61To90,
			Over90Days: row.Buckets.Over90Days,
			Total:      row.Total,
		}
	}
	response.Totals = AgingRowResponse{
		PartyName:  "Total",
		Current:    report.Totals.Current,
		Days31To60: report.Totals.Days31To60,
		Days61To90: report.Totals.Days61To90,
		Over90Days: report.Totals.Over90Days,
		Total:      report.Total,
	}
	return response
}

// ToCashFlowResponse converts a domain cash flow report to a DTO response.
func ToCashFlowResponse(report *domain.CashFlowReport) CashFlowResponse {
	return CashFlowResponse{
		FromDate:     report.FromDate.Format(reportDateFormat),
		ToDate:       report.ToDate.Format(reportDateFormat),
		Accounts:     report.Accounts,
		OpeningCash:  report.OpeningCash,
		TotalInflow:  report.TotalInflow,
		TotalOutflow: report.TotalOutflow,
		NetChange:    report.NetChange,
		ClosingCash:  report.ClosingCash,
	}
}

// ToIntegrityResponse converts an integrity report to a DTO response.
func ToIntegrityResponse(report *domain.IntegrityReport) IntegrityResponse {
	unbalanced := report.UnbalancedVouchers
	if unbalanced == nil {
		unbalanced = []domain.UnbalancedVoucher{}
	}
	return IntegrityResponse{
		AsOf:               report.AsOf.Format(reportDateFormat),
		Balanced:           report.Balanced,
		Sound:              report.Sound(),
		TotalDebit:         report.TotalDebit,
		TotalCredit:        report.TotalCredit,
		Difference:         report.Difference,
		UnbalancedVouchers: unbalanced,
		CheckedAt:          report.CheckedAt,
	}
}
