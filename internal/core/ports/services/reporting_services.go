package services

import (
	"context"
	"time"

	"github.com/SscSPs/agency_books/internal/core/domain"
)

// LedgerService computes opening, running and closing balances of a single subject.
type LedgerService interface {
	// Statement builds the ledger of an account or party. Nil bounds leave the window open.
	Statement(ctx context.Context, subjectID string, kind domain.LedgerKind, from, to *time.Time) (*domain.LedgerStatement, error)
}

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// TrialBalance generates a trial balance report as of a specific date
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error)

	// ProfitAndLoss generates a profit and loss report for a specific period
	ProfitAndLoss(ctx context.Context, from, to time.Time) (*domain.PAndLReport, error)

	// BalanceSheet generates a balance sheet report as of a specific date
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error)

	// Aging buckets the outstanding balance of every active party of a kind
	Aging(ctx context.Context, kind domain.PartyKind, asOf time.Time) (*domain.AgingReport, error)

	// CashFlow aggregates the movement of every cash and bank account over a period
	CashFlow(ctx context.Context, from, to time.Time) (*domain.CashFlowReport, error)
}

// IntegrityService checks that the ledger as a whole still balances.
type IntegrityService interface {
	// Verify never fails on an unbalanced ledger; it reports it.
	Verify(ctx context.Context, asOf time.Time) (*domain.IntegrityReport, error)
}
