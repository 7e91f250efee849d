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

// ledgerPosting is one entry line attached to the date of its voucher.
type ledgerPosting struct {
	voucher *domain.Voucher
	entry   domain.VoucherEntry
	date    time.Time
}

// ledgerIndex groups the entry lines of a snapshot by account and by party, each list
// sorted by date with ties kept in posting order.
type ledgerIndex struct {
	snap      *domain.Snapshot
	byAccount map[string][]ledgerPosting
	byParty   map[string][]ledgerPosting
}

func newLedgerIndex(snap *domain.Snapshot) *ledgerIndex {
	ix := &ledgerIndex{
		snap:      snap,
		byAccount: make(map[string][]ledgerPosting),
		byParty:   make(map[string][]ledgerPosting),
	}
	for i := range snap.Vouchers {
		v := &snap.Vouchers[i]
		date := domain.DateOnly(v.VoucherDate)
		for _, e := range v.Entries {
			p := ledgerPosting{voucher: v, entry: e, date: date}
			ix.byAccount[e.AccountID] = append(ix.byAccount[e.AccountID], p)
			if e.PartyID != "" {
				ix.byParty[e.PartyID] = append(ix.byParty[e.PartyID], p)
			}
		}
	}
	for _, list := range ix.byAccount {
		sortPostings(list)
	}
	for _, list := range ix.byParty {
		sortPostings(list)
	}
	return ix
}

func sortPostings(list []ledgerPosting) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].date.Before(list[j].date) })
}

// subject resolves the name and opening balance of a statement subject.
func (ix *ledgerIndex) subject(subjectID string, kind domain.LedgerKind, net accounting.NetStrategy) (string, decimal.Decimal, []ledgerPosting, error) {
	if kind == domain.AccountLedger {
		account, ok := ix.snap.FindAccount(subjectID)
		if !ok {
			return "", decimal.Zero, nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, subjectID)
		}
		return account.Title, decimal.Zero, ix.byAccount[subjectID], nil
	}
	party, ok := ix.snap.FindParty(subjectID)
	if !ok {
		return "", decimal.Zero, nil, fmt.Errorf("%w: party %s", apperrors.ErrNotFound, subjectID)
	}
	if party.Kind.LedgerKind() != kind {
		return "", decimal.Zero, nil, fmt.Errorf("%w: party %s is a %s, not a %s ledger", apperrors.ErrValidation, party.Code, party.Kind, kind)
	}
	return party.Name, net(party.OpeningAmounts()), ix.byParty[subjectID], nil
}

// statement computes opening, running and closing balances of one subject.
// Entries before from only feed the opening balance; entries after to are ignored.
func (ix *ledgerIndex) statement(subjectID string, kind domain.LedgerKind, from, to *time.Time) (*domain.LedgerStatement, error) {
	net, err := accounting.StrategyFor(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	var fromDate, toDate *time.Time
	if from != nil {
		d := domain.DateOnly(*from)
		fromDate = &d
	}
	if to != nil {
		d := domain.DateOnly(*to)
		toDate = &d
	}
	if fromDate != nil && toDate != nil && fromDate.After(*toDate) {
		return nil, fmt.Errorf("%w: from date %s is after to date %s", apperrors.ErrValidation,
			fromDate.Format(time.DateOnly), toDate.Format(time.DateOnly))
	}

	name, opening, postings, err := ix.subject(subjectID, kind, net)
	if err != nil {
		return nil, err
	}

	st := &domain.LedgerStatement{
		SubjectID:   subjectID,
		SubjectName: name,
		Kind:        kind,
		FromDate:    fromDate,
		ToDate:      toDate,
		Lines:       []domain.LedgerLine{},
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, p := range postings {
		if fromDate != nil && p.date.Before(*fromDate) {
			opening = opening.Add(net(p.entry.Debit, p.entry.Credit))
		}
	}
	st.OpeningBalance = opening

	running := opening
	for _, p := range postings {
		if fromDate != nil && p.date.Before(*fromDate) {
			continue
		}
		if toDate != nil && p.date.After(*toDate) {
			continue
		}
		amount := net(p.entry.Debit, p.entry.Credit)
		running = running.Add(amount)
		st.TotalDebit = st.TotalDebit.Add(p.entry.Debit)
		st.TotalCredit = st.TotalCredit.Add(p.entry.Credit)
		st.Lines = append(st.Lines, domain.LedgerLine{
			VoucherID:      p.voucher.VoucherID,
			VoucherNumber:  p.voucher.VoucherNumber,
			VoucherType:    p.voucher.VoucherType,
			Date:           p.date,
			Description:    p.voucher.Description,
			Narration:      p.entry.Narration,
			Debit:          p.entry.Debit,
			Credit:         p.entry.Credit,
			Net:            amount,
			RunningBalance: running,
		})
	}
	st.ClosingBalance = running
	return st, nil
}

// ledgerService implements the LedgerService interface
type ledgerService struct {
	BaseService
	state *LedgerState
}

// NewLedgerService creates the balance computation service.
func NewLedgerService(state *LedgerState) portssvc.LedgerService {
	return &ledgerService{state: state}
}

var _ portssvc.LedgerService = (*ledgerService)(nil)

func (s *ledgerService) Statement(ctx context.Context, subjectID string, kind domain.LedgerKind, from, to *time.Time) (*domain.LedgerStatement, error) {
	st, err := newLedgerIndex(s.state.View()).statement(subjectID, kind, from, to)
	if err != nil {
		s.LogDebug(ctx, "Ledger statement rejected",
			slog.String("subject_id", subjectID),
			slog.String("kind", string(kind)),
			slog.String("reason", err.Error()))
		return nil, err
	}
	s.LogDebug(ctx, "Ledger statement computed",
		slog.String("subject_id", subjectID),
		slog.Int("lines", len(st.Lines)))
	return st, nil
}
