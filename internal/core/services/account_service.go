package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/core/domain"
	portssvc "github.com/SscSPs/agency_books/internal/core/ports/services"
	"github.com/SscSPs/agency_books/internal/dto"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	state *LedgerState
}

// NewAccountService creates the chart of accounts service.
func NewAccountService(state *LedgerState) portssvc.AccountSvcFacade {
	return &accountService{state: state}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: account title is required", apperrors.ErrValidation)
	}

	var account domain.Account
	_, err := s.state.Commit(ctx, func(draft *domain.Snapshot) error {
		n, err := s.state.nextNumber(ctx, draft, domain.AccountSequence)
		if err != nil {
			return err
		}
		account = domain.Account{
			AccountID:   uuid.NewString(),
			Code:        domain.FormatCode(domain.AccountCodePrefix, n),
			Title:       title,
			AccountType: req.AccountType,
			Description: req.Description,
			IsActive:    true,
			AuditFields: domain.NewAuditFields(actor, s.state.Now().UTC()),
		}
		draft.Accounts = append(draft.Accounts, account)
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create account", slog.String("title", title))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, ok := s.state.View().FindAccount(accountID)
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	snap := s.state.View()
	accounts := make([]domain.Account, 0, len(snap.Accounts))
	for _, a := range snap.Accounts {
		if params.AccountType != "" && a.AccountType != params.AccountType {
			continue
		}
		if !params.IncludeInactive && !a.IsActive {
			continue
		}
		accounts = append(accounts, a)
	}
	sort.SliceStable(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actor string) (*domain.Account, error) {
	var updated domain.Account
	_, err := s.state.Commit(ctx, func(draft *domain.Snapshot) error {
		idx := draft.AccountIndex(accountID)
		if idx < 0 {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		account := &draft.Accounts[idx]
		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" {
				return fmt.Errorf("%w: account title cannot be empty", apperrors.ErrValidation)
			}
			account.Title = title
		}
		if req.Description != nil {
			account.Description = *req.Description
		}
		if req.IsActive != nil {
			account.IsActive = *req.IsActive
		}
		account.Touch(actor, s.state.Now().UTC())
		updated = *account
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return &updated, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, actor string) error {
	inactive := false
	_, err := s.UpdateAccount(ctx, accountID, dto.UpdateAccountRequest{IsActive: &inactive}, actor)
	return err
}

// DeleteAccount removes an account only when nothing references it; referenced accounts must be deactivated.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string) error {
	_, err := s.state.Commit(ctx, func(draft *domain.Snapshot) error {
		idx := draft.AccountIndex(accountID)
		if idx < 0 {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		if draft.IsReferenced(accountID) {
			return fmt.Errorf("%w: account %s is used by posted entries or settings; deactivate it instead",
				apperrors.ErrReferentialIntegrity, draft.Accounts[idx].Code)
		}
		draft.Accounts = append(draft.Accounts[:idx], draft.Accounts[idx+1:]...)
		draft.MarkDeleted(accountID, s.state.Now().UTC())
		return nil
	})
	if err != nil {
		s.LogDebug(ctx, "Account not deleted", slog.String("account_id", accountID), slog.String("reason", err.Error()))
		return err
	}

	s.LogInfo(ctx, "Account deleted successfully", slog.String("account_id", accountID))
	return nil
}

func requireAccountType(snap *domain.Snapshot, id string, want domain.AccountType) error {
	account, ok := snap.FindAccount(id)
	if !ok {
		return fmt.Errorf("%w: account %s does not exist", apperrors.ErrValidation, id)
	}
	if account.AccountType != want {
		return fmt.Errorf("%w: account %s is %s, expected %s", apperrors.ErrValidation, account.Code, account.AccountType, want)
	}
	return nil
}

func (s *accountService) SetControlAccounts(ctx context.Context, req dto.ControlAccountsRequest, actor string) (*domain.ControlAccounts, error) {
	controls := domain.ControlAccounts{
		ReceivableAccountID: req.ReceivableAccountID,
		PayableAccountID:    req.PayableAccountID,
		IncomeAccountID:     req.IncomeAccountID,
	}
	_, err := s.state.Commit(ctx, func(draft *domain.Snapshot) error {
		if err := requireAccountType(draft, controls.ReceivableAccountID, domain.Receivable); err != nil {
			return err
		}
		if err := requireAccountType(draft, controls.PayableAccountID, domain.Payable); err != nil {
			return err
		}
		if err := requireAccountType(draft, controls.IncomeAccountID, domain.Income); err != nil {
			return err
		}
		draft.Settings.Controls = controls
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Control accounts updated", slog.String("actor", actor))
	return &controls, nil
}

func (s *accountService) GetControlAccounts(ctx context.Context) (*domain.ControlAccounts, error) {
	controls := resolveControls(s.state.View())
	return &controls, nil
}

// resolveControls returns the configured control accounts, filling any gap with the
// lowest-coded active account of the matching type.
func resolveControls(snap *domain.Snapshot) domain.ControlAccounts {
	c := snap.Settings.Controls
	if c.ReceivableAccountID == "" {
		c.ReceivableAccountID = firstActiveAccount(snap, domain.Receivable)
	}
	if c.PayableAccountID == "" {
		c.PayableAccountID = firstActiveAccount(snap, domain.Payable)
	}
	if c.IncomeAccountID == "" {
		c.IncomeAccountID = firstActiveAccount(snap, domain.Income)
	}
	return c
}

func firstActiveAccount(snap *domain.Snapshot, t domain.AccountType) string {
	var found *domain.Account
	for i := range snap.Accounts {
		a := &snap.Accounts[i]
		if a.AccountType != t || !a.IsActive {
			continue
		}
		if found == nil || a.Code < found.Code {
			found = a
		}
	}
	if found == nil {
		return ""
	}
	return found.AccountID
}
