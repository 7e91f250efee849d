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
	"github.com/shopspring/decimal"
)

// partyService implements the PartySvcFacade interface
type partyService struct {
	BaseService
	state *LedgerState
}

// NewPartyService creates the customer and vendor registry.
func NewPartyService(state *LedgerState) portssvc.PartySvcFacade {
	return &partyService{state: state}
}

var _ portssvc.PartySvcFacade = (*partyService)(nil)

// defaultOpeningSide is the side on which a party's balance normally sits.
func defaultOpeningSide(kind domain.PartyKind) domain.EntrySide {
	if kind == domain.Vendor {
		return domain.Credit
	}
	return domain.Debit
}

func validateOpening(amount decimal.Decimal, side domain.EntrySide) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: opening balance cannot be negative; use the opening side instead", apperrors.ErrValidation)
	}
	if side != domain.Debit && side != domain.Credit {
		return fmt.Errorf("%w: opening side must be %s or %s", apperrors.ErrValidation, domain.Debit, domain.Credit)
	}
	return nil
}

func (s *partyService) CreateParty(ctx context.Context, req dto.CreatePartyRequest, actor string) (*domain.Party, error) {
	if !req.Kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown party kind %q", apperrors.ErrValidation, req.Kind)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: party name is required", apperrors.ErrValidation)
	}
	side := req.OpeningSide
	if side == "" {
		side = defaultOpeningSide(req.Kind)
	}
	if err := validateOpening(req.OpeningBalance, side); err != nil {
		return nil, err
	}

	var party domain.Party
	_, err := s.state.Commit(ctx, func(draft *domain.Snapshot) error {
		n, err := s.state.nextNumber(ctx, draft, domain.PartySequence(req.Kind))
		if err != nil {
			return err
		}
		party = domain.Party{
			PartyID:        uuid.NewString(),
			Kind:           req.Kind,
			Code:           domain.FormatCode(req.Kind.CodePrefix(), n),
			Name:           name,
			Phone:          req.Phone,
			Email:          req.Email,
			Address:        req.Address,
			OpeningBalance: req.OpeningBalance,
			OpeningSide:    side,
			IsActive:       true,
			AuditFields:    domain.NewAuditFields(actor, s.state.Now().UTC()),
		}
		if req.OpeningDate != nil {
			party.OpeningDate = domain.DateOnly(*req.OpeningDate)
		}
		draft.Parties = append(draft.Parties, party)
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create party", slog.String("kind", string(req.Kind)))
		return nil, err
	}

	s.LogInfo(ctx, "Party created successfully",
		slog.String("party_id", party.PartyID),
		slog.String("code", party.Code))
	return &party, nil
}

func (s *partyService) GetPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	party, ok := s.state.View().FindParty(partyID)
	if !ok {
		return nil, fmt.Errorf("%w: party %s", apperrors.ErrNotFound, partyID)
	}
	return &party, nil
}

func (s *partyService) ListParties(ctx context.Context, params dto.ListPartiesParams) ([]domain.Party, error) {
	snap := s.state.View()
	parties := make([]domain.Party, 0, len(snap.Parties))
	for _, p := range snap.Parties {
		if params.Kind != "" && p.Kind != params.Kind {
			continue
		}
		if !params.IncludeInactive && !p.IsActive {
			continue
		}
		parties = append(parties, p)
	}
	sort.SliceStable(parties, func(i, j int) bool { return parties[i].Code < parties[j].Code })
	return parties, nil
}

func (s *partyService) UpdateParty(ctx context.Context, partyID string, req dto.UpdatePartyRequest, actor string) (*domain.Party, error) {
	var updated domain.Party
	_, err := s.state.Commit(ctx, func(draft *domain.Snapshot) error {
		idx := draft.PartyIndex(partyID)
		if idx < 0 {
			return fmt.Errorf("%w: party %s", apperrors.ErrNotFound, partyID)
		}
		p := &draft.Parties[idx]
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return fmt.Errorf("%w: party name cannot be empty", apperrors.ErrValidation)
			}
			p.Name = name
		}
		if req.Phone != nil {
			p.Phone = *req.Phone
		}
		if req.Email != nil {
			p.Email = *req.Email
		}
		if req.Address != nil {
			p.Address = *req.Address
		}
		if req.OpeningBalance != nil {
			p.OpeningBalance = *req.OpeningBalance
		}
		if req.OpeningSide != nil {
			p.OpeningSide = *req.OpeningSide
		}
		if req.OpeningDate != nil {
			p.OpeningDate = domain.DateOnly(*req.OpeningDate)
		}
		if req.IsActive != nil {
			p.IsActive = *req.IsActive
		}
		if err := validateOpening(p.OpeningBalance, p.OpeningSide); err != nil {
			return err
		}
		p.Touch(actor, s.state.Now().UTC())
		updated = *p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Party updated successfully", slog.String("party_id", partyID))
	return &updated, nil
}

func (s *partyService) DeactivateParty(ctx context.Context, partyID string, actor string) error {
	inactive := false
	_, err := s.UpdateParty(ctx, partyID, dto.UpdatePartyRequest{IsActive: &inactive}, actor)
	return err
}

func (s *partyService) DeleteParty(ctx context.Context, partyID string) error {
	_, err := s.state.Commit(ctx, func(draft *domain.Snapshot) error {
		idx := draft.PartyIndex(partyID)
		if idx < 0 {
			return fmt.Errorf("%w: party %s", apperrors.ErrNotFound, partyID)
		}
		if draft.IsReferenced(partyID) {
			return fmt.Errorf("%w: party %s appears on posted entries or bookings; deactivate it instead",
				apperrors.ErrReferentialIntegrity, draft.Parties[idx].Code)
		}
		draft.Parties = append(draft.Parties[:idx], draft.Parties[idx+1:]...)
		draft.MarkDeleted(partyID, s.state.Now().UTC())
		return nil
	})
	if err != nil {
		s.LogDebug(ctx, "Party not deleted", slog.String("party_id", partyID), slog.String("reason", err.Error()))
		return err
	}

	s.LogInfo(ctx, "Party deleted successfully", slog.String("party_id", partyID))
	return nil
}
