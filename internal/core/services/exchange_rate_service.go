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
)

// exchangeRateService manages the default rates of exchange kept in the ledger settings.
type exchangeRateService struct {
	BaseService
	state *LedgerState
}

// NewExchangeRateService creates a new exchange rate service.
func NewExchangeRateService(state *LedgerState) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{state: state}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// SetDefaultRate stores the rate suggested for new postings in a currency.
func (s *exchangeRateService) SetDefaultRate(ctx context.Context, req dto.SetExchangeRateRequest, actor string) (*domain.ExchangeRate, error) {
	code := strings.ToUpper(strings.TrimSpace(req.CurrencyCode))
	if len(code) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	if !req.Rate.IsPositive() {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}

	var rate domain.ExchangeRate
	_, err := s.state.Commit(ctx, func(draft *domain.Snapshot) error {
		if code == draft.Settings.FunctionalCurrency {
			return fmt.Errorf("%w: %s is the functional currency and always converts at 1", apperrors.ErrValidation, code)
		}
		now := s.state.Now().UTC()
		effective := now
		if req.EffectiveFrom != nil {
			effective = *req.EffectiveFrom
		}
		existing, ok := draft.Settings.DefaultRates[code]
		if ok {
			existing.Rate = req.Rate
			existing.EffectiveFrom = effective
			existing.Touch(actor, now)
			rate = existing
		} else {
			rate = domain.ExchangeRate{
				CurrencyCode:  code,
				Rate:          req.Rate,
				EffectiveFrom: effective,
				AuditFields:   domain.NewAuditFields(actor, now),
			}
		}
		draft.Settings.DefaultRates[code] = rate
		return nil
	})
	if err != nil {
		s.LogDebug(ctx, "Default rate rejected", slog.String("currency", code), slog.String("reason", err.Error()))
		return nil, err
	}

	s.LogInfo(ctx, "Default rate of exchange set",
		slog.String("currency", code),
		slog.String("rate", rate.Rate.String()))
	return &rate, nil
}

// GetDefaultRate retrieves the default rate for a currency.
func (s *exchangeRateService) GetDefaultRate(ctx context.Context, currencyCode string) (*domain.ExchangeRate, error) {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if len(code) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	rate, ok := s.state.View().Settings.DefaultRates[code]
	if !ok {
		return nil, fmt.Errorf("%w: no default rate for %s", apperrors.ErrNotFound, code)
	}
	return &rate, nil
}

func (s *exchangeRateService) ListDefaultRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	defaults := s.state.View().Settings.DefaultRates
	rates := make([]domain.ExchangeRate, 0, len(defaults))
	for _, r := range defaults {
		rates = append(rates, r)
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].CurrencyCode < rates[j].CurrencyCode })
	return rates, nil
}

func (s *exchangeRateService) FunctionalCurrency(ctx context.Context) string {
	return s.state.View().Settings.FunctionalCurrency
}
