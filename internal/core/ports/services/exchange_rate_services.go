package services

import (
	"context"

	"github.com/SscSPs/agency_books/internal/core/domain"
	"github.com/SscSPs/agency_books/internal/dto"
)

// ExchangeRateReaderSvc defines read operations for default rates of exchange
type ExchangeRateReaderSvc interface {
	// GetDefaultRate retrieves the default rate from a currency into the functional currency.
	GetDefaultRate(ctx context.Context, currencyCode string) (*domain.ExchangeRate, error)

	// ListDefaultRates retrieves every configured default rate ordered by currency code.
	ListDefaultRates(ctx context.Context) ([]domain.ExchangeRate, error)

	// FunctionalCurrency returns the bookkeeping currency.
	FunctionalCurrency(ctx context.Context) string
}

// ExchangeRateWriterSvc defines write operations for default rates of exchange
type ExchangeRateWriterSvc interface {
	// SetDefaultRate stores the rate suggested for new postings. Posted vouchers are not touched.
	SetDefaultRate(ctx context.Context, req dto.SetExchangeRateRequest, actor string) (*domain.ExchangeRate, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}
