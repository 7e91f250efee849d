package dto

import (
	"time"

	"github.com/SscSPs/agency_books/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SetExchangeRateRequest defines the structure for setting a default rate of exchange.
type SetExchangeRateRequest struct {
	CurrencyCode  string          `json:"currencyCode" binding:"required,len=3,uppercase"`
	Rate          decimal.Decimal `json:"rate" binding:"required"`
	EffectiveFrom *time.Time      `json:"effectiveFrom"`
}

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	CurrencyCode       string          `json:"currencyCode"`
	FunctionalCurrency string          `json:"functionalCurrency"`
	Rate               decimal.Decimal `json:"rate"`
	EffectiveFrom      time.Time       `json:"effectiveFrom"`
	LastUpdatedAt      time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy      string          `json:"lastUpdatedBy"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate, functionalCurrency string) ExchangeRateResponse {
	return ExchangeRateResponse{
		CurrencyCode:       rate.CurrencyCode,
		FunctionalCurrency: functionalCurrency,
		Rate:               rate.Rate,
		EffectiveFrom:      rate.EffectiveFrom,
		LastUpdatedAt:      rate.LastUpdatedAt,
		LastUpdatedBy:      rate.LastUpdatedBy,
	}
}

// ToListExchangeRateResponse converts a slice of rates to a slice of ExchangeRateResponse DTOs.
func ToListExchangeRateResponse(rates []domain.ExchangeRate, functionalCurrency string) []ExchangeRateResponse {
	responses := make([]ExchangeRateResponse, len(rates))
	for i, rate := range rates {
		responses[i] = ToExchangeRateResponse(&rate, functionalCurrency)
	}
	return responses
}
