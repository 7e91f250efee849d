package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	portssvc "github.com/SscSPs/agency_books/internal/core/ports/services"
	"github.com/SscSPs/agency_books/internal/dto"
	"github.com/SscSPs/agency_books/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to default rates of exchange.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: ers,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(exchangeRateService)

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.PUT("", h.setExchangeRate)
		exchangeRates.GET("", h.listExchangeRates)
		exchangeRates.GET("/:currency", h.getExchangeRate)
	}
}

// setExchangeRate godoc
// @Summary Set a default rate of exchange
// @Description Stores the rate suggested for new postings in a currency. Posted vouchers keep their own rate.
// @Tags exchange rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.SetExchangeRateRequest true "Currency and rate"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Router /exchange-rates [put]
func (h *exchangeRateHandler) setExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetExchangeRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromContext(c)
	logger = logger.With(slog.String("actor", actor))
	logger.Info("Received request to set exchange rate",
		slog.String("currency_code", req.CurrencyCode),
		slog.String("rate", req.Rate.String()),
	)

	rate, err := h.exchangeRateService.SetDefaultRate(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to set exchange rate")
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate, h.exchangeRateService.FunctionalCurrency(c.Request.Context())))
}

func (h *exchangeRateHandler) listExchangeRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rates, err := h.exchangeRateService.ListDefaultRates(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list exchange rates")
		return
	}
	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(rates, h.exchangeRateService.FunctionalCurrency(c.Request.Context())))
}

// getExchangeRate godoc
// @Summary Get the default rate of a currency
// @Tags exchange rates
// @Produce  json
// @Param   currency path string true "Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid currency code format"
// @Failure 404 {object} map[string]string "No default rate"
// @Router /exchange-rates/{currency} [get]
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := strings.ToUpper(c.Param("currency"))

	// Basic validation - service does the rest
	if len(code) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency codes must be 3 letters"})
		return
	}

	rate, err := h.exchangeRateService.GetDefaultRate(c.Request.Context(), code)
	if err != nil {
		respondError(c, logger.With(slog.String("currency_code", code)), err, "Failed to retrieve exchange rate")
		return
	}
	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate, h.exchangeRateService.FunctionalCurrency(c.Request.Context())))
}
