package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/agency_books/internal/core/domain"
	portssvc "github.com/SscSPs/agency_books/internal/core/ports/services"
	"github.com/SscSPs/agency_books/internal/dto"
	"github.com/SscSPs/agency_books/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to statements, financial reports and integrity checks
type reportingHandler struct {
	ledgerService    portssvc.LedgerService
	reportingService portssvc.ReportingService
	integrityService portssvc.IntegrityService
	now              func() time.Time
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(ls portssvc.LedgerService, rs portssvc.ReportingService, is portssvc.IntegrityService) *reportingHandler {
	return &reportingHandler{
		ledgerService:    ls,
		reportingService: rs,
		integrityService: is,
		now:              time.Now,
	}
}

// RegisterReportingRoutes registers the read-only reporting routes
func RegisterReportingRoutes(rg *gin.RouterGroup, ls portssvc.LedgerService, rs portssvc.ReportingService, is portssvc.IntegrityService) {
	h := newReportingHandler(ls, rs, is)

	rg.GET("/ledgers/:id", h.getStatement)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/profit-and-loss", h.getProfitAndLoss)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/aging/:kind", h.getAging)
		reportingGroup.GET("/cash-flow", h.getCashFlow)
		reportingGroup.GET("/integrity", h.getIntegrity)
	}
}

func (h *reportingHandler) today() time.Time {
	now := h.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// period reads fromDate and toDate, defaulting to the current month to date.
func (h *reportingHandler) period(c *gin.Context) (time.Time, time.Time, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	today := h.today()

	from, err := dateQueryOr(c, "fromDate", time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		logger.Warn("Invalid from date format", slog.String("fromDate", c.Query("fromDate")))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fromDate format. Use YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	to, err := dateQueryOr(c, "toDate", today)
	if err != nil {
		logger.Warn("Invalid to date format", slog.String("toDate", c.Query("toDate")))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid toDate format. Use YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func (h *reportingHandler) asOf(c *gin.Context) (time.Time, bool) {
	asOf, err := dateQueryOr(c, "asOf", h.today())
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Invalid asOf date format", slog.String("asOf", c.Query("asOf")))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return time.Time{}, false
	}
	return asOf, true
}

// getStatement godoc
// @Summary Ledger statement of an account or party
// @Description Opening balance, lines with running balance, and closing balance over an optional window
// @Tags reports
// @Produce json
// @Param id path string true "Account or party ID"
// @Param kind query string true "ACCOUNT, CUSTOMER or VENDOR"
// @Param fromDate query string false "Start date (YYYY-MM-DD)"
// @Param toDate query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.LedgerStatement
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Unknown subject"
// @Router /ledgers/{id} [get]
func (h *reportingHandler) getStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.LedgerStatementParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for Statement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	from, err := parseDateQuery(c, "fromDate")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fromDate format. Use YYYY-MM-DD"})
		return
	}
	to, err := parseDateQuery(c, "toDate")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid toDate format. Use YYYY-MM-DD"})
		return
	}

	logger = logger.With(slog.String("subject_id", c.Param("id")), slog.String("ledger_kind", string(params.Kind)))
	statement, err := h.ledgerService.Statement(c.Request.Context(), c.Param("id"), params.Kind, from, to)
	if err != nil {
		respondError(c, logger, err, "Failed to build ledger statement")
		return
	}

	logger.Debug("Ledger statement built", slog.Int("line_count", len(statement.Lines)))
	c.JSON(http.StatusOK, statement)
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Generates a trial balance report as of a specific date
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("as_of", asOf.Format(dateFormat)))

	report, err := h.reportingService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to generate trial balance report")
		return
	}

	logger.Info("Trial balance report generated successfully", slog.Int("row_count", len(report.Rows)), slog.Bool("balanced", report.Balanced))
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}

// getProfitAndLoss godoc
// @Summary Generate profit and loss report
// @Description Generates a profit and loss report for a specific period
// @Tags reports
// @Produce json
// @Param fromDate query string false "Start date (YYYY-MM-DD)" default(first day of current month)
// @Param toDate query string false "End date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.ProfitAndLossResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /reports/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	from, to, ok := h.period(c)
	if !ok {
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("from_date", from.Format(dateFormat)),
		slog.String("to_date", to.Format(dateFormat)),
	)

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, logger, err, "Failed to generate profit and loss report")
		return
	}

	logger.Info("Profit and loss report generated successfully",
		slog.Int("revenue_accounts", len(report.Revenue)),
		slog.Int("expense_accounts", len(report.Expenses)))
	c.JSON(http.StatusOK, dto.ToProfitAndLossResponse(report))
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.BalanceSheetResponse
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("as_of", asOf.Format(dateFormat)))

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to generate balance sheet report")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report))
}

// getAging godoc
// @Summary Receivable or payable aging
// @Tags reports
// @Produce json
// @Param kind path string true "customers or vendors"
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.AgingResponse
// @Router /reports/aging/{kind} [get]
func (h *reportingHandler) getAging(c *gin.Context) {
	var kind domain.PartyKind
	switch strings.ToLower(c.Param("kind")) {
	case "customers", "receivable":
		kind = domain.Customer
	case "vendors", "payable":
		kind = domain.Vendor
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aging kind must be customers or vendors"})
		return
	}
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("party_kind", string(kind)))

	report, err := h.reportingService.Aging(c.Request.Context(), kind, asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to generate aging report")
		return
	}
	c.JSON(http.StatusOK, dto.ToAgingResponse(report))
}

func (h *reportingHandler) getCashFlow(c *gin.Context) {
	from, to, ok := h.period(c)
	if !ok {
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.reportingService.CashFlow(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, logger, err, "Failed to generate cash flow report")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashFlowResponse(report))
}

// getIntegrity godoc
// @Summary Verify ledger integrity
// @Description Recomputes whole-ledger totals and lists vouchers whose entries do not balance
// @Tags reports
// @Produce json
// @Param asOf query string false "Check date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.IntegrityResponse
// @Router /reports/integrity [get]
func (h *reportingHandler) getIntegrity(c *gin.Context) {
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.integrityService.Verify(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to verify ledger integrity")
		return
	}
	if !report.Sound() {
		logger.Warn("Integrity check found imbalances", slog.String("difference", report.Difference.String()))
	}
	c.JSON(http.StatusOK, dto.ToIntegrityResponse(report))
}
