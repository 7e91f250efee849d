package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/agency_books/internal/core/ports/services"
	"github.com/SscSPs/agency_books/internal/dto"
	"github.com/SscSPs/agency_books/internal/middleware"
	"github.com/gin-gonic/gin"
)

// voucherHandler exposes the posting engine.
type voucherHandler struct {
	postingService portssvc.PostingSvcFacade
}

func newVoucherHandler(ps portssvc.PostingSvcFacade) *voucherHandler {
	return &voucherHandler{postingService: ps}
}

// RegisterVoucherRoutes registers routes related to vouchers.
func RegisterVoucherRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newVoucherHandler(postingService)

	vouchers := rg.Group("/vouchers")
	{
		vouchers.POST("", h.postVoucher)
		vouchers.GET("", h.listVouchers)
		vouchers.GET("/:id", h.getVoucher)
		vouchers.PUT("/:id", h.replaceVoucher)
		vouchers.POST("/:id/reverse", h.reverseVoucher)
	}
}

// postVoucher godoc
// @Summary Post a manual voucher
// @Description Validates and posts a cash, bank or journal voucher. Lines must balance.
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   voucher body dto.PostVoucherRequest true "Voucher header and lines"
// @Success 201 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Unbalanced or invalid lines"
// @Failure 404 {object} map[string]string "Unknown account or party"
// @Router /vouchers [post]
func (h *voucherHandler) postVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromContext(c)
	logger = logger.With(slog.String("actor", actor), slog.String("voucher_type", string(req.VoucherType)))

	shape, lines := req.ToShapeAndLines()
	voucher, err := h.postingService.PostVoucher(c.Request.Context(), shape, lines, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to post voucher")
		return
	}

	logger.Info("Voucher posted", slog.String("voucher_id", voucher.VoucherID), slog.String("voucher_number", voucher.VoucherNumber))
	c.JSON(http.StatusCreated, dto.ToVoucherResponse(voucher))
}

func (h *voucherHandler) getVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	voucher, err := h.postingService.GetVoucherByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve voucher")
		return
	}
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// listVouchers godoc
// @Summary List vouchers
// @Description Pages through vouchers newest first
// @Tags vouchers
// @Produce  json
// @Param   voucherType query string false "Voucher type filter"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListVouchersResponse
// @Router /vouchers [get]
func (h *voucherHandler) listVouchers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListVouchersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListVouchers", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.postingService.ListVouchers(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list vouchers")
		return
	}
	c.JSON(http.StatusOK, page)
}

// replaceVoucher godoc
// @Summary Replace a manual voucher
// @Description Swaps the complete entry set of a posted manual voucher in one step
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   id path string true "Voucher ID"
// @Param   voucher body dto.PostVoucherRequest true "New header and lines"
// @Success 200 {object} dto.VoucherResponse
// @Failure 409 {object} map[string]string "Voucher is owned by a booking or reversed"
// @Router /vouchers/{id} [put]
func (h *voucherHandler) replaceVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReplaceVoucher", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromContext(c)
	logger = logger.With(slog.String("actor", actor), slog.String("voucher_id", c.Param("id")))

	shape, lines := req.ToShapeAndLines()
	voucher, err := h.postingService.ReplaceVoucher(c.Request.Context(), c.Param("id"), shape, lines, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to replace voucher")
		return
	}

	logger.Info("Voucher replaced", slog.String("voucher_number", voucher.VoucherNumber))
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

func (h *voucherHandler) reverseVoucher(c *gin.Context) {
	actor := middleware.GetActorFromContext(c)
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("actor", actor), slog.String("voucher_id", c.Param("id")))

	reversal, err := h.postingService.ReverseVoucher(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to reverse voucher")
		return
	}

	logger.Info("Voucher reversed", slog.String("reversal_number", reversal.VoucherNumber))
	c.JSON(http.StatusCreated, dto.ToVoucherResponse(reversal))
}
