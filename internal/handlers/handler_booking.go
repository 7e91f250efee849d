package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/agency_books/internal/core/domain"
	portssvc "github.com/SscSPs/agency_books/internal/core/ports/services"
	"github.com/SscSPs/agency_books/internal/dto"
	"github.com/SscSPs/agency_books/internal/middleware"
	"github.com/gin-gonic/gin"
)

// bookingHandler handles hotel, ticket, visa, transport and receipt entries.
type bookingHandler struct {
	bookingService portssvc.BookingSvcFacade
	postingService portssvc.VoucherReaderSvc
}

func newBookingHandler(bs portssvc.BookingSvcFacade, ps portssvc.VoucherReaderSvc) *bookingHandler {
	return &bookingHandler{bookingService: bs, postingService: ps}
}

// registerBookingRoutes registers routes related to bookings.
func registerBookingRoutes(rg *gin.RouterGroup, bookingService portssvc.BookingSvcFacade, postingService portssvc.VoucherReaderSvc) {
	h := newBookingHandler(bookingService, postingService)

	bookings := rg.Group("/bookings")
	{
		bookings.POST("", h.createBooking)
		bookings.GET("", h.listBookings)
		bookings.GET("/:id", h.getBooking)
		bookings.PUT("/:id", h.updateBooking)
		bookings.DELETE("/:id", h.deleteBooking)
	}
}

// respond attaches the owned voucher when it can be read.
func (h *bookingHandler) respond(c *gin.Context, status int, b *domain.Booking) {
	v, err := h.postingService.GetVoucherByID(c.Request.Context(), b.VoucherID)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Booking voucher unavailable", slog.String("voucher_id", b.VoucherID), slog.String("error", err.Error()))
		v = nil
	}
	c.JSON(status, dto.ToBookingResponse(b, v))
}

// createBooking godoc
// @Summary Record a booking
// @Description Stores the booking and posts the voucher derived from it
// @Tags bookings
// @Accept  json
// @Produce  json
// @Param   booking body dto.BookingRequest true "Booking kind and details"
// @Success 201 {object} dto.BookingResponse
// @Failure 400 {object} map[string]string "Invalid details"
// @Failure 404 {object} map[string]string "Unknown party or account"
// @Router /bookings [post]
func (h *bookingHandler) createBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBooking", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	details, err := req.ToDetails()
	if err != nil {
		respondError(c, logger, err, "Failed to create booking")
		return
	}

	actor := middleware.GetActorFromContext(c)
	logger = logger.With(slog.String("actor", actor), slog.String("booking_kind", string(req.Kind)))

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), details, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create booking")
		return
	}

	logger.Info("Booking recorded", slog.String("booking_id", booking.BookingID), slog.String("voucher_id", booking.VoucherID))
	h.respond(c, http.StatusCreated, booking)
}

func (h *bookingHandler) getBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	booking, err := h.bookingService.GetBookingByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve booking")
		return
	}
	h.respond(c, http.StatusOK, booking)
}

func (h *bookingHandler) listBookings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListBookingsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListBookings", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	bookings, err := h.bookingService.ListBookings(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list bookings")
		return
	}

	res := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		res[i] = dto.ToBookingResponse(&bookings[i], nil)
	}
	c.JSON(http.StatusOK, res)
}

// updateBooking godoc
// @Summary Edit a booking
// @Description Replaces the booking details and regenerates its voucher under the same number
// @Tags bookings
// @Accept  json
// @Produce  json
// @Param   id path string true "Booking ID"
// @Param   booking body dto.BookingRequest true "Booking kind and details"
// @Success 200 {object} dto.BookingResponse
// @Failure 409 {object} map[string]string "Voucher already reversed"
// @Router /bookings/{id} [put]
func (h *bookingHandler) updateBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateBooking", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	details, err := req.ToDetails()
	if err != nil {
		respondError(c, logger, err, "Failed to update booking")
		return
	}

	actor := middleware.GetActorFromContext(c)
	logger = logger.With(slog.String("actor", actor), slog.String("booking_id", c.Param("id")))

	booking, err := h.bookingService.UpdateBooking(c.Request.Context(), c.Param("id"), details, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to update booking")
		return
	}

	logger.Info("Booking updated")
	h.respond(c, http.StatusOK, booking)
}

func (h *bookingHandler) deleteBooking(c *gin.Context) {
	actor := middleware.GetActorFromContext(c)
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("actor", actor), slog.String("booking_id", c.Param("id")))

	if err := h.bookingService.DeleteBooking(c.Request.Context(), c.Param("id"), actor); err != nil {
		respondError(c, logger, err, "Failed to delete booking")
		return
	}

	logger.Info("Booking deleted")
	c.Status(http.StatusNoContent)
}
