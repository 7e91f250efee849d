package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/agency_books/internal/core/ports/services"
	"github.com/SscSPs/agency_books/internal/dto"
	"github.com/SscSPs/agency_books/internal/middleware"
	"github.com/gin-gonic/gin"
)

// partyHandler handles HTTP requests related to customers and vendors.
type partyHandler struct {
	partyService portssvc.PartySvcFacade
}

func newPartyHandler(ps portssvc.PartySvcFacade) *partyHandler {
	return &partyHandler{partyService: ps}
}

// registerPartyRoutes registers routes related to parties.
func registerPartyRoutes(rg *gin.RouterGroup, partyService portssvc.PartySvcFacade) {
	h := newPartyHandler(partyService)

	parties := rg.Group("/parties")
	{
		parties.POST("", h.createParty)
		parties.GET("", h.listParties)
		parties.GET("/:id", h.getParty)
		parties.PUT("/:id", h.updateParty)
		parties.POST("/:id/deactivate", h.deactivateParty)
		parties.DELETE("/:id", h.deleteParty)
	}
}

// createParty godoc
// @Summary Register a customer or vendor
// @Description Assigns the next CUS- or VEN- code of the party's kind
// @Tags parties
// @Accept  json
// @Produce  json
// @Param   party body dto.CreatePartyRequest true "Party details"
// @Success 201 {object} dto.PartyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /parties [post]
func (h *partyHandler) createParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateParty", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromContext(c)
	logger = logger.With(slog.String("actor", actor), slog.String("party_kind", string(req.Kind)))

	party, err := h.partyService.CreateParty(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create party")
		return
	}

	logger.Info("Party created successfully", slog.String("party_id", party.PartyID), slog.String("code", party.Code))
	c.JSON(http.StatusCreated, dto.ToPartyResponse(party))
}

func (h *partyHandler) getParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	party, err := h.partyService.GetPartyByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve party")
		return
	}
	c.JSON(http.StatusOK, dto.ToPartyResponse(party))
}

func (h *partyHandler) listParties(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListPartiesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListParties", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	parties, err := h.partyService.ListParties(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list parties")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPartyResponse(parties))
}

func (h *partyHandler) updateParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateParty", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor := middleware.GetActorFromContext(c)
	logger = logger.With(slog.String("target_party_id", c.Param("id")), slog.String("actor", actor))

	party, err := h.partyService.UpdateParty(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to update party")
		return
	}

	logger.Info("Party updated successfully")
	c.JSON(http.StatusOK, dto.ToPartyResponse(party))
}

func (h *partyHandler) deactivateParty(c *gin.Context) {
	actor := middleware.GetActorFromContext(c)
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("target_party_id", c.Param("id")))

	if err := h.partyService.DeactivateParty(c.Request.Context(), c.Param("id"), actor); err != nil {
		respondError(c, logger, err, "Failed to deactivate party")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *partyHandler) deleteParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("target_party_id", c.Param("id")))

	if err := h.partyService.DeleteParty(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, logger, err, "Failed to delete party")
		return
	}

	logger.Info("Party deleted")
	c.Status(http.StatusNoContent)
}
