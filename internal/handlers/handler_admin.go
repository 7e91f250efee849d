package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/agency_books/internal/core/ports/services"
	"github.com/SscSPs/agency_books/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maxImportBytes caps the size of an imported ledger document.
const maxImportBytes = 64 << 20

// adminHandler serves whole-ledger operations: export, import and remote sync.
type adminHandler struct {
	transferService portssvc.TransferService
	syncService     portssvc.SyncService
}

func newAdminHandler(ts portssvc.TransferService, ss portssvc.SyncService) *adminHandler {
	return &adminHandler{transferService: ts, syncService: ss}
}

func registerAdminRoutes(rg *gin.RouterGroup, ts portssvc.TransferService, ss portssvc.SyncService) {
	h := newAdminHandler(ts, ss)

	ledger := rg.Group("/ledger")
	{
		ledger.GET("/export", h.exportLedger)
		ledger.POST("/import", h.importLedger)
	}

	sync := rg.Group("/sync")
	{
		sync.POST("/push", h.push)
		sync.POST("/pull", h.pull)
		sync.GET("/runs", h.history)
	}
}

// exportLedger godoc
// @Summary Export the whole ledger
// @Description Returns the full snapshot as a JSON document that Import accepts unchanged
// @Tags admin
// @Produce json
// @Success 200 {object} domain.Snapshot
// @Router /ledger/export [get]
func (h *adminHandler) exportLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	data, err := h.transferService.Export(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to export ledger")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="ledger.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

// importLedger godoc
// @Summary Replace the whole ledger
// @Description Validates an exported document and swaps it in. A rejected document leaves the ledger untouched.
// @Tags admin
// @Accept json
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid document"
// @Router /ledger/import [post]
func (h *adminHandler) importLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		logger.Warn("Failed to read import body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	actor := middleware.GetActorFromContext(c)
	if err := h.transferService.Import(c.Request.Context(), data, actor); err != nil {
		respondError(c, logger, err, "Failed to import ledger")
		return
	}

	logger.Info("Ledger imported", slog.String("actor", actor), slog.Int("bytes", len(data)))
	c.Status(http.StatusNoContent)
}

func (h *adminHandler) push(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	run, err := h.syncService.Push(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to push ledger")
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *adminHandler) pull(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	run, err := h.syncService.Pull(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to pull ledger")
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *adminHandler) history(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a number"})
		return
	}

	runs, err := h.syncService.History(c.Request.Context(), limit)
	if err != nil {
		respondError(c, logger, err, "Failed to list sync runs")
		return
	}
	c.JSON(http.StatusOK, runs)
}
