package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/agency_books/internal/core/ports/services"
	"github.com/SscSPs/agency_books/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	// Health reports whether the last snapshot save succeeded
	r.GET("/health", func(c *gin.Context) {
		status := "OK"
		if services.State != nil && services.State.Dirty() {
			status = "DEGRADED: unsaved changes"
		}
		c.String(http.StatusOK, status)
	})

	v1 := r.Group("/api/v1", middleware.ActorMiddleware())
	setupAPIV1Routes(v1, services)
}

// setupAPIV1Routes delegates to specific entity route registrations
func setupAPIV1Routes(v1 *gin.RouterGroup, service *portssvc.ServiceContainer) {
	RegisterAccountRoutes(v1, service.Account)
	registerPartyRoutes(v1, service.Party)
	registerExchangeRateRoutes(v1, service.ExchangeRate)
	RegisterVoucherRoutes(v1, service.Posting)
	registerBookingRoutes(v1, service.Booking, service.Posting)
	RegisterReportingRoutes(v1, service.Ledger, service.Reporting, service.Integrity)
	registerAdminRoutes(v1, service.Transfer, service.Sync)
}
