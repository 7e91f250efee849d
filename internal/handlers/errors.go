package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/gin-gonic/gin"
)

const dateFormat = "2006-01-02"

// statusForError maps service errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrReferentialIntegrity):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrSync):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Client errors carry the service message;
// anything unexpected is logged and answered with the generic fallback.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter.
func parseDateQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateFormat, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// dateQueryOr reads a YYYY-MM-DD query parameter, falling back when it is absent.
func dateQueryOr(c *gin.Context, key string, fallback time.Time) (time.Time, error) {
	t, err := parseDateQuery(c, key)
	if err != nil || t == nil {
		return fallback, err
	}
	return *t, nil
}
