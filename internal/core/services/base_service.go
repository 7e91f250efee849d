package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// isCallerError reports whether err was caused by the request rather than by the ledger or its storage.
func isCallerError(err error) bool {
	for _, target := range []error{
		apperrors.ErrValidation,
		apperrors.ErrNotFound,
		apperrors.ErrDuplicate,
		apperrors.ErrConflict,
		apperrors.ErrReferentialIntegrity,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// LogError logs a failed operation. Rejected requests are logged as warnings, everything else as errors.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)

	logger := s.GetLogger(ctx)
	if isCallerError(err) {
		logger.Warn(msg, args...)
		return
	}
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}
