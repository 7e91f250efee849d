package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
// Unbalanced vouchers and references to unknown accounts or parties are validation errors.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation conflicts with the current state of the resource,
// e.g. replacing a voucher that has already been reversed.
var ErrConflict = errors.New("resource state conflict")

// ErrReferentialIntegrity indicates a delete was attempted on an account or party that is still
// referenced by voucher entries. Callers should deactivate instead.
var ErrReferentialIntegrity = errors.New("resource is still referenced")

// ErrSync indicates a remote push or pull failed. Local state stays authoritative.
var ErrSync = errors.New("remote synchronization failed")

// ErrCorruption marks an integrity check that found the ledger out of balance.
var ErrCorruption = errors.New("ledger integrity violation")

// AppError carries a status-like code alongside the wrapped cause.
// Repositories use it for infrastructure failures.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
