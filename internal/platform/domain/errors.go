// Package domain holds the error types and shared value constants used across
// the booking service.
package domain

import (
	"errors"
	"fmt"
)

// CurrencyEGP is the currency every yacht price is quoted in.
const CurrencyEGP = "EGP"

// ValidationError reports input that was rejected before reaching the ledger.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError creates a ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// InvalidStateError reports a transition the state machine does not allow.
type InvalidStateError struct {
	From string
	To   string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

// NewInvalidStateError creates an InvalidStateError.
func NewInvalidStateError(from, to string) *InvalidStateError {
	return &InvalidStateError{From: from, To: to}
}

// ConflictError reports a concurrent modification.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NewConflictError creates a ConflictError.
func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// ForbiddenError reports an action the session is not allowed to perform.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// NewForbiddenError creates a ForbiddenError.
func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

// BusinessRuleError carries a rejection decided by the ledger. The message is
// shown to the user verbatim.
type BusinessRuleError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessRuleError) Error() string { return e.Message }

// Unwrap returns the classified cause, if any.
func (e *BusinessRuleError) Unwrap() error { return e.Err }

// NewBusinessRuleError creates a BusinessRuleError.
func NewBusinessRuleError(message string) *BusinessRuleError {
	return &BusinessRuleError{Message: message}
}

// NewRejection creates a BusinessRuleError with a machine-readable code and a
// cause that errors.Is can match.
func NewRejection(code, message string, cause error) *BusinessRuleError {
	return &BusinessRuleError{Code: code, Message: message, Err: cause}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsBusinessRule reports whether err is or wraps a BusinessRuleError.
func IsBusinessRule(err error) bool {
	var target *BusinessRuleError
	return errors.As(err, &target)
}
