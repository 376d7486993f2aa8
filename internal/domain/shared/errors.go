package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same error code, so that
// errors.Is(err, ErrPermissionDenied) matches any PERMISSION_DENIED error.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes shared by every bounded context
const (
	CodeNotFound               = "NOT_FOUND"
	CodeAlreadyExists          = "ALREADY_EXISTS"
	CodeValidation             = "VALIDATION_ERROR"
	CodeConcurrencyConflict    = "CONCURRENCY_CONFLICT"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodePermissionDenied       = "PERMISSION_DENIED"
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeQuantityExceeded       = "QUANTITY_EXCEEDED"
)

// Common domain errors
var (
	ErrNotFound               = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists          = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrValidation             = NewDomainError(CodeValidation, "Invalid input provided")
	ErrConcurrencyConflict    = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrUnauthorized           = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrPermissionDenied       = NewDomainError(CodePermissionDenied, "Actor lacks the permission required for this action")
	ErrInvalidStateTransition = NewDomainError(CodeInvalidStateTransition, "Operation not allowed in current state")
	ErrQuantityExceeded       = NewDomainError(CodeQuantityExceeded, "Quantity exceeds the permitted amount")
)

// NewValidationError creates a VALIDATION_ERROR with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewInvalidStateTransitionError creates an INVALID_STATE_TRANSITION error
func NewInvalidStateTransitionError(message string) *DomainError {
	return NewDomainError(CodeInvalidStateTransition, message)
}

// NewQuantityExceededError creates a QUANTITY_EXCEEDED error
func NewQuantityExceededError(message string) *DomainError {
	return NewDomainError(CodeQuantityExceeded, message)
}

// NewPermissionDeniedError creates a PERMISSION_DENIED error
func NewPermissionDeniedError(message string) *DomainError {
	return NewDomainError(CodePermissionDenied, message)
}

// NewNotFoundError creates a NOT_FOUND error for the given resource
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError(CodeNotFound, resource+" not found")
}
