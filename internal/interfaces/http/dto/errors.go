package dto

import (
	"net/http"

	"github.com/fieldsales/erp/internal/domain/shared"
)

// Transport-level error codes. Domain errors keep their own codes
// (shared.Code*) on the wire.
const (
	ErrCodeInternal        = "ERR_INTERNAL"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	ErrCodeTokenExpired    = "ERR_TOKEN_EXPIRED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeTokenExpired:    http.StatusUnauthorized,

	// Domain codes
	shared.CodeValidation:             http.StatusBadRequest,
	shared.CodeUnauthorized:           http.StatusUnauthorized,
	shared.CodePermissionDenied:       http.StatusForbidden,
	shared.CodeNotFound:               http.StatusNotFound,
	shared.CodeAlreadyExists:          http.StatusConflict,
	shared.CodeConcurrencyConflict:    http.StatusConflict,
	shared.CodeInvalidStateTransition: http.StatusUnprocessableEntity,
	shared.CodeQuantityExceeded:       http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are treated as internal errors.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
