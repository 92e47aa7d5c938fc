package dto

import (
	"net/http"

	"github.com/erp/proposals/internal/domain/shared"
)

// Codes produced by the HTTP layer itself. Domain errors keep their own code.
const (
	ErrCodeInternal        = "ERR_INTERNAL"
	ErrCodeValidation      = shared.CodeValidation
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeUnauthorized    = shared.CodeUnauthorized
	ErrCodeForbidden       = shared.CodeForbidden
	ErrCodeNotFound        = shared.CodeNotFound
	ErrCodeTokenExpired    = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid    = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked    = "ERR_TOKEN_REVOKED"
	ErrCodeRateLimited     = "ERR_RATE_LIMITED"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	ErrCodeUnavailable     = "ERR_SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	shared.CodeInternal: http.StatusInternalServerError,

	// Validation -> 400
	shared.CodeValidation:      http.StatusBadRequest,
	shared.CodeInvalidInput:    http.StatusBadRequest,
	shared.CodeMissingERPCodes: http.StatusBadRequest,
	shared.CodeInvalidStatus:   http.StatusBadRequest,
	shared.CodeSourceRequired:  http.StatusBadRequest,
	shared.CodeNoLines:         http.StatusBadRequest,
	ErrCodeBadRequest:          http.StatusBadRequest,
	ErrCodeInvalidJSON:         http.StatusBadRequest,

	// Authentication and authorization
	shared.CodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired:     http.StatusUnauthorized,
	ErrCodeTokenInvalid:     http.StatusUnauthorized,
	ErrCodeTokenRevoked:     http.StatusUnauthorized,
	shared.CodeForbidden:    http.StatusForbidden,

	// Resources
	shared.CodeNotFound:          http.StatusNotFound,
	shared.CodeAlreadyExists:     http.StatusConflict,
	shared.CodeConcurrency:       http.StatusConflict,
	shared.CodeLockNotAcquired:   http.StatusConflict,
	shared.CodeLeadAlreadyClosed: http.StatusConflict,

	// Preconditions -> 412
	shared.CodePrecondition:       http.StatusPreconditionFailed,
	shared.CodeCustomerMissingERP: http.StatusPreconditionFailed,
	shared.CodeRuleTargetRequired: http.StatusPreconditionFailed,
	shared.CodeRuleTargetNotFound: http.StatusPreconditionFailed,

	// Lifecycle
	shared.CodeInvalidState: http.StatusUnprocessableEntity,

	// External systems -> 502
	shared.CodeExternal:         http.StatusBadGateway,
	shared.CodeERPBusinessError: http.StatusBadGateway,
	shared.CodeERPUnavailable:   http.StatusBadGateway,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeUnavailable:     http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorStatus returns the HTTP status of a domain error. Codes without
// an explicit mapping fall back to their category detail.
func DomainErrorStatus(err *shared.DomainError) int {
	if status, ok := ErrorCodeHTTPStatus[err.Code]; ok {
		return status
	}
	if category, ok := err.Details["category"].(string); ok {
		if status, ok := ErrorCodeHTTPStatus[category]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}
