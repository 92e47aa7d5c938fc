package shared

import "fmt"

// DomainError represents a domain-level error.
// Code is stable and machine-readable; Details carries structured context such as
// the list of offending line names or a code mirrored from an external system.
type DomainError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so that sentinels work with errors.Is
// even when a copy carries different details.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetail returns a copy of the error with an extra detail entry.
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{Code: e.Code, Message: e.Message, Details: details}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes by category
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeNotFound           = "NOT_FOUND"
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeForbidden          = "FORBIDDEN"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodePrecondition       = "PRECONDITION_FAILED"
	CodeInvalidState       = "INVALID_STATE"
	CodeConcurrency        = "CONCURRENCY_CONFLICT"
	CodeExternal           = "EXTERNAL_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
	CodeLockNotAcquired    = "LOCK_NOT_ACQUIRED"
	CodeMissingERPCodes    = "MISSING_ERP_CODES"
	CodeCustomerMissingERP = "CUSTOMER_MISSING_TRDR"
	CodeERPBusinessError   = "ERP_BUSINESS_ERROR"
	CodeERPUnavailable     = "ERP_UNAVAILABLE"
	CodeInvalidStatus      = "INVALID_STATUS"
	CodeSourceRequired     = "SOURCE_REQUIRED"
	CodeNoLines            = "NO_LINES"
	CodeLeadAlreadyClosed  = "LEAD_ALREADY_CLOSED"
	CodeRuleTargetRequired = "RULE_TARGET_REQUIRED"
	CodeRuleTargetNotFound = "RULE_TARGET_NOT_FOUND"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrency, "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden           = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrLockNotAcquired     = NewDomainError(CodeLockNotAcquired, "Another operation on this document is in progress")
)

// NewValidationError creates a validation error. Validation errors are raised
// before any mutation or outbound call.
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// NewPreconditionError creates a precondition error with a specific code.
func NewPreconditionError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: map[string]any{"category": CodePrecondition},
	}
}

// NewForbiddenError creates an authorization error.
func NewForbiddenError(message string) *DomainError {
	return NewDomainError(CodeForbidden, message)
}

// NewNotFoundError creates a not-found error naming the missing resource.
func NewNotFoundError(resource string) *DomainError {
	return &DomainError{
		Code:    CodeNotFound,
		Message: resource + " not found",
		Details: map[string]any{"resource": resource},
	}
}
