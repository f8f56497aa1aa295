package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches domain errors by code so that sentinel comparisons work
// against errors created with a different message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetail returns a copy of the error carrying an extra field detail
func (e *DomainError) WithDetail(field, message string) *DomainError {
	details := make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[field] = message
	return &DomainError{Code: e.Code, Message: e.Message, Details: details, cause: e.cause}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error that keeps the causing error for logging
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error codes
const (
	CodeNotFound            = "NOT_FOUND"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeValidation          = "VALIDATION_ERROR"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeDatabaseUnavailable = "DATABASE_UNAVAILABLE"
	CodeTransactionTimeout  = "TRANSACTION_TIMEOUT"
	CodeInternal            = "INTERNAL_ERROR"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrValidation          = NewDomainError(CodeValidation, "Validation failed")
	ErrInvalidInput        = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrDatabaseUnavailable = NewDomainError(CodeDatabaseUnavailable, "Unable to reach the database. Please try again shortly.")
	ErrTransactionTimeout  = NewDomainError(CodeTransactionTimeout, "The operation timed out. Please retry.")
	ErrInternal            = NewDomainError(CodeInternal, "An unexpected error occurred")
)

// AsDomainError extracts a DomainError from an error chain
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
