package dto

import (
	"net/http"

	"github.com/ledgerbook/backend/internal/domain/shared"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRange is used when a report range cannot be resolved
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound = "ERR_NOT_FOUND"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Storage error codes. Both render as 500 but keep distinct messages.
const (
	ErrCodeDatabaseUnavailable = "ERR_DATABASE_UNAVAILABLE"
	ErrCodeTransactionTimeout  = "ERR_TRANSACTION_TIMEOUT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeValidationRange: http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound: http.StatusNotFound,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeDatabaseUnavailable: http.StatusInternalServerError,
	ErrCodeTransactionTimeout:  http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	shared.CodeNotFound:            ErrCodeNotFound,
	shared.CodeUnauthorized:        ErrCodeUnauthorized,
	shared.CodeValidation:          ErrCodeValidation,
	shared.CodeInvalidInput:        ErrCodeInvalidInput,
	shared.CodeDatabaseUnavailable: ErrCodeDatabaseUnavailable,
	shared.CodeTransactionTimeout:  ErrCodeTransactionTimeout,
	shared.CodeInternal:            ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes that are already in the API format or unknown are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
