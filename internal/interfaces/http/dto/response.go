package dto

import (
	"maps"
	"slices"
)

// Response represents a standard API response
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail describes a single rejected field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DetailsFromMap converts domain field details into a stable, field-sorted list
func DetailsFromMap(m map[string]string) []ValidationDetail {
	if len(m) == 0 {
		return nil
	}
	details := make([]ValidationDetail, 0, len(m))
	for _, field := range slices.Sorted(maps.Keys(m)) {
		details = append(details, ValidationDetail{Field: field, Message: m[field]})
	}
	return details
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithRequestID creates an error response carrying the request id
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	resp := NewErrorResponse(code, message)
	resp.Error.RequestID = requestID
	return resp
}

// NewValidationErrorResponse creates a 400 response listing every rejected field.
// The message is the first field error so clients can surface it directly.
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	if message == "" && len(details) > 0 {
		message = details[0].Field + " " + details[0].Message
	}
	if message == "" {
		message = "Validation failed"
	}
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      ErrCodeValidation,
			Message:   message,
			RequestID: requestID,
			Details:   details,
		},
	}
}

// IDRequest represents a request with an ID path parameter
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}
