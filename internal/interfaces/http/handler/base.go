package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgerbook/backend/internal/domain/shared"
	"github.com/ledgerbook/backend/internal/infrastructure/logger"
	"github.com/ledgerbook/backend/internal/interfaces/http/dto"
	"github.com/ledgerbook/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(logger.GinRequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// caller returns the authenticated caller or writes a 401 and reports false
func (h *BaseHandler) caller(c *gin.Context) (shared.Caller, bool) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return shared.Caller{}, false
	}
	return caller, true
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, message string, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(message, getRequestID(c), details))
}

// HandleError converts an error into the standard error envelope.
// Domain errors keep their code and message; validation errors also carry field details.
// Anything else becomes a generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		logger.L(c.Request.Context()).Error("unhandled error", zap.Error(err))
		h.InternalError(c, "An unexpected error occurred")
		return
	}

	code := dto.NormalizeErrorCode(domainErr.Code)
	statusCode := dto.GetHTTPStatus(code)
	if statusCode >= http.StatusInternalServerError {
		logger.L(c.Request.Context()).Error("request failed",
			zap.String("code", domainErr.Code),
			zap.Error(err),
			zap.NamedError("cause", errors.Unwrap(domainErr)),
		)
	}

	if code == dto.ErrCodeValidation {
		h.ValidationError(c, domainErr.Message, dto.DetailsFromMap(domainErr.Details))
		return
	}
	h.Error(c, statusCode, code, domainErr.Message)
}
