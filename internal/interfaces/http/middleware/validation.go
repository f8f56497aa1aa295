package middleware

import (
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ledgerbook/backend/internal/domain/finance"
	"github.com/ledgerbook/backend/internal/infrastructure/logger"
	"github.com/ledgerbook/backend/internal/interfaces/http/dto"
)

// RequestIDHeader is the header carrying the request ID
const RequestIDHeader = "X-Request-ID"

var setupOnce sync.Once

// SetupValidator configures gin's validator with JSON field names and the ledger tags.
// It is safe to call more than once.
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// Use JSON tag names for field names in errors
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
		_ = v.RegisterValidation("payable_type", func(fl validator.FieldLevel) bool {
			_, err := finance.ParsePayableKind(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
			return finance.PaymentMethod(fl.Field().String()).IsValid()
		})
	})
}

// FormatValidationErrors formats validation errors into a standard response
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
			})
		}
	}

	return dto.NewValidationErrorResponse("", requestID, details)
}

// HandleValidationError returns a validation error response
func HandleValidationError(c *gin.Context, err error) {
	requestID := getRequestIDFromContext(c)
	if _, ok := err.(validator.ValidationErrors); !ok {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeInvalidJSON, "Request body is not valid JSON", requestID))
		return
	}
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, requestID))
}

// getRequestIDFromContext extracts request ID from gin context
func getRequestIDFromContext(c *gin.Context) string {
	if id := c.GetString(logger.GinRequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(RequestIDHeader)
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "uuid":
		return "must be a valid UUID"
	case "payable_type":
		return "must be one of: sale, quotation, purchase, loan, income, expense"
	case "payment_method":
		return "must be one of: CASH, BANK_TRANSFER, CARD, POS, MOBILE_MONEY, CHEQUE, OTHER"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}
