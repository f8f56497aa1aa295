package dto

import (
	"time"

	"github.com/ledgerbook/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// PaymentDateLayouts are the accepted paymentDate formats, tried in order
var PaymentDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// CreatePaymentRequest records a payment against one parent record
type CreatePaymentRequest struct {
	PayableType   string           `json:"payableType" binding:"required,payable_type"`
	PayableID     string           `json:"payableId" binding:"required,uuid"`
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string           `json:"paymentMethod" binding:"required,payment_method"`
	PaymentDate   string           `json:"paymentDate" binding:"required"`
	Reference     string           `json:"reference" binding:"max=255"`
	Notes         string           `json:"notes" binding:"max=2000"`
}

// UpdatePaymentRequest replaces the editable fields of a payment.
// All three of amount, method and date are required.
type UpdatePaymentRequest struct {
	AmountPaid    *decimal.Decimal `json:"amountPaid" binding:"required"`
	PaymentMethod string           `json:"paymentMethod" binding:"required,payment_method"`
	PaymentDate   string           `json:"paymentDate" binding:"required"`
	Reference     string           `json:"reference" binding:"max=255"`
	Notes         string           `json:"notes" binding:"max=2000"`
}

// ListPaymentsQuery selects the payments of one parent record
type ListPaymentsQuery struct {
	PayableType string `form:"payableType" binding:"required,payable_type"`
	PayableID   string `form:"payableId" binding:"required,uuid"`
}

// PaymentMutationResponse is returned by every payment mutation
type PaymentMutationResponse struct {
	Message    string           `json:"message"`
	Success    bool             `json:"success"`
	Payment    *finance.Payment `json:"payment"`
	Entity     finance.Payable  `json:"entity"`
	EntityType string           `json:"entityType"`
}

// PaymentListResponse lists the payments of one parent
type PaymentListResponse struct {
	Success  bool              `json:"success"`
	Payments []finance.Payment `json:"payments"`
	Total    int               `json:"total"`
}

// PaymentResponse wraps a single payment
type PaymentResponse struct {
	Success bool             `json:"success"`
	Payment *finance.Payment `json:"payment"`
}
