package finance

import (
	"time"

	"github.com/ledgerbook/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// RecordPaymentCommand records a new payment against a parent record
type RecordPaymentCommand struct {
	Payable       finance.PayableRef
	Amount        decimal.Decimal
	PaymentMethod finance.PaymentMethod
	PaymentDate   time.Time
	Reference     string
	Notes         string
}

func (c RecordPaymentCommand) details() finance.PaymentDetails {
	return finance.PaymentDetails{
		Amount:        c.Amount,
		PaymentMethod: c.PaymentMethod,
		PaymentDate:   c.PaymentDate,
		Reference:     c.Reference,
		Notes:         c.Notes,
	}
}

// UpdatePaymentCommand replaces the editable fields of a payment
type UpdatePaymentCommand struct {
	Amount        decimal.Decimal
	PaymentMethod finance.PaymentMethod
	PaymentDate   time.Time
	Reference     string
	Notes         string
}

func (c UpdatePaymentCommand) details() finance.PaymentDetails {
	return finance.PaymentDetails{
		Amount:        c.Amount,
		PaymentMethod: c.PaymentMethod,
		PaymentDate:   c.PaymentDate,
		Reference:     c.Reference,
		Notes:         c.Notes,
	}
}

// PaymentResult is a payment together with its parent after recalculation
type PaymentResult struct {
	Payment    *finance.Payment
	Entity     finance.Payable
	EntityType string
}

func newPaymentResult(payment *finance.Payment, parent finance.Payable) *PaymentResult {
	return &PaymentResult{
		Payment:    payment,
		Entity:     parent,
		EntityType: parent.Ref().Kind.EntityType(),
	}
}
