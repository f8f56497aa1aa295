package finance

import (
	"fmt"

	"github.com/ledgerbook/backend/internal/domain/shared"
	"github.com/ledgerbook/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PayableSnapshot is the state of a payable document needed to recalculate it
type PayableSnapshot struct {
	TotalAmount  decimal.Decimal
	RefundAmount decimal.Decimal
	Status       DocumentStatus
}

// Recalculation is the derived state after a payment mutation
type Recalculation struct {
	AmountPaid decimal.Decimal
	Balance    decimal.Decimal
	Status     DocumentStatus
}

// Recalculate derives amountPaid, balance and status from the complete payment set.
// Refund amounts are not subtracted from the balance. A refunded (or closed)
// document keeps its status; only the bookkeeping fields move.
func Recalculate(snapshot PayableSnapshot, payments []decimal.Decimal) Recalculation {
	amountPaid := valueobject.Sum(payments...)
	balance := valueobject.Round2(snapshot.TotalAmount.Sub(amountPaid))

	status := snapshot.Status
	if status.AcceptsPayments() {
		status = DerivePaymentStatus(amountPaid, snapshot.TotalAmount)
	}

	return Recalculation{
		AmountPaid: amountPaid,
		Balance:    balance,
		Status:     status,
	}
}

// DerivePaymentStatus maps a paid amount against a total onto UNPAID/PARTIALLY_PAID/PAID
func DerivePaymentStatus(amountPaid, totalAmount decimal.Decimal) DocumentStatus {
	switch {
	case amountPaid.GreaterThanOrEqual(totalAmount):
		return StatusPaid
	case amountPaid.IsPositive():
		return StatusPartiallyPaid
	default:
		return StatusUnpaid
	}
}

// MaxEditableAmount is the largest amount a payment may carry given the other payments
func MaxEditableAmount(total decimal.Decimal, others []decimal.Decimal) decimal.Decimal {
	return valueobject.Round2(total.Sub(valueobject.Sum(others...)))
}

// CheckPaymentAmount validates a new or edited payment amount against its parent.
// others holds every other payment of the parent, excluding the one being written.
func CheckPaymentAmount(parent Payable, amount decimal.Decimal, others []decimal.Decimal) error {
	amount = valueobject.Round2(amount)
	if !amount.IsPositive() {
		return shared.NewDomainError(shared.CodeValidation, "Amount must be greater than zero").
			WithDetail("amountPaid", "must be greater than zero")
	}

	limit, capped := parent.PaymentCap()
	if !capped {
		return nil
	}
	maxAllowed := MaxEditableAmount(limit, others)
	if amount.GreaterThan(maxAllowed) {
		msg := fmt.Sprintf("Amount exceeds the remaining balance. Maximum allowed amount is %s",
			valueobject.FormatNaira(decimal.Max(maxAllowed, decimal.Zero)))
		return shared.NewDomainError(shared.CodeValidation, msg).
			WithDetail("amountPaid", fmt.Sprintf("must not exceed %s", maxAllowed.StringFixed(valueobject.MoneyPlaces)))
	}
	return nil
}

func frozenError(kind PayableKind) error {
	return shared.NewDomainError(shared.CodeValidation,
		fmt.Sprintf("Cannot modify payments of a refunded %s", kind.Label()))
}
