package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerbook/backend/internal/domain/shared"
	"github.com/ledgerbook/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how money moved
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodPOS          PaymentMethod = "POS"
	PaymentMethodMobileMoney  PaymentMethod = "MOBILE_MONEY"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCard, PaymentMethodPOS,
		PaymentMethodMobileMoney, PaymentMethodCheque, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Payment is a single movement of money against exactly one payable record
type Payment struct {
	shared.OwnedAggregateRoot
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	PaymentDate   time.Time       `json:"paymentDate"`
	Reference     string          `json:"reference,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Category      PaymentCategory `json:"category"`
	Payable       PayableRef      `json:"payable"`
}

// PaymentDetails are the user-editable fields of a payment
type PaymentDetails struct {
	Amount        decimal.Decimal
	PaymentMethod PaymentMethod
	PaymentDate   time.Time
	Reference     string
	Notes         string
}

// Validate checks the editable fields before they touch the ledger
func (d PaymentDetails) Validate() error {
	if !valueobject.Round2(d.Amount).IsPositive() {
		return shared.NewDomainError(shared.CodeValidation, "Amount must be greater than zero").
			WithDetail("amountPaid", "must be greater than zero")
	}
	if !d.PaymentMethod.IsValid() {
		return shared.NewDomainError(shared.CodeValidation, "Invalid payment method").
			WithDetail("paymentMethod", "is not a supported payment method")
	}
	if d.PaymentDate.IsZero() {
		return shared.NewDomainError(shared.CodeValidation, "Payment date is required").
			WithDetail("paymentDate", "is required")
	}
	return nil
}

// NewPayment creates a payment against parent, booked on the parent's ledger side
func NewPayment(userID uuid.UUID, parent Payable, details PaymentDetails) (*Payment, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if err := parent.Ref().Validate(); err != nil {
		return nil, shared.NewDomainError(shared.CodeValidation, err.Error())
	}
	if err := details.Validate(); err != nil {
		return nil, err
	}
	p := &Payment{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		Category:           parent.PaymentCategory(),
		Payable:            parent.Ref(),
	}
	p.apply(details)
	return p, nil
}

// Update replaces the editable fields of the payment
func (p *Payment) Update(details PaymentDetails) error {
	if err := details.Validate(); err != nil {
		return err
	}
	p.apply(details)
	p.Touch()
	p.IncrementVersion()
	return nil
}

func (p *Payment) apply(details PaymentDetails) {
	p.Amount = valueobject.Round2(details.Amount)
	p.PaymentMethod = details.PaymentMethod
	p.PaymentDate = details.PaymentDate
	p.Reference = strings.TrimSpace(details.Reference)
	p.Notes = strings.TrimSpace(details.Notes)
}

// Amounts returns the amount of every payment
func Amounts(payments []Payment) []decimal.Decimal {
	amounts := make([]decimal.Decimal, len(payments))
	for i := range payments {
		amounts[i] = payments[i].Amount
	}
	return amounts
}

// AmountsExcluding returns payment amounts without the payment identified by id
func AmountsExcluding(payments []Payment, id uuid.UUID) []decimal.Decimal {
	amounts := make([]decimal.Decimal, 0, len(payments))
	for i := range payments {
		if payments[i].ID == id {
			continue
		}
		amounts = append(amounts, payments[i].Amount)
	}
	return amounts
}
