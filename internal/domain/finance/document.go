package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerbook/backend/internal/domain/shared"
	"github.com/ledgerbook/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PayableDocument holds the fields shared by sales, quotations and purchases.
// amountPaid and balance are derived from Payments by ApplyPayments.
type PayableDocument struct {
	shared.OwnedAggregateRoot
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	AmountPaid   decimal.Decimal `json:"amountPaid"`
	Balance      decimal.Decimal `json:"balance"`
	Status       DocumentStatus  `json:"status"`
	RefundAmount decimal.Decimal `json:"refundAmount"`
	RefundDate   *time.Time      `json:"refundDate,omitempty"`
	RefundReason string          `json:"refundReason,omitempty"`
	Payments     []Payment       `json:"payments,omitempty"`

	kind PayableKind
}

func newPayableDocument(kind PayableKind, userID uuid.UUID, total decimal.Decimal, status DocumentStatus) (PayableDocument, error) {
	if userID == uuid.Nil {
		return PayableDocument{}, shared.ErrUnauthorized
	}
	total = valueobject.Round2(total)
	if !total.IsPositive() {
		return PayableDocument{}, shared.NewDomainError(shared.CodeValidation,
			fmt.Sprintf("Total amount of a %s must be greater than zero", kind.Label()))
	}
	return PayableDocument{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		TotalAmount:        total,
		AmountPaid:         decimal.Zero,
		Balance:            total,
		Status:             status,
		RefundAmount:       decimal.Zero,
		kind:               kind,
	}, nil
}

// SetKind is used by persistence when rehydrating a document
func (d *PayableDocument) SetKind(kind PayableKind) {
	d.kind = kind
}

// Kind returns the payable kind of the document
func (d *PayableDocument) Kind() PayableKind {
	return d.kind
}

// Ref implements Payable
func (d *PayableDocument) Ref() PayableRef {
	return PayableRef{Kind: d.kind, ID: d.ID}
}

// PaymentCategory implements Payable
func (d *PayableDocument) PaymentCategory() PaymentCategory {
	if d.kind == PayablePurchase {
		return PaymentCategoryExpense
	}
	return PaymentCategoryIncome
}

// EnsureAcceptsPayments implements Payable
func (d *PayableDocument) EnsureAcceptsPayments() error {
	if d.Status.IsRefundState() {
		return frozenError(d.kind)
	}
	if d.Status.IsClosedQuotation() {
		return shared.NewDomainError(shared.CodeValidation,
			fmt.Sprintf("Cannot record payments against a %s %s", string(d.Status), d.kind.Label()))
	}
	return nil
}

// PaymentCap implements Payable
func (d *PayableDocument) PaymentCap() (decimal.Decimal, bool) {
	return d.TotalAmount, true
}

// Snapshot returns the recalculation input for the document
func (d *PayableDocument) Snapshot() PayableSnapshot {
	return PayableSnapshot{
		TotalAmount:  d.TotalAmount,
		RefundAmount: d.RefundAmount,
		Status:       d.Status,
	}
}

// ApplyPayments implements Payable
func (d *PayableDocument) ApplyPayments(amounts []decimal.Decimal) {
	r := Recalculate(d.Snapshot(), amounts)
	d.AmountPaid = r.AmountPaid
	d.Balance = r.Balance
	d.Status = r.Status
	d.Touch()
	d.IncrementVersion()
}

// ApplyRefund moves the document into a refund state.
// A refund covering everything paid is REFUNDED, anything less is PARTIALLY_REFUNDED.
func (d *PayableDocument) ApplyRefund(amount decimal.Decimal, at time.Time, reason string) error {
	amount = valueobject.Round2(amount)
	if !amount.IsPositive() {
		return shared.NewDomainError(shared.CodeValidation, "Refund amount must be greater than zero")
	}
	if amount.GreaterThan(d.AmountPaid) {
		return shared.NewDomainError(shared.CodeValidation,
			fmt.Sprintf("Refund cannot exceed the amount paid (%s)", valueobject.FormatNaira(d.AmountPaid)))
	}
	d.RefundAmount = amount
	d.RefundDate = &at
	d.RefundReason = reason
	if amount.Equal(d.AmountPaid) {
		d.Status = StatusRefunded
	} else {
		d.Status = StatusPartiallyRefunded
	}
	d.Touch()
	d.IncrementVersion()
	return nil
}

// NetAmount is the total less refunds
func (d *PayableDocument) NetAmount() decimal.Decimal {
	return valueobject.Round2(d.TotalAmount.Sub(d.RefundAmount))
}

// PaymentAmounts returns the amounts of the loaded payments
func (d *PayableDocument) PaymentAmounts() []decimal.Decimal {
	return Amounts(d.Payments)
}

// VAT holds value-added-tax details carried by sales documents
type VAT struct {
	Rate   decimal.Decimal `json:"vatRate"`
	Amount decimal.Decimal `json:"vatAmount"`
}

// Sale is a completed sale to a customer
type Sale struct {
	PayableDocument
	VAT
	SaleDate      time.Time `json:"saleDate"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	Description   string    `json:"description,omitempty"`
}

// NewSale creates an unpaid sale
func NewSale(userID uuid.UUID, customerName string, total decimal.Decimal, saleDate time.Time) (*Sale, error) {
	doc, err := newPayableDocument(PayableSale, userID, total, StatusUnpaid)
	if err != nil {
		return nil, err
	}
	return &Sale{PayableDocument: doc, SaleDate: saleDate, CustomerName: customerName}, nil
}

// Quotation is an offer to a customer that becomes payable once accepted.
// DRAFT and SENT quotations move to a payment status on their first payment.
type Quotation struct {
	PayableDocument
	VAT
	IssueDate     time.Time  `json:"issueDate"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty"`
	CustomerName  string     `json:"customerName"`
	CustomerEmail string     `json:"customerEmail,omitempty"`
	Description   string     `json:"description,omitempty"`
}

// NewQuotation creates a draft quotation
func NewQuotation(userID uuid.UUID, customerName string, total decimal.Decimal, issueDate time.Time) (*Quotation, error) {
	doc, err := newPayableDocument(PayableQuotation, userID, total, StatusDraft)
	if err != nil {
		return nil, err
	}
	return &Quotation{PayableDocument: doc, IssueDate: issueDate, CustomerName: customerName}, nil
}

// Purchase is goods or services bought from a supplier
type Purchase struct {
	PayableDocument
	PurchaseDate time.Time `json:"purchaseDate"`
	SupplierName string    `json:"supplierName"`
	Description  string    `json:"description,omitempty"`
}

// NewPurchase creates an unpaid purchase
func NewPurchase(userID uuid.UUID, supplierName string, total decimal.Decimal, purchaseDate time.Time) (*Purchase, error) {
	doc, err := newPayableDocument(PayablePurchase, userID, total, StatusUnpaid)
	if err != nil {
		return nil, err
	}
	return &Purchase{PayableDocument: doc, PurchaseDate: purchaseDate, SupplierName: supplierName}, nil
}

var (
	_ Payable = (*Sale)(nil)
	_ Payable = (*Quotation)(nil)
	_ Payable = (*Purchase)(nil)
)
