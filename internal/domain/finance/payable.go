package finance

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ledgerbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PayableKind identifies which kind of ledger record a payment belongs to
type PayableKind string

const (
	PayableSale          PayableKind = "SALE"
	PayableQuotation     PayableKind = "QUOTATION"
	PayablePurchase      PayableKind = "PURCHASE"
	PayableLoan          PayableKind = "LOAN"
	PayableOtherIncome   PayableKind = "OTHER_INCOME"
	PayableOtherExpenses PayableKind = "OTHER_EXPENSES"
)

// AllPayableKinds lists every kind a payment can reference
var AllPayableKinds = []PayableKind{
	PayableSale, PayableQuotation, PayablePurchase,
	PayableLoan, PayableOtherIncome, PayableOtherExpenses,
}

// IsValid checks if the kind is a known PayableKind
func (k PayableKind) IsValid() bool {
	switch k {
	case PayableSale, PayableQuotation, PayablePurchase,
		PayableLoan, PayableOtherIncome, PayableOtherExpenses:
		return true
	}
	return false
}

// String returns the string representation of PayableKind
func (k PayableKind) String() string {
	return string(k)
}

// Label returns the lower-case noun used in user-facing messages
func (k PayableKind) Label() string {
	switch k {
	case PayableSale:
		return "sale"
	case PayableQuotation:
		return "quotation"
	case PayablePurchase:
		return "purchase"
	case PayableLoan:
		return "loan"
	case PayableOtherIncome:
		return "income record"
	case PayableOtherExpenses:
		return "expense"
	default:
		return string(k)
	}
}

// EntityType returns the short name clients use for the kind
func (k PayableKind) EntityType() string {
	switch k {
	case PayableOtherIncome:
		return "income"
	case PayableOtherExpenses:
		return "expense"
	default:
		return strings.ToLower(string(k))
	}
}

// ParsePayableKind parses a kind, accepting the short aliases used by clients
func ParsePayableKind(s string) (PayableKind, error) {
	switch s {
	case "SALE", "sale":
		return PayableSale, nil
	case "QUOTATION", "quotation":
		return PayableQuotation, nil
	case "PURCHASE", "purchase":
		return PayablePurchase, nil
	case "LOAN", "loan":
		return PayableLoan, nil
	case "OTHER_INCOME", "income":
		return PayableOtherIncome, nil
	case "OTHER_EXPENSES", "expense", "expenses":
		return PayableOtherExpenses, nil
	}
	return "", fmt.Errorf("unknown payable type %q", s)
}

// PayableRef points a payment at exactly one parent record.
// The pair replaces one nullable foreign key per parent kind.
type PayableRef struct {
	Kind PayableKind `json:"type"`
	ID   uuid.UUID   `json:"id"`
}

// NewPayableRef creates a validated reference
func NewPayableRef(kind PayableKind, id uuid.UUID) (PayableRef, error) {
	ref := PayableRef{Kind: kind, ID: id}
	if err := ref.Validate(); err != nil {
		return PayableRef{}, err
	}
	return ref, nil
}

// Validate checks both halves of the reference are set
func (r PayableRef) Validate() error {
	if !r.Kind.IsValid() {
		return fmt.Errorf("invalid payable type %q", r.Kind)
	}
	if r.ID == uuid.Nil {
		return fmt.Errorf("payable id is required")
	}
	return nil
}

// String returns "KIND:id"
func (r PayableRef) String() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}

// PaymentCategory is the ledger side of a payment
type PaymentCategory string

const (
	PaymentCategoryIncome  PaymentCategory = "INCOME"
	PaymentCategoryExpense PaymentCategory = "EXPENSE"
)

// IsValid checks if the category is known
func (c PaymentCategory) IsValid() bool {
	return c == PaymentCategoryIncome || c == PaymentCategoryExpense
}

// Payable is a ledger record that payments can be recorded against.
// Sale, Quotation, Purchase, Loan, IncomeRecord and Expense implement it.
type Payable interface {
	Ref() PayableRef
	OwnedBy(userID uuid.UUID) bool
	// PaymentCategory is the ledger side a payment against this record is booked on
	PaymentCategory() PaymentCategory
	// EnsureAcceptsPayments rejects payment mutations on frozen records
	EnsureAcceptsPayments() error
	// PaymentCap returns the total that payments may not exceed, if any
	PaymentCap() (decimal.Decimal, bool)
	// ApplyPayments recomputes derived paid/balance/status fields from the full payment set
	ApplyPayments(amounts []decimal.Decimal)
}

// ErrPaymentNotFound is returned when a payment does not exist or belongs to another user
var ErrPaymentNotFound = shared.NewDomainError(shared.CodeNotFound, "Payment not found")

// PayableNotFound is returned when a payment's parent does not exist or belongs to another user
func PayableNotFound(kind PayableKind) error {
	label := kind.Label()
	if label == "" {
		label = "record"
	}
	return shared.NewDomainError(shared.CodeNotFound,
		fmt.Sprintf("%s%s not found", strings.ToUpper(label[:1]), label[1:]))
}
