package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgerbook/backend/internal/domain/shared"
	"github.com/ledgerbook/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// IncomeRecord is income not tied to a sale or quotation
type IncomeRecord struct {
	shared.OwnedAggregateRoot
	Description string          `json:"description"`
	Category    string          `json:"category"`
	GrossAmount decimal.Decimal `json:"grossAmount"`
	Date        time.Time       `json:"date"`
	Payments    []Payment       `json:"payments,omitempty"`
}

// NewIncomeRecord creates an income record
func NewIncomeRecord(userID uuid.UUID, description, category string, gross decimal.Decimal, date time.Time) (*IncomeRecord, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	gross = valueobject.Round2(gross)
	if !gross.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Gross amount must be greater than zero")
	}
	return &IncomeRecord{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		Description:        description,
		Category:           category,
		GrossAmount:        gross,
		Date:               date,
	}, nil
}

// Ref implements Payable
func (r *IncomeRecord) Ref() PayableRef {
	return PayableRef{Kind: PayableOtherIncome, ID: r.ID}
}

// PaymentCategory implements Payable
func (r *IncomeRecord) PaymentCategory() PaymentCategory {
	return PaymentCategoryIncome
}

// EnsureAcceptsPayments implements Payable
func (r *IncomeRecord) EnsureAcceptsPayments() error {
	return nil
}

// PaymentCap implements Payable. Other income carries no balance.
func (r *IncomeRecord) PaymentCap() (decimal.Decimal, bool) {
	return decimal.Zero, false
}

// ApplyPayments implements Payable
func (r *IncomeRecord) ApplyPayments([]decimal.Decimal) {
	r.Touch()
}

// Expense is a business expense not tied to a purchase.
// A return expense records money coming back from an earlier expense.
type Expense struct {
	shared.OwnedAggregateRoot
	Description         string          `json:"description"`
	Category            string          `json:"category"`
	Amount              decimal.Decimal `json:"amount"`
	Date                time.Time       `json:"date"`
	IsReturn            bool            `json:"isReturn"`
	IsDeductible        bool            `json:"isDeductible"`
	DeductionPercentage decimal.Decimal `json:"deductionPercentage"`
	Payments            []Payment       `json:"payments,omitempty"`
}

// ExpenseCategoryOther is used when no category is given
const ExpenseCategoryOther = "OTHER"

var hundred = decimal.NewFromInt(100)

// NewExpense creates an expense; deductible expenses default to 100% deduction
func NewExpense(userID uuid.UUID, description, category string, amount decimal.Decimal, date time.Time) (*Expense, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	amount = valueobject.Round2(amount)
	if !amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Amount must be greater than zero")
	}
	if category == "" {
		category = ExpenseCategoryOther
	}
	return &Expense{
		OwnedAggregateRoot:  shared.NewOwnedAggregateRoot(userID),
		Description:         description,
		Category:            category,
		Amount:              amount,
		Date:                date,
		DeductionPercentage: hundred,
	}, nil
}

// SetDeductible marks the expense deductible at the given percentage (0-100)
func (e *Expense) SetDeductible(percentage decimal.Decimal) error {
	if percentage.IsNegative() || percentage.GreaterThan(hundred) {
		return shared.NewDomainError(shared.CodeValidation, "Deduction percentage must be between 0 and 100")
	}
	e.IsDeductible = true
	e.DeductionPercentage = percentage
	return nil
}

// DeductibleSplit splits an amount into its deductible and non-deductible parts
func (e *Expense) DeductibleSplit(amount decimal.Decimal) (deductible, nonDeductible decimal.Decimal) {
	amount = valueobject.Round2(amount)
	if !e.IsDeductible {
		return decimal.Zero, amount
	}
	deductible = valueobject.Percentage(amount, e.DeductionPercentage)
	return deductible, valueobject.Round2(amount.Sub(deductible))
}

// Ref implements Payable
func (e *Expense) Ref() PayableRef {
	return PayableRef{Kind: PayableOtherExpenses, ID: e.ID}
}

// PaymentCategory implements Payable
func (e *Expense) PaymentCategory() PaymentCategory {
	return PaymentCategoryExpense
}

// EnsureAcceptsPayments implements Payable
func (e *Expense) EnsureAcceptsPayments() error {
	return nil
}

// PaymentCap implements Payable. Other expenses carry no balance.
func (e *Expense) PaymentCap() (decimal.Decimal, bool) {
	return decimal.Zero, false
}

// ApplyPayments implements Payable
func (e *Expense) ApplyPayments([]decimal.Decimal) {
	e.Touch()
}

var (
	_ Payable = (*IncomeRecord)(nil)
	_ Payable = (*Expense)(nil)
)
