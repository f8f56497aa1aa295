package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerbook/backend/internal/domain/shared"
	"github.com/ledgerbook/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LoanType says which way the loan runs
type LoanType string

const (
	LoanReceivable LoanType = "RECEIVABLE" // money lent out by the business
	LoanPayable    LoanType = "PAYABLE"    // money borrowed by the business
)

// IsValid checks if the loan type is valid
func (t LoanType) IsValid() bool {
	return t == LoanReceivable || t == LoanPayable
}

// PaymentFrequency is the repayment cadence of a loan
type PaymentFrequency string

const (
	FrequencyWeekly    PaymentFrequency = "WEEKLY"
	FrequencyMonthly   PaymentFrequency = "MONTHLY"
	FrequencyQuarterly PaymentFrequency = "QUARTERLY"
	FrequencyAnnually  PaymentFrequency = "ANNUALLY"
	FrequencyOneOff    PaymentFrequency = "ONE_OFF"
)

// IsValid checks if the frequency is valid
func (f PaymentFrequency) IsValid() bool {
	switch f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyAnnually, FrequencyOneOff:
		return true
	}
	return false
}

// TermUnit is the unit of a loan term
type TermUnit string

const (
	TermDays   TermUnit = "DAYS"
	TermWeeks  TermUnit = "WEEKS"
	TermMonths TermUnit = "MONTHS"
	TermYears  TermUnit = "YEARS"
)

// IsValid checks if the term unit is valid
func (u TermUnit) IsValid() bool {
	switch u {
	case TermDays, TermWeeks, TermMonths, TermYears:
		return true
	}
	return false
}

// LoanFees are one-off charges added to what is repayable
type LoanFees struct {
	Processing decimal.Decimal `json:"processingFee"`
	Management decimal.Decimal `json:"managementFee"`
	Insurance  decimal.Decimal `json:"insuranceFee"`
	Other      decimal.Decimal `json:"otherFees"`
}

// Total sums all fees
func (f LoanFees) Total() decimal.Decimal {
	return valueobject.Sum(f.Processing, f.Management, f.Insurance, f.Other)
}

// Loan is money lent or borrowed, repaid through payments
type Loan struct {
	shared.OwnedAggregateRoot
	LoanType         LoanType         `json:"loanType"`
	Counterparty     string           `json:"counterparty"`
	PrincipalAmount  decimal.Decimal  `json:"principalAmount"`
	InterestRate     decimal.Decimal  `json:"interestRate"`
	Fees             LoanFees         `json:"fees"`
	PaymentFrequency PaymentFrequency `json:"paymentFrequency"`
	Term             int              `json:"term"`
	TermUnit         TermUnit         `json:"termUnit"`
	StartDate        time.Time        `json:"startDate"`
	Status           LoanStatus       `json:"status"`
	AmountPaid       decimal.Decimal  `json:"amountPaid"`
	Payments         []Payment        `json:"payments,omitempty"`
}

// LoanTerms groups the inputs needed to create a loan
type LoanTerms struct {
	LoanType         LoanType
	Counterparty     string
	PrincipalAmount  decimal.Decimal
	InterestRate     decimal.Decimal
	Fees             LoanFees
	PaymentFrequency PaymentFrequency
	Term             int
	TermUnit         TermUnit
	StartDate        time.Time
}

// NewLoan creates an active loan
func NewLoan(userID uuid.UUID, terms LoanTerms) (*Loan, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if !terms.LoanType.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Loan type must be RECEIVABLE or PAYABLE")
	}
	principal := valueobject.Round2(terms.PrincipalAmount)
	if !principal.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Principal amount must be greater than zero")
	}
	if terms.InterestRate.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Interest rate cannot be negative")
	}
	if terms.Term <= 0 || !terms.TermUnit.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Loan term is invalid")
	}
	if terms.PaymentFrequency == "" {
		terms.PaymentFrequency = FrequencyMonthly
	}
	if !terms.PaymentFrequency.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation,
			fmt.Sprintf("Unsupported payment frequency %q", terms.PaymentFrequency))
	}
	return &Loan{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		LoanType:           terms.LoanType,
		Counterparty:       terms.Counterparty,
		PrincipalAmount:    principal,
		InterestRate:       terms.InterestRate,
		Fees:               terms.Fees,
		PaymentFrequency:   terms.PaymentFrequency,
		Term:               terms.Term,
		TermUnit:           terms.TermUnit,
		StartDate:          terms.StartDate,
		Status:             LoanStatusActive,
		AmountPaid:         decimal.Zero,
	}, nil
}

// Interest is the flat interest charged over the life of the loan
func (l *Loan) Interest() decimal.Decimal {
	return valueobject.Percentage(l.PrincipalAmount, l.InterestRate)
}

// TotalRepayable is principal plus interest plus fees
func (l *Loan) TotalRepayable() decimal.Decimal {
	return valueobject.Sum(l.PrincipalAmount, l.Interest(), l.Fees.Total())
}

// Outstanding is what remains to be repaid, never below zero
func (l *Loan) Outstanding() decimal.Decimal {
	return decimal.Max(valueobject.Round2(l.TotalRepayable().Sub(l.AmountPaid)), decimal.Zero)
}

// Ref implements Payable
func (l *Loan) Ref() PayableRef {
	return PayableRef{Kind: PayableLoan, ID: l.ID}
}

// PaymentCategory implements Payable.
// Repayments on a receivable loan come in; on a payable loan they go out.
func (l *Loan) PaymentCategory() PaymentCategory {
	if l.LoanType == LoanReceivable {
		return PaymentCategoryIncome
	}
	return PaymentCategoryExpense
}

// EnsureAcceptsPayments implements Payable
func (l *Loan) EnsureAcceptsPayments() error {
	if l.Status == LoanStatusDefaulted {
		return shared.NewDomainError(shared.CodeValidation, "Cannot modify payments of a defaulted loan")
	}
	return nil
}

// PaymentCap implements Payable. Loan repayments are not capped.
func (l *Loan) PaymentCap() (decimal.Decimal, bool) {
	return decimal.Zero, false
}

// ApplyPayments implements Payable
func (l *Loan) ApplyPayments(amounts []decimal.Decimal) {
	l.AmountPaid = valueobject.Sum(amounts...)
	l.Status = DeriveLoanStatus(l.Status, l.AmountPaid, l.TotalRepayable())
	l.Touch()
	l.IncrementVersion()
}

// MarkDefaulted freezes the loan against further repayments
func (l *Loan) MarkDefaulted() {
	l.Status = LoanStatusDefaulted
	l.Touch()
	l.IncrementVersion()
}

// DeriveLoanStatus compares what was paid with what is repayable.
// DEFAULTED is preserved.
func DeriveLoanStatus(current LoanStatus, amountPaid, totalRepayable decimal.Decimal) LoanStatus {
	if current == LoanStatusDefaulted {
		return current
	}
	if amountPaid.GreaterThanOrEqual(totalRepayable) {
		return LoanStatusPaidOff
	}
	return LoanStatusActive
}

var _ Payable = (*Loan)(nil)
