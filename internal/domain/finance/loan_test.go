package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoan(t *testing.T, loanType LoanType) *Loan {
	t.Helper()
	loan, err := NewLoan(uuid.New(), LoanTerms{
		LoanType:        loanType,
		Counterparty:    "First Bank",
		PrincipalAmount: amt("100000"),
		InterestRate:    amt("10"),
		Fees:            LoanFees{Processing: amt("1000"), Insurance: amt("500")},
		Term:            12,
		TermUnit:        TermMonths,
		StartDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return loan
}

func TestLoan_TotalRepayable(t *testing.T) {
	loan := newTestLoan(t, LoanPayable)
	assert.True(t, loan.Interest().Equal(amt("10000")))
	assert.True(t, loan.Fees.Total().Equal(amt("1500")))
	assert.True(t, loan.TotalRepayable().Equal(amt("111500")))
	assert.Equal(t, FrequencyMonthly, loan.PaymentFrequency)
}

func TestLoan_ApplyPayments(t *testing.T) {
	loan := newTestLoan(t, LoanReceivable)
	assert.Equal(t, PaymentCategoryIncome, loan.PaymentCategory())

	loan.ApplyPayments(amounts("3000"))
	assert.Equal(t, LoanStatusActive, loan.Status)
	assert.True(t, loan.Outstanding().Equal(amt("108500")))

	loan.ApplyPayments(amounts("3000", "108500"))
	assert.Equal(t, LoanStatusPaidOff, loan.Status)
	assert.True(t, loan.Outstanding().IsZero())

	loan.ApplyPayments(amounts("3000"))
	assert.Equal(t, LoanStatusActive, loan.Status)
}

func TestLoan_DefaultedIsAbsorbing(t *testing.T) {
	loan := newTestLoan(t, LoanPayable)
	assert.Equal(t, PaymentCategoryExpense, loan.PaymentCategory())
	loan.MarkDefaulted()

	require.Error(t, loan.EnsureAcceptsPayments())
	loan.ApplyPayments(amounts("200000"))
	assert.Equal(t, LoanStatusDefaulted, loan.Status)
}

func TestNewLoan_Validation(t *testing.T) {
	_, err := NewLoan(uuid.New(), LoanTerms{LoanType: "GIFT", PrincipalAmount: amt("1"), Term: 1, TermUnit: TermYears})
	assert.Error(t, err)

	_, err = NewLoan(uuid.New(), LoanTerms{LoanType: LoanPayable, PrincipalAmount: decimal.Zero, Term: 1, TermUnit: TermYears})
	assert.Error(t, err)

	_, err = NewLoan(uuid.New(), LoanTerms{LoanType: LoanPayable, PrincipalAmount: amt("1"), Term: 0, TermUnit: TermYears})
	assert.Error(t, err)
}
