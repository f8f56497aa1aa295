package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerbook/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var owner = uuid.MustParse("6f1c2d7e-3a4b-4c5d-8e9f-0a1b2c3d4e5f")

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 9, 0, 0, 0, time.UTC)
}

func year2024() DateRange {
	return DateRange{
		Name:  RangeThisYear,
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 12, 31, 23, 59, 59, 999999999, time.UTC),
	}
}

func pay(t *testing.T, parent finance.Payable, amount string, method finance.PaymentMethod, date time.Time) finance.Payment {
	t.Helper()
	p, err := finance.NewPayment(owner, parent, finance.PaymentDetails{
		Amount:        dec(amount),
		PaymentMethod: method,
		PaymentDate:   date,
	})
	require.NoError(t, err)
	return *p
}

func sale(t *testing.T, total string, date time.Time) *finance.Sale {
	t.Helper()
	s, err := finance.NewSale(owner, "Ada Stores", dec(total), date)
	require.NoError(t, err)
	return s
}

func quotation(t *testing.T, total string, date time.Time) *finance.Quotation {
	t.Helper()
	q, err := finance.NewQuotation(owner, "Chidi Ltd", dec(total), date)
	require.NoError(t, err)
	return q
}

func purchase(t *testing.T, total string, date time.Time) *finance.Purchase {
	t.Helper()
	p, err := finance.NewPurchase(owner, "Bolu Supplies", dec(total), date)
	require.NoError(t, err)
	return p
}

func expense(t *testing.T, category string, date time.Time) *finance.Expense {
	t.Helper()
	e, err := finance.NewExpense(owner, "Shop expense", category, dec("1"), date)
	require.NoError(t, err)
	return e
}

func loan(t *testing.T, loanType finance.LoanType) *finance.Loan {
	t.Helper()
	l, err := finance.NewLoan(owner, finance.LoanTerms{
		LoanType:        loanType,
		Counterparty:    "Kola",
		PrincipalAmount: dec("50000"),
		Term:            6,
		TermUnit:        finance.TermMonths,
		StartDate:       day(1, 1),
	})
	require.NoError(t, err)
	return l
}

// withPayments attaches payments and recalculates the document
func withPayments(doc *finance.PayableDocument, payments ...finance.Payment) {
	doc.Payments = append(doc.Payments, payments...)
	doc.ApplyPayments(doc.PaymentAmounts())
}
