package report

import (
	"testing"

	"github.com/ledgerbook/backend/internal/domain/finance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildExpenseReport_RefundedPurchase(t *testing.T) {
	p := purchase(t, "20000", day(5, 1))
	withPayments(&p.PayableDocument, pay(t, p, "15000", finance.PaymentMethodBankTransfer, day(5, 2)))
	p.RefundAmount = dec("5000")

	rep := BuildExpenseReport(ExpenseInput{Range: year2024(), Purchases: []finance.Purchase{*p}})

	require.Len(t, rep.Data, 1)
	item := rep.Data[0]
	assert.True(t, item.NetAmount.Equal(dec("15000")))
	assert.True(t, item.Balance.IsZero())
	assert.True(t, rep.Summary.ByCategory.Get(CategoryCostOfGoods).Equal(dec("15000")))
	assert.True(t, rep.Summary.Balance.IsZero())
	assert.True(t, rep.Summary.GrossExpenses.Equal(dec("20000")))
	assert.True(t, rep.Summary.TotalPurchaseRefunds.Equal(dec("5000")))
	assert.True(t, rep.Summary.NetExpenses.Equal(dec("15000")))
}

func TestBuildExpenseReport(t *testing.T) {
	p := purchase(t, "10000", day(1, 5))
	withPayments(&p.PayableDocument, pay(t, p, "4000", finance.PaymentMethodCash, day(1, 6)))

	rent := expense(t, "RENT", day(2, 1))
	require.NoError(t, rent.SetDeductible(dec("50")))
	rentPay := pay(t, rent, "3000", finance.PaymentMethodBankTransfer, day(2, 1))

	fuel := expense(t, "FUEL", day(3, 1))
	fuelPay := pay(t, fuel, "1000", finance.PaymentMethodCash, day(3, 1))

	refund := expense(t, "RENT", day(4, 1))
	refund.IsReturn = true
	refundPay := pay(t, refund, "700", finance.PaymentMethodBankTransfer, day(4, 1))

	rep := BuildExpenseReport(ExpenseInput{
		Range:     year2024(),
		Purchases: []finance.Purchase{*p},
		Expenses: []ExpenseEntry{
			{Payment: rentPay, Expense: *rent},
			{Payment: fuelPay, Expense: *fuel},
			{Payment: refundPay, Expense: *refund},
		},
	})

	require.Len(t, rep.Data, 4, "return rows stay in the data")
	assert.True(t, rep.Data[0].IsReturn)

	sum := rep.Summary
	assert.True(t, sum.GrossExpenses.Equal(dec("14000")))
	assert.True(t, sum.NetExpenses.Equal(dec("14000")), "expense returns do not reduce net expenses")
	assert.True(t, sum.TotalPaid.Equal(dec("8000")))
	assert.True(t, sum.Balance.Equal(dec("6000")))

	// purchase 4000 fully deductible, rent 1500 of 3000, fuel not deductible
	assert.True(t, sum.TotalDeductible.Equal(dec("5500")))
	assert.True(t, sum.TotalNonDeductible.Equal(dec("2500")))
	assert.True(t, sum.DeductiblePercentage.Equal(dec("68.75")))

	assert.True(t, sum.ByCategory.Get(CategoryCostOfGoods).Equal(dec("10000")))
	assert.True(t, sum.ByCategory.Get("RENT").Equal(dec("3000")))
	assert.True(t, sum.ByCategory.Get("FUEL").Equal(dec("1000")))
	require.NotNil(t, sum.TopCategory)
	assert.Equal(t, CategoryCostOfGoods, sum.TopCategory.Key)

	assert.True(t, sum.ByPaymentMethod.Get(finance.PaymentMethodCash).Equal(dec("5000")))
	assert.True(t, sum.ByPaymentMethod.Get(finance.PaymentMethodBankTransfer).Equal(dec("3000")))

	assert.True(t, rep.ChartData.Monthly[0].Amount.Equal(dec("10000")))
	assert.True(t, rep.ChartData.Monthly[3].Amount.IsZero())
}

func TestBuildExpenseReport_NothingPaid(t *testing.T) {
	p := purchase(t, "2500", day(6, 1))

	rep := BuildExpenseReport(ExpenseInput{Range: year2024(), Purchases: []finance.Purchase{*p}})

	assert.True(t, rep.Summary.TotalPaid.IsZero())
	assert.True(t, rep.Summary.DeductiblePercentage.IsZero())
	assert.True(t, rep.Summary.Balance.Equal(dec("2500")))
}
