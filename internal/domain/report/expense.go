package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgerbook/backend/internal/domain/finance"
	"github.com/ledgerbook/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ExpenseSource is the kind of record an expense line comes from
type ExpenseSource string

const (
	ExpenseFromPurchase      ExpenseSource = "PURCHASE"
	ExpenseFromOtherExpenses ExpenseSource = "OTHER_EXPENSES"
)

// CategoryCostOfGoods is the expense category every purchase is booked under
const CategoryCostOfGoods = "COST_OF_GOODS"

// ExpenseEntry is an other-expense payment together with its expense record
type ExpenseEntry struct {
	Payment finance.Payment
	Expense finance.Expense
}

// ExpenseItem is one expense line: a purchase or a single other-expense payment
type ExpenseItem struct {
	ID                  uuid.UUID              `json:"id"`
	Date                time.Time              `json:"date"`
	SourceType          ExpenseSource          `json:"sourceType"`
	SourceID            uuid.UUID              `json:"sourceId"`
	Description         string                 `json:"description,omitempty"`
	Category            string                 `json:"category"`
	SupplierName        string                 `json:"supplierName,omitempty"`
	Status              finance.DocumentStatus `json:"status,omitempty"`
	PaymentMethod       finance.PaymentMethod  `json:"paymentMethod,omitempty"`
	GrossAmount         decimal.Decimal        `json:"grossAmount"`
	RefundAmount        decimal.Decimal        `json:"refundAmount"`
	NetAmount           decimal.Decimal        `json:"netAmount"`
	AmountPaid          decimal.Decimal        `json:"amountPaid"`
	Balance             decimal.Decimal        `json:"balance"`
	IsReturn            bool                   `json:"isReturn"`
	IsDeductible        bool                   `json:"isDeductible"`
	DeductionPercentage decimal.Decimal        `json:"deductionPercentage"`
	DeductibleAmount    decimal.Decimal        `json:"deductibleAmount"`
	NonDeductibleAmount decimal.Decimal        `json:"nonDeductibleAmount"`

	payments []finance.Payment
}

// ExpenseInput is everything the expense report is computed from
type ExpenseInput struct {
	Range     DateRange
	Purchases []finance.Purchase
	Expenses  []ExpenseEntry
}

// ExpenseSummary holds the expense report totals
type ExpenseSummary struct {
	GrossExpenses        decimal.Decimal                   `json:"grossExpenses"`
	TotalPurchaseRefunds decimal.Decimal                   `json:"totalPurchaseRefunds"`
	NetExpenses          decimal.Decimal                   `json:"netExpenses"`
	TotalPaid            decimal.Decimal                   `json:"totalPaid"`
	Balance              decimal.Decimal                   `json:"balance"`
	AveragePerMonth      decimal.Decimal                   `json:"averagePerMonth"`
	TopCategory          *Entry[string]                    `json:"topCategory"`
	TotalDeductible      decimal.Decimal                   `json:"totalDeductible"`
	TotalNonDeductible   decimal.Decimal                   `json:"totalNonDeductible"`
	DeductiblePercentage decimal.Decimal                   `json:"deductiblePercentage"`
	ByCategory           *Breakdown[string]                `json:"byCategory"`
	ByPaymentMethod      *Breakdown[finance.PaymentMethod] `json:"byPaymentMethod"`
}

// ExpenseChart is the chart payload of the expense report
type ExpenseChart struct {
	Monthly    []MonthPoint    `json:"monthly"`
	ByCategory []Entry[string] `json:"byCategory"`
}

// ExpenseReport is the complete expense report body
type ExpenseReport struct {
	Summary   ExpenseSummary `json:"summary"`
	ChartData ExpenseChart   `json:"chartData"`
	Data      []ExpenseItem  `json:"data"`
}

// BuildExpenseReport folds purchases and other-expense payments into the expense report.
// Return rows stay in Data but are left out of every total. Only purchase refunds
// reduce netExpenses.
func BuildExpenseReport(in ExpenseInput) ExpenseReport {
	items := Classify(in.Purchases, expenseFromPurchase)
	items = append(items, Classify(in.Expenses, expenseFromPayment)...)
	SortByDateDesc(items, func(i ExpenseItem) time.Time { return i.Date })

	var (
		gross           = decimal.Zero
		purchaseRefunds = decimal.Zero
		totalPaid       = decimal.Zero
		balance         = decimal.Zero
		deductible      = decimal.Zero
		nonDeductible   = decimal.Zero
		byCategory      = NewBreakdown[string]()
		byMethod        = NewBreakdown[finance.PaymentMethod]()
		monthly         = NewMonthlySeries(in.Range)
	)

	for _, item := range items {
		if item.IsReturn {
			continue
		}
		gross = gross.Add(item.GrossAmount)
		totalPaid = totalPaid.Add(item.AmountPaid)
		deductible = deductible.Add(item.DeductibleAmount)
		nonDeductible = nonDeductible.Add(item.NonDeductibleAmount)
		monthly.Add(item.Date, item.GrossAmount)

		switch item.SourceType {
		case ExpenseFromPurchase:
			purchaseRefunds = purchaseRefunds.Add(item.RefundAmount)
			balance = balance.Add(item.Balance)
			byCategory.Add(CategoryCostOfGoods, item.NetAmount)
			for _, p := range item.payments {
				byMethod.Add(p.PaymentMethod, p.Amount)
			}
		case ExpenseFromOtherExpenses:
			byCategory.Add(item.Category, item.GrossAmount)
			if item.PaymentMethod != "" {
				byMethod.Add(item.PaymentMethod, item.AmountPaid)
			}
		}
	}

	netExpenses := valueobject.Round2(gross.Sub(purchaseRefunds))
	totalPaid = valueobject.Round2(totalPaid)
	deductible = valueobject.Round2(deductible)
	top, _ := byCategory.Top()

	return ExpenseReport{
		Summary: ExpenseSummary{
			GrossExpenses:        valueobject.Round2(gross),
			TotalPurchaseRefunds: valueobject.Round2(purchaseRefunds),
			NetExpenses:          netExpenses,
			TotalPaid:            totalPaid,
			Balance:              valueobject.Round2(balance),
			AveragePerMonth:      Average(netExpenses, in.Range),
			TopCategory:          top,
			TotalDeductible:      deductible,
			TotalNonDeductible:   valueobject.Round2(nonDeductible),
			DeductiblePercentage: valueobject.Ratio(deductible, totalPaid),
			ByCategory:           byCategory,
			ByPaymentMethod:      byMethod,
		},
		ChartData: ExpenseChart{
			Monthly:    monthly.Points(),
			ByCategory: byCategory.Entries(),
		},
		Data: items,
	}
}

// Purchases are fully deductible: the paid amount is the deductible part.
func expenseFromPurchase(p finance.Purchase) (ExpenseItem, bool) {
	net := p.NetAmount()
	return ExpenseItem{
		ID:                  p.ID,
		Date:                p.PurchaseDate,
		SourceType:          ExpenseFromPurchase,
		SourceID:            p.ID,
		Description:         p.Description,
		Category:            CategoryCostOfGoods,
		SupplierName:        p.SupplierName,
		Status:              p.Status,
		GrossAmount:         p.TotalAmount,
		RefundAmount:        p.RefundAmount,
		NetAmount:           net,
		AmountPaid:          p.AmountPaid,
		Balance:             decimal.Max(valueobject.Round2(net.Sub(p.AmountPaid)), decimal.Zero),
		IsDeductible:        true,
		DeductionPercentage: decimal.NewFromInt(100),
		DeductibleAmount:    p.AmountPaid,
		NonDeductibleAmount: decimal.Zero,
		payments:            p.Payments,
	}, true
}

func expenseFromPayment(e ExpenseEntry) (ExpenseItem, bool) {
	amount := valueobject.Round2(e.Payment.Amount)
	deductible, nonDeductible := e.Expense.DeductibleSplit(amount)
	return ExpenseItem{
		ID:                  e.Payment.ID,
		Date:                e.Payment.PaymentDate,
		SourceType:          ExpenseFromOtherExpenses,
		SourceID:            e.Expense.ID,
		Description:         e.Expense.Description,
		Category:            e.Expense.Category,
		PaymentMethod:       e.Payment.PaymentMethod,
		GrossAmount:         amount,
		RefundAmount:        decimal.Zero,
		NetAmount:           amount,
		AmountPaid:          amount,
		Balance:             decimal.Zero,
		IsReturn:            e.Expense.IsReturn,
		IsDeductible:        e.Expense.IsDeductible,
		DeductionPercentage: e.Expense.DeductionPercentage,
		DeductibleAmount:    deductible,
		NonDeductibleAmount: nonDeductible,
	}, true
}
