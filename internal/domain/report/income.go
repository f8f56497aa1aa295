package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgerbook/backend/internal/domain/finance"
	"github.com/ledgerbook/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// IncomeSource is the kind of record an income line comes from
type IncomeSource string

const (
	IncomeFromSale        IncomeSource = "SALE"
	IncomeFromQuotation   IncomeSource = "QUOTATION"
	IncomeFromOtherIncome IncomeSource = "OTHER_INCOME"
)

// IncomeItem is one income line. Source fields carry the parent's own bookkeeping.
type IncomeItem struct {
	ID                uuid.UUID              `json:"id"`
	Date              time.Time              `json:"date"`
	SourceType        IncomeSource           `json:"sourceType"`
	Description       string                 `json:"description,omitempty"`
	Category          string                 `json:"category,omitempty"`
	CustomerName      string                 `json:"customerName,omitempty"`
	CustomerEmail     string                 `json:"customerEmail,omitempty"`
	Status            finance.DocumentStatus `json:"status,omitempty"`
	GrossAmount       decimal.Decimal        `json:"grossAmount"`
	RefundAmount      decimal.Decimal        `json:"refundAmount"`
	NetAmount         decimal.Decimal        `json:"netAmount"`
	SourceTotalAmount decimal.Decimal        `json:"sourceTotalAmount"`
	SourceAmountPaid  decimal.Decimal        `json:"sourceAmountPaid"`
	SourceBalance     decimal.Decimal        `json:"sourceBalance"`
	RefundDate        *time.Time             `json:"refundDate,omitempty"`
	RefundReason      string                 `json:"refundReason,omitempty"`
	VATRate           decimal.Decimal        `json:"vatRate"`
	VATAmount         decimal.Decimal        `json:"vatAmount"`
	Payments          []finance.Payment      `json:"payments"`
}

// IncomeInput is everything the income report is computed from
type IncomeInput struct {
	Range      DateRange
	Sales      []finance.Sale
	Quotations []finance.Quotation
	Incomes    []finance.IncomeRecord
}

// IncomeSummary holds the income report totals
type IncomeSummary struct {
	GrossRevenue       decimal.Decimal                   `json:"grossRevenue"`
	TotalRefunds       decimal.Decimal                   `json:"totalRefunds"`
	RefundsBySource    *Breakdown[IncomeSource]          `json:"refundsBySource"`
	NetIncome          decimal.Decimal                   `json:"netIncome"`
	TotalReceived      decimal.Decimal                   `json:"totalReceived"`
	OutstandingBalance decimal.Decimal                   `json:"outstandingBalance"`
	AveragePerMonth    decimal.Decimal                   `json:"averagePerMonth"`
	TopSource          *Entry[IncomeSource]              `json:"topSource"`
	BySource           *Breakdown[IncomeSource]          `json:"bySource"`
	ByPaymentMethod    *Breakdown[finance.PaymentMethod] `json:"byPaymentMethod"`
}

// IncomeChart is the chart payload of the income report
type IncomeChart struct {
	Monthly  []MonthPoint          `json:"monthly"`
	BySource []Entry[IncomeSource] `json:"bySource"`
}

// IncomeReport is the complete income report body
type IncomeReport struct {
	Summary   IncomeSummary `json:"summary"`
	ChartData IncomeChart   `json:"chartData"`
	Data      []IncomeItem  `json:"data"`
}

// BuildIncomeReport folds sales, quotations and other income into the income report.
// Documents outside the income statuses are skipped even if the caller already filtered them.
func BuildIncomeReport(in IncomeInput) IncomeReport {
	items := Classify(in.Sales, incomeFromSale)
	items = append(items, Classify(in.Quotations, incomeFromQuotation)...)
	items = append(items, Classify(in.Incomes, incomeFromRecord)...)
	SortByDateDesc(items, func(i IncomeItem) time.Time { return i.Date })

	var (
		grossRevenue  = decimal.Zero
		totalReceived = decimal.Zero
		outstanding   = decimal.Zero
		refunds       = NewBreakdown(IncomeFromSale, IncomeFromQuotation)
		bySource      = NewBreakdown(IncomeFromSale, IncomeFromQuotation, IncomeFromOtherIncome)
		byMethod      = NewBreakdown[finance.PaymentMethod]()
		monthly       = NewMonthlySeries(in.Range)
	)

	for _, item := range items {
		grossRevenue = grossRevenue.Add(item.GrossAmount)
		bySource.Add(item.SourceType, item.NetAmount)
		monthly.Add(item.Date, item.NetAmount)

		if item.SourceType == IncomeFromOtherIncome {
			totalReceived = totalReceived.Add(item.GrossAmount)
		} else {
			refunds.Add(item.SourceType, item.RefundAmount)
			totalReceived = totalReceived.Add(item.SourceAmountPaid)
			outstanding = outstanding.Add(item.SourceBalance)
		}

		for _, p := range item.Payments {
			byMethod.Add(p.PaymentMethod, p.Amount)
		}
	}

	totalRefunds := refunds.Total()
	netIncome := valueobject.Round2(grossRevenue.Sub(totalRefunds))
	top, _ := bySource.Top()

	return IncomeReport{
		Summary: IncomeSummary{
			GrossRevenue:       valueobject.Round2(grossRevenue),
			TotalRefunds:       totalRefunds,
			RefundsBySource:    refunds,
			NetIncome:          netIncome,
			TotalReceived:      valueobject.Round2(totalReceived),
			OutstandingBalance: valueobject.Round2(outstanding),
			AveragePerMonth:    Average(netIncome, in.Range),
			TopSource:          top,
			BySource:           bySource,
			ByPaymentMethod:    byMethod,
		},
		ChartData: IncomeChart{
			Monthly:  monthly.Points(),
			BySource: bySource.Entries(),
		},
		Data: items,
	}
}

func incomeFromDocument(doc *finance.PayableDocument, source IncomeSource) IncomeItem {
	return IncomeItem{
		ID:                doc.ID,
		SourceType:        source,
		Status:            doc.Status,
		GrossAmount:       doc.TotalAmount,
		RefundAmount:      doc.RefundAmount,
		NetAmount:         doc.NetAmount(),
		SourceTotalAmount: doc.TotalAmount,
		SourceAmountPaid:  doc.AmountPaid,
		SourceBalance:     doc.Balance,
		RefundDate:        doc.RefundDate,
		RefundReason:      doc.RefundReason,
		Payments:          nonNilPayments(doc.Payments),
	}
}

func incomeFromSale(s finance.Sale) (IncomeItem, bool) {
	if !s.Status.CountsAsIncome() {
		return IncomeItem{}, false
	}
	item := incomeFromDocument(&s.PayableDocument, IncomeFromSale)
	item.Date = s.SaleDate
	item.Description = s.Description
	item.CustomerName = s.CustomerName
	item.CustomerEmail = s.CustomerEmail
	item.VATRate = s.VAT.Rate
	item.VATAmount = s.VAT.Amount
	return item, true
}

func incomeFromQuotation(q finance.Quotation) (IncomeItem, bool) {
	if !q.Status.CountsAsIncome() {
		return IncomeItem{}, false
	}
	item := incomeFromDocument(&q.PayableDocument, IncomeFromQuotation)
	item.Date = q.IssueDate
	item.Description = q.Description
	item.CustomerName = q.CustomerName
	item.CustomerEmail = q.CustomerEmail
	item.VATRate = q.VAT.Rate
	item.VATAmount = q.VAT.Amount
	return item, true
}

// Other income is treated as received in full when recorded.
func incomeFromRecord(r finance.IncomeRecord) (IncomeItem, bool) {
	return IncomeItem{
		ID:                r.ID,
		Date:              r.Date,
		SourceType:        IncomeFromOtherIncome,
		Description:       r.Description,
		Category:          r.Category,
		GrossAmount:       r.GrossAmount,
		RefundAmount:      decimal.Zero,
		NetAmount:         r.GrossAmount,
		SourceTotalAmount: r.GrossAmount,
		SourceAmountPaid:  r.GrossAmount,
		SourceBalance:     decimal.Zero,
		Payments:          nonNilPayments(r.Payments),
	}, true
}

func nonNilPayments(p []finance.Payment) []finance.Payment {
	if p == nil {
		return []finance.Payment{}
	}
	return p
}
