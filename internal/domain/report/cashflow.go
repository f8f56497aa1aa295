package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerbook/backend/internal/domain/finance"
	"github.com/ledgerbook/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// FlowType is the direction of a cash movement
type FlowType string

const (
	Inflow  FlowType = "INFLOW"
	Outflow FlowType = "OUTFLOW"
)

// FlowCategory is the cash-flow statement section of a movement
type FlowCategory string

const (
	Operating FlowCategory = "OPERATING"
	Investing FlowCategory = "INVESTING"
	Financing FlowCategory = "FINANCING"
)

// FlowCategories in statement order
var FlowCategories = []FlowCategory{Operating, Investing, Financing}

// SubCategory narrows a flow category. Other-expense payments use the expense's own category.
type SubCategory string

const (
	SubRefund                SubCategory = "REFUND"
	SubCustomerPayment       SubCategory = "CUSTOMER_PAYMENT"
	SubOtherIncome           SubCategory = "OTHER_INCOME"
	SubLoanRepaymentReceived SubCategory = "LOAN_REPAYMENT_RECEIVED"
	SubPurchaseReturn        SubCategory = "PURCHASE_RETURN"
	SubSupplierPayment       SubCategory = "SUPPLIER_PAYMENT"
	SubExpenseReturn         SubCategory = "EXPENSE_RETURN"
	SubLoanRepaymentMade     SubCategory = "LOAN_REPAYMENT_MADE"
	SubAssetPurchase         SubCategory = "ASSET_PURCHASE"
	SubAssetSale             SubCategory = "ASSET_SALE"
)

// SourceType names the record a cash-flow item came from
type SourceType string

const (
	SourceFixedAsset  SourceType = "FIXED_ASSET"
	SourceOwnerEquity SourceType = "OWNER_EQUITY"
)

// CashFlowItem is one classified cash movement. It is derived, never stored.
type CashFlowItem struct {
	ID            string                `json:"id"`
	Date          time.Time             `json:"date"`
	Amount        decimal.Decimal       `json:"amount"`
	FlowType      FlowType              `json:"flowType"`
	FlowCategory  FlowCategory          `json:"flowCategory"`
	SubCategory   SubCategory           `json:"subCategory"`
	Description   string                `json:"description"`
	SourceType    SourceType            `json:"sourceType"`
	SourceID      uuid.UUID             `json:"sourceId"`
	PaymentMethod finance.PaymentMethod `json:"paymentMethod,omitempty"`
	Reference     string                `json:"reference,omitempty"`
	Counterparty  string                `json:"counterparty,omitempty"`
	CapitalGain   *decimal.Decimal      `json:"capitalGain,omitempty"`
}

// LedgerEntry is a payment together with the record it was made against.
// Parent is nil when the record could not be loaded.
type LedgerEntry struct {
	Payment finance.Payment
	Parent  finance.Payable
}

// CashFlowInput is everything the cash-flow report is computed from
type CashFlowInput struct {
	Range               DateRange
	Entries             []LedgerEntry
	Acquisitions        []finance.FixedAsset
	Disposals           []finance.FixedAsset
	Equity              []finance.OwnerEquity
	IncludesOwnerEquity bool
}

// FlowTotals is one row of the cash-flow grid
type FlowTotals struct {
	Category FlowCategory    `json:"category"`
	Label    string          `json:"label"`
	Inflow   decimal.Decimal `json:"inflow"`
	Outflow  decimal.Decimal `json:"outflow"`
	Net      decimal.Decimal `json:"net"`
}

// CashFlowSummary holds the report totals
type CashFlowSummary struct {
	OperatingInflows  decimal.Decimal                   `json:"operatingInflows"`
	OperatingOutflows decimal.Decimal                   `json:"operatingOutflows"`
	NetOperating      decimal.Decimal                   `json:"netOperating"`
	InvestingInflows  decimal.Decimal                   `json:"investingInflows"`
	InvestingOutflows decimal.Decimal                   `json:"investingOutflows"`
	NetInvesting      decimal.Decimal                   `json:"netInvesting"`
	FinancingInflows  decimal.Decimal                   `json:"financingInflows"`
	FinancingOutflows decimal.Decimal                   `json:"financingOutflows"`
	NetFinancing      decimal.Decimal                   `json:"netFinancing"`
	TotalInflows      decimal.Decimal                   `json:"totalInflows"`
	TotalOutflows     decimal.Decimal                   `json:"totalOutflows"`
	NetCashFlow       decimal.Decimal                   `json:"netCashFlow"`
	AveragePerMonth   decimal.Decimal                   `json:"averagePerMonth"`
	ByPaymentMethod   *Breakdown[finance.PaymentMethod] `json:"byPaymentMethod"`
}

// CashFlowMonth is the monthly net series point with its inflow and outflow parts
type CashFlowMonth struct {
	Month   string          `json:"month"`
	Label   string          `json:"label"`
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	Net     decimal.Decimal `json:"net"`
}

// CashFlowChart is the chart payload of the cash-flow report
type CashFlowChart struct {
	Monthly    []CashFlowMonth `json:"monthly"`
	ByCategory []FlowTotals    `json:"byCategory"`
}

// CashFlowReport is the complete cash-flow report body
type CashFlowReport struct {
	Summary   CashFlowSummary `json:"summary"`
	ChartData CashFlowChart   `json:"chartData"`
	Data      []CashFlowItem  `json:"data"`
}

// BuildCashFlowReport classifies every source movement and folds the items into totals
func BuildCashFlowReport(in CashFlowInput) CashFlowReport {
	items := Classify(in.Entries, ClassifyPayment)
	items = append(items, Classify(in.Acquisitions, classifyAcquisition)...)
	items = append(items, Classify(in.Disposals, classifyDisposal)...)
	if in.IncludesOwnerEquity {
		items = append(items, Classify(in.Equity, classifyEquity)...)
	}
	SortByDateDesc(items, func(i CashFlowItem) time.Time { return i.Date })

	return CashFlowReport{
		Summary:   summarizeCashFlow(items, in.Range),
		ChartData: cashFlowChart(items, in.Range),
		Data:      items,
	}
}

// ClassifyPayment turns a ledger payment into a cash-flow item.
// Refund detection on the parent takes precedence over the ordinary payment rule.
// Payments whose parent matches no rule are dropped.
func ClassifyPayment(e LedgerEntry) (CashFlowItem, bool) {
	p := e.Payment
	item := CashFlowItem{
		ID:            "payment-" + p.ID.String(),
		Date:          p.PaymentDate,
		Amount:        valueobject.Round2(p.Amount),
		FlowCategory:  Operating,
		SourceType:    SourceType(p.Payable.Kind),
		SourceID:      p.Payable.ID,
		PaymentMethod: p.PaymentMethod,
		Reference:     p.Reference,
	}

	switch p.Category {
	case finance.PaymentCategoryIncome:
		return classifyIncomePayment(item, e.Parent)
	case finance.PaymentCategoryExpense:
		return classifyExpensePayment(item, e.Parent)
	}
	return CashFlowItem{}, false
}

func classifyIncomePayment(item CashFlowItem, parent finance.Payable) (CashFlowItem, bool) {
	item.FlowType = Inflow
	switch src := parent.(type) {
	case *finance.Sale:
		return customerReceipt(item, "sale", src.CustomerName, src.RefundAmount), true
	case *finance.Quotation:
		return customerReceipt(item, "quotation", src.CustomerName, src.RefundAmount), true
	case *finance.IncomeRecord:
		item.SubCategory = SubOtherIncome
		item.Description = src.Description
		return item, true
	case *finance.Loan:
		if src.LoanType != finance.LoanReceivable {
			return CashFlowItem{}, false
		}
		item.FlowCategory = Financing
		item.SubCategory = SubLoanRepaymentReceived
		item.Counterparty = src.Counterparty
		item.Description = fmt.Sprintf("Loan repayment received from %s", src.Counterparty)
		return item, true
	}
	return CashFlowItem{}, false
}

func customerReceipt(item CashFlowItem, noun, customer string, refund decimal.Decimal) CashFlowItem {
	item.Counterparty = customer
	if refund.IsPositive() {
		item.SubCategory = SubRefund
		item.Amount = item.Amount.Neg()
		item.Description = fmt.Sprintf("Refund on %s to %s", noun, customer)
		return item
	}
	item.SubCategory = SubCustomerPayment
	item.Description = fmt.Sprintf("Payment received for %s from %s", noun, customer)
	return item
}

func classifyExpensePayment(item CashFlowItem, parent finance.Payable) (CashFlowItem, bool) {
	switch src := parent.(type) {
	case *finance.Purchase:
		item.Counterparty = src.SupplierName
		if src.RefundAmount.IsPositive() {
			item.FlowType = Inflow
			item.SubCategory = SubPurchaseReturn
			item.Description = fmt.Sprintf("Purchase return from %s", src.SupplierName)
			return item, true
		}
		item.FlowType = Outflow
		item.SubCategory = SubSupplierPayment
		item.Description = fmt.Sprintf("Payment to supplier %s", src.SupplierName)
		return item, true
	case *finance.Expense:
		item.Description = src.Description
		if src.IsReturn {
			item.FlowType = Inflow
			item.SubCategory = SubExpenseReturn
			return item, true
		}
		item.FlowType = Outflow
		item.SubCategory = SubCategory(src.Category)
		return item, true
	case *finance.Loan:
		if src.LoanType != finance.LoanPayable {
			return CashFlowItem{}, false
		}
		item.FlowType = Outflow
		item.FlowCategory = Financing
		item.SubCategory = SubLoanRepaymentMade
		item.Counterparty = src.Counterparty
		item.Description = fmt.Sprintf("Loan repayment to %s", src.Counterparty)
		return item, true
	}
	return CashFlowItem{}, false
}

func classifyAcquisition(a finance.FixedAsset) (CashFlowItem, bool) {
	return CashFlowItem{
		ID:           "asset-purchase-" + a.ID.String(),
		Date:         a.AcquisitionDate,
		Amount:       valueobject.Round2(a.AcquisitionCost),
		FlowType:     Outflow,
		FlowCategory: Investing,
		SubCategory:  SubAssetPurchase,
		Description:  fmt.Sprintf("Purchase of %s", a.Name),
		SourceType:   SourceFixedAsset,
		SourceID:     a.ID,
	}, true
}

func classifyDisposal(a finance.FixedAsset) (CashFlowItem, bool) {
	if a.DisposalDate == nil || a.DisposalProceeds == nil {
		return CashFlowItem{}, false
	}
	return CashFlowItem{
		ID:           "asset-sale-" + a.ID.String(),
		Date:         *a.DisposalDate,
		Amount:       valueobject.Round2(*a.DisposalProceeds),
		FlowType:     Inflow,
		FlowCategory: Investing,
		SubCategory:  SubAssetSale,
		Description:  fmt.Sprintf("Sale of %s", a.Name),
		SourceType:   SourceFixedAsset,
		SourceID:     a.ID,
		CapitalGain:  a.CapitalGain,
	}, true
}

func classifyEquity(e finance.OwnerEquity) (CashFlowItem, bool) {
	flow := Outflow
	if e.IsInflow() {
		flow = Inflow
	}
	desc := e.Description
	if desc == "" {
		desc = CategoryLabel(string(e.Type))
	}
	return CashFlowItem{
		ID:           "equity-" + e.ID.String(),
		Date:         e.Date,
		Amount:       valueobject.Round2(e.Amount),
		FlowType:     flow,
		FlowCategory: Financing,
		SubCategory:  SubCategory(e.Type),
		Description:  desc,
		SourceType:   SourceOwnerEquity,
		SourceID:     e.ID,
	}, true
}

type flowGrid map[FlowCategory]map[FlowType]decimal.Decimal

func (g flowGrid) add(c FlowCategory, t FlowType, amount decimal.Decimal) {
	row, ok := g[c]
	if !ok {
		row = map[FlowType]decimal.Decimal{}
		g[c] = row
	}
	row[t] = valueobject.Round2(row[t].Add(amount))
}

func (g flowGrid) totals(c FlowCategory) FlowTotals {
	in, out := g[c][Inflow], g[c][Outflow]
	return FlowTotals{
		Category: c,
		Label:    CategoryLabel(string(c)),
		Inflow:   in,
		Outflow:  out,
		Net:      valueobject.Round2(in.Sub(out)),
	}
}

// summarizeCashFlow sums abs(amount) per category and direction.
// A refund item therefore counts toward inflows by its magnitude.
func summarizeCashFlow(items []CashFlowItem, r DateRange) CashFlowSummary {
	grid := flowGrid{}
	byMethod := NewBreakdown[finance.PaymentMethod]()
	for _, item := range items {
		magnitude := item.Amount.Abs()
		grid.add(item.FlowCategory, item.FlowType, magnitude)
		if item.FlowType == Inflow && item.PaymentMethod != "" {
			byMethod.Add(item.PaymentMethod, magnitude)
		}
	}

	op, inv, fin := grid.totals(Operating), grid.totals(Investing), grid.totals(Financing)
	net := valueobject.Sum(op.Net, inv.Net, fin.Net)

	return CashFlowSummary{
		OperatingInflows:  op.Inflow,
		OperatingOutflows: op.Outflow,
		NetOperating:      op.Net,
		InvestingInflows:  inv.Inflow,
		InvestingOutflows: inv.Outflow,
		NetInvesting:      inv.Net,
		FinancingInflows:  fin.Inflow,
		FinancingOutflows: fin.Outflow,
		NetFinancing:      fin.Net,
		TotalInflows:      valueobject.Sum(op.Inflow, inv.Inflow, fin.Inflow),
		TotalOutflows:     valueobject.Sum(op.Outflow, inv.Outflow, fin.Outflow),
		NetCashFlow:       net,
		AveragePerMonth:   Average(net, r),
		ByPaymentMethod:   byMethod,
	}
}

func cashFlowChart(items []CashFlowItem, r DateRange) CashFlowChart {
	inflows, outflows := NewMonthlySeries(r), NewMonthlySeries(r)
	grid := flowGrid{}
	for _, item := range items {
		magnitude := item.Amount.Abs()
		grid.add(item.FlowCategory, item.FlowType, magnitude)
		if item.FlowType == Inflow {
			inflows.Add(item.Date, magnitude)
		} else {
			outflows.Add(item.Date, magnitude)
		}
	}

	in, out := inflows.Points(), outflows.Points()
	monthly := make([]CashFlowMonth, len(in))
	for i := range in {
		monthly[i] = CashFlowMonth{
			Month:   in[i].Month,
			Label:   in[i].Label,
			Inflow:  in[i].Amount,
			Outflow: out[i].Amount,
			Net:     valueobject.Round2(in[i].Amount.Sub(out[i].Amount)),
		}
	}

	byCategory := make([]FlowTotals, 0, len(FlowCategories))
	for _, c := range FlowCategories {
		byCategory = append(byCategory, grid.totals(c))
	}
	return CashFlowChart{Monthly: monthly, ByCategory: byCategory}
}
