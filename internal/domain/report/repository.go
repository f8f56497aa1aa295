package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerbook/backend/internal/domain/finance"
)

// LedgerReader defines the read-only queries the report engines run.
// Every query is scoped to one owner and a date range; payments are preloaded.
type LedgerReader interface {
	// PaymentsInRange returns payments dated inside r with their parent records
	PaymentsInRange(ctx context.Context, userID uuid.UUID, r DateRange) ([]LedgerEntry, error)

	// AssetsAcquiredInRange returns fixed assets acquired inside r
	AssetsAcquiredInRange(ctx context.Context, userID uuid.UUID, r DateRange) ([]finance.FixedAsset, error)

	// AssetsDisposedInRange returns fixed assets disposed of inside r
	AssetsDisposedInRange(ctx context.Context, userID uuid.UUID, r DateRange) ([]finance.FixedAsset, error)

	// OwnerEquityInRange returns owner equity movements dated inside r
	OwnerEquityInRange(ctx context.Context, userID uuid.UUID, r DateRange) ([]finance.OwnerEquity, error)

	// SalesInRange returns sales by sale date whose status is one of statuses
	SalesInRange(ctx context.Context, userID uuid.UUID, r DateRange, statuses []finance.DocumentStatus) ([]finance.Sale, error)

	// QuotationsInRange returns quotations by issue date whose status is one of statuses
	QuotationsInRange(ctx context.Context, userID uuid.UUID, r DateRange, statuses []finance.DocumentStatus) ([]finance.Quotation, error)

	// IncomeRecordsInRange returns other income by date
	IncomeRecordsInRange(ctx context.Context, userID uuid.UUID, r DateRange) ([]finance.IncomeRecord, error)

	// PurchasesInRange returns purchases of every status by purchase date
	PurchasesInRange(ctx context.Context, userID uuid.UUID, r DateRange) ([]finance.Purchase, error)

	// ExpensePaymentsInRange returns other-expense payments by payment date with their expense
	ExpensePaymentsInRange(ctx context.Context, userID uuid.UUID, r DateRange) ([]ExpenseEntry, error)
}
