package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgerbook/backend/internal/domain/finance"
	"github.com/ledgerbook/backend/internal/domain/report"
	"github.com/ledgerbook/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLedgerReader implements report.LedgerReader using GORM.
// Parents and payments are batch loaded per kind so a report costs a fixed
// number of queries regardless of how many records fall in the range.
type GormLedgerReader struct {
	db *gorm.DB
}

// NewGormLedgerReader creates a new GormLedgerReader
func NewGormLedgerReader(db *gorm.DB) *GormLedgerReader {
	return &GormLedgerReader{db: db}
}

// PaymentsInRange returns payments dated inside r with their parent records
func (r *GormLedgerReader) PaymentsInRange(ctx context.Context, userID uuid.UUID, dr report.DateRange) ([]report.LedgerEntry, error) {
	var rows []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND payment_date BETWEEN ? AND ?", userID, dr.Start, dr.End).
		Order("payment_date ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, TranslateError(err)
	}
	payments, err := models.PaymentsToDomain(rows)
	if err != nil {
		return nil, TranslateError(err)
	}

	ids := make(map[finance.PayableKind][]uuid.UUID)
	for _, p := range payments {
		ids[p.Payable.Kind] = append(ids[p.Payable.Kind], p.Payable.ID)
	}
	parents, err := r.parents(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]report.LedgerEntry, 0, len(payments))
	for _, p := range payments {
		entries = append(entries, report.LedgerEntry{Payment: p, Parent: parents[p.Payable]})
	}
	return entries, nil
}

// parents loads every referenced parent, keyed by its ref. Missing parents are absent.
func (r *GormLedgerReader) parents(ctx context.Context, userID uuid.UUID, ids map[finance.PayableKind][]uuid.UUID) (map[finance.PayableRef]finance.Payable, error) {
	out := make(map[finance.PayableRef]finance.Payable)
	for kind, kindIDs := range ids {
		q := r.db.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, uniqueIDs(kindIDs))

		var (
			loaded []finance.Payable
			err    error
		)
		switch kind {
		case finance.PayableSale:
			loaded, err = payables(q, (*models.SaleModel).ToDomain)
		case finance.PayableQuotation:
			loaded, err = payables(q, (*models.QuotationModel).ToDomain)
		case finance.PayablePurchase:
			loaded, err = payables(q, (*models.PurchaseModel).ToDomain)
		case finance.PayableLoan:
			loaded, err = payables(q, (*models.LoanModel).ToDomain)
		case finance.PayableOtherIncome:
			loaded, err = payables(q, (*models.IncomeRecordModel).ToDomain)
		case finance.PayableOtherExpenses:
			loaded, err = payables(q, (*models.ExpenseModel).ToDomain)
		}
		if err != nil {
			return nil, err
		}
		for _, p := range loaded {
			out[p.Ref()] = p
		}
	}
	return out, nil
}

// AssetsAcquiredInRange returns fixed assets acquired inside r
func (r *GormLedgerReader) AssetsAcquiredInRange(ctx context.Context, userID uuid.UUID, dr report.DateRange) ([]finance.FixedAsset, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND acquisition_date BETWEEN ? AND ?", userID, dr.Start, dr.End).
		Order("acquisition_date ASC")
	return findAll(q, func(m *models.FixedAssetModel) finance.FixedAsset { return *m.ToDomain() })
}

// AssetsDisposedInRange returns fixed assets disposed of inside r
func (r *GormLedgerReader) AssetsDisposedInRange(ctx context.Context, userID uuid.UUID, dr report.DateRange) ([]finance.FixedAsset, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND disposal_date IS NOT NULL AND disposal_date BETWEEN ? AND ?", userID, dr.Start, dr.End).
		Order("disposal_date ASC")
	return findAll(q, func(m *models.FixedAssetModel) finance.FixedAsset { return *m.ToDomain() })
}

// OwnerEquityInRange returns owner equity movements dated inside r
func (r *GormLedgerReader) OwnerEquityInRange(ctx context.Context, userID uuid.UUID, dr report.DateRange) ([]finance.OwnerEquity, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, dr.Start, dr.End).
		Order("date ASC")
	return findAll(q, func(m *models.OwnerEquityModel) finance.OwnerEquity { return *m.ToDomain() })
}

// SalesInRange returns sales by sale date whose status is one of statuses, payments attached
func (r *GormLedgerReader) SalesInRange(ctx context.Context, userID uuid.UUID, dr report.DateRange, statuses []finance.DocumentStatus) ([]finance.Sale, error) {
	if len(statuses) == 0 {
		return []finance.Sale{}, nil
	}
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND sale_date BETWEEN ? AND ? AND status IN ?", userID, dr.Start, dr.End, statuses).
		Order("sale_date ASC")
	sales, err := findAll(q, func(m *models.SaleModel) finance.Sale { return *m.ToDomain() })
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(sales))
	for i := range sales {
		ids[i] = sales[i].ID
	}
	byParent, err := r.paymentsFor(ctx, userID, finance.PayableSale, ids)
	if err != nil {
		return nil, err
	}
	for i := range sales {
		sales[i].Payments = byParent[sales[i].ID]
	}
	return sales, nil
}

// QuotationsInRange returns quotations by issue date whose status is one of statuses, payments attached
func (r *GormLedgerReader) QuotationsInRange(ctx context.Context, userID uuid.UUID, dr report.DateRange, statuses []finance.DocumentStatus) ([]finance.Quotation, error) {
	if len(statuses) == 0 {
		return []finance.Quotation{}, nil
	}
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND issue_date BETWEEN ? AND ? AND status IN ?", userID, dr.Start, dr.End, statuses).
		Order("issue_date ASC")
	quotations, err := findAll(q, func(m *models.QuotationModel) finance.Quotation { return *m.ToDomain() })
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(quotations))
	for i := range quotations {
		ids[i] = quotations[i].ID
	}
	byParent, err := r.paymentsFor(ctx, userID, finance.PayableQuotation, ids)
	if err != nil {
		return nil, err
	}
	for i := range quotations {
		quotations[i].Payments = byParent[quotations[i].ID]
	}
	return quotations, nil
}

// IncomeRecordsInRange returns other income by date, payments attached
func (r *GormLedgerReader) IncomeRecordsInRange(ctx context.Context, userID uuid.UUID, dr report.DateRange) ([]finance.IncomeRecord, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, dr.Start, dr.End).
		Order("date ASC")
	records, err := findAll(q, func(m *models.IncomeRecordModel) finance.IncomeRecord { return *m.ToDomain() })
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(records))
	for i := range records {
		ids[i] = records[i].ID
	}
	byParent, err := r.paymentsFor(ctx, userID, finance.PayableOtherIncome, ids)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Payments = byParent[records[i].ID]
	}
	return records, nil
}

// PurchasesInRange returns purchases of every status by purchase date, payments attached
func (r *GormLedgerReader) PurchasesInRange(ctx context.Context, userID uuid.UUID, dr report.DateRange) ([]finance.Purchase, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND purchase_date BETWEEN ? AND ?", userID, dr.Start, dr.End).
		Order("purchase_date ASC")
	purchases, err := findAll(q, func(m *models.PurchaseModel) finance.Purchase { return *m.ToDomain() })
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(purchases))
	for i := range purchases {
		ids[i] = purchases[i].ID
	}
	byParent, err := r.paymentsFor(ctx, userID, finance.PayablePurchase, ids)
	if err != nil {
		return nil, err
	}
	for i := range purchases {
		purchases[i].Payments = byParent[purchases[i].ID]
	}
	return purchases, nil
}

// ExpensePaymentsInRange returns other-expense payments by payment date with their expense.
// Payments whose expense no longer exists are skipped.
func (r *GormLedgerReader) ExpensePaymentsInRange(ctx context.Context, userID uuid.UUID, dr report.DateRange) ([]report.ExpenseEntry, error) {
	var rows []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND other_expenses_id IS NOT NULL AND payment_date BETWEEN ? AND ?", userID, dr.Start, dr.End).
		Order("payment_date ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, TranslateError(err)
	}
	payments, err := models.PaymentsToDomain(rows)
	if err != nil {
		return nil, TranslateError(err)
	}
	if len(payments) == 0 {
		return []report.ExpenseEntry{}, nil
	}

	ids := make([]uuid.UUID, len(payments))
	for i, p := range payments {
		ids[i] = p.Payable.ID
	}
	q := r.db.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, uniqueIDs(ids))
	expenses, err := findAll(q, func(m *models.ExpenseModel) finance.Expense { return *m.ToDomain() })
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]finance.Expense, len(expenses))
	for _, e := range expenses {
		byID[e.ID] = e
	}

	entries := make([]report.ExpenseEntry, 0, len(payments))
	for _, p := range payments {
		expense, ok := byID[p.Payable.ID]
		if !ok {
			continue
		}
		entries = append(entries, report.ExpenseEntry{Payment: p, Expense: expense})
	}
	return entries, nil
}

// paymentsFor loads every payment of the given parents, grouped by parent ID, oldest first
func (r *GormLedgerReader) paymentsFor(ctx context.Context, userID uuid.UUID, kind finance.PayableKind, ids []uuid.UUID) (map[uuid.UUID][]finance.Payment, error) {
	out := make(map[uuid.UUID][]finance.Payment)
	if len(ids) == 0 {
		return out, nil
	}
	column, err := models.PayableColumn(kind)
	if err != nil {
		return nil, TranslateError(err)
	}

	var rows []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND "+column+" IN ?", userID, ids).
		Order("payment_date ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, TranslateError(err)
	}
	payments, err := models.PaymentsToDomain(rows)
	if err != nil {
		return nil, TranslateError(err)
	}
	for _, p := range payments {
		out[p.Payable.ID] = append(out[p.Payable.ID], p)
	}
	return out, nil
}

func findAll[M any, D any](q *gorm.DB, convert func(*M) D) ([]D, error) {
	var rows []M
	if err := q.Find(&rows).Error; err != nil {
		return nil, TranslateError(err)
	}
	out := make([]D, 0, len(rows))
	for i := range rows {
		out = append(out, convert(&rows[i]))
	}
	return out, nil
}

func payables[M any, P finance.Payable](q *gorm.DB, convert func(*M) P) ([]finance.Payable, error) {
	loaded, err := findAll(q, convert)
	if err != nil {
		return nil, err
	}
	out := make([]finance.Payable, len(loaded))
	for i, p := range loaded {
		out[i] = p
	}
	return out, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Ensure GormLedgerReader implements LedgerReader
var _ report.LedgerReader = (*GormLedgerReader)(nil)
