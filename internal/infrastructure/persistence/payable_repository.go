package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ledgerbook/backend/internal/domain/finance"
	"github.com/ledgerbook/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPayableRepository implements PayableRepository using GORM.
// It loads and stores the six kinds of record a payment can be made against.
type GormPayableRepository struct {
	db *gorm.DB
}

// NewGormPayableRepository creates a new GormPayableRepository
func NewGormPayableRepository(db *gorm.DB) *GormPayableRepository {
	return &GormPayableRepository{db: db}
}

// FindByRef finds a payable owned by userID
func (r *GormPayableRepository) FindByRef(ctx context.Context, userID uuid.UUID, ref finance.PayableRef) (finance.Payable, error) {
	return r.find(r.db.WithContext(ctx), userID, ref)
}

// FindForUpdate finds a payable and takes a row lock held until the transaction ends.
// Concurrent mutations against the same parent serialize here.
func (r *GormPayableRepository) FindForUpdate(ctx context.Context, userID uuid.UUID, ref finance.PayableRef) (finance.Payable, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), userID, ref)
}

func (r *GormPayableRepository) find(db *gorm.DB, userID uuid.UUID, ref finance.PayableRef) (finance.Payable, error) {
	q := db.Where("user_id = ? AND id = ?", userID, ref.ID)
	switch ref.Kind {
	case finance.PayableSale:
		return first(q, ref.Kind, (*models.SaleModel).ToDomain)
	case finance.PayableQuotation:
		return first(q, ref.Kind, (*models.QuotationModel).ToDomain)
	case finance.PayablePurchase:
		return first(q, ref.Kind, (*models.PurchaseModel).ToDomain)
	case finance.PayableLoan:
		return first(q, ref.Kind, (*models.LoanModel).ToDomain)
	case finance.PayableOtherIncome:
		return first(q, ref.Kind, (*models.IncomeRecordModel).ToDomain)
	case finance.PayableOtherExpenses:
		return first(q, ref.Kind, (*models.ExpenseModel).ToDomain)
	}
	return nil, finance.PayableNotFound(ref.Kind)
}

func first[M any, P finance.Payable](q *gorm.DB, kind finance.PayableKind, convert func(*M) P) (finance.Payable, error) {
	var model M
	if err := q.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, finance.PayableNotFound(kind)
		}
		return nil, TranslateError(err)
	}
	return convert(&model), nil
}

// Save creates or updates a payable
func (r *GormPayableRepository) Save(ctx context.Context, payable finance.Payable) error {
	var model any
	switch p := payable.(type) {
	case *finance.Sale:
		m := &models.SaleModel{}
		m.FromDomain(p)
		model = m
	case *finance.Quotation:
		m := &models.QuotationModel{}
		m.FromDomain(p)
		model = m
	case *finance.Purchase:
		m := &models.PurchaseModel{}
		m.FromDomain(p)
		model = m
	case *finance.Loan:
		m := &models.LoanModel{}
		m.FromDomain(p)
		model = m
	case *finance.IncomeRecord:
		m := &models.IncomeRecordModel{}
		m.FromDomain(p)
		model = m
	case *finance.Expense:
		m := &models.ExpenseModel{}
		m.FromDomain(p)
		model = m
	default:
		return TranslateError(fmt.Errorf("unsupported payable %T", payable))
	}
	return TranslateError(r.db.WithContext(ctx).Save(model).Error)
}

// Ensure GormPayableRepository implements PayableRepository
var _ finance.PayableRepository = (*GormPayableRepository)(nil)
