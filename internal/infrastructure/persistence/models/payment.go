package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerbook/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// PaymentModel is the persistence model for the Payment aggregate root.
// Exactly one of the six parent columns is set; payable_type names which one.
type PaymentModel struct {
	OwnedModel
	Amount          decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	PaymentMethod   finance.PaymentMethod   `gorm:"type:varchar(30);not null"`
	PaymentDate     time.Time               `gorm:"not null;index"`
	Reference       string                  `gorm:"type:varchar(100)"`
	Notes           string                  `gorm:"type:text"`
	Category        finance.PaymentCategory `gorm:"type:varchar(10);not null"`
	PayableType     finance.PayableKind     `gorm:"type:varchar(20);not null;index"`
	SaleID          *uuid.UUID              `gorm:"type:uuid;index"`
	QuotationID     *uuid.UUID              `gorm:"type:uuid;index"`
	PurchaseID      *uuid.UUID              `gorm:"type:uuid;index"`
	LoanID          *uuid.UUID              `gorm:"type:uuid;index"`
	OtherIncomeID   *uuid.UUID              `gorm:"type:uuid;index"`
	OtherExpensesID *uuid.UUID              `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// PayableColumn returns the foreign key column that points at a parent of kind
func PayableColumn(kind finance.PayableKind) (string, error) {
	switch kind {
	case finance.PayableSale:
		return "sale_id", nil
	case finance.PayableQuotation:
		return "quotation_id", nil
	case finance.PayablePurchase:
		return "purchase_id", nil
	case finance.PayableLoan:
		return "loan_id", nil
	case finance.PayableOtherIncome:
		return "other_income_id", nil
	case finance.PayableOtherExpenses:
		return "other_expenses_id", nil
	}
	return "", fmt.Errorf("unknown payable type %q", kind)
}

func (m *PaymentModel) parentColumns() map[finance.PayableKind]**uuid.UUID {
	return map[finance.PayableKind]**uuid.UUID{
		finance.PayableSale:          &m.SaleID,
		finance.PayableQuotation:     &m.QuotationID,
		finance.PayablePurchase:      &m.PurchaseID,
		finance.PayableLoan:          &m.LoanID,
		finance.PayableOtherIncome:   &m.OtherIncomeID,
		finance.PayableOtherExpenses: &m.OtherExpensesID,
	}
}

// FromDomain populates the persistence model from a domain Payment
func (m *PaymentModel) FromDomain(p *finance.Payment) {
	m.FromDomainOwned(p.OwnedAggregateRoot)
	m.Amount = p.Amount
	m.PaymentMethod = p.PaymentMethod
	m.PaymentDate = p.PaymentDate
	m.Reference = p.Reference
	m.Notes = p.Notes
	m.Category = p.Category
	m.PayableType = p.Payable.Kind

	for kind, col := range m.parentColumns() {
		*col = nil
		if kind == p.Payable.Kind {
			id := p.Payable.ID
			*col = &id
		}
	}
}

// ToDomain converts the persistence model to a domain Payment.
// A row with no parent column, or more than one, is rejected.
func (m *PaymentModel) ToDomain() (*finance.Payment, error) {
	ref, err := m.payableRef()
	if err != nil {
		return nil, err
	}
	return &finance.Payment{
		OwnedAggregateRoot: m.ToDomainOwned(),
		Amount:             m.Amount,
		PaymentMethod:      m.PaymentMethod,
		PaymentDate:        m.PaymentDate,
		Reference:          m.Reference,
		Notes:              m.Notes,
		Category:           m.Category,
		Payable:            ref,
	}, nil
}

func (m *PaymentModel) payableRef() (finance.PayableRef, error) {
	var (
		ref   finance.PayableRef
		found int
	)
	for kind, col := range m.parentColumns() {
		if *col == nil {
			continue
		}
		found++
		ref = finance.PayableRef{Kind: kind, ID: **col}
	}
	if found != 1 {
		return finance.PayableRef{}, fmt.Errorf("payment %s references %d parents, want exactly one", m.ID, found)
	}
	if m.PayableType != "" && m.PayableType != ref.Kind {
		return finance.PayableRef{}, fmt.Errorf("payment %s payable_type %s does not match its %s parent", m.ID, m.PayableType, ref.Kind)
	}
	return ref, nil
}

// PaymentsToDomain converts a slice of models, stopping at the first inconsistent row
func PaymentsToDomain(rows []PaymentModel) ([]finance.Payment, error) {
	out := make([]finance.Payment, 0, len(rows))
	for i := range rows {
		p, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}
