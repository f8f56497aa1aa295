package models

import (
	"time"

	"github.com/ledgerbook/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// DocumentModel holds the columns shared by sales, quotations and purchases
type DocumentModel struct {
	OwnedModel
	TotalAmount  decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	AmountPaid   decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	Balance      decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	Status       finance.DocumentStatus `gorm:"type:varchar(20);not null;index"`
	RefundAmount decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	RefundDate   *time.Time
	RefundReason string `gorm:"type:varchar(500)"`
}

func (m *DocumentModel) fromDomain(d *finance.PayableDocument) {
	m.FromDomainOwned(d.OwnedAggregateRoot)
	m.TotalAmount = d.TotalAmount
	m.AmountPaid = d.AmountPaid
	m.Balance = d.Balance
	m.Status = d.Status
	m.RefundAmount = d.RefundAmount
	m.RefundDate = d.RefundDate
	m.RefundReason = d.RefundReason
}

func (m *DocumentModel) toDomain(kind finance.PayableKind) finance.PayableDocument {
	d := finance.PayableDocument{
		OwnedAggregateRoot: m.ToDomainOwned(),
		TotalAmount:        m.TotalAmount,
		AmountPaid:         m.AmountPaid,
		Balance:            m.Balance,
		Status:             m.Status,
		RefundAmount:       m.RefundAmount,
		RefundDate:         m.RefundDate,
		RefundReason:       m.RefundReason,
	}
	d.SetKind(kind)
	return d
}

// SaleModel is the persistence model for the Sale aggregate root
type SaleModel struct {
	DocumentModel
	SaleDate      time.Time       `gorm:"not null;index"`
	CustomerName  string          `gorm:"type:varchar(200);not null"`
	CustomerEmail string          `gorm:"type:varchar(200)"`
	Description   string          `gorm:"type:text"`
	VATRate       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	VATAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// FromDomain populates the persistence model from a domain Sale
func (m *SaleModel) FromDomain(s *finance.Sale) {
	m.fromDomain(&s.PayableDocument)
	m.SaleDate = s.SaleDate
	m.CustomerName = s.CustomerName
	m.CustomerEmail = s.CustomerEmail
	m.Description = s.Description
	m.VATRate = s.VAT.Rate
	m.VATAmount = s.VAT.Amount
}

// ToDomain converts the persistence model to a domain Sale
func (m *SaleModel) ToDomain() *finance.Sale {
	return &finance.Sale{
		PayableDocument: m.toDomain(finance.PayableSale),
		VAT:             finance.VAT{Rate: m.VATRate, Amount: m.VATAmount},
		SaleDate:        m.SaleDate,
		CustomerName:    m.CustomerName,
		CustomerEmail:   m.CustomerEmail,
		Description:     m.Description,
	}
}

// QuotationModel is the persistence model for the Quotation aggregate root
type QuotationModel struct {
	DocumentModel
	IssueDate     time.Time `gorm:"not null;index"`
	ExpiryDate    *time.Time
	CustomerName  string          `gorm:"type:varchar(200);not null"`
	CustomerEmail string          `gorm:"type:varchar(200)"`
	Description   string          `gorm:"type:text"`
	VATRate       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	VATAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (QuotationModel) TableName() string {
	return "quotations"
}

// FromDomain populates the persistence model from a domain Quotation
func (m *QuotationModel) FromDomain(q *finance.Quotation) {
	m.fromDomain(&q.PayableDocument)
	m.IssueDate = q.IssueDate
	m.ExpiryDate = q.ExpiryDate
	m.CustomerName = q.CustomerName
	m.CustomerEmail = q.CustomerEmail
	m.Description = q.Description
	m.VATRate = q.VAT.Rate
	m.VATAmount = q.VAT.Amount
}

// ToDomain converts the persistence model to a domain Quotation
func (m *QuotationModel) ToDomain() *finance.Quotation {
	return &finance.Quotation{
		PayableDocument: m.toDomain(finance.PayableQuotation),
		VAT:             finance.VAT{Rate: m.VATRate, Amount: m.VATAmount},
		IssueDate:       m.IssueDate,
		ExpiryDate:      m.ExpiryDate,
		CustomerName:    m.CustomerName,
		CustomerEmail:   m.CustomerEmail,
		Description:     m.Description,
	}
}

// PurchaseModel is the persistence model for the Purchase aggregate root
type PurchaseModel struct {
	DocumentModel
	PurchaseDate time.Time `gorm:"not null;index"`
	SupplierName string    `gorm:"type:varchar(200);not null"`
	Description  string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PurchaseModel) TableName() string {
	return "purchases"
}

// FromDomain populates the persistence model from a domain Purchase
func (m *PurchaseModel) FromDomain(p *finance.Purchase) {
	m.fromDomain(&p.PayableDocument)
	m.PurchaseDate = p.PurchaseDate
	m.SupplierName = p.SupplierName
	m.Description = p.Description
}

// ToDomain converts the persistence model to a domain Purchase
func (m *PurchaseModel) ToDomain() *finance.Purchase {
	return &finance.Purchase{
		PayableDocument: m.toDomain(finance.PayablePurchase),
		PurchaseDate:    m.PurchaseDate,
		SupplierName:    m.SupplierName,
		Description:     m.Description,
	}
}
