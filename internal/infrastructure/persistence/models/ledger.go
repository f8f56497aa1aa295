package models

import (
	"time"

	"github.com/ledgerbook/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// LoanModel is the persistence model for the Loan aggregate root
type LoanModel struct {
	OwnedModel
	LoanType         finance.LoanType         `gorm:"type:varchar(20);not null"`
	Counterparty     string                   `gorm:"type:varchar(200)"`
	PrincipalAmount  decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	InterestRate     decimal.Decimal          `gorm:"type:decimal(7,4);not null;default:0"`
	ProcessingFee    decimal.Decimal          `gorm:"type:decimal(18,2);not null;default:0"`
	ManagementFee    decimal.Decimal          `gorm:"type:decimal(18,2);not null;default:0"`
	InsuranceFee     decimal.Decimal          `gorm:"type:decimal(18,2);not null;default:0"`
	OtherFees        decimal.Decimal          `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentFrequency finance.PaymentFrequency `gorm:"type:varchar(20);not null"`
	Term             int                      `gorm:"not null"`
	TermUnit         finance.TermUnit         `gorm:"type:varchar(10);not null"`
	StartDate        time.Time                `gorm:"not null"`
	Status           finance.LoanStatus       `gorm:"type:varchar(20);not null;index"`
	AmountPaid       decimal.Decimal          `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (LoanModel) TableName() string {
	return "loans"
}

// FromDomain populates the persistence model from a domain Loan
func (m *LoanModel) FromDomain(l *finance.Loan) {
	m.FromDomainOwned(l.OwnedAggregateRoot)
	m.LoanType = l.LoanType
	m.Counterparty = l.Counterparty
	m.PrincipalAmount = l.PrincipalAmount
	m.InterestRate = l.InterestRate
	m.ProcessingFee = l.Fees.Processing
	m.ManagementFee = l.Fees.Management
	m.InsuranceFee = l.Fees.Insurance
	m.OtherFees = l.Fees.Other
	m.PaymentFrequency = l.PaymentFrequency
	m.Term = l.Term
	m.TermUnit = l.TermUnit
	m.StartDate = l.StartDate
	m.Status = l.Status
	m.AmountPaid = l.AmountPaid
}

// ToDomain converts the persistence model to a domain Loan
func (m *LoanModel) ToDomain() *finance.Loan {
	return &finance.Loan{
		OwnedAggregateRoot: m.ToDomainOwned(),
		LoanType:           m.LoanType,
		Counterparty:       m.Counterparty,
		PrincipalAmount:    m.PrincipalAmount,
		InterestRate:       m.InterestRate,
		Fees: finance.LoanFees{
			Processing: m.ProcessingFee,
			Management: m.ManagementFee,
			Insurance:  m.InsuranceFee,
			Other:      m.OtherFees,
		},
		PaymentFrequency: m.PaymentFrequency,
		Term:             m.Term,
		TermUnit:         m.TermUnit,
		StartDate:        m.StartDate,
		Status:           m.Status,
		AmountPaid:       m.AmountPaid,
	}
}

// IncomeRecordModel is the persistence model for other income
type IncomeRecordModel struct {
	OwnedModel
	Description string          `gorm:"type:varchar(500)"`
	Category    string          `gorm:"type:varchar(50)"`
	GrossAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Date        time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (IncomeRecordModel) TableName() string {
	return "income_records"
}

// FromDomain populates the persistence model from a domain IncomeRecord
func (m *IncomeRecordModel) FromDomain(r *finance.IncomeRecord) {
	m.FromDomainOwned(r.OwnedAggregateRoot)
	m.Description = r.Description
	m.Category = r.Category
	m.GrossAmount = r.GrossAmount
	m.Date = r.Date
}

// ToDomain converts the persistence model to a domain IncomeRecord
func (m *IncomeRecordModel) ToDomain() *finance.IncomeRecord {
	return &finance.IncomeRecord{
		OwnedAggregateRoot: m.ToDomainOwned(),
		Description:        m.Description,
		Category:           m.Category,
		GrossAmount:        m.GrossAmount,
		Date:               m.Date,
	}
}

// ExpenseModel is the persistence model for other expenses
type ExpenseModel struct {
	OwnedModel
	Description         string          `gorm:"type:varchar(500)"`
	Category            string          `gorm:"type:varchar(50);not null;index"`
	Amount              decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Date                time.Time       `gorm:"not null;index"`
	IsReturn            bool            `gorm:"not null;default:false"`
	IsDeductible        bool            `gorm:"not null;default:false"`
	DeductionPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:100"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// FromDomain populates the persistence model from a domain Expense
func (m *ExpenseModel) FromDomain(e *finance.Expense) {
	m.FromDomainOwned(e.OwnedAggregateRoot)
	m.Description = e.Description
	m.Category = e.Category
	m.Amount = e.Amount
	m.Date = e.Date
	m.IsReturn = e.IsReturn
	m.IsDeductible = e.IsDeductible
	m.DeductionPercentage = e.DeductionPercentage
}

// ToDomain converts the persistence model to a domain Expense
func (m *ExpenseModel) ToDomain() *finance.Expense {
	return &finance.Expense{
		OwnedAggregateRoot:  m.ToDomainOwned(),
		Description:         m.Description,
		Category:            m.Category,
		Amount:              m.Amount,
		Date:                m.Date,
		IsReturn:            m.IsReturn,
		IsDeductible:        m.IsDeductible,
		DeductionPercentage: m.DeductionPercentage,
	}
}

// FixedAssetModel is the persistence model for fixed assets
type FixedAssetModel struct {
	OwnedModel
	Name             string           `gorm:"type:varchar(200);not null"`
	Category         string           `gorm:"type:varchar(50)"`
	AcquisitionDate  time.Time        `gorm:"not null;index"`
	AcquisitionCost  decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	DisposalDate     *time.Time       `gorm:"index"`
	DisposalProceeds *decimal.Decimal `gorm:"type:decimal(18,2)"`
	CapitalGain      *decimal.Decimal `gorm:"type:decimal(18,2)"`
}

// TableName returns the table name for GORM
func (FixedAssetModel) TableName() string {
	return "fixed_assets"
}

// FromDomain populates the persistence model from a domain FixedAsset
func (m *FixedAssetModel) FromDomain(a *finance.FixedAsset) {
	m.FromDomainOwned(a.OwnedAggregateRoot)
	m.Name = a.Name
	m.Category = a.Category
	m.AcquisitionDate = a.AcquisitionDate
	m.AcquisitionCost = a.AcquisitionCost
	m.DisposalDate = a.DisposalDate
	m.DisposalProceeds = a.DisposalProceeds
	m.CapitalGain = a.CapitalGain
}

// ToDomain converts the persistence model to a domain FixedAsset
func (m *FixedAssetModel) ToDomain() *finance.FixedAsset {
	return &finance.FixedAsset{
		OwnedAggregateRoot: m.ToDomainOwned(),
		Name:               m.Name,
		Category:           m.Category,
		AcquisitionDate:    m.AcquisitionDate,
		AcquisitionCost:    m.AcquisitionCost,
		DisposalDate:       m.DisposalDate,
		DisposalProceeds:   m.DisposalProceeds,
		CapitalGain:        m.CapitalGain,
	}
}

// OwnerEquityModel is the persistence model for owner equity movements
type OwnerEquityModel struct {
	OwnedModel
	Type        finance.EquityType `gorm:"type:varchar(30);not null"`
	Amount      decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	Date        time.Time          `gorm:"not null;index"`
	Description string             `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (OwnerEquityModel) TableName() string {
	return "owner_equity"
}

// FromDomain populates the persistence model from a domain OwnerEquity
func (m *OwnerEquityModel) FromDomain(e *finance.OwnerEquity) {
	m.FromDomainOwned(e.OwnedAggregateRoot)
	m.Type = e.Type
	m.Amount = e.Amount
	m.Date = e.Date
	m.Description = e.Description
}

// ToDomain converts the persistence model to a domain OwnerEquity
func (m *OwnerEquityModel) ToDomain() *finance.OwnerEquity {
	return &finance.OwnerEquity{
		OwnedAggregateRoot: m.ToDomainOwned(),
		Type:               m.Type,
		Amount:             m.Amount,
		Date:               m.Date,
		Description:        m.Description,
	}
}

// AllModels lists every model, in dependency order, for AutoMigrate in tests
func AllModels() []any {
	return []any{
		&SaleModel{},
		&QuotationModel{},
		&PurchaseModel{},
		&LoanModel{},
		&IncomeRecordModel{},
		&ExpenseModel{},
		&FixedAssetModel{},
		&OwnerEquityModel{},
		&PaymentModel{},
	}
}
