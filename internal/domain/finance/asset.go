package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgerbook/backend/internal/domain/shared"
	"github.com/ledgerbook/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// FixedAsset is long-lived property bought by the business
type FixedAsset struct {
	shared.OwnedAggregateRoot
	Name             string           `json:"name"`
	Category         string           `json:"category"`
	AcquisitionDate  time.Time        `json:"acquisitionDate"`
	AcquisitionCost  decimal.Decimal  `json:"acquisitionCost"`
	DisposalDate     *time.Time       `json:"disposalDate,omitempty"`
	DisposalProceeds *decimal.Decimal `json:"disposalProceeds,omitempty"`
	CapitalGain      *decimal.Decimal `json:"capitalGain,omitempty"`
}

// NewFixedAsset records an asset acquisition
func NewFixedAsset(userID uuid.UUID, name, category string, acquiredAt time.Time, cost decimal.Decimal) (*FixedAsset, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	cost = valueobject.Round2(cost)
	if cost.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Acquisition cost cannot be negative")
	}
	return &FixedAsset{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		Name:               name,
		Category:           category,
		AcquisitionDate:    acquiredAt,
		AcquisitionCost:    cost,
	}, nil
}

// Dispose records the sale of the asset; the capital gain is proceeds less cost
func (a *FixedAsset) Dispose(at time.Time, proceeds decimal.Decimal) error {
	if at.Before(a.AcquisitionDate) {
		return shared.NewDomainError(shared.CodeValidation, "Disposal date cannot precede acquisition date")
	}
	proceeds = valueobject.Round2(proceeds)
	gain := valueobject.Round2(proceeds.Sub(a.AcquisitionCost))
	a.DisposalDate = &at
	a.DisposalProceeds = &proceeds
	a.CapitalGain = &gain
	a.Touch()
	return nil
}

// IsDisposed returns true once a disposal date is recorded
func (a *FixedAsset) IsDisposed() bool {
	return a.DisposalDate != nil
}

// EquityType classifies owner equity movements
type EquityType string

const (
	EquityCapitalInjection EquityType = "CAPITAL_INJECTION"
	EquityDrawing          EquityType = "DRAWING"
	EquityDividend         EquityType = "DIVIDEND"
	EquityShareBuyback     EquityType = "SHARE_BUYBACK"
)

// IsValid checks if the equity type is valid
func (t EquityType) IsValid() bool {
	switch t {
	case EquityCapitalInjection, EquityDrawing, EquityDividend, EquityShareBuyback:
		return true
	}
	return false
}

// OwnerEquity is money put into or taken out of a company by its owners
type OwnerEquity struct {
	shared.OwnedAggregateRoot
	Type        EquityType      `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
}

// NewOwnerEquity records an owner equity movement
func NewOwnerEquity(userID uuid.UUID, t EquityType, amount decimal.Decimal, date time.Time, description string) (*OwnerEquity, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if !t.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Unknown owner equity type")
	}
	amount = valueobject.Round2(amount)
	if !amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Amount must be greater than zero")
	}
	return &OwnerEquity{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		Type:               t,
		Amount:             amount,
		Date:               date,
		Description:        description,
	}, nil
}

// IsInflow returns true when the movement brings cash into the business
func (e *OwnerEquity) IsInflow() bool {
	return e.Type == EquityCapitalInjection
}
