package report

import (
	"time"

	"github.com/ledgerbook/backend/internal/domain/shared"
	"github.com/ledgerbook/backend/internal/domain/shared/valueobject"
)

// Type names a report
type Type string

const (
	TypeCashFlow Type = "cashflow"
	TypeIncome   Type = "income"
	TypeExpense  Type = "expense"
)

// Meta describes how a report was produced
type Meta struct {
	Type                Type                    `json:"type"`
	Range               RangeName               `json:"range"`
	StartDate           time.Time               `json:"startDate"`
	EndDate             time.Time               `json:"endDate"`
	TotalRecords        int                     `json:"totalRecords"`
	RegistrationType    shared.RegistrationType `json:"registrationType"`
	IncludesOwnerEquity bool                    `json:"includesOwnerEquity"`
	Currency            valueobject.Currency    `json:"currency"`
	GeneratedAt         time.Time               `json:"generatedAt"`
}

// NewMeta builds report metadata for a caller and range
func NewMeta(t Type, caller shared.Caller, r DateRange, totalRecords int, generatedAt time.Time) Meta {
	return Meta{
		Type:                t,
		Range:               r.Name,
		StartDate:           r.Start,
		EndDate:             r.End,
		TotalRecords:        totalRecords,
		RegistrationType:    caller.RegistrationType,
		IncludesOwnerEquity: caller.IncludesOwnerEquity(),
		Currency:            Currency,
		GeneratedAt:         generatedAt,
	}
}
