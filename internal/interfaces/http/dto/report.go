package dto

import (
	appreport "github.com/ledgerbook/backend/internal/application/report"
	"github.com/ledgerbook/backend/internal/domain/report"
)

// ReportQuery holds the range parameters shared by every report
type ReportQuery struct {
	Range     string `form:"range"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

// RangeQuery converts the query into the resolver input
func (q ReportQuery) RangeQuery() report.RangeQuery {
	return report.RangeQuery{Range: q.Range, StartDate: q.StartDate, EndDate: q.EndDate}
}

// CashFlowReportResponse is {success, meta, summary, chartData, data}
type CashFlowReportResponse struct {
	Success bool `json:"success"`
	*appreport.CashFlowResult
}

// IncomeReportResponse is {success, meta, summary, chartData, data}
type IncomeReportResponse struct {
	Success bool `json:"success"`
	*appreport.IncomeResult
}

// ExpenseReportResponse is {success, meta, summary, chartData, data}
type ExpenseReportResponse struct {
	Success bool `json:"success"`
	*appreport.ExpenseResult
}
