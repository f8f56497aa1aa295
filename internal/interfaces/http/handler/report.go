package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	reportapp "github.com/ledgerbook/backend/internal/application/report"
	"github.com/ledgerbook/backend/internal/domain/report"
	"github.com/ledgerbook/backend/internal/domain/shared"
	"github.com/ledgerbook/backend/internal/interfaces/http/dto"
	"github.com/ledgerbook/backend/internal/interfaces/http/middleware"
)

// ReportService produces the three financial reports
type ReportService interface {
	CashFlow(ctx context.Context, caller shared.Caller, q report.RangeQuery, now time.Time) (*reportapp.CashFlowResult, error)
	Income(ctx context.Context, caller shared.Caller, q report.RangeQuery, now time.Time) (*reportapp.IncomeResult, error)
	Expense(ctx context.Context, caller shared.Caller, q report.RangeQuery, now time.Time) (*reportapp.ExpenseResult, error)
}

// ReportHandler handles report API endpoints
type ReportHandler struct {
	BaseHandler
	reports ReportService
	now     func() time.Time
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports ReportService) *ReportHandler {
	return &ReportHandler{reports: reports, now: time.Now}
}

// CashFlow godoc
// @ID           getCashFlowReport
// @Summary      Cash flow report
// @Description  Operating, investing and financing flows inside the range
// @Tags         reports
// @Produce      json
// @Param        range     query string false "today, thisWeek, thisMonth, lastMonth, thisQuarter, lastQuarter, thisYear, lastYear, last30Days, last90Days, custom"
// @Param        startDate query string false "YYYY-MM-DD, required for custom"
// @Param        endDate   query string false "YYYY-MM-DD, required for custom"
// @Success      200 {object} dto.CashFlowReportResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/cashflow [get]
func (h *ReportHandler) CashFlow(c *gin.Context) {
	caller, q, ok := h.bind(c)
	if !ok {
		return
	}
	result, err := h.reports.CashFlow(c.Request.Context(), caller, q, h.now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CashFlowReportResponse{Success: true, CashFlowResult: result})
}

// Income godoc
// @ID           getIncomeReport
// @Summary      Income report
// @Description  Revenue from sales, accepted quotations and other income, net of refunds
// @Tags         reports
// @Produce      json
// @Param        range     query string false "Named range, defaults to thisYear"
// @Param        startDate query string false "YYYY-MM-DD, required for custom"
// @Param        endDate   query string false "YYYY-MM-DD, required for custom"
// @Success      200 {object} dto.IncomeReportResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/income [get]
func (h *ReportHandler) Income(c *gin.Context) {
	caller, q, ok := h.bind(c)
	if !ok {
		return
	}
	result, err := h.reports.Income(c.Request.Context(), caller, q, h.now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.IncomeReportResponse{Success: true, IncomeResult: result})
}

// Expense godoc
// @ID           getExpenseReport
// @Summary      Expense report
// @Description  Purchases and other expenses with the deductible split
// @Tags         reports
// @Produce      json
// @Param        range     query string false "Named range, defaults to thisYear"
// @Param        startDate query string false "YYYY-MM-DD, required for custom"
// @Param        endDate   query string false "YYYY-MM-DD, required for custom"
// @Success      200 {object} dto.ExpenseReportResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/expense [get]
func (h *ReportHandler) Expense(c *gin.Context) {
	caller, q, ok := h.bind(c)
	if !ok {
		return
	}
	result, err := h.reports.Expense(c.Request.Context(), caller, q, h.now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ExpenseReportResponse{Success: true, ExpenseResult: result})
}

func (h *ReportHandler) bind(c *gin.Context) (shared.Caller, report.RangeQuery, bool) {
	caller, ok := h.caller(c)
	if !ok {
		return shared.Caller{}, report.RangeQuery{}, false
	}
	var q dto.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return shared.Caller{}, report.RangeQuery{}, false
	}
	return caller, q.RangeQuery(), true
}
