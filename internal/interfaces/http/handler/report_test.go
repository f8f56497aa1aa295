package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	reportapp "github.com/ledgerbook/backend/internal/application/report"
	"github.com/ledgerbook/backend/internal/domain/report"
	"github.com/ledgerbook/backend/internal/domain/shared"
	"github.com/ledgerbook/backend/internal/interfaces/http/dto"
	"github.com/ledgerbook/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReportService is a mock implementation of ReportService
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) CashFlow(ctx context.Context, caller shared.Caller, q report.RangeQuery, now time.Time) (*reportapp.CashFlowResult, error) {
	args := m.Called(ctx, caller, q, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reportapp.CashFlowResult), args.Error(1)
}

func (m *MockReportService) Income(ctx context.Context, caller shared.Caller, q report.RangeQuery, now time.Time) (*reportapp.IncomeResult, error) {
	args := m.Called(ctx, caller, q, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reportapp.IncomeResult), args.Error(1)
}

func (m *MockReportService) Expense(ctx context.Context, caller shared.Caller, q report.RangeQuery, now time.Time) (*reportapp.ExpenseResult, error) {
	args := m.Called(ctx, caller, q, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reportapp.ExpenseResult), args.Error(1)
}

var reportNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func newReportRouter(svc ReportService) *gin.Engine {
	h := NewReportHandler(svc)
	h.now = func() time.Time { return reportNow }

	router := gin.New()
	router.Use(func(c *gin.Context) {
		middleware.SetCaller(c, testCaller)
		c.Next()
	})
	router.GET("/reports/cashflow", h.CashFlow)
	router.GET("/reports/income", h.Income)
	router.GET("/reports/expense", h.Expense)
	return router
}

func testMeta(t report.Type) report.Meta {
	r, _ := report.ResolveDateRange(report.RangeQuery{Range: "thisYear"}, reportNow)
	return report.NewMeta(t, testCaller, r, 0, reportNow)
}

func TestReportHandler_CashFlow(t *testing.T) {
	svc := new(MockReportService)
	result := &reportapp.CashFlowResult{Meta: testMeta(report.TypeCashFlow)}
	result.Summary.TotalInflows = decimal.NewFromInt(5000)
	result.Summary.NetCashFlow = decimal.NewFromInt(5000)
	svc.On("CashFlow", mock.Anything, testCaller, report.RangeQuery{Range: "thisYear"}, reportNow).Return(result, nil)

	w := doRequest(newReportRouter(svc), http.MethodGet, "/reports/cashflow?range=thisYear", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	for _, key := range []string{"meta", "summary", "chartData", "data"} {
		assert.Contains(t, body, key)
	}
	meta := body["meta"].(map[string]any)
	assert.Equal(t, "NGN", meta["currency"])
	assert.Equal(t, "cashflow", meta["type"])
	assert.Equal(t, "thisYear", meta["range"])
	assert.Equal(t, "SOLE_PROPRIETORSHIP", meta["registrationType"])
	assert.Equal(t, false, meta["includesOwnerEquity"])
	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(5000), summary["totalInflows"])
	svc.AssertExpectations(t)
}

func TestReportHandler_PassesCustomRange(t *testing.T) {
	svc := new(MockReportService)
	q := report.RangeQuery{Range: "custom", StartDate: "2024-01-01", EndDate: "2024-03-31"}
	svc.On("Income", mock.Anything, testCaller, q, reportNow).
		Return(&reportapp.IncomeResult{Meta: testMeta(report.TypeIncome)}, nil)

	w := doRequest(newReportRouter(svc), http.MethodGet, "/reports/income?range=custom&startDate=2024-01-01&endDate=2024-03-31", "")

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestReportHandler_RangeValidationIs400(t *testing.T) {
	svc := new(MockReportService)
	rangeErr := shared.NewDomainError(shared.CodeValidation, "endDate is required for a custom range").
		WithDetail("endDate", "is required for a custom range")
	svc.On("Expense", mock.Anything, testCaller, mock.Anything, reportNow).Return(nil, rangeErr)

	w := doRequest(newReportRouter(svc), http.MethodGet, "/reports/expense?range=custom&startDate=2024-01-01", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "endDate is required for a custom range", resp.Error.Message)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "endDate", resp.Error.Details[0].Field)
}

func TestReportHandler_OtherFailuresAre500(t *testing.T) {
	svc := new(MockReportService)
	svc.On("CashFlow", mock.Anything, testCaller, mock.Anything, reportNow).Return(nil, shared.ErrDatabaseUnavailable)
	svc.On("Income", mock.Anything, testCaller, mock.Anything, reportNow).Return(nil, assert.AnError)
	router := newReportRouter(svc)

	w := doRequest(router, http.MethodGet, "/reports/cashflow", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, dto.ErrCodeDatabaseUnavailable, decodeResponse(t, w).Error.Code)

	w = doRequest(router, http.MethodGet, "/reports/income", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, dto.ErrCodeInternal, decodeResponse(t, w).Error.Code)
}

func TestReportHandler_RequiresCaller(t *testing.T) {
	svc := new(MockReportService)
	router := gin.New()
	router.GET("/reports/income", NewReportHandler(svc).Income)

	w := doRequest(router, http.MethodGet, "/reports/income", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)
	svc.AssertNotCalled(t, "Income", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
