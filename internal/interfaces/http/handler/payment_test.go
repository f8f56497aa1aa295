package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	financeapp "github.com/ledgerbook/backend/internal/application/finance"
	"github.com/ledgerbook/backend/internal/domain/finance"
	"github.com/ledgerbook/backend/internal/domain/shared"
	"github.com/ledgerbook/backend/internal/interfaces/http/dto"
	"github.com/ledgerbook/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPaymentService is a mock implementation of PaymentService
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) RecordPayment(ctx context.Context, caller shared.Caller, cmd financeapp.RecordPaymentCommand) (*financeapp.PaymentResult, error) {
	args := m.Called(ctx, caller, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.PaymentResult), args.Error(1)
}

func (m *MockPaymentService) UpdatePayment(ctx context.Context, caller shared.Caller, paymentID uuid.UUID, cmd financeapp.UpdatePaymentCommand) (*financeapp.PaymentResult, error) {
	args := m.Called(ctx, caller, paymentID, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.PaymentResult), args.Error(1)
}

func (m *MockPaymentService) DeletePayment(ctx context.Context, caller shared.Caller, paymentID uuid.UUID) (*financeapp.PaymentResult, error) {
	args := m.Called(ctx, caller, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*financeapp.PaymentResult), args.Error(1)
}

func (m *MockPaymentService) GetPayment(ctx context.Context, caller shared.Caller, paymentID uuid.UUID) (*finance.Payment, error) {
	args := m.Called(ctx, caller, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Payment), args.Error(1)
}

func (m *MockPaymentService) ListPayments(ctx context.Context, caller shared.Caller, ref finance.PayableRef) ([]finance.Payment, error) {
	args := m.Called(ctx, caller, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.Payment), args.Error(1)
}

var (
	testCaller = shared.NewCaller(uuid.MustParse("00000000-0000-0000-0000-0000000000a1"), shared.RegistrationSoleProprietorship)
	paidOn     = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
)

func newPaymentRouter(svc PaymentService, authenticated bool) *gin.Engine {
	h := NewPaymentHandler(svc)
	router := gin.New()
	router.Use(middleware.RequestID())
	if authenticated {
		router.Use(func(c *gin.Context) {
			middleware.SetCaller(c, testCaller)
			c.Next()
		})
	}
	router.POST("/payments", h.RecordPayment)
	router.GET("/payments", h.ListPayments)
	router.GET("/payments/:id", h.GetPayment)
	router.PATCH("/payments/:id", h.UpdatePayment)
	router.DELETE("/payments/:id", h.DeletePayment)
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// partlyPaidSale returns a 10000 sale with one 4000 payment applied
func partlyPaidSale(t *testing.T) (*finance.Sale, *finance.Payment) {
	t.Helper()
	sale, err := finance.NewSale(testCaller.UserID, "Ada Stores", decimal.NewFromInt(10000), paidOn)
	require.NoError(t, err)
	payment, err := finance.NewPayment(testCaller.UserID, sale, finance.PaymentDetails{
		Amount:        decimal.NewFromInt(4000),
		PaymentMethod: finance.PaymentMethodBankTransfer,
		PaymentDate:   paidOn,
	})
	require.NoError(t, err)
	sale.ApplyPayments([]decimal.Decimal{payment.Amount})
	return sale, payment
}

type mutationBody struct {
	Message    string         `json:"message"`
	Success    bool           `json:"success"`
	Payment    map[string]any `json:"payment"`
	Entity     map[string]any `json:"entity"`
	EntityType string         `json:"entityType"`
}

func TestPaymentHandler_RecordPayment(t *testing.T) {
	sale, payment := partlyPaidSale(t)
	svc := new(MockPaymentService)
	svc.On("RecordPayment", mock.Anything, testCaller, financeapp.RecordPaymentCommand{
		Payable:       sale.Ref(),
		Amount:        decimal.RequireFromString("4000"),
		PaymentMethod: finance.PaymentMethodBankTransfer,
		PaymentDate:   paidOn,
		Reference:     "TRX-1",
	}).Return(&financeapp.PaymentResult{Payment: payment, Entity: sale, EntityType: "sale"}, nil)

	body := `{"payableType":"sale","payableId":"` + sale.ID.String() + `","amount":4000,"paymentMethod":"BANK_TRANSFER","paymentDate":"2024-03-15","reference":" TRX-1 "}`
	w := doRequest(newPaymentRouter(svc, true), http.MethodPost, "/payments", body)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp mutationBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Payment recorded successfully", resp.Message)
	assert.Equal(t, "sale", resp.EntityType)
	assert.Equal(t, float64(4000), resp.Payment["amount"])
	assert.Equal(t, float64(4000), resp.Entity["amountPaid"])
	assert.Equal(t, float64(6000), resp.Entity["balance"])
	assert.Equal(t, "PARTIALLY_PAID", resp.Entity["status"])
	svc.AssertExpectations(t)
}

func TestPaymentHandler_RecordPayment_Validation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing amount", `{"payableType":"sale","payableId":"` + uuid.NewString() + `","paymentMethod":"CASH","paymentDate":"2024-03-15"}`, "amount"},
		{"unknown payable type", `{"payableType":"invoice","payableId":"` + uuid.NewString() + `","amount":1,"paymentMethod":"CASH","paymentDate":"2024-03-15"}`, "payableType"},
		{"bad payable id", `{"payableType":"loan","payableId":"42","amount":1,"paymentMethod":"CASH","paymentDate":"2024-03-15"}`, "payableId"},
		{"unknown method", `{"payableType":"sale","payableId":"` + uuid.NewString() + `","amount":1,"paymentMethod":"BARTER","paymentDate":"2024-03-15"}`, "paymentMethod"},
		{"bad date", `{"payableType":"sale","payableId":"` + uuid.NewString() + `","amount":1,"paymentMethod":"CASH","paymentDate":"15/03/2024"}`, "paymentDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockPaymentService)
			w := doRequest(newPaymentRouter(svc, true), http.MethodPost, "/payments", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeResponse(t, w)
			assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Details)
			assert.Equal(t, tt.field, resp.Error.Details[0].Field)
			svc.AssertNotCalled(t, "RecordPayment", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPaymentHandler_Unauthenticated(t *testing.T) {
	svc := new(MockPaymentService)
	router := newPaymentRouter(svc, false)

	for _, r := range []struct{ method, path string }{
		{http.MethodPost, "/payments"},
		{http.MethodGet, "/payments?payableType=sale&payableId=" + uuid.NewString()},
		{http.MethodGet, "/payments/" + uuid.NewString()},
		{http.MethodPatch, "/payments/" + uuid.NewString()},
		{http.MethodDelete, "/payments/" + uuid.NewString()},
	} {
		w := doRequest(router, r.method, r.path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, r.method+" "+r.path)
	}
	svc.AssertExpectations(t)
}

func TestPaymentHandler_UpdatePayment(t *testing.T) {
	sale, payment := partlyPaidSale(t)
	payment.Amount = decimal.NewFromInt(10000)
	sale.ApplyPayments([]decimal.Decimal{payment.Amount})

	svc := new(MockPaymentService)
	svc.On("UpdatePayment", mock.Anything, testCaller, payment.ID, financeapp.UpdatePaymentCommand{
		Amount:        decimal.RequireFromString("10000.00"),
		PaymentMethod: finance.PaymentMethodCash,
		PaymentDate:   time.Date(2024, 3, 16, 9, 30, 0, 0, time.UTC),
		Notes:         "settled",
	}).Return(&financeapp.PaymentResult{Payment: payment, Entity: sale, EntityType: "sale"}, nil)

	body := `{"amountPaid":"10000.00","paymentMethod":"CASH","paymentDate":"2024-03-16T09:30:00Z","notes":"settled"}`
	w := doRequest(newPaymentRouter(svc, true), http.MethodPatch, "/payments/"+payment.ID.String(), body)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp mutationBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Payment updated successfully", resp.Message)
	assert.Equal(t, float64(0), resp.Entity["balance"])
	assert.Equal(t, "PAID", resp.Entity["status"])
	svc.AssertExpectations(t)
}

func TestPaymentHandler_UpdatePayment_RequiresAllFields(t *testing.T) {
	svc := new(MockPaymentService)
	router := newPaymentRouter(svc, true)
	id := uuid.NewString()

	for field, body := range map[string]string{
		"amountPaid":    `{"paymentMethod":"CASH","paymentDate":"2024-03-15"}`,
		"paymentMethod": `{"amountPaid":10,"paymentDate":"2024-03-15"}`,
		"paymentDate":   `{"amountPaid":10,"paymentMethod":"CASH"}`,
	} {
		w := doRequest(router, http.MethodPatch, "/payments/"+id, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, field)
		resp := decodeResponse(t, w)
		require.Len(t, resp.Error.Details, 1, field)
		assert.Equal(t, field, resp.Error.Details[0].Field)
	}
	svc.AssertNotCalled(t, "UpdatePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentHandler_UpdatePayment_DomainErrors(t *testing.T) {
	id := uuid.New()
	body := `{"amountPaid":6000.01,"paymentMethod":"CASH","paymentDate":"2024-03-15"}`

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"exceeds balance", shared.NewDomainError(shared.CodeValidation, "Amount exceeds the remaining balance of 6000.00").WithDetail("amountPaid", "must not exceed 6000.00"), http.StatusBadRequest},
		{"refunded parent", shared.NewDomainError(shared.CodeValidation, "Cannot modify payments on a refunded sale"), http.StatusBadRequest},
		{"not found", finance.ErrPaymentNotFound, http.StatusNotFound},
		{"database down", shared.ErrDatabaseUnavailable, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockPaymentService)
			svc.On("UpdatePayment", mock.Anything, testCaller, id, mock.Anything).Return(nil, tt.err)

			w := doRequest(newPaymentRouter(svc, true), http.MethodPatch, "/payments/"+id.String(), body)

			assert.Equal(t, tt.status, w.Code)
			assert.False(t, decodeResponse(t, w).Success)
		})
	}
}

func TestPaymentHandler_DeletePayment(t *testing.T) {
	sale, payment := partlyPaidSale(t)
	sale.ApplyPayments(nil)

	svc := new(MockPaymentService)
	svc.On("DeletePayment", mock.Anything, testCaller, payment.ID).
		Return(&financeapp.PaymentResult{Payment: payment, Entity: sale, EntityType: "sale"}, nil).Once()
	svc.On("DeletePayment", mock.Anything, testCaller, payment.ID).Return(nil, finance.ErrPaymentNotFound)
	router := newPaymentRouter(svc, true)

	w := doRequest(router, http.MethodDelete, "/payments/"+payment.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp mutationBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Payment deleted successfully", resp.Message)
	assert.Equal(t, payment.ID.String(), resp.Payment["id"])
	assert.Equal(t, "UNPAID", resp.Entity["status"])

	w = doRequest(router, http.MethodDelete, "/payments/"+payment.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decodeResponse(t, w).Error.Code)
}

func TestPaymentHandler_InvalidID(t *testing.T) {
	svc := new(MockPaymentService)
	w := doRequest(newPaymentRouter(svc, true), http.MethodDelete, "/payments/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "id", decodeResponse(t, w).Error.Details[0].Field)
}

func TestPaymentHandler_GetPayment(t *testing.T) {
	_, payment := partlyPaidSale(t)
	svc := new(MockPaymentService)
	svc.On("GetPayment", mock.Anything, testCaller, payment.ID).Return(payment, nil)

	w := doRequest(newPaymentRouter(svc, true), http.MethodGet, "/payments/"+payment.ID.String(), "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool           `json:"success"`
		Payment map[string]any `json:"payment"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "INCOME", resp.Payment["category"])
}

func TestPaymentHandler_ListPayments(t *testing.T) {
	sale, payment := partlyPaidSale(t)
	svc := new(MockPaymentService)
	svc.On("ListPayments", mock.Anything, testCaller, sale.Ref()).Return([]finance.Payment{*payment}, nil)
	router := newPaymentRouter(svc, true)

	w := doRequest(router, http.MethodGet, "/payments?payableType=SALE&payableId="+sale.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.PaymentListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, payment.ID, resp.Payments[0].ID)

	w = doRequest(router, http.MethodGet, "/payments?payableType=sale", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
