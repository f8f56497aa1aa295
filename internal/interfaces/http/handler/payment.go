package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	financeapp "github.com/ledgerbook/backend/internal/application/finance"
	"github.com/ledgerbook/backend/internal/domain/finance"
	"github.com/ledgerbook/backend/internal/domain/shared"
	"github.com/ledgerbook/backend/internal/interfaces/http/dto"
	"github.com/ledgerbook/backend/internal/interfaces/http/middleware"
)

// PaymentService is the part of the payment ledger the HTTP layer drives
type PaymentService interface {
	RecordPayment(ctx context.Context, caller shared.Caller, cmd financeapp.RecordPaymentCommand) (*financeapp.PaymentResult, error)
	UpdatePayment(ctx context.Context, caller shared.Caller, paymentID uuid.UUID, cmd financeapp.UpdatePaymentCommand) (*financeapp.PaymentResult, error)
	DeletePayment(ctx context.Context, caller shared.Caller, paymentID uuid.UUID) (*financeapp.PaymentResult, error)
	GetPayment(ctx context.Context, caller shared.Caller, paymentID uuid.UUID) (*finance.Payment, error)
	ListPayments(ctx context.Context, caller shared.Caller, ref finance.PayableRef) ([]finance.Payment, error)
}

// PaymentHandler handles payment API endpoints
type PaymentHandler struct {
	BaseHandler
	payments PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(payments PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// RecordPayment godoc
// @ID           recordPayment
// @Summary      Record a payment
// @Description  Records a payment against a sale, quotation, purchase, loan, income or expense record and recalculates the record
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body dto.CreatePaymentRequest true "Payment"
// @Success      201 {object} dto.PaymentMutationResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments [post]
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	ref, err := parsePayableRef(req.PayableType, req.PayableID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paymentDate, err := parsePaymentDate(req.PaymentDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.payments.RecordPayment(c.Request.Context(), caller, financeapp.RecordPaymentCommand{
		Payable:       ref,
		Amount:        *req.Amount,
		PaymentMethod: finance.PaymentMethod(req.PaymentMethod),
		PaymentDate:   paymentDate,
		Reference:     strings.TrimSpace(req.Reference),
		Notes:         strings.TrimSpace(req.Notes),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mutationResponse("Payment recorded successfully", result))
}

// UpdatePayment godoc
// @ID           updatePayment
// @Summary      Update a payment
// @Description  Replaces amount, method and date of a payment and recalculates its parent record
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body dto.UpdatePaymentRequest true "Payment fields"
// @Success      200 {object} dto.PaymentMutationResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id} [patch]
func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	paymentID, ok := h.paymentID(c)
	if !ok {
		return
	}

	var req dto.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	paymentDate, err := parsePaymentDate(req.PaymentDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.payments.UpdatePayment(c.Request.Context(), caller, paymentID, financeapp.UpdatePaymentCommand{
		Amount:        *req.AmountPaid,
		PaymentMethod: finance.PaymentMethod(req.PaymentMethod),
		PaymentDate:   paymentDate,
		Reference:     strings.TrimSpace(req.Reference),
		Notes:         strings.TrimSpace(req.Notes),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, mutationResponse("Payment updated successfully", result))
}

// DeletePayment godoc
// @ID           deletePayment
// @Summary      Delete a payment
// @Description  Removes a payment and recalculates its parent record without it
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} dto.PaymentMutationResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id} [delete]
func (h *PaymentHandler) DeletePayment(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	paymentID, ok := h.paymentID(c)
	if !ok {
		return
	}

	result, err := h.payments.DeletePayment(c.Request.Context(), caller, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, mutationResponse("Payment deleted successfully", result))
}

// GetPayment godoc
// @ID           getPayment
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} dto.PaymentResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	paymentID, ok := h.paymentID(c)
	if !ok {
		return
	}

	payment, err := h.payments.GetPayment(c.Request.Context(), caller, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PaymentResponse{Success: true, Payment: payment})
}

// ListPayments godoc
// @ID           listPayments
// @Summary      List the payments of a record
// @Tags         payments
// @Produce      json
// @Param        payableType query string true "sale, quotation, purchase, loan, income or expense"
// @Param        payableId   query string true "Parent record ID" format(uuid)
// @Success      200 {object} dto.PaymentListResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var q dto.ListPaymentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	ref, err := parsePayableRef(q.PayableType, q.PayableID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	payments, err := h.payments.ListPayments(c.Request.Context(), caller, ref)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if payments == nil {
		payments = []finance.Payment{}
	}

	c.JSON(http.StatusOK, dto.PaymentListResponse{Success: true, Payments: payments, Total: len(payments)})
}

func (h *PaymentHandler) paymentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.ValidationError(c, "Invalid payment ID", []dto.ValidationDetail{{Field: "id", Message: "must be a valid UUID"}})
		return uuid.Nil, false
	}
	return id, true
}

func mutationResponse(message string, result *financeapp.PaymentResult) dto.PaymentMutationResponse {
	return dto.PaymentMutationResponse{
		Message:    message,
		Success:    true,
		Payment:    result.Payment,
		Entity:     result.Entity,
		EntityType: result.EntityType,
	}
}

func parsePayableRef(kind, id string) (finance.PayableRef, error) {
	k, err := finance.ParsePayableKind(kind)
	if err != nil {
		return finance.PayableRef{}, shared.NewDomainError(shared.CodeValidation, "Invalid payable type").
			WithDetail("payableType", "is not a known record type")
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return finance.PayableRef{}, shared.NewDomainError(shared.CodeValidation, "Invalid payable ID").
			WithDetail("payableId", "must be a valid UUID")
	}
	return finance.PayableRef{Kind: k, ID: parsed}, nil
}

func parsePaymentDate(s string) (time.Time, error) {
	for _, layout := range dto.PaymentDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, shared.NewDomainError(shared.CodeValidation, "Invalid payment date").
		WithDetail("paymentDate", "must be a date in YYYY-MM-DD or RFC 3339 format")
}
