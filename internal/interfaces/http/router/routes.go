package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ledgerbook/backend/internal/interfaces/http/handler"
)

// PaymentRoutes maps the payment ledger endpoints under /payments
func PaymentRoutes(h *handler.PaymentHandler) *DomainGroup {
	return NewDomainGroup("payments", "/payments").
		POST("", h.RecordPayment).
		GET("", h.ListPayments).
		GET("/:id", h.GetPayment).
		PATCH("/:id", h.UpdatePayment).
		DELETE("/:id", h.DeletePayment)
}

// ReportRoutes maps the three financial reports under /reports
func ReportRoutes(h *handler.ReportHandler) *DomainGroup {
	return NewDomainGroup("reports", "/reports").
		GET("/cashflow", h.CashFlow).
		GET("/income", h.Income).
		GET("/expense", h.Expense)
}

// RegisterHealth exposes liveness and readiness at the root and under the API prefix.
// The API copies are in the JWT skip list.
func RegisterHealth(engine *gin.Engine, basePath string, h *handler.HealthHandler) {
	for _, prefix := range []string{"", basePath} {
		engine.GET(prefix+"/health", h.Live)
		engine.GET(prefix+"/health/ready", h.Ready)
	}
}
