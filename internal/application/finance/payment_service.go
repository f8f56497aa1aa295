package finance

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ledgerbook/backend/internal/domain/finance"
	"github.com/ledgerbook/backend/internal/domain/shared"
	"github.com/ledgerbook/backend/internal/infrastructure/logger"
	"github.com/ledgerbook/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Payment operations, used in spans and metrics
const (
	OperationRecord = "record"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// ReportInvalidator drops a user's cached reports once their ledger changes
type ReportInvalidator interface {
	InvalidateUser(ctx context.Context, userID uuid.UUID) error
}

// PaymentService records, edits and removes payments and keeps each parent's
// amountPaid, balance and status consistent with its payments.
type PaymentService struct {
	payments finance.PaymentRepository
	payables finance.PayableRepository
	txScope  TransactionScope
	reports  ReportInvalidator
	metrics  *telemetry.LedgerMetrics
}

// NewPaymentService creates a new PaymentService.
// payments and payables serve the read paths; mutations go through txScope.
func NewPaymentService(
	payments finance.PaymentRepository,
	payables finance.PayableRepository,
	txScope TransactionScope,
) *PaymentService {
	return &PaymentService{
		payments: payments,
		payables: payables,
		txScope:  txScope,
	}
}

// SetReportInvalidator sets the cache invalidated after every committed mutation
func (s *PaymentService) SetReportInvalidator(reports ReportInvalidator) {
	s.reports = reports
}

// SetMetrics sets the instruments payment mutations are counted on
func (s *PaymentService) SetMetrics(metrics *telemetry.LedgerMetrics) {
	s.metrics = metrics
}

// RecordPayment creates a payment against a parent record and recalculates the parent
func (s *PaymentService) RecordPayment(ctx context.Context, caller shared.Caller, cmd RecordPaymentCommand) (result *PaymentResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", OperationRecord,
		telemetry.AttrUserID, caller.UserID.String(),
		telemetry.AttrPayableType, cmd.Payable.Kind.String(),
		telemetry.AttrPayableID, cmd.Payable.ID.String(),
		telemetry.AttrAmount, cmd.Amount.String(),
	)
	defer span.End()
	defer func() { s.finish(ctx, span, OperationRecord, cmd.Payable.Kind, err) }()

	if err := caller.Validate(); err != nil {
		return nil, err
	}
	if err := cmd.Payable.Validate(); err != nil {
		return nil, shared.NewDomainError(shared.CodeValidation, err.Error()).
			WithDetail("payableType", err.Error())
	}
	details := cmd.details()
	if err := details.Validate(); err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		parent, err := repos.Payables().FindForUpdate(ctx, caller.UserID, cmd.Payable)
		if err != nil {
			return err
		}
		if err := parent.EnsureAcceptsPayments(); err != nil {
			return err
		}

		existing, err := repos.Payments().FindByPayable(ctx, caller.UserID, cmd.Payable)
		if err != nil {
			return err
		}
		if err := finance.CheckPaymentAmount(parent, details.Amount, finance.Amounts(existing)); err != nil {
			return err
		}

		payment, err := finance.NewPayment(caller.UserID, parent, details)
		if err != nil {
			return err
		}
		if err := repos.Payments().Create(ctx, payment); err != nil {
			return err
		}
		if err := recalculate(ctx, repos, caller.UserID, parent); err != nil {
			return err
		}
		result = newPaymentResult(payment, parent)
		return nil
	})
	if err != nil {
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.AttrPaymentID, result.Payment.ID.String())
	logger.L(ctx).Info("payment recorded",
		zap.String("payment_id", result.Payment.ID.String()),
		zap.String("payable", cmd.Payable.String()),
		zap.String("amount", result.Payment.Amount.String()),
	)
	s.invalidateReports(ctx, caller.UserID)
	return result, nil
}

// UpdatePayment replaces a payment's fields and recalculates its parent.
// The new amount may not exceed the parent's total less every other payment.
func (s *PaymentService) UpdatePayment(ctx context.Context, caller shared.Caller, paymentID uuid.UUID, cmd UpdatePaymentCommand) (result *PaymentResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", OperationUpdate,
		telemetry.AttrUserID, caller.UserID.String(),
		telemetry.AttrPaymentID, paymentID.String(),
		telemetry.AttrAmount, cmd.Amount.String(),
	)
	defer span.End()

	var kind finance.PayableKind
	defer func() { s.finish(ctx, span, OperationUpdate, kind, err) }()

	if err := caller.Validate(); err != nil {
		return nil, err
	}
	details := cmd.details()
	if err := details.Validate(); err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		payment, parent, err := lockPayment(ctx, repos, caller.UserID, paymentID)
		if err != nil {
			return err
		}
		kind = payment.Payable.Kind
		if err := parent.EnsureAcceptsPayments(); err != nil {
			return err
		}

		siblings, err := repos.Payments().FindByPayable(ctx, caller.UserID, payment.Payable)
		if err != nil {
			return err
		}
		if err := finance.CheckPaymentAmount(parent, details.Amount, finance.AmountsExcluding(siblings, payment.ID)); err != nil {
			return err
		}

		if err := payment.Update(details); err != nil {
			return err
		}
		if err := repos.Payments().Update(ctx, payment); err != nil {
			return err
		}
		if err := recalculate(ctx, repos, caller.UserID, parent); err != nil {
			return err
		}
		result = newPaymentResult(payment, parent)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("payment updated",
		zap.String("payment_id", paymentID.String()),
		zap.String("payable", result.Payment.Payable.String()),
		zap.String("amount", result.Payment.Amount.String()),
	)
	s.invalidateReports(ctx, caller.UserID)
	return result, nil
}

// DeletePayment removes a payment and recalculates its parent from the remaining payments.
// Deleting a payment that no longer exists returns a not-found error.
func (s *PaymentService) DeletePayment(ctx context.Context, caller shared.Caller, paymentID uuid.UUID) (result *PaymentResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", OperationDelete,
		telemetry.AttrUserID, caller.UserID.String(),
		telemetry.AttrPaymentID, paymentID.String(),
	)
	defer span.End()

	var kind finance.PayableKind
	defer func() { s.finish(ctx, span, OperationDelete, kind, err) }()

	if err := caller.Validate(); err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		payment, parent, err := lockPayment(ctx, repos, caller.UserID, paymentID)
		if err != nil {
			return err
		}
		kind = payment.Payable.Kind
		if err := parent.EnsureAcceptsPayments(); err != nil {
			return err
		}

		if err := repos.Payments().Delete(ctx, payment.ID); err != nil {
			return err
		}
		if err := recalculate(ctx, repos, caller.UserID, parent); err != nil {
			return err
		}
		result = newPaymentResult(payment, parent)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("payment deleted",
		zap.String("payment_id", paymentID.String()),
		zap.String("payable", result.Payment.Payable.String()),
	)
	s.invalidateReports(ctx, caller.UserID)
	return result, nil
}

// GetPayment returns a payment owned by the caller
func (s *PaymentService) GetPayment(ctx context.Context, caller shared.Caller, paymentID uuid.UUID) (*finance.Payment, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	return s.payments.FindByIDForUser(ctx, caller.UserID, paymentID)
}

// ListPayments returns every payment recorded against a parent owned by the caller
func (s *PaymentService) ListPayments(ctx context.Context, caller shared.Caller, ref finance.PayableRef) ([]finance.Payment, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	if err := ref.Validate(); err != nil {
		return nil, shared.NewDomainError(shared.CodeValidation, err.Error())
	}
	if _, err := s.payables.FindByRef(ctx, caller.UserID, ref); err != nil {
		return nil, err
	}
	return s.payments.FindByPayable(ctx, caller.UserID, ref)
}

// lockPayment locks the payment's parent and then reads the payment again.
// Every mutation of a parent's payments holds that lock, so the second read
// sees any update or delete that committed while this transaction waited.
func lockPayment(ctx context.Context, repos TransactionalRepositories, userID, paymentID uuid.UUID) (*finance.Payment, finance.Payable, error) {
	payment, err := repos.Payments().FindByIDForUser(ctx, userID, paymentID)
	if err != nil {
		return nil, nil, err
	}
	parent, err := repos.Payables().FindForUpdate(ctx, userID, payment.Payable)
	if err != nil {
		return nil, nil, err
	}
	payment, err = repos.Payments().FindByIDForUser(ctx, userID, paymentID)
	if err != nil {
		return nil, nil, err
	}
	return payment, parent, nil
}

// recalculate reloads the parent's payments inside the transaction and writes the derived fields
func recalculate(ctx context.Context, repos TransactionalRepositories, userID uuid.UUID, parent finance.Payable) error {
	payments, err := repos.Payments().FindByPayable(ctx, userID, parent.Ref())
	if err != nil {
		return err
	}
	parent.ApplyPayments(finance.Amounts(payments))
	return repos.Payables().Save(ctx, parent)
}

func (s *PaymentService) invalidateReports(ctx context.Context, userID uuid.UUID) {
	if s.reports == nil {
		return
	}
	if err := s.reports.InvalidateUser(ctx, userID); err != nil {
		logger.L(ctx).Warn("failed to invalidate cached reports", zap.Error(err))
	}
}

func (s *PaymentService) finish(ctx context.Context, span trace.Span, operation string, kind finance.PayableKind, err error) {
	s.metrics.PaymentMutation(ctx, operation, kind.String(), err)
	if err == nil {
		return
	}
	telemetry.RecordError(span, err)

	var de *shared.DomainError
	if errors.As(err, &de) {
		switch de.Code {
		case shared.CodeInternal, shared.CodeDatabaseUnavailable, shared.CodeTransactionTimeout:
		default:
			logger.L(ctx).Info("payment "+operation+" rejected",
				zap.String("code", de.Code), zap.String("reason", de.Message))
			return
		}
	}
	logger.L(ctx).Error("payment "+operation+" failed", zap.Error(err))
}
