package persistence

import (
	"context"
	"errors"
	"fmt"

	appfinance "github.com/ledgerbook/backend/internal/application/finance"
	"github.com/ledgerbook/backend/internal/domain/finance"
	"github.com/ledgerbook/backend/internal/domain/shared"
	"github.com/ledgerbook/backend/internal/infrastructure/config"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Every transaction is bounded by the configured total timeout; on Postgres the
// row-lock wait and statement time are bounded server side as well.
type GormTransactionScope struct {
	db  *gorm.DB
	cfg config.TransactionConfig
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB, cfg config.TransactionConfig) *GormTransactionScope {
	return &GormTransactionScope{db: db, cfg: cfg}
}

// Execute runs fn within a database transaction.
// If fn returns an error the transaction is rolled back, otherwise it is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appfinance.TransactionalRepositories) error) error {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.applyLimits(tx); err != nil {
			return err
		}
		return fn(&gormTransactionalRepositories{tx: tx})
	})
	if err == nil {
		return nil
	}
	if _, ok := shared.AsDomainError(err); !ok && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return shared.WrapDomainError(shared.CodeTransactionTimeout, shared.ErrTransactionTimeout.Message, err)
	}
	return TranslateError(err)
}

func (s *GormTransactionScope) applyLimits(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	if s.cfg.LockWait > 0 {
		if err := tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.cfg.LockWait.Milliseconds())).Error; err != nil {
			return err
		}
	}
	if s.cfg.Timeout > 0 {
		if err := tx.Exec(fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", s.cfg.Timeout.Milliseconds())).Error; err != nil {
			return err
		}
	}
	return nil
}

// gormTransactionalRepositories provides access to all repositories within a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Payments returns the payment repository scoped to the current transaction
func (r *gormTransactionalRepositories) Payments() finance.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

// Payables returns the payable repository scoped to the current transaction
func (r *gormTransactionalRepositories) Payables() finance.PayableRepository {
	return NewGormPayableRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appfinance.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appfinance.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
