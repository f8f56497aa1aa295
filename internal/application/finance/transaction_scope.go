package finance

import (
	"context"

	"github.com/ledgerbook/backend/internal/domain/finance"
)

// TransactionScope provides transactional access to the ledger repositories.
// A payment and the parent it belongs to are always written in the same transaction.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories bound to the current transaction.
//
// Payables().FindForUpdate locks the parent row so that concurrent edits of
// sibling payments recalculate one after the other.
type TransactionalRepositories interface {
	// Payments returns the payment repository scoped to the current transaction
	Payments() finance.PaymentRepository
	// Payables returns the parent record repository scoped to the current transaction
	Payables() finance.PayableRepository
}

// NoOpTransactionScope runs the function directly against the given repositories.
// Used in tests and when transaction support is not required.
type NoOpTransactionScope struct {
	payments finance.PaymentRepository
	payables finance.PayableRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(payments finance.PaymentRepository, payables finance.PayableRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{payments: payments, payables: payables}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Payments returns the payment repository.
func (s *NoOpTransactionScope) Payments() finance.PaymentRepository {
	return s.payments
}

// Payables returns the payable repository.
func (s *NoOpTransactionScope) Payables() finance.PayableRepository {
	return s.payables
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
