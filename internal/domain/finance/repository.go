package finance

import (
	"context"

	"github.com/google/uuid"
)

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByIDForUser finds a payment owned by userID
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Payment, error)

	// FindByPayable lists every payment recorded against a parent, oldest first
	FindByPayable(ctx context.Context, userID uuid.UUID, ref PayableRef) ([]Payment, error)

	// Create inserts a new payment
	Create(ctx context.Context, payment *Payment) error

	// Update overwrites an existing payment's details.
	// Returns ErrPaymentNotFound when the row is gone; it never re-inserts.
	Update(ctx context.Context, payment *Payment) error

	// Delete removes a payment
	Delete(ctx context.Context, id uuid.UUID) error
}

// PayableRepository loads and stores the parents payments are recorded against
type PayableRepository interface {
	// FindByRef finds a payable owned by userID
	FindByRef(ctx context.Context, userID uuid.UUID, ref PayableRef) (Payable, error)

	// FindForUpdate finds a payable and locks its row for the rest of the transaction
	FindForUpdate(ctx context.Context, userID uuid.UUID, ref PayableRef) (Payable, error)

	// Save creates or updates a payable
	Save(ctx context.Context, payable Payable) error
}
