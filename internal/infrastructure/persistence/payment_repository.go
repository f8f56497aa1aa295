package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ledgerbook/backend/internal/domain/finance"
	"github.com/ledgerbook/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByIDForUser finds a payment by ID owned by userID
func (r *GormPaymentRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*finance.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, finance.ErrPaymentNotFound
		}
		return nil, TranslateError(err)
	}
	payment, err := model.ToDomain()
	if err != nil {
		return nil, TranslateError(err)
	}
	return payment, nil
}

// FindByPayable lists the payments recorded against a parent, oldest first
func (r *GormPaymentRepository) FindByPayable(ctx context.Context, userID uuid.UUID, ref finance.PayableRef) ([]finance.Payment, error) {
	column, err := models.PayableColumn(ref.Kind)
	if err != nil {
		return nil, TranslateError(err)
	}

	var rows []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND "+column+" = ?", userID, ref.ID).
		Order("payment_date ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, TranslateError(err)
	}

	payments, err := models.PaymentsToDomain(rows)
	if err != nil {
		return nil, TranslateError(err)
	}
	return payments, nil
}

// Create inserts a new payment
func (r *GormPaymentRepository) Create(ctx context.Context, payment *finance.Payment) error {
	var model models.PaymentModel
	model.FromDomain(payment)
	return TranslateError(r.db.WithContext(ctx).Create(&model).Error)
}

// Update writes the mutable payment columns. A payment deleted in the
// meantime reports ErrPaymentNotFound instead of being written back.
func (r *GormPaymentRepository) Update(ctx context.Context, payment *finance.Payment) error {
	var model models.PaymentModel
	model.FromDomain(payment)
	result := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("id = ? AND user_id = ?", model.ID, model.UserID).
		Updates(map[string]any{
			"amount":         model.Amount,
			"payment_method": model.PaymentMethod,
			"payment_date":   model.PaymentDate,
			"reference":      model.Reference,
			"notes":          model.Notes,
			"category":       model.Category,
			"updated_at":     model.UpdatedAt,
			"version":        model.Version,
		})
	if result.Error != nil {
		return TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return finance.ErrPaymentNotFound
	}
	return nil
}

// Delete removes a payment by ID
func (r *GormPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PaymentModel{}, "id = ?", id)
	if result.Error != nil {
		return TranslateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return finance.ErrPaymentNotFound
	}
	return nil
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ finance.PaymentRepository = (*GormPaymentRepository)(nil)
