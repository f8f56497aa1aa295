package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgerbook/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// AggregateModel extends BaseModel with the aggregate version
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// OwnedModel provides the persistence fields of an owned aggregate root.
// Every ledger table carries user_id and every query filters on it.
type OwnedModel struct {
	AggregateModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// FromDomainOwned populates OwnedModel from a domain OwnedAggregateRoot
func (m *OwnedModel) FromDomainOwned(a shared.OwnedAggregateRoot) {
	m.ID = a.ID
	m.CreatedAt = a.CreatedAt
	m.UpdatedAt = a.UpdatedAt
	m.Version = a.Version
	m.UserID = a.UserID
}

// ToDomainOwned converts OwnedModel to a domain OwnedAggregateRoot
func (m *OwnedModel) ToDomainOwned() shared.OwnedAggregateRoot {
	return shared.OwnedAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		UserID: m.UserID,
	}
}
