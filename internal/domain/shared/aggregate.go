package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version int `json:"version"`
}

// GetVersion returns the aggregate version
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// OwnedAggregateRoot is an aggregate root that belongs to a single user.
// Every ledger record is owned; queries are always scoped by owner.
type OwnedAggregateRoot struct {
	BaseAggregateRoot
	UserID uuid.UUID `json:"userId"`
}

// NewOwnedAggregateRoot creates a new aggregate root owned by userID
func NewOwnedAggregateRoot(userID uuid.UUID) OwnedAggregateRoot {
	return OwnedAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		UserID:            userID,
	}
}

// OwnedBy reports whether the aggregate belongs to userID
func (o *OwnedAggregateRoot) OwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}
