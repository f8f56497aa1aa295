package shared

import (
	"github.com/google/uuid"
)

// RegistrationType is the legal form of the business owning the ledger
type RegistrationType string

const (
	RegistrationSoleProprietorship   RegistrationType = "SOLE_PROPRIETORSHIP"
	RegistrationPartnership          RegistrationType = "PARTNERSHIP"
	RegistrationLimitedCompany       RegistrationType = "LIMITED_COMPANY"
	RegistrationPublicLimitedCompany RegistrationType = "PUBLIC_LIMITED_COMPANY"
)

// IsValid checks if the registration type is known
func (r RegistrationType) IsValid() bool {
	switch r {
	case RegistrationSoleProprietorship, RegistrationPartnership,
		RegistrationLimitedCompany, RegistrationPublicLimitedCompany:
		return true
	}
	return false
}

// IsLimitedCompany reports whether the business is incorporated
func (r RegistrationType) IsLimitedCompany() bool {
	return r == RegistrationLimitedCompany || r == RegistrationPublicLimitedCompany
}

// Caller identifies who is acting on the ledger.
// It is built by the HTTP layer from the verified token and passed
// explicitly into every application service call.
type Caller struct {
	UserID           uuid.UUID
	RegistrationType RegistrationType
}

// NewCaller creates a caller; an unknown registration type falls back to sole proprietorship
func NewCaller(userID uuid.UUID, registrationType RegistrationType) Caller {
	if !registrationType.IsValid() {
		registrationType = RegistrationSoleProprietorship
	}
	return Caller{UserID: userID, RegistrationType: registrationType}
}

// Validate ensures the caller is authenticated
func (c Caller) Validate() error {
	if c.UserID == uuid.Nil {
		return ErrUnauthorized
	}
	return nil
}

// IncludesOwnerEquity reports whether owner equity movements belong in this caller's cash flow
func (c Caller) IncludesOwnerEquity() bool {
	return c.RegistrationType.IsLimitedCompany()
}
