package finance

// DocumentStatus is the payment state of a sale, quotation or purchase
type DocumentStatus string

const (
	StatusUnpaid            DocumentStatus = "UNPAID"
	StatusPartiallyPaid     DocumentStatus = "PARTIALLY_PAID"
	StatusPaid              DocumentStatus = "PAID"
	StatusRefunded          DocumentStatus = "REFUNDED"
	StatusPartiallyRefunded DocumentStatus = "PARTIALLY_REFUNDED"

	// Quotation-only lifecycle states
	StatusDraft     DocumentStatus = "DRAFT"
	StatusSent      DocumentStatus = "SENT"
	StatusExpired   DocumentStatus = "EXPIRED"
	StatusCancelled DocumentStatus = "CANCELLED"
)

// IsValid checks if the status is a valid DocumentStatus
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusUnpaid, StatusPartiallyPaid, StatusPaid, StatusRefunded, StatusPartiallyRefunded,
		StatusDraft, StatusSent, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// IsRefundState returns true for REFUNDED and PARTIALLY_REFUNDED
func (s DocumentStatus) IsRefundState() bool {
	return s == StatusRefunded || s == StatusPartiallyRefunded
}

// IsClosedQuotation returns true for quotations that can no longer be paid
func (s DocumentStatus) IsClosedQuotation() bool {
	return s == StatusExpired || s == StatusCancelled
}

// AcceptsPayments returns false when payment mutations must be rejected
func (s DocumentStatus) AcceptsPayments() bool {
	return !s.IsRefundState() && !s.IsClosedQuotation()
}

// PaymentStatuses are the states a document moves through as payments arrive
var PaymentStatuses = []DocumentStatus{StatusUnpaid, StatusPartiallyPaid, StatusPaid}

// IncomeStatuses are the document states counted as earned income
var IncomeStatuses = []DocumentStatus{StatusUnpaid, StatusPartiallyPaid, StatusPaid, StatusPartiallyRefunded}

// ExcludedQuotationStatuses are never counted as income
var ExcludedQuotationStatuses = []DocumentStatus{StatusDraft, StatusSent, StatusExpired, StatusCancelled}

// CountsAsIncome reports whether a document in this status belongs in the income report.
// Both the inclusion list and the quotation exclusion list are applied.
func (s DocumentStatus) CountsAsIncome() bool {
	for _, x := range ExcludedQuotationStatuses {
		if s == x {
			return false
		}
	}
	for _, in := range IncomeStatuses {
		if s == in {
			return true
		}
	}
	return false
}

// LoanStatus represents the repayment state of a loan
type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "ACTIVE"
	LoanStatusPaidOff   LoanStatus = "PAID_OFF"
	LoanStatusDefaulted LoanStatus = "DEFAULTED"
)

// IsValid checks if the status is a valid LoanStatus
func (s LoanStatus) IsValid() bool {
	switch s {
	case LoanStatusActive, LoanStatusPaidOff, LoanStatusDefaulted:
		return true
	}
	return false
}

// String returns the string representation of LoanStatus
func (s LoanStatus) String() string {
	return string(s)
}
