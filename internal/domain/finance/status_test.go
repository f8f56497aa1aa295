package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  DocumentStatus
		isValid bool
	}{
		{StatusUnpaid, true},
		{StatusPartiallyPaid, true},
		{StatusPaid, true},
		{StatusRefunded, true},
		{StatusPartiallyRefunded, true},
		{StatusDraft, true},
		{DocumentStatus("INVALID"), false},
		{DocumentStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestDocumentStatus_AcceptsPayments(t *testing.T) {
	accepts := []DocumentStatus{StatusUnpaid, StatusPartiallyPaid, StatusPaid, StatusDraft, StatusSent}
	rejects := []DocumentStatus{StatusRefunded, StatusPartiallyRefunded, StatusExpired, StatusCancelled}

	for _, s := range accepts {
		assert.True(t, s.AcceptsPayments(), s)
	}
	for _, s := range rejects {
		assert.False(t, s.AcceptsPayments(), s)
	}
}

func TestDocumentStatus_CountsAsIncome(t *testing.T) {
	assert.True(t, StatusUnpaid.CountsAsIncome())
	assert.True(t, StatusPartiallyPaid.CountsAsIncome())
	assert.True(t, StatusPaid.CountsAsIncome())
	assert.True(t, StatusPartiallyRefunded.CountsAsIncome())
	assert.False(t, StatusRefunded.CountsAsIncome())
	assert.False(t, StatusDraft.CountsAsIncome())
	assert.False(t, StatusSent.CountsAsIncome())
	assert.False(t, StatusExpired.CountsAsIncome())
	assert.False(t, StatusCancelled.CountsAsIncome())
}

func TestParsePayableKind(t *testing.T) {
	k, err := ParsePayableKind("expense")
	assert.NoError(t, err)
	assert.Equal(t, PayableOtherExpenses, k)

	k, err = ParsePayableKind("SALE")
	assert.NoError(t, err)
	assert.Equal(t, PayableSale, k)

	_, err = ParsePayableKind("invoice")
	assert.Error(t, err)
}
