package report

import (
	"errors"
	"testing"
	"time"

	"github.com/ledgerbook/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lagos = time.FixedZone("WAT", 3600)

func TestResolveDateRange_ThisYear(t *testing.T) {
	for _, now := range []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, lagos),
		time.Date(2024, 6, 15, 13, 45, 0, 0, lagos),
		time.Date(2024, 12, 31, 23, 59, 0, 0, lagos),
	} {
		r, err := ResolveDateRange(RangeQuery{Range: "thisYear"}, now)
		require.NoError(t, err)
		assert.Equal(t, RangeThisYear, r.Name)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, lagos), r.Start)
		assert.Equal(t, time.Date(2024, 12, 31, 23, 59, 59, 999999999, lagos), r.End)
		assert.Equal(t, 12, r.MonthCount())
	}
}

func TestResolveDateRange_Named(t *testing.T) {
	now := time.Date(2024, 3, 13, 10, 0, 0, 0, lagos) // Wednesday

	tests := []struct {
		name   string
		start  time.Time
		end    time.Time
		months int
	}{
		{"today", time.Date(2024, 3, 13, 0, 0, 0, 0, lagos), time.Date(2024, 3, 13, 23, 59, 59, 999999999, lagos), 1},
		{"thisWeek", time.Date(2024, 3, 11, 0, 0, 0, 0, lagos), time.Date(2024, 3, 17, 23, 59, 59, 999999999, lagos), 1},
		{"thisMonth", time.Date(2024, 3, 1, 0, 0, 0, 0, lagos), time.Date(2024, 3, 31, 23, 59, 59, 999999999, lagos), 1},
		{"lastMonth", time.Date(2024, 2, 1, 0, 0, 0, 0, lagos), time.Date(2024, 2, 29, 23, 59, 59, 999999999, lagos), 1},
		{"thisQuarter", time.Date(2024, 1, 1, 0, 0, 0, 0, lagos), time.Date(2024, 3, 31, 23, 59, 59, 999999999, lagos), 3},
		{"lastQuarter", time.Date(2023, 10, 1, 0, 0, 0, 0, lagos), time.Date(2023, 12, 31, 23, 59, 59, 999999999, lagos), 3},
		{"lastYear", time.Date(2023, 1, 1, 0, 0, 0, 0, lagos), time.Date(2023, 12, 31, 23, 59, 59, 999999999, lagos), 12},
		{"last30Days", time.Date(2024, 2, 13, 0, 0, 0, 0, lagos), time.Date(2024, 3, 13, 23, 59, 59, 999999999, lagos), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ResolveDateRange(RangeQuery{Range: tt.name}, now)
			require.NoError(t, err)
			assert.Equal(t, RangeName(tt.name), r.Name)
			assert.Equal(t, tt.start, r.Start)
			assert.Equal(t, tt.end, r.End)
			assert.Equal(t, tt.months, r.MonthCount())
		})
	}
}

func TestResolveDateRange_LastMonthInJanuary(t *testing.T) {
	r, err := ResolveDateRange(RangeQuery{Range: "lastMonth"}, time.Date(2024, 1, 20, 0, 0, 0, 0, lagos))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, lagos), r.Start)
	assert.Equal(t, time.Date(2023, 12, 31, 23, 59, 59, 999999999, lagos), r.End)
}

func TestResolveDateRange_FallsBackToThisYear(t *testing.T) {
	now := time.Date(2025, 8, 2, 0, 0, 0, 0, lagos)
	for _, q := range []RangeQuery{{}, {Range: "fortnight"}, {Range: "thisMonth "}} {
		r, err := ResolveDateRange(q, now)
		require.NoError(t, err)
		assert.Equal(t, RangeThisYear, r.Name)
		assert.Equal(t, 2025, r.Start.Year())
	}
}

func TestResolveDateRange_Custom(t *testing.T) {
	now := time.Date(2025, 8, 2, 0, 0, 0, 0, lagos)

	t.Run("valid", func(t *testing.T) {
		r, err := ResolveDateRange(RangeQuery{Range: "custom", StartDate: "2024-11-15", EndDate: "2025-02-03"}, now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 11, 15, 0, 0, 0, 0, lagos), r.Start)
		assert.Equal(t, time.Date(2025, 2, 3, 23, 59, 59, 999999999, lagos), r.End)
		assert.Equal(t, 4, r.MonthCount())
	})

	t.Run("implicit custom", func(t *testing.T) {
		r, err := ResolveDateRange(RangeQuery{StartDate: "2025-01-01", EndDate: "2025-01-31"}, now)
		require.NoError(t, err)
		assert.Equal(t, RangeCustom, r.Name)
	})

	t.Run("errors", func(t *testing.T) {
		for _, q := range []RangeQuery{
			{Range: "custom", EndDate: "2025-01-31"},
			{Range: "custom", StartDate: "2025-01-01"},
			{Range: "custom", StartDate: "01/01/2025", EndDate: "2025-01-31"},
			{Range: "custom", StartDate: "2025-02-01", EndDate: "2025-01-31"},
		} {
			_, err := ResolveDateRange(q, now)
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrValidation))
			de, ok := shared.AsDomainError(err)
			require.True(t, ok)
			assert.Len(t, de.Details, 1)
		}
	})
}

func TestMonthCount(t *testing.T) {
	d := func(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 0, 0, 0, 0, time.UTC) }

	assert.Equal(t, 1, MonthCount(d(2024, 5, 1), d(2024, 5, 31)))
	assert.Equal(t, 2, MonthCount(d(2024, 5, 31), d(2024, 6, 1)))
	assert.Equal(t, 13, MonthCount(d(2023, 1, 1), d(2024, 1, 1)))
	assert.Equal(t, 1, MonthCount(d(2024, 6, 1), d(2024, 1, 1)))
}
