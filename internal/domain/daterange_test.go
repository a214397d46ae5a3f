package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, start, end time.Time) DateRange {
	t.Helper()
	r, err := NewDateRange(start, end)
	require.NoError(t, err)
	return r
}

func TestNewDateRange(t *testing.T) {
	t.Run("drops clock component", func(t *testing.T) {
		r, err := NewDateRange(time.Date(2025, 1, 1, 15, 30, 0, 0, time.UTC), date(2025, 1, 3))
		require.NoError(t, err)
		assert.Equal(t, date(2025, 1, 1), r.Start)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := NewDateRange(date(2025, 1, 3), date(2025, 1, 1))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("zero dates", func(t *testing.T) {
		_, err := NewDateRange(time.Time{}, date(2025, 1, 1))
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestDateRange_TotalDays(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected int
	}{
		{"single day", date(2025, 1, 1), date(2025, 1, 1), 1},
		{"three days", date(2025, 1, 1), date(2025, 1, 3), 3},
		{"across month", date(2025, 1, 30), date(2025, 2, 2), 4},
		{"across dst switch", date(2025, 3, 29), date(2025, 3, 31), 3},
		{"leap year", date(2024, 2, 28), date(2024, 3, 1), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mustRange(t, tt.start, tt.end).TotalDays())
		})
	}
}

func TestDateRange_Overlaps(t *testing.T) {
	base := mustRange(t, date(2025, 1, 10), date(2025, 1, 14))

	tests := []struct {
		name     string
		other    DateRange
		expected bool
	}{
		{"identical", base, true},
		{"touches start", mustRange(t, date(2025, 1, 5), date(2025, 1, 10)), true},
		{"touches end", mustRange(t, date(2025, 1, 14), date(2025, 1, 20)), true},
		{"inside", mustRange(t, date(2025, 1, 11), date(2025, 1, 12)), true},
		{"covers", mustRange(t, date(2025, 1, 1), date(2025, 1, 31)), true},
		{"day before", mustRange(t, date(2025, 1, 1), date(2025, 1, 9)), false},
		{"day after", mustRange(t, date(2025, 1, 15), date(2025, 1, 20)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, base.Overlaps(tt.other))
			assert.Equal(t, tt.expected, tt.other.Overlaps(base))
		})
	}
}

func TestDateRange_IsPast(t *testing.T) {
	r := mustRange(t, date(2025, 1, 10), date(2025, 1, 14))

	assert.False(t, r.IsPast(date(2025, 1, 14)))
	assert.True(t, r.IsPast(date(2025, 1, 15)))
	assert.Equal(t, "2025-01-10..2025-01-14", r.String())
}

func TestClassifyEdit(t *testing.T) {
	old := mustRange(t, date(2025, 1, 10), date(2025, 1, 14))

	tests := []struct {
		name     string
		updated  DateRange
		expected EditImpact
	}{
		{"same range", old, EditUnchanged},
		{"narrowed both sides", mustRange(t, date(2025, 1, 11), date(2025, 1, 13)), EditShortened},
		{"later start only", mustRange(t, date(2025, 1, 12), date(2025, 1, 14)), EditShortened},
		{"earlier end only", mustRange(t, date(2025, 1, 10), date(2025, 1, 11)), EditShortened},
		{"earlier start", mustRange(t, date(2025, 1, 9), date(2025, 1, 14)), EditExtended},
		{"later end", mustRange(t, date(2025, 1, 10), date(2025, 1, 15)), EditExtended},
		{"shifted", mustRange(t, date(2025, 1, 12), date(2025, 1, 16)), EditExtended},
		{"disjoint", mustRange(t, date(2025, 2, 1), date(2025, 2, 2)), EditExtended},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			impact := ClassifyEdit(old, tt.updated)
			assert.Equal(t, tt.expected, impact)
			assert.Equal(t, tt.expected == EditExtended, impact.ResetsApprovals())
		})
	}
}
