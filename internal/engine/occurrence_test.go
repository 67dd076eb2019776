package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOccurrenceOf verifies the core temporal logic: same-day detection,
// year-end rollover and day counting.
func TestOccurrenceOf(t *testing.T) {
	tests := []struct {
		name          string
		birthDate     time.Time
		referenceDate time.Time
		rollForward   bool
		expectedDate  time.Time
		expectedDays  int
		thisMonth     bool
		desc          string
	}{
		{
			name:          "Birthday today",
			birthDate:     time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC),
			referenceDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			rollForward:   true,
			expectedDate:  time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			expectedDays:  0,
			thisMonth:     true,
			desc:          "The day itself counts as zero days away, not 365",
		},
		{
			name:          "Year-end rollover",
			birthDate:     time.Date(1985, 1, 5, 0, 0, 0, 0, time.UTC),
			referenceDate: time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC),
			rollForward:   true,
			expectedDate:  time.Date(2027, 1, 5, 0, 0, 0, 0, time.UTC),
			expectedDays:  16,
			thisMonth:     false,
			desc:          "Jan 5 already passed in 2026, so the occurrence is Jan 5 2027",
		},
		{
			name:          "Future this year",
			birthDate:     time.Date(1990, 12, 31, 0, 0, 0, 0, time.UTC),
			referenceDate: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
			rollForward:   true,
			expectedDate:  time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
			expectedDays:  199,
			thisMonth:     false,
			desc:          "Upcoming dates stay in the reference year",
		},
		{
			name:          "Passed without roll-forward keeps signed delta",
			birthDate:     time.Date(1990, 6, 10, 0, 0, 0, 0, time.UTC),
			referenceDate: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
			rollForward:   false,
			expectedDate:  time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
			expectedDays:  -5,
			thisMonth:     true,
			desc:          "Month views need the negative delta for already-passed dates",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occ, err := OccurrenceOf(tt.birthDate, tt.referenceDate, OccurrenceOptions{RollForward: tt.rollForward})
			require.NoError(t, err)
			assert.Equal(t, tt.expectedDate, occ.ThisOccurrence, tt.desc)
			assert.Equal(t, tt.expectedDays, occ.DaysUntil, tt.desc)
			assert.Equal(t, tt.thisMonth, occ.IsThisMonth)
		})
	}
}

// TestOccurrenceOf_ZeroReference rejects the zero time explicitly.
func TestOccurrenceOf_ZeroReference(t *testing.T) {
	_, err := OccurrenceOf(time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC), time.Time{}, OccurrenceOptions{})
	assert.ErrorIs(t, err, ErrInvalidReferenceDate)
}

// TestOccurrenceOf_MidDayReference checks the ceiling behavior: a birthday
// tomorrow is one day away even when asked at mid-day.
func TestOccurrenceOf_MidDayReference(t *testing.T) {
	birthDate := time.Date(1990, 3, 16, 0, 0, 0, 0, time.UTC)
	ref := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	occ, err := OccurrenceOf(birthDate, ref, OccurrenceOptions{RollForward: true})
	require.NoError(t, err)
	assert.Equal(t, 1, occ.DaysUntil, "13.5 hours away rounds up to one day")
}

// TestOccurrenceOf_LeapDayPolicies pins down where a Feb 29 birth date falls.
func TestOccurrenceOf_LeapDayPolicies(t *testing.T) {
	leapling := time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC)

	t.Run("Non-leap year, March 1 policy", func(t *testing.T) {
		ref := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
		occ, err := OccurrenceOf(leapling, ref, OccurrenceOptions{RollForward: true, LeapDay: LeapDayMarch1})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), occ.ThisOccurrence)
	})

	t.Run("Non-leap year, Feb 28 policy", func(t *testing.T) {
		ref := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
		occ, err := OccurrenceOf(leapling, ref, OccurrenceOptions{RollForward: true, LeapDay: LeapDayFeb28})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), occ.ThisOccurrence)
	})

	t.Run("Leap year keeps Feb 29 under both policies", func(t *testing.T) {
		ref := time.Date(2028, 1, 10, 0, 0, 0, 0, time.UTC)
		for _, policy := range []LeapDayPolicy{LeapDayMarch1, LeapDayFeb28} {
			occ, err := OccurrenceOf(leapling, ref, OccurrenceOptions{RollForward: true, LeapDay: policy})
			require.NoError(t, err)
			assert.Equal(t, time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC), occ.ThisOccurrence)
		}
	})
}

// TestOccurrenceOf_DaysUntilRange sweeps a full year of birth dates and
// checks the roll-forward guarantee: DaysUntil always lands in [0, 366).
func TestOccurrenceOf_DaysUntilRange(t *testing.T) {
	ref := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) // leap year covers Feb 29
	for day.Year() == 2024 {
		occ, err := OccurrenceOf(day, ref, OccurrenceOptions{RollForward: true})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, occ.DaysUntil, 0, "date %s", day.Format("01-02"))
		assert.Less(t, occ.DaysUntil, 366, "date %s", day.Format("01-02"))
		day = day.AddDate(0, 0, 1)
	}
}

func TestParseLeapDayPolicy(t *testing.T) {
	p, err := ParseLeapDayPolicy("")
	require.NoError(t, err)
	assert.Equal(t, LeapDayMarch1, p, "Empty selects the default")

	p, err = ParseLeapDayPolicy("feb28")
	require.NoError(t, err)
	assert.Equal(t, LeapDayFeb28, p)

	_, err = ParseLeapDayPolicy("feb30")
	assert.Error(t, err)
}

func TestIsSameCelebrationMonth(t *testing.T) {
	birth := time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.True(t, IsSameCelebrationMonth(birth, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, IsSameCelebrationMonth(birth, time.Date(1800, 3, 31, 0, 0, 0, 0, time.UTC)), "Years are ignored")
	assert.False(t, IsSameCelebrationMonth(birth, time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)))
}
