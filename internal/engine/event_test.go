package engine

import (
	"testing"
	"time"

	"github.com/birthdaydesk/birthdaydesk/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStatusFromCake pins the canonical cake-to-status mapping used by every
// surface. Changing this mapping silently would desynchronize the year view
// from the month counts.
func TestStatusFromCake(t *testing.T) {
	tests := []struct {
		cake     roster.CakeStatus
		expected roster.CelebrationStatus
	}{
		{roster.CakeNotOrdered, roster.StatusPlanned},
		{roster.CakeOrdered, roster.StatusInProgress},
		{roster.CakeReady, roster.StatusInProgress},
		{roster.CakeDelivered, roster.StatusCompleted},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, StatusFromCake(tt.cake), "cake status %q", tt.cake)
	}
}

func sampleRecords() []roster.StaffRecord {
	return []roster.StaffRecord{
		{
			ID: "1", Name: "Ada", Department: "Engineering", CelebrationTime: "10:00",
			BirthDate: time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC), HasBirthDate: true, BirthYearKnown: true,
			CakeStatus: roster.CakeDelivered,
		},
		{
			ID: "2", Name: "Bob", Department: "Sales", CelebrationTime: "14:30",
			BirthDate: time.Date(1985, 1, 5, 0, 0, 0, 0, time.UTC), HasBirthDate: true, BirthYearKnown: true,
			CakeStatus: roster.CakeOrdered,
		},
		{
			ID: "3", Name: "NoBirthday", Department: "HR",
		},
	}
}

// TestEventsForYear excludes birthless records and projects dates into the
// requested year.
func TestEventsForYear(t *testing.T) {
	events := EventsForYear(sampleRecords(), 2026, LeapDayMarch1)
	require.Len(t, events, 2, "Records without a birth date stay out of date views")

	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), events[0].Date)
	assert.Equal(t, roster.TypeBirthday, events[0].Type)
	assert.Equal(t, roster.StatusCompleted, events[0].Status)
	assert.Equal(t, roster.StatusInProgress, events[1].Status)
}

// TestEventsForReference fills roll-forward day counts.
func TestEventsForReference(t *testing.T) {
	ref := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	events, err := EventsForReference(sampleRecords(), ref, LeapDayMarch1)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, 0, events[0].DaysUntil, "Ada's birthday is today")
	// Bob's Jan 5 passed; rolled to 2027-01-05.
	assert.Equal(t, 296, events[1].DaysUntil)
}

func TestEventsForReference_ZeroDate(t *testing.T) {
	_, err := EventsForReference(sampleRecords(), time.Time{}, LeapDayMarch1)
	assert.ErrorIs(t, err, ErrInvalidReferenceDate)
}
